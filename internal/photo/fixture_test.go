package photo

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// gpsTIFF builds a big-endian TIFF block with IFD0 {Make, GPS pointer} and a
// GPS IFD holding 40°26'46.3"N 79°58'56.5"W.
func gpsTIFF(t *testing.T) []byte {
	t.Helper()
	var b bytes.Buffer
	w := func(v any) {
		if err := binary.Write(&b, binary.BigEndian, v); err != nil {
			t.Fatalf("build tiff: %v", err)
		}
	}

	b.WriteString("MM")
	w(uint16(42))
	w(uint32(8))

	// IFD0 at 8
	w(uint16(2))
	w(uint16(0x010F)) // Make, ASCII, stored at 38
	w(uint16(2))
	w(uint32(5))
	w(uint32(38))
	w(uint16(0x8825)) // GPS IFD pointer, LONG
	w(uint16(4))
	w(uint32(1))
	w(uint32(44))
	w(uint32(0))

	b.WriteString("Test\x00")
	b.WriteByte(0)

	// GPS IFD at 44
	w(uint16(4))
	w(uint16(1)) // GPSLatitudeRef
	w(uint16(2))
	w(uint32(2))
	b.Write([]byte{'N', 0, 0, 0})
	w(uint16(2)) // GPSLatitude, RATIONAL x3 at 98
	w(uint16(5))
	w(uint32(3))
	w(uint32(98))
	w(uint16(3)) // GPSLongitudeRef
	w(uint16(2))
	w(uint32(2))
	b.Write([]byte{'W', 0, 0, 0})
	w(uint16(4)) // GPSLongitude, RATIONAL x3 at 122
	w(uint16(5))
	w(uint32(3))
	w(uint32(122))
	w(uint32(0))

	for _, v := range []uint32{40, 1, 26, 1, 463, 10, 79, 1, 58, 1, 565, 10} {
		w(v)
	}
	if b.Len() != 146 {
		t.Fatalf("tiff block is %d bytes, offsets assume 146", b.Len())
	}
	return b.Bytes()
}

func plainJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for x := 0; x < 8; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// unknownTagTIFF builds a little-endian TIFF block whose IFD0 holds Make
// and tag 0x9999, which no EXIF table names.
func unknownTagTIFF(t *testing.T) []byte {
	t.Helper()
	var b bytes.Buffer
	w := func(v any) {
		if err := binary.Write(&b, binary.LittleEndian, v); err != nil {
			t.Fatalf("build tiff: %v", err)
		}
	}

	b.WriteString("II")
	w(uint16(42))
	w(uint32(8))

	w(uint16(2))
	w(uint16(0x010F)) // Make, ASCII, inline
	w(uint16(2))
	w(uint32(4))
	b.WriteString("Abc\x00")
	w(uint16(0x9999)) // unnamed, ASCII, inline
	w(uint16(2))
	w(uint32(3))
	b.WriteString("hi\x00\x00")
	w(uint32(0))
	return b.Bytes()
}

func geotaggedJPEG(t *testing.T) []byte {
	t.Helper()
	return jpegWithExif(t, gpsTIFF(t))
}

// jpegWithExif splices an APP1 Exif segment holding tiffBlock right after
// the SOI marker.
func jpegWithExif(t *testing.T, tiffBlock []byte) []byte {
	t.Helper()
	raw := plainJPEG(t)
	payload := append([]byte("Exif\x00\x00"), tiffBlock...)

	var out bytes.Buffer
	out.Write(raw[:2])
	out.Write([]byte{0xFF, 0xE1})
	binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(raw[2:])
	return out.Bytes()
}

func plainPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// pngWithExif inserts an eXIf chunk holding tiffBlock after IHDR.
func pngWithExif(t *testing.T, tiffBlock []byte) []byte {
	t.Helper()
	raw := plainPNG(t)
	const ihdrEnd = 8 + 4 + 4 + 13 + 4 // signature, length, type, data, crc

	var chunk bytes.Buffer
	binary.Write(&chunk, binary.BigEndian, uint32(len(tiffBlock)))
	chunk.WriteString("eXIf")
	chunk.Write(tiffBlock)
	binary.Write(&chunk, binary.BigEndian, crc32.ChecksumIEEE(chunk.Bytes()[4:]))

	var out bytes.Buffer
	out.Write(raw[:ihdrEnd])
	out.Write(chunk.Bytes())
	out.Write(raw[ihdrEnd:])
	return out.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
