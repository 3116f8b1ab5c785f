package photo

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/electronjoe/exifmap/internal/geo"
)

// Decode opens path, checks that it is a decodable image and reads its EXIF
// fields. A file that decodes as an image but carries no usable EXIF block
// comes back with NoExif set and a nil error. Errors are returned only when
// the file cannot be opened or is not an image.
func Decode(path string) (Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return Image{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	// image.DecodeConfig reads the header only, not the whole bitmap
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Image{}, fmt.Errorf("decode config failed for %s: %w", path, err)
	}
	img := Image{Width: cfg.Width, Height: cfg.Height, Format: format}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Image{}, fmt.Errorf("rewind %s: %w", path, err)
	}

	var src io.Reader = f
	if format == "png" {
		// goexif only finds JPEG APP1 segments, PNG keeps EXIF in an eXIf chunk
		payload, err := pngExif(f)
		if err != nil || payload == nil {
			img.NoExif = true
			return img, nil
		}
		src = bytes.NewReader(payload)
	}

	x, err := exif.Decode(src)
	if err != nil {
		if exif.IsCriticalError(err) || x == nil {
			img.NoExif = true
			return img, nil
		}
		img.Partial = err
	}

	img.Entries = collectEntries(x)
	img.NoExif = len(img.Entries) == 0
	return img, nil
}

// collectEntries lists the tags of IFD0 and of the Exif, GPS and
// Interoperability sub-IFDs in file order. goexif only keeps the tags it has
// a name for, so its names are matched back onto the raw directories and
// every other tag is kept with an empty name.
func collectEntries(x *exif.Exif) []Entry {
	if x.Tiff == nil || len(x.Tiff.Dirs) == 0 {
		return nil
	}
	names := newNameIndex()
	x.Walk(names)

	entries := appendDir(nil, x.Tiff.Dirs[0], names, false)
	subs := []struct {
		ptr exif.FieldName
		gps bool
	}{
		{exif.ExifIFDPointer, false},
		{exif.GPSInfoIFDPointer, true},
		{exif.InteroperabilityIFDPointer, false},
	}
	for _, sub := range subs {
		if d := subDir(x, sub.ptr); d != nil {
			entries = appendDir(entries, d, names, sub.gps)
		}
	}
	return entries
}

func appendDir(entries []Entry, d *tiff.Dir, names *nameIndex, gps bool) []Entry {
	for _, tag := range d.Tags {
		var e Entry
		if gps {
			e = newEntry(gpsTagNames[tag.Id], tag)
			e.GPS = true
		} else {
			e = newEntry(names.lookup(tag), tag)
		}
		entries = append(entries, e)
	}
	return entries
}

// subDir decodes the sub-IFD that the pointer field ptr refers to, or
// returns nil when it is absent or unreadable. goexif reports the read
// error itself through Decode.
func subDir(x *exif.Exif, ptr exif.FieldName) *tiff.Dir {
	tag, err := x.Get(ptr)
	if err != nil {
		return nil
	}
	offset, err := tag.Int64(0)
	if err != nil {
		return nil
	}
	r := bytes.NewReader(x.Raw)
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return nil
	}
	d, _, err := tiff.DecodeDir(r, x.Tiff.Order)
	if err != nil {
		return nil
	}
	return d
}

// nameIndex implements exif.Walker, recording the names goexif gave to the
// tags it recognised.
type nameIndex struct {
	byTag map[*tiff.Tag]string
	// byID covers tags whose map slot goexif overwrote with a later
	// directory's tag of the same name. GPS ids overlap other ids and are
	// named from gpsTagNames instead.
	byID map[uint16]string
}

func newNameIndex() *nameIndex {
	return &nameIndex{
		byTag: make(map[*tiff.Tag]string),
		byID:  make(map[uint16]string),
	}
}

func (n *nameIndex) Walk(name exif.FieldName, tag *tiff.Tag) error {
	n.byTag[tag] = string(name)
	if !strings.HasPrefix(string(name), "GPS") {
		n.byID[tag.Id] = string(name)
	}
	return nil
}

func (n *nameIndex) lookup(tag *tiff.Tag) string {
	if name, ok := n.byTag[tag]; ok {
		return name
	}
	return n.byID[tag.Id]
}

func newEntry(name string, tag *tiff.Tag) Entry {
	e := Entry{ID: tag.Id, Name: name}

	switch tag.Format() {
	case tiff.StringVal:
		if s, err := tag.StringVal(); err == nil {
			e.Value.Text = s
			return e
		}
	case tiff.RatVal:
		rats := make([]geo.Rational, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			num, den, err := tag.Rat2(i)
			if err != nil {
				break
			}
			rats = append(rats, geo.Rational{Num: num, Den: den})
		}
		e.Value.Rationals = rats
	}
	e.Value.Text = tag.String()
	return e
}
