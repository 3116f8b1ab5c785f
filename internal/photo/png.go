package photo

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const pngSignature = "\x89PNG\r\n\x1a\n"

// maxExifChunk bounds the eXIf payload read into memory.
const maxExifChunk = 16 << 20

var errNotPNG = errors.New("missing png signature")

// pngExif returns the payload of the eXIf chunk of the PNG stream r, or nil
// when the image has none. Writers disagree on whether eXIf goes before or
// after the image data, so every chunk up to IEND is checked.
func pngExif(r io.Reader) ([]byte, error) {
	sig := make([]byte, len(pngSignature))
	if _, err := io.ReadFull(r, sig); err != nil {
		return nil, fmt.Errorf("read png signature: %w", err)
	}
	if !bytes.Equal(sig, []byte(pngSignature)) {
		return nil, errNotPNG
	}

	var hdr [8]byte
	for {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("read png chunk header: %w", err)
		}
		length := binary.BigEndian.Uint32(hdr[:4])
		switch string(hdr[4:]) {
		case "eXIf":
			if length > maxExifChunk {
				return nil, fmt.Errorf("eXIf chunk of %d bytes is too large", length)
			}
			payload := make([]byte, length)
			if _, err := io.ReadFull(r, payload); err != nil {
				return nil, fmt.Errorf("read eXIf chunk: %w", err)
			}
			return payload, nil
		case "IEND":
			return nil, nil
		}
		// skip the data and the CRC
		if _, err := io.CopyN(io.Discard, r, int64(length)+4); err != nil {
			return nil, fmt.Errorf("skip %s chunk: %w", hdr[4:], err)
		}
	}
}
