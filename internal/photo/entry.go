package photo

import (
	"strconv"

	"github.com/electronjoe/exifmap/internal/geo"
)

// Names of the GPS fields the extractor cares about.
const (
	GPSInfo         = "GPSInfoIFDPointer"
	GPSLatitudeRef  = "GPSLatitudeRef"
	GPSLatitude     = "GPSLatitude"
	GPSLongitudeRef = "GPSLongitudeRef"
	GPSLongitude    = "GPSLongitude"
)

// gpsTagNames maps GPS IFD tag ids to their EXIF 2.32 names. goexif's own
// table misspells GPSSatellites and stops short of GPSHPositioningError.
var gpsTagNames = map[uint16]string{
	0x00: "GPSVersionID",
	0x01: GPSLatitudeRef,
	0x02: GPSLatitude,
	0x03: GPSLongitudeRef,
	0x04: GPSLongitude,
	0x05: "GPSAltitudeRef",
	0x06: "GPSAltitude",
	0x07: "GPSTimeStamp",
	0x08: "GPSSatellites",
	0x09: "GPSStatus",
	0x0A: "GPSMeasureMode",
	0x0B: "GPSDOP",
	0x0C: "GPSSpeedRef",
	0x0D: "GPSSpeed",
	0x0E: "GPSTrackRef",
	0x0F: "GPSTrack",
	0x10: "GPSImgDirectionRef",
	0x11: "GPSImgDirection",
	0x12: "GPSMapDatum",
	0x13: "GPSDestLatitudeRef",
	0x14: "GPSDestLatitude",
	0x15: "GPSDestLongitudeRef",
	0x16: "GPSDestLongitude",
	0x17: "GPSDestBearingRef",
	0x18: "GPSDestBearing",
	0x19: "GPSDestDistanceRef",
	0x1A: "GPSDestDistance",
	0x1B: "GPSProcessingMethod",
	0x1C: "GPSAreaInformation",
	0x1D: "GPSDateStamp",
	0x1E: "GPSDifferential",
	0x1F: "GPSHPositioningError",
}

// Value is the payload of one EXIF entry. Rationals is set only for
// RATIONAL and SRATIONAL entries; Text always holds a printable form.
type Value struct {
	Text      string
	Rationals []geo.Rational
}

func (v Value) String() string {
	return v.Text
}

// Entry is one decoded EXIF field.
type Entry struct {
	ID    uint16
	Name  string
	GPS   bool // field lives in the GPS IFD
	Value Value
}

// Label returns the human-readable tag name, or the numeric id when the
// decoder could not name the field.
func (e Entry) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return strconv.Itoa(int(e.ID))
}

// Image is what Decode learned about one file.
type Image struct {
	Width   int
	Height  int
	Format  string
	NoExif  bool
	Entries []Entry
	// Partial is the decoder error when only some IFDs could be read.
	Partial error
}
