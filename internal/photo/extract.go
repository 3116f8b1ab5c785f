package photo

import (
	"fmt"

	"github.com/electronjoe/exifmap/internal/geo"
	"github.com/electronjoe/exifmap/internal/report"
)

// Synthetic tags the extractor and pipeline add to the report.
const (
	NoExifTag  = "NO EXIF DATA"
	MapLinkTag = "Google Maps Link"
)

// GPSComponents collects the four raw fields needed to place a photo on the map.
type GPSComponents struct {
	Latitude     []geo.Rational
	Longitude    []geo.Rational
	LatitudeRef  string
	LongitudeRef string

	hasLat, hasLon, hasLatRef, hasLonRef bool
}

// Complete reports whether all four components were found.
func (g GPSComponents) Complete() bool {
	return g.hasLat && g.hasLon && g.hasLatRef && g.hasLonRef
}

// Coordinate converts complete components to decimal degrees.
func (g GPSComponents) Coordinate() (geo.Coordinate, error) {
	if !g.Complete() {
		return geo.Coordinate{}, fmt.Errorf("incomplete gps data")
	}
	lat, err := geo.FromRationals(g.Latitude, g.LatitudeRef)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := geo.FromRationals(g.Longitude, g.LongitudeRef)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("longitude: %w", err)
	}
	return geo.Coordinate{Latitude: lat, Longitude: lon}, nil
}

func (g *GPSComponents) capture(e Entry) {
	switch e.Name {
	case GPSLatitude:
		g.Latitude, g.hasLat = e.Value.Rationals, true
	case GPSLongitude:
		g.Longitude, g.hasLon = e.Value.Rationals, true
	case GPSLatitudeRef:
		g.LatitudeRef, g.hasLatRef = e.Value.Text, true
	case GPSLongitudeRef:
		g.LongitudeRef, g.hasLonRef = e.Value.Text, true
	}
}

// Extraction is the per-file output of Extract.
type Extraction struct {
	Rows []report.Row
	GPS  GPSComponents
}

// Extract turns the decoded fields of one image into report rows, in the
// order the decoder produced them, and captures its GPS components.
// An image without EXIF yields a single NO EXIF DATA row.
func Extract(filename string, img Image) Extraction {
	var out Extraction
	if img.NoExif || len(img.Entries) == 0 {
		out.Rows = []report.Row{{Tag: NoExifTag, Value: "", Filename: filename}}
		return out
	}

	out.Rows = make([]report.Row, 0, len(img.Entries))
	for _, e := range img.Entries {
		if e.Name == GPSInfo {
			// the IFD pointer only locates the GPS fields, which arrive as entries of their own
			continue
		}
		if e.GPS {
			out.GPS.capture(e)
		}
		out.Rows = append(out.Rows, report.Row{
			Tag:      e.Label(),
			Value:    e.Value.String(),
			Filename: filename,
		})
	}
	return out
}
