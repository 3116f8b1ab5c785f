// Package mapview renders the accumulated coordinates as a standalone HTML map.
package mapview

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"strconv"

	"github.com/electronjoe/exifmap/internal/fsutil"
	"github.com/electronjoe/exifmap/internal/geo"
)

const (
	DefaultZoom  = 12
	DefaultColor = "red"
)

var ErrNoMarkers = errors.New("no coordinates to render")

//go:embed map.html.tmpl
var pageSource string

var page = template.Must(template.New("map").Parse(pageSource))

// Options tune the rendered page.
type Options struct {
	Title       string
	Zoom        int
	MarkerColor string
}

type markerView struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label"`
	Link  string  `json:"link"`
	Thumb string  `json:"thumb,omitempty"`
}

type pageView struct {
	Title   string
	Center  markerView
	Zoom    int
	Color   string
	Markers []markerView
}

// Link returns a Google Maps URL for c.
func Link(c geo.Coordinate) string {
	return "https://maps.google.com/?q=" + formatDegrees(c.Latitude) + "," + formatDegrees(c.Longitude)
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Render builds the page for every marker in markers, centered on the first
// one inserted.
func Render(markers *geo.Collection, opts Options) ([]byte, error) {
	first, ok := markers.First()
	if !ok {
		return nil, ErrNoMarkers
	}
	if opts.Zoom <= 0 {
		opts.Zoom = DefaultZoom
	}
	if opts.MarkerColor == "" {
		opts.MarkerColor = DefaultColor
	}
	if opts.Title == "" {
		opts.Title = "Photo locations"
	}

	view := pageView{
		Title:  opts.Title,
		Center: toView(first),
		Zoom:   opts.Zoom,
		Color:  opts.MarkerColor,
	}
	for _, m := range markers.Markers() {
		view.Markers = append(view.Markers, toView(m))
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render map: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the map and atomically replaces path with it.
func WriteFile(path string, markers *geo.Collection, opts Options) error {
	data, err := Render(markers, opts)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data)
}

func toView(m geo.Marker) markerView {
	return markerView{
		Lat:   m.Latitude,
		Lon:   m.Longitude,
		Label: m.Source,
		Link:  Link(m.Coordinate),
		Thumb: m.Thumbnail,
	}
}
