package mapview

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/electronjoe/exifmap/internal/geo"
)

func TestLink(t *testing.T) {
	tests := []struct {
		c    geo.Coordinate
		want string
	}{
		{geo.Coordinate{Latitude: 40.446194, Longitude: -79.982361}, "https://maps.google.com/?q=40.446194,-79.982361"},
		{geo.Coordinate{Latitude: 0, Longitude: 12.5}, "https://maps.google.com/?q=0,12.5"},
	}
	for _, tt := range tests {
		if got := Link(tt.c); got != tt.want {
			t.Errorf("Link(%+v) = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	if _, err := Render(geo.NewCollection(geo.DedupLatitude), Options{}); !errors.Is(err, ErrNoMarkers) {
		t.Errorf("got %v, want ErrNoMarkers", err)
	}
}

func TestRenderMarkers(t *testing.T) {
	markers := geo.NewCollection(geo.DedupLatitude)
	markers.Add(geo.Marker{Coordinate: geo.Coordinate{Latitude: 48.8584, Longitude: 2.2945}, Source: "paris.jpg"})
	markers.Add(geo.Marker{Coordinate: geo.Coordinate{Latitude: -33.8568, Longitude: 151.2153}, Source: "<sydney>.jpg"})

	out, err := Render(markers, Options{Zoom: 9, MarkerColor: "blue"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := string(out)

	compact := strings.Join(strings.Fields(html), "")
	if !strings.Contains(compact, "setView([48.8584,2.2945],9)") {
		t.Errorf("map not centered on the first marker:\n%s", html)
	}
	if got := strings.Count(html, `"label":`); got != 2 {
		t.Errorf("got %d markers, want 2", got)
	}
	if strings.Contains(html, "<sydney>") {
		t.Error("marker label was not escaped")
	}
	if !strings.Contains(html, `"blue"`) {
		t.Error("marker color missing")
	}
	if !strings.Contains(html, "<title>Photo locations</title>") {
		t.Error("default title missing")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations_map.html")
	markers := geo.NewCollection(geo.DedupLatitude)
	markers.Add(geo.Marker{Coordinate: geo.Coordinate{Latitude: 1, Longitude: 2}, Source: "a.jpg"})

	if err := WriteFile(path, markers, Options{}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read map: %v", err)
	}
	if !bytes.Contains(data, []byte("maps.google.com/?q=1,2")) {
		t.Error("marker link missing from map file")
	}
}

func TestThumbnail(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 400, 200))); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "wide.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	uri, err := Thumbnail(path, 100)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	const prefix = "data:image/jpeg;base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("unexpected data URI %q", uri[:min(len(uri), 40)])
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("thumbnail is %dx%d, want 100x50", cfg.Width, cfg.Height)
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{400, 200, 100, 100, 50},
		{200, 400, 100, 50, 100},
		{50, 20, 100, 50, 20},
		{1000, 1, 100, 100, 1},
	}
	for _, tt := range tests {
		r := fitWithin(image.Rect(0, 0, tt.w, tt.h), tt.max)
		if r.Dx() != tt.wantW || r.Dy() != tt.wantH {
			t.Errorf("fitWithin(%dx%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.max, r.Dx(), r.Dy(), tt.wantW, tt.wantH)
		}
	}
}
