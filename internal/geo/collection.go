package geo

import "fmt"

// DedupMode selects the key used to merge coordinates in a Collection.
type DedupMode string

const (
	// DedupLatitude keys markers by latitude alone: a later marker with the
	// same latitude replaces the earlier longitude.
	DedupLatitude DedupMode = "latitude"
	// DedupPair keys markers by the full (latitude, longitude) pair.
	DedupPair DedupMode = "pair"
)

// ParseDedupMode maps a config string to a DedupMode. Empty means latitude.
func ParseDedupMode(s string) (DedupMode, error) {
	switch DedupMode(s) {
	case "", DedupLatitude:
		return DedupLatitude, nil
	case DedupPair:
		return DedupPair, nil
	}
	return "", fmt.Errorf("unknown dedup mode %q", s)
}

// Marker is one point on the map plus what produced it.
type Marker struct {
	Coordinate
	Source    string // file the coordinate was read from
	Thumbnail string // optional data URI shown in the marker popup
}

// Collection holds the unique markers seen across a run, in insertion order.
type Collection struct {
	mode    DedupMode
	index   map[Coordinate]int
	markers []Marker
}

// NewCollection returns an empty collection using the given dedup mode.
func NewCollection(mode DedupMode) *Collection {
	if mode == "" {
		mode = DedupLatitude
	}
	return &Collection{
		mode:  mode,
		index: make(map[Coordinate]int),
	}
}

func (c *Collection) key(coord Coordinate) Coordinate {
	if c.mode == DedupPair {
		return coord
	}
	return Coordinate{Latitude: coord.Latitude}
}

// Add inserts m, or replaces the marker that has the same key. A replaced
// marker keeps its original position.
func (c *Collection) Add(m Marker) (replaced bool) {
	k := c.key(m.Coordinate)
	if i, ok := c.index[k]; ok {
		c.markers[i] = m
		return true
	}
	c.index[k] = len(c.markers)
	c.markers = append(c.markers, m)
	return false
}

// First returns the earliest inserted marker.
func (c *Collection) First() (Marker, bool) {
	if len(c.markers) == 0 {
		return Marker{}, false
	}
	return c.markers[0], true
}

// Markers returns a copy of all markers in insertion order.
func (c *Collection) Markers() []Marker {
	out := make([]Marker, len(c.markers))
	copy(out, c.markers)
	return out
}

// Len returns the number of distinct markers.
func (c *Collection) Len() int {
	return len(c.markers)
}

// Mode returns the dedup mode the collection was created with.
func (c *Collection) Mode() DedupMode {
	return c.mode
}
