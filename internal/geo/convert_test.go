package geo

import (
	"errors"
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-5
}

func TestToDecimalDegrees(t *testing.T) {
	tests := []struct {
		name    string
		d, m, s float64
		ref     string
		want    float64
	}{
		{"north", 40, 26, 46.3, "N", 40.446194},
		{"west", 79, 58, 56.5, "W", -79.982361},
		{"south", 33, 52, 4, "S", -33.867778},
		{"east", 151, 12, 36, "E", 151.21},
		{"lowercase ref", 10, 30, 0, "s", -10.5},
		{"padded ref", 10, 30, 0, " W ", -10.5},
		{"unknown ref keeps sign", 10, 30, 0, "", 10.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDecimalDegrees(tt.d, tt.m, tt.s, tt.ref)
			if !approx(got, tt.want) {
				t.Errorf("ToDecimalDegrees(%v, %v, %v, %q) = %v, want %v", tt.d, tt.m, tt.s, tt.ref, got, tt.want)
			}
		})
	}
}

func TestToDecimalDegreesHemisphereSymmetry(t *testing.T) {
	samples := [][3]float64{{0, 0, 1}, {12, 34, 56.78}, {89, 59, 59.99}, {179, 0, 0}}
	for _, s := range samples {
		n := ToDecimalDegrees(s[0], s[1], s[2], "N")
		south := ToDecimalDegrees(s[0], s[1], s[2], "S")
		e := ToDecimalDegrees(s[0], s[1], s[2], "E")
		w := ToDecimalDegrees(s[0], s[1], s[2], "W")

		if n < 0 || e < 0 {
			t.Errorf("%v: N/E must be non-negative, got %v / %v", s, n, e)
		}
		if south > 0 || w > 0 {
			t.Errorf("%v: S/W must be non-positive, got %v / %v", s, south, w)
		}
		if n != -south {
			t.Errorf("%v: N (%v) != -S (%v)", s, n, south)
		}
		if e != -w {
			t.Errorf("%v: E (%v) != -W (%v)", s, e, w)
		}
	}
}

func TestFromRationals(t *testing.T) {
	got, err := FromRationals([]Rational{{40, 1}, {26, 1}, {463, 10}}, "N")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(got, 40.446194) {
		t.Errorf("got %v, want 40.446194", got)
	}

	if _, err := FromRationals([]Rational{{40, 1}, {26, 1}}, "N"); !errors.Is(err, ErrTripleLength) {
		t.Errorf("short triple: got %v, want ErrTripleLength", err)
	}
	if _, err := FromRationals([]Rational{{40, 1}, {26, 0}, {1, 1}}, "N"); !errors.Is(err, ErrZeroDenominator) {
		t.Errorf("zero denominator: got %v, want ErrZeroDenominator", err)
	}
}
