// Package geo converts EXIF GPS values to decimal degrees and accumulates the
// coordinates found during a scan.
package geo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTripleLength    = errors.New("gps triple must hold exactly three values")
	ErrZeroDenominator = errors.New("gps rational has a zero denominator")
)

// Coordinate is a signed decimal-degree position.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Rational is one EXIF RATIONAL value.
type Rational struct {
	Num int64
	Den int64
}

// Float returns the value as a float64. ok is false when Den is zero.
func (r Rational) Float() (float64, bool) {
	if r.Den == 0 {
		return 0, false
	}
	return float64(r.Num) / float64(r.Den), true
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// ToDecimalDegrees converts degrees/minutes/seconds to decimal degrees,
// negating the result for the southern and western hemispheres.
// No range checking is done.
func ToDecimalDegrees(degrees, minutes, seconds float64, ref string) float64 {
	decimal := degrees + minutes/60 + seconds/3600
	switch strings.ToUpper(strings.TrimSpace(ref)) {
	case "S", "W":
		decimal = -decimal
	}
	return decimal
}

// FromRationals converts a raw EXIF degrees/minutes/seconds triple.
func FromRationals(dms []Rational, ref string) (float64, error) {
	if len(dms) != 3 {
		return 0, fmt.Errorf("%w: got %d", ErrTripleLength, len(dms))
	}
	var parts [3]float64
	for i, r := range dms {
		v, ok := r.Float()
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrZeroDenominator, r)
		}
		parts[i] = v
	}
	return ToDecimalDegrees(parts[0], parts[1], parts[2], ref), nil
}
