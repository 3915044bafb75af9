package geod

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/soniakeys/meeus/v3/globe"
)

var (
	// WGS84 is the World Geodetic System 1984 ellipsoid used by GPS.
	WGS84 = mustEllipsoid("WGS84", 6378137.0, 1/298.257223563)
	// GRS80 is the Geodetic Reference System 1980 ellipsoid (ETRS89, NAD83).
	GRS80 = mustEllipsoid("GRS80", 6378137.0, 1/298.257222100882711243162837)
	// IAU76 is the IAU 1976 Earth ellipsoid as published in Meeus.
	IAU76 = mustEllipsoidFromGlobe("IAU76", globe.Earth76)
)

// ErrEllipsoid is returned when an ellipsoid cannot be built from the provided constants.
var ErrEllipsoid = errors.New("invalid ellipsoid")

// Ellipsoid defines a reference ellipsoid. All lengths are in meters.
// An Ellipsoid is immutable once built and safe for concurrent use.
type Ellipsoid struct {
	name string
	a, f float64
	b    float64 // semi-minor axis
	e2   float64 // first eccentricity squared
	ep2  float64 // second eccentricity squared
	n    float64 // third flattening
}

// NewEllipsoid returns a custom ellipsoid from its semi-major axis (in meters) and flattening.
// A flattening of zero (a sphere) is accepted.
func NewEllipsoid(name string, a, f float64) (Ellipsoid, error) {
	if !(a > 0) || math.IsInf(a, 1) {
		return Ellipsoid{}, fmt.Errorf("%w: semi-major axis must be positive and finite, got %v", ErrEllipsoid, a)
	}
	if !(f >= 0 && f < 1) {
		return Ellipsoid{}, fmt.Errorf("%w: flattening must be in [0, 1), got %v", ErrEllipsoid, f)
	}
	e2 := f * (2 - f)
	return Ellipsoid{
		name: name,
		a:    a,
		f:    f,
		b:    a * (1 - f),
		e2:   e2,
		ep2:  e2 / ((1 - f) * (1 - f)),
		n:    f / (2 - f),
	}, nil
}

// EllipsoidFromGlobe converts a meeus ellipsoid (equatorial radius in km) to an Ellipsoid.
func EllipsoidFromGlobe(name string, g globe.Ellipsoid) (Ellipsoid, error) {
	return NewEllipsoid(name, g.Er*1e3, g.Fl)
}

// EllipsoidFromString returns the built-in ellipsoid from its name.
func EllipsoidFromString(name string) (Ellipsoid, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "wgs84", "wgs-84":
		return WGS84, nil
	case "grs80", "grs-80":
		return GRS80, nil
	case "iau76", "iau-76", "earth76":
		return IAU76, nil
	default:
		return Ellipsoid{}, fmt.Errorf("%w: unknown ellipsoid `%s`", ErrEllipsoid, name)
	}
}

func mustEllipsoid(name string, a, f float64) Ellipsoid {
	e, err := NewEllipsoid(name, a, f)
	if err != nil {
		panic(err)
	}
	return e
}

func mustEllipsoidFromGlobe(name string, g globe.Ellipsoid) Ellipsoid {
	e, err := EllipsoidFromGlobe(name, g)
	if err != nil {
		panic(err)
	}
	return e
}

// Name returns the name of the ellipsoid.
func (e Ellipsoid) Name() string { return e.name }

// SemiMajorAxis returns a in meters.
func (e Ellipsoid) SemiMajorAxis() float64 { return e.a }

// SemiMinorAxis returns b in meters.
func (e Ellipsoid) SemiMinorAxis() float64 { return e.b }

// Flattening returns f.
func (e Ellipsoid) Flattening() float64 { return e.f }

// EccentricitySquared returns e² = f(2-f).
func (e Ellipsoid) EccentricitySquared() float64 { return e.e2 }

// ThirdFlattening returns n = f/(2-f), the expansion parameter of the Krüger series.
func (e Ellipsoid) ThirdFlattening() float64 { return e.n }

// PrimeVerticalRadius returns the radius of curvature in the prime vertical at the
// given geodetic latitude in radians.
func (e Ellipsoid) PrimeVerticalRadius(φ float64) float64 {
	sφ := math.Sin(φ)
	return e.a / math.Sqrt(1-e.e2*sφ*sφ)
}

func (e Ellipsoid) String() string {
	return fmt.Sprintf("%s (a = %.3f m; 1/f = %.9f)", e.name, e.a, 1/e.f)
}
