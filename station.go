package geod

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/stat/distuv"
)

// Deep space network stations on WGS84, 5 m range noise and no elevation mask.
var (
	DSS34Canberra  = mustStation("DSS34Canberra", -35.398333, 148.981944, 691.75)
	DSS65Madrid    = mustStation("DSS65Madrid", 40.427222, 4.250556, 834.939)
	DSS13Goldstone = mustStation("DSS13Goldstone", 35.247164, 243.205, 1071.14904)
)

// ErrStation is returned for unknown builtin stations.
var ErrStation = errors.New("unknown station")

// Station defines a ground station.
type Station struct {
	Name       string
	Position   r3.Vector     // latitude, longitude and altitude
	Elevation  float64       // elevation mask in degrees
	RangeNoise distuv.Normal // meters
	frame      Frame
}

// NewStation returns a new station on the provided ellipsoid. Angles in degrees,
// altitude and range noise σρ in meters.
func NewStation(e Ellipsoid, name string, lat, lon, alt, elevation, σρ float64) (Station, error) {
	if !validLatitude(lat) {
		return Station{}, fmt.Errorf("station %s: %w: %v", name, ErrLatitude, lat)
	}
	return Station{
		Name:       name,
		Position:   r3.Vector{X: lat, Y: lon, Z: alt},
		Elevation:  elevation,
		RangeNoise: distuv.Normal{Mu: 0, Sigma: σρ},
		frame:      e.NewFrame(lat, lon, alt),
	}, nil
}

func mustStation(name string, lat, lon, alt float64) Station {
	s, err := NewStation(WGS84, name, lat, lon, alt, 0, 5)
	if err != nil {
		panic(err)
	}
	return s
}

// ECEF returns the position of the station in ECEF.
func (s Station) ECEF() r3.Vector {
	return s.frame.Origin()
}

// RangeElAz returns the range (meters), elevation and azimuth (degrees) of a given
// ECEF position seen from the station.
func (s Station) RangeElAz(xyz r3.Vector) (ρ, el, az float64) {
	look := LookAngles(s.frame.FromECEF(xyz))
	return look.Z, look.Y, look.X
}

// PerformMeasurement returns whether the target is visible, and if so, the measurement.
func (s Station) PerformMeasurement(xyz r3.Vector) Measurement {
	ρ, el, az := s.RangeElAz(xyz)
	m := Measurement{Visible: el >= s.Elevation, TrueRange: ρ, Elevation: el, Azimuth: az, Station: s.Name}
	if m.Visible {
		m.Range = ρ + s.RangeNoise.Rand()
	}
	return m
}

func (s Station) String() string {
	return fmt.Sprintf("%s (%f,%f); alt = %f m; el = %f deg", s.Name, s.Position.X, s.Position.Y, s.Position.Z, s.Elevation)
}

// Measurement stores a measurement of a station.
type Measurement struct {
	Visible            bool    // whether the target was above the elevation mask
	Range, TrueRange   float64 // noisy and true range, meters
	Elevation, Azimuth float64 // degrees
	Station            string
}

// BuiltinStationFromName returns the builtin station of the provided name.
func BuiltinStationFromName(name string) (Station, error) {
	switch strings.ToLower(name) {
	case "dss13":
		return DSS13Goldstone, nil
	case "dss34":
		return DSS34Canberra, nil
	case "dss65":
		return DSS65Madrid, nil
	default:
		return Station{}, fmt.Errorf("%w `%s`", ErrStation, name)
	}
}
