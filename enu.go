package geod

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Frame is a local East-North-Up tangent plane anchored at a geodetic origin.
type Frame struct {
	origin r3.Vector  // ECEF position of the origin
	rot    *mat.Dense // ECEF to ENU
}

// NewFrame returns the ENU frame at the provided latitude and longitude (degrees)
// whose translation is the ECEF position of (lat0, lon0, alt0) on the ellipsoid.
func (e Ellipsoid) NewFrame(lat0, lon0, alt0 float64) Frame {
	return Frame{
		origin: e.ToECEF(r3.Vector{X: lat0, Y: lon0, Z: alt0}),
		rot:    ECEF2ENU(lat0, lon0),
	}
}

// Origin returns the ECEF position of the frame origin.
func (f Frame) Origin() r3.Vector { return f.origin }

// Rotation returns a copy of the ECEF to ENU rotation matrix.
func (f Frame) Rotation() *mat.Dense { return mat.DenseCopyOf(f.rot) }

// FromECEF expresses an ECEF point in this frame.
func (f Frame) FromECEF(xyz r3.Vector) r3.Vector {
	return MxV33(f.rot, xyz.Sub(f.origin))
}

// ToECEF returns the ECEF point of a vector expressed in this frame.
func (f Frame) ToECEF(enu r3.Vector) r3.Vector {
	return f.origin.Add(MxV33(f.rot.T(), enu))
}

// LookAngles returns the azimuth (degrees clockwise from north, in [0, 360)), the
// elevation (degrees above the local horizontal plane) and the slant range (meters)
// of an ENU vector, packed as X, Y and Z respectively.
// A null vector is reported as straight overhead.
func LookAngles(enu r3.Vector) r3.Vector {
	ρ := enu.Norm()
	if ρ == 0 {
		return r3.Vector{X: 0, Y: 90, Z: 0}
	}
	az := math.Mod(rad2deg(math.Atan2(enu.X, enu.Y))+360, 360)
	el := rad2deg(math.Asin(math.Max(-1, math.Min(1, enu.Z/ρ))))
	return r3.Vector{X: az, Y: el, Z: ρ}
}
