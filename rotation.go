package geod

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// R1 rotation about the 1st axis.
func R1(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// ECEF2ENU returns the rotation from ECEF deltas to the East-North-Up frame at the
// provided geodetic latitude and longitude in degrees. Rows are the East, North and Up
// axes expressed in ECEF.
func ECEF2ENU(lat0, lon0 float64) *mat.Dense {
	var r mat.Dense
	r.Mul(R1(math.Pi/2-deg2rad(lat0)), R3(math.Pi/2+deg2rad(lon0)))
	return &r
}
