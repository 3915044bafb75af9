package geod

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"gonum.org/v1/gonum/mat"
)

// deg2rad converts degrees to radians without any range reduction.
func deg2rad(a float64) float64 {
	return (s1.Angle(a) * s1.Degree).Radians()
}

// rad2deg converts radians to degrees without any range reduction.
func rad2deg(a float64) float64 {
	return s1.Angle(a).Degrees()
}

// normalizeDeg wraps an angle in degrees into (-180, 180]. The IEEE remainder is exact,
// so angles already in range are returned unchanged.
func normalizeDeg(a float64) float64 {
	a = math.Remainder(a, 360)
	if a == -180 {
		return 180
	}
	return a
}

// validLatitude returns false only for finite latitudes outside of [-90, 90].
// Non-finite values are not domain violations: the conversions propagate them.
func validLatitude(lat float64) bool {
	if !finite(lat) {
		return true
	}
	return lat >= -90 && lat <= 90
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// vec2mat returns the provided vector as a gonum vector.
func vec2mat(v r3.Vector) *mat.VecDense {
	return mat.NewVecDense(3, []float64{v.X, v.Y, v.Z})
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m mat.Matrix, v r3.Vector) r3.Vector {
	var rVec mat.VecDense
	rVec.MulVec(m, vec2mat(v))
	return r3.Vector{X: rVec.AtVec(0), Y: rVec.AtVec(1), Z: rVec.AtVec(2)}
}

// sign returns -1 for negative numbers (including -0) and 1 otherwise.
func sign(v float64) float64 {
	if math.Signbit(v) {
		return -1
	}
	return 1
}
