package geod

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats/scalar"
)

// dms returns the decimal degrees of an angle in degrees, minutes and seconds.
func dms(d, m, s float64) float64 {
	return d + m/60 + s/3600
}

// Munich survey points (latitude, longitude, altitude), shared by most tests.
var (
	munichEll = []r3.Vector{
		{X: dms(48, 8, 51.70361), Y: dms(11, 34, 10.51777), Z: 561.1851},
		{X: dms(48, 8, 52.40575), Y: dms(11, 34, 11.77179), Z: 561.1509},
	}
	munichECEFWGS84 = []r3.Vector{
		{X: 4.177239709042750e6, Y: 0.855153779923415e6, Z: 4.728267404769168e6},
		{X: 4.177218660452103e6, Y: 0.855175931344048e6, Z: 4.728281850382507e6},
	}
	munichECEFGRS80 = []r3.Vector{
		{X: 4.1772397090808507e6, Y: 0.85515377993121441e6, Z: 4.7282674046563692e6},
		{X: 4.1772186604902023e6, Y: 0.8551759313518483e6, Z: 4.7282818502697079e6},
	}
)

// vectorNear returns whether every component of a and b are within tol of each other.
func vectorNear(a, b r3.Vector, tol float64) (bool, error) {
	if !scalar.EqualWithinAbs(a.X, b.X, tol) || !scalar.EqualWithinAbs(a.Y, b.Y, tol) || !scalar.EqualWithinAbs(a.Z, b.Z, tol) {
		return false, fmt.Errorf("difference of %v", a.Sub(b))
	}
	return true, nil
}

func vectorsNear(a, b []r3.Vector, tol float64) (bool, error) {
	if len(a) != len(b) {
		return false, fmt.Errorf("length %d != %d", len(a), len(b))
	}
	for i := range a {
		if ok, err := vectorNear(a[i], b[i], tol); !ok {
			return false, fmt.Errorf("#%d: %s", i, err)
		}
	}
	return true, nil
}
