package geod

import (
	"math"

	"github.com/golang/geo/r3"
)

const (
	geodeticMaxIter = 16
	geodeticTol     = 1e-14 // radians, about 60 nm on the surface
)

// ToECEF converts a geodetic point (latitude and longitude in degrees, altitude in
// meters) to ECEF in meters.
func (e Ellipsoid) ToECEF(ell r3.Vector) r3.Vector {
	sφ, cφ := math.Sincos(deg2rad(ell.X))
	sλ, cλ := math.Sincos(deg2rad(ell.Y))
	N := e.a / math.Sqrt(1-e.e2*sφ*sφ)
	h := ell.Z
	return r3.Vector{
		X: (N + h) * cφ * cλ,
		Y: (N + h) * cφ * sλ,
		Z: ((1-e.e2)*N + h) * sφ,
	}
}

// FromECEF converts an ECEF point in meters to geodetic latitude and longitude in
// degrees and altitude in meters.
// The latitude is seeded with Bowring's formula and refined by fixed-point iteration.
// On the polar axis the longitude is 0 by convention. Non finite inputs give NaN.
func (e Ellipsoid) FromECEF(xyz r3.Vector) r3.Vector {
	if !finite(xyz.X) || !finite(xyz.Y) || !finite(xyz.Z) {
		nan := math.NaN()
		return r3.Vector{X: nan, Y: nan, Z: nan}
	}
	p := math.Hypot(xyz.X, xyz.Y)
	if p == 0 {
		// Polar axis (or the Earth's center): atan2 would not be defined.
		return r3.Vector{X: math.Copysign(90, xyz.Z), Y: 0, Z: math.Abs(xyz.Z) - e.b}
	}
	λ := math.Atan2(xyz.Y, xyz.X)

	// Bowring's initial guess from the parametric latitude.
	sβ, cβ := math.Sincos(math.Atan2(xyz.Z*e.a, p*e.b))
	φ := math.Atan2(xyz.Z+e.ep2*e.b*sβ*sβ*sβ, p-e.e2*e.a*cβ*cβ*cβ)

	for i := 0; i < geodeticMaxIter; i++ {
		N := e.PrimeVerticalRadius(φ)
		h := e.height(p, xyz.Z, φ)
		next := math.Atan2(xyz.Z, p*(1-e.e2*N/(N+h)))
		Δ := math.Abs(next - φ)
		φ = next
		if Δ < geodeticTol {
			break
		}
	}
	return r3.Vector{X: rad2deg(φ), Y: rad2deg(λ), Z: e.height(p, xyz.Z, φ)}
}

// height returns the ellipsoidal height of a point at distance p from the polar axis
// and at z above the equatorial plane, for the geodetic latitude φ in radians.
// This form stays well conditioned at any latitude.
func (e Ellipsoid) height(p, z, φ float64) float64 {
	sφ, cφ := math.Sincos(φ)
	return p*cφ + z*sφ - e.a*math.Sqrt(1-e.e2*sφ*sφ)
}
