package geod

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

const (
	// UTMScaleFactor is the scale on the central meridian of every UTM zone.
	UTMScaleFactor = 0.9996
	// UTMFalseEasting is added to every easting so that they stay positive within a zone.
	UTMFalseEasting = 5e5
	// UTMFalseNorthing is added to the northing of southern hemisphere coordinates.
	UTMFalseNorthing = 1e7

	krugerOrder = 6
)

// ErrZone is returned for UTM zones outside of [1, 60].
var ErrZone = errors.New("invalid UTM zone")

// UTMZone returns the UTM zone (1 to 60) of the provided longitude in degrees.
// The longitude is first wrapped into [-180, 180), so 180°E falls in zone 1. Zero is
// returned for non finite inputs.
func UTMZone(lon float64) int {
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return 0
	}
	lon = math.Remainder(lon, 360)
	if lon == 180 {
		lon = -180
	}
	zone := int(math.Floor((lon+180)/6)) + 1
	if zone > 60 {
		// Rounding of lon+180 just below 180°E.
		zone = 60
	}
	return zone
}

// ZoneCentralMeridian returns the central meridian of the zone in degrees.
func ZoneCentralMeridian(zone int) float64 {
	return float64(6*zone - 183)
}

func checkZone(zone int) error {
	if zone < 1 || zone > 60 {
		return fmt.Errorf("%w: %d is not in [1, 60]", ErrZone, zone)
	}
	return nil
}

// tmSeries holds the constants of the sixth order Krüger series of the transverse
// Mercator projection for one ellipsoid (Karney, J. Geodesy 85, 475-485, 2011).
type tmSeries struct {
	a1  float64 // rectifying radius
	es  float64 // signed eccentricity
	e2m float64 // 1 - e²
	alp [krugerOrder + 1]float64
	bet [krugerOrder + 1]float64
}

func newTMSeries(e Ellipsoid) tmSeries {
	n := e.n
	n2 := n * n
	tm := tmSeries{
		a1:  e.a / (1 + n) * (1 + n2*(1.0/4+n2*(1.0/64+n2/256))),
		es:  sign(e.f) * math.Sqrt(math.Abs(e.e2)),
		e2m: 1 - e.e2,
	}
	tm.alp[1] = n * (1.0/2 + n*(-2.0/3+n*(5.0/16+n*(41.0/180+n*(-127.0/288+n*7891.0/37800)))))
	tm.alp[2] = n2 * (13.0/48 + n*(-3.0/5+n*(557.0/1440+n*(281.0/630+n*-1983433.0/1935360))))
	tm.alp[3] = n2 * n * (61.0/240 + n*(-103.0/140+n*(15061.0/26880+n*167603.0/181440)))
	tm.alp[4] = n2 * n2 * (49561.0/161280 + n*(-179.0/168+n*6601661.0/7257600))
	tm.alp[5] = n2 * n2 * n * (34729.0/80640 + n*-3418889.0/1995840)
	tm.alp[6] = n2 * n2 * n2 * 212378941.0 / 319334400
	tm.bet[1] = n * (1.0/2 + n*(-2.0/3+n*(37.0/96+n*(-1.0/360+n*(-81.0/512+n*96199.0/604800)))))
	tm.bet[2] = n2 * (1.0/48 + n*(1.0/15+n*(-437.0/1440+n*(46.0/105+n*-1118711.0/3870720))))
	tm.bet[3] = n2 * n * (17.0/480 + n*(-37.0/840+n*(-209.0/4480+n*5569.0/90720)))
	tm.bet[4] = n2 * n2 * (4397.0/161280 + n*(-11.0/504+n*-830251.0/7257600))
	tm.bet[5] = n2 * n2 * n * (4583.0/161280 + n*-108847.0/3991680)
	tm.bet[6] = n2 * n2 * n2 * 20648693.0 / 638668800
	return tm
}

// eatanhe returns e·atanh(e·x), the conformal latitude correction.
func eatanhe(x, es float64) float64 {
	if es > 0 {
		return es * math.Atanh(es*x)
	}
	return -es * math.Atan(es*x)
}

// taupf returns tan(χ) for τ = tan(φ), χ being the conformal latitude.
func taupf(τ, es float64) float64 {
	if math.IsInf(τ, 0) || math.IsNaN(τ) {
		return τ
	}
	τ1 := math.Hypot(1, τ)
	σ := math.Sinh(eatanhe(τ/τ1, es))
	return math.Hypot(1, σ)*τ - σ*τ1
}

// tauf inverts taupf with Newton's method.
func tauf(τp, es float64) float64 {
	const numit = 5
	eps := math.Nextafter(1, 2) - 1
	e2m := 1 - es*es
	stol := math.Sqrt(eps) / 10 * math.Max(1, math.Abs(τp))
	τ := τp / e2m
	if math.Abs(τp) > 70 {
		τ = τp * math.Exp(eatanhe(1, es))
	}
	if !(math.Abs(τ) < 2/math.Sqrt(eps)) {
		return τ
	}
	for i := 0; i < numit; i++ {
		τa := taupf(τ, es)
		dτ := (τp - τa) * (1 + e2m*τ*τ) / (e2m * math.Hypot(1, τ) * math.Hypot(1, τa))
		τ += dτ
		if !(math.Abs(dτ) >= stol) {
			break
		}
	}
	return τ
}

// forward projects a geodetic latitude and longitude (degrees) to transverse Mercator
// coordinates in meters around the central meridian lon0, with the scale factor k0.
// No false easting nor false northing is applied.
func (tm tmSeries) forward(lon0, k0, lat, lon float64) (x, y float64) {
	lon = normalizeDeg(lon - lon0)
	latsign, lonsign := sign(lat), sign(lon)
	lat *= latsign
	lon *= lonsign
	backside := lon > 90
	if backside {
		if lat == 0 {
			latsign = -1
		}
		lon = 180 - lon
	}
	sφ, cφ := math.Sincos(deg2rad(lat))
	sλ, cλ := math.Sincos(deg2rad(lon))

	var ξp, ηp float64
	if lat != 90 {
		τp := taupf(sφ/cφ, tm.es)
		ξp = math.Atan2(τp, cλ)
		ηp = math.Asinh(sλ / math.Hypot(τp, cλ))
	} else {
		ξp = math.Pi / 2
		ηp = 0
	}

	// Clenshaw summation of Σ alp[j]·sin(2jζ') with ζ' = ξ' + iη'.
	s0, c0 := math.Sincos(2 * ξp)
	sh0, ch0 := math.Sinh(2*ηp), math.Cosh(2*ηp)
	a := complex(2*c0*ch0, -2*s0*sh0)
	var y0, y1 complex128
	for j := krugerOrder; j > 0; j -= 2 {
		y1 = a*y0 - y1 + complex(tm.alp[j], 0)
		y0 = a*y1 - y0 + complex(tm.alp[j-1], 0)
	}
	ζ := complex(ξp, ηp) + complex(s0*ch0, c0*sh0)*y0
	ξ, η := real(ζ), imag(ζ)
	if backside {
		ξ = math.Pi - ξ
	}
	return tm.a1 * k0 * η * lonsign, tm.a1 * k0 * ξ * latsign
}

// reverse is the inverse of forward and returns the latitude and longitude in degrees.
func (tm tmSeries) reverse(lon0, k0, x, y float64) (lat, lon float64) {
	ξ := y / (tm.a1 * k0)
	η := x / (tm.a1 * k0)
	ξsign, ηsign := sign(ξ), sign(η)
	ξ *= ξsign
	η *= ηsign
	backside := ξ > math.Pi/2
	if backside {
		ξ = math.Pi - ξ
	}

	// Clenshaw summation of -Σ bet[j]·sin(2jζ) with ζ = ξ + iη.
	s0, c0 := math.Sincos(2 * ξ)
	sh0, ch0 := math.Sinh(2*η), math.Cosh(2*η)
	a := complex(2*c0*ch0, -2*s0*sh0)
	var y0, y1 complex128
	for j := krugerOrder; j > 0; j -= 2 {
		y1 = a*y0 - y1 - complex(tm.bet[j], 0)
		y0 = a*y1 - y0 - complex(tm.bet[j-1], 0)
	}
	ζp := complex(ξ, η) + complex(s0*ch0, c0*sh0)*y0
	ξp, ηp := real(ζp), imag(ζp)

	s := math.Sinh(ηp)
	c := math.Max(0, math.Cos(ξp))
	r := math.Hypot(s, c)
	var φ, λ float64
	if r != 0 {
		λ = rad2deg(math.Atan2(s, c))
		φ = rad2deg(math.Atan(tauf(math.Sin(ξp)/r, tm.es)))
	} else {
		φ = 90
		λ = 0
	}
	if backside {
		λ = 180 - λ
	}
	return φ * ξsign, normalizeDeg(λ*ηsign + lon0)
}

// toUTM projects a geodetic point in the zone, the hemisphere selecting the false northing.
func (tm tmSeries) toUTM(zone int, north bool, ell r3.Vector) r3.Vector {
	lon0 := math.NaN()
	if zone != 0 {
		lon0 = ZoneCentralMeridian(zone)
	}
	x, y := tm.forward(lon0, UTMScaleFactor, ell.X, ell.Y)
	if !north {
		y += UTMFalseNorthing
	}
	return r3.Vector{X: x + UTMFalseEasting, Y: y, Z: ell.Z}
}

// fromUTM is the inverse of toUTM.
func (tm tmSeries) fromUTM(zone int, north bool, utm r3.Vector) r3.Vector {
	y := utm.Y
	if !north {
		y -= UTMFalseNorthing
	}
	lat, lon := tm.reverse(ZoneCentralMeridian(zone), UTMScaleFactor, utm.X-UTMFalseEasting, y)
	return r3.Vector{X: lat, Y: lon, Z: utm.Z}
}
