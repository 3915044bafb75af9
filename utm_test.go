package geod

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/stat/distuv"
)

// utmEll adds a point of zone 33 to the Munich points. All three are projected in
// the zone of the first point (32).
var (
	utmEll = append(append([]r3.Vector{}, munichEll...),
		r3.Vector{X: dms(48, 8, 52.40575), Y: dms(12, 34, 11.77179), Z: 561.1509})
	// utmEll rounded to 1e-10 degrees, as fed to GeographicLib for the reference values.
	utmEllRounded = []r3.Vector{
		{X: 48.1476954472, Y: 11.5695882694, Z: 561.1851},
		{X: 48.1478904861, Y: 11.5699366083, Z: 561.1509},
		{X: 48.1478904861, Y: 12.5699366083, Z: 561.1509},
	}
	// Reference values from GeographicLib's TransverseMercatorProj -l 9, plus the false easting.
	utmWGS84 = []r3.Vector{
		{X: 1.91125018424899e5 + UTMFalseEasting, Y: 5.335909515367108e6, Z: 561.1851},
		{X: 1.91150201163177e5 + UTMFalseEasting, Y: 5.335932057413140e6, Z: 561.1509},
		{X: 2.65520501819149e5 + UTMFalseEasting, Y: 5.338903134602814e6, Z: 561.1509},
	}
	utmGRS80 = []r3.Vector{
		{X: 1.91125018426643e5 + UTMFalseEasting, Y: 5.335909515244992e6, Z: 561.1851},
		{X: 1.91150201164921e5 + UTMFalseEasting, Y: 5.335932057291023e6, Z: 561.1509},
		{X: 2.65520501821572e5 + UTMFalseEasting, Y: 5.338903134480723e6, Z: 561.1509},
	}
)

func TestEllipsoidToUTM(t *testing.T) {
	for _, tc := range []struct {
		ell Ellipsoid
		exp []r3.Vector
	}{{WGS84, utmWGS84}, {GRS80, utmGRS80}} {
		utm, zone, err := NewGPSTransform(tc.ell).EllipsoidToUTM(utmEllRounded)
		if err != nil {
			t.Fatal(err)
		}
		if zone != 32 {
			t.Fatalf("%s: zone %d", tc.ell.Name(), zone)
		}
		if ok, err := vectorsNear(utm, tc.exp, 1e-8); !ok {
			t.Fatalf("%s: %s", tc.ell.Name(), err)
		}
	}
}

func TestEllipsoidToUTMDMS(t *testing.T) {
	// Rounding the inputs to 1e-10 degrees moves them by up to 5 µm on the ground.
	for _, tc := range []struct {
		ell Ellipsoid
		exp []r3.Vector
	}{{WGS84, utmWGS84}, {GRS80, utmGRS80}} {
		utm, zone, err := NewGPSTransform(tc.ell).EllipsoidToUTM(utmEll)
		if err != nil {
			t.Fatal(err)
		}
		if zone != 32 {
			t.Fatalf("%s: zone %d", tc.ell.Name(), zone)
		}
		if ok, err := vectorsNear(utm, tc.exp, 1e-5); !ok {
			t.Fatalf("%s: %s", tc.ell.Name(), err)
		}
	}
}

func TestUTMToEllipsoid(t *testing.T) {
	for _, tc := range []struct {
		ell Ellipsoid
		utm []r3.Vector
	}{{WGS84, utmWGS84}, {GRS80, utmGRS80}} {
		ell, err := NewGPSTransform(tc.ell).UTMToEllipsoid(tc.utm, 32, true)
		if err != nil {
			t.Fatal(err)
		}
		if ok, err := vectorsNear(ell, utmEllRounded, 1e-9); !ok {
			t.Fatalf("%s: %s", tc.ell.Name(), err)
		}
		if ok, err := vectorsNear(ell, utmEll, 1e-8); !ok {
			t.Fatalf("%s: %s", tc.ell.Name(), err)
		}
	}
}

func TestUTMZoneDeterminism(t *testing.T) {
	tf := NewGPSTransform(WGS84)
	munich := r3.Vector{X: 48.15, Y: 11.57, Z: 0}
	east := r3.Vector{X: 48.15, Y: 12.57, Z: 0}

	if _, zone, _ := tf.EllipsoidToUTM([]r3.Vector{munich}); zone != 32 {
		t.Fatalf("11.57°E alone: zone %d", zone)
	}
	if _, zone, _ := tf.EllipsoidToUTM([]r3.Vector{east}); zone != 33 {
		t.Fatalf("12.57°E alone: zone %d", zone)
	}
	// The zone is that of the first point of the batch.
	batch, zone, _ := tf.EllipsoidToUTM([]r3.Vector{munich, east})
	if zone != 32 {
		t.Fatalf("batch led by 11.57°E: zone %d", zone)
	}
	alone, _, _ := tf.EllipsoidToUTM([]r3.Vector{east})
	if scalar.EqualWithinAbs(batch[1].X, alone[0].X, 1) {
		t.Fatal("12.57°E should be projected differently in zones 32 and 33")
	}
	if _, zone, _ := tf.EllipsoidToUTM([]r3.Vector{east, munich}); zone != 33 {
		t.Fatalf("batch led by 12.57°E: zone %d", zone)
	}
}

func TestUTMZone(t *testing.T) {
	for _, tc := range []struct {
		lon  float64
		zone int
	}{
		{-180, 1}, {-179.5, 1}, {-174, 2}, {-0.001, 30}, {0, 31}, {3, 31}, {6, 32},
		{11.57, 32}, {12, 33}, {179.99, 60}, {180, 1}, {540, 1}, {-540, 1},
		{371.57, 32}, {-348.43, 32},
	} {
		if got := UTMZone(tc.lon); got != tc.zone {
			t.Fatalf("%f: got zone %d, expected %d", tc.lon, got, tc.zone)
		}
	}
	for _, lon := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if UTMZone(lon) != 0 {
			t.Fatalf("%v should not have a zone", lon)
		}
	}
	if ZoneCentralMeridian(32) != 9 || ZoneCentralMeridian(1) != -177 || ZoneCentralMeridian(60) != 177 {
		t.Fatal("incorrect central meridian")
	}
}

func TestUTMCentralMeridian(t *testing.T) {
	tf := NewGPSTransform(WGS84)
	// On the central meridian the easting is the false easting and the northing is the
	// scaled meridian arc; on the equator the northing is zero.
	utm, _, err := tf.EllipsoidToUTM([]r3.Vector{{X: 0, Y: 9, Z: 0}, {X: 0, Y: 10, Z: 0}, {X: 45, Y: 9, Z: 0}})
	if err != nil {
		t.Fatal(err)
	}
	if utm[0].X != UTMFalseEasting || utm[0].Y != 0 {
		t.Fatalf("origin of the zone: %v", utm[0])
	}
	if utm[1].Y != 0 || !(utm[1].X > UTMFalseEasting) {
		t.Fatalf("equator east of the central meridian: %v", utm[1])
	}
	// Meridian arc from the equator to 45°N on WGS84 is 4984944.378 m.
	if utm[2].X != UTMFalseEasting || !scalar.EqualWithinAbs(utm[2].Y, 4984944.378*UTMScaleFactor, 1e-3) {
		t.Fatalf("45°N on the central meridian: %v", utm[2])
	}
}

func TestUTMSouthernHemisphere(t *testing.T) {
	tf := NewGPSTransform(WGS84)
	ell := []r3.Vector{
		{X: -33.8688, Y: 151.2093, Z: 58},
		{X: -33.9, Y: 151.0, Z: 12},
		{X: -0.5, Y: 152.9, Z: 0},
	}
	utm, zone, err := tf.EllipsoidToUTM(ell)
	if err != nil {
		t.Fatal(err)
	}
	if zone != 56 {
		t.Fatalf("zone %d", zone)
	}
	for i, p := range utm {
		if !(p.Y > 0 && p.Y < UTMFalseNorthing) {
			t.Fatalf("#%d: southern northing %f should carry the false northing", i, p.Y)
		}
	}
	// Sydney is at about 6250 km northing.
	if !scalar.EqualWithinAbs(utm[0].Y, 6250e3, 5e3) {
		t.Fatalf("Sydney northing: %f", utm[0].Y)
	}
	back, err := tf.UTMToEllipsoid(utm, zone, false)
	if err != nil {
		t.Fatal(err)
	}
	if ok, err := vectorsNear(back, ell, 1e-9); !ok {
		t.Fatal(err)
	}
}

func TestUTMRoundTrip(t *testing.T) {
	lat := distuv.Uniform{Min: 0, Max: 84}
	dlon := distuv.Uniform{Min: -3, Max: 3}
	for _, e := range []Ellipsoid{WGS84, GRS80} {
		tf := NewGPSTransform(e)
		for zone := 1; zone <= 60; zone++ {
			ell := make([]r3.Vector, 20)
			for i := range ell {
				ell[i] = r3.Vector{X: lat.Rand(), Y: ZoneCentralMeridian(zone) + dlon.Rand(), Z: 100}
			}
			ell[0].Y = ZoneCentralMeridian(zone)
			utm, gotZone, err := tf.EllipsoidToUTM(ell)
			if err != nil {
				t.Fatal(err)
			}
			if gotZone != zone {
				t.Fatalf("%f: zone %d, expected %d", ell[0].Y, gotZone, zone)
			}
			back, err := tf.UTMToEllipsoid(utm, zone, true)
			if err != nil {
				t.Fatal(err)
			}
			for i := range ell {
				if !scalar.EqualWithinAbs(back[i].X, ell[i].X, 1e-9) || !scalar.EqualWithinAbs(normalizeDeg(back[i].Y-ell[i].Y), 0, 1e-9) {
					t.Fatalf("%s zone %d #%d: %v != %v", e.Name(), zone, i, back[i], ell[i])
				}
			}
		}
	}
}

func TestUTMErrors(t *testing.T) {
	tf := NewGPSTransform(WGS84)
	for _, zone := range []int{0, -1, 61} {
		if _, err := tf.UTMToEllipsoid(utmWGS84, zone, true); !errors.Is(err, ErrZone) {
			t.Fatalf("zone %d: expected ErrZone, got %v", zone, err)
		}
	}
	if _, _, err := tf.EllipsoidToUTM([]r3.Vector{{X: 48, Y: 11, Z: 0}, {X: -91, Y: 11, Z: 0}}); !errors.Is(err, ErrLatitude) {
		t.Fatalf("expected ErrLatitude, got %v", err)
	}
	utm, zone, err := tf.EllipsoidToUTM(nil)
	if err != nil || zone != 0 || len(utm) != 0 {
		t.Fatalf("empty batch: %v %d %v", utm, zone, err)
	}
	utm, zone, err = tf.EllipsoidToUTM([]r3.Vector{{X: 48, Y: math.NaN(), Z: 1}})
	if err != nil || zone != 0 || !math.IsNaN(utm[0].X) || !math.IsNaN(utm[0].Y) || utm[0].Z != 1 {
		t.Fatalf("NaN longitude: %v %d %v", utm, zone, err)
	}
}
