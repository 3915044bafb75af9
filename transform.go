package geod

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/golang/geo/r3"
)

// parallelThreshold is the batch size from which conversions are split across workers.
const parallelThreshold = 4096

// ErrLatitude is returned when a latitude is outside of [-90, 90] degrees.
var ErrLatitude = errors.New("latitude out of [-90, 90] degrees")

// GPSTransform converts batches of points between geodetic, ECEF, ENU and UTM
// coordinates on a single ellipsoid. Angles are in degrees and lengths in meters.
// Every conversion preserves the order and the count of its input.
// A GPSTransform is read-only once built and safe for concurrent use.
type GPSTransform struct {
	ell     Ellipsoid
	tm      tmSeries
	workers int
	logger  kitlog.Logger
}

// Option configures a GPSTransform.
type Option func(*GPSTransform)

// WithLogger sets the logger used for debug events. Defaults to a no-op logger.
func WithLogger(logger kitlog.Logger) Option {
	return func(t *GPSTransform) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithWorkers sets the number of goroutines used for large batches. Values below
// two disable the parallel path.
func WithWorkers(n int) Option {
	return func(t *GPSTransform) {
		t.workers = n
	}
}

// NewGPSTransform returns a new transform on the provided ellipsoid.
func NewGPSTransform(ell Ellipsoid, opts ...Option) *GPSTransform {
	t := &GPSTransform{
		ell:     ell,
		tm:      newTMSeries(ell),
		workers: runtime.GOMAXPROCS(0),
		logger:  kitlog.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = kitlog.With(t.logger, "ellipsoid", ell.name)
	return t
}

// Ellipsoid returns the ellipsoid of this transform.
func (t *GPSTransform) Ellipsoid() Ellipsoid {
	return t.ell
}

// EllipsoidToECEF converts geodetic points (latitude, longitude, altitude) to ECEF.
func (t *GPSTransform) EllipsoidToECEF(ell []r3.Vector) ([]r3.Vector, error) {
	if err := checkLatitudes(ell); err != nil {
		return nil, err
	}
	xyz := make([]r3.Vector, len(ell))
	t.each(len(ell), func(i int) {
		xyz[i] = t.ell.ToECEF(ell[i])
	})
	return xyz, nil
}

// ECEFToEllipsoid converts ECEF points to geodetic points (latitude, longitude, altitude).
// Points on the polar axis get a longitude of zero.
func (t *GPSTransform) ECEFToEllipsoid(xyz []r3.Vector) []r3.Vector {
	ell := make([]r3.Vector, len(xyz))
	t.each(len(xyz), func(i int) {
		ell[i] = t.ell.FromECEF(xyz[i])
	})
	return ell
}

// ECEFToENU converts ECEF points to the ENU frame at (lat0, lon0).
// The frame origin is taken on the ellipsoid surface: up components are heights
// above the ellipsoid point beneath the origin.
func (t *GPSTransform) ECEFToENU(xyz []r3.Vector, lat0, lon0 float64) ([]r3.Vector, error) {
	if !validLatitude(lat0) {
		return nil, fmt.Errorf("ENU origin: %w: %v", ErrLatitude, lat0)
	}
	frame := t.ell.NewFrame(lat0, lon0, 0)
	enu := make([]r3.Vector, len(xyz))
	t.each(len(xyz), func(i int) {
		enu[i] = frame.FromECEF(xyz[i])
	})
	return enu, nil
}

// EllipsoidToENU converts geodetic points to the ENU frame at (lat0, lon0), with the
// same origin convention as ECEFToENU.
func (t *GPSTransform) EllipsoidToENU(ell []r3.Vector, lat0, lon0 float64) ([]r3.Vector, error) {
	xyz, err := t.EllipsoidToECEF(ell)
	if err != nil {
		return nil, err
	}
	return t.ECEFToENU(xyz, lat0, lon0)
}

// ENUToECEF converts ENU points of the frame at (lat0, lon0) to ECEF, the frame origin
// being placed at the altitude alt0.
// Unlike ECEFToENU, the origin altitude is not assumed to be zero: an exact round
// trip of the forward conversions requires alt0 = 0, and any other value shifts the
// result by alt0 along the up axis of the origin.
func (t *GPSTransform) ENUToECEF(enu []r3.Vector, lat0, lon0, alt0 float64) ([]r3.Vector, error) {
	if !validLatitude(lat0) {
		return nil, fmt.Errorf("ENU origin: %w: %v", ErrLatitude, lat0)
	}
	frame := t.ell.NewFrame(lat0, lon0, alt0)
	xyz := make([]r3.Vector, len(enu))
	t.each(len(enu), func(i int) {
		xyz[i] = frame.ToECEF(enu[i])
	})
	return xyz, nil
}

// ENUToEllipsoid converts ENU points of the frame at (lat0, lon0, alt0) to geodetic
// points, with the same origin convention as ENUToECEF.
func (t *GPSTransform) ENUToEllipsoid(enu []r3.Vector, lat0, lon0, alt0 float64) ([]r3.Vector, error) {
	xyz, err := t.ENUToECEF(enu, lat0, lon0, alt0)
	if err != nil {
		return nil, err
	}
	return t.ECEFToEllipsoid(xyz), nil
}

// EllipsoidToUTM projects geodetic points to UTM (easting, northing, height) and
// returns the zone used.
// The zone and the hemisphere are those of the first point and are applied to the
// whole batch: all points must lie in the same zone and hemisphere, which is not
// checked. Points of the southern hemisphere carry the 10000 km false northing.
// An empty batch returns zone 0.
func (t *GPSTransform) EllipsoidToUTM(ell []r3.Vector) ([]r3.Vector, int, error) {
	if err := checkLatitudes(ell); err != nil {
		return nil, 0, err
	}
	if len(ell) == 0 {
		return []r3.Vector{}, 0, nil
	}
	zone := UTMZone(ell[0].Y)
	north := !(ell[0].X < 0)
	level.Debug(t.logger).Log("op", "EllipsoidToUTM", "zone", zone, "north", north, "points", len(ell))
	utm := make([]r3.Vector, len(ell))
	t.each(len(ell), func(i int) {
		utm[i] = t.tm.toUTM(zone, north, ell[i])
	})
	return utm, zone, nil
}

// UTMToEllipsoid converts UTM points (easting, northing, height) of the given zone and
// hemisphere to geodetic points.
func (t *GPSTransform) UTMToEllipsoid(utm []r3.Vector, zone int, north bool) ([]r3.Vector, error) {
	if err := checkZone(zone); err != nil {
		return nil, err
	}
	ell := make([]r3.Vector, len(utm))
	t.each(len(utm), func(i int) {
		ell[i] = t.tm.fromUTM(zone, north, utm[i])
	})
	return ell, nil
}

// each calls fn for every index in [0, n). Large batches are split in contiguous
// chunks, one per worker; fn must only write to its own index.
func (t *GPSTransform) each(n int, fn func(i int)) {
	if n < parallelThreshold || t.workers < 2 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	chunk := (n + t.workers - 1) / t.workers
	level.Debug(t.logger).Log("msg", "splitting batch", "points", n, "workers", t.workers, "chunk", chunk)
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}(lo, min(lo+chunk, n))
	}
	wg.Wait()
}

func checkLatitudes(ell []r3.Vector) error {
	for i, p := range ell {
		if !validLatitude(p.X) {
			return fmt.Errorf("point %d: %w: %v", i, ErrLatitude, p.X)
		}
	}
	return nil
}
