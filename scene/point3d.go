// Package scene stores reconstructed 3D points and their tracks, and geo-registers
// them through a geod.GPSTransform.
package scene

import (
	"fmt"
	"sort"

	"github.com/ChristopherRabotin/geod"
	"github.com/golang/geo/r3"
)

// TrackElement references the 2D observation of a 3D point in an image.
type TrackElement struct {
	ImageID    uint32
	Point2DIdx uint32
}

// Track lists every observation of a 3D point.
type Track struct {
	Elements []TrackElement
}

// Add appends an observation to the track.
func (t *Track) Add(imageID, point2DIdx uint32) {
	t.Elements = append(t.Elements, TrackElement{imageID, point2DIdx})
}

// Len returns the number of observations.
func (t Track) Len() int { return len(t.Elements) }

// Point3D is a reconstructed point. The frame of XYZ is owned by the caller.
type Point3D struct {
	XYZ   r3.Vector
	Color [3]uint8
	Error float64 // mean reprojection error in pixels, negative if unknown
	Track Track
}

func (p Point3D) String() string {
	return fmt.Sprintf("(%f, %f, %f) rgb%v err=%.3f obs=%d", p.XYZ.X, p.XYZ.Y, p.XYZ.Z, p.Color, p.Error, p.Track.Len())
}

// Point3DMap maps point identifiers to points.
type Point3DMap map[uint64]*Point3D

// IDs returns the identifiers in increasing order.
func (m Point3DMap) IDs() []uint64 {
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Positions returns the positions of the provided points, in the same order.
func (m Point3DMap) Positions(ids []uint64) ([]r3.Vector, error) {
	xyz := make([]r3.Vector, len(ids))
	for i, id := range ids {
		p, ok := m[id]
		if !ok {
			return nil, fmt.Errorf("unknown point %d", id)
		}
		xyz[i] = p.XYZ
	}
	return xyz, nil
}

// SetPositions overwrites the positions of the provided points.
func (m Point3DMap) SetPositions(ids []uint64, xyz []r3.Vector) error {
	if len(ids) != len(xyz) {
		return fmt.Errorf("got %d positions for %d points", len(xyz), len(ids))
	}
	for i, id := range ids {
		p, ok := m[id]
		if !ok {
			return fmt.Errorf("unknown point %d", id)
		}
		p.XYZ = xyz[i]
	}
	return nil
}

// GeoRegister rewrites every position, expressed in the ENU frame at
// (lat0, lon0, alt0), as geodetic latitude, longitude and altitude.
// Nothing is modified on error.
func GeoRegister(m Point3DMap, tf *geod.GPSTransform, lat0, lon0, alt0 float64) error {
	ids := m.IDs()
	enu, err := m.Positions(ids)
	if err != nil {
		return err
	}
	ell, err := tf.ENUToEllipsoid(enu, lat0, lon0, alt0)
	if err != nil {
		return err
	}
	return m.SetPositions(ids, ell)
}

// Localize is the inverse of GeoRegister for alt0 = 0: geodetic positions are
// rewritten in the ENU frame at (lat0, lon0).
func Localize(m Point3DMap, tf *geod.GPSTransform, lat0, lon0 float64) error {
	ids := m.IDs()
	ell, err := m.Positions(ids)
	if err != nil {
		return err
	}
	enu, err := tf.EllipsoidToENU(ell, lat0, lon0)
	if err != nil {
		return err
	}
	return m.SetPositions(ids, enu)
}
