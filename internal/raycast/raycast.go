// Package raycast finds the marker under the camera's aim.
package raycast

import (
	"math"

	"github.com/spherecam/spherecam/internal/marker"
	"github.com/spherecam/spherecam/internal/mathutil"
)

// HitRadius is the visual radius of a marker sphere.
const HitRadius = 0.3

// Hit is the nearest intersected marker.
type Hit struct {
	ID       string
	Distance float64
}

// Intersect returns the distance along dir (unit length) from origin to the
// first intersection with the sphere at centre, and false on a miss or when the
// sphere lies entirely behind the origin.
func Intersect(origin, dir, centre mathutil.Vec3, radius float64) (float64, bool) {
	oc := origin.Sub(centre)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}

	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq // origin inside the sphere
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Nearest returns the closest target hit by the ray. Targets at the same
// distance resolve to the one listed first.
func Nearest(origin, dir mathutil.Vec3, targets []marker.Target, radius float64) (Hit, bool) {
	dir = dir.Normalize()
	if dir == (mathutil.Vec3{}) {
		return Hit{}, false
	}

	var (
		best  Hit
		found bool
	)
	for _, tg := range targets {
		d, ok := Intersect(origin, dir, tg.Position, radius)
		if !ok {
			continue
		}
		if !found || d < best.Distance {
			best = Hit{ID: tg.ID, Distance: d}
			found = true
		}
	}
	return best, found
}
