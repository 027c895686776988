package geo

import (
	"math"

	"github.com/spherecam/spherecam/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// GEO POINTS
// Marker positions and aim vectors are stored as XYZ points in the viewer's
// frame (metres from the camera, Y up). SQLite has no spatial awareness, so
// points travel as WKB blobs and angular queries run in Go.

// NewPointXYZ builds a 3D point.
func NewPointXYZ(x, y, z float64) geom.Point {
	return geom.NewPoint(
		geom.Coordinates{
			XY:   geom.XY{X: x, Y: y},
			Z:    z,
			Type: geom.CoordinatesType(geom.DimXYZ),
		},
	)
}

// PointFromCore converts a marker position to a geom.Point.
func PointFromCore(p core.Point) geom.Point {
	return NewPointXYZ(p.X, p.Y, p.Z)
}

// PointFromVec converts a direction or position vector to a geom.Point.
func PointFromVec(v [3]float64) geom.Point {
	return NewPointXYZ(v[0], v[1], v[2])
}

// Vec returns the XYZ components of p. Empty points report false.
func Vec(p geom.Point) ([3]float64, bool) {
	c, ok := p.Coordinates()
	if !ok {
		return [3]float64{}, false
	}
	return [3]float64{c.XY.X, c.XY.Y, c.Z}, true
}

// AngleBetween returns the angle in degrees between the directions from the
// origin to a and to b. Empty or zero-length points yield NaN.
func AngleBetween(a, b geom.Point) float64 {
	va, okA := Vec(a)
	vb, okB := Vec(b)
	if !okA || !okB {
		return math.NaN()
	}

	la := math.Sqrt(va[0]*va[0] + va[1]*va[1] + va[2]*va[2])
	lb := math.Sqrt(vb[0]*vb[0] + vb[1]*vb[1] + vb[2]*vb[2])
	if la == 0 || lb == 0 {
		return math.NaN()
	}

	cos := (va[0]*vb[0] + va[1]*vb[1] + va[2]*vb[2]) / (la * lb)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// Within reports whether b lies within toleranceDeg of a's direction.
func Within(a, b geom.Point, toleranceDeg float64) bool {
	d := AngleBetween(a, b)
	return !math.IsNaN(d) && d <= toleranceDeg
}
