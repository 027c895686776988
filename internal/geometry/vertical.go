package geometry

import (
	"fmt"
	"math"

	"github.com/spherecam/spherecam/pkg/core"
)

// VerticalParams configures the meridian-segment layout.
type VerticalParams struct {
	PointCount   int     // interior rings, poles excluded
	SegmentCount int     // phi divisions per ring
	Radius       float64 // sphere radius
}

func (p VerticalParams) validate() error {
	switch {
	case p.PointCount < 0:
		return fmt.Errorf("%w: pointCount must be >= 0, got %d", ErrInvalidParams, p.PointCount)
	case p.SegmentCount < 1:
		return fmt.Errorf("%w: segmentCount must be >= 1, got %d", ErrInvalidParams, p.SegmentCount)
	case p.Radius <= 0:
		return fmt.Errorf("%w: radius must be > 0, got %v", ErrInvalidParams, p.Radius)
	}
	return nil
}

// VerticalSegments returns the two poles followed by PointCount rings with
// theta spaced over the open interval (π/2, 3π/2). Each ring walks phi from
// 0 to 2π inclusive, so its first and last points coincide (both report
// phi = 0 after normalisation). The duplicate is kept so existing layouts
// and their marker counts stay stable.
func VerticalSegments(p VerticalParams) ([]core.Point, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	points := make([]core.Point, 0, 2+p.PointCount*(p.SegmentCount+1))
	points = append(points,
		newPoint(0, p.Radius, 0, math.Pi/2, 0),
		newPoint(0, -p.Radius, 0, 3*math.Pi/2, 0),
	)

	deltaTheta := math.Pi / float64(p.PointCount+1)
	deltaPhi := 2 * math.Pi / float64(p.SegmentCount)

	for i := 0; i < p.PointCount; i++ {
		theta := math.Pi/2 + deltaTheta*float64(i+1)
		rx := p.Radius * math.Cos(theta)
		ry := p.Radius * math.Sin(theta)

		for j := 0; j <= p.SegmentCount; j++ {
			phi := deltaPhi * float64(j)
			points = append(points, newPoint(rx*math.Cos(phi), ry, rx*math.Sin(phi), theta, phi))
		}
	}

	return points, nil
}
