package geometry

import (
	"fmt"
	"math"

	"github.com/spherecam/spherecam/internal/mathutil"
	"github.com/spherecam/spherecam/pkg/core"
)

// VariableParams configures the latitude-band layout.
type VariableParams struct {
	MaxPoints    int     // points on the equator ring
	MinPoints    int     // points near the poles
	CirclesCount int     // latitude rings, pole to pole inclusive
	Radius       float64 // sphere radius
}

func (p VariableParams) validate() error {
	switch {
	case p.CirclesCount < 2:
		return fmt.Errorf("%w: circlesCount must be >= 2, got %d", ErrInvalidParams, p.CirclesCount)
	case p.Radius <= 0:
		return fmt.Errorf("%w: radius must be > 0, got %v", ErrInvalidParams, p.Radius)
	case p.MinPoints < 0 || p.MaxPoints < 0:
		return fmt.Errorf("%w: point counts must be >= 0", ErrInvalidParams)
	}
	return nil
}

// VariableDensity places CirclesCount latitude rings with theta spaced evenly
// over [0, π]. A ring's point count grows from MinPoints at the poles to
// MaxPoints at the equator in proportion to sin(theta). Poles collapse to a
// single point at phi = 0.
func VariableDensity(p VariableParams) ([]core.Point, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	points := make([]core.Point, 0, p.CirclesCount*max(p.MaxPoints, 1))
	deltaTheta := math.Pi / float64(p.CirclesCount-1)

	for i := 0; i < p.CirclesCount; i++ {
		theta := deltaTheta * float64(i)
		sin := math.Sin(theta)
		circleRadius := p.Radius * sin
		y := p.Radius * math.Cos(theta)

		if mathutil.Round2(circleRadius) == 0 {
			points = append(points, newPoint(0, y, 0, theta, 0))
			continue
		}

		count := int(math.Round(float64(p.MinPoints) + float64(p.MaxPoints-p.MinPoints)*sin))
		if count < 1 {
			count = 1
		}

		deltaPhi := 2 * math.Pi / float64(count)
		for j := 0; j < count; j++ {
			phi := deltaPhi * float64(j)
			points = append(points, newPoint(
				circleRadius*math.Cos(phi),
				y,
				circleRadius*math.Sin(phi),
				theta,
				phi,
			))
		}
	}

	return points, nil
}
