package geometry

import (
	"fmt"

	"github.com/spherecam/spherecam/internal/mathutil"
	"github.com/spherecam/spherecam/pkg/core"
)

// Cube returns the six axis-aligned points at the given radius:
// +X, -X, +Y, -Y, +Z, -Z. Angles follow the VariableDensity convention
// (theta from +Y, phi from +X towards +Z).
func Cube(radius float64) ([]core.Point, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w: radius must be > 0, got %v", ErrInvalidParams, radius)
	}
	r := mathutil.Round2(radius)

	return []core.Point{
		{X: r, Y: 0, Z: 0, Theta: 90, Phi: 0},
		{X: -r, Y: 0, Z: 0, Theta: 90, Phi: 180},
		{X: 0, Y: r, Z: 0, Theta: 0, Phi: 0},
		{X: 0, Y: -r, Z: 0, Theta: 180, Phi: 0},
		{X: 0, Y: 0, Z: r, Theta: 90, Phi: 90},
		{X: 0, Y: 0, Z: -r, Theta: 90, Phi: 270},
	}, nil
}
