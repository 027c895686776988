// Package geometry generates marker layouts on a sphere centred on the viewer.
// Every generator is a pure function of its parameters: the same input always
// yields the same ordered points. Identifiers are assigned later by the marker
// package so that layouts stay deterministic.
package geometry

import (
	"errors"

	"github.com/spherecam/spherecam/internal/mathutil"
	"github.com/spherecam/spherecam/pkg/core"
)

// ErrInvalidParams is returned when generator parameters cannot produce a layout.
var ErrInvalidParams = errors.New("invalid sphere layout parameters")

// newPoint rounds coordinates and angles (radians in) to two decimals.
func newPoint(x, y, z, theta, phi float64) core.Point {
	return core.Point{
		X:     mathutil.Round2(x),
		Y:     mathutil.Round2(y),
		Z:     mathutil.Round2(z),
		Theta: mathutil.WrapDegrees(mathutil.Round2(mathutil.Rad2Deg(theta))),
		Phi:   mathutil.WrapDegrees(mathutil.Round2(mathutil.Rad2Deg(phi))),
	}
}
