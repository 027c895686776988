// Package marker turns layout points into identified, coloured markers and
// keeps the live set for a session.
package marker

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/spherecam/spherecam/internal/color"
	"github.com/spherecam/spherecam/pkg/core"
)

// IDGenerator hands out marker identifiers.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random v4 UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator issues "<prefix><n>" starting at 1. Safe for concurrent use.
type SequenceGenerator struct {
	Prefix string
	n      atomic.Uint64
}

func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("%s%d", g.Prefix, g.n.Add(1))
}

// Build assigns an ID and colour to every point, preserving order.
func Build(points []core.Point, gen IDGenerator, radius float64) []core.Marker {
	markers := make([]core.Marker, 0, len(points))
	for _, p := range points {
		markers = append(markers, core.Marker{
			ID:    gen.NewID(),
			Point: p,
			Color: color.ForPoint(p, radius),
		})
	}
	return markers
}
