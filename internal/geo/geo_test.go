package geo

import (
	"math"
	"testing"

	"github.com/spherecam/spherecam/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointFromCore(t *testing.T) {
	pt := PointFromCore(core.Point{X: 1.5, Y: -2, Z: 3.25, Theta: 10, Phi: 20})

	coord, ok := pt.Coordinates()
	require.True(t, ok)
	assert.Equal(t, 1.5, coord.XY.X)
	assert.Equal(t, -2.0, coord.XY.Y)
	assert.Equal(t, 3.25, coord.Z)
	assert.Equal(t, geom.DimXYZ, pt.CoordinatesType())
}

func TestVec_RoundTrip(t *testing.T) {
	v, ok := Vec(PointFromVec([3]float64{0, 0, -1}))
	require.True(t, ok)
	assert.Equal(t, [3]float64{0, 0, -1}, v)

	_, ok = Vec(geom.NewEmptyPoint(geom.DimXYZ))
	assert.False(t, ok)
}

func TestAngleBetween(t *testing.T) {
	x := NewPointXYZ(5, 0, 0)
	assert.InDelta(t, 0, AngleBetween(x, NewPointXYZ(1, 0, 0)), 1e-9)
	assert.InDelta(t, 90, AngleBetween(x, NewPointXYZ(0, 0, -1)), 1e-9)
	assert.InDelta(t, 180, AngleBetween(x, NewPointXYZ(-2, 0, 0)), 1e-9)
	assert.InDelta(t, 45, AngleBetween(x, NewPointXYZ(1, 1, 0)), 1e-9)

	assert.True(t, math.IsNaN(AngleBetween(x, NewPointXYZ(0, 0, 0))))
	assert.True(t, math.IsNaN(AngleBetween(x, geom.NewEmptyPoint(geom.DimXYZ))))
}

func TestWithin(t *testing.T) {
	x := NewPointXYZ(5, 0, 0)
	assert.True(t, Within(x, NewPointXYZ(5, 0.1, 0), 5))
	assert.False(t, Within(x, NewPointXYZ(0, 5, 0), 5))
	assert.False(t, Within(x, NewPointXYZ(0, 0, 0), 180))
}
