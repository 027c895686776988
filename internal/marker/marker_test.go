package marker

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/spherecam/spherecam/internal/color"
	"github.com/spherecam/spherecam/internal/mathutil"
	"github.com/spherecam/spherecam/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMarkers(n int) []core.Marker {
	gen := &SequenceGenerator{Prefix: "m"}
	points := make([]core.Point, n)
	for i := range points {
		points[i] = core.Point{X: float64(i), Y: 0, Z: 5}
	}
	return Build(points, gen, 5)
}

func TestBuild_AssignsIDsAndColours(t *testing.T) {
	points := []core.Point{
		{X: 5, Y: 0, Z: 0, Theta: 90, Phi: 0},
		{X: 0, Y: 5, Z: 0, Theta: 0, Phi: 0},
	}

	markers := Build(points, &SequenceGenerator{Prefix: "m"}, 5)
	require.Len(t, markers, 2)

	assert.Equal(t, "m1", markers[0].ID)
	assert.Equal(t, "m2", markers[1].ID)
	assert.Equal(t, points[0], markers[0].Point)
	assert.Equal(t, color.PositionToHSL(1, 0, 0), markers[0].Color)
	assert.Equal(t, color.PositionToHSL(0, 1, 0), markers[1].Color)
}

func TestBuild_UUIDsAreUnique(t *testing.T) {
	points := make([]core.Point, 50)
	markers := Build(points, UUIDGenerator{}, 1)

	seen := map[string]bool{}
	for _, m := range markers {
		_, err := uuid.Parse(m.ID)
		require.NoError(t, err)
		assert.False(t, seen[m.ID], "duplicate id %s", m.ID)
		seen[m.ID] = true
	}
}

func TestRegistry_AddAndGet(t *testing.T) {
	r := NewRegistry()
	r.Add(testMarkers(3)...)

	m, ok := r.Get("m2")
	require.True(t, ok, "expected to find m2")
	assert.Equal(t, 1.0, m.Point.X)
	assert.Equal(t, 3, r.Len())
}

func TestRegistry_Get_NotFound(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Get("nonexistent")
	assert.False(t, ok, "expected not to find nonexistent marker")
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	r.Add(testMarkers(3)...)

	assert.True(t, r.Remove("m2"))
	assert.False(t, r.Remove("m2"), "second remove must report absence")

	_, ok := r.Get("m2")
	assert.False(t, ok)

	ids := []string{}
	for _, m := range r.All() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"m1", "m3"}, ids)
}

func TestRegistry_AddExistingKeepsOrder(t *testing.T) {
	r := NewRegistry()
	markers := testMarkers(2)
	r.Add(markers...)

	updated := markers[0]
	updated.Color = "hsl(1.00, 70%, 50%)"
	r.Add(updated)

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "m1", all[0].ID)
	assert.Equal(t, "hsl(1.00, 70%, 50%)", all[0].Color)
}

func TestRegistry_Targets(t *testing.T) {
	r := NewRegistry()
	r.Add(testMarkers(2)...)

	targets := r.Targets()
	require.Len(t, targets, 2)
	assert.Equal(t, Target{ID: "m1", Position: mathutil.Vec3{0, 0, 5}}, targets[0])
	assert.Equal(t, Target{ID: "m2", Position: mathutil.Vec3{1, 0, 5}}, targets[1])
}

func TestRegistry_ResetAndReplace(t *testing.T) {
	r := NewRegistry()
	r.Add(testMarkers(3)...)

	r.Reset()
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.All())

	r.Replace(testMarkers(2))
	assert.Equal(t, 2, r.Len())
	_, ok := r.Get("m3")
	assert.False(t, ok)
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r.Add(core.Marker{ID: fmt.Sprintf("m%d", n)})
		}(i)
	}
	wg.Wait()

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			r.Remove(fmt.Sprintf("m%d", n))
		}(i)
		go func() {
			defer wg.Done()
			_ = r.Targets()
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, r.Len())
}
