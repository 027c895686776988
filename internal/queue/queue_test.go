package queue

import (
	"fmt"
	"sync"
	"testing"

	"github.com/spherecam/spherecam/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(id string) core.Capture {
	return core.Capture{Name: id + ".png", Metadata: core.CaptureMetadata{ID: id}}
}

func TestQueue_New(t *testing.T) {
	q := New[core.Capture]()
	require.NotNil(t, q)
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Items())
}

func TestQueue_PushKeepsOrder(t *testing.T) {
	q := New[core.Capture]()

	assert.Equal(t, 1, q.Push(capture("m1")))
	assert.Equal(t, 3, q.Push(capture("m2"), capture("m3")))

	items := q.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "m1", items[0].Metadata.ID)
	assert.Equal(t, "m2", items[1].Metadata.ID)
	assert.Equal(t, "m3", items[2].Metadata.ID)
}

func TestQueue_ItemsIsSnapshot(t *testing.T) {
	q := New[core.Capture]()
	q.Push(capture("m1"))

	items := q.Items()
	items[0].Name = "mutated"
	q.Push(capture("m2"))

	assert.Len(t, items, 1)
	assert.Equal(t, "m1.png", q.Items()[0].Name)
}

func TestQueue_PushOnlyGrows(t *testing.T) {
	q := New[core.Capture]()
	q.Push(capture("m1"), capture("m2"))
	before := q.Items()

	q.Push(capture("m3"))

	after := q.Items()
	require.Len(t, after, 3)
	assert.Equal(t, before, after[:2], "earlier captures are never removed or reordered")
}

func TestQueue_ConcurrentPush(t *testing.T) {
	q := New[core.Capture]()
	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 100 {
				q.Push(capture(fmt.Sprintf("m%d-%d", n, j)))
				_ = q.Items()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1000, q.Len())
}
