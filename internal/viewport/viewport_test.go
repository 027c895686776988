package viewport

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newFastTracker(initial Size) *Tracker {
	tr := NewTracker(initial)
	tr.delay = 20 * time.Millisecond
	return tr
}

func TestTracker_ResizeIsImmediateForCurrent(t *testing.T) {
	tr := newFastTracker(Size{800, 600})
	defer tr.Stop()

	tr.Resize(Size{1024, 768})
	assert.Equal(t, Size{1024, 768}, tr.Current())
	assert.Equal(t, Size{800, 600}, tr.Debounced())
}

func TestTracker_DebouncedSettles(t *testing.T) {
	tr := newFastTracker(Size{800, 600})
	defer tr.Stop()

	tr.Resize(Size{1024, 768})
	assert.Eventually(t, func() bool {
		return tr.Debounced() == Size{1024, 768}
	}, time.Second, 5*time.Millisecond)
}

func TestTracker_BurstSettlesOnLast(t *testing.T) {
	tr := newFastTracker(Size{800, 600})
	defer tr.Stop()

	var settled atomic.Int32
	tr.OnSettle(func(Size) { settled.Add(1) })

	for w := 100; w <= 500; w += 100 {
		tr.Resize(Size{w, 300})
	}

	assert.Eventually(t, func() bool {
		return tr.Debounced() == Size{500, 300}
	}, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), settled.Load())
}

func TestTracker_StopCancelsPending(t *testing.T) {
	tr := newFastTracker(Size{800, 600})
	tr.Resize(Size{1, 1})
	tr.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, Size{800, 600}, tr.Debounced())
}

func TestSize_Aspect(t *testing.T) {
	assert.InDelta(t, 16.0/9.0, Size{1280, 720}.Aspect(), 1e-9)
	assert.Zero(t, Size{}.Aspect())
}

func TestRingSize(t *testing.T) {
	assert.InDelta(t, 57.6, RingSize(720), 1e-9)
	assert.Zero(t, RingSize(0))
}
