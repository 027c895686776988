// Package viewport tracks the rendering surface size. The surface itself is
// resized immediately; UI queries read a debounced copy that only settles
// once resizing has stopped.
package viewport

import (
	"sync"
	"time"
)

// DebounceDelay is how long a size must hold before Debounced reports it.
const DebounceDelay = 300 * time.Millisecond

// ringScale is the focus ring diameter as a fraction of surface height.
const ringScale = 0.08

// Size is a surface size in CSS pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Aspect returns width/height, or 0 for an empty size.
func (s Size) Aspect() float64 {
	if s.Height == 0 {
		return 0
	}
	return float64(s.Width) / float64(s.Height)
}

// Tracker holds the live and debounced surface sizes.
type Tracker struct {
	mu        sync.Mutex
	current   Size
	debounced Size
	delay     time.Duration
	timer     *time.Timer
	onSettle  func(Size)
}

// NewTracker starts both sizes at initial.
func NewTracker(initial Size) *Tracker {
	return &Tracker{
		current:   initial,
		debounced: initial,
		delay:     DebounceDelay,
	}
}

// OnSettle registers fn to run whenever the debounced size changes.
func (t *Tracker) OnSettle(fn func(Size)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettle = fn
}

// Resize records a new surface size. The current size changes at once; the
// debounced size follows after DebounceDelay without further resizes.
func (t *Tracker) Resize(s Size) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current = s
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.delay, func() { t.settle(s) })
}

func (t *Tracker) settle(s Size) {
	t.mu.Lock()
	if t.current != s {
		t.mu.Unlock()
		return
	}
	changed := t.debounced != s
	t.debounced = s
	fn := t.onSettle
	t.mu.Unlock()

	if changed && fn != nil {
		fn(s)
	}
}

// Current returns the latest size, for the renderer.
func (t *Tracker) Current() Size {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Debounced returns the settled size, for UI layout.
func (t *Tracker) Debounced() Size {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.debounced
}

// Stop cancels a pending settle. Used at teardown.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// RingSize returns the focus ring diameter for a surface height.
func RingSize(height int) float64 {
	return float64(height) * ringScale
}
