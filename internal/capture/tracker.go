// Package capture decides when the aimed-at marker is photographed and
// produces the captured still with its metadata.
package capture

import "time"

// DwellThreshold is how long the aim must stay on one marker before it is captured.
const DwellThreshold = 1000 * time.Millisecond

// EventKind describes what a Tracker tick did.
type EventKind int

const (
	EventNone EventKind = iota
	EventAimStart
	EventAimLost
	EventFire
)

func (k EventKind) String() string {
	switch k {
	case EventAimStart:
		return "aim-start"
	case EventAimLost:
		return "aim-lost"
	case EventFire:
		return "fire"
	default:
		return "none"
	}
}

// Event is the outcome of a single tick.
type Event struct {
	Kind     EventKind
	MarkerID string
	Dwell    time.Duration
}

// Tracker is the dwell state machine. It is idle until a marker is hit,
// aiming while the same marker stays hit, and fires once the dwell reaches
// DwellThreshold, returning to idle in the same tick.
// Tracker is not safe for concurrent use; call Tick from a single loop.
type Tracker struct {
	target string
	start  time.Time
	aiming bool
}

// NewTracker returns an idle Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Tick advances the state machine with the nearest hit marker for this frame.
// Pass ok=false when the aim ray hits nothing.
func (t *Tracker) Tick(now time.Time, hitID string, ok bool) Event {
	if !ok || hitID == "" {
		if !t.aiming {
			return Event{}
		}
		lost := t.target
		t.Reset()
		return Event{Kind: EventAimLost, MarkerID: lost}
	}

	if !t.aiming || hitID != t.target {
		t.target = hitID
		t.start = now
		t.aiming = true
		return Event{Kind: EventAimStart, MarkerID: hitID}
	}

	dwell := now.Sub(t.start)
	if dwell < DwellThreshold {
		return Event{MarkerID: hitID, Dwell: dwell}
	}

	t.Reset()
	return Event{Kind: EventFire, MarkerID: hitID, Dwell: dwell}
}

// Aiming reports whether a marker is currently under the aim.
func (t *Tracker) Aiming() bool { return t.aiming }

// Target returns the tracked marker ID and when the dwell started.
func (t *Tracker) Target() (string, time.Time, bool) {
	return t.target, t.start, t.aiming
}

// Reset drops any dwell in progress.
func (t *Tracker) Reset() {
	t.target = ""
	t.start = time.Time{}
	t.aiming = false
}
