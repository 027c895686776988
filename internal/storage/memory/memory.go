// internal/storage/memory/memory.go
package memory

import (
	"errors"
	"sync"
	"time"

	"github.com/spherecam/spherecam/internal/geo"
	"github.com/spherecam/spherecam/pkg/core"
)

// ErrNoSession is returned when recording before StartSession.
var ErrNoSession = errors.New("no active session")

// CaptureRecord pairs a capture's metadata with the marker it consumed.
type CaptureRecord struct {
	Metadata  core.CaptureMetadata
	Marker    core.Point
	Name      string
	SizeBytes int
	TakenAt   time.Time
}

// Backend keeps the capture journal in memory
type Backend struct {
	session  *core.SessionInfo
	endTime  time.Time
	captures []CaptureRecord
	mu       sync.RWMutex
}

// New creates a new memory backend
func New() *Backend {
	return &Backend{}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.session = nil
	b.captures = nil
	return nil
}

// StartSession begins a new journal, discarding any previous one
func (b *Backend) StartSession(info *core.SessionInfo) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := *info
	b.session = &s
	b.endTime = time.Time{}
	b.captures = nil
	return nil
}

// EndSession marks the session finished
func (b *Backend) EndSession(end time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return ErrNoSession
	}
	b.endTime = end
	return nil
}

// RecordCapture appends a capture to the journal
func (b *Backend) RecordCapture(c *core.Capture) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return ErrNoSession
	}

	b.captures = append(b.captures, CaptureRecord{
		Metadata:  c.Metadata,
		Marker:    c.Marker,
		Name:      c.Name,
		SizeBytes: len(c.Payload),
		TakenAt:   c.TakenAt,
	})
	return nil
}

// ListCaptures returns all recorded captures in order
func (b *Backend) ListCaptures() ([]core.CaptureMetadata, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]core.CaptureMetadata, 0, len(b.captures))
	for _, r := range b.captures {
		out = append(out, r.Metadata)
	}
	return out, nil
}

// CountCaptures returns the number of recorded captures
func (b *Backend) CountCaptures() (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.captures), nil
}

// CapturesNear returns captures whose marker lies within toleranceDeg of dir
func (b *Backend) CapturesNear(dir [3]float64, toleranceDeg float64) ([]core.CaptureMetadata, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	target := geo.PointFromVec(dir)
	var out []core.CaptureMetadata
	for _, r := range b.captures {
		if geo.Within(target, geo.PointFromCore(r.Marker), toleranceDeg) {
			out = append(out, r.Metadata)
		}
	}
	return out, nil
}

// Session returns the active session and its end time, if ended.
func (b *Backend) Session() (core.SessionInfo, time.Time, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.session == nil {
		return core.SessionInfo{}, time.Time{}, false
	}
	return *b.session, b.endTime, true
}
