// internal/storage/storage.go
package storage

import (
	"time"

	"github.com/spherecam/spherecam/pkg/core"
)

// Backend is the interface all capture journal implementations must satisfy.
// A journal lives only as long as its session; nothing outlives Close.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session management
	StartSession(info *core.SessionInfo) error
	EndSession(end time.Time) error

	// Capture recording
	RecordCapture(c *core.Capture) error

	// Queries, in capture order
	ListCaptures() ([]core.CaptureMetadata, error)
	CountCaptures() (int, error)
	// CapturesNear returns captures whose marker lies within toleranceDeg of dir.
	CapturesNear(dir [3]float64, toleranceDeg float64) ([]core.CaptureMetadata, error)
}
