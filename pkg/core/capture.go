// pkg/core/capture.go
package core

import "time"

// CaptureMetadata is the per-shot record written to metadata.json.
// Field names are part of the export format.
type CaptureMetadata struct {
	ID          string  `json:"id"`
	Alpha       float64 `json:"alpha"`
	Beta        float64 `json:"beta"`
	Gamma       float64 `json:"gamma"`
	CameraTheta float64 `json:"cameraTheta"`
	CameraPhi   float64 `json:"cameraPhi"`
	SphereTheta float64 `json:"sphereTheta"`
	SpherePhi   float64 `json:"spherePhi"`
}

// Capture is an encoded still plus its metadata.
// Captures are immutable once appended to a session.
type Capture struct {
	Name      string // <markerID>.<ext>
	MediaType string
	Payload   []byte
	TakenAt   time.Time
	Metadata  CaptureMetadata

	Marker  Point      // consumed marker position
	Forward [3]float64 // unit aim vector at capture time
}

// SessionInfo describes a capture session for journal backends.
type SessionInfo struct {
	ID          string
	StartTime   time.Time
	Preset      string
	Resolution  Resolution
	MarkerCount int
}
