package convert

import (
	"github.com/spherecam/spherecam/internal/model"
	"github.com/spherecam/spherecam/pkg/core"
)

// CaptureToCore converts a GORM Capture to its export record.
func CaptureToCore(c model.Capture) core.CaptureMetadata {
	return core.CaptureMetadata{
		ID:          c.MarkerID,
		Alpha:       c.Alpha,
		Beta:        c.Beta,
		Gamma:       c.Gamma,
		CameraTheta: c.CameraTheta,
		CameraPhi:   c.CameraPhi,
		SphereTheta: c.SphereTheta,
		SpherePhi:   c.SpherePhi,
	}
}

// SessionToCore converts a GORM Session to a core.SessionInfo.
func SessionToCore(s model.Session) core.SessionInfo {
	return core.SessionInfo{
		ID:        s.UID,
		StartTime: s.StartTime,
		Preset:    s.Preset,
		Resolution: core.Resolution{
			Width:       s.Width,
			Height:      s.Height,
			AspectRatio: core.AspectRatio(s.AspectRatio),
		},
		MarkerCount: s.MarkerCount,
	}
}
