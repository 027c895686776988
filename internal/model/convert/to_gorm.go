// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"

	"github.com/spherecam/spherecam/internal/geo"
	"github.com/spherecam/spherecam/internal/model"
	"github.com/spherecam/spherecam/pkg/core"
	"gorm.io/datatypes"
)

// metadataToJSON converts the export record to datatypes.JSON for DB storage.
func metadataToJSON(m core.CaptureMetadata) datatypes.JSON {
	data, err := json.Marshal(m)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(data)
}

// CoreToSession converts a core.SessionInfo to a GORM model.Session.
func CoreToSession(s core.SessionInfo) model.Session {
	return model.Session{
		UID:         s.ID,
		StartTime:   s.StartTime,
		Preset:      s.Preset,
		Width:       s.Resolution.Width,
		Height:      s.Resolution.Height,
		AspectRatio: string(s.Resolution.AspectRatio),
		MarkerCount: s.MarkerCount,
	}
}

// CoreToCapture converts a core.Capture to a GORM model.Capture for the given session row.
func CoreToCapture(c core.Capture, sessionID uint) model.Capture {
	return model.Capture{
		SessionID:      sessionID,
		MarkerID:       c.Metadata.ID,
		FileName:       c.Name,
		MediaType:      c.MediaType,
		SizeBytes:      len(c.Payload),
		TakenAt:        c.TakenAt,
		Alpha:          c.Metadata.Alpha,
		Beta:           c.Metadata.Beta,
		Gamma:          c.Metadata.Gamma,
		CameraTheta:    c.Metadata.CameraTheta,
		CameraPhi:      c.Metadata.CameraPhi,
		SphereTheta:    c.Metadata.SphereTheta,
		SpherePhi:      c.Metadata.SpherePhi,
		MarkerPosition: geo.PointFromCore(c.Marker),
		AimDirection:   geo.PointFromVec(c.Forward),
		Metadata:       metadataToJSON(c.Metadata),
	}
}
