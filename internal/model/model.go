package model

import (
	"database/sql"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Session{},
	&Capture{},
}

////////////////////////
// JOURNAL MODELS
////////////////////////

// Session is one capture session, from permission grant to teardown
type Session struct {
	gorm.Model
	UID         string       `json:"sessionId" gorm:"column:session_uid;size:64;uniqueIndex:idx_session_uid"`
	StartTime   time.Time    `json:"startTime"`
	EndTime     sql.NullTime `json:"endTime"`
	Preset      string       `json:"preset" gorm:"size:32"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	AspectRatio string       `json:"aspectRatio" gorm:"size:8"`
	MarkerCount int          `json:"markerCount"`
	Captures    []Capture    `gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (*Session) TableName() string {
	return "sessions"
}

// Capture is one stored still. The image payload itself stays in session
// memory; the journal keeps its size and the angles it was taken at.
type Capture struct {
	gorm.Model
	SessionID      uint           `json:"sessionId" gorm:"index:idx_capture_session_id"`
	MarkerID       string         `json:"markerId" gorm:"size:64;index:idx_capture_marker_id"`
	FileName       string         `json:"fileName" gorm:"size:128"`
	MediaType      string         `json:"mediaType" gorm:"size:32"`
	SizeBytes      int            `json:"sizeBytes"`
	TakenAt        time.Time      `json:"takenAt" gorm:"index:idx_capture_taken_at"`
	Alpha          float64        `json:"alpha"`
	Beta           float64        `json:"beta"`
	Gamma          float64        `json:"gamma"`
	CameraTheta    float64        `json:"cameraTheta"`
	CameraPhi      float64        `json:"cameraPhi"`
	SphereTheta    float64        `json:"sphereTheta"`
	SpherePhi      float64        `json:"spherePhi"`
	MarkerPosition geom.Point     `json:"markerPosition" gorm:"type:blob"`
	AimDirection   geom.Point     `json:"aimDirection" gorm:"type:blob"`
	Metadata       datatypes.JSON `json:"metadata"` // the metadata.json record, verbatim
}

func (*Capture) TableName() string {
	return "captures"
}
