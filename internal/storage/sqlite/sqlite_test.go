package sqlitestorage

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spherecam/spherecam/internal/geo"
	"github.com/spherecam/spherecam/internal/model"
	"github.com/spherecam/spherecam/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := New(zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func startSession(t *testing.T, b *Backend) {
	t.Helper()
	require.NoError(t, b.StartSession(&core.SessionInfo{
		ID:          "session_sqlite",
		StartTime:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Preset:      "default",
		Resolution:  core.Resolutions[0],
		MarkerCount: 60,
	}))
}

func TestStartAndEndSession(t *testing.T) {
	b := newTestBackend(t)
	assert.ErrorIs(t, b.EndSession(time.Now()), ErrNoSession)

	startSession(t, b)
	end := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	require.NoError(t, b.EndSession(end))

	row, err := b.Session()
	require.NoError(t, err)
	assert.Equal(t, "session_sqlite", row.UID)
	assert.Equal(t, 320, row.Width)
	assert.Equal(t, "4:3", row.AspectRatio)
	assert.Equal(t, 60, row.MarkerCount)
	require.True(t, row.EndTime.Valid)
	assert.True(t, end.Equal(row.EndTime.Time))
}

func TestRecordCapture_StoresGeometry(t *testing.T) {
	b := newTestBackend(t)
	startSession(t, b)

	c := &core.Capture{
		Name:     "m1.webp",
		Payload:  make([]byte, 128),
		TakenAt:  time.Date(2025, 3, 1, 12, 0, 2, 0, time.UTC),
		Metadata: core.CaptureMetadata{ID: "m1", SphereTheta: 45, SpherePhi: 90},
		Marker:   core.Point{X: 0, Y: 3.54, Z: 3.54, Theta: 45, Phi: 90},
		Forward:  [3]float64{0, 0.7, 0.7},
	}
	require.NoError(t, b.RecordCapture(c))

	var row model.Capture
	require.NoError(t, b.db.DB.First(&row).Error)
	assert.Equal(t, "m1", row.MarkerID)
	assert.Equal(t, "m1.webp", row.FileName)
	assert.Equal(t, 128, row.SizeBytes)

	pos, ok := geo.Vec(row.MarkerPosition)
	require.True(t, ok)
	assert.Equal(t, [3]float64{0, 3.54, 3.54}, pos)

	aim, ok := geo.Vec(row.AimDirection)
	require.True(t, ok)
	assert.Equal(t, [3]float64{0, 0.7, 0.7}, aim)

	assert.JSONEq(t, `{"id":"m1","alpha":0,"beta":0,"gamma":0,"cameraTheta":0,"cameraPhi":0,"sphereTheta":45,"spherePhi":90}`, string(row.Metadata))
}

func TestQueriesWithoutSession(t *testing.T) {
	b := newTestBackend(t)

	n, err := b.CountCaptures()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	list, err := b.ListCaptures()
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = b.Session()
	assert.ErrorIs(t, err, ErrNoSession)
}
