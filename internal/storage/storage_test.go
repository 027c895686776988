// internal/storage/storage_test.go
package storage_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spherecam/spherecam/internal/config"
	"github.com/spherecam/spherecam/internal/storage"
	"github.com/spherecam/spherecam/internal/storage/memory"
	sqlitestorage "github.com/spherecam/spherecam/internal/storage/sqlite"
	"github.com/spherecam/spherecam/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface checks
var (
	_ storage.Backend = (*memory.Backend)(nil)
	_ storage.Backend = (*sqlitestorage.Backend)(nil)
)

func TestNewBackend(t *testing.T) {
	b, err := storage.NewBackend(config.StorageConfig{Type: "memory"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &memory.Backend{}, b)

	b, err = storage.NewBackend(config.StorageConfig{}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &memory.Backend{}, b)

	b, err = storage.NewBackend(config.StorageConfig{Type: "sqlite"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &sqlitestorage.Backend{}, b)
	require.NoError(t, b.Close())

	_, err = storage.NewBackend(config.StorageConfig{Type: "postgres"}, zerolog.Nop())
	assert.ErrorContains(t, err, "unknown storage type")
}

func journalCapture(id string, p core.Point) *core.Capture {
	return &core.Capture{
		Name:      id + ".png",
		MediaType: "image/png",
		Payload:   []byte{0x89, 'P', 'N', 'G'},
		TakenAt:   time.Date(2025, 3, 1, 12, 0, 1, 0, time.UTC),
		Metadata: core.CaptureMetadata{
			ID:          id,
			Alpha:       1,
			Beta:        2,
			Gamma:       3,
			CameraTheta: 4,
			CameraPhi:   5,
			SphereTheta: p.Theta,
			SpherePhi:   p.Phi,
		},
		Marker:  p,
		Forward: [3]float64{0, 0, -1},
	}
}

// Every backend honours the same journal contract.
func TestBackendContract(t *testing.T) {
	backends := map[string]func(t *testing.T) storage.Backend{
		"memory": func(t *testing.T) storage.Backend { return memory.New() },
		"sqlite": func(t *testing.T) storage.Backend {
			b, err := sqlitestorage.New(zerolog.Nop())
			require.NoError(t, err)
			return b
		},
	}

	for name, newBackend := range backends {
		t.Run(name, func(t *testing.T) {
			b := newBackend(t)
			require.NoError(t, b.Init())
			t.Cleanup(func() { _ = b.Close() })

			n, err := b.CountCaptures()
			require.NoError(t, err)
			assert.Equal(t, 0, n)

			assert.Error(t, b.RecordCapture(journalCapture("early", core.Point{X: 5})), "recording before start")

			require.NoError(t, b.StartSession(&core.SessionInfo{
				ID:          "session_contract",
				StartTime:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
				Preset:      "cube",
				Resolution:  core.DefaultResolution(),
				MarkerCount: 6,
			}))

			require.NoError(t, b.RecordCapture(journalCapture("px", core.Point{X: 5, Theta: 90, Phi: 0})))
			require.NoError(t, b.RecordCapture(journalCapture("py", core.Point{Y: 5, Theta: 0, Phi: 0})))
			require.NoError(t, b.RecordCapture(journalCapture("nz", core.Point{Z: -5, Theta: 90, Phi: 270})))

			n, err = b.CountCaptures()
			require.NoError(t, err)
			assert.Equal(t, 3, n)

			list, err := b.ListCaptures()
			require.NoError(t, err)
			require.Len(t, list, 3)
			assert.Equal(t, []string{"px", "py", "nz"}, []string{list[0].ID, list[1].ID, list[2].ID})
			assert.Equal(t, journalCapture("nz", core.Point{Z: -5, Theta: 90, Phi: 270}).Metadata, list[2])

			near, err := b.CapturesNear([3]float64{0, 0, -1}, 15)
			require.NoError(t, err)
			require.Len(t, near, 1)
			assert.Equal(t, "nz", near[0].ID)

			near, err = b.CapturesNear([3]float64{1, 1, 0}, 50)
			require.NoError(t, err)
			assert.Len(t, near, 2)

			require.NoError(t, b.EndSession(time.Date(2025, 3, 1, 12, 10, 0, 0, time.UTC)))
		})
	}
}
