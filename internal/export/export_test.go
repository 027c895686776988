package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spherecam/spherecam/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportTime = time.Date(2025, 3, 1, 12, 34, 56, 789_000_000, time.UTC)

func readArchive(t *testing.T, a Archive) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(a.Data), int64(len(a.Data)))
	require.NoError(t, err)

	out := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = data
	}
	return out
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "photos-2025-03-01T12-34-56.789Z.zip", Filename(exportTime))
	assert.NotContains(t, Filename(time.Now()), ":")
}

func TestBuild_NothingToExport(t *testing.T) {
	_, err := Build(nil, exportTime)
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestBuild_SingleCapture(t *testing.T) {
	c := core.Capture{
		Name:      "M1.png",
		MediaType: "image/png",
		Payload:   []byte("png-bytes"),
		TakenAt:   exportTime.Add(-time.Minute),
		Metadata: core.CaptureMetadata{
			ID:          "M1",
			Alpha:       0,
			Beta:        90,
			Gamma:       0,
			CameraTheta: -90,
			CameraPhi:   0,
			SphereTheta: 90,
			SpherePhi:   270,
		},
	}

	a, err := Build([]core.Capture{c}, exportTime)
	require.NoError(t, err)
	assert.Equal(t, Filename(exportTime), a.Name)

	files := readArchive(t, a)
	require.Len(t, files, 2)
	assert.Equal(t, []byte("png-bytes"), files["M1.png"])

	var meta []map[string]any
	require.NoError(t, json.Unmarshal(files[MetadataFile], &meta))
	require.Len(t, meta, 1)
	assert.Equal(t, map[string]any{
		"id":          "M1",
		"alpha":       0.0,
		"beta":        90.0,
		"gamma":       0.0,
		"cameraTheta": -90.0,
		"cameraPhi":   0.0,
		"sphereTheta": 90.0,
		"spherePhi":   270.0,
	}, meta[0])

	assert.Contains(t, string(files[MetadataFile]), "\n  {\n    \"id\": \"M1\"", "metadata is indented two spaces")
}

func TestBuild_PreservesCaptureOrder(t *testing.T) {
	var captures []core.Capture
	for _, id := range []string{"c", "a", "b"} {
		captures = append(captures, core.Capture{Name: id + ".webp", Payload: []byte(id), Metadata: core.CaptureMetadata{ID: id}})
	}

	a, err := Build(captures, exportTime)
	require.NoError(t, err)

	files := readArchive(t, a)
	var meta []core.CaptureMetadata
	require.NoError(t, json.Unmarshal(files[MetadataFile], &meta))
	require.Len(t, meta, 3)
	assert.Equal(t, "c", meta[0].ID)
	assert.Equal(t, "a", meta[1].ID)
	assert.Equal(t, "b", meta[2].ID)
}

func TestArchive_WriteTo(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	a := Archive{Name: "photos-x.zip", Data: []byte("zip")}

	path, err := a.WriteTo(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "photos-x.zip"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("zip"), data)
}
