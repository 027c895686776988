package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spherecam/spherecam/internal/capture"
	"github.com/spherecam/spherecam/internal/color"
	"github.com/spherecam/spherecam/internal/dispatcher"
	"github.com/spherecam/spherecam/internal/geometry"
	"github.com/spherecam/spherecam/internal/handlers"
	"github.com/spherecam/spherecam/internal/logging"
	"github.com/spherecam/spherecam/internal/marker"
	"github.com/spherecam/spherecam/internal/parser"
	"github.com/spherecam/spherecam/internal/session"
	"github.com/spherecam/spherecam/internal/storage/memory"
	"github.com/spherecam/spherecam/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLayout_Cube(t *testing.T) {
	var buf bytes.Buffer
	err := writeLayout(&buf, geometry.PresetCube, geometry.DefaultLayout(), &marker.SequenceGenerator{Prefix: "M"})
	require.NoError(t, err)

	var markers []core.Marker
	require.NoError(t, json.Unmarshal(buf.Bytes(), &markers))
	require.Len(t, markers, 6)
	assert.Equal(t, "M1", markers[0].ID)
	assert.Equal(t, "M6", markers[5].ID)
}

func TestWriteLayout_InvalidLayout(t *testing.T) {
	l := geometry.DefaultLayout()
	l.Radius = -1
	err := writeLayout(&bytes.Buffer{}, geometry.PresetDefault, l, marker.UUIDGenerator{})
	assert.ErrorIs(t, err, geometry.ErrInvalidParams)
}

func TestWriteSwatches(t *testing.T) {
	markers, err := layoutMarkers(geometry.PresetCube, geometry.DefaultLayout(), &marker.SequenceGenerator{Prefix: "M"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSwatches(&buf, markers))

	rows := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, rows, 6)

	hue, err := color.ParseHue(markers[0].Color)
	require.NoError(t, err)
	c := color.HSLToRGBA(hue)
	assert.True(t, strings.HasPrefix(rows[0], fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m M1 ", c.R, c.G, c.B)), rows[0])
	assert.True(t, strings.HasSuffix(rows[0], fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)), rows[0])
	assert.Contains(t, rows[0], "   5.00    0.00    0.00", "+X marker at the radius")
	assert.NotEqual(t, rows[0][:24], rows[1][:24], "opposite markers get different swatches")
}

func TestWriteSwatches_BadColor(t *testing.T) {
	err := writeSwatches(&bytes.Buffer{}, []core.Marker{{ID: "M1", Color: "rgb(1,2,3)"}})
	assert.ErrorContains(t, err, "marker M1")
}

func TestRunResolutions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runResolutions(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, len(core.Resolutions))
	assert.Equal(t, "   0  320×240 4:3", lines[0])
	assert.Equal(t, "*  2  640×360 16:9", lines[2])
}

func TestFormatAxis(t *testing.T) {
	v := 12.5
	assert.Equal(t, "12.5", formatAxis(&v))
	assert.Equal(t, "null", formatAxis(nil))
}

func TestShutter(t *testing.T) {
	var buf bytes.Buffer
	n := shutter(&buf)
	require.NoError(t, n.Notify(context.Background(), core.Capture{Name: "M3.png"}))
	assert.Equal(t, "\aM3.png\n", buf.String())
}

func TestLoadFrames(t *testing.T) {
	src, err := loadFrames("")
	require.NoError(t, err)
	_, err = src.Frame()
	assert.ErrorIs(t, err, capture.ErrNoVideoFrame)

	_, err = loadFrames(t.TempDir())
	assert.Error(t, err, "no images")

	_, err = loadFrames(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestLoadFrames_SkipsUndecodable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image"), 0o644))
	Logger = logging.NewSlogManager().Logger()

	_, err := loadFrames(dir)
	assert.Error(t, err)
}

func TestReplay_CapturesLookedAtMarker(t *testing.T) {
	journal := memory.New()
	require.NoError(t, journal.Init())

	cfg := session.DefaultConfig()
	cfg.Preset = geometry.PresetCube
	var bell bytes.Buffer
	capturer, err := capture.NewCapturer(capture.Options{Notifier: shutter(&bell)})
	require.NoError(t, err)

	sess, err := session.New(cfg, session.Dependencies{
		IDs:      &marker.SequenceGenerator{Prefix: "M"},
		Journal:  journal,
		Capturer: capturer,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })
	sess.SetFrameSource(capture.FrameSourceFunc(func() (image.Image, error) {
		return image.NewRGBA(image.Rect(0, 0, 4, 3)), nil
	}))

	d, err := dispatcher.New(logging.NewCommandLogger(zerolog.Nop(), sess.ID, handlers.HighRateCommands...))
	require.NoError(t, err)
	t.Cleanup(d.Close)
	handlers.NewService(handlers.Dependencies{Session: sess, Journal: journal}).Register(d)

	_, err = d.Dispatch(dispatcher.Event{Command: handlers.CmdPermission, Args: []string{"granted"}})
	require.NoError(t, err)

	// straight up for the whole trace
	p := parser.NewParser(nil)
	trace, err := p.ParseTrace([]byte(`[{"t_ms": 0, "alpha": 0, "beta": 180, "gamma": 0}]`))
	require.NoError(t, err)

	require.NoError(t, replay(d, trace, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)))

	n, err := journal.CountCaptures()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	captures := sess.Captures()
	require.Len(t, captures, 1)
	assert.Equal(t, "M3", captures[0].Metadata.ID)
	assert.Equal(t, 5, sess.PhotosLeft())

	require.NoError(t, sess.Close())
	assert.Equal(t, "\aM3.png\n", bell.String(), "one shutter per stored capture")
}
