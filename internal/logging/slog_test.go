package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// swapStdout redirects the console sink for the duration of the test.
func swapStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = orig })
	return &buf
}

func TestSetup_FileOnly_NoStdout(t *testing.T) {
	console := swapStdout(t)

	var fileBuf bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{File: &fileBuf, Level: "info"})
	m.Logger().Info("hello file")

	assert.Contains(t, fileBuf.String(), "hello file", "log should appear in file")
	assert.Empty(t, console.String(), "nothing should be written to stdout when file is provided")
}

func TestSetup_NoFile_WritesToStdout(t *testing.T) {
	console := swapStdout(t)

	m := NewSlogManager()
	m.Setup(Options{Level: "info"})
	m.Logger().Info("hello console")

	assert.Contains(t, console.String(), "hello console")
}

func TestSetup_InfoLevel_FiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{File: &buf, Level: "info"})

	m.Logger().Debug("should be filtered")
	m.Logger().Info("should appear")

	assert.NotContains(t, buf.String(), "should be filtered")
	assert.Contains(t, buf.String(), "should appear")
}

func TestSetup_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{File: &buf, Level: "debug"})

	m.Logger().Debug("debug msg")
	assert.Contains(t, buf.String(), "debug msg")
}

func TestSetup_ReplacesLogger(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	m := NewSlogManager()

	m.Setup(Options{File: &buf1, Level: "info"})
	m.Logger().Info("first")

	m.Setup(Options{File: &buf2, Level: "info"})
	m.Logger().Info("second")

	assert.Contains(t, buf1.String(), "first")
	assert.NotContains(t, buf1.String(), "second", "old file should not receive new logs")
	assert.Contains(t, buf2.String(), "second")
}

func TestSetup_SessionContext(t *testing.T) {
	var buf bytes.Buffer
	captures := 0
	m := NewSlogManager()
	m.Setup(Options{
		File:    &buf,
		Level:   "info",
		Context: SessionContext(func() string { return "session_01" }, func() int { return captures }),
	})

	captures = 3
	m.Logger().Info("captured")

	assert.Contains(t, buf.String(), "session=session_01")
	assert.Contains(t, buf.String(), "captures=3")
}

func TestSessionContext_SkipsEmptyID(t *testing.T) {
	attrs := SessionContext(func() string { return "" }, nil)()
	assert.Empty(t, attrs)
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	m := NewSlogManager()
	assert.Equal(t, slog.Default(), m.Logger())
}

func TestFlush_NilProvider(t *testing.T) {
	m := NewSlogManager()
	assert.NoError(t, m.Flush(context.Background()))
}

func TestFlush_WithProvider(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	m := NewSlogManager()

	var buf bytes.Buffer
	m.Setup(Options{File: &buf, Level: "info", Provider: provider})
	m.Logger().Info("otel integrated")

	assert.Contains(t, buf.String(), "otel integrated")
	assert.NoError(t, m.Flush(context.Background()))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"invalid", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func textSink(buf *bytes.Buffer, floor slog.Level) sink {
	return sink{handler: slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}), floor: floor}
}

func TestFanout_FansOut(t *testing.T) {
	var file, otel bytes.Buffer
	logger := slog.New(newFanout(textSink(&file, slog.LevelInfo), textSink(&otel, slog.LevelInfo)))
	logger.Info("marker captured")

	assert.Contains(t, file.String(), "marker captured")
	assert.Contains(t, otel.String(), "marker captured")
}

func TestFanout_PerSinkFloor(t *testing.T) {
	var file, otel bytes.Buffer
	logger := slog.New(newFanout(textSink(&file, slog.LevelDebug), textSink(&otel, slog.LevelInfo)))

	logger.Debug("frame tick", "aiming", true)
	logger.Info("aim started", "marker", "M3")

	assert.Contains(t, file.String(), "frame tick")
	assert.Contains(t, file.String(), "aim started")
	assert.NotContains(t, otel.String(), "frame tick", "debug stays in the session file")
	assert.Contains(t, otel.String(), "aim started")
}

func TestFanout_SkipsNilHandlers(t *testing.T) {
	var buf bytes.Buffer
	f := newFanout(sink{}, sink{handler: slog.NewTextHandler(&buf, nil)}, sink{})
	require.Len(t, f.sinks, 1)
	assert.Equal(t, slog.LevelDebug, f.sinks[0].floor.Level(), "missing floor takes everything")

	slog.New(f).Info("works")
	assert.Contains(t, buf.String(), "works")
}

func TestFanout_Enabled(t *testing.T) {
	ctx := context.Background()
	infoOnly := newFanout(textSink(&bytes.Buffer{}, slog.LevelInfo))
	assert.False(t, infoOnly.Enabled(ctx, slog.LevelDebug))
	assert.True(t, infoOnly.Enabled(ctx, slog.LevelInfo))

	both := newFanout(textSink(&bytes.Buffer{}, slog.LevelInfo), textSink(&bytes.Buffer{}, slog.LevelDebug))
	assert.True(t, both.Enabled(ctx, slog.LevelDebug))

	// the handler's own level still applies under a lower floor
	quiet := newFanout(sink{handler: slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})})
	assert.False(t, quiet.Enabled(ctx, slog.LevelInfo))

	assert.False(t, newFanout().Enabled(ctx, slog.LevelInfo))
}

func TestFanout_WithAttrsAndGroupKeepFloors(t *testing.T) {
	var file, otel bytes.Buffer
	f := newFanout(textSink(&file, slog.LevelDebug), textSink(&otel, slog.LevelInfo))

	withSession := slog.New(f.WithAttrs([]slog.Attr{slog.String("session", "session_01")}))
	withSession.Debug("frame tick")
	slog.New(f.WithGroup("capture")).Info("stored", "name", "M3.png")

	assert.Contains(t, file.String(), "session=session_01")
	assert.Contains(t, file.String(), "capture.name=M3.png")
	assert.NotContains(t, otel.String(), "frame tick")
	assert.Contains(t, otel.String(), "capture.name=M3.png")
	assert.Equal(t, f, f.WithGroup(""))
}

// errorHandler is a slog.Handler that always returns an error from Handle.
type errorHandler struct {
	slog.Handler
}

func (h *errorHandler) Handle(_ context.Context, _ slog.Record) error {
	return errors.New("exporter down")
}

func (h *errorHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func TestFanout_HandleError(t *testing.T) {
	var buf bytes.Buffer
	f := newFanout(sink{handler: &errorHandler{}}, textSink(&buf, slog.LevelInfo))

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "should reach file", 0)
	err := f.Handle(context.Background(), r)

	assert.EqualError(t, err, "exporter down")
	assert.Contains(t, buf.String(), "should reach file")
}

func TestOTelFloor(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, otelFloor(Options{Level: "debug"}))
	assert.Equal(t, slog.LevelDebug, otelFloor(Options{Level: "debug", OTelLevel: "debug"}))
	assert.Equal(t, slog.LevelWarn, otelFloor(Options{Level: "warn", OTelLevel: "debug"}), "never below the file level")
}

func TestContextHandler_WithGroupEmpty(t *testing.T) {
	h := NewContextHandler(slog.NewTextHandler(&bytes.Buffer{}, nil), nil)
	assert.Equal(t, h, h.WithGroup(""))
}
