package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/spherecam/spherecam/internal/mathutil"
	"github.com/spherecam/spherecam/internal/orientation"
	"github.com/spherecam/spherecam/pkg/core"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/image/draw"
)

var (
	// ErrNoVideoFrame is returned when there is no live frame to capture from.
	ErrNoVideoFrame = errors.New("no video frame available")
	// ErrUnknownMarker is returned when the marker is no longer in the live set.
	ErrUnknownMarker = errors.New("marker not in live set")
)

// FrameSource yields the current video frame at its native resolution.
type FrameSource interface {
	Frame() (image.Image, error)
}

// FrameSourceFunc adapts a function to FrameSource.
type FrameSourceFunc func() (image.Image, error)

func (f FrameSourceFunc) Frame() (image.Image, error) { return f() }

// Notifier is told about every completed capture, e.g. to play a shutter sound.
type Notifier interface {
	Notify(ctx context.Context, c core.Capture) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, c core.Capture) error

func (f NotifierFunc) Notify(ctx context.Context, c core.Capture) error { return f(ctx, c) }

// Target is the session state a capture reads and mutates.
type Target interface {
	Marker(id string) (core.Marker, bool)
	Reading() orientation.Reading
	// Commit appends the capture and removes its marker in one step.
	Commit(c core.Capture) error
}

// Options configures a Capturer. Zero values select PNG, no crop, no
// notifier, slog.Default and time.Now.
type Options struct {
	Encoder   Encoder
	Notifier  Notifier
	CropRatio float64
	Logger    *slog.Logger
	Now       func() time.Time
}

// Capturer turns the current frame into a tagged capture for one marker.
type Capturer struct {
	encoder   Encoder
	notifier  Notifier
	cropRatio float64
	logger    *slog.Logger
	now       func() time.Time

	completed metric.Int64Counter
	failed    metric.Int64Counter

	wg sync.WaitGroup
}

// NewCapturer creates a Capturer.
// Uses the global OTel meter for metrics (no-op if not configured).
func NewCapturer(opts Options) (*Capturer, error) {
	c := &Capturer{
		encoder:   opts.Encoder,
		notifier:  opts.Notifier,
		cropRatio: opts.CropRatio,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	if c.encoder == nil {
		c.encoder = PNGEncoder{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.cropRatio <= 0 || c.cropRatio > 1 {
		c.cropRatio = 1
	}

	m := meter()

	var err error
	c.completed, err = m.Int64Counter(
		"capture.completed",
		metric.WithDescription("Total captures stored"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating completed counter: %w", err)
	}

	c.failed, err = m.Int64Counter(
		"capture.failed",
		metric.WithDescription("Total capture attempts aborted"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}

	return c, nil
}

// Capture photographs markerID. forward is the camera's aim vector when the
// dwell completed. On error the session is left untouched.
func (c *Capturer) Capture(ctx context.Context, target Target, frames FrameSource, markerID string, forward mathutil.Vec3) (core.Capture, error) {
	capture, err := c.capture(target, frames, markerID, forward)
	if err != nil {
		c.failed.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", failureReason(err))))
		c.logger.Error("Capture aborted", "marker", markerID, "error", err)
		return core.Capture{}, err
	}

	c.completed.Add(ctx, 1, metric.WithAttributes(attribute.String("format", c.encoder.Extension())))
	c.logger.Info("Captured marker",
		"marker", markerID,
		"cameraTheta", capture.Metadata.CameraTheta,
		"cameraPhi", capture.Metadata.CameraPhi,
		"bytes", len(capture.Payload))

	if c.notifier != nil {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			if err := c.notifier.Notify(context.WithoutCancel(ctx), capture); err != nil {
				c.logger.Warn("Capture notification failed", "marker", markerID, "error", err)
			}
		}()
	}

	return capture, nil
}

func (c *Capturer) capture(target Target, frames FrameSource, markerID string, forward mathutil.Vec3) (core.Capture, error) {
	m, ok := target.Marker(markerID)
	if !ok {
		return core.Capture{}, fmt.Errorf("%w: %s", ErrUnknownMarker, markerID)
	}

	cameraTheta, cameraPhi := orientation.AimAngles(forward)

	if frames == nil {
		return core.Capture{}, ErrNoVideoFrame
	}
	frame, err := frames.Frame()
	if err != nil {
		return core.Capture{}, fmt.Errorf("%w: %w", ErrNoVideoFrame, err)
	}
	if frame == nil || frame.Bounds().Empty() {
		return core.Capture{}, ErrNoVideoFrame
	}

	var buf bytes.Buffer
	if err := c.encoder.Encode(&buf, c.crop(frame)); err != nil {
		return core.Capture{}, fmt.Errorf("encode %s: %w", c.encoder.Extension(), err)
	}

	reading := target.Reading()
	capture := core.Capture{
		Name:      fmt.Sprintf("%s.%s", m.ID, c.encoder.Extension()),
		MediaType: c.encoder.MediaType(),
		Payload:   buf.Bytes(),
		TakenAt:   c.now(),
		Metadata: core.CaptureMetadata{
			ID:          m.ID,
			Alpha:       reading.Alpha,
			Beta:        reading.Beta,
			Gamma:       reading.Gamma,
			CameraTheta: cameraTheta,
			CameraPhi:   cameraPhi,
			SphereTheta: m.Point.Theta,
			SpherePhi:   m.Point.Phi,
		},
		Marker:  m.Point,
		Forward: forward.Normalize(),
	}

	if err := target.Commit(capture); err != nil {
		return core.Capture{}, fmt.Errorf("commit capture: %w", err)
	}
	return capture, nil
}

// crop cuts the centre of the frame by cropRatio and scales it back up to the
// frame's native size.
func (c *Capturer) crop(frame image.Image) image.Image {
	if c.cropRatio >= 1 {
		return frame
	}

	b := frame.Bounds()
	w := max(1, int(float64(b.Dx())*c.cropRatio))
	h := max(1, int(float64(b.Dy())*c.cropRatio))
	x0 := b.Min.X + (b.Dx()-w)/2
	y0 := b.Min.Y + (b.Dy()-h)/2
	src := image.Rect(x0, y0, x0+w, y0+h)

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.CatmullRom.Scale(dst, dst.Bounds(), frame, src, draw.Src, nil)
	return dst
}

// Wait blocks until all pending notifications have returned.
func (c *Capturer) Wait() {
	c.wg.Wait()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrNoVideoFrame):
		return "no_frame"
	case errors.Is(err, ErrUnknownMarker):
		return "unknown_marker"
	default:
		return "error"
	}
}
