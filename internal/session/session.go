// Package session owns the state of one capture session: the marker set, the
// virtual camera, the dwell tracker and the captured files. Hosts drive it
// through a small set of entry points and never touch that state directly.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spherecam/spherecam/internal/capture"
	"github.com/spherecam/spherecam/internal/export"
	"github.com/spherecam/spherecam/internal/geometry"
	"github.com/spherecam/spherecam/internal/marker"
	"github.com/spherecam/spherecam/internal/orientation"
	"github.com/spherecam/spherecam/internal/queue"
	"github.com/spherecam/spherecam/internal/raycast"
	"github.com/spherecam/spherecam/internal/storage"
	"github.com/spherecam/spherecam/pkg/core"
)

var (
	// ErrSessionActive is returned when changing settings after the session started.
	ErrSessionActive = errors.New("session already started")
	// ErrSessionClosed is returned by every mutation after Close.
	ErrSessionClosed = errors.New("session closed")
)

// Config selects what the session starts with.
type Config struct {
	Preset     geometry.Preset
	Layout     geometry.Layout
	Resolution core.Resolution
}

// DefaultConfig returns the default preset, layout and resolution.
func DefaultConfig() Config {
	return Config{
		Preset:     geometry.PresetDefault,
		Layout:     geometry.DefaultLayout(),
		Resolution: core.DefaultResolution(),
	}
}

// Dependencies are the collaborators a session needs. Zero values pick
// slog.Default, random UUID marker IDs, time.Now, a PNG capturer and no journal.
type Dependencies struct {
	Logger   *slog.Logger
	IDs      marker.IDGenerator
	Now      func() time.Time
	Capturer *capture.Capturer
	Journal  storage.Backend
}

// Session is the explicit, owned state of one capture run.
type Session struct {
	mu sync.RWMutex

	id     string
	cfg    Config
	state  State
	start  time.Time
	logger *slog.Logger
	ids    marker.IDGenerator
	now    func() time.Time

	camera   *orientation.Camera
	markers  *marker.Registry
	tracker  *capture.Tracker
	captures *queue.Queue[core.Capture]
	capturer *capture.Capturer
	journal  storage.Backend
	frames   capture.FrameSource

	initialCount int
	onClose      []func()
}

// New creates a pending session and generates its marker set.
func New(cfg Config, deps Dependencies) (*Session, error) {
	s := &Session{
		id:       NewID(),
		cfg:      cfg,
		state:    StatePending,
		ids:      deps.IDs,
		now:      deps.Now,
		camera:   orientation.NewCamera(),
		markers:  marker.NewRegistry(),
		tracker:  capture.NewTracker(),
		captures: queue.New[core.Capture](),
		capturer: deps.Capturer,
		journal:  deps.Journal,
	}
	if s.ids == nil {
		s.ids = marker.UUIDGenerator{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s.logger = logger.With("session", s.id)

	if s.capturer == nil {
		c, err := capture.NewCapturer(capture.Options{Logger: s.logger, Now: s.now})
		if err != nil {
			return nil, err
		}
		s.capturer = c
	}

	if err := s.generate(cfg.Preset); err != nil {
		return nil, err
	}
	return s, nil
}

// generate rebuilds the marker set. Callers hold mu or own s exclusively.
func (s *Session) generate(p geometry.Preset) error {
	points, err := p.Points(s.cfg.Layout)
	if err != nil {
		return fmt.Errorf("generate %s markers: %w", p, err)
	}
	s.markers.Replace(marker.Build(points, s.ids, s.cfg.Layout.Radius))
	s.cfg.Preset = p
	s.initialCount = s.markers.Len()
	return nil
}

func (s *Session) checkMutable() error {
	switch s.state {
	case StateActive:
		return ErrSessionActive
	case StateClosed:
		return ErrSessionClosed
	}
	return nil
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// State returns the lifecycle stage.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SelectPreset regenerates the marker set. Only allowed before start.
func (s *Session) SelectPreset(p geometry.Preset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkMutable(); err != nil {
		return err
	}
	if err := s.generate(p); err != nil {
		return err
	}
	s.logger.Debug("Preset selected", "preset", p, "markers", s.initialCount)
	return nil
}

// SetMarkers replaces the generated marker set with markers supplied by the
// host. Only allowed before start.
func (s *Session) SetMarkers(markers []core.Marker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkMutable(); err != nil {
		return err
	}
	s.markers.Replace(markers)
	s.initialCount = s.markers.Len()
	return nil
}

// SelectResolution sets the camera resolution. Only allowed before start.
func (s *Session) SelectResolution(r core.Resolution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkMutable(); err != nil {
		return err
	}
	s.cfg.Resolution = r
	s.logger.Debug("Resolution selected", "resolution", r.String())
	return nil
}

// Resolution returns the selected camera resolution.
func (s *Session) Resolution() core.Resolution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Resolution
}

// Preset returns the selected preset.
func (s *Session) Preset() geometry.Preset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Preset
}

// StreamConstraints returns the camera request for the selected resolution:
// the rear camera, exactly, at the ideal size.
func (s *Session) StreamConstraints() StreamConstraints {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StreamConstraints{
		FacingMode: "environment",
		Exact:      true,
		Width:      s.cfg.Resolution.Width,
		Height:     s.cfg.Resolution.Height,
	}
}

// GrantPermission starts the session. Granting an active session is a no-op.
func (s *Session) GrantPermission() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateActive:
		return nil
	case StateClosed:
		return ErrSessionClosed
	}

	s.state = StateActive
	s.start = s.now()
	s.camera = orientation.NewCamera()
	s.tracker.Reset()

	if s.journal != nil {
		info := s.infoLocked()
		if err := s.journal.StartSession(&info); err != nil {
			s.logger.Warn("Capture journal unavailable", "error", err)
		}
	}

	s.logger.Info("Session started",
		"preset", s.cfg.Preset,
		"resolution", s.cfg.Resolution.String(),
		"markers", s.initialCount)
	return nil
}

// DenyPermission records a refused orientation permission. The session stays
// in its pre-start state and may be granted later.
func (s *Session) DenyPermission() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StatePending {
		s.state = StateDenied
	}
	s.logger.Warn("Device orientation permission denied")
}

// SetFrameSource attaches the live video stream.
func (s *Session) SetFrameSource(fs capture.FrameSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = fs
}

// StreamFailed records that the camera could not be opened. The session
// keeps running without frames, so captures will fail per attempt.
func (s *Session) StreamFailed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = nil
	s.logger.Error("Error accessing camera", "error", err)
}

// HandleOrientation applies a sensor sample. Incomplete samples and samples
// outside an active session are ignored.
func (s *Session) HandleOrientation(sample orientation.Sample) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return false
	}
	return s.camera.ApplySample(sample)
}

// Frame runs one tick: cast the aim ray, advance the dwell tracker, and
// capture when it fires. A failed capture leaves the marker in place.
func (s *Session) Frame(ctx context.Context, now time.Time) (capture.Event, error) {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return capture.Event{}, nil
	}

	forward := s.camera.Forward()
	hit, ok := raycast.Nearest(s.camera.Origin(), forward, s.markers.Targets(), raycast.HitRadius)
	ev := s.tracker.Tick(now, hit.ID, ok)
	frames := s.frames
	s.mu.Unlock()

	if ev.Kind != capture.EventFire {
		return ev, nil
	}

	if _, err := s.capturer.Capture(ctx, sessionTarget{s}, frames, ev.MarkerID, forward); err != nil {
		return ev, err
	}
	return ev, nil
}

// Markers returns the live marker set in generation order.
func (s *Session) Markers() []core.Marker {
	return s.markers.All()
}

// MarkerCount returns how many markers the session started with.
func (s *Session) MarkerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialCount
}

// PhotosLeft returns the number of markers not yet captured.
func (s *Session) PhotosLeft() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialCount - s.captures.Len()
}

// Captures returns the captured files in capture order.
func (s *Session) Captures() []core.Capture {
	return s.captures.Items()
}

// Aiming reports whether a marker is under the aim, for the focus ring.
func (s *Session) Aiming() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.Aiming()
}

// Orientation returns the latest orientation reading.
func (s *Session) Orientation() orientation.Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.camera.Reading()
}

// Info summarises the session for journals and logs.
func (s *Session) Info() core.SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.infoLocked()
}

func (s *Session) infoLocked() core.SessionInfo {
	return core.SessionInfo{
		ID:          s.id,
		StartTime:   s.start,
		Preset:      string(s.cfg.Preset),
		Resolution:  s.cfg.Resolution,
		MarkerCount: s.initialCount,
	}
}

// Export bundles every capture so far. With no captures it returns
// export.ErrNothingToExport and no archive.
func (s *Session) Export(now time.Time) (export.Archive, error) {
	a, err := export.Build(s.Captures(), now)
	if err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			s.logger.Info("No photos to export")
		} else {
			s.logger.Error("Export failed", "error", err)
		}
		return export.Archive{}, err
	}
	s.logger.Info("Export ready", "file", a.Name, "photos", s.captures.Len(), "bytes", len(a.Data))
	return a, nil
}

// OnClose registers a teardown hook, e.g. to unregister sensor listeners.
// Hooks run in reverse registration order.
func (s *Session) OnClose(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClose = append(s.onClose, fn)
}

// Close tears the session down. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil
	}
	wasActive := s.state == StateActive
	s.state = StateClosed
	s.frames = nil
	hooks := s.onClose
	s.onClose = nil
	s.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
	s.capturer.Wait()

	var errs []error
	if s.journal != nil {
		if wasActive {
			if err := s.journal.EndSession(s.now()); err != nil {
				errs = append(errs, fmt.Errorf("end journal: %w", err))
			}
		}
		if err := s.journal.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close journal: %w", err))
		}
	}

	s.logger.Info("Session closed", "captures", s.captures.Len())
	return errors.Join(errs...)
}

// sessionTarget lets the capturer read and mutate the session while Frame
// does not hold the lock.
type sessionTarget struct {
	s *Session
}

func (t sessionTarget) Marker(id string) (core.Marker, bool) {
	return t.s.markers.Get(id)
}

func (t sessionTarget) Reading() orientation.Reading {
	return t.s.Orientation()
}

func (t sessionTarget) Commit(c core.Capture) error {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return ErrSessionClosed
	}
	if !s.markers.Remove(c.Metadata.ID) {
		return fmt.Errorf("%w: %s", capture.ErrUnknownMarker, c.Metadata.ID)
	}
	s.captures.Push(c)

	if s.journal != nil {
		if err := s.journal.RecordCapture(&c); err != nil {
			s.logger.Warn("Failed to journal capture", "marker", c.Metadata.ID, "error", err)
		}
	}
	return nil
}
