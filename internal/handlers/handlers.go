// Package handlers binds host commands to a capture session.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spherecam/spherecam/internal/capture"
	"github.com/spherecam/spherecam/internal/dispatcher"
	"github.com/spherecam/spherecam/internal/export"
	"github.com/spherecam/spherecam/internal/parser"
	"github.com/spherecam/spherecam/internal/session"
	"github.com/spherecam/spherecam/internal/storage"
	"github.com/spherecam/spherecam/pkg/core"
)

// Command names understood by the session.
const (
	CmdOrientation = ":ORIENTATION:"
	CmdFrame       = ":FRAME:"
	CmdPreset      = ":PRESET:"
	CmdResolution  = ":RESOLUTION:"
	CmdPermission  = ":PERMISSION:"
	CmdExport      = ":EXPORT:"
	CmdNear        = ":NEAR:"
	CmdStatus      = ":STATUS:"
)

// ErrNoJournal is returned by :NEAR: when no capture journal is configured.
var ErrNoJournal = errors.New("no capture journal configured")

// ExportSink receives finished archives, e.g. to write them to disk or hand
// them to the browser's download mechanism.
type ExportSink func(a export.Archive) error

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Session *session.Session
	Parser  *parser.Parser
	Journal storage.Backend
	Logger  *slog.Logger
	Now     func() time.Time
	Sink    ExportSink
}

// Service provides handler methods for host commands
type Service struct {
	deps Dependencies
}

// NewService creates a new handler service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Parser == nil {
		deps.Parser = parser.NewParser(deps.Logger)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Service{deps: deps}
}

// HighRateCommands arrive once per sensor event or display frame. Hosts pass
// them to logging.NewCommandLogger so their log lines are sampled.
var HighRateCommands = []string{CmdOrientation, CmdFrame}

// Register wires every command into d.
func (s *Service) Register(d *dispatcher.Dispatcher) {
	d.Register(CmdOrientation, s.HandleOrientation, dispatcher.Logged())
	d.Register(CmdFrame, s.HandleFrame, dispatcher.Logged())
	d.Register(CmdPreset, s.HandlePreset, dispatcher.Logged())
	d.Register(CmdResolution, s.HandleResolution, dispatcher.Logged())
	d.Register(CmdPermission, s.HandlePermission, dispatcher.Logged())
	d.Register(CmdExport, s.HandleExport, dispatcher.Logged())
	d.Register(CmdNear, s.HandleNear, dispatcher.Logged())
	d.Register(CmdStatus, s.HandleStatus)
}

// HandleOrientation applies [alpha, beta, gamma] and reports whether the
// sample was complete and accepted.
func (s *Service) HandleOrientation(e dispatcher.Event) (any, error) {
	sample, err := s.deps.Parser.ParseOrientation(e.Args)
	if err != nil {
		return nil, err
	}
	return s.deps.Session.HandleOrientation(sample), nil
}

// FrameResult is what a frame tick reports back to the host. Captured is
// set only when a fire stored a photo; the host plays the shutter on it.
type FrameResult struct {
	Event    string `json:"event"`
	MarkerID string `json:"markerId,omitempty"`
	Aiming   bool   `json:"aiming"`
	Captured bool   `json:"captured"`
}

// HandleFrame runs one tick at [t_ms] (or now).
func (s *Service) HandleFrame(e dispatcher.Event) (any, error) {
	now, err := s.deps.Parser.ParseFrame(e.Args, s.deps.Now())
	if err != nil {
		return nil, err
	}

	ev, err := s.deps.Session.Frame(context.Background(), now)
	res := FrameResult{
		Event:    ev.Kind.String(),
		MarkerID: ev.MarkerID,
		Aiming:   s.deps.Session.Aiming(),
		Captured: ev.Kind == capture.EventFire && err == nil,
	}
	if err != nil && errors.Is(err, capture.ErrNoVideoFrame) {
		// the capturer already logged it; the next dwell retries
		return res, nil
	}
	return res, err
}

// HandlePreset selects a preset before the session starts.
func (s *Service) HandlePreset(e dispatcher.Event) (any, error) {
	p, err := s.deps.Parser.ParsePreset(e.Args)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Session.SelectPreset(p); err != nil {
		return nil, err
	}
	return s.deps.Session.MarkerCount(), nil
}

// HandleResolution selects a camera resolution before the session starts.
func (s *Service) HandleResolution(e dispatcher.Event) (any, error) {
	r, err := s.deps.Parser.ParseResolution(e.Args)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Session.SelectResolution(r); err != nil {
		return nil, err
	}
	return s.deps.Session.StreamConstraints(), nil
}

// HandlePermission records the outcome of the sensor permission prompt.
func (s *Service) HandlePermission(e dispatcher.Event) (any, error) {
	granted, err := s.deps.Parser.ParsePermission(e.Args)
	if err != nil {
		return nil, err
	}
	if !granted {
		s.deps.Session.DenyPermission()
		return session.StateDenied.String(), nil
	}
	if err := s.deps.Session.GrantPermission(); err != nil {
		return nil, err
	}
	return session.StateActive.String(), nil
}

// HandleExport builds the archive and passes it to the sink. With no
// captures it does nothing and returns an empty name.
func (s *Service) HandleExport(e dispatcher.Event) (any, error) {
	now, err := s.deps.Parser.ParseFrame(e.Args, s.deps.Now())
	if err != nil {
		return nil, err
	}

	a, err := s.deps.Session.Export(now)
	if errors.Is(err, export.ErrNothingToExport) {
		return "", nil
	}
	if err != nil {
		return nil, err
	}

	if s.deps.Sink != nil {
		if err := s.deps.Sink(a); err != nil {
			return nil, fmt.Errorf("deliver %s: %w", a.Name, err)
		}
	}
	return a.Name, nil
}

// HandleNear lists journaled captures around a direction.
func (s *Service) HandleNear(e dispatcher.Event) (any, error) {
	if s.deps.Journal == nil {
		return nil, ErrNoJournal
	}
	q, err := s.deps.Parser.ParseNear(e.Args)
	if err != nil {
		return nil, err
	}
	return s.deps.Journal.CapturesNear(q.Direction, q.Tolerance)
}

// Status is a snapshot of the on-screen indicators.
type Status struct {
	Session     string          `json:"session"`
	State       string          `json:"state"`
	Preset      string          `json:"preset"`
	Resolution  core.Resolution `json:"resolution"`
	Label       string          `json:"label"`
	MarkerCount int             `json:"markerCount"`
	PhotosLeft  int             `json:"photosLeft"`
	Aiming      bool            `json:"aiming"`
	Orientation string          `json:"orientation"`
}

// HandleStatus reports the session's indicators.
func (s *Service) HandleStatus(dispatcher.Event) (any, error) {
	return s.Status(), nil
}

// Status snapshots the session's indicators.
func (s *Service) Status() Status {
	sess := s.deps.Session
	res := sess.Resolution()
	return Status{
		Session:     sess.ID(),
		State:       sess.State().String(),
		Preset:      string(sess.Preset()),
		Resolution:  res,
		Label:       res.String(),
		MarkerCount: sess.MarkerCount(),
		PhotosLeft:  sess.PhotosLeft(),
		Aiming:      sess.Aiming(),
		Orientation: sess.Orientation().String(),
	}
}
