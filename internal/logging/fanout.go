package logging

import (
	"context"
	"errors"
	"log/slog"
)

// sink is one destination of session log records with its own level floor.
type sink struct {
	handler slog.Handler
	floor   slog.Leveler
}

// fanout delivers each record to every sink whose floor it clears. The
// session file takes everything at the configured level while the OTel
// bridge sits behind its own floor, so per-frame debug records stay local.
type fanout struct {
	sinks []sink
}

func newFanout(sinks ...sink) *fanout {
	kept := make([]sink, 0, len(sinks))
	for _, s := range sinks {
		if s.handler == nil {
			continue
		}
		if s.floor == nil {
			s.floor = slog.LevelDebug
		}
		kept = append(kept, s)
	}
	return &fanout{sinks: kept}
}

func (s sink) accepts(ctx context.Context, level slog.Level) bool {
	return level >= s.floor.Level() && s.handler.Enabled(ctx, level)
}

// Enabled reports whether any sink takes records at level.
func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range f.sinks {
		if s.accepts(ctx, level) {
			return true
		}
	}
	return false
}

// Handle writes r to every accepting sink. A failing sink does not stop the
// others; all failures are returned together.
func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, s := range f.sinks {
		if !s.accepts(ctx, r.Level) {
			continue
		}
		if err := s.handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f *fanout) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	return f.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f *fanout) derive(fn func(slog.Handler) slog.Handler) *fanout {
	sinks := make([]sink, len(f.sinks))
	for i, s := range f.sinks {
		sinks[i] = sink{handler: fn(s.handler), floor: s.floor}
	}
	return &fanout{sinks: sinks}
}
