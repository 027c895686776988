package logging

import (
	"sync"

	"github.com/rs/zerolog"
)

// sampleEvery keeps one in this many debug and info records of a high-rate
// command, about one a second at display refresh.
const sampleEvery = 60

// CommandLogger adapts zerolog to the dispatcher's logger for host commands.
// Records carry the session ID. Commands named high-rate (orientation and
// frame ticks) are sampled; errors are never sampled.
type CommandLogger struct {
	logger   zerolog.Logger
	session  func() string
	highRate map[string]bool

	mu      sync.Mutex
	sampled map[string]zerolog.Logger
}

// NewCommandLogger wraps logger. session may be nil.
func NewCommandLogger(logger zerolog.Logger, session func() string, highRate ...string) *CommandLogger {
	l := &CommandLogger{
		logger:   logger,
		session:  session,
		highRate: make(map[string]bool, len(highRate)),
		sampled:  make(map[string]zerolog.Logger, len(highRate)),
	}
	for _, c := range highRate {
		l.highRate[c] = true
	}
	return l
}

// Debug logs per-command progress, sampled for high-rate commands.
func (l *CommandLogger) Debug(msg string, keysAndValues ...any) {
	fields := toFields(keysAndValues)
	lg := l.pick(fields)
	l.tag(lg.Debug()).Fields(fields).Msg(msg)
}

// Info logs a command outcome, sampled for high-rate commands.
func (l *CommandLogger) Info(msg string, keysAndValues ...any) {
	fields := toFields(keysAndValues)
	lg := l.pick(fields)
	l.tag(lg.Info()).Fields(fields).Msg(msg)
}

// Error logs a failed command.
func (l *CommandLogger) Error(msg string, keysAndValues ...any) {
	l.tag(l.logger.Error()).Fields(toFields(keysAndValues)).Msg(msg)
}

// pick returns the sampled logger of a high-rate command. Each command has
// its own sampler so frame ticks never starve orientation records.
func (l *CommandLogger) pick(fields map[string]any) *zerolog.Logger {
	cmd, _ := fields["command"].(string)
	if !l.highRate[cmd] {
		return &l.logger
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	lg, ok := l.sampled[cmd]
	if !ok {
		lg = l.logger.Sample(&zerolog.BasicSampler{N: sampleEvery})
		l.sampled[cmd] = lg
	}
	return &lg
}

func (l *CommandLogger) tag(e *zerolog.Event) *zerolog.Event {
	if l.session == nil {
		return e
	}
	if id := l.session(); id != "" {
		e = e.Str("session", id)
	}
	return e
}

func toFields(keysAndValues []any) map[string]any {
	fields := make(map[string]any, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}
