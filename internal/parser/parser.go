// Package parser converts raw host command arguments into typed values.
// Hosts send everything as strings; numbers may arrive quoted, and missing
// sensor axes arrive as null.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spherecam/spherecam/internal/geometry"
	"github.com/spherecam/spherecam/internal/orientation"
	"github.com/spherecam/spherecam/internal/util"
	"github.com/spherecam/spherecam/pkg/core"
)

// ErrArgCount is returned when a command has too few arguments.
var ErrArgCount = errors.New("wrong number of arguments")

// parseIntFromFloat parses a string that may be an integer or float into int64.
// JavaScript has no integer type, so timestamps may arrive as "1712.0".
func parseIntFromFloat(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("parseIntFromFloat: %q is not a valid int64", s)
	}
	return int64(f), nil
}

// parseNullableFloat returns nil for a null argument.
func parseNullableFloat(s string) (*float64, error) {
	if util.IsNull(s) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(util.CleanArg(s), 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func need(args []string, n int, command string) error {
	if len(args) < n {
		return fmt.Errorf("%w: %s expects %d, got %d", ErrArgCount, command, n, len(args))
	}
	return nil
}

// Parser provides pure []string -> typed value conversion.
// It has zero external dependencies beyond a logger.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// ParseOrientation parses [alpha, beta, gamma]. A null axis yields an
// incomplete sample rather than an error.
func (p *Parser) ParseOrientation(args []string) (orientation.Sample, error) {
	if err := need(args, 3, ":ORIENTATION:"); err != nil {
		return orientation.Sample{}, err
	}

	var out [3]*float64
	for i, name := range []string{"alpha", "beta", "gamma"} {
		v, err := parseNullableFloat(args[i])
		if err != nil {
			return orientation.Sample{}, fmt.Errorf("error parsing %s: %w", name, err)
		}
		out[i] = v
	}

	s := orientation.Sample{Alpha: out[0], Beta: out[1], Gamma: out[2]}
	if _, ok := s.ToReading(); !ok {
		p.logger.Debug("Incomplete orientation sample", "args", args)
	}
	return s, nil
}

// ParseTimestamp parses milliseconds since the Unix epoch. Fractions of a
// millisecond, as produced by performance.now based clocks, are kept.
func (p *Parser) ParseTimestamp(arg string) (time.Time, error) {
	s := util.CleanArg(arg)
	if ms, err := parseIntFromFloat(s); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("error parsing timestamp %q: %w", arg, err)
	}
	whole := math.Floor(f)
	frac := time.Duration(math.Round((f - whole) * float64(time.Millisecond)))
	return time.UnixMilli(int64(whole)).Add(frac).UTC(), nil
}

// ParseFrame parses the frame timestamp. With no argument, now is used.
func (p *Parser) ParseFrame(args []string, now time.Time) (time.Time, error) {
	if len(args) == 0 || util.IsNull(args[0]) {
		return now, nil
	}
	return p.ParseTimestamp(args[0])
}

// ParsePreset parses a preset name.
func (p *Parser) ParsePreset(args []string) (geometry.Preset, error) {
	if err := need(args, 1, ":PRESET:"); err != nil {
		return "", err
	}
	return geometry.ParsePreset(util.CleanArg(args[0]))
}

// ParseResolution parses a resolution index or "WxH".
func (p *Parser) ParseResolution(args []string) (core.Resolution, error) {
	if err := need(args, 1, ":RESOLUTION:"); err != nil {
		return core.Resolution{}, err
	}
	return core.LookupResolution(util.CleanArg(args[0]))
}

// ParsePermission parses the outcome of the sensor permission prompt.
func (p *Parser) ParsePermission(args []string) (bool, error) {
	if err := need(args, 1, ":PERMISSION:"); err != nil {
		return false, err
	}
	switch strings.ToLower(util.CleanArg(args[0])) {
	case "granted", "true", "1":
		return true, nil
	case "denied", "false", "0", "default":
		return false, nil
	}
	return false, fmt.Errorf("unknown permission state %q", args[0])
}

// ParseNear parses [x, y, z, toleranceDeg].
func (p *Parser) ParseNear(args []string) (NearQuery, error) {
	if err := need(args, 4, ":NEAR:"); err != nil {
		return NearQuery{}, err
	}
	var q NearQuery
	for i := range 3 {
		v, err := strconv.ParseFloat(util.CleanArg(args[i]), 64)
		if err != nil {
			return NearQuery{}, fmt.Errorf("error parsing direction[%d]: %w", i, err)
		}
		q.Direction[i] = v
	}
	tol, err := strconv.ParseFloat(util.CleanArg(args[3]), 64)
	if err != nil {
		return NearQuery{}, fmt.Errorf("error parsing tolerance: %w", err)
	}
	if tol < 0 || tol > 180 {
		return NearQuery{}, fmt.Errorf("tolerance %v out of range [0,180]", tol)
	}
	q.Tolerance = tol
	return q, nil
}

// ParseTrace decodes a recorded orientation trace and sorts it by time.
func (p *Parser) ParseTrace(data []byte) ([]TraceSample, error) {
	var trace []TraceSample
	if err := json.Unmarshal(data, &trace); err != nil {
		return nil, fmt.Errorf("error unmarshalling trace: %w", err)
	}
	sort.SliceStable(trace, func(i, j int) bool { return trace[i].TMs < trace[j].TMs })

	p.logger.Debug("Parsed orientation trace", "samples", len(trace))
	return trace, nil
}
