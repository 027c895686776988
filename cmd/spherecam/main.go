package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spherecam/spherecam/internal/color"
	"github.com/spherecam/spherecam/internal/config"
	"github.com/spherecam/spherecam/internal/geometry"
	"github.com/spherecam/spherecam/internal/logging"
	"github.com/spherecam/spherecam/internal/marker"
	spotel "github.com/spherecam/spherecam/internal/otel"
	"github.com/spherecam/spherecam/internal/session"
	"github.com/spherecam/spherecam/pkg/core"
)

const appName = "spherecam"

var (
	// SessionStartTime names this run's log file.
	SessionStartTime = time.Now()

	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager
	// Logger is the session logger
	Logger *slog.Logger
	// JournalLogger feeds the capture journal and dispatcher
	JournalLogger zerolog.Logger

	// LogFile is the open per-run log file, nil when logging to stdout
	LogFile *os.File
	// OTelProvider flushes the OTel log pipeline on exit
	OTelProvider *spotel.Provider

	// currentSession feeds the log context once a session exists
	currentSession *session.Session
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [flags]

Commands:
  layout        print the marker layout of a preset as JSON
  simulate      replay an orientation trace against still frames and export
  resolutions   list the selectable camera resolutions
`, appName)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch strings.ToLower(os.Args[1]) {
	case "layout":
		err = runLayout(os.Args[2:], os.Stdout)
	case "simulate":
		err = runSimulate(os.Args[2:], os.Stdout)
	case "resolutions":
		err = runResolutions(os.Stdout)
	case "-h", "--help", "help":
		usage()
		return
	default:
		usage()
		err = fmt.Errorf("unknown command %q", os.Args[1])
	}

	shutdownLogging()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newFlagSet returns the flags shared by every command. Flag names are the
// config keys they override.
func newFlagSet(name string) (*pflag.FlagSet, *string) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	configDir := fs.String("config", ".", "directory containing "+config.FileName)
	fs.String("logLevel", "info", "log level (debug, info, warn, error)")
	fs.String("logsDir", "./spherecamlogs", "directory for session log files")
	fs.String("session.preset", "default", "marker preset (default, cube, vertical-segments)")
	fs.String("session.resolution", "2", "resolution index or WxH")
	fs.String("session.imageFormat", "png", "capture encoding (png, webp)")
	fs.Float64("session.cropRatio", 1.0, "centre crop ratio in (0,1]")
	fs.String("session.outputDir", ".", "directory the export archive is written to")
	fs.Float64("layout.radius", 5, "marker sphere radius")
	fs.String("storage.type", "memory", "capture journal (memory, sqlite)")
	return fs, configDir
}

// loadConfig reads the config file, falling back to defaults with a warning.
// Flags the user set take precedence over the file.
func loadConfig(fs *pflag.FlagSet, configDir string) {
	if err := config.Load(configDir); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
	}

	if err := config.BindFlags(fs); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}

// setupLogging opens the per-run log file and wires slog, OTel and zerolog.
func setupLogging(toFile bool) error {
	SlogManager = logging.NewSlogManager()

	var out io.Writer
	if toFile {
		f, err := logging.OpenRunLog(config.GetString("logsDir"), appName, SessionStartTime)
		if err != nil {
			return err
		}
		LogFile = f
		out = f
	}

	otelCfg := config.GetOTelConfig()
	provider, err := spotel.New(spotel.Config{
		Enabled:      otelCfg.Enabled && out != nil,
		ServiceName:  otelCfg.ServiceName,
		BatchTimeout: otelCfg.BatchTimeout,
		LogWriter:    out,
	})
	if err != nil {
		return fmt.Errorf("init otel: %w", err)
	}
	OTelProvider = provider

	SlogManager.Setup(logging.Options{
		File:      out,
		Level:     config.GetString("logLevel"),
		Provider:  provider.LoggerProvider(),
		OTelLevel: otelCfg.LogLevel,
		Context: logging.SessionContext(
			func() string {
				if currentSession == nil {
					return ""
				}
				return currentSession.ID()
			},
			func() int {
				if currentSession == nil {
					return 0
				}
				return len(currentSession.Captures())
			},
		),
	})
	Logger = SlogManager.Logger()
	slog.SetDefault(Logger)

	zw := io.Writer(os.Stderr)
	if out != nil {
		zw = out
	}
	JournalLogger = zerolog.New(zw).With().Timestamp().Str("component", "journal").Logger().
		Level(zerologLevel(config.GetString("logLevel")))
	return nil
}

func zerologLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func shutdownLogging() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if OTelProvider != nil {
		if err := OTelProvider.Shutdown(ctx); err != nil && Logger != nil {
			Logger.Warn("OTel shutdown failed", "error", err)
		}
	}
	if LogFile != nil {
		_ = LogFile.Close()
	}
}

// runLayout prints the markers of the configured preset.
func runLayout(args []string, w io.Writer) error {
	fs, configDir := newFlagSet("layout")
	tint := fs.Bool("tint", false, "print a table with a colour swatch per marker instead of JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	loadConfig(fs, *configDir)
	if err := setupLogging(false); err != nil {
		return err
	}

	cfg, err := session.ConfigFromSettings(config.GetSessionConfig(), config.GetLayoutConfig())
	if err != nil {
		return err
	}
	if !*tint {
		return writeLayout(w, cfg.Preset, cfg.Layout, marker.UUIDGenerator{})
	}
	markers, err := layoutMarkers(cfg.Preset, cfg.Layout, marker.UUIDGenerator{})
	if err != nil {
		return err
	}
	return writeSwatches(w, markers)
}

func layoutMarkers(preset geometry.Preset, layout geometry.Layout, ids marker.IDGenerator) ([]core.Marker, error) {
	points, err := preset.Points(layout)
	if err != nil {
		return nil, err
	}
	return marker.Build(points, ids, layout.Radius), nil
}

func writeLayout(w io.Writer, preset geometry.Preset, layout geometry.Layout, ids marker.IDGenerator) error {
	markers, err := layoutMarkers(preset, layout, ids)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(markers)
}

// writeSwatches prints one row per marker led by a 24-bit ANSI block in the
// marker's colour, followed by its ID, position and hex colour.
func writeSwatches(w io.Writer, markers []core.Marker) error {
	for _, m := range markers {
		hue, err := color.ParseHue(m.Color)
		if err != nil {
			return fmt.Errorf("marker %s: %w", m.ID, err)
		}
		c := color.HSLToRGBA(hue)
		_, err = fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm  \x1b[0m %-40s %7.2f %7.2f %7.2f  #%02x%02x%02x\n",
			c.R, c.G, c.B, m.ID, m.Point.X, m.Point.Y, m.Point.Z, c.R, c.G, c.B)
		if err != nil {
			return err
		}
	}
	return nil
}

// runResolutions lists the resolutions with their indices.
func runResolutions(w io.Writer) error {
	for i, r := range core.Resolutions {
		mark := " "
		if i == core.DefaultResolutionIndex {
			mark = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %2d  %s\n", mark, i, r); err != nil {
			return err
		}
	}
	return nil
}
