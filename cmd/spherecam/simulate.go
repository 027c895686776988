package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/spherecam/spherecam/internal/capture"
	"github.com/spherecam/spherecam/internal/config"
	"github.com/spherecam/spherecam/internal/dispatcher"
	"github.com/spherecam/spherecam/internal/export"
	"github.com/spherecam/spherecam/internal/handlers"
	"github.com/spherecam/spherecam/internal/logging"
	"github.com/spherecam/spherecam/internal/parser"
	"github.com/spherecam/spherecam/internal/session"
	"github.com/spherecam/spherecam/internal/storage"
	"github.com/spherecam/spherecam/pkg/core"
	_ "golang.org/x/image/webp"
)

// frameInterval is the display refresh the replay stands in for.
const frameInterval = time.Second / 60

// dwellTail keeps ticking after the last sample so a dwell begun on it can
// complete.
const dwellTail = 1500 * time.Millisecond

// runSimulate replays an orientation trace against still frames, exports the
// captures and prints a journal summary.
func runSimulate(args []string, w io.Writer) error {
	fs, configDir := newFlagSet("simulate")
	tracePath := fs.String("trace", "", "orientation trace (JSON array of {t_ms, alpha, beta, gamma})")
	framesDir := fs.String("frames", "", "directory of still images used as camera frames")
	realtime := fs.Bool("realtime", false, "pace the replay on a wall clock ticker")
	bell := fs.Bool("bell", false, "ring the terminal bell on every stored capture")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tracePath == "" {
		return errors.New("--trace is required")
	}

	loadConfig(fs, *configDir)
	if err := setupLogging(true); err != nil {
		return err
	}

	sc := config.GetSessionConfig()
	cfg, err := session.ConfigFromSettings(sc, config.GetLayoutConfig())
	if err != nil {
		return err
	}

	p := parser.NewParser(Logger)
	data, err := os.ReadFile(*tracePath)
	if err != nil {
		return fmt.Errorf("read trace: %w", err)
	}
	trace, err := p.ParseTrace(data)
	if err != nil {
		return err
	}

	source, err := loadFrames(*framesDir)
	if err != nil {
		return err
	}

	journal, err := storage.NewBackend(config.GetStorageConfig(), JournalLogger)
	if err != nil {
		return err
	}
	if err := journal.Init(); err != nil {
		return fmt.Errorf("init journal: %w", err)
	}

	enc, err := capture.NewEncoder(sc.ImageFormat)
	if err != nil {
		return err
	}
	opts := capture.Options{
		Encoder:   enc,
		CropRatio: sc.CropRatio,
		Logger:    Logger,
	}
	if *bell {
		opts.Notifier = shutter(os.Stderr)
	}
	capturer, err := capture.NewCapturer(opts)
	if err != nil {
		return err
	}

	sess, err := session.New(cfg, session.Dependencies{
		Logger:   Logger,
		Capturer: capturer,
		Journal:  journal,
	})
	if err != nil {
		return err
	}
	currentSession = sess
	defer func() {
		if err := sess.Close(); err != nil {
			Logger.Warn("Session close failed", "error", err)
		}
	}()
	sess.SetFrameSource(source)

	d, err := dispatcher.New(logging.NewCommandLogger(JournalLogger, sess.ID, handlers.HighRateCommands...))
	if err != nil {
		return err
	}
	defer d.Close()

	var written string
	svc := handlers.NewService(handlers.Dependencies{
		Session: sess,
		Parser:  p,
		Journal: journal,
		Logger:  Logger,
		Sink: func(a export.Archive) error {
			path, err := a.WriteTo(sc.OutputDir)
			written = path
			return err
		},
	})
	svc.Register(d)

	if _, err := d.Dispatch(dispatcher.Event{Command: handlers.CmdPermission, Args: []string{"granted"}}); err != nil {
		return err
	}

	start := time.Now()
	if *realtime {
		err = replayRealtime(d, trace, start)
	} else {
		err = replay(d, trace, start)
	}
	if err != nil {
		return err
	}

	name, err := d.Dispatch(dispatcher.Event{
		Command: handlers.CmdExport,
		Args:    []string{epochMillis(time.Now())},
	})
	if err != nil {
		return err
	}

	return writeSummary(w, journal, svc.Status(), name, written)
}

// replay steps through the trace on virtual 60 Hz ticks, applying every
// sample due before each frame.
func replay(d *dispatcher.Dispatcher, trace []parser.TraceSample, start time.Time) error {
	end := dwellTail
	if len(trace) > 0 {
		end += trace[len(trace)-1].Offset()
	}

	next := 0
	for elapsed := time.Duration(0); elapsed <= end; elapsed += frameInterval {
		for next < len(trace) && trace[next].Offset() <= elapsed {
			if err := dispatchSample(d, trace[next]); err != nil {
				return err
			}
			next++
		}
		if err := dispatchFrame(d, start.Add(elapsed)); err != nil {
			return err
		}
	}
	return nil
}

// replayRealtime paces the replay with capture.Loop.
func replayRealtime(d *dispatcher.Dispatcher, trace []parser.TraceSample, start time.Time) error {
	end := dwellTail
	if len(trace) > 0 {
		end += trace[len(trace)-1].Offset()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		once    sync.Once
		stepErr error
		next    int
	)
	fail := func(err error) {
		once.Do(func() { stepErr = err })
		cancel()
	}

	err := capture.Loop(ctx, frameInterval, func(now time.Time) {
		elapsed := now.Sub(start)
		for next < len(trace) && trace[next].Offset() <= elapsed {
			if err := dispatchSample(d, trace[next]); err != nil {
				fail(err)
				return
			}
			next++
		}
		if err := dispatchFrame(d, now); err != nil {
			fail(err)
			return
		}
		if elapsed > end {
			cancel()
		}
	})
	if stepErr != nil {
		return stepErr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func dispatchSample(d *dispatcher.Dispatcher, s parser.TraceSample) error {
	_, err := d.Dispatch(dispatcher.Event{
		Command: handlers.CmdOrientation,
		Args:    []string{formatAxis(s.Alpha), formatAxis(s.Beta), formatAxis(s.Gamma)},
	})
	return err
}

func dispatchFrame(d *dispatcher.Dispatcher, now time.Time) error {
	_, err := d.Dispatch(dispatcher.Event{
		Command: handlers.CmdFrame,
		Args:    []string{epochMillis(now)},
	})
	return err
}

// shutter is the terminal's stand-in for the camera snap sound.
func shutter(w io.Writer) capture.Notifier {
	var mu sync.Mutex
	return capture.NotifierFunc(func(_ context.Context, c core.Capture) error {
		mu.Lock()
		defer mu.Unlock()
		_, err := fmt.Fprintf(w, "\a%s\n", c.Name)
		return err
	})
}

func formatAxis(v *float64) string {
	if v == nil {
		return "null"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func epochMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// loadFrames decodes every image in dir and serves them round robin. Without a
// dir every frame fails, as a denied camera would.
func loadFrames(dir string) (capture.FrameSource, error) {
	if dir == "" {
		return capture.FrameSourceFunc(func() (image.Image, error) {
			return nil, capture.ErrNoVideoFrame
		}), nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frames: %w", err)
	}

	var images []image.Image
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		img, err := decodeImage(filepath.Join(dir, e.Name()))
		if err != nil {
			Logger.Debug("Skipping frame file", "file", e.Name(), "error", err)
			continue
		}
		images = append(images, img)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no decodable images in %s", dir)
	}

	var (
		mu   sync.Mutex
		next int
	)
	return capture.FrameSourceFunc(func() (image.Image, error) {
		mu.Lock()
		defer mu.Unlock()
		img := images[next%len(images)]
		next++
		return img, nil
	}), nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// writeSummary prints what the journal recorded for this run.
func writeSummary(w io.Writer, journal storage.Backend, st handlers.Status, name any, path string) error {
	n, err := journal.CountCaptures()
	if err != nil {
		return fmt.Errorf("count captures: %w", err)
	}
	captures, err := journal.ListCaptures()
	if err != nil {
		return fmt.Errorf("list captures: %w", err)
	}

	fmt.Fprintf(w, "session %s  %s  preset %s\n", st.Session, st.Label, st.Preset)
	fmt.Fprintf(w, "captured %d of %d markers, %d left\n", n, n+st.PhotosLeft, st.PhotosLeft)

	for _, c := range captures {
		fmt.Fprintf(w, "  %-40s theta %7.2f  phi %7.2f\n", c.ID, c.SphereTheta, c.SpherePhi)
	}

	if s, _ := name.(string); s != "" {
		fmt.Fprintf(w, "archive %s\n", path)
	} else {
		fmt.Fprintln(w, "nothing to export")
	}
	return nil
}
