//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"os"
	"strconv"
	"sync"
	"syscall/js"
	"time"

	"github.com/rs/zerolog"
	"github.com/spherecam/spherecam/internal/capture"
	"github.com/spherecam/spherecam/internal/dispatcher"
	"github.com/spherecam/spherecam/internal/export"
	"github.com/spherecam/spherecam/internal/handlers"
	"github.com/spherecam/spherecam/internal/logging"
	"github.com/spherecam/spherecam/internal/session"
	"github.com/spherecam/spherecam/internal/storage/memory"
	"github.com/spherecam/spherecam/internal/viewport"
	"github.com/spherecam/spherecam/pkg/core"
)

var (
	sess     *session.Session
	disp     *dispatcher.Dispatcher
	svc      *handlers.Service
	surface  *viewport.Tracker
	archive  export.Archive
	released []js.Func

	shutterMu sync.Mutex
	// shutterSound is the page's snap callback, set by onCapture
	shutterSound js.Value
)

func main() {
	slogManager := logging.NewSlogManager()
	slogManager.Setup(logging.Options{
		Level: "info",
		Context: logging.SessionContext(
			func() string {
				if sess == nil {
					return ""
				}
				return sess.ID()
			},
			func() int {
				if sess == nil {
					return 0
				}
				return len(sess.Captures())
			},
		),
	})
	logger := slogManager.Logger()

	journal := memory.New()
	if err := journal.Init(); err != nil {
		logger.Error("Journal setup failed", "error", err)
		return
	}

	capturer, err := capture.NewCapturer(capture.Options{
		Logger:   logger,
		Notifier: capture.NotifierFunc(playShutter),
	})
	if err != nil {
		logger.Error("Capturer setup failed", "error", err)
		return
	}

	sess, err = session.New(session.DefaultConfig(), session.Dependencies{
		Logger:   logger,
		Journal:  journal,
		Capturer: capturer,
	})
	if err != nil {
		logger.Error("Session setup failed", "error", err)
		return
	}

	zl := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	disp, err = dispatcher.New(logging.NewCommandLogger(zl, sess.ID, handlers.HighRateCommands...))
	if err != nil {
		logger.Error("Dispatcher setup failed", "error", err)
		return
	}

	svc = handlers.NewService(handlers.Dependencies{
		Session: sess,
		Journal: journal,
		Logger:  logger,
		Sink: func(a export.Archive) error {
			archive = a
			return nil
		},
	})
	svc.Register(disp)

	surface = viewport.NewTracker(viewport.Size{})
	sess.OnClose(surface.Stop)

	api := js.Global().Get("Object").New()

	// --- Commands (browser → session) ---
	set(api, "setPreset", setPreset)
	set(api, "setResolution", setResolution)
	set(api, "grantPermission", grantPermission)
	set(api, "denyPermission", denyPermission)
	set(api, "setFrameSource", setFrameSource)
	set(api, "streamFailed", streamFailed)
	set(api, "orientation", orientation)
	set(api, "frame", frame)
	set(api, "resize", resize)
	set(api, "onResize", onResize)
	set(api, "onCapture", onCapture)
	set(api, "export", exportArchive)
	set(api, "close", closeSession)

	// --- Queries (browser ← session) ---
	set(api, "status", status)
	set(api, "markers", markers)
	set(api, "streamConstraints", streamConstraints)
	set(api, "near", near)

	js.Global().Set("spherecam", api)
	js.Global().Set("spherecamWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func set(api js.Value, name string, fn func(js.Value, []js.Value) any) {
	f := js.FuncOf(fn)
	released = append(released, f)
	api.Set(name, f)
}

func ok(result any) any {
	data, err := json.Marshal(result)
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(map[string]any{"ok": true, "result": string(data)})
}

func fail(err error) any {
	return js.ValueOf(map[string]any{"error": err.Error()})
}

func dispatch(command string, args ...string) any {
	res, err := disp.Dispatch(dispatcher.Event{Command: command, Args: args, Timestamp: time.Now()})
	if err != nil {
		return fail(err)
	}
	return ok(res)
}

// argStrings stringifies JS arguments; null and undefined become "null".
func argStrings(args []js.Value) []string {
	out := make([]string, len(args))
	for i, a := range args {
		switch a.Type() {
		case js.TypeNull, js.TypeUndefined:
			out[i] = "null"
		case js.TypeNumber:
			out[i] = strconv.FormatFloat(a.Float(), 'f', -1, 64)
		default:
			out[i] = a.String()
		}
	}
	return out
}

// --- Command Handlers ---

func setPreset(this js.Value, args []js.Value) any {
	return dispatch(handlers.CmdPreset, argStrings(args)...)
}

func setResolution(this js.Value, args []js.Value) any {
	return dispatch(handlers.CmdResolution, argStrings(args)...)
}

func grantPermission(this js.Value, args []js.Value) any {
	return dispatch(handlers.CmdPermission, "granted")
}

func denyPermission(this js.Value, args []js.Value) any {
	return dispatch(handlers.CmdPermission, "denied")
}

// setFrameSource takes a function returning the current video frame as
// ImageData, e.g. drawn from the <video> element onto an offscreen canvas.
func setFrameSource(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return fail(errors.New("missing frame getter"))
	}
	getter := args[0]
	sess.SetFrameSource(capture.FrameSourceFunc(func() (image.Image, error) {
		return imageFromJS(getter.Invoke())
	}))
	return ok(true)
}

func streamFailed(this js.Value, args []js.Value) any {
	reason := "camera unavailable"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		reason = args[0].String()
	}
	sess.StreamFailed(errors.New(reason))
	return ok(true)
}

func orientation(this js.Value, args []js.Value) any {
	return dispatch(handlers.CmdOrientation, argStrings(args)...)
}

// frame runs one tick. The optional argument is the requestAnimationFrame
// timestamp translated to epoch milliseconds.
func frame(this js.Value, args []js.Value) any {
	return dispatch(handlers.CmdFrame, argStrings(args)...)
}

func resize(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return fail(errors.New("resize needs width and height"))
	}
	surface.Resize(viewport.Size{Width: args[0].Int(), Height: args[1].Int()})
	return ok(viewport.RingSize(args[1].Int()))
}

// onResize registers a callback receiving the debounced size and focus ring
// diameter.
func onResize(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return fail(errors.New("missing resize callback"))
	}
	cb := args[0]
	surface.OnSettle(func(s viewport.Size) {
		cb.Invoke(s.Width, s.Height, viewport.RingSize(s.Height))
	})
	return ok(true)
}

// onCapture registers the callback that plays the snap sound. It receives the
// stored file name once per capture.
func onCapture(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return fail(errors.New("missing capture callback"))
	}
	shutterMu.Lock()
	shutterSound = args[0]
	shutterMu.Unlock()
	return ok(true)
}

func playShutter(_ context.Context, c core.Capture) error {
	shutterMu.Lock()
	cb := shutterSound
	shutterMu.Unlock()
	if cb.Type() != js.TypeFunction {
		return nil
	}
	cb.Invoke(c.Name)
	return nil
}

// exportArchive returns {name, data} with data as a Uint8Array, or an empty
// name when there is nothing to export.
func exportArchive(this js.Value, args []js.Value) any {
	archive = export.Archive{}
	res, err := disp.Dispatch(dispatcher.Event{Command: handlers.CmdExport, Args: argStrings(args)})
	if err != nil {
		return fail(err)
	}
	name, _ := res.(string)
	if name == "" {
		return js.ValueOf(map[string]any{"ok": true, "name": ""})
	}

	data := js.Global().Get("Uint8Array").New(len(archive.Data))
	js.CopyBytesToJS(data, archive.Data)
	return js.ValueOf(map[string]any{"ok": true, "name": name, "data": data})
}

func closeSession(this js.Value, args []js.Value) any {
	err := sess.Close()
	disp.Close()
	for _, f := range released {
		f.Release()
	}
	released = nil
	if err != nil {
		return fail(err)
	}
	return ok(true)
}

// --- Query Handlers ---

func status(this js.Value, args []js.Value) any {
	return ok(svc.Status())
}

func markers(this js.Value, args []js.Value) any {
	return ok(sess.Markers())
}

func streamConstraints(this js.Value, args []js.Value) any {
	return ok(sess.StreamConstraints())
}

func near(this js.Value, args []js.Value) any {
	return dispatch(handlers.CmdNear, argStrings(args)...)
}

// imageFromJS copies an ImageData into an RGBA image.
func imageFromJS(v js.Value) (image.Image, error) {
	if v.IsNull() || v.IsUndefined() {
		return nil, capture.ErrNoVideoFrame
	}
	w, h := v.Get("width").Int(), v.Get("height").Int()
	if w == 0 || h == 0 {
		return nil, capture.ErrNoVideoFrame
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	js.CopyBytesToGo(img.Pix, v.Get("data"))
	return img, nil
}
