package selfie

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"webcam-capture-go/internal/camera"
	"webcam-capture-go/internal/frame"
	"webcam-capture-go/internal/naming"
	"webcam-capture-go/internal/output"
	"webcam-capture-go/internal/workdir"
)

const (
	// FlashStart is the brightness boost applied right after a capture.
	FlashStart = 80
	// FlashStep is subtracted from the boost on every rendered tick.
	FlashStep = 15
	// CaptureReads is the number of reads per capture; only the last frame
	// is kept, the others let exposure settle.
	CaptureReads = 3
)

var (
	// ErrNoWebcam is returned by Capture when the device could not be read.
	ErrNoWebcam = errors.New("couldn't acquire webcam")
	// ErrClosed is returned by Capture after Close.
	ErrClosed = errors.New("selfie: widget closed")
)

// Options wires a Widget to its host. Source, Surface, Sink and Encoder are
// required; the rest have in-memory or no-op defaults.
type Options struct {
	Source    camera.Source
	Surface   Surface
	Indicator Indicator
	Name      NameField
	Settings  Settings
	Sink      output.Sink
	Encoder   Encoder

	// WorkDirPrefix names the temporary directory captures are written to.
	WorkDirPrefix string
	// Now is the capture clock; defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// Widget is one webcam capture widget. Tick and Capture are serialized by an
// internal mutex, so at most one of them runs at a time.
type Widget struct {
	mu sync.Mutex

	handle    *camera.Handle
	surface   Surface
	indicator Indicator
	name      NameField
	settings  Settings
	sink      output.Sink
	encoder   Encoder
	dir       *workdir.Dir
	now       func() time.Time
	logger    *slog.Logger

	visible  bool
	noWebcam bool
	flash    int
	closed   bool

	stopTicks func()
}

// New creates the widget and its working directory. The widget starts hidden.
func New(opts Options) (*Widget, error) {
	if opts.Source == nil || opts.Surface == nil || opts.Sink == nil || opts.Encoder == nil {
		return nil, errors.New("selfie: source, surface, sink and encoder are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "selfie")

	dir, err := workdir.New(opts.WorkDirPrefix)
	if err != nil {
		return nil, err
	}

	w := &Widget{
		handle:    camera.NewHandle(opts.Source, logger),
		surface:   opts.Surface,
		indicator: opts.Indicator,
		name:      opts.Name,
		settings:  opts.Settings,
		sink:      opts.Sink,
		encoder:   opts.Encoder,
		dir:       dir,
		now:       opts.Now,
		logger:    logger,
	}
	if w.indicator == nil {
		w.indicator = nopIndicator{}
	}
	if w.name == nil {
		w.name = &TextField{}
	}
	if w.settings == nil {
		w.settings = &MemorySettings{}
	}
	if w.now == nil {
		w.now = time.Now
	}
	logger.Info("widget created", "work_dir", dir.Path())
	return w, nil
}

// WorkDir returns the directory captured images are written to.
func (w *Widget) WorkDir() string {
	return w.dir.Path()
}

// Flash returns the current flash intensity.
func (w *Widget) Flash() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flash
}

// NoWebcam reports whether the no-webcam indicator is raised.
func (w *Widget) NoWebcam() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.noWebcam
}

// DeviceHeld reports whether a camera device is currently acquired.
func (w *Widget) DeviceHeld() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.handle.Held()
}

// Start schedules Tick every interval on s. Calling Start again replaces the
// previous schedule.
func (w *Widget) Start(s Scheduler, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	stop := s.Every(interval, w.Tick)

	w.mu.Lock()
	prev := w.stopTicks
	w.stopTicks = stop
	closed := w.closed
	w.mu.Unlock()

	if prev != nil {
		prev()
	}
	if closed {
		stop()
	}
}

// SetVisible records a visibility change. Hiding releases the device at once;
// showing leaves acquisition to the next tick.
func (w *Widget) SetVisible(visible bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.visible == visible {
		return
	}
	w.visible = visible
	w.logger.Debug("visibility changed", "visible", visible)
	if !visible {
		w.handle.Release()
	}
}

// =============================================================================
// Preview
// =============================================================================

// Tick renders one preview frame.
func (w *Widget) Tick() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if !w.visible {
		w.handle.Release()
		return
	}

	w.handle.Ensure()
	w.surface.SetCaptureEnabled(w.handle.Opened())

	f, err := w.handle.Read()
	if err != nil {
		w.setNoWebcam(true)
		return
	}
	w.setNoWebcam(false)

	if w.flash > 0 {
		frame.Brighten(f, w.flash)
		w.flash -= FlashStep
		if w.flash < 0 {
			w.flash = 0
		}
	}

	img := frame.ToRGBA(frame.Corrected(f, w.settings.AvatarFilter()))
	dw, dh := w.surface.DisplaySize()
	w.surface.SetFrame(frame.ScaleToFit(img, dw, dh))
}

// =============================================================================
// Capture
// =============================================================================

// Capture saves the current frame under the label from the name field and
// emits the resulting record. A failed read returns ErrNoWebcam and emits
// nothing.
func (w *Widget) Capture(ctx context.Context) (output.Record, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return output.Record{}, ErrClosed
	}

	var f frame.Frame
	for i := 0; i < CaptureReads; i++ {
		got, err := w.handle.Read()
		if err != nil {
			w.setNoWebcam(true)
			w.logger.Warn("capture aborted", "read", i+1, "err", err)
			return output.Record{}, fmt.Errorf("%w: read %d of %d: %w", ErrNoWebcam, i+1, CaptureReads, err)
		}
		w.setNoWebcam(false)
		f = got
	}

	displayName := naming.DisplayName(w.name.Text())
	w.name.Clear()

	path := w.dir.Join(naming.FileName(displayName, w.now()))
	img := frame.ToRGBA(frame.Corrected(f, w.settings.AvatarFilter()))
	if err := w.encoder.Encode(path, img); err != nil {
		return output.Record{}, fmt.Errorf("selfie: write %s: %w", path, err)
	}

	rec := output.Record{DisplayName: displayName, ImagePath: path}
	if err := w.sink.Emit(ctx, rec); err != nil {
		os.Remove(path)
		return output.Record{}, fmt.Errorf("selfie: emit on %s: %w", output.Channel, err)
	}

	w.flash = FlashStart
	w.logger.Info("image captured", "name", displayName, "path", path)
	return rec, nil
}

// =============================================================================
// Teardown
// =============================================================================

// Close stops the tick schedule, releases the device and removes the working
// directory with every captured file. It is safe to call more than once.
func (w *Widget) Close() {
	w.mu.Lock()
	stop := w.stopTicks
	w.stopTicks = nil
	w.mu.Unlock()

	// Must not hold mu here: a running Tick needs it to finish.
	if stop != nil {
		stop()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	w.handle.Release()
	w.dir.Remove()
	w.logger.Info("widget closed")
}

func (w *Widget) setNoWebcam(on bool) {
	if w.noWebcam == on {
		return
	}
	w.noWebcam = on
	w.indicator.SetNoWebcam(on)
}

type nopIndicator struct{}

func (nopIndicator) SetNoWebcam(bool) {}
