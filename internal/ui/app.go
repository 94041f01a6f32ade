// Package ui hosts the capture widget in a fyne window: preview panel, name
// entry, avatar filter checkbox and capture button.
package ui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"webcam-capture-go/internal/camera"
	"webcam-capture-go/internal/config"
	"webcam-capture-go/internal/naming"
	"webcam-capture-go/internal/output"
	"webcam-capture-go/internal/selfie"
)

// Options wires an App. Source, Sink and Encoder are required.
type Options struct {
	Source    camera.Source
	Sink      output.Sink
	Encoder   selfie.Encoder
	Scheduler selfie.Scheduler // defaults to selfie.TimerScheduler
	Logger    *slog.Logger
}

// App is the webcam capture window.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	cfg     *config.Config
	logger  *slog.Logger

	widget    *selfie.Widget
	scheduler selfie.Scheduler
	settings  *PrefSettings

	preview     *PreviewPanel
	nameEntry   *widget.Entry
	avatarCheck *widget.Check
	captureBtn  *widget.Button

	cleanupOnce sync.Once
}

// NewApp builds the window and the capture widget on fyneApp.
func NewApp(fyneApp fyne.App, cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = selfie.TimerScheduler{}
	}

	a := &App{
		fyneApp:   fyneApp,
		window:    fyneApp.NewWindow("Webcam Capture"),
		cfg:       cfg,
		logger:    logger.With("component", "ui"),
		scheduler: scheduler,
		settings:  NewPrefSettings(fyneApp.Preferences()),
	}
	a.setupUI()

	w, err := selfie.New(selfie.Options{
		Source:        opts.Source,
		Surface:       surface{panel: a.preview, button: a.captureBtn},
		Indicator:     a.preview,
		Name:          entryField{a.nameEntry},
		Settings:      a.settings,
		Sink:          opts.Sink,
		Encoder:       opts.Encoder,
		WorkDirPrefix: cfg.Output.WorkDirPrefix,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("ui: create widget: %w", err)
	}
	a.widget = w

	a.bindLifecycle(fyneApp.Lifecycle())
	a.window.SetCloseIntercept(a.cleanup)

	return a, nil
}

// bindLifecycle ties widget visibility to the app lifecycle. Leaving the
// foreground (minimizing, or losing focus on desktop) releases the camera.
func (a *App) bindLifecycle(l fyne.Lifecycle) {
	show := func() { a.widget.SetVisible(true) }
	hide := func() { a.widget.SetVisible(false) }
	l.SetOnStarted(show)
	l.SetOnEnteredForeground(show)
	l.SetOnExitedForeground(hide)
	l.SetOnStopped(hide)
}

func (a *App) setupUI() {
	a.preview = NewPreviewPanel()

	a.nameEntry = widget.NewEntry()
	a.nameEntry.SetPlaceHolder(naming.DefaultName)

	a.avatarCheck = widget.NewCheck("Avatar filter", func(on bool) {
		a.settings.SetAvatarFilter(on)
		a.logger.Debug("avatar filter changed", "on", on)
	})
	a.avatarCheck.SetChecked(a.settings.AvatarFilter())

	a.captureBtn = widget.NewButton("Capture", a.onCapture)
	a.captureBtn.Disable()

	nameRow := container.NewBorder(nil, nil, widget.NewLabel("Name:"), nil, a.nameEntry)
	actionRow := container.NewBorder(nil, nil, a.avatarCheck, nil, a.captureBtn)
	controls := container.NewVBox(nameRow, actionRow)

	a.window.SetContent(container.NewBorder(nil, controls, nil, nil, a.preview))
	a.window.Resize(fyne.NewSize(640, 550))
}

// onCapture runs on the capture button. ErrNoWebcam is already shown by the
// preview overlay; anything else gets a dialog.
func (a *App) onCapture() {
	rec, err := a.widget.Capture(context.Background())
	switch {
	case err == nil:
		a.logger.Info("capture emitted", "channel", output.Channel, "name", rec.DisplayName, "path", rec.ImagePath)
	case errors.Is(err, selfie.ErrNoWebcam):
		a.logger.Warn("capture failed: no webcam")
	default:
		a.logger.Error("capture failed", "err", err)
		dialog.ShowError(err, a.window)
	}
}

// Start shows the window, begins preview ticks and runs the event loop.
func (a *App) Start() {
	a.widget.Start(a.scheduler, a.cfg.TickInterval())
	a.window.ShowAndRun()
}

// Widget returns the capture widget.
func (a *App) Widget() *selfie.Widget {
	return a.widget
}

func (a *App) cleanup() {
	a.cleanupOnce.Do(func() {
		a.logger.Info("cleanup: closing widget")
		a.widget.Close()
		a.window.Close()
		a.fyneApp.Quit()
	})
}

// Cleanup is exported for external use (e.g., from main)
func (a *App) Cleanup() {
	a.cleanup()
}

// =============================================================================
// Adapters
// =============================================================================

// surface joins the preview panel and the capture button.
type surface struct {
	panel  *PreviewPanel
	button *widget.Button
}

func (s surface) SetFrame(img image.Image) { s.panel.SetFrame(img) }
func (s surface) DisplaySize() (int, int)  { return s.panel.DisplaySize() }
func (s surface) SetCaptureEnabled(enabled bool) {
	if enabled == !s.button.Disabled() {
		return
	}
	if enabled {
		s.button.Enable()
	} else {
		s.button.Disable()
	}
}

// entryField exposes a widget.Entry as the name field.
type entryField struct {
	entry *widget.Entry
}

func (f entryField) Text() string { return f.entry.Text }
func (f entryField) Clear()       { f.entry.SetText("") }
