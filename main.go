package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"fyne.io/fyne/v2/app"

	"webcam-capture-go/internal/camera"
	"webcam-capture-go/internal/camera/opencv"
	"webcam-capture-go/internal/config"
	"webcam-capture-go/internal/frame"
	"webcam-capture-go/internal/output"
	"webcam-capture-go/internal/ui"
)

// Version information - set by linker flags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

// appID keys the fyne preferences store.
const appID = "io.github.webcamcapture"

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	configPath := flag.String("config", "", "Path to webcam_capture.toml (default: ./webcam_capture.toml or $WEBCAM_CAPTURE_CONFIG)")
	fakeCamera := flag.Bool("fake-camera", false, "Use a generated test pattern instead of a real camera")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Webcam Capture %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Go version: %s\n", GoVersion)
		fmt.Printf("  Platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Warn("config load error, using defaults", "err", err)
	}

	logCleanup, err := config.ConfigureLogging(cfg)
	if err != nil {
		slog.Warn("logging setup error", "err", err)
	}
	if logCleanup != nil {
		defer logCleanup()
	}

	logger := slog.With("component", "main")
	logger.Info("webcam capture starting", "version", Version,
		"camera", cfg.Camera.Index, "tick", cfg.TickInterval(), "fake_camera", *fakeCamera)

	ok, warnings := cfg.Validate()
	if !ok {
		logger.Warn("config validation failed")
	}
	for _, w := range warnings {
		logger.Warn(w)
	}

	var source camera.Source
	if *fakeCamera {
		fake := camera.NewFakeSource()
		fake.ReadFunc = func(n int) (frame.Frame, bool) {
			return camera.PatternFrame(640, 480, n), true
		}
		source = fake
	} else {
		source = opencv.NewSource(camera.Settings{
			Index:             cfg.Camera.Index,
			Width:             cfg.Camera.Width,
			Height:            cfg.Camera.Height,
			KillDeviceHolders: cfg.Camera.KillDeviceHolders,
		}, slog.Default())
	}

	tab, err := output.OpenTabSink(cfg.Output.TabFile)
	if err != nil {
		logger.Error("cannot open output table", "err", err)
		os.Exit(1)
	}
	defer tab.Close()

	webcamApp, err := ui.NewApp(app.NewWithID(appID), cfg, ui.Options{
		Source:  source,
		Sink:    output.Multi(tab, output.Log(slog.Default())),
		Encoder: opencv.Encoder{},
		Logger:  slog.Default(),
	})
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}

	// Setup signal handling for clean shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, cleaning up", "signal", sig)
		webcamApp.Cleanup()
	}()

	webcamApp.Start()

	// Cleanup on normal exit
	webcamApp.Cleanup()
}
