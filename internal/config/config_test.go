package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webcam-capture-go/internal/output"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "webcam_capture.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 40*time.Millisecond, cfg.TickInterval())
}

func TestLoadOverridesAndKeepsDefaults(t *testing.T) {
	path := writeFile(t, `
[logging]
level = "debug"
console = false

[camera]
index = 2
width = 1280
height = 720

[preview]
tick_interval_ms = 5

[output]
tab_file = "/tmp/selfies.tab"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Console)
	assert.Equal(t, 3, cfg.Logging.MaxBackups, "unset keys keep defaults")
	assert.Equal(t, 2, cfg.Camera.Index)
	assert.Equal(t, 1280, cfg.Camera.Width)
	assert.Equal(t, 10, cfg.Preview.TickIntervalMS, "clamped to minimum")
	assert.Equal(t, "/tmp/selfies.tab", cfg.Output.TabFile)
	assert.Equal(t, "WebcamCapture-", cfg.Output.WorkDirPrefix)
}

func TestLoadParseError(t *testing.T) {
	path := writeFile(t, "[camera\nindex = ")
	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("WEBCAM_CAPTURE_LOG_FILE", "/tmp/override.log")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.log", cfg.Logging.File)
}

func TestConfigPathEnv(t *testing.T) {
	t.Setenv("WEBCAM_CAPTURE_CONFIG", "/etc/webcam.toml")
	assert.Equal(t, "/etc/webcam.toml", ConfigPath())
}

func TestValidate(t *testing.T) {
	ok, warnings := DefaultConfig().Validate()
	assert.True(t, ok)
	assert.Empty(t, warnings)

	cfg := DefaultConfig()
	cfg.Camera.Width = 640
	cfg.Output.WorkDirPrefix = "bad/prefix"
	ok, warnings = cfg.Validate()
	assert.False(t, ok)
	assert.Len(t, warnings, 2)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestLoadClampsLogRotation(t *testing.T) {
	path := writeFile(t, `
[logging]
max_size_mb = 0
max_backups = -2
max_age_days = -1
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Logging.MaxSizeMB)
	assert.Equal(t, 1, cfg.Logging.MaxBackups)
	assert.Equal(t, 0, cfg.Logging.MaxAgeDays)
}

func TestLogFileRotates(t *testing.T) {
	cfg := DefaultConfig().Logging
	cfg.File = filepath.Join(t.TempDir(), "logs", "app.log")

	lf, err := NewLogFile(cfg)
	require.NoError(t, err)
	defer lf.Close()
	assert.Equal(t, 5, lf.MaxSize)
	assert.Equal(t, 3, lf.MaxBackups)

	_, err = lf.Write([]byte("before\n"))
	require.NoError(t, err)
	require.NoError(t, lf.Rotate())
	_, err = lf.Write([]byte("after\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.File)
	require.NoError(t, err)
	assert.Equal(t, "after\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(cfg.File))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "current file plus one backup")
}

func TestConfigureLogging(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	cfg := DefaultConfig()
	cfg.Logging.File = filepath.Join(t.TempDir(), "app.log")
	cfg.Logging.Console = false

	cleanup, err := ConfigureLogging(cfg)
	require.NoError(t, err)
	slog.Info("hello", "component", "test")
	slog.Debug("hidden")
	cleanup()

	data, err := os.ReadFile(cfg.Logging.File)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "msg=hello"))
	assert.False(t, strings.Contains(string(data), "hidden"))
}

// swapStd replaces *f with a pipe and returns a func that restores it and
// returns everything written in between.
func swapStd(t *testing.T, f **os.File) func() string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := *f
	*f = w

	done := make(chan string)
	go func() {
		data, _ := io.ReadAll(r)
		done <- string(data)
	}()
	return func() string {
		*f = orig
		w.Close()
		return <-done
	}
}

func TestDefaultLoggingLeavesStdoutToRecords(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	restoreOut := swapStd(t, &os.Stdout)
	restoreErr := swapStd(t, &os.Stderr)

	cfg := DefaultConfig()
	cfg.Logging.File = filepath.Join(t.TempDir(), "app.log")
	require.True(t, cfg.Logging.Console)

	cleanup, err := ConfigureLogging(cfg)
	require.NoError(t, err)

	tab, err := output.OpenTabSink(cfg.Output.TabFile)
	require.NoError(t, err)
	sink := output.Multi(tab, output.Log(slog.Default()))
	for _, rec := range []output.Record{
		{DisplayName: "A", ImagePath: "/tmp/a.png"},
		{DisplayName: "B", ImagePath: "/tmp/b.png"},
	} {
		require.NoError(t, sink.Emit(context.Background(), rec))
	}
	cleanup()

	stdout := restoreOut()
	stderr := restoreErr()

	assert.Equal(t, []string{
		"name\timage",
		"string\tstring",
		"meta\tmeta type=image",
		"A\t/tmp/a.png",
		"B\t/tmp/b.png",
	}, strings.Split(strings.TrimSuffix(stdout, "\n"), "\n"))
	assert.Contains(t, stderr, `msg="record emitted"`)
}
