package ui

import (
	"image"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webcam-capture-go/internal/camera"
	"webcam-capture-go/internal/naming"
	"webcam-capture-go/internal/output"
)

type encoderFunc func(path string, img image.Image) error

func (f encoderFunc) Encode(path string, img image.Image) error { return f(path, img) }

type idleScheduler struct{}

func (idleScheduler) Every(time.Duration, func()) func() { return func() {} }

func newTestApp(t *testing.T, src *camera.FakeSource) (*App, *output.Recorder) {
	t.Helper()
	rec := &output.Recorder{}
	a, err := NewApp(test.NewApp(), nil, Options{
		Source:    src,
		Sink:      rec,
		Encoder:   encoderFunc(func(string, image.Image) error { return nil }),
		Scheduler: idleScheduler{},
	})
	require.NoError(t, err)
	t.Cleanup(a.Cleanup)
	return a, rec
}

func TestCaptureButtonFollowsDevice(t *testing.T) {
	a, _ := newTestApp(t, camera.NewFakeSource())
	assert.True(t, a.captureBtn.Disabled())

	a.Widget().SetVisible(true)
	a.Widget().Tick()
	assert.False(t, a.captureBtn.Disabled())
	assert.NotNil(t, a.preview.Frame())
	assert.False(t, a.preview.NoWebcam())
}

func TestNoWebcamOverlay(t *testing.T) {
	src := camera.NewFakeSource()
	src.Opened = false
	a, rec := newTestApp(t, src)

	a.Widget().SetVisible(true)
	a.Widget().Tick()
	assert.True(t, a.captureBtn.Disabled())
	assert.True(t, a.preview.NoWebcam())

	a.onCapture()
	assert.Empty(t, rec.Records())
}

func TestTapCaptureEmitsRecord(t *testing.T) {
	a, rec := newTestApp(t, camera.NewFakeSource())
	assert.Equal(t, naming.DefaultName, a.nameEntry.PlaceHolder)

	a.Widget().SetVisible(true)
	a.Widget().Tick()
	a.nameEntry.SetText("Jane Doe")
	test.Tap(a.captureBtn)

	records := rec.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "Jane Doe", records[0].DisplayName)
	assert.Contains(t, records[0].ImagePath, "Jane_Doe_")
	assert.Empty(t, a.nameEntry.Text)
}

func TestAvatarFilterPersists(t *testing.T) {
	a, _ := newTestApp(t, camera.NewFakeSource())
	assert.False(t, a.settings.AvatarFilter())

	test.Tap(a.avatarCheck)
	assert.True(t, a.avatarCheck.Checked)
	assert.True(t, a.fyneApp.Preferences().Bool(avatarFilterKey))
}

func TestCreateColoredImage(t *testing.T) {
	img := createColoredImage(3, 2, image.Black)
	r, g, b, alpha := img.At(2, 1).RGBA()
	assert.Zero(t, r+g+b)
	assert.Equal(t, uint32(0xffff), alpha)
}

type fakeLifecycle struct {
	entered, exited, started, stopped func()
}

func (l *fakeLifecycle) SetOnEnteredForeground(f func()) { l.entered = f }
func (l *fakeLifecycle) SetOnExitedForeground(f func())  { l.exited = f }
func (l *fakeLifecycle) SetOnStarted(f func())           { l.started = f }
func (l *fakeLifecycle) SetOnStopped(f func())           { l.stopped = f }

func TestBackgroundReleasesCamera(t *testing.T) {
	src := camera.NewFakeSource()
	a, _ := newTestApp(t, src)
	lc := &fakeLifecycle{}
	a.bindLifecycle(lc)

	lc.started()
	a.Widget().Tick()
	require.True(t, a.Widget().DeviceHeld())

	lc.exited()
	assert.False(t, a.Widget().DeviceHeld(), "minimized window must not keep the camera")
	assert.Equal(t, 0, src.OpenDevices())

	lc.entered()
	a.Widget().Tick()
	assert.True(t, a.Widget().DeviceHeld())

	lc.stopped()
	assert.False(t, a.Widget().DeviceHeld())
}
