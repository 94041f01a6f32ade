// Package opencv implements camera.Source and an image encoder on top of
// OpenCV through gocv.
package opencv

import (
	"fmt"
	"image"
	"log/slog"

	"gocv.io/x/gocv"

	"webcam-capture-go/internal/camera"
	"webcam-capture-go/internal/frame"
)

// =============================================================================
// OpenCV capture
// =============================================================================

// Source opens cameras through gocv.
type Source struct {
	Settings camera.Settings
	Logger   *slog.Logger
}

// NewSource returns a source for the camera described by s.
func NewSource(s camera.Settings, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{Settings: s, Logger: logger.With("component", "opencv")}
}

// Acquire opens the configured camera index.
func (s *Source) Acquire() camera.Device {
	if s.Settings.KillDeviceHolders {
		camera.FreeDevice(camera.DevicePath(s.Settings.Index))
	}

	capture, err := gocv.OpenVideoCapture(s.Settings.Index)
	if err != nil {
		s.Logger.Warn("open camera failed", "index", s.Settings.Index, "err", err)
		return camera.ClosedDevice{}
	}
	if s.Settings.Width > 0 && s.Settings.Height > 0 {
		capture.Set(gocv.VideoCaptureFrameWidth, float64(s.Settings.Width))
		capture.Set(gocv.VideoCaptureFrameHeight, float64(s.Settings.Height))
	}
	s.Logger.Info("camera opened", "index", s.Settings.Index, "opened", capture.IsOpened(),
		"width", capture.Get(gocv.VideoCaptureFrameWidth),
		"height", capture.Get(gocv.VideoCaptureFrameHeight))

	return &cvDevice{capture: capture, mat: gocv.NewMat()}
}

// cvDevice reuses one Mat for every read.
type cvDevice struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
}

func (d *cvDevice) IsOpened() bool {
	return d.capture != nil && d.capture.IsOpened()
}

func (d *cvDevice) Read() (frame.Frame, bool) {
	if !d.IsOpened() {
		return frame.Frame{}, false
	}
	if ok := d.capture.Read(&d.mat); !ok || d.mat.Empty() {
		return frame.Frame{}, false
	}
	if d.mat.Channels() != frame.Channels || d.mat.Type() != gocv.MatTypeCV8UC3 {
		return frame.Frame{}, false
	}
	f, err := frame.FromBytes(d.mat.Cols(), d.mat.Rows(), d.mat.ToBytes())
	if err != nil {
		return frame.Frame{}, false
	}
	return f, true
}

func (d *cvDevice) Close() error {
	var err error
	if d.capture != nil {
		err = d.capture.Close()
		d.capture = nil
	}
	if cerr := d.mat.Close(); err == nil {
		err = cerr
	}
	return err
}

// =============================================================================
// OpenCV image writer
// =============================================================================

// Encoder writes images with gocv.IMWrite; the format follows the file
// extension.
type Encoder struct{}

// Encode writes img to path.
func (Encoder) Encode(path string, img image.Image) error {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("opencv: convert image: %w", err)
	}
	defer mat.Close()

	if ok := gocv.IMWrite(path, mat); !ok {
		return fmt.Errorf("opencv: write %s failed", path)
	}
	return nil
}
