package camera

import (
	"errors"
	"fmt"

	"webcam-capture-go/internal/frame"
)

var (
	// ErrNotOpened is returned by Handle.Read when no device is held or the
	// held device never opened.
	ErrNotOpened = errors.New("camera: device not opened")
	// ErrReadFailed is returned by Handle.Read when an open device returns
	// no frame.
	ErrReadFailed = errors.New("camera: read failed")
)

// Device is an open (or failed-to-open) camera.
type Device interface {
	// IsOpened reports whether the device actually opened.
	IsOpened() bool
	// Read blocks until one frame is available. ok is false on any failure.
	Read() (f frame.Frame, ok bool)
	// Close releases the device.
	Close() error
}

// Source opens devices. Acquire never returns nil; a device that could not be
// opened reports IsOpened() == false.
type Source interface {
	Acquire() Device
}

// Settings controls how a Source opens its device.
type Settings struct {
	Index             int
	Width             int // 0 keeps the device default
	Height            int
	KillDeviceHolders bool
}

// DevicePath returns the Linux device node for a camera index.
func DevicePath(index int) string {
	return fmt.Sprintf("/dev/video%d", index)
}

// ClosedDevice stands in for a device that failed to open.
type ClosedDevice struct{}

func (ClosedDevice) IsOpened() bool            { return false }
func (ClosedDevice) Read() (frame.Frame, bool) { return frame.Frame{}, false }
func (ClosedDevice) Close() error              { return nil }
