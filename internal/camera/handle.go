// Package camera provides the capture source: opening the camera device,
// reading raw frames from it and releasing it again.
package camera

import (
	"log/slog"

	"webcam-capture-go/internal/frame"
)

// Handle owns at most one open Device. The device is acquired lazily by
// Ensure and released by Release; both are idempotent.
//
// Handle is not safe for concurrent use. Callers serialize access.
type Handle struct {
	source Source
	device Device
	logger *slog.Logger
}

// NewHandle returns an empty handle backed by source.
func NewHandle(source Source, logger *slog.Logger) *Handle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handle{
		source: source,
		logger: logger.With("component", "camera"),
	}
}

// Ensure acquires a device if none is held and returns it.
func (h *Handle) Ensure() Device {
	if h.device == nil {
		h.device = h.source.Acquire()
		if h.device == nil {
			h.device = ClosedDevice{}
		}
		h.logger.Debug("device acquired", "opened", h.device.IsOpened())
	}
	return h.device
}

// Device returns the held device, or nil when none is held.
func (h *Handle) Device() Device {
	return h.device
}

// Held reports whether a device is currently held.
func (h *Handle) Held() bool {
	return h.device != nil
}

// Opened reports whether a device is held and open.
func (h *Handle) Opened() bool {
	return h.device != nil && h.device.IsOpened()
}

// Read reads from the held device. It returns ErrNotOpened when nothing is
// held or the device is not open, and ErrReadFailed when the read fails.
func (h *Handle) Read() (frame.Frame, error) {
	if !h.Opened() {
		return frame.Frame{}, ErrNotOpened
	}
	f, ok := h.device.Read()
	if !ok {
		return frame.Frame{}, ErrReadFailed
	}
	return f, nil
}

// Release closes the held device, if any.
func (h *Handle) Release() {
	if h.device == nil {
		return
	}
	if err := h.device.Close(); err != nil {
		h.logger.Warn("device release failed", "err", err)
	} else {
		h.logger.Debug("device released")
	}
	h.device = nil
}
