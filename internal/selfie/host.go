// Package selfie is the webcam capture widget: a live preview refreshed on a
// fixed tick and a capture action that saves one frame and emits a record.
//
// The widget only talks to its host through the interfaces in this file, so
// the same core runs under the fyne window in internal/ui and under tests.
package selfie

import (
	"image"
	"sync"
	"time"
)

// Surface is where preview frames are shown.
type Surface interface {
	// SetFrame displays img, already scaled to DisplaySize.
	SetFrame(img image.Image)
	// DisplaySize returns the current size of the preview area in pixels.
	DisplaySize() (width, height int)
	// SetCaptureEnabled enables or disables the capture trigger.
	SetCaptureEnabled(enabled bool)
}

// Indicator shows the "no webcam" condition.
type Indicator interface {
	SetNoWebcam(on bool)
}

// NameField is the single-line label input.
type NameField interface {
	Text() string
	Clear()
}

// Settings is the persisted widget state.
type Settings interface {
	AvatarFilter() bool
}

// Encoder writes an image file; the format follows the path extension.
type Encoder interface {
	Encode(path string, img image.Image) error
}

// Scheduler calls fn every d until the returned stop function is called.
// Calls are never concurrent with each other.
type Scheduler interface {
	Every(d time.Duration, fn func()) (stop func())
}

// =============================================================================
// In-memory implementations
// =============================================================================

// MemorySettings keeps settings in memory.
type MemorySettings struct {
	mu     sync.Mutex
	avatar bool
}

// AvatarFilter returns the avatar filter flag.
func (s *MemorySettings) AvatarFilter() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.avatar
}

// SetAvatarFilter sets the avatar filter flag.
func (s *MemorySettings) SetAvatarFilter(on bool) {
	s.mu.Lock()
	s.avatar = on
	s.mu.Unlock()
}

// TextField is a NameField backed by a string.
type TextField struct {
	mu   sync.Mutex
	text string
}

// NewTextField returns a field holding text.
func NewTextField(text string) *TextField {
	return &TextField{text: text}
}

func (f *TextField) Text() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text
}

func (f *TextField) SetText(text string) {
	f.mu.Lock()
	f.text = text
	f.mu.Unlock()
}

func (f *TextField) Clear() {
	f.SetText("")
}
