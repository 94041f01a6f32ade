package camera

import (
	"sync"

	"webcam-capture-go/internal/frame"
)

// FakeSource hands out FakeDevices. It is used by tests and by the
// --fake-camera flag to run without hardware.
type FakeSource struct {
	// Opened controls whether acquired devices report IsOpened.
	Opened bool
	// ReadFunc produces frames. If nil, a solid 4x3 frame is returned.
	ReadFunc func(n int) (frame.Frame, bool)

	mu       sync.Mutex
	acquired int
	devices  []*FakeDevice
}

// NewFakeSource returns a source whose devices open and read successfully.
func NewFakeSource() *FakeSource {
	return &FakeSource{Opened: true}
}

// Acquire returns a new FakeDevice.
func (s *FakeSource) Acquire() Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acquired++
	d := &FakeDevice{source: s, opened: s.Opened}
	s.devices = append(s.devices, d)
	return d
}

// Acquired returns how many devices have been acquired.
func (s *FakeSource) Acquired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acquired
}

// OpenDevices returns how many acquired devices are not yet closed.
func (s *FakeSource) OpenDevices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, d := range s.devices {
		if !d.closed {
			n++
		}
	}
	return n
}

// Reads returns the total number of reads across all devices.
func (s *FakeSource) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readCount()
}

// FakeDevice is a scripted Device.
type FakeDevice struct {
	source *FakeSource
	opened bool
	closed bool
	reads  int
}

func (d *FakeDevice) IsOpened() bool {
	return d.opened && !d.closed
}

func (d *FakeDevice) Read() (frame.Frame, bool) {
	d.source.mu.Lock()
	n := d.source.readCount()
	d.reads++
	fn := d.source.ReadFunc
	d.source.mu.Unlock()

	if !d.IsOpened() {
		return frame.Frame{}, false
	}
	if fn != nil {
		return fn(n)
	}
	return SolidFrame(4, 3, 10, 20, 30), true
}

func (d *FakeDevice) Close() error {
	d.source.mu.Lock()
	defer d.source.mu.Unlock()
	d.closed = true
	return nil
}

// readCount is called with mu held.
func (s *FakeSource) readCount() int {
	n := 0
	for _, d := range s.devices {
		n += d.reads
	}
	return n
}

// SolidFrame returns a w x h frame with every pixel set to (c0, c1, c2) in
// device channel order.
func SolidFrame(w, h int, c0, c1, c2 byte) frame.Frame {
	f := frame.New(w, h)
	for off := 0; off < len(f.Pix); off += frame.Channels {
		f.Pix[off+0] = c0
		f.Pix[off+1] = c1
		f.Pix[off+2] = c2
	}
	return f
}

// PatternFrame returns a moving test pattern for frame number n, so a fake
// camera preview visibly updates.
func PatternFrame(w, h, n int) frame.Frame {
	f := frame.New(w, h)
	off := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Pix[off+0] = uint8((x + y + n/3) % 256)
			f.Pix[off+1] = uint8((y + n/2) % 256)
			f.Pix[off+2] = uint8((x + n) % 256)
			off += frame.Channels
		}
	}
	return f
}
