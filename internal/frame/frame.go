// Package frame holds raw camera frames and the per-pixel transforms the
// preview and capture paths apply to them.
package frame

import (
	"fmt"
	"image"
)

// Channels is the number of bytes per pixel in a Frame.
const Channels = 3

// Frame is a height x width x 3 pixel buffer as delivered by the device.
// Channel order is device-native (BGR), the reverse of display order.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// New allocates a zeroed frame.
func New(width, height int) Frame {
	return Frame{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*Channels),
	}
}

// FromBytes wraps pix as a frame, checking its length.
func FromBytes(width, height int, pix []byte) (Frame, error) {
	if width <= 0 || height <= 0 {
		return Frame{}, fmt.Errorf("frame: invalid size %dx%d", width, height)
	}
	if len(pix) != width*height*Channels {
		return Frame{}, fmt.Errorf("frame: %d bytes for %dx%d", len(pix), width, height)
	}
	return Frame{Width: width, Height: height, Pix: pix}, nil
}

// Empty reports whether the frame has no pixels.
func (f Frame) Empty() bool {
	return f.Width == 0 || f.Height == 0 || len(f.Pix) == 0
}

// Clone returns a deep copy.
func (f Frame) Clone() Frame {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	return Frame{Width: f.Width, Height: f.Height, Pix: pix}
}

// =============================================================================
// Transforms
// =============================================================================

// ReverseChannels returns a copy of f with the channel order of every pixel
// reversed. Applying it twice yields the original bytes.
func ReverseChannels(f Frame) Frame {
	out := make([]byte, len(f.Pix))
	for off := 0; off+2 < len(f.Pix); off += Channels {
		out[off+0] = f.Pix[off+2]
		out[off+1] = f.Pix[off+1]
		out[off+2] = f.Pix[off+0]
	}
	return Frame{Width: f.Width, Height: f.Height, Pix: out}
}

// brightenTable precomputes v+amount for every byte value.
func brightenTable(amount int) [256]uint8 {
	var lut [256]uint8
	for i := 0; i < 256; i++ {
		lut[i] = ClampAdd(uint8(i), amount)
	}
	return lut
}

// ClampAdd adds amount to v, saturating to [0,255].
func ClampAdd(v uint8, amount int) uint8 {
	sum := int(v) + amount
	if sum < 0 {
		return 0
	}
	if sum > 255 {
		return 255
	}
	return uint8(sum)
}

// Brighten adds amount to every channel of f in place, clamped to [0,255].
func Brighten(f Frame, amount int) {
	if amount == 0 {
		return
	}
	lut := brightenTable(amount)
	for i, v := range f.Pix {
		f.Pix[i] = lut[v]
	}
}

// Corrected returns the frame in display order. Unless keepNative is set the
// channel order is reversed; otherwise the device bytes are used as-is.
func Corrected(f Frame, keepNative bool) Frame {
	if keepNative {
		return f
	}
	return ReverseChannels(f)
}

// =============================================================================
// image.Image conversion
// =============================================================================

// ToRGBA interprets the frame bytes as R, G, B and returns an opaque RGBA image.
func ToRGBA(f Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	src := 0
	for dst := 0; dst < len(img.Pix) && src+2 < len(f.Pix); dst += 4 {
		img.Pix[dst+0] = f.Pix[src+0]
		img.Pix[dst+1] = f.Pix[src+1]
		img.Pix[dst+2] = f.Pix[src+2]
		img.Pix[dst+3] = 255
		src += Channels
	}
	return img
}
