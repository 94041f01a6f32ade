package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webcam-capture-go/internal/frame"
)

func TestHandleAcquiresLazily(t *testing.T) {
	src := NewFakeSource()
	h := NewHandle(src, nil)

	assert.False(t, h.Held())
	assert.Equal(t, 0, src.Acquired())

	d := h.Ensure()
	require.NotNil(t, d)
	assert.True(t, h.Held())
	assert.True(t, h.Opened())

	assert.Same(t, d, h.Ensure(), "Ensure must reuse the held device")
	assert.Equal(t, 1, src.Acquired())
}

func TestHandleRelease(t *testing.T) {
	src := NewFakeSource()
	h := NewHandle(src, nil)

	h.Release()
	assert.Equal(t, 0, src.Acquired())

	h.Ensure()
	assert.Equal(t, 1, src.OpenDevices())
	h.Release()
	assert.False(t, h.Held())
	assert.Nil(t, h.Device())
	assert.Equal(t, 0, src.OpenDevices())

	h.Ensure()
	assert.Equal(t, 2, src.Acquired())
}

func TestHandleReadWithoutDevice(t *testing.T) {
	h := NewHandle(NewFakeSource(), nil)
	_, err := h.Read()
	assert.ErrorIs(t, err, ErrNotOpened)
}

func TestHandleReadUnopened(t *testing.T) {
	src := &FakeSource{Opened: false}
	h := NewHandle(src, nil)
	h.Ensure()

	assert.True(t, h.Held())
	assert.False(t, h.Opened())
	_, err := h.Read()
	assert.ErrorIs(t, err, ErrNotOpened)
}

func TestHandleNilAcquire(t *testing.T) {
	h := NewHandle(nilSource{}, nil)
	d := h.Ensure()
	require.NotNil(t, d)
	assert.False(t, d.IsOpened())
	assert.NoError(t, d.Close())
}

func TestFakeReadFunc(t *testing.T) {
	src := NewFakeSource()
	src.ReadFunc = func(n int) (frame.Frame, bool) {
		return SolidFrame(1, 1, byte(n), 0, 0), n%2 == 0
	}
	h := NewHandle(src, nil)
	h.Ensure()

	f, err := h.Read()
	require.NoError(t, err)
	assert.Equal(t, byte(0), f.Pix[0])

	_, err = h.Read()
	assert.ErrorIs(t, err, ErrReadFailed)
	assert.Equal(t, 2, src.Reads())
}

type nilSource struct{}

func (nilSource) Acquire() Device { return nil }

func TestPatternFrameMoves(t *testing.T) {
	a := PatternFrame(8, 6, 0)
	b := PatternFrame(8, 6, 6)
	assert.Len(t, a.Pix, 8*6*frame.Channels)
	assert.NotEqual(t, a.Pix, b.Pix)
}

func TestFreeDeviceMissingPath(t *testing.T) {
	assert.False(t, FreeDevice(DevicePath(99)))
}
