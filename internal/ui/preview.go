package ui

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// NoWebcamText is shown over the preview while the camera can't be read.
const NoWebcamText = "Couldn't acquire webcam"

// PreviewPanel shows the live camera frame with a "no webcam" overlay.
type PreviewPanel struct {
	widget.BaseWidget
	image    *canvas.Image
	bg       *canvas.Rectangle
	errLabel *canvas.Text

	mu       sync.Mutex
	noWebcam bool
}

// NewPreviewPanel creates an empty preview panel.
func NewPreviewPanel() *PreviewPanel {
	p := &PreviewPanel{
		image: canvas.NewImageFromImage(createColoredImage(320, 240, color.RGBA{25, 25, 25, 255})),
		bg:    canvas.NewRectangle(color.RGBA{20, 20, 20, 255}),
	}
	p.image.FillMode = canvas.ImageFillContain
	p.image.ScaleMode = canvas.ImageScaleSmooth
	p.image.SetMinSize(fyne.NewSize(320, 240))

	p.errLabel = canvas.NewText(NoWebcamText, color.RGBA{230, 60, 60, 255})
	p.errLabel.TextSize = 18
	p.errLabel.Alignment = fyne.TextAlignCenter
	p.errLabel.Hidden = true

	p.ExtendBaseWidget(p)
	return p
}

func (p *PreviewPanel) CreateRenderer() fyne.WidgetRenderer {
	c := container.NewStack(p.bg, p.image, container.NewCenter(p.errLabel))
	return widget.NewSimpleRenderer(c)
}

// SetFrame displays img.
func (p *PreviewPanel) SetFrame(img image.Image) {
	if img == nil {
		return
	}
	p.image.Image = img
	p.image.Refresh()
}

// Frame returns the image currently displayed.
func (p *PreviewPanel) Frame() image.Image {
	return p.image.Image
}

// DisplaySize returns the panel size in device pixels.
func (p *PreviewPanel) DisplaySize() (int, int) {
	size := p.Size()
	scale := float32(1)
	if app := fyne.CurrentApp(); app != nil {
		if c := app.Driver().CanvasForObject(p); c != nil {
			scale = c.Scale()
		}
	}
	return int(size.Width * scale), int(size.Height * scale)
}

// SetNoWebcam shows or hides the "no webcam" overlay.
func (p *PreviewPanel) SetNoWebcam(on bool) {
	p.mu.Lock()
	p.noWebcam = on
	p.mu.Unlock()

	p.errLabel.Hidden = !on
	p.image.Hidden = on
	p.errLabel.Refresh()
	p.image.Refresh()
}

// NoWebcam reports whether the overlay is shown.
func (p *PreviewPanel) NoWebcam() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.noWebcam
}

func createColoredImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	r, g, b, a := c.RGBA()
	px := [4]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}

	// Fill first row, then copy it down
	stride := img.Stride
	for x := 0; x < width; x++ {
		copy(img.Pix[x*4:x*4+4], px[:])
	}
	firstRow := img.Pix[:stride]
	for y := 1; y < height; y++ {
		copy(img.Pix[y*stride:(y+1)*stride], firstRow)
	}
	return img
}
