package render

import (
	"image"
	"image/color"

	fb "github.com/gonutz/framebuffer"
)

// DefaultFramebuffer is the device opened when no path is configured.
const DefaultFramebuffer = "/dev/fb0"

// Framebuffer presents frames on a Linux framebuffer device.
type Framebuffer struct {
	dev *fb.Device
}

func OpenFramebuffer(path string) (*Framebuffer, error) {
	if path == "" {
		path = DefaultFramebuffer
	}
	dev, err := fb.Open(path)
	if err != nil {
		return nil, err
	}
	return &Framebuffer{dev: dev}, nil
}

func (f *Framebuffer) Bounds() image.Rectangle { return f.dev.Bounds() }

// Present scales img over the whole device.
func (f *Framebuffer) Present(img image.Image) error {
	if img == nil {
		return nil
	}
	blit(f.dev, img)
	return nil
}

func (f *Framebuffer) Close() error {
	f.dev.Close()
	return nil
}

// blit copies src over all of dst using nearest-neighbor sampling. Pixels are
// written opaque.
func blit(dst interface {
	Bounds() image.Rectangle
	Set(x, y int, c color.Color)
}, src image.Image) {
	bounds := dst.Bounds()
	srcBounds := src.Bounds()
	dstWidth, dstHeight := bounds.Dx(), bounds.Dy()
	srcWidth, srcHeight := srcBounds.Dx(), srcBounds.Dy()
	if dstWidth == 0 || dstHeight == 0 || srcWidth == 0 || srcHeight == 0 {
		return
	}
	for y := 0; y < dstHeight; y++ {
		sy := srcBounds.Min.Y + (y*srcHeight)/dstHeight
		for x := 0; x < dstWidth; x++ {
			sx := srcBounds.Min.X + (x*srcWidth)/dstWidth
			r, g, b, _ := src.At(sx, sy).RGBA()
			dst.Set(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xFF})
		}
	}
}
