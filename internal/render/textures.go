package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/skip2/go-qrcode"
)

// QRPrefix marks a texture name whose remainder is encoded as a QR code.
const QRPrefix = "qr:"

const (
	qrCodeSizePx = 256
	maxQRCodes   = 64
)

// TextureSet resolves sprite names that are not built-in shapes. Images act as
// alpha masks tinted with the primitive color.
type TextureSet struct {
	mu     sync.RWMutex
	images map[string]image.Image
	qr     map[string]image.Image
}

func NewTextureSet() *TextureSet {
	return &TextureSet{
		images: make(map[string]image.Image),
		qr:     make(map[string]image.Image),
	}
}

// LoadTextures reads every PNG in dir. The texture name is the file name
// without extension.
func LoadTextures(dir string) (*TextureSet, error) {
	set := NewTextureSet()
	if dir == "" {
		return set, nil
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		img, err := decodePNG(path)
		if err != nil {
			return nil, fmt.Errorf("texture %s: %w", filepath.Base(path), err)
		}
		set.Add(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), img)
	}
	return set, nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

func (t *TextureSet) Add(name string, img image.Image) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.images[name] = img
}

// Lookup returns the image for name. Names with QRPrefix are generated on
// first use and cached.
func (t *TextureSet) Lookup(name string) (image.Image, bool) {
	if t == nil {
		return nil, false
	}
	if payload, ok := strings.CutPrefix(name, QRPrefix); ok {
		return t.qrCode(payload)
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	img, ok := t.images[name]
	return img, ok
}

// Names lists the loaded textures in sorted order.
func (t *TextureSet) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.images))
	for name := range t.images {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *TextureSet) qrCode(payload string) (image.Image, bool) {
	t.mu.RLock()
	img, ok := t.qr[payload]
	t.mu.RUnlock()
	if ok {
		return img, true
	}

	img, err := GenerateQRCodeImage(payload, qrCodeSizePx)
	if err != nil || img == nil {
		return nil, false
	}

	t.mu.Lock()
	if len(t.qr) >= maxQRCodes {
		clear(t.qr)
	}
	t.qr[payload] = img
	t.mu.Unlock()
	return img, true
}

// GenerateQRCodeImage returns a QR code with opaque modules on a transparent
// background. If payload is empty, it returns (nil, nil).
func GenerateQRCodeImage(payload string, sizePx int) (image.Image, error) {
	if payload == "" {
		return nil, nil
	}
	if sizePx <= 0 {
		sizePx = qrCodeSizePx
	}

	qrCode, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	qrCode.ForegroundColor = color.White
	qrCode.BackgroundColor = color.Transparent

	return qrCode.Image(sizePx), nil
}
