package render

import (
	"math"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// fontPixels is the line size in pixels of a font at scale 1.
const fontPixels = 28.0

// FontSet maps font names to parsed TrueType fonts and caches faces per size.
// Unknown names resolve to ReferenceFont. Returned faces keep glyph caches
// and must only be used from the goroutine that draws.
type FontSet struct {
	mu    sync.Mutex
	fonts map[string]*truetype.Font
	faces map[faceKey]font.Face
}

type faceKey struct {
	name string
	// size in half pixels
	size int
}

// NewFontSet parses the bundled Go fonts. "Debug" and "Monospace" use Go Mono,
// "White" uses Go Regular. A font that fails to parse falls back to basicfont.
func NewFontSet() *FontSet {
	fs := &FontSet{
		fonts: make(map[string]*truetype.Font),
		faces: make(map[faceKey]font.Face),
	}
	if mono, err := truetype.Parse(gomono.TTF); err == nil {
		fs.fonts[ReferenceFont] = mono
		fs.fonts["Monospace"] = mono
	}
	if regular, err := truetype.Parse(goregular.TTF); err == nil {
		fs.fonts["White"] = regular
	}
	return fs
}

// Face returns the face for name at scale.
func (fs *FontSet) Face(name string, scale float64) font.Face {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.fonts[name]; !ok {
		name = ReferenceFont
	}
	key := faceKey{name: name, size: int(math.Round(fontPixels * scale * 2))}
	if face, ok := fs.faces[key]; ok {
		return face
	}

	tt, ok := fs.fonts[name]
	if !ok || key.size <= 0 {
		return basicfont.Face7x13
	}
	face := truetype.NewFace(tt, &truetype.Options{
		Size:    float64(key.size) / 2,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	fs.faces[key] = face
	return face
}

// Measure returns the width of the widest line and the total height of text.
func (fs *FontSet) Measure(text, name string, scale float64) Vec2 {
	face := fs.Face(name, scale)
	lineHeight := float64(face.Metrics().Height) / 64

	lines := strings.Split(text, "\n")
	width := 0.0
	for _, line := range lines {
		width = math.Max(width, float64(font.MeasureString(face, line))/64)
	}
	return V(width, lineHeight*float64(len(lines)))
}
