package render

import "image/color"

// Default colors for a surface before configuration is applied.
var (
	DefaultBackground = color.NRGBA{R: 0, G: 88, B: 151, A: 0xFF}
	DefaultForeground = color.NRGBA{R: 179, G: 237, B: 255, A: 0xFF}

	Transparent = color.NRGBA{}
)

const (
	// ReferenceFont is the font used for all text measurement and drawing.
	ReferenceFont = "Debug"

	TextureSquare     = "SquareSimple"
	TextureCircle     = "Circle"
	TextureTriangle   = "Triangle"
	TextureSemiCircle = "SemiCircle"

	// ghostAlpha is the opacity of the unfilled part of progress indicators.
	ghostAlpha = 0.1

	// MaxGraphValues bounds the number of samples plotted by AddGraph.
	MaxGraphValues = 256
)

// Ghost returns c with its alpha reduced to the unfilled-indicator opacity.
func Ghost(c color.NRGBA) color.NRGBA {
	c.A = uint8(float64(c.A)*ghostAlpha + 0.5)
	return c
}

func toNRGBA(c color.Color, fallback color.NRGBA) color.NRGBA {
	if c == nil {
		return fallback
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
