package render

import (
	"image/color"

	"github.com/rook-computer/panelkit/internal/render/layout"
)

type Vec2 = layout.Vec2

// V is shorthand for constructing a Vec2.
func V(x, y float64) Vec2 { return layout.V(x, y) }

// Surface is the render target a host provides for one physical display.
//
// Coordinates are in texture space. The visible area has SurfaceSize and is
// centered inside TextureSize.
type Surface interface {
	TextureSize() Vec2
	SurfaceSize() Vec2

	// MeasureText returns the pixel extent of text drawn with font at scale.
	MeasureText(text, font string, scale float64) Vec2

	BeginFrame(background color.NRGBA)
	Add(p Primitive)
	EndFrame()
}

type TextAlign int

const (
	TextAlignCenter TextAlign = iota
	TextAlignLeft
	TextAlignRight
)

func (a TextAlign) String() string {
	switch a {
	case TextAlignLeft:
		return "left"
	case TextAlignRight:
		return "right"
	default:
		return "center"
	}
}

type Kind int

const (
	// KindRect is a filled axis-aligned rectangle centered on Position.
	KindRect Kind = iota
	// KindText is a text run anchored at Position (top edge, horizontal anchor per Align).
	KindText
	// KindLine is a segment drawn as a thin rectangle rotated around Position.
	KindLine
	// KindIcon is a named texture centered on Position.
	KindIcon
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindLine:
		return "line"
	case KindIcon:
		return "icon"
	default:
		return "rect"
	}
}

// Primitive is one drawable unit. Values are copied, never mutated in place.
type Primitive struct {
	Kind    Kind
	Texture string
	Text    string

	Position Vec2
	Size     Vec2
	// Sized is false for text runs that size themselves.
	Sized bool

	Color    color.NRGBA
	Font     string
	FontSize float64
	Align    TextAlign
	// Rotation in radians, clockwise in screen space.
	Rotation float64
}

// Bottom returns the lowest y coordinate covered by a sized primitive.
func (p Primitive) Bottom() (float64, bool) {
	if !p.Sized {
		return 0, false
	}
	return p.Position.Y + p.Size.Y*0.5, true
}
