package render

import (
	"image/color"
	"math"

	"github.com/rook-computer/panelkit/internal/render/layout"
)

// SurfaceManager accumulates primitives for one surface and renders them.
//
// Builders append to the pending line; SaveLine moves it into the history.
// Render draws every saved line stacked vertically, shifted by the scroll
// offset. Clear must be called before starting a new pass.
type SurfaceManager struct {
	surface Surface

	viewport layout.Rect
	padding  Vec2
	scale    float64

	pending []Primitive
	lines   [][]Primitive

	scroller Scroller

	background color.NRGBA
	foreground color.NRGBA
}

// NewSurfaceManager derives the viewport, padding and scale of surface once.
func NewSurfaceManager(surface Surface) *SurfaceManager {
	viewport, padding, scale := layout.Viewport(surface.TextureSize(), surface.SurfaceSize())
	return &SurfaceManager{
		surface:    surface,
		viewport:   viewport,
		padding:    padding,
		scale:      scale,
		scroller:   NewScroller(),
		background: DefaultBackground,
		foreground: DefaultForeground,
	}
}

func (m *SurfaceManager) Surface() Surface             { return m.surface }
func (m *SurfaceManager) Viewport() layout.Rect        { return m.viewport }
func (m *SurfaceManager) Padding() Vec2                { return m.padding }
func (m *SurfaceManager) Scale() float64               { return m.scale }
func (m *SurfaceManager) BackgroundColor() color.NRGBA { return m.background }
func (m *SurfaceManager) DefaultColor() color.NRGBA    { return m.foreground }
func (m *SurfaceManager) ScrollOffset() float64        { return m.scroller.Offset() }
func (m *SurfaceManager) ScrollDirection() int         { return m.scroller.Direction() }

// SetColors sets the background and default foreground colors.
func (m *SurfaceManager) SetColors(background, foreground color.NRGBA) {
	m.background = background
	m.foreground = foreground
}

// Reset rewinds the scroll animation. Used when the surface content changes.
func (m *SurfaceManager) Reset() {
	m.scroller.Reset()
}

// SaveLine closes the pending line. An empty pending line is ignored.
func (m *SurfaceManager) SaveLine() {
	if len(m.pending) == 0 {
		return
	}
	line := make([]Primitive, len(m.pending))
	copy(line, m.pending)
	m.lines = append(m.lines, line)
	m.pending = m.pending[:0]
}

// Clear drops the pending line and the line history.
func (m *SurfaceManager) Clear() {
	m.lines = nil
	m.pending = m.pending[:0]
}

// Lines returns the saved lines. The slices must not be modified.
func (m *SurfaceManager) Lines() [][]Primitive { return m.lines }

// Pending returns the primitives not yet saved into a line.
func (m *SurfaceManager) Pending() []Primitive { return m.pending }

// Render draws all lines to the surface. When pixelsToScroll is positive the
// scroll animation advances by that many pixels (times scale).
func (m *SurfaceManager) Render(pixelsToScroll int) {
	if len(m.pending) > 0 {
		m.SaveLine()
	}

	contentHeight := m.ContentHeight()
	if pixelsToScroll > 0 {
		m.scroller.Advance(contentHeight, m.viewport.Size.Y, float64(pixelsToScroll), m.scale)
	} else {
		m.scroller.Clamp(contentHeight, m.viewport.Size.Y)
	}

	m.surface.BeginFrame(m.background)
	offset := 0.0
	for _, line := range m.lines {
		shift := offset - m.scroller.Offset()
		for _, p := range line {
			p.Position.Y += shift
			m.surface.Add(p)
		}
		offset += m.lineHeight(line)
	}
	m.surface.EndFrame()
}

// ContentHeight is the sum of all saved line heights.
func (m *SurfaceManager) ContentHeight() float64 {
	total := 0.0
	for _, line := range m.lines {
		total += m.lineHeight(line)
	}
	return total
}

// lineHeight is the lowest edge of any sized primitive relative to the
// viewport top.
func (m *SurfaceManager) lineHeight(line []Primitive) float64 {
	bottom := 0.0
	for _, p := range line {
		if b, ok := p.Bottom(); ok {
			bottom = math.Max(bottom, b)
		}
	}
	return math.Max(bottom-m.viewport.Position.Y, 0)
}

func (m *SurfaceManager) emit(p Primitive) {
	m.pending = append(m.pending, p)
}

// place maps normalized corners to a block and reserves its area with a
// transparent rectangle.
func (m *SurfaceManager) place(topLeft, bottomRight Vec2, extraPadding bool) (layout.Block, bool) {
	block, ok := layout.Place(m.viewport, m.padding, topLeft, bottomRight, extraPadding)
	if !ok {
		return block, false
	}
	m.emit(Primitive{
		Kind:     KindRect,
		Texture:  TextureSquare,
		Position: block.Position,
		Size:     block.Size,
		Sized:    true,
		Color:    Transparent,
	})
	return block, true
}
