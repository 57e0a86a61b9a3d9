package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/rook-computer/panelkit/internal/render/layout"
)

// All builders take normalized corners relative to the viewport. Corners that
// describe an empty area produce no primitives.

type TextOptions struct {
	// Color defaults to the surface foreground.
	Color color.Color
	Align TextAlign
	// ExtraPadding shrinks the content box by one more padding unit.
	ExtraPadding bool
	// Multiline wraps text instead of truncating it.
	Multiline bool
	// FontSize is relative to the surface scale. Zero means 1.
	FontSize float64
}

// AddText places text inside the rectangle, truncating or wrapping it to fit.
func (m *SurfaceManager) AddText(text string, topLeft, bottomRight Vec2, opts TextOptions) {
	block, ok := m.place(topLeft, bottomRight, opts.ExtraPadding)
	if !ok {
		return
	}

	fontSize := opts.FontSize
	if fontSize == 0 {
		fontSize = 1
	}
	fontSize *= m.scale

	extra := 0.0
	if opts.ExtraPadding {
		extra = m.padding.X
	}

	position := block.Position
	switch opts.Align {
	case TextAlignRight:
		position.X += block.Content.X*0.5 - extra
	case TextAlignLeft:
		position.X -= block.Content.X*0.5 - extra
	}

	limit := block.Content.X - m.padding.X*2
	measure := func(s string) float64 {
		return m.surface.MeasureText(s, ReferenceFont, fontSize).X
	}

	var fitted string
	if opts.Multiline {
		fitted = wrapText(text, limit, measure)
	} else {
		fitted = truncateText(text, limit, measure)
	}

	size := m.surface.MeasureText(fitted, ReferenceFont, fontSize)
	position.Y -= size.Y * 0.5

	m.emit(Primitive{
		Kind:     KindText,
		Text:     fitted,
		Position: position,
		Size:     block.Content.Sub(m.padding.Scale(2)),
		Sized:    true,
		Color:    toNRGBA(opts.Color, m.foreground),
		Font:     ReferenceFont,
		FontSize: fontSize,
		Align:    opts.Align,
	})
}

// truncateText drops trailing runes until the text is narrower than limit.
// Widths are assumed to grow with prefix length, so the longest fitting
// prefix is found by bisection.
func truncateText(text string, limit float64, measure func(string) float64) string {
	if measure(text) < limit {
		return text
	}
	runes := []rune(text)
	lo, hi := 0, len(runes)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if measure(string(runes[:mid])) < limit {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo])
}

// wrapText inserts a line break before the rune at which the current line
// would exceed limit.
func wrapText(text string, limit float64, measure func(string) float64) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text) + len(text)/8)

	start := 0
	for i, r := range runes {
		if r == '\n' {
			b.WriteRune(r)
			start = i + 1
			continue
		}
		if i > start && measure(string(runes[start:i])) > limit {
			b.WriteByte('\n')
			start = i
		}
		b.WriteRune(r)
	}
	return b.String()
}

type CircleBarOptions struct {
	// Sector is the arc length in degrees. Zero means 270; values above 360 are capped.
	Sector float64
	// Rotation offsets the start of the arc, in degrees.
	Rotation float64
	// Cells splits the ring with background-colored separators when above 1.
	Cells int
	Color color.Color
	// Reverse sweeps the fill in the opposite direction.
	Reverse bool
}

// AddCircleProgressBar draws a ring gauge. thickness is the ring width as a
// fraction of the radius.
func (m *SurfaceManager) AddCircleProgressBar(percentage, thickness float64, topLeft, bottomRight Vec2, opts CircleBarOptions) {
	block, ok := m.place(topLeft, bottomRight, false)
	if !ok {
		return
	}

	percentage = layout.Clamp01(percentage)
	thickness = layout.Clamp01(thickness)

	sector := opts.Sector
	if sector <= 0 {
		sector = 270
	}
	sector = math.Min(sector, 360)

	fill := toNRGBA(opts.Color, m.foreground)
	ghost := Ghost(fill)

	radius := (block.Content.MinComponent() - 2*m.padding.MinComponent()) * 0.5
	if radius <= 0 {
		return
	}
	width := 2 * math.Pi * radius / 180

	spoke := func(angle float64, c color.NRGBA) {
		rad := (angle + opts.Rotation) * math.Pi / 180
		offset := V(-math.Cos(rad)*radius, -math.Sin(rad)*radius)
		m.drawLine(block.Position.Add(offset.Scale(1-thickness)), block.Position.Add(offset), c, width)
	}
	sweep := func(i float64) float64 {
		angle := sector - i
		if opts.Reverse {
			angle = sector - angle
		}
		return angle
	}

	for i := 0.0; i <= sector; i++ {
		spoke(sweep(i), ghost)
	}
	if percentage > 0 {
		for i := 0.0; i <= sector*percentage; i++ {
			spoke(sweep(i), fill)
		}
	}

	if opts.Cells <= 1 {
		return
	}
	for i := 0; i < opts.Cells; i++ {
		angle := sector / float64(opts.Cells) * float64(i)
		if !opts.Reverse {
			angle = sector - angle
		}
		spoke(angle, m.background)
	}
}

type SquareBarOptions struct {
	// Rotation selects the growth edge: 0 bottom, 90 right, 180 top, 270 left.
	Rotation int
	Cells    int
	Color    color.Color
}

// AddSquareProgressBar draws a linear bar that fills from one edge.
func (m *SurfaceManager) AddSquareProgressBar(percentage float64, topLeft, bottomRight Vec2, opts SquareBarOptions) {
	block, ok := m.place(topLeft, bottomRight, false)
	if !ok {
		return
	}

	percentage = layout.Clamp01(percentage)
	fill := toNRGBA(opts.Color, m.foreground)

	pos, content, pad := block.Position, block.Content, m.padding
	barSize := content.Sub(pad.Scale(2))
	separator := pad.MinComponent() * 0.5

	var active, barPos, start, end, sepSize Vec2
	switch opts.Rotation {
	case 90:
		active = barSize.Mul(V(percentage, 1))
		barPos = V(pos.X+(content.X-active.X)*0.5-pad.X, pos.Y)
		start = V(pos.X-content.X*0.5+pad.Y*0.5, pos.Y)
		end = V(pos.X+content.X*0.5-pad.Y*0.5, pos.Y)
		sepSize = V(separator, barSize.Y)
	case 180:
		active = barSize.Mul(V(1, percentage))
		barPos = V(pos.X, pos.Y+(active.Y-content.Y)*0.5+pad.Y)
		start = V(pos.X, pos.Y-content.Y*0.5+pad.Y*0.5)
		end = V(pos.X, pos.Y+content.Y*0.5-pad.Y*0.5)
		sepSize = V(barSize.X, separator)
	case 270:
		active = barSize.Mul(V(percentage, 1))
		barPos = V(pos.X+(active.X-content.X)*0.5+pad.X, pos.Y)
		start = V(pos.X-content.X*0.5+pad.Y*0.5, pos.Y)
		end = V(pos.X+content.X*0.5-pad.Y*0.5, pos.Y)
		sepSize = V(separator, barSize.Y)
	default:
		active = barSize.Mul(V(1, percentage))
		barPos = V(pos.X, pos.Y+(content.Y-active.Y)*0.5-pad.Y)
		start = V(pos.X, pos.Y-content.Y*0.5+pad.Y*0.5)
		end = V(pos.X, pos.Y+content.Y*0.5-pad.Y*0.5)
		sepSize = V(barSize.X, separator)
	}

	m.emitRect(pos, barSize, Ghost(fill))
	m.emitRect(barPos, active, fill)

	if opts.Cells <= 1 {
		return
	}
	step := end.Sub(start).Scale(1 / float64(opts.Cells))
	for i := 1; i < opts.Cells; i++ {
		m.emitRect(start.Add(step.Scale(float64(i))), sepSize, m.background)
	}
}

type GraphOptions struct {
	Color color.Color
	// HidePercentage suppresses the label after the last point.
	HidePercentage bool
	// Filled shades the area below the curve.
	Filled bool
}

// AddGraph plots values in [0,1] as a polyline. Only the last MaxGraphValues
// samples are drawn.
func (m *SurfaceManager) AddGraph(values []float64, topLeft, bottomRight Vec2, opts GraphOptions) {
	if len(values) == 0 {
		return
	}
	if len(values) > MaxGraphValues {
		values = values[len(values)-MaxGraphValues:]
	}
	block, ok := m.place(topLeft, bottomRight, false)
	if !ok {
		return
	}

	fontSize := 1.25 * m.scale
	c := toNRGBA(opts.Color, m.foreground)
	pad := m.padding

	graphBox := block.Content.Sub(pad)

	var textSize Vec2
	if !opts.HidePercentage {
		textSize = m.surface.MeasureText("000.0%", ReferenceFont, fontSize)
		textSize.X += pad.X
	}
	graphBox = graphBox.Sub(textSize)

	step := graphBox.X / float64(len(values)-1)
	zero := V(block.Position.X-(graphBox.X+textSize.X)*0.5, block.Position.Y+graphBox.Y*0.5)
	startPoint := V(zero.X, zero.Y-graphBox.Y*layout.Clamp01(values[0]))

	dot := pad.MaxComponent() * 0.5

	for i := 1; i < len(values); i++ {
		endPoint := V(zero.X+float64(i)*step, zero.Y-graphBox.Y*layout.Clamp01(values[i]))

		m.drawLine(startPoint, endPoint, c, dot)
		if i == 1 {
			m.emitIcon(TextureCircle, startPoint, V(dot, dot), c)
		}
		m.emitIcon(TextureCircle, endPoint, V(dot, dot), c)

		if opts.Filled {
			diff := endPoint.Sub(startPoint)
			if diff.X > 0 {
				for x := startPoint.X; x <= endPoint.X+m.scale; x++ {
					y := (x - startPoint.X) / diff.X * diff.Y
					m.drawLine(V(x, zero.Y), V(x, startPoint.Y+y), c, dot*0.5)
				}
			}
		}
		startPoint = endPoint
	}

	if opts.Filled {
		bottomEnd := V(zero.X+graphBox.X, zero.Y)
		m.drawLine(zero, bottomEnd, c, dot)
		m.emitIcon(TextureCircle, zero, V(dot, dot), c)
		m.emitIcon(TextureCircle, bottomEnd, V(dot, dot), c)
	}

	if !opts.HidePercentage {
		last := layout.Clamp01(values[len(values)-1])
		m.emit(Primitive{
			Kind:     KindText,
			Text:     fmt.Sprintf("%.1f%%", last*100),
			Position: V(startPoint.X+textSize.X-pad.X*0.25, startPoint.Y-textSize.Y*0.5),
			Color:    c,
			Font:     ReferenceFont,
			FontSize: fontSize,
			Align:    TextAlignRight,
		})
	}
}

type BorderOptions struct {
	// Gaps, when set, cuts background-colored openings into the frame. X and Y
	// are fractions of the content width and height.
	Gaps  *Vec2
	Color color.Color
}

// AddBorder draws a frame around an empty region.
func (m *SurfaceManager) AddBorder(topLeft, bottomRight Vec2, opts BorderOptions) {
	block, ok := m.place(topLeft, bottomRight, false)
	if !ok {
		return
	}
	content := block.Content

	m.emitRect(block.Position, content, toNRGBA(opts.Color, m.foreground))
	if opts.Gaps != nil {
		m.emitRect(block.Position, V(content.X, opts.Gaps.Y*content.Y), m.background)
		m.emitRect(block.Position, V(opts.Gaps.X*content.X, content.Y), m.background)
	}
	m.emitRect(block.Position, content.Sub(m.padding.Scale(0.75)), m.background)
}

type SpriteOptions struct {
	Color color.Color
	Align TextAlign
	// Stretch fills the content box instead of keeping a square aspect ratio.
	Stretch bool
}

// AddSprite places the named texture inside the rectangle.
func (m *SurfaceManager) AddSprite(texture string, topLeft, bottomRight Vec2, opts SpriteOptions) {
	block, ok := m.place(topLeft, bottomRight, false)
	if !ok {
		return
	}
	content := block.Content
	size := content.MinComponent()

	position := block.Position
	switch opts.Align {
	case TextAlignRight:
		position.X += (content.X - size) * 0.5
	case TextAlignLeft:
		position.X -= (content.X - size) * 0.5
	}

	if !opts.Stretch {
		content = V(size, size)
	}
	m.emitIcon(texture, position, content.Sub(m.padding.Scale(2)), toNRGBA(opts.Color, m.foreground))
}

type LineOptions struct {
	Color color.Color
	// Width in pixels at scale 1. Zero means half the padding.
	Width float64
}

// AddLine draws a segment between two normalized viewport points.
func (m *SurfaceManager) AddLine(from, to Vec2, opts LineOptions) {
	width := opts.Width * m.scale
	if width <= 0 {
		width = m.padding.MaxComponent() * 0.5
	}
	toTexture := func(p Vec2) Vec2 {
		return m.viewport.Position.Add(m.viewport.Size.Mul(p))
	}
	m.drawLine(toTexture(from), toTexture(to), toNRGBA(opts.Color, m.foreground), width)
}

func (m *SurfaceManager) drawLine(p1, p2 Vec2, c color.NRGBA, width float64) {
	diff := p1.Sub(p2)
	length := diff.Len()
	if length != 0 {
		diff = diff.Scale(1 / length)
	}
	angle := math.Acos(layout.Clamp(diff.Dot(V(1, 0)), -1, 1)) * float64(fsign(diff.Dot(V(0, 1))))

	m.emit(Primitive{
		Kind:     KindLine,
		Texture:  TextureSquare,
		Position: p1.Add(p2).Scale(0.5),
		Size:     V(length, width),
		Sized:    true,
		Color:    c,
		Rotation: angle,
	})
}

func (m *SurfaceManager) emitRect(position, size Vec2, c color.NRGBA) {
	m.emit(Primitive{Kind: KindRect, Texture: TextureSquare, Position: position, Size: size, Sized: true, Color: c})
}

func (m *SurfaceManager) emitIcon(texture string, position, size Vec2, c color.NRGBA) {
	m.emit(Primitive{Kind: KindIcon, Texture: texture, Position: position, Size: size, Sized: true, Color: c})
}

func fsign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
