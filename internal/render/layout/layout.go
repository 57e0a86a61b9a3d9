package layout

import "math"

// ReferenceSize is the surface edge length (in pixels) at which Scale is 1.
const ReferenceSize = 512

// BasePadding is the padding (in pixels) applied at Scale 1.
const BasePadding = 10

// Vec2 is a point or extent in surface texture space.
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2          { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2          { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(o Vec2) Vec2          { return Vec2{v.X * o.X, v.Y * o.Y} }
func (v Vec2) Scale(f float64) Vec2     { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) SubScalar(f float64) Vec2 { return Vec2{v.X - f, v.Y - f} }
func (v Vec2) Dot(o Vec2) float64       { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len() float64             { return math.Hypot(v.X, v.Y) }

// MinComponent returns the smaller of X and Y.
func (v Vec2) MinComponent() float64 { return math.Min(v.X, v.Y) }

// MaxComponent returns the larger of X and Y.
func (v Vec2) MaxComponent() float64 { return math.Max(v.X, v.Y) }

// Rect is an axis-aligned rectangle given by its top-left position and size.
type Rect struct {
	Position Vec2
	Size     Vec2
}

// Center returns the center point of rect.
func (r Rect) Center() Vec2 { return r.Position.Add(r.Size.Scale(0.5)) }

// Inset shrinks rect by padding on all sides. Sizes never go negative.
func Inset(rect Rect, padding Vec2) Rect {
	out := Rect{
		Position: rect.Position.Add(padding),
		Size:     rect.Size.Sub(padding.Scale(2)),
	}
	if out.Size.X < 0 {
		out.Size.X = 0
	}
	if out.Size.Y < 0 {
		out.Size.Y = 0
	}
	return out
}

// Viewport derives the drawable area of a surface.
//
// The visible surface is centered on its texture; padding and scale follow
// from the smaller edge of the visible surface relative to ReferenceSize.
// The returned viewport is the visible area inset by twice the padding.
func Viewport(textureSize, surfaceSize Vec2) (viewport Rect, padding Vec2, scale float64) {
	visible := Rect{
		Position: textureSize.Sub(surfaceSize).Scale(0.5),
		Size:     surfaceSize,
	}
	scale = visible.Size.Scale(1.0 / ReferenceSize).MinComponent()
	padding = V(BasePadding, BasePadding).Scale(scale)
	return Inset(visible, padding.Scale(2)), padding, scale
}

// Block is the placement of a single builder call inside the viewport.
type Block struct {
	// Size is the full extent reserved by the block.
	Size Vec2
	// Content is Size minus padding.
	Content Vec2
	// Position is the center of the block.
	Position Vec2
}

// Degenerate reports whether the normalized corners describe an empty area.
func Degenerate(topLeft, bottomRight Vec2) bool {
	return bottomRight.X <= topLeft.X || bottomRight.Y <= topLeft.Y
}

// Place maps normalized corners to a Block inside viewport.
// ok is false for degenerate corners.
func Place(viewport Rect, padding Vec2, topLeft, bottomRight Vec2, extraPadding bool) (block Block, ok bool) {
	if Degenerate(topLeft, bottomRight) {
		return Block{}, false
	}
	block.Size = viewport.Size.Mul(bottomRight.Sub(topLeft))
	block.Content = block.Size.Sub(padding)
	if extraPadding {
		block.Content = block.Content.SubScalar(padding.X)
	}
	block.Position = viewport.Position.Add(viewport.Size.Mul(bottomRight.Add(topLeft)).Scale(0.5))
	return block, true
}

// Clamp01 clamps v to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(math.Min(v, hi), lo)
}
