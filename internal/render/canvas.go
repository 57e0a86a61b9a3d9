package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"sync"

	"github.com/golang/freetype/raster"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// circleSegments is the polygon resolution of circular textures.
const circleSegments = 48

// ImageSurface is a Surface that rasterizes every frame into an RGBA canvas.
// The completed frame, cropped to the visible area, is kept until the next
// EndFrame.
type ImageSurface struct {
	texture, surface Vec2

	fonts    *FontSet
	textures *TextureSet

	canvas     *image.RGBA
	rasterizer *raster.Rasterizer
	painter    *raster.RGBAPainter
	current    []Primitive

	mu     sync.RWMutex
	frame  *image.RGBA
	last   []Primitive
	frames uint64
}

// NewImageSurface creates a surface of the given texture and visible size.
// textures may be nil.
func NewImageSurface(texture, surface Vec2, fonts *FontSet, textures *TextureSet) *ImageSurface {
	w, h := int(math.Ceil(texture.X)), int(math.Ceil(texture.Y))
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	rasterizer := raster.NewRasterizer(w, h)
	rasterizer.UseNonZeroWinding = true
	if fonts == nil {
		fonts = NewFontSet()
	}
	return &ImageSurface{
		texture:    texture,
		surface:    surface,
		fonts:      fonts,
		textures:   textures,
		canvas:     canvas,
		rasterizer: rasterizer,
		painter:    raster.NewRGBAPainter(canvas),
	}
}

func (s *ImageSurface) TextureSize() Vec2 { return s.texture }
func (s *ImageSurface) SurfaceSize() Vec2 { return s.surface }

func (s *ImageSurface) MeasureText(text, fontName string, scale float64) Vec2 {
	return s.fonts.Measure(text, fontName, scale)
}

func (s *ImageSurface) BeginFrame(background color.NRGBA) {
	draw.Draw(s.canvas, s.canvas.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)
	s.current = s.current[:0]
}

func (s *ImageSurface) Add(p Primitive) {
	s.current = append(s.current, p)
	if p.Color.A == 0 {
		return
	}
	switch p.Kind {
	case KindText:
		s.drawText(p)
	case KindRect, KindLine:
		s.fillPolygon(rotatedRect(p.Position, p.Size, p.Rotation), p.Color)
	case KindIcon:
		s.drawIcon(p)
	}
}

func (s *ImageSurface) EndFrame() {
	visible := s.visibleRect()
	frame := image.NewRGBA(image.Rect(0, 0, visible.Dx(), visible.Dy()))
	draw.Draw(frame, frame.Bounds(), s.canvas, visible.Min, draw.Src)
	prims := append([]Primitive(nil), s.current...)

	s.mu.Lock()
	s.frame = frame
	s.last = prims
	s.frames++
	s.mu.Unlock()
}

// Frame returns the last completed frame, or nil before the first one.
// The image must not be modified.
func (s *ImageSurface) Frame() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

// Primitives returns the primitives of the last completed frame.
func (s *ImageSurface) Primitives() []Primitive {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Frames counts completed frames.
func (s *ImageSurface) Frames() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames
}

func (s *ImageSurface) visibleRect() image.Rectangle {
	offset := s.texture.Sub(s.surface).Scale(0.5)
	origin := image.Pt(int(math.Round(offset.X)), int(math.Round(offset.Y)))
	r := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(int(math.Round(s.surface.X)), int(math.Round(s.surface.Y))))}
	return r.Intersect(s.canvas.Bounds())
}

func (s *ImageSurface) drawText(p Primitive) {
	if p.Text == "" {
		return
	}
	face := s.fonts.Face(p.Font, p.FontSize)
	metrics := face.Metrics()
	lineHeight := float64(metrics.Height) / 64

	drawer := &font.Drawer{Dst: s.canvas, Src: image.NewUniform(p.Color), Face: face}
	for i, line := range strings.Split(p.Text, "\n") {
		width := float64(drawer.MeasureString(line)) / 64
		x := p.Position.X
		switch p.Align {
		case TextAlignCenter:
			x -= width * 0.5
		case TextAlignRight:
			x -= width
		}
		y := p.Position.Y + float64(i)*lineHeight
		drawer.Dot = fixed.Point26_6{X: toFixed(x), Y: toFixed(y) + metrics.Ascent}
		drawer.DrawString(line)
	}
}

func (s *ImageSurface) drawIcon(p Primitive) {
	switch p.Texture {
	case TextureSquare, "":
		s.fillPolygon(rotatedRect(p.Position, p.Size, p.Rotation), p.Color)
		return
	case TextureCircle:
		s.fillPolygon(ellipse(p.Position, p.Size, 0, 2*math.Pi), p.Color)
		return
	case TextureSemiCircle:
		s.fillPolygon(ellipse(p.Position, p.Size, math.Pi, 2*math.Pi), p.Color)
		return
	case TextureTriangle:
		half := p.Size.Scale(0.5)
		s.fillPolygon([]Vec2{
			V(p.Position.X, p.Position.Y-half.Y),
			p.Position.Add(half),
			V(p.Position.X-half.X, p.Position.Y+half.Y),
		}, p.Color)
		return
	}

	src, ok := s.textures.Lookup(p.Texture)
	if !ok {
		return
	}
	half := p.Size.Scale(0.5)
	lo, hi := p.Position.Sub(half), p.Position.Add(half)
	dst := image.Rect(int(math.Round(lo.X)), int(math.Round(lo.Y)), int(math.Round(hi.X)), int(math.Round(hi.Y)))
	if dst.Empty() {
		return
	}

	mask := image.NewRGBA(image.Rect(0, 0, dst.Dx(), dst.Dy()))
	xdraw.ApproxBiLinear.Scale(mask, mask.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	draw.DrawMask(s.canvas, dst, image.NewUniform(p.Color), image.Point{}, mask, image.Point{}, draw.Over)
}

func (s *ImageSurface) fillPolygon(points []Vec2, c color.NRGBA) {
	if len(points) < 3 {
		return
	}
	s.rasterizer.Clear()
	s.rasterizer.Start(toPoint(points[0]))
	for _, p := range points[1:] {
		s.rasterizer.Add1(toPoint(p))
	}
	s.rasterizer.Add1(toPoint(points[0]))
	s.painter.SetColor(c)
	s.rasterizer.Rasterize(s.painter)
}

// rotatedRect returns the corners of a rectangle of size centered at center,
// rotated by angle radians.
func rotatedRect(center, size Vec2, angle float64) []Vec2 {
	half := size.Scale(0.5)
	cos, sin := math.Cos(angle), math.Sin(angle)
	corners := []Vec2{V(-half.X, -half.Y), V(half.X, -half.Y), V(half.X, half.Y), V(-half.X, half.Y)}
	for i, c := range corners {
		corners[i] = V(center.X+c.X*cos-c.Y*sin, center.Y+c.X*sin+c.Y*cos)
	}
	return corners
}

// ellipse approximates the arc from start to end (radians) of the ellipse
// inscribed in size. Partial arcs are closed through the center.
func ellipse(center, size Vec2, start, end float64) []Vec2 {
	radius := size.Scale(0.5)
	steps := int(math.Ceil(circleSegments * (end - start) / (2 * math.Pi)))
	points := make([]Vec2, 0, steps+2)
	if end-start < 2*math.Pi {
		points = append(points, center)
	}
	for i := 0; i <= steps; i++ {
		a := start + (end-start)*float64(i)/float64(steps)
		points = append(points, V(center.X+math.Cos(a)*radius.X, center.Y+math.Sin(a)*radius.Y))
	}
	return points
}

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }

func toPoint(v Vec2) fixed.Point26_6 { return fixed.Point26_6{X: toFixed(v.X), Y: toFixed(v.Y)} }
