package render

import (
	"image/color"
	"math"
	"reflect"
	"strings"
	"testing"
)

// fakeSurface measures every rune as 10px wide and every line as 20px tall
// at scale 1, and records the primitives of the last frame.
type fakeSurface struct {
	texture, surface Vec2

	frames     int
	background color.NRGBA
	current    []Primitive
	last       []Primitive
}

func newFakeSurface(w, h float64) *fakeSurface {
	return &fakeSurface{texture: V(w, h), surface: V(w, h)}
}

func (f *fakeSurface) TextureSize() Vec2 { return f.texture }
func (f *fakeSurface) SurfaceSize() Vec2 { return f.surface }

func (f *fakeSurface) MeasureText(text, font string, scale float64) Vec2 {
	lines := strings.Split(text, "\n")
	width := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > width {
			width = n
		}
	}
	return V(float64(width)*10*scale, float64(len(lines))*20*scale)
}

func (f *fakeSurface) BeginFrame(bg color.NRGBA) {
	f.background = bg
	f.current = nil
}

func (f *fakeSurface) Add(p Primitive) { f.current = append(f.current, p) }

func (f *fakeSurface) EndFrame() {
	f.frames++
	f.last = f.current
}

func snapshotLines(m *SurfaceManager) [][]Primitive {
	out := make([][]Primitive, len(m.Lines()))
	for i, line := range m.Lines() {
		out[i] = append([]Primitive(nil), line...)
	}
	return out
}

func TestBuildersIgnoreDegenerateRectangles(t *testing.T) {
	corners := []struct {
		name   string
		tl, br Vec2
	}{
		{"zero width", V(0.5, 0), V(0.5, 1)},
		{"zero height", V(0, 0.3), V(1, 0.3)},
		{"inverted", V(0.9, 0.9), V(0.1, 0.1)},
	}
	builders := map[string]func(m *SurfaceManager, tl, br Vec2){
		"text":   func(m *SurfaceManager, tl, br Vec2) { m.AddText("hello", tl, br, TextOptions{}) },
		"circle": func(m *SurfaceManager, tl, br Vec2) { m.AddCircleProgressBar(0.5, 0.2, tl, br, CircleBarOptions{}) },
		"square": func(m *SurfaceManager, tl, br Vec2) { m.AddSquareProgressBar(0.5, tl, br, SquareBarOptions{}) },
		"graph":  func(m *SurfaceManager, tl, br Vec2) { m.AddGraph([]float64{0.1, 0.5}, tl, br, GraphOptions{}) },
		"border": func(m *SurfaceManager, tl, br Vec2) { m.AddBorder(tl, br, BorderOptions{}) },
		"sprite": func(m *SurfaceManager, tl, br Vec2) { m.AddSprite(TextureCircle, tl, br, SpriteOptions{}) },
	}

	for name, build := range builders {
		for _, c := range corners {
			t.Run(name+"/"+c.name, func(t *testing.T) {
				m := NewSurfaceManager(newFakeSurface(512, 512))
				build(m, c.tl, c.br)
				if n := len(m.Pending()); n != 0 {
					t.Fatalf("emitted %d primitives, want 0", n)
				}
			})
		}
	}
}

func TestBuildersReserveBlockFirst(t *testing.T) {
	m := NewSurfaceManager(newFakeSurface(512, 512))
	m.AddBorder(V(0, 0), V(1, 0.5), BorderOptions{})
	first := m.Pending()[0]
	if first.Kind != KindRect || first.Color != Transparent {
		t.Fatalf("first primitive = %+v, want transparent rect", first)
	}
	if first.Size != V(472, 236) {
		t.Fatalf("reserved size = %v", first.Size)
	}
}

func TestProgressBarsClampPercentage(t *testing.T) {
	tests := []struct {
		name    string
		in, eq  float64
		builder func(m *SurfaceManager, pct float64)
	}{
		{"square below", -0.7, 0, func(m *SurfaceManager, p float64) {
			m.AddSquareProgressBar(p, V(0, 0), V(1, 0.2), SquareBarOptions{Rotation: 270, Cells: 4})
		}},
		{"square above", 3.2, 1, func(m *SurfaceManager, p float64) {
			m.AddSquareProgressBar(p, V(0, 0), V(1, 0.2), SquareBarOptions{Rotation: 90})
		}},
		{"circle below", -1, 0, func(m *SurfaceManager, p float64) {
			m.AddCircleProgressBar(p, 0.3, V(0, 0), V(0.5, 0.5), CircleBarOptions{Cells: 3})
		}},
		{"circle above", 1.5, 1, func(m *SurfaceManager, p float64) {
			m.AddCircleProgressBar(p, 0.3, V(0, 0), V(0.5, 0.5), CircleBarOptions{Reverse: true})
		}},
		{"graph out of range", 4, 1, func(m *SurfaceManager, p float64) {
			m.AddGraph([]float64{p, -p, p}, V(0, 0), V(1, 1), GraphOptions{Filled: true})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewSurfaceManager(newFakeSurface(512, 512))
			b := NewSurfaceManager(newFakeSurface(512, 512))
			tt.builder(a, tt.in)
			if strings.HasPrefix(tt.name, "graph") {
				b.AddGraph([]float64{1, 0, 1}, V(0, 0), V(1, 1), GraphOptions{Filled: true})
			} else {
				tt.builder(b, tt.eq)
			}
			if !reflect.DeepEqual(a.Pending(), b.Pending()) {
				t.Fatalf("clamped output differs from boundary output")
			}
		})
	}
}

func TestSquareProgressBarHalfAtRotation270(t *testing.T) {
	m := NewSurfaceManager(newFakeSurface(512, 512))
	m.AddSquareProgressBar(0.5, V(0, 0), V(1, 0.2), SquareBarOptions{Rotation: 270})

	prims := m.Pending()
	if len(prims) != 3 {
		t.Fatalf("got %d primitives, want reserve + ghost + fill", len(prims))
	}
	ghost, fill := prims[1], prims[2]

	if math.Abs(fill.Size.X-ghost.Size.X*0.5) > 1e-9 {
		t.Fatalf("fill width = %v, want half of %v", fill.Size.X, ghost.Size.X)
	}
	ghostLeft := ghost.Position.X - ghost.Size.X*0.5
	fillLeft := fill.Position.X - fill.Size.X*0.5
	if math.Abs(ghostLeft-fillLeft) > 1e-9 {
		t.Fatalf("fill starts at %v, want leading edge %v", fillLeft, ghostLeft)
	}
	if fill.Size.Y != ghost.Size.Y {
		t.Fatalf("fill height = %v, want %v", fill.Size.Y, ghost.Size.Y)
	}
}

func TestSquareProgressBarGrowthEdges(t *testing.T) {
	tests := []struct {
		rotation int
		edge     func(p Primitive) float64
	}{
		{0, func(p Primitive) float64 { return p.Position.Y + p.Size.Y*0.5 }},
		{90, func(p Primitive) float64 { return p.Position.X + p.Size.X*0.5 }},
		{180, func(p Primitive) float64 { return p.Position.Y - p.Size.Y*0.5 }},
		{270, func(p Primitive) float64 { return p.Position.X - p.Size.X*0.5 }},
	}
	for _, tt := range tests {
		m := NewSurfaceManager(newFakeSurface(512, 512))
		m.AddSquareProgressBar(0.3, V(0.1, 0.1), V(0.9, 0.6), SquareBarOptions{Rotation: tt.rotation})
		prims := m.Pending()
		if got, want := tt.edge(prims[2]), tt.edge(prims[1]); math.Abs(got-want) > 1e-9 {
			t.Errorf("rotation %d: fill edge %v, want %v", tt.rotation, got, want)
		}
	}
}

func TestSquareProgressBarCells(t *testing.T) {
	m := NewSurfaceManager(newFakeSurface(512, 512))
	m.SetColors(color.NRGBA{R: 1, A: 255}, DefaultForeground)
	m.AddSquareProgressBar(0.5, V(0, 0), V(1, 0.2), SquareBarOptions{Rotation: 270, Cells: 5})

	separators := 0
	for _, p := range m.Pending() {
		if p.Color == m.BackgroundColor() {
			separators++
		}
	}
	if separators != 4 {
		t.Fatalf("separators = %d, want 4", separators)
	}
}

func TestCircleProgressBarSegments(t *testing.T) {
	m := NewSurfaceManager(newFakeSurface(512, 512))
	m.AddCircleProgressBar(0.5, 0.2, V(0, 0), V(1, 1), CircleBarOptions{Sector: 180})

	var ghost, filled int
	for _, p := range m.Pending()[1:] {
		if p.Kind != KindLine {
			t.Fatalf("unexpected primitive kind %v", p.Kind)
		}
		if p.Color == Ghost(DefaultForeground) {
			ghost++
		} else if p.Color == DefaultForeground {
			filled++
		}
	}
	if ghost != 181 {
		t.Fatalf("ghost segments = %d, want 181", ghost)
	}
	if filled != 91 {
		t.Fatalf("filled segments = %d, want 91", filled)
	}
}

func TestTextTruncatesWithoutEllipsis(t *testing.T) {
	m := NewSurfaceManager(newFakeSurface(512, 512))
	// Content width 472*0.25-10 = 108, limit 88: fits 8 runes at 10px.
	m.AddText("abcdefghijklmnop", V(0, 0), V(0.25, 0.1), TextOptions{})

	text := m.Pending()[1]
	if text.Kind != KindText {
		t.Fatalf("kind = %v", text.Kind)
	}
	if text.Text != "abcdefgh" {
		t.Fatalf("text = %q, want %q", text.Text, "abcdefgh")
	}
}

func TestTextFitsZeroWidthContent(t *testing.T) {
	m := NewSurfaceManager(newFakeSurface(512, 512))
	m.AddText("overflowing text", V(0, 0), V(0.001, 0.1), TextOptions{})
	m.AddText("overflowing text", V(0, 0.2), V(0.001, 0.3), TextOptions{Multiline: true})

	prims := m.Pending()
	if prims[1].Text != "" {
		t.Fatalf("truncated text = %q, want empty", prims[1].Text)
	}
	if got := strings.Count(prims[3].Text, "\n"); got != len("overflowing text")-1 {
		t.Fatalf("wrapped text has %d breaks", got)
	}
}

func TestTextMultilineWraps(t *testing.T) {
	m := NewSurfaceManager(newFakeSurface(512, 512))
	m.AddText("aaaaaaaaaaaaaaaaaaaa", V(0, 0), V(0.25, 0.5), TextOptions{Multiline: true})

	text := m.Pending()[1]
	for _, line := range strings.Split(text.Text, "\n") {
		if w := float64(len(line)) * 10; w > 88+10 {
			t.Fatalf("line %q is %vpx wide", line, w)
		}
	}
	if strings.ReplaceAll(text.Text, "\n", "") != "aaaaaaaaaaaaaaaaaaaa" {
		t.Fatalf("wrapping lost characters: %q", text.Text)
	}
}

func TestTextAlignmentShiftsAnchor(t *testing.T) {
	m := NewSurfaceManager(newFakeSurface(512, 512))
	m.AddText("x", V(0, 0), V(1, 0.1), TextOptions{Align: TextAlignLeft})
	m.AddText("x", V(0, 0), V(1, 0.1), TextOptions{Align: TextAlignRight})
	m.AddText("x", V(0, 0), V(1, 0.1), TextOptions{})

	p := m.Pending()
	left, right, center := p[1].Position.X, p[3].Position.X, p[5].Position.X
	if center != 256 {
		t.Fatalf("center anchor = %v, want 256", center)
	}
	if left != 256-231 || right != 256+231 {
		t.Fatalf("left=%v right=%v", left, right)
	}
	// Vertical centering subtracts half the measured height.
	if math.Abs(p[5].Position.Y-33.6) > 1e-9 {
		t.Fatalf("y = %v", p[5].Position.Y)
	}
}

func TestClearReplayIsIdempotent(t *testing.T) {
	surface := newFakeSurface(512, 512)
	m := NewSurfaceManager(surface)

	pass := func() {
		m.Clear()
		m.AddText("title", V(0, 0), V(1, 0.15), TextOptions{FontSize: 1.25})
		m.SaveLine()
		m.AddBorder(V(0, 0), V(1, 0.5), BorderOptions{Gaps: &Vec2{X: 0.5, Y: 0.5}})
		m.AddGraph([]float64{0.1, 0.4, 0.8}, V(0, 0.05), V(1, 0.5), GraphOptions{})
		m.SaveLine()
		m.AddSquareProgressBar(0.4, V(0, 0), V(1, 0.1), SquareBarOptions{Rotation: 270})
		m.Render(0)
	}

	pass()
	first := snapshotLines(m)
	firstFrame := append([]Primitive(nil), surface.last...)

	pass()
	if !reflect.DeepEqual(first, snapshotLines(m)) {
		t.Fatal("second pass produced different lines")
	}
	if !reflect.DeepEqual(firstFrame, surface.last) {
		t.Fatal("second pass produced a different frame")
	}
	if len(m.Lines()) != 3 {
		t.Fatalf("lines = %d, want 3", len(m.Lines()))
	}
}

func TestRenderStacksLines(t *testing.T) {
	surface := newFakeSurface(512, 512)
	m := NewSurfaceManager(surface)

	m.AddBorder(V(0, 0), V(1, 0.25), BorderOptions{})
	m.SaveLine()
	m.AddBorder(V(0, 0), V(1, 0.25), BorderOptions{})
	m.Render(0)

	lines := m.Lines()
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2 (implicit save)", len(lines))
	}
	perLine := len(lines[0])
	if len(surface.last) != perLine*2 {
		t.Fatalf("frame has %d primitives", len(surface.last))
	}
	firstY := surface.last[0].Position.Y
	secondY := surface.last[perLine].Position.Y
	if secondY-firstY != 118 {
		t.Fatalf("second line offset = %v, want 118", secondY-firstY)
	}
	if m.ContentHeight() != 236 {
		t.Fatalf("content height = %v", m.ContentHeight())
	}
	if surface.background != DefaultBackground {
		t.Fatalf("background = %v", surface.background)
	}
	// Stored lines keep their unshifted positions.
	if lines[1][0].Position.Y != lines[0][0].Position.Y {
		t.Fatal("render mutated stored primitives")
	}
}

func TestRenderScrollStaysInBounds(t *testing.T) {
	m := NewSurfaceManager(newFakeSurface(512, 512))
	for i := 0; i < 200; i++ {
		m.Clear()
		for j := 0; j < 3; j++ {
			m.AddBorder(V(0, 0), V(1, 1), BorderOptions{})
			m.SaveLine()
		}
		m.Render(6)
		upper := m.ContentHeight() - m.Viewport().Size.Y
		if off := m.ScrollOffset(); off < 0 || off > upper {
			t.Fatalf("render %d: offset %v outside [0, %v]", i, off, upper)
		}
	}
	if m.ScrollOffset() == 0 {
		t.Fatal("expected scrolling to move the offset")
	}

	m.Reset()
	if m.ScrollOffset() != 0 || m.ScrollDirection() <= 0 {
		t.Fatalf("reset left offset=%v direction=%d", m.ScrollOffset(), m.ScrollDirection())
	}
}

func TestGraphSingleValue(t *testing.T) {
	m := NewSurfaceManager(newFakeSurface(512, 512))
	m.AddGraph([]float64{0.42}, V(0, 0), V(1, 1), GraphOptions{})

	prims := m.Pending()
	last := prims[len(prims)-1]
	if last.Kind != KindText || last.Text != "42.0%" {
		t.Fatalf("label = %+v", last)
	}
	if last.Sized {
		t.Fatal("graph label should self-size")
	}
}

func TestGraphBoundsSamples(t *testing.T) {
	m := NewSurfaceManager(newFakeSurface(512, 512))
	values := make([]float64, MaxGraphValues*3)
	m.AddGraph(values, V(0, 0), V(1, 1), GraphOptions{HidePercentage: true})

	lines := 0
	for _, p := range m.Pending() {
		if p.Kind == KindLine {
			lines++
		}
	}
	if lines != MaxGraphValues-1 {
		t.Fatalf("segments = %d, want %d", lines, MaxGraphValues-1)
	}
}

func TestSpriteKeepsAspectRatio(t *testing.T) {
	m := NewSurfaceManager(newFakeSurface(512, 512))
	m.AddSprite("Icon", V(0, 0), V(1, 0.5), SpriteOptions{Align: TextAlignLeft})
	m.AddSprite("Icon", V(0, 0), V(1, 0.5), SpriteOptions{Stretch: true})

	square, stretched := m.Pending()[1], m.Pending()[3]
	if square.Size.X != square.Size.Y {
		t.Fatalf("square sprite size = %v", square.Size)
	}
	if square.Position.X >= 256 {
		t.Fatalf("left aligned sprite at %v", square.Position.X)
	}
	if stretched.Size != V(442, 206) {
		t.Fatalf("stretched size = %v", stretched.Size)
	}
}

func TestDrawLineAngle(t *testing.T) {
	m := NewSurfaceManager(newFakeSurface(512, 512))
	m.drawLine(V(0, 0), V(0, 10), DefaultForeground, 2)
	m.drawLine(V(0, 0), V(10, 0), DefaultForeground, 2)

	vertical, horizontal := m.Pending()[0], m.Pending()[1]
	if math.Abs(math.Abs(vertical.Rotation)-math.Pi/2) > 1e-9 {
		t.Fatalf("vertical rotation = %v", vertical.Rotation)
	}
	if vertical.Size != V(10, 2) || vertical.Position != V(0, 5) {
		t.Fatalf("vertical = %+v", vertical)
	}
	if horizontal.Rotation != 0 {
		t.Fatalf("horizontal rotation = %v", horizontal.Rotation)
	}
}
