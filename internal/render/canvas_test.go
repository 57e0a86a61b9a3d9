package render

import (
	"image"
	"image/color"
	"testing"
)

var red = color.NRGBA{R: 0xFF, A: 0xFF}

func TestImageSurfaceFillsRect(t *testing.T) {
	s := NewImageSurface(V(64, 64), V(64, 64), nil, nil)
	s.BeginFrame(color.NRGBA{A: 0xFF})
	s.Add(Primitive{Kind: KindRect, Texture: TextureSquare, Position: V(32, 32), Size: V(20, 20), Color: red})
	s.EndFrame()

	frame := s.Frame()
	if got := frame.RGBAAt(32, 32); got != (color.RGBA{R: 0xFF, A: 0xFF}) {
		t.Fatalf("center pixel = %v", got)
	}
	if got := frame.RGBAAt(2, 2); got != (color.RGBA{A: 0xFF}) {
		t.Fatalf("background pixel = %v", got)
	}
	if s.Frames() != 1 || len(s.Primitives()) != 1 {
		t.Fatalf("frames=%d primitives=%d", s.Frames(), len(s.Primitives()))
	}
}

func TestImageSurfaceCropsToVisibleArea(t *testing.T) {
	s := NewImageSurface(V(128, 128), V(64, 32), nil, nil)
	s.BeginFrame(color.NRGBA{A: 0xFF})
	s.Add(Primitive{Kind: KindRect, Position: V(40, 50), Size: V(4, 4), Color: red})
	s.EndFrame()

	frame := s.Frame()
	if frame.Bounds() != image.Rect(0, 0, 64, 32) {
		t.Fatalf("frame bounds = %v", frame.Bounds())
	}
	if got := frame.RGBAAt(8, 2); got.R != 0xFF {
		t.Fatalf("pixel = %v, want red", got)
	}
}

func TestImageSurfaceSkipsTransparent(t *testing.T) {
	s := NewImageSurface(V(16, 16), V(16, 16), nil, nil)
	s.BeginFrame(color.NRGBA{G: 0xFF, A: 0xFF})
	s.Add(Primitive{Kind: KindRect, Position: V(8, 8), Size: V(16, 16), Color: Transparent})
	s.EndFrame()

	if got := s.Frame().RGBAAt(8, 8); got.G != 0xFF || got.R != 0 {
		t.Fatalf("pixel = %v, want background", got)
	}
}

func TestImageSurfaceMeasureText(t *testing.T) {
	s := NewImageSurface(V(512, 512), V(512, 512), NewFontSet(), nil)
	short := s.MeasureText("abc", ReferenceFont, 1)
	long := s.MeasureText("abcdef", ReferenceFont, 1)
	if short.X <= 0 || long.X <= short.X {
		t.Fatalf("widths short=%v long=%v", short.X, long.X)
	}
	two := s.MeasureText("abc\nabc", ReferenceFont, 1)
	if two.X != short.X || two.Y <= short.Y {
		t.Fatalf("multiline = %v, single = %v", two, short)
	}
	if big := s.MeasureText("abc", ReferenceFont, 2); big.X <= short.X {
		t.Fatalf("scale 2 width %v not larger than %v", big.X, short.X)
	}
}

func TestImageSurfaceDrawsText(t *testing.T) {
	fg := color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	s := NewImageSurface(V(128, 64), V(128, 64), nil, nil)
	s.BeginFrame(color.NRGBA{A: 0xFF})
	s.Add(Primitive{Kind: KindText, Text: "MMMM", Position: V(64, 10), Color: fg, Font: ReferenceFont, FontSize: 1})
	s.EndFrame()

	if lit := countLit(s.Frame()); lit == 0 {
		t.Fatal("text drew no pixels")
	}
}

func TestImageSurfaceDrawsQRTexture(t *testing.T) {
	s := NewImageSurface(V(128, 128), V(128, 128), nil, NewTextureSet())
	s.BeginFrame(color.NRGBA{A: 0xFF})
	s.Add(Primitive{Kind: KindIcon, Texture: QRPrefix + "hello", Position: V(64, 64), Size: V(100, 100), Color: red})
	s.EndFrame()

	if lit := countLit(s.Frame()); lit == 0 {
		t.Fatal("qr texture drew no pixels")
	}
}

func TestImageSurfaceUnknownTexture(t *testing.T) {
	s := NewImageSurface(V(32, 32), V(32, 32), nil, nil)
	s.BeginFrame(color.NRGBA{A: 0xFF})
	s.Add(Primitive{Kind: KindIcon, Texture: "NoSuchTexture", Position: V(16, 16), Size: V(32, 32), Color: red})
	s.EndFrame()

	if lit := countLit(s.Frame()); lit != 0 {
		t.Fatalf("unknown texture lit %d pixels", lit)
	}
}

func TestTextureSetLookup(t *testing.T) {
	set := NewTextureSet()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	set.Add("Arrow", img)

	if got, ok := set.Lookup("Arrow"); !ok || got != image.Image(img) {
		t.Fatal("Arrow not found")
	}
	if _, ok := set.Lookup("Missing"); ok {
		t.Fatal("Missing found")
	}
	if _, ok := set.Lookup(QRPrefix); ok {
		t.Fatal("empty qr payload should not resolve")
	}
	a, ok := set.Lookup(QRPrefix + "payload")
	if !ok {
		t.Fatal("qr texture not generated")
	}
	b, _ := set.Lookup(QRPrefix + "payload")
	if a != b {
		t.Fatal("qr texture not cached")
	}
	if names := set.Names(); len(names) != 1 || names[0] != "Arrow" {
		t.Fatalf("names = %v", names)
	}
}

func TestLoadTexturesEmptyDir(t *testing.T) {
	set, err := LoadTextures(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Names()) != 0 {
		t.Fatalf("names = %v", set.Names())
	}
}

func TestBlitScalesToDestination(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.RGBA{R: 0xFF, A: 0xFF})
	src.Set(1, 0, color.RGBA{B: 0xFF, A: 0x80})

	dst := image.NewRGBA(image.Rect(0, 0, 4, 2))
	blit(dst, src)

	if got := dst.RGBAAt(1, 1); got != (color.RGBA{R: 0xFF, A: 0xFF}) {
		t.Fatalf("left = %v", got)
	}
	if got := dst.RGBAAt(3, 0); got.A != 0xFF || got.B == 0 {
		t.Fatalf("right = %v, want opaque blue", got)
	}
}

func TestEllipseClosesPartialArcs(t *testing.T) {
	full := ellipse(V(0, 0), V(2, 2), 0, 6.283185307179586)
	half := ellipse(V(0, 0), V(2, 2), 3.141592653589793, 6.283185307179586)
	if full[0] == V(0, 0) {
		t.Fatal("full circle should not include center")
	}
	if half[0] != V(0, 0) {
		t.Fatal("semicircle should start at center")
	}
	for _, p := range half[1:] {
		if p.Y > 1e-9 {
			t.Fatalf("semicircle point %v below center", p)
		}
	}
}

func countLit(img *image.RGBA) int {
	lit := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c := img.RGBAAt(x, y); c.R|c.G|c.B != 0 {
				lit++
			}
		}
	}
	return lit
}
