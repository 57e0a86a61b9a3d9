package grid

import (
	"bytes"
	"image/color"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/rook-computer/panelkit/internal/config"
	"github.com/rook-computer/panelkit/internal/render"
)

func mustParse(t *testing.T, src string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

const twoBlocks = `
construct = "Station"

[[block]]
id = "a"
name = "Panel A [LCD]"
  [[block.surface]]
  content = "ores, debug"
  background = "{R:1 G:2 B:3 A:255}"
  [[block.surface]]
  size = [512, 256]
  foreground = "broken"

[[block]]
id = "b"
name = "Panel B"
  [[block.surface]]
  content = "clock"

[[block]]
id = "c"
name = "Shuttle [LCD]"
construct = "Shuttle"
  [[block.surface]]
  content = "clock"
`

func TestApplyBuildsBlocks(t *testing.T) {
	g := New(nil, nil, nil)
	g.Apply(mustParse(t, twoBlocks))

	a, ok := g.Block("a")
	if !ok {
		t.Fatal("block a missing")
	}
	if a.SurfaceCount() != 2 || a.Construct() != "Station" {
		t.Fatalf("block a = %+v", a)
	}
	s0 := a.Settings(0)
	if !reflect.DeepEqual(s0.Content, []string{"ores", "debug"}) {
		t.Fatalf("content = %q", s0.Content)
	}
	if s0.Background != (color.NRGBA{1, 2, 3, 255}) || s0.Foreground != render.DefaultForeground {
		t.Fatalf("colors = %v %v", s0.Background, s0.Foreground)
	}
	s1 := a.Settings(1)
	if !reflect.DeepEqual(s1.Content, []string{"none"}) || s1.Foreground != (color.NRGBA{}) {
		t.Fatalf("surface 1 settings = %+v", s1)
	}
	if got := a.ImageSurface(1).SurfaceSize(); got != render.V(512, 256) {
		t.Fatalf("surface size = %v", got)
	}
	if a.Surface(5) != nil || a.ImageSurface(-1) != nil {
		t.Fatal("out of range surface not nil")
	}
}

func TestDiscoverFilters(t *testing.T) {
	g := New(nil, nil, nil)
	g.Apply(mustParse(t, twoBlocks))

	ids := func(construct, tag string) []string {
		var out []string
		for _, b := range g.Discover(construct, tag) {
			out = append(out, b.ID())
		}
		return out
	}
	if got := ids("Station", "[LCD]"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("Station = %v", got)
	}
	if got := ids("", "[LCD]"); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("any construct = %v", got)
	}
	if got := ids("Station", "Panel"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("tag Panel = %v", got)
	}
}

func TestApplyKeepsSurfaces(t *testing.T) {
	g := New(nil, nil, nil)
	g.Apply(mustParse(t, twoBlocks))
	a, _ := g.Block("a")
	first, second := a.ImageSurface(0), a.ImageSurface(1)

	g.Apply(mustParse(t, `
[[block]]
id = "a"
name = "Renamed [LCD]"
  [[block.surface]]
  content = "clock"
  [[block.surface]]
  size = [256, 256]
`))
	again, ok := g.Block("a")
	if !ok || again != a {
		t.Fatal("block a was recreated")
	}
	if a.Name() != "Renamed [LCD]" {
		t.Fatalf("name = %q", a.Name())
	}
	if a.ImageSurface(0) != first {
		t.Fatal("unchanged surface got a new render target")
	}
	if a.ImageSurface(1) == second {
		t.Fatal("resized surface kept its render target")
	}
	if got := a.Settings(0).Content; !reflect.DeepEqual(got, []string{"clock"}) {
		t.Fatalf("content = %q", got)
	}
}

func TestApplyClosesRemovedBlocks(t *testing.T) {
	g := New(nil, nil, nil)
	g.Apply(mustParse(t, twoBlocks))
	b, _ := g.Block("b")

	g.Apply(mustParse(t, "[[block]]\nid = \"a\"\nname = \"A [LCD]\""))
	if !b.Closed() {
		t.Fatal("removed block not closed")
	}
	if _, ok := g.Block("b"); ok {
		t.Fatal("removed block still tracked")
	}
	if len(g.Blocks()) != 1 {
		t.Fatalf("blocks = %d", len(g.Blocks()))
	}
	if len(g.Discover("", "[LCD]")) != 0 {
		t.Fatal("block without surfaces discovered")
	}
}

func TestInvalidColorLoggedOncePerValue(t *testing.T) {
	var buf bytes.Buffer
	g := New(nil, nil, log.New(&buf))
	cfg := mustParse(t, twoBlocks)

	g.Apply(cfg)
	g.Apply(cfg)
	if n := strings.Count(buf.String(), "invalid color"); n != 1 {
		t.Fatalf("warnings after two applies = %d, want 1\n%s", n, buf.String())
	}

	cfg.Blocks[0].Surfaces[1].Foreground = "{R:1}"
	g.Apply(cfg)
	if n := strings.Count(buf.String(), "invalid color"); n != 2 {
		t.Fatalf("warnings after value change = %d, want 2", n)
	}

	cfg.Blocks[0].Surfaces[1].Foreground = ""
	g.Apply(cfg)
	a, _ := g.Block("a")
	if got := a.Settings(1).Foreground; got != render.DefaultForeground {
		t.Fatalf("foreground after fix = %v", got)
	}
}
