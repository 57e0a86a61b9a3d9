// Package grid simulates the host: display blocks and their surfaces as
// declared in the configuration.
package grid

import (
	"image/color"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/rook-computer/panelkit/internal/config"
	"github.com/rook-computer/panelkit/internal/content"
	"github.com/rook-computer/panelkit/internal/render"
)

// Block is a configured display block. It implements content.Block.
type Block struct {
	id        string
	name      string
	construct string
	closed    bool
	surfaces  []*surface
}

type surface struct {
	image    *render.ImageSurface
	texture  render.Vec2
	size     render.Vec2
	settings content.Settings
	// invalid holds the last malformed background and foreground values
	// that were logged.
	invalid [2]string
}

func (b *Block) ID() string        { return b.id }
func (b *Block) Name() string      { return b.name }
func (b *Block) Construct() string { return b.construct }
func (b *Block) Closed() bool      { return b.closed }
func (b *Block) SurfaceCount() int { return len(b.surfaces) }

func (b *Block) Surface(i int) render.Surface {
	if s := b.ImageSurface(i); s != nil {
		return s
	}
	return nil
}

// ImageSurface returns the render target of surface i, or nil.
func (b *Block) ImageSurface(i int) *render.ImageSurface {
	if i < 0 || i >= len(b.surfaces) {
		return nil
	}
	return b.surfaces[i].image
}

func (b *Block) Settings(i int) content.Settings {
	if i < 0 || i >= len(b.surfaces) {
		return content.Settings{}
	}
	return b.surfaces[i].settings
}

// Grid owns every configured block.
type Grid struct {
	fonts    *render.FontSet
	textures *render.TextureSet
	logger   *log.Logger

	blocks map[string]*Block
	order  []string
}

// New creates an empty grid. Surfaces share fonts and textures.
func New(fonts *render.FontSet, textures *render.TextureSet, logger *log.Logger) *Grid {
	if fonts == nil {
		fonts = render.NewFontSet()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Grid{
		fonts:    fonts,
		textures: textures,
		logger:   logger,
		blocks:   make(map[string]*Block),
	}
}

// Apply reconciles the grid with cfg. Surfaces whose sizes did not change keep
// their render target; blocks missing from cfg are closed and dropped.
func (g *Grid) Apply(cfg *config.Config) {
	seen := make(map[string]bool, len(cfg.Blocks))
	order := make([]string, 0, len(cfg.Blocks))

	for _, bc := range cfg.Blocks {
		seen[bc.ID] = true
		order = append(order, bc.ID)

		b, ok := g.blocks[bc.ID]
		if !ok {
			b = &Block{id: bc.ID}
			g.blocks[bc.ID] = b
			g.logger.Debug("block created", "block", bc.ID, "name", bc.Name)
		}
		b.name = bc.Name
		b.construct = bc.Construct
		b.surfaces = g.applySurfaces(b, bc.Surfaces)
	}

	for _, id := range g.order {
		if !seen[id] {
			g.blocks[id].closed = true
			delete(g.blocks, id)
			g.logger.Debug("block closed", "block", id)
		}
	}
	g.order = order
}

func (g *Grid) applySurfaces(b *Block, configs []config.Surface) []*surface {
	out := make([]*surface, len(configs))
	for i, sc := range configs {
		texture := render.V(float64(sc.Texture[0]), float64(sc.Texture[1]))
		size := render.V(float64(sc.Size[0]), float64(sc.Size[1]))

		var s *surface
		if i < len(b.surfaces) && b.surfaces[i].texture == texture && b.surfaces[i].size == size {
			s = b.surfaces[i]
		} else {
			s = &surface{
				image:   render.NewImageSurface(texture, size, g.fonts, g.textures),
				texture: texture,
				size:    size,
			}
		}
		s.settings = content.Settings{
			Content:    config.ParseContent(sc.Content),
			Background: g.color(b, i, sc.Background, render.DefaultBackground, &s.invalid[0]),
			Foreground: g.color(b, i, sc.Foreground, render.DefaultForeground, &s.invalid[1]),
		}
		out[i] = s
	}
	return out
}

// color resolves a configured color. A malformed value is logged once until
// it changes.
func (g *Grid) color(b *Block, index int, value string, fallback color.NRGBA, logged *string) color.NRGBA {
	if value != *logged {
		*logged = ""
		if _, err := config.ParseColor(value); value != "" && err != nil {
			g.logger.Warn("invalid color, using transparent", "block", b.name, "surface", index, "err", err)
			*logged = value
		}
	}
	return config.ColorOr(value, fallback)
}

// Blocks returns every block in configuration order.
func (g *Grid) Blocks() []*Block {
	out := make([]*Block, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.blocks[id])
	}
	return out
}

func (g *Grid) Block(id string) (*Block, bool) {
	b, ok := g.blocks[id]
	return b, ok
}

// Discover returns the open blocks of construct whose name contains tag and
// that expose at least one surface. An empty construct matches every block.
func (g *Grid) Discover(construct, tag string) []content.Block {
	var out []content.Block
	for _, b := range g.Blocks() {
		if b.closed || len(b.surfaces) == 0 {
			continue
		}
		if construct != "" && b.construct != construct {
			continue
		}
		if !strings.Contains(b.name, tag) {
			continue
		}
		out = append(out, b)
	}
	return out
}
