package content

import (
	"fmt"
	"slices"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/rook-computer/panelkit/internal/render"
)

// Provider owns the surface managers of one block.
type Provider struct {
	block    Block
	registry *Registry
	logger   *log.Logger

	surfaces map[int]*surfaceState
}

type surfaceState struct {
	manager *render.SurfaceManager
	content []string
	// lastErr is the message of the failure currently shown, if any.
	lastErr string
}

// SurfaceInfo describes one tracked surface after the last draw.
type SurfaceInfo struct {
	ID      SurfaceID
	Block   string
	Content []string
	// Error is the failure shown on the fallback screen, empty when the
	// content drew normally.
	Error   string
	Manager *render.SurfaceManager
}

func NewProvider(block Block, registry *Registry, logger *log.Logger) *Provider {
	return &Provider{
		block:    block,
		registry: registry,
		logger:   logger,
		surfaces: make(map[int]*surfaceState),
	}
}

func (p *Provider) ID() string   { return p.block.ID() }
func (p *Provider) Block() Block { return p.block }

// Update re-reads the settings of every surface. A surface whose content list
// changed has its scroll state reset.
func (p *Provider) Update() {
	count := p.block.SurfaceCount()
	for i := range p.surfaces {
		if i >= count {
			delete(p.surfaces, i)
		}
	}

	for i := 0; i < count; i++ {
		surface := p.block.Surface(i)
		if surface == nil {
			delete(p.surfaces, i)
			continue
		}
		settings := p.block.Settings(i)

		st, ok := p.surfaces[i]
		if ok && !sameInstance(st.manager.Surface(), surface) {
			ok = false
		}
		if !ok {
			if settings.Disabled() {
				delete(p.surfaces, i)
				continue
			}
			st = &surfaceState{manager: render.NewSurfaceManager(surface)}
			p.surfaces[i] = st
		}

		content := settings.Content
		if settings.Disabled() {
			content = nil
		}
		if ok && !slices.Equal(content, st.content) {
			st.manager.Reset()
		}
		st.content = slices.Clone(content)
		st.manager.SetColors(settings.Background, settings.Foreground)
	}
}

// DrawContent renders every enabled surface. pixelsToScroll is only applied
// when scroll is set.
func (p *Provider) DrawContent(pixelsToScroll int, scroll bool) {
	if !scroll {
		pixelsToScroll = 0
	}
	for _, i := range p.indices() {
		st := p.surfaces[i]
		if len(st.content) == 0 {
			continue
		}
		id := SurfaceID{Block: p.block.ID(), Index: i}

		err := p.draw(st.manager, st.content, pixelsToScroll)
		if err != nil {
			DrawFallback(st.manager, err)
			if msg := err.Error(); msg != st.lastErr {
				p.logger.Warn("surface fallback", "surface", id, "content", st.content, "err", err)
				st.lastErr = msg
			}
			continue
		}
		if st.lastErr != "" {
			p.logger.Info("surface recovered", "surface", id)
			st.lastErr = ""
		}
	}
}

func (p *Provider) draw(m *render.SurfaceManager, content []string, pixelsToScroll int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	m.Clear()
	for _, name := range content {
		fn, ok := p.registry.Lookup(name)
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownContentType, name)
		}
		if err := fn(m); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		m.SaveLine()
	}
	m.Render(pixelsToScroll)
	return nil
}

// Surfaces lists the tracked surfaces in index order.
func (p *Provider) Surfaces() []SurfaceInfo {
	out := make([]SurfaceInfo, 0, len(p.surfaces))
	for _, i := range p.indices() {
		st := p.surfaces[i]
		out = append(out, SurfaceInfo{
			ID:      SurfaceID{Block: p.block.ID(), Index: i},
			Block:   p.block.Name(),
			Content: slices.Clone(st.content),
			Error:   st.lastErr,
			Manager: st.manager,
		})
	}
	return out
}

func (p *Provider) indices() []int {
	out := make([]int, 0, len(p.surfaces))
	for i := range p.surfaces {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
