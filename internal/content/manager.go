package content

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultTag marks block names that take part in content rendering.
const DefaultTag = "[LCD]"

// Manager tracks one provider per tagged block and fans out update and draw
// calls. It is not safe for concurrent use.
type Manager struct {
	logger   *log.Logger
	registry *Registry
	tag      string

	providers map[string]*Provider
	// order keeps providers in discovery order.
	order []string
}

// NewManager returns a manager with an empty registry. A nil logger discards
// output.
func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{
		logger:    logger,
		registry:  NewRegistry(),
		tag:       DefaultTag,
		providers: make(map[string]*Provider),
	}
}

func (m *Manager) Registry() *Registry { return m.registry }
func (m *Manager) Tag() string         { return m.tag }

// AddContentType registers fn under name. The first registration of a name
// wins; later ones are ignored.
func (m *Manager) AddContentType(name string, fn ContentFunc) bool {
	ok := m.registry.Register(name, fn)
	if !ok {
		m.logger.Debug("content type already registered", "content", name)
	}
	return ok
}

// SetTag changes the name tag. An empty tag restores DefaultTag.
func (m *Manager) SetTag(tag string) {
	if tag == "" {
		tag = DefaultTag
	}
	m.tag = tag
}

// Update diffs the tracked providers against blocks. Providers whose block is
// missing, closed or no longer tagged are dropped, new blocks get a provider,
// and every remaining provider re-reads its settings.
func (m *Manager) Update(blocks []Block) {
	discovered := make(map[string]Block, len(blocks))
	var added []string
	for _, b := range blocks {
		id, ok := m.eligible(b)
		if !ok {
			continue
		}
		if _, dup := discovered[id]; dup {
			continue
		}
		discovered[id] = b
		if _, ok := m.providers[id]; !ok {
			added = append(added, id)
		}
	}

	kept := m.order[:0]
	for _, id := range m.order {
		b, ok := discovered[id]
		if !ok {
			delete(m.providers, id)
			m.logger.Info("provider removed", "block", id)
			continue
		}
		// A block re-created under the same ID replaces the old instance.
		if p := m.providers[id]; sameInstance(b, p.block) {
			p.block = b
		} else {
			m.providers[id] = m.newProvider(b)
		}
		kept = append(kept, id)
	}
	m.order = kept

	for _, id := range added {
		b := discovered[id]
		m.providers[id] = m.newProvider(b)
		m.order = append(m.order, id)
		m.logger.Info("provider added", "block", id, "name", b.Name(), "surfaces", b.SurfaceCount())
	}

	for _, id := range m.order {
		m.providers[id].Update()
	}
}

func (m *Manager) newProvider(b Block) *Provider {
	return NewProvider(b, m.registry, m.logger.With("block", b.Name()))
}

// eligible reports whether b should have a provider and returns its ID. A
// block that panics while being inspected, such as a typed nil pointer, is
// skipped.
func (m *Manager) eligible(b Block) (id string, ok bool) {
	if b == nil {
		return "", false
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Debug("skipping invalid block", "err", r)
			id, ok = "", false
		}
	}()
	if b.Closed() || b.SurfaceCount() <= 0 || !strings.Contains(b.Name(), m.tag) {
		return "", false
	}
	return b.ID(), true
}

// sameInstance compares a and b by identity. Values of types that cannot be
// compared are treated as the same instance.
func sameInstance[T any](a, b T) (same bool) {
	defer func() {
		if recover() != nil {
			same = true
		}
	}()
	return any(a) == any(b)
}

// DrawContent draws every provider. Both arguments are passed through
// unchanged.
func (m *Manager) DrawContent(pixelsToScroll int, scroll bool) {
	for _, id := range m.order {
		m.providers[id].DrawContent(pixelsToScroll, scroll)
	}
}

// SurfaceCount is the total number of surfaces across tracked blocks,
// including disabled ones.
func (m *Manager) SurfaceCount() int {
	n := 0
	for _, id := range m.order {
		n += m.providers[id].block.SurfaceCount()
	}
	return n
}

// Providers returns the tracked providers in discovery order.
func (m *Manager) Providers() []*Provider {
	out := make([]*Provider, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.providers[id])
	}
	return out
}

// Surfaces lists every tracked surface, ordered by provider then index.
func (m *Manager) Surfaces() []SurfaceInfo {
	var out []SurfaceInfo
	for _, id := range m.order {
		out = append(out, m.providers[id].Surfaces()...)
	}
	return out
}
