package content

import (
	"errors"
	"sort"
	"sync"

	"github.com/rook-computer/panelkit/internal/render"
)

// ErrUnknownContentType is returned when a surface names a content type that
// was never registered.
var ErrUnknownContentType = errors.New("unknown content type")

// ContentFunc draws one content type onto a surface. A non-nil error replaces
// the whole surface with the fallback screen.
type ContentFunc func(m *render.SurfaceManager) error

// Registry maps content type names to their drawing functions.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]ContentFunc
}

func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]ContentFunc)}
}

// Register adds fn under name. If name is taken or fn is nil the registry is
// left unchanged and false is returned.
func (r *Registry) Register(name string, fn ContentFunc) bool {
	if fn == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.funcs[name]; ok {
		return false
	}
	r.funcs[name] = fn
	return true
}

func (r *Registry) Lookup(name string) (ContentFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
