package web

import (
	"github.com/rook-computer/panelkit/internal/state"
)

// FrameStore abstracts the frame state used by the API.
//
// The concrete implementation is typically the *state.Store filled by the
// tick loop.
type FrameStore interface {
	List() []state.Frame
	Get(block string, index int) (state.Frame, bool)
	Snapshot() state.Status
}

type APIV1Deps struct {
	Frames FrameStore
	// ContentTypes lists the registered content type names.
	ContentTypes func() []string
}

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.Frames == nil {
		out.Frames = state.NewStore()
	}
	if out.ContentTypes == nil {
		out.ContentTypes = func() []string { return nil }
	}
	return out
}
