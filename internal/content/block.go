// Package content maps configured content types onto surfaces and keeps one
// provider per display block.
package content

import (
	"fmt"
	"image/color"

	"github.com/rook-computer/panelkit/internal/render"
)

// Block is a host device exposing one or more surfaces.
type Block interface {
	// ID is stable for the lifetime of the block.
	ID() string
	Name() string
	Closed() bool
	SurfaceCount() int
	// Surface returns the render target for index i, or nil if it is gone.
	Surface(i int) render.Surface
	Settings(i int) Settings
}

// Settings is the parsed per-surface configuration.
type Settings struct {
	// Content lists content type names in draw order. Empty or ["none"]
	// disables the surface.
	Content    []string
	Background color.NRGBA
	Foreground color.NRGBA
}

// ContentNone disables drawing on a surface.
const ContentNone = "none"

// Disabled reports whether the content list selects nothing to draw.
func (s Settings) Disabled() bool {
	return len(s.Content) == 0 || (len(s.Content) == 1 && s.Content[0] == ContentNone)
}

// SurfaceID identifies one surface of one block.
type SurfaceID struct {
	Block string `json:"block"`
	Index int    `json:"index"`
}

func (id SurfaceID) String() string { return fmt.Sprintf("%s/%d", id.Block, id.Index) }
