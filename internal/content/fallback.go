package content

import "github.com/rook-computer/panelkit/internal/render"

const fallbackHint = "Check the surface settings in the configuration"

// DrawFallback replaces whatever was accumulated on m with a diagnostic
// screen for err and renders it without scrolling.
func DrawFallback(m *render.SurfaceManager, err error) {
	m.Clear()

	m.AddText(":(", render.V(0, 0), render.V(1, 0.25), render.TextOptions{Align: render.TextAlignLeft, FontSize: 6})
	m.AddText(err.Error(), render.V(0, 0.25), render.V(1, 0.9), render.TextOptions{Align: render.TextAlignLeft, FontSize: 1.1, Multiline: true})
	m.AddText(fallbackHint, render.V(0, 0.9), render.V(1, 1), render.TextOptions{Align: render.TextAlignLeft, FontSize: 0.8})

	m.Render(0)
}
