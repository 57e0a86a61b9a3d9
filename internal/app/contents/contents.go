// Package contents provides the built-in content types drawn on panel
// surfaces.
package contents

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/rook-computer/panelkit/internal/content"
	"github.com/rook-computer/panelkit/internal/render"
)

const titleFontSize = 1.25

// DefaultQRPayload is encoded by the qr content type when no payload is set.
const DefaultQRPayload = "https://github.com/rook-computer/panelkit"

var errNoSource = errors.New("no telemetry source")

type Options struct {
	// Now defaults to time.Now.
	Now       func() time.Time
	QRPayload string
}

// Register adds every built-in content type to m. Types already registered
// under the same name are kept.
func Register(m *content.Manager, src *Source, opts Options) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.QRPayload == "" {
		opts.QRPayload = DefaultQRPayload
	}

	m.AddContentType("debug", func(sm *render.SurfaceManager) error { return drawDebug(sm, m) })
	m.AddContentType("clock", func(sm *render.SurfaceManager) error { return drawClock(sm, opts.Now()) })
	m.AddContentType("powergraph", func(sm *render.SurfaceManager) error { return drawPowerGraph(sm, src) })
	m.AddContentType("power", func(sm *render.SurfaceManager) error { return drawPower(sm, src) })
	m.AddContentType("ores", func(sm *render.SurfaceManager) error { return drawStash(sm, src, "Ore") })
	m.AddContentType("ingots", func(sm *render.SurfaceManager) error { return drawStash(sm, src, "Ingot") })
	m.AddContentType("containers", func(sm *render.SurfaceManager) error { return drawContainers(sm, src) })
	m.AddContentType("qr", func(sm *render.SurfaceManager) error { return drawQR(sm, opts.QRPayload) })
}

func addTitle(sm *render.SurfaceManager, title string) {
	sm.AddText("--- "+title+" ---", render.V(0, 0), render.V(1, 0.15), render.TextOptions{FontSize: titleFontSize})
}

func drawDebug(sm *render.SurfaceManager, m *content.Manager) error {
	addTitle(sm, "Debug")
	sm.SaveLine()

	vp := sm.Viewport()
	lines := []string{
		fmt.Sprintf("Surfaces: %d", m.SurfaceCount()),
		fmt.Sprintf("Providers: %d", len(m.Providers())),
		fmt.Sprintf("Scale: %.2f", sm.Scale()),
		fmt.Sprintf("Viewport: %.0fx%.0f", vp.Size.X, vp.Size.Y),
	}
	for _, line := range lines {
		sm.AddText(line, render.V(0, 0), render.V(1, 0.1), render.TextOptions{Align: render.TextAlignLeft})
		sm.SaveLine()
	}
	return nil
}

func drawClock(sm *render.SurfaceManager, now time.Time) error {
	sm.AddText(now.Format("15:04:05"), render.V(0, 0), render.V(1, 0.3), render.TextOptions{FontSize: 3})
	sm.AddText(now.Format("Mon 02 Jan 2006"), render.V(0, 0.3), render.V(1, 0.4), render.TextOptions{})
	return nil
}

func drawPowerGraph(sm *render.SurfaceManager, src *Source) error {
	if src == nil {
		return errNoSource
	}
	addTitle(sm, "Power Consumption")
	sm.AddBorder(render.V(0, 0.15), render.V(1, 1), render.BorderOptions{Gaps: &render.Vec2{X: 0.5, Y: 0.5}})
	sm.AddGraph(src.PowerHistory(), render.V(0, 0.2), render.V(1, 1), render.GraphOptions{})
	return nil
}

func drawPower(sm *render.SurfaceManager, src *Source) error {
	if src == nil {
		return errNoSource
	}
	pct := 0.0
	if src.MaxPower > 0 {
		pct = src.Power() / src.MaxPower
	}
	addTitle(sm, "Power Output")
	sm.AddCircleProgressBar(pct, 0.25, render.V(0.2, 0.15), render.V(0.8, 0.75), render.CircleBarOptions{Rotation: 225, Cells: 10})
	sm.AddText(fmt.Sprintf("%.1f%%", pct*100), render.V(0.2, 0.4), render.V(0.8, 0.5), render.TextOptions{FontSize: 1.5})
	sm.AddText(fmt.Sprintf("%.0f / %.0f kW", src.Power(), src.MaxPower), render.V(0, 0.75), render.V(1, 0.85), render.TextOptions{})
	return nil
}

const stashColumns = 3

func drawStash(sm *render.SurfaceManager, src *Source, typ string) error {
	if src == nil {
		return errNoSource
	}
	quotas := QuotasOf(typ)
	if len(quotas) == 0 {
		return fmt.Errorf("no quotas for %s", typ)
	}

	addTitle(sm, typ+" Stash")
	sm.SaveLine()

	rows := math.Ceil(float64(len(quotas)) / stashColumns)
	sm.AddBorder(render.V(0, 0), render.V(1, rows*0.2+0.05), render.BorderOptions{})

	const width, height = 1.0 / stashColumns, 0.2
	for i, q := range quotas {
		x := float64(i%stashColumns) * width
		y := 0.025 + float64(i/stashColumns)*height
		sm.AddText(q.Label(), render.V(x, y), render.V(x+width, y+height), render.TextOptions{
			FontSize: 2,
			Color:    QuotaColor(src.Fill(q)),
		})
	}
	return nil
}

// QuotaColor blends from red at 0 to green at 1.
func QuotaColor(fill float64) color.NRGBA {
	fill = clamp(fill, 0, 1)
	return color.NRGBA{
		R: uint8(math.Round(220 - 190*fill)),
		G: uint8(math.Round(30 + 190*fill)),
		B: 30,
		A: 0xFF,
	}
}

func drawContainers(sm *render.SurfaceManager, src *Source) error {
	if src == nil {
		return errNoSource
	}
	addTitle(sm, "Containers")
	sm.SaveLine()

	n := 0
	for _, c := range src.Containers() {
		for _, inv := range c.Inventories {
			n++
			sm.AddBorder(render.V(0.1, 0), render.V(0.8, 0.1), render.BorderOptions{})
			sm.AddText(fmt.Sprintf("%d -", n), render.V(-0.1, 0), render.V(0.1, 0.1), render.TextOptions{Align: render.TextAlignRight})
			sm.AddSquareProgressBar(inv.Fill, render.V(0.1, 0), render.V(0.8, 0.1), render.SquareBarOptions{Rotation: 270})
			sm.AddText(fmt.Sprintf("%.1f%%", inv.Fill*100), render.V(0.75, 0), render.V(1, 0.1), render.TextOptions{Align: render.TextAlignRight})
			sm.AddText(c.Name, render.V(0.1, 0), render.V(0.8, 0.095), render.TextOptions{
				Align:        render.TextAlignLeft,
				ExtraPadding: true,
				Color:        sm.BackgroundColor(),
				FontSize:     0.7,
			})
			sm.SaveLine()
		}
	}
	return nil
}

func drawQR(sm *render.SurfaceManager, payload string) error {
	sm.AddSprite(render.QRPrefix+payload, render.V(0, 0), render.V(1, 0.85), render.SpriteOptions{})
	sm.AddText(payload, render.V(0, 0.85), render.V(1, 1), render.TextOptions{FontSize: 0.8})
	return nil
}
