package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rook-computer/panelkit/internal/app"
	"github.com/rook-computer/panelkit/internal/app/contents"
	"github.com/rook-computer/panelkit/internal/config"
	"github.com/rook-computer/panelkit/internal/content"
	"github.com/rook-computer/panelkit/internal/grid"
	"github.com/rook-computer/panelkit/internal/render"
	"github.com/rook-computer/panelkit/internal/state"
)

type runtimeOptions struct {
	configPath string
	qrPayload  string
	seed       uint64
	// reload re-reads the configuration file on every discovery update.
	reload bool
}

// newApp wires the configuration, the simulated grid, the content manager
// with the built-in content types and the telemetry source into an App.
func newApp(opts runtimeOptions, logger *log.Logger) (*app.App, error) {
	path := config.ResolvePath(opts.configPath)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	textures, err := render.LoadTextures(cfg.TexturesDir)
	if err != nil {
		return nil, fmt.Errorf("load textures: %w", err)
	}
	logger.Debug("textures loaded", "dir", cfg.TexturesDir, "names", textures.Names())

	seed := opts.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := contents.NewSource(seed)

	manager := content.NewManager(logger.With("component", "content"))
	contents.Register(manager, src, contents.Options{QRPayload: opts.qrPayload})

	g := grid.New(render.NewFontSet(), textures, logger.With("component", "grid"))
	a := app.New(cfg, g, manager, state.NewStore(), logger)
	a.Hooks = append(a.Hooks, func(uint64) { src.Step() })
	if opts.reload && path != "" {
		a.Reload = func() (*config.Config, error) { return config.Load(path) }
	}

	logger.Info("configuration loaded", "path", displayPath(path), "blocks", len(cfg.Blocks), "tag", cfg.Tag)
	return a, nil
}

func displayPath(path string) string {
	if path == "" {
		return "(built-in)"
	}
	return path
}
