// Package app runs the tick loop that discovers blocks, draws their surfaces
// and publishes the frames.
package app

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rook-computer/panelkit/internal/config"
	"github.com/rook-computer/panelkit/internal/content"
	"github.com/rook-computer/panelkit/internal/grid"
	"github.com/rook-computer/panelkit/internal/render"
	"github.com/rook-computer/panelkit/internal/state"
)

// Sink receives the published frames after every tick.
type Sink interface {
	Present(frames []state.Frame) error
}

type App struct {
	Store   *state.Store
	Grid    *grid.Grid
	Manager *content.Manager
	Logger  *log.Logger
	Sinks   []Sink

	// Reload, when set, is called on every discovery update. A failed reload
	// keeps the current configuration.
	Reload func() (*config.Config, error)
	// Hooks run at the start of every tick, before drawing.
	Hooks []func(tick uint64)

	cfg     *config.Config
	ticks   uint64
	updates uint64
	// sinkErr remembers the last error per sink so failures are logged once.
	sinkErr map[int]string

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(cfg *config.Config, g *grid.Grid, manager *content.Manager, store *state.Store, logger *log.Logger) *App {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &App{
		Store:   store,
		Grid:    g,
		Manager: manager,
		Logger:  logger,
		cfg:     cfg,
		sinkErr: make(map[int]string),
		exitCh:  make(chan error, 1),
	}
}

func (app *App) Config() *config.Config { return app.cfg }

// Exit requests Run to return err.
func (app *App) Exit(err error) {
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Update reloads the configuration when possible, applies it to the grid and
// refreshes the tracked providers.
func (app *App) Update() {
	if app.Reload != nil {
		cfg, err := app.Reload()
		if err != nil {
			app.Logger.Warn("config reload failed, keeping previous", "err", err)
		} else {
			app.cfg = cfg
		}
	}

	app.Grid.Apply(app.cfg)
	app.Manager.SetTag(app.cfg.Tag)
	app.Manager.Update(app.Grid.Discover(app.cfg.Construct, app.cfg.Tag))
	app.updates++
	app.Logger.Debug("discovery update", "tick", app.ticks, "providers", len(app.Manager.Providers()), "surfaces", app.Manager.SurfaceCount())
}

// Tick runs one cycle: a discovery update every UpdateEvery ticks, then a
// draw of every surface, then publication to the store and sinks.
func (app *App) Tick() {
	if app.ticks%uint64(app.cfg.UpdateEvery) == 0 {
		app.Update()
	}
	for _, hook := range app.Hooks {
		hook(app.ticks)
	}
	app.ticks++

	app.Manager.DrawContent(app.cfg.ScrollStep, app.cfg.ScrollEnabled())
	frames := app.publish()

	for i, sink := range app.Sinks {
		err := sink.Present(frames)
		msg := ""
		if err != nil {
			msg = err.Error()
		}
		if msg != app.sinkErr[i] {
			if err != nil {
				app.Logger.Error("sink failed", "sink", i, "err", err)
			}
			app.sinkErr[i] = msg
		}
	}
}

func (app *App) publish() []state.Frame {
	now := time.Now()
	live := make(map[state.Key]bool)
	for _, info := range app.Manager.Surfaces() {
		if len(info.Content) == 0 {
			continue
		}
		surface, ok := info.Manager.Surface().(*render.ImageSurface)
		if !ok || surface.Frame() == nil {
			continue
		}
		key := state.Key{Block: info.ID.Block, Index: info.ID.Index}
		live[key] = true
		app.Store.Put(state.Frame{
			Key:       key,
			BlockName: info.Block,
			Content:   info.Content,
			Error:     info.Error,
			Image:     surface.Frame(),
			Updated:   now,
		})
	}
	app.Store.Retain(live)
	app.Store.UpdateStatus(state.Status{
		Ticks:      app.ticks,
		Updates:    app.updates,
		Surfaces:   len(live),
		LastUpdate: now,
	})
	return app.Store.List()
}

// Run ticks at the configured interval until ctx is done or Exit is called.
func (app *App) Run(ctx context.Context) error {
	app.Tick()

	interval := app.cfg.Tick.Duration
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	lastLog := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-app.exitCh:
			return err
		case <-ticker.C:
			app.Tick()
			if d := app.cfg.Tick.Duration; d != interval {
				interval = d
				ticker.Reset(interval)
			}
			if time.Since(lastLog) > 10*time.Second {
				app.Logger.Debug("heartbeat", "tick", app.ticks, "surfaces", app.Store.Snapshot().Surfaces)
				lastLog = time.Now()
			}
		}
	}
}
