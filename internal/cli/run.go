package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rook-computer/panelkit/internal/app"
	"github.com/rook-computer/panelkit/internal/app/contents"
	"github.com/rook-computer/panelkit/internal/render"
	"github.com/rook-computer/panelkit/internal/system"
	"github.com/rook-computer/panelkit/internal/terminal"
	"github.com/rook-computer/panelkit/internal/web"
)

type runOptions struct {
	listen    string
	noWeb     bool
	staticDir string

	framebuffer string
	fbSurface   string
	exitKey     uint16

	term   bool
	pngDir string

	qrPayload string
	seed      uint64
	noReload  bool
}

func newRunCmd(global *globalOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Tick the configured panels until interrupted",
		Long: `Run discovers the tagged blocks of the configuration, draws their surfaces
every tick and publishes the frames. The web viewer is served on --listen
unless --no-web is given; --fb, --term and --png-dir add further outputs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPanels(cmd.Context(), global, opts)
		},
	}

	cmd.Flags().StringVar(&opts.listen, "listen", ":8080", "HTTP listen address ($"+web.EnvListenAddr+" overrides)")
	cmd.Flags().BoolVar(&opts.noWeb, "no-web", false, "do not start the HTTP server")
	cmd.Flags().StringVar(&opts.staticDir, "static-dir", "", "serve this directory instead of the embedded viewer")
	cmd.Flags().StringVar(&opts.framebuffer, "fb", "", "present a surface on this framebuffer device (e.g. "+render.DefaultFramebuffer+")")
	cmd.Flags().StringVar(&opts.fbSurface, "fb-surface", "", `surface shown on the framebuffer: "<block>/<index>" or a block name`)
	cmd.Flags().Uint16Var(&opts.exitKey, "exit-key", system.KeyF4, "evdev key code that stops framebuffer mode (0 disables)")
	cmd.Flags().BoolVar(&opts.term, "term", false, "preview the surfaces in the terminal")
	cmd.Flags().StringVar(&opts.pngDir, "png-dir", "", "write every changed frame to this directory")
	cmd.Flags().StringVar(&opts.qrPayload, "qr-payload", contents.DefaultQRPayload, "text encoded by the qr content type")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "telemetry random seed (0 uses the clock)")
	cmd.Flags().BoolVar(&opts.noReload, "no-reload", false, "do not re-read the configuration file on discovery updates")

	return cmd
}

func runPanels(ctx context.Context, global *globalOptions, opts *runOptions) (err error) {
	logger := loggerFromContext(ctx)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The terminal preview owns the screen; keep log output off it unless it
	// already goes to a file.
	if opts.term && global.stdioLog == "" && os.Getenv(EnvStdioLog) == "" {
		logger.SetOutput(io.Discard)
	}

	a, err := newApp(runtimeOptions{
		configPath: global.configPath,
		qrPayload:  opts.qrPayload,
		seed:       opts.seed,
		reload:     !opts.noReload,
	}, logger)
	if err != nil {
		return err
	}

	if !opts.noWeb {
		srvCfg, err := web.DefaultServerConfigFromEnv(opts.listen)
		if err != nil {
			return err
		}
		srv := web.NewHTTPServer(srvCfg.ListenAddr, web.APIV1Deps{
			Frames:       a.Store,
			ContentTypes: a.Manager.Registry().Names,
		})
		srv.StaticDir = opts.staticDir
		srv.DevMode = srvCfg.DevMode
		srv.Logger = logger.With("component", "web")
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer srv.Stop()
	}

	if opts.framebuffer != "" {
		closeFB, err := attachFramebuffer(ctx, a, opts)
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, closeFB()) }()
	}

	if opts.term {
		sink, err := terminal.Open(func() { a.Exit(nil) })
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		a.Sinks = append(a.Sinks, sink)
		// The screen must be restored before the process exits.
		defer runUntilStopped(ctx, sink.Run)()
	}

	if opts.pngDir != "" {
		if err := os.MkdirAll(opts.pngDir, 0o755); err != nil {
			return err
		}
		a.Sinks = append(a.Sinks, &app.PNGDirSink{Dir: opts.pngDir})
	}

	err = a.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down")
		return nil
	}
	return err
}

// attachFramebuffer adds a framebuffer sink, switches the console to graphics
// mode and watches the exit key. The returned func undoes all of it.
func attachFramebuffer(ctx context.Context, a *app.App, opts *runOptions) (func() error, error) {
	logger := a.Logger.With("component", "fb")
	fb, err := render.OpenFramebuffer(opts.framebuffer)
	if err != nil {
		return nil, fmt.Errorf("open framebuffer %s: %w", opts.framebuffer, err)
	}
	logger.Info("framebuffer opened", "device", opts.framebuffer, "bounds", fb.Bounds())
	a.Sinks = append(a.Sinks, &app.DisplaySink{Display: fb, Surface: opts.fbSurface})

	console, err := system.OpenConsole(logger)
	if err != nil {
		logger.Warn("console unavailable, text may overdraw the framebuffer", "err", err)
	} else if err := console.Graphics(); err != nil {
		logger.Warn("graphics mode failed", "err", err)
	}

	if opts.exitKey != 0 {
		system.StartExitOnKey(ctx, logger, opts.exitKey, func() { a.Exit(nil) })
	}

	return func() error {
		var errs []error
		if console != nil {
			errs = append(errs, console.Close())
		}
		errs = append(errs, fb.Close())
		return errors.Join(errs...)
	}, nil
}

// runUntilStopped runs fn in the background. The returned stop func cancels
// fn's context and waits for fn to return.
func runUntilStopped(ctx context.Context, fn func(context.Context) error) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = fn(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}
