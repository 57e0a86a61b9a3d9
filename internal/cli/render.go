package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rook-computer/panelkit/internal/app"
	"github.com/rook-computer/panelkit/internal/app/contents"
)

type renderOptions struct {
	out       string
	ticks     int
	seed      uint64
	qrPayload string
}

func newRenderCmd(global *globalOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw a number of ticks and write every surface as PNG",
		Long: `Render runs the tick loop for --ticks cycles without waiting between them,
then writes the last frame of every drawn surface to --out as
<block id>-<index>.png. Surfaces that failed show the fallback screen.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderPanels(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", ".", "output directory")
	cmd.Flags().IntVarP(&opts.ticks, "ticks", "n", 1, "number of ticks to draw")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "telemetry random seed")
	cmd.Flags().StringVar(&opts.qrPayload, "qr-payload", contents.DefaultQRPayload, "text encoded by the qr content type")

	return cmd
}

func renderPanels(cmd *cobra.Command, global *globalOptions, opts *renderOptions) error {
	if opts.ticks < 1 {
		return fmt.Errorf("--ticks must be at least 1, got %d", opts.ticks)
	}
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	a, err := newApp(runtimeOptions{
		configPath: global.configPath,
		qrPayload:  opts.qrPayload,
		seed:       opts.seed,
	}, logger)
	if err != nil {
		return err
	}
	for i := 0; i < opts.ticks; i++ {
		a.Tick()
	}

	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return err
	}
	frames := a.Store.List()
	sink := &app.PNGDirSink{Dir: opts.out}
	if err := sink.Present(frames); err != nil {
		return err
	}
	for _, f := range frames {
		if f.Error != "" {
			logger.Warn("surface shows fallback", "block", f.BlockName, "index", f.Index, "err", f.Error)
		}
		fmt.Fprintln(cmd.OutOrStdout(), app.FrameFileName(f.Key))
	}
	prog.done(fmt.Sprintf("Rendered %d surfaces over %d ticks", len(frames), opts.ticks))
	return nil
}
