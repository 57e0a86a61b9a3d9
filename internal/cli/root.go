// Package cli implements the panelkit command-line interface.
//
// The commands are:
//   - run: tick the configured panels and serve them over HTTP, a
//     framebuffer or the terminal
//   - render: draw a fixed number of ticks and write PNG files
//   - check: validate a configuration and list its surfaces
//   - types: list the built-in content types
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rook-computer/panelkit/internal/system"
)

// EnvStdioLog names a file that receives stdout and stderr when --stdio-log
// is not given.
const EnvStdioLog = "PANELKIT_STDIO_LOG"

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	verbose    bool
	configPath string
	stdioLog   string
}

// Execute runs the panelkit CLI.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:          "panelkit",
		Short:        "panelkit renders status panels onto display surfaces",
		Long:         `panelkit draws scrolling status content (power graphs, stock levels, clocks, QR codes) onto configured display surfaces and publishes the frames over HTTP, a Linux framebuffer or the terminal.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := opts.stdioLog
			if path == "" {
				path = os.Getenv(EnvStdioLog)
			}
			// Redirect first so crashes stay diagnosable while the console is
			// in graphics mode.
			if err := system.RedirectStdIO(path); err != nil {
				return fmt.Errorf("stdio log: %w", err)
			}

			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("panelkit %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "configuration file (default $PANELKIT_CONFIG, else the built-in demo grid)")
	root.PersistentFlags().StringVar(&opts.stdioLog, "stdio-log", "", "append stdout and stderr, panics included, to this file (or $"+EnvStdioLog+")")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newRenderCmd(opts))
	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newTypesCmd())

	return root
}
