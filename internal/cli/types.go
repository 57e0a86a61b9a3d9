package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rook-computer/panelkit/internal/app/contents"
	"github.com/rook-computer/panelkit/internal/content"
)

var typeDescriptions = map[string]string{
	"debug":      "surface and provider counters",
	"clock":      "local time and date",
	"powergraph": "recent power output as a graph",
	"power":      "current power output as a ring gauge",
	"ores":       "ore stock against quotas",
	"ingots":     "ingot stock against quotas",
	"containers": "fill level of every container inventory",
	"qr":         "QR code of the configured payload",
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the built-in content types",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := content.NewManager(nil)
			contents.Register(m, nil, contents.Options{})

			t := newTable("Content", "Description")
			for _, name := range m.Registry().Names() {
				t.Row(name, typeDescriptions[name])
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}
