package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rook-computer/panelkit/internal/app/contents"
	"github.com/rook-computer/panelkit/internal/config"
	"github.com/rook-computer/panelkit/internal/content"
)

func newCheckCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and list its surfaces",
		Long: `Check loads the configuration, reports errors and prints every surface with
the content it will show. Unknown content types and blocks that discovery
skips are marked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ResolvePath(global.configPath)
			cfg, err := config.Load(path)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), styleError.Render(iconError+" "+err.Error()))
				return err
			}

			m := content.NewManager(nil)
			contents.Register(m, nil, contents.Options{})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styleTitle.Render("panelkit "+displayPath(path)))
			fmt.Fprintln(out, styleDim.Render(fmt.Sprintf("tag %q, construct %q, tick %s, update every %d ticks", cfg.Tag, cfg.Construct, cfg.Tick.Duration, cfg.UpdateEvery)))

			t := newTable("Block", "Construct", "#", "Texture", "Size", "Content", "")
			problems := 0
			for _, b := range cfg.Blocks {
				tracked := strings.Contains(b.Name, cfg.Tag) && (cfg.Construct == "" || b.Construct == cfg.Construct)
				for i, s := range b.Surfaces {
					status := styleSuccess.Render(iconSuccess)
					if unknown := unknownTypes(m, s.Content); len(unknown) > 0 {
						status = styleError.Render(iconError + " unknown: " + strings.Join(unknown, ", "))
						problems++
					} else if !tracked {
						status = styleDim.Render("not discovered")
					}
					t.Row(b.Name, b.Construct, strconv.Itoa(i), sizeString(s.Texture), sizeString(s.Size), strings.Join(config.ParseContent(s.Content), ", "), status)
				}
			}
			fmt.Fprintln(out, t.Render())

			if problems > 0 {
				return fmt.Errorf("%d surfaces use unknown content types", problems)
			}
			return nil
		},
	}
}

// unknownTypes lists the content names a surface would fail on. A surface
// whose whole list is "none" is disabled and never looked up.
func unknownTypes(m *content.Manager, raw string) []string {
	names := config.ParseContent(raw)
	if (content.Settings{Content: names}).Disabled() {
		return nil
	}
	var out []string
	for _, name := range names {
		if _, ok := m.Registry().Lookup(name); !ok {
			out = append(out, name)
		}
	}
	return out
}

func sizeString(v []int) string {
	if len(v) != 2 {
		return "?"
	}
	return fmt.Sprintf("%dx%d", v[0], v[1])
}
