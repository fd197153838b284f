package cli

import (
	"fmt"

	"github.com/nDmitry/weibocard/internal/fonts"
	"github.com/spf13/cobra"
)

func newFontsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fonts",
		Short: "Show the font used for rendering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root)

			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			resolver := fonts.NewResolver(cfg.FontPath)

			if resolver.Builtin() {
				fmt.Fprintln(out, "font: built-in (no CJK glyphs)")
			} else {
				fmt.Fprintf(out, "font: %s\n", resolver.Path())
			}

			fmt.Fprintln(out, "candidates:")

			for _, name := range fonts.Candidates() {
				fmt.Fprintf(out, "  %s\n", name)
			}

			fmt.Fprintf(out, "installed fonts: %d\n", len(fonts.Installed()))

			return nil
		},
	}
}
