// Package cli implements the weibocard command-line interface.
//
// The commands are:
//   - render: draw posts of a feed as long JPEG images
//   - list: show the posts of a feed with their ids and media counts
//   - serve: run the HTTP server exposing index feeds and rendered posts
//   - fonts: show the font used for rendering and the installed candidates
//
// Feeds can be given as a configured name, an URL or a local file.
package cli

import (
	"context"
	"fmt"

	"github.com/nDmitry/weibocard/internal/app"
	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
)

// SetVersion sets the version shown by --version. Values are injected with ldflags.
func SetVersion(v, c string) {
	version = v
	commit = c
}

type rootOptions struct {
	configPath string
	verbose    bool
}

// Execute runs the weibocard command tree.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "weibocard",
		Short:         "Render Weibo RSS posts as long images",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.verbose {
				app.SetVerbose(true)
			}
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("weibocard %s\ncommit: %s\n", version, commit))
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (TOML, or JSON with a .json extension)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRenderCmd(opts))
	root.AddCommand(newListCmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newFontsCmd(opts))

	return root
}
