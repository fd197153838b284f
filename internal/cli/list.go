package cli

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
	"github.com/nDmitry/weibocard/internal/entity"
	"github.com/nDmitry/weibocard/internal/feed"
	"github.com/nDmitry/weibocard/internal/render"
	"github.com/spf13/cobra"
)

const titleWidth = 60

func newListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <feed|url|file>",
		Short: "List the posts of a feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)

			if err != nil {
				return err
			}

			_, posts, err := loadPosts(cmd.Context(), cfg, args[0])

			if err != nil {
				return err
			}

			printPosts(cmd.OutOrStdout(), posts)

			return nil
		},
	}
}

// printPosts writes one row per post. Titles are cut by display width,
// so CJK text stays aligned with latin text.
func printPosts(w io.Writer, posts []entity.PostContent) {
	idWidth := len("ID")

	for _, p := range posts {
		idWidth = max(idWidth, len(render.PostID(p)))
	}

	fmt.Fprintf(w, "%-5s %-*s %5s  %s\n", "#", idWidth, "ID", "MEDIA", "TITLE")

	for i, p := range posts {
		title := runewidth.Truncate(feed.ShortTitle(p), titleWidth, "…")
		fmt.Fprintf(w, "%-5d %-*s %5d  %s\n", i, idWidth, render.PostID(p), p.MediaCount(), title)
	}
}
