package cli

import (
	"errors"
	"fmt"

	"github.com/nDmitry/weibocard/internal/app"
	"github.com/nDmitry/weibocard/internal/entity"
	"github.com/nDmitry/weibocard/internal/feed"
	"github.com/spf13/cobra"
)

var ErrNoPosts = errors.New("feed has no posts")

type renderOptions struct {
	index   int
	all     bool
	profile string
	out     string
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <feed|url|file>",
		Short: "Render feed posts as long JPEG images",
		Long: `Render one post (by index) or every post of a feed as a JPEG image.

The feed can be a name from the config file, an http(s) URL or a local RSS file.
With --all, posts matching the configured exclude words are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().IntVarP(&opts.index, "index", "i", 0, "index of the post to render")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "render every post of the feed")
	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "rendering profile: standard or ultrahd")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output directory")

	return cmd
}

func runRender(cmd *cobra.Command, root *rootOptions, opts *renderOptions, source string) error {
	ctx := cmd.Context()
	logger := app.Logger()

	cfg, err := loadConfig(root)

	if err != nil {
		return err
	}

	if opts.profile != "" {
		cfg.Profile = opts.profile
	}

	if opts.out != "" {
		cfg.OutputDir = opts.out
	}

	doc, posts, err := loadPosts(ctx, cfg, source)

	if err != nil {
		return err
	}

	if len(posts) == 0 {
		return ErrNoPosts
	}

	selected, err := selectPosts(posts, opts, cfg.ExcludeWords)

	if err != nil {
		return err
	}

	c, err := newCache(ctx, cfg)

	if err != nil {
		return err
	}

	defer c.Close()

	renderer, err := newRenderer(cfg, c)

	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	for _, post := range selected {
		rendered, err := renderer.Render(ctx, doc.Channel, post)

		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%s\t%dx%d\n", rendered.Path, rendered.Width, rendered.Height)
	}

	logger.Debug("Render finished", "posts", len(selected), "profile", renderer.Profile().Name)

	return nil
}

// selectPosts picks the post at opts.index, or all non excluded posts with opts.all.
func selectPosts(posts []entity.PostContent, opts *renderOptions, excludeWords []string) ([]entity.PostContent, error) {
	if !opts.all {
		if opts.index < 0 || opts.index >= len(posts) {
			return nil, fmt.Errorf("post index %d out of range [0, %d)", opts.index, len(posts))
		}

		return posts[opts.index : opts.index+1], nil
	}

	selected := make([]entity.PostContent, 0, len(posts))

	for _, post := range posts {
		if feed.ShouldExclude(post, excludeWords, false) {
			app.Logger().Info("Skipping excluded post", "id", post.ID)
			continue
		}

		selected = append(selected, post)
	}

	return selected, nil
}
