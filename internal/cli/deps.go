package cli

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/nDmitry/weibocard/internal/app"
	"github.com/nDmitry/weibocard/internal/cache"
	"github.com/nDmitry/weibocard/internal/config"
	"github.com/nDmitry/weibocard/internal/entity"
	"github.com/nDmitry/weibocard/internal/feed"
	"github.com/nDmitry/weibocard/internal/fonts"
	"github.com/nDmitry/weibocard/internal/media"
	"github.com/nDmitry/weibocard/internal/render"
	"golang.org/x/image/font"
)

const (
	defaultConfigPath = "config.toml"
	redisPort         = "6379"
)

// loadConfig reads the --config file, or config.toml when it exists.
// Without a file only defaults and environment overrides apply.
func loadConfig(opts *rootOptions) (*entity.Config, error) {
	path := opts.configPath

	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err != nil {
			return config.Default(), nil
		}

		path = defaultConfigPath
	}

	cfg, err := config.Read(path)

	if err != nil {
		return nil, err
	}

	app.Logger().Debug("Config loaded", "path", path, "feeds", len(cfg.Feeds))

	return cfg, nil
}

// newCache connects to Redis when a host is configured.
func newCache(ctx context.Context, cfg *entity.Config) (cache.Cache, error) {
	if cfg.RedisHost == "" {
		return cache.Nop{}, nil
	}

	addr := cfg.RedisHost

	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, redisPort)
	}

	return cache.NewRedisClient(ctx, cache.RedisOptions{
		Addr:     addr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// newRenderer wires the font, the image fetcher and the profile of cfg.
func newRenderer(cfg *entity.Config, c cache.Cache) (*render.Renderer, error) {
	profile, err := entity.ProfileByName(cfg.Profile)

	if err != nil {
		return nil, err
	}

	resolver := fonts.NewResolver(cfg.FontPath)

	fetcher := media.NewHTTPFetcher(c, cfg.FetchTimeout(), cfg.MediaCacheTTL())
	fetcher.LabelFace = func() font.Face {
		return resolver.Face(fonts.RoleContent, profile)
	}

	return render.NewRenderer(fetcher, resolver, profile, cfg.OutputDir), nil
}

// loadPosts resolves and fetches a feed and extracts its posts.
func loadPosts(ctx context.Context, cfg *entity.Config, nameOrURL string) (*feed.Document, []entity.PostContent, error) {
	source, err := config.ResolveFeed(cfg, nameOrURL)

	if err != nil {
		return nil, nil, err
	}

	doc, err := feed.NewDefaultFetcher().Fetch(ctx, source.URL)

	if err != nil {
		return nil, nil, fmt.Errorf("could not load feed %s: %w", source.Name, err)
	}

	return doc, feed.ExtractAll(doc.Items), nil
}
