package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nDmitry/weibocard/internal/entity"
)

var ErrNoFeed = errors.New("feed is not configured")

// Read loads a TOML config, or JSON when the file has a .json extension,
// then applies environment overrides and defaults.
func Read(configPath string) (*entity.Config, error) {
	contents, err := os.ReadFile(configPath)

	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	var config entity.Config

	if strings.EqualFold(filepath.Ext(configPath), ".json") {
		err = json.Unmarshal(contents, &config)
	} else {
		_, err = toml.Decode(string(contents), &config)
	}

	if err != nil {
		return nil, fmt.Errorf("could not parse config file: %w", err)
	}

	for i, f := range config.Feeds {
		if f.Name == "" || f.URL == "" {
			return nil, fmt.Errorf("feed #%d must have a name and an url", i+1)
		}
	}

	ApplyEnv(&config)

	return &config, nil
}

// Default is the configuration used when no file is given.
func Default() *entity.Config {
	var config entity.Config

	ApplyEnv(&config)

	return &config
}

// ApplyEnv overrides file values with environment variables and fills defaults.
func ApplyEnv(config *entity.Config) {
	overrides := []struct {
		env string
		dst *string
	}{
		{"HTTP_SERVER_PORT", &config.HTTPServerPort},
		{"REDIS_HOST", &config.RedisHost},
		{"REDIS_PASSWORD", &config.RedisPassword},
		{"WEIBOCARD_OUTPUT_DIR", &config.OutputDir},
		{"WEIBOCARD_PROFILE", &config.Profile},
		{"WEIBOCARD_FONT", &config.FontPath},
	}

	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}

	if config.HTTPServerPort == "" {
		config.HTTPServerPort = entity.DefaultHTTPServerPort
	}

	if config.OutputDir == "" {
		config.OutputDir = entity.DefaultOutputDir
	}

	if config.Profile == "" {
		config.Profile = entity.ProfileStandard
	}
}

// ResolveFeed maps a configured feed name to its URL. Anything that is not
// a configured name is returned unchanged as an URL or a file path.
func ResolveFeed(config *entity.Config, nameOrURL string) (entity.FeedSource, error) {
	if f, ok := config.Feed(nameOrURL); ok {
		return f, nil
	}

	if strings.Contains(nameOrURL, "://") || fileExists(nameOrURL) {
		return entity.FeedSource{Name: nameOrURL, URL: nameOrURL}, nil
	}

	return entity.FeedSource{}, fmt.Errorf("%w: %s", ErrNoFeed, nameOrURL)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}
