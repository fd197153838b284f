package entity

import "time"

// FeedSource is a named feed the service knows about.
type FeedSource struct {
	Name string `toml:"name" json:"name"`
	URL  string `toml:"url" json:"url"`
}

type Config struct {
	Feeds               []FeedSource `toml:"feeds" json:"feeds"`
	OutputDir           string       `toml:"output_dir" json:"outputDir"`
	Profile             string       `toml:"profile" json:"profile"`
	FontPath            string       `toml:"font_path" json:"fontPath"`
	FetchTimeoutSeconds int          `toml:"fetch_timeout_seconds" json:"fetchTimeoutSeconds"`
	MediaCacheMinutes   *int         `toml:"media_cache_minutes" json:"mediaCacheMinutes"`
	FeedCacheMinutes    *int         `toml:"feed_cache_minutes" json:"feedCacheMinutes"`
	HTTPServerPort      string       `toml:"http_server_port" json:"httpServerPort"`
	RedisHost           string       `toml:"redis_host" json:"redisHost"`
	RedisPassword       string       `toml:"redis_password" json:"redisPassword"`
	RedisDB             int          `toml:"redis_db" json:"redisDb"`
	ExcludeWords        []string     `toml:"exclude_words" json:"excludeWords"`
}

// Feed looks a configured feed up by name.
func (c *Config) Feed(name string) (FeedSource, bool) {
	for _, f := range c.Feeds {
		if f.Name == name {
			return f, true
		}
	}

	return FeedSource{}, false
}

const (
	DefaultOutputDir         = "output"
	DefaultHTTPServerPort    = "8080"
	DefaultFetchTimeout      = 12 // seconds
	DefaultMediaCacheMinutes = 1440
	DefaultFeedCacheMinutes  = 60
)

// FetchTimeout is the per request media timeout, kept within 10..15 seconds.
func (c *Config) FetchTimeout() time.Duration {
	s := c.FetchTimeoutSeconds

	if s == 0 {
		s = DefaultFetchTimeout
	}

	s = min(max(s, 10), 15)

	return time.Duration(s) * time.Second
}

// MediaCacheTTL is zero when media caching is disabled.
func (c *Config) MediaCacheTTL() time.Duration {
	return minutesOr(c.MediaCacheMinutes, DefaultMediaCacheMinutes)
}

func (c *Config) FeedCacheTTL() time.Duration {
	return minutesOr(c.FeedCacheMinutes, DefaultFeedCacheMinutes)
}

func minutesOr(v *int, def int) time.Duration {
	if v == nil {
		return time.Duration(def) * time.Minute
	}

	return time.Duration(max(*v, 0)) * time.Minute
}
