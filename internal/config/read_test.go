package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nDmitry/weibocard/internal/config"
	"github.com/nDmitry/weibocard/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

func TestRead(t *testing.T) {
	t.Setenv("HTTP_SERVER_PORT", "")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("WEIBOCARD_OUTPUT_DIR", "")
	t.Setenv("WEIBOCARD_PROFILE", "")
	t.Setenv("WEIBOCARD_FONT", "")

	tests := []struct {
		name     string
		file     string
		contents string
		check    func(t *testing.T, c *entity.Config)
	}{
		{
			name: "TOML with defaults",
			file: "config.toml",
			contents: `
profile = "ultrahd"
media_cache_minutes = 0

[[feeds]]
name = "demo"
url = "https://rsshub.app/weibo/user/1935396210"
`,
			check: func(t *testing.T, c *entity.Config) {
				require.Len(t, c.Feeds, 1)
				assert.Equal(t, "demo", c.Feeds[0].Name)
				assert.Equal(t, "ultrahd", c.Profile)
				assert.Equal(t, entity.DefaultOutputDir, c.OutputDir)
				assert.Equal(t, entity.DefaultHTTPServerPort, c.HTTPServerPort)
				assert.Equal(t, time.Duration(0), c.MediaCacheTTL())
				assert.Equal(t, 60*time.Minute, c.FeedCacheTTL())
				assert.Equal(t, 12*time.Second, c.FetchTimeout())
			},
		},
		{
			name:     "JSON by extension",
			file:     "config.json",
			contents: `{"feeds":[{"name":"a","url":"https://example.com/a"}],"outputDir":"out","fetchTimeoutSeconds":60}`,
			check: func(t *testing.T, c *entity.Config) {
				assert.Equal(t, "out", c.OutputDir)
				assert.Equal(t, 15*time.Second, c.FetchTimeout())
				assert.Equal(t, 1440*time.Minute, c.MediaCacheTTL())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := config.Read(writeFile(t, tt.file, tt.contents))
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestRead_Errors(t *testing.T) {
	_, err := config.Read(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "could not read config file")

	_, err = config.Read(writeFile(t, "bad.toml", "feeds = ["))
	assert.ErrorContains(t, err, "could not parse config file")

	_, err = config.Read(writeFile(t, "nameless.toml", "[[feeds]]\nurl = \"https://example.com\"\n"))
	assert.ErrorContains(t, err, "must have a name")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("HTTP_SERVER_PORT", "9090")
	t.Setenv("REDIS_HOST", "cache.local")
	t.Setenv("WEIBOCARD_PROFILE", "ultrahd")

	c, err := config.Read(writeFile(t, "config.toml", `http_server_port = "8081"`))
	require.NoError(t, err)

	assert.Equal(t, "9090", c.HTTPServerPort)
	assert.Equal(t, "cache.local", c.RedisHost)
	assert.Equal(t, "ultrahd", c.Profile)
}

func TestResolveFeed(t *testing.T) {
	c := &entity.Config{Feeds: []entity.FeedSource{{Name: "demo", URL: "https://example.com/rss"}}}
	local := writeFile(t, "feed.xml", "<rss/>")

	f, err := config.ResolveFeed(c, "demo")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/rss", f.URL)

	f, err = config.ResolveFeed(c, "https://other.example.com/rss")
	require.NoError(t, err)
	assert.Equal(t, "https://other.example.com/rss", f.URL)

	f, err = config.ResolveFeed(c, local)
	require.NoError(t, err)
	assert.Equal(t, local, f.URL)

	_, err = config.ResolveFeed(c, "unknown")
	assert.ErrorIs(t, err, config.ErrNoFeed)
}
