package feed

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/nDmitry/weibocard/internal/app"
)

const feedTimeout = 30 * time.Second

// CollyFetcher downloads and parses feed documents.
type CollyFetcher struct {
	userAgent string
	timeout   time.Duration
}

func NewDefaultFetcher() *CollyFetcher {
	return &CollyFetcher{userAgent: app.UserAgent, timeout: feedTimeout}
}

// Fetch loads a feed from an http(s) URL, or from a local file for any other location.
func (f *CollyFetcher) Fetch(ctx context.Context, location string) (*Document, error) {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		return Open(location)
	}

	c := colly.NewCollector(
		colly.UserAgent(f.userAgent),
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
	)

	c.WithTransport(app.Transport)
	c.SetRequestTimeout(f.timeout)

	var body []byte
	var reqErr error

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	c.OnError(func(r *colly.Response, err error) {
		reqErr = fmt.Errorf("request error %s (status %d): %w", location, r.StatusCode, err)
	})

	if err := c.Visit(location); err != nil && reqErr == nil {
		return nil, fmt.Errorf("could not visit %s: %w", location, err)
	}

	if reqErr != nil {
		return nil, reqErr
	}

	return Parse(bytes.NewReader(body))
}

// Open parses a feed document stored on disk.
func Open(path string) (*Document, error) {
	file, err := os.Open(path)

	if err != nil {
		return nil, fmt.Errorf("could not open feed file: %w", err)
	}

	defer file.Close()

	return Parse(file)
}
