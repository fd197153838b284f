package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gocolly/colly/v2"
	"github.com/nDmitry/weibocard/internal/app"
	"github.com/nDmitry/weibocard/internal/cache"
	"golang.org/x/image/font"

	_ "golang.org/x/image/webp"
)

const (
	referer      = "https://weibo.com/"
	maxImageSize = 20 << 20
	cachePrefix  = "media:"
)

// ErrFetch is logged when no variant of an image URL could be loaded.
var ErrFetch = errors.New("could not fetch image")

var (
	sizeSegment = regexp.MustCompile(`/(?:orj360|orj480|orj1080|mw690|mw1024|mw2000|bmiddle|thumbnail|thumb150|thumb180|wap180|wap360)/`)
	cropSegment = regexp.MustCompile(`/crop\.[\d.]+/`)
)

// Fetcher returns an image for url brought to the requested sizing.
// It never fails: a placeholder of the requested size stands in for
// anything that could not be loaded.
type Fetcher interface {
	Fetch(ctx context.Context, url string, s Sizing) image.Image
}

// HTTPFetcher downloads images from the Weibo CDN.
type HTTPFetcher struct {
	cache     cache.Cache
	cacheTTL  time.Duration
	timeout   time.Duration
	userAgent string

	// LabelFace, when set, supplies the face for placeholder labels.
	// A new face is requested per placeholder.
	LabelFace func() font.Face
}

func NewHTTPFetcher(c cache.Cache, timeout, cacheTTL time.Duration) *HTTPFetcher {
	if c == nil {
		c = cache.Nop{}
	}

	return &HTTPFetcher{
		cache:     c,
		cacheTTL:  cacheTTL,
		timeout:   timeout,
		userAgent: app.UserAgent,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string, s Sizing) image.Image {
	img, err := f.load(ctx, url)

	if err != nil {
		app.Logger().Warn("Using placeholder image", "url", url, "error", err)

		size := s.placeholderSize()

		return Placeholder(size.X, size.Y, f.labelFace())
	}

	return Apply(img, s)
}

func (f *HTTPFetcher) labelFace() font.Face {
	if f.LabelFace == nil {
		return nil
	}

	return f.LabelFace()
}

// load tries every variant of url in order and decodes the first one that loads.
func (f *HTTPFetcher) load(ctx context.Context, url string) (image.Image, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty url", ErrFetch)
	}

	var errs []error

	for _, variant := range Variants(url) {
		if data, err := f.cache.Get(ctx, cachePrefix+variant); err == nil {
			if img, err := imaging.Decode(bytes.NewReader(data)); err == nil {
				app.Logger().Debug("Image cache hit", "url", variant)
				return img, nil
			}
		}

		data, err := f.download(ctx, variant)

		if err != nil {
			errs = append(errs, err)
			continue
		}

		img, err := imaging.Decode(bytes.NewReader(data))

		if err != nil {
			errs = append(errs, fmt.Errorf("could not decode %s: %w", variant, err))
			continue
		}

		if err := f.cache.Set(ctx, cachePrefix+variant, data, f.cacheTTL); err != nil {
			app.Logger().Warn("Could not cache image", "url", variant, "error", err)
		}

		return img, nil
	}

	return nil, fmt.Errorf("%w %s: %w", ErrFetch, url, errors.Join(errs...))
}

func (f *HTTPFetcher) download(ctx context.Context, url string) ([]byte, error) {
	c := colly.NewCollector(
		colly.UserAgent(f.userAgent),
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
		colly.MaxBodySize(maxImageSize),
	)

	c.WithTransport(app.Transport)
	c.SetRequestTimeout(f.timeout)

	var body []byte
	var reqErr error

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Referer", referer)
	})

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	c.OnError(func(r *colly.Response, err error) {
		reqErr = fmt.Errorf("request error %s (status %d): %w", url, r.StatusCode, err)
	})

	if err := c.Visit(url); err != nil && reqErr == nil {
		return nil, fmt.Errorf("could not visit %s: %w", url, err)
	}

	if reqErr != nil {
		return nil, reqErr
	}

	return body, nil
}

// Variants lists the URLs tried for an image, best first: the full size
// rendition, the URL itself, then the URL without crop segment and query.
func Variants(url string) []string {
	candidates := []string{
		sizeSegment.ReplaceAllString(url, "/large/"),
		url,
	}

	stripped, _, _ := strings.Cut(cropSegment.ReplaceAllString(url, "/"), "?")
	candidates = append(candidates, stripped)

	variants := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))

	for _, c := range candidates {
		if !seen[c] {
			seen[c] = true
			variants = append(variants, c)
		}
	}

	return variants
}
