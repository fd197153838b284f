package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nDmitry/weibocard/internal/app"
	"github.com/nDmitry/weibocard/internal/cache"
	"github.com/nDmitry/weibocard/internal/entity"
	"github.com/nDmitry/weibocard/internal/feed"
	"github.com/nDmitry/weibocard/internal/render"
)

// WeiboHandler serves index feeds of configured Weibo RSS feeds and the
// rendered images of their posts.
type WeiboHandler struct {
	cache     cache.Cache
	fetcher   FeedFetcher
	generator Generator
	renderer  Renderer
	config    *entity.Config
	logger    *slog.Logger
}

// NewWeiboHandler creates a new WeiboHandler and registers its routes on mux
func NewWeiboHandler(
	mux *http.ServeMux,
	c cache.Cache,
	f FeedFetcher,
	g Generator,
	r Renderer,
	config *entity.Config,
) *WeiboHandler {
	handler := &WeiboHandler{
		cache:     c,
		fetcher:   f,
		generator: g,
		renderer:  r,
		config:    config,
		logger:    app.Logger(),
	}

	mux.HandleFunc("GET /weibo/{feed}", handler.GetFeed)
	mux.HandleFunc("GET /weibo/{feed}/posts/{post}", handler.GetPost)

	return handler
}

// GetFeed handles requests for the index feed of a configured feed
func (h *WeiboHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	params, err := entity.NewFeedParamsFromRequest(r)

	if err != nil {
		h.handleError(w, err, http.StatusBadRequest)
		return
	}

	source, ok := h.config.Feed(params.Feed)

	if !ok {
		h.handleError(w, fmt.Errorf("unknown feed %s", params.Feed), http.StatusNotFound)
		return
	}

	if !r.URL.Query().Has("cache_ttl") {
		params.CacheTTL = int(h.config.FeedCacheTTL().Minutes())
	}

	params.ExcludeWords = append(params.ExcludeWords, h.config.ExcludeWords...)
	cacheKey := h.buildFeedCacheKey(params)

	if content, ok := h.fromCache(r.Context(), cacheKey, params.CacheTTL); ok {
		w.Header().Set("X-CACHE-STATUS", "HIT")
		h.serveContent(w, content, feedContentType(params.Format), params.CacheTTL)
		return
	}

	doc, err := h.fetcher.Fetch(r.Context(), source.URL)

	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}

	base := baseURL(r)
	imageURL := func(p entity.PostContent) string {
		return fmt.Sprintf("%s/weibo/%s/posts/%s.jpg", base, params.Feed, render.PostID(p))
	}

	content, err := h.generator.Generate(doc, feed.ExtractAll(doc.Items), params, imageURL)

	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}

	h.toCache(cacheKey, content, params.CacheTTL)

	w.Header().Set("X-CACHE-STATUS", "MISS")
	h.serveContent(w, content, feedContentType(params.Format), params.CacheTTL)
}

// GetPost handles requests for the rendered image of a single post
func (h *WeiboHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	params, err := entity.NewPostParamsFromRequest(r)

	if err != nil {
		h.handleError(w, err, http.StatusBadRequest)
		return
	}

	source, ok := h.config.Feed(params.Feed)

	if !ok {
		h.handleError(w, fmt.Errorf("unknown feed %s", params.Feed), http.StatusNotFound)
		return
	}

	cacheKey := fmt.Sprintf("weibo:post:%s:%s:%s", params.Feed, params.PostID, h.renderer.Profile().Name)

	if content, ok := h.fromCache(r.Context(), cacheKey, params.CacheTTL); ok {
		w.Header().Set("X-CACHE-STATUS", "HIT")
		h.serveContent(w, content, "image/jpeg", params.CacheTTL)
		return
	}

	doc, err := h.fetcher.Fetch(r.Context(), source.URL)

	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}

	var post *entity.PostContent

	for _, p := range feed.ExtractAll(doc.Items) {
		if render.PostID(p) == params.PostID {
			post = &p
			break
		}
	}

	if post == nil {
		h.handleError(w, fmt.Errorf("post %s not found in feed %s", params.PostID, params.Feed), http.StatusNotFound)
		return
	}

	content, err := h.renderer.RenderJPEG(r.Context(), doc.Channel, *post)

	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}

	h.toCache(cacheKey, content, params.CacheTTL)

	w.Header().Set("X-CACHE-STATUS", "MISS")
	h.serveContent(w, content, "image/jpeg", params.CacheTTL)
}

func (h *WeiboHandler) fromCache(ctx context.Context, key string, ttl int) ([]byte, bool) {
	if ttl <= 0 {
		return nil, false
	}

	content, err := h.cache.Get(ctx, key)

	if err == nil {
		return content, true
	}

	if err != cache.ErrCacheMiss {
		h.logger.Error("Cache error", "error", err)
	}

	return nil, false
}

func (h *WeiboHandler) toCache(key string, content []byte, ttl int) {
	if ttl <= 0 {
		return
	}

	// Use background context for caching to avoid cancellation
	cacheCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.cache.Set(cacheCtx, key, content, time.Duration(ttl)*time.Minute); err != nil {
		h.logger.Error("Failed to cache content", "error", err)
	}
}

// buildFeedCacheKey generates a cache key based on request parameters
func (h *WeiboHandler) buildFeedCacheKey(params *entity.FeedParams) string {
	caseSensitive := "0"

	if params.ExcludeCaseSensitive {
		caseSensitive = "1"
	}

	return fmt.Sprintf("weibo:feed:%s:%s:%s:%s",
		params.Feed,
		params.Format,
		strings.Join(params.ExcludeWords, "|"),
		caseSensitive)
}

// serveContent sends the content to the client with appropriate headers
func (h *WeiboHandler) serveContent(w http.ResponseWriter, content []byte, contentType string, cacheTTL int) {
	w.Header().Set("Content-Type", contentType)

	if cacheTTL > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", cacheTTL*60))
	} else {
		w.Header().Set("Cache-Control", "no-cache")
	}

	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(content); err != nil {
		h.logger.Error("Failed to write response", "error", err, "bytes", len(content))
	}
}

// handleError responds with an error message
func (h *WeiboHandler) handleError(w http.ResponseWriter, err error, statusCode int) {
	h.logger.Error("Request error", "error", err, "status", statusCode)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]string{"error": err.Error()}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode an error response", "error", err, "response", response)
	}
}

func feedContentType(format string) string {
	switch format {
	case entity.FormatRSS:
		return "application/rss+xml; charset=utf-8"
	case entity.FormatAtom:
		return "application/atom+xml; charset=utf-8"
	default:
		return "application/xml; charset=utf-8"
	}
}

// baseURL is the scheme and host the request was addressed to.
func baseURL(r *http.Request) string {
	scheme := "http"

	if r.TLS != nil {
		scheme = "https"
	}

	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	return scheme + "://" + r.Host
}
