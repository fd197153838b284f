package entity

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	FormatAtom = "atom"
	FormatRSS  = "rss"
)

const CacheTTLDefault = 60 // minutes

// FeedParams represents validated request parameters for an index feed
type FeedParams struct {
	// Feed is the configured feed name
	Feed string

	// Format is the feed format, either "atom" or "rss"
	Format string

	// ExcludeWords is a list of words that will exclude a post if matched
	ExcludeWords []string

	// ExcludeCaseSensitive determines if exclusion matching is case-sensitive
	ExcludeCaseSensitive bool

	// CacheTTL is the cache time-to-live in minutes
	// A value of 0 means no caching
	CacheTTL int
}

// PostParams identifies a single rendered post
type PostParams struct {
	Feed     string
	PostID   string
	CacheTTL int
}

// NewFeedParamsFromRequest parses and validates request parameters and creates a new FeedParams
func NewFeedParamsFromRequest(r *http.Request) (*FeedParams, error) {
	name := r.PathValue("feed")

	if name == "" {
		return nil, fmt.Errorf("feed is required")
	}

	qp := r.URL.Query()

	format := qp.Get("format")

	if format == "" {
		format = FormatRSS
	} else if format != FormatRSS && format != FormatAtom {
		return nil, fmt.Errorf("format must be %s or %s", FormatRSS, FormatAtom)
	}

	cacheTTL, err := parseCacheTTL(qp.Get("cache_ttl"))

	if err != nil {
		return nil, err
	}

	caseSensitive := qp.Get("exclude_case_sensitive")

	return &FeedParams{
		Feed:                 name,
		Format:               format,
		ExcludeWords:         SplitWords(qp.Get("exclude")),
		ExcludeCaseSensitive: caseSensitive == "1" || strings.EqualFold(caseSensitive, "true"),
		CacheTTL:             cacheTTL,
	}, nil
}

// NewPostParamsFromRequest parses the feed name and post id of a rendered post request
func NewPostParamsFromRequest(r *http.Request) (*PostParams, error) {
	name := r.PathValue("feed")
	postID := r.PathValue("post")

	if name == "" || postID == "" {
		return nil, fmt.Errorf("feed and post are required")
	}

	postID = strings.TrimSuffix(postID, ".jpg")

	cacheTTL, err := parseCacheTTL(r.URL.Query().Get("cache_ttl"))

	if err != nil {
		return nil, err
	}

	return &PostParams{Feed: name, PostID: postID, CacheTTL: cacheTTL}, nil
}

// SplitWords splits a "|" separated list dropping empty entries
func SplitWords(s string) []string {
	if s == "" {
		return nil
	}

	words := strings.Split(s, "|")
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		if word = strings.TrimSpace(word); word != "" {
			filtered = append(filtered, word)
		}
	}

	return filtered
}

func parseCacheTTL(s string) (int, error) {
	if s == "" {
		return CacheTTLDefault, nil
	}

	cacheTTL, err := strconv.Atoi(s)

	if err != nil {
		return 0, fmt.Errorf("cache_ttl must be a valid integer")
	}

	if cacheTTL < 0 {
		return 0, fmt.Errorf("cache_ttl must be non-negative")
	}

	return cacheTTL, nil
}
