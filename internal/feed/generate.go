package feed

import (
	"fmt"
	"strings"

	"github.com/gorilla/feeds"
	"github.com/nDmitry/weibocard/internal/entity"
	"github.com/nDmitry/weibocard/internal/timefmt"
)

// Generator builds index feeds whose items point at rendered post images.
type Generator struct{}

// Generate creates a feed of posts and returns it as a byte array.
// imageURL maps a post to the address of its rendered image.
func (g *Generator) Generate(
	doc *Document,
	posts []entity.PostContent,
	params *entity.FeedParams,
	imageURL func(entity.PostContent) string,
) ([]byte, error) {
	feed := &feeds.Feed{
		Title:       doc.Channel.Title,
		Description: doc.Channel.Description,
		Link:        &feeds.Link{Href: doc.Channel.Link},
	}

	if doc.Channel.AvatarURL != "" {
		feed.Image = &feeds.Image{Url: doc.Channel.AvatarURL, Title: doc.Channel.Title, Link: doc.Channel.Link}
	}

	for _, p := range posts {
		if ShouldExclude(p, params.ExcludeWords, params.ExcludeCaseSensitive) {
			continue
		}

		created, err := timefmt.Parse(p.PubDate)

		if err != nil {
			created = timefmt.Zero
		}

		id := p.GUID

		if id == "" {
			id = p.Link
		}

		item := &feeds.Item{
			Id:          id,
			Title:       ShortTitle(p),
			Description: p.Content,
			Link:        &feeds.Link{Href: p.Link},
			Created:     created,
		}

		if p.Author != "" {
			item.Author = &feeds.Author{Name: p.Author}
		}

		if imageURL != nil {
			item.Enclosure = &feeds.Enclosure{Url: imageURL(p), Type: "image/jpeg", Length: "0"}
		}

		feed.Items = append(feed.Items, item)

		if created.After(feed.Created) {
			feed.Created = created
		}
	}

	var content string
	var err error

	switch params.Format {
	case entity.FormatRSS:
		content, err = feed.ToRss()
	case entity.FormatAtom:
		content, err = feed.ToAtom()
	default:
		return nil, fmt.Errorf("unsupported feed format: %s", params.Format)
	}

	if err != nil {
		return nil, fmt.Errorf("could not marshal feed %s: %w", params.Feed, err)
	}

	return []byte(content), nil
}

// ShouldExclude checks if a post text or title contains any of the words
func ShouldExclude(post entity.PostContent, excludeWords []string, caseSensitive bool) bool {
	if len(excludeWords) == 0 {
		return false
	}

	content := post.Title + "\n" + post.Content

	if !caseSensitive {
		content = strings.ToLower(content)
	}

	for _, word := range excludeWords {
		if !caseSensitive {
			word = strings.ToLower(word)
		}

		if strings.Contains(content, word) {
			return true
		}
	}

	return false
}
