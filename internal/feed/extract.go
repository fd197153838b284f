package feed

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nDmitry/weibocard/internal/app"
	"github.com/nDmitry/weibocard/internal/entity"
)

// A cleanStage is one ordered text transform of the description HTML.
// Later stages rely on the earlier ones having run.
type cleanStage struct {
	name  string
	apply func(string) string
}

var (
	breakRegex         = regexp.MustCompile(`(?i)<br\s*/?>`)
	videoRegex         = regexp.MustCompile(`(?is)<video.*?</video>`)
	imgRegex           = regexp.MustCompile(`(?i)<img[^>]*>`)
	anchorRegex        = regexp.MustCompile(`(?is)<a(?:\s[^>]*)?>(.*?)</a>`)
	tagRegex           = regexp.MustCompile(`<(/?)([A-Za-z][A-Za-z0-9]*)[^>]*>`)
	cdataRegex         = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
	commentRegex       = regexp.MustCompile(`(?s)<!--.*?-->|<![^>]*>`)
	paragraphJoinRegex = regexp.MustCompile(`(?i)</p>\s*<p(?:\s[^>]*)?>`)
	paragraphRegex     = regexp.MustCompile(`(?i)</?p(?:\s[^>]*)?>`)
	divJoinRegex       = regexp.MustCompile(`(?i)</div>\s*<div(?:\s[^>]*)?>`)
	divRegex           = regexp.MustCompile(`(?i)</?div(?:\s[^>]*)?>`)
	blankLinesRegex    = regexp.MustCompile(`\n\s*\n\s*\n+`)
	smallStyleRegex    = regexp.MustCompile(`(?i)(?:width|height)\s*:\s*1rem`)
	trailingWordRegex  = regexp.MustCompile(`/(\w+)$`)
)

// Substrings that mark decorative or profile images.
var skippedImageMarkers = []string{"icon", "emoji", "timeline_card", "small_video_default", "1rem", "avatar"}

// Decoded angle brackets are swapped for their fullwidth forms so content never carries markup.
var bracketReplacer = strings.NewReplacer("<", "＜", ">", "＞")

var cleanStages = []cleanStage{
	{"breaks", func(s string) string { return breakRegex.ReplaceAllString(s, "\n") }},
	{"video", func(s string) string { return videoRegex.ReplaceAllString(s, "") }},
	{"images", func(s string) string { return imgRegex.ReplaceAllString(s, "") }},
	{"anchors", func(s string) string { return anchorRegex.ReplaceAllString(s, "$1") }},
	{"tags", stripTags},
	{"paragraphs", func(s string) string {
		s = paragraphJoinRegex.ReplaceAllString(s, "\n\n")
		s = paragraphRegex.ReplaceAllString(s, "\n")
		s = divJoinRegex.ReplaceAllString(s, "\n")

		return divRegex.ReplaceAllString(s, "\n")
	}},
	{"entities", decodeEntities},
	{"whitespace", func(s string) string {
		return strings.TrimSpace(blankLinesRegex.ReplaceAllString(s, "\n\n"))
	}},
}

// CleanHTML turns a post description into plain multi-line text.
func CleanHTML(s string) string {
	for _, stage := range cleanStages {
		s = stage.apply(s)
	}

	return s
}

// stripTags drops every tag except p and div, whose boundaries become line breaks next.
func stripTags(s string) string {
	s = cdataRegex.ReplaceAllString(s, "$1")
	s = commentRegex.ReplaceAllString(s, "")

	return tagRegex.ReplaceAllStringFunc(s, func(tag string) string {
		name := strings.ToLower(tagRegex.FindStringSubmatch(tag)[2])

		if name == "p" || name == "div" {
			return tag
		}

		return ""
	})
}

// decodeEntities unescapes until stable so multiply escaped input is fully
// decoded. Every change shortens the string, so the loop ends.
func decodeEntities(s string) string {
	for {
		decoded := html.UnescapeString(s)

		if decoded == s {
			break
		}

		s = decoded
	}

	return bracketReplacer.Replace(s)
}

// CleanTitle removes the image marker and entities from an item title.
func CleanTitle(s string) string {
	s = strings.ReplaceAll(s, "[图片]", "")

	return strings.TrimSpace(decodeEntities(s))
}

// ExtractImages returns image URLs of the original HTML in document order.
// Non-http sources, decorative glyphs and avatars are dropped.
func ExtractImages(description string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))

	if err != nil {
		return nil
	}

	var images []string

	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", ""))

		if keepImage(src, s.AttrOr("style", "")) {
			images = append(images, src)
		}
	})

	return images
}

func keepImage(src, style string) bool {
	if !strings.HasPrefix(src, "http") {
		return false
	}

	lower := strings.ToLower(src)

	for _, marker := range skippedImageMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}

	return !smallStyleRegex.MatchString(style)
}

// ExtractVideo returns the first poster and the first source of the HTML,
// or nil when neither attribute is present.
func ExtractVideo(description string) *entity.VideoInfo {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))

	if err != nil {
		return nil
	}

	poster, hasPoster := doc.Find("[poster]").First().Attr("poster")
	source, hasSource := doc.Find("source[src]").First().Attr("src")

	if !hasPoster && !hasSource {
		return nil
	}

	return &entity.VideoInfo{
		PosterURL: strings.TrimSpace(poster),
		VideoURL:  strings.TrimSpace(source),
	}
}

// Extract builds the post model of a single item.
func Extract(item entity.RawItem) (post entity.PostContent, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ItemParseError{Link: item.Link, Err: fmt.Errorf("recovered: %v", r)}
		}
	}()

	var id string

	if m := trailingWordRegex.FindStringSubmatch(item.Link); m != nil {
		id = m[1]
	}

	return entity.PostContent{
		ID:              id,
		GUID:            item.GUID,
		Title:           CleanTitle(item.Title),
		Content:         CleanHTML(item.DescriptionHTML),
		Link:            item.Link,
		PubDate:         item.PubDate,
		Author:          strings.TrimSpace(item.Author),
		Category:        item.Category,
		Images:          ExtractImages(item.DescriptionHTML),
		Video:           ExtractVideo(item.DescriptionHTML),
		DescriptionHTML: item.DescriptionHTML,
	}, nil
}

// ExtractAll extracts every item, logging and dropping the ones that fail.
func ExtractAll(items []entity.RawItem) []entity.PostContent {
	logger := app.Logger()
	posts := make([]entity.PostContent, 0, len(items))

	for i, item := range items {
		post, err := Extract(item)

		if err != nil {
			logger.Warn("Dropping feed item", "index", i, "link", item.Link, "error", err)
			continue
		}

		posts = append(posts, post)
	}

	return posts
}
