package feed

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/nDmitry/weibocard/internal/app"
	"github.com/nDmitry/weibocard/internal/entity"
)

// ErrDocumentParse is returned when the feed is not XML or has no channel.
var ErrDocumentParse = errors.New("could not parse feed document")

var errEmptyItem = errors.New("item has no link, guid or description")

// ItemParseError describes a feed item that was dropped.
type ItemParseError struct {
	Index int
	Link  string
	Err   error
}

func (e *ItemParseError) Error() string {
	return fmt.Sprintf("could not parse item #%d (%s): %v", e.Index, e.Link, e.Err)
}

func (e *ItemParseError) Unwrap() error {
	return e.Err
}

// Document is a parsed feed: the channel and its items in document order.
type Document struct {
	Channel entity.ChannelInfo
	Items   []entity.RawItem
}

// Parse reads an RSS 2.0 document. Missing optional elements become empty
// strings; items that cannot be parsed are logged and skipped.
func Parse(r io.Reader) (*Document, error) {
	root, err := xmlquery.Parse(r)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentParse, err)
	}

	channel := xmlquery.FindOne(root, "//channel")

	if channel == nil {
		return nil, fmt.Errorf("%w: no channel element", ErrDocumentParse)
	}

	doc := &Document{
		Channel: entity.ChannelInfo{
			Title:       childText(channel, "title"),
			Description: childText(channel, "description"),
			Link:        childText(channel, "link"),
			AvatarURL:   childText(channel, "image/url"),
		},
	}

	logger := app.Logger()

	for i, node := range channel.SelectElements("item") {
		item, err := parseItem(i, node)

		if err != nil {
			logger.Warn("Skipping feed item", "error", err)
			continue
		}

		doc.Items = append(doc.Items, item)
	}

	return doc, nil
}

func parseItem(index int, node *xmlquery.Node) (item entity.RawItem, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ItemParseError{Index: index, Err: fmt.Errorf("recovered: %v", r)}
		}
	}()

	item = entity.RawItem{
		Title:           childText(node, "title"),
		DescriptionHTML: childText(node, "description"),
		Link:            childText(node, "link"),
		GUID:            childText(node, "guid"),
		PubDate:         childText(node, "pubDate"),
		Author:          childText(node, "author"),
		Category:        childText(node, "category"),
	}

	if item.Link == "" && item.GUID == "" && item.DescriptionHTML == "" {
		return entity.RawItem{}, &ItemParseError{Index: index, Link: item.Title, Err: errEmptyItem}
	}

	return item, nil
}

// childText follows un-prefixed child elements, so atom:link never shadows link.
func childText(node *xmlquery.Node, path string) string {
	for _, name := range strings.Split(path, "/") {
		node = child(node, name)

		if node == nil {
			return ""
		}
	}

	return strings.TrimSpace(node.InnerText())
}

func child(node *xmlquery.Node, name string) *xmlquery.Node {
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Prefix == "" && c.Data == name {
			return c
		}
	}

	return nil
}
