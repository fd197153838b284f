package feed

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nDmitry/weibocard/internal/entity"
)

const (
	maxTitleLength  = 80
	ellipsis        = "…"
	openParenthesis = '('
	punctuation     = ",.;:!? ，。！？；："
)

var multipleSpacesRegex = regexp.MustCompile(`\s+`)

// ShortTitle picks an index feed title for a post: the item title, or the
// first line of the text for untitled posts.
func ShortTitle(post entity.PostContent) string {
	text := post.Title

	if text == "" {
		text, _, _ = strings.Cut(post.Content, "\n")
	}

	if strings.TrimSpace(text) == "" {
		return post.ID
	}

	return formatTitle(text)
}

// formatTitle collapses whitespace and truncates without cutting words in half
func formatTitle(text string) string {
	text = multipleSpacesRegex.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	text = removeIncompleteParens(text, maxTitleLength)

	return truncateAtWordBoundary(text, maxTitleLength)
}

// removeIncompleteParens removes parenthetical text that crosses the character limit
func removeIncompleteParens(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	runeCount := 0
	parenStart := -1

	for i, r := range text {
		runeCount++

		switch r {
		case openParenthesis, '（':
			parenStart = i
		case ')', '）':
			parenStart = -1
		}

		if runeCount > limit && parenStart >= 0 {
			// The limit falls inside the parentheses, drop them entirely
			return strings.TrimRight(text[:parenStart], punctuation) + ellipsis
		}
	}

	return text
}

// truncateAtWordBoundary truncates text at the last space before the limit.
// Text without spaces, which is most of CJK, is cut at the limit.
func truncateAtWordBoundary(text string, limit int) string {
	if strings.HasSuffix(text, ellipsis) || utf8.RuneCountInString(text) <= limit {
		return text
	}

	lastWordEnd := 0
	currentCount := 0

	for i, r := range text {
		currentCount++

		if unicode.IsSpace(r) {
			lastWordEnd = i
		}

		if currentCount >= limit {
			truncated := text[:i]

			if lastWordEnd > 0 {
				truncated = text[:lastWordEnd]
			}

			return strings.TrimRight(truncated, punctuation) + ellipsis
		}
	}

	return text
}
