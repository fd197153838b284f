package render

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"time"

	"github.com/nDmitry/weibocard/internal/entity"
	"github.com/nDmitry/weibocard/internal/timefmt"
)

const (
	uidLength    = 10
	uidHashLen   = 8
	postIDLength = 9
	hashInputLen = 200
	base62       = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var (
	digitRun = regexp.MustCompile(`\d+`)

	postIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`/([A-Za-z0-9]{7,12})(?:\?|$|#)`),
		regexp.MustCompile(`/([A-Za-z0-9]{7,12})/`),
		regexp.MustCompile(`id=([A-Za-z0-9]{7,12})`),
	}

	// Word runs use Unicode word characters, so CJK text glued to a token
	// makes the whole run unusable as an id.
	wordRun     = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	postIDToken = regexp.MustCompile(`^[A-Za-z0-9]{7,12}$`)
	hasLetter   = regexp.MustCompile(`[A-Za-z]`)
	hasDigit    = regexp.MustCompile(`[0-9]`)
)

// Filename is weibo_<channel uid>_<post id>_<yyyyMMdd_HHmmss>.jpg with the
// publication time in UTC+8.
func Filename(ch entity.ChannelInfo, post entity.PostContent, now func() time.Time) string {
	return fmt.Sprintf("weibo_%s_%s_%s.jpg", ChannelUID(ch), PostID(post), timefmt.FileStamp(post.PubDate, now))
}

// ChannelUID is the user id found in the channel link, or a hash of the
// channel title.
func ChannelUID(ch entity.ChannelInfo) string {
	link := ch.Link

	if _, after, ok := cutLast(link, "/u/"); ok {
		uid, _, _ := strings.Cut(after, "?")
		uid, _, _ = strings.Cut(uid, "/")

		if uid != "" {
			return truncate(uid, uidLength)
		}
	}

	if strings.Contains(link, "weibo.com/") {
		if digits := digitRun.FindString(link); digits != "" {
			return truncate(digits, uidLength)
		}
	}

	title := ch.Title

	if title == "" {
		title = "unknown"
	}

	h := fnv.New64a()
	h.Write([]byte(title))

	return truncate(fmt.Sprint(h.Sum64()), uidHashLen)
}

// PostID is the alphanumeric Weibo post id found in the link or guid.
// Other fields are searched for a token mixing letters and digits, and a
// 9 character hash of the post is the last resort.
func PostID(post entity.PostContent) string {
	for _, source := range []string{post.Link, post.GUID} {
		if source == "" {
			continue
		}

		for _, pattern := range postIDPatterns {
			if m := pattern.FindStringSubmatch(source); m != nil && hasLetter.MatchString(m[1]) {
				return m[1]
			}
		}
	}

	text := strings.Join([]string{post.Link, post.GUID, post.Title, post.DescriptionHTML}, " ")

	for _, token := range wordRun.FindAllString(text, -1) {
		if postIDToken.MatchString(token) && hasLetter.MatchString(token) && hasDigit.MatchString(token) {
			return token
		}
	}

	return hashID(truncate(post.Title+post.DescriptionHTML+post.PubDate, hashInputLen))
}

func hashID(s string) string {
	h := fnv.New64a()
	h.Write([]byte(s))
	sum := h.Sum64()

	id := make([]byte, postIDLength)

	for i := range id {
		id[i] = base62[sum%uint64(len(base62))]
		sum /= uint64(len(base62))
	}

	return string(id)
}

func cutLast(s, sep string) (before, after string, found bool) {
	if i := strings.LastIndex(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}

	return s, "", false
}

// truncate keeps the first n runes of s.
func truncate(s string, n int) string {
	runes := []rune(s)

	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}
