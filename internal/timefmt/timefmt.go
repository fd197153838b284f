// Package timefmt converts feed timestamps into UTC+8 civil time labels.
package timefmt

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nDmitry/weibocard/internal/app"
)

const (
	LabelLayout = "2006年01月02日 15:04"
	FileLayout  = "20060102_150405"

	civilOffset = 8 * time.Hour
)

var ErrTimestamp = errors.New("could not parse timestamp")

// Zero is used for feed items without a usable date.
var Zero time.Time

var layouts = []string{
	time.RFC1123,
	time.RFC1123Z,
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	time.RFC822,
	time.RFC822Z,
	time.RFC3339,
}

var shanghai = sync.OnceValue(func() *time.Location {
	loc, err := time.LoadLocation("Asia/Shanghai")

	if err != nil {
		app.Logger().Warn("Timezone table unavailable, using a fixed +8h offset", "error", err)
		return nil
	}

	return loc
})

// Parse reads an RFC 822 style pubDate such as "Fri, 04 Jul 2025 07:51:28 GMT".
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return Zero, fmt.Errorf("%w: %q", ErrTimestamp, s)
}

// Civil converts t to Asia/Shanghai time, or shifts UTC by 8 hours when the
// timezone table cannot be loaded.
func Civil(t time.Time) time.Time {
	return civil(t, shanghai())
}

func civil(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t.UTC().Add(civilOffset)
	}

	return t.In(loc)
}

// Label is the timestamp shown under the author name. Unparsable input is
// shown as is; empty input falls back to the current time.
func Label(pubDate string, now func() time.Time) string {
	t, err := Parse(pubDate)

	if err == nil {
		return Civil(t).Format(LabelLayout)
	}

	if strings.TrimSpace(pubDate) != "" {
		app.Logger().Warn("Showing the original timestamp", "error", err)
		return pubDate
	}

	return Civil(now()).Format(LabelLayout)
}

// FileStamp is the yyyyMMdd_HHmmss part of output file names.
func FileStamp(pubDate string, now func() time.Time) string {
	t, err := Parse(pubDate)

	if err != nil {
		if strings.TrimSpace(pubDate) != "" {
			app.Logger().Warn("Using the current time for the file name", "error", err)
		}

		t = now()
	}

	return Civil(t).Format(FileLayout)
}
