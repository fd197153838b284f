package entity

// ChannelInfo describes the feed channel a post belongs to.
type ChannelInfo struct {
	Title       string
	Description string
	Link        string
	// AvatarURL comes from channel/image/url and may be empty.
	AvatarURL string
}

// RawItem is one feed entry as found in the document, before any cleanup.
type RawItem struct {
	Title           string
	DescriptionHTML string
	Link            string
	GUID            string
	// PubDate keeps the original string, e.g. "Fri, 04 Jul 2025 07:51:28 GMT".
	PubDate  string
	Author   string
	Category string
}
