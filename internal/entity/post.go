package entity

// VideoInfo is present when the post markup carried a poster or a video source.
type VideoInfo struct {
	PosterURL string
	VideoURL  string
}

// PostContent is the structured post model extracted from a RawItem.
// Content never contains markup or raw entities.
type PostContent struct {
	// ID is the last path segment of Link.
	ID       string
	GUID     string
	Title    string
	Content  string
	Link     string
	PubDate  string
	Author   string
	Category string
	// Images are in document order, duplicates kept.
	Images []string
	Video  *VideoInfo
	// DescriptionHTML is kept for post id derivation.
	DescriptionHTML string
}

// HasPoster reports whether the post has a video poster to render.
func (p PostContent) HasPoster() bool {
	return p.Video != nil && p.Video.PosterURL != ""
}

// MediaCount counts images plus the video poster, if any.
func (p PostContent) MediaCount() int {
	n := len(p.Images)

	if p.HasPoster() {
		n++
	}

	return n
}

// VideoOnly reports whether the poster is the only media of the post.
func (p PostContent) VideoOnly() bool {
	return len(p.Images) == 0 && p.HasPoster()
}

// RenderedPost describes an emitted image file.
type RenderedPost struct {
	Path   string
	Width  int
	Height int
}
