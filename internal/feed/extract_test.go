package feed_test

import (
	"strings"
	"testing"

	"github.com/nDmitry/weibocard/internal/entity"
	"github.com/nDmitry/weibocard/internal/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var forbiddenImageMarkers = []string{"icon", "emoji", "timeline_card", "small_video_default", "1rem", "avatar"}

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "Only breaks and an image",
			html:     `<br><br><img src="http://x/a.jpg">`,
			expected: "",
		},
		{
			name:     "Breaks become newlines",
			html:     `第一行<br>第二行<br/>第三行<br />第四行`,
			expected: "第一行\n第二行\n第三行\n第四行",
		},
		{
			name:     "Video block with nested source is removed",
			html:     `前<video controls poster="http://x/p.jpg"><source src="http://x/v.mp4"><p>视频无法显示</p></video>后`,
			expected: "前后",
		},
		{
			name:     "Anchors are unwrapped",
			html:     `看<a href="https://m.weibo.cn/search?q=1" data-hide=""><span class="surl-text">#话题#</span></a>吧`,
			expected: "看#话题#吧",
		},
		{
			name:     "Paragraph boundaries",
			html:     `<p>one</p><p class="x">two</p>`,
			expected: "one\n\ntwo",
		},
		{
			name:     "Div boundaries",
			html:     `a<div style="clear: both"></div>b<div>c</div><div>d</div>`,
			expected: "a\n\nb\nc\nd",
		},
		{
			name:     "Blank lines collapse",
			html:     `a<br><br><br><br><br>b`,
			expected: "a\n\nb",
		},
		{
			name:     "Entities are decoded",
			html:     `Tom &amp; Jerry &quot;quoted&quot; &#26032;`,
			expected: `Tom & Jerry "quoted" 新`,
		},
		{
			name:     "Double escaped entities are decoded",
			html:     `a &amp;amp; b`,
			expected: "a & b",
		},
		{
			name:     "Decoded angle brackets never form markup",
			html:     `1 &lt; 2 &amp;&amp; &lt;b&gt;bold&lt;/b&gt;`,
			expected: "1 ＜ 2 && ＜b＞bold＜/b＞",
		},
		{
			name:     "Deeply escaped entities are decoded",
			html:     `a &amp;amp;amp;amp;amp;lt; b &amp;amp;amp;amp;amp;amp;amp;quot;`,
			expected: `a ＜ b "`,
		},
		{
			name:     "Comments are dropped",
			html:     `a<!-- hidden -->b`,
			expected: "ab",
		},
		{
			name:     "CDATA keeps its text",
			html:     `<!-- c --> t <![CDATA[ q ]]> e`,
			expected: "t  q  e",
		},
		{
			name:     "Real feed markup",
			html:     `庵野秀明新作短篇动画化<br><br>监督：松井祐亮<br>动画制作：Khara <a href="https://video.weibo.com/show?fid=1034:1" data-hide=""><span class="url-icon"><img style="width: 1rem;height: 1rem" src="https://h5.sinaimg.cn/upload/2015/09/25/3/timeline_card_small_video_default.png"></span><span class="surl-text">日推的微博视频</span></a> <br clear="both"><div style="clear: both"></div><video controls="controls" poster="https://tvax1.sinaimg.cn/orj480/p.jpg"><source src="https://f.video.weibocdn.com/v.mp4" type="video/mp4"></video>`,
			expected: "庵野秀明新作短篇动画化\n\n监督：松井祐亮\n动画制作：Khara 日推的微博视频",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := feed.CleanHTML(tt.html)

			assert.Equal(t, tt.expected, got)
			assert.NotContains(t, got, "<")
			assert.NotContains(t, got, ">")
		})
	}
}

func TestExtractImages(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected []string
	}{
		{
			name:     "Document order with duplicates",
			html:     `<img src="http://x/a.jpg"><p><img src="https://x/b.jpg"></p><img src="http://x/a.jpg">`,
			expected: []string{"http://x/a.jpg", "https://x/b.jpg", "http://x/a.jpg"},
		},
		{
			name:     "Avatar is excluded",
			html:     `<img src="https://tvax1.sinaimg.cn/avatar/1.jpg"><img src="http://x/a.jpg">`,
			expected: []string{"http://x/a.jpg"},
		},
		{
			name: "Forbidden markers are excluded",
			html: `<img src="http://x/icon.png"><img src="http://x/EMOJI_1.png"><img src="http://x/timeline_card_small_super_default.png">` +
				`<img src="http://x/small_video_default.png"><img src="http://x/1rem/a.png"><img src="http://x/ok.jpg">`,
			expected: []string{"http://x/ok.jpg"},
		},
		{
			name:     "Inline 1rem glyphs are excluded",
			html:     `<img style="width: 1rem;height: 1rem" src="http://x/glyph.png"><img style="HEIGHT:1rem" src="http://x/glyph2.png"><img style="" src="http://x/photo.jpg">`,
			expected: []string{"http://x/photo.jpg"},
		},
		{
			name:     "Relative and data sources are excluded",
			html:     `<img src="/local.jpg"><img src="data:image/png;base64,AA=="><img src="">`,
			expected: nil,
		},
		{
			name:     "Entities in attributes are decoded",
			html:     `<img src="http://x/a.jpg?a=1&amp;b=2">`,
			expected: []string{"http://x/a.jpg?a=1&b=2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := feed.ExtractImages(tt.html)

			assert.Equal(t, tt.expected, got)

			for _, u := range got {
				assert.True(t, strings.HasPrefix(u, "http"))

				for _, marker := range forbiddenImageMarkers {
					assert.NotContains(t, strings.ToLower(u), marker)
				}
			}
		})
	}
}

func TestExtractVideo(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected *entity.VideoInfo
	}{
		{
			name:     "Poster and source",
			html:     `<video poster="http://x/p.jpg"><source src="http://x/v.mp4"></video>`,
			expected: &entity.VideoInfo{PosterURL: "http://x/p.jpg", VideoURL: "http://x/v.mp4"},
		},
		{
			name:     "Poster only",
			html:     `<video poster="http://x/p.jpg"></video>`,
			expected: &entity.VideoInfo{PosterURL: "http://x/p.jpg"},
		},
		{
			name:     "Source only",
			html:     `<video><source src="http://x/v.mp4" type="video/mp4"></video>`,
			expected: &entity.VideoInfo{VideoURL: "http://x/v.mp4"},
		},
		{
			name:     "First of each wins",
			html:     `<video poster="http://x/1.jpg"><source src="http://x/1.mp4"></video><video poster="http://x/2.jpg"><source src="http://x/2.mp4"></video>`,
			expected: &entity.VideoInfo{PosterURL: "http://x/1.jpg", VideoURL: "http://x/1.mp4"},
		},
		{
			name:     "No video",
			html:     `<img src="http://x/a.jpg">text`,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, feed.ExtractVideo(tt.html))
		})
	}
}

func TestExtract_Scenarios(t *testing.T) {
	t.Run("Single image without text", func(t *testing.T) {
		post, err := feed.Extract(entity.RawItem{
			Link:            "https://weibo.com/1/AbCdEfG12",
			DescriptionHTML: `<br><br><img src="http://x/a.jpg">`,
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"http://x/a.jpg"}, post.Images)
		assert.Empty(t, post.Content)
		assert.Nil(t, post.Video)
		assert.Equal(t, 1, post.MediaCount())
		assert.False(t, post.VideoOnly())
	})

	t.Run("Video only", func(t *testing.T) {
		post, err := feed.Extract(entity.RawItem{
			DescriptionHTML: `<video poster="http://x/p.jpg"><source src="http://x/v.mp4"></video>`,
		})

		require.NoError(t, err)
		assert.Empty(t, post.Images)
		require.NotNil(t, post.Video)
		assert.Equal(t, entity.VideoInfo{PosterURL: "http://x/p.jpg", VideoURL: "http://x/v.mp4"}, *post.Video)
		assert.True(t, post.VideoOnly())
		assert.Equal(t, 1, post.MediaCount())
	})

	t.Run("Avatar image", func(t *testing.T) {
		post, err := feed.Extract(entity.RawItem{
			DescriptionHTML: `<img src="https://tvax1.sinaimg.cn/avatar/face.jpg">hello`,
		})

		require.NoError(t, err)
		assert.Empty(t, post.Images)
		assert.Equal(t, "hello", post.Content)
	})
}

func TestExtractAll_Fixture(t *testing.T) {
	doc := openFixture(t)
	posts := feed.ExtractAll(doc.Items)

	require.Len(t, posts, 4)

	video := posts[0]
	assert.Equal(t, "PzxVideo01", video.ID)
	assert.Equal(t, "只有视频的微博\n\n视频", video.Content)
	assert.Empty(t, video.Images)
	require.NotNil(t, video.Video)
	assert.Equal(t, "https://tvax1.sinaimg.cn/orj480/0026YIXUgy1i31ywn95a7j60j20aqdjn02.jpg", video.Video.PosterURL)
	assert.Equal(t, "https://f.video.weibocdn.com/o0/S4ln4fSqlx08.mp4?label=mp4_720p&template=1280x720", video.Video.VideoURL)
	assert.True(t, video.VideoOnly())

	mixed := posts[1]
	assert.Equal(t, "混合媒体", mixed.Title)
	assert.Len(t, mixed.Images, 1)
	assert.Equal(t, 2, mixed.MediaCount())

	grid := posts[2]
	assert.Len(t, grid.Images, 6)
	assert.Equal(t, "小畑健新绘 『棋魂』展纪念插画合集", grid.Title)
	assert.Equal(t, "小畑健新绘 『棋魂』展纪念插画合集\n\n棋魂", grid.Content)

	escaped := posts[3]
	assert.Equal(t, "Tom & Jerry", escaped.Title)
	assert.Equal(t, "Tom & Jerry\n\n1 ＜ 2", escaped.Content)
	assert.Equal(t, "PzxEscaped", escaped.ID)
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "合集棋魂", feed.CleanTitle("合集棋魂 [图片][图片][图片]"))
	assert.Equal(t, "a & b", feed.CleanTitle("  a &amp; b "))
}
