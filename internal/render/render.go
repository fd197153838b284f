// Package render composes a post into a single long JPEG image.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/nDmitry/weibocard/internal/app"
	"github.com/nDmitry/weibocard/internal/entity"
	"github.com/nDmitry/weibocard/internal/fonts"
	"github.com/nDmitry/weibocard/internal/layout"
	"github.com/nDmitry/weibocard/internal/media"
	"github.com/nDmitry/weibocard/internal/timefmt"
	"golang.org/x/image/font"
	"golang.org/x/sync/errgroup"
)

const (
	unknownAuthor = "未知用户"
	// Concurrent image downloads per post.
	fetchLimit = 6
)

// FaceSource provides a fresh font face per call. *fonts.Resolver satisfies it.
type FaceSource interface {
	Face(role fonts.Role, p entity.Profile) font.Face
}

// Renderer draws posts with a fixed profile. It keeps no state between
// posts and may be shared by concurrent requests.
type Renderer struct {
	fetcher   media.Fetcher
	faces     FaceSource
	profile   entity.Profile
	outputDir string
	now       func() time.Time
}

func NewRenderer(fetcher media.Fetcher, faces FaceSource, profile entity.Profile, outputDir string) *Renderer {
	return &Renderer{
		fetcher:   fetcher,
		faces:     faces,
		profile:   profile,
		outputDir: outputDir,
		now:       time.Now,
	}
}

// Profile is the preset posts are drawn with.
func (r *Renderer) Profile() entity.Profile {
	return r.profile
}

// Render composes the post and writes it to the output directory.
func (r *Renderer) Render(ctx context.Context, ch entity.ChannelInfo, post entity.PostContent) (*entity.RenderedPost, error) {
	img, plan := r.Compose(ctx, ch, post)

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create output directory: %w", err)
	}

	path := filepath.Join(r.outputDir, Filename(ch, post, r.now))
	file, err := os.Create(path)

	if err != nil {
		return nil, fmt.Errorf("could not create output file: %w", err)
	}

	if err := r.Encode(file, img); err != nil {
		file.Close()
		return nil, err
	}

	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("could not write output file: %w", err)
	}

	app.Logger().Info("Post rendered", "path", path, "width", plan.CanvasWidth(), "height", plan.CanvasHeight())

	return &entity.RenderedPost{Path: path, Width: plan.CanvasWidth(), Height: plan.CanvasHeight()}, nil
}

// RenderJPEG composes the post and returns the encoded image.
func (r *Renderer) RenderJPEG(ctx context.Context, ch entity.ChannelInfo, post entity.PostContent) ([]byte, error) {
	img, _ := r.Compose(ctx, ch, post)

	var buf bytes.Buffer

	if err := r.Encode(&buf, img); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Encode writes img as a JPEG with the profile quality.
func (r *Renderer) Encode(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(r.profile.JPEGQuality)); err != nil {
		return fmt.Errorf("could not encode image: %w", err)
	}

	return nil
}

// Compose draws the post. Images that cannot be fetched are drawn as
// placeholders, so composing always succeeds.
func (r *Renderer) Compose(ctx context.Context, ch entity.ChannelInfo, post entity.PostContent) (image.Image, layout.Plan) {
	p := r.profile
	nameFace := r.faces.Face(fonts.RoleName, p)
	timeFace := r.faces.Face(fonts.RoleTime, p)
	contentFace := r.faces.Face(fonts.RoleContent, p)

	measure := gg.NewContext(1, 1)
	measure.SetFontFace(contentFace)

	lines := layout.Wrap(post.Content, measure, float64(p.ContentWidth()))
	plan := layout.Plan{
		Profile: p,
		Text:    layout.NewTextBlock(lines, measure.FontHeight(), float64(p.LineSpacing)),
		Media:   layout.PlanMedia(len(post.Images), post.HasPoster(), p),
	}

	avatar, tiles := r.fetchAll(ctx, ch, post, plan.Media)

	if plan.Media.VideoOnly {
		plan.Media = plan.Media.WithTileSize(tiles[0].Bounds().Size())
	}

	dc := gg.NewContext(plan.CanvasWidth(), plan.CanvasHeight())
	dc.SetHexColor(p.Background)
	dc.Clear()

	origin := plan.AvatarOrigin()
	dc.DrawImage(avatar, origin.X, origin.Y)

	author := post.Author

	if author == "" {
		author = unknownAuthor
	}

	origin = plan.NameOrigin()
	dc.SetFontFace(nameFace)
	dc.SetHexColor(p.NameColor)
	dc.DrawStringAnchored(author, float64(origin.X), float64(origin.Y), 0, 1)

	origin = plan.TimeOrigin()
	dc.SetFontFace(timeFace)
	dc.SetHexColor(p.TimeColor)
	dc.DrawStringAnchored(timefmt.Label(post.PubDate, r.now), float64(origin.X), float64(origin.Y), 0, 1)

	origin = plan.ContentOrigin()
	dc.SetFontFace(contentFace)
	dc.SetHexColor(p.TextColor)

	for i, line := range plan.Text.Lines {
		dc.DrawStringAnchored(line, float64(origin.X), float64(origin.Y)+plan.Text.LineY(i), 0, 1)
	}

	for i, tile := range tiles {
		rect := plan.TileRect(i)
		dc.DrawImage(tile, rect.Min.X, rect.Min.Y)
	}

	return dc.Image(), plan
}

// fetchAll downloads the avatar and the media tiles concurrently. Tiles are
// returned in document order with the video poster last.
func (r *Renderer) fetchAll(
	ctx context.Context,
	ch entity.ChannelInfo,
	post entity.PostContent,
	m layout.MediaPlan,
) (image.Image, []image.Image) {
	p := r.profile
	tiles := make([]image.Image, m.Count)

	var avatar image.Image
	var g errgroup.Group

	g.SetLimit(fetchLimit)

	g.Go(func() error {
		var img image.Image

		if ch.AvatarURL != "" {
			img = r.fetcher.Fetch(ctx, ch.AvatarURL, media.ForceSize(p.AvatarSize, p.AvatarSize))
		} else {
			img = media.DefaultAvatar(p.AvatarSize)
		}

		avatar = media.CircleAvatar(img, p.AvatarSize)

		return nil
	})

	for i, url := range post.Images {
		g.Go(func() error {
			tiles[i] = r.fetcher.Fetch(ctx, url, media.Square(m.TileWidth))
			return nil
		})
	}

	if post.HasPoster() {
		g.Go(func() error {
			sizing := media.Square(m.TileWidth)

			if m.VideoOnly {
				sizing = media.KeepRatio(p.ContentWidth(), p.ContentWidth())
			}

			tiles[len(post.Images)] = media.PlayOverlay(r.fetcher.Fetch(ctx, post.Video.PosterURL, sizing))

			return nil
		})
	}

	// Fetches never fail
	_ = g.Wait()

	return avatar, tiles
}
