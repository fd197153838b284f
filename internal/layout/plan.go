package layout

import (
	"image"

	"github.com/nDmitry/weibocard/internal/entity"
)

// Plan is the complete layout of a post image. The canvas height is always
// derived from the parts and never stored.
type Plan struct {
	Profile entity.Profile
	Text    TextBlock
	Media   MediaPlan
}

// HeaderHeight is the avatar row including its spacing.
func (p Plan) HeaderHeight() int {
	return p.Profile.AvatarSize + p.Profile.Spacing
}

func (p Plan) CanvasWidth() int {
	return p.Profile.Width
}

// CanvasHeight = 2·margin + header + text + 2·spacing + media area (with its
// spacing when present) + footer pad.
func (p Plan) CanvasHeight() int {
	pr := p.Profile
	h := 2*pr.Margin + p.HeaderHeight() + p.Text.Height + 2*pr.Spacing

	if !p.Media.Empty() {
		h += p.Media.AreaHeight() + pr.MediaSpacing
	}

	return h + pr.FooterPad
}

// AvatarOrigin is the top left corner of the avatar.
func (p Plan) AvatarOrigin() image.Point {
	side := p.Profile.Margin + p.Profile.Padding

	return image.Pt(side, side)
}

// NameOrigin is the top left corner of the author name.
func (p Plan) NameOrigin() image.Point {
	a := p.AvatarOrigin()

	return image.Pt(a.X+p.Profile.AvatarSize+p.Profile.NameGap, a.Y+p.Profile.NameOffset)
}

// TimeOrigin is the top left corner of the time label.
func (p Plan) TimeOrigin() image.Point {
	n := p.NameOrigin()

	return image.Pt(n.X, n.Y+p.Profile.TimeOffset)
}

// ContentOrigin is the top left corner of the first text line.
func (p Plan) ContentOrigin() image.Point {
	side := p.Profile.Margin + p.Profile.Padding

	return image.Pt(side, side+p.HeaderHeight()+p.Profile.TextOffset)
}

// MediaOrigin is the top left corner of the first tile.
func (p Plan) MediaOrigin() image.Point {
	c := p.ContentOrigin()

	return image.Pt(c.X, c.Y+p.Text.Height+p.Profile.MediaSpacing)
}

// TileRect is where tile i is drawn on the canvas.
func (p Plan) TileRect(i int) image.Rectangle {
	origin := p.MediaOrigin().Add(p.Media.Offset(i))

	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(p.Media.TileWidth, p.Media.TileHeight))}
}
