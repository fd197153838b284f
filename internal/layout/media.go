package layout

import (
	"image"

	"github.com/nDmitry/weibocard/internal/entity"
)

const maxColumns = 3

// MediaPlan is the tile geometry of the media area. Tiles are placed left
// to right, top to bottom, aligned with the left edge of the text.
type MediaPlan struct {
	Count      int
	Columns    int
	Rows       int
	TileWidth  int
	TileHeight int
	Gap        int
	// VideoOnly tiles keep the poster aspect ratio; the tile size is the
	// upper bound until WithTileSize sets the fetched poster size.
	VideoOnly bool
}

// PlanMedia sizes tiles for the images of a post plus its video poster.
// A single item gets the large tile, several items share the grid tile.
func PlanMedia(imageCount int, hasPoster bool, p entity.Profile) MediaPlan {
	count := imageCount

	if hasPoster {
		count++
	}

	if count == 0 {
		return MediaPlan{}
	}

	plan := MediaPlan{
		Count:   count,
		Columns: min(maxColumns, count),
		Gap:     p.GridGap,
	}

	plan.Rows = (count + plan.Columns - 1) / plan.Columns

	switch {
	case count == 1 && imageCount == 0:
		plan.VideoOnly = true
		plan.TileWidth = p.ContentWidth()
		plan.TileHeight = p.ContentWidth()
	case count == 1:
		plan.TileWidth = p.SingleTile
		plan.TileHeight = p.SingleTile
	default:
		plan.TileWidth = p.GridTile
		plan.TileHeight = p.GridTile
	}

	return plan
}

// WithTileSize returns a copy with the tile set to the actual size of the
// fetched image. Used for the aspect preserving video poster.
func (m MediaPlan) WithTileSize(size image.Point) MediaPlan {
	m.TileWidth = size.X
	m.TileHeight = size.Y

	return m
}

// Empty reports whether there is no media area.
func (m MediaPlan) Empty() bool {
	return m.Count == 0
}

// AreaHeight is rows·tile + (rows-1)·gap, 0 without media.
func (m MediaPlan) AreaHeight() int {
	if m.Empty() {
		return 0
	}

	return m.Rows*m.TileHeight + (m.Rows-1)*m.Gap
}

// Offset is the top left corner of tile i relative to the media area.
func (m MediaPlan) Offset(i int) image.Point {
	if m.Columns == 0 {
		return image.Point{}
	}

	col, row := i%m.Columns, i/m.Columns

	return image.Pt(col*(m.TileWidth+m.Gap), row*(m.TileHeight+m.Gap))
}
