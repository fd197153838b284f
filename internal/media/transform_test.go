package media_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/nDmitry/weibocard/internal/media"
	"github.com/stretchr/testify/assert"
)

func TestCropSquare(t *testing.T) {
	sizes := []image.Point{
		{400, 100},
		{100, 400},
		{37, 91},
		{150, 1000},
		{1000, 150},
		{200, 200},
		{3, 3},
	}

	for _, src := range sizes {
		for _, target := range []int{1, 30, 200, 640} {
			img := imaging.New(src.X, src.Y, color.White)

			assert.Equal(t, image.Pt(target, target), media.CropSquare(img, target).Bounds().Size(),
				"%v cropped to %d", src, target)
		}
	}
}

func TestCropSquare_KeepsCenter(t *testing.T) {
	// red | green | blue stripes, the middle one survives the crop
	img := imaging.New(300, 100, color.NRGBA{R: 255, A: 255})
	img = imaging.Paste(img, imaging.New(100, 100, color.NRGBA{G: 255, A: 255}), image.Pt(100, 0))
	img = imaging.Paste(img, imaging.New(100, 100, color.NRGBA{B: 255, A: 255}), image.Pt(200, 0))

	cropped := media.CropSquare(img, 50)

	c := cropped.NRGBAAt(25, 25)
	assert.Greater(t, int(c.G), 200)
	assert.Less(t, int(c.R), 50)
	assert.Less(t, int(c.B), 50)
}

func TestResizeKeepRatio(t *testing.T) {
	tests := []struct {
		src      image.Point
		max      image.Point
		expected image.Point
	}{
		{src: image.Pt(1200, 675), max: image.Pt(660, 660), expected: image.Pt(660, 371)},
		{src: image.Pt(480, 854), max: image.Pt(660, 660), expected: image.Pt(370, 660)},
		{src: image.Pt(100, 100), max: image.Pt(660, 660), expected: image.Pt(660, 660)},
		{src: image.Pt(5000, 10), max: image.Pt(100, 100), expected: image.Pt(100, 1)},
	}

	for _, tt := range tests {
		img := imaging.New(tt.src.X, tt.src.Y, color.Black)

		assert.Equal(t, tt.expected, media.ResizeKeepRatio(img, tt.max.X, tt.max.Y).Bounds().Size(), "%v", tt.src)
	}
}
