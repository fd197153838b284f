package media

import (
	"image"

	"github.com/disintegration/imaging"
)

// CropSquare returns a size×size image: the source is scaled so its shorter
// side matches size and the longer side is cropped symmetrically.
func CropSquare(img image.Image, size int) *image.NRGBA {
	return imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)
}

// ResizeKeepRatio scales img to the largest size fitting maxW×maxH.
// Small images are scaled up.
func ResizeKeepRatio(img image.Image, maxW, maxH int) *image.NRGBA {
	b := img.Bounds()

	if b.Dx() == 0 || b.Dy() == 0 {
		return imaging.Clone(img)
	}

	w, h := maxW, maxH

	if b.Dx()*maxH > b.Dy()*maxW {
		h = b.Dy() * maxW / b.Dx()
	} else {
		w = b.Dx() * maxH / b.Dy()
	}

	return imaging.Resize(img, max(1, w), max(1, h), imaging.Lanczos)
}

// Apply brings img to the requested sizing.
func Apply(img image.Image, s Sizing) image.Image {
	switch s.mode {
	case modeForce:
		return imaging.Resize(img, s.width, s.height, imaging.Lanczos)
	case modeSquare:
		return CropSquare(img, s.width)
	case modeKeepRatio:
		return ResizeKeepRatio(img, s.width, s.height)
	default:
		return img
	}
}
