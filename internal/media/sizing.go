// Package media fetches and shapes the images placed on a post canvas.
package media

import "image"

const defaultPlaceholderSize = 300

type sizingMode int

const (
	modeOriginal sizingMode = iota
	modeForce
	modeSquare
	modeKeepRatio
)

// Sizing is the shape a fetched image is brought to.
type Sizing struct {
	mode   sizingMode
	width  int
	height int
}

// Original keeps the decoded image as is.
func Original() Sizing {
	return Sizing{mode: modeOriginal}
}

// ForceSize stretches the image to exactly w×h. Used for avatars.
func ForceSize(w, h int) Sizing {
	return Sizing{mode: modeForce, width: w, height: h}
}

// Square scales the shorter side to size and crops the longer one about the center.
func Square(size int) Sizing {
	return Sizing{mode: modeSquare, width: size, height: size}
}

// KeepRatio scales the image to fit a maxW×maxH box without changing its aspect ratio.
func KeepRatio(maxW, maxH int) Sizing {
	return Sizing{mode: modeKeepRatio, width: maxW, height: maxH}
}

// placeholderSize is the size of the substitute image when a fetch fails.
func (s Sizing) placeholderSize() image.Point {
	switch s.mode {
	case modeForce, modeSquare:
		if s.width > 0 && s.height > 0 {
			return image.Pt(s.width, s.height)
		}
	case modeKeepRatio:
		if side := min(s.width, s.height); side > 0 {
			return image.Pt(side, side)
		}
	}

	return image.Pt(defaultPlaceholderSize, defaultPlaceholderSize)
}
