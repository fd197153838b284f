package media

import (
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

const (
	placeholderColor = "#E0E0E0"
	placeholderText  = "图片\n加载失败"
	placeholderInk   = "#666666"
	avatarColor      = "#4A90E2"
	avatarShadow     = 2
)

// Placeholder is the grey tile drawn instead of an image that could not be
// fetched. The label is only drawn when a face is given.
func Placeholder(w, h int, face font.Face) image.Image {
	dc := gg.NewContext(w, h)
	dc.SetHexColor(placeholderColor)
	dc.Clear()

	if face == nil {
		return dc.Image()
	}

	dc.SetFontFace(face)
	dc.SetHexColor(placeholderInk)

	for i, line := range strings.Split(placeholderText, "\n") {
		dc.DrawStringAnchored(line, 10, 10+float64(i)*dc.FontHeight()*1.2, 0, 1)
	}

	return dc.Image()
}

// PlayOverlay marks a video poster with a translucent play button centered
// on the image. The button is a quarter of the shorter side.
func PlayOverlay(img image.Image) image.Image {
	dc := gg.NewContextForImage(img)
	w, h := dc.Width(), dc.Height()

	icon := min(w, h) / 4
	r := float64(icon / 2)
	cx := float64((w-icon)/2) + r
	cy := float64((h-icon)/2) + r

	dc.SetRGBA255(0, 0, 0, 128)
	dc.DrawCircle(cx, cy, r)
	dc.Fill()

	tri := icon / 3
	tx := cx - float64(tri/3)
	half := float64(tri / 2)

	dc.SetRGBA255(255, 255, 255, 255)
	dc.MoveTo(tx, cy-half)
	dc.LineTo(tx, cy+half)
	dc.LineTo(tx+float64(tri), cy)
	dc.ClosePath()
	dc.Fill()

	return dc.Image()
}

// DefaultAvatar is used for channels without an image: a blue square with
// a white disc.
func DefaultAvatar(size int) image.Image {
	dc := gg.NewContext(size, size)
	dc.SetHexColor(avatarColor)
	dc.Clear()

	dc.SetHexColor("#FFFFFF")
	dc.DrawEllipse(float64(size)/2, float64(size)/2, float64(size)/2-5, float64(size)/2-5)
	dc.Fill()

	return dc.Image()
}

// CircleAvatar masks img into a size×size circle on a white backing and
// adds a soft shadow offset down right. The result is size+4 pixels wide.
func CircleAvatar(img image.Image, size int) image.Image {
	full := size + 2*avatarShadow
	radius := float64(size) / 2

	dc := gg.NewContext(full, full)

	dc.SetRGBA255(0, 0, 0, 30)
	dc.DrawCircle(avatarShadow+radius, avatarShadow+radius, radius)
	dc.Fill()

	dc.DrawCircle(radius, radius, radius)
	dc.Clip()

	dc.SetHexColor("#FFFFFF")
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()
	dc.DrawImage(imaging.Resize(img, size, size, imaging.Lanczos), 0, 0)
	dc.ResetClip()

	return dc.Image()
}
