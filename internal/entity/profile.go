package entity

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	ProfileStandard = "standard"
	ProfileUltraHD  = "ultrahd"
)

const ultraHDScale = 3.2

var ErrUnknownProfile = errors.New("unknown rendering profile")

// Profile is a rendering preset. All distances are in pixels, font sizes in points at 72 DPI.
type Profile struct {
	Name string

	Width        int
	Margin       int
	Padding      int
	Spacing      int
	MediaSpacing int
	FooterPad    int

	AvatarSize int
	// Horizontal gap between the avatar and the author name.
	NameGap int
	// Offset of the author name from the avatar top.
	NameOffset int
	// Offset of the time label from the author name.
	TimeOffset int
	// Gap between the header and the first text line.
	TextOffset int

	SingleTile int
	GridTile   int
	GridGap    int

	NameFontSize    float64
	TimeFontSize    float64
	ContentFontSize float64
	LineSpacing     int

	Background string
	NameColor  string
	TimeColor  string
	TextColor  string

	JPEGQuality int
}

// StandardProfile is the 750px wide preset.
func StandardProfile() Profile {
	return Profile{
		Name:         ProfileStandard,
		Width:        750,
		Margin:       20,
		Padding:      25,
		Spacing:      15,
		MediaSpacing: 25,
		FooterPad:    40,

		AvatarSize: 60,
		NameGap:    15,
		NameOffset: 8,
		TimeOffset: 28,
		TextOffset: 10,

		SingleTile: 600,
		GridTile:   200,
		GridGap:    8,

		NameFontSize:    22,
		TimeFontSize:    16,
		ContentFontSize: 20,
		LineSpacing:     12,

		Background: "#FAFAFA",
		NameColor:  "#1A1A1A",
		TimeColor:  "#666666",
		TextColor:  "#1A1A1A",

		JPEGQuality: 95,
	}
}

// UltraHDProfile is the standard preset scaled to a 2400px wide canvas.
func UltraHDProfile() Profile {
	p := StandardProfile().Scale(ultraHDScale)
	p.Name = ProfileUltraHD

	return p
}

// Scale returns a copy with every distance and font size multiplied by factor.
func (p Profile) Scale(factor float64) Profile {
	px := func(v int) int {
		return int(math.Round(float64(v) * factor))
	}

	p.Width = px(p.Width)
	p.Margin = px(p.Margin)
	p.Padding = px(p.Padding)
	p.Spacing = px(p.Spacing)
	p.MediaSpacing = px(p.MediaSpacing)
	p.FooterPad = px(p.FooterPad)
	p.AvatarSize = px(p.AvatarSize)
	p.NameGap = px(p.NameGap)
	p.NameOffset = px(p.NameOffset)
	p.TimeOffset = px(p.TimeOffset)
	p.TextOffset = px(p.TextOffset)
	p.SingleTile = px(p.SingleTile)
	p.GridTile = px(p.GridTile)
	p.GridGap = px(p.GridGap)
	p.LineSpacing = px(p.LineSpacing)
	p.NameFontSize *= factor
	p.TimeFontSize *= factor
	p.ContentFontSize *= factor

	return p
}

// ContentWidth is the width available to text and media.
func (p Profile) ContentWidth() int {
	return p.Width - 2*(p.Margin+p.Padding)
}

// ProfileByName resolves a preset name, empty meaning standard.
func ProfileByName(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProfileStandard:
		return StandardProfile(), nil
	case ProfileUltraHD, "ultra-hd", "uhd":
		return UltraHDProfile(), nil
	default:
		return Profile{}, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
}
