// Package layout computes the pixel geometry of a post image.
package layout

import (
	"math"
	"strings"
)

// Measurer reports the rendered size of a string for a fixed font.
// *gg.Context satisfies it.
type Measurer interface {
	MeasureString(s string) (w, h float64)
}

// Characters a line may break after.
const breakRunes = "，。！？；：、“”‘’（）【】《》\"' ,.!?;:"

// Wrap splits text into lines no wider than maxWidth. Every input line is a
// paragraph; blank paragraphs become empty lines. A line that overflows is
// broken after its last punctuation mark or space, else at three quarters of
// its length. A single character wider than maxWidth gets a line of its own.
func Wrap(text string, m Measurer, maxWidth float64) []string {
	if text == "" {
		return nil
	}

	var lines []string

	for _, paragraph := range strings.Split(text, "\n") {
		if strings.TrimSpace(paragraph) == "" {
			lines = append(lines, "")
			continue
		}

		lines = wrapParagraph(lines, []rune(paragraph), m, maxWidth)
	}

	return lines
}

func wrapParagraph(lines []string, runes []rune, m Measurer, maxWidth float64) []string {
	var current []rune

	for i := 0; i < len(runes); {
		candidate := append(current[:len(current):len(current)], runes[i])

		if w, _ := m.MeasureString(string(candidate)); w <= maxWidth {
			current = candidate
			i++

			continue
		}

		if len(current) == 0 {
			lines = append(lines, string(runes[i]))
			i++

			continue
		}

		// The current rune is retried against the carried remainder
		if bp := breakPosition(current); bp > 0 && bp < len(current) {
			lines = append(lines, string(current[:bp]))
			current = current[bp:]
		} else {
			lines = append(lines, string(current))
			current = nil
		}
	}

	if len(current) > 0 {
		lines = append(lines, string(current))
	}

	return lines
}

// breakPosition returns the rune count of the line part to emit.
func breakPosition(line []rune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if strings.ContainsRune(breakRunes, line[i]) {
			return i + 1
		}
	}

	if len(line) > 4 {
		return int(float64(len(line)) * 0.75)
	}

	return len(line)
}

// TextBlock is a wrapped text with its rendered height.
type TextBlock struct {
	Lines      []string
	LineHeight float64
	// Spacing between consecutive lines.
	LineSpacing float64
	Height      int
}

// NewTextBlock measures n lines as n line heights plus n-1 spacings.
func NewTextBlock(lines []string, lineHeight, lineSpacing float64) TextBlock {
	block := TextBlock{Lines: lines, LineHeight: lineHeight, LineSpacing: lineSpacing}

	if n := len(lines); n > 0 {
		block.Height = int(math.Ceil(float64(n)*lineHeight + float64(n-1)*lineSpacing))
	}

	return block
}

// LineY is the top of line i relative to the block top.
func (b TextBlock) LineY(i int) float64 {
	return float64(i) * (b.LineHeight + b.LineSpacing)
}

func (b TextBlock) String() string {
	return strings.Join(b.Lines, "\n")
}
