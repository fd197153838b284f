package layout_test

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/nDmitry/weibocard/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monospace measures 10px per terminal cell, so CJK characters are 20px wide.
type monospace struct{}

func (monospace) MeasureString(s string) (float64, float64) {
	return float64(runewidth.StringWidth(s) * 10), 20
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    float64
		expected []string
	}{
		{
			name:     "Empty text",
			text:     "",
			width:    100,
			expected: nil,
		},
		{
			name:     "Fits on one line",
			text:     "hello",
			width:    100,
			expected: []string{"hello"},
		},
		{
			name:     "Breaks after the last space",
			text:     "hello world foo",
			width:    100,
			expected: []string{"hello ", "world foo"},
		},
		{
			name:     "Short CJK lines break at the limit",
			text:     "微博微博微博",
			width:    50,
			expected: []string{"微博", "微博", "微博"},
		},
		{
			name:     "CJK punctuation then three quarters",
			text:     "你好，世界和平万岁",
			width:    100,
			expected: []string{"你好，", "世界和", "平万岁"},
		},
		{
			name:     "Blank paragraphs are kept",
			text:     "a\n\nb\n   \nc",
			width:    100,
			expected: []string{"a", "", "b", "", "c"},
		},
		{
			name:     "Character wider than the budget stands alone",
			text:     "微a",
			width:    15,
			expected: []string{"微", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, layout.Wrap(tt.text, monospace{}, tt.width))
		})
	}
}

func TestWrap_Properties(t *testing.T) {
	texts := []string{
		"庵野秀明妻子安野梦洋子的少女漫画『魔女的考验』新作短篇动画化，监督：松井祐亮，动画制作：Khara。",
		"The quick brown fox jumps over the lazy dog, again and again; and then it rests.",
		"混合 mixed 文本 text，带有标点！and punctuation? 还有（括号）与【方括号】《书名号》",
		"Averyveryverylongwordwithoutanybreakopportunitiesatallwhatsoever",
		strings.Repeat("微", 97),
	}

	for _, text := range texts {
		for _, width := range []float64{15, 40, 95, 200, 660} {
			lines := layout.Wrap(text, monospace{}, width)

			require.NotEmpty(t, lines)
			assert.Equal(t, text, strings.Join(lines, ""), "no character may be lost")
			assert.Equal(t, lines, layout.Wrap(text, monospace{}, width), "wrapping is deterministic")

			for _, line := range lines {
				w, _ := monospace{}.MeasureString(line)

				if len([]rune(line)) > 1 {
					assert.LessOrEqual(t, w, width, "line %q exceeds %v", line, width)
				}
			}
		}
	}
}

func TestNewTextBlock(t *testing.T) {
	block := layout.NewTextBlock([]string{"a", "", "b"}, 20, 12)

	assert.Equal(t, 84, block.Height)
	assert.Equal(t, "a\n\nb", block.String())
	assert.InDelta(t, 64.0, block.LineY(2), 0.001)

	assert.Equal(t, 0, layout.NewTextBlock(nil, 20, 12).Height)
	assert.Equal(t, 27, layout.NewTextBlock([]string{"x"}, 26.4, 12).Height)
}
