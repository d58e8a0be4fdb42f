package textlayout

import (
	"math"
	"unicode/utf8"
)

// DefaultGlyphRatio is the average glyph advance as a fraction of the font
// size for proportional sans-serif faces.
const DefaultGlyphRatio = 0.55

// maxBudget bounds the per-line character budget for absurdly wide regions.
const maxBudget = 1 << 16

// Measurer supplies the two width capabilities the engine needs.
//
// AverageGlyphWidth is a cheap estimate used only to choose wrap points.
// MeasureWidth is the exact advance width of a finished line, used for
// center and right alignment.
type Measurer interface {
	AverageGlyphWidth(fontSize float64) float64
	MeasureWidth(s string, fontSize float64) float64
}

// Heuristic estimates every width from an average glyph ratio.
// The zero value uses DefaultGlyphRatio.
type Heuristic struct {
	Ratio float64
}

// AverageGlyphWidth returns Ratio × fontSize.
func (h Heuristic) AverageGlyphWidth(fontSize float64) float64 {
	ratio := h.Ratio
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		ratio = DefaultGlyphRatio
	}
	return ratio * fontSize
}

// MeasureWidth returns the rune count times the average glyph width.
func (h Heuristic) MeasureWidth(s string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(s)) * h.AverageGlyphWidth(fontSize)
}

// CharBudget estimates how many characters fit on one line of the given
// width. It is always at least 1 so wrapping makes progress.
func CharBudget(m Measurer, width, fontSize float64) int {
	avg := finite(m.AverageGlyphWidth(fontSize))
	if avg <= 0 {
		avg = Heuristic{}.AverageGlyphWidth(fontSize)
	}
	if avg <= 0 {
		return 1
	}
	n := math.Floor(finite(width) / avg)
	switch {
	case n < 1:
		return 1
	case n > maxBudget:
		return maxBudget
	}
	return int(n)
}
