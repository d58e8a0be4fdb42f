package textlayout

import (
	"strings"
)

// Wrap breaks one paragraph into lines of at most budget characters.
//
// Lines break at the last space at or before the budget. A run with no such
// space is hard-cut at the budget. Spaces at a break are dropped; leading
// spaces of the first line are kept. A blank paragraph yields one empty line.
func Wrap(paragraph string, budget int) []string {
	budget = max(1, budget)
	rs := []rune(strings.ReplaceAll(paragraph, "\t", " "))

	var lines []string
	for first := true; ; first = false {
		if !first {
			rs = trimLeft(rs)
		}
		if len(rs) <= budget {
			return append(lines, strings.TrimRight(string(rs), " "))
		}
		cut := -1
		for i := budget; i > 0; i-- {
			if rs[i] == ' ' {
				cut = i
				break
			}
		}
		if cut < 0 {
			lines = append(lines, string(rs[:budget]))
			rs = rs[budget:]
			continue
		}
		lines = append(lines, strings.TrimRight(string(rs[:cut]), " "))
		rs = rs[cut+1:]
	}
}

// wrapText wraps every paragraph of normalized text and applies the line
// cap across all of them. A negative maxLines disables the cap.
func wrapText(text string, budget, maxLines int) (lines []string, truncated bool) {
	for _, p := range strings.Split(text, "\n") {
		lines = append(lines, Wrap(p, budget)...)
		if maxLines >= 0 && len(lines) > maxLines {
			return lines[:maxLines], true
		}
	}
	return lines, false
}

// withMarker replaces the tail of line with marker so the result still fits
// in budget characters.
func withMarker(line, marker string, budget int) string {
	m := []rune(marker)
	if len(m) >= budget {
		return string(m[:budget])
	}
	rs := []rune(line)
	keep := min(len(rs), budget-len(m))
	return strings.TrimRight(string(rs[:keep]), " ") + marker
}

func trimLeft(rs []rune) []rune {
	i := 0
	for i < len(rs) && rs[i] == ' ' {
		i++
	}
	return rs[i:]
}
