package textlayout

import (
	"fmt"
	"math"
	"strings"
)

// Align is the horizontal alignment of each line within its region.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// String returns "left", "center" or "right".
func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// ParseAlign parses an alignment name. The empty string means left.
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	}
	return AlignLeft, fmt.Errorf("invalid align: %q (must be one of: left, center, right)", s)
}

// MarshalText encodes the alignment name.
func (a Align) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText decodes an alignment name.
func (a *Align) UnmarshalText(b []byte) error {
	v, err := ParseAlign(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Region is a top-left anchored box that text is laid out in.
type Region struct {
	X        float64 // left edge
	Y        float64 // top edge, measured down from the top of the page
	Width    float64
	FontSize float64
	LineGap  float64 // extra space between lines; negative values are treated as zero
	Align    Align
	Font     string // face name passed through to the sink
	Color    string // hex color passed through to the sink, "" for the sink default
}

// Unlimited disables the line cap in [Options].
const Unlimited = -1

// Options control how much of the text is kept.
type Options struct {
	// MaxLines caps wrapped lines across all paragraphs. Zero draws nothing;
	// a negative value means no cap.
	MaxLines int
	// Marker, when non-empty, replaces the tail of the last kept line if
	// text was cut off.
	Marker string
}

// Result describes one layout call.
type Result struct {
	Height    float64 `json:"height"`    // vertical space consumed
	Lines     int     `json:"lines"`     // lines laid out, including blank paragraph lines
	Cursor    float64 `json:"cursor"`    // top-down y just below the last line
	Truncated bool    `json:"truncated"` // text was cut at MaxLines
}

// Origin is the corner a sink measures y from.
type Origin int

const (
	TopLeft    Origin = iota // y grows downward (SVG, raster images)
	BottomLeft               // y grows upward (PDF user space)
)

// Page describes the drawing surface behind a sink.
type Page struct {
	Width  float64
	Height float64
	Origin Origin
}

// Run is one positioned line of text in sink coordinates.
// X is the left edge of the line and Y its baseline.
type Run struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FontSize float64 `json:"font_size"`
	Font     string  `json:"font,omitempty"`
	Color    string  `json:"color,omitempty"`
}

// Sink receives positioned runs. Implementations own rasterization.
type Sink interface {
	Page() Page
	DrawRun(Run)
}

// toSinkY converts a top-down y coordinate into the sink's space.
// This is the only place the origin is consulted.
func toSinkY(p Page, y float64) float64 {
	if p.Origin == BottomLeft {
		return p.Height - y
	}
	return y
}

// finite returns v, or 0 if v is NaN or infinite.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
