package textlayout

import (
	"strings"

	"github.com/matzehuels/tallyprint/pkg/errors"
)

// Engine lays text out in regions. It holds no mutable state and is safe for
// concurrent use as long as its Measurer is.
type Engine struct {
	measurer Measurer
}

// New creates an engine backed by m. A nil m uses [Heuristic].
func New(m Measurer) *Engine {
	if m == nil {
		m = Heuristic{}
	}
	return &Engine{measurer: m}
}

// Measurer returns the engine's measurer.
func (e *Engine) Measurer() Measurer {
	if e == nil || e.measurer == nil {
		return Heuristic{}
	}
	return e.measurer
}

// Line is one laid-out line in top-down page coordinates.
type Line struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Top      float64 `json:"top"`
	Baseline float64 `json:"baseline"`
	Width    float64 `json:"width"` // measured advance width
}

// Plan is a layout computed without drawing.
type Plan struct {
	Lines  []Line
	Budget int // estimated characters per line
	Result Result
}

// Plan lays text out in r without emitting anything.
func (e *Engine) Plan(text string, r Region, opts Options) Plan {
	top := finite(r.Y)
	empty := Plan{Result: Result{Cursor: top}}

	size, width := finite(r.FontSize), finite(r.Width)
	if size <= 0 || width <= 0 || opts.MaxLines == 0 {
		return empty
	}
	text = strings.Trim(Normalize(text), "\n")
	if strings.TrimSpace(text) == "" {
		return empty
	}

	m := e.Measurer()
	budget := CharBudget(m, width, size)
	wrapped, truncated := wrapText(text, budget, opts.MaxLines)
	if truncated && opts.Marker != "" {
		last := len(wrapped) - 1
		wrapped[last] = withMarker(wrapped[last], Normalize(opts.Marker), budget)
	}

	step := size + max(0, finite(r.LineGap))
	x := finite(r.X)
	lines := make([]Line, len(wrapped))
	for i, s := range wrapped {
		lineTop := top + float64(i)*step
		w := finite(m.MeasureWidth(s, size))
		lines[i] = Line{
			Text:     s,
			X:        alignX(r.Align, x, width, w),
			Top:      lineTop,
			Baseline: lineTop + size,
			Width:    w,
		}
	}

	height := float64(len(lines)) * step
	return Plan{
		Lines:  lines,
		Budget: budget,
		Result: Result{
			Height:    height,
			Lines:     len(lines),
			Cursor:    top + height,
			Truncated: truncated,
		},
	}
}

// Draw lays text out in r and emits one run per non-blank line to sink.
// It fails only if sink is nil.
func (e *Engine) Draw(sink Sink, text string, r Region, opts Options) (Result, error) {
	if sink == nil {
		return Result{}, errors.Precondition("textlayout: nil sink")
	}
	plan := e.Plan(text, r, opts)
	page := sink.Page()
	for _, l := range plan.Lines {
		if l.Text == "" {
			continue
		}
		sink.DrawRun(Run{
			Text:     l.Text,
			X:        l.X,
			Y:        toSinkY(page, l.Baseline),
			FontSize: r.FontSize,
			Font:     r.Font,
			Color:    r.Color,
		})
	}
	return plan.Result, nil
}

// alignX returns the left edge of a line of the given measured width.
// Lines wider than the region start at x.
func alignX(a Align, x, width, measured float64) float64 {
	slack := max(0, width-measured)
	switch a {
	case AlignCenter:
		return x + slack/2
	case AlignRight:
		return x + slack
	default:
		return x
	}
}
