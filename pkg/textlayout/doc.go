// Package textlayout wraps, truncates, aligns and positions text inside fixed
// rectangular regions of a page.
//
// # Overview
//
// A [Region] is anchored at its top-left corner with y measured downward from
// the top of the page. [Engine.Draw] lays text out inside it and emits one
// positioned [Run] per line to a caller-supplied [Sink]. The returned [Result]
// reports the height consumed and the cursor below the last line, so the
// caller can start the next region there without overlap:
//
//	eng := textlayout.New(fonts.Regular())
//	res, err := eng.Draw(page, intro, textlayout.Region{X: 40, Y: 80, Width: 515, FontSize: 12, LineGap: 4},
//	    textlayout.Options{MaxLines: 6, Marker: "..."})
//	next := textlayout.Region{X: 40, Y: res.Cursor + 12, Width: 515, FontSize: 11}
//
// # Measurement
//
// Wrap points come from an average glyph width estimate; alignment uses the
// exact width of each finished line. Both are methods of [Measurer], so a
// font-backed measurer can replace [Heuristic] without changing the wrap
// algorithm. Because of the estimate, a line may wrap slightly early or late.
//
// # Coordinates
//
// Sinks declare their origin through [Page]. Everything in this package works
// top-down and converts to the sink's space in exactly one place, right before
// a run is emitted.
//
// # Degenerate input
//
// Empty text, a non-positive or non-finite width or font size, and
// MaxLines == 0 all produce a zero-height result and no draw calls. The only
// error is a nil sink.
package textlayout
