package textlayout_test

import (
	"fmt"

	"github.com/matzehuels/tallyprint/pkg/textlayout"
)

type printer struct{}

func (printer) Page() textlayout.Page { return textlayout.Page{Width: 200, Height: 200} }
func (printer) DrawRun(r textlayout.Run) {
	fmt.Printf("%.1f %.1f %s\n", r.X, r.Y, r.Text)
}

func ExampleEngine_Draw() {
	eng := textlayout.New(textlayout.Heuristic{})
	region := textlayout.Region{X: 10, Y: 10, Width: 60, FontSize: 10, LineGap: 2}

	res, _ := eng.Draw(printer{}, "The quick brown fox jumps over the lazy dog", region,
		textlayout.Options{MaxLines: 3, Marker: "..."})
	fmt.Println(res.Lines, res.Truncated, res.Cursor)
	// Output:
	// 10.0 20.0 The quick
	// 10.0 32.0 brown fox
	// 10.0 44.0 jumps o...
	// 3 true 46
}
