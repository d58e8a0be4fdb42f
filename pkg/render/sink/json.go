package sink

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/tallyprint/pkg/textlayout"
)

// JSONDocument records draw instructions in PDF point space, with y measured
// up from the bottom of each page.
type JSONDocument struct {
	pages []*page
}

type jsonOutput struct {
	Origin string     `json:"origin"`
	Pages  []jsonPage `json:"pages"`
}

type jsonPage struct {
	Width  float64          `json:"width"`
	Height float64          `json:"height"`
	Runs   []textlayout.Run `json:"runs"`
}

// NewJSON creates an empty recording.
func NewJSON() *JSONDocument { return &JSONDocument{} }

// AddPage appends a page.
func (d *JSONDocument) AddPage(width, height float64) textlayout.Sink {
	p := newPage(width, height, textlayout.BottomLeft)
	d.pages = append(d.pages, p)
	return p
}

// Runs returns the runs recorded on page i.
func (d *JSONDocument) Runs(i int) []textlayout.Run {
	return d.pages[i].runs
}

// Bytes encodes the recording as indented JSON.
func (d *JSONDocument) Bytes(context.Context) ([]byte, error) {
	out := jsonOutput{Origin: "bottom-left", Pages: make([]jsonPage, len(d.pages))}
	for i, p := range d.pages {
		runs := p.runs
		if runs == nil {
			runs = []textlayout.Run{}
		}
		out.Pages[i] = jsonPage{Width: p.page.Width, Height: p.page.Height, Runs: runs}
	}
	return json.MarshalIndent(out, "", "  ")
}
