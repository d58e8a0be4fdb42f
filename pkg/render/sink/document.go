package sink

import (
	"context"
	"regexp"
	"strings"

	"github.com/matzehuels/tallyprint/pkg/errors"
	"github.com/matzehuels/tallyprint/pkg/textlayout"
)

// Document collects pages and serializes them.
type Document interface {
	// AddPage appends a page of the given size in points and returns the
	// sink that draws onto it.
	AddPage(width, height float64) textlayout.Sink
	// Bytes serializes every page added so far.
	Bytes(ctx context.Context) ([]byte, error)
}

// Format names an output format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatSVG, FormatPNG, FormatPDF, FormatJSON}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (must be one of: svg, png, pdf, json)", s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// New creates an empty document for the format. Scale applies to PNG only;
// values <= 0 use the default.
func New(f Format, scale float64) (Document, error) {
	switch f {
	case FormatSVG:
		return NewSVG(), nil
	case FormatPNG:
		return NewRaster(WithScale(scale)), nil
	case FormatPDF:
		return NewPDF(), nil
	case FormatJSON:
		return NewJSON(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
}

const (
	defaultColor      = "#000000"
	defaultBackground = "#ffffff"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether s is a #rgb or #rrggbb color.
func ValidColor(s string) bool { return hexColor.MatchString(s) }

// colorOr returns s if it is a valid color, else def.
func colorOr(s, def string) string {
	if ValidColor(s) {
		return s
	}
	return def
}

// page is the recording sink shared by all documents.
type page struct {
	page textlayout.Page
	runs []textlayout.Run
}

func (p *page) Page() textlayout.Page    { return p.page }
func (p *page) DrawRun(r textlayout.Run) { p.runs = append(p.runs, r) }

func newPage(w, h float64, o textlayout.Origin) *page {
	return &page{page: textlayout.Page{Width: max(0, w), Height: max(0, h), Origin: o}}
}

// stackHeight returns the height of pages stacked with gap between them.
func stackHeight(pages []*page, gap float64) float64 {
	var h float64
	for i, p := range pages {
		if i > 0 {
			h += gap
		}
		h += p.page.Height
	}
	return h
}

// stackWidth returns the widest page width.
func stackWidth(pages []*page) float64 {
	var w float64
	for _, p := range pages {
		w = max(w, p.page.Width)
	}
	return w
}
