package sink

import (
	"context"

	"github.com/matzehuels/tallyprint/pkg/errors"
	"github.com/matzehuels/tallyprint/pkg/textlayout"
)

// PDFOption configures a [PDFDocument].
type PDFOption func(*PDFDocument)

// WithConverter replaces the rsvg-convert converter.
func WithConverter(c Converter) PDFOption {
	return func(d *PDFDocument) { d.convert = c }
}

// WithPDFSVGOptions passes options through to the underlying SVG pages.
func WithPDFSVGOptions(opts ...SVGOption) PDFOption {
	return func(d *PDFDocument) { d.svgOpts = opts }
}

// PDFDocument renders every page as SVG and converts them into one PDF.
// Pages use a top-left origin because the conversion happens on SVG.
type PDFDocument struct {
	svg     *SVGDocument
	svgOpts []SVGOption
	convert Converter
}

// NewPDF creates an empty PDF document.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func NewPDF(opts ...PDFOption) *PDFDocument {
	d := &PDFDocument{convert: RSVGConverter(DefaultRSVG)}
	for _, opt := range opts {
		opt(d)
	}
	d.svg = NewSVG(append([]SVGOption{WithEmbeddedFonts()}, d.svgOpts...)...)
	return d
}

// AddPage appends a page.
func (d *PDFDocument) AddPage(width, height float64) textlayout.Sink {
	return d.svg.AddPage(width, height)
}

// Bytes converts all pages into a multi-page PDF.
func (d *PDFDocument) Bytes(ctx context.Context) ([]byte, error) {
	n := d.svg.Pages()
	if n == 0 {
		return nil, errors.Precondition("pdf: document has no pages")
	}
	pages := make([][]byte, n)
	for i := range pages {
		pages[i] = d.svg.PageSVG(i)
	}
	return d.convert(ctx, string(FormatPDF), pages)
}
