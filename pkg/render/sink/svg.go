package sink

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/tallyprint/pkg/fonts"
	"github.com/matzehuels/tallyprint/pkg/textlayout"
)

// DefaultPageGap is the vertical gap between stacked pages.
const DefaultPageGap = 24.0

// SVGOption configures an [SVGDocument].
type SVGOption func(*SVGDocument)

// WithPageGap sets the gap between stacked pages.
func WithPageGap(gap float64) SVGOption {
	return func(d *SVGDocument) { d.gap = max(0, gap) }
}

// WithBackground sets the page fill color.
func WithBackground(hex string) SVGOption {
	return func(d *SVGDocument) { d.background = colorOr(hex, defaultBackground) }
}

// WithEmbeddedFonts inlines the Go fonts as @font-face data URIs so the SVG
// renders identically without the fonts installed.
func WithEmbeddedFonts() SVGOption {
	return func(d *SVGDocument) { d.embedFonts = true }
}

// SVGDocument renders pages as <text> elements in a top-left coordinate space.
type SVGDocument struct {
	pages      []*page
	gap        float64
	background string
	embedFonts bool
}

// NewSVG creates an empty SVG document.
func NewSVG(opts ...SVGOption) *SVGDocument {
	d := &SVGDocument{gap: DefaultPageGap, background: defaultBackground}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddPage appends a page.
func (d *SVGDocument) AddPage(width, height float64) textlayout.Sink {
	p := newPage(width, height, textlayout.TopLeft)
	d.pages = append(d.pages, p)
	return p
}

// Pages returns the number of pages.
func (d *SVGDocument) Pages() int { return len(d.pages) }

// Bytes renders every page stacked vertically.
func (d *SVGDocument) Bytes(context.Context) ([]byte, error) {
	w, h := stackWidth(d.pages), stackHeight(d.pages, d.gap)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	d.writeDefs(&buf)

	var offset float64
	for i, p := range d.pages {
		fmt.Fprintf(&buf, `  <g id="page-%d" transform="translate(0 %.2f)">`+"\n", i+1, offset)
		d.writePage(&buf, p)
		buf.WriteString("  </g>\n")
		offset += p.page.Height + d.gap
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// PageSVG renders page i alone with point units, as expected by PDF conversion.
func (d *SVGDocument) PageSVG(i int) []byte {
	p := d.pages[i]
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.1fpt" height="%.1fpt">`+"\n",
		p.page.Width, p.page.Height, p.page.Width, p.page.Height)
	d.writeDefs(&buf)
	d.writePage(&buf, p)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (d *SVGDocument) writeDefs(buf *bytes.Buffer) {
	if !d.embedFonts {
		return
	}
	buf.WriteString("  <defs><style>\n")
	for _, name := range fonts.Names() {
		f, _ := fonts.Lookup(name)
		fmt.Fprintf(buf, "    @font-face { font-family: '%s'; font-weight: %s; src: url(data:font/ttf;base64,%s) format('truetype'); }\n",
			f.CSSFamily(), f.CSSWeight(), f.TTFBase64())
	}
	buf.WriteString("  </style></defs>\n")
}

func (d *SVGDocument) writePage(buf *bytes.Buffer, p *page) {
	fmt.Fprintf(buf, `    <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		p.page.Width, p.page.Height, d.background)
	for _, r := range p.runs {
		writeText(buf, r)
	}
}

func writeText(buf *bytes.Buffer, r textlayout.Run) {
	f, ok := fonts.Lookup(r.Font)
	if !ok {
		f = fonts.Regular()
	}
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-family="%s, %s" font-weight="%s" font-size="%.2f" fill="%s" xml:space="preserve">%s</text>`+"\n",
		r.X, r.Y, f.CSSFamily(), fonts.FallbackFontFamily, f.CSSWeight(), r.FontSize,
		colorOr(r.Color, defaultColor), escapeXML(r.Text))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
