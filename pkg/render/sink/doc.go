// Package sink provides the page documents that laid-out text is drawn into.
//
// # Overview
//
// A [Document] hands out one [textlayout.Sink] per page through AddPage and
// serializes all pages with Bytes. Four formats are provided:
//
//   - SVG: pages stacked vertically in one SVG file ([SVGDocument])
//   - PNG: the same stack rasterized with gg ([RasterDocument])
//   - PDF: one PDF page per page, converted by rsvg-convert ([PDFDocument])
//   - JSON: a draw-instruction recording in PDF point space ([JSONDocument])
//
// Documents are not safe for concurrent use; render each format into its
// own document.
//
// # Coordinates
//
// SVG and PNG pages use a top-left origin. The JSON recording uses a
// bottom-left origin so its coordinates can be replayed onto a PDF canvas
// directly. Each page reports its origin and the layout engine converts.
//
// # PDF Output
//
// [PDFDocument] requires librsvg:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// Without it, Bytes fails with an UNSUPPORTED error.
package sink
