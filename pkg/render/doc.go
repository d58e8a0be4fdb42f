// Package render groups the output side of tallyprint.
//
// The [sink] subpackage provides the documents the layout engine draws
// into. Each document hands out one textlayout.Sink per page and encodes
// all pages when asked for its bytes:
//
//   - SVG: pages stacked vertically, text as <text> elements
//   - PNG: rasterized with the embedded fonts
//   - PDF: SVG pages converted by the external rsvg-convert tool
//   - JSON: draw instructions in PDF point space (bottom-left origin)
//
// [sink]: https://pkg.go.dev/github.com/matzehuels/tallyprint/pkg/render/sink
package render
