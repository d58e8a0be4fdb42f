// Package pkg provides the core libraries for tallyprint.
//
// # Overview
//
// Tallyprint turns a tally of observations across four categories into a
// printed report: the tally is classified into a shape, the shape selects
// narrative copy, and the copy is laid out in fixed boxes on fixed-size
// pages.
//
// # Architecture
//
// The typical data flow:
//
//	Payload (name + counts)
//	         ↓
//	    [classify] package (dominant, secondary, shape key)
//	         ↓
//	    [narrative] package (shape key → copy)
//	         ↓
//	    [report] package (template regions, chained top to bottom)
//	         ↓
//	    [textlayout] package (wrap, truncate, align, draw)
//	         ↓
//	    [render/sink] package (SVG/PNG/PDF/JSON output)
//
// [pipeline] runs the whole flow per format with caching through [cache].
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/tallyprint/pkg/report"
//	    "github.com/matzehuels/tallyprint/pkg/render/sink"
//	)
//
//	p, _ := report.ParsePayload(data)
//	doc := sink.NewSVG()
//	summary, _ := report.NewAssembler(nil, nil, nil).Assemble(ctx, p, doc)
//	svg, _ := doc.Bytes(ctx)
//
// # Main Packages
//
//   - [tally]: category enum and immutable count vectors
//   - [classify]: deterministic shape classifier
//   - [textlayout]: box-constrained text layout engine
//   - [fonts]: embedded Go fonts with exact measurement
//   - [narrative]: copy catalogs with hierarchical key fallback
//   - [report]: payloads, templates and the page assembler
//   - [render/sink]: output documents
//   - [pipeline]: cached, concurrent multi-format rendering
//   - [cache]: file, redis and mongo artifact caches
//   - [observability]: pipeline and cache hooks
//   - [errors]: coded errors
//
// [tally]: https://pkg.go.dev/github.com/matzehuels/tallyprint/pkg/tally
// [classify]: https://pkg.go.dev/github.com/matzehuels/tallyprint/pkg/classify
// [textlayout]: https://pkg.go.dev/github.com/matzehuels/tallyprint/pkg/textlayout
// [fonts]: https://pkg.go.dev/github.com/matzehuels/tallyprint/pkg/fonts
// [narrative]: https://pkg.go.dev/github.com/matzehuels/tallyprint/pkg/narrative
// [report]: https://pkg.go.dev/github.com/matzehuels/tallyprint/pkg/report
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/tallyprint/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/tallyprint/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/tallyprint/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/tallyprint/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/tallyprint/pkg/errors
package pkg
