// Package report assembles a classified payload into laid-out pages.
//
// # Overview
//
// A [Template] describes pages and the text regions on them. Each region
// names a source for its text: the record's name, a narrative section from
// the catalog, a category label, the raw counts or literal text. The
// [Assembler] classifies the payload once, then walks every page in order,
// drawing each region through the layout engine:
//
//	asm := report.NewAssembler(tpl, catalog, logger)
//	summary, err := asm.Assemble(ctx, payload, sink.NewSVG())
//
// # Vertical flow
//
// A region with an "after" reference starts below the cursor of an earlier
// region on the same page, plus its own spacing. Its y, if set, is a lower
// bound. Chained regions therefore never overlap, however many lines the
// earlier region wrapped to.
//
// # Missing copy
//
// When the catalog has no copy for a region, nothing is drawn for it, a
// warning is logged and the region is flagged in the [Summary]. It is never
// an error.
package report
