// Package narrative holds the copy catalog that turns a classification into
// prose.
//
// A [Catalog] has four sections. "shape" is keyed by shape keys such as
// "three_two.R.T"; "dominant" and "secondary" are keyed by category letter;
// "categories" holds display labels. Shape lookups fall back through key
// prefixes, so a catalog can cover every distribution with one entry per
// pattern and override only the combinations it cares about:
//
//	three_two.R.T  ->  three_two.R  ->  three_two
//
// Missing copy is an ordinary outcome: [Catalog.Lookup] reports it with a
// false second value and callers render nothing.
//
// Catalogs are written in TOML or YAML; [Load] picks the decoder from the file
// extension and [Default] returns the embedded catalog.
package narrative
