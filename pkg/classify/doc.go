// Package classify maps a [tally.Counts] vector to a canonical shape key.
//
// A shape key names the structure of a count distribution (five of a kind,
// four-one, three-two, ...) together with the categories that fill its slots,
// for example "three_two.R.T". Report narratives are looked up by that key.
//
// # Tie-breaking
//
// Whenever several categories share the highest remaining count, the one that
// comes first in [tally.PriorityOrder] (L, R, T, C) wins. [Dominant] and
// [Secondary] are the only two places that resolve ties.
//
// The tertiary slot of the 3,1,1 shape is the one exception: it is taken by
// scanning insertion order (C, T, R, L) for the first remaining positive count.
// With the major and secondary categories removed exactly one positive count
// is left, so both orders produce the same category today.
//
// # Failure semantics
//
// Nothing in this package fails. Vectors whose signature matches no known
// shape classify as [Fallback], which serializes like five-of-a-kind for the
// dominant category. With a total of 5 that happens only for the 2,1,1,1
// signature; other totals reach it more often.
//
// # Usage
//
//	res := classify.Classify(tally.New(0, 2, 3, 0))
//	fmt.Println(res.Dominant, res.Shape.Key()) // R three_two.R.T
package classify
