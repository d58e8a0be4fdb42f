// Package tally models the observation record behind a report: how many times
// each of four behavioral categories was observed.
//
// # Categories
//
// The four categories are [C], [T], [R] and [L]. Two fixed orders exist over
// them and both are package-level constants:
//
//   - [Categories] is insertion order (C, T, R, L), used for display and for
//     the one scan that deliberately does not use priority.
//   - [PriorityOrder] is the tie-break order (L, R, T, C), highest first.
//
// # Counts
//
// [Counts] is an immutable value. Construct it with [New] or [FromValues];
// both clamp anything that is not a finite non-negative number to zero, so a
// Counts value is always valid and downstream code never has to re-check it.
// Nothing assumes a particular total.
package tally
