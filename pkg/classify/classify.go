package classify

import "github.com/matzehuels/tallyprint/pkg/tally"

// DefaultCategory is returned by Dominant if no category can be selected.
// It is the highest-priority category.
const DefaultCategory = tally.L

// Result is the full classification of a count vector.
type Result struct {
	Counts    tally.Counts
	Dominant  tally.Category
	Secondary tally.Category // tally.None when no other category was observed
	Shape     Shape
}

// Key is shorthand for r.Shape.Key().
func (r Result) Key() string { return r.Shape.Key() }

// Classify derives the dominant and secondary categories and the shape key.
// It never fails.
func Classify(counts tally.Counts) Result {
	dom := Dominant(counts)
	return Result{
		Counts:    counts,
		Dominant:  dom,
		Secondary: Secondary(counts, dom),
		Shape:     ShapeOf(counts),
	}
}

// Dominant returns the category with the highest count, breaking ties by
// tally.PriorityOrder. An all-zero vector ties every category, so the result
// is the highest-priority category.
func Dominant(counts tally.Counts) tally.Category {
	if c := pick(counts, counts.Max()); c != tally.None {
		return c
	}
	return DefaultCategory
}

// Secondary applies the Dominant tie-break to counts with excluding removed.
// It returns tally.None when no remaining category has a positive count.
func Secondary(counts tally.Counts, excluding tally.Category) tally.Category {
	rest := counts.Without(excluding)
	top := rest.Max()
	if top <= 0 {
		return tally.None
	}
	return pick(rest, top)
}

// pick returns the first category in priority order whose count equals want.
func pick(counts tally.Counts, want int) tally.Category {
	for _, c := range tally.PriorityOrder {
		if counts.Get(c) == want {
			return c
		}
	}
	return tally.None
}
