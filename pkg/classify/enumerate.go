package classify

import "github.com/matzehuels/tallyprint/pkg/tally"

// Enumerate returns every count vector whose observations sum to total,
// ordered with C varying slowest. A negative total yields nil.
func Enumerate(total int) []tally.Counts {
	if total < 0 {
		return nil
	}
	var out []tally.Counts
	for c := total; c >= 0; c-- {
		for t := total - c; t >= 0; t-- {
			for r := total - c - t; r >= 0; r-- {
				out = append(out, tally.New(c, t, r, total-c-t-r))
			}
		}
	}
	return out
}

// Keys returns the distinct shape keys reachable with the given total, in
// enumeration order.
func Keys(total int) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, v := range Enumerate(total) {
		k := ShapeOf(v).Key()
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}
