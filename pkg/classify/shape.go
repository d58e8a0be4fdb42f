package classify

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/tallyprint/pkg/errors"
	"github.com/matzehuels/tallyprint/pkg/tally"
)

// Kind identifies a count distribution pattern.
type Kind int

const (
	FiveOfAKind Kind = iota // 5
	FourOne                 // 4,1
	ThreeTwo                // 3,2
	ThreeOneOne             // 3,1,1
	TwoTwoOne               // 2,2,1
	AllOnes                 // 1,1,1,1
	Fallback                // no recognized signature
)

// kindNames are the key segments for each Kind. Fallback borrows the
// five-of-a-kind name so copy lookup degrades to that narrative.
var kindNames = [...]string{
	FiveOfAKind: "five_of_a_kind",
	FourOne:     "four_one",
	ThreeTwo:    "three_two",
	ThreeOneOne: "three_one_one",
	TwoTwoOne:   "two_two_one",
	AllOnes:     "all_ones",
	Fallback:    "five_of_a_kind",
}

// slots is the number of categories each Kind carries.
var slots = [...]int{
	FiveOfAKind: 1,
	FourOne:     2,
	ThreeTwo:    2,
	ThreeOneOne: 3,
	TwoTwoOne:   3,
	AllOnes:     0,
	Fallback:    1,
}

// signatures pairs each recognized Kind with its descending count signature,
// in the order they are matched.
var signatures = []struct {
	kind Kind
	sig  []int
}{
	{FiveOfAKind, []int{5}},
	{FourOne, []int{4, 1}},
	{ThreeTwo, []int{3, 2}},
	{ThreeOneOne, []int{3, 1, 1}},
	{TwoTwoOne, []int{2, 2, 1}},
	{AllOnes, []int{1, 1, 1, 1}},
}

// String returns the key segment for k; Fallback reports "fallback".
func (k Kind) String() string {
	if k == Fallback {
		return "fallback"
	}
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Shape is a shape key: a distribution pattern plus the categories filling
// its slots, in slot order.
type Shape struct {
	Kind       Kind
	Categories []tally.Category
}

// Key serializes the shape as a period-delimited lookup path,
// e.g. "three_one_one.L.R.C" or "all_ones".
func (s Shape) Key() string {
	if s.Kind < 0 || int(s.Kind) >= len(kindNames) {
		return ""
	}
	var b strings.Builder
	b.WriteString(kindNames[s.Kind])
	for _, c := range s.Categories {
		b.WriteByte('.')
		b.WriteString(c.String())
	}
	return b.String()
}

// String returns a readable form such as "ThreeTwo(R, T)".
func (s Shape) String() string {
	names := [...]string{"FiveOfAKind", "FourOne", "ThreeTwo", "ThreeOneOne", "TwoTwoOne", "AllOnes", "Fallback"}
	name := "Unknown"
	if s.Kind >= 0 && int(s.Kind) < len(names) {
		name = names[s.Kind]
	}
	if len(s.Categories) == 0 {
		return name
	}
	cats := make([]string, len(s.Categories))
	for i, c := range s.Categories {
		cats[i] = c.String()
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(cats, ", "))
}

// Equal reports whether two shapes have the same kind and slot categories.
func (s Shape) Equal(o Shape) bool {
	return s.Kind == o.Kind && slices.Equal(s.Categories, o.Categories)
}

// ShapeOf derives the shape key of counts.
func ShapeOf(counts tally.Counts) Shape {
	sig := counts.Signature()
	for _, m := range signatures {
		if slices.Equal(sig, m.sig) {
			return build(m.kind, counts)
		}
	}
	return Shape{Kind: Fallback, Categories: []tally.Category{Dominant(counts)}}
}

func build(kind Kind, counts tally.Counts) Shape {
	first := Dominant(counts)
	rest := counts.Without(first)

	switch kind {
	case FiveOfAKind:
		return Shape{Kind: kind, Categories: []tally.Category{first}}
	case FourOne, ThreeTwo:
		return Shape{Kind: kind, Categories: []tally.Category{first, Secondary(counts, first)}}
	case ThreeOneOne:
		second := Secondary(counts, first)
		third := firstPositive(rest.Without(second))
		return Shape{Kind: kind, Categories: []tally.Category{first, second, third}}
	case TwoTwoOne:
		second := Secondary(counts, first)
		third := Secondary(rest, second)
		return Shape{Kind: kind, Categories: []tally.Category{first, second, third}}
	default:
		return Shape{Kind: AllOnes}
	}
}

// firstPositive scans insertion order for the first category with a positive count.
func firstPositive(counts tally.Counts) tally.Category {
	for _, c := range tally.Categories {
		if counts.Get(c) > 0 {
			return c
		}
	}
	return tally.None
}

// ParseKey parses a serialized shape key. Fallback keys are indistinguishable
// from five-of-a-kind keys and parse as FiveOfAKind.
func ParseKey(key string) (Shape, error) {
	return parseKey(key, true)
}

// ParsePrefix parses a key that may stop before all category slots are
// filled, such as "three_two.R" or "three_two". Narrative catalogs use
// these as fallbacks for every key that extends them.
func ParsePrefix(key string) (Shape, error) {
	return parseKey(key, false)
}

func parseKey(key string, exact bool) (Shape, error) {
	parts := strings.Split(strings.TrimSpace(key), ".")
	kind := Kind(-1)
	for k, name := range kindNames {
		if Kind(k) != Fallback && name == parts[0] {
			kind = Kind(k)
			break
		}
	}
	if kind < 0 {
		return Shape{}, errors.New(errors.ErrCodeInvalidKey, "unknown shape %q", parts[0])
	}
	if n := len(parts) - 1; n > slots[kind] || (exact && n != slots[kind]) {
		return Shape{}, errors.New(errors.ErrCodeInvalidKey, "shape %s takes %d categories, got %d", kind, slots[kind], len(parts)-1)
	}

	var cats []tally.Category
	seen := make(map[tally.Category]bool, len(parts)-1)
	for _, p := range parts[1:] {
		c, ok := tally.ParseCategory(p)
		if !ok || p != c.String() {
			return Shape{}, errors.New(errors.ErrCodeInvalidKey, "invalid category %q in key %q", p, key)
		}
		if seen[c] {
			return Shape{}, errors.New(errors.ErrCodeInvalidKey, "duplicate category %q in key %q", p, key)
		}
		seen[c] = true
		cats = append(cats, c)
	}
	return Shape{Kind: kind, Categories: cats}, nil
}
