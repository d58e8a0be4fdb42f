package tally

import "strings"

// Category is one of the four observed behavioral categories.
type Category int8

const (
	// None marks the absence of a category (for example, no secondary category).
	None Category = iota - 1
	C
	T
	R
	L
)

// numCategories is the size of the category set.
const numCategories = 4

// Categories lists every category in insertion order.
var Categories = [numCategories]Category{C, T, R, L}

// PriorityOrder ranks categories for tie-breaking, highest preference first.
var PriorityOrder = [numCategories]Category{L, R, T, C}

var letters = [numCategories]string{"C", "T", "R", "L"}

// Valid reports whether c is one of the four categories.
func (c Category) Valid() bool {
	return c >= C && c <= L
}

// String returns the category letter, or "" for None.
func (c Category) String() string {
	if !c.Valid() {
		return ""
	}
	return letters[c]
}

// Rank returns the position of c in PriorityOrder (0 is highest), or -1 for
// an invalid category.
func (c Category) Rank() int {
	for i, p := range PriorityOrder {
		if p == c {
			return i
		}
	}
	return -1
}

// MarshalText encodes the category as its letter.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category letter. Unknown letters decode to None.
func (c *Category) UnmarshalText(b []byte) error {
	cat, _ := ParseCategory(string(b))
	*c = cat
	return nil
}

// ParseCategory parses a category letter (case-insensitive, surrounding
// whitespace ignored).
func ParseCategory(s string) (Category, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, l := range letters {
		if l == s {
			return Category(i), true
		}
	}
	return None, false
}
