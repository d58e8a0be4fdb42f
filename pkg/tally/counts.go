package tally

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Counts is an immutable tally of observations per category.
// The zero value is the empty vector.
type Counts struct {
	n [numCategories]int
}

// New builds a Counts from the four category counts in insertion order.
// Negative values are treated as zero.
func New(c, t, r, l int) Counts {
	var v Counts
	for i, n := range [numCategories]int{c, t, r, l} {
		v.n[i] = max(0, n)
	}
	return v
}

// FromMap builds a Counts from integer values keyed by category.
// Invalid categories are ignored and negatives are treated as zero.
func FromMap(m map[Category]int) Counts {
	var v Counts
	for cat, n := range m {
		if cat.Valid() {
			v.n[cat] = max(0, n)
		}
	}
	return v
}

// FromValues builds a Counts from loosely typed values keyed by category
// letter, as decoded from a JSON payload. See [Coerce] for how each value is
// interpreted. Unknown keys are ignored.
func FromValues(m map[string]any) Counts {
	var v Counts
	for k, raw := range m {
		if cat, ok := ParseCategory(k); ok {
			v.n[cat] = Coerce(raw)
		}
	}
	return v
}

// Coerce converts a loosely typed count to a non-negative int.
//
// Signed and unsigned integers and floats are accepted (floats are
// truncated), as are json.Number and numeric strings. Large values clamp to
// math.MaxInt32. Negative, NaN, infinite, non-numeric and
// nil values all resolve to zero.
func Coerce(raw any) int {
	switch x := raw.(type) {
	case int:
		return clampFloat(float64(x))
	case int8:
		return clampFloat(float64(x))
	case int16:
		return clampFloat(float64(x))
	case int32:
		return clampFloat(float64(x))
	case int64:
		return clampFloat(float64(x))
	case uint:
		return clampFloat(float64(x))
	case uint8:
		return clampFloat(float64(x))
	case uint16:
		return clampFloat(float64(x))
	case uint32:
		return clampFloat(float64(x))
	case uint64:
		return clampFloat(float64(x))
	case float32:
		return clampFloat(float64(x))
	case float64:
		return clampFloat(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0
		}
		return clampFloat(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return clampFloat(f)
	default:
		return 0
	}
}

func clampFloat(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// Get returns the count for cat, or 0 for an invalid category.
func (v Counts) Get(cat Category) int {
	if !cat.Valid() {
		return 0
	}
	return v.n[cat]
}

// Total returns the number of observations recorded.
func (v Counts) Total() int {
	total := 0
	for _, n := range v.n {
		total += n
	}
	return total
}

// Without returns a copy of v with cat removed from consideration.
func (v Counts) Without(cat Category) Counts {
	if cat.Valid() {
		v.n[cat] = 0
	}
	return v
}

// Max returns the largest count in v.
func (v Counts) Max() int {
	return slices.Max(v.n[:])
}

// Signature returns the positive counts sorted in descending order.
// It describes the shape of the distribution independent of which category
// holds which count.
func (v Counts) Signature() []int {
	sig := make([]int, 0, numCategories)
	for _, n := range v.n {
		if n > 0 {
			sig = append(sig, n)
		}
	}
	slices.Sort(sig)
	slices.Reverse(sig)
	return sig
}

// Map returns the counts keyed by category letter.
func (v Counts) Map() map[string]int {
	m := make(map[string]int, numCategories)
	for _, cat := range Categories {
		m[cat.String()] = v.n[cat]
	}
	return m
}

// String formats v as "C=0 T=2 R=3 L=0".
func (v Counts) String() string {
	parts := make([]string, 0, numCategories)
	for _, cat := range Categories {
		parts = append(parts, fmt.Sprintf("%s=%d", cat, v.n[cat]))
	}
	return strings.Join(parts, " ")
}

// MarshalJSON encodes v as an object keyed by category letter.
func (v Counts) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Map())
}

// UnmarshalJSON decodes an object keyed by category letter, coercing values
// the same way [FromValues] does. Anything other than an object decodes to
// the empty vector.
func (v *Counts) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		*v = Counts{}
		return nil
	}
	*v = FromValues(raw)
	return nil
}
