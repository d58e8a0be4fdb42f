package narrative

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/tallyprint/pkg/classify"
	"github.com/matzehuels/tallyprint/pkg/errors"
	"github.com/matzehuels/tallyprint/pkg/tally"
)

// Problems lists every malformed entry: shape keys that are not shape key
// prefixes, category-keyed entries whose key is not an upper-case category
// letter, and blank copy.
func (c *Catalog) Problems() []string {
	var out []string
	for _, k := range slices.Sorted(maps.Keys(c.Shape)) {
		if _, err := classify.ParsePrefix(k); err != nil {
			out = append(out, fmt.Sprintf("shape.%s: %s", k, errors.UserMessage(err)))
		}
		if strings.TrimSpace(c.Shape[k]) == "" {
			out = append(out, fmt.Sprintf("shape.%s: empty text", k))
		}
	}
	for _, section := range []string{SectionCategories, SectionDominant, SectionSecondary} {
		m := c.section(section)
		for _, k := range slices.Sorted(maps.Keys(m)) {
			if cat, ok := tally.ParseCategory(k); !ok || cat.String() != k {
				out = append(out, fmt.Sprintf("%s.%s: not a category letter (want C, T, R or L)", section, k))
			}
			if strings.TrimSpace(m[k]) == "" {
				out = append(out, fmt.Sprintf("%s.%s: empty text", section, k))
			}
		}
	}
	return out
}

// Validate returns an INVALID_CATALOG error listing every problem, or nil.
func (c *Catalog) Validate() error {
	p := c.Problems()
	if len(p) == 0 {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidCatalog, "%d problem(s): %s", len(p), strings.Join(p, "; "))
}
