package narrative

import (
	_ "embed"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tallyprint/pkg/errors"
	"github.com/matzehuels/tallyprint/pkg/tally"
)

// Section names.
const (
	SectionShape      = "shape"
	SectionDominant   = "dominant"
	SectionSecondary  = "secondary"
	SectionCategories = "categories"
)

// Sections lists every section in file order.
var Sections = []string{SectionCategories, SectionShape, SectionDominant, SectionSecondary}

// Catalog maps lookup keys to narrative copy. A Catalog is not modified by
// any method and may be shared between goroutines.
type Catalog struct {
	Categories map[string]string `toml:"categories" yaml:"categories" json:"categories,omitempty"`
	Shape      map[string]string `toml:"shape" yaml:"shape" json:"shape,omitempty"`
	Dominant   map[string]string `toml:"dominant" yaml:"dominant" json:"dominant,omitempty"`
	Secondary  map[string]string `toml:"secondary" yaml:"secondary" json:"secondary,omitempty"`
}

//go:embed default.toml
var defaultTOML []byte

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(defaultTOML, FormatTOML)
})

// Default returns a copy of the embedded catalog.
func Default() *Catalog {
	c, err := loadDefault()
	if err != nil {
		panic("narrative: embedded catalog: " + err.Error())
	}
	return c.Clone()
}

// Load reads a catalog file. ".toml" files decode as TOML and ".yaml" or
// ".yml" files as YAML.
func Load(path string) (*Catalog, error) {
	format, err := formatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read catalog %s", path)
	}
	c, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "parse catalog %s", path)
	}
	return c, nil
}

func formatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidCatalog, "catalog %s: unsupported extension (want .toml, .yaml or .yml)", path)
}

// Catalog encodings accepted by [Parse].
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Parse decodes a catalog. Unknown sections are rejected.
func Parse(data []byte, format string) (*Catalog, error) {
	var c Catalog
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &c)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidCatalog, "unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		if err := decodeYAML(data, &c); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidCatalog, "unknown catalog format %q", format)
	}
	return &c, nil
}

// Clone returns a deep copy.
func (c *Catalog) Clone() *Catalog {
	if c == nil {
		return &Catalog{}
	}
	return &Catalog{
		Categories: maps.Clone(c.Categories),
		Shape:      maps.Clone(c.Shape),
		Dominant:   maps.Clone(c.Dominant),
		Secondary:  maps.Clone(c.Secondary),
	}
}

func (c *Catalog) section(name string) map[string]string {
	if c == nil {
		return nil
	}
	switch name {
	case SectionShape:
		return c.Shape
	case SectionDominant:
		return c.Dominant
	case SectionSecondary:
		return c.Secondary
	case SectionCategories:
		return c.Categories
	}
	return nil
}

// Lookup finds copy for key in section. If key has no entry, the last
// period-delimited segment is dropped and the shorter key tried, until a
// match is found or no segments remain.
func (c *Catalog) Lookup(section, key string) (string, bool) {
	m := c.section(section)
	if len(m) == 0 {
		return "", false
	}
	for key != "" {
		if text, ok := m[key]; ok {
			return text, true
		}
		i := strings.LastIndexByte(key, '.')
		if i < 0 {
			break
		}
		key = key[:i]
	}
	return "", false
}

// Label returns the display label for a category, or its letter when the
// catalog has none. None yields "".
func (c *Catalog) Label(cat tally.Category) string {
	if !cat.Valid() {
		return ""
	}
	if l, ok := c.Lookup(SectionCategories, cat.String()); ok && l != "" {
		return l
	}
	return cat.String()
}

// Missing returns the shape keys, in input order, for which Lookup finds
// no copy.
func (c *Catalog) Missing(keys []string) []string {
	var out []string
	for _, k := range keys {
		if _, ok := c.Lookup(SectionShape, k); !ok {
			out = append(out, k)
		}
	}
	return out
}

// Overlay returns a copy of c with fragments layered on top. A fragment key
// may name its section ("dominant.R", "categories.C"); any other key,
// with or without a "shape." prefix, is a shape key.
func (c *Catalog) Overlay(fragments map[string]string) *Catalog {
	out := c.Clone()
	for _, k := range slices.Sorted(maps.Keys(fragments)) {
		section, key := splitSection(k)
		m := out.section(section)
		if m == nil {
			m = make(map[string]string)
			switch section {
			case SectionShape:
				out.Shape = m
			case SectionDominant:
				out.Dominant = m
			case SectionSecondary:
				out.Secondary = m
			case SectionCategories:
				out.Categories = m
			}
		}
		m[key] = fragments[k]
	}
	return out
}

func splitSection(k string) (section, key string) {
	for _, s := range Sections {
		if rest, ok := strings.CutPrefix(k, s+"."); ok {
			return s, rest
		}
	}
	return SectionShape, k
}

// Expand replaces {name} style placeholders with values from vars.
// Unknown placeholders are left in place.
func Expand(text string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(text, "{") {
		return text
	}
	pairs := make([]string, 0, 2*len(vars))
	for _, k := range slices.Sorted(maps.Keys(vars)) {
		pairs = append(pairs, "{"+k+"}", vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
