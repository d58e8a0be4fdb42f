package report

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tallyprint/pkg/errors"
	"github.com/matzehuels/tallyprint/pkg/textlayout"
)

// Region sources.
const (
	SourceName           = "name"
	SourceShape          = "shape"
	SourceDominant       = "dominant"
	SourceSecondary      = "secondary"
	SourceLabelDominant  = "label.dominant"
	SourceLabelSecondary = "label.secondary"
	SourceCounts         = "counts"
	SourceText           = "text"
)

// Template describes the pages of a report.
type Template struct {
	Name  string `toml:"name,omitempty" json:"name,omitempty"`
	Pages []Page `toml:"page" json:"pages" validate:"required,min=1,dive"`
}

// Page is one page size and its regions, drawn in order.
type Page struct {
	Width   float64  `toml:"width" json:"width" validate:"gt=0"`
	Height  float64  `toml:"height" json:"height" validate:"gt=0"`
	Regions []Region `toml:"region" json:"regions" validate:"dive"`
}

// Region is a text box on a page.
type Region struct {
	ID       string           `toml:"id" json:"id" validate:"required"`
	Source   string           `toml:"source" json:"source" validate:"required,oneof=name shape dominant secondary label.dominant label.secondary counts text"`
	// Text is the copy of a "text" region. On label sources it wraps the
	// label, e.g. "Also present: {secondary}".
	Text     string           `toml:"text,omitempty" json:"text,omitempty" validate:"required_if=Source text"`
	X        float64          `toml:"x" json:"x" validate:"gte=0"`
	Y        float64          `toml:"y" json:"y" validate:"gte=0"`
	Width    float64          `toml:"width" json:"width" validate:"gt=0"`
	FontSize float64          `toml:"font_size" json:"font_size" validate:"gt=0"`
	LineGap  float64          `toml:"line_gap,omitempty" json:"line_gap,omitempty" validate:"gte=0"`
	Align    textlayout.Align `toml:"align" json:"align"`
	MaxLines *int             `toml:"max_lines,omitempty" json:"max_lines,omitempty" validate:"omitempty,gte=-1"`
	Marker   string           `toml:"marker,omitempty" json:"marker,omitempty"`
	Font     string           `toml:"font,omitempty" json:"font,omitempty" validate:"omitempty,font"`
	Color    string           `toml:"color,omitempty" json:"color,omitempty" validate:"omitempty,color"`
	After    string           `toml:"after,omitempty" json:"after,omitempty"`
	Spacing  float64          `toml:"spacing,omitempty" json:"spacing,omitempty"`
}

// Layout returns the layout region at the given top edge.
func (r Region) Layout(y float64) textlayout.Region {
	return textlayout.Region{
		X:        r.X,
		Y:        y,
		Width:    r.Width,
		FontSize: r.FontSize,
		LineGap:  r.LineGap,
		Align:    r.Align,
		Font:     r.Font,
		Color:    r.Color,
	}
}

// Options returns the layout options. An omitted max_lines is unlimited.
func (r Region) Options() textlayout.Options {
	opts := textlayout.Options{MaxLines: textlayout.Unlimited, Marker: r.Marker}
	if r.MaxLines != nil {
		opts.MaxLines = *r.MaxLines
	}
	return opts
}

//go:embed default.toml
var defaultTemplateTOML []byte

var loadDefaultTemplate = sync.OnceValues(func() (*Template, error) {
	return ParseTemplate(defaultTemplateTOML)
})

// DefaultTemplate returns the embedded two-page A4 template.
func DefaultTemplate() *Template {
	t, err := loadDefaultTemplate()
	if err != nil {
		panic("report: embedded template: " + err.Error())
	}
	return t.Clone()
}

// LoadTemplate reads and validates a TOML template file.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "template %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read template %s", path)
	}
	t, err := ParseTemplate(data)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	return t, nil
}

// ParseTemplate decodes and validates a TOML template.
func ParseTemplate(data []byte) (*Template, error) {
	var t Template
	md, err := toml.Decode(string(data), &t)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidTemplate, "unknown key %q", undecoded[0].String())
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Clone returns a deep copy.
func (t *Template) Clone() *Template {
	out := &Template{Name: t.Name, Pages: make([]Page, len(t.Pages))}
	for i, p := range t.Pages {
		regions := make([]Region, len(p.Regions))
		for j, r := range p.Regions {
			if r.MaxLines != nil {
				n := *r.MaxLines
				r.MaxLines = &n
			}
			regions[j] = r
		}
		out.Pages[i] = Page{Width: p.Width, Height: p.Height, Regions: regions}
	}
	return out
}
