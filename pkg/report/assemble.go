package report

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tallyprint/pkg/classify"
	"github.com/matzehuels/tallyprint/pkg/errors"
	"github.com/matzehuels/tallyprint/pkg/fonts"
	"github.com/matzehuels/tallyprint/pkg/narrative"
	"github.com/matzehuels/tallyprint/pkg/tally"
	"github.com/matzehuels/tallyprint/pkg/textlayout"
)

// Document hands out one drawing sink per page.
type Document interface {
	AddPage(width, height float64) textlayout.Sink
}

// Assembler draws payloads onto pages. It holds no per-call state and may
// be shared between goroutines.
type Assembler struct {
	Template *Template
	Catalog  *narrative.Catalog
	Logger   *log.Logger

	// Measurer returns the measurer for a region's font. The default
	// measures the embedded fonts exactly.
	Measurer func(font string) textlayout.Measurer
}

// NewAssembler creates an assembler. Nil arguments use the embedded
// template, the embedded catalog and a discarding logger.
func NewAssembler(tpl *Template, cat *narrative.Catalog, logger *log.Logger) *Assembler {
	if tpl == nil {
		tpl = DefaultTemplate()
	}
	if cat == nil {
		cat = narrative.Default()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Assembler{Template: tpl, Catalog: cat, Logger: logger, Measurer: FontMeasurer}
}

// FontMeasurer measures with the named embedded font, or Go Regular.
func FontMeasurer(font string) textlayout.Measurer {
	if f, ok := fonts.Lookup(font); ok {
		return f
	}
	return fonts.Regular()
}

// Summary describes one assembled report.
type Summary struct {
	Classification classify.Result `json:"-"`
	Key            string          `json:"key"`
	Dominant       tally.Category  `json:"dominant"`
	Secondary      tally.Category  `json:"secondary"`
	Pages          int             `json:"pages"`
	Regions        []RegionSummary `json:"regions"`
}

// RegionSummary records how one region was laid out.
type RegionSummary struct {
	Page      int     `json:"page"`
	ID        string  `json:"id"`
	Source    string  `json:"source"`
	Key       string  `json:"key,omitempty"` // catalog key the text was looked up under
	Top       float64 `json:"top"`
	Lines     int     `json:"lines"`
	Height    float64 `json:"height"`
	Cursor    float64 `json:"cursor"`
	Truncated bool    `json:"truncated,omitempty"`
	Missing   bool    `json:"missing,omitempty"`
}

// Missing returns the ids of regions that had no copy.
func (s Summary) Missing() []string {
	var ids []string
	for _, r := range s.Regions {
		if r.Missing {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// Truncated returns the ids of regions that were cut at their line cap.
func (s Summary) Truncated() []string {
	var ids []string
	for _, r := range s.Regions {
		if r.Truncated {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// Assemble classifies the payload and draws every page of the template
// into doc.
func (a *Assembler) Assemble(ctx context.Context, p Payload, doc Document) (Summary, error) {
	if doc == nil {
		return Summary{}, errors.Precondition("report: nil document")
	}
	if a.Template == nil {
		return Summary{}, errors.Precondition("report: assembler has no template")
	}
	logger := a.logger()

	res := classify.Classify(p.Counts)
	cat := a.Catalog
	if len(p.Narratives) > 0 {
		cat = cat.Overlay(p.Narratives)
	}
	vars := map[string]string{
		"name":      p.DisplayName(),
		"dominant":  cat.Label(res.Dominant),
		"secondary": cat.Label(res.Secondary),
	}

	summary := Summary{
		Classification: res,
		Key:            res.Key(),
		Dominant:       res.Dominant,
		Secondary:      res.Secondary,
	}
	logger.Debug("classified", "counts", p.Counts, "key", summary.Key)

	for pi, page := range a.Template.Pages {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		s := doc.AddPage(page.Width, page.Height)
		summary.Pages++

		cursors := make(map[string]float64, len(page.Regions))
		for _, region := range page.Regions {
			top := region.Y
			if region.After != "" {
				top = max(top, cursors[region.After]+region.Spacing)
			}

			text, key, ok := resolve(cat, region, p, res)
			rs := RegionSummary{Page: pi + 1, ID: region.ID, Source: region.Source, Key: key, Top: top, Cursor: top}
			if !ok {
				rs.Missing = true
				logger.Warn("no narrative copy", "region", region.ID, "key", key)
			} else {
				eng := textlayout.New(a.measurer(region.Font))
				out, err := eng.Draw(s, narrative.Expand(text, vars), region.Layout(top), region.Options())
				if err != nil {
					return summary, err
				}
				rs.Lines, rs.Height, rs.Cursor, rs.Truncated = out.Lines, out.Height, out.Cursor, out.Truncated
				if out.Truncated {
					logger.Debug("region truncated", "region", region.ID, "lines", out.Lines)
				}
			}
			cursors[region.ID] = rs.Cursor
			summary.Regions = append(summary.Regions, rs)
		}
	}
	return summary, nil
}

// resolve returns a region's raw text and the catalog key it came from.
// ok is false only when catalog copy was expected and not found.
func resolve(cat *narrative.Catalog, r Region, p Payload, res classify.Result) (text, key string, ok bool) {
	switch r.Source {
	case SourceName:
		return p.Name, "", true
	case SourceText:
		return r.Text, "", true
	case SourceCounts:
		return p.Counts.String(), "", true
	case SourceLabelDominant:
		return labelText(cat, r, res.Dominant), narrative.SectionCategories + "." + res.Dominant.String(), true
	case SourceLabelSecondary:
		if res.Secondary == tally.None {
			return "", "", true
		}
		return labelText(cat, r, res.Secondary), narrative.SectionCategories + "." + res.Secondary.String(), true
	case SourceShape:
		key = res.Key()
		text, ok = cat.Lookup(narrative.SectionShape, key)
		return text, narrative.SectionShape + "." + key, ok
	case SourceDominant:
		text, ok = cat.Lookup(narrative.SectionDominant, res.Dominant.String())
		return text, narrative.SectionDominant + "." + res.Dominant.String(), ok
	case SourceSecondary:
		if res.Secondary == tally.None {
			return "", "", true
		}
		text, ok = cat.Lookup(narrative.SectionSecondary, res.Secondary.String())
		return text, narrative.SectionSecondary + "." + res.Secondary.String(), ok
	}
	return "", "", false
}

// labelText draws the region's text around a label when one is set, so a
// heading can be tied to a category that may be absent.
func labelText(cat *narrative.Catalog, r Region, c tally.Category) string {
	if r.Text != "" {
		return r.Text
	}
	return cat.Label(c)
}

func (a *Assembler) logger() *log.Logger {
	if a.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return a.Logger
}

func (a *Assembler) measurer(font string) textlayout.Measurer {
	if a.Measurer == nil {
		return FontMeasurer(font)
	}
	return a.Measurer(font)
}
