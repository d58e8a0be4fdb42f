package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tallyprint/pkg/classify"
	"github.com/matzehuels/tallyprint/pkg/errors"
	"github.com/matzehuels/tallyprint/pkg/narrative"
	"github.com/matzehuels/tallyprint/pkg/report"
	"github.com/matzehuels/tallyprint/pkg/tally"
)

// classifyOpts holds the flags for the classify command.
type classifyOpts struct {
	counts  string // inline counts instead of a payload file
	catalog string // catalog file for labels and copy
	json    bool   // machine-readable output
}

// classifyOutput is the --json output of the classify command.
type classifyOutput struct {
	Name      string         `json:"name,omitempty"`
	Counts    tally.Counts   `json:"counts"`
	Key       string         `json:"key"`
	Kind      string         `json:"kind"`
	Dominant  tally.Category `json:"dominant"`
	Secondary tally.Category `json:"secondary"`
	Narrative string         `json:"narrative,omitempty"`
}

func (c *CLI) classifyCommand() *cobra.Command {
	var opts classifyOpts

	cmd := &cobra.Command{
		Use:   "classify [payload.json]",
		Short: "Classify a tally into its dominant category and shape",
		Long: `Classify reads a payload file (or "-" for stdin) or inline --counts and
prints the dominant and secondary category, the shape key and the narrative
the catalog holds for it.`,
		Example: `  tallyprint classify record.json
  tallyprint classify --counts C=0,T=2,R=3,L=0
  tallyprint classify --counts 5,0,0,0 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := classifyInput(cmd.InOrStdin(), args, opts.counts)
			if err != nil {
				return err
			}
			return c.runClassify(cmd.Context(), cmd.OutOrStdout(), p, opts)
		},
	}

	cmd.Flags().StringVar(&opts.counts, "counts", "", "counts as C=n,T=n,R=n,L=n or four comma-separated numbers")
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "narrative catalog (.toml, .yaml)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON")

	return cmd
}

// classifyInput builds the payload from exactly one of a payload argument
// or the --counts flag.
func classifyInput(stdin io.Reader, args []string, counts string) (report.Payload, error) {
	switch {
	case len(args) == 1 && counts != "":
		return report.Payload{}, errors.New(errors.ErrCodeInvalidInput, "pass either a payload file or --counts, not both")
	case len(args) == 1:
		return readPayload(stdin, args[0])
	case counts != "":
		c, err := parseCounts(counts)
		if err != nil {
			return report.Payload{}, err
		}
		return report.Payload{Counts: c}, nil
	}
	return report.Payload{}, errors.New(errors.ErrCodeInvalidInput, "a payload file or --counts is required")
}

// readPayload reads a payload file, or stdin for "-".
func readPayload(stdin io.Reader, path string) (report.Payload, error) {
	if path != "-" {
		return report.LoadPayload(path)
	}
	data, err := io.ReadAll(io.LimitReader(stdin, report.MaxPayloadBytes+1))
	if err != nil {
		return report.Payload{}, fmt.Errorf("read stdin: %w", err)
	}
	return report.ParsePayload(data)
}

// parseCounts accepts "C=1,T=2,R=0,L=2" (any order, missing letters are
// zero) or four positional numbers "1,2,0,2" in C,T,R,L order.
func parseCounts(s string) (tally.Counts, error) {
	parts := strings.Split(s, ",")
	if !strings.Contains(s, "=") {
		if len(parts) != len(tally.Categories) {
			return tally.Counts{}, errors.New(errors.ErrCodeInvalidInput, "counts %q: want %d numbers", s, len(tally.Categories))
		}
		vals := make([]int, len(parts))
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return tally.Counts{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "counts %q", s)
			}
			vals[i] = n
		}
		return tally.New(vals[0], vals[1], vals[2], vals[3]), nil
	}

	m := make(map[tally.Category]int, len(parts))
	for _, p := range parts {
		k, v, ok := strings.Cut(p, "=")
		cat, valid := tally.ParseCategory(k)
		if !ok || !valid {
			return tally.Counts{}, errors.New(errors.ErrCodeInvalidInput, "counts %q: bad entry %q", s, p)
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return tally.Counts{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "counts %q", s)
		}
		m[cat] = n
	}
	return tally.FromMap(m), nil
}

func (c *CLI) runClassify(ctx context.Context, w io.Writer, p report.Payload, opts classifyOpts) error {
	logger := loggerFromContext(ctx)

	catalogPath := opts.catalog
	if catalogPath == "" {
		catalogPath = c.cfg().Render.Catalog
	}
	cat := narrative.Default()
	if catalogPath != "" {
		loaded, err := loadCatalog(catalogPath)
		if err != nil {
			return err
		}
		cat = loaded
	}
	cat = cat.Overlay(p.Narratives)

	res := classify.Classify(p.Counts)
	logger.Debug("classified", "counts", p.Counts, "key", res.Key())

	text, _ := cat.Lookup(narrative.SectionShape, res.Key())
	text = narrative.Expand(text, map[string]string{
		"name":      p.DisplayName(),
		"dominant":  cat.Label(res.Dominant),
		"secondary": cat.Label(res.Secondary),
	})

	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(classifyOutput{
			Name:      p.Name,
			Counts:    p.Counts,
			Key:       res.Key(),
			Kind:      res.Shape.Kind.String(),
			Dominant:  res.Dominant,
			Secondary: res.Secondary,
			Narrative: text,
		})
	}

	fmt.Fprintln(w, countsTable(res, cat))
	writeKeyValue(w, "Shape", StyleHighlight.Render(res.Key()))
	writeKeyValue(w, "Dominant", cat.Label(res.Dominant))
	if res.Secondary.Valid() {
		writeKeyValue(w, "Secondary", cat.Label(res.Secondary))
	}
	if text != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, text)
	} else {
		logger.Warn("no narrative for shape", "key", res.Key())
	}
	return nil
}
