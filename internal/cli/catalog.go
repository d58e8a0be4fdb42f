package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tallyprint/pkg/classify"
	"github.com/matzehuels/tallyprint/pkg/errors"
	"github.com/matzehuels/tallyprint/pkg/narrative"
	"github.com/matzehuels/tallyprint/pkg/tally"
)

// defaultTotal is the number of observations a record normally holds.
const defaultTotal = 5

func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect narrative catalogs",
	}
	cmd.AddCommand(c.catalogCheckCommand())
	cmd.AddCommand(c.catalogKeysCommand())
	return cmd
}

// resolveCatalog loads the catalog named by args, the config, or the
// embedded default, and returns it with a display name.
func (c *CLI) resolveCatalog(args []string) (*narrative.Catalog, string, error) {
	path := c.cfg().Render.Catalog
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return narrative.Default(), "embedded catalog", nil
	}
	cat, err := narrative.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cat, path, nil
}

func (c *CLI) catalogCheckCommand() *cobra.Command {
	var (
		total  int
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "check [catalog]",
		Short: "Validate a catalog and report shapes without copy",
		Long: `Check validates catalog keys and reports every shape reachable with
--total observations that has no narrative, even after fallback to its
parent keys. Missing copy is a warning unless --strict is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, name, err := c.resolveCatalog(args)
			if err != nil {
				return err
			}
			return runCatalogCheck(cmd.Context(), cmd.OutOrStdout(), cat, name, total, strict)
		},
	}
	cmd.Flags().IntVar(&total, "total", defaultTotal, "observation total to check coverage for")
	cmd.Flags().BoolVar(&strict, "strict", false, "treat missing copy as an error")
	return cmd
}

func runCatalogCheck(ctx context.Context, w io.Writer, cat *narrative.Catalog, name string, total int, strict bool) error {
	logger := loggerFromContext(ctx)
	if total < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "--total must be positive")
	}

	problems := cat.Problems()
	for _, p := range problems {
		fmt.Fprintln(w, styleIconError.Render(iconError)+" "+p)
	}

	keys := classify.Keys(total)
	missing := cat.Missing(keys)
	for _, k := range missing {
		fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render("no copy for "+k))
	}
	for _, s := range []string{narrative.SectionDominant, narrative.SectionSecondary} {
		for _, cg := range tally.Categories {
			if _, ok := cat.Lookup(s, cg.String()); !ok {
				fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render("no copy for "+s+"."+cg.String()))
				missing = append(missing, s+"."+cg.String())
			}
		}
	}
	logger.Debug("checked catalog", "catalog", name, "keys", len(keys), "problems", len(problems), "missing", len(missing))

	switch {
	case len(problems) > 0:
		return errors.New(errors.ErrCodeInvalidCatalog, "%s: %d problem(s)", name, len(problems))
	case strict && len(missing) > 0:
		return errors.New(errors.ErrCodeInvalidCatalog, "%s: %d key(s) without copy", name, len(missing))
	}
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf("%s covers %d/%d shapes", name, len(keys)-len(cat.Missing(keys)), len(keys)))
	return nil
}

func (c *CLI) catalogKeysCommand() *cobra.Command {
	var total int
	cmd := &cobra.Command{
		Use:   "keys [catalog]",
		Short: "List every shape key for a total and the catalog key that covers it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if total < 1 {
				return errors.New(errors.ErrCodeInvalidInput, "--total must be positive")
			}
			cat, _, err := c.resolveCatalog(args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), keysTable(cat, total))
			return nil
		},
	}
	cmd.Flags().IntVar(&total, "total", defaultTotal, "observation total")
	return cmd
}

// keysTable lists each shape key with an example vector and the catalog
// key its copy resolves to.
func keysTable(cat *narrative.Catalog, total int) string {
	examples := make(map[string]tally.Counts)
	for _, v := range classify.Enumerate(total) {
		key := classify.Classify(v).Key()
		if _, ok := examples[key]; !ok {
			examples[key] = v
		}
	}

	var rows [][]string
	for _, key := range classify.Keys(total) {
		rows = append(rows, []string{key, examples[key].String(), coveringKey(cat, key)})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Shape", "Example", "Copy").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == headerRow:
				return base.Inherit(styleHeader)
			case col == 2 && rows[row][2] == "-":
				return base.Foreground(colorYellow)
			case col == 0:
				return base.Foreground(colorCyan)
			}
			return base.Foreground(colorGray)
		}).
		Render()
}

// coveringKey returns the most specific key prefix with copy, or "-".
func coveringKey(cat *narrative.Catalog, key string) string {
	parts := strings.Split(key, ".")
	for n := len(parts); n > 0; n-- {
		prefix := strings.Join(parts[:n], ".")
		if _, ok := cat.Shape[prefix]; ok {
			return prefix
		}
	}
	return "-"
}
