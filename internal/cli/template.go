package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tallyprint/pkg/report"
)

func (c *CLI) templateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Inspect report templates",
	}
	cmd.AddCommand(c.templateCheckCommand())
	cmd.AddCommand(c.templateDumpCommand())
	return cmd
}

// resolveTemplate loads the template named by args, the config, or the
// embedded default.
func (c *CLI) resolveTemplate(args []string) (*report.Template, string, error) {
	path := c.cfg().Render.Template
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return report.DefaultTemplate(), "embedded template", nil
	}
	tpl, err := report.LoadTemplate(path)
	if err != nil {
		return nil, "", err
	}
	return tpl, path, nil
}

func (c *CLI) templateCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [template]",
		Short: "Validate a template and list its regions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, name, err := c.resolveTemplate(args)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, regionsTable(tpl))
			fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf("%s is valid (%d pages)", name, len(tpl.Pages)))
			return nil
		},
	}
}

func (c *CLI) templateDumpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dump [template]",
		Short: "Print a template as TOML, the embedded default when none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, _, err := c.resolveTemplate(args)
			if err != nil {
				return err
			}
			return dumpTemplate(cmd.OutOrStdout(), tpl)
		},
	}
}

func dumpTemplate(w io.Writer, tpl *report.Template) error {
	enc := toml.NewEncoder(w)
	enc.Indent = ""
	return enc.Encode(tpl)
}

// regionsTable lists every region with its page, source and geometry.
func regionsTable(tpl *report.Template) string {
	var rows [][]string
	for pi, p := range tpl.Pages {
		for _, r := range p.Regions {
			anchor := strconv.FormatFloat(r.Y, 'f', -1, 64)
			if r.After != "" {
				anchor = "after " + r.After
			}
			maxLines := "∞"
			if r.MaxLines != nil && *r.MaxLines >= 0 {
				maxLines = strconv.Itoa(*r.MaxLines)
			}
			rows = append(rows, []string{
				strconv.Itoa(pi + 1),
				r.ID,
				r.Source,
				anchor,
				strconv.FormatFloat(r.Width, 'f', -1, 64),
				strconv.FormatFloat(r.FontSize, 'f', -1, 64),
				r.Align.String(),
				maxLines,
			})
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Page", "Region", "Source", "Y", "Width", "Size", "Align", "Lines").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == headerRow:
				return base.Inherit(styleHeader)
			case col == 1:
				return base.Foreground(colorCyan)
			}
			return base.Foreground(colorGray)
		}).
		Render()
}
