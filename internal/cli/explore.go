package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tallyprint/pkg/classify"
	"github.com/matzehuels/tallyprint/pkg/narrative"
	"github.com/matzehuels/tallyprint/pkg/report"
	"github.com/matzehuels/tallyprint/pkg/tally"
	"github.com/matzehuels/tallyprint/pkg/textlayout"
)

var (
	exploreSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	exploreNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	exploreBarStyle      = lipgloss.NewStyle().Foreground(colorGreen)
)

const (
	exploreMaxCount     = 99
	exploreDefaultWidth = 72
)

func (c *CLI) exploreCommand() *cobra.Command {
	var counts, catalogPath string

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Adjust counts interactively and watch the shape and copy change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := tally.New(1, 1, 2, 1)
			if counts != "" {
				parsed, err := parseCounts(counts)
				if err != nil {
					return err
				}
				start = parsed
			}
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

			p := tea.NewProgram(newExploreModel(start, cat), tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&counts, "counts", "", "starting counts (C=n,T=n,R=n,L=n)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "narrative catalog (.toml, .yaml)")
	return cmd
}

// exploreModel is the bubbletea model behind the explore command.
type exploreModel struct {
	values  [4]int
	cursor  int
	width   int
	catalog *narrative.Catalog
	engine  *textlayout.Engine
}

func newExploreModel(start tally.Counts, cat *narrative.Catalog) exploreModel {
	m := exploreModel{
		width:   exploreDefaultWidth,
		catalog: cat,
		engine:  textlayout.New(textlayout.Heuristic{Ratio: 1}), // one cell per character
	}
	for i, c := range tally.Categories {
		m.values[i] = min(start.Get(c), exploreMaxCount)
	}
	return m
}

func (m exploreModel) counts() tally.Counts {
	return tally.New(m.values[0], m.values[1], m.values[2], m.values[3])
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.values)-1 {
				m.cursor++
			}
		case "right", "l", "+":
			if m.values[m.cursor] < exploreMaxCount {
				m.values[m.cursor]++
			}
		case "left", "h", "-":
			if m.values[m.cursor] > 0 {
				m.values[m.cursor]--
			}
		case "0":
			m.values = [4]int{}
		}
	case tea.WindowSizeMsg:
		m.width = max(20, msg.Width-4)
	}
	return m, nil
}

func (m exploreModel) View() string {
	var b strings.Builder
	res := classify.Classify(m.counts())

	b.WriteString(StyleTitle.Render("Explore shapes"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ select  ←/→ adjust  0 reset  q quit"))
	b.WriteString("\n\n")

	for i, c := range tally.Categories {
		cursor, style := "  ", exploreNormalStyle
		if i == m.cursor {
			cursor, style = "▸ ", exploreSelectedStyle
		}
		label := fmt.Sprintf("%s %-12s %2d ", c, m.catalog.Label(c), m.values[i])
		b.WriteString(cursor + style.Render(label) + exploreBarStyle.Render(strings.Repeat("■", m.values[i])))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("shape      ") + StyleHighlight.Render(res.Key()))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("dominant   ") + StyleValue.Render(m.catalog.Label(res.Dominant)))
	b.WriteString("\n")
	if res.Secondary.Valid() {
		b.WriteString(StyleDim.Render("secondary  ") + StyleValue.Render(m.catalog.Label(res.Secondary)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	text, ok := m.catalog.Lookup(narrative.SectionShape, res.Key())
	if !ok {
		b.WriteString(StyleWarning.Render("no copy for " + res.Key()))
		b.WriteString("\n")
		return b.String()
	}
	text = narrative.Expand(text, map[string]string{
		"name":      report.DefaultName,
		"dominant":  m.catalog.Label(res.Dominant),
		"secondary": m.catalog.Label(res.Secondary),
	})
	plan := m.engine.Plan(text, textlayout.Region{Width: float64(m.width), FontSize: 1}, textlayout.Options{MaxLines: textlayout.Unlimited})
	for _, line := range plan.Lines {
		b.WriteString(line.Text)
		b.WriteString("\n")
	}
	return b.String()
}
