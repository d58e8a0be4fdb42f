package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/tallyprint/pkg/narrative"
	"github.com/matzehuels/tallyprint/pkg/tally"
)

func press(m exploreModel, keys ...string) exploreModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(exploreModel)
	}
	return m
}

func TestExploreAdjustsCounts(t *testing.T) {
	m := newExploreModel(tally.New(0, 2, 3, 0), narrative.Default())

	tests := []struct {
		name string
		keys []string
		want tally.Counts
	}{
		{"no keys", nil, tally.New(0, 2, 3, 0)},
		{"increment C", []string{"right", "+"}, tally.New(2, 2, 3, 0)},
		{"floor at zero", []string{"left"}, tally.New(0, 2, 3, 0)},
		{"move and decrement", []string{"down", "down", "h"}, tally.New(0, 2, 2, 0)},
		{"cursor clamps", []string{"j", "j", "j", "j", "j", "l"}, tally.New(0, 2, 3, 1)},
		{"reset", []string{"0"}, tally.Counts{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := press(m, tt.keys...).counts(); got != tt.want {
				t.Errorf("counts = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExploreView(t *testing.T) {
	m := newExploreModel(tally.New(0, 2, 3, 0), narrative.Default())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 44, Height: 20})
	m = next.(exploreModel)

	view := m.View()
	for _, want := range []string{"three_two.R.T", "Realist", "Thinker", "This person checks ideas"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	for _, line := range strings.Split(view, "\n") {
		if strings.HasPrefix(line, "This person") && len([]rune(line)) > 40 {
			t.Errorf("narrative line %q exceeds width 40", line)
		}
	}
}

func TestExploreQuit(t *testing.T) {
	m := newExploreModel(tally.Counts{}, narrative.Default())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
