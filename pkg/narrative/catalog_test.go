package narrative

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/tallyprint/pkg/classify"
	"github.com/matzehuels/tallyprint/pkg/errors"
	"github.com/matzehuels/tallyprint/pkg/tally"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestDefaultCoversEveryShapeAtTotalFive(t *testing.T) {
	if missing := Default().Missing(classify.Keys(5)); len(missing) > 0 {
		t.Errorf("Missing(Keys(5)) = %v, want none", missing)
	}
}

func TestDefaultReturnsCopy(t *testing.T) {
	a := Default()
	a.Shape["all_ones"] = "changed"
	if b := Default(); b.Shape["all_ones"] == "changed" {
		t.Error("Default() returned shared state")
	}
}

func TestLookupFallback(t *testing.T) {
	c := &Catalog{Shape: map[string]string{
		"three_two":     "generic",
		"three_two.R":   "R-led",
		"three_two.R.T": "exact",
	}}
	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"three_two.R.T", "exact", true},
		{"three_two.R.C", "R-led", true},
		{"three_two.L.C", "generic", true},
		{"four_one.L.C", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := c.Lookup(SectionShape, tt.key)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Lookup(%q) = %q, %v, want %q, %v", tt.key, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestLookupNilAndUnknownSection(t *testing.T) {
	var c *Catalog
	if _, ok := c.Lookup(SectionShape, "all_ones"); ok {
		t.Error("nil catalog found copy")
	}
	if _, ok := Default().Lookup("bogus", "all_ones"); ok {
		t.Error("unknown section found copy")
	}
}

func TestLabel(t *testing.T) {
	c := &Catalog{Categories: map[string]string{"R": "Realist"}}
	tests := []struct {
		cat  tally.Category
		want string
	}{
		{tally.R, "Realist"},
		{tally.C, "C"},
		{tally.None, ""},
	}
	for _, tt := range tests {
		if got := c.Label(tt.cat); got != tt.want {
			t.Errorf("Label(%v) = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestMissing(t *testing.T) {
	c := &Catalog{Shape: map[string]string{"four_one": "x"}}
	got := c.Missing([]string{"four_one.L.C", "all_ones", "three_two.R.T"})
	want := []string{"all_ones", "three_two.R.T"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand(t *testing.T) {
	vars := map[string]string{"name": "Ada", "dominant": "Leader", "secondary": ""}
	tests := []struct {
		in, want string
	}{
		{"{name} is a {dominant}.", "Ada is a Leader."},
		{"{name}{secondary}!", "Ada!"},
		{"{unknown} stays", "{unknown} stays"},
		{"no placeholders", "no placeholders"},
	}
	for _, tt := range tests {
		if got := Expand(tt.in, vars); got != tt.want {
			t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := Expand("{name}", nil); got != "{name}" {
		t.Errorf("Expand with nil vars = %q", got)
	}
}

func TestOverlay(t *testing.T) {
	base := &Catalog{Shape: map[string]string{"all_ones": "base"}}
	got := base.Overlay(map[string]string{
		"all_ones":        "override",
		"shape.three_two": "added",
		"dominant.L":      "lead",
		"categories.C":    "Connector",
	})
	if v, _ := got.Lookup(SectionShape, "all_ones"); v != "override" {
		t.Errorf("shape override = %q", v)
	}
	if v, _ := got.Lookup(SectionShape, "three_two.R.T"); v != "added" {
		t.Errorf("prefixed shape = %q", v)
	}
	if v, _ := got.Lookup(SectionDominant, "L"); v != "lead" {
		t.Errorf("dominant = %q", v)
	}
	if got.Label(tally.C) != "Connector" {
		t.Errorf("label = %q", got.Label(tally.C))
	}
	if base.Shape["all_ones"] != "base" || base.Dominant != nil {
		t.Error("Overlay modified the base catalog")
	}
}

func TestProblems(t *testing.T) {
	c := &Catalog{
		Shape:     map[string]string{"three_two.R": "ok", "three_two.X": "bad", "four_one": " "},
		Dominant:  map[string]string{"l": "lower"},
		Secondary: map[string]string{"T": "ok"},
	}
	got := c.Problems()
	if len(got) != 3 {
		t.Fatalf("Problems() = %v, want 3 entries", got)
	}
	err := c.Validate()
	if !errors.Is(err, errors.ErrCodeInvalidCatalog) {
		t.Errorf("Validate() = %v, want INVALID_CATALOG", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "copy.toml")
	yamlPath := filepath.Join(dir, "copy.yml")
	os.WriteFile(tomlPath, []byte("[shape]\nall_ones = \"even\"\n[categories]\nL = \"Lead\"\n"), 0o644)
	os.WriteFile(yamlPath, []byte("shape:\n  all_ones: even\ncategories:\n  L: Lead\n"), 0o644)

	want := &Catalog{
		Shape:      map[string]string{"all_ones": "even"},
		Categories: map[string]string{"L": "Lead"},
	}
	for _, path := range []string{tomlPath, yamlPath} {
		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", path, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Load(%s) mismatch (-want +got):\n%s", path, diff)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	unknown := filepath.Join(dir, "bad.toml")
	os.WriteFile(unknown, []byte("[stories]\nx = \"y\"\n"), 0o644)
	badYAML := filepath.Join(dir, "bad.yaml")
	os.WriteFile(badYAML, []byte("tone: loud\n"), 0o644)

	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing file", filepath.Join(dir, "nope.toml"), errors.ErrCodeFileNotFound},
		{"bad extension", filepath.Join(dir, "copy.json"), errors.ErrCodeInvalidCatalog},
		{"unknown toml section", unknown, errors.ErrCodeInvalidCatalog},
		{"unknown yaml field", badYAML, errors.ErrCodeInvalidCatalog},
	}
	for _, tt := range tests {
		_, err := Load(tt.path)
		if !errors.Is(err, tt.code) {
			t.Errorf("%s: Load error = %v, want %s", tt.name, err, tt.code)
		}
	}
}
