package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/tallyprint/pkg/errors"
	"github.com/matzehuels/tallyprint/pkg/narrative"
	"github.com/matzehuels/tallyprint/pkg/tally"
	"github.com/matzehuels/tallyprint/pkg/textlayout"
)

type testPage struct {
	page textlayout.Page
	runs []textlayout.Run
}

func (p *testPage) Page() textlayout.Page    { return p.page }
func (p *testPage) DrawRun(r textlayout.Run) { p.runs = append(p.runs, r) }

type testDoc struct{ pages []*testPage }

func (d *testDoc) AddPage(w, h float64) textlayout.Sink {
	p := &testPage{page: textlayout.Page{Width: w, Height: h}}
	d.pages = append(d.pages, p)
	return p
}

func (d *testDoc) texts() []string {
	var out []string
	for _, p := range d.pages {
		for _, r := range p.runs {
			out = append(out, r.Text)
		}
	}
	return out
}

func TestParsePayload(t *testing.T) {
	p, err := ParsePayload([]byte(`{"id":"r1","name":"Ada","counts":{"C":0,"T":"2","R":3.9,"L":-1},"narratives":{"all_ones":"x"}}`))
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if p.ID != "r1" || p.Name != "Ada" {
		t.Errorf("payload = %+v", p)
	}
	if want := tally.New(0, 2, 3, 0); p.Counts != want {
		t.Errorf("Counts = %v, want %v", p.Counts, want)
	}
	if p.Narratives["all_ones"] != "x" {
		t.Errorf("Narratives = %v", p.Narratives)
	}
}

func TestParsePayloadErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"unknown field", `{"name":"Ada","extra":1}`},
		{"control characters in name", `{"name":"A\u0007da"}`},
		{"name too long", `{"name":"` + strings.Repeat("a", 201) + `"}`},
	}
	for _, tt := range tests {
		if _, err := ParsePayload([]byte(tt.data)); !errors.Is(err, errors.ErrCodeInvalidPayload) {
			t.Errorf("%s: error = %v, want INVALID_PAYLOAD", tt.name, err)
		}
	}
}

func TestLoadPayloadMissing(t *testing.T) {
	_, err := LoadPayload(filepath.Join(t.TempDir(), "none.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestDefaultTemplate(t *testing.T) {
	tpl := DefaultTemplate()
	if len(tpl.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(tpl.Pages))
	}
	if err := tpl.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	// mutation of the returned copy must not leak
	*tpl.Pages[0].Regions[0].MaxLines = 99
	if n := *DefaultTemplate().Pages[0].Regions[0].MaxLines; n == 99 {
		t.Error("DefaultTemplate returned shared state")
	}
}

const minimalPage = `
[[page]]
width = 100
height = 100
`

func TestParseTemplateErrors(t *testing.T) {
	tests := []struct {
		name    string
		toml    string
		wantMsg string
	}{
		{"no pages", `name = "x"`, "page"},
		{"unknown key", minimalPage + "\ncolour = 1\n", "colour"},
		{"zero page width", "[[page]]\nwidth = 0\nheight = 10\n", "width"},
		{"bad source", minimalPage + `[[page.region]]
id = "a"
source = "poem"
width = 10
font_size = 10
`, "source"},
		{"text without text", minimalPage + `[[page.region]]
id = "a"
source = "text"
width = 10
font_size = 10
`, "text"},
		{"zero font size", minimalPage + `[[page.region]]
id = "a"
source = "name"
width = 10
`, "font_size"},
		{"unknown font", minimalPage + `[[page.region]]
id = "a"
source = "name"
width = 10
font_size = 10
font = "comic"
`, "font must be one of"},
		{"bad color", minimalPage + `[[page.region]]
id = "a"
source = "name"
width = 10
font_size = 10
color = "red"
`, "color"},
		{"bad align", minimalPage + `[[page.region]]
id = "a"
source = "name"
width = 10
font_size = 10
align = "justify"
`, "align"},
		{"duplicate id", minimalPage + `[[page.region]]
id = "a"
source = "name"
width = 10
font_size = 10
[[page.region]]
id = "a"
source = "name"
width = 10
font_size = 10
`, "duplicate id"},
		{"after forward reference", minimalPage + `[[page.region]]
id = "a"
source = "name"
after = "b"
width = 10
font_size = 10
[[page.region]]
id = "b"
source = "name"
width = 10
font_size = 10
`, "earlier region"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTemplate([]byte(tt.toml))
			if !errors.Is(err, errors.ErrCodeInvalidTemplate) {
				t.Fatalf("error = %v, want INVALID_TEMPLATE", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.toml")
	os.WriteFile(path, []byte(minimalPage), 0o644)
	tpl, err := LoadTemplate(path)
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	if len(tpl.Pages) != 1 || len(tpl.Pages[0].Regions) != 0 {
		t.Errorf("template = %+v", tpl)
	}
}

func TestRegionOptions(t *testing.T) {
	zero, three := 0, 3
	tests := []struct {
		name string
		max  *int
		want int
	}{
		{"omitted", nil, textlayout.Unlimited},
		{"zero", &zero, 0},
		{"three", &three, 3},
	}
	for _, tt := range tests {
		if got := (Region{MaxLines: tt.max}).Options().MaxLines; got != tt.want {
			t.Errorf("%s: MaxLines = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestAssembleDefault(t *testing.T) {
	asm := NewAssembler(nil, nil, nil)
	doc := &testDoc{}
	p := Payload{Name: "Ada Lovelace", Counts: tally.New(0, 2, 3, 0)}

	sum, err := asm.Assemble(context.Background(), p, doc)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if sum.Key != "three_two.R.T" || sum.Dominant != tally.R || sum.Secondary != tally.T {
		t.Errorf("summary = %s %v %v", sum.Key, sum.Dominant, sum.Secondary)
	}
	if sum.Pages != 2 || len(doc.pages) != 2 {
		t.Fatalf("pages = %d / %d, want 2", sum.Pages, len(doc.pages))
	}
	if missing := sum.Missing(); len(missing) > 0 {
		t.Errorf("Missing() = %v, want none", missing)
	}

	texts := strings.Join(doc.texts(), "\n")
	for _, want := range []string{"Ada Lovelace", "Realist", "C=0 T=2 R=3 L=0", "Your strongest style: Realist", "Also present: Thinker"} {
		if !strings.Contains(texts, want) {
			t.Errorf("rendered text missing %q", want)
		}
	}
}

func TestAssembleBlankName(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"spaces", "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePayload([]byte(`{"name":"` + tt.input + `","counts":{"C":0,"T":2,"R":3,"L":0}}`))
			if err != nil {
				t.Fatalf("ParsePayload: %v", err)
			}
			doc := &testDoc{}
			if _, err := NewAssembler(nil, nil, nil).Assemble(context.Background(), p, doc); err != nil {
				t.Fatalf("Assemble: %v", err)
			}
			texts := doc.texts()
			joined := strings.Join(texts, " ")
			if !strings.Contains(joined, DefaultName+" checks ideas") {
				t.Errorf("narrative does not open with %q: %v", DefaultName, texts)
			}
			if strings.Contains(joined, "how  tended") {
				t.Errorf("closing lost its subject: %v", texts)
			}
			for _, text := range texts {
				if strings.HasPrefix(text, " ") {
					t.Errorf("line %q starts with a space", text)
				}
			}
		})
	}
}

func TestPayloadDisplayName(t *testing.T) {
	if got := (Payload{Name: " Ada "}).DisplayName(); got != "Ada" {
		t.Errorf("DisplayName() = %q, want %q", got, "Ada")
	}
	if got := (Payload{}).DisplayName(); got != DefaultName {
		t.Errorf("DisplayName() = %q, want %q", got, DefaultName)
	}
}

func TestAssembleWithoutSecondary(t *testing.T) {
	doc := &testDoc{}
	sum, err := NewAssembler(nil, nil, nil).Assemble(context.Background(), Payload{Name: "Ada", Counts: tally.New(5, 0, 0, 0)}, doc)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	for _, text := range doc.texts() {
		if strings.Contains(text, "Also present") {
			t.Errorf("heading drawn without a secondary style: %q", text)
		}
	}
	for _, r := range sum.Regions {
		if r.ID == "secondary-heading" && (r.Lines != 0 || r.Missing) {
			t.Errorf("secondary-heading = %+v, want no lines and not missing", r)
		}
	}
}

func TestAssembleChainedRegionsDoNotOverlap(t *testing.T) {
	asm := NewAssembler(nil, nil, nil)
	long := strings.Repeat("A long narrative sentence that wraps. ", 40)
	p := Payload{Name: strings.Repeat("Name ", 12), Counts: tally.New(1, 1, 1, 1), Narratives: map[string]string{"all_ones": long}}

	sum, err := asm.Assemble(context.Background(), p, &testDoc{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	byID := make(map[string]RegionSummary)
	for _, r := range sum.Regions {
		byID[r.ID] = r
	}
	for _, page := range asm.Template.Pages {
		for _, r := range page.Regions {
			if r.After == "" {
				continue
			}
			prev, cur := byID[r.After], byID[r.ID]
			if cur.Top < prev.Cursor {
				t.Errorf("region %s starts at %v, above %s cursor %v", r.ID, cur.Top, r.After, prev.Cursor)
			}
		}
	}
	if got := byID["shape"]; !got.Truncated || got.Lines != 14 {
		t.Errorf("shape region = %+v, want 14 truncated lines", got)
	}
	if got := sum.Truncated(); len(got) == 0 {
		t.Error("Truncated() empty")
	}
}

func TestAssembleMissingCopyIsNotAnError(t *testing.T) {
	asm := NewAssembler(nil, &narrative.Catalog{}, nil)
	doc := &testDoc{}
	sum, err := asm.Assemble(context.Background(), Payload{Name: "Ada", Counts: tally.New(5, 0, 0, 0)}, doc)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if diff := cmp.Diff([]string{"shape", "dominant"}, sum.Missing()); diff != "" {
		t.Errorf("Missing() mismatch (-want +got):\n%s", diff)
	}
	for _, r := range sum.Regions {
		if r.Missing && (r.Lines != 0 || r.Height != 0) {
			t.Errorf("missing region %s drew %d lines", r.ID, r.Lines)
		}
	}
	// secondary is None for five of a kind, which is not missing copy
	for _, text := range doc.texts() {
		if strings.Contains(text, "{") {
			t.Errorf("unexpanded placeholder in %q", text)
		}
	}
}

func TestAssembleNarrativeOverride(t *testing.T) {
	asm := NewAssembler(nil, nil, nil)
	doc := &testDoc{}
	p := Payload{Name: "Ada", Counts: tally.New(1, 1, 1, 1), Narratives: map[string]string{"all_ones": "Custom copy for {name}."}}
	if _, err := asm.Assemble(context.Background(), p, doc); err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !strings.Contains(strings.Join(doc.texts(), " "), "Custom copy for Ada.") {
		t.Errorf("override not rendered: %v", doc.texts())
	}
	if v, _ := asm.Catalog.Lookup(narrative.SectionShape, "all_ones"); strings.Contains(v, "Custom") {
		t.Error("override leaked into the shared catalog")
	}
}

func TestAssembleDeterministic(t *testing.T) {
	asm := NewAssembler(nil, nil, nil)
	p := Payload{Name: "Ada", Counts: tally.New(2, 2, 1, 0)}
	a, b := &testDoc{}, &testDoc{}
	asm.Assemble(context.Background(), p, a)
	asm.Assemble(context.Background(), p, b)
	if diff := cmp.Diff(a.pages, b.pages, cmp.AllowUnexported(testPage{})); diff != "" {
		t.Errorf("runs differ (-first +second):\n%s", diff)
	}
}

func TestAssembleErrors(t *testing.T) {
	asm := NewAssembler(nil, nil, nil)
	if _, err := asm.Assemble(context.Background(), Payload{}, nil); !errors.Is(err, errors.ErrCodePrecondition) {
		t.Errorf("nil doc error = %v, want precondition", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := asm.Assemble(ctx, Payload{Name: "x"}, &testDoc{}); err != context.Canceled {
		t.Errorf("cancelled error = %v, want context.Canceled", err)
	}
}
