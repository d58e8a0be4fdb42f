package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/tallyprint/pkg/errors"
	"github.com/matzehuels/tallyprint/pkg/report"
	"github.com/matzehuels/tallyprint/pkg/tally"
)

// isolate points config and cache lookups at fresh temp directories.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(configEnv, "")
}

// execute runs the root command with args and returns what the command
// wrote to its output.
func execute(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	if stdin != nil {
		root.SetIn(stdin)
	}
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const adaPayload = `{"id": "rec-1", "name": "Ada Lovelace", "counts": {"C": 0, "T": 2, "R": "3", "L": 0}}`

func TestClassifyJSON(t *testing.T) {
	isolate(t)
	out, err := execute(t, nil, "classify", "--counts", "C=0,T=2,R=3,L=0", "--json")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	var got classifyOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.Key != "three_two.R.T" {
		t.Errorf("Key = %q, want three_two.R.T", got.Key)
	}
	if got.Dominant != tally.R || got.Secondary != tally.T {
		t.Errorf("Dominant, Secondary = %v, %v, want R, T", got.Dominant, got.Secondary)
	}
	if !strings.HasPrefix(got.Narrative, "This person checks ideas") {
		t.Errorf("Narrative = %q", got.Narrative)
	}
}

func TestClassifyTable(t *testing.T) {
	isolate(t)
	out, err := execute(t, nil, "classify", "--counts", "5,0,0,0")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	for _, want := range []string{"five_of_a_kind.C", "Collaborator", "dominant"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestClassifyPayload(t *testing.T) {
	isolate(t)
	path := writeFile(t, t.TempDir(), "ada.json", adaPayload)

	for _, tt := range []struct {
		name  string
		stdin io.Reader
		arg   string
	}{
		{"file", nil, path},
		{"stdin", strings.NewReader(adaPayload), "-"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.stdin, "classify", tt.arg, "--json")
			if err != nil {
				t.Fatalf("classify: %v", err)
			}
			if !strings.Contains(out, `"three_two.R.T"`) || !strings.Contains(out, "Ada Lovelace checks ideas") {
				t.Errorf("unexpected output:\n%s", out)
			}
		})
	}
}

func TestClassifyInputErrors(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"no input", []string{"classify"}, errors.ErrCodeInvalidInput},
		{"both inputs", []string{"classify", "x.json", "--counts", "1,1,1,1"}, errors.ErrCodeInvalidInput},
		{"bad counts", []string{"classify", "--counts", "X=1"}, errors.ErrCodeInvalidInput},
		{"missing file", []string{"classify", "does-not-exist.json"}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, nil, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestParseCounts(t *testing.T) {
	tests := []struct {
		in      string
		want    tally.Counts
		wantErr bool
	}{
		{"C=0,T=2,R=3,L=0", tally.New(0, 2, 3, 0), false},
		{"r=3, t=2", tally.New(0, 2, 3, 0), false},
		{"1,1,1,1", tally.New(1, 1, 1, 1), false},
		{" 5 ,0,0,0", tally.New(5, 0, 0, 0), false},
		{"1,2,3", tally.Counts{}, true},
		{"C=x", tally.Counts{}, true},
		{"Q=1", tally.Counts{}, true},
		{"C1", tally.Counts{}, true},
	}
	for _, tt := range tests {
		got, err := parseCounts(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseCounts(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseCounts(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "ada.json", adaPayload)
	base := filepath.Join(dir, "out", "ada")

	if _, err := execute(t, nil, "render", path, "-f", "svg,json", "-o", base, "--quiet", "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("svg output starts with %.20q", svg)
	}
	js, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(js, []byte("Ada Lovelace")) {
		t.Error("json output missing name")
	}
	if _, err := os.Stat(base + ".png"); !os.IsNotExist(err) {
		t.Error("png written although not requested")
	}
}

func TestRenderErrors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "ada.json", adaPayload)
	bad := writeFile(t, dir, "bad.json", `{"name": "x", "counts": {}, "extra": 1}`)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"traversal", []string{"render", path, "-o", "../escape", "-q"}, errors.ErrCodeInvalidPath},
		{"format", []string{"render", path, "-f", "gif", "-o", filepath.Join(dir, "x"), "-q"}, errors.ErrCodeInvalidFormat},
		{"payload", []string{"render", bad, "-q"}, errors.ErrCodeInvalidPayload},
		{"template", []string{"render", path, "--template", filepath.Join(dir, "none.toml"), "-q"}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, nil, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/ada.json", "data/ada"},
		{"", "-", "report"},
		{"out/report", "ada.json", "out/report"},
		{"out/report.pdf", "ada.json", "out/report"},
		{"out/report.v2", "ada.json", "out/report.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		fallback []string
		want     []string
	}{
		{"empty defaults to svg", "", nil, []string{"svg"}},
		{"config fallback", "", []string{"pdf"}, []string{"pdf"}},
		{"flag wins", "svg,png", []string{"pdf"}, []string{"svg", "png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, parseFormats(tt.in, tt.fallback)); diff != "" {
				t.Errorf("parseFormats mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCatalogCheck(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	out, err := execute(t, nil, "catalog", "check")
	if err != nil {
		t.Fatalf("check default: %v", err)
	}
	if !strings.Contains(out, "covers 52/52 shapes") {
		t.Errorf("unexpected output:\n%s", out)
	}

	sparse := writeFile(t, dir, "sparse.toml", "[shape]\nall_ones = \"{name}\"\n")
	if _, err := execute(t, nil, "catalog", "check", sparse); err != nil {
		t.Errorf("missing copy without --strict: %v", err)
	}
	if _, err := execute(t, nil, "catalog", "check", "--strict", sparse); !errors.Is(err, errors.ErrCodeInvalidCatalog) {
		t.Errorf("--strict err = %v, want INVALID_CATALOG", err)
	}

	broken := writeFile(t, dir, "broken.yaml", "shape:\n  bogus: text\n")
	if _, err := execute(t, nil, "catalog", "check", broken); !errors.Is(err, errors.ErrCodeInvalidCatalog) {
		t.Errorf("broken err = %v, want INVALID_CATALOG", err)
	}
}

func TestCatalogKeys(t *testing.T) {
	isolate(t)
	out, err := execute(t, nil, "catalog", "keys")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	for _, want := range []string{"three_two.R.T", "C=0 T=2 R=3 L=0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "all_ones") {
		t.Error("total 5 lists all_ones, which needs four equal counts of one")
	}

	out, err = execute(t, nil, "catalog", "keys", "--total", "4")
	if err != nil {
		t.Fatalf("keys --total 4: %v", err)
	}
	if !strings.Contains(out, "all_ones") {
		t.Error("--total 4 output missing all_ones")
	}
}

func TestTemplateCheck(t *testing.T) {
	isolate(t)
	out, err := execute(t, nil, "template", "check")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	for _, want := range []string{"dominant-heading", "after title", "embedded template is valid (2 pages)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	bad := writeFile(t, t.TempDir(), "bad.toml", "[[page]]\nwidth = 0\nheight = 10\n")
	if _, err := execute(t, nil, "template", "check", bad); !errors.Is(err, errors.ErrCodeInvalidTemplate) {
		t.Errorf("err = %v, want INVALID_TEMPLATE", err)
	}
}

func TestTemplateDumpRoundTrip(t *testing.T) {
	isolate(t)
	out, err := execute(t, nil, "template", "dump")
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	got, err := report.ParseTemplate([]byte(out))
	if err != nil {
		t.Fatalf("ParseTemplate(dump): %v\n%s", err, out)
	}
	if diff := cmp.Diff(report.DefaultTemplate(), got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCacheBackendFlag(t *testing.T) {
	isolate(t)
	if _, err := execute(t, nil, "cache", "stats", "--cache-backend", "none"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want UNSUPPORTED", err)
	}
	if _, err := execute(t, nil, "cache", "path", "--cache-backend", "memcached"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestCachePathAndStats(t *testing.T) {
	isolate(t)
	cacheHome := os.Getenv("XDG_CACHE_HOME")

	out, err := execute(t, nil, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(cacheHome, appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}

	path := writeFile(t, t.TempDir(), "ada.json", adaPayload)
	if _, err := execute(t, nil, "render", path, "-f", "json", "-o", filepath.Join(t.TempDir(), "ada"), "-q"); err != nil {
		t.Fatalf("render: %v", err)
	}

	c := &CLI{config: defaultConfig()}
	fc, ok, err := c.fileCache()
	if err != nil || !ok {
		t.Fatalf("fileCache() = %v, %v", ok, err)
	}
	entries, _, err := fc.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if entries != 2 { // artifact and summary
		t.Errorf("entries = %d, want 2", entries)
	}

	if _, err := execute(t, nil, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if entries, _, _ := fc.Stats(); entries != 0 {
		t.Errorf("entries after clear = %d, want 0", entries)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
