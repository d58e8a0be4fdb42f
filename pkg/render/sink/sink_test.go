package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/tallyprint/pkg/errors"
	"github.com/matzehuels/tallyprint/pkg/textlayout"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{"PNG", FormatPNG, false},
		{" pdf ", FormatPDF, false},
		{"json", FormatJSON, false},
		{"gif", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ParseFormat(%q) code = %v, want INVALID_FORMAT", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMetadata(t *testing.T) {
	if FormatPDF.Ext() != ".pdf" {
		t.Errorf("Ext = %q", FormatPDF.Ext())
	}
	if FormatSVG.ContentType() != "image/svg+xml" {
		t.Errorf("ContentType = %q", FormatSVG.ContentType())
	}
}

func TestNew(t *testing.T) {
	for _, f := range Formats {
		doc, err := New(f, 1)
		if err != nil || doc == nil {
			t.Errorf("New(%q) = %v, %v", f, doc, err)
		}
	}
	if _, err := New("bmp", 1); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("New(bmp) error = %v, want INVALID_FORMAT", err)
	}
}

func TestValidColor(t *testing.T) {
	tests := map[string]bool{
		"#fff":         true,
		"#1A2b3C":      true,
		"":             false,
		"red":          false,
		"#12345":       false,
		`#fff" onload`: false,
	}
	for in, want := range tests {
		if got := ValidColor(in); got != want {
			t.Errorf("ValidColor(%q) = %v, want %v", in, got, want)
		}
	}
}

func drawSample(t *testing.T, doc Document) {
	t.Helper()
	eng := textlayout.New(nil)
	for _, text := range []string{"first page <&> text", "second page"} {
		s := doc.AddPage(300, 200)
		if _, err := eng.Draw(s, text, textlayout.Region{X: 20, Y: 20, Width: 260, FontSize: 12, Color: "#336699"}, textlayout.Options{MaxLines: textlayout.Unlimited}); err != nil {
			t.Fatalf("Draw: %v", err)
		}
	}
}

func TestSVGDocument(t *testing.T) {
	doc := NewSVG()
	drawSample(t, doc)

	out, err := doc.Bytes(context.Background())
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	svg := string(out)

	if n := strings.Count(svg, "<text"); n != 2 {
		t.Errorf("text elements = %d, want 2", n)
	}
	if !strings.Contains(svg, "first page &lt;&amp;&gt; text") {
		t.Error("text not escaped")
	}
	if !strings.Contains(svg, `height="424"`) {
		t.Error("stacked height should be 200 + 24 + 200")
	}
	if !strings.Contains(svg, `transform="translate(0 224.00)"`) {
		t.Error("second page should be offset by page height plus gap")
	}
	if !strings.Contains(svg, `fill="#336699"`) {
		t.Error("run color missing")
	}
	if strings.Contains(svg, "@font-face") {
		t.Error("fonts embedded without WithEmbeddedFonts")
	}
}

func TestSVGDocumentInvalidColorFallsBack(t *testing.T) {
	doc := NewSVG()
	doc.AddPage(100, 100).DrawRun(textlayout.Run{Text: "x", FontSize: 10, Color: `"/><script>`})
	out, _ := doc.Bytes(context.Background())
	if strings.Contains(string(out), "<script>") {
		t.Error("unvalidated color written to SVG")
	}
	if !strings.Contains(string(out), `fill="#000000"`) {
		t.Error("default color missing")
	}
}

func TestSVGPageUsesPoints(t *testing.T) {
	doc := NewSVG(WithEmbeddedFonts())
	doc.AddPage(595, 842)
	page := string(doc.PageSVG(0))
	if !strings.Contains(page, `width="595.0pt"`) {
		t.Errorf("page width not in points: %s", page[:120])
	}
	if !strings.Contains(page, "@font-face") {
		t.Error("embedded fonts missing")
	}
}

func TestJSONDocumentBottomLeft(t *testing.T) {
	doc := NewJSON()
	s := doc.AddPage(600, 800)
	if s.Page().Origin != textlayout.BottomLeft {
		t.Fatalf("origin = %v, want BottomLeft", s.Page().Origin)
	}
	textlayout.New(nil).Draw(s, "line", textlayout.Region{Y: 100, Width: 200, FontSize: 10}, textlayout.Options{MaxLines: 1})

	runs := doc.Runs(0)
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	if runs[0].Y != 690 {
		t.Errorf("baseline = %v, want 690", runs[0].Y)
	}

	out, err := doc.Bytes(context.Background())
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	var got jsonOutput
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := jsonOutput{
		Origin: "bottom-left",
		Pages:  []jsonPage{{Width: 600, Height: 800, Runs: runs}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONDocumentEmptyPage(t *testing.T) {
	doc := NewJSON()
	doc.AddPage(10, 10)
	out, _ := doc.Bytes(context.Background())
	if !strings.Contains(string(out), `"runs": []`) {
		t.Errorf("empty page should encode runs as []: %s", out)
	}
}

func TestRasterDocument(t *testing.T) {
	doc := NewRaster(WithScale(1.5))
	drawSample(t, doc)

	out, err := doc.Bytes(context.Background())
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 450 || b.Dy() != 636 {
		t.Errorf("size = %dx%d, want 450x636", b.Dx(), b.Dy())
	}
}

func TestRasterDocumentErrors(t *testing.T) {
	if _, err := NewRaster().Bytes(context.Background()); !errors.Is(err, errors.ErrCodePrecondition) {
		t.Errorf("empty document error = %v, want precondition", err)
	}

	huge := NewRaster(WithScale(10))
	huge.AddPage(20000, 20000)
	if _, err := huge.Bytes(context.Background()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("huge canvas error = %v, want INVALID_INPUT", err)
	}
}

func TestPDFDocumentConvertsEveryPage(t *testing.T) {
	var gotFormat string
	var gotPages [][]byte
	fake := func(_ context.Context, format string, pages [][]byte) ([]byte, error) {
		gotFormat, gotPages = format, pages
		return []byte("%PDF-fake"), nil
	}

	doc := NewPDF(WithConverter(fake))
	drawSample(t, doc)
	out, err := doc.Bytes(context.Background())
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if string(out) != "%PDF-fake" {
		t.Errorf("Bytes = %q", out)
	}
	if gotFormat != "pdf" || len(gotPages) != 2 {
		t.Fatalf("converter got format %q and %d pages, want pdf and 2", gotFormat, len(gotPages))
	}
	if !bytes.Contains(gotPages[1], []byte("second page")) {
		t.Error("second page content missing")
	}
}

func TestPDFDocumentErrors(t *testing.T) {
	if _, err := NewPDF().Bytes(context.Background()); !errors.Is(err, errors.ErrCodePrecondition) {
		t.Errorf("empty document error = %v, want precondition", err)
	}

	doc := NewPDF(WithConverter(RSVGConverter("tallyprint-no-such-binary")))
	doc.AddPage(100, 100)
	if _, err := doc.Bytes(context.Background()); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("missing binary error = %v, want UNSUPPORTED", err)
	}
}
