// Package fonts provides the embedded Go font family for measurement and
// rendering.
//
// The fonts ship with golang.org/x/image and are compiled into the binary, so
// measuring and rasterizing text needs no system fonts. A [Family] measures
// exact advance widths with freetype and implements the measurer used by the
// text layout engine.
package fonts

import (
	"encoding/base64"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Face names accepted by [Lookup].
const (
	NameRegular = "regular"
	NameBold    = "bold"
	NameMono    = "mono"
)

// FallbackFontFamily is the CSS fallback list used after the embedded family.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

// sample approximates the letter mix of running text.
const sample = "The quick brown fox jumps over the lazy dog"

// Family is one embedded face. Parsed fonts and sized faces are created on
// first use; all methods are safe for concurrent use.
type Family struct {
	name   string
	css    string
	weight string
	ttf    []byte

	parseOnce sync.Once
	font      *truetype.Font
	parseErr  error

	b64Once sync.Once
	b64     string

	mu    sync.Mutex // guards faces; font.Face is not goroutine-safe
	faces map[float64]font.Face
}

var (
	regular = &Family{name: NameRegular, css: "Go", weight: "normal", ttf: goregular.TTF}
	bold    = &Family{name: NameBold, css: "Go", weight: "bold", ttf: gobold.TTF}
	mono    = &Family{name: NameMono, css: "Go Mono", weight: "normal", ttf: gomono.TTF}

	registry = map[string]*Family{
		NameRegular: regular,
		NameBold:    bold,
		NameMono:    mono,
	}
)

// Regular returns the Go Regular face.
func Regular() *Family { return regular }

// Bold returns the Go Bold face.
func Bold() *Family { return bold }

// Mono returns the Go Mono face.
func Mono() *Family { return mono }

// Lookup returns the face with the given name. The empty name is Regular.
func Lookup(name string) (*Family, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return regular, true
	}
	f, ok := registry[name]
	return f, ok
}

// Names returns all registered face names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Name returns the registry name, e.g. "bold".
func (f *Family) Name() string { return f.name }

// CSSFamily returns the CSS font-family name.
func (f *Family) CSSFamily() string { return f.css }

// CSSWeight returns the CSS font-weight keyword.
func (f *Family) CSSWeight() string { return f.weight }

// TTF returns the raw TrueType data.
func (f *Family) TTF() []byte { return f.ttf }

// TTFBase64 returns the TrueType data as a base64 string for data URIs.
// The result is cached after first computation.
func (f *Family) TTFBase64() string {
	f.b64Once.Do(func() {
		f.b64 = base64.StdEncoding.EncodeToString(f.ttf)
	})
	return f.b64
}

func (f *Family) parsed() (*truetype.Font, error) {
	f.parseOnce.Do(func() {
		f.font, f.parseErr = truetype.Parse(f.ttf)
	})
	return f.font, f.parseErr
}

// NewFace creates a face at the given point size. The caller owns it and
// must not share it between goroutines.
func (f *Family) NewFace(size float64) (font.Face, error) {
	tt, err := f.parsed()
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(tt, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

// MeasureWidth returns the advance width of s at the given size in points.
// Non-positive or non-finite sizes measure as zero.
func (f *Family) MeasureWidth(s string, size float64) float64 {
	if s == "" || !validSize(size) {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	face, err := f.cachedFace(size)
	if err != nil {
		return 0
	}
	return float64(font.MeasureString(face, s)) / 64
}

// AverageGlyphWidth returns the mean advance of a pangram at the given size.
func (f *Family) AverageGlyphWidth(size float64) float64 {
	return f.MeasureWidth(sample, size) / float64(len(sample))
}

// cachedFace must be called with f.mu held.
func (f *Family) cachedFace(size float64) (font.Face, error) {
	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	face, err := f.NewFace(size)
	if err != nil {
		return nil, err
	}
	if f.faces == nil {
		f.faces = make(map[float64]font.Face)
	}
	f.faces[size] = face
	return face, nil
}

func validSize(size float64) bool {
	return size > 0 && !math.IsInf(size, 0)
}
