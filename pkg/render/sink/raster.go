package sink

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/tallyprint/pkg/errors"
	"github.com/matzehuels/tallyprint/pkg/fonts"
	"github.com/matzehuels/tallyprint/pkg/textlayout"
)

const (
	// DefaultScale renders PNGs at 2x resolution.
	DefaultScale = 2.0
	// maxPixels bounds the raster canvas.
	maxPixels = 64 << 20
	gapColor  = "#e5e5e5"
)

// RasterOption configures a [RasterDocument].
type RasterOption func(*RasterDocument)

// WithScale sets the pixel-per-point factor. Values <= 0 keep the default.
func WithScale(s float64) RasterOption {
	return func(d *RasterDocument) {
		if s > 0 && !math.IsInf(s, 0) {
			d.scale = s
		}
	}
}

// WithRasterBackground sets the page fill color.
func WithRasterBackground(hex string) RasterOption {
	return func(d *RasterDocument) { d.background = colorOr(hex, defaultBackground) }
}

// RasterDocument rasterizes stacked pages into one PNG with the embedded fonts.
type RasterDocument struct {
	pages      []*page
	scale      float64
	background string
}

// NewRaster creates an empty raster document.
func NewRaster(opts ...RasterOption) *RasterDocument {
	d := &RasterDocument{scale: DefaultScale, background: defaultBackground}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddPage appends a page.
func (d *RasterDocument) AddPage(width, height float64) textlayout.Sink {
	p := newPage(width, height, textlayout.TopLeft)
	d.pages = append(d.pages, p)
	return p
}

// Bytes rasterizes every page and encodes the result as PNG.
func (d *RasterDocument) Bytes(ctx context.Context) ([]byte, error) {
	if len(d.pages) == 0 {
		return nil, errors.Precondition("raster: document has no pages")
	}
	w := int(math.Ceil(stackWidth(d.pages) * d.scale))
	h := int(math.Ceil(stackHeight(d.pages, DefaultPageGap) * d.scale))
	if w <= 0 || h <= 0 {
		return nil, errors.Precondition("raster: empty canvas %dx%d", w, h)
	}
	if w*h > maxPixels {
		return nil, errors.New(errors.ErrCodeInvalidInput, "raster: canvas %dx%d too large, lower the scale", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetHexColor(gapColor)
	dc.Clear()

	faces := make(map[faceKey]font.Face)
	var offset float64
	for _, p := range d.pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dc.SetHexColor(d.background)
		dc.DrawRectangle(0, offset*d.scale, p.page.Width*d.scale, p.page.Height*d.scale)
		dc.Fill()

		for _, r := range p.runs {
			face, err := d.face(faces, r)
			if err != nil {
				return nil, fmt.Errorf("load face %q: %w", r.Font, err)
			}
			dc.SetFontFace(face)
			dc.SetHexColor(colorOr(r.Color, defaultColor))
			dc.DrawString(r.Text, r.X*d.scale, (offset+r.Y)*d.scale)
		}
		offset += p.page.Height + DefaultPageGap
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

type faceKey struct {
	name string
	size float64
}

// face returns a face for the run sized in pixels. Glyphs are rasterized at
// the scaled size rather than resampled.
func (d *RasterDocument) face(cache map[faceKey]font.Face, r textlayout.Run) (font.Face, error) {
	fam, ok := fonts.Lookup(r.Font)
	if !ok {
		fam = fonts.Regular()
	}
	key := faceKey{fam.Name(), r.FontSize * d.scale}
	if f, ok := cache[key]; ok {
		return f, nil
	}
	f, err := fam.NewFace(key.size)
	if err != nil {
		return nil, err
	}
	cache[key] = f
	return f, nil
}
