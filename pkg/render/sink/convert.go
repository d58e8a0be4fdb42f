package sink

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/matzehuels/tallyprint/pkg/errors"
)

// DefaultRSVG is the converter binary looked up on PATH.
const DefaultRSVG = "rsvg-convert"

// Converter turns SVG pages into a single file of the given format.
type Converter func(ctx context.Context, format string, pages [][]byte) ([]byte, error)

// RSVGConverter returns a Converter that shells out to the named
// rsvg-convert binary. Several pages produce a multi-page document.
func RSVGConverter(binary string) Converter {
	return func(ctx context.Context, format string, pages [][]byte) ([]byte, error) {
		return rsvgConvert(ctx, binary, format, pages)
	}
}

// rsvgConvert shells out to rsvg-convert for format conversion. A single page
// is piped through stdin; several pages are written to a temp dir first.
func rsvgConvert(ctx context.Context, binary, format string, pages [][]byte) ([]byte, error) {
	if _, err := exec.LookPath(binary); err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}
	if len(pages) == 0 {
		return nil, errors.Precondition("%s export: no pages", format)
	}

	args := []string{"-f", format}
	var stdin []byte
	if len(pages) == 1 {
		stdin = pages[0]
	} else {
		dir, err := os.MkdirTemp("", "tallyprint-*")
		if err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
		defer os.RemoveAll(dir)
		for i, p := range pages {
			path := filepath.Join(dir, fmt.Sprintf("page-%03d.svg", i+1))
			if err := os.WriteFile(path, p, 0o600); err != nil {
				return nil, fmt.Errorf("write page %d: %w", i+1, err)
			}
			args = append(args, path)
		}
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
