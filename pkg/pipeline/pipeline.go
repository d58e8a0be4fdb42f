// Package pipeline runs the payload → classify → assemble → render flow.
//
// The same Runner serves the CLI commands and can be embedded by other
// callers, so caching and format handling live here rather than in the
// commands.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, report.NewAssembler(tpl, catalog, logger), logger)
//	result, err := runner.Execute(ctx, payload, pipeline.Options{Formats: []string{"svg", "pdf"}})
//	if err != nil {
//	    return err
//	}
//	pdf := result.Artifacts["pdf"]
//
// # Concurrency
//
// Each requested format is assembled into its own document and rendered on
// its own goroutine. Rendered artifacts are cached under a hash of every
// input that affects them: the payload content, template, catalog, format
// and scale.
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tallyprint/pkg/classify"
	"github.com/matzehuels/tallyprint/pkg/render/sink"
	"github.com/matzehuels/tallyprint/pkg/report"
)

const (
	// DefaultFormat is rendered when no format is requested.
	DefaultFormat = string(sink.FormatSVG)

	// DefaultScale is the PNG pixel-per-point factor.
	DefaultScale = sink.DefaultScale
)

// Options contains the per-run configuration.
type Options struct {
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Refresh bool     `json:"refresh,omitempty"` // skip cache reads, still write

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults normalizes formats, removes duplicates and applies
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	formats := make([]string, 0, len(o.Formats))
	for _, f := range o.Formats {
		parsed, err := sink.ParseFormat(f)
		if err != nil {
			return err
		}
		if !slices.Contains(formats, string(parsed)) {
			formats = append(formats, string(parsed))
		}
	}
	o.Formats = formats

	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies this run: the payload id, or a generated UUID.
	ID string

	// InputHash is the content hash shared by every artifact of the run.
	InputHash string

	Classification classify.Result
	Summary        report.Summary

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	ClassifyTime time.Duration
	RenderTime   time.Duration // wall time for all formats
	Bytes        int           // total artifact size
}

// CacheInfo tracks which formats came from the cache.
type CacheInfo struct {
	Hits      []string // formats served from cache
	RenderHit bool     // every format came from cache
}

// String summarizes the stats for log output.
func (s Stats) String() string {
	return fmt.Sprintf("classify=%s render=%s bytes=%d", s.ClassifyTime, s.RenderTime, s.Bytes)
}
