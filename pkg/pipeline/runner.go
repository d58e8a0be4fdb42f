package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tallyprint/pkg/cache"
	"github.com/matzehuels/tallyprint/pkg/classify"
	"github.com/matzehuels/tallyprint/pkg/errors"
	"github.com/matzehuels/tallyprint/pkg/observability"
	"github.com/matzehuels/tallyprint/pkg/render/sink"
	"github.com/matzehuels/tallyprint/pkg/report"
	"github.com/matzehuels/tallyprint/pkg/textlayout"
)

// Runner executes the pipeline with caching.
//
// The Runner is stateless except for its collaborators; multiple goroutines
// can use the same Runner with different payloads.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Assembler *report.Assembler
	Logger    *log.Logger

	// NewDocument creates the document for a format. Defaults to sink.New.
	NewDocument func(format sink.Format, scale float64) (sink.Document, error)
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer uses
// DefaultKeyer and a nil assembler uses the embedded template and catalog.
func NewRunner(c cache.Cache, keyer cache.Keyer, asm *report.Assembler, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if asm == nil {
		asm = report.NewAssembler(nil, nil, logger)
	}
	return &Runner{Cache: c, Keyer: keyer, Assembler: asm, Logger: logger, NewDocument: sink.New}
}

// Execute classifies the payload and renders every requested format.
func (r *Runner) Execute(ctx context.Context, p report.Payload, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if r.Assembler == nil {
		return nil, errors.Precondition("pipeline: runner has no assembler")
	}
	logger := opts.Logger

	result := &Result{
		ID:        p.ID,
		Artifacts: make(map[string][]byte, len(opts.Formats)),
	}
	if result.ID == "" {
		result.ID = uuid.NewString()
	}

	start := time.Now()
	result.Classification = classify.Classify(p.Counts)
	result.Stats.ClassifyTime = time.Since(start)
	observability.Pipeline().OnClassify(ctx, result.Classification.Key())
	logger.Info("classified", "id", result.ID, "counts", p.Counts, "shape", result.Classification.Shape)

	hash, err := r.inputHash(p)
	if err != nil {
		return nil, err
	}
	result.InputHash = hash

	renderStart := time.Now()
	var (
		mu      sync.Mutex
		summary *report.Summary
		hits    []string
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, sum, hit, err := r.renderFormat(gctx, p, hash, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			defer mu.Unlock()
			result.Artifacts[format] = data
			if hit {
				hits = append(hits, format)
			} else if summary == nil {
				summary = &sum
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(renderStart)

	if summary == nil {
		s, err := r.cachedSummary(ctx, p, hash, opts)
		if err != nil {
			return nil, err
		}
		summary = &s
	} else {
		r.storeSummary(ctx, hash, *summary, logger)
	}
	result.Summary = *summary

	slices.SortFunc(hits, func(a, b string) int { return slices.Index(opts.Formats, a) - slices.Index(opts.Formats, b) })
	result.CacheInfo = CacheInfo{Hits: hits, RenderHit: len(hits) == len(opts.Formats)}
	for _, data := range result.Artifacts {
		result.Stats.Bytes += len(data)
	}

	if missing := result.Summary.Missing(); len(missing) > 0 {
		logger.Warn("regions without copy", "regions", missing)
	}
	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(hits),
		"duration", result.Stats.RenderTime)
	return result, nil
}

// inputHash hashes everything except the payload id, so identical records
// share cache entries.
func (r *Runner) inputHash(p report.Payload) (string, error) {
	return cache.HashJSON(p.Name, p.Counts, p.Narratives, r.Assembler.Template, r.Assembler.Catalog)
}

func (r *Runner) artifactKey(hash, format string, opts Options) string {
	keyOpts := cache.ArtifactKeyOpts{Format: format}
	if format == string(sink.FormatPNG) {
		keyOpts.Scale = opts.Scale
	}
	return r.Keyer.ArtifactKey(hash, keyOpts)
}

// renderFormat returns a cached artifact or assembles and renders a new one.
func (r *Runner) renderFormat(ctx context.Context, p report.Payload, hash, format string, opts Options) ([]byte, report.Summary, bool, error) {
	logger := opts.Logger
	key := r.artifactKey(hash, format, opts)
	hooks := observability.Cache()

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			logger.Warn("cache read failed", "format", format, "err", err)
		case hit:
			hooks.OnCacheHit(ctx, "artifact")
			logger.Debug("artifact from cache", "format", format)
			return data, report.Summary{}, true, nil
		default:
			hooks.OnCacheMiss(ctx, "artifact")
		}
	}

	doc, err := r.newDocument(sink.Format(format), opts.Scale)
	if err != nil {
		return nil, report.Summary{}, false, err
	}

	pipe := observability.Pipeline()
	start := time.Now()
	pipe.OnAssembleStart(ctx, format)
	sum, err := r.Assembler.Assemble(ctx, p, doc)
	pipe.OnAssembleComplete(ctx, format, len(sum.Regions), len(sum.Missing()), time.Since(start), err)
	if err != nil {
		return nil, report.Summary{}, false, err
	}

	start = time.Now()
	pipe.OnRenderStart(ctx, format)
	data, err := doc.Bytes(ctx)
	pipe.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	if err != nil {
		return nil, report.Summary{}, false, err
	}

	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		logger.Warn("cache write failed", "format", format, "err", err)
	} else {
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return data, sum, false, nil
}

func (r *Runner) newDocument(f sink.Format, scale float64) (sink.Document, error) {
	if r.NewDocument == nil {
		return sink.New(f, scale)
	}
	return r.NewDocument(f, scale)
}

// cachedSummary returns the stored layout summary, or recomputes it by
// assembling into a document that discards its runs.
func (r *Runner) cachedSummary(ctx context.Context, p report.Payload, hash string, opts Options) (report.Summary, error) {
	key := r.Keyer.SummaryKey(hash)
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var s report.Summary
		if json.Unmarshal(data, &s) == nil {
			observability.Cache().OnCacheHit(ctx, "summary")
			s.Classification = classify.Classify(p.Counts)
			return s, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "summary")

	s, err := r.Assembler.Assemble(ctx, p, discard{})
	if err != nil {
		return report.Summary{}, err
	}
	r.storeSummary(ctx, hash, s, opts.Logger)
	return s, nil
}

func (r *Runner) storeSummary(ctx context.Context, hash string, s report.Summary, logger *log.Logger) {
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, r.Keyer.SummaryKey(hash), data, cache.TTLSummary); err != nil {
		logger.Warn("cache write failed", "type", "summary", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "summary", len(data))
}

// discard is a document whose pages drop every run.
type discard struct{}

func (discard) AddPage(w, h float64) textlayout.Sink {
	return discardPage{textlayout.Page{Width: w, Height: h}}
}

type discardPage struct{ page textlayout.Page }

func (d discardPage) Page() textlayout.Page { return d.page }
func (discardPage) DrawRun(textlayout.Run)  {}
