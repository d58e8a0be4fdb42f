package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tallyprint/pkg/errors"
	"github.com/matzehuels/tallyprint/pkg/pipeline"
	"github.com/matzehuels/tallyprint/pkg/render/sink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // base path; the format extension is appended
	formats  []string // output formats: svg, png, pdf, json
	scale    float64  // PNG pixels per point
	template string   // template file
	catalog  string   // catalog file
	refresh  bool     // skip cache reads
	quiet    bool     // no spinner or summary
}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [payload.json]",
		Short: "Render a payload to SVG, PNG, PDF or JSON",
		Long: `Render classifies a payload and lays out the report template with the
matching narrative copy. One file is written per format, named after
--output (or the payload file) with the format's extension.

PDF output requires rsvg-convert on PATH.`,
		Example: `  tallyprint render record.json
  tallyprint render record.json -f svg,pdf -o out/ada
  cat record.json | tallyprint render - -o report -f png --scale 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, c.cfg().Render.Formats)
			if opts.scale == 0 {
				opts.scale = c.cfg().Render.Scale
			}
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: payload path without extension)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG scale factor (pixels per point)")
	cmd.Flags().StringVar(&opts.template, "template", "", "report template (.toml)")
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "narrative catalog (.toml, .yaml)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "only print errors")

	return cmd
}

// parseFormats splits the --format flag, falling back to the configured
// formats and then to svg.
func parseFormats(s string, fallback []string) []string {
	if s == "" {
		if len(fallback) > 0 {
			return fallback
		}
		return []string{pipeline.DefaultFormat}
	}
	return strings.Split(s, ",")
}

// basePath derives the output base from --output and the input path.
// A known format extension on output is stripped; stdin defaults to
// "report".
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "report"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if _, err := sink.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil && ext != "" {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	base := basePath(opts.output, input)
	if err := errors.ValidateOutputBase(base); err != nil {
		return err
	}

	p, err := readPayload(cmd.InOrStdin(), input)
	if err != nil {
		return err
	}

	runner, closeCache, err := c.newRunner(ctx, opts.template, opts.catalog, false)
	if err != nil {
		return err
	}
	defer closeCache()

	var spinner *Spinner
	if !opts.quiet {
		spinner = newSpinner(ctx, "Rendering "+input+"...")
		spinner.Start()
	}
	prog := newProgress(logger)
	result, err := runner.Execute(ctx, p, pipeline.Options{
		Formats: opts.formats,
		Scale:   opts.scale,
		Refresh: opts.refresh,
		Logger:  logger,
	})
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}
		return err
	}
	prog.done("rendered", "id", result.ID, "key", result.Classification.Key())

	paths, err := writeArtifacts(base, result)
	if err != nil {
		return err
	}

	if opts.quiet {
		return nil
	}
	printSuccess("Rendered %s as %s", StyleValue.Render(displayName(p.Name, input)), StyleHighlight.Render(result.Classification.Key()))
	for _, path := range paths {
		printFile(path)
	}
	printRunStats(result.Summary.Pages, result.Stats.Bytes, result.CacheInfo.RenderHit)
	if missing := result.Summary.Missing(); len(missing) > 0 {
		printWarning("No copy for region(s): %s", strings.Join(missing, ", "))
		printNextStep("Check catalog coverage", appName+" catalog check")
	}
	if truncated := result.Summary.Truncated(); len(truncated) > 0 {
		printDetail("Truncated: %s", strings.Join(truncated, ", "))
	}
	return nil
}

// writeArtifacts writes one file per rendered format and returns the paths.
func writeArtifacts(base string, result *pipeline.Result) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	var paths []string
	for _, f := range sink.Formats {
		data, ok := result.Artifacts[string(f)]
		if !ok {
			continue
		}
		path := base + f.Ext()
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func displayName(name, input string) string {
	if name != "" {
		return name
	}
	return input
}
