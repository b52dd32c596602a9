package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netlayout/pkg/errors"
	"github.com/matzehuels/netlayout/pkg/network"
	"github.com/matzehuels/netlayout/pkg/pipeline"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output   string
		formats  string
		noCache  bool
		refresh  bool
		cacheURL string
		summary  bool
	)

	cmd := &cobra.Command{
		Use:   "layout <network.json|network.yaml>",
		Short: "Compute a 3D layout from a network description",
		Long: `Compute a 3D layout from a network description.

Each layer is scaled and centered on its own centroid, layers are stacked along
z and compressed to fit --max-depth, and every neuron gets a color from its heat.

Outputs <input>.layout.json by default; use -f json,csv for CSV as well.
Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
	}
	cfgFlags := addConfigFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := cfgFlags.resolve()
		if err != nil {
			return err
		}
		opts := pipeline.Options{
			Config:  cfg,
			Formats: pipeline.ParseFormats(formats),
			Refresh: refresh,
		}
		return c.runLayout(cmd.Context(), args[0], output, opts, noCache, cacheURL, summary)
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.<format>)")
	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatJSON, "output formats: json, csv (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if a cached layout exists")
	cmd.Flags().BoolVar(&summary, "summary", true, "print a per-layer summary table")
	cacheURLFlag(cmd, &cacheURL)

	return cmd
}

// runLayout reads the network, runs the pipeline and writes every requested format.
func (c *CLI) runLayout(ctx context.Context, input, output string, opts pipeline.Options, noCache bool, cacheURL string, summary bool) error {
	data, format, err := readNetwork(input)
	if err != nil {
		return err
	}
	opts.Input = data
	opts.InputFormat = format

	runner, err := c.newRunner(ctx, noCache, cacheURL)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	warnDuplicates(result.Duplicates)

	prog := newProgress(c.Logger)
	var paths []string
	for _, f := range opts.Formats {
		path := outputPath(input, output, f, len(opts.Formats))
		if err := os.WriteFile(path, result.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	prog.done(fmt.Sprintf("Wrote %d file(s)", len(paths)))

	printSuccess("Layout complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.LayerCount, result.Stats.NeuronCount, result.CacheInfo.LayoutHit)
	if result.Layout.Depth.Scale != 1 {
		printDetail("depth compressed by %.4f to fit max depth %g", result.Layout.Depth.Scale, opts.Config.MaxDepth)
	}
	if summary {
		fmt.Fprintln(out, layerTable(result.Layout))
	}
	printNewline()
	printNextStep("Inspect", appName+" inspect "+input)

	return nil
}

// readNetwork validates path and reads it, picking the format from the extension.
func readNetwork(path string) ([]byte, network.Format, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "network file %s", path)
		}
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return data, network.FormatFromPath(path), nil
}

// outputPath picks the destination for one format. An explicit output is
// used as-is for a single format; with several formats its extension is
// replaced per format.
func outputPath(input, output, format string, formatCount int) string {
	if output != "" {
		if formatCount == 1 {
			return output
		}
		return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ".layout." + format
}

// warnDuplicates reports neuron ids that occur more than once in a layer.
func warnDuplicates(dups map[int][]string) {
	if len(dups) == 0 {
		return
	}
	layers := make([]int, 0, len(dups))
	for l := range dups {
		layers = append(layers, l)
	}
	sort.Ints(layers)
	for _, l := range layers {
		printWarning("layer %d: duplicate neuron ids %s", l, strings.Join(dups[l], ", "))
	}
}
