package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/config"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/io"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/lightning"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/pipeline"
)

// outputFlags select what is exported and where.
type outputFlags struct {
	dir     string
	formats string
	layers  string
	width   float64
	height  float64
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dir, "output", "o", "", "output directory (default from settings, else .)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): json, svg, png, pdf, dot, topology (comma-separated)")
	cmd.Flags().StringVar(&f.layers, "layers", "", "layers to export, e.g. 0-10,42 (default all)")
	cmd.Flags().Float64Var(&f.width, "width", 0, "image width in points")
	cmd.Flags().Float64Var(&f.height, "height", 0, "image height in points")
}

// apply fills the render options from the flags, falling back to out.
func (f *outputFlags) apply(cmd *cobra.Command, out config.Output, opts *pipeline.Options) (dir string, err error) {
	opts.Formats = out.Formats
	if cmd.Flags().Changed("format") {
		if opts.Formats, err = pipeline.ParseFormats(f.formats); err != nil {
			return "", err
		}
	}
	if opts.Layers, err = pipeline.ParseLayerRange(f.layers); err != nil {
		return "", err
	}
	opts.Width, opts.Height = out.Width, out.Height
	if cmd.Flags().Changed("width") {
		opts.Width = f.width
	}
	if cmd.Flags().Changed("height") {
		opts.Height = f.height
	}
	dir = out.Dir
	if f.dir != "" {
		dir = f.dir
	}
	if dir == "" {
		dir = "."
	}
	return dir, nil
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var sf settingsFlags
	var of outputFlags

	cmd := &cobra.Command{
		Use:   "generate <print.json>",
		Short: "Generate lightning infill for a sliced print",
		Long: `Generate grows the lightning forests of every object in a sliced print and
exports them. The json format writes every object into forests.json; image and
graph formats write one file per object and layer.`,
		Example: `  lightning generate part.json
  lightning generate part.json -f json,svg --layers 10-20 -o out
  lightning generate part.json --radius 3 --prune-length 1.5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, settings, err := sf.resolve(cmd)
			if err != nil {
				return err
			}
			opts := pipeline.Options{Settings: settings, Parallelism: sf.parallelism, Logger: c.Logger}
			dir, err := of.apply(cmd, file.Output, &opts)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), args[0], dir, opts)
		},
	}

	sf.register(cmd)
	of.register(cmd)
	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, input, dir string, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Generating %s", input)

	p, err := io.ImportPrint(input)
	if err != nil {
		return err
	}
	logger.Debug("settings",
		"supporting_radius", geometry.ToMM(opts.Settings.SupportingRadius),
		"wall_supporting_radius", geometry.ToMM(opts.Settings.WallSupportingRadius),
		"prune_length", geometry.ToMM(opts.Settings.PruneLength),
		"straightening_max_distance", geometry.ToMM(opts.Settings.StraighteningMaxDistance))

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Growing %d object(s)...", len(p.Objects)))
	spinner.Start()
	result, err := pipeline.NewRunner(logger).Execute(ctx, p, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %d object(s)", result.Stats.Objects))

	paths, err := writeArtifacts(dir, result.Artifacts)
	if err != nil {
		return err
	}
	for _, g := range result.Generators {
		printObjectStats(g.Object().Name, g.Stats())
	}
	for _, path := range paths {
		printFile(path)
	}
	return nil
}

// printObjectStats prints a one-line summary of a generated object.
func printObjectStats(name string, st lightning.Stats) {
	printSuccess("%s", StyleHighlight.Render(name))
	printStats(
		fmt.Sprintf("%d layers", len(st.Layers)),
		fmt.Sprintf("%d trees", st.Roots),
		fmt.Sprintf("%d nodes", st.Nodes),
		fmt.Sprintf("%d overhang points", st.OverhangPoints),
		fmt.Sprintf("%.1f mm", geometry.ToMM(st.Length)),
	)
}
