package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/io"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/pipeline"
)

// renderCommand creates the render command, which draws layers of an
// exported forests file without generating again.
func (c *CLI) renderCommand() *cobra.Command {
	var of outputFlags
	var configPath string

	cmd := &cobra.Command{
		Use:   "render <forests.json>",
		Short: "Render layers of an exported forests file",
		Example: `  lightning render forests.json -f svg
  lightning render forests.json -f png,topology --layers 5-8 -o img`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			opts := pipeline.Options{Logger: c.Logger}
			dir, err := of.apply(cmd, file.Output, &opts)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("format") {
				opts.Formats = []string{pipeline.FormatSVG}
			}
			return c.runRender(cmd.Context(), args[0], dir, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "settings file for output defaults")
	of.register(cmd)
	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, dir string, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	objs, err := io.ImportForests(input)
	if err != nil {
		return err
	}
	objs = filterLayers(objs, opts.Layers)

	prog := newProgress(logger)
	artifacts, err := pipeline.NewRunner(logger).Render(ctx, objs, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d artifact(s)", len(artifacts)))

	paths, err := writeArtifacts(dir, artifacts)
	if err != nil {
		return err
	}
	for _, path := range paths {
		printFile(path)
	}
	return nil
}

// filterLayers keeps the selected layers of every object. A nil selection
// keeps everything.
func filterLayers(objs []io.ObjectForests, sel []int) []io.ObjectForests {
	if sel == nil {
		return objs
	}
	out := make([]io.ObjectForests, len(objs))
	for i, o := range objs {
		o.Layers = slices.DeleteFunc(slices.Clone(o.Layers), func(l io.LayerForest) bool {
			return !slices.Contains(sel, l.Layer)
		})
		out[i] = o
	}
	return out
}
