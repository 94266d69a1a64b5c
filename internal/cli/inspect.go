package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/io"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/lightning"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/pipeline"
)

// inspectCommand creates the inspect command, an interactive browser over
// the per-layer statistics of a generated print.
func (c *CLI) inspectCommand() *cobra.Command {
	var sf settingsFlags
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect <print.json>",
		Short: "Browse per-layer statistics of a generated print",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, settings, err := sf.resolve(cmd)
			if err != nil {
				return err
			}
			opts := pipeline.Options{Settings: settings, Parallelism: sf.parallelism, Logger: c.Logger}
			gens, err := c.generateAll(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			if plain {
				printLayerTables(gens)
				return nil
			}
			_, err = tea.NewProgram(NewLayerBrowser(gens), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	sf.register(cmd)
	cmd.Flags().BoolVar(&plain, "plain", false, "print the tables instead of starting the browser")
	return cmd
}

func (c *CLI) generateAll(ctx context.Context, input string, opts pipeline.Options) ([]*lightning.Generator, error) {
	logger := loggerFromContext(ctx)
	p, err := io.ImportPrint(input)
	if err != nil {
		return nil, err
	}
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Growing %d object(s)...", len(p.Objects)))
	spinner.Start()
	defer spinner.Stop()
	return pipeline.NewRunner(logger).Generate(ctx, p, opts)
}

// printLayerTables prints every object's layer table to stdout.
func printLayerTables(gens []*lightning.Generator) {
	for i, g := range gens {
		if i > 0 {
			printNewline()
		}
		v := newObjectView(g)
		printTitle(v.name)
		fmt.Fprintln(stdout, v.summary())
		fmt.Fprintln(stdout, layerTable(v, 0, len(v.layers), -1))
	}
}
