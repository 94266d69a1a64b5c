package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simar1998/OrcaSlicer-C3PD/internal/server"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/pipeline"
)

const defaultAddr = "localhost:8080"

// serveCommand creates the serve command, which generates a print and
// answers queries about it until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var sf settingsFlags
	var addr string

	cmd := &cobra.Command{
		Use:   "serve <print.json>",
		Short: "Generate a print and serve its layers over HTTP",
		Example: `  lightning serve part.json
  curl localhost:8080/objects/part/layers/12
  curl -o l12.svg localhost:8080/objects/part/layers/12/image.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, settings, err := sf.resolve(cmd)
			if err != nil {
				return err
			}
			opts := pipeline.Options{Settings: settings, Parallelism: sf.parallelism, Logger: c.Logger}
			return c.runServe(cmd.Context(), args[0], addr, opts)
		},
	}

	sf.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, input, addr string, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)

	prog := newProgress(logger)
	gens, err := c.generateAll(ctx, input, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %d object(s)", len(gens)))

	for _, g := range gens {
		printInfo("http://%s/objects/%s", addr, g.Object().Name)
	}
	srv := server.New(gens, server.WithLogger(logger))
	return srv.ListenAndServe(ctx, addr)
}
