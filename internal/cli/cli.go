package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/buildinfo"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/config"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/errors"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/lightning"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "lightning"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance writing logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Lightning grows sparse tree-shaped infill for sliced prints",
		Long: `Lightning generates lightning infill: per layer, a forest of trees that
reaches up to support only the parts of the top surfaces that need it.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Settings
// =============================================================================

// settingsFlags are the flags shared by every command that generates.
// Lengths are in millimetres and override the settings file.
type settingsFlags struct {
	config      string
	radius      float64
	wallRadius  float64
	pruneLength float64
	straighten  float64
	spacing     float64
	parallelism int
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "settings file (default ./"+config.DefaultPath+" when present)")
	cmd.Flags().Float64Var(&f.radius, "radius", 0, "supporting radius in mm (overrides the derived value)")
	cmd.Flags().Float64Var(&f.wallRadius, "wall-radius", 0, "wall supporting radius in mm")
	cmd.Flags().Float64Var(&f.pruneLength, "prune-length", 0, "prune length in mm")
	cmd.Flags().Float64Var(&f.straighten, "straighten", 0, "straightening max distance in mm")
	cmd.Flags().Float64Var(&f.spacing, "spacing", 0, "overhang sample spacing in mm")
	cmd.Flags().IntVarP(&f.parallelism, "parallelism", "j", 0, "objects generated at once (default GOMAXPROCS)")
}

// resolve loads the settings file and applies the flags that were set.
func (f *settingsFlags) resolve(cmd *cobra.Command) (config.File, lightning.Settings, error) {
	file, err := loadConfig(f.config)
	if err != nil {
		return config.File{}, lightning.Settings{}, err
	}
	l := &file.Lightning
	for _, o := range []struct {
		name string
		val  float64
		dst  *float64
	}{
		{"radius", f.radius, &l.SupportingRadius},
		{"wall-radius", f.wallRadius, &l.WallSupportingRadius},
		{"prune-length", f.pruneLength, &l.PruneLength},
		{"straighten", f.straighten, &l.StraighteningMaxDistance},
		{"spacing", f.spacing, &l.SampleSpacing},
	} {
		if cmd.Flags().Changed(o.name) {
			*o.dst = o.val
		}
	}
	s, err := l.Settings()
	if err != nil {
		return config.File{}, lightning.Settings{}, err
	}
	return file, s, nil
}

// loadConfig reads path, or the default settings file when path is empty
// and one exists, or falls back to the built-in defaults.
func loadConfig(path string) (config.File, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat(config.DefaultPath); err == nil {
		return config.Load(config.DefaultPath)
	}
	return config.Default(), nil
}

// =============================================================================
// Output
// =============================================================================

// writeArtifacts writes every artifact below dir and returns the paths written.
func writeArtifacts(dir string, artifacts []pipeline.Artifact) ([]string, error) {
	if err := errors.ValidatePath(dir); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		p := filepath.Join(dir, filepath.FromSlash(a.Path))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return paths, err
		}
		if err := os.WriteFile(p, a.Data, 0o644); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
