package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/config"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/errors"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/lightning"
)

// configCommand creates the config command group.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write or show the settings file",
	}
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())
	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a settings file with the default parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath
			if len(args) == 1 {
				path = args[0]
			}
			if err := writeDefaultConfig(path, force); err != nil {
				return err
			}
			printSuccess("Wrote %s", path)
			printNextStep("Generate with it", fmt.Sprintf("%s generate print.json -c %s", appName, path))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// writeDefaultConfig writes config.Default to path, refusing to replace an
// existing file unless force is set.
func writeDefaultConfig(path string, force bool) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	flag := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if os.IsExist(err) {
		return errors.New(errors.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
	}
	if err != nil {
		return err
	}
	if err := config.Default().Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (c *CLI) configShowCommand() *cobra.Command {
	var sf settingsFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective generator settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, s, err := sf.resolve(cmd)
			if err != nil {
				return err
			}
			printSettings(file, s)
			return nil
		},
	}
	sf.register(cmd)
	return cmd
}

// printSettings prints the slicer parameters and the settings derived from
// them, lengths in millimetres.
func printSettings(file config.File, s lightning.Settings) {
	l := file.Lightning
	mm := func(v int64) string { return fmt.Sprintf("%.3f mm", geometry.ToMM(v)) }

	printTitle("Slicer parameters")
	printKeyValue("line width", fmt.Sprintf("%.3f mm", l.InfillExtrusionWidth))
	printKeyValue("density", fmt.Sprintf("%.1f %%", l.InfillDensity))
	printKeyValue("layer height", fmt.Sprintf("%.3f mm", l.LayerHeight))
	printKeyValue("overhang", fmt.Sprintf("%.1f°", l.OverhangAngle))
	printKeyValue("prune", fmt.Sprintf("%.1f°", l.PruneAngle))
	printKeyValue("straighten", fmt.Sprintf("%.1f°", l.StraighteningAngle))
	printNewline()

	printTitle("Generator settings")
	printKeyValue("radius", mm(s.SupportingRadius))
	printKeyValue("wall radius", mm(s.WallSupportingRadius))
	printKeyValue("prune", mm(s.PruneLength))
	printKeyValue("straighten", mm(s.StraighteningMaxDistance))
	printKeyValue("spacing", mm(s.SampleSpacing))
	printKeyValue("tie", mm(s.TieTolerance))
	printNewline()

	printTitle("Output")
	printKeyValue("formats", fmt.Sprint(file.Output.Formats))
	printKeyValue("dir", file.Output.Dir)
}
