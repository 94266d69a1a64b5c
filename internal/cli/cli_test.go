package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/config"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/errors"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/io"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/lightning"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/model"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/observability"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/pipeline"
)

var mm = geometry.FromMM

func lidPrint() *model.Print {
	box := geometry.Polygons{geometry.Rect(geometry.PointMM(0, 0), geometry.PointMM(10, 10))}
	obj := model.Object{Name: "lid"}
	for range 4 {
		obj.Layers = append(obj.Layers, model.Layer{Thickness: mm(0.2), Interior: box})
	}
	obj.Layers = append(obj.Layers, model.Layer{Thickness: mm(0.2), Skin: box})
	return &model.Print{Objects: []model.Object{obj}}
}

// writePrint writes the lid print into dir and returns its path.
func writePrint(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "lid.json")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := io.WritePrint(lidPrint(), f); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args, logging into the returned buffer.
func execute(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&logs)
	return &logs, root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	want := []string{"generate", "render", "inspect", "serve", "config", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestGenerateWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	input := writePrint(t, dir)
	out := filepath.Join(dir, "out")

	logs, err := execute(t, "generate", input, "-o", out, "-f", "json,svg,dot",
		"--layers", "3", "--radius", "2", "--spacing", "1")
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, logs)
	}
	for _, rel := range []string{"forests.json", "lid/layer-0003.svg", "lid/layer-0003.dot"} {
		if _, err := os.Stat(filepath.Join(out, rel)); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "lid/layer-0002.svg")); err == nil {
		t.Error("layer 2 was exported although only layer 3 was selected")
	}

	objs, err := io.ImportForests(filepath.Join(out, "forests.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(objs) != 1 || len(objs[0].Layers) != 1 || objs[0].Layers[0].Overhang.Len() != 81 {
		t.Errorf("exported forests = %+v", objs)
	}
	if objs[0].Settings.SupportingRadius != mm(2) {
		t.Errorf("supporting radius = %d, want %d", objs[0].Settings.SupportingRadius, mm(2))
	}
	if !strings.Contains(logs.String(), "Generated 1 object(s)") {
		t.Errorf("logs do not report completion:\n%s", logs)
	}
}

func TestGenerateRejectsBadFlags(t *testing.T) {
	dir := t.TempDir()
	input := writePrint(t, dir)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"negative radius", []string{"--radius=-1"}, errors.ErrCodeInvalidSettings},
		{"bad format", []string{"-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"bad layers", []string{"--layers", "9-3"}, errors.ErrCodeInvalidRange},
		{"missing config", []string{"-c", filepath.Join(dir, "none.toml")}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"generate", input, "-o", dir}, tt.args...)
			_, err := execute(t, args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestGenerateMissingInput(t *testing.T) {
	_, err := execute(t, "generate", filepath.Join(t.TempDir(), "none.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestRenderFromForests(t *testing.T) {
	dir := t.TempDir()
	input := writePrint(t, dir)
	if _, err := execute(t, "generate", input, "-o", dir, "-f", "json", "--spacing", "1"); err != nil {
		t.Fatal(err)
	}

	img := filepath.Join(dir, "img")
	if _, err := execute(t, "render", filepath.Join(dir, "forests.json"), "-o", img, "--layers", "2-3"); err != nil {
		t.Fatalf("render: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(img, "lid"))
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if strings.Join(names, ",") != "layer-0002.svg,layer-0003.svg" {
		t.Errorf("rendered %v", names)
	}
}

func TestSettingsFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "l.toml")
	if err := os.WriteFile(path, []byte("[lightning]\nsupporting_radius = 4.0\nprune_length = 2.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var sf settingsFlags
	cmd := &cobra.Command{Use: "test"}
	sf.register(cmd)
	if err := cmd.ParseFlags([]string{"-c", path, "--prune-length", "0.5"}); err != nil {
		t.Fatal(err)
	}
	_, s, err := sf.resolve(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if s.SupportingRadius != mm(4) {
		t.Errorf("supporting radius = %d, want file value %d", s.SupportingRadius, mm(4))
	}
	if s.PruneLength != mm(0.5) {
		t.Errorf("prune length = %d, want flag value %d", s.PruneLength, mm(0.5))
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lightning.toml")

	if _, err := execute(t, "config", "init", path); err != nil {
		t.Fatalf("init: %v", err)
	}
	f, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Lightning.InfillDensity != lightning.DefaultDerivation().InfillDensity {
		t.Errorf("density = %v", f.Lightning.InfillDensity)
	}

	if _, err := execute(t, "config", "init", path); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("second init err = %v, want INVALID_PATH", err)
	}
	if _, err := execute(t, "config", "init", path, "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
}

func TestConfigShow(t *testing.T) {
	if _, err := execute(t, "config", "show", "--radius", "3"); err != nil {
		t.Fatal(err)
	}
}

func TestFilterLayers(t *testing.T) {
	objs := []io.ObjectForests{{Name: "a", Layers: []io.LayerForest{{Layer: 0}, {Layer: 1}, {Layer: 2}}}}

	if got := filterLayers(objs, nil); len(got[0].Layers) != 3 {
		t.Errorf("nil selection kept %d layers", len(got[0].Layers))
	}
	got := filterLayers(objs, []int{2, 0, 7})
	if len(got[0].Layers) != 2 || got[0].Layers[0].Layer != 0 || got[0].Layers[1].Layer != 2 {
		t.Errorf("filtered = %+v", got[0].Layers)
	}
	if len(objs[0].Layers) != 3 {
		t.Error("filterLayers modified its input")
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	paths, err := writeArtifacts(dir, []pipeline.Artifact{
		{Path: "forests.json", Data: []byte("{}")},
		{Path: "a/layer-0001.svg", Data: []byte("<svg/>")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}
	data, err := os.ReadFile(filepath.Join(dir, "a", "layer-0001.svg"))
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("read back %q, %v", data, err)
	}
	if _, err := writeArtifacts("", nil); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("empty dir err = %v", err)
	}
}

func TestCompletion(t *testing.T) {
	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "lightning") {
		t.Error("bash completion does not mention the command")
	}
}

func TestLogHooks(t *testing.T) {
	var logs bytes.Buffer
	RegisterLogHooks(newLogger(&logs, log.DebugLevel))
	t.Cleanup(observability.Reset)

	_, err := pipeline.NewRunner(nil).Generate(context.Background(), lidPrint(), pipeline.Options{
		Settings: lightning.Settings{SupportingRadius: mm(2), SampleSpacing: mm(1)},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"construct", "overhang", "layer", "generate done"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("hook logs missing %q:\n%s", want, logs.String())
		}
	}
}

func browser(t *testing.T) LayerBrowser {
	t.Helper()
	gens, err := pipeline.NewRunner(nil).Generate(context.Background(), lidPrint(), pipeline.Options{
		Settings: lightning.Settings{SupportingRadius: mm(2), WallSupportingRadius: mm(0.5), SampleSpacing: mm(1)},
	})
	if err != nil {
		t.Fatal(err)
	}
	return NewLayerBrowser(gens)
}

func press(m LayerBrowser, keys ...tea.KeyMsg) LayerBrowser {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(LayerBrowser)
	}
	return m
}

func TestLayerBrowserNavigation(t *testing.T) {
	m := browser(t)
	down := tea.KeyMsg{Type: tea.KeyDown}
	up := tea.KeyMsg{Type: tea.KeyUp}
	end := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")}

	m = press(m, down, down)
	if m.cursor != 2 {
		t.Errorf("cursor = %d after two downs, want 2", m.cursor)
	}
	m = press(m, end, down)
	if m.cursor != 4 {
		t.Errorf("cursor = %d at end, want 4", m.cursor)
	}
	m = press(m, up)
	if m.cursor != 3 {
		t.Errorf("cursor = %d after up, want 3", m.cursor)
	}

	m, _ = func() (LayerBrowser, tea.Cmd) {
		next, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
		return next.(LayerBrowser), cmd
	}()
	if m.height != 5 || m.cursor < m.offset || m.cursor >= m.offset+m.height {
		t.Errorf("height %d offset %d cursor %d: cursor not visible", m.height, m.offset, m.cursor)
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("q should quit")
	}
}

func TestLayerBrowserView(t *testing.T) {
	view := browser(t).View()
	for _, want := range []string{"lid", "Overhang", "81", "[1/5]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	empty := NewLayerBrowser(nil)
	if !strings.Contains(empty.View(), "no objects") {
		t.Error("empty browser view")
	}
}
