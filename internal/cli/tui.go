package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/forest"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/lightning"
)

var (
	listDimStyle = lipgloss.NewStyle().Foreground(faint)
	headerStyle  = lipgloss.NewStyle().Foreground(muted).Bold(true)
)

// objectView is the per-layer summary of one generated object.
type objectView struct {
	name   string
	runID  string
	stats  lightning.Stats
	layers []layerRow
}

type layerRow struct {
	layer    int
	overhang int
	stats    forest.LayerStats
}

func newObjectView(g *lightning.Generator) objectView {
	v := objectView{
		name:   g.Object().Name,
		runID:  g.RunID(),
		stats:  g.Stats(),
		layers: make([]layerRow, g.LayerCount()),
	}
	for i := range v.layers {
		oh, _ := g.Overhang(i)
		v.layers[i] = layerRow{layer: i, overhang: oh.Len(), stats: v.stats.Layers[i]}
	}
	return v
}

var layerHeaders = []string{"", "Layer", "Overhang", "Nodes", "Roots", "New", "Attached", "Covered", "Pruned", "Moved"}

func (r layerRow) cells(cursor bool) []string {
	mark := "  "
	if cursor {
		mark = "▸ "
	}
	st := r.stats
	return []string{
		mark,
		strconv.Itoa(r.layer),
		strconv.Itoa(r.overhang),
		strconv.Itoa(st.Nodes),
		strconv.Itoa(st.Roots),
		strconv.Itoa(st.NewRoots),
		strconv.Itoa(st.Attached),
		strconv.Itoa(st.Covered),
		strconv.Itoa(st.Pruned),
		strconv.Itoa(st.Moved),
	}
}

// layerTable renders rows [from, to) of v. The cursor row is highlighted;
// pass -1 for none.
func layerTable(v objectView, from, to, cursor int) string {
	rows := make([][]string, 0, to-from)
	for i := from; i < to; i++ {
		rows = append(rows, v.layers[i].cells(i == cursor))
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(faint)).
		Headers(layerHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := from + row
			base := lipgloss.NewStyle().PaddingRight(1)
			switch {
			case idx == cursor:
				return base.Foreground(accent).Bold(true)
			case idx < len(v.layers) && v.layers[idx].overhang > 0 && col == 2:
				return base.Foreground(colorYellow)
			case idx < len(v.layers) && v.layers[idx].stats.Nodes == 0:
				return base.Foreground(faint)
			}
			return base
		}).
		Render()
}

func (v objectView) summary() string {
	return StyleDim.Render(strings.Join([]string{
		fmt.Sprintf("%d layers", len(v.layers)),
		fmt.Sprintf("%d trees", v.stats.Roots),
		fmt.Sprintf("%d nodes", v.stats.Nodes),
		fmt.Sprintf("%d overhang points", v.stats.OverhangPoints),
		fmt.Sprintf("%.1f mm", geometry.ToMM(v.stats.Length)),
	}, statSep))
}

// =============================================================================
// LayerBrowser - Interactive per-layer statistics
// =============================================================================

// LayerBrowser is the bubbletea model of the inspect command.
type LayerBrowser struct {
	objects []objectView
	object  int
	cursor  int
	offset  int
	height  int
}

// NewLayerBrowser creates a browser over finished generators.
func NewLayerBrowser(gens []*lightning.Generator) LayerBrowser {
	m := LayerBrowser{height: 15}
	for _, g := range gens {
		m.objects = append(m.objects, newObjectView(g))
	}
	return m
}

func (m LayerBrowser) Init() tea.Cmd {
	return nil
}

func (m LayerBrowser) current() objectView { return m.objects[m.object] }

func (m LayerBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if len(m.objects) == 0 {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(m.current().layers)
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1, n)
		case "down", "j":
			m.move(1, n)
		case "pgup":
			m.move(-m.height, n)
		case "pgdown":
			m.move(m.height, n)
		case "home", "g":
			m.move(-n, n)
		case "end", "G":
			m.move(n, n)
		case "tab", "right", "l":
			m.switchObject(1)
		case "shift+tab", "left", "h":
			m.switchObject(-1)
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-9, 5)
		m.move(0, len(m.current().layers))
	}
	return m, nil
}

// move shifts the cursor by d within [0, n) and scrolls it into view.
func (m *LayerBrowser) move(d, n int) {
	m.cursor = min(max(m.cursor+d, 0), max(n-1, 0))
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m *LayerBrowser) switchObject(d int) {
	k := len(m.objects)
	m.object = ((m.object+d)%k + k) % k
	m.cursor, m.offset = 0, 0
}

func (m LayerBrowser) View() string {
	var b strings.Builder
	if len(m.objects) == 0 {
		b.WriteString(listDimStyle.Render("no objects"))
		return b.String()
	}
	v := m.current()

	b.WriteString(StyleTitle.Render(v.name))
	b.WriteString(" ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("(%d/%d, run %s)", m.object+1, len(m.objects), v.runID)))
	b.WriteString("\n")
	b.WriteString(v.summary())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ layer  pgup/pgdn page  ⇥ object  q quit"))
	b.WriteString("\n")

	end := min(m.offset+m.height, len(v.layers))
	b.WriteString(layerTable(v, m.offset, end, m.cursor))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.cursor+1, len(v.layers)), len(v.layers))))
	return b.String()
}
