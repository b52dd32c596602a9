package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netlayout/pkg/layout"
	"github.com/matzehuels/netlayout/pkg/pipeline"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the interactive layout browser.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		noCache  bool
		cacheURL string
	)

	cmd := &cobra.Command{
		Use:   "inspect <network.json|network.yaml|file.layout.json>",
		Short: "Browse a layout interactively",
		Long: `Browse a layout interactively.

The input is either a network description, which is laid out first, or a
layout file written by 'layout'. Select a layer with enter to list its neurons
with their positions and colors.`,
		Args: cobra.ExactArgs(1),
	}
	cfgFlags := addConfigFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := c.loadLayout(cmd.Context(), args[0], cfgFlags, noCache, cacheURL)
		if err != nil {
			return err
		}
		_, err = tea.NewProgram(NewInspectModel(r), tea.WithContext(cmd.Context())).Run()
		return err
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cacheURLFlag(cmd, &cacheURL)
	return cmd
}

// loadLayout reads a layout file directly, or computes one from a network description.
func (c *CLI) loadLayout(ctx context.Context, input string, cfgFlags *configFlags, noCache bool, cacheURL string) (*layout.Result, error) {
	if strings.HasSuffix(input, ".layout.json") {
		return layout.ReadResultFile(input)
	}

	cfg, err := cfgFlags.resolve()
	if err != nil {
		return nil, err
	}
	data, format, err := readNetwork(input)
	if err != nil {
		return nil, err
	}

	runner, err := c.newRunner(ctx, noCache, cacheURL)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{Input: data, InputFormat: format, Config: cfg}
	d, err := runner.Parse(ctx, opts)
	if err != nil {
		return nil, err
	}
	warnDuplicates(d.DuplicateIDs())
	return runner.ComputeLayout(ctx, d, opts)
}

// =============================================================================
// InspectModel - layer and neuron browser
// =============================================================================

// InspectModel is the bubbletea model for browsing a layout. It starts on the
// layer list; entering a layer switches to its neurons.
type InspectModel struct {
	Result  *layout.Result
	Layer   int  // cursor in the layer list
	Neuron  int  // cursor in the neuron list
	Drilled bool // showing neurons of Layer
	Offset  int
	Height  int
}

// NewInspectModel creates a model positioned on the first layer.
func NewInspectModel(r *layout.Result) InspectModel {
	return InspectModel{Result: r, Height: 15}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace", "left", "h":
			if !m.Drilled {
				return m, tea.Quit
			}
			m.Drilled = false
			m.Offset = scrollTo(m.Layer, 0, m.Height)
		case "enter", "right", "l":
			if !m.Drilled {
				m.Drilled = true
				m.Neuron = 0
				m.Offset = 0
			}
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

// move shifts the active cursor by delta and keeps it inside the visible window.
func (m *InspectModel) move(delta int) {
	cursor, count := &m.Layer, len(m.Result.Layers)
	if m.Drilled {
		cursor, count = &m.Neuron, len(m.Result.Layers[m.Layer].Neurons)
	}
	*cursor = min(max(*cursor+delta, 0), count-1)
	m.Offset = scrollTo(*cursor, m.Offset, m.Height)
}

func scrollTo(cursor, offset, height int) int {
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+height {
		return cursor - height + 1
	}
	return offset
}

func (m InspectModel) View() string {
	var b strings.Builder
	if m.Drilled {
		l := m.Result.Layers[m.Layer]
		b.WriteString(StyleTitle.Render(fmt.Sprintf("Layer %d", l.Index)))
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  z=%.3f  %d neurons", l.Z, len(l.Neurons))))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ← back  q quit"))
		b.WriteString("\n\n")
		b.WriteString(m.neuronTable(l))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Neuron+1, len(l.Neurons))))
		return b.String()
	}

	minB, maxB := m.Result.Bounds()
	b.WriteString(StyleTitle.Render("Layers"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d neurons  depth scale %.4f  x %.1f..%.1f  y %.1f..%.1f",
		m.Result.NeuronCount(), m.Result.Depth.Scale, minB.X, maxB.X, minB.Y, maxB.Y)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ neurons  q quit"))
	b.WriteString("\n\n")
	b.WriteString(m.layerTable())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Layer+1, len(m.Result.Layers))))
	return b.String()
}

func (m InspectModel) window(count int) (int, int) {
	end := min(m.Offset+m.Height, count)
	return m.Offset, end
}

func (m InspectModel) layerTable() string {
	all := layerRows(m.Result, m.Result.Config.Colormap())
	start, end := m.window(len(all))
	rows := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, append([]string{cursorMark(i == m.Layer)}, all[i]...))
	}
	return m.render([]string{"", "Layer", "Z", "Neurons", "Mean heat", ""}, rows, m.Layer-start)
}

func (m InspectModel) neuronTable(l layout.LayerResult) string {
	start, end := m.window(len(l.Neurons))
	rows := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		n := l.Neurons[i]
		rows = append(rows, []string{
			cursorMark(i == m.Neuron),
			n.ID,
			fmt.Sprintf("%.1f", n.Heat),
			fmt.Sprintf("%.3f", n.Local[0]),
			fmt.Sprintf("%.3f", n.Local[1]),
			fmt.Sprintf("%.3f", n.World[2]),
			fmt.Sprintf("%.1f", n.Color.A),
			swatch(n.Color) + " " + n.Color.Hex(),
		})
	}
	return m.render([]string{"", "ID", "Heat", "X", "Y", "Z", "Alpha", "Color"}, rows, m.Neuron-start)
}

func (m InspectModel) render(headers []string, rows [][]string, selected int) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if row == selected {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func cursorMark(selected bool) string {
	if selected {
		return "▸"
	}
	return " "
}
