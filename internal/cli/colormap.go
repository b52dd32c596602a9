package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netlayout/pkg/colormap"
	"github.com/matzehuels/netlayout/pkg/config"
)

// colormapCommand creates the colormap command.
func (c *CLI) colormapCommand() *cobra.Command {
	var (
		steps      int
		heat       float64
		asJSON     bool
		configPath string
		heatMin    float64
		heatMax    float64
	)

	cmd := &cobra.Command{
		Use:   "colormap",
		Short: "Print the heat gradient or look up a heat value",
		Long: `Print the heat gradient or look up a heat value.

Heat is clamped to [heat-min, heat-max] and mapped blue → cyan → green →
yellow → red. Alpha falls linearly from 255 at the minimum to 0 at the maximum.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Discover(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("heat-min") {
				cfg.HeatMin = heatMin
			}
			if cmd.Flags().Changed("heat-max") {
				cfg.HeatMax = heatMax
			}
			m, err := colormap.New(cfg.HeatMin, cfg.HeatMax)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("heat") {
				return printLookup(m, heat, asJSON)
			}
			return printLegend(m, steps, asJSON)
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 9, "number of legend entries")
	cmd.Flags().Float64Var(&heat, "heat", 0, "look up a single heat value")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().StringVar(&configPath, "config", "", "configuration file (TOML or YAML)")
	cmd.Flags().Float64Var(&heatMin, "heat-min", colormap.DefaultHeatMin, "heat mapped to the coldest color")
	cmd.Flags().Float64Var(&heatMax, "heat-max", colormap.DefaultHeatMax, "heat mapped to the hottest color")

	return cmd
}

func printLookup(m colormap.Map, heat float64, asJSON bool) error {
	stop := colormap.Stop{Heat: heat, T: m.Normalize(heat), Color: m.At(heat)}
	if asJSON {
		return writeJSON(stop)
	}
	printKeyValue("Heat", fmt.Sprintf("%g", heat))
	printKeyValue("t", fmt.Sprintf("%.6f", stop.T))
	printKeyValue("RGBA", fmt.Sprintf("%.2f, %.2f, %.2f, %.2f", stop.Color.R, stop.Color.G, stop.Color.B, stop.Color.A))
	printKeyValue("Hex", swatch(stop.Color)+" "+stop.Color.Hex())
	return nil
}

func printLegend(m colormap.Map, steps int, asJSON bool) error {
	legend := m.Legend(steps)
	if asJSON {
		return writeJSON(legend)
	}

	rows := make([][]string, len(legend))
	for i, s := range legend {
		rows[i] = []string{
			fmt.Sprintf("%.1f", s.Heat),
			fmt.Sprintf("%.3f", s.T),
			fmt.Sprintf("%.0f", s.Color.A),
			s.Color.Hex(),
			swatch(s.Color),
		}
	}
	fmt.Fprintln(out, table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("Heat", "t", "Alpha", "Hex", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render())
	return nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
