package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/netlayout/pkg/config"
	"github.com/matzehuels/netlayout/pkg/layout"
)

// configFlags binds --config and one override flag per layout parameter.
type configFlags struct {
	path string
	cfg  layout.Config
	cmd  *cobra.Command
}

func addConfigFlags(cmd *cobra.Command) *configFlags {
	f := &configFlags{cfg: layout.DefaultConfig(), cmd: cmd}
	flags := cmd.Flags()
	flags.StringVar(&f.path, "config", "", "configuration file (TOML or YAML)")
	flags.Float64Var(&f.cfg.MaxDepth, "max-depth", f.cfg.MaxDepth, "upper bound on total stack depth")
	flags.Float64Var(&f.cfg.LayerSpacing, "layer-spacing", f.cfg.LayerSpacing, "distance between adjacent layers")
	flags.Float64Var(&f.cfg.LayerWidth, "layer-width", f.cfg.LayerWidth, "x scale applied to neuron positions")
	flags.Float64Var(&f.cfg.LayerHeight, "layer-height", f.cfg.LayerHeight, "y scale applied to neuron positions")
	flags.Float64Var(&f.cfg.HeatMin, "heat-min", f.cfg.HeatMin, "heat mapped to the coldest color")
	flags.Float64Var(&f.cfg.HeatMax, "heat-max", f.cfg.HeatMax, "heat mapped to the hottest color")
	return f
}

// resolve loads the config file (or defaults) and applies explicitly set flags on top.
func (f *configFlags) resolve() (layout.Config, error) {
	cfg, err := config.Discover(f.path)
	if err != nil {
		return layout.Config{}, err
	}

	overrides := []struct {
		name string
		dst  *float64
		src  float64
	}{
		{"max-depth", &cfg.MaxDepth, f.cfg.MaxDepth},
		{"layer-spacing", &cfg.LayerSpacing, f.cfg.LayerSpacing},
		{"layer-width", &cfg.LayerWidth, f.cfg.LayerWidth},
		{"layer-height", &cfg.LayerHeight, f.cfg.LayerHeight},
		{"heat-min", &cfg.HeatMin, f.cfg.HeatMin},
		{"heat-max", &cfg.HeatMax, f.cfg.HeatMax},
	}
	for _, o := range overrides {
		if f.cmd.Flags().Changed(o.name) {
			*o.dst = o.src
		}
	}

	if err := cfg.Validate(); err != nil {
		return layout.Config{}, err
	}
	return cfg, nil
}
