package layout

import (
	"github.com/matzehuels/netlayout/pkg/colormap"
	"github.com/matzehuels/netlayout/pkg/errors"
)

// Default layout parameters.
const (
	DefaultMaxDepth     = 20.0
	DefaultLayerSpacing = 4.0
	DefaultLayerWidth   = 10.0
	DefaultLayerHeight  = 10.0
)

// Config holds every parameter of a layout computation. It is passed by value
// and never mutated by the pipeline.
type Config struct {
	MaxDepth     float64 `json:"max_depth" toml:"max_depth" yaml:"max_depth"`             // upper bound on total stack depth
	LayerSpacing float64 `json:"layer_spacing" toml:"layer_spacing" yaml:"layer_spacing"` // natural distance between adjacent layers
	LayerWidth   float64 `json:"layer_width" toml:"layer_width" yaml:"layer_width"`       // x scale applied to raw positions
	LayerHeight  float64 `json:"layer_height" toml:"layer_height" yaml:"layer_height"`    // y scale applied to raw positions
	HeatMin      float64 `json:"heat_min" toml:"heat_min" yaml:"heat_min"`
	HeatMax      float64 `json:"heat_max" toml:"heat_max" yaml:"heat_max"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxDepth:     DefaultMaxDepth,
		LayerSpacing: DefaultLayerSpacing,
		LayerWidth:   DefaultLayerWidth,
		LayerHeight:  DefaultLayerHeight,
		HeatMin:      colormap.DefaultHeatMin,
		HeatMax:      colormap.DefaultHeatMax,
	}
}

// Validate reports the first out-of-range field as an INVALID_CONFIG error.
// A zero LayerSpacing is valid: all layers then share z = 0.
func (c Config) Validate() error {
	if err := errors.ValidatePositive("layer_width", c.LayerWidth); err != nil {
		return err
	}
	if err := errors.ValidatePositive("layer_height", c.LayerHeight); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("max_depth", c.MaxDepth); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("layer_spacing", c.LayerSpacing); err != nil {
		return err
	}
	_, err := colormap.New(c.HeatMin, c.HeatMax)
	return err
}

// Colormap returns the heat map for c's bounds. c must be valid.
func (c Config) Colormap() colormap.Map {
	return colormap.Map{Min: c.HeatMin, Max: c.HeatMax}
}
