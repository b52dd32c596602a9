// Package config reads and writes netlayout configuration files.
//
// A configuration file holds a [layout.Config] split into two sections:
//
//	[layout]
//	max_depth = 20.0
//	layer_spacing = 4.0
//	layer_width = 10.0
//	layer_height = 10.0
//
//	[heat]
//	min = -1.0
//	max = 3000.0
//
// Files may be TOML or YAML, chosen by extension. Keys missing from a file keep
// their default values; unknown keys are rejected with INVALID_CONFIG.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/netlayout/pkg/errors"
	"github.com/matzehuels/netlayout/pkg/layout"
)

//go:embed defaults.toml
var defaultsTOML []byte

// Format identifies a configuration file syntax.
type Format string

// Supported configuration formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FileName is the default configuration file name.
const FileName = "config.toml"

// File is the on-disk layout of a configuration file.
type File struct {
	Layout LayoutSection `toml:"layout" yaml:"layout"`
	Heat   HeatSection   `toml:"heat" yaml:"heat"`
}

// LayoutSection holds the geometric parameters.
type LayoutSection struct {
	MaxDepth     float64 `toml:"max_depth" yaml:"max_depth"`
	LayerSpacing float64 `toml:"layer_spacing" yaml:"layer_spacing"`
	LayerWidth   float64 `toml:"layer_width" yaml:"layer_width"`
	LayerHeight  float64 `toml:"layer_height" yaml:"layer_height"`
}

// HeatSection holds the colormap bounds.
type HeatSection struct {
	Min float64 `toml:"min" yaml:"min"`
	Max float64 `toml:"max" yaml:"max"`
}

// FromConfig converts cfg to its file form.
func FromConfig(cfg layout.Config) File {
	return File{
		Layout: LayoutSection{
			MaxDepth:     cfg.MaxDepth,
			LayerSpacing: cfg.LayerSpacing,
			LayerWidth:   cfg.LayerWidth,
			LayerHeight:  cfg.LayerHeight,
		},
		Heat: HeatSection{Min: cfg.HeatMin, Max: cfg.HeatMax},
	}
}

// Config converts f to a layout configuration.
func (f File) Config() layout.Config {
	return layout.Config{
		MaxDepth:     f.Layout.MaxDepth,
		LayerSpacing: f.Layout.LayerSpacing,
		LayerWidth:   f.Layout.LayerWidth,
		LayerHeight:  f.Layout.LayerHeight,
		HeatMin:      f.Heat.Min,
		HeatMax:      f.Heat.Max,
	}
}

// Defaults returns the embedded default file.
func Defaults() File {
	var f File
	if _, err := toml.Decode(string(defaultsTOML), &f); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return f
}

// DefaultTemplate returns the commented default configuration in TOML.
func DefaultTemplate() []byte {
	return bytes.Clone(defaultsTOML)
}

// FormatFromPath picks the format from the file extension. Anything other
// than .yaml or .yml is treated as TOML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte, format Format) (layout.Config, error) {
	f := Defaults()

	switch format {
	case FormatTOML, "":
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return layout.Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return layout.Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && err != io.EOF {
			return layout.Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode yaml")
		}
	default:
		return layout.Config{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q (must be toml or yaml)", format)
	}

	cfg := f.Config()
	if err := cfg.Validate(); err != nil {
		return layout.Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the configuration file at path.
func Load(path string) (layout.Config, error) {
	if err := errors.ValidatePath(path); err != nil {
		return layout.Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return layout.Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return layout.Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return layout.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, or returns the defaults when path is empty.
func LoadOrDefault(path string) (layout.Config, error) {
	if path == "" {
		return Defaults().Config(), nil
	}
	return Load(path)
}

// Discover loads path if set. Otherwise it loads the file at [DefaultPath]
// when one exists, and falls back to the defaults.
func Discover(path string) (layout.Config, error) {
	if path != "" {
		return Load(path)
	}
	if def, err := DefaultPath(); err == nil {
		if _, err := os.Stat(def); err == nil {
			return Load(def)
		}
	}
	return Defaults().Config(), nil
}

// Write encodes cfg to w in the given format.
func Write(w io.Writer, cfg layout.Config, format Format) error {
	f := FromConfig(cfg)
	switch format {
	case FormatTOML, "":
		if err := toml.NewEncoder(w).Encode(f); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q (must be toml or yaml)", format)
	}
	return nil
}

// WriteFile writes cfg to path, creating parent directories as needed.
func WriteFile(path string, cfg layout.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, cfg, FormatFromPath(path)); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// DefaultPath returns the per-user configuration path, following the XDG
// base directory layout on every platform.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "netlayout", FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "netlayout", FileName), nil
}
