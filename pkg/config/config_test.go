package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/netlayout/pkg/errors"
	"github.com/matzehuels/netlayout/pkg/layout"
)

func TestDefaultsMatchLayout(t *testing.T) {
	if got := Defaults().Config(); got != layout.DefaultConfig() {
		t.Errorf("Defaults() = %+v, want %+v", got, layout.DefaultConfig())
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		want   func(*layout.Config)
	}{
		{
			name:   "empty toml keeps defaults",
			data:   "",
			format: FormatTOML,
			want:   func(*layout.Config) {},
		},
		{
			name:   "partial toml",
			data:   "[layout]\nmax_depth = 8.5\n",
			format: FormatTOML,
			want:   func(c *layout.Config) { c.MaxDepth = 8.5 },
		},
		{
			name:   "heat section",
			data:   "[heat]\nmin = 0.0\nmax = 1.0\n",
			format: FormatTOML,
			want:   func(c *layout.Config) { c.HeatMin, c.HeatMax = 0, 1 },
		},
		{
			name:   "yaml",
			data:   "layout:\n  layer_width: 2\n  layer_spacing: 0\n",
			format: FormatYAML,
			want:   func(c *layout.Config) { c.LayerWidth, c.LayerSpacing = 2, 0 },
		},
		{
			name:   "empty yaml keeps defaults",
			data:   "",
			format: FormatYAML,
			want:   func(*layout.Config) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			want := layout.DefaultConfig()
			tt.want(&want)
			if got != want {
				t.Errorf("Parse() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		code   errors.Code
	}{
		{"syntax", "[layout\n", FormatTOML, errors.ErrCodeInvalidConfig},
		{"unknown toml key", "[layout]\nmax_detph = 1.0\n", FormatTOML, errors.ErrCodeInvalidConfig},
		{"unknown yaml key", "heat:\n  minimum: 1\n", FormatYAML, errors.ErrCodeInvalidConfig},
		{"zero width", "[layout]\nlayer_width = 0.0\n", FormatTOML, errors.ErrCodeInvalidConfig},
		{"negative depth", "layout:\n  max_depth: -1\n", FormatYAML, errors.ErrCodeInvalidConfig},
		{"inverted heat", "[heat]\nmin = 10.0\nmax = 5.0\n", FormatTOML, errors.ErrCodeInvalidConfig},
		{"bad format", "", Format("ini"), errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := layout.Config{MaxDepth: 12, LayerSpacing: 1.5, LayerWidth: 3, LayerHeight: 4, HeatMin: 0, HeatMax: 100}

	for _, format := range []Format{FormatTOML, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, cfg, format); err != nil {
				t.Fatalf("Write() error: %v", err)
			}
			got, err := Parse(buf.Bytes(), format)
			if err != nil {
				t.Fatalf("Parse() error: %v\n%s", err, buf.String())
			}
			if got != cfg {
				t.Errorf("round trip = %+v, want %+v", got, cfg)
			}
		})
	}
}

func TestWriteTOMLSections(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, layout.DefaultConfig(), FormatTOML); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"[layout]", "[heat]", "max_depth", "layer_spacing"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "netlayout.toml")
	if err := os.WriteFile(tomlPath, []byte("[layout]\nlayer_height = 7.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(tomlPath)
	if err != nil {
		t.Fatalf("Load(toml) error: %v", err)
	}
	if cfg.LayerHeight != 7 {
		t.Errorf("LayerHeight = %v, want 7", cfg.LayerHeight)
	}

	yamlPath := filepath.Join(dir, "netlayout.yml")
	if err := WriteFile(yamlPath, cfg); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	again, err := Load(yamlPath)
	if err != nil {
		t.Fatalf("Load(yaml) error: %v", err)
	}
	if again != cfg {
		t.Errorf("Load(yaml) = %+v, want %+v", again, cfg)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := Load(""); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Load(\"\") error = %v, want INVALID_FORMAT", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != layout.DefaultConfig() {
		t.Errorf("LoadOrDefault(\"\") = %+v", cfg)
	}
}

func TestDiscover(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Discover("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != layout.DefaultConfig() {
		t.Errorf("Discover without a user file = %+v", cfg)
	}

	path, _ := DefaultPath()
	want := layout.DefaultConfig()
	want.MaxDepth = 3
	if err := WriteFile(path, want); err != nil {
		t.Fatal(err)
	}
	cfg, err = Discover("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != want {
		t.Errorf("Discover with a user file = %+v, want %+v", cfg, want)
	}
}

func TestDefaultTemplateParses(t *testing.T) {
	cfg, err := Parse(DefaultTemplate(), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != layout.DefaultConfig() {
		t.Errorf("template = %+v", cfg)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", "netlayout", FileName); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.toml": FormatTOML,
		"a.yaml": FormatYAML,
		"a.YML":  FormatYAML,
		"a":      FormatTOML,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
