package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/netlayout/pkg/errors"
	"github.com/matzehuels/netlayout/pkg/layout"
	"github.com/matzehuels/netlayout/pkg/network"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, output, format string
		count                 int
		want                  string
	}{
		{"net.json", "", "json", 1, "net.layout.json"},
		{"dir/net.yaml", "", "csv", 2, "dir/net.layout.csv"},
		{"net.json", "out.json", "json", 1, "out.json"},
		{"net.json", "out.json", "csv", 2, "out.csv"},
		{"net", "", "json", 1, "net.layout.json"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.input, tt.output, tt.format, tt.count); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q, %d) = %q, want %q", tt.input, tt.output, tt.format, tt.count, got, tt.want)
		}
	}
}

func TestReadNetwork(t *testing.T) {
	path := writeFile(t, "net.yml", testNetworkYAML)
	data, format, err := readNetwork(path)
	if err != nil {
		t.Fatal(err)
	}
	if format != network.FormatYAML {
		t.Errorf("format = %q, want %q", format, network.FormatYAML)
	}
	if len(data) == 0 {
		t.Error("no data read")
	}

	_, _, err = readNetwork(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLayoutCommand(t *testing.T) {
	buf := isolate(t)
	input := writeFile(t, "net.json", testNetwork)

	if err := execute(t, "layout", input, "-f", "json,csv", "--max-depth", "4"); err != nil {
		t.Fatal(err)
	}

	base := strings.TrimSuffix(input, ".json")
	r, err := layout.ReadResultFile(base + ".layout.json")
	if err != nil {
		t.Fatal(err)
	}
	if r.Depth.Scale != 0.5 {
		t.Errorf("scale = %v, want 0.5", r.Depth.Scale)
	}
	csv, err := os.ReadFile(base + ".layout.csv")
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(csv), "\n"); lines != 5 {
		t.Errorf("csv lines = %d, want 5 (header + 4 neurons)", lines)
	}

	for _, want := range []string{"Layout complete", "3 layers", "4 neurons", "fresh"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}

	buf.Reset()
	if err := execute(t, "layout", input, "-f", "json,csv", "--max-depth", "4", "--summary=false"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "cached") {
		t.Errorf("second run output = %q, want cached", buf.String())
	}
}

func TestLayoutCommandOutputFlag(t *testing.T) {
	isolate(t)
	input := writeFile(t, "net.json", testNetwork)
	output := filepath.Join(t.TempDir(), "result.json")

	if err := execute(t, "layout", input, "-o", output, "--no-cache"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	isolate(t)
	good := writeFile(t, "net.json", testNetwork)
	bad := writeFile(t, "bad.json", `{"layers": [{"neurons": []}]}`)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing file", []string{"layout", filepath.Join(t.TempDir(), "nope.json")}, errors.ErrCodeFileNotFound},
		{"empty layer", []string{"layout", bad, "--no-cache"}, errors.ErrCodeMalformedInput},
		{"bad format", []string{"layout", good, "-f", "png"}, errors.ErrCodeInvalidFormat},
		{"bad width", []string{"layout", good, "--layer-width", "0"}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestWarnDuplicates(t *testing.T) {
	buf := isolate(t)
	warnDuplicates(map[int][]string{2: {"y"}, 0: {"a", "b"}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "layer 0") || !strings.Contains(lines[0], "a, b") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "layer 2") {
		t.Errorf("second line = %q", lines[1])
	}

	buf.Reset()
	warnDuplicates(nil)
	if buf.Len() != 0 {
		t.Errorf("nil duplicates printed %q", buf.String())
	}
}
