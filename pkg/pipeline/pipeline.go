// Package pipeline provides the layout pipeline shared by the CLI and the
// HTTP API.
//
// The pipeline has three stages:
//
//  1. Parse: decode a JSON or YAML network description
//  2. Layout: center layers, compress depth and color neurons
//  3. Export: encode the layout as JSON and/or CSV
//
// Each stage can be run on its own or through [Runner.Execute], which caches
// layouts and exports by content hash.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   data,
//	    Formats: []string{pipeline.FormatJSON, pipeline.FormatCSV},
//	})
//	if err != nil {
//	    return err
//	}
//	csv := result.Artifacts[pipeline.FormatCSV]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netlayout/pkg/cache"
	"github.com/matzehuels/netlayout/pkg/errors"
	"github.com/matzehuels/netlayout/pkg/layout"
	"github.com/matzehuels/netlayout/pkg/network"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatCSV:  true,
}

// ValidInputFormats is the set of supported network description formats.
var ValidInputFormats = map[network.Format]bool{
	network.FormatJSON: true,
	network.FormatYAML: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Parse options
	Input       []byte         `json:"-"`
	InputFormat network.Format `json:"input_format,omitempty"`

	// Layout options. A zero Config is replaced by layout.DefaultConfig.
	Config layout.Config `json:"config"`

	// Export options
	Formats []string `json:"formats,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Network is the parsed description.
	Network *network.Description

	// NetworkHash is the content hash of the canonical network encoding.
	NetworkHash string

	// Layout is the computed layout.
	Layout *layout.Result

	// Artifacts contains exported outputs keyed by format.
	Artifacts map[string][]byte

	// Duplicates lists neuron ids that occur more than once, per layer index.
	Duplicates map[int][]string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LayerCount  int
	NeuronCount int
	ParseTime   time.Duration
	LayoutTime  time.Duration
	ExportTime  time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	ExportHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that an output format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, csv)", format)
	}
	return nil
}

// ValidateFormats checks that all output formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateInputFormat checks that a network format is valid.
func ValidateInputFormat(format network.Format) error {
	if !ValidInputFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid input format: %q (must be one of: json, yaml)", format)
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if len(o.Input) == 0 {
		return errors.New(errors.ErrCodeMalformedInput, "empty input")
	}
	if o.InputFormat == "" {
		o.InputFormat = network.FormatJSON
	}
	o.setLogger()
	return ValidateInputFormat(o.InputFormat)
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Config == (layout.Config{}) {
		o.Config = layout.DefaultConfig()
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return o.Config.Validate()
}

// SetExportDefaults sets default values for exporting.
func (o *Options) SetExportDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	o.setLogger()
}

// ValidateForExport validates and sets defaults for exporting.
func (o *Options) ValidateForExport() error {
	o.SetExportDefaults()
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		MaxDepth:     o.Config.MaxDepth,
		LayerSpacing: o.Config.LayerSpacing,
		LayerWidth:   o.Config.LayerWidth,
		LayerHeight:  o.Config.LayerHeight,
		HeatMin:      o.Config.HeatMin,
		HeatMax:      o.Config.HeatMax,
	}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
