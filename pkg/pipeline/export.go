package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/netlayout/pkg/layout"
	"github.com/matzehuels/netlayout/pkg/observability"
)

// Export encodes r in every format of opts.Formats.
func Export(ctx context.Context, r *layout.Result, opts Options) (artifacts map[string][]byte, err error) {
	if err := opts.ValidateForExport(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnExportStart(ctx, opts.Formats)
	start := time.Now()
	defer func() {
		hooks.OnExportComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	artifacts = make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := exportFormat(r, format)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func exportFormat(r *layout.Result, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return layout.MarshalResult(r)
	case FormatCSV:
		return layout.MarshalCSV(r)
	}
	return nil, ValidateFormat(format)
}
