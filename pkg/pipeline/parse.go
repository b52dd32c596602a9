package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/netlayout/pkg/network"
	"github.com/matzehuels/netlayout/pkg/observability"
)

// Parse decodes opts.Input into a network description.
func Parse(ctx context.Context, opts Options) (d *network.Description, err error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, string(opts.InputFormat), len(opts.Input))
	start := time.Now()
	defer func() {
		hooks.OnParseComplete(ctx, string(opts.InputFormat), d.LayerCount(), d.NeuronCount(), time.Since(start), err)
	}()

	return network.ParseFormat(opts.Input, opts.InputFormat)
}
