package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/netlayout/pkg/layout"
	"github.com/matzehuels/netlayout/pkg/network"
	"github.com/matzehuels/netlayout/pkg/observability"
)

// ComputeLayout lays out d with opts.Config.
func ComputeLayout(ctx context.Context, d *network.Description, opts Options) (r *layout.Result, err error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}

	layers, neurons := d.LayerCount(), d.NeuronCount()
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, layers, neurons)
	start := time.Now()
	defer func() {
		hooks.OnLayoutComplete(ctx, layers, neurons, time.Since(start), err)
	}()

	r, err = layout.ComputeContext(ctx, d, opts.Config)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("depth plan",
		"ann_depth", r.Depth.AnnDepth,
		"scale", r.Depth.Scale,
		"start_z", r.Depth.StartZ)
	return r, nil
}
