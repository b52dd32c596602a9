package layout

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/netlayout/pkg/colormap"
	"github.com/matzehuels/netlayout/pkg/errors"
	"github.com/matzehuels/netlayout/pkg/network"
)

// Compute lays out d with cfg. See [ComputeContext].
func Compute(d *network.Description, cfg Config) (*Result, error) {
	return ComputeContext(context.Background(), d, cfg)
}

// ComputeContext validates cfg and d, then centers and colors every layer
// concurrently before assigning layer depths.
//
// It fails with INVALID_CONFIG for a bad cfg and MALFORMED_INPUT for a nil
// description, no layers, an empty layer, or a position that overflows once
// scaled. No partial result is returned.
// Cancellation of ctx is observed between layers.
func ComputeContext(ctx context.Context, d *network.Description, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateDescription(d); err != nil {
		return nil, err
	}

	plan := Depth(len(d.Layers), cfg.LayerSpacing, cfg.MaxDepth)
	cmap := cfg.Colormap()

	layers := make([]LayerResult, len(d.Layers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range d.Layers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			l, err := buildLayer(i, d.Layers[i], cfg, cmap)
			if err != nil {
				return err
			}
			layers[i] = l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range layers {
		placeLayer(&layers[i], plan.Z[i])
	}

	return &Result{
		Config: cfg,
		Depth:  plan,
		Layers: layers,
	}, nil
}

func validateDescription(d *network.Description) error {
	if d == nil || len(d.Layers) == 0 {
		return errors.New(errors.ErrCodeMalformedInput, "network has no layers")
	}
	for i, l := range d.Layers {
		if len(l.Neurons) == 0 {
			return errors.New(errors.ErrCodeMalformedInput, "layers[%d]: no neurons", i)
		}
	}
	return nil
}

// buildLayer centers and colors one layer. It only writes to its return value.
// A position that leaves the float64 range once scaled or centered is
// reported as MALFORMED_INPUT.
func buildLayer(index int, l network.Layer, cfg Config, cmap colormap.Map) (LayerResult, error) {
	local, origin := CenterLayer(l.Neurons, cfg.LayerWidth, cfg.LayerHeight)
	for j, n := range l.Neurons {
		if !finite(Scale(n.Position, cfg.LayerWidth, cfg.LayerHeight)) || !finite(local[j]) {
			return LayerResult{}, errors.New(errors.ErrCodeMalformedInput,
				"layers[%d].neurons[%d].position: %v overflows when scaled and centered", index, j, n.Position)
		}
	}
	out := LayerResult{
		Index:   index,
		Origin:  PointOf(origin),
		Neurons: make([]NeuronResult, len(l.Neurons)),
	}
	for j, n := range l.Neurons {
		out.Neurons[j] = NeuronResult{
			ID:    n.ID,
			Heat:  n.Heat,
			Local: PointOf(local[j]),
			Color: cmap.At(n.Heat),
		}
	}
	return out, nil
}

// placeLayer sets the layer depth and derives world positions from local ones.
func placeLayer(l *LayerResult, z float64) {
	l.Z = z
	for j := range l.Neurons {
		local := l.Neurons[j].Local.Vec()
		l.Neurons[j].World = PointOf(r3.Vec{X: local.X, Y: local.Y, Z: z})
	}
}
