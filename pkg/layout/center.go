package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/netlayout/pkg/network"
)

// Scale converts a raw 2D position to layer space: x by width, y by height.
func Scale(raw [2]float64, width, height float64) r3.Vec {
	return r3.Vec{X: raw[0] * width, Y: raw[1] * height}
}

// Centroid returns the arithmetic mean of ps, or the zero vector for none.
// The mean is accumulated incrementally, so it stays finite whenever every
// point is finite.
func Centroid(ps []r3.Vec) r3.Vec {
	var mean r3.Vec
	for i, p := range ps {
		k := float64(i + 1)
		mean = r3.Vec{
			X: mean.X + (p.X/k - mean.X/k),
			Y: mean.Y + (p.Y/k - mean.Y/k),
			Z: mean.Z + (p.Z/k - mean.Z/k),
		}
	}
	return mean
}

// finite reports whether every component of v is a finite number.
func finite(v r3.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// CenterLayer scales every neuron's raw position and subtracts the layer
// centroid. The returned local positions have z = 0 and average to the origin.
// The scaled centroid is returned as the layer's local origin.
//
// Neurons of other layers never influence the result.
func CenterLayer(neurons []network.Neuron, width, height float64) (local []r3.Vec, origin r3.Vec) {
	if len(neurons) == 0 {
		return nil, r3.Vec{}
	}
	scaled := make([]r3.Vec, len(neurons))
	for i, n := range neurons {
		scaled[i] = Scale(n.Position, width, height)
	}
	origin = Centroid(scaled)
	local = make([]r3.Vec, len(scaled))
	for i, p := range scaled {
		local[i] = r3.Sub(p, origin)
	}
	return local, origin
}
