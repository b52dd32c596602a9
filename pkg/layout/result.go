package layout

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/netlayout/pkg/colormap"
)

// Point is a 3D position serialized as [x, y, z].
type Point [3]float64

// PointOf converts an r3.Vec to a Point.
func PointOf(v r3.Vec) Point { return Point{v.X, v.Y, v.Z} }

// Vec converts p to an r3.Vec.
func (p Point) Vec() r3.Vec { return r3.Vec{X: p[0], Y: p[1], Z: p[2]} }

// NeuronResult is one neuron with its final placement and color.
type NeuronResult struct {
	ID    string         `json:"id"`
	Heat  float64        `json:"heat"`
	Local Point          `json:"local"` // layer space, z = 0, layer centroid at origin
	World Point          `json:"world"` // Local with z set to the layer depth
	Color colormap.Color `json:"color"`
}

// LayerResult is one placed layer.
type LayerResult struct {
	Index   int            `json:"index"`
	Z       float64        `json:"z"`
	Origin  Point          `json:"origin"` // scaled centroid the layer was centered on
	Neurons []NeuronResult `json:"neurons"`
}

// Result is the complete layout handed to a renderer. It holds no external
// resources and can be recomputed at will from the same inputs.
type Result struct {
	Config Config        `json:"config"`
	Depth  DepthPlan     `json:"depth"`
	Layers []LayerResult `json:"layers"`
}

// NeuronCount returns the number of neurons across all layers.
func (r *Result) NeuronCount() int {
	n := 0
	for _, l := range r.Layers {
		n += len(l.Neurons)
	}
	return n
}

// Bounds returns the axis-aligned bounding box of all world positions.
// Both corners are zero for an empty result.
func (r *Result) Bounds() (min, max r3.Vec) {
	first := true
	for _, l := range r.Layers {
		for _, n := range l.Neurons {
			w := n.World.Vec()
			if first {
				min, max = w, w
				first = false
				continue
			}
			min = r3.Vec{X: minf(min.X, w.X), Y: minf(min.Y, w.Y), Z: minf(min.Z, w.Z)}
			max = r3.Vec{X: maxf(max.X, w.X), Y: maxf(max.Y, w.Y), Z: maxf(max.Z, w.Z)}
		}
	}
	return min, max
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
