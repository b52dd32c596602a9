package layout

// DepthPlan places layers along the z axis.
type DepthPlan struct {
	AnnDepth float64   `json:"ann_depth"` // natural depth: (layers-1) * spacing
	Scale    float64   `json:"scale"`     // compression factor, 1 unless AnnDepth exceeds the bound
	StartZ   float64   `json:"start_z"`   // z of the first layer
	Z        []float64 `json:"z"`         // z of every layer, by index
}

// Depth computes the z coordinate of each of n layers.
//
// The natural depth (n-1)*spacing is compressed to maxDepth when it exceeds
// it and left untouched otherwise. The stack is centered on z = 0, so the
// first and last layers are exact negatives of each other.
func Depth(n int, spacing, maxDepth float64) DepthPlan {
	if n <= 0 {
		return DepthPlan{Scale: 1}
	}

	annDepth := float64(n-1) * spacing
	scale := 1.0
	if annDepth > 0 && annDepth > maxDepth {
		scale = maxDepth / annDepth
	}

	// Keep the (i*spacing)*scale grouping: for i = n-1 it reproduces
	// annDepth*scale bit for bit, which makes first == -last exactly.
	startZ := -0.5 * (annDepth * scale)
	z := make([]float64, n)
	for i := range z {
		z[i] = startZ + (float64(i)*spacing)*scale
	}

	return DepthPlan{
		AnnDepth: annDepth,
		Scale:    scale,
		StartZ:   startZ,
		Z:        z,
	}
}

// Extent returns the total depth actually occupied after compression.
func (p DepthPlan) Extent() float64 {
	return p.AnnDepth * p.Scale
}
