package network

// Neuron is a single input neuron. All fields are immutable input data;
// derived positions and colors live in the layout result.
type Neuron struct {
	ID       string     `json:"id" yaml:"id"`
	Position [2]float64 `json:"position" yaml:"position"` // raw layer-local coordinates, unscaled
	Heat     float64    `json:"heat" yaml:"heat"`
}

// Layer is an ordered group of neurons at the same network depth.
type Layer struct {
	Neurons []Neuron `json:"neurons" yaml:"neurons"`
}

// Description is the parsed network: an ordered, non-empty sequence of layers.
type Description struct {
	Layers []Layer `json:"layers" yaml:"layers"`
}

// LayerCount returns the number of layers.
func (d *Description) LayerCount() int {
	if d == nil {
		return 0
	}
	return len(d.Layers)
}

// NeuronCount returns the total number of neurons across all layers.
func (d *Description) NeuronCount() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, l := range d.Layers {
		n += len(l.Neurons)
	}
	return n
}

// DuplicateIDs returns, per layer index, the ids that occur more than once in
// that layer. Each duplicated id is listed once, in order of first repeat.
// Layers without duplicates are absent from the map.
func (d *Description) DuplicateIDs() map[int][]string {
	if d == nil {
		return nil
	}
	out := make(map[int][]string)
	for i, l := range d.Layers {
		seen := make(map[string]int, len(l.Neurons))
		for _, n := range l.Neurons {
			seen[n.ID]++
			if seen[n.ID] == 2 {
				out[i] = append(out[i], n.ID)
			}
		}
	}
	return out
}

// Clone returns a deep copy of the description.
func (d *Description) Clone() *Description {
	if d == nil {
		return nil
	}
	out := &Description{Layers: make([]Layer, len(d.Layers))}
	for i, l := range d.Layers {
		out.Layers[i].Neurons = append([]Neuron(nil), l.Neurons...)
	}
	return out
}
