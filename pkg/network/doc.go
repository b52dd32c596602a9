// Package network defines the layered neural network description consumed by
// the layout pipeline and decodes it from JSON or YAML.
//
// # Input Format
//
// A description is an object with a "layers" array. Each layer holds a
// "neurons" array, and each neuron carries an identifier, a raw 2D position
// in layer-local units, and a scalar heat value:
//
//	{
//	  "layers": [
//	    {"neurons": [{"id": 0, "position": [0, 0], "heat": -1}]},
//	    {"neurons": [{"id": "h1", "position": [0.5, 1], "heat": 1500}]}
//	  ]
//	}
//
// Layer order is depth order (index 0 is the input side) and neuron order
// within a layer is preserved exactly as given.
//
// # Validation
//
// [Parse] rejects input that cannot be turned into a [Description] with an
// error carrying [errors.ErrCodeMalformedInput]: undecodable text, an empty
// or missing layer list, a layer without neurons, a neuron without id,
// position or heat, a position that is not exactly two numbers, or a
// non-finite number. The message names the offending location, for example
// "layers[2].neurons[5].position".
//
// Neuron identifiers are not required to be unique within a layer.
// Duplicates are passed through untouched; [Description.DuplicateIDs]
// reports them for callers that want to warn.
//
// [errors.ErrCodeMalformedInput]: github.com/matzehuels/netlayout/pkg/errors
package network
