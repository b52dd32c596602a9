package network

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/netlayout/pkg/errors"
)

// Format identifies the serialization of a network description.
type Format string

// Supported input formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Parse decodes a JSON network description.
func Parse(data []byte) (*Description, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		if err == io.EOF {
			return nil, malformed("empty input")
		}
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode json")
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, malformed("unexpected data after top-level object")
	}
	return build(root)
}

// ParseYAML decodes a YAML network description with the same schema as [Parse].
func ParseYAML(data []byte) (*Description, error) {
	var root any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode yaml")
	}
	if root == nil {
		return nil, malformed("empty input")
	}
	return build(root)
}

// ParseFormat decodes data using the given format.
func ParseFormat(data []byte, format Format) (*Description, error) {
	switch format {
	case FormatJSON, "":
		return Parse(data)
	case FormatYAML:
		return ParseYAML(data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported network format %q (must be json or yaml)", format)
	}
}

// Decode reads r to completion and decodes it using the given format.
func Decode(r io.Reader, format Format) (*Description, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read network: %w", err)
	}
	return ParseFormat(data, format)
}

// Marshal encodes d in the canonical JSON form accepted by [Parse].
// The output is deterministic, so it is suitable for content hashing.
func Marshal(d *Description) ([]byte, error) {
	if d == nil {
		return nil, errors.New(errors.ErrCodeMalformedInput, "nil network description")
	}
	return json.Marshal(d)
}

// =============================================================================
// Tree Walking
// =============================================================================

// build validates the generic decoded tree and converts it to a Description.
// Both decoders produce the same shapes (maps, slices, scalars), so one walker
// serves JSON and YAML.
func build(root any) (*Description, error) {
	obj, ok := asObject(root)
	if !ok {
		return nil, malformed("top level must be an object")
	}

	rawLayers, ok := obj["layers"]
	if !ok || rawLayers == nil {
		return nil, malformed("missing required field %q", "layers")
	}
	layers, ok := rawLayers.([]any)
	if !ok {
		return nil, malformed("layers: must be an array")
	}
	if len(layers) == 0 {
		return nil, malformed("layers: must contain at least one layer")
	}

	d := &Description{Layers: make([]Layer, len(layers))}
	for i, rl := range layers {
		l, err := buildLayer(rl, fmt.Sprintf("layers[%d]", i))
		if err != nil {
			return nil, err
		}
		d.Layers[i] = l
	}
	return d, nil
}

func buildLayer(v any, at string) (Layer, error) {
	obj, ok := asObject(v)
	if !ok {
		return Layer{}, malformed("%s: must be an object", at)
	}
	rawNeurons, ok := obj["neurons"]
	if !ok || rawNeurons == nil {
		return Layer{}, malformed("%s: missing required field %q", at, "neurons")
	}
	neurons, ok := rawNeurons.([]any)
	if !ok {
		return Layer{}, malformed("%s.neurons: must be an array", at)
	}
	if len(neurons) == 0 {
		return Layer{}, malformed("%s.neurons: must contain at least one neuron", at)
	}

	l := Layer{Neurons: make([]Neuron, len(neurons))}
	for j, rn := range neurons {
		n, err := buildNeuron(rn, fmt.Sprintf("%s.neurons[%d]", at, j))
		if err != nil {
			return Layer{}, err
		}
		l.Neurons[j] = n
	}
	return l, nil
}

func buildNeuron(v any, at string) (Neuron, error) {
	obj, ok := asObject(v)
	if !ok {
		return Neuron{}, malformed("%s: must be an object", at)
	}

	var n Neuron

	rawID, ok := obj["id"]
	if !ok || rawID == nil {
		return Neuron{}, malformed("%s: missing required field %q", at, "id")
	}
	if n.ID, ok = toID(rawID); !ok {
		return Neuron{}, malformed("%s.id: must be a string or number", at)
	}

	rawPos, ok := obj["position"]
	if !ok || rawPos == nil {
		return Neuron{}, malformed("%s: missing required field %q", at, "position")
	}
	pos, ok := rawPos.([]any)
	if !ok || len(pos) != 2 {
		return Neuron{}, malformed("%s.position: must be an array of exactly 2 numbers", at)
	}
	for k, c := range pos {
		f, ok := toFloat(c)
		if !ok {
			return Neuron{}, malformed("%s.position[%d]: must be a finite number", at, k)
		}
		n.Position[k] = f
	}

	rawHeat, ok := obj["heat"]
	if !ok || rawHeat == nil {
		return Neuron{}, malformed("%s: missing required field %q", at, "heat")
	}
	if n.Heat, ok = toFloat(rawHeat); !ok {
		return Neuron{}, malformed("%s.heat: must be a finite number", at)
	}

	return n, nil
}

// =============================================================================
// Scalar Conversion
// =============================================================================

// asObject accepts both map shapes: encoding/json and yaml.v3 produce
// map[string]any, yaml.v3 falls back to map[any]any for non-string keys.
func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				ks = fmt.Sprint(k)
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toID keeps numeric identifiers in their literal form so 7 and "7" agree.
func toID(v any) (string, bool) {
	switch id := v.(type) {
	case string:
		return id, true
	case json.Number:
		return id.String(), true
	case int:
		return strconv.Itoa(id), true
	case int64:
		return strconv.FormatInt(id, 10), true
	case uint64:
		return strconv.FormatUint(id, 10), true
	case float64:
		return strconv.FormatFloat(id, 'g', -1, 64), true
	}
	return "", false
}

func malformed(format string, args ...any) error {
	return errors.New(errors.ErrCodeMalformedInput, format, args...)
}
