package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
)

// =============================================================================
// JSON
// =============================================================================

// MarshalResult encodes r as indented JSON.
func MarshalResult(r *Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteResult(r, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalResult decodes JSON produced by [MarshalResult].
func UnmarshalResult(data []byte) (*Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return &r, nil
}

// WriteResult writes r as indented JSON to w.
func WriteResult(r *Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteResultFile writes r as JSON to path with 0644 permissions.
func WriteResultFile(r *Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteResult(r, f)
}

// ReadResultFile reads a JSON layout written by [WriteResultFile].
func ReadResultFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return UnmarshalResult(data)
}

// =============================================================================
// CSV
// =============================================================================

// Row is the flat CSV form of one neuron.
type Row struct {
	Layer  int     `csv:"layer"`
	Z      float64 `csv:"z"`
	ID     string  `csv:"id"`
	Heat   float64 `csv:"heat"`
	LocalX float64 `csv:"local_x"`
	LocalY float64 `csv:"local_y"`
	LocalZ float64 `csv:"local_z"`
	WorldX float64 `csv:"world_x"`
	WorldY float64 `csv:"world_y"`
	WorldZ float64 `csv:"world_z"`
	R      float64 `csv:"r"`
	G      float64 `csv:"g"`
	B      float64 `csv:"b"`
	A      float64 `csv:"a"`
	Hex    string  `csv:"hex"`
}

// Rows flattens r into one row per neuron, in layer then neuron order.
func Rows(r *Result) []*Row {
	rows := make([]*Row, 0, r.NeuronCount())
	for _, l := range r.Layers {
		for _, n := range l.Neurons {
			rows = append(rows, &Row{
				Layer:  l.Index,
				Z:      l.Z,
				ID:     n.ID,
				Heat:   n.Heat,
				LocalX: n.Local[0],
				LocalY: n.Local[1],
				LocalZ: n.Local[2],
				WorldX: n.World[0],
				WorldY: n.World[1],
				WorldZ: n.World[2],
				R:      n.Color.R,
				G:      n.Color.G,
				B:      n.Color.B,
				A:      n.Color.A,
				Hex:    n.Color.Hex(),
			})
		}
	}
	return rows
}

// WriteCSV writes r to w as CSV with a header row.
func WriteCSV(r *Result, w io.Writer) error {
	if err := gocsv.Marshal(Rows(r), w); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	return nil
}

// MarshalCSV returns r as CSV bytes.
func MarshalCSV(r *Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(r, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
