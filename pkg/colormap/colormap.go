package colormap

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/netlayout/pkg/errors"
)

// Default heat clamp bounds.
const (
	DefaultHeatMin = -1.0
	DefaultHeatMax = 3000.0
)

// bandWidth is the span of t covered by one gradient band.
const bandWidth = 0.25

var (
	blue   = colorful.Color{R: 0, G: 0, B: 1}
	cyan   = colorful.Color{R: 0, G: 1, B: 1}
	green  = colorful.Color{R: 0, G: 1, B: 0}
	yellow = colorful.Color{R: 1, G: 1, B: 0}
	red    = colorful.Color{R: 1, G: 0, B: 0}
)

// stops are the band endpoints; band i blends stops[i] into stops[i+1].
var stops = [...]colorful.Color{blue, cyan, green, yellow, red}

// thresholds are the inclusive upper ends of each band, ascending.
var thresholds = [...]float64{0.25, 0.5, 0.75, 1.0}

// Color is an RGBA color with every channel in [0, 255].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// NRGBA rounds the channels to 8 bits.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

// Hex returns the RGB part as "#rrggbb". Alpha is not included.
func (c Color) Hex() string {
	return colorful.Color{R: c.R / 255, G: c.G / 255, B: c.B / 255}.Clamped().Hex()
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}

// Map converts heat to color using a fixed clamp range.
type Map struct {
	Min float64 // heat mapped to t = 0
	Max float64 // heat mapped to t = 1
}

// Default is the map over [DefaultHeatMin, DefaultHeatMax].
var Default = Map{Min: DefaultHeatMin, Max: DefaultHeatMax}

// New returns a Map over [min, max]. It fails with INVALID_CONFIG unless both
// bounds are finite and min < max.
func New(min, max float64) (Map, error) {
	if err := errors.ValidateFinite("heat_min", min); err != nil {
		return Map{}, err
	}
	if err := errors.ValidateFinite("heat_max", max); err != nil {
		return Map{}, err
	}
	if min >= max {
		return Map{}, errors.New(errors.ErrCodeInvalidConfig, "heat_min (%v) must be below heat_max (%v)", min, max)
	}
	return Map{Min: min, Max: max}, nil
}

// Clamp limits heat to [m.Min, m.Max]. NaN is treated as the minimum.
func (m Map) Clamp(heat float64) float64 {
	if math.IsNaN(heat) || heat < m.Min {
		return m.Min
	}
	if heat > m.Max {
		return m.Max
	}
	return heat
}

// Normalize returns t in [0, 1] for heat.
func (m Map) Normalize(heat float64) float64 {
	return (m.Clamp(heat) - m.Min) / (m.Max - m.Min)
}

// At returns the color for heat.
func (m Map) At(heat float64) Color {
	t := m.Normalize(heat)
	rgb := Gradient(t)
	return Color{
		R: rgb.R * 255,
		G: rgb.G * 255,
		B: rgb.B * 255,
		A: Alpha(t),
	}
}

// Gradient returns the RGB part of the gradient at t, with channels in [0, 1].
// t outside [0, 1] is clamped.
func Gradient(t float64) colorful.Color {
	t = math.Max(0, math.Min(1, t))
	i := Band(t)
	return segment(i, t)
}

// Band returns the index (0 to 3) of the band t falls in. Boundary values
// belong to the lower band.
func Band(t float64) int {
	for i, upper := range thresholds {
		if t <= upper {
			return i
		}
	}
	return len(thresholds) - 1
}

// segment evaluates band i's interpolation formula at t, whether or not t
// actually lies inside that band.
func segment(i int, t float64) colorful.Color {
	start := float64(i) * bandWidth
	return stops[i].BlendRgb(stops[i+1], (t-start)/bandWidth)
}

// Alpha returns the opacity at t: 255 at t = 0 falling linearly to 0 at t = 1.
func Alpha(t float64) float64 {
	return lerp(255, 0, t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// =============================================================================
// Legend
// =============================================================================

// Stop is one sample of the gradient, used for legends.
type Stop struct {
	Heat  float64 `json:"heat"`
	T     float64 `json:"t"`
	Color Color   `json:"color"`
}

// Legend samples the map at steps evenly spaced heat values from m.Min to
// m.Max inclusive. steps below 2 is raised to 2.
func (m Map) Legend(steps int) []Stop {
	if steps < 2 {
		steps = 2
	}
	out := make([]Stop, steps)
	for i := range out {
		t := float64(i) / float64(steps-1)
		heat := m.Min + t*(m.Max-m.Min)
		out[i] = Stop{Heat: heat, T: m.Normalize(heat), Color: m.At(heat)}
	}
	return out
}
