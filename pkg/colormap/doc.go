// Package colormap maps scalar heat values to RGBA colors.
//
// # Gradient
//
// Heat is clamped to the configured bounds (default [-1, 3000]) and
// normalized to t in [0, 1]. The RGB part follows a four band jet-style
// gradient, each band spanning a quarter of t:
//
//	[0.00, 0.25]  blue   → cyan
//	(0.25, 0.50]  cyan   → green
//	(0.50, 0.75]  green  → yellow
//	(0.75, 1.00]  yellow → red
//
// A value exactly on a band boundary always resolves to the lower band. The
// lower band ends on the color the upper band starts with, so the gradient is
// continuous across boundaries.
//
// # Alpha
//
// Alpha falls linearly with t from 255 (opaque) at the lowest heat to 0
// (transparent) at the highest. It does not follow the RGB direction: hot
// neurons are red and see-through, cold neurons are blue and solid.
//
// # Channels
//
// Every channel of [Color] is a float64 in [0, 255]. Use [Color.NRGBA] when a
// renderer needs 8-bit channels.
package colormap
