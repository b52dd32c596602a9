// Package layout turns a network description into renderer-agnostic 3D
// positions and colors.
//
// # Overview
//
// [Compute] runs the full pipeline over a [network.Description]:
//
//  1. Per layer, raw 2D neuron positions are scaled by the layer width and
//     height and translated so the layer's centroid sits at the origin
//     ([CenterLayer]).
//  2. Per neuron, heat is converted to RGBA ([colormap.Map.At]).
//  3. Across layers, a [DepthPlan] spaces layers along z, compressing the
//     stack when its natural depth exceeds [Config.MaxDepth], and centering
//     it on z = 0 ([Depth]).
//
// Steps 1 and 2 have no cross-layer dependencies and run concurrently, one
// goroutine per layer. Step 3 needs only the layer count. The [Result] is a
// plain value: computing it twice from the same inputs yields identical bytes.
//
// # Coordinates
//
// Each neuron gets a local position (x, y in layer space, z = 0) and a world
// position (the same x, y with z replaced by the layer depth). Positions are
// [Point] arrays of three float64 values; [Point.Vec] converts to r3.Vec.
//
// # Configuration
//
// [DefaultConfig] returns MaxDepth 20, LayerSpacing 4, LayerWidth 10,
// LayerHeight 10 and heat bounds [-1, 3000]. [Config.Validate] reports
// INVALID_CONFIG for non-positive width or height, negative depth or spacing,
// or inverted heat bounds.
//
// # Export
//
// [MarshalResult] and [WriteResultFile] emit JSON; [WriteCSV] emits one row per
// neuron for spreadsheets and plotting tools.
//
// [network.Description]: github.com/matzehuels/netlayout/pkg/network
// [colormap.Map.At]: github.com/matzehuels/netlayout/pkg/colormap
package layout
