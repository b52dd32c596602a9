package colormap_test

import (
	"fmt"

	"github.com/matzehuels/netlayout/pkg/colormap"
)

func ExampleMap_At() {
	for _, heat := range []float64{-1, 1499.5, 3000} {
		c := colormap.Default.At(heat)
		fmt.Printf("%7.1f %s alpha=%.1f\n", heat, c.Hex(), c.A)
	}
	// Output:
	//    -1.0 #0000ff alpha=255.0
	//  1499.5 #00ff00 alpha=127.5
	//  3000.0 #ff0000 alpha=0.0
}
