package layout

import (
	"testing"
)

func TestDepthNoCompression(t *testing.T) {
	p := Depth(3, 4, 20)

	if p.AnnDepth != 8 {
		t.Errorf("AnnDepth = %v, want 8", p.AnnDepth)
	}
	if p.Scale != 1.0 {
		t.Errorf("Scale = %v, want exactly 1", p.Scale)
	}
	want := []float64{-4, 0, 4}
	for i, z := range want {
		if p.Z[i] != z {
			t.Errorf("Z[%d] = %v, want %v", i, p.Z[i], z)
		}
	}
}

func TestDepthCompression(t *testing.T) {
	p := Depth(10, 4, 20)

	if p.AnnDepth != 36 {
		t.Errorf("AnnDepth = %v, want 36", p.AnnDepth)
	}
	if !near(p.Scale, 20.0/36.0) {
		t.Errorf("Scale = %v, want %v", p.Scale, 20.0/36.0)
	}
	if !near(p.Z[0], -10) || !near(p.Z[9], 10) {
		t.Errorf("span = [%v, %v], want [-10, 10]", p.Z[0], p.Z[9])
	}
	if !near(p.Extent(), 20) {
		t.Errorf("Extent() = %v, want 20", p.Extent())
	}
}

func TestDepthExactlyAtBound(t *testing.T) {
	p := Depth(6, 4, 20)
	if p.Scale != 1.0 {
		t.Errorf("Scale = %v, want exactly 1 when depth equals the bound", p.Scale)
	}
	if p.Z[0] != -10 || p.Z[5] != 10 {
		t.Errorf("span = [%v, %v], want [-10, 10]", p.Z[0], p.Z[5])
	}
}

func TestDepthSingleLayer(t *testing.T) {
	p := Depth(1, 4, 20)
	if p.AnnDepth != 0 || p.Scale != 1 || p.Z[0] != 0 {
		t.Errorf("Depth(1) = %+v, want AnnDepth 0, Scale 1, Z [0]", p)
	}
}

func TestDepthZeroSpacingGuard(t *testing.T) {
	p := Depth(5, 0, 20)
	if p.Scale != 1 {
		t.Errorf("Scale = %v, want 1 when natural depth is zero", p.Scale)
	}
	for i, z := range p.Z {
		if z != 0 {
			t.Errorf("Z[%d] = %v, want 0", i, z)
		}
	}
}

func TestDepthZeroBound(t *testing.T) {
	p := Depth(4, 4, 0)
	for i, z := range p.Z {
		if z != 0 {
			t.Errorf("Z[%d] = %v, want 0 with a zero depth bound", i, z)
		}
	}
}

func TestDepthMonotonicAndSymmetric(t *testing.T) {
	tests := []struct {
		n                 int
		spacing, maxDepth float64
	}{
		{2, 4, 20},
		{7, 3, 20},
		{10, 4, 20},
		{33, 1.7, 12.3},
		{101, 0.37, 5},
		{64, 4, 1000},
	}

	for _, tt := range tests {
		p := Depth(tt.n, tt.spacing, tt.maxDepth)
		for i := 1; i < tt.n; i++ {
			if p.Z[i] < p.Z[i-1] {
				t.Errorf("Depth(%d, %v, %v): Z[%d]=%v < Z[%d]=%v", tt.n, tt.spacing, tt.maxDepth, i, p.Z[i], i-1, p.Z[i-1])
			}
		}
		if p.Z[0] != -p.Z[tt.n-1] {
			t.Errorf("Depth(%d, %v, %v): first %v is not the negative of last %v", tt.n, tt.spacing, tt.maxDepth, p.Z[0], p.Z[tt.n-1])
		}
		for i := 0; i < tt.n; i++ {
			if !near(p.Z[i], -p.Z[tt.n-1-i]) {
				t.Errorf("Depth(%d): Z[%d]=%v not mirrored by Z[%d]=%v", tt.n, i, p.Z[i], tt.n-1-i, p.Z[tt.n-1-i])
			}
		}
		if p.Extent() > tt.maxDepth+tol {
			t.Errorf("Depth(%d, %v, %v): extent %v exceeds bound", tt.n, tt.spacing, tt.maxDepth, p.Extent())
		}
		if p.AnnDepth <= tt.maxDepth && p.Scale != 1.0 {
			t.Errorf("Depth(%d, %v, %v): Scale = %v, want exactly 1", tt.n, tt.spacing, tt.maxDepth, p.Scale)
		}
	}
}

func TestDepthNoLayers(t *testing.T) {
	p := Depth(0, 4, 20)
	if len(p.Z) != 0 || p.Scale != 1 {
		t.Errorf("Depth(0) = %+v", p)
	}
}
