package vec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuadraticRoots(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c float64
		want    []float64
	}{
		{"two roots in domain", 1, -1, 0.21, []float64{0.3, 0.7}},
		{"root on domain edge", 1, -1.5, 0.5, []float64{0.5, 1}},
		{"no real roots", 1, 0, 1, nil},
		{"linear fallback", 0, 2, -1, []float64{0.5}},
		{"linear outside", 0, 1, 3, nil},
		{"constant", 0, 0, 1, nil},
		{"roots outside domain", 1, -5, 6, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuadraticRoots(tt.a, tt.b, tt.c)
			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.InDelta(t, tt.want[i], got[i], 1e-9)
			}
		})
	}
}

func TestCubicRoots(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c, d float64
		want       []float64
	}{
		// (t-0.2)(t-0.5)(t-0.9)
		{"three real roots", 1, -1.6, 0.73, -0.09, []float64{0.2, 0.5, 0.9}},
		// (t-0.5)(t²+1)
		{"one real root", 1, -0.5, 1, -0.5, []float64{0.5}},
		// (t-0.25)³
		{"triple root", 1, -0.75, 0.1875, -0.015625, []float64{0.25}},
		// degenerates to 2t - 1
		{"quadratic fallback", 0, 0, 2, -1, []float64{0.5}},
		// (t-2)(t-3)(t-4)
		{"all outside", 1, -9, 26, -24, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CubicRoots(tt.a, tt.b, tt.c, tt.d)
			require.Len(t, got, len(tt.want), "roots: %v", got)
			for i := range got {
				assert.InDelta(t, tt.want[i], got[i], 1e-6)
			}
		})
	}
}

func TestCubicRootsNeverNaN(t *testing.T) {
	for i := -20; i <= 20; i++ {
		for j := -20; j <= 20; j++ {
			for _, r := range CubicRoots(1, float64(i)/10, float64(j)/10, -0.1) {
				assert.False(t, math.IsNaN(r))
				assert.GreaterOrEqual(t, r, 0.0)
				assert.LessOrEqual(t, r, 1.0)
			}
		}
	}
}
