package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestHighPassLength(t *testing.T) {
	t.Parallel()

	data := make([]float64, 128)
	for i := range data {
		data[i] = math.Sin(float64(i) * 0.1)
	}
	out := HighPass(data, 32, 0.6, 1)
	assert.Len(t, out, len(data))
}

// TestHighPassLinearity checks that the filter is linear:
// H(ax + by) = aH(x) + bH(y), up to floating-point tolerance.
func TestHighPassLinearity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(8, 64).Draw(t, "n")
		a := rapid.Float64Range(-3, 3).Draw(t, "a")
		bCoef := rapid.Float64Range(-3, 3).Draw(t, "b")

		x := make([]float64, n)
		y := make([]float64, n)
		combined := make([]float64, n)
		for i := 0; i < n; i++ {
			x[i] = rapid.Float64Range(-10, 10).Draw(t, "x")
			y[i] = rapid.Float64Range(-10, 10).Draw(t, "y")
			combined[i] = a*x[i] + bCoef*y[i]
		}

		hx := HighPass(x, 64, 1.0, 1)
		hy := HighPass(y, 64, 1.0, 1)
		hCombined := HighPass(combined, 64, 1.0, 1)

		for i := 0; i < n; i++ {
			want := a*hx[i] + bCoef*hy[i]
			if math.Abs(want-hCombined[i]) > 1e-6*(1+math.Abs(want)) {
				t.Fatalf("linearity violated at %d: want %g got %g", i, want, hCombined[i])
			}
		}
	})
}

func TestLowerEnvelopeNeverExceedsSignal(t *testing.T) {
	t.Parallel()

	data := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	env := LowerEnvelope(data, 3)
	for i, v := range env {
		assert.LessOrEqual(t, v, data[i])
	}
}

func TestLowerEnvelopeOddensWindow(t *testing.T) {
	t.Parallel()

	data := []float64{0, 0, 0, 0, 0}
	envEven := LowerEnvelope(data, 4)
	envOdd := LowerEnvelope(data, 5)
	assert.Equal(t, envOdd, envEven)
}
