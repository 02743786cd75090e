package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ecgPQRST reproduces the piecewise P-QRS-T shape used by the mock
// device generator, parameterized by beats per minute instead of a
// fixed 1 Hz cycle.
func ecgPQRST(tSec, bpm float64) float64 {
	cycleLen := 60.0 / bpm
	cycle := math.Mod(tSec, cycleLen) / cycleLen // normalize to a 0..1 cycle, same shape as 1 Hz case

	const (
		pWaveHeight = 0.1
		qrsHeight   = 0.5
		tWaveHeight = 0.3
	)

	switch {
	case cycle < 0.1:
		return (cycle / 0.1) * pWaveHeight
	case cycle < 0.2:
		return ((0.15 - cycle) / 0.05) * pWaveHeight
	case cycle < 0.25:
		return 0
	case cycle < 0.35:
		return ((cycle - 0.25) / 0.05) * qrsHeight
	case cycle < 0.40:
		return ((0.35 - cycle) / 0.05) * qrsHeight
	case cycle < 0.55:
		return 0
	case cycle < 0.70:
		x := (cycle - 0.45) / 0.25
		return x*tWaveHeight - x*tWaveHeight*x
	default:
		return 0
	}
}

func synthesizeECG(fsHz, durationSec, bpm, noiseSigma float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	n := int(durationSec * fsHz)
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / fsHz
		out[i] = ecgPQRST(t, bpm) + rng.NormFloat64()*noiseSigma
	}
	return out
}

func TestAnalyzeECGSynthesizedSixtyBPM(t *testing.T) {
	t.Parallel()

	params := ECGParams{
		FsHz:                  32,
		FilterCutoffLowHz:     0.6,
		FilterOrder:           1,
		ProminenceMADMultiple: 12,
		RPeakDistance:         5,
		RPeakPlateau:          0,
		HRMin:                 40,
		HRMax:                 200,
		HRMaxDiff:             20,
	}

	window := synthesizeECG(params.FsHz, 32, 60, 0.05, 1)
	result := AnalyzeECG(window, params)

	assert.True(t, result.HasHR)
	assert.GreaterOrEqual(t, result.HREst, 55.0)
	assert.LessOrEqual(t, result.HREst, 65.0)
	assert.GreaterOrEqual(t, result.Quality, 0.5)
}

func TestAnalyzeECGTooFewPeaks(t *testing.T) {
	t.Parallel()

	flat := make([]float64, 50)
	result := AnalyzeECG(flat, ECGParams{
		FsHz:                  32,
		FilterCutoffLowHz:     0.6,
		FilterOrder:           1,
		ProminenceMADMultiple: 12,
		RPeakDistance:         5,
		HRMin:                 40,
		HRMax:                 200,
		HRMaxDiff:             20,
	})
	assert.False(t, result.HasHR)
	assert.Zero(t, result.Quality)
}
