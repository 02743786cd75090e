package mockdevice

import "math"

// PPG channels synthesize a single 1 Hz sinusoid centered at 20480
// counts with a 10240-count amplitude.
const (
	ppgCenter = 20480.0
	ppgAmp    = 10240.0
)

// ppgWaveform returns an unclamped u16-scale PPG sample at time t seconds.
func ppgWaveform(t float64) float64 {
	return ppgCenter + ppgAmp*math.Sin(2*math.Pi*t)
}

// ECG waveform segment heights. The piecewise curve models one P-QRS-T
// complex per second (nominal 60 bpm).
const (
	pWaveHeight = 0.1
	qrsHeight   = 0.5
	tWaveHeight = 0.3
)

// ecgWaveform returns a u16-scale ECG sample at time t seconds. The
// piecewise curve is computed in [-1, 1] and rescaled to the ADC range.
func ecgWaveform(t float64) float64 {
	c := math.Mod(t, 1.0)
	if c < 0 {
		c += 1.0
	}

	var v float64
	switch {
	case c < 0.1:
		v = (c / 0.1) * pWaveHeight
	case c < 0.2:
		v = ((0.15 - c) / 0.05) * pWaveHeight
	case c < 0.25:
		v = 0
	case c < 0.35:
		v = ((c - 0.25) / 0.05) * qrsHeight
	case c < 0.40:
		v = ((0.35 - c) / 0.05) * qrsHeight
	case c < 0.55:
		v = 0
	case c < 0.70:
		x := (c - 0.45) / 0.25
		v = x*tWaveHeight - x*tWaveHeight*x
	default:
		v = 0
	}

	return ((v + 1.0) / 2.0) * 65535.0
}

// clampU16 clamps v to the inclusive range a device's 16-bit ADC could
// produce and truncates the fractional part.
func clampU16(v float64) int32 {
	if v < 0 {
		v = 0
	}
	if v > 65535 {
		v = 65535
	}
	return int32(v)
}
