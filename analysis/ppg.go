package analysis

import "math"

// PPGParams bundles the tunables for pulse segmentation and quality
// scoring. Frequencies are in Hz, pulse widths in seconds.
type PPGParams struct {
	FsHz             float64
	BandpassLowHz    float64
	BandpassHighHz   float64
	FilterOrder      int
	EnvelopeRange    int
	AmplitudeMin     float64
	AmplitudeMax     float64
	TroughDepthMin   float64
	TroughDepthMax   float64
	PulseWidthMinSec float64
	PulseWidthMaxSec float64
}

// Pulse is one trough-to-trough segment of a filtered PPG window.
type Pulse struct {
	Start, Peak, End int
	Amplitude        float64
	TroughDepthDiff  float64
	RelativeDepth    float64
	WidthSec         float64
	Valid            bool
}

// PPGResult is the outcome of analyzing one window of PPG samples.
type PPGResult struct {
	// HasHR is false when the window is constant or fewer than three
	// pulses were found.
	HasHR   bool
	HREst   float64
	Quality float64
	Pulses  []Pulse
}

// AnalyzePPG implements the pulse segmentation and quality scoring
// pipeline: de-mean, band-pass, lower-envelope trough detection, then
// per-pulse amplitude/depth/width validation.
func AnalyzePPG(window []float64, p PPGParams) PPGResult {
	if len(window) == 0 {
		return PPGResult{}
	}
	// A constant window carries no pulses: every filtered sample would
	// equal the envelope and be counted as a trough.
	constant := true
	for _, v := range window[1:] {
		if v != window[0] {
			constant = false
			break
		}
	}
	if constant {
		return PPGResult{}
	}

	demeaned := Demean(window)
	filtered := BandPass(demeaned, p.FsHz, p.BandpassLowHz, p.BandpassHighHz, p.FilterOrder)
	envelope := LowerEnvelope(filtered, p.EnvelopeRange)

	var troughs []int
	for i, v := range filtered {
		if v == envelope[i] {
			troughs = append(troughs, i)
		}
	}

	if len(troughs) < 2 {
		return PPGResult{}
	}

	pulses := make([]Pulse, 0, len(troughs)-1)
	for i := 1; i < len(troughs); i++ {
		start, end := troughs[i-1], troughs[i]
		if end <= start {
			continue
		}
		peak := start
		for j := start; j <= end; j++ {
			if filtered[j] > filtered[peak] {
				peak = j
			}
		}

		amplitude := filtered[peak] - filtered[start]
		depthDiff := filtered[end] - filtered[start]
		relativeDepth := depthDiff / amplitude
		widthSec := float64(end-start) / p.FsHz

		valid := amplitude >= p.AmplitudeMin && amplitude <= p.AmplitudeMax &&
			relativeDepth >= p.TroughDepthMin && relativeDepth <= p.TroughDepthMax &&
			widthSec >= p.PulseWidthMinSec && widthSec <= p.PulseWidthMaxSec

		pulses = append(pulses, Pulse{
			Start:           start,
			Peak:            peak,
			End:             end,
			Amplitude:       amplitude,
			TroughDepthDiff: depthDiff,
			RelativeDepth:   relativeDepth,
			WidthSec:        widthSec,
			Valid:           valid,
		})
	}

	if len(pulses) < 3 {
		return PPGResult{Pulses: pulses}
	}

	validCount := 0
	var widthSum float64
	for _, pulse := range pulses {
		widthSum += pulse.WidthSec
		if pulse.Valid {
			validCount++
		}
	}
	meanWidth := widthSum / float64(len(pulses))

	durationSec := float64(len(window)) / p.FsHz
	minExpected := durationSec / p.PulseWidthMaxSec
	total := math.Max(minExpected, float64(len(pulses)))

	quality := float64(validCount) / total
	if math.IsNaN(quality) || math.IsInf(quality, 0) {
		quality = 0
	}

	return PPGResult{
		HasHR:   true,
		HREst:   60 / meanWidth,
		Quality: quality,
		Pulses:  pulses,
	}
}
