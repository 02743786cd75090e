package analysis

import (
	"math"
	"sort"
)

// ECGParams bundles the tunables for R-peak detection and heart-rate
// scoring. Frequencies are in Hz, distances/plateaus in samples, rates
// in beats per minute.
type ECGParams struct {
	FsHz                  float64
	FilterCutoffLowHz     float64
	FilterOrder           int
	ProminenceMADMultiple float64
	RPeakDistance         int
	RPeakPlateau          int
	HRMin                 float64
	HRMax                 float64
	HRMaxDiff             float64
}

// ECGResult is the outcome of analyzing one window of ECG samples.
type ECGResult struct {
	// HasHR is false when fewer than two peaks were found.
	HasHR   bool
	HREst   float64
	Quality float64
	Peaks   []int
}

// AnalyzeECG implements the R-peak detection and quality scoring
// pipeline: de-mean, high-pass, MAD-gated prominence peak finding, then
// inter-beat interval validation.
func AnalyzeECG(window []float64, p ECGParams) ECGResult {
	if len(window) == 0 {
		return ECGResult{}
	}

	demeaned := Demean(window)
	filtered := HighPass(demeaned, p.FsHz, p.FilterCutoffLowHz, p.FilterOrder)

	mad := medianAbsoluteDeviation(filtered)
	minProminence := p.ProminenceMADMultiple * mad

	peaks := findPeaks(filtered, minProminence, p.RPeakDistance, p.RPeakPlateau)

	if len(peaks) < 2 {
		return ECGResult{Peaks: peaks}
	}

	bpms := make([]float64, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		dSamples := float64(peaks[i] - peaks[i-1])
		bpms[i-1] = 60 * p.FsHz / dSamples
	}

	deltas := make([]float64, len(bpms))
	for i := range bpms {
		if i == 0 {
			deltas[i] = 0
			continue
		}
		deltas[i] = bpms[i] - bpms[i-1]
	}

	validCount := 0
	var bpmSum float64
	for i, bpm := range bpms {
		bpmSum += bpm
		if bpm >= p.HRMin && bpm <= p.HRMax && math.Abs(deltas[i]) <= p.HRMaxDiff {
			validCount++
		}
	}

	durationSec := float64(len(window)) / p.FsHz
	minExpected := durationSec / (60 / p.HRMin)
	total := math.Max(minExpected, float64(len(bpms)))

	quality := float64(validCount) / total
	if math.IsNaN(quality) || math.IsInf(quality, 0) {
		quality = 0
	}

	return ECGResult{
		HasHR:   true,
		HREst:   bpmSum / float64(len(bpms)),
		Quality: quality,
		Peaks:   peaks,
	}
}

func medianAbsoluteDeviation(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	med := median(data)
	devs := make([]float64, len(data))
	for i, v := range data {
		devs[i] = math.Abs(v - med)
	}
	return median(devs)
}

func median(data []float64) float64 {
	cp := append([]float64(nil), data...)
	sort.Float64s(cp)
	n := len(cp)
	if n%2 == 1 {
		return cp[n/2]
	}
	return (cp[n/2-1] + cp[n/2]) / 2
}

// findPeaks locates local maxima (plateau-aware) with prominence at
// least minProminence, then greedily enforces minDistance between
// accepted peaks by preferring the taller candidate. maxPlateau bounds
// how wide a flat top may be before it is no longer treated as a single
// peak. A minProminence of 0 (MAD == 0 on a constant signal) disables
// prominence gating entirely.
func findPeaks(data []float64, minProminence float64, minDistance, maxPlateau int) []int {
	type candidate struct {
		idx        int
		val        float64
		prominence float64
	}

	var candidates []candidate
	n := len(data)
	i := 1
	for i < n-1 {
		if data[i-1] >= data[i] {
			i++
			continue
		}
		// data[i-1] < data[i]: start of a rise. Find the plateau end.
		j := i
		for j+1 < n && data[j+1] == data[j] {
			j++
		}
		if j+1 >= n {
			break
		}
		if data[j+1] < data[j] && j-i+1 <= maxPlateau+1 {
			peakIdx := i + (j-i)/2
			prom := prominence(data, peakIdx)
			candidates = append(candidates, candidate{idx: peakIdx, val: data[peakIdx], prominence: prom})
		}
		i = j + 1
	}

	var gated []candidate
	for _, c := range candidates {
		if minProminence <= 0 || c.prominence >= minProminence {
			gated = append(gated, c)
		}
	}

	sort.Slice(gated, func(a, b int) bool { return gated[a].val > gated[b].val })

	var accepted []candidate
	for _, c := range gated {
		ok := true
		for _, a := range accepted {
			if abs(a.idx-c.idx) < minDistance {
				ok = false
				break
			}
		}
		if ok {
			accepted = append(accepted, c)
		}
	}

	sort.Slice(accepted, func(a, b int) bool { return accepted[a].idx < accepted[b].idx })

	out := make([]int, len(accepted))
	for i, c := range accepted {
		out[i] = c.idx
	}
	return out
}

// prominence computes topographic prominence: the peak height above the
// higher of the two nearest valleys on either side (or the array
// boundary, if no higher peak intervenes).
func prominence(data []float64, peak int) float64 {
	leftMin := data[peak]
	for i := peak - 1; i >= 0; i-- {
		if data[i] > data[peak] {
			break
		}
		if data[i] < leftMin {
			leftMin = data[i]
		}
	}
	rightMin := data[peak]
	for i := peak + 1; i < len(data); i++ {
		if data[i] > data[peak] {
			break
		}
		if data[i] < rightMin {
			rightMin = data[i]
		}
	}
	base := math.Max(leftMin, rightMin)
	return data[peak] - base
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
