package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vitalwear/vitalcore/analysis"
)

// fileConfig is the YAML overlay shape loaded from --config. Every
// field is optional; an absent field leaves the flag-derived (or
// default) value in place.
type fileConfig struct {
	HistSizeAPI       *int           `yaml:"hist_size_api"`
	HistSizeAnalytics *int           `yaml:"hist_size_analytics"`
	MaxInitialRTTMs   *int           `yaml:"max_initial_rtt_ms"`
	SyncIntervalSec   *int           `yaml:"sync_interval_sec"`
	EnableMockDevices *bool          `yaml:"enable_mock_devices"`
	AnalysisInterval  *int           `yaml:"analysis_interval_points"`
	ECG               *ecgFileParams `yaml:"ecg"`
	PPG               *ppgFileParams `yaml:"ppg"`
}

type ecgFileParams struct {
	FsHz                  *float64 `yaml:"fs_hz"`
	FilterCutoffLowHz     *float64 `yaml:"filter_cutoff_low_hz"`
	FilterOrder           *int     `yaml:"filter_order"`
	ProminenceMADMultiple *float64 `yaml:"prominence_mad_multiple"`
	RPeakDistance         *int     `yaml:"r_peak_distance"`
	RPeakPlateau          *int     `yaml:"r_peak_plateau"`
	HRMin                 *float64 `yaml:"hr_min"`
	HRMax                 *float64 `yaml:"hr_max"`
	HRMaxDiff             *float64 `yaml:"hr_max_diff"`
}

type ppgFileParams struct {
	FsHz             *float64 `yaml:"fs_hz"`
	BandpassLowHz    *float64 `yaml:"bandpass_low_hz"`
	BandpassHighHz   *float64 `yaml:"bandpass_high_hz"`
	FilterOrder      *int     `yaml:"filter_order"`
	EnvelopeRange    *int     `yaml:"envelope_range"`
	AmplitudeMin     *float64 `yaml:"amplitude_min"`
	AmplitudeMax     *float64 `yaml:"amplitude_max"`
	TroughDepthMin   *float64 `yaml:"trough_depth_min"`
	TroughDepthMax   *float64 `yaml:"trough_depth_max"`
	PulseWidthMinSec *float64 `yaml:"pulse_width_min_sec"`
	PulseWidthMaxSec *float64 `yaml:"pulse_width_max_sec"`
}

// loadFileConfig reads and parses path. A blank path returns a zero
// fileConfig (no overlay) and no error.
func loadFileConfig(path string) (fileConfig, error) {
	if path == "" {
		return fileConfig{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fileConfig{}, err
	}
	return fc, nil
}

// applyTo overrides p's fields with whatever ecgFileParams sets.
func (e *ecgFileParams) applyTo(p *analysis.ECGParams) {
	if e == nil {
		return
	}
	if e.FsHz != nil {
		p.FsHz = *e.FsHz
	}
	if e.FilterCutoffLowHz != nil {
		p.FilterCutoffLowHz = *e.FilterCutoffLowHz
	}
	if e.FilterOrder != nil {
		p.FilterOrder = *e.FilterOrder
	}
	if e.ProminenceMADMultiple != nil {
		p.ProminenceMADMultiple = *e.ProminenceMADMultiple
	}
	if e.RPeakDistance != nil {
		p.RPeakDistance = *e.RPeakDistance
	}
	if e.RPeakPlateau != nil {
		p.RPeakPlateau = *e.RPeakPlateau
	}
	if e.HRMin != nil {
		p.HRMin = *e.HRMin
	}
	if e.HRMax != nil {
		p.HRMax = *e.HRMax
	}
	if e.HRMaxDiff != nil {
		p.HRMaxDiff = *e.HRMaxDiff
	}
}

// applyTo overrides p's fields with whatever ppgFileParams sets.
func (g *ppgFileParams) applyTo(p *analysis.PPGParams) {
	if g == nil {
		return
	}
	if g.FsHz != nil {
		p.FsHz = *g.FsHz
	}
	if g.BandpassLowHz != nil {
		p.BandpassLowHz = *g.BandpassLowHz
	}
	if g.BandpassHighHz != nil {
		p.BandpassHighHz = *g.BandpassHighHz
	}
	if g.FilterOrder != nil {
		p.FilterOrder = *g.FilterOrder
	}
	if g.EnvelopeRange != nil {
		p.EnvelopeRange = *g.EnvelopeRange
	}
	if g.AmplitudeMin != nil {
		p.AmplitudeMin = *g.AmplitudeMin
	}
	if g.AmplitudeMax != nil {
		p.AmplitudeMax = *g.AmplitudeMax
	}
	if g.TroughDepthMin != nil {
		p.TroughDepthMin = *g.TroughDepthMin
	}
	if g.TroughDepthMax != nil {
		p.TroughDepthMax = *g.TroughDepthMax
	}
	if g.PulseWidthMinSec != nil {
		p.PulseWidthMinSec = *g.PulseWidthMinSec
	}
	if g.PulseWidthMaxSec != nil {
		p.PulseWidthMaxSec = *g.PulseWidthMaxSec
	}
}
