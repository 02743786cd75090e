package core

import (
	"fmt"
	"time"

	"github.com/vitalwear/vitalcore/analysis"
)

// ConfigFn configures a Config and may report a validation failure.
// NewConfig applies each function in order and the first error aborts
// construction.
type ConfigFn func(c *Config) error

// Config is immutable after NewConfig returns.
type Config struct {
	HistSizeAPI       int
	HistSizeAnalytics int
	MaxInitialRTTMs   int
	SyncInterval      time.Duration
	EnableMockDevices bool
	AnalysisInterval  int
	ECGParams         analysis.ECGParams
	PPGParams         analysis.PPGParams
}

// NewConfig builds a Config from sensible defaults plus the given
// options, then validates it. A validation failure returns a non-nil
// error and a nil Config.
func NewConfig(fns ...ConfigFn) (*Config, error) {
	c := &Config{
		HistSizeAPI:       60,
		HistSizeAnalytics: 300,
		MaxInitialRTTMs:   500,
		SyncInterval:      5 * time.Minute,
		AnalysisInterval:  100,
		ECGParams: analysis.ECGParams{
			FsHz:                  130,
			FilterCutoffLowHz:     5,
			FilterOrder:           4,
			ProminenceMADMultiple: 4,
			RPeakDistance:         40,
			RPeakPlateau:          2,
			HRMin:                 40,
			HRMax:                 180,
			HRMaxDiff:             25,
		},
		PPGParams: analysis.PPGParams{
			FsHz:             30,
			BandpassLowHz:    1,
			BandpassHighHz:   10,
			FilterOrder:      4,
			EnvelopeRange:    23,
			AmplitudeMin:     10,
			AmplitudeMax:     2000,
			TroughDepthMin:   -2,
			TroughDepthMax:   2,
			PulseWidthMinSec: 0.27,
			PulseWidthMaxSec: 2.0,
		},
	}
	for _, fn := range fns {
		if err := fn(c); err != nil {
			return nil, err
		}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.HistSizeAPI <= 0 {
		return fmt.Errorf("core: hist_size_api must be positive, got %d", c.HistSizeAPI)
	}
	if c.HistSizeAnalytics <= 0 {
		return fmt.Errorf("core: hist_size_analytics must be positive, got %d", c.HistSizeAnalytics)
	}
	if c.MaxInitialRTTMs <= 0 {
		return fmt.Errorf("core: max_initial_rtt_ms must be positive, got %d", c.MaxInitialRTTMs)
	}
	if c.SyncInterval <= 0 {
		return fmt.Errorf("core: sync_interval must be positive, got %s", c.SyncInterval)
	}
	if c.AnalysisInterval <= 0 {
		return fmt.Errorf("core: analysis_interval_points must be positive, got %d", c.AnalysisInterval)
	}
	if c.ECGParams.FsHz <= 0 || c.PPGParams.FsHz <= 0 {
		return fmt.Errorf("core: sampling frequencies must be positive")
	}
	return nil
}

// WithHistSizes sets the observer- and analysis-window lengths, in samples.
func WithHistSizes(api, analytics int) ConfigFn {
	return func(c *Config) error {
		c.HistSizeAPI = api
		c.HistSizeAnalytics = analytics
		return nil
	}
}

// WithMaxInitialRTTMs sets the time-sync acceptance tolerance.
func WithMaxInitialRTTMs(ms int) ConfigFn {
	return func(c *Config) error {
		if ms <= 0 {
			return fmt.Errorf("core: max_initial_rtt_ms must be positive, got %d", ms)
		}
		c.MaxInitialRTTMs = ms
		return nil
	}
}

// WithSyncInterval sets the periodic resync cadence.
func WithSyncInterval(d time.Duration) ConfigFn {
	return func(c *Config) error {
		if d <= 0 {
			return fmt.Errorf("core: sync_interval must be positive, got %s", d)
		}
		c.SyncInterval = d
		return nil
	}
}

// WithEnableMockDevices switches the core from real transport discovery
// to the synthetic two-device producer in package mockdevice.
func WithEnableMockDevices(enabled bool) ConfigFn {
	return func(c *Config) error {
		c.EnableMockDevices = enabled
		return nil
	}
}

// WithAnalysisInterval sets how many newly arrived samples on a channel
// trigger the next analyzer run.
func WithAnalysisInterval(points int) ConfigFn {
	return func(c *Config) error {
		if points <= 0 {
			return fmt.Errorf("core: analysis_interval_points must be positive, got %d", points)
		}
		c.AnalysisInterval = points
		return nil
	}
}

// WithECGParams overrides the ECG analyzer parameter bundle.
func WithECGParams(p analysis.ECGParams) ConfigFn {
	return func(c *Config) error {
		if p.FsHz <= 0 {
			return fmt.Errorf("core: ecg sampling frequency must be positive, got %v", p.FsHz)
		}
		c.ECGParams = p
		return nil
	}
}

// WithPPGParams overrides the PPG analyzer parameter bundle.
func WithPPGParams(p analysis.PPGParams) ConfigFn {
	return func(c *Config) error {
		if p.FsHz <= 0 {
			return fmt.Errorf("core: ppg sampling frequency must be positive, got %v", p.FsHz)
		}
		c.PPGParams = p
		return nil
	}
}
