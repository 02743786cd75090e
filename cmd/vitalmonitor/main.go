package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/vitalwear/vitalcore/analysis"
	"github.com/vitalwear/vitalcore/core"
	"github.com/vitalwear/vitalcore/store"
)

func main() {
	flags := pflag.NewFlagSet("vitalmonitor", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "", "path to a YAML config file overlay")
	mock := flags.Bool("mock", false, "run the synthetic two-device producer instead of scanning for real devices")
	histAPI := flags.Int("hist-api", 60, "observer window length, in samples")
	histAnalytics := flags.Int("hist-analytics", 300, "analysis window length, in samples")
	maxRTTMs := flags.Int("max-rtt-ms", 500, "time-sync acceptance tolerance, in milliseconds")
	syncInterval := flags.Duration("sync-interval", 5*time.Minute, "periodic resync cadence")
	analysisInterval := flags.Int("analysis-interval", 100, "samples per channel between analyses")
	verbose := flags.BoolP("verbose", "v", false, "enable debug logging")
	_ = flags.Parse(os.Args[1:])

	logger := log.Default()
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	fc, err := loadFileConfig(*configPath)
	if err != nil {
		logger.Fatalf("vitalmonitor: load config file: %v", err)
	}

	ecgParams := analysis.ECGParams{
		FsHz:                  130,
		FilterCutoffLowHz:     5,
		FilterOrder:           4,
		ProminenceMADMultiple: 4,
		RPeakDistance:         40,
		RPeakPlateau:          2,
		HRMin:                 40,
		HRMax:                 180,
		HRMaxDiff:             25,
	}
	ppgParams := analysis.PPGParams{
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
	}
	fc.ECG.applyTo(&ecgParams)
	fc.PPG.applyTo(&ppgParams)

	enableMock := *mock
	if fc.EnableMockDevices != nil {
		enableMock = *fc.EnableMockDevices
	}
	histAPIVal := *histAPI
	if fc.HistSizeAPI != nil {
		histAPIVal = *fc.HistSizeAPI
	}
	histAnalyticsVal := *histAnalytics
	if fc.HistSizeAnalytics != nil {
		histAnalyticsVal = *fc.HistSizeAnalytics
	}
	maxRTTVal := *maxRTTMs
	if fc.MaxInitialRTTMs != nil {
		maxRTTVal = *fc.MaxInitialRTTMs
	}
	syncIntervalVal := *syncInterval
	if fc.SyncIntervalSec != nil {
		syncIntervalVal = time.Duration(*fc.SyncIntervalSec) * time.Second
	}
	analysisIntervalVal := *analysisInterval
	if fc.AnalysisInterval != nil {
		analysisIntervalVal = *fc.AnalysisInterval
	}

	cfg, err := core.NewConfig(
		core.WithHistSizes(histAPIVal, histAnalyticsVal),
		core.WithMaxInitialRTTMs(maxRTTVal),
		core.WithSyncInterval(syncIntervalVal),
		core.WithEnableMockDevices(enableMock),
		core.WithAnalysisInterval(analysisIntervalVal),
		core.WithECGParams(ecgParams),
		core.WithPPGParams(ppgParams),
	)
	if err != nil {
		logger.Fatalf("vitalmonitor: invalid configuration: %v", err)
	}

	observer := &textObserver{logger: logger}
	c, err := core.New(cfg, observer)
	if err != nil {
		logger.Fatalf("vitalmonitor: construct core: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Infof("vitalmonitor: starting (mock=%v)", enableMock)
	if err := c.Start(ctx); err != nil {
		logger.Fatalf("vitalmonitor: core exited: %v", err)
	}
}

// textObserver prints device snapshots and per-channel data windows to
// the log. It is deliberately minimal: a real application would feed
// these into a UI or a storage sink instead.
type textObserver struct {
	logger *log.Logger
}

func (o *textObserver) DevicesChanged(devices []store.Device) {
	for _, d := range devices {
		o.logger.Infof("device %s (%s) connected=%v battery=%d%% drift=%dus",
			d.ID, d.Name, d.Connected, d.Battery, d.DriftUs)
		for _, ch := range d.Channels {
			quality := "n/a"
			if ch.Quality != nil {
				quality = fmt.Sprintf("%.2f", *ch.Quality)
			}
			o.logger.Debugf("  channel %s (%s) type=%v quality=%s status=%v",
				ch.ID, ch.Name, ch.Type, quality, ch.Status)
		}
	}
}

func (o *textObserver) NewData(channelID string, window []store.Sample) {
	o.logger.Debugf("data %s: %d samples", channelID, len(window))
}
