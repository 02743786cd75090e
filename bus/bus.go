package bus

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/vitalwear/vitalcore/analysis"
	"github.com/vitalwear/vitalcore/store"
	"github.com/vitalwear/vitalcore/transport"
)

// transportQueueDepth bounds the transport event channel. Peripheral
// sessions and the mock producer are expected to send at a modest,
// bursty rate; a generous depth absorbs a burst without the bus ever
// needing to drop an event.
const transportQueueDepth = 1024

const controlQueueDepth = 16

// Observer receives the store's view of the world as the bus updates
// it. Methods are invoked from the bus goroutine and must not block
// beyond bounded work; they are never invoked concurrently for the
// same channel, and DevicesChanged calls are totally ordered.
type Observer interface {
	DevicesChanged(devices []store.Device)
	NewData(channelID string, window []store.Sample)
}

// ControlHandler carries Pause/Resume/SyncTime control events out to
// whatever owns the peripheral sessions (see package core). The bus
// itself only serialises events into store mutations; it does not know
// how to talk to a transport.
type ControlHandler interface {
	HandleSyncTime()
	HandlePause()
	HandleResume()
}

// Bus is the single-consumer serialiser described in the package doc.
// Construct with New, then run it on its own goroutine via Run.
type Bus struct {
	transportCh chan Event
	controlCh   chan Event

	devices  *store.DeviceStore
	samples  *store.SampleStore
	observer Observer
	control  ControlHandler

	histAPI, histAnalytics int
	analysisInterval       int
	ecgParams              analysis.ECGParams
	ppgParams              analysis.PPGParams

	logger *log.Logger
}

// ConfigFn configures a Bus at construction time.
type ConfigFn func(*Bus)

// WithHistSizes sets the observer- and analysis-window lengths used
// when a new channel is registered.
func WithHistSizes(api, analytics int) ConfigFn {
	return func(b *Bus) {
		b.histAPI = api
		b.histAnalytics = analytics
	}
}

// WithAnalysisInterval sets how many newly arrived samples on a channel
// trigger the next analyzer run.
func WithAnalysisInterval(points int) ConfigFn {
	return func(b *Bus) { b.analysisInterval = points }
}

// WithECGParams sets the parameter bundle passed to the ECG analyzer.
func WithECGParams(p analysis.ECGParams) ConfigFn {
	return func(b *Bus) { b.ecgParams = p }
}

// WithPPGParams sets the parameter bundle passed to the PPG analyzer.
func WithPPGParams(p analysis.PPGParams) ConfigFn {
	return func(b *Bus) { b.ppgParams = p }
}

// WithControlHandler registers the handler invoked for Pause/Resume/SyncTime.
func WithControlHandler(h ControlHandler) ConfigFn {
	return func(b *Bus) { b.control = h }
}

// WithLogger overrides the bus's logger.
func WithLogger(l *log.Logger) ConfigFn {
	return func(b *Bus) { b.logger = l }
}

// New constructs a Bus over the given stores and observer.
func New(devices *store.DeviceStore, samples *store.SampleStore, observer Observer, fns ...ConfigFn) *Bus {
	b := &Bus{
		transportCh:      make(chan Event, transportQueueDepth),
		controlCh:        make(chan Event, controlQueueDepth),
		devices:          devices,
		samples:          samples,
		observer:         observer,
		histAPI:          60,
		histAnalytics:    60,
		analysisInterval: 100,
		logger:           log.Default(),
	}
	for _, fn := range fns {
		fn(b)
	}
	return b
}

// PushTransport enqueues a transport event. It blocks if the queue is full.
func (b *Bus) PushTransport(e Event) {
	b.transportCh <- e
}

// PushControl enqueues a control event. It blocks if the queue is full.
func (b *Bus) PushControl(e Event) {
	b.controlCh <- e
}

// Run consumes events until ctx is cancelled, mutating the stores and
// invoking the observer and control handler as each event demands. Run
// is the only method that may call into the stores' write paths; it
// must run on a single goroutine for the lifetime of the Bus.
func (b *Bus) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e := <-b.transportCh:
			b.handle(e)
		case e := <-b.controlCh:
			b.handle(e)
		}
	}
}

func (b *Bus) handle(e Event) {
	switch ev := e.(type) {
	case DeviceConnected:
		b.onDeviceConnected(ev)
	case DeviceDisconnected:
		b.onDeviceDisconnected(ev)
	case BatteryLevelChanged:
		b.onBatteryLevelChanged(ev)
	case DriftChanged:
		b.onDriftChanged(ev)
	case DataReceived:
		b.onDataReceived(ev)
	case SyncTime:
		if b.control != nil {
			b.control.HandleSyncTime()
		}
	case Pause:
		if b.control != nil {
			b.control.HandlePause()
		}
	case Resume:
		if b.control != nil {
			b.control.HandleResume()
		}
	default:
		b.logger.Warnf("bus: unrecognized event %T", e)
	}
}

func (b *Bus) onDeviceConnected(ev DeviceConnected) {
	b.devices.Upsert(ev.Device)
	for _, ch := range ev.Device.Channels {
		b.samples.AddChannel(ch.ID, ch.Type, b.histAPI, b.histAnalytics)
	}
	b.broadcastDevices()
}

func (b *Bus) onDeviceDisconnected(ev DeviceDisconnected) {
	d, known := b.devices.Get(ev.ID)
	if !b.devices.MarkDisconnected(ev.ID) {
		return
	}
	if known {
		for _, ch := range d.Channels {
			b.samples.RemoveChannel(ch.ID)
		}
	}
	b.broadcastDevices()
}

func (b *Bus) onBatteryLevelChanged(ev BatteryLevelChanged) {
	if b.devices.Mutate(ev.ID, func(d *store.Device) { d.Battery = ev.Level }) {
		b.broadcastDevices()
	}
}

func (b *Bus) onDriftChanged(ev DriftChanged) {
	if b.devices.Mutate(ev.ID, func(d *store.Device) { d.DriftUs = ev.DriftUs }) {
		b.broadcastDevices()
	}
}

func (b *Bus) onDataReceived(ev DataReceived) {
	for channelID, raw := range ev.Samples {
		res, ok := b.samples.Append(channelID, raw)
		if !ok {
			// Device disconnected between frame arrival and dispatch.
			continue
		}
		if b.observer != nil {
			b.observer.NewData(channelID, res.ObserverView)
		}
		if res.Counter >= b.analysisInterval {
			b.runAnalysis(channelID, res)
			b.samples.ResetCounter(channelID)
		}
	}
}

func (b *Bus) runAnalysis(channelID string, res store.AppendResult) {
	window := make([]float64, len(res.AnalysisView))
	for i, s := range res.AnalysisView {
		if s.Present {
			window[i] = float64(s.Value)
		}
	}

	var quality float64
	switch res.Type {
	case transport.ChannelECG:
		quality = analysis.AnalyzeECG(window, b.ecgParams).Quality
	case transport.ChannelPPG:
		quality = analysis.AnalyzePPG(window, b.ppgParams).Quality
	default:
		return
	}

	if b.devices.UpdateChannelQuality(channelID, quality) {
		b.broadcastDevices()
	}
}

func (b *Bus) broadcastDevices() {
	if b.observer != nil {
		b.observer.DevicesChanged(b.devices.Values())
	}
}
