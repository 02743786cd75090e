package mockdevice

import (
	"context"
	"math/rand"
	"time"

	"github.com/vitalwear/vitalcore/bus"
	"github.com/vitalwear/vitalcore/store"
	"github.com/vitalwear/vitalcore/transport"
)

// Publisher is the bus's event ingress, as seen from the mock producer.
type Publisher interface {
	PushTransport(bus.Event)
}

// noiseSpan is the peak-to-peak amplitude of the additive noise term,
// +/- 100 counts around the clean waveform.
const noiseSpan = 200.0

// ConfigFn configures a Producer at construction time.
type ConfigFn func(*Producer)

// WithTickInterval overrides the default 100ms emission cadence.
func WithTickInterval(d time.Duration) ConfigFn {
	return func(p *Producer) { p.tick = d }
}

// WithSamplesPerTick overrides how many samples each channel emits per tick.
func WithSamplesPerTick(n int) ConfigFn {
	return func(p *Producer) { p.samplesPerTick = n }
}

// WithECGSampleRate sets the nominal sample rate used to space ECG
// samples within a tick. It should match the core's configured
// ECGParams.FsHz so analysis windows see a realistic cadence.
func WithECGSampleRate(hz float64) ConfigFn {
	return func(p *Producer) { p.ecgFsHz = hz }
}

// WithPPGSampleRate sets the nominal sample rate used to space PPG
// samples within a tick. It should match the core's configured
// PPGParams.FsHz.
func WithPPGSampleRate(hz float64) ConfigFn {
	return func(p *Producer) { p.ppgFsHz = hz }
}

// withSeed pins the noise generator for deterministic tests.
func withSeed(seed int64) ConfigFn {
	return func(p *Producer) { p.rng = rand.New(rand.NewSource(seed)) }
}

// Producer emits the two fixed mock devices defined by mockDevices,
// driving them through the same bus.Event vocabulary a real
// peripheral.Session would use.
type Producer struct {
	publisher      Publisher
	tick           time.Duration
	samplesPerTick int
	ecgFsHz        float64
	ppgFsHz        float64
	rng            *rand.Rand
}

// New constructs a Producer. publisher must not be nil.
func New(publisher Publisher, fns ...ConfigFn) *Producer {
	p := &Producer{
		publisher:      publisher,
		tick:           100 * time.Millisecond,
		samplesPerTick: 3,
		ecgFsHz:        32,
		ppgFsHz:        30,
		rng:            rand.New(rand.NewSource(1)),
	}
	for _, fn := range fns {
		fn(p)
	}
	return p
}

// mockDevices returns the two fixed devices the producer emits:
// serials 1 and 2, each with three PPG channels and one ECG channel.
// Unlike a real transport.Layout-derived device, mock devices carry no
// counter channel: there is no frame sequence byte to surface, and
// inventing one would misrepresent what the mock actually streams.
func mockDevices() []store.Device {
	return []store.Device{
		newMockDevice("00:11:22:33:00:01", 1, "Mock Device 1"),
		newMockDevice("00:11:22:33:00:02", 2, "Mock Device 2"),
	}
}

func newMockDevice(mac string, serial uint16, name string) store.Device {
	return store.Device{
		ID:        mac,
		Serial:    serial,
		Name:      name,
		Battery:   90,
		DriftUs:   0,
		Connected: true,
		Channels: []store.Channel{
			{ID: mac + "-0", Name: "PPG Green", Type: transport.ChannelPPG},
			{ID: mac + "-1", Name: "PPG Red", Type: transport.ChannelPPG},
			{ID: mac + "-2", Name: "PPG IR", Type: transport.ChannelPPG},
			{ID: mac + "-3", Name: "ECG", Type: transport.ChannelECG},
		},
	}
}

// Run pushes a DeviceConnected event for each mock device, then emits
// DataReceived events at the configured cadence until ctx is
// cancelled, at which point it pushes DeviceDisconnected for each
// device and returns.
func (p *Producer) Run(ctx context.Context) {
	devices := mockDevices()
	for _, d := range devices {
		p.publisher.PushTransport(bus.DeviceConnected{Device: d})
	}

	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	var ecgElapsed, ppgElapsed float64
	for {
		select {
		case <-ctx.Done():
			for _, d := range devices {
				p.publisher.PushTransport(bus.DeviceDisconnected{ID: d.ID})
			}
			return
		case <-ticker.C:
			samples := make(map[string][]int32)
			for _, d := range devices {
				for _, ch := range d.Channels {
					samples[ch.ID] = p.synthesize(ch.Type, ecgElapsed, ppgElapsed)
				}
			}
			ecgElapsed += float64(p.samplesPerTick) / p.ecgFsHz
			ppgElapsed += float64(p.samplesPerTick) / p.ppgFsHz
			p.publisher.PushTransport(bus.DataReceived{Samples: samples})
		}
	}
}

// synthesize generates one tick's worth of samples for a single
// channel, stepping through waveform time at the channel type's
// configured sample rate.
func (p *Producer) synthesize(typ transport.ChannelType, ecgElapsed, ppgElapsed float64) []int32 {
	out := make([]int32, p.samplesPerTick)
	for i := range out {
		noise := p.rng.Float64()*noiseSpan - noiseSpan/2
		switch typ {
		case transport.ChannelECG:
			t := ecgElapsed + float64(i)/p.ecgFsHz
			out[i] = clampU16(ecgWaveform(t) + noise)
		default:
			t := ppgElapsed + float64(i)/p.ppgFsHz
			out[i] = clampU16(ppgWaveform(t) + noise)
		}
	}
	return out
}
