package peripheral

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/bluetooth"

	"github.com/vitalwear/vitalcore/bus"
	"github.com/vitalwear/vitalcore/transport"
)

// --- fakes implementing transport.Adapter/Peripheral/Service/Characteristic ---

type fakeCharacteristic struct {
	uuid     bluetooth.UUID
	readFn   func(buf []byte) (int, error)
	writeFn  func(data []byte) (int, error)
	notifyFn func(cb func([]byte)) error
}

func (c *fakeCharacteristic) UUID() bluetooth.UUID { return c.uuid }

func (c *fakeCharacteristic) Read(buf []byte) (int, error) {
	if c.readFn == nil {
		return 0, nil
	}
	return c.readFn(buf)
}

func (c *fakeCharacteristic) WriteWithoutResponse(data []byte) (int, error) {
	if c.writeFn == nil {
		return len(data), nil
	}
	return c.writeFn(data)
}

func (c *fakeCharacteristic) EnableNotifications(cb func([]byte)) error {
	if c.notifyFn == nil {
		return nil
	}
	return c.notifyFn(cb)
}

type fakeService struct {
	uuid  bluetooth.UUID
	chars []transport.Characteristic
}

func (s *fakeService) UUID() bluetooth.UUID { return s.uuid }

func (s *fakeService) DiscoverCharacteristics([]bluetooth.UUID) ([]transport.Characteristic, error) {
	return s.chars, nil
}

type fakePeripheral struct {
	mu           sync.Mutex
	services     []transport.Service
	disconnected bool
}

func (p *fakePeripheral) Disconnect() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disconnected = true
	return nil
}

func (p *fakePeripheral) DiscoverServices([]bluetooth.UUID) ([]transport.Service, error) {
	return p.services, nil
}

type fakeAdapter struct {
	peripheral transport.Peripheral
	connectErr error
}

func (a *fakeAdapter) Enable() error { return nil }
func (a *fakeAdapter) Scan(ctx context.Context, cb func(transport.ScanResult)) error {
	return nil
}
func (a *fakeAdapter) StopScan() error { return nil }
func (a *fakeAdapter) Connect(ctx context.Context, addr transport.Address) (transport.Peripheral, error) {
	if a.connectErr != nil {
		return nil, a.connectErr
	}
	return a.peripheral, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []bus.Event
}

func (p *recordingPublisher) PushTransport(e bus.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) snapshot() []bus.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]bus.Event, len(p.events))
	copy(out, p.events)
	return out
}

// buildFakePeripheral assembles a peripheral exposing every service and
// characteristic a Session needs, with a data characteristic whose
// initial/notified frame reports a PPG-only layout (ECG slot all zero).
func buildFakePeripheral(t *testing.T, now time.Time, onNotify *func([]byte)) *fakePeripheral {
	t.Helper()

	ppgFrame := func(seq byte) []byte {
		buf := make([]byte, transport.DataFrameLen)
		buf[0] = seq
		// ECG slot (bytes 1,2,9,10,17,18) left zero -> PPG-only layout.
		for i := 0; i < 3; i++ {
			base := 1 + i*8
			buf[base+2] = 0x10 // green lo
			buf[base+4] = 0x20 // red lo
			buf[base+6] = 0x30 // ir lo
		}
		return buf
	}

	timeChar := &fakeCharacteristic{
		uuid: transport.CurrentTimeUUID,
		readFn: func(buf []byte) (int, error) {
			enc := transport.EncodeTime(now)
			n := copy(buf, enc)
			return n, nil
		},
	}
	dataChar := &fakeCharacteristic{
		uuid: transport.DataCharUUID,
		readFn: func(buf []byte) (int, error) {
			return copy(buf, ppgFrame(0)), nil
		},
		notifyFn: func(cb func([]byte)) error {
			if onNotify != nil {
				*onNotify = cb
			}
			return nil
		},
	}
	battChar := &fakeCharacteristic{
		uuid: transport.BatteryLevelUUID,
		readFn: func(buf []byte) (int, error) {
			buf[0] = 77
			return 1, nil
		},
		notifyFn: func(cb func([]byte)) error { return nil },
	}
	serialChar := &fakeCharacteristic{
		uuid: transport.SerialCharUUID,
		readFn: func(buf []byte) (int, error) {
			return copy(buf, []byte("SN123")), nil
		},
	}
	modelChar := &fakeCharacteristic{
		uuid: transport.ModelCharUUID,
		readFn: func(buf []byte) (int, error) {
			return copy(buf, []byte("WearableX")), nil
		},
	}

	return &fakePeripheral{
		services: []transport.Service{
			&fakeService{uuid: transport.DeviceInfoServiceUUID, chars: []transport.Characteristic{serialChar, modelChar}},
			&fakeService{uuid: transport.BatteryServiceUUID, chars: []transport.Characteristic{battChar}},
			&fakeService{uuid: transport.TimeServiceUUID, chars: []transport.Characteristic{timeChar}},
			&fakeService{uuid: transport.DataServiceUUID, chars: []transport.Characteristic{dataChar}},
		},
	}
}

func TestSessionFullLifecycle(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var notifyCb func([]byte)
	periph := buildFakePeripheral(t, now, &notifyCb)
	adapter := &fakeAdapter{peripheral: periph}
	pub := &recordingPublisher{}

	sess := New(
		WithAdapter(adapter),
		WithPublisher(pub),
		WithMaxInitialRTTMs(1000),
		withClock(func() time.Time { return now }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sess.Run(ctx, transport.ScanResult{Address: transport.Address{MAC: "00:11:22:33:44:55"}})
		close(done)
	}()

	require.Eventually(t, func() bool {
		for _, e := range pub.snapshot() {
			if _, ok := e.(bus.DeviceConnected); ok {
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)

	require.NotNil(t, notifyCb)
	notifyCb(func() []byte {
		buf := make([]byte, transport.DataFrameLen)
		buf[0] = 9
		return buf
	}())

	cancel()
	<-done

	events := pub.snapshot()
	require.GreaterOrEqual(t, len(events), 3)

	connected, ok := events[0].(bus.DeviceConnected)
	require.True(t, ok)
	assert.Equal(t, "00:11:22:33:44:55", connected.Device.ID)
	assert.True(t, connected.Device.Connected)
	assert.Len(t, connected.Device.Channels, 4) // CNT + 3 PPG, no ECG slot

	var sawData, sawDisconnect bool
	for _, e := range events[1:] {
		switch v := e.(type) {
		case bus.DataReceived:
			sawData = true
			assert.Len(t, v.Samples, 4)
		case bus.DeviceDisconnected:
			sawDisconnect = true
			assert.Equal(t, "00:11:22:33:44:55", v.ID)
		}
	}
	assert.True(t, sawData)
	assert.True(t, sawDisconnect)
	assert.True(t, periph.disconnected)
}

func TestSessionConnectFailurePublishesDisconnectOnly(t *testing.T) {
	t.Parallel()

	adapter := &fakeAdapter{connectErr: assert.AnError}
	pub := &recordingPublisher{}
	sess := New(WithAdapter(adapter), WithPublisher(pub))

	sess.Run(context.Background(), transport.ScanResult{Address: transport.Address{MAC: "AA:BB:CC:DD:EE:FF"}})

	events := pub.snapshot()
	require.Len(t, events, 1)
	disc, ok := events[0].(bus.DeviceDisconnected)
	require.True(t, ok)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", disc.ID)
}

func TestSessionIntrospectionFailureSurfacesAsDisconnect(t *testing.T) {
	t.Parallel()

	periph := &fakePeripheral{services: nil} // no services discoverable -> introspect fails
	adapter := &fakeAdapter{peripheral: periph}
	pub := &recordingPublisher{}
	sess := New(WithAdapter(adapter), WithPublisher(pub))

	sess.Run(context.Background(), transport.ScanResult{Address: transport.Address{MAC: "11:22:33:44:55:66"}})

	events := pub.snapshot()
	require.Len(t, events, 1)
	_, ok := events[0].(bus.DeviceDisconnected)
	assert.True(t, ok)
}
