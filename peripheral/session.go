package peripheral

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vitalwear/vitalcore/bus"
	"github.com/vitalwear/vitalcore/store"
	"github.com/vitalwear/vitalcore/timesync"
	"github.com/vitalwear/vitalcore/transport"
)

// State is one stage of a Session's lifecycle, in the order named in
// the package doc: Discovered, Connecting, Introspecting, SyncingTime,
// Streaming, Disconnected.
type State int

const (
	StateDiscovered State = iota
	StateConnecting
	StateIntrospecting
	StateSyncingTime
	StateStreaming
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateDiscovered:
		return "discovered"
	case StateConnecting:
		return "connecting"
	case StateIntrospecting:
		return "introspecting"
	case StateSyncingTime:
		return "syncing_time"
	case StateStreaming:
		return "streaming"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Publisher is the bus's event ingress, as seen from a Session. It is
// satisfied by *bus.Bus; a session never calls into the stores
// directly, only into its own transport connection.
type Publisher interface {
	PushTransport(bus.Event)
}

// Session runs one connected device through its lifecycle on its own
// goroutine. The zero value is not usable; construct with New.
type Session struct {
	adapter   transport.Adapter
	publisher Publisher
	logger    *log.Logger

	maxInitialRTTMs int
	syncNow         func() time.Time

	state State

	mu       sync.Mutex
	timeChar transport.Characteristic
}

// ConfigFn configures a Session at construction time.
type ConfigFn func(*Session)

// WithAdapter sets the transport adapter used to connect to a
// discovered peripheral.
func WithAdapter(a transport.Adapter) ConfigFn {
	return func(s *Session) { s.adapter = a }
}

// WithPublisher sets the destination for the session's transport events.
func WithPublisher(p Publisher) ConfigFn {
	return func(s *Session) { s.publisher = p }
}

// WithLogger overrides the session's logger.
func WithLogger(l *log.Logger) ConfigFn {
	return func(s *Session) { s.logger = l }
}

// WithMaxInitialRTTMs sets the time-sync acceptance tolerance passed to
// timesync.Syncer.
func WithMaxInitialRTTMs(ms int) ConfigFn {
	return func(s *Session) { s.maxInitialRTTMs = ms }
}

// withClock overrides the host clock used for time sync. Test-only.
func withClock(now func() time.Time) ConfigFn {
	return func(s *Session) { s.syncNow = now }
}

// New constructs a Session from the given options.
func New(fns ...ConfigFn) *Session {
	s := &Session{
		logger:          log.Default(),
		maxInitialRTTMs: 500,
		syncNow:         time.Now,
		state:           StateDiscovered,
	}
	for _, fn := range fns {
		fn(s)
	}
	return s
}

// State reports the session's current lifecycle stage.
func (s *Session) State() State {
	return s.state
}

// Run drives one discovered peripheral through connect, introspect,
// time-sync, and streaming until ctx is cancelled or the stream ends.
// It always returns after publishing a terminal event: DeviceConnected
// followed eventually by DeviceDisconnected on a full run, or a lone
// DeviceDisconnected if setup failed before streaming began.
func (s *Session) Run(ctx context.Context, result transport.ScanResult) {
	id := result.Address.MAC
	s.state = StateConnecting
	s.logger.Debugf("peripheral %s: connecting", id)

	periph, err := s.adapter.Connect(ctx, result.Address)
	if err != nil {
		s.logger.Warnf("peripheral %s: connect failed: %v", id, err)
		s.publisher.PushTransport(bus.DeviceDisconnected{ID: id})
		return
	}
	defer periph.Disconnect()

	s.state = StateIntrospecting
	intro, err := s.introspect(periph, result)
	if err != nil {
		s.logger.Warnf("peripheral %s: introspection failed: %v", id, err)
		s.publisher.PushTransport(bus.DeviceDisconnected{ID: id})
		return
	}
	s.mu.Lock()
	s.timeChar = intro.timeChar
	s.mu.Unlock()

	s.subscribe(id, intro.channels, intro.battChar, intro.dataChar)

	s.state = StateSyncingTime
	driftUs, err := s.syncTime()
	if err != nil {
		s.logger.Warnf("peripheral %s: time sync aborted: %v", id, err)
		s.publisher.PushTransport(bus.DeviceDisconnected{ID: id})
		return
	}
	intro.device.DriftUs = driftUs
	intro.device.Connected = true

	s.state = StateStreaming
	s.publisher.PushTransport(bus.DeviceConnected{Device: intro.device})

	<-ctx.Done()

	s.state = StateDisconnected
	s.publisher.PushTransport(bus.DeviceDisconnected{ID: id})
}

// syncTime runs the acceptance/retry protocol against the session's
// time characteristic, logging but not failing on exhaustion.
func (s *Session) syncTime() (int64, error) {
	syncer := &timesync.Syncer{Now: s.syncNow, MaxInitialRTTMs: s.maxInitialRTTMs, MaxAttempts: 5}
	driftUs, accepted, err := syncer.Sync(s.currentTimeChar())
	if err != nil {
		return 0, err
	}
	if !accepted {
		s.logger.Warnf("time sync exhausted retries, last rtt=%dus", driftUs)
	}
	return driftUs, nil
}

func (s *Session) currentTimeChar() transport.Characteristic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeChar
}

// Resync re-runs the time-sync exchange against an already-connected
// device and publishes the resulting drift. It is driven per session,
// on SyncTime, by whatever owns the session registry (see package
// core). It is a no-op before the session has completed introspection.
func (s *Session) Resync(deviceID string) {
	ch := s.currentTimeChar()
	if ch == nil {
		return
	}
	syncer := &timesync.Syncer{Now: s.syncNow, MaxInitialRTTMs: s.maxInitialRTTMs, MaxAttempts: 5}
	driftUs, accepted, err := syncer.Sync(ch)
	if err != nil {
		s.logger.Warnf("peripheral %s: resync aborted: %v", deviceID, err)
		return
	}
	if !accepted {
		s.logger.Warnf("peripheral %s: resync exhausted retries, last rtt=%dus", deviceID, driftUs)
	}
	s.publisher.PushTransport(bus.DriftChanged{ID: deviceID, DriftUs: driftUs})
}

// introspection bundles everything learned about a peripheral during
// the Introspecting stage: the not-yet-connected device record, the
// channel routing table derived from its inferred layout, and the
// characteristics the remaining lifecycle stages need.
type introspection struct {
	device   store.Device
	channels channelSet
	battChar transport.Characteristic
	dataChar transport.Characteristic
	timeChar transport.Characteristic
}

// introspect discovers services, reads serial/model/battery, and reads
// one data frame to infer the channel layout. It returns everything the
// sync and streaming stages need; it never subscribes to notifications
// or mutates transport state beyond those reads.
func (s *Session) introspect(p transport.Peripheral, result transport.ScanResult) (introspection, error) {
	svcs, err := p.DiscoverServices(transport.RequiredServiceUUIDs())
	if err != nil {
		return introspection{}, fmt.Errorf("discover services: %w", err)
	}

	infoSvc, ok := transport.FindService(svcs, transport.DeviceInfoServiceUUID)
	if !ok {
		return introspection{}, fmt.Errorf("device info service not found")
	}
	battSvc, ok := transport.FindService(svcs, transport.BatteryServiceUUID)
	if !ok {
		return introspection{}, fmt.Errorf("battery service not found")
	}
	timeSvc, ok := transport.FindService(svcs, transport.TimeServiceUUID)
	if !ok {
		return introspection{}, fmt.Errorf("time service not found")
	}
	dataSvc, ok := transport.FindService(svcs, transport.DataServiceUUID)
	if !ok {
		return introspection{}, fmt.Errorf("data service not found")
	}

	infoChars, err := infoSvc.DiscoverCharacteristics(transport.UUIDs(transport.SerialCharUUID, transport.ModelCharUUID))
	if err != nil {
		return introspection{}, fmt.Errorf("discover device-info characteristics: %w", err)
	}
	serialChar, ok := transport.FindCharacteristic(infoChars, transport.SerialCharUUID)
	if !ok {
		return introspection{}, fmt.Errorf("serial characteristic not found")
	}
	modelChar, ok := transport.FindCharacteristic(infoChars, transport.ModelCharUUID)
	if !ok {
		return introspection{}, fmt.Errorf("model characteristic not found")
	}

	battChars, err := battSvc.DiscoverCharacteristics(transport.UUIDs(transport.BatteryLevelUUID))
	if err != nil {
		return introspection{}, fmt.Errorf("discover battery characteristic: %w", err)
	}
	battChar, ok := transport.FindCharacteristic(battChars, transport.BatteryLevelUUID)
	if !ok {
		return introspection{}, fmt.Errorf("battery characteristic not found")
	}

	timeChars, err := timeSvc.DiscoverCharacteristics(transport.UUIDs(transport.CurrentTimeUUID))
	if err != nil {
		return introspection{}, fmt.Errorf("discover time characteristic: %w", err)
	}
	timeChar, ok := transport.FindCharacteristic(timeChars, transport.CurrentTimeUUID)
	if !ok {
		return introspection{}, fmt.Errorf("time characteristic not found")
	}

	dataChars, err := dataSvc.DiscoverCharacteristics(transport.UUIDs(transport.DataCharUUID))
	if err != nil {
		return introspection{}, fmt.Errorf("discover data characteristic: %w", err)
	}
	dataChar, ok := transport.FindCharacteristic(dataChars, transport.DataCharUUID)
	if !ok {
		return introspection{}, fmt.Errorf("data characteristic not found")
	}

	_, name, err := readString(modelChar)
	if err != nil {
		return introspection{}, fmt.Errorf("read model: %w", err)
	}
	if result.LocalName != "" {
		name = result.LocalName
	}
	// The serial characteristic is read but not used to derive
	// Device.Serial: that comes from the MAC address instead, so a
	// device's identity is stable regardless of what it reports here.
	serialBuf := make([]byte, 32)
	if _, err := serialChar.Read(serialBuf); err != nil {
		return introspection{}, fmt.Errorf("read serial: %w", err)
	}

	battBuf := make([]byte, 1)
	if _, err := battChar.Read(battBuf); err != nil {
		return introspection{}, fmt.Errorf("read battery: %w", err)
	}

	frameBuf := make([]byte, transport.DataFrameLen)
	if _, err := dataChar.Read(frameBuf); err != nil {
		return introspection{}, fmt.Errorf("read initial data frame: %w", err)
	}
	layout, err := transport.InferLayout(frameBuf)
	if err != nil {
		return introspection{}, fmt.Errorf("infer channel layout: %w", err)
	}

	mac := result.Address.MAC
	cs, channels := buildChannels(mac, layout)

	device := store.Device{
		ID:       mac,
		Serial:   serialFromMAC(mac),
		Name:     name,
		Battery:  battBuf[0],
		Channels: channels,
	}

	return introspection{
		device:   device,
		channels: cs,
		battChar: battChar,
		dataChar: dataChar,
		timeChar: timeChar,
	}, nil
}

// readString reads up to 64 bytes from ch and returns the number read
// plus the payload decoded as UTF-8.
func readString(ch transport.Characteristic) (int, string, error) {
	buf := make([]byte, 64)
	n, err := ch.Read(buf)
	if err != nil {
		return 0, "", err
	}
	return n, string(buf[:n]), nil
}

// subscribe enables battery and data notifications, routing each
// through the channel mapping derived during introspection. Malformed
// frames are logged and dropped; the subscription itself continues.
func (s *Session) subscribe(deviceID string, cs channelSet, battChar, dataChar transport.Characteristic) {
	dataChar.EnableNotifications(func(buf []byte) {
		frame, err := transport.DecodeFrame(buf)
		if err != nil {
			s.logger.Warnf("peripheral %s: dropping malformed data frame: %v", deviceID, err)
			return
		}
		s.publisher.PushTransport(bus.DataReceived{Samples: frameSamples(frame, cs)})
	})
	battChar.EnableNotifications(func(buf []byte) {
		if len(buf) < 1 {
			return
		}
		s.publisher.PushTransport(bus.BatteryLevelChanged{ID: deviceID, Level: buf[0]})
	})
}
