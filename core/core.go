package core

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vitalwear/vitalcore/bus"
	"github.com/vitalwear/vitalcore/mockdevice"
	"github.com/vitalwear/vitalcore/peripheral"
	"github.com/vitalwear/vitalcore/store"
	"github.com/vitalwear/vitalcore/transport"
)

// Observer is the host-facing callback contract: a full device-set
// snapshot on any change, plus per-channel data windows as they arrive.
// It is satisfied by anything satisfying bus.Observer; re-exported here
// so a caller of this package never needs to import package bus
// directly.
type Observer = bus.Observer

// session is one tracked peripheral, along with the cancel function
// that ends its Run goroutine.
type session struct {
	sess   *peripheral.Session
	cancel context.CancelFunc
}

// Core is the host-facing control surface: construct with New, then
// Start, SyncTime, Pause, and Resume drive the discovery/session/mock
// lifecycle beneath it.
type Core struct {
	config   *Config
	observer Observer
	logger   *log.Logger

	devices *store.DeviceStore
	samples *store.SampleStore
	bus     *bus.Bus

	adapter transport.Adapter

	mu         sync.Mutex
	sessions   map[string]*session
	scanning   bool
	scanCancel context.CancelFunc

	runCtx context.Context
}

// New constructs a Core. The adapter is created lazily on Start unless
// config.EnableMockDevices is set, in which case no transport adapter
// is ever touched.
func New(config *Config, observer Observer) (*Core, error) {
	devices := store.NewDeviceStore()
	samples := store.NewSampleStore()
	logger := log.Default()

	c := &Core{
		config:   config,
		observer: observer,
		logger:   logger,
		devices:  devices,
		samples:  samples,
		sessions: make(map[string]*session),
	}
	c.bus = bus.New(devices, samples, observer,
		bus.WithHistSizes(config.HistSizeAPI, config.HistSizeAnalytics),
		bus.WithAnalysisInterval(config.AnalysisInterval),
		bus.WithECGParams(config.ECGParams),
		bus.WithPPGParams(config.PPGParams),
		bus.WithControlHandler(c),
		bus.WithLogger(logger),
	)
	return c, nil
}

// Start runs the bus and, depending on Config.EnableMockDevices, either
// the synthetic producer or the discovery/session pipeline. It blocks
// until ctx is cancelled, tearing every owned task down before
// returning.
func (c *Core) Start(ctx context.Context) error {
	c.runCtx = ctx

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.bus.Run(ctx)
	}()

	if c.config.EnableMockDevices {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mockdevice.New(c.bus,
				mockdevice.WithECGSampleRate(c.config.ECGParams.FsHz),
				mockdevice.WithPPGSampleRate(c.config.PPGParams.FsHz),
			).Run(ctx)
		}()
		wg.Wait()
		return nil
	}

	adapter, err := transport.NewBLEAdapter()
	if err != nil {
		return err
	}
	c.adapter = adapter

	// Both of these spawn their own background goroutines and return
	// immediately; they select on ctx.Done() and exit shortly after
	// bus.Run does, so only bus.Run is tracked by wg below.
	c.startScanning(ctx)
	c.startResyncTimer(ctx)

	wg.Wait()
	return nil
}

// startScanning launches the discovery task under a child context the
// core can cancel independently on Pause, without tearing down Start's
// parent ctx.
func (c *Core) startScanning(ctx context.Context) {
	c.mu.Lock()
	if c.scanning {
		c.mu.Unlock()
		return
	}
	scanCtx, cancel := context.WithCancel(ctx)
	c.scanCancel = cancel
	c.scanning = true
	c.mu.Unlock()

	go func() {
		if err := c.adapter.Scan(scanCtx, c.onDiscovered); err != nil {
			c.logger.Warnf("core: scan ended: %v", err)
		}
	}()
}

// onDiscovered starts a peripheral.Session for a newly discovered
// device that advertises the data service, unless one is already
// running for its address.
func (c *Core) onDiscovered(result transport.ScanResult) {
	if !result.HasDataService {
		return
	}
	id := result.Address.MAC

	c.mu.Lock()
	if _, exists := c.sessions[id]; exists {
		c.mu.Unlock()
		return
	}
	sessCtx, cancel := context.WithCancel(c.runCtx)
	sess := peripheral.New(
		peripheral.WithAdapter(c.adapter),
		peripheral.WithPublisher(c.bus),
		peripheral.WithLogger(c.logger),
		peripheral.WithMaxInitialRTTMs(c.config.MaxInitialRTTMs),
	)
	c.sessions[id] = &session{sess: sess, cancel: cancel}
	c.mu.Unlock()

	go func() {
		sess.Run(sessCtx, result)
		c.mu.Lock()
		delete(c.sessions, id)
		c.mu.Unlock()
	}()
}

// startResyncTimer emits a SyncTime control event every
// Config.SyncInterval, driving a clock resync for every connected
// peripheral.
func (c *Core) startResyncTimer(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.config.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.bus.PushControl(bus.SyncTime{})
			}
		}
	}()
}

// SyncTime requests an immediate resync of every connected peripheral.
// It is a no-op under mock devices, which never run time sync.
func (c *Core) SyncTime() {
	if c.config.EnableMockDevices {
		return
	}
	c.bus.PushControl(bus.SyncTime{})
}

// Pause requests that scanning stop and every peripheral disconnect.
// It is a no-op under mock devices.
func (c *Core) Pause() {
	if c.config.EnableMockDevices {
		return
	}
	c.bus.PushControl(bus.Pause{})
}

// Resume requests that scanning restart. It is a no-op under mock devices.
func (c *Core) Resume() {
	if c.config.EnableMockDevices {
		return
	}
	c.bus.PushControl(bus.Resume{})
}

// HandleSyncTime implements bus.ControlHandler: it re-runs the time
// sync exchange against every currently tracked session.
func (c *Core) HandleSyncTime() {
	c.mu.Lock()
	sessions := make([]*session, 0, len(c.sessions))
	ids := make([]string, 0, len(c.sessions))
	for id, s := range c.sessions {
		sessions = append(sessions, s)
		ids = append(ids, id)
	}
	c.mu.Unlock()

	for i, s := range sessions {
		go s.sess.Resync(ids[i])
	}
}

// HandlePause implements bus.ControlHandler: stop the discovery task
// and cancel every tracked session's context, causing each to publish
// DeviceDisconnected and exit.
func (c *Core) HandlePause() {
	c.mu.Lock()
	if c.scanCancel != nil {
		c.scanCancel()
	}
	c.scanning = false
	sessions := make([]*session, 0, len(c.sessions))
	for _, s := range c.sessions {
		sessions = append(sessions, s)
	}
	c.mu.Unlock()

	for _, s := range sessions {
		s.cancel()
	}
}

// HandleResume implements bus.ControlHandler: restart the discovery task.
func (c *Core) HandleResume() {
	if c.runCtx == nil {
		return
	}
	c.startScanning(c.runCtx)
}
