package bus

import "github.com/vitalwear/vitalcore/store"

// Event is either a transport event produced by a peripheral session
// (or the mock producer) or a control event produced by the control
// surface and the periodic resync timer. The method is unexported so
// only types declared in this package satisfy it.
type Event interface {
	isEvent()
}

// Transport events.

// DeviceConnected announces a fully introspected, time-synced device
// ready to stream.
type DeviceConnected struct {
	Device store.Device
}

// DeviceDisconnected announces that id's stream ended or its transport
// connection dropped, including during setup (in which case no prior
// DeviceConnected was ever sent for id).
type DeviceDisconnected struct {
	ID string
}

// BatteryLevelChanged carries a new battery-level notification for id.
type BatteryLevelChanged struct {
	ID    string
	Level uint8
}

// DriftChanged carries the outcome of a time-sync exchange for id.
type DriftChanged struct {
	ID      string
	DriftUs int64
}

// DataReceived carries decoded samples for one or more channels from a
// single notification, keyed by channel id.
type DataReceived struct {
	Samples map[string][]int32
}

// Control events.

// SyncTime requests an immediate resync of every connected peripheral.
type SyncTime struct{}

// Pause requests that scanning stop and every peripheral disconnect.
type Pause struct{}

// Resume requests that scanning restart.
type Resume struct{}

func (DeviceConnected) isEvent()     {}
func (DeviceDisconnected) isEvent()  {}
func (BatteryLevelChanged) isEvent() {}
func (DriftChanged) isEvent()        {}
func (DataReceived) isEvent()        {}
func (SyncTime) isEvent()            {}
func (Pause) isEvent()               {}
func (Resume) isEvent()              {}
