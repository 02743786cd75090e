package transport

import (
	"context"

	"tinygo.org/x/bluetooth"
)

// Address identifies a peripheral at the transport layer. MAC carries a
// human-readable address string used for device/channel id derivation
// even when BT (the tinygo.org/x/bluetooth address) is not populated,
// as in mock or test adapters.
type Address struct {
	BT  bluetooth.Address
	MAC string
}

// ScanResult is one discovery event from Adapter.Scan.
type ScanResult struct {
	Address        Address
	LocalName      string
	HasDataService bool
}

// Adapter is the core's view of a BLE central. A real implementation
// wraps tinygo.org/x/bluetooth (see NewBLEAdapter); tests substitute an
// in-memory fake. The mock producer does not use an Adapter at all.
type Adapter interface {
	Enable() error
	Scan(ctx context.Context, callback func(ScanResult)) error
	StopScan() error
	Connect(ctx context.Context, addr Address) (Peripheral, error)
}

// Peripheral is a connected device.
type Peripheral interface {
	Disconnect() error
	DiscoverServices(uuids []bluetooth.UUID) ([]Service, error)
}

// Service is one GATT service on a Peripheral.
type Service interface {
	UUID() bluetooth.UUID
	DiscoverCharacteristics(uuids []bluetooth.UUID) ([]Characteristic, error)
}

// Characteristic is one GATT characteristic on a Service.
type Characteristic interface {
	UUID() bluetooth.UUID
	Read(buf []byte) (int, error)
	WriteWithoutResponse(data []byte) (int, error)
	EnableNotifications(callback func(buf []byte)) error
}
