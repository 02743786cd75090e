package transport

import (
	"context"

	"tinygo.org/x/bluetooth"
)

// NewBLEAdapter enables the host's default Bluetooth adapter and
// returns it wrapped in the Adapter interface.
func NewBLEAdapter() (Adapter, error) {
	a := bluetooth.DefaultAdapter
	if err := a.Enable(); err != nil {
		return nil, err
	}
	return &bleAdapter{inner: a}, nil
}

type bleAdapter struct {
	inner *bluetooth.Adapter
}

func (a *bleAdapter) Enable() error {
	return a.inner.Enable()
}

func (a *bleAdapter) Scan(ctx context.Context, callback func(ScanResult)) error {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			a.inner.StopScan()
		case <-done:
		}
	}()
	defer close(done)

	return a.inner.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
		callback(ScanResult{
			Address:        Address{BT: result.Address, MAC: result.Address.String()},
			LocalName:      result.LocalName(),
			HasDataService: result.HasServiceUUID(DataServiceUUID),
		})
	})
}

func (a *bleAdapter) StopScan() error {
	return a.inner.StopScan()
}

func (a *bleAdapter) Connect(ctx context.Context, addr Address) (Peripheral, error) {
	dev, err := a.inner.Connect(addr.BT, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, err
	}
	return &blePeripheral{inner: dev}, nil
}

type blePeripheral struct {
	inner bluetooth.Device
}

func (p *blePeripheral) Disconnect() error {
	return p.inner.Disconnect()
}

func (p *blePeripheral) DiscoverServices(uuids []bluetooth.UUID) ([]Service, error) {
	svcs, err := p.inner.DiscoverServices(uuids)
	if err != nil {
		return nil, err
	}
	out := make([]Service, len(svcs))
	for i, s := range svcs {
		out[i] = &bleService{inner: s}
	}
	return out, nil
}

type bleService struct {
	inner bluetooth.DeviceService
}

func (s *bleService) UUID() bluetooth.UUID {
	return s.inner.UUID()
}

func (s *bleService) DiscoverCharacteristics(uuids []bluetooth.UUID) ([]Characteristic, error) {
	chars, err := s.inner.DiscoverCharacteristics(uuids)
	if err != nil {
		return nil, err
	}
	out := make([]Characteristic, len(chars))
	for i, c := range chars {
		out[i] = &bleCharacteristic{inner: c}
	}
	return out, nil
}

type bleCharacteristic struct {
	inner bluetooth.DeviceCharacteristic
}

func (c *bleCharacteristic) UUID() bluetooth.UUID {
	return c.inner.UUID()
}

func (c *bleCharacteristic) Read(buf []byte) (int, error) {
	return c.inner.Read(buf)
}

func (c *bleCharacteristic) WriteWithoutResponse(data []byte) (int, error) {
	return c.inner.WriteWithoutResponse(data)
}

func (c *bleCharacteristic) EnableNotifications(callback func(buf []byte)) error {
	return c.inner.EnableNotifications(func(buf []byte) {
		callback(buf)
	})
}
