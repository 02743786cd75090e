package transport

import "tinygo.org/x/bluetooth"

// RequiredServiceUUIDs lists every GATT service the core looks for on a
// newly connected peripheral during introspection.
func RequiredServiceUUIDs() []bluetooth.UUID {
	return []bluetooth.UUID{
		DeviceInfoServiceUUID,
		BatteryServiceUUID,
		TimeServiceUUID,
		DataServiceUUID,
	}
}

// UUIDs collects its arguments into a []bluetooth.UUID, so callers
// outside this package can build a characteristic filter list without
// importing tinygo.org/x/bluetooth themselves.
func UUIDs(ids ...bluetooth.UUID) []bluetooth.UUID {
	return ids
}

// FindService returns the first of svcs whose UUID matches want.
func FindService(svcs []Service, want bluetooth.UUID) (Service, bool) {
	for _, s := range svcs {
		if s.UUID() == want {
			return s, true
		}
	}
	return nil, false
}

// FindCharacteristic returns the first of chars whose UUID matches want.
func FindCharacteristic(chars []Characteristic, want bluetooth.UUID) (Characteristic, bool) {
	for _, c := range chars {
		if c.UUID() == want {
			return c, true
		}
	}
	return nil, false
}
