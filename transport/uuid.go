package transport

import "tinygo.org/x/bluetooth"

func mustParseUUID(s string) bluetooth.UUID {
	u, err := bluetooth.ParseUUID(s)
	if err != nil {
		panic("transport: invalid UUID literal " + s + ": " + err.Error())
	}
	return u
}

// GATT services and characteristics the core looks for on a connected
// peripheral. UUIDs are typed as bluetooth.UUID so a real adapter can
// pass them straight to DiscoverServices/DiscoverCharacteristics.
var (
	DeviceInfoServiceUUID = mustParseUUID("0000180a-0000-1000-8000-00805f9b34fb")
	SerialCharUUID        = mustParseUUID("00002a25-0000-1000-8000-00805f9b34fb")
	ModelCharUUID         = mustParseUUID("00002a24-0000-1000-8000-00805f9b34fb")

	BatteryServiceUUID = mustParseUUID("0000180f-0000-1000-8000-00805f9b34fb")
	BatteryLevelUUID   = mustParseUUID("00002a19-0000-1000-8000-00805f9b34fb")

	TimeServiceUUID = mustParseUUID("00001806-0000-1000-8000-00805f9b34fb")
	CurrentTimeUUID = mustParseUUID("00002a2d-0000-1000-8000-00805f9b34fb")

	DataServiceUUID = mustParseUUID("dcf31a27-a904-f3a3-aa4e-5ae42f1217b6")
	DataCharUUID    = mustParseUUID("dcf31a27-a904-f4a3-a24e-5ae42f8617b6")
)
