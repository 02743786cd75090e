/*
Package mockdevice implements the core's enable_mock_devices mode: a
synthetic producer that stands in for the transport and every
peripheral session, emitting two fixed devices (three PPG channels and
one ECG channel each) at a steady cadence.

A Producer pushes the same bus.Event types a real peripheral.Session
would -- DeviceConnected once at startup, DataReceived on every tick,
DeviceDisconnected when its context is cancelled -- so it participates
in the ordinary event-bus pipeline rather than calling an observer
directly. It never runs time sync: mock devices report a fixed zero
drift.
*/
package mockdevice
