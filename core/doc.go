/*
Package core assembles the ring buffers, stores, event bus, and
peripheral sessions into the single control surface a host application
drives: New, Start, SyncTime, Pause, Resume. It owns the discovery
scan loop, one peripheral.Session per connected device, the periodic
resync timer, and -- when Config.EnableMockDevices is set -- the
mockdevice.Producer in place of all of the above.

Core never talks to a device directly; every component it owns speaks
to the bus exclusively through bus.Event values, so the bus remains
the sole writer of the device and sample stores (see package bus).
*/
package core
