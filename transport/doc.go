/*
Package transport defines the core's view of the wireless link to a
wearable peripheral: the GATT UUIDs it looks for, the wire codecs for
the time and data characteristics, and a narrow set of interfaces
(Adapter, Peripheral, Service, Characteristic) shaped after
tinygo.org/x/bluetooth so that a real adapter needs only a thin shim to
participate.

The transport itself -- scanning, connecting, and notification
delivery -- is an external collaborator; this package only specifies
the boundary the rest of the core programs against, plus an adapter
that fulfils it using tinygo.org/x/bluetooth for callers running on
real hardware.
*/
package transport
