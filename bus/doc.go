/*
Package bus defines the event types that flow from peripheral sessions
and the control surface into the core, and implements the single
consumer that serialises them into store mutations and analyzer
invocations.

Exactly one goroutine (the Bus returned by New, once Run is started)
ever writes to the device and sample stores; every other goroutine in
the core only sends events onto the bus.
*/
package bus
