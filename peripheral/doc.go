/*
Package peripheral runs one connected device through its lifecycle:
connect, introspect (serial/model/battery, subscribe to notifications,
infer channel layout from the first frame), sync time, then stream
until disconnect. Each Session runs on its own goroutine and talks to
the rest of the core only by pushing bus.Event values; it never touches
the device or sample stores directly.

The functional-options constructor mirrors the pattern used throughout
this module for per-component configuration: Session behavior is
assembled from a handful of With* options rather than a large
parameter list or a mutable builder.
*/
package peripheral
