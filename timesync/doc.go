/*
Package timesync implements the per-device clock-alignment protocol: write
the host's current time to a device's time characteristic without
response, read it back, and derive a drift estimate from the
difference. A reading within the configured tolerance is accepted
immediately; otherwise the exchange is retried up to a bounded number
of times, and the last measurement is reported regardless of whether
any attempt was accepted.
*/
package timesync
