/*
vitalmonitor is a command-line front end for package core. It parses
flags and an optional YAML config file overlay, constructs a core.Core
wired to a text-printing observer, and runs until interrupted.

	Usage: vitalmonitor [FLAGS]

	Flags:
	-c, --config string       path to a YAML config file overlay
	    --mock                 run the synthetic two-device producer instead of scanning for real devices
	    --hist-api int         observer window length, in samples (default 60)
	    --hist-analytics int   analysis window length, in samples (default 300)
	    --max-rtt-ms int       time-sync acceptance tolerance, in milliseconds (default 500)
	    --sync-interval duration   periodic resync cadence (default 5m)
	    --analysis-interval int    samples per channel between analyses (default 100)
*/
package main
