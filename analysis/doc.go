/*
Package analysis implements the signal-processing pipeline shared by the
ECG and PPG analyzers: a Butterworth biquad cascade applied with zero
phase shift, a moving-window lower envelope estimator, and the two
analyzers themselves (R-peak detection for ECG, pulse segmentation for
PPG).

Every entry point operates on a caller-supplied window of float64
samples and a parameter bundle; none of it retains state across calls,
so the same parameter bundles are safe to reuse across channels and
goroutines.
*/
package analysis
