// Package exponential provides exponentially-weighted moving-average
// smoothing of a measurement stream, with an optional variance estimate
// maintained by the same decay.
//
// The smoothing recurrence is
//
//	smoothed = factor*value + (1-factor)*smoothed_prev
//
// with the factor fixed at construction. A factor close to 1 tracks the
// input tightly, a small factor smooths aggressively, and exactly 1 passes
// values through unchanged. The first measurement seeds the average
// directly so the filter starts on the stream rather than at zero.
package exponential
