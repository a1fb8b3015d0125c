// Package kalman provides a one-dimensional Kalman filter for smoothing a
// scalar measurement stream. The model is a constant level disturbed by
// process noise q and observed through measurement noise r; each update
// runs one predict/correct cycle:
//
//	p = p + q
//	k = p / (p + r)
//	x = x + k*(z - x)
//	p = (1 - k) * p
//
// Small q relative to r trusts the model and smooths hard; large q tracks
// the measurements tightly. The first measurement seeds the estimate so
// the filter does not have to converge from an arbitrary starting point.
package kalman
