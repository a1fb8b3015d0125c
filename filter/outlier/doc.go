// Package outlier provides a sigma gate for measurement streams: readings
// outside mean ± k·stdev of the accepted history are rejected or capped
// before they can reach a downstream smoother or contaminate statistics.
//
// The gate derives its interval from a running accumulator of accepted
// values, owned by the filter or shared by reference. During warm-up, while
// fewer measurements have been accepted than the configured threshold, every
// reading passes unconditionally and the gate only collects statistics.
package outlier
