// Package running provides single-pass running statistics over a stream of
// scalar measurements: count, mean, sample variance, standard deviation,
// minimum and maximum. Welford's online algorithm keeps the state O(1) and
// numerically stable regardless of stream length, so no history is retained
// and no two-pass recomputation ever happens.
//
// Accessors follow a strict data contract: mean, min, max and last require
// at least one accepted measurement, variance and standard deviation at
// least two. Queries made earlier fail with core.ErrInsufficientData.
package running
