package outlier

import (
	"github.com/cwbudde/algo-statfilter/core"
	"github.com/cwbudde/algo-statfilter/stats/running"
)

// Metrics counts gate outcomes since construction or the last Reset.
type Metrics struct {
	Observed int64
	Accepted int64
	Rejected int64
	Capped   int64
}

// Filter gates measurements against mean ± sigma·stdev of the accepted
// history.
//
// A Filter owns its state exclusively and is not safe for concurrent use.
type Filter struct {
	sigma      float64
	policy     Policy
	minSamples int

	fallback    float64
	hasFallback bool

	stats *running.Stats
	raw   *running.Stats

	metrics Metrics
}

// New constructs a sigma gate with the default three-sigma interval and
// Reject policy.
func New(opts ...Option) (*Filter, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	f := &Filter{
		sigma:       cfg.sigma,
		policy:      cfg.policy,
		minSamples:  cfg.minSamples,
		fallback:    cfg.fallback,
		hasFallback: cfg.hasFallback,
		stats:       cfg.stats,
	}

	if f.stats == nil {
		f.stats = running.New()
	}

	if cfg.trackRaw {
		f.raw = running.New()
	}

	return f, nil
}

// Update gates one measurement. The flag reports whether the gate acted;
// the returned value is the measurement itself when accepted, the previous
// accepted value (or fallback) under Reject, or the violated bound under
// Cap. Gated readings never enter the accepted statistics.
func (f *Filter) Update(v float64) (float64, bool, error) {
	if err := core.ValidateInput(v); err != nil {
		return 0, false, err
	}

	f.metrics.Observed++

	if f.raw != nil {
		_ = f.raw.Update(v) // validated above
	}

	// Warm-up: statistics are not meaningful yet.
	if f.stats.Count() < f.minSamples {
		f.accept(v)
		return v, false, nil
	}

	lo, hi, err := f.bounds()
	if err != nil {
		// Gate nominally active but the accumulator cannot provide a
		// standard deviation yet (threshold of 1). Accept as warm-up.
		f.accept(v)
		return v, false, nil
	}

	if v < lo || v > hi {
		if f.policy == Cap {
			f.metrics.Capped++
			return core.Clamp(v, lo, hi), true, nil
		}

		f.metrics.Rejected++

		if f.hasFallback {
			return f.fallback, true, nil
		}

		prev, _ := f.stats.Last() // defined: gate active implies count >= 2
		return prev, true, nil
	}

	f.accept(v)

	return v, false, nil
}

// accept records an accepted measurement. v must already be validated.
func (f *Filter) accept(v float64) {
	_ = f.stats.Update(v)
	f.metrics.Accepted++
}

// Bounds returns the current gate interval. It fails with
// core.ErrInsufficientData until the accumulator can provide a standard
// deviation.
func (f *Filter) Bounds() (lo, hi float64, err error) {
	return f.bounds()
}

func (f *Filter) bounds() (lo, hi float64, err error) {
	mean, err := f.stats.Mean()
	if err != nil {
		return 0, 0, err
	}

	stdev, err := f.stats.Stdev()
	if err != nil {
		return 0, 0, err
	}

	span := f.sigma * stdev

	return mean - span, mean + span, nil
}

// Stats returns the accumulator of accepted measurements.
func (f *Filter) Stats() *running.Stats { return f.stats }

// RawStats returns the accumulator of all finite inputs, or nil unless
// WithRawStats was configured.
func (f *Filter) RawStats() *running.Stats { return f.raw }

// Sigma returns the configured gate width.
func (f *Filter) Sigma() float64 { return f.sigma }

// Policy returns the configured out-of-gate policy.
func (f *Filter) Policy() Policy { return f.policy }

// MinSamples returns the configured warm-up threshold.
func (f *Filter) MinSamples() int { return f.minSamples }

// Count returns the number of accepted measurements.
func (f *Filter) Count() int { return f.stats.Count() }

// Metrics returns the gate outcome counters.
func (f *Filter) Metrics() Metrics { return f.metrics }

// Reset clears the gate, its metrics, and both accumulators. A shared
// accumulator passed via WithStats is reset as well.
func (f *Filter) Reset() {
	f.stats.Reset()

	if f.raw != nil {
		f.raw.Reset()
	}

	f.metrics = Metrics{}
}
