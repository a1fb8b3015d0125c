package outlier

import (
	"fmt"

	"github.com/cwbudde/algo-statfilter/core"
	"github.com/cwbudde/algo-statfilter/stats/running"
)

const (
	// DefaultSigma is the gate width in standard deviations.
	DefaultSigma = 3.0

	// DefaultMinSamples is the number of accepted measurements required
	// before the gate activates.
	DefaultMinSamples = 2
)

// Policy selects what happens to a reading outside the gate.
type Policy int

const (
	// Reject drops the reading; the previous accepted value (or the
	// configured fallback) is returned in its place.
	Reject Policy = iota
	// Cap clamps the reading to the violated gate bound.
	Cap
)

func (p Policy) String() string {
	switch p {
	case Reject:
		return "reject"
	case Cap:
		return "cap"
	default:
		return "unknown"
	}
}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	sigma       float64
	policy      Policy
	minSamples  int
	stats       *running.Stats
	fallback    float64
	hasFallback bool
	trackRaw    bool
}

func defaultConfig() config {
	return config{
		sigma:      DefaultSigma,
		policy:     Reject,
		minSamples: DefaultMinSamples,
	}
}

// WithSigma sets the gate width in standard deviations. Must be finite
// and > 0.
func WithSigma(k float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(k) || k <= 0 {
			return fmt.Errorf("%w: sigma multiplier must be finite and > 0: %g", core.ErrInvalidConfig, k)
		}

		cfg.sigma = k

		return nil
	}
}

// WithPolicy selects the out-of-gate policy.
func WithPolicy(p Policy) Option {
	return func(cfg *config) error {
		if p != Reject && p != Cap {
			return fmt.Errorf("%w: unknown policy: %d", core.ErrInvalidConfig, p)
		}

		cfg.policy = p

		return nil
	}
}

// WithMinSamples sets how many measurements must be accepted before the
// gate activates. Must be >= 1.
func WithMinSamples(n int) Option {
	return func(cfg *config) error {
		if n < 1 {
			return fmt.Errorf("%w: minimum sample threshold must be >= 1: %d", core.ErrInvalidConfig, n)
		}

		cfg.minSamples = n

		return nil
	}
}

// WithStats shares an external accumulator instead of an owned one. The
// gate feeds accepted measurements into it and derives its interval from
// it; Reset resets it together with the gate.
func WithStats(s *running.Stats) Option {
	return func(cfg *config) error {
		if s == nil {
			return fmt.Errorf("%w: shared statistics accumulator must not be nil", core.ErrInvalidConfig)
		}

		cfg.stats = s

		return nil
	}
}

// WithFallback substitutes v for rejected readings instead of the previous
// accepted value.
func WithFallback(v float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(v) {
			return fmt.Errorf("%w: fallback value must be finite: %v", core.ErrInvalidConfig, v)
		}

		cfg.fallback = v
		cfg.hasFallback = true

		return nil
	}
}

// WithRawStats additionally records every finite input, gated or not, in a
// second accumulator exposed through RawStats.
func WithRawStats() Option {
	return func(cfg *config) error {
		cfg.trackRaw = true
		return nil
	}
}
