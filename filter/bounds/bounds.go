package bounds

import (
	"fmt"

	"github.com/cwbudde/algo-statfilter/core"
)

// Option configures a Filter.
type Option func(*config) error

type config struct {
	min    float64
	max    float64
	hasMin bool
	hasMax bool
}

// WithMin sets the inclusive lower limit.
func WithMin(lo float64) Option {
	return func(c *config) error {
		if !core.IsFinite(lo) {
			return fmt.Errorf("%w: lower limit must be finite: %g", core.ErrInvalidConfig, lo)
		}

		c.min = lo
		c.hasMin = true

		return nil
	}
}

// WithMax sets the inclusive upper limit.
func WithMax(hi float64) Option {
	return func(c *config) error {
		if !core.IsFinite(hi) {
			return fmt.Errorf("%w: upper limit must be finite: %g", core.ErrInvalidConfig, hi)
		}

		c.max = hi
		c.hasMax = true

		return nil
	}
}

// Metrics counts how the filter has treated its input so far.
type Metrics struct {
	Observed int64
	Accepted int64
	Rejected int64
}

// Filter gates measurements against a fixed admissible range. Filter is
// not safe for concurrent use.
type Filter struct {
	min    float64
	max    float64
	hasMin bool
	hasMax bool

	metrics Metrics
}

// New creates a bounds filter. Without options every finite measurement
// is admissible. If both limits are given the lower one must not exceed
// the upper one; equal limits admit exactly one value.
func New(opts ...Option) (*Filter, error) {
	cfg := config{}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.hasMin && cfg.hasMax && cfg.min > cfg.max {
		return nil, fmt.Errorf("%w: lower limit %g exceeds upper limit %g",
			core.ErrInvalidConfig, cfg.min, cfg.max)
	}

	return &Filter{
		min:    cfg.min,
		max:    cfg.max,
		hasMin: cfg.hasMin,
		hasMax: cfg.hasMax,
	}, nil
}

// Accept reports whether the measurement lies within the admissible
// range. Non-finite measurements fail with an error and count neither as
// accepted nor rejected.
func (f *Filter) Accept(v float64) (bool, error) {
	if err := core.ValidateInput(v); err != nil {
		return false, err
	}

	f.metrics.Observed++

	if (f.hasMin && v < f.min) || (f.hasMax && v > f.max) {
		f.metrics.Rejected++

		return false, nil
	}

	f.metrics.Accepted++

	return true, nil
}

// Min returns the lower limit and whether one is configured.
func (f *Filter) Min() (float64, bool) { return f.min, f.hasMin }

// Max returns the upper limit and whether one is configured.
func (f *Filter) Max() (float64, bool) { return f.max, f.hasMax }

// Metrics returns the counters accumulated since the last reset.
func (f *Filter) Metrics() Metrics { return f.metrics }

// Reset clears the counters. The configured limits are kept.
func (f *Filter) Reset() {
	f.metrics = Metrics{}
}
