package exponential

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-statfilter/core"
)

// DefaultFactor weights new and old data equally and is a reasonable
// starting point when nothing is known about the stream.
const DefaultFactor = 0.5

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	initial    float64
	hasInitial bool
}

func defaultConfig() config {
	return config{}
}

// WithInitialValue seeds the smoothed state so that the first Update blends
// toward v instead of seeding from the first measurement. The seed does not
// count as an observation.
func WithInitialValue(v float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(v) {
			return fmt.Errorf("%w: initial value must be finite: %v", core.ErrInvalidConfig, v)
		}

		cfg.initial = v
		cfg.hasInitial = true

		return nil
	}
}

// Filter smooths a measurement stream with an exponentially-weighted moving
// average. Alongside the average it tracks the recursive exponentially-
// weighted variance with the same factor, for callers that need smoothed
// deviation bounds.
//
// A Filter owns its state exclusively and is not safe for concurrent use.
type Filter struct {
	factor float64

	initial    float64
	hasInitial bool

	smoothed float64
	variance float64
	seeded   bool
	n        int
}

// New constructs an exponential filter. factor is the smoothing weight and
// must be in (0, 1]; values outside that range fail with
// core.ErrInvalidConfig, never silently clamped.
func New(factor float64, opts ...Option) (*Filter, error) {
	if !core.IsFinite(factor) || factor <= 0 || factor > 1 {
		return nil, fmt.Errorf("%w: smoothing factor must be in (0, 1]: %g", core.ErrInvalidConfig, factor)
	}

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
		factor:     factor,
		initial:    cfg.initial,
		hasInitial: cfg.hasInitial,
	}
	f.Reset()

	return f, nil
}

// Update incorporates one measurement and returns the new smoothed value.
// Non-finite values fail with core.ErrInvalidInput and leave the filter
// untouched.
func (f *Filter) Update(v float64) (float64, error) {
	if err := core.ValidateInput(v); err != nil {
		return 0, err
	}

	f.apply(v)

	return f.smoothed, nil
}

// ProcessInPlace smooths buf element-wise, writing each output over its
// input. The whole buffer is validated up front, so a non-finite entry
// fails the call with the filter state unchanged.
func (f *Filter) ProcessInPlace(buf []float64) error {
	for i, v := range buf {
		if !core.IsFinite(v) {
			return fmt.Errorf("%w: non-finite measurement %v at index %d", core.ErrInvalidInput, v, i)
		}
	}

	for i, v := range buf {
		f.apply(v)
		buf[i] = f.smoothed
	}

	return nil
}

// apply advances the filter state. v must already be validated.
func (f *Filter) apply(v float64) {
	f.n++

	if !f.seeded {
		f.smoothed = v
		f.variance = 0
		f.seeded = true

		return
	}

	delta := v - f.smoothed
	f.smoothed += f.factor * delta
	f.variance = (1 - f.factor) * (f.variance + f.factor*delta*delta)
}

// Current returns the last smoothed value.
func (f *Filter) Current() (float64, error) {
	if f.n == 0 {
		return 0, fmt.Errorf("%w: no measurement processed yet", core.ErrInsufficientData)
	}

	return f.smoothed, nil
}

// Variance returns the exponentially-weighted variance estimate, clamped
// against negative round-off.
func (f *Filter) Variance() (float64, error) {
	if f.n < 2 {
		return 0, fmt.Errorf("%w: exponentially-weighted variance requires at least 2 measurements, have %d", core.ErrInsufficientData, f.n)
	}

	return math.Max(f.variance, 0), nil
}

// Stdev returns the exponentially-weighted standard deviation.
func (f *Filter) Stdev() (float64, error) {
	v, err := f.Variance()
	if err != nil {
		return 0, err
	}

	return math.Sqrt(v), nil
}

// Factor returns the configured smoothing factor.
func (f *Filter) Factor() float64 { return f.factor }

// Count returns the number of accepted measurements.
func (f *Filter) Count() int { return f.n }

// Reset returns the filter to its freshly constructed state. A configured
// initial value is re-applied.
func (f *Filter) Reset() {
	f.smoothed = f.initial
	f.variance = 0
	f.seeded = f.hasInitial
	f.n = 0
}
