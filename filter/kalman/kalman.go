package kalman

import (
	"fmt"

	"github.com/cwbudde/algo-statfilter/core"
)

// Default noise parameters. They favor smoothing: the model is trusted a
// thousand times more than an individual measurement.
const (
	DefaultProcessNoise     = 1e-3
	DefaultMeasurementNoise = 1.0
	DefaultCovariance       = 1.0
)

// Option configures a Filter.
type Option func(*config) error

type config struct {
	q          float64
	r          float64
	p          float64
	initial    float64
	hasInitial bool
}

func defaultConfig() config {
	return config{
		q: DefaultProcessNoise,
		r: DefaultMeasurementNoise,
		p: DefaultCovariance,
	}
}

// WithProcessNoise sets the process noise covariance q. Larger values let
// the estimate follow the measurements more quickly. Zero is allowed and
// models a truly constant level.
func WithProcessNoise(q float64) Option {
	return func(c *config) error {
		if !core.IsFinite(q) || q < 0 {
			return fmt.Errorf("%w: process noise must be >= 0: %g", core.ErrInvalidConfig, q)
		}

		c.q = q

		return nil
	}
}

// WithMeasurementNoise sets the measurement noise covariance r.
func WithMeasurementNoise(r float64) Option {
	return func(c *config) error {
		if !core.IsFinite(r) || r <= 0 {
			return fmt.Errorf("%w: measurement noise must be > 0: %g", core.ErrInvalidConfig, r)
		}

		c.r = r

		return nil
	}
}

// WithInitialCovariance sets the starting estimation error covariance p.
func WithInitialCovariance(p float64) Option {
	return func(c *config) error {
		if !core.IsFinite(p) || p <= 0 {
			return fmt.Errorf("%w: initial covariance must be > 0: %g", core.ErrInvalidConfig, p)
		}

		c.p = p

		return nil
	}
}

// WithInitialEstimate sets the starting estimate. When given, the first
// measurement is filtered against it instead of seeding the state.
func WithInitialEstimate(x float64) Option {
	return func(c *config) error {
		if !core.IsFinite(x) {
			return fmt.Errorf("%w: initial estimate must be finite: %g", core.ErrInvalidConfig, x)
		}

		c.initial = x
		c.hasInitial = true

		return nil
	}
}

// Filter is a scalar Kalman filter. The zero value is not usable; create
// instances with New. Filter is not safe for concurrent use.
type Filter struct {
	q          float64
	r          float64
	p0         float64
	initial    float64
	hasInitial bool

	x      float64
	p      float64
	gain   float64
	seeded bool
	n      int
}

// New creates a Kalman filter with the given options.
func New(opts ...Option) (*Filter, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	f := &Filter{
		q:          cfg.q,
		r:          cfg.r,
		p0:         cfg.p,
		initial:    cfg.initial,
		hasInitial: cfg.hasInitial,
	}
	f.Reset()

	return f, nil
}

// Update feeds one measurement through a predict/correct cycle and
// returns the new estimate. The very first measurement seeds the estimate
// directly unless WithInitialEstimate was given.
func (f *Filter) Update(z float64) (float64, error) {
	if err := core.ValidateInput(z); err != nil {
		return 0, err
	}

	f.n++

	if !f.seeded {
		f.x = z
		f.seeded = true

		return f.x, nil
	}

	f.p += f.q

	f.gain = f.p / (f.p + f.r)
	f.x += f.gain * (z - f.x)
	f.p = (1 - f.gain) * f.p

	return f.x, nil
}

// ProcessInPlace filters buf in order, replacing each measurement with the
// estimate after observing it. If any element is non-finite the filter
// state and buf are left unchanged.
func (f *Filter) ProcessInPlace(buf []float64) error {
	for _, z := range buf {
		if err := core.ValidateInput(z); err != nil {
			return err
		}
	}

	for i, z := range buf {
		out, _ := f.Update(z)
		buf[i] = out
	}

	return nil
}

// Current returns the present estimate. It fails until at least one
// measurement has been observed.
func (f *Filter) Current() (float64, error) {
	if f.n == 0 {
		return 0, fmt.Errorf("%w: no measurements observed", core.ErrInsufficientData)
	}

	return f.x, nil
}

// Gain returns the Kalman gain of the most recent correction. It is zero
// until the first correction has run.
func (f *Filter) Gain() float64 { return f.gain }

// Covariance returns the current estimation error covariance.
func (f *Filter) Covariance() float64 { return f.p }

// ProcessNoise returns the configured process noise covariance q.
func (f *Filter) ProcessNoise() float64 { return f.q }

// MeasurementNoise returns the configured measurement noise covariance r.
func (f *Filter) MeasurementNoise() float64 { return f.r }

// Count returns the number of measurements observed since the last reset.
func (f *Filter) Count() int { return f.n }

// Reset restores the filter to its freshly constructed state, including
// any initial estimate supplied at construction.
func (f *Filter) Reset() {
	f.x = f.initial
	f.p = f.p0
	f.gain = 0
	f.seeded = f.hasInitial
	f.n = 0
}
