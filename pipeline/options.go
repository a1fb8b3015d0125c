package pipeline

import (
	"github.com/cwbudde/algo-statfilter/filter/exponential"
	"github.com/cwbudde/algo-statfilter/filter/oscillation"
	"github.com/cwbudde/algo-statfilter/filter/outlier"
)

// Option configures a Pipeline. Parameter ranges are checked by the
// stage constructors when New assembles the pipeline.
type Option func(*config) error

type config struct {
	alpha       float64
	window      int
	outlierOpts []outlier.Option

	lo        float64
	hi        float64
	hasBounds bool
}

func defaultConfig() config {
	return config{
		alpha:  exponential.DefaultFactor,
		window: oscillation.DefaultWindow,
	}
}

// WithSmoothing sets the smoothing factor of the exponential stage.
func WithSmoothing(alpha float64) Option {
	return func(c *config) error {
		c.alpha = alpha

		return nil
	}
}

// WithSigma sets the sigma multiplier of the outlier gate.
func WithSigma(sigma float64) Option {
	return func(c *config) error {
		c.outlierOpts = append(c.outlierOpts, outlier.WithSigma(sigma))

		return nil
	}
}

// WithPolicy selects how the outlier gate treats flagged measurements.
func WithPolicy(policy outlier.Policy) Option {
	return func(c *config) error {
		c.outlierOpts = append(c.outlierOpts, outlier.WithPolicy(policy))

		return nil
	}
}

// WithMinSamples sets how many measurements the outlier gate accepts
// unconditionally before it starts gating.
func WithMinSamples(n int) Option {
	return func(c *config) error {
		c.outlierOpts = append(c.outlierOpts, outlier.WithMinSamples(n))

		return nil
	}
}

// WithWindow sets the window size of the oscillation damper.
func WithWindow(n int) Option {
	return func(c *config) error {
		c.window = n

		return nil
	}
}

// WithBounds enables the plausibility gate with the inclusive admissible
// range [lo, hi].
func WithBounds(lo, hi float64) Option {
	return func(c *config) error {
		c.lo = lo
		c.hi = hi
		c.hasBounds = true

		return nil
	}
}
