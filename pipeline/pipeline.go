package pipeline

import (
	"fmt"

	"github.com/cwbudde/algo-statfilter/core"
	"github.com/cwbudde/algo-statfilter/filter/bounds"
	"github.com/cwbudde/algo-statfilter/filter/exponential"
	"github.com/cwbudde/algo-statfilter/filter/oscillation"
	"github.com/cwbudde/algo-statfilter/filter/outlier"
	"github.com/cwbudde/algo-statfilter/stats/running"
)

// Result describes one processed measurement.
type Result struct {
	// Value is the pipeline output for this measurement. For a
	// bounds-rejected measurement it repeats the previous output.
	Value float64

	// Raw is the measurement as offered.
	Raw float64

	// OutOfBounds is set when the plausibility gate rejected the raw
	// value; no downstream stage saw the measurement.
	OutOfBounds bool

	// Outlier is set when the outlier gate rejected or capped the
	// measurement.
	Outlier bool

	// Oscillating is set when the oscillation damper substituted the
	// windowed mean.
	Oscillating bool

	// Stats is the accepted-value snapshot. It stays zero until two
	// measurements have been accepted.
	Stats running.Snapshot
}

// Pipeline runs measurements through the fixed stage order bounds gate,
// outlier gate, exponential smoother, oscillation damper. Pipeline is
// not safe for concurrent use.
type Pipeline struct {
	gate     *bounds.Filter
	outlier  *outlier.Filter
	smoother *exponential.Filter
	damper   *oscillation.Filter

	last    float64
	hasLast bool
	n       int
}

// New assembles a pipeline. Stage parameters are validated by the stage
// constructors; the first failure is returned.
func New(opts ...Option) (*Pipeline, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	gate, err := outlier.New(cfg.outlierOpts...)
	if err != nil {
		return nil, err
	}

	smoother, err := exponential.New(cfg.alpha)
	if err != nil {
		return nil, err
	}

	damper, err := oscillation.New(cfg.window)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		outlier:  gate,
		smoother: smoother,
		damper:   damper,
	}

	if cfg.hasBounds {
		p.gate, err = bounds.New(bounds.WithMin(cfg.lo), bounds.WithMax(cfg.hi))
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Process runs one measurement through the pipeline. A measurement
// rejected by the plausibility gate skips all downstream stages and the
// result repeats the previous output with OutOfBounds set; before any
// output exists such a measurement fails with ErrInsufficientData.
func (p *Pipeline) Process(v float64) (Result, error) {
	if err := core.ValidateInput(v); err != nil {
		return Result{}, err
	}

	p.n++

	if p.gate != nil {
		ok, err := p.gate.Accept(v)
		if err != nil {
			return Result{}, err
		}

		if !ok {
			if !p.hasLast {
				return Result{}, fmt.Errorf("%w: measurement %g rejected before any output exists",
					core.ErrInsufficientData, v)
			}

			return p.result(p.last, v, true, false, false), nil
		}
	}

	accepted, gated, err := p.outlier.Update(v)
	if err != nil {
		return Result{}, err
	}

	smoothed, err := p.smoother.Update(accepted)
	if err != nil {
		return Result{}, err
	}

	out, damped, err := p.damper.Update(smoothed)
	if err != nil {
		return Result{}, err
	}

	p.last = out
	p.hasLast = true

	return p.result(out, v, false, gated, damped), nil
}

// ProcessBlock processes vs in order. All measurements are validated
// before the first one is processed; a failure while processing stops
// the loop and returns the results produced so far together with the
// error.
func (p *Pipeline) ProcessBlock(vs []float64) ([]Result, error) {
	for _, v := range vs {
		if err := core.ValidateInput(v); err != nil {
			return nil, err
		}
	}

	results := make([]Result, 0, len(vs))

	for _, v := range vs {
		r, err := p.Process(v)
		if err != nil {
			return results, err
		}

		results = append(results, r)
	}

	return results, nil
}

// Current returns the most recent pipeline output.
func (p *Pipeline) Current() (float64, error) {
	if !p.hasLast {
		return 0, fmt.Errorf("%w: no output produced yet", core.ErrInsufficientData)
	}

	return p.last, nil
}

// Stats returns the snapshot over all accepted measurements.
func (p *Pipeline) Stats() (running.Snapshot, error) {
	return p.outlier.Stats().Snapshot()
}

// Count returns the number of measurements offered since the last reset,
// including rejected ones.
func (p *Pipeline) Count() int { return p.n }

// Accepted returns the number of measurements accepted into the
// statistics.
func (p *Pipeline) Accepted() int { return p.outlier.Count() }

// Bounds returns the plausibility gate, or nil when none is configured.
func (p *Pipeline) Bounds() *bounds.Filter { return p.gate }

// Outlier returns the outlier gate stage.
func (p *Pipeline) Outlier() *outlier.Filter { return p.outlier }

// Smoother returns the exponential smoothing stage.
func (p *Pipeline) Smoother() *exponential.Filter { return p.smoother }

// Damper returns the oscillation damping stage.
func (p *Pipeline) Damper() *oscillation.Filter { return p.damper }

// Reset returns every stage to its freshly constructed state.
func (p *Pipeline) Reset() {
	if p.gate != nil {
		p.gate.Reset()
	}

	p.outlier.Reset()
	p.smoother.Reset()
	p.damper.Reset()

	p.last = 0
	p.hasLast = false
	p.n = 0
}

func (p *Pipeline) result(value, raw float64, outOfBounds, gated, damped bool) Result {
	r := Result{
		Value:       value,
		Raw:         raw,
		OutOfBounds: outOfBounds,
		Outlier:     gated,
		Oscillating: damped,
	}

	if snap, err := p.outlier.Stats().Snapshot(); err == nil {
		r.Stats = snap
	}

	return r
}
