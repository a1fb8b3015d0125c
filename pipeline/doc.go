// Package pipeline chains the filter stages of this module into a single
// per-measurement processing step.
//
// Each measurement passes, in order, an optional plausibility gate on the
// raw value range, the statistical outlier gate, the exponential
// smoother and the oscillation damper. The running statistics accumulate
// over accepted values only, so a rejected spike influences neither the
// outlier band nor the reported mean. One call processes exactly one
// measurement; the only state carried between calls is the bounded state
// of the individual stages.
//
// # Usage
//
// Assemble a pipeline, feed readings one by one, and inspect the result
// per reading or the statistics at any point:
//
//	p, _ := pipeline.New(
//	    pipeline.WithBounds(-40, 85),
//	    pipeline.WithSmoothing(0.3),
//	)
//	for _, v := range readings {
//	    r, err := p.Process(v)
//	    if err != nil {
//	        // non-finite reading, or bounds-rejected before any output
//	        continue
//	    }
//	    use(r.Value, r.Outlier)
//	}
//	snap, _ := p.Stats()
package pipeline
