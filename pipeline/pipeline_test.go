package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-statfilter/core"
	"github.com/cwbudde/algo-statfilter/filter/exponential"
	"github.com/cwbudde/algo-statfilter/filter/oscillation"
	"github.com/cwbudde/algo-statfilter/filter/outlier"
	"github.com/cwbudde/algo-statfilter/internal/testutil"
	"github.com/cwbudde/algo-statfilter/stats/running"
)

const tolerance = 1e-9

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNewDefaults(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if p.Smoother().Factor() != exponential.DefaultFactor {
		t.Errorf("Smoother().Factor() = %g, want %g", p.Smoother().Factor(), exponential.DefaultFactor)
	}

	if p.Damper().Window() != oscillation.DefaultWindow {
		t.Errorf("Damper().Window() = %d, want %d", p.Damper().Window(), oscillation.DefaultWindow)
	}

	if p.Outlier().Sigma() != outlier.DefaultSigma {
		t.Errorf("Outlier().Sigma() = %g, want %g", p.Outlier().Sigma(), outlier.DefaultSigma)
	}

	if p.Bounds() != nil {
		t.Error("Bounds() != nil without WithBounds")
	}

	if p.Count() != 0 || p.Accepted() != 0 {
		t.Errorf("Count() = %d, Accepted() = %d, want 0, 0", p.Count(), p.Accepted())
	}
}

func TestOptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"zero smoothing", []Option{WithSmoothing(0)}},
		{"excessive smoothing", []Option{WithSmoothing(1.5)}},
		{"negative sigma", []Option{WithSigma(-1)}},
		{"zero min samples", []Option{WithMinSamples(0)}},
		{"unknown policy", []Option{WithPolicy(outlier.Policy(9))}},
		{"window too small", []Option{WithWindow(1)}},
		{"inverted bounds", []Option{WithBounds(10, 5)}},
		{"nan bound", []Option{WithBounds(math.NaN(), 5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts...); !errors.Is(err, core.ErrInvalidConfig) {
				t.Errorf("New() error = %v, want core.ErrInvalidConfig", err)
			}
		})
	}
}

func TestRejectsSpikeEndToEnd(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	readings := []float64{5.0, 5.2, 4.9, 50.0, 5.1, 5.0}

	results := make([]Result, 0, len(readings))

	for _, v := range readings {
		r, err := p.Process(v)
		if err != nil {
			t.Fatalf("Process(%g) error = %v", v, err)
		}

		results = append(results, r)
	}

	for i, r := range results {
		wantOutlier := i == 3
		if r.Outlier != wantOutlier {
			t.Errorf("results[%d].Outlier = %v, want %v", i, r.Outlier, wantOutlier)
		}

		if r.Oscillating {
			t.Errorf("results[%d].Oscillating = true, want false", i)
		}

		if r.Raw != readings[i] {
			t.Errorf("results[%d].Raw = %g, want %g", i, r.Raw, readings[i])
		}
	}

	// The rejected spike is replaced by the last accepted value 4.9, so
	// the smoother sees [5.0, 5.2, 4.9, 4.9, 5.1, 5.0].
	wantValues := []float64{5.0, 5.1, 5.0, 4.95, 5.025, 5.0125}
	for i, r := range results {
		if !almostEqual(r.Value, wantValues[i], tolerance) {
			t.Errorf("results[%d].Value = %g, want %g", i, r.Value, wantValues[i])
		}
	}

	if p.Count() != 6 {
		t.Errorf("Count() = %d, want 6", p.Count())
	}

	if p.Accepted() != 5 {
		t.Errorf("Accepted() = %d, want the spike excluded from 5", p.Accepted())
	}

	snap, err := p.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if snap.Count != 5 {
		t.Errorf("Stats().Count = %d, want 5", snap.Count)
	}

	if !almostEqual(snap.Mean, 5.04, tolerance) {
		t.Errorf("Stats().Mean = %g, want 5.04", snap.Mean)
	}

	if !almostEqual(snap.Variance, 0.013, tolerance) {
		t.Errorf("Stats().Variance = %g, want 0.013", snap.Variance)
	}

	out, err := p.Current()
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}

	if math.Abs(out-5.0) > 0.1 {
		t.Errorf("Current() = %g, want near 5.0", out)
	}
}

func TestSnapshotAttachesAfterTwoAccepted(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	first, err := p.Process(5)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if first.Stats.Count != 0 {
		t.Errorf("results[0].Stats.Count = %d, want the zero snapshot", first.Stats.Count)
	}

	second, err := p.Process(7)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if second.Stats.Count != 2 {
		t.Errorf("results[1].Stats.Count = %d, want 2", second.Stats.Count)
	}

	if !almostEqual(second.Stats.Mean, 6, tolerance) {
		t.Errorf("results[1].Stats.Mean = %g, want 6", second.Stats.Mean)
	}
}

func TestBoundsGate(t *testing.T) {
	p, err := New(WithBounds(0, 10))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := p.Process(50); !errors.Is(err, core.ErrInsufficientData) {
		t.Fatalf("Process(50) before any output error = %v, want core.ErrInsufficientData", err)
	}

	r, err := p.Process(5)
	if err != nil {
		t.Fatalf("Process(5) error = %v", err)
	}

	if r.OutOfBounds || r.Value != 5 {
		t.Errorf("Process(5) = %+v, want accepted value 5", r)
	}

	r, err = p.Process(50)
	if err != nil {
		t.Fatalf("Process(50) error = %v", err)
	}

	if !r.OutOfBounds {
		t.Error("Process(50).OutOfBounds = false, want true")
	}

	if r.Value != 5 {
		t.Errorf("Process(50).Value = %g, want the previous output 5", r.Value)
	}

	if r.Raw != 50 {
		t.Errorf("Process(50).Raw = %g, want 50", r.Raw)
	}

	// The downstream stages never saw the implausible readings.
	if got := p.Outlier().Metrics().Observed; got != 1 {
		t.Errorf("Outlier().Metrics().Observed = %d, want 1", got)
	}

	if p.Count() != 3 {
		t.Errorf("Count() = %d, want all offered readings counted", p.Count())
	}

	if p.Accepted() != 1 {
		t.Errorf("Accepted() = %d, want 1", p.Accepted())
	}

	m := p.Bounds().Metrics()
	if m.Observed != 3 || m.Rejected != 2 {
		t.Errorf("Bounds().Metrics() = %+v, want observed 3, rejected 2", m)
	}
}

func TestCapPolicy(t *testing.T) {
	p, err := New(WithPolicy(outlier.Cap))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var last Result

	for _, v := range []float64{5.0, 5.2, 4.9, 50.0} {
		last, err = p.Process(v)
		if err != nil {
			t.Fatalf("Process(%g) error = %v", v, err)
		}
	}

	if !last.Outlier {
		t.Error("capped reading not flagged as outlier")
	}

	// The spike is capped to the upper band edge near 5.49 and then
	// smoothed, so the output stays close to the plateau.
	if last.Value < 5.0 || last.Value > 5.5 {
		t.Errorf("Process(50).Value = %g, want within (5.0, 5.5)", last.Value)
	}

	m := p.Outlier().Metrics()
	if m.Capped != 1 || m.Accepted != 3 {
		t.Errorf("Outlier().Metrics() = %+v, want capped 1, accepted 3", m)
	}
}

func TestDampsOscillation(t *testing.T) {
	p, err := New(WithSmoothing(1), WithWindow(3))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	readings := []float64{10, -10, 10, -10, 10}

	results := make([]Result, 0, len(readings))

	for _, v := range readings {
		r, err := p.Process(v)
		if err != nil {
			t.Fatalf("Process(%g) error = %v", v, err)
		}

		results = append(results, r)
	}

	for i, r := range results[:2] {
		if r.Oscillating {
			t.Errorf("results[%d].Oscillating = true before the window fills", i)
		}
	}

	want := []float64{10.0 / 3, -10.0 / 3, 10.0 / 3}

	for i, r := range results[2:] {
		if !r.Oscillating {
			t.Errorf("results[%d].Oscillating = false, want the alternation damped", i+2)
		}

		if !almostEqual(r.Value, want[i], tolerance) {
			t.Errorf("results[%d].Value = %g, want %g", i+2, r.Value, want[i])
		}
	}
}

func TestLongNoisyStream(t *testing.T) {
	stream := testutil.NoisyLevel(7, 5.0, 0.5, 2000)

	p, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	outputs := make([]float64, 0, len(stream))

	for _, v := range stream {
		r, err := p.Process(v)
		if err != nil {
			t.Fatalf("Process(%g) error = %v", v, err)
		}

		outputs = append(outputs, r.Value)
	}

	testutil.RequireFinite(t, outputs)

	snap, err := p.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	testutil.RequireNearlyEqual(t, snap.Mean, 5.0, 0.5)

	raw, err := running.Compute(stream)
	if err != nil {
		t.Fatalf("Compute(stream) error = %v", err)
	}

	smoothed, err := running.Compute(outputs)
	if err != nil {
		t.Fatalf("Compute(outputs) error = %v", err)
	}

	if smoothed.Variance >= raw.Variance {
		t.Errorf("output variance %g not below raw variance %g", smoothed.Variance, raw.Variance)
	}
}

func TestQueriesBeforeFirstReading(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := p.Current(); !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("Current() error = %v, want core.ErrInsufficientData", err)
	}

	if _, err := p.Stats(); !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("Stats() error = %v, want core.ErrInsufficientData", err)
	}
}

func TestRejectsNonFinite(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := p.Process(5); err != nil {
		t.Fatalf("Process(5) error = %v", err)
	}

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := p.Process(bad); !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("Process(%g) error = %v, want core.ErrInvalidInput", bad, err)
		}
	}

	if p.Count() != 1 {
		t.Errorf("Count() = %d after rejected input, want 1", p.Count())
	}

	if p.Smoother().Count() != 1 {
		t.Errorf("Smoother().Count() = %d after rejected input, want 1", p.Smoother().Count())
	}
}

func TestProcessBlock(t *testing.T) {
	readings := []float64{5.0, 5.2, 4.9, 50.0, 5.1, 5.0}

	seq, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want := make([]Result, 0, len(readings))

	for _, v := range readings {
		r, err := seq.Process(v)
		if err != nil {
			t.Fatalf("Process(%g) error = %v", v, err)
		}

		want = append(want, r)
	}

	blk, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := blk.ProcessBlock(readings)
	if err != nil {
		t.Fatalf("ProcessBlock() error = %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("ProcessBlock() returned %d results, want %d", len(got), len(want))
	}

	for i := range want {
		if !almostEqual(got[i].Value, want[i].Value, tolerance) || got[i].Outlier != want[i].Outlier {
			t.Errorf("ProcessBlock()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestProcessBlockValidatesFirst(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	results, err := p.ProcessBlock([]float64{1, 2, math.NaN(), 4})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("ProcessBlock() error = %v, want core.ErrInvalidInput", err)
	}

	if results != nil {
		t.Errorf("ProcessBlock() results = %v, want none before validation passes", results)
	}

	if p.Count() != 0 {
		t.Errorf("Count() = %d, want no reading processed", p.Count())
	}
}

func TestProcessBlockStopsAtFirstFailure(t *testing.T) {
	p, err := New(WithBounds(0, 10))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// The first reading is implausible and there is no previous output
	// to repeat, so the block stops immediately.
	results, err := p.ProcessBlock([]float64{50, 5, 6})
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Fatalf("ProcessBlock() error = %v, want core.ErrInsufficientData", err)
	}

	if len(results) != 0 {
		t.Errorf("ProcessBlock() produced %d results, want 0", len(results))
	}
}

func TestReset(t *testing.T) {
	p, err := New(WithBounds(0, 100))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, v := range []float64{5, 6, 7, 200} {
		if _, err := p.Process(v); err != nil {
			t.Fatalf("Process(%g) error = %v", v, err)
		}
	}

	p.Reset()

	if p.Count() != 0 || p.Accepted() != 0 {
		t.Errorf("Count() = %d, Accepted() = %d after Reset(), want 0, 0", p.Count(), p.Accepted())
	}

	if _, err := p.Current(); !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("Current() after Reset() error = %v, want core.ErrInsufficientData", err)
	}

	if p.Smoother().Count() != 0 || p.Damper().Count() != 0 {
		t.Error("stage state survived Reset()")
	}

	if m := p.Bounds().Metrics(); m.Observed != 0 {
		t.Errorf("Bounds().Metrics() after Reset() = %+v, want zero", m)
	}

	r, err := p.Process(5)
	if err != nil {
		t.Fatalf("Process() after Reset() error = %v", err)
	}

	if r.Value != 5 {
		t.Errorf("Process(5) after Reset() = %g, want 5", r.Value)
	}
}
