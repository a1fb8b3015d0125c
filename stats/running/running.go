package running

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-statfilter/core"
)

// Snapshot is a read-only view of the accumulated statistics, computed on
// demand and never cached. Variance and Stdev use the sample convention
// (Bessel's correction, divide by n-1).
type Snapshot struct {
	Count    int
	Mean     float64
	Variance float64
	Stdev    float64
	Min      float64
	Max      float64
}

// Stats accumulates running statistics of a measurement stream using
// Welford's online algorithm. The zero value is ready to use.
//
// A Stats instance owns its state exclusively and is not safe for
// concurrent use; callers sharing one across goroutines must serialize
// access externally.
type Stats struct {
	n    int
	mean float64
	m2   float64
	min  float64
	max  float64
	last float64
}

// New creates an empty accumulator.
func New() *Stats {
	return &Stats{}
}

// Update incorporates one measurement. Non-finite values fail with
// core.ErrInvalidInput and leave the accumulator untouched.
func (s *Stats) Update(v float64) error {
	if err := core.ValidateInput(v); err != nil {
		return err
	}

	s.add(v)

	return nil
}

// UpdateBlock incorporates a block of measurements. The whole block is
// validated before any element is applied, so a single non-finite entry
// rejects the entire call with the accumulator unchanged.
func (s *Stats) UpdateBlock(vs []float64) error {
	for i, v := range vs {
		if !core.IsFinite(v) {
			return fmt.Errorf("%w: non-finite measurement %v at index %d", core.ErrInvalidInput, v, i)
		}
	}

	for _, v := range vs {
		s.add(v)
	}

	return nil
}

// add applies the Welford update. v must already be validated.
func (s *Stats) add(v float64) {
	s.n++
	ni := float64(s.n)

	delta := v - s.mean
	deltaN := delta / ni
	s.m2 += delta * deltaN * float64(s.n-1)
	s.mean += deltaN

	if s.n == 1 {
		s.min = v
		s.max = v
	} else {
		if v < s.min {
			s.min = v
		}

		if v > s.max {
			s.max = v
		}
	}

	s.last = v
}

// Count returns the number of accepted measurements.
func (s *Stats) Count() int { return s.n }

// Mean returns the arithmetic mean of the accepted measurements.
func (s *Stats) Mean() (float64, error) {
	if s.n == 0 {
		return 0, fmt.Errorf("%w: mean requires at least 1 measurement", core.ErrInsufficientData)
	}

	return s.mean, nil
}

// Variance returns the sample variance (divide by n-1), clamped against
// negative round-off.
func (s *Stats) Variance() (float64, error) {
	if s.n < 2 {
		return 0, fmt.Errorf("%w: sample variance requires at least 2 measurements, have %d", core.ErrInsufficientData, s.n)
	}

	return math.Max(s.m2/float64(s.n-1), 0), nil
}

// PopulationVariance returns the population variance (divide by n).
func (s *Stats) PopulationVariance() (float64, error) {
	if s.n == 0 {
		return 0, fmt.Errorf("%w: population variance requires at least 1 measurement", core.ErrInsufficientData)
	}

	return math.Max(s.m2/float64(s.n), 0), nil
}

// Stdev returns the sample standard deviation.
func (s *Stats) Stdev() (float64, error) {
	v, err := s.Variance()
	if err != nil {
		return 0, err
	}

	return math.Sqrt(v), nil
}

// Min returns the smallest accepted measurement.
func (s *Stats) Min() (float64, error) {
	if s.n == 0 {
		return 0, fmt.Errorf("%w: min requires at least 1 measurement", core.ErrInsufficientData)
	}

	return s.min, nil
}

// Max returns the largest accepted measurement.
func (s *Stats) Max() (float64, error) {
	if s.n == 0 {
		return 0, fmt.Errorf("%w: max requires at least 1 measurement", core.ErrInsufficientData)
	}

	return s.max, nil
}

// Last returns the most recently accepted measurement.
func (s *Stats) Last() (float64, error) {
	if s.n == 0 {
		return 0, fmt.Errorf("%w: last requires at least 1 measurement", core.ErrInsufficientData)
	}

	return s.last, nil
}

// Snapshot returns the full statistics view. All fields are defined only
// once two measurements have been accepted; earlier calls fail with
// core.ErrInsufficientData.
func (s *Stats) Snapshot() (Snapshot, error) {
	if s.n < 2 {
		return Snapshot{}, fmt.Errorf("%w: snapshot requires at least 2 measurements, have %d", core.ErrInsufficientData, s.n)
	}

	variance := math.Max(s.m2/float64(s.n-1), 0)

	return Snapshot{
		Count:    s.n,
		Mean:     s.mean,
		Variance: variance,
		Stdev:    math.Sqrt(variance),
		Min:      s.min,
		Max:      s.max,
	}, nil
}

// Reset clears all accumulated state, allowing the accumulator to be reused
// for a fresh stream.
func (s *Stats) Reset() {
	*s = Stats{}
}

// Compute runs a fresh accumulator over vs and returns the resulting
// snapshot.
func Compute(vs []float64) (Snapshot, error) {
	var s Stats
	if err := s.UpdateBlock(vs); err != nil {
		return Snapshot{}, err
	}

	return s.Snapshot()
}
