package window

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/cwbudde/algo-statfilter/core"
)

// DefaultSize is the window capacity used when callers have no stronger
// preference.
const DefaultSize = 5

// Statistic selects the reduction applied to the window contents.
type Statistic int

const (
	Mean Statistic = iota
	Median
	Min
	Max
)

// String returns the lower-case name of the statistic.
func (s Statistic) String() string {
	switch s {
	case Mean:
		return "mean"
	case Median:
		return "median"
	case Min:
		return "min"
	case Max:
		return "max"
	default:
		return "unknown"
	}
}

// Option configures a Stats instance.
type Option func(*config) error

type config struct {
	statistic Statistic
}

// WithStatistic selects the reduction returned by Update and Result.
func WithStatistic(statistic Statistic) Option {
	return func(c *config) error {
		switch statistic {
		case Mean, Median, Min, Max:
			c.statistic = statistic

			return nil
		default:
			return fmt.Errorf("%w: unknown statistic %d", core.ErrInvalidConfig, int(statistic))
		}
	}
}

// Stats reduces a sliding window over the newest measurements. Stats is
// not safe for concurrent use.
type Stats struct {
	statistic Statistic
	size      int

	buf  []float64
	next int
	fill int
	n    int
}

// New creates a sliding window holding the newest size measurements. The
// capacity must be at least 2.
func New(size int, opts ...Option) (*Stats, error) {
	if size < 2 {
		return nil, fmt.Errorf("%w: window size must be at least 2: %d", core.ErrInvalidConfig, size)
	}

	cfg := config{statistic: Mean}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Stats{
		statistic: cfg.statistic,
		size:      size,
		buf:       make([]float64, size),
	}, nil
}

// Push inserts a measurement, evicting the oldest when the window is
// full.
func (s *Stats) Push(v float64) error {
	if err := core.ValidateInput(v); err != nil {
		return err
	}

	s.buf[s.next] = v
	s.next = (s.next + 1) % s.size

	if s.fill < s.size {
		s.fill++
	}

	s.n++

	return nil
}

// Update inserts a measurement and returns the configured statistic over
// the updated window.
func (s *Stats) Update(v float64) (float64, error) {
	if err := s.Push(v); err != nil {
		return 0, err
	}

	return s.Result()
}

// Result returns the configured statistic over the current window.
func (s *Stats) Result() (float64, error) {
	switch s.statistic {
	case Median:
		return s.Median()
	case Min:
		return s.Min()
	case Max:
		return s.Max()
	default:
		return s.Mean()
	}
}

// Mean returns the arithmetic mean of the window contents.
func (s *Stats) Mean() (float64, error) {
	vs, err := s.occupied()
	if err != nil {
		return 0, err
	}

	m, _ := stats.Mean(vs)

	return m, nil
}

// Median returns the median of the window contents. Even fills average
// the two middle ranks.
func (s *Stats) Median() (float64, error) {
	vs, err := s.occupied()
	if err != nil {
		return 0, err
	}

	m, _ := stats.Median(vs)

	return m, nil
}

// Min returns the smallest value in the window.
func (s *Stats) Min() (float64, error) {
	vs, err := s.occupied()
	if err != nil {
		return 0, err
	}

	m, _ := stats.Min(vs)

	return m, nil
}

// Max returns the largest value in the window.
func (s *Stats) Max() (float64, error) {
	vs, err := s.occupied()
	if err != nil {
		return 0, err
	}

	m, _ := stats.Max(vs)

	return m, nil
}

// Percentile returns the p-th percentile of the window contents for p in
// (0, 100]. A whole rank (p/100)*fill selects that order statistic and a
// fractional rank averages the two ranks either side. Ranks below the
// first sample clamp to the window minimum.
func (s *Stats) Percentile(p float64) (float64, error) {
	if !core.IsFinite(p) || p <= 0 || p > 100 {
		return 0, fmt.Errorf("%w: percentile must be in (0, 100]: %g", core.ErrInvalidConfig, p)
	}

	vs, err := s.occupied()
	if err != nil {
		return 0, err
	}

	if p/100*float64(len(vs)) < 1 {
		m, _ := stats.Min(vs)

		return m, nil
	}

	v, _ := stats.Percentile(vs, p)

	return v, nil
}

// Values returns a copy of the window contents, oldest first.
func (s *Stats) Values() []float64 {
	out := make([]float64, s.fill)

	if s.fill < s.size {
		copy(out, s.buf[:s.fill])

		return out
	}

	n := copy(out, s.buf[s.next:])
	copy(out[n:], s.buf[:s.next])

	return out
}

// Count returns the total number of measurements pushed since the last
// reset, including evicted ones.
func (s *Stats) Count() int { return s.n }

// Len returns how many measurements the window currently holds.
func (s *Stats) Len() int { return s.fill }

// Size returns the window capacity.
func (s *Stats) Size() int { return s.size }

// Statistic returns the configured reduction.
func (s *Stats) Statistic() Statistic { return s.statistic }

// Reset empties the window. Capacity and statistic are kept.
func (s *Stats) Reset() {
	s.next = 0
	s.fill = 0
	s.n = 0
}

// occupied returns a copy of the current window contents. A nil error
// guarantees a non-empty copy.
func (s *Stats) occupied() ([]float64, error) {
	if s.fill == 0 {
		return nil, fmt.Errorf("%w: window is empty", core.ErrInsufficientData)
	}

	return s.Values(), nil
}
