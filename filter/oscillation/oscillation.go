package oscillation

import (
	"fmt"

	"github.com/gammazero/deque"

	"github.com/cwbudde/algo-statfilter/core"
)

// DefaultWindow is the detection window size.
const DefaultWindow = 5

// Filter damps short-period oscillation by substituting the windowed mean
// for readings inside a detected alternating pattern.
//
// A Filter owns its state exclusively and is not safe for concurrent use.
type Filter struct {
	window int

	buf *deque.Deque[float64]
	n   int
}

// New constructs an oscillation damper. window must be >= 2; detection
// needs at least two successive differences, so a 2-window never flags and
// acts as a passthrough.
func New(window int) (*Filter, error) {
	if window < 2 {
		return nil, fmt.Errorf("%w: oscillation window must be >= 2: %d", core.ErrInvalidConfig, window)
	}

	return &Filter{
		window: window,
		buf:    deque.New[float64](),
	}, nil
}

// Update appends one measurement and returns it unchanged, or the windowed
// mean when the full window shows strictly alternating differences. The
// flag reports whether damping was applied. Non-finite values fail with
// core.ErrInvalidInput and leave the window untouched.
func (f *Filter) Update(v float64) (float64, bool, error) {
	if err := core.ValidateInput(v); err != nil {
		return 0, false, err
	}

	f.buf.PushBack(v)
	if f.buf.Len() > f.window {
		f.buf.PopFront()
	}
	f.n++

	if f.buf.Len() < f.window || !f.alternating() {
		return v, false, nil
	}

	return f.mean(), true, nil
}

// alternating reports whether the signs of successive differences across
// the window strictly alternate. A zero difference breaks the pattern.
func (f *Filter) alternating() bool {
	n := f.buf.Len()
	if n < 3 {
		return false
	}

	prev := sign(f.buf.At(1) - f.buf.At(0))
	if prev == 0 {
		return false
	}

	for i := 2; i < n; i++ {
		s := sign(f.buf.At(i) - f.buf.At(i-1))
		if s == 0 || s == prev {
			return false
		}

		prev = s
	}

	return true
}

func (f *Filter) mean() float64 {
	var sum float64
	for i := range f.buf.Len() {
		sum += f.buf.At(i)
	}

	return sum / float64(f.buf.Len())
}

func sign(d float64) int {
	switch {
	case d > 0:
		return 1
	case d < 0:
		return -1
	default:
		return 0
	}
}

// Window returns the configured window size.
func (f *Filter) Window() int { return f.window }

// Count returns the number of accepted measurements.
func (f *Filter) Count() int { return f.n }

// Filled reports whether the window has reached capacity.
func (f *Filter) Filled() bool { return f.buf.Len() == f.window }

// Values returns a copy of the current window contents, oldest first.
func (f *Filter) Values() []float64 {
	out := make([]float64, f.buf.Len())
	for i := range out {
		out[i] = f.buf.At(i)
	}

	return out
}

// Reset empties the window and clears the count.
func (f *Filter) Reset() {
	f.buf.Clear()
	f.n = 0
}
