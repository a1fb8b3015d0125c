package testutil

import (
	"math"
	"math/rand"
)

// Sine generates a sinusoidal measurement stream with the given period in
// samples.
func Sine(period, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi / period
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// NoisyLevel generates a constant level disturbed by uniform noise in
// [-amplitude, amplitude], reproducible through the seed.
func NoisyLevel(seed int64, level, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = level + (rng.Float64()*2-1)*amplitude
	}
	return out
}

// Ramp generates a linear sweep from first to last inclusive.
func Ramp(first, last float64, length int) []float64 {
	out := make([]float64, length)
	if length == 0 {
		return out
	}
	if length == 1 {
		out[0] = first
		return out
	}
	step := (last - first) / float64(length-1)
	for i := range out {
		out[i] = first + step*float64(i)
	}
	return out
}

// Alternating generates a stream flipping between level+amplitude and
// level-amplitude on every sample, starting high.
func Alternating(level, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		if i%2 == 0 {
			out[i] = level + amplitude
		} else {
			out[i] = level - amplitude
		}
	}
	return out
}

// Constant generates a stream holding the same value.
func Constant(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
