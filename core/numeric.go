package core

import (
	"fmt"
	"math"
)

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidateInput returns an error wrapping [ErrInvalidInput] unless v is a
// finite real number.
func ValidateInput(v float64) error {
	if !IsFinite(v) {
		return fmt.Errorf("%w: non-finite measurement %v", ErrInvalidInput, v)
	}

	return nil
}

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}
