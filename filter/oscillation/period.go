package oscillation

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-statfilter/core"
)

// minCorrelation is the normalized autocorrelation a lag must reach to
// count as a dominant period. Below it the signal is treated as aperiodic.
const minCorrelation = 0.2

// DominantPeriod estimates the dominant oscillation period of vs, in
// samples, via FFT autocorrelation (Wiener-Khinchin: forward transform,
// power spectrum, inverse transform). The strongest lag in [2, len(vs)/2]
// is refined by parabolic interpolation of its neighbors.
//
// At least 4 samples are required, and the signal must show meaningful
// self-similarity at some lag; constant or aperiodic input fails with
// core.ErrInsufficientData. Non-finite entries fail with
// core.ErrInvalidInput.
func DominantPeriod(vs []float64) (float64, error) {
	n := len(vs)
	if n < 4 {
		return 0, fmt.Errorf("%w: period estimation requires at least 4 samples, have %d", core.ErrInsufficientData, n)
	}

	var mean float64
	for i, v := range vs {
		if !core.IsFinite(v) {
			return 0, fmt.Errorf("%w: non-finite measurement %v at index %d", core.ErrInvalidInput, v, i)
		}

		mean += v
	}
	mean /= float64(n)

	// Zero-pad to avoid circular wraparound in the correlation.
	fftSize := nextPowerOf2(2 * n)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return 0, fmt.Errorf("oscillation: create FFT plan: %w", err)
	}

	src := make([]complex128, fftSize)
	for i, v := range vs {
		src[i] = complex(v-mean, 0)
	}

	freq := make([]complex128, fftSize)
	if err := plan.Forward(freq, src); err != nil {
		return 0, fmt.Errorf("oscillation: forward FFT: %w", err)
	}

	// Power spectrum |X[k]|^2 from unpacked real and imaginary parts.
	parts := make([]float64, 3*fftSize)
	re := parts[:fftSize]
	im := parts[fftSize : 2*fftSize]
	power := parts[2*fftSize:]

	for i, c := range freq {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(power, re, im)

	for i, p := range power {
		src[i] = complex(p, 0)
	}

	if err := plan.Inverse(freq, src); err != nil {
		return 0, fmt.Errorf("oscillation: inverse FFT: %w", err)
	}

	ac := make([]float64, n)
	for i := range ac {
		ac[i] = real(freq[i])
	}

	zeroLag := ac[0]
	if zeroLag <= 0 {
		return 0, fmt.Errorf("%w: constant signal has no period", core.ErrInsufficientData)
	}

	vecmath.ScaleBlock(ac, ac, 1/zeroLag)

	maxLag := n / 2
	bestLag := 0
	bestVal := minCorrelation

	for lag := 2; lag <= maxLag; lag++ {
		if ac[lag] > bestVal {
			bestLag = lag
			bestVal = ac[lag]
		}
	}

	if bestLag == 0 {
		return 0, fmt.Errorf("%w: no dominant period found", core.ErrInsufficientData)
	}

	return float64(bestLag) + parabolicOffset(ac[bestLag-1], ac[bestLag], ac[bestLag+1]), nil
}

// SuggestWindow returns a damping window size spanning one full cycle of
// the dominant oscillation in vs, never below the 3 samples detection
// needs.
func SuggestWindow(vs []float64) (int, error) {
	period, err := DominantPeriod(vs)
	if err != nil {
		return 0, err
	}

	window := int(math.Round(period))
	if window < 3 {
		window = 3
	}

	return window, nil
}

// parabolicOffset refines a discrete peak position from its neighbors.
// The result is confined to [-0.5, 0.5] around the peak.
func parabolicOffset(left, peak, right float64) float64 {
	denom := left - 2*peak + right
	if denom == 0 {
		return 0
	}

	return core.Clamp(0.5*(left-right)/denom, -0.5, 0.5)
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}

	return p
}
