// Package oscillation detects and damps short-period oscillation in a
// measurement stream. A bounded window of the most recent values is
// inspected on every update; when the signs of all successive differences
// across the full window strictly alternate, the reading is judged part of
// an oscillation and the windowed mean is substituted for it.
//
// The raw reading still enters the window after a substitution, so a
// sustained oscillation keeps being damped instead of escaping detection
// after the first hit.
//
// DominantPeriod estimates the period of a recorded stretch via FFT
// autocorrelation and can guide the window-size choice through
// SuggestWindow.
package oscillation
