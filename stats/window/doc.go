// Package window provides order statistics over a fixed-size sliding
// window of the newest measurements.
//
// A window keeps the last n values in a ring buffer, evicting the oldest
// when full, and reduces the current contents with a selectable statistic
// (mean, median, minimum or maximum). The median and percentile
// reductions are robust against single spikes, which makes a short median
// window a common pre-filter for noisy sensors.
package window
