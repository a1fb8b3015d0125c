// Package bounds provides a plausibility gate for raw measurements.
//
// A bounds filter holds an optional lower and upper limit describing the
// physically meaningful range of a sensor, for example -40 to 85 for a
// temperature probe. Readings outside the range are reported as
// implausible before any statistics see them. Limits are inclusive and
// either side may be left open.
package bounds
