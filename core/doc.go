// Package core provides the shared error kinds and numeric guards used by
// every statfilter package. Filters wrap the sentinels declared here so
// callers can classify failures with errors.Is without caring which stage
// produced them.
package core
