// Package progress keeps aggregated simulation counters for one simulator
// run. The tracker travels in the context so the processor workers can
// update it without a global registry.
package progress
