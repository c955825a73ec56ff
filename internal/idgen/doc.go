// Package idgen wraps the UUID generator used for simulation run ids so that
// tests can stub it. Callers must treat the ids as opaque strings.
package idgen
