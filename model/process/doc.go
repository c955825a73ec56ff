// Package process defines the process model shared by all scheduling
// policies: an immutable Record as supplied by the input feed and a per-run
// Outcome keyed by process id. Keeping the two apart means a scheduling run
// can never leak simulation fields into another run or into the registry.
package process
