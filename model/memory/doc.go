// Package memory models contiguous memory placement: address blocks, the
// free-list of holes and per-request allocation outcomes.
package memory
