// Package allocator places allocation requests into a free-list of holes
// using first-fit, best-fit or worst-fit. It is the only code allowed to
// mutate a free-list: every request carves the exact requested size from
// the start of one selected hole and leaves the residual hole in place.
// Residual holes are never coalesced with neighbours.
package allocator
