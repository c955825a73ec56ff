// Package policy decides which simulations of a scenario run. A policy can
// run everything, ask before each simulation, or deny all, and can further
// narrow the set with allow/block lists of simulation names such as
// "scheduler.rr" or "allocator.best_fit".
package policy
