// Package scheduler implements the CPU scheduling policies: first come first
// served, non-preemptive shortest job first, round robin and non-preemptive
// priority. Every policy consumes a process set and produces a Timeline plus
// per-process metrics.
//
// Shared rules:
//   - input is copied and stable-sorted by arrival, so simultaneous arrivals
//     keep their input order;
//   - empty input yields an empty Result, not an error;
//   - malformed input (negative arrival or burst, duplicate ids) is rejected;
//   - a zero-burst process is dispatched and completes at its dispatch time;
//     its zero-width segment is emitted only with WithKeepZeroLength(true).
package scheduler
