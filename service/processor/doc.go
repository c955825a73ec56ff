// Package processor hosts the workers that execute simulation jobs. Jobs are
// published to a queue, consumed by a fixed pool of workers and their outputs
// are handed back to the caller in submission order, so a comparison run is
// deterministic no matter how the workers interleave.
package processor
