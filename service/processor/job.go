package processor

import (
	"context"
	"time"
)

// Func runs one simulation and returns its structured result.
type Func func(ctx context.Context) (interface{}, error)

// Job is one simulation submitted to the pool. The function must work on
// its own copy of input data.
type Job struct {
	// Name identifies the simulation, e.g. scheduler.rr.
	Name string
	Run  Func

	ctx      context.Context
	index    int
	attempts int
	reply    chan<- Output
}

// Output is the outcome of a Job.
type Output struct {
	Name    string
	Index   int
	Value   interface{}
	Err     error
	Elapsed time.Duration
}
