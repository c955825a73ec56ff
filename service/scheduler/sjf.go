package scheduler

import "github.com/viant/ossim/model/process"

// sjf is non-preemptive shortest job first.
type sjf struct {
	config Config
}

func (s *sjf) Name() string { return SJF }

// Schedule picks the arrived process with the smallest burst; equal bursts
// go to the earlier process in arrival/input order.
func (s *sjf) Schedule(records process.Records) (*Result, error) {
	r, err := newRun(records, s.config)
	if err != nil {
		return nil, err
	}
	r.nonPreemptive(func(candidate, current *process.Record) bool {
		return candidate.Burst < current.Burst
	})
	return r.result(SJF), nil
}
