package scheduler

import "github.com/viant/ossim/model/process"

// priority is non-preemptive priority scheduling.
//
// The ranking direction is part of the contract: with HigherFirst (default)
// a numerically larger priority runs first, with LowerFirst a smaller one
// does. Equal priorities go to the earlier process in arrival/input order.
type priority struct {
	config Config
}

func (s *priority) Name() string { return Priority }

func (s *priority) Schedule(records process.Records) (*Result, error) {
	r, err := newRun(records, s.config)
	if err != nil {
		return nil, err
	}
	r.nonPreemptive(s.better)
	return r.result(Priority), nil
}

func (s *priority) better(candidate, current *process.Record) bool {
	if s.config.PriorityOrder == LowerFirst {
		return candidate.Priority < current.Priority
	}
	return candidate.Priority > current.Priority
}
