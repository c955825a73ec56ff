package scheduler

import "github.com/viant/ossim/model/process"

// fcfs runs processes in arrival order, each to completion.
type fcfs struct {
	config Config
}

func (s *fcfs) Name() string { return FCFS }

// Schedule executes processes in arrival order, idling until each arrival
// when the processor would otherwise be free.
func (s *fcfs) Schedule(records process.Records) (*Result, error) {
	r, err := newRun(records, s.config)
	if err != nil {
		return nil, err
	}
	for i := range r.records {
		r.idleUntil(r.records[i].Arrival)
		r.runToCompletion(i)
	}
	return r.result(FCFS), nil
}
