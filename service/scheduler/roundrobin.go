package scheduler

import (
	"sort"

	"github.com/viant/ossim/model/process"
)

// roundRobin is preemptive at quantum boundaries only.
type roundRobin struct {
	config Config
}

func (s *roundRobin) Name() string { return RoundRobin }

// Schedule cycles through the ready queue granting at most one quantum per
// dispatch. Processes arriving during a slice join the queue before the
// preempted process is requeued. Metrics are sorted by process id.
func (s *roundRobin) Schedule(records process.Records) (*Result, error) {
	r, err := newRun(records, s.config)
	if err != nil {
		return nil, err
	}
	quantum := s.config.Quantum
	next := 0 // first record not yet admitted; records are in arrival order
	var ready []int
	admit := func() {
		for next < len(r.records) && r.records[next].Arrival <= r.now {
			ready = append(ready, next)
			next++
		}
	}
	for len(ready) > 0 || next < len(r.records) {
		if len(ready) == 0 {
			r.idleUntil(r.records[next].Arrival)
			admit()
		}
		idx := ready[0]
		ready = ready[1:]
		outcome := r.outcomes[r.records[idx].ID]
		r.execute(idx, min(quantum, outcome.Remaining))
		admit()
		if outcome.Remaining > 0 {
			ready = append(ready, idx)
			continue
		}
		r.complete(idx)
	}
	result := r.result(RoundRobin)
	sort.Slice(result.Metrics, func(i, j int) bool {
		return result.Metrics[i].ID < result.Metrics[j].ID
	})
	return result, nil
}
