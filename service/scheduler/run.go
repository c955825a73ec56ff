package scheduler

import (
	"github.com/viant/ossim/model/process"
	"github.com/viant/ossim/model/timeline"
)

// run is the private workspace of a single scheduling invocation.
type run struct {
	records  process.Records
	outcomes process.Outcomes
	timeline *timeline.Timeline
	now      int
	finished []int
}

// newRun validates and copies the input, ordered by arrival.
func newRun(records process.Records, config Config) (*run, error) {
	if err := records.Validate(); err != nil {
		return nil, err
	}
	copied := records.Clone()
	copied.SortByArrival()
	return &run{
		records:  copied,
		outcomes: process.NewOutcomes(copied),
		timeline: timeline.New(config.KeepZeroLength),
	}, nil
}

// idleUntil advances the clock to at, recording the gap.
func (r *run) idleUntil(at int) {
	if r.now < at {
		r.timeline.Idle(r.now, at)
		r.now = at
	}
}

// execute gives the processor to records[idx] for slice time units.
func (r *run) execute(idx, slice int) *process.Outcome {
	rec := &r.records[idx]
	outcome := r.outcomes[rec.ID]
	start := r.now
	outcome.Dispatch(start)
	r.now += slice
	outcome.Consume(slice)
	r.timeline.Run(rec.Label(), start, r.now)
	return outcome
}

// complete finalises records[idx] at the current time.
func (r *run) complete(idx int) {
	rec := &r.records[idx]
	r.outcomes[rec.ID].Complete(rec, r.now)
	r.finished = append(r.finished, idx)
}

// runToCompletion executes records[idx] without preemption.
func (r *run) runToCompletion(idx int) {
	r.execute(idx, r.records[idx].Burst)
	r.complete(idx)
}

// result builds metrics in completion order.
func (r *run) result(policy string) *Result {
	metrics := make([]Metric, 0, len(r.finished))
	for _, idx := range r.finished {
		rec := &r.records[idx]
		metrics = append(metrics, newMetric(rec, r.outcomes[rec.ID]))
	}
	return &Result{Policy: policy, Timeline: r.timeline, Metrics: metrics}
}

// nonPreemptive repeatedly picks, among arrived processes, the one preferred
// by better and runs it to completion. better must be strict so that the
// first candidate in arrival/input order wins ties.
func (r *run) nonPreemptive(better func(candidate, current *process.Record) bool) {
	pending := make([]int, len(r.records))
	for i := range pending {
		pending[i] = i
	}
	for len(pending) > 0 {
		selected := -1
		for pos, idx := range pending {
			rec := &r.records[idx]
			if rec.Arrival > r.now {
				continue
			}
			if selected == -1 || better(rec, &r.records[pending[selected]]) {
				selected = pos
			}
		}
		if selected == -1 {
			next := r.records[pending[0]].Arrival
			for _, idx := range pending[1:] {
				next = min(next, r.records[idx].Arrival)
			}
			r.idleUntil(next)
			continue
		}
		idx := pending[selected]
		pending = append(pending[:selected], pending[selected+1:]...)
		r.runToCompletion(idx)
	}
}
