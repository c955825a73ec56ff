package scheduler

import (
	"github.com/viant/ossim/model/process"
	"github.com/viant/ossim/model/timeline"
)

// Metric is the per-process row of a scheduling result.
type Metric struct {
	ID            int `json:"id"`
	Arrival       int `json:"arrival"`
	Burst         int `json:"burst"`
	Priority      int `json:"priority"`
	FirstDispatch int `json:"firstDispatch"`
	Completion    int `json:"completion"`
	Turnaround    int `json:"turnaround"`
	Waiting       int `json:"waiting"`
}

// Result is the structured output of one scheduling run.
type Result struct {
	Policy   string             `json:"policy"`
	Timeline *timeline.Timeline `json:"timeline"`
	Metrics  []Metric           `json:"metrics"`
}

// Empty reports whether nothing was scheduled.
func (r *Result) Empty() bool {
	return len(r.Metrics) == 0
}

// Metric returns the row of process id or nil.
func (r *Result) Metric(id int) *Metric {
	for i := range r.Metrics {
		if r.Metrics[i].ID == id {
			return &r.Metrics[i]
		}
	}
	return nil
}

// AverageWaiting returns the mean waiting time, 0 when empty.
func (r *Result) AverageWaiting() float64 {
	return r.average(func(m *Metric) int { return m.Waiting })
}

// AverageTurnaround returns the mean turnaround time, 0 when empty.
func (r *Result) AverageTurnaround() float64 {
	return r.average(func(m *Metric) int { return m.Turnaround })
}

// Makespan returns the largest completion time.
func (r *Result) Makespan() int {
	makespan := 0
	for i := range r.Metrics {
		makespan = max(makespan, r.Metrics[i].Completion)
	}
	return makespan
}

// Throughput returns completed processes per unit of simulated time.
func (r *Result) Throughput() float64 {
	makespan := r.Makespan()
	if makespan == 0 {
		return 0
	}
	return float64(len(r.Metrics)) / float64(makespan)
}

func (r *Result) average(field func(m *Metric) int) float64 {
	if len(r.Metrics) == 0 {
		return 0
	}
	total := 0
	for i := range r.Metrics {
		total += field(&r.Metrics[i])
	}
	return float64(total) / float64(len(r.Metrics))
}

func newMetric(r *process.Record, o *process.Outcome) Metric {
	return Metric{
		ID:            r.ID,
		Arrival:       r.Arrival,
		Burst:         r.Burst,
		Priority:      r.Priority,
		FirstDispatch: o.FirstDispatch,
		Completion:    o.Completion,
		Turnaround:    o.Turnaround,
		Waiting:       o.Waiting,
	}
}
