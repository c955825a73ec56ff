package process

// Unset marks a time field that has not been populated yet.
const Unset = -1

// Outcome holds the fields a single scheduling run computes for one process.
// Outcomes are created fresh for every run and never shared across runs.
type Outcome struct {
	ID            int
	Remaining     int
	FirstDispatch int
	Completion    int
	Turnaround    int
	Waiting       int
}

// NewOutcome creates an outcome with the remaining time set to the burst.
func NewOutcome(r *Record) *Outcome {
	return &Outcome{
		ID:            r.ID,
		Remaining:     r.Burst,
		FirstDispatch: Unset,
		Completion:    Unset,
	}
}

// Dispatched reports whether the process has been given the processor.
func (o *Outcome) Dispatched() bool {
	return o.FirstDispatch != Unset
}

// Completed reports whether the process has finished.
func (o *Outcome) Completed() bool {
	return o.Completion != Unset
}

// Dispatch records the first dispatch time; later dispatches are ignored.
func (o *Outcome) Dispatch(at int) {
	if o.FirstDispatch == Unset {
		o.FirstDispatch = at
	}
}

// Consume decrements remaining time by the executed slice.
func (o *Outcome) Consume(slice int) {
	o.Remaining -= slice
	if o.Remaining < 0 {
		o.Remaining = 0
	}
}

// Complete derives completion, turnaround and waiting time.
func (o *Outcome) Complete(r *Record, at int) {
	o.Remaining = 0
	o.Completion = at
	o.Turnaround = at - r.Arrival
	o.Waiting = o.Turnaround - r.Burst
}

// Outcomes indexes per-run outcomes by process id.
type Outcomes map[int]*Outcome

// NewOutcomes creates a fresh outcome for every record.
func NewOutcomes(records Records) Outcomes {
	result := make(Outcomes, len(records))
	for i := range records {
		result[records[i].ID] = NewOutcome(&records[i])
	}
	return result
}
