package replacer

// Step is the trace entry of one reference.
type Step struct {
	Page     int   `json:"page"`
	Fault    bool  `json:"fault"`
	Evicted  *int  `json:"evicted,omitempty"`
	Resident []int `json:"resident"`
}

// Result is the outcome of one paging run.
type Result struct {
	Policy     string `json:"policy"`
	Frames     int    `json:"frames"`
	References []int  `json:"references"`
	Faults     int    `json:"faults"`
	Hits       int    `json:"hits"`
	Steps      []Step `json:"steps,omitempty"`
}

// Empty reports whether the run had no references.
func (r *Result) Empty() bool {
	return len(r.References) == 0
}

// FaultRate returns faults per reference, 0 when empty.
func (r *Result) FaultRate() float64 {
	if len(r.References) == 0 {
		return 0
	}
	return float64(r.Faults) / float64(len(r.References))
}

// Simulate replays references through a fresh frame set of the given capacity.
func Simulate(policy string, references []int, capacity int) (*Result, error) {
	frames, err := New(policy, capacity)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Policy:     frames.Policy(),
		Frames:     capacity,
		References: append([]int(nil), references...),
		Steps:      make([]Step, 0, len(references)),
	}
	for _, page := range references {
		fault, evicted, hasEvicted := frames.Access(page)
		step := Step{Page: page, Fault: fault, Resident: frames.Resident()}
		if hasEvicted {
			step.Evicted = &evicted
		}
		if fault {
			result.Faults++
		} else {
			result.Hits++
		}
		result.Steps = append(result.Steps, step)
	}
	return result, nil
}
