package allocator

import "github.com/viant/ossim/model/memory"

// Result is the outcome of one allocation run.
type Result struct {
	Strategy Strategy         `json:"strategy"`
	Initial  memory.FreeList  `json:"initial"`
	Outcomes []memory.Outcome `json:"outcomes"`
	Free     memory.FreeList  `json:"free"`
}

// Empty reports whether the run had no requests.
func (r *Result) Empty() bool {
	return len(r.Outcomes) == 0
}

// Allocated returns the carved blocks in request order.
func (r *Result) Allocated() []memory.Block {
	var blocks []memory.Block
	for i := range r.Outcomes {
		if r.Outcomes[i].Allocated() {
			blocks = append(blocks, *r.Outcomes[i].Block)
		}
	}
	return blocks
}

// Failures counts requests that could not be placed.
func (r *Result) Failures() int {
	count := 0
	for i := range r.Outcomes {
		if !r.Outcomes[i].Allocated() {
			count++
		}
	}
	return count
}

// Fragmentation returns the free space that is not part of the largest hole.
func (r *Result) Fragmentation() int {
	return r.Free.Total() - r.Free.Largest()
}
