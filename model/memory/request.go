package memory

import "github.com/viant/ossim/model/process"

// Request asks for Size contiguous units on behalf of process PID.
type Request struct {
	PID  int `json:"pid" yaml:"pid"`
	Size int `json:"size" yaml:"size"`
}

// Outcome is the result of one request: either Block or Err is set.
type Outcome struct {
	Request Request `json:"request"`
	Block   *Block  `json:"block,omitempty"`
	// Hole is the hole the block was carved from, before carving.
	Hole *Block `json:"hole,omitempty"`
	Err  error  `json:"-"`
}

// Allocated reports whether the request succeeded.
func (o *Outcome) Allocated() bool {
	return o.Block != nil && o.Err == nil
}

// RequestsOf builds one request per process from its memory requirement.
func RequestsOf(records process.Records) []Request {
	result := make([]Request, 0, len(records))
	for i := range records {
		result = append(result, Request{PID: records[i].ID, Size: records[i].MemoryRequirement()})
	}
	return result
}
