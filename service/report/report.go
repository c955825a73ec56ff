package report

import (
	"time"

	"github.com/viant/ossim/service/allocator"
	"github.com/viant/ossim/service/replacer"
	"github.com/viant/ossim/service/scheduler"
)

// Simulation kinds.
const (
	KindScheduler = "scheduler"
	KindAllocator = "allocator"
	KindReplacer  = "replacer"
)

// Section is the result of one simulation; exactly one result is set
// unless Error is.
type Section struct {
	Kind       string            `json:"kind"`
	Name       string            `json:"name"`
	Scheduling *scheduler.Result `json:"scheduling,omitempty"`
	Allocation *allocator.Result `json:"allocation,omitempty"`
	Paging     *replacer.Result  `json:"paging,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Simulation returns the qualified simulation name, e.g. replacer.lru.
func (s *Section) Simulation() string {
	return s.Kind + "." + s.Name
}

// Report is the output of one simulator run.
type Report struct {
	ID        string    `json:"id"`
	Scenario  string    `json:"scenario"`
	CreatedAt time.Time `json:"createdAt"`
	Sections  []Section `json:"sections"`
	// Text is the rendered report.
	Text string `json:"text,omitempty"`
	// Comparison is set when the report was checked against an expectation.
	Comparison *Comparison `json:"comparison,omitempty"`
}

// Lookup returns the section of a simulation or nil.
func (r *Report) Lookup(kind, name string) *Section {
	for i := range r.Sections {
		if r.Sections[i].Kind == kind && r.Sections[i].Name == name {
			return &r.Sections[i]
		}
	}
	return nil
}

// Failed returns sections whose simulation returned an error.
func (r *Report) Failed() []Section {
	var ret []Section
	for _, section := range r.Sections {
		if section.Error != "" {
			ret = append(ret, section)
		}
	}
	return ret
}
