package scenario

import (
	"fmt"

	"github.com/viant/ossim/model/memory"
	"github.com/viant/ossim/model/process"
)

// Source identifies where a scenario was loaded from.
type Source struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Scenario is a complete, fixed input set for one simulator invocation.
// The three sections are independent; none feeds another.
type Scenario struct {
	Source     *Source         `json:"source,omitempty" yaml:"source,omitempty"`
	Name       string          `json:"name" yaml:"name"`
	Processes  process.Records `json:"processes,omitempty" yaml:"processes,omitempty"`
	Scheduling Scheduling      `json:"scheduling" yaml:"scheduling"`
	Memory     Memory          `json:"memory" yaml:"memory"`
	Paging     Paging          `json:"paging" yaml:"paging"`
	// Expect is the URL of the expected rendered report, if any.
	Expect string `json:"expect,omitempty" yaml:"expect,omitempty"`
}

// Scheduling selects CPU scheduling policies and their parameters.
// Zero values fall back to the simulator configuration.
type Scheduling struct {
	Policies       []string `json:"policies,omitempty" yaml:"policies,omitempty"`
	Quantum        int      `json:"quantum,omitempty" yaml:"quantum,omitempty"`
	PriorityOrder  string   `json:"priorityOrder,omitempty" yaml:"priorityOrder,omitempty"`
	KeepZeroLength *bool    `json:"keepZeroLength,omitempty" yaml:"keepZeroLength,omitempty"`
}

// Memory describes the placement input. Holes win over Generate; Requests
// win over FromProcesses.
type Memory struct {
	Strategies    []string          `json:"strategies,omitempty" yaml:"strategies,omitempty"`
	Holes         memory.FreeList   `json:"holes,omitempty" yaml:"holes,omitempty"`
	Generate      *memory.Generator `json:"generate,omitempty" yaml:"generate,omitempty"`
	Requests      []memory.Request  `json:"requests,omitempty" yaml:"requests,omitempty"`
	FromProcesses bool              `json:"fromProcesses,omitempty" yaml:"fromProcesses,omitempty"`
}

// Paging describes the page-replacement input.
type Paging struct {
	Policies   []string `json:"policies,omitempty" yaml:"policies,omitempty"`
	References []int    `json:"references,omitempty" yaml:"references,omitempty"`
	Frames     int      `json:"frames,omitempty" yaml:"frames,omitempty"`
}

// Validate returns the structural issues of the scenario; an empty slice
// means the scenario is usable. Empty sections are not issues.
func (s *Scenario) Validate() []error {
	var issues []error
	if err := s.Processes.Validate(); err != nil {
		issues = append(issues, err)
	}
	if s.Scheduling.Quantum < 0 {
		issues = append(issues, fmt.Errorf("scheduling.quantum %d < 0", s.Scheduling.Quantum))
	}
	if len(s.Memory.Holes) > 0 {
		if err := s.Memory.Holes.Validate(); err != nil {
			issues = append(issues, fmt.Errorf("memory.holes: %w", err))
		}
	}
	if g := s.Memory.Generate; g != nil {
		if err := g.Validate(); err != nil {
			issues = append(issues, fmt.Errorf("memory.generate: %w", err))
		}
	}
	if s.Paging.Frames < 0 {
		issues = append(issues, fmt.Errorf("paging.frames %d < 0", s.Paging.Frames))
	}
	return issues
}

// MemoryRequests resolves the request list of the memory section.
func (s *Scenario) MemoryRequests() []memory.Request {
	if len(s.Memory.Requests) > 0 || !s.Memory.FromProcesses {
		return s.Memory.Requests
	}
	return memory.RequestsOf(s.Processes)
}
