package process

import (
	"errors"
	"fmt"
	"sort"
)

// DefaultMemory is the memory requirement assumed when a record omits it.
const DefaultMemory = 100

var (
	// ErrInvalidRecord is returned for records with a negative arrival or burst time.
	ErrInvalidRecord = errors.New("process: invalid record")

	// ErrDuplicateID is returned when two records share an identifier.
	ErrDuplicateID = errors.New("process: duplicate id")
)

// Record is the immutable description of a process as read from the input
// feed. Simulation results are kept separately in Outcome.
type Record struct {
	ID       int `json:"id" yaml:"id"`
	Arrival  int `json:"arrival" yaml:"arrival"`
	Burst    int `json:"burst" yaml:"burst"`
	Priority int `json:"priority" yaml:"priority"`
	// Memory is the contiguous memory requirement; zero means DefaultMemory.
	Memory int `json:"memory,omitempty" yaml:"memory,omitempty"`
}

// New creates a record with the default memory requirement.
func New(id, arrival, burst, priority int) Record {
	return Record{ID: id, Arrival: arrival, Burst: burst, Priority: priority, Memory: DefaultMemory}
}

// MemoryRequirement returns the requested memory size.
func (r *Record) MemoryRequirement() int {
	if r.Memory <= 0 {
		return DefaultMemory
	}
	return r.Memory
}

// Label returns the timeline label of the process, e.g. P3.
func (r *Record) Label() string {
	return Label(r.ID)
}

// Label formats a process identifier as timeline label.
func Label(id int) string {
	return fmt.Sprintf("P%d", id)
}

// Validate checks record preconditions. Burst time of zero is accepted.
func (r *Record) Validate() error {
	if r.Arrival < 0 {
		return fmt.Errorf("%w: P%d arrival %d < 0", ErrInvalidRecord, r.ID, r.Arrival)
	}
	if r.Burst < 0 {
		return fmt.Errorf("%w: P%d burst %d < 0", ErrInvalidRecord, r.ID, r.Burst)
	}
	if r.Memory < 0 {
		return fmt.Errorf("%w: P%d memory %d < 0", ErrInvalidRecord, r.ID, r.Memory)
	}
	return nil
}

// Records is an ordered process set.
type Records []Record

// Clone returns an independent copy.
func (r Records) Clone() Records {
	if r == nil {
		return nil
	}
	return append(Records(nil), r...)
}

// SortByArrival stable-sorts records by arrival time; simultaneous arrivals keep input order.
func (r Records) SortByArrival() {
	sort.SliceStable(r, func(i, j int) bool {
		return r[i].Arrival < r[j].Arrival
	})
}

// Validate checks every record and rejects duplicated identifiers.
func (r Records) Validate() error {
	seen := make(map[int]bool, len(r))
	for i := range r {
		if err := r[i].Validate(); err != nil {
			return err
		}
		if seen[r[i].ID] {
			return fmt.Errorf("%w: P%d", ErrDuplicateID, r[i].ID)
		}
		seen[r[i].ID] = true
	}
	return nil
}

// Lookup returns the record with the given id or nil.
func (r Records) Lookup(id int) *Record {
	for i := range r {
		if r[i].ID == id {
			return &r[i]
		}
	}
	return nil
}
