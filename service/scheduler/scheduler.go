package scheduler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/viant/ossim/model/process"
)

// Policy names.
const (
	FCFS       = "fcfs"
	SJF        = "sjf"
	RoundRobin = "rr"
	Priority   = "priority"
)

// Priority ordering conventions.
const (
	// HigherFirst treats a numerically larger priority as more urgent.
	HigherFirst = "higher"
	// LowerFirst treats a numerically smaller priority as more urgent.
	LowerFirst = "lower"
)

var (
	// ErrUnknownPolicy is returned for a policy name that is not implemented.
	ErrUnknownPolicy = errors.New("scheduler: unknown policy")

	// ErrInvalidQuantum is returned when round robin gets a quantum <= 0.
	ErrInvalidQuantum = errors.New("scheduler: invalid quantum")
)

// Policies lists the implemented policy names in reporting order.
var Policies = []string{FCFS, SJF, RoundRobin, Priority}

// Scheduler runs one CPU scheduling policy over a process set.
// Implementations are stateless; every call works on a private copy.
type Scheduler interface {
	Name() string
	Schedule(records process.Records) (*Result, error)
}

// New returns the scheduler for the given policy name.
func New(name string, options ...Option) (Scheduler, error) {
	cfg := DefaultConfig()
	for _, opt := range options {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch Normalize(name) {
	case FCFS:
		return &fcfs{config: cfg}, nil
	case SJF:
		return &sjf{config: cfg}, nil
	case RoundRobin:
		return &roundRobin{config: cfg}, nil
	case Priority:
		return &priority{config: cfg}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// Normalize maps accepted aliases onto policy names.
func Normalize(name string) string {
	switch key := strings.ToLower(strings.TrimSpace(name)); key {
	case "fifo", "fcfs", "first_come_first_served":
		return FCFS
	case "sjf", "shortest_job_first":
		return SJF
	case "rr", "round_robin", "roundrobin":
		return RoundRobin
	case "priority", "prio":
		return Priority
	default:
		return key
	}
}

// Config holds policy parameters.
type Config struct {
	// Quantum is the round robin time slice.
	Quantum int `json:"quantum" yaml:"quantum"`
	// PriorityOrder is HigherFirst or LowerFirst.
	PriorityOrder string `json:"priorityOrder" yaml:"priorityOrder"`
	// KeepZeroLength emits zero-width segments for zero-burst slices.
	KeepZeroLength bool `json:"keepZeroLength" yaml:"keepZeroLength"`
}

// DefaultConfig returns quantum 4 with numerically higher priority first.
func DefaultConfig() Config {
	return Config{Quantum: 4, PriorityOrder: HigherFirst}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Quantum <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantum, c.Quantum)
	}
	switch c.PriorityOrder {
	case HigherFirst, LowerFirst:
	default:
		return fmt.Errorf("scheduler: invalid priority order %q", c.PriorityOrder)
	}
	return nil
}
