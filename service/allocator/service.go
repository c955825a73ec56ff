package allocator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/viant/ossim/model/memory"
)

// Strategy names a placement rule.
type Strategy string

const (
	FirstFit Strategy = "first_fit"
	BestFit  Strategy = "best_fit"
	WorstFit Strategy = "worst_fit"
)

// Strategies lists the implemented strategies in reporting order.
var Strategies = []Strategy{FirstFit, BestFit, WorstFit}

var (
	// ErrUnknownStrategy is returned for a strategy name that is not implemented.
	ErrUnknownStrategy = errors.New("allocator: unknown strategy")

	// ErrAllocationFailure reports that no single hole can hold the request.
	ErrAllocationFailure = errors.New("allocator: insufficient contiguous space")

	// ErrInvalidRequest reports a request size <= 0.
	ErrInvalidRequest = errors.New("allocator: invalid request")

	// ErrInvalidFreeList reports holes that overlap or have no size.
	ErrInvalidFreeList = errors.New("allocator: invalid free-list")
)

// ParseStrategy maps a name such as "best_fit", "best-fit" or "bestfit".
func ParseStrategy(name string) (Strategy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	switch key {
	case "first_fit", "firstfit", "first":
		return FirstFit, nil
	case "best_fit", "bestfit", "best":
		return BestFit, nil
	case "worst_fit", "worstfit", "worst":
		return WorstFit, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// selector returns the index of the chosen hole or -1.
type selector func(holes memory.FreeList, size int) int

// Service allocates memory with one placement strategy.
type Service struct {
	strategy Strategy
	selector selector
}

// New creates an allocator for the named strategy.
func New(name string) (*Service, error) {
	strategy, err := ParseStrategy(name)
	if err != nil {
		return nil, err
	}
	ret := &Service{strategy: strategy}
	switch strategy {
	case FirstFit:
		ret.selector = firstFit
	case BestFit:
		ret.selector = bestFit
	case WorstFit:
		ret.selector = worstFit
	}
	return ret, nil
}

// Strategy returns the placement strategy.
func (s *Service) Strategy() Strategy {
	return s.strategy
}

// Select returns the index of the hole the strategy would use, or -1.
func (s *Service) Select(holes memory.FreeList, size int) int {
	return s.selector(holes, size)
}

// Allocate carves size units out of the selected hole. On failure the
// free-list is left unchanged.
func (s *Service) Allocate(holes *memory.FreeList, size int) (memory.Block, error) {
	if err := validate(*holes); err != nil {
		return memory.Block{}, err
	}
	block, _, err := s.place(holes, size)
	return block, err
}

// Run allocates every request in order against a private copy of holes.
// A failed request is recorded in its outcome and the run continues; an
// invalid free-list fails the whole run.
func (s *Service) Run(holes memory.FreeList, requests []memory.Request) (*Result, error) {
	if err := validate(holes); err != nil {
		return nil, err
	}
	free := holes.Clone()
	result := &Result{
		Strategy: s.strategy,
		Initial:  holes.Clone(),
		Outcomes: make([]memory.Outcome, 0, len(requests)),
	}
	for _, request := range requests {
		outcome := memory.Outcome{Request: request}
		block, hole, err := s.place(&free, request.Size)
		if err != nil {
			outcome.Err = err
		} else {
			outcome.Block = &block
			outcome.Hole = &hole
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}
	result.Free = free
	return result, nil
}

func validate(holes memory.FreeList) error {
	if err := holes.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFreeList, err)
	}
	return nil
}

// place returns the carved block and the hole it came from.
func (s *Service) place(holes *memory.FreeList, size int) (memory.Block, memory.Block, error) {
	if size <= 0 {
		return memory.Block{}, memory.Block{}, fmt.Errorf("%w: size %d", ErrInvalidRequest, size)
	}
	idx := s.selector(*holes, size)
	if idx == -1 {
		return memory.Block{}, memory.Block{}, fmt.Errorf("%w: size %d, largest hole %d", ErrAllocationFailure, size, holes.Largest())
	}
	hole := (*holes)[idx]
	return holes.Carve(idx, size), hole, nil
}

func firstFit(holes memory.FreeList, size int) int {
	for i, hole := range holes {
		if hole.Size >= size {
			return i
		}
	}
	return -1
}

func bestFit(holes memory.FreeList, size int) int {
	selected := -1
	for i, hole := range holes {
		if hole.Size >= size && (selected == -1 || hole.Size < holes[selected].Size) {
			selected = i
		}
	}
	return selected
}

func worstFit(holes memory.FreeList, size int) int {
	selected := -1
	for i, hole := range holes {
		if hole.Size >= size && (selected == -1 || hole.Size > holes[selected].Size) {
			selected = i
		}
	}
	return selected
}
