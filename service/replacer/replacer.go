package replacer

import (
	"container/list"
	"errors"
	"fmt"
	"strings"
)

// Policy names.
const (
	FIFO = "fifo"
	LRU  = "lru"
)

// Policies lists the implemented policies in reporting order.
var Policies = []string{FIFO, LRU}

var (
	// ErrUnknownPolicy is returned for a policy name that is not implemented.
	ErrUnknownPolicy = errors.New("replacer: unknown policy")

	// ErrInvalidCapacity is returned for a frame count <= 0.
	ErrInvalidCapacity = errors.New("replacer: invalid frame capacity")
)

// Replacer tracks the resident pages of a frame set.
type Replacer interface {
	// Policy returns the policy name.
	Policy() string
	// Access references page. It reports whether the reference faulted and,
	// when a resident page had to make room, which page was evicted.
	Access(page int) (fault bool, evicted int, hasEvicted bool)
	// Resident returns the resident pages, eviction candidate first.
	Resident() []int
	// Len returns the number of resident pages.
	Len() int
}

// New returns an empty frame set managed by the named policy.
func New(policy string, capacity int) (Replacer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	switch Normalize(policy) {
	case FIFO:
		return &fifo{frames: newFrames(capacity)}, nil
	case LRU:
		return &lru{frames: newFrames(capacity)}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
}

// Normalize maps accepted aliases onto policy names.
func Normalize(name string) string {
	switch key := strings.ToLower(strings.TrimSpace(name)); key {
	case "fifo", "first_in_first_out":
		return FIFO
	case "lru", "least_recently_used":
		return LRU
	default:
		return key
	}
}

// frames is an ordered frame set: front is the next victim.
type frames struct {
	capacity int
	order    *list.List
	index    map[int]*list.Element
}

func newFrames(capacity int) *frames {
	return &frames{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[int]*list.Element, capacity),
	}
}

func (f *frames) lookup(page int) (*list.Element, bool) {
	elem, ok := f.index[page]
	return elem, ok
}

// admit inserts page at the back, evicting the front when full.
func (f *frames) admit(page int) (int, bool) {
	evicted, hasEvicted := 0, false
	if f.order.Len() >= f.capacity {
		victim := f.order.Front()
		evicted, hasEvicted = victim.Value.(int), true
		f.order.Remove(victim)
		delete(f.index, evicted)
	}
	f.index[page] = f.order.PushBack(page)
	return evicted, hasEvicted
}

func (f *frames) Resident() []int {
	pages := make([]int, 0, f.order.Len())
	for elem := f.order.Front(); elem != nil; elem = elem.Next() {
		pages = append(pages, elem.Value.(int))
	}
	return pages
}

func (f *frames) Len() int {
	return f.order.Len()
}
