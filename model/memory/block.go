package memory

import (
	"fmt"
	"sort"
)

// Block is a contiguous address range. Free blocks are holes.
type Block struct {
	Start int `json:"start" yaml:"start"`
	Size  int `json:"size" yaml:"size"`
}

// End returns the first address past the block.
func (b Block) End() int {
	return b.Start + b.Size
}

// Overlaps reports whether two blocks share an address.
func (b Block) Overlaps(other Block) bool {
	return b.Start < other.End() && other.Start < b.End()
}

func (b Block) String() string {
	return fmt.Sprintf("(%d,%d)", b.Start, b.Size)
}

// FreeList is the set of holes in list order. Strategies scan it in this order.
type FreeList []Block

// Clone returns an independent copy.
func (f FreeList) Clone() FreeList {
	if f == nil {
		return nil
	}
	return append(FreeList(nil), f...)
}

// Total returns the summed hole size.
func (f FreeList) Total() int {
	total := 0
	for _, b := range f {
		total += b.Size
	}
	return total
}

// Largest returns the largest hole size or 0.
func (f FreeList) Largest() int {
	largest := 0
	for _, b := range f {
		if b.Size > largest {
			largest = b.Size
		}
	}
	return largest
}

// Validate checks sizes and that no two holes overlap.
func (f FreeList) Validate() error {
	for i, b := range f {
		if b.Start < 0 || b.Size <= 0 {
			return fmt.Errorf("invalid hole %d %v", i, b)
		}
	}
	return validateDisjoint(f)
}

// Carve takes size units from the start of hole i; the leftover replaces the
// hole in place, or the hole is removed when nothing is left.
func (f *FreeList) Carve(i, size int) Block {
	hole := (*f)[i]
	allocated := Block{Start: hole.Start, Size: size}
	if rest := hole.Size - size; rest > 0 {
		(*f)[i] = Block{Start: hole.Start + size, Size: rest}
	} else {
		*f = append((*f)[:i], (*f)[i+1:]...)
	}
	return allocated
}

// Disjoint reports whether no two blocks from the given sets overlap.
func Disjoint(sets ...[]Block) error {
	var all []Block
	for _, set := range sets {
		all = append(all, set...)
	}
	return validateDisjoint(all)
}

func validateDisjoint(blocks []Block) error {
	sorted := append([]Block(nil), blocks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Overlaps(sorted[i]) {
			return fmt.Errorf("blocks %v and %v overlap", sorted[i-1], sorted[i])
		}
	}
	return nil
}
