package allocator

import (
	"math/rand/v2"

	"github.com/viant/ossim/model/memory"
)

// Generate builds count holes with sizes drawn from [MinSize, MaxSize];
// each hole starts Gap units after the previous one ends. The same seed
// always yields the same free-list.
func Generate(g memory.Generator, count int) memory.FreeList {
	if count <= 0 {
		return memory.FreeList{}
	}
	defaults := memory.DefaultGenerator()
	if g.MinSize <= 0 {
		g.MinSize = defaults.MinSize
	}
	if g.MaxSize < g.MinSize {
		g.MaxSize = g.MinSize
	}
	rng := rand.New(rand.NewPCG(g.Seed, g.Seed^0x9e3779b97f4a7c15))
	holes := make(memory.FreeList, 0, count)
	start := 0
	for i := 0; i < count; i++ {
		size := g.MinSize + rng.IntN(g.MaxSize-g.MinSize+1)
		holes = append(holes, memory.Block{Start: start, Size: size})
		start += size + g.Gap
	}
	return holes
}
