package allocator

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/ossim/model/memory"
	"github.com/viant/ossim/model/process"
)

func holes(pairs ...int) memory.FreeList {
	var result memory.FreeList
	for i := 0; i+1 < len(pairs); i += 2 {
		result = append(result, memory.Block{Start: pairs[i], Size: pairs[i+1]})
	}
	return result
}

func TestService_Run(t *testing.T) {
	testCases := []struct {
		description string
		strategy    Strategy
		holes       memory.FreeList
		requests    []memory.Request
		allocated   []memory.Block
		failed      []int
		free        memory.FreeList
	}{
		{
			description: "first fit takes the first hole large enough",
			strategy:    FirstFit,
			holes:       holes(0, 250, 300, 150, 500, 300, 850, 150),
			requests:    []memory.Request{{PID: 1, Size: 200}},
			allocated:   []memory.Block{{Start: 0, Size: 200}},
			free:        holes(200, 50, 300, 150, 500, 300, 850, 150),
		},
		{
			description: "best fit takes the smallest sufficient hole",
			strategy:    BestFit,
			holes:       holes(0, 250, 300, 150, 500, 300, 850, 150),
			requests:    []memory.Request{{PID: 1, Size: 200}},
			allocated:   []memory.Block{{Start: 0, Size: 200}},
			free:        holes(200, 50, 300, 150, 500, 300, 850, 150),
		},
		{
			description: "worst fit takes the largest hole",
			strategy:    WorstFit,
			holes:       holes(0, 250, 300, 150, 500, 300, 850, 150),
			requests:    []memory.Request{{PID: 1, Size: 200}},
			allocated:   []memory.Block{{Start: 500, Size: 200}},
			free:        holes(0, 250, 300, 150, 700, 100, 850, 150),
		},
		{
			description: "first fit diverging list",
			strategy:    FirstFit,
			holes:       holes(0, 300, 400, 120, 600, 500, 1200, 150),
			requests:    []memory.Request{{PID: 1, Size: 100}},
			allocated:   []memory.Block{{Start: 0, Size: 100}},
			free:        holes(100, 200, 400, 120, 600, 500, 1200, 150),
		},
		{
			description: "best fit diverging list",
			strategy:    BestFit,
			holes:       holes(0, 300, 400, 120, 600, 500, 1200, 150),
			requests:    []memory.Request{{PID: 1, Size: 100}},
			allocated:   []memory.Block{{Start: 400, Size: 100}},
			free:        holes(0, 300, 500, 20, 600, 500, 1200, 150),
		},
		{
			description: "worst fit diverging list",
			strategy:    WorstFit,
			holes:       holes(0, 300, 400, 120, 600, 500, 1200, 150),
			requests:    []memory.Request{{PID: 1, Size: 100}},
			allocated:   []memory.Block{{Start: 600, Size: 100}},
			free:        holes(0, 300, 400, 120, 700, 400, 1200, 150),
		},
		{
			description: "best fit ties go to the first hole",
			strategy:    BestFit,
			holes:       holes(0, 200, 300, 200),
			requests:    []memory.Request{{PID: 1, Size: 50}},
			allocated:   []memory.Block{{Start: 0, Size: 50}},
			free:        holes(50, 150, 300, 200),
		},
		{
			description: "worst fit ties go to the first hole",
			strategy:    WorstFit,
			holes:       holes(0, 200, 300, 200),
			requests:    []memory.Request{{PID: 1, Size: 50}},
			allocated:   []memory.Block{{Start: 0, Size: 50}},
			free:        holes(50, 150, 300, 200),
		},
		{
			description: "exact fit removes the hole",
			strategy:    FirstFit,
			holes:       holes(0, 100, 200, 50),
			requests:    []memory.Request{{PID: 1, Size: 100}},
			allocated:   []memory.Block{{Start: 0, Size: 100}},
			free:        holes(200, 50),
		},
		{
			description: "failure leaves the list unchanged and the run continues",
			strategy:    BestFit,
			holes:       holes(0, 100, 200, 50),
			requests:    []memory.Request{{PID: 1, Size: 150}, {PID: 2, Size: 40}},
			allocated:   []memory.Block{{Start: 200, Size: 40}},
			failed:      []int{1},
			free:        holes(0, 100, 240, 10),
		},
		{
			description: "no coalescing of residual holes",
			strategy:    FirstFit,
			holes:       holes(0, 100, 100, 100),
			requests:    []memory.Request{{PID: 1, Size: 60}, {PID: 2, Size: 120}},
			allocated:   []memory.Block{{Start: 0, Size: 60}},
			failed:      []int{2},
			free:        holes(60, 40, 100, 100),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			srv, err := New(string(tc.strategy))
			require.NoError(t, err)
			original := tc.holes.Clone()
			result, err := srv.Run(tc.holes, tc.requests)
			require.NoError(t, err)

			assert.Equal(t, tc.allocated, result.Allocated())
			assert.Equal(t, tc.free, result.Free)
			assert.Equal(t, original, tc.holes, "input free-list must not be mutated")
			assert.Equal(t, original, result.Initial)
			var failed []int
			for _, outcome := range result.Outcomes {
				if !outcome.Allocated() {
					assert.ErrorIs(t, outcome.Err, ErrAllocationFailure)
					failed = append(failed, outcome.Request.PID)
				}
			}
			assert.Equal(t, tc.failed, failed)
			assert.Equal(t, len(tc.failed), result.Failures())
		})
	}
}

func TestService_RunSingleHoleSequence(t *testing.T) {
	requests := []memory.Request{
		{PID: 1, Size: 100}, {PID: 2, Size: 300}, {PID: 3, Size: 50}, {PID: 4, Size: 200},
		{PID: 5, Size: 150}, {PID: 6, Size: 100}, {PID: 7, Size: 80},
	}
	expected := []memory.Block{
		{Start: 0, Size: 100}, {Start: 100, Size: 300}, {Start: 400, Size: 50}, {Start: 450, Size: 200},
		{Start: 650, Size: 150}, {Start: 800, Size: 100}, {Start: 900, Size: 80},
	}
	for _, strategy := range Strategies {
		srv, err := New(string(strategy))
		require.NoError(t, err)
		result, err := srv.Run(holes(0, 1000), requests)
		require.NoError(t, err)
		assert.Equal(t, expected, result.Allocated(), strategy)
		assert.Equal(t, holes(980, 20), result.Free, strategy)
		assert.Equal(t, 0, result.Failures())
		assert.Equal(t, 0, result.Fragmentation())
	}
}

func TestService_AllocateInvalidAndEmpty(t *testing.T) {
	srv, err := New("first-fit")
	require.NoError(t, err)
	free := holes(0, 10)
	_, err = srv.Allocate(&free, 0)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Equal(t, holes(0, 10), free)

	result, err := srv.Run(free, nil)
	require.NoError(t, err)
	assert.True(t, result.Empty())
	assert.Equal(t, free, result.Free)
}

func TestService_RejectsInvalidFreeList(t *testing.T) {
	testCases := []struct {
		description string
		holes       memory.FreeList
	}{
		{description: "overlapping holes", holes: holes(0, 100, 40, 100)},
		{description: "empty hole", holes: holes(0, 100, 200, 0)},
		{description: "negative start", holes: holes(-10, 50)},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			srv, err := New(string(FirstFit))
			require.NoError(t, err)
			result, err := srv.Run(tc.holes, []memory.Request{{PID: 1, Size: 100}, {PID: 2, Size: 100}})
			assert.ErrorIs(t, err, ErrInvalidFreeList)
			assert.Nil(t, result)

			free := tc.holes.Clone()
			_, err = srv.Allocate(&free, 10)
			assert.ErrorIs(t, err, ErrInvalidFreeList)
			assert.Equal(t, tc.holes, free)
		})
	}
}

func TestNew_UnknownStrategy(t *testing.T) {
	_, err := New("next_fit")
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	for name, expected := range map[string]Strategy{"BEST-FIT": BestFit, "worstfit": WorstFit, "first fit": FirstFit} {
		srv, err := New(name)
		require.NoError(t, err)
		assert.Equal(t, expected, srv.Strategy())
	}
}

func TestService_AddressSpaceInvariant(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		initial := Generate(memory.Generator{Seed: seed, MinSize: 50, MaxSize: 300, Gap: 25}, 8)
		rng := rand.New(rand.NewPCG(seed, 7))
		var requests []memory.Request
		for pid := 1; pid <= 15; pid++ {
			requests = append(requests, memory.Request{PID: pid, Size: 1 + rng.IntN(250)})
		}
		for _, strategy := range Strategies {
			srv, err := New(string(strategy))
			require.NoError(t, err)
			result, err := srv.Run(initial, requests)
			require.NoError(t, err)

			allocated := result.Allocated()
			require.NoError(t, memory.Disjoint(allocated, result.Free), "%s seed %d", strategy, seed)
			total := result.Free.Total()
			for _, block := range allocated {
				total += block.Size
				assert.True(t, within(initial, block), "%s: %v outside original holes", strategy, block)
			}
			assert.Equal(t, initial.Total(), total, "%s seed %d", strategy, seed)
		}
	}
}

func within(holes memory.FreeList, block memory.Block) bool {
	for _, hole := range holes {
		if block.Start >= hole.Start && block.End() <= hole.End() {
			return true
		}
	}
	return false
}

func TestBestFit_NeverLeavesLargerResidualThanWorstFit(t *testing.T) {
	best, err := New(string(BestFit))
	require.NoError(t, err)
	worst, err := New(string(WorstFit))
	require.NoError(t, err)
	for seed := uint64(1); seed <= 20; seed++ {
		list := Generate(memory.Generator{Seed: seed, MinSize: 10, MaxSize: 400, Gap: 5}, 10)
		for size := 1; size <= 400; size += 13 {
			b, w := best.Select(list, size), worst.Select(list, size)
			if b == -1 || w == -1 {
				assert.Equal(t, b, w, "both strategies must agree on failure")
				continue
			}
			assert.LessOrEqual(t, list[b].Size-size, list[w].Size-size)
		}
	}
}

func TestGenerate(t *testing.T) {
	g := memory.DefaultGenerator()
	first := Generate(g, 6)
	second := Generate(g, 6)
	assert.Equal(t, first, second)
	require.Len(t, first, 6)
	require.NoError(t, first.Validate())
	for i, hole := range first {
		assert.GreaterOrEqual(t, hole.Size, 100)
		assert.LessOrEqual(t, hole.Size, 200)
		if i > 0 {
			assert.Equal(t, first[i-1].End()+10, hole.Start)
		}
	}
	assert.Empty(t, Generate(g, 0))
}

func TestRequestsOf(t *testing.T) {
	records := process.Records{process.New(1, 0, 1, 0), {ID: 2, Arrival: 0, Burst: 1, Memory: 250}}
	assert.Equal(t, []memory.Request{{PID: 1, Size: 100}, {PID: 2, Size: 250}}, memory.RequestsOf(records))
}
