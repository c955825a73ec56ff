package scenario

import (
	"github.com/viant/ossim/model/memory"
	"github.com/viant/ossim/model/process"
)

// Default returns the built-in demo scenario used when no input is given.
func Default() *Scenario {
	return &Scenario{
		Name: "demo",
		Processes: process.Records{
			process.New(1, 0, 5, 2),
			process.New(2, 1, 3, 1),
			process.New(3, 2, 8, 3),
			process.New(4, 3, 6, 2),
		},
		Scheduling: Scheduling{Quantum: 4},
		Memory: Memory{
			Holes: memory.FreeList{{Start: 0, Size: 1000}},
			Requests: []memory.Request{
				{PID: 1, Size: 100},
				{PID: 2, Size: 300},
				{PID: 3, Size: 50},
				{PID: 4, Size: 200},
				{PID: 5, Size: 150},
				{PID: 6, Size: 100},
				{PID: 7, Size: 80},
			},
		},
		Paging: Paging{
			References: []int{7, 0, 1, 2, 0, 3, 0, 4, 2, 3, 0, 3, 2},
			Frames:     3,
		},
	}
}
