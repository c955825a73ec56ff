package event

import (
	"time"

	"github.com/viant/ossim/internal/clock"
)

// Event types.
const (
	TypeSimulationDone   = "simulation.done"
	TypeSimulationFailed = "simulation.failed"
)

// Context describes where an event comes from.
type Context struct {
	RunID       string `json:"runID"`
	Scenario    string `json:"scenario"`
	Simulation  string `json:"simulation"`
	EventType   string `json:"eventType"`
	TimeTakenMs int    `json:"timeTakenMs"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
