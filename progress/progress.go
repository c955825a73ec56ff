package progress

import (
	"context"
	"sync"
	"time"
)

// Delta is an incremental counter change; fields may be negative.
type Delta struct {
	Total     int
	Completed int
	Skipped   int
	Failed    int
	Running   int
}

// Progress keeps simulation counters. It is safe for concurrent use.
type Progress struct {
	RunID     string
	Scenario  string
	StartedAt time.Time

	Total     int
	Completed int
	Skipped   int
	Failed    int
	Running   int

	sync.Mutex
	onChange func(Progress)
}

// Update applies d and invokes the onChange callback, if any, outside the
// lock with a copy of the counters.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.Lock()
	p.Total += d.Total
	p.Completed += d.Completed
	p.Skipped += d.Skipped
	p.Failed += d.Failed
	p.Running += d.Running
	snapshot := p.copy()
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the counters.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copy()
}

// Done reports whether every counted simulation finished or was skipped.
func (p *Progress) Done() bool {
	s := p.Snapshot()
	return s.Running == 0 && s.Completed+s.Failed+s.Skipped == s.Total
}

// OnChange registers the update callback; nil disables it.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

func (p *Progress) copy() Progress {
	return Progress{
		RunID:     p.RunID,
		Scenario:  p.Scenario,
		StartedAt: p.StartedAt,
		Total:     p.Total,
		Completed: p.Completed,
		Skipped:   p.Skipped,
		Failed:    p.Failed,
		Running:   p.Running,
	}
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker embeds a new tracker in a derived context.
func WithNewTracker(ctx context.Context, runID, scenario string, onChange func(Progress)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		RunID:     runID,
		Scenario:  scenario,
		StartedAt: time.Now(),
		onChange:  onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// UpdateCtx applies d to the tracker in ctx, if any.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
