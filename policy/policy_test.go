package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Allow(t *testing.T) {
	var asked []string
	ask := func(_ context.Context, simulation string, _ map[string]interface{}, p *Policy) bool {
		asked = append(asked, simulation)
		if simulation == "scheduler.sjf" {
			p.Mode = ModeAuto
		}
		return simulation != "scheduler.fcfs"
	}

	testCases := []struct {
		description string
		policy      *Policy
		simulation  string
		expect      bool
	}{
		{description: "nil policy runs all", policy: nil, simulation: "scheduler.fcfs", expect: true},
		{description: "auto", policy: &Policy{Mode: ModeAuto}, simulation: "replacer.lru", expect: true},
		{description: "empty mode is auto", policy: &Policy{}, simulation: "replacer.lru", expect: true},
		{description: "deny", policy: &Policy{Mode: ModeDeny}, simulation: "replacer.lru", expect: false},
		{description: "block by kind", policy: &Policy{BlockList: []string{"allocator"}}, simulation: "allocator.best_fit", expect: false},
		{description: "block is not a prefix match on names", policy: &Policy{BlockList: []string{"alloc"}}, simulation: "allocator.best_fit", expect: true},
		{description: "allow list by name", policy: &Policy{AllowList: []string{"Scheduler.RR"}}, simulation: "scheduler.rr", expect: true},
		{description: "allow list excludes others", policy: &Policy{AllowList: []string{"scheduler.rr"}}, simulation: "scheduler.fcfs", expect: false},
		{description: "ask without func denies", policy: &Policy{Mode: ModeAsk}, simulation: "scheduler.rr", expect: false},
		{description: "ask rejects", policy: &Policy{Mode: ModeAsk, Ask: ask}, simulation: "scheduler.fcfs", expect: false},
		{description: "ask approves", policy: &Policy{Mode: ModeAsk, Ask: ask}, simulation: "scheduler.rr", expect: true},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.policy.Allow(context.Background(), tc.simulation, nil))
		})
	}

	p := &Policy{Mode: ModeAsk, Ask: ask}
	asked = nil
	assert.True(t, p.Allow(context.Background(), "scheduler.sjf", nil))
	assert.True(t, p.Allow(context.Background(), "scheduler.priority", nil))
	assert.Equal(t, []string{"scheduler.sjf"}, asked, "answer may switch the policy to auto")
}

func TestConfigRoundTrip(t *testing.T) {
	p := &Policy{Mode: ModeDeny, AllowList: []string{"a"}, BlockList: []string{"b"}}
	assert.Equal(t, p, FromConfig(ToConfig(p)))
	assert.Nil(t, ToConfig(nil))
	assert.NoError(t, (&Config{Mode: "ASK"}).Validate())
	assert.Error(t, (&Config{Mode: "sometimes"}).Validate())

	ctx := WithPolicy(context.Background(), p)
	assert.Same(t, p, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
	assert.Equal(t, "allocator.first_fit", Name("allocator", "First_Fit"))
}
