package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/ossim/policy"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	table := filepath.Join(dir, "processes.txt")
	require.NoError(t, os.WriteFile(table, []byte("PID Arrival Burst Priority\n1 0 5 2\n2 1 3 1\n3 2 8 3\n"), 0o644))

	testCases := []struct {
		description string
		options     Options
		input       string
		code        int
		contains    []string
		excludes    []string
	}{
		{
			description: "demo",
			options:     Options{LogLevel: "error"},
			contains:    []string{"Scenario: demo", "CPU scheduling: RR", "FIFO page faults: 10", "LRU page faults: 9"},
		},
		{
			description: "process table with only schedulers",
			options:     Options{LogLevel: "error", Processes: table, Only: "scheduler", Quantum: 2},
			contains:    []string{"CPU scheduling: FCFS", "CPU scheduling: PRIORITY"},
			excludes:    []string{"Memory allocation", "Paging:"},
		},
		{
			description: "ask with all",
			options:     Options{LogLevel: "error", Ask: true, Skip: "allocator"},
			input:       "n\nmaybe\na\n",
			contains:    []string{"Run scheduler.fcfs (processes=4)? [y/n/a/q]: ", "please answer y or n", "CPU scheduling: SJF", "replacer.lru"},
			excludes:    []string{"CPU scheduling: FCFS", "Memory allocation"},
		},
		{
			description: "invalid priority order",
			options:     Options{LogLevel: "error", Priority: "sideways"},
			code:        2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			out := new(bytes.Buffer)
			code, err := Run(context.Background(), &tc.options, strings.NewReader(tc.input), out)
			assert.Equal(t, tc.code, code)
			if tc.code != 0 {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, expected := range tc.contains {
				assert.Contains(t, out.String(), expected)
			}
			for _, unexpected := range tc.excludes {
				assert.NotContains(t, out.String(), unexpected)
			}
		})
	}
}

func TestRun_Expect(t *testing.T) {
	dir := t.TempDir()
	expected := filepath.Join(dir, "expected.txt")
	out := new(bytes.Buffer)
	code, err := Run(context.Background(), &Options{LogLevel: "error", Out: expected}, nil, out)
	require.NoError(t, err)
	require.Equal(t, 0, code)

	code, err = Run(context.Background(), &Options{LogLevel: "error", Expect: expected}, nil, new(bytes.Buffer))
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	code, err = Run(context.Background(), &Options{LogLevel: "error", Expect: expected, Frames: 4}, nil, out)
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Contains(t, out.String(), "report differs from")
}

func TestNewAsk(t *testing.T) {
	p := &policy.Policy{Mode: policy.ModeAsk}
	out := new(bytes.Buffer)
	p.Ask = NewAsk(strings.NewReader("y\nq\n"), out)
	ctx := context.Background()
	assert.True(t, p.Allow(ctx, "scheduler.fcfs", nil))
	assert.False(t, p.Allow(ctx, "scheduler.sjf", map[string]interface{}{"processes": 3}))
	assert.Equal(t, policy.ModeDeny, p.Mode)
	assert.False(t, p.Allow(ctx, "scheduler.rr", nil))
	assert.Contains(t, out.String(), "Run scheduler.sjf (processes=3)? ")

	p = &policy.Policy{Mode: policy.ModeAsk, Ask: NewAsk(strings.NewReader(""), out)}
	assert.False(t, p.Allow(ctx, "replacer.lru", nil), "end of input declines")
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"scheduler", "replacer.lru"}, split(" scheduler, ,replacer.lru "))
	assert.Nil(t, split(""))
}
