package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/ossim/model/process"
	"github.com/viant/ossim/model/timeline"
)

func seg(label string, start, finish int) timeline.Segment {
	return timeline.Segment{Label: label, Start: start, Finish: finish}
}

func textbook() process.Records {
	return process.Records{
		process.New(1, 0, 5, 2),
		process.New(2, 1, 3, 1),
		process.New(3, 2, 8, 3),
	}
}

func TestSchedule(t *testing.T) {
	testCases := []struct {
		description string
		policy      string
		options     []Option
		records     process.Records
		segments    []timeline.Segment
		order       []int
		waiting     map[int]int
		first       map[int]int
	}{
		{
			description: "fcfs textbook",
			policy:      FCFS,
			records:     textbook(),
			segments:    []timeline.Segment{seg("P1", 0, 5), seg("P2", 5, 8), seg("P3", 8, 16)},
			order:       []int{1, 2, 3},
			waiting:     map[int]int{1: 0, 2: 4, 3: 6},
			first:       map[int]int{1: 0, 2: 5, 3: 8},
		},
		{
			description: "fcfs with idle gaps",
			policy:      FCFS,
			records:     process.Records{process.New(1, 2, 3, 0), process.New(2, 10, 2, 0)},
			segments:    []timeline.Segment{seg(timeline.IdleLabel, 0, 2), seg("P1", 2, 5), seg(timeline.IdleLabel, 5, 10), seg("P2", 10, 12)},
			order:       []int{1, 2},
			waiting:     map[int]int{1: 0, 2: 0},
			first:       map[int]int{1: 2, 2: 10},
		},
		{
			description: "fcfs sorts its copy by arrival",
			policy:      FCFS,
			records:     process.Records{process.New(2, 3, 2, 0), process.New(1, 0, 4, 0)},
			segments:    []timeline.Segment{seg("P1", 0, 4), seg("P2", 4, 6)},
			order:       []int{1, 2},
			waiting:     map[int]int{1: 0, 2: 1},
		},
		{
			description: "sjf picks shortest arrived job",
			policy:      SJF,
			records: process.Records{
				process.New(1, 0, 7, 0),
				process.New(2, 2, 4, 0),
				process.New(3, 4, 1, 0),
				process.New(4, 5, 4, 0),
			},
			segments: []timeline.Segment{seg("P1", 0, 7), seg("P3", 7, 8), seg("P2", 8, 12), seg("P4", 12, 16)},
			order:    []int{1, 3, 2, 4},
			waiting:  map[int]int{1: 0, 2: 6, 3: 3, 4: 7},
		},
		{
			description: "sjf breaks burst ties by input order",
			policy:      SJF,
			records: process.Records{
				process.New(1, 0, 2, 0),
				process.New(2, 0, 4, 0),
				process.New(3, 0, 4, 0),
				process.New(4, 0, 1, 0),
			},
			segments: []timeline.Segment{seg("P4", 0, 1), seg("P1", 1, 3), seg("P2", 3, 7), seg("P3", 7, 11)},
			order:    []int{4, 1, 2, 3},
		},
		{
			description: "sjf idles until next arrival",
			policy:      SJF,
			records:     process.Records{process.New(1, 4, 2, 0), process.New(2, 4, 1, 0)},
			segments:    []timeline.Segment{seg(timeline.IdleLabel, 0, 4), seg("P2", 4, 5), seg("P1", 5, 7)},
			order:       []int{2, 1},
		},
		{
			description: "round robin textbook quantum 4",
			policy:      RoundRobin,
			records:     textbook(),
			segments: []timeline.Segment{
				seg("P1", 0, 4), seg("P2", 4, 7), seg("P3", 7, 11), seg("P1", 11, 12), seg("P3", 12, 16),
			},
			order:   []int{1, 2, 3},
			waiting: map[int]int{1: 7, 2: 3, 3: 6},
			first:   map[int]int{1: 0, 2: 4, 3: 7},
		},
		{
			description: "round robin admits arrivals before requeue",
			policy:      RoundRobin,
			options:     []Option{WithQuantum(2)},
			records:     process.Records{process.New(1, 0, 4, 0), process.New(2, 2, 2, 0)},
			segments:    []timeline.Segment{seg("P1", 0, 2), seg("P2", 2, 4), seg("P1", 4, 6)},
			order:       []int{1, 2},
			waiting:     map[int]int{1: 2, 2: 0},
		},
		{
			description: "round robin idles on empty queue",
			policy:      RoundRobin,
			records:     process.Records{process.New(1, 2, 3, 0), process.New(2, 10, 2, 0)},
			segments:    []timeline.Segment{seg(timeline.IdleLabel, 0, 2), seg("P1", 2, 5), seg(timeline.IdleLabel, 5, 10), seg("P2", 10, 12)},
			order:       []int{1, 2},
		},
		{
			description: "round robin reports metrics by id",
			policy:      RoundRobin,
			options:     []Option{WithQuantum(1)},
			records:     process.Records{process.New(9, 0, 3, 0), process.New(3, 0, 1, 0)},
			segments:    []timeline.Segment{seg("P9", 0, 1), seg("P3", 1, 2), seg("P9", 2, 3), seg("P9", 3, 4)},
			order:       []int{3, 9},
		},
		{
			description: "priority higher value first (default)",
			policy:      Priority,
			records:     textbook(),
			segments:    []timeline.Segment{seg("P1", 0, 5), seg("P3", 5, 13), seg("P2", 13, 16)},
			order:       []int{1, 3, 2},
			waiting:     map[int]int{1: 0, 2: 12, 3: 3},
		},
		{
			description: "priority lower value first",
			policy:      Priority,
			options:     []Option{WithPriorityOrder(LowerFirst)},
			records:     textbook(),
			segments:    []timeline.Segment{seg("P1", 0, 5), seg("P2", 5, 8), seg("P3", 8, 16)},
			order:       []int{1, 2, 3},
		},
		{
			description: "priority ties go to input order",
			policy:      Priority,
			records: process.Records{
				process.New(1, 0, 1, 0),
				process.New(2, 1, 2, 5),
				process.New(3, 1, 3, 5),
			},
			segments: []timeline.Segment{seg("P1", 0, 1), seg("P2", 1, 3), seg("P3", 3, 6)},
			order:    []int{1, 2, 3},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			srv, err := New(tc.policy, tc.options...)
			require.NoError(t, err)
			result, err := srv.Schedule(tc.records)
			require.NoError(t, err)
			assert.Equal(t, tc.policy, result.Policy)
			assert.Equal(t, tc.segments, result.Timeline.Segments)
			var order []int
			for _, m := range result.Metrics {
				order = append(order, m.ID)
			}
			assert.Equal(t, tc.order, order)
			for id, expected := range tc.waiting {
				assert.Equal(t, expected, result.Metric(id).Waiting, "waiting P%d", id)
			}
			for id, expected := range tc.first {
				assert.Equal(t, expected, result.Metric(id).FirstDispatch, "first dispatch P%d", id)
			}
			assert.NoError(t, result.Timeline.Validate())
		})
	}
}

func TestFCFS_Textbook(t *testing.T) {
	srv, err := New(FCFS)
	require.NoError(t, err)
	result, err := srv.Schedule(textbook())
	require.NoError(t, err)
	assert.Equal(t, 5, result.Metric(1).Completion)
	assert.Equal(t, 8, result.Metric(2).Completion)
	assert.Equal(t, 16, result.Metric(3).Completion)
	assert.InDelta(t, 10.0/3.0, result.AverageWaiting(), 1e-9)
	assert.InDelta(t, 26.0/3.0, result.AverageTurnaround(), 1e-9)
	assert.Equal(t, 16, result.Makespan())
	assert.InDelta(t, 3.0/16.0, result.Throughput(), 1e-9)
}

func TestSchedule_EmptyInput(t *testing.T) {
	for _, name := range Policies {
		t.Run(name, func(t *testing.T) {
			srv, err := New(name)
			require.NoError(t, err)
			result, err := srv.Schedule(nil)
			require.NoError(t, err)
			assert.True(t, result.Empty())
			assert.True(t, result.Timeline.Empty())
			assert.Equal(t, 0.0, result.AverageWaiting())
			assert.Equal(t, 0.0, result.Throughput())
		})
	}
}

func TestSchedule_ZeroBurst(t *testing.T) {
	records := process.Records{process.New(1, 0, 0, 9), process.New(2, 0, 3, 0)}
	for _, name := range Policies {
		for _, keep := range []bool{false, true} {
			srv, err := New(name, WithKeepZeroLength(keep))
			require.NoError(t, err)
			result, err := srv.Schedule(records)
			require.NoError(t, err, name)

			zero := result.Metric(1)
			require.NotNil(t, zero, name)
			assert.Equal(t, 0, zero.FirstDispatch, name)
			assert.Equal(t, 0, zero.Completion, name)
			assert.Equal(t, 0, zero.Waiting, name)
			assert.Equal(t, 3, result.Metric(2).Completion, name)

			expected := []timeline.Segment{seg("P2", 0, 3)}
			if keep {
				expected = []timeline.Segment{seg("P1", 0, 0), seg("P2", 0, 3)}
			}
			assert.Equal(t, expected, result.Timeline.Segments, "%s keep=%v", name, keep)
			assert.NoError(t, result.Timeline.Validate())
		}
	}
}

func TestSchedule_InvalidInput(t *testing.T) {
	testCases := []struct {
		description string
		records     process.Records
		expected    error
	}{
		{description: "negative burst", records: process.Records{process.New(1, 0, -1, 0)}, expected: process.ErrInvalidRecord},
		{description: "negative arrival", records: process.Records{process.New(1, -2, 1, 0)}, expected: process.ErrInvalidRecord},
		{description: "duplicate id", records: process.Records{process.New(1, 0, 1, 0), process.New(1, 1, 1, 0)}, expected: process.ErrDuplicateID},
	}
	for _, tc := range testCases {
		for _, name := range Policies {
			srv, err := New(name)
			require.NoError(t, err)
			_, err = srv.Schedule(tc.records)
			assert.ErrorIs(t, err, tc.expected, "%s: %s", name, tc.description)
		}
	}
}

func TestNew(t *testing.T) {
	_, err := New("lottery")
	assert.ErrorIs(t, err, ErrUnknownPolicy)

	_, err = New(RoundRobin, WithQuantum(0))
	assert.ErrorIs(t, err, ErrInvalidQuantum)

	_, err = New(Priority, WithPriorityOrder("sideways"))
	assert.Error(t, err)

	for alias, expected := range map[string]string{"FIFO": FCFS, "Round_Robin": RoundRobin, " SJF ": SJF, "prio": Priority} {
		srv, err := New(alias)
		require.NoError(t, err)
		assert.Equal(t, expected, srv.Name())
	}
}

func TestSchedule_DoesNotMutateInput(t *testing.T) {
	records := process.Records{process.New(2, 3, 2, 0), process.New(1, 0, 4, 0)}
	snapshot := records.Clone()
	for _, name := range Policies {
		srv, err := New(name)
		require.NoError(t, err)
		first, err := srv.Schedule(records)
		require.NoError(t, err)
		second, err := srv.Schedule(records)
		require.NoError(t, err)
		assert.Equal(t, snapshot, records, name)
		assert.Equal(t, first, second, name)
	}
}
