package processor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/ossim/progress"
	"github.com/viant/ossim/service/messaging/memory"
)

func TestService_Run(t *testing.T) {
	testCases := []struct {
		description string
		workers     int
		jobs        int
		failing     map[int]bool
	}{
		{description: "single worker", workers: 1, jobs: 5},
		{description: "more workers than jobs", workers: 8, jobs: 3},
		{description: "failures do not stop the run", workers: 3, jobs: 9, failing: map[int]bool{2: true, 7: true}},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			srv, err := New(WithWorkers(tc.workers))
			require.NoError(t, err)
			defer srv.Shutdown()

			var jobs []Job
			for i := 0; i < tc.jobs; i++ {
				i := i
				jobs = append(jobs, Job{
					Name: fmt.Sprintf("job.%d", i),
					Run: func(ctx context.Context) (interface{}, error) {
						// later jobs finish first
						time.Sleep(time.Duration(tc.jobs-i) * time.Millisecond)
						if tc.failing[i] {
							return nil, errors.New("boom")
						}
						return i * i, nil
					},
				})
			}

			ctx, tracker := progress.WithNewTracker(context.Background(), "run", "test", nil)
			outputs, err := srv.Run(ctx, jobs...)
			require.NoError(t, err)
			require.Len(t, outputs, tc.jobs)
			for i, output := range outputs {
				assert.Equal(t, i, output.Index)
				assert.Equal(t, fmt.Sprintf("job.%d", i), output.Name)
				if tc.failing[i] {
					assert.Error(t, output.Err)
					continue
				}
				assert.NoError(t, output.Err)
				assert.Equal(t, i*i, output.Value)
			}
			snapshot := tracker.Snapshot()
			assert.Equal(t, tc.jobs, snapshot.Total)
			assert.Equal(t, len(tc.failing), snapshot.Failed)
			assert.Equal(t, tc.jobs-len(tc.failing), snapshot.Completed)
			assert.True(t, tracker.Done())
		})
	}
}

func TestService_RunRecoversPanicsAndMissingFunc(t *testing.T) {
	srv, err := New(WithWorkers(2))
	require.NoError(t, err)
	defer srv.Shutdown()

	outputs, err := srv.Run(context.Background(),
		Job{Name: "panics", Run: func(ctx context.Context) (interface{}, error) { panic("bad input") }},
		Job{Name: "empty"},
		Job{Name: "ok", Run: func(ctx context.Context) (interface{}, error) { return "done", nil }},
	)
	require.NoError(t, err)
	require.Len(t, outputs, 3)
	assert.ErrorContains(t, outputs[0].Err, "bad input")
	assert.Error(t, outputs[1].Err)
	assert.Equal(t, "done", outputs[2].Value)

	again, err := srv.Run(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, again)
}

func TestNew_InvalidWorkers(t *testing.T) {
	_, err := New(WithWorkers(0))
	assert.Error(t, err)
}

func TestService_Retries(t *testing.T) {
	testCases := []struct {
		description string
		retries     int
		failures    int32
		expectErr   bool
		attempts    int32
		deadLetters int
	}{
		{description: "no retries moves the job to dead letters", retries: 0, failures: 1, expectErr: true, attempts: 1, deadLetters: 1},
		{description: "retry recovers a failing job", retries: 2, failures: 2, attempts: 3},
		{description: "retries exhausted", retries: 1, failures: 5, expectErr: true, attempts: 2, deadLetters: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			srv, err := New(WithConfig(Config{WorkerCount: 2, Retries: tc.retries}))
			require.NoError(t, err)
			defer srv.Shutdown()

			var calls atomic.Int32
			ctx, tracker := progress.WithNewTracker(context.Background(), "run", "test", nil)
			outputs, err := srv.Run(ctx, Job{Name: "replacer.lru", Run: func(ctx context.Context) (interface{}, error) {
				if calls.Add(1) <= tc.failures {
					return nil, errors.New("transient")
				}
				return "ok", nil
			}})
			require.NoError(t, err)
			require.Len(t, outputs, 1)
			assert.Equal(t, tc.attempts, calls.Load())
			if tc.expectErr {
				assert.Error(t, outputs[0].Err)
			} else {
				assert.NoError(t, outputs[0].Err)
				assert.Equal(t, "ok", outputs[0].Value)
			}

			letters := srv.DeadLetters()
			require.Len(t, letters, tc.deadLetters)
			if tc.deadLetters > 0 {
				assert.Equal(t, "replacer.lru", letters[0].Name)
				assert.Equal(t, tc.retries+1, letters[0].Attempts)
				assert.ErrorContains(t, letters[0].Err, "transient")
			}
			snapshot := tracker.Snapshot()
			assert.Equal(t, 1, snapshot.Total)
			assert.Equal(t, 0, snapshot.Running)
			assert.True(t, tracker.Done())
		})
	}
}

func TestService_WithMessageQueue(t *testing.T) {
	queue := memory.NewQueue[Job](memory.Config{QueueBuffer: 1, DeadLetter: true})
	srv, err := New(WithWorkers(1), WithMessageQueue(queue))
	require.NoError(t, err)
	defer srv.Shutdown()

	var jobs []Job
	for i := 0; i < 4; i++ {
		jobs = append(jobs, Job{Name: fmt.Sprintf("scheduler.%d", i), Run: func(ctx context.Context) (interface{}, error) {
			if i == 2 {
				return nil, errors.New("unknown policy")
			}
			return i, nil
		}})
	}
	outputs, err := srv.Run(context.Background(), jobs...)
	require.NoError(t, err)
	require.Len(t, outputs, 4)
	assert.Equal(t, 3, outputs[3].Value)
	assert.Error(t, outputs[2].Err)

	dead := queue.DeadLetters()
	require.Len(t, dead, 1)
	assert.Equal(t, "scheduler.2", dead[0].Payload.Name)
	assert.Equal(t, []DeadLetter{{Name: "scheduler.2", Err: dead[0].Err, Attempts: 1}}, srv.DeadLetters())
	assert.Equal(t, 0, queue.Size())
}
