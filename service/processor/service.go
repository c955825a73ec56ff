package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/viant/ossim/progress"
	"github.com/viant/ossim/service/messaging"
	"github.com/viant/ossim/service/messaging/memory"
	"github.com/viant/ossim/tracing"
)

// Config represents processor configuration
type Config struct {
	// WorkerCount is the number of workers running jobs
	WorkerCount int `json:"workers" yaml:"workers"`
	// Retries is how many times a failed job is run again before it is
	// reported and moved to the dead letters.
	Retries int `json:"retries,omitempty" yaml:"retries,omitempty"`
}

// DefaultConfig returns four workers and no retries.
func DefaultConfig() Config {
	return Config{WorkerCount: 4}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.WorkerCount <= 0 {
		return fmt.Errorf("processor: invalid worker count %d", c.WorkerCount)
	}
	if c.Retries < 0 {
		return fmt.Errorf("processor: invalid retries %d", c.Retries)
	}
	return nil
}

// DeadLetter is a job that failed on every attempt.
type DeadLetter struct {
	Name     string
	Err      error
	Attempts int
}

// Service runs simulation jobs on a worker pool.
type Service struct {
	config Config
	queue  messaging.Queue[Job]
	logger *slog.Logger

	startOnce sync.Once
	workers   []*worker
	workerWg  sync.WaitGroup
}

type worker struct {
	id       int
	service  *Service
	ctx      context.Context
	cancelFn context.CancelFunc
}

// New creates a processor; an in-memory queue is used unless one is supplied.
func New(options ...Option) (*Service, error) {
	s := &Service{config: DefaultConfig()}
	for _, opt := range options {
		opt(s)
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if s.queue == nil {
		cfg := memory.DefaultConfig()
		cfg.QueueBuffer = max(cfg.QueueBuffer, s.config.WorkerCount)
		cfg.MaxRetries = s.config.Retries
		cfg.DeadLetter = true
		s.queue = memory.NewQueue[Job](cfg)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Start launches the workers; subsequent calls are no-ops.
func (s *Service) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		for i := 0; i < s.config.WorkerCount; i++ {
			workerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
			w := &worker{id: i, service: s, ctx: workerCtx, cancelFn: cancel}
			s.workers = append(s.workers, w)
			s.workerWg.Add(1)
			go w.run()
		}
	})
}

// Run executes jobs and returns their outputs in submission order. A failed
// job does not stop the others; its error is carried in its Output.
func (s *Service) Run(ctx context.Context, jobs ...Job) ([]Output, error) {
	if len(jobs) == 0 {
		return nil, nil
	}
	s.Start(ctx)
	reply := make(chan Output, len(jobs))
	progress.UpdateCtx(ctx, progress.Delta{Total: len(jobs)})

	published := 0
	for i := range jobs {
		job := jobs[i]
		job.index = i
		job.reply = reply
		if job.Run == nil {
			reply <- Output{Name: job.Name, Index: i, Err: fmt.Errorf("job %s has no function", job.Name)}
			progress.UpdateCtx(ctx, progress.Delta{Failed: 1})
			published++
			continue
		}
		job.ctx = ctx
		if err := s.queue.Publish(ctx, &job); err != nil {
			return nil, fmt.Errorf("failed to publish job %s: %w", job.Name, err)
		}
		published++
	}

	outputs := make([]Output, 0, published)
	for len(outputs) < published {
		select {
		case output := <-reply:
			outputs = append(outputs, output)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	sort.Slice(outputs, func(i, j int) bool { return outputs[i].Index < outputs[j].Index })
	return outputs, nil
}

// run consumes jobs until the worker is cancelled.
func (w *worker) run() {
	defer w.service.workerWg.Done()
	for {
		msg, err := w.service.queue.Consume(w.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if msg == nil {
			continue
		}
		w.service.process(w.id, msg)
	}
}

func (s *Service) process(workerID int, msg messaging.Message[Job]) {
	job := msg.T()
	ctx := job.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	progress.UpdateCtx(ctx, progress.Delta{Running: 1})
	ctx, span := tracing.StartSpan(ctx, "simulate "+job.Name, tracing.KindConsumer)
	span.WithAttributes(map[string]string{"job.name": job.Name, "message.id": msg.ID()})

	started := time.Now()
	value, err := execute(ctx, job.Run)
	output := Output{Name: job.Name, Index: job.index, Value: value, Err: err, Elapsed: time.Since(started)}
	tracing.EndSpan(span, err)

	if err != nil {
		job.attempts++
		if job.attempts <= s.config.Retries {
			s.logger.Warn("simulation failed, retrying", "worker", workerID, "job", job.Name, "attempt", job.attempts, "error", err)
			progress.UpdateCtx(ctx, progress.Delta{Running: -1})
			if nackErr := msg.Nack(err); nackErr == nil {
				return
			}
		}
		s.logger.Error("simulation failed", "worker", workerID, "job", job.Name, "attempts", job.attempts, "error", err)
		progress.UpdateCtx(ctx, progress.Delta{Running: -1, Failed: 1})
		if nackErr := msg.Nack(err); nackErr != nil {
			s.logger.Warn("failed to nack job", "job", job.Name, "error", nackErr)
		}
		job.reply <- output
		return
	}
	s.logger.Debug("simulation finished", "worker", workerID, "job", job.Name, "elapsed", output.Elapsed)
	progress.UpdateCtx(ctx, progress.Delta{Running: -1, Completed: 1})
	_ = msg.Ack()
	job.reply <- output
}

// DeadLetters returns the jobs that failed on every attempt, when the queue
// keeps them.
func (s *Service) DeadLetters() []DeadLetter {
	queue, ok := s.queue.(messaging.DeadLetterQueue[Job])
	if !ok {
		return nil
	}
	letters := queue.DeadLetters()
	ret := make([]DeadLetter, 0, len(letters))
	for _, letter := range letters {
		ret = append(ret, DeadLetter{Name: letter.Payload.Name, Err: letter.Err, Attempts: letter.Attempts})
	}
	return ret
}

// execute runs fn, turning a panic into an error.
func execute(ctx context.Context, fn Func) (value interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

// Shutdown stops the workers.
func (s *Service) Shutdown() {
	for _, w := range s.workers {
		w.cancelFn()
	}
	s.workerWg.Wait()
}
