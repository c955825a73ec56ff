package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/ossim/internal/idgen"
	"github.com/viant/ossim/service/messaging"
)

// Config for the in-memory queue.
type Config struct {
	// MaxRetries is how many times a nacked message is requeued.
	MaxRetries int
	// DeadLetter keeps messages that ran out of retries.
	DeadLetter bool
	// QueueBuffer is the channel capacity.
	QueueBuffer int
}

// DefaultConfig returns no retries, a dead letter list and a 100 message buffer.
func DefaultConfig() Config {
	return Config{
		MaxRetries:  0,
		DeadLetter:  true,
		QueueBuffer: 100,
	}
}

// Message is an in-memory queue message.
type Message[T any] struct {
	id        string
	payload   T
	queue     *Queue[T]
	attempts  int
	lastErr   error
	mu        sync.Mutex
	processed bool
}

// ID returns the message identifier.
func (m *Message[T]) ID() string {
	return m.id
}

// T returns the message payload.
func (m *Message[T]) T() *T {
	return &m.payload
}

// Attempts returns how many times the message was nacked.
func (m *Message[T]) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

// Err returns the last Nack error.
func (m *Message[T]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Ack acknowledges the message as processed successfully.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.processed = true
	return nil
}

// Nack requeues the message while retries remain, otherwise moves it to the
// dead letter list when enabled.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	if m.processed {
		m.mu.Unlock()
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.processed = true
	m.attempts++
	m.lastErr = err
	retry := &Message[T]{id: m.id, payload: m.payload, queue: m.queue, attempts: m.attempts, lastErr: err}
	attempts := m.attempts
	m.mu.Unlock()

	q := m.queue
	if attempts <= q.config.MaxRetries {
		// the consumer calling Nack may be the only reader of a full buffer
		go func() { q.messages <- retry }()
		return nil
	}
	if q.config.DeadLetter {
		q.dlqMu.Lock()
		q.dlq = append(q.dlq, retry)
		q.dlqMu.Unlock()
	}
	return nil
}

// Queue is an in-memory, channel backed messaging.Queue.
type Queue[T any] struct {
	messages chan *Message[T]
	dlq      []*Message[T]
	config   Config
	dlqMu    sync.Mutex
}

// NewQueue creates a new in-memory queue.
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.QueueBuffer),
		config:   config,
	}
}

// Publish adds a copy of t to the queue, blocking while the buffer is full.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if t == nil {
		return fmt.Errorf("nil payload")
	}
	msg := &Message[T]{
		id:      idgen.New(),
		payload: *t,
		queue:   q,
	}
	select {
	case q.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume retrieves a single message from the queue.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the current number of queued messages.
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// DeadLetters returns the messages that ran out of retries.
func (q *Queue[T]) DeadLetters() []messaging.DeadLetter[T] {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	ret := make([]messaging.DeadLetter[T], 0, len(q.dlq))
	for _, msg := range q.dlq {
		ret = append(ret, messaging.DeadLetter[T]{ID: msg.id, Payload: msg.payload, Err: msg.Err(), Attempts: msg.Attempts()})
	}
	return ret
}

var (
	_ messaging.Queue[any]           = (*Queue[any])(nil)
	_ messaging.DeadLetterQueue[any] = (*Queue[any])(nil)
)
