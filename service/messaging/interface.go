// Package messaging defines the queue that feeds simulation jobs to the
// processor workers.
package messaging

import (
	"context"
)

// Queue is a message queue for any payload type.
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue
	Publish(ctx context.Context, t *T) error

	// Consume blocks until a message is available or ctx is done
	Consume(ctx context.Context) (Message[T], error)
}

// Message is a message retrieved from a queue.
type Message[T any] interface {
	// ID returns the message identifier
	ID() string

	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack indicates failure in processing this message
	Nack(err error) error
}

// DeadLetter is a message that failed processing on every attempt.
type DeadLetter[T any] struct {
	ID       string
	Payload  T
	Err      error
	Attempts int
}

// DeadLetterQueue is implemented by queues that keep dead letters.
type DeadLetterQueue[T any] interface {
	DeadLetters() []DeadLetter[T]
}
