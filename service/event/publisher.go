package event

import (
	"context"

	"github.com/viant/ossim/internal/clock"
	"github.com/viant/ossim/service/messaging"
)

type Publisher[T any] struct {
	queue    messaging.Queue[Event[T]]
	anyQueue messaging.Queue[Event[any]]
	// listened and anyListened report whether anyone consumes the queues;
	// events nobody listens to are dropped.
	listened    func() bool
	anyListened func() bool
}

func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{
		queue: queue,
	}
}

// Publish sends event to the typed queue and mirrors it on the untyped one.
func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	event.CreatedAt = clock.Now()
	if p.anyQueue != nil && (p.anyListened == nil || p.anyListened()) {
		if err := p.anyQueue.Publish(ctx, &Event[any]{
			Context:   event.Context,
			CreatedAt: event.CreatedAt,
			Metadata:  event.Metadata,
			Data:      event.Data,
		}); err != nil {
			return err
		}
	}
	if p.listened != nil && !p.listened() {
		return nil
	}
	return p.queue.Publish(ctx, event)
}

// Consume blocks until an event is available or ctx is done.
func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}
