// Package event publishes simulation events to typed in-memory queues and
// dispatches them to listeners.
package event

import (
	"log/slog"
	"reflect"
	"sync"

	"github.com/viant/ossim/service/messaging"
	"github.com/viant/ossim/service/messaging/memory"
)

type Service struct {
	publisher       *Publisher[any]
	listener        *Listener[any]
	typedPublishers map[reflect.Type]any
	typedListener   map[reflect.Type]any
	mux             *sync.RWMutex
	newQueueConfig  func(name string) memory.Config
	logger          *slog.Logger
}

// SetListener handles every event regardless of its data type.
func (s *Service) SetListener(handler func(*Event[any])) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener != nil {
		s.listener.Stop()
	}
	s.listener = NewListener[any](s.publisher, handler, s.logger)
	s.listener.Start()
}

// Close stops all listeners.
func (s *Service) Close() {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener != nil {
		s.listener.Stop()
		s.listener = nil
	}
	for key, listener := range s.typedListener {
		listener.(interface{ Stop() }).Stop()
		delete(s.typedListener, key)
	}
}

func New(opts ...Option) *Service {
	ret := &Service{
		typedPublishers: make(map[reflect.Type]any),
		typedListener:   make(map[reflect.Type]any),
		mux:             &sync.RWMutex{},
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.newQueueConfig == nil {
		ret.newQueueConfig = func(name string) memory.Config { return memory.DefaultConfig() }
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	ret.publisher = NewPublisher[any](QueueOf[Event[any]](ret, "any"))
	ret.publisher.listened = func() bool { return ret.listening(nil) }
	return ret
}

// listening reports whether a listener is set for key; nil stands for the
// untyped listener.
func (s *Service) listening(key reflect.Type) bool {
	s.mux.RLock()
	defer s.mux.RUnlock()
	if key == nil {
		return s.listener != nil
	}
	_, ok := s.typedListener[key]
	return ok
}

func QueueOf[T any](s *Service, name string) messaging.Queue[T] {
	return memory.NewQueue[T](s.newQueueConfig(name))
}

func keyOf[T any]() reflect.Type {
	var t T
	rType := reflect.TypeOf(t)
	if rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return rType
}

// SetListenerOf handles events carrying T, replacing the previous handler.
func SetListenerOf[T any](s *Service, handler func(*Event[T])) {
	key := keyOf[T]()
	s.mux.RLock()
	ret, ok := s.typedListener[key]
	s.mux.RUnlock()
	if ok {
		ret.(*Listener[T]).Stop()
	}
	listener := NewListener[T](PublisherOf[T](s), handler, s.logger)
	s.mux.Lock()
	s.typedListener[key] = listener
	listener.Start()
	s.mux.Unlock()
}

// PublisherOf returns a publisher for the provided type
func PublisherOf[T any](s *Service) *Publisher[T] {
	key := keyOf[T]()
	s.mux.RLock()
	ret, ok := s.typedPublishers[key]
	s.mux.RUnlock()
	if ok {
		return ret.(*Publisher[T])
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if ret, ok = s.typedPublishers[key]; ok {
		return ret.(*Publisher[T])
	}
	publisher := NewPublisher[T](QueueOf[Event[T]](s, key.String()))
	publisher.anyQueue = s.publisher.queue
	publisher.listened = func() bool { return s.listening(key) }
	publisher.anyListened = func() bool { return s.listening(nil) }
	s.typedPublishers[key] = publisher
	return publisher
}
