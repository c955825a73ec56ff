package event

import (
	"log/slog"

	"github.com/viant/ossim/service/messaging/memory"
)

type Option func(s *Service)

// WithNewQueueConfig sets the per-type queue configuration
func WithNewQueueConfig(newConfig func(name string) memory.Config) Option {
	return func(s *Service) {
		s.newQueueConfig = newConfig
	}
}

// WithLogger sets the logger used by listeners
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
