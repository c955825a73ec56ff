package ossim

import (
	"log/slog"
	"os"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/ossim/model/process"
	"github.com/viant/ossim/policy"
	"github.com/viant/ossim/service/dao"
	"github.com/viant/ossim/service/dao/store"
	"github.com/viant/ossim/service/event"
	"github.com/viant/ossim/service/loader"
	"github.com/viant/ossim/service/processor"
	"github.com/viant/ossim/service/report"
)

// Service represents the simulator
type Service struct {
	runtime   *Runtime
	config    *Config
	logger    *slog.Logger
	fs        afs.Service
	fsOptions []storage.Option
	baseURL   string
	reportURL string
	recordDAO func() dao.Service[int, process.Record]
	reportDAO dao.Service[string, report.Report]
	policy    *policy.Policy
	workers   int

	eventService *event.Service
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.workers > 0 {
		s.config.Processor.WorkerCount = s.workers
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	var level *slog.LevelVar
	if s.logger == nil {
		level = levelVar(s.config.LogLevel)
		s.logger = newLogger(level, os.Stderr)
	}
	explicitPolicy := s.policy != nil
	if !explicitPolicy {
		s.policy = policy.FromConfig(s.config.Policy)
	}
	s.ensureBaseSetup()

	aProcessor, err := processor.New(
		processor.WithConfig(s.config.Processor),
		processor.WithLogger(s.logger))
	if err != nil {
		return err
	}
	s.runtime = &Runtime{
		config:    s.config,
		logger:    s.logger,
		fs:        s.fs,
		loader:    loader.New(s.fs, s.baseURL, s.fsOptions...),
		processor: aProcessor,
		recordDAO: s.recordDAO,
		reportDAO: s.reportDAO,
		policy:    s.policy,
		events:    s.eventService,

		level:          level,
		workers:        s.workers,
		explicitPolicy: explicitPolicy,
	}
	return nil
}

func (s *Service) ensureBaseSetup() {
	if s.fs == nil {
		s.fs = afs.New()
	}
	if s.recordDAO == nil {
		s.recordDAO = func() dao.Service[int, process.Record] {
			return store.NewMemoryStore[int, process.Record](func(r *process.Record) int { return r.ID })
		}
	}
	if s.reportDAO == nil {
		keyFn := func(r *report.Report) string { return r.ID }
		if s.reportURL != "" {
			s.reportDAO = store.NewFsStore[string, report.Report](s.reportURL, s.fs, keyFn, reportFilter)
		} else {
			s.reportDAO = store.NewMemoryStore[string, report.Report](keyFn, store.WithMemoryFilter[string, report.Report](reportFilter))
		}
	}
}

// Runtime returns the simulator runtime
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	if s.runtime != nil {
		return s.runtime.config
	}
	return s.config
}

// Shutdown stops the simulation workers
func (s *Service) Shutdown() {
	if s.runtime != nil {
		s.runtime.processor.Shutdown()
	}
}

// New creates a simulator service
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}
