package ossim

import (
	"log/slog"

	"github.com/viant/afs/storage"
	"github.com/viant/ossim/model/process"
	"github.com/viant/ossim/policy"
	"github.com/viant/ossim/service/dao"
	"github.com/viant/ossim/service/event"
	"github.com/viant/ossim/service/report"
	"github.com/viant/ossim/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises a Service.
type Option func(s *Service)

// WithConfig sets the configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithLogger sets the logger; by default one is built from Config.LogLevel.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithFsOptions sets storage options used when loading scenarios and tables.
func WithFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.fsOptions = options
	}
}

// WithBaseURL sets the base URL relative scenario locations are resolved against.
func WithBaseURL(URL string) Option {
	return func(s *Service) {
		s.baseURL = URL
	}
}

// WithReportURL stores reports as JSON files under URL instead of in memory.
func WithReportURL(URL string) Option {
	return func(s *Service) {
		s.reportURL = URL
	}
}

// WithRecordDAO sets the factory of process stores; each run registers its
// processes in a fresh store.
func WithRecordDAO(factory func() dao.Service[int, process.Record]) Option {
	return func(s *Service) {
		s.recordDAO = factory
	}
}

// WithReportDAO sets the report store
func WithReportDAO(dao dao.Service[string, report.Report]) Option {
	return func(s *Service) {
		s.reportDAO = dao
	}
}

// WithEventService publishes a report.Section event per finished simulation
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.eventService = service
	}
}

// WithWorkers sets the number of simulation workers
func WithWorkers(count int) Option {
	return func(s *Service) {
		s.workers = count
	}
}

// WithPolicy sets the run-selection policy
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path.
// The first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter.
// The first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
