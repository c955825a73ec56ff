package ossim

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/ossim/internal/clock"
	"github.com/viant/ossim/internal/idgen"
	"github.com/viant/ossim/model/memory"
	"github.com/viant/ossim/model/process"
	"github.com/viant/ossim/model/scenario"
	"github.com/viant/ossim/policy"
	"github.com/viant/ossim/progress"
	"github.com/viant/ossim/service/allocator"
	"github.com/viant/ossim/service/dao"
	"github.com/viant/ossim/service/dao/criteria"
	"github.com/viant/ossim/service/event"
	"github.com/viant/ossim/service/loader"
	"github.com/viant/ossim/service/processor"
	"github.com/viant/ossim/service/registry"
	"github.com/viant/ossim/service/replacer"
	"github.com/viant/ossim/service/report"
	"github.com/viant/ossim/service/scheduler"
	"github.com/viant/ossim/tracing"
)

// Runtime loads scenarios and runs simulations
type Runtime struct {
	config    *Config
	logger    *slog.Logger
	fs        afs.Service
	loader    *loader.Service
	processor *processor.Service
	recordDAO func() dao.Service[int, process.Record]
	reportDAO dao.Service[string, report.Report]
	policy    *policy.Policy
	events    *event.Service

	level          *slog.LevelVar // nil when the logger was supplied
	workers        int            // explicit worker count, 0 when configured
	explicitPolicy bool
}

// Config returns the runtime configuration
func (r *Runtime) Config() *Config {
	return r.config
}

// Logger returns the runtime logger
func (r *Runtime) Logger() *slog.Logger {
	return r.logger
}

// LoadScenario loads a scenario document. Its config section, if any,
// overrides the runtime configuration for subsequent runs. Options given to
// the service (policy, workers, logger) take precedence over the section.
func (r *Runtime) LoadScenario(ctx context.Context, URL string) (*scenario.Scenario, error) {
	cfg := *r.config
	if cfg.Policy != nil {
		policyConfig := *cfg.Policy
		cfg.Policy = &policyConfig
	}
	aScenario, err := r.loader.LoadScenario(ctx, URL, &cfg)
	if err != nil {
		return nil, err
	}
	if r.workers > 0 {
		cfg.Processor.WorkerCount = r.workers
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in scenario %s: %w", URL, err)
	}
	if err = r.apply(&cfg); err != nil {
		return nil, err
	}
	return aScenario, nil
}

// apply makes cfg the runtime configuration, rebuilding what was derived
// from the previous one.
func (r *Runtime) apply(cfg *Config) error {
	if cfg.Processor != r.config.Processor {
		aProcessor, err := processor.New(processor.WithConfig(cfg.Processor), processor.WithLogger(r.logger))
		if err != nil {
			return err
		}
		r.processor.Shutdown()
		r.processor = aProcessor
	}
	if !r.explicitPolicy {
		r.policy = policy.FromConfig(cfg.Policy)
	}
	if r.level != nil {
		lvl, _ := parseLevel(cfg.LogLevel)
		r.level.Set(lvl)
	}
	r.config = cfg
	return nil
}

// LoadProcesses loads a whitespace-delimited process table.
func (r *Runtime) LoadProcesses(ctx context.Context, URL string) (process.Records, error) {
	return r.loader.LoadTable(ctx, URL)
}

// Schedule runs one CPU scheduling policy with the configured parameters.
func (r *Runtime) Schedule(ctx context.Context, name string, records process.Records, options ...scheduler.Option) (*scheduler.Result, error) {
	opts := append([]scheduler.Option{scheduler.WithConfig(r.config.Scheduler)}, options...)
	aScheduler, err := scheduler.New(name, opts...)
	if err != nil {
		return nil, err
	}
	return aScheduler.Schedule(records)
}

// Allocate places requests on a private copy of holes with the named strategy.
func (r *Runtime) Allocate(ctx context.Context, strategy string, holes memory.FreeList, requests []memory.Request) (*allocator.Result, error) {
	anAllocator, err := allocator.New(strategy)
	if err != nil {
		return nil, err
	}
	return anAllocator.Run(holes, requests)
}

// Replace replays references through frames with the named policy; frames
// <= 0 uses the configured frame count.
func (r *Runtime) Replace(ctx context.Context, name string, references []int, frames int) (*replacer.Result, error) {
	if frames <= 0 {
		frames = r.config.Paging.Frames
	}
	return replacer.Simulate(name, references, frames)
}

// simulation is one planned job with its report coordinates.
type simulation struct {
	kind string
	name string
	args map[string]interface{}
	run  processor.Func
}

// Run executes every selected simulation of the scenario on the worker pool
// and returns the rendered report. A failing simulation is reported in its
// section and does not stop the others.
func (r *Runtime) Run(ctx context.Context, aScenario *scenario.Scenario) (aReport *report.Report, err error) {
	if aScenario == nil {
		aScenario = scenario.Default()
	}
	runID := idgen.New()
	if _, ok := progress.FromContext(ctx); !ok {
		ctx, _ = progress.WithNewTracker(ctx, runID, aScenario.Name, nil)
	}
	ctx, span := tracing.StartSpan(ctx, "run "+aScenario.Name, tracing.KindInternal)
	span.WithAttributes(map[string]string{"run.id": runID, "scenario": aScenario.Name})
	defer func() { tracing.EndSpan(span, err) }()

	registered := registry.New(registry.WithDAO(r.recordDAO()))
	if err = registered.Load(ctx, aScenario.Processes); err != nil {
		return nil, fmt.Errorf("failed to register processes of %s: %w", aScenario.Name, err)
	}
	records, err := registered.Records(ctx)
	if err != nil {
		return nil, err
	}

	planned := r.plan(aScenario, records)
	selected := r.selectSimulations(ctx, planned)
	span.WithInt("simulations", len(selected))

	jobs := make([]processor.Job, 0, len(selected))
	for _, sim := range selected {
		jobs = append(jobs, processor.Job{Name: policy.Name(sim.kind, sim.name), Run: sim.run})
	}
	outputs, err := r.processor.Run(ctx, jobs...)
	if err != nil {
		return nil, err
	}

	aReport = &report.Report{ID: runID, Scenario: aScenario.Name, CreatedAt: clock.Now()}
	for i, output := range outputs {
		sim := selected[i]
		section := report.Section{Kind: sim.kind, Name: sim.name}
		if output.Err != nil {
			section.Error = output.Err.Error()
		} else {
			switch actual := output.Value.(type) {
			case *scheduler.Result:
				section.Scheduling = actual
			case *allocator.Result:
				section.Allocation = actual
			case *replacer.Result:
				section.Paging = actual
			}
		}
		r.logger.Debug("simulation reported", "run", runID, "kind", sim.kind, "policy", sim.name, "elapsed", output.Elapsed, "failed", output.Err != nil)
		aReport.Sections = append(aReport.Sections, section)
		r.publish(ctx, aReport, &section, output)
	}
	aReport.Text = report.RenderString(aReport, report.Options{PagingTrace: r.config.Report.PagingTrace})

	if aScenario.Expect != "" {
		if aReport.Comparison, err = r.Verify(ctx, aReport, aScenario.Expect); err != nil {
			return nil, err
		}
	}
	return aReport, nil
}

// publish announces a finished simulation to event listeners, if any.
func (r *Runtime) publish(ctx context.Context, aReport *report.Report, section *report.Section, output processor.Output) {
	if r.events == nil {
		return
	}
	eventType := event.TypeSimulationDone
	if section.Error != "" {
		eventType = event.TypeSimulationFailed
	}
	anEvent := event.NewEvent(&event.Context{
		RunID:       aReport.ID,
		Scenario:    aReport.Scenario,
		Simulation:  section.Simulation(),
		EventType:   eventType,
		TimeTakenMs: int(output.Elapsed.Milliseconds()),
	}, *section)
	if err := event.PublisherOf[report.Section](r.events).Publish(ctx, anEvent); err != nil {
		r.logger.Warn("failed to publish event", "simulation", section.Simulation(), "error", err)
	}
}

// plan lists the simulations of each non-empty scenario section in
// reporting order: schedulers, allocators, replacers.
func (r *Runtime) plan(aScenario *scenario.Scenario, records process.Records) []*simulation {
	var ret []*simulation
	if len(records) > 0 || len(aScenario.Scheduling.Policies) > 0 {
		var options []scheduler.Option
		if aScenario.Scheduling.Quantum > 0 {
			options = append(options, scheduler.WithQuantum(aScenario.Scheduling.Quantum))
		}
		if aScenario.Scheduling.PriorityOrder != "" {
			options = append(options, scheduler.WithPriorityOrder(aScenario.Scheduling.PriorityOrder))
		}
		if keep := aScenario.Scheduling.KeepZeroLength; keep != nil {
			options = append(options, scheduler.WithKeepZeroLength(*keep))
		}
		for _, name := range orDefault(aScenario.Scheduling.Policies, scheduler.Policies) {
			ret = append(ret, &simulation{
				kind: report.KindScheduler,
				name: scheduler.Normalize(name),
				args: map[string]interface{}{"processes": len(records)},
				run: func(ctx context.Context) (interface{}, error) {
					return r.Schedule(ctx, name, records.Clone(), options...)
				},
			})
		}
	}

	requests := aScenario.MemoryRequests()
	if len(requests) > 0 || len(aScenario.Memory.Holes) > 0 || len(aScenario.Memory.Strategies) > 0 {
		holes := r.holes(aScenario, len(requests))
		for _, name := range orDefault(aScenario.Memory.Strategies, strategyNames()) {
			normalized := name
			if strategy, err := allocator.ParseStrategy(name); err == nil {
				normalized = string(strategy)
			}
			ret = append(ret, &simulation{
				kind: report.KindAllocator,
				name: normalized,
				args: map[string]interface{}{"holes": len(holes), "requests": len(requests)},
				run: func(ctx context.Context) (interface{}, error) {
					return r.Allocate(ctx, name, holes.Clone(), append([]memory.Request(nil), requests...))
				},
			})
		}
	}

	paging := aScenario.Paging
	if len(paging.References) > 0 || len(paging.Policies) > 0 {
		frames := paging.Frames
		if frames <= 0 {
			frames = r.config.Paging.Frames
		}
		for _, name := range orDefault(paging.Policies, replacer.Policies) {
			ret = append(ret, &simulation{
				kind: report.KindReplacer,
				name: replacer.Normalize(name),
				args: map[string]interface{}{"frames": frames, "references": len(paging.References)},
				run: func(ctx context.Context) (interface{}, error) {
					return r.Replace(ctx, name, append([]int(nil), paging.References...), frames)
				},
			})
		}
	}
	return ret
}

// holes resolves the initial free-list: explicit holes, the scenario
// generator, or the configured generator with one hole per request.
func (r *Runtime) holes(aScenario *scenario.Scenario, requests int) memory.FreeList {
	if len(aScenario.Memory.Holes) > 0 {
		return aScenario.Memory.Holes.Clone()
	}
	generator := r.config.Memory.Generator
	if aScenario.Memory.Generate != nil {
		generator = *aScenario.Memory.Generate
	}
	count := generator.Count
	if count <= 0 {
		count = requests
	}
	return allocator.Generate(generator, count)
}

// selectSimulations applies the run-selection policy; the policy in ctx
// wins over the configured one.
func (r *Runtime) selectSimulations(ctx context.Context, planned []*simulation) []*simulation {
	p := policy.FromContext(ctx)
	if p == nil {
		p = r.policy
	}
	var ret []*simulation
	for _, sim := range planned {
		name := policy.Name(sim.kind, sim.name)
		if !p.Allow(ctx, name, sim.args) {
			r.logger.Debug("simulation skipped", "simulation", name)
			progress.UpdateCtx(ctx, progress.Delta{Total: 1, Skipped: 1})
			continue
		}
		ret = append(ret, sim)
	}
	return ret
}

// DeadLetters returns the simulations that failed on every attempt since
// the worker pool was started.
func (r *Runtime) DeadLetters() []processor.DeadLetter {
	return r.processor.DeadLetters()
}

// Verify diffs the rendered report with the expected text at URL.
func (r *Runtime) Verify(ctx context.Context, aReport *report.Report, URL string) (*report.Comparison, error) {
	expected, err := r.loader.Download(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load expected report: %w", err)
	}
	name := strings.TrimSuffix(path.Base(URL), path.Ext(URL))
	return report.Diff(expected, []byte(aReport.Text), name)
}

// SaveReport stores the report under its id.
func (r *Runtime) SaveReport(ctx context.Context, aReport *report.Report) error {
	if err := r.reportDAO.Save(ctx, aReport); err != nil {
		return fmt.Errorf("failed to save report %s: %w", aReport.ID, err)
	}
	return nil
}

// LoadReport returns a stored report.
func (r *Runtime) LoadReport(ctx context.Context, ID string) (*report.Report, error) {
	return r.reportDAO.Load(ctx, ID)
}

// ListReports returns stored reports, optionally only those of the given scenarios.
func (r *Runtime) ListReports(ctx context.Context, scenarios ...string) ([]*report.Report, error) {
	var parameters []*dao.Parameter
	if len(scenarios) > 0 {
		parameters = append(parameters, dao.NewParameter("Scenario", scenarios...))
	}
	return r.reportDAO.List(ctx, parameters...)
}

// WriteReport uploads the rendered text to URL.
func (r *Runtime) WriteReport(ctx context.Context, aReport *report.Report, URL string) error {
	if err := r.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader([]byte(aReport.Text))); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", URL, err)
	}
	return nil
}

func reportFilter(aReport *report.Report, parameters []*dao.Parameter) bool {
	return criteria.MatchField("Scenario", aReport.Scenario, parameters)
}

func strategyNames() []string {
	ret := make([]string, 0, len(allocator.Strategies))
	for _, strategy := range allocator.Strategies {
		ret = append(ret, string(strategy))
	}
	return ret
}

func orDefault(names, defaults []string) []string {
	if len(names) > 0 {
		return names
	}
	return defaults
}
