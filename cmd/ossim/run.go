package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/viant/ossim"
	"github.com/viant/ossim/model/scenario"
	"github.com/viant/ossim/policy"
	"github.com/viant/ossim/service/scheduler"
)

// Options are the command line settings.
type Options struct {
	Scenario    string
	Processes   string
	Quantum     int
	Priority    string
	Frames      int
	Ask         bool
	Only        string
	Skip        string
	PagingTrace bool
	Trace       string
	Out         string
	Store       string
	Expect      string
	LogLevel    string
}

// Register binds the options to fs.
func (o *Options) Register(fs *flag.FlagSet) {
	fs.StringVar(&o.Scenario, "scenario", "", "scenario YAML URL")
	fs.StringVar(&o.Processes, "processes", "", "process table URL (PID Arrival Burst Priority [Memory])")
	fs.IntVar(&o.Quantum, "quantum", 0, "round robin time quantum")
	fs.StringVar(&o.Priority, "priority", "", "priority order: higher|lower")
	fs.IntVar(&o.Frames, "frames", 0, "page frames")
	fs.BoolVar(&o.Ask, "ask", false, "ask before each simulation")
	fs.StringVar(&o.Only, "only", "", "comma separated simulations or kinds to run, e.g. scheduler,replacer.lru")
	fs.StringVar(&o.Skip, "skip", "", "comma separated simulations or kinds to skip")
	fs.BoolVar(&o.PagingTrace, "pagetrace", false, "print the per-reference paging trace")
	fs.StringVar(&o.Trace, "trace", "", "write OpenTelemetry spans to file")
	fs.StringVar(&o.Out, "out", "", "write the rendered report to URL")
	fs.StringVar(&o.Store, "store", "", "store report JSON under URL")
	fs.StringVar(&o.Expect, "expect", "", "expected report URL to diff against")
	fs.StringVar(&o.LogLevel, "log", "info", "log level: debug|info|warn|error")
}

// config applies command line overrides to the default configuration.
func (o *Options) config() *ossim.Config {
	cfg := ossim.DefaultConfig()
	cfg.LogLevel = o.LogLevel
	cfg.Report.PagingTrace = o.PagingTrace
	if o.Quantum != 0 {
		cfg.Scheduler.Quantum = o.Quantum
	}
	if o.Priority != "" {
		cfg.Scheduler.PriorityOrder = o.Priority
	}
	if o.Frames != 0 {
		cfg.Paging.Frames = o.Frames
	}
	return cfg
}

// policy returns the run selection given on the command line, nil when no
// selection flag was set so that a scenario config policy applies.
func (o *Options) policy(in io.Reader, out io.Writer) *policy.Policy {
	if !o.Ask && o.Only == "" && o.Skip == "" {
		return nil
	}
	p := &policy.Policy{Mode: policy.ModeAuto, AllowList: split(o.Only), BlockList: split(o.Skip)}
	if o.Ask {
		p.Mode = policy.ModeAsk
		p.Ask = NewAsk(in, out)
	}
	return p
}

// Run executes one simulator invocation; the returned code is the process
// exit status.
func Run(ctx context.Context, o *Options, in io.Reader, out io.Writer) (int, error) {
	options := []ossim.Option{ossim.WithConfig(o.config())}
	if p := o.policy(in, out); p != nil {
		options = append(options, ossim.WithPolicy(p))
	}
	if o.Trace != "" {
		options = append(options, ossim.WithTracing("ossim", "0.1.0", o.Trace))
	}
	if o.Store != "" {
		options = append(options, ossim.WithReportURL(o.Store))
	}
	srv, err := ossim.New(options...)
	if err != nil {
		return 2, err
	}
	defer srv.Shutdown()
	runtime := srv.Runtime()

	aScenario := scenario.Default()
	if o.Scenario != "" {
		if aScenario, err = runtime.LoadScenario(ctx, o.Scenario); err != nil {
			return 1, err
		}
	}
	if o.Processes != "" {
		records, err := runtime.LoadProcesses(ctx, o.Processes)
		if err != nil {
			return 1, err
		}
		aScenario.Processes = records
		aScenario.Scheduling.Policies = scheduler.Policies
	}
	if o.Quantum != 0 {
		aScenario.Scheduling.Quantum = o.Quantum
	}
	if o.Frames != 0 {
		aScenario.Paging.Frames = o.Frames
	}
	if o.Expect != "" {
		aScenario.Expect = o.Expect
	}

	aReport, err := runtime.Run(ctx, aScenario)
	if err != nil {
		return 1, err
	}
	_, _ = io.WriteString(out, aReport.Text)
	if o.Out != "" {
		if err = runtime.WriteReport(ctx, aReport, o.Out); err != nil {
			return 1, err
		}
	}
	if o.Store != "" {
		if err = runtime.SaveReport(ctx, aReport); err != nil {
			return 1, err
		}
	}
	if c := aReport.Comparison; c != nil && !c.Equal() {
		_, _ = fmt.Fprintf(out, "\nreport differs from %s: +%d -%d lines\n%s", aScenario.Expect, c.Stats.Added, c.Stats.Removed, c.Patch)
		return 3, nil
	}
	return 0, nil
}

// NewAsk returns a prompt answering y/n per simulation; "a" approves the
// current and every following simulation, "q" declines all remaining ones.
func NewAsk(in io.Reader, out io.Writer) policy.AskFunc {
	if in == nil {
		in = os.Stdin
	}
	reader := bufio.NewReader(in)
	return func(ctx context.Context, simulation string, args map[string]interface{}, p *policy.Policy) bool {
		for {
			_, _ = fmt.Fprintf(out, "Run %s%s? [y/n/a/q]: ", simulation, describe(args))
			line, err := reader.ReadString('\n')
			answer := strings.ToLower(strings.TrimSpace(line))
			switch answer {
			case "y", "yes":
				return true
			case "n", "no":
				return false
			case "a", "all":
				p.Mode = policy.ModeAuto
				return true
			case "q", "quit":
				p.Mode = policy.ModeDeny
				return false
			}
			if err != nil {
				return false
			}
			_, _ = fmt.Fprintln(out, "please answer y or n")
		}
	}
}

func describe(args map[string]interface{}) string {
	if len(args) == 0 {
		return ""
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, args[k]))
	}
	return " (" + strings.Join(parts, " ") + ")"
}

func split(list string) []string {
	var ret []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			ret = append(ret, item)
		}
	}
	return ret
}
