package ossim

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/viant/ossim/model/memory"
	"github.com/viant/ossim/policy"
	"github.com/viant/ossim/service/processor"
	"github.com/viant/ossim/service/scheduler"
)

// Config is a serialisable representation of the simulator configuration.
// It can be populated from JSON or YAML, including the config section of a
// scenario document.
type Config struct {
	Scheduler scheduler.Config `json:"scheduler" yaml:"scheduler"`
	Memory    MemoryConfig     `json:"memory" yaml:"memory"`
	Paging    PagingConfig     `json:"paging" yaml:"paging"`
	Processor processor.Config `json:"processor" yaml:"processor"`
	Report    ReportConfig     `json:"report" yaml:"report"`
	Policy    *policy.Config   `json:"policy,omitempty" yaml:"policy,omitempty"`
	LogLevel  string           `json:"logLevel" yaml:"logLevel"`
}

// MemoryConfig holds allocation defaults.
type MemoryConfig struct {
	// Generator is used when a scenario has requests but no holes.
	Generator memory.Generator `json:"generator" yaml:"generator"`
}

// PagingConfig holds page replacement defaults.
type PagingConfig struct {
	Frames int `json:"frames" yaml:"frames"`
}

// ReportConfig controls report rendering.
type ReportConfig struct {
	PagingTrace bool `json:"pagingTrace" yaml:"pagingTrace"`
}

// DefaultConfig returns quantum 4, higher priority first, 3 frames and
// 4 workers. Callers may modify the returned struct before passing it to
// WithConfig.
func DefaultConfig() *Config {
	return &Config{
		Scheduler: scheduler.DefaultConfig(),
		Memory:    MemoryConfig{Generator: memory.DefaultGenerator()},
		Paging:    PagingConfig{Frames: 3},
		Processor: processor.DefaultConfig(),
		LogLevel:  "info",
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if err := c.Scheduler.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Paging.Frames <= 0 {
		errs = append(errs, fmt.Errorf("paging.frames must be > 0"))
	}
	if err := c.Memory.Generator.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("memory.generator: %w", err))
	}
	if err := c.Processor.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Policy != nil {
		if err := c.Policy.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// NewLogger builds a text logger at level (debug, info, warn or error).
func NewLogger(level string, w io.Writer) *slog.Logger {
	return newLogger(levelVar(level), w)
}

// newLogger builds a text logger whose level follows lvl.
func newLogger(lvl slog.Leveler, w io.Writer) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler).With("module", "ossim")
}

// levelVar returns an adjustable level set to level, info when invalid.
func levelVar(level string) *slog.LevelVar {
	ret := new(slog.LevelVar)
	lvl, _ := parseLevel(level)
	ret.Set(lvl)
	return ret
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
}
