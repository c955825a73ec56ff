package policy

import (
	"context"
	"fmt"
	"strings"
)

// Selection modes.
const (
	ModeAsk  = "ask"  // ask before every simulation
	ModeAuto = "auto" // run automatically (default)
	ModeDeny = "deny" // run nothing
)

// AskFunc is invoked when Mode==ask. Returning true approves the simulation.
// Implementations may mutate the policy, for example switching to ModeAuto
// after an "all" answer.
type AskFunc func(
	ctx context.Context,
	simulation string, // kind.name, e.g. scheduler.fcfs
	args map[string]interface{}, // simulation parameters, may be nil
	p *Policy,
) bool

// Policy holds the run-selection settings of a simulator invocation.
// A nil *Policy runs everything.
type Policy struct {
	Mode      string   // ask / auto / deny (default = auto)
	AllowList []string // simulation names or kinds; empty => all
	BlockList []string // simulation names or kinds
	Ask       AskFunc  // used only when Mode==ask
}

// Config is the serialisable part of a Policy.
type Config struct {
	Mode      string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// Validate checks the mode.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Mode) {
	case "", ModeAuto, ModeAsk, ModeDeny:
		return nil
	}
	return fmt.Errorf("policy: invalid mode %q", c.Mode)
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		Mode:      p.Mode,
		AllowList: append([]string(nil), p.AllowList...),
		BlockList: append([]string(nil), p.BlockList...),
	}
}

// FromConfig converts a Config to a runtime Policy without AskFunc.
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		Mode:      c.Mode,
		AllowList: append([]string(nil), c.AllowList...),
		BlockList: append([]string(nil), c.BlockList...),
	}
}

// Name builds a simulation name from its kind and policy, e.g. "replacer.lru".
func Name(kind, name string) string {
	return strings.ToLower(kind + "." + name)
}

// IsAllowed evaluates AllowList / BlockList. An entry matches the full
// simulation name or its kind prefix, case-insensitively.
func (p *Policy) IsAllowed(simulation string) bool {
	if p == nil {
		return true
	}
	normalized := strings.ToLower(simulation)
	for _, b := range p.BlockList {
		if matches(normalized, b) {
			return false
		}
	}
	if len(p.AllowList) == 0 {
		return true
	}
	for _, a := range p.AllowList {
		if matches(normalized, a) {
			return true
		}
	}
	return false
}

// Allow reports whether the simulation should run under p.
func (p *Policy) Allow(ctx context.Context, simulation string, args map[string]interface{}) bool {
	if p == nil {
		return true
	}
	if !p.IsAllowed(simulation) {
		return false
	}
	switch strings.ToLower(p.Mode) {
	case ModeDeny:
		return false
	case ModeAsk:
		if p.Ask == nil {
			return false
		}
		return p.Ask(ctx, simulation, args, p)
	default:
		return true
	}
}

func matches(simulation, entry string) bool {
	entry = strings.ToLower(strings.TrimSpace(entry))
	if entry == "" {
		return false
	}
	return simulation == entry || strings.HasPrefix(simulation, entry+".")
}

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the policy or nil.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
