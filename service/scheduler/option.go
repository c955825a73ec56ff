package scheduler

// Option customises scheduler configuration.
type Option func(c *Config)

// WithConfig replaces the whole configuration.
func WithConfig(config Config) Option {
	return func(c *Config) { *c = config }
}

// WithQuantum sets the round robin quantum.
func WithQuantum(quantum int) Option {
	return func(c *Config) { c.Quantum = quantum }
}

// WithPriorityOrder sets the priority ranking direction.
func WithPriorityOrder(order string) Option {
	return func(c *Config) { c.PriorityOrder = order }
}

// WithKeepZeroLength controls zero-width timeline segments.
func WithKeepZeroLength(keep bool) Option {
	return func(c *Config) { c.KeepZeroLength = keep }
}
