package memory

import "fmt"

// Generator describes an automatically generated free-list: Count holes with
// sizes in [MinSize, MaxSize], consecutive holes separated by Gap units.
type Generator struct {
	Seed    uint64 `json:"seed" yaml:"seed"`
	Count   int    `json:"count,omitempty" yaml:"count,omitempty"`
	MinSize int    `json:"minSize" yaml:"minSize"`
	MaxSize int    `json:"maxSize" yaml:"maxSize"`
	Gap     int    `json:"gap" yaml:"gap"`
}

// DefaultGenerator returns hole sizes between 100 and 200 separated by 10 units.
func DefaultGenerator() Generator {
	return Generator{Seed: 1, MinSize: 100, MaxSize: 200, Gap: 10}
}

// Validate rejects settings that would produce overlapping or empty holes.
// Zero sizes fall back to the defaults.
func (g *Generator) Validate() error {
	switch {
	case g.Gap < 0:
		return fmt.Errorf("gap %d < 0", g.Gap)
	case g.Count < 0:
		return fmt.Errorf("count %d < 0", g.Count)
	case g.MinSize < 0 || g.MaxSize < 0:
		return fmt.Errorf("invalid size range [%d,%d]", g.MinSize, g.MaxSize)
	case g.MaxSize > 0 && g.MaxSize < g.MinSize:
		return fmt.Errorf("minSize %d > maxSize %d", g.MinSize, g.MaxSize)
	}
	return nil
}
