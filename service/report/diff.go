package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	sgdiff "github.com/sourcegraph/go-diff/diff"
)

// DiffStats captures statistics about a unified diff.
type DiffStats struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
	Hunks   int `json:"hunks"`
	// FirstLine is the first expected line (1-based) covered by a hunk.
	FirstLine int `json:"firstLine,omitempty"`
}

// Comparison is the outcome of matching a rendered report with an expectation.
type Comparison struct {
	Expected string    `json:"expected"`
	Actual   string    `json:"actual"`
	Patch    string    `json:"patch,omitempty"`
	Stats    DiffStats `json:"stats"`
}

// Equal reports whether both texts matched.
func (c *Comparison) Equal() bool {
	return c.Patch == ""
}

// Diff produces a unified diff between expected and actual text. Trailing
// whitespace on each line is ignored; identical texts produce an empty patch.
func Diff(expected, actual []byte, name string) (*Comparison, error) {
	ret := &Comparison{Expected: name + " (expected)", Actual: name + " (actual)"}
	a, b := normalize(expected), normalize(actual)
	if a == b {
		return ret, nil
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: ret.Expected,
		ToFile:   ret.Actual,
		Context:  3,
	}
	patch, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %v: %w", name, err)
	}
	ret.Patch = patch
	stats, err := patchStats(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to parse diff of %v: %w", name, err)
	}
	ret.Stats = stats
	return ret, nil
}

func patchStats(patch string) (DiffStats, error) {
	var stats DiffStats
	files, err := sgdiff.ParseMultiFileDiff([]byte(patch))
	if err != nil {
		return stats, err
	}
	for _, fd := range files {
		for _, h := range fd.Hunks {
			stats.Hunks++
			if stats.FirstLine == 0 {
				stats.FirstLine = max(int(h.OrigStartLine), 1)
			}
			for _, line := range bytes.Split(h.Body, []byte("\n")) {
				switch {
				case bytes.HasPrefix(line, []byte("+")):
					stats.Added++
				case bytes.HasPrefix(line, []byte("-")):
					stats.Removed++
				}
			}
		}
	}
	return stats, nil
}

func normalize(text []byte) string {
	lines := strings.Split(strings.ReplaceAll(string(text), "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}
