// Package report turns simulation results into text: a Gantt chart and a
// metrics table per scheduling policy, an outcome table and free-list per
// allocation strategy, and fault counts with a step trace per paging policy.
// Rendered reports can be compared with an expected text as a unified diff.
package report
