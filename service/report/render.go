package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/viant/ossim/model/memory"
	"github.com/viant/ossim/model/timeline"
	"github.com/viant/ossim/service/allocator"
	"github.com/viant/ossim/service/replacer"
	"github.com/viant/ossim/service/scheduler"
)

// Options controls optional parts of the rendered text.
type Options struct {
	// PagingTrace prints the per-reference step table.
	PagingTrace bool
}

// Render writes the whole report. Wall-clock fields are not rendered, so
// the same scenario always renders the same text.
func Render(w io.Writer, r *Report, options Options) {
	outputTitle(w, fmt.Sprintf("Scenario: %s", r.Scenario))
	for i := range r.Sections {
		section := &r.Sections[i]
		switch {
		case section.Error != "":
			outputTitle(w, section.Simulation())
			_, _ = fmt.Fprintf(w, "error: %s\n\n", section.Error)
		case section.Scheduling != nil:
			RenderScheduling(w, section.Scheduling)
		case section.Allocation != nil:
			RenderAllocation(w, section.Allocation)
		case section.Paging != nil:
			RenderPaging(w, section.Paging, options.PagingTrace)
		}
	}
	outputSummary(w, r)
}

// RenderString renders the report into a string.
func RenderString(r *Report, options Options) string {
	buf := new(bytes.Buffer)
	Render(buf, r, options)
	return buf.String()
}

// RenderScheduling writes the Gantt chart and the metrics table.
func RenderScheduling(w io.Writer, result *scheduler.Result) {
	outputTitle(w, "CPU scheduling: "+strings.ToUpper(result.Policy))
	if result.Empty() {
		_, _ = fmt.Fprintf(w, "no processes\n\n")
		return
	}
	outputGantt(w, result.Timeline)

	rows := make([][]string, 0, len(result.Metrics))
	for _, m := range result.Metrics {
		rows = append(rows, []string{
			strconv.Itoa(m.ID),
			strconv.Itoa(m.Priority),
			strconv.Itoa(m.Burst),
			strconv.Itoa(m.Arrival),
			strconv.Itoa(m.FirstDispatch),
			strconv.Itoa(m.Waiting),
			strconv.Itoa(m.Turnaround),
			strconv.Itoa(m.Completion),
		})
	}
	_, _ = fmt.Fprintln(w, "Schedule table")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Priority", "Burst", "Arrival", "First", "Wait", "Turnaround", "Exit"})
	table.AppendBulk(rows)
	table.SetFooter([]string{"", "", "", "", "",
		fmt.Sprintf("Average\n%.2f", result.AverageWaiting()),
		fmt.Sprintf("Average\n%.2f", result.AverageTurnaround()),
		fmt.Sprintf("Throughput\n%.2f/t", result.Throughput())})
	table.Render()
	_, _ = fmt.Fprintln(w)
}

// RenderAllocation writes per-request outcomes and the final free-list.
func RenderAllocation(w io.Writer, result *allocator.Result) {
	outputTitle(w, "Memory allocation: "+string(result.Strategy))
	if result.Empty() {
		_, _ = fmt.Fprintf(w, "no requests\n\n")
	} else {
		rows := make([][]string, 0, len(result.Outcomes))
		for i := range result.Outcomes {
			outcome := &result.Outcomes[i]
			row := []string{strconv.Itoa(outcome.Request.PID), strconv.Itoa(outcome.Request.Size), "-", "-", "failed"}
			if outcome.Allocated() {
				row[2] = outcome.Hole.String()
				row[3] = outcome.Block.String()
				row[4] = "allocated"
			}
			rows = append(rows, row)
		}
		_, _ = fmt.Fprintln(w, "Allocation table")
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"PID", "Size", "Hole", "Block", "Status"})
		table.AppendBulk(rows)
		table.SetFooter([]string{"", "", "", "Failed", strconv.Itoa(result.Failures())})
		table.Render()
	}
	outputFreeList(w, result.Free)
}

// RenderPaging writes the fault summary and, optionally, the step trace.
func RenderPaging(w io.Writer, result *replacer.Result, trace bool) {
	outputTitle(w, "Paging: "+strings.ToUpper(result.Policy))
	_, _ = fmt.Fprintf(w, "%s page faults: %d (hits %d, references %d, frames %d)\n",
		strings.ToUpper(result.Policy), result.Faults, result.Hits, len(result.References), result.Frames)
	if trace && !result.Empty() {
		rows := make([][]string, 0, len(result.Steps))
		for i, step := range result.Steps {
			status, evicted := "hit", "-"
			if step.Fault {
				status = "fault"
			}
			if step.Evicted != nil {
				evicted = strconv.Itoa(*step.Evicted)
			}
			rows = append(rows, []string{strconv.Itoa(i + 1), strconv.Itoa(step.Page), status, evicted, joinInts(step.Resident)})
		}
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Step", "Page", "Result", "Evicted", "Frames"})
		table.AppendBulk(rows)
		table.Render()
	}
	_, _ = fmt.Fprintln(w)
}

func outputTitle(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
	_, _ = fmt.Fprintln(w, strings.Repeat(" ", len(title)/2), title)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
}

// outputGantt prints one bar cell per segment and the segment start times
// aligned under the cell borders.
func outputGantt(w io.Writer, t *timeline.Timeline) {
	_, _ = fmt.Fprintln(w, "Gantt schedule")
	bar, times := new(strings.Builder), new(strings.Builder)
	bar.WriteString("|")
	for _, segment := range t.Segments {
		width := max(6, len(segment.Label)+2)
		left := (width - len(segment.Label)) / 2
		bar.WriteString(strings.Repeat(" ", left) + segment.Label + strings.Repeat(" ", width-left-len(segment.Label)) + "|")
		times.WriteString(fmt.Sprintf("%-*d", width+1, segment.Start))
	}
	times.WriteString(strconv.Itoa(t.End()))
	_, _ = fmt.Fprintln(w, bar.String())
	_, _ = fmt.Fprintln(w, times.String())
	_, _ = fmt.Fprintln(w)
}

func outputFreeList(w io.Writer, free memory.FreeList) {
	_, _ = fmt.Fprintln(w, "Free holes")
	rows := make([][]string, 0, len(free))
	for _, hole := range free {
		rows = append(rows, []string{strconv.Itoa(hole.Start), strconv.Itoa(hole.Size), strconv.Itoa(hole.End())})
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Start", "Size", "End"})
	table.AppendBulk(rows)
	table.SetFooter([]string{"Total", strconv.Itoa(free.Total()), ""})
	table.Render()
	_, _ = fmt.Fprintln(w)
}

func outputSummary(w io.Writer, r *Report) {
	if len(r.Sections) == 0 {
		_, _ = fmt.Fprintln(w, "no simulations selected")
		return
	}
	outputTitle(w, "Summary")
	rows := make([][]string, 0, len(r.Sections))
	for i := range r.Sections {
		rows = append(rows, []string{r.Sections[i].Simulation(), summarize(&r.Sections[i])})
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Simulation", "Result"})
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

func summarize(section *Section) string {
	switch {
	case section.Error != "":
		return "error"
	case section.Scheduling != nil:
		return fmt.Sprintf("avg wait %.2f, avg turnaround %.2f, makespan %d",
			section.Scheduling.AverageWaiting(), section.Scheduling.AverageTurnaround(), section.Scheduling.Makespan())
	case section.Allocation != nil:
		return fmt.Sprintf("%d allocated, %d failed, %d free",
			len(section.Allocation.Allocated()), section.Allocation.Failures(), section.Allocation.Free.Total())
	case section.Paging != nil:
		return fmt.Sprintf("%d faults", section.Paging.Faults)
	}
	return ""
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
