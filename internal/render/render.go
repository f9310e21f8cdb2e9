package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/gns3ops/gns3ctl/internal/model"
)

// Renderer writes run results to a terminal or machine-readable stream.
type Renderer struct {
	out   io.Writer
	color bool
}

// New creates a Renderer. Disable color for non-terminal output.
func New(out io.Writer, color bool) *Renderer {
	return &Renderer{out: out, color: color}
}

// Summary prints a human-readable table of per-task outcomes followed by
// aggregate counts.
func (r *Renderer) Summary(summary *model.RunSummary) {
	fmt.Fprintf(r.out, "\n%s\n", r.styled(titleStyle, "Playbook: "+summary.Playbook))
	fmt.Fprintln(r.out, strings.Repeat("=", 78))
	fmt.Fprintf(r.out, "%-28s %-14s %-12s %-8s %s\n", "Task", "Type", "Status", "Duration", "Message")
	fmt.Fprintln(r.out, strings.Repeat("-", 78))

	counts := map[string]int{}
	for _, result := range summary.Results {
		counts[result.Status]++

		message := result.Message
		if message == "" && result.Error != nil {
			message = result.Error.Error()
		}

		fmt.Fprintf(r.out, "%-28s %-14s %-12s %-8s %s\n",
			truncate(result.TaskID, 28),
			result.Type,
			r.statusCell(result.Status),
			fmt.Sprintf("%.2fs", result.Duration.Seconds()),
			truncate(message, 40),
		)
	}

	fmt.Fprintln(r.out, strings.Repeat("=", 78))
	fmt.Fprintln(r.out, r.styled(summaryStyle, "Summary:"))
	fmt.Fprintf(r.out, "  Total:     %d\n", len(summary.Results))
	fmt.Fprintf(r.out, "  Changed:   %d\n", counts[model.StatusOK])
	fmt.Fprintf(r.out, "  Unchanged: %d\n", counts[model.StatusUnchanged])
	fmt.Fprintf(r.out, "  Failed:    %d\n", counts[model.StatusFailed])
	fmt.Fprintf(r.out, "  Skipped:   %d\n", counts[model.StatusSkipped])

	if counts[model.StatusFailed] > 0 {
		fmt.Fprintln(r.out, r.styled(failedStyle, "\nRun failed."))
	} else if summary.Changed {
		fmt.Fprintln(r.out, r.styled(changedStyle, "\nRun converged with changes."))
	} else {
		fmt.Fprintln(r.out, r.styled(unchangedStyle, "\nAlready converged, nothing to do."))
	}
}

// JSON writes the run summary as indented JSON for scripting consumers.
func (r *Renderer) JSON(summary *model.RunSummary) error {
	type jsonResult struct {
		Task      string         `json:"task"`
		Type      string         `json:"type"`
		Status    string         `json:"status"`
		Changed   bool           `json:"changed"`
		Message   string         `json:"message,omitempty"`
		Data      map[string]any `json:"data,omitempty"`
		Error     string         `json:"error,omitempty"`
		Duration  float64        `json:"duration_seconds"`
		Timestamp string         `json:"timestamp"`
	}

	type jsonSummary struct {
		Playbook string       `json:"playbook"`
		Changed  bool         `json:"changed"`
		Results  []jsonResult `json:"results"`
	}

	out := jsonSummary{
		Playbook: summary.Playbook,
		Changed:  summary.Changed,
		Results:  make([]jsonResult, len(summary.Results)),
	}

	for i, result := range summary.Results {
		entry := jsonResult{
			Task:      result.TaskID,
			Type:      result.Type,
			Status:    result.Status,
			Changed:   result.Changed,
			Message:   result.Message,
			Data:      result.Data,
			Duration:  result.Duration.Seconds(),
			Timestamp: result.Timestamp.Format(time.RFC3339),
		}
		if result.Error != nil {
			entry.Error = result.Error.Error()
		}
		out.Results[i] = entry
	}

	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// Data pretty-prints a single task's data payload, used by read-only
// commands such as facts and inventory.
func (r *Renderer) Data(data map[string]any) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (r *Renderer) statusCell(status string) string {
	switch status {
	case model.StatusOK:
		return r.styled(changedStyle, "✔ changed")
	case model.StatusUnchanged:
		return r.styled(unchangedStyle, "= ok")
	case model.StatusFailed:
		return r.styled(failedStyle, "✖ failed")
	case model.StatusSkipped:
		return r.styled(skippedStyle, "- skipped")
	default:
		return status
	}
}

func (r *Renderer) styled(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Render(s)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
