package model

import (
	"time"
)

const (
	// StatusOK marks a task that ran and changed remote state.
	StatusOK = "ok"
	// StatusUnchanged marks an idempotent task that found nothing to do.
	StatusUnchanged = "unchanged"
	// StatusFailed marks a failure during task execution.
	StatusFailed = "failed"
	// StatusSkipped indicates the runner never reached the task.
	StatusSkipped = "skipped"
)

// TaskResult captures the outcome of executing a single playbook task.
// Changed mirrors the Ansible convention: true iff remote state was
// actually mutated, so repeated runs of a converged playbook report
// changed=false throughout.
type TaskResult struct {
	TaskID    string         `json:"task"`
	Type      string         `json:"type"`
	Status    string         `json:"status"`
	Changed   bool           `json:"changed"`
	Message   string         `json:"message,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Error     error          `json:"-"`
	Duration  time.Duration  `json:"duration"`
	Timestamp time.Time      `json:"timestamp"`
}

// RunSummary aggregates the results of one playbook run.
type RunSummary struct {
	Playbook string       `json:"playbook"`
	Changed  bool         `json:"changed"`
	Results  []TaskResult `json:"results"`
}

// Aggregate folds per-task changed flags into the summary with logical OR.
func (s *RunSummary) Aggregate() {
	s.Changed = false
	for _, res := range s.Results {
		if res.Changed {
			s.Changed = true
			return
		}
	}
}
