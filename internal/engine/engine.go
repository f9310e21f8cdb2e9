package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gns3ops/gns3ctl/internal/config"
	"github.com/gns3ops/gns3ctl/internal/logger"
	"github.com/gns3ops/gns3ctl/internal/model"
	"github.com/gns3ops/gns3ctl/internal/tasks"
	gnserrors "github.com/gns3ops/gns3ctl/pkg/errors"
)

// Runner executes a playbook's tasks sequentially, in document order.
type Runner struct {
	client tasks.Client
	log    *logger.Logger
}

// NewRunner constructs a playbook runner bound to a GNS3 client.
func NewRunner(client tasks.Client, log *logger.Logger) *Runner {
	return &Runner{
		client: client,
		log:    log,
	}
}

// Run executes every task in the playbook against the GNS3 server.
//
// Tasks run strictly in document order. On failure the run stops and the
// remaining tasks are reported as skipped, unless continue_on_error is
// set in the playbook settings. The returned summary always covers all
// tasks, even on early failure, so callers can render partial outcomes.
func (r *Runner) Run(ctx context.Context, pb *config.Playbook) (*model.RunSummary, error) {
	runID := uuid.NewString()
	runLog := r.log.WithFields(map[string]any{
		"run_id":   runID,
		"playbook": pb.Name,
	})

	runLog.WithFields(map[string]any{"tasks": len(pb.Tasks)}).Info("playbook run started")

	summary := &model.RunSummary{
		Playbook: pb.Name,
		Results:  make([]model.TaskResult, 0, len(pb.Tasks)),
	}

	var runErr error
	for i := range pb.Tasks {
		task := &pb.Tasks[i]

		if runErr != nil && !pb.Settings.ContinueOnError {
			summary.Results = append(summary.Results, model.TaskResult{
				TaskID:    task.ID,
				Type:      task.Type,
				Status:    model.StatusSkipped,
				Timestamp: time.Now(),
			})
			continue
		}

		result := r.runTask(ctx, task, runLog)
		summary.Results = append(summary.Results, *result)

		if result.Error != nil && runErr == nil {
			runErr = gnserrors.NewTaskError(task.ID, result.Error)
		}
	}

	summary.Aggregate()
	runLog.WithFields(map[string]any{
		"changed": summary.Changed,
		"failed":  runErr != nil,
	}).Info("playbook run finished")

	return summary, runErr
}

func (r *Runner) runTask(ctx context.Context, task *config.Task, runLog *logger.Logger) *model.TaskResult {
	taskLog := runLog.WithTask(task.ID, task.Type)
	taskLog.Debug("task started")

	started := time.Now()

	module, err := tasks.Get(task.Type)
	if err != nil {
		return failedResult(task, started, err)
	}

	result, err := module.Run(ctx, r.client, task, taskLog)
	if err != nil {
		taskLog.Error(err, "task failed")
		return failedResult(task, started, err)
	}

	result.TaskID = task.ID
	result.Type = task.Type
	result.Duration = time.Since(started)
	result.Timestamp = started
	if result.Status == "" {
		if result.Changed {
			result.Status = model.StatusOK
		} else {
			result.Status = model.StatusUnchanged
		}
	}

	taskLog.WithFields(map[string]any{
		"changed":  result.Changed,
		"duration": result.Duration.String(),
	}).Info("task finished")
	return result
}

func failedResult(task *config.Task, started time.Time, err error) *model.TaskResult {
	return &model.TaskResult{
		TaskID:    task.ID,
		Type:      task.Type,
		Status:    model.StatusFailed,
		Message:   err.Error(),
		Error:     err,
		Duration:  time.Since(started),
		Timestamp: started,
	}
}
