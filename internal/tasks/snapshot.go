package tasks

import (
	"context"
	"fmt"

	"github.com/gns3ops/gns3ctl/internal/config"
	"github.com/gns3ops/gns3ctl/internal/gns3"
	"github.com/gns3ops/gns3ctl/internal/logger"
	"github.com/gns3ops/gns3ctl/internal/model"
	gnserrors "github.com/gns3ops/gns3ctl/pkg/errors"
)

// SnapshotTask creates, deletes or restores project snapshots. Restore is
// never idempotent: it always rolls the project back and reports changed.
type SnapshotTask struct{}

func (t *SnapshotTask) Type() string { return "snapshot" }

func (t *SnapshotTask) Run(ctx context.Context, client Client, task *config.Task, log *logger.Logger) (*model.TaskResult, error) {
	cfg := task.Snapshot
	if cfg == nil {
		return nil, gnserrors.NewValidationError(task.ID, "snapshot configuration missing", nil)
	}

	project, err := resolveProject(ctx, client, cfg.ProjectRef)
	if err != nil {
		return nil, err
	}

	snapshot, err := t.lookup(ctx, client, project.ProjectID, cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.State {
	case "present":
		if snapshot != nil {
			return &model.TaskResult{
				Changed: false,
				Message: fmt.Sprintf("snapshot %s already present", snapshot.Name),
				Data:    map[string]any{"snapshot": snapshotData(snapshot)},
			}, nil
		}
		if cfg.SnapshotName == "" {
			return nil, gnserrors.NewValidationError(task.ID, "snapshot_name is required for creation", nil)
		}
		created, err := client.CreateSnapshot(ctx, project.ProjectID, cfg.SnapshotName)
		if err != nil {
			return nil, err
		}
		log.WithFields(map[string]any{"snapshot": created.Name}).Info("snapshot created")
		return &model.TaskResult{
			Changed: true,
			Message: fmt.Sprintf("snapshot %s created", created.Name),
			Data:    map[string]any{"snapshot": snapshotData(created)},
		}, nil

	case "absent":
		if snapshot == nil {
			return &model.TaskResult{Changed: false, Message: "snapshot already absent"}, nil
		}
		if err := client.DeleteSnapshot(ctx, project.ProjectID, snapshot.SnapshotID); err != nil {
			return nil, err
		}
		return &model.TaskResult{
			Changed: true,
			Message: fmt.Sprintf("snapshot %s deleted", snapshot.Name),
		}, nil

	case "restore":
		if snapshot == nil {
			return nil, gnserrors.NewTaskError(task.ID, fmt.Errorf("snapshot not found"))
		}
		if err := client.RestoreSnapshot(ctx, project.ProjectID, snapshot.SnapshotID); err != nil {
			return nil, err
		}
		return &model.TaskResult{
			Changed: true,
			Message: fmt.Sprintf("project restored from snapshot %s", snapshot.Name),
			Data:    map[string]any{"snapshot": snapshotData(snapshot)},
		}, nil
	}
	return nil, gnserrors.NewValidationError(task.ID, fmt.Sprintf("unknown snapshot state %q", cfg.State), nil)
}

func (t *SnapshotTask) lookup(ctx context.Context, client Client, projectID string, cfg *config.SnapshotTask) (*gns3.Snapshot, error) {
	if cfg.SnapshotID != "" {
		snapshots, err := client.Snapshots(ctx, projectID)
		if err != nil {
			return nil, err
		}
		for i := range snapshots {
			if snapshots[i].SnapshotID == cfg.SnapshotID {
				return &snapshots[i], nil
			}
		}
		return nil, nil
	}
	return client.SnapshotByName(ctx, projectID, cfg.SnapshotName)
}
