package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/gns3ops/gns3ctl/internal/config"
	"github.com/gns3ops/gns3ctl/internal/gns3"
	"github.com/gns3ops/gns3ctl/internal/logger"
	"github.com/gns3ops/gns3ctl/internal/model"
	gnserrors "github.com/gns3ops/gns3ctl/pkg/errors"
)

// NodeFileTask pushes text content into a node's directory. Content is
// compared before writing so converged files report changed=false. The
// REST API exposes no DELETE for these paths, so absent truncates instead.
type NodeFileTask struct{}

func (t *NodeFileTask) Type() string { return "node_file" }

func (t *NodeFileTask) Run(ctx context.Context, client Client, task *config.Task, log *logger.Logger) (*model.TaskResult, error) {
	cfg := task.NodeFile
	if cfg == nil {
		return nil, gnserrors.NewValidationError(task.ID, "node_file configuration missing", nil)
	}

	project, err := resolveProject(ctx, client, cfg.ProjectRef)
	if err != nil {
		return nil, err
	}
	node, err := resolveNode(ctx, client, project.ProjectID, cfg.NodeName, cfg.NodeID)
	if err != nil {
		return nil, err
	}

	current, err := client.NodeFile(ctx, project.ProjectID, node.NodeID, cfg.Dest)
	if err != nil && !errors.Is(err, gns3.ErrFileNotFound) {
		return nil, err
	}

	write := func(data string) error {
		return client.WriteNodeFile(ctx, project.ProjectID, node.NodeID, cfg.Dest, data)
	}
	return reconcileFile(cfg.State, cfg.Dest, cfg.Data, current, write)
}

// ProjectFileTask pushes text content into the project directory with the
// same drift detection as NodeFileTask.
type ProjectFileTask struct{}

func (t *ProjectFileTask) Type() string { return "project_file" }

func (t *ProjectFileTask) Run(ctx context.Context, client Client, task *config.Task, log *logger.Logger) (*model.TaskResult, error) {
	cfg := task.ProjectFile
	if cfg == nil {
		return nil, gnserrors.NewValidationError(task.ID, "project_file configuration missing", nil)
	}

	project, err := resolveProject(ctx, client, cfg.ProjectRef)
	if err != nil {
		return nil, err
	}

	current, err := client.ProjectFile(ctx, project.ProjectID, cfg.Dest)
	if err != nil && !errors.Is(err, gns3.ErrFileNotFound) {
		return nil, err
	}

	write := func(data string) error {
		return client.WriteProjectFile(ctx, project.ProjectID, cfg.Dest, data)
	}
	return reconcileFile(cfg.State, cfg.Dest, cfg.Data, current, write)
}

func reconcileFile(state, dest, desired, current string, write func(string) error) (*model.TaskResult, error) {
	switch state {
	case "absent":
		if current == "" {
			return &model.TaskResult{Changed: false, Message: fmt.Sprintf("%s already empty", dest)}, nil
		}
		if err := write(""); err != nil {
			return nil, err
		}
		return &model.TaskResult{Changed: true, Message: fmt.Sprintf("%s truncated", dest)}, nil
	default:
		if current == desired {
			return &model.TaskResult{Changed: false, Message: fmt.Sprintf("%s up to date", dest)}, nil
		}
		if err := write(desired); err != nil {
			return nil, err
		}
		return &model.TaskResult{Changed: true, Message: fmt.Sprintf("%s written", dest)}, nil
	}
}
