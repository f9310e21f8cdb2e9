package tasks

import (
	"context"
	"fmt"

	"github.com/gns3ops/gns3ctl/internal/config"
	"github.com/gns3ops/gns3ctl/internal/converge"
	"github.com/gns3ops/gns3ctl/internal/gns3"
	"github.com/gns3ops/gns3ctl/internal/logger"
	"github.com/gns3ops/gns3ctl/internal/model"
	gnserrors "github.com/gns3ops/gns3ctl/pkg/errors"
)

// NodeTask drives a single node toward started/stopped/suspended, or
// reloads it. Reload has no stable end state and always reports changed.
type NodeTask struct {
	Sleeper converge.Sleeper
}

func (t *NodeTask) Type() string { return "node" }

func (t *NodeTask) Run(ctx context.Context, client Client, task *config.Task, log *logger.Logger) (*model.TaskResult, error) {
	cfg := task.Node
	if cfg == nil {
		return nil, gnserrors.NewValidationError(task.ID, "node configuration missing", nil)
	}

	project, err := resolveProject(ctx, client, cfg.ProjectRef)
	if err != nil {
		return nil, err
	}

	if project.Status != gns3.ProjectOpened {
		if !cfg.ForceProjectOpen {
			return nil, gnserrors.NewValidationError(task.ID,
				fmt.Sprintf("project %s is closed; set force_project_open to open it", project.Name), nil)
		}
		opened, err := client.OpenProject(ctx, project.ProjectID)
		if err != nil {
			return nil, err
		}
		project = opened
		log.WithFields(map[string]any{"project": project.Name}).Info("project force-opened")
	}

	node, err := resolveNode(ctx, client, project.ProjectID, cfg.NodeName, cfg.NodeID)
	if err != nil {
		return nil, err
	}

	opts := converge.Options{
		Strategy: converge.StrategyAll,
		Delay:    cfg.PollWaitTime,
		Retry:    cfg.Retry,
		Sleeper:  t.Sleeper,
	}
	outcome, err := converge.Converge(ctx, client, project.ProjectID, []gns3.Node{*node}, converge.State(cfg.State), opts)
	if err != nil {
		return nil, err
	}

	// Re-observe so the reported data reflects post-transition state.
	if outcome.Changed {
		refreshed, err := client.Node(ctx, project.ProjectID, node.NodeID)
		if err != nil {
			return nil, err
		}
		node = refreshed
	}

	return &model.TaskResult{
		Changed: outcome.Changed,
		Message: fmt.Sprintf("node %s: %s", node.Name, cfg.State),
		Data:    map[string]any{"node": nodeData(node)},
	}, nil
}
