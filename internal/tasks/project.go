package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/gns3ops/gns3ctl/internal/config"
	"github.com/gns3ops/gns3ctl/internal/converge"
	"github.com/gns3ops/gns3ctl/internal/gns3"
	"github.com/gns3ops/gns3ctl/internal/logger"
	"github.com/gns3ops/gns3ctl/internal/model"
	gnserrors "github.com/gns3ops/gns3ctl/pkg/errors"
)

// ProjectTask manages project lifecycle (opened/closed/present/absent) and,
// when requested, converges the project's nodes to an aggregate state.
type ProjectTask struct {
	// Sleeper overrides the convergence wait mechanism (tests only).
	Sleeper converge.Sleeper
}

func (t *ProjectTask) Type() string { return "project" }

func (t *ProjectTask) Run(ctx context.Context, client Client, task *config.Task, log *logger.Logger) (*model.TaskResult, error) {
	cfg := task.Project
	if cfg == nil {
		return nil, gnserrors.NewValidationError(task.ID, "project configuration missing", nil)
	}

	project, err := resolveProject(ctx, client, cfg.ProjectRef)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	exists := err == nil

	switch cfg.State {
	case "opened":
		if !exists {
			return nil, err
		}
		return t.runOpened(ctx, client, cfg, project, log)
	case "closed":
		if !exists {
			return nil, err
		}
		return t.runClosed(ctx, client, project)
	case "present":
		return t.runPresent(ctx, client, cfg, project, exists, log)
	case "absent":
		return t.runAbsent(ctx, client, project, exists)
	}
	return nil, gnserrors.NewValidationError(task.ID, fmt.Sprintf("unknown project state %q", cfg.State), nil)
}

func (t *ProjectTask) runOpened(ctx context.Context, client Client, cfg *config.ProjectTask, project *gns3.Project, log *logger.Logger) (*model.TaskResult, error) {
	changed := false

	if project.Status != gns3.ProjectOpened {
		opened, err := client.OpenProject(ctx, project.ProjectID)
		if err != nil {
			return nil, err
		}
		project = opened
		changed = true
		log.WithFields(map[string]any{"project": project.Name}).Info("project opened")
	}

	if cfg.NodesState != "" {
		outcome, err := t.convergeNodes(ctx, client, cfg, project.ProjectID)
		if err != nil {
			return nil, err
		}
		changed = changed || outcome.Changed
	}

	return &model.TaskResult{
		Changed: changed,
		Message: fmt.Sprintf("project %s opened", project.Name),
		Data:    map[string]any{"project": projectData(project)},
	}, nil
}

func (t *ProjectTask) runClosed(ctx context.Context, client Client, project *gns3.Project) (*model.TaskResult, error) {
	changed := false
	if project.Status != gns3.ProjectClosed {
		closed, err := client.CloseProject(ctx, project.ProjectID)
		if err != nil {
			return nil, err
		}
		project = closed
		changed = true
	}

	return &model.TaskResult{
		Changed: changed,
		Message: fmt.Sprintf("project %s closed", project.Name),
		Data:    map[string]any{"project": projectData(project)},
	}, nil
}

func (t *ProjectTask) runPresent(ctx context.Context, client Client, cfg *config.ProjectTask, project *gns3.Project, exists bool, log *logger.Logger) (*model.TaskResult, error) {
	changed := false

	if !exists {
		if cfg.ProjectName == "" {
			return nil, gnserrors.NewValidationError("project_name", "project_name is required to create a project", nil)
		}
		created, err := client.CreateProject(ctx, cfg.ProjectName)
		if err != nil {
			return nil, err
		}
		project = created
		changed = true
		log.WithFields(map[string]any{"project": project.Name}).Info("project created")
	}

	if len(cfg.NodesSpec) > 0 {
		nodesChanged, err := t.ensureNodes(ctx, client, cfg, project)
		if err != nil {
			return nil, err
		}
		changed = changed || nodesChanged
	}

	if len(cfg.LinksSpec) > 0 {
		linksChanged, err := t.ensureLinks(ctx, client, cfg, project)
		if err != nil {
			return nil, err
		}
		changed = changed || linksChanged
	}

	return &model.TaskResult{
		Changed: changed,
		Message: fmt.Sprintf("project %s present", project.Name),
		Data:    map[string]any{"project": projectData(project)},
	}, nil
}

func (t *ProjectTask) runAbsent(ctx context.Context, client Client, project *gns3.Project, exists bool) (*model.TaskResult, error) {
	if !exists {
		return &model.TaskResult{Changed: false, Message: "project already absent"}, nil
	}

	// Stop nodes and close before deleting so the server tears down cleanly.
	nodes, err := client.Nodes(ctx, project.ProjectID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if len(nodes) > 0 {
		opts := converge.Options{Strategy: converge.StrategyAll, Delay: 0, Sleeper: t.Sleeper}
		if _, err := converge.Converge(ctx, client, project.ProjectID, nodes, converge.StateStopped, opts); err != nil {
			return nil, err
		}
	}
	if _, err := client.CloseProject(ctx, project.ProjectID); err != nil {
		return nil, err
	}
	if err := client.DeleteProject(ctx, project.ProjectID); err != nil {
		return nil, err
	}

	return &model.TaskResult{
		Changed: true,
		Message: fmt.Sprintf("project %s deleted", project.Name),
	}, nil
}

// convergeNodes drives every node in the project toward the aggregate
// nodes_state. Strategy all settles for poll_wait_time; one_by_one paces
// with nodes_delay between nodes.
func (t *ProjectTask) convergeNodes(ctx context.Context, client Client, cfg *config.ProjectTask, projectID string) (*converge.Outcome, error) {
	nodes, err := client.Nodes(ctx, projectID)
	if err != nil {
		return nil, err
	}

	strategy := converge.Strategy(cfg.NodesStrategy)
	delay := cfg.PollWaitTime
	if strategy == converge.StrategyOneByOne {
		delay = cfg.NodesDelay
	}

	opts := converge.Options{
		Strategy: strategy,
		Delay:    delay,
		Retry:    cfg.Retry,
		Sleeper:  t.Sleeper,
	}
	return converge.Converge(ctx, client, projectID, nodes, converge.State(cfg.NodesState), opts)
}

func (t *ProjectTask) ensureNodes(ctx context.Context, client Client, cfg *config.ProjectTask, project *gns3.Project) (bool, error) {
	existing, err := client.Nodes(ctx, project.ProjectID)
	if err != nil {
		return false, err
	}
	present := make(map[string]struct{}, len(existing))
	for _, node := range existing {
		present[node.Name] = struct{}{}
	}

	changed := false
	opened := project.Status == gns3.ProjectOpened
	for _, spec := range cfg.NodesSpec {
		if _, ok := present[spec.Name]; ok {
			continue
		}
		if !opened {
			if _, err := client.OpenProject(ctx, project.ProjectID); err != nil {
				return changed, err
			}
			opened = true
		}
		if _, err := client.CreateNode(ctx, project.ProjectID, spec); err != nil {
			return changed, err
		}
		changed = true
	}
	return changed, nil
}

func (t *ProjectTask) ensureLinks(ctx context.Context, client Client, cfg *config.ProjectTask, project *gns3.Project) (bool, error) {
	changed := false
	for _, link := range cfg.LinksSpec {
		_, err := client.CreateLink(ctx, project.ProjectID, link[0], link[1], link[2], link[3])
		if err != nil {
			if errors.Is(err, gns3.ErrPortInUse) {
				// Endpoint already wired; the link is in place.
				continue
			}
			return changed, err
		}
		changed = true
	}
	return changed, nil
}
