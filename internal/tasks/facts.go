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

// computeFacts is one compute's inventory, optionally enriched with its
// emulator images and port usage.
type computeFacts struct {
	gns3.Compute
	Images map[string][]gns3.ComputeImage `json:"images,omitempty"`
	Ports  *gns3.ComputePorts             `json:"compute_ports,omitempty"`
}

// FactsTask gathers compute information from the server. Read-only.
type FactsTask struct{}

func (t *FactsTask) Type() string { return "facts" }

func (t *FactsTask) Run(ctx context.Context, client Client, task *config.Task, log *logger.Logger) (*model.TaskResult, error) {
	cfg := task.Facts
	if cfg == nil {
		return nil, gnserrors.NewValidationError(task.ID, "facts configuration missing", nil)
	}

	computes, err := client.Computes(ctx)
	if err != nil {
		return nil, err
	}

	facts := make([]computeFacts, 0, len(computes))
	for _, compute := range computes {
		entry := computeFacts{Compute: compute}

		if cfg.GetImages != "" {
			entry.Images = map[string][]gns3.ComputeImage{}
			emulators := []string{cfg.GetImages}
			if cfg.GetImages == "all" {
				emulators = compute.Capabilities.NodeTypes
			}
			for _, emulator := range emulators {
				images, err := client.ComputeImages(ctx, compute.ComputeID, emulator)
				if err != nil {
					// Emulators without a configured image directory 404.
					if isNotFound(err) {
						continue
					}
					return nil, err
				}
				entry.Images[emulator] = images
			}
		}

		if cfg.GetComputePorts {
			ports, err := client.ComputePorts(ctx, compute.ComputeID)
			if err != nil {
				return nil, err
			}
			entry.Ports = ports
		}

		facts = append(facts, entry)
	}

	return &model.TaskResult{
		Changed: false,
		Message: fmt.Sprintf("%d compute(s) inspected", len(facts)),
		Data:    map[string]any{"facts": facts},
	}, nil
}

// VersionTask retrieves the server version. Read-only.
type VersionTask struct{}

func (t *VersionTask) Type() string { return "version" }

func (t *VersionTask) Run(ctx context.Context, client Client, task *config.Task, log *logger.Logger) (*model.TaskResult, error) {
	version, err := client.Version(ctx)
	if err != nil {
		return nil, err
	}

	return &model.TaskResult{
		Changed: false,
		Message: fmt.Sprintf("server version %s", version.Version),
		Data: map[string]any{
			"version":       version.Version,
			"local_compute": version.Local,
		},
	}, nil
}

// InventoryTask collects per-node console information for a project.
// Read-only; useful for generating out-of-band inventories.
type InventoryTask struct{}

func (t *InventoryTask) Type() string { return "inventory" }

func (t *InventoryTask) Run(ctx context.Context, client Client, task *config.Task, log *logger.Logger) (*model.TaskResult, error) {
	cfg := task.Inventory
	if cfg == nil {
		return nil, gnserrors.NewValidationError(task.ID, "inventory configuration missing", nil)
	}

	project, err := resolveProject(ctx, client, cfg.ProjectRef)
	if err != nil {
		return nil, err
	}
	nodes, err := client.Nodes(ctx, project.ProjectID)
	if err != nil {
		return nil, err
	}

	inventory := make(map[string]map[string]any, len(nodes))
	for _, node := range nodes {
		inventory[node.Name] = map[string]any{
			"name":         node.Name,
			"node_id":      node.NodeID,
			"status":       node.Status,
			"node_type":    node.NodeType,
			"console_host": node.ConsoleHost,
			"console_port": node.Console,
			"console_type": node.ConsoleType,
		}
	}

	return &model.TaskResult{
		Changed: false,
		Message: fmt.Sprintf("%d node(s) inventoried", len(nodes)),
		Data: map[string]any{
			"nodes_inventory": inventory,
			"total_nodes":     len(nodes),
		},
	}, nil
}
