package config

import (
	"fmt"

	gnserrors "github.com/gns3ops/gns3ctl/pkg/errors"
)

// ValidateTask inspects a single task for structural correctness
// independent of other tasks.
func ValidateTask(task Task) error {
	v := validatorInstance()
	if err := v.Struct(task); err != nil {
		return convertValidationError(err)
	}

	switch task.Type {
	case "project":
		if task.Project == nil {
			return gnserrors.NewValidationError(task.ID, "project configuration is required", nil)
		}
		if err := v.Struct(task.Project); err != nil {
			return convertValidationError(err)
		}
		return validateProjectTask(task.ID, task.Project)
	case "node":
		if task.Node == nil {
			return gnserrors.NewValidationError(task.ID, "node configuration is required", nil)
		}
		if err := v.Struct(task.Node); err != nil {
			return convertValidationError(err)
		}
		if err := requireProjectRef(task.ID, task.Node.ProjectRef); err != nil {
			return err
		}
		return requireOneOf(task.ID, "node_name", task.Node.NodeName, "node_id", task.Node.NodeID)
	case "snapshot":
		if task.Snapshot == nil {
			return gnserrors.NewValidationError(task.ID, "snapshot configuration is required", nil)
		}
		if err := v.Struct(task.Snapshot); err != nil {
			return convertValidationError(err)
		}
		if err := requireProjectRef(task.ID, task.Snapshot.ProjectRef); err != nil {
			return err
		}
		return requireOneOf(task.ID, "snapshot_name", task.Snapshot.SnapshotName, "snapshot_id", task.Snapshot.SnapshotID)
	case "node_file":
		if task.NodeFile == nil {
			return gnserrors.NewValidationError(task.ID, "node_file configuration is required", nil)
		}
		if err := v.Struct(task.NodeFile); err != nil {
			return convertValidationError(err)
		}
		if err := requireProjectRef(task.ID, task.NodeFile.ProjectRef); err != nil {
			return err
		}
		if err := requireOneOf(task.ID, "node_name", task.NodeFile.NodeName, "node_id", task.NodeFile.NodeID); err != nil {
			return err
		}
		return validateFileContent(task.ID, task.NodeFile.State, task.NodeFile.Data)
	case "project_file":
		if task.ProjectFile == nil {
			return gnserrors.NewValidationError(task.ID, "project_file configuration is required", nil)
		}
		if err := v.Struct(task.ProjectFile); err != nil {
			return convertValidationError(err)
		}
		if err := requireProjectRef(task.ID, task.ProjectFile.ProjectRef); err != nil {
			return err
		}
		return validateFileContent(task.ID, task.ProjectFile.State, task.ProjectFile.Data)
	case "facts":
		if task.Facts == nil {
			return gnserrors.NewValidationError(task.ID, "facts configuration is required", nil)
		}
		return nil
	case "version":
		return nil
	case "inventory":
		if task.Inventory == nil {
			return gnserrors.NewValidationError(task.ID, "inventory configuration is required", nil)
		}
		return requireProjectRef(task.ID, task.Inventory.ProjectRef)
	default:
		return gnserrors.NewValidationError(task.ID, fmt.Sprintf("unknown task type %q", task.Type), nil)
	}
}

func validateProjectTask(taskID string, p *ProjectTask) error {
	if err := requireProjectRef(taskID, p.ProjectRef); err != nil {
		return err
	}

	if p.NodesStrategy == "one_by_one" && p.NodesDelay == 0 {
		return gnserrors.NewValidationError(taskID, "nodes_delay is required with nodes_strategy one_by_one", nil)
	}

	for i, link := range p.LinksSpec {
		if len(link) != 4 {
			return gnserrors.NewValidationError(
				fmt.Sprintf("%s.links_spec[%d]", taskID, i),
				"link must be [node_a, port_a, node_b, port_b]", nil)
		}
		for _, part := range link {
			if part == "" {
				return gnserrors.NewValidationError(
					fmt.Sprintf("%s.links_spec[%d]", taskID, i),
					"link endpoints must be non-empty", nil)
			}
		}
	}

	return nil
}

func validateFileContent(taskID, state, data string) error {
	if state != "absent" && data == "" {
		return gnserrors.NewValidationError(taskID, "data is required when state is present", nil)
	}
	return nil
}

func requireProjectRef(taskID string, ref ProjectRef) error {
	return requireOneOf(taskID, "project_name", ref.ProjectName, "project_id", ref.ProjectID)
}

func requireOneOf(taskID, nameField, name, idField, id string) error {
	if name == "" && id == "" {
		return gnserrors.NewValidationError(taskID, fmt.Sprintf("one of %s or %s is required", nameField, idField), nil)
	}
	return nil
}
