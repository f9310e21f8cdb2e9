package tasks

import (
	"context"
	"errors"
	"net/http"

	"github.com/gns3ops/gns3ctl/internal/config"
	"github.com/gns3ops/gns3ctl/internal/gns3"
	gnserrors "github.com/gns3ops/gns3ctl/pkg/errors"
)

func resolveProject(ctx context.Context, client Client, ref config.ProjectRef) (*gns3.Project, error) {
	if ref.ProjectID != "" {
		return client.Project(ctx, ref.ProjectID)
	}
	return client.ProjectByName(ctx, ref.ProjectName)
}

func resolveNode(ctx context.Context, client Client, projectID, name, id string) (*gns3.Node, error) {
	if id != "" {
		return client.Node(ctx, projectID, id)
	}
	return client.NodeByName(ctx, projectID, name)
}

// isNotFound distinguishes "the resource does not exist" from transport or
// server failures, so absent-state tasks can treat it as already converged.
func isNotFound(err error) bool {
	var requestErr *gnserrors.RequestError
	if errors.As(err, &requestErr) {
		return requestErr.Status == http.StatusNotFound
	}
	return false
}

func projectData(p *gns3.Project) map[string]any {
	return map[string]any{
		"name":       p.Name,
		"project_id": p.ProjectID,
		"status":     p.Status,
		"path":       p.Path,
		"filename":   p.Filename,
		"auto_close": p.AutoClose,
		"auto_open":  p.AutoOpen,
		"auto_start": p.AutoStart,
	}
}

func nodeData(n *gns3.Node) map[string]any {
	return map[string]any{
		"name":           n.Name,
		"project_id":     n.ProjectID,
		"node_id":        n.NodeID,
		"status":         n.Status,
		"node_directory": n.NodeDirectory,
		"node_type":      n.NodeType,
	}
}

func snapshotData(s *gns3.Snapshot) map[string]any {
	return map[string]any{
		"name":        s.Name,
		"snapshot_id": s.SnapshotID,
		"project_id":  s.ProjectID,
		"created_at":  s.CreatedAt,
	}
}
