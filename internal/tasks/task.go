package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/gns3ops/gns3ctl/internal/config"
	"github.com/gns3ops/gns3ctl/internal/gns3"
	"github.com/gns3ops/gns3ctl/internal/logger"
	"github.com/gns3ops/gns3ctl/internal/model"
	gnserrors "github.com/gns3ops/gns3ctl/pkg/errors"
)

// Client is the slice of the GNS3 REST client the task modules consume.
// *gns3.Client satisfies it; tests substitute fakes.
type Client interface {
	Version(ctx context.Context) (*gns3.Version, error)
	Computes(ctx context.Context) ([]gns3.Compute, error)
	ComputeImages(ctx context.Context, computeID, emulator string) ([]gns3.ComputeImage, error)
	ComputePorts(ctx context.Context, computeID string) (*gns3.ComputePorts, error)

	Project(ctx context.Context, projectID string) (*gns3.Project, error)
	ProjectByName(ctx context.Context, name string) (*gns3.Project, error)
	CreateProject(ctx context.Context, name string) (*gns3.Project, error)
	DeleteProject(ctx context.Context, projectID string) error
	OpenProject(ctx context.Context, projectID string) (*gns3.Project, error)
	CloseProject(ctx context.Context, projectID string) (*gns3.Project, error)

	Nodes(ctx context.Context, projectID string) ([]gns3.Node, error)
	Node(ctx context.Context, projectID, nodeID string) (*gns3.Node, error)
	NodeByName(ctx context.Context, projectID, name string) (*gns3.Node, error)
	CreateNode(ctx context.Context, projectID string, spec gns3.NodeSpec) (*gns3.Node, error)
	Transition(ctx context.Context, projectID, nodeID string, action gns3.Action) error
	CreateLink(ctx context.Context, projectID, nodeA, portA, nodeB, portB string) (*gns3.Link, error)

	Snapshots(ctx context.Context, projectID string) ([]gns3.Snapshot, error)
	SnapshotByName(ctx context.Context, projectID, name string) (*gns3.Snapshot, error)
	CreateSnapshot(ctx context.Context, projectID, name string) (*gns3.Snapshot, error)
	DeleteSnapshot(ctx context.Context, projectID, snapshotID string) error
	RestoreSnapshot(ctx context.Context, projectID, snapshotID string) error

	ProjectFile(ctx context.Context, projectID, filePath string) (string, error)
	WriteProjectFile(ctx context.Context, projectID, filePath, data string) error
	NodeFile(ctx context.Context, projectID, nodeID, filePath string) (string, error)
	WriteNodeFile(ctx context.Context, projectID, nodeID, filePath, data string) error
}

var _ Client = (*gns3.Client)(nil)

// Task is the contract every task module satisfies. Run must be idempotent
// for idempotent task semantics: a converged target yields Changed=false
// and no mutating remote call.
type Task interface {
	Type() string
	Run(ctx context.Context, client Client, task *config.Task, log *logger.Logger) (*model.TaskResult, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Task)
)

// Register adds a task implementation for the provided type.
func Register(t Task) error {
	if t == nil {
		return gnserrors.NewValidationError("task", "task is nil", nil)
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[t.Type()]; exists {
		return gnserrors.NewValidationError(t.Type(), "task type already registered", nil)
	}

	registry[t.Type()] = t
	return nil
}

// Get retrieves a task module by type.
func Get(taskType string) (Task, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	t, ok := registry[taskType]
	if !ok {
		return nil, gnserrors.NewValidationError(taskType, fmt.Sprintf("no task module registered for type %q", taskType), nil)
	}

	return t, nil
}

// ResetRegistry clears task registrations (for tests).
func ResetRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Task)
}

// RegisterBuiltins registers every built-in task module.
func RegisterBuiltins() error {
	builtins := []Task{
		&ProjectTask{},
		&NodeTask{},
		&SnapshotTask{},
		&NodeFileTask{},
		&ProjectFileTask{},
		&FactsTask{},
		&VersionTask{},
		&InventoryTask{},
	}
	for _, t := range builtins {
		if err := Register(t); err != nil {
			return err
		}
	}
	return nil
}
