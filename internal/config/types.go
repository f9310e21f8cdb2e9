package config

import (
	"gopkg.in/yaml.v3"

	"github.com/gns3ops/gns3ctl/internal/gns3"
)

// Playbook represents the full gns3ctl playbook document.
type Playbook struct {
	Version     string   `yaml:"version" validate:"required,semver"`
	Name        string   `yaml:"name" validate:"required,min=1,max=100"`
	Description string   `yaml:"description,omitempty"`
	Server      Server   `yaml:"server" validate:"required"`
	Settings    Settings `yaml:"settings,omitempty"`
	Tasks       []Task   `yaml:"tasks" validate:"required,min=1,dive"`
}

// Server holds the GNS3 server connection parameters. Credentials are
// passed through to the REST client unchanged.
type Server struct {
	URL      string `yaml:"url" validate:"required,url"`
	Port     int    `yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// Settings holds global execution parameters.
type Settings struct {
	ContinueOnError bool `yaml:"continue_on_error,omitempty"`
	Verbose         bool `yaml:"verbose,omitempty"`
	Timeout         int  `yaml:"timeout,omitempty" validate:"omitempty,min=1,max=3600"`
}

// Task describes an individual unit of work in the playbook.
type Task struct {
	ID   string `yaml:"id" validate:"required,task_id"`
	Name string `yaml:"name,omitempty"`
	Type string `yaml:"type" validate:"required,oneof=project node snapshot node_file project_file facts version inventory"`

	Project     *ProjectTask     `yaml:"-"`
	Node        *NodeTask        `yaml:"-"`
	Snapshot    *SnapshotTask    `yaml:"-"`
	NodeFile    *NodeFileTask    `yaml:"-"`
	ProjectFile *ProjectFileTask `yaml:"-"`
	Facts       *FactsTask       `yaml:"-"`
	Inventory   *InventoryTask   `yaml:"-"`
}

// UnmarshalYAML customises task decoding to populate the type-specific
// structure without field conflicts between task types.
func (t *Task) UnmarshalYAML(value *yaml.Node) error {
	type baseTask struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	}

	var base baseTask
	if err := value.Decode(&base); err != nil {
		return err
	}

	t.ID = base.ID
	t.Name = base.Name
	t.Type = base.Type

	t.Project = nil
	t.Node = nil
	t.Snapshot = nil
	t.NodeFile = nil
	t.ProjectFile = nil
	t.Facts = nil
	t.Inventory = nil

	switch base.Type {
	case "project":
		var project ProjectTask
		if err := value.Decode(&project); err != nil {
			return err
		}
		t.Project = &project
	case "node":
		var node NodeTask
		if err := value.Decode(&node); err != nil {
			return err
		}
		t.Node = &node
	case "snapshot":
		var snapshot SnapshotTask
		if err := value.Decode(&snapshot); err != nil {
			return err
		}
		t.Snapshot = &snapshot
	case "node_file":
		var file NodeFileTask
		if err := value.Decode(&file); err != nil {
			return err
		}
		t.NodeFile = &file
	case "project_file":
		var file ProjectFileTask
		if err := value.Decode(&file); err != nil {
			return err
		}
		t.ProjectFile = &file
	case "facts":
		var facts FactsTask
		if err := value.Decode(&facts); err != nil {
			return err
		}
		t.Facts = &facts
	case "inventory":
		var inventory InventoryTask
		if err := value.Decode(&inventory); err != nil {
			return err
		}
		t.Inventory = &inventory
	}

	return nil
}

// ProjectRef identifies a project by name or UUID; exactly one is needed.
type ProjectRef struct {
	ProjectName string `yaml:"project_name,omitempty"`
	ProjectID   string `yaml:"project_id,omitempty" validate:"omitempty,uuid"`
}

// ProjectTask manages a project's lifecycle and, optionally, the aggregate
// state of its nodes.
type ProjectTask struct {
	ProjectRef    `yaml:",inline"`
	State         string          `yaml:"state" validate:"required,oneof=opened closed present absent"`
	NodesState    string          `yaml:"nodes_state,omitempty" validate:"omitempty,oneof=started stopped"`
	NodesStrategy string          `yaml:"nodes_strategy,omitempty" validate:"omitempty,oneof=all one_by_one"`
	NodesDelay    int             `yaml:"nodes_delay,omitempty" validate:"omitempty,min=0"`
	PollWaitTime  int             `yaml:"poll_wait_time,omitempty" validate:"omitempty,min=0"`
	Retry         bool            `yaml:"retry,omitempty"`
	NodesSpec     []gns3.NodeSpec `yaml:"nodes_spec,omitempty" validate:"omitempty,dive"`
	LinksSpec     [][]string      `yaml:"links_spec,omitempty"`
}

// UnmarshalYAML applies defaults for project tasks.
func (p *ProjectTask) UnmarshalYAML(value *yaml.Node) error {
	type rawProject ProjectTask
	tmp := rawProject{NodesStrategy: "all", PollWaitTime: 5}
	if err := value.Decode(&tmp); err != nil {
		return err
	}
	*p = ProjectTask(tmp)
	return nil
}

// NodeTask drives a single node toward a lifecycle state.
type NodeTask struct {
	ProjectRef       `yaml:",inline"`
	NodeName         string `yaml:"node_name,omitempty"`
	NodeID           string `yaml:"node_id,omitempty" validate:"omitempty,uuid"`
	State            string `yaml:"state" validate:"required,oneof=started stopped suspended reload"`
	Retry            bool   `yaml:"retry,omitempty"`
	PollWaitTime     int    `yaml:"poll_wait_time,omitempty" validate:"omitempty,min=0"`
	ForceProjectOpen bool   `yaml:"force_project_open,omitempty"`
}

// UnmarshalYAML applies defaults for node tasks.
func (n *NodeTask) UnmarshalYAML(value *yaml.Node) error {
	type rawNode NodeTask
	tmp := rawNode{PollWaitTime: 5}
	if err := value.Decode(&tmp); err != nil {
		return err
	}
	*n = NodeTask(tmp)
	return nil
}

// SnapshotTask creates, deletes or restores a project snapshot.
type SnapshotTask struct {
	ProjectRef   `yaml:",inline"`
	SnapshotName string `yaml:"snapshot_name,omitempty"`
	SnapshotID   string `yaml:"snapshot_id,omitempty" validate:"omitempty,uuid"`
	State        string `yaml:"state" validate:"required,oneof=present absent restore"`
}

// NodeFileTask pushes text content into a node's directory.
type NodeFileTask struct {
	ProjectRef `yaml:",inline"`
	NodeName   string `yaml:"node_name,omitempty"`
	NodeID     string `yaml:"node_id,omitempty" validate:"omitempty,uuid"`
	Dest       string `yaml:"dest" validate:"required"`
	Data       string `yaml:"data,omitempty"`
	State      string `yaml:"state,omitempty" validate:"omitempty,oneof=present absent"`
}

// UnmarshalYAML applies defaults for node file tasks.
func (f *NodeFileTask) UnmarshalYAML(value *yaml.Node) error {
	type rawFile NodeFileTask
	tmp := rawFile{State: "present"}
	if err := value.Decode(&tmp); err != nil {
		return err
	}
	*f = NodeFileTask(tmp)
	return nil
}

// ProjectFileTask pushes text content into the project directory.
type ProjectFileTask struct {
	ProjectRef `yaml:",inline"`
	Dest       string `yaml:"dest" validate:"required"`
	Data       string `yaml:"data,omitempty"`
	State      string `yaml:"state,omitempty" validate:"omitempty,oneof=present absent"`
}

// UnmarshalYAML applies defaults for project file tasks.
func (f *ProjectFileTask) UnmarshalYAML(value *yaml.Node) error {
	type rawFile ProjectFileTask
	tmp := rawFile{State: "present"}
	if err := value.Decode(&tmp); err != nil {
		return err
	}
	*f = ProjectFileTask(tmp)
	return nil
}

// FactsTask gathers compute information from the server.
type FactsTask struct {
	GetImages       string `yaml:"get_images,omitempty"`
	GetComputePorts bool   `yaml:"get_compute_ports,omitempty"`
}

// InventoryTask collects the console inventory of a project's nodes.
type InventoryTask struct {
	ProjectRef `yaml:",inline"`
}
