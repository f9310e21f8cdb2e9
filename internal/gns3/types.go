package gns3

// Version describes the server build as reported by GET /v2/version.
type Version struct {
	Version string `json:"version"`
	Local   bool   `json:"local"`
}

// Capabilities lists what a compute supports.
type Capabilities struct {
	NodeTypes []string `json:"node_types"`
	Platform  string   `json:"platform,omitempty"`
	Version   string   `json:"version,omitempty"`
}

// Compute is a server that hosts emulated nodes.
type Compute struct {
	ComputeID          string       `json:"compute_id"`
	Name               string       `json:"name"`
	Host               string       `json:"host"`
	Port               int          `json:"port"`
	Protocol           string       `json:"protocol"`
	User               string       `json:"user,omitempty"`
	Connected          bool         `json:"connected"`
	CPUUsagePercent    float64      `json:"cpu_usage_percent"`
	MemoryUsagePercent float64      `json:"memory_usage_percent"`
	LastError          string       `json:"last_error,omitempty"`
	Capabilities       Capabilities `json:"capabilities"`
}

// ComputeImage is a disk image available on a compute for one emulator.
type ComputeImage struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Md5sum   string `json:"md5sum,omitempty"`
}

// ComputePorts reports the console and UDP port ranges of a compute.
type ComputePorts struct {
	ConsolePorts     string `json:"console_port_range,omitempty"`
	ConsolePortsUsed []int  `json:"console_ports,omitempty"`
	UDPPorts         string `json:"udp_port_range,omitempty"`
	UDPPortsUsed     []int  `json:"udp_ports,omitempty"`
}

// Project lifecycle statuses.
const (
	ProjectOpened = "opened"
	ProjectClosed = "closed"
)

// Project is a GNS3 project (a lab).
type Project struct {
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Path      string `json:"path,omitempty"`
	Filename  string `json:"filename,omitempty"`
	AutoClose bool   `json:"auto_close"`
	AutoOpen  bool   `json:"auto_open"`
	AutoStart bool   `json:"auto_start"`
}

// Node lifecycle statuses as reported by the server.
const (
	NodeStarted   = "started"
	NodeStopped   = "stopped"
	NodeSuspended = "suspended"
)

// NodePort is a connectable interface of a node.
type NodePort struct {
	Name          string `json:"name"`
	ShortName     string `json:"short_name,omitempty"`
	AdapterNumber int    `json:"adapter_number"`
	PortNumber    int    `json:"port_number"`
	LinkType      string `json:"link_type,omitempty"`
}

// Node is an emulated device inside a project.
type Node struct {
	NodeID        string     `json:"node_id"`
	Name          string     `json:"name"`
	Status        string     `json:"status"`
	NodeType      string     `json:"node_type"`
	NodeDirectory string     `json:"node_directory,omitempty"`
	ProjectID     string     `json:"project_id"`
	ComputeID     string     `json:"compute_id"`
	TemplateID    string     `json:"template_id,omitempty"`
	Console       int        `json:"console,omitempty"`
	ConsoleHost   string     `json:"console_host,omitempty"`
	ConsoleType   string     `json:"console_type,omitempty"`
	Ports         []NodePort `json:"ports,omitempty"`
}

// Template is a reusable node definition configured on the server.
type Template struct {
	TemplateID   string `json:"template_id"`
	Name         string `json:"name"`
	TemplateType string `json:"template_type"`
	ComputeID    string `json:"compute_id,omitempty"`
}

// LinkEndpoint pins one side of a link to a node interface.
type LinkEndpoint struct {
	NodeID        string `json:"node_id"`
	AdapterNumber int    `json:"adapter_number"`
	PortNumber    int    `json:"port_number"`
}

// Link is a wire between two node interfaces.
type Link struct {
	LinkID string         `json:"link_id"`
	Nodes  []LinkEndpoint `json:"nodes"`
}

// Snapshot is a saved state of a project.
type Snapshot struct {
	SnapshotID string `json:"snapshot_id"`
	Name       string `json:"name"`
	ProjectID  string `json:"project_id"`
	CreatedAt  int64  `json:"created_at"`
}

// NodeSpec describes a node to instantiate from a template.
type NodeSpec struct {
	Name      string `yaml:"name" json:"name" validate:"required"`
	NodeType  string `yaml:"node_type" json:"node_type" validate:"required"`
	Template  string `yaml:"template" json:"template" validate:"required"`
	ComputeID string `yaml:"compute_id,omitempty" json:"compute_id,omitempty"`
}
