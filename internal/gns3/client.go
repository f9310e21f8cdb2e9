package gns3

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	gnserrors "github.com/gns3ops/gns3ctl/pkg/errors"
)

// DefaultPort is the REST API port a stock GNS3 server listens on.
const DefaultPort = 3080

// Action is a node state transition understood by the server.
type Action string

const (
	ActionStart   Action = "start"
	ActionStop    Action = "stop"
	ActionSuspend Action = "suspend"
	ActionReload  Action = "reload"
)

// ErrPortInUse is returned by CreateLink when at least one endpoint already
// carries a link. Callers treat it as "link already present".
var ErrPortInUse = errors.New("at least one port is used")

// ErrFileNotFound marks a project or node file path the server has no
// content for yet.
var ErrFileNotFound = errors.New("file not found")

// Config carries the connection parameters for a GNS3 server. Credentials
// are passed through to HTTP basic auth unchanged.
type Config struct {
	URL      string
	Port     int
	User     string
	Password string
	Timeout  time.Duration
}

// Client is a thin typed wrapper over the GNS3 v2 REST API.
type Client struct {
	http    *resty.Client
	baseURL string
}

// NewClient builds a Client from Config. The URL must carry a scheme; the
// port defaults to DefaultPort when unset.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, gnserrors.NewValidationError("url", "server url is required", nil)
	}
	if !strings.Contains(cfg.URL, "://") {
		return nil, gnserrors.NewValidationError("url", "server url must include a scheme, e.g. http://", nil)
	}

	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}
	base := fmt.Sprintf("%s:%d/v2", strings.TrimRight(cfg.URL, "/"), port)

	hc := resty.New().
		SetBaseURL(base).
		SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		hc.SetTimeout(cfg.Timeout)
	}
	if cfg.User != "" {
		hc.SetBasicAuth(cfg.User, cfg.Password)
	}

	return &Client{http: hc, baseURL: base}, nil
}

// BaseURL returns the API root this client targets.
func (c *Client) BaseURL() string { return c.baseURL }

type apiError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	resp, err := c.http.R().SetContext(ctx).SetResult(out).Get(path)
	return c.check(path, resp, err)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Post(path)
	return c.check(path, resp, err)
}

func (c *Client) delete(ctx context.Context, path string) error {
	resp, err := c.http.R().SetContext(ctx).Delete(path)
	return c.check(path, resp, err)
}

// check folds transport and HTTP-level failures into the error taxonomy:
// transport problems become UnavailableError, server rejections become
// RequestError with the decoded reason.
func (c *Client) check(path string, resp *resty.Response, err error) error {
	if err != nil {
		return gnserrors.NewUnavailableError(c.baseURL, err)
	}
	if resp.IsError() {
		return gnserrors.NewRequestError(resp.StatusCode(), path, decodeReason(resp.Body()))
	}
	return nil
}

func decodeReason(body []byte) string {
	var ae apiError
	if err := json.Unmarshal(body, &ae); err == nil && ae.Message != "" {
		return ae.Message
	}
	return strings.TrimSpace(string(body))
}

// Version retrieves the server version.
func (c *Client) Version(ctx context.Context) (*Version, error) {
	var v Version
	if err := c.get(ctx, "/version", &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Computes lists the compute servers known to the controller.
func (c *Client) Computes(ctx context.Context) ([]Compute, error) {
	var computes []Compute
	if err := c.get(ctx, "/computes", &computes); err != nil {
		return nil, err
	}
	return computes, nil
}

// ComputeImages lists the images a compute holds for one emulator.
func (c *Client) ComputeImages(ctx context.Context, computeID, emulator string) ([]ComputeImage, error) {
	var images []ComputeImage
	path := fmt.Sprintf("/computes/%s/%s/images", computeID, emulator)
	if err := c.get(ctx, path, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// ComputePorts reports the console and UDP port usage of a compute.
func (c *Client) ComputePorts(ctx context.Context, computeID string) (*ComputePorts, error) {
	var ports ComputePorts
	if err := c.get(ctx, fmt.Sprintf("/computes/%s/ports", computeID), &ports); err != nil {
		return nil, err
	}
	return &ports, nil
}

// Projects lists all projects on the server.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.get(ctx, "/projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Project retrieves a project by UUID.
func (c *Client) Project(ctx context.Context, projectID string) (*Project, error) {
	var p Project
	if err := c.get(ctx, "/projects/"+projectID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ProjectByName resolves a project by its display name.
func (c *Client) ProjectByName(ctx context.Context, name string) (*Project, error) {
	projects, err := c.Projects(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].Name == name {
			return &projects[i], nil
		}
	}
	return nil, gnserrors.NewRequestError(http.StatusNotFound, "/projects", fmt.Sprintf("project %q not found", name))
}

// CreateProject creates an empty project.
func (c *Client) CreateProject(ctx context.Context, name string) (*Project, error) {
	var p Project
	if err := c.post(ctx, "/projects", map[string]string{"name": name}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject removes a project and everything in it.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	return c.delete(ctx, "/projects/"+projectID)
}

// OpenProject loads a project on the server.
func (c *Client) OpenProject(ctx context.Context, projectID string) (*Project, error) {
	var p Project
	if err := c.post(ctx, fmt.Sprintf("/projects/%s/open", projectID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CloseProject unloads a project on the server.
func (c *Client) CloseProject(ctx context.Context, projectID string) (*Project, error) {
	var p Project
	if err := c.post(ctx, fmt.Sprintf("/projects/%s/close", projectID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Nodes lists the nodes of a project in server order.
func (c *Client) Nodes(ctx context.Context, projectID string) ([]Node, error) {
	var nodes []Node
	if err := c.get(ctx, fmt.Sprintf("/projects/%s/nodes", projectID), &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// Node retrieves a node by UUID.
func (c *Client) Node(ctx context.Context, projectID, nodeID string) (*Node, error) {
	var n Node
	if err := c.get(ctx, fmt.Sprintf("/projects/%s/nodes/%s", projectID, nodeID), &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// NodeByName resolves a node by its display name.
func (c *Client) NodeByName(ctx context.Context, projectID, name string) (*Node, error) {
	nodes, err := c.Nodes(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for i := range nodes {
		if nodes[i].Name == name {
			return &nodes[i], nil
		}
	}
	return nil, gnserrors.NewRequestError(http.StatusNotFound, fmt.Sprintf("/projects/%s/nodes", projectID), fmt.Sprintf("node %q not found", name))
}

// Templates lists the node templates configured on the server.
func (c *Client) Templates(ctx context.Context) ([]Template, error) {
	var templates []Template
	if err := c.get(ctx, "/templates", &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// CreateNode instantiates a node from a named template inside a project.
func (c *Client) CreateNode(ctx context.Context, projectID string, spec NodeSpec) (*Node, error) {
	templates, err := c.Templates(ctx)
	if err != nil {
		return nil, err
	}

	var tpl *Template
	for i := range templates {
		if templates[i].Name == spec.Template {
			tpl = &templates[i]
			break
		}
	}
	if tpl == nil {
		return nil, gnserrors.NewRequestError(http.StatusNotFound, "/templates", fmt.Sprintf("template %q not found", spec.Template))
	}

	computeID := spec.ComputeID
	if computeID == "" {
		computeID = "local"
	}

	var n Node
	path := fmt.Sprintf("/projects/%s/templates/%s", projectID, tpl.TemplateID)
	body := map[string]any{"x": 0, "y": 0, "compute_id": computeID}
	if err := c.post(ctx, path, body, &n); err != nil {
		return nil, err
	}

	if spec.Name != "" && n.Name != spec.Name {
		renamed, err := c.renameNode(ctx, projectID, n.NodeID, spec.Name)
		if err != nil {
			return nil, err
		}
		return renamed, nil
	}
	return &n, nil
}

func (c *Client) renameNode(ctx context.Context, projectID, nodeID, name string) (*Node, error) {
	var n Node
	path := fmt.Sprintf("/projects/%s/nodes/%s", projectID, nodeID)
	resp, err := c.http.R().SetContext(ctx).SetBody(map[string]string{"name": name}).SetResult(&n).Put(path)
	if err := c.check(path, resp, err); err != nil {
		return nil, err
	}
	return &n, nil
}

// Transition requests a lifecycle action on a node. Failures carry the node
// identifier so the caller can report which entity broke the run.
func (c *Client) Transition(ctx context.Context, projectID, nodeID string, action Action) error {
	path := fmt.Sprintf("/projects/%s/nodes/%s/%s", projectID, nodeID, action)
	if err := c.post(ctx, path, map[string]any{}, nil); err != nil {
		var unavailable *gnserrors.UnavailableError
		if errors.As(err, &unavailable) {
			return err
		}
		return gnserrors.NewTransitionError(nodeID, string(action), reasonOf(err), err)
	}
	return nil
}

// StartNode starts a node.
func (c *Client) StartNode(ctx context.Context, projectID, nodeID string) error {
	return c.Transition(ctx, projectID, nodeID, ActionStart)
}

// StopNode stops a node.
func (c *Client) StopNode(ctx context.Context, projectID, nodeID string) error {
	return c.Transition(ctx, projectID, nodeID, ActionStop)
}

// SuspendNode suspends a node.
func (c *Client) SuspendNode(ctx context.Context, projectID, nodeID string) error {
	return c.Transition(ctx, projectID, nodeID, ActionSuspend)
}

// ReloadNode reloads a node.
func (c *Client) ReloadNode(ctx context.Context, projectID, nodeID string) error {
	return c.Transition(ctx, projectID, nodeID, ActionReload)
}

// Links lists the links of a project.
func (c *Client) Links(ctx context.Context, projectID string) ([]Link, error) {
	var links []Link
	if err := c.get(ctx, fmt.Sprintf("/projects/%s/links", projectID), &links); err != nil {
		return nil, err
	}
	return links, nil
}

// CreateLink wires two node interfaces together, resolving port names
// (e.g. "eth0", "Ethernet1") against each node's port inventory. Returns
// ErrPortInUse when either endpoint already carries a link.
func (c *Client) CreateLink(ctx context.Context, projectID, nodeA, portA, nodeB, portB string) (*Link, error) {
	endpointA, err := c.resolveEndpoint(ctx, projectID, nodeA, portA)
	if err != nil {
		return nil, err
	}
	endpointB, err := c.resolveEndpoint(ctx, projectID, nodeB, portB)
	if err != nil {
		return nil, err
	}

	links, err := c.Links(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, link := range links {
		for _, ep := range link.Nodes {
			if ep == *endpointA || ep == *endpointB {
				return nil, ErrPortInUse
			}
		}
	}

	var link Link
	body := map[string]any{"nodes": []LinkEndpoint{*endpointA, *endpointB}}
	if err := c.post(ctx, fmt.Sprintf("/projects/%s/links", projectID), body, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (c *Client) resolveEndpoint(ctx context.Context, projectID, nodeName, portName string) (*LinkEndpoint, error) {
	node, err := c.NodeByName(ctx, projectID, nodeName)
	if err != nil {
		return nil, err
	}
	for _, port := range node.Ports {
		if port.Name == portName || port.ShortName == portName {
			return &LinkEndpoint{
				NodeID:        node.NodeID,
				AdapterNumber: port.AdapterNumber,
				PortNumber:    port.PortNumber,
			}, nil
		}
	}
	return nil, gnserrors.NewValidationError("links_spec", fmt.Sprintf("node %q has no port %q", nodeName, portName), nil)
}

// Snapshots lists the snapshots of a project.
func (c *Client) Snapshots(ctx context.Context, projectID string) ([]Snapshot, error) {
	var snapshots []Snapshot
	if err := c.get(ctx, fmt.Sprintf("/projects/%s/snapshots", projectID), &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

// SnapshotByName resolves a snapshot by name; returns nil when absent.
func (c *Client) SnapshotByName(ctx context.Context, projectID, name string) (*Snapshot, error) {
	snapshots, err := c.Snapshots(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for i := range snapshots {
		if snapshots[i].Name == name {
			return &snapshots[i], nil
		}
	}
	return nil, nil
}

// CreateSnapshot saves the current project state under the given name.
func (c *Client) CreateSnapshot(ctx context.Context, projectID, name string) (*Snapshot, error) {
	var s Snapshot
	body := map[string]string{"name": name}
	if err := c.post(ctx, fmt.Sprintf("/projects/%s/snapshots", projectID), body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSnapshot removes a snapshot.
func (c *Client) DeleteSnapshot(ctx context.Context, projectID, snapshotID string) error {
	return c.delete(ctx, fmt.Sprintf("/projects/%s/snapshots/%s", projectID, snapshotID))
}

// RestoreSnapshot rolls the project back to a snapshot. Never idempotent.
func (c *Client) RestoreSnapshot(ctx context.Context, projectID, snapshotID string) error {
	return c.post(ctx, fmt.Sprintf("/projects/%s/snapshots/%s/restore", projectID, snapshotID), nil, nil)
}

// ProjectFile reads a file stored inside the project directory. A missing
// file maps to ErrFileNotFound so callers can distinguish absent content.
func (c *Client) ProjectFile(ctx context.Context, projectID, filePath string) (string, error) {
	return c.readFile(ctx, fmt.Sprintf("/projects/%s/files/%s", projectID, trimPath(filePath)))
}

// WriteProjectFile writes text content into the project directory.
func (c *Client) WriteProjectFile(ctx context.Context, projectID, filePath, data string) error {
	return c.writeFile(ctx, fmt.Sprintf("/projects/%s/files/%s", projectID, trimPath(filePath)), data)
}

// NodeFile reads a file from a node's directory.
func (c *Client) NodeFile(ctx context.Context, projectID, nodeID, filePath string) (string, error) {
	return c.readFile(ctx, fmt.Sprintf("/projects/%s/nodes/%s/files/%s", projectID, nodeID, trimPath(filePath)))
}

// WriteNodeFile writes text content into a node's directory.
func (c *Client) WriteNodeFile(ctx context.Context, projectID, nodeID, filePath, data string) error {
	return c.writeFile(ctx, fmt.Sprintf("/projects/%s/nodes/%s/files/%s", projectID, nodeID, trimPath(filePath)), data)
}

func (c *Client) readFile(ctx context.Context, path string) (string, error) {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return "", gnserrors.NewUnavailableError(c.baseURL, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return "", ErrFileNotFound
	}
	if resp.IsError() {
		return "", gnserrors.NewRequestError(resp.StatusCode(), path, decodeReason(resp.Body()))
	}
	return resp.String(), nil
}

func (c *Client) writeFile(ctx context.Context, path, data string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody([]byte(data)).
		Post(path)
	return c.check(path, resp, err)
}

func trimPath(p string) string {
	return strings.TrimPrefix(p, "/")
}

func reasonOf(err error) string {
	var re *gnserrors.RequestError
	if errors.As(err, &re) {
		return re.Reason
	}
	return ""
}
