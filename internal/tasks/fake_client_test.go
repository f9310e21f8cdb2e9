package tasks

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gns3ops/gns3ctl/internal/gns3"
	gnserrors "github.com/gns3ops/gns3ctl/pkg/errors"
)

type fakeSleeper struct {
	waits []time.Duration
}

func (f *fakeSleeper) Sleep(_ context.Context, d time.Duration) error {
	f.waits = append(f.waits, d)
	return nil
}

// fakeClient is an in-memory stand-in for the GNS3 server.
type fakeClient struct {
	version   *gns3.Version
	computes  []gns3.Compute
	images    map[string]map[string][]gns3.ComputeImage
	ports     map[string]*gns3.ComputePorts
	projects  []gns3.Project
	nodes     map[string][]gns3.Node
	snapshots map[string][]gns3.Snapshot
	files     map[string]string
	templates []gns3.Template
	links     map[string][]gns3.Link

	transitionErrs map[string]int // "nodeID/action" -> remaining failures

	transitions []string
	opened      []string
	closed      []string
	deleted     []string
	created     []string
	writes      []string
	linksMade   []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		images:         map[string]map[string][]gns3.ComputeImage{},
		ports:          map[string]*gns3.ComputePorts{},
		nodes:          map[string][]gns3.Node{},
		snapshots:      map[string][]gns3.Snapshot{},
		files:          map[string]string{},
		links:          map[string][]gns3.Link{},
		transitionErrs: map[string]int{},
	}
}

func notFound(what string) error {
	return gnserrors.NewRequestError(http.StatusNotFound, "/fake", what+" not found")
}

func (f *fakeClient) Version(context.Context) (*gns3.Version, error) {
	if f.version == nil {
		return nil, notFound("version")
	}
	return f.version, nil
}

func (f *fakeClient) Computes(context.Context) ([]gns3.Compute, error) {
	return f.computes, nil
}

func (f *fakeClient) ComputeImages(_ context.Context, computeID, emulator string) ([]gns3.ComputeImage, error) {
	images, ok := f.images[computeID][emulator]
	if !ok {
		return nil, notFound("images")
	}
	return images, nil
}

func (f *fakeClient) ComputePorts(_ context.Context, computeID string) (*gns3.ComputePorts, error) {
	ports, ok := f.ports[computeID]
	if !ok {
		return nil, notFound("ports")
	}
	return ports, nil
}

func (f *fakeClient) Project(_ context.Context, projectID string) (*gns3.Project, error) {
	for i := range f.projects {
		if f.projects[i].ProjectID == projectID {
			return &f.projects[i], nil
		}
	}
	return nil, notFound("project")
}

func (f *fakeClient) ProjectByName(_ context.Context, name string) (*gns3.Project, error) {
	for i := range f.projects {
		if f.projects[i].Name == name {
			return &f.projects[i], nil
		}
	}
	return nil, notFound("project")
}

func (f *fakeClient) CreateProject(_ context.Context, name string) (*gns3.Project, error) {
	p := gns3.Project{ProjectID: "created-" + name, Name: name, Status: gns3.ProjectOpened}
	f.projects = append(f.projects, p)
	f.created = append(f.created, name)
	return &p, nil
}

func (f *fakeClient) DeleteProject(_ context.Context, projectID string) error {
	f.deleted = append(f.deleted, projectID)
	return nil
}

func (f *fakeClient) OpenProject(_ context.Context, projectID string) (*gns3.Project, error) {
	f.opened = append(f.opened, projectID)
	for i := range f.projects {
		if f.projects[i].ProjectID == projectID {
			f.projects[i].Status = gns3.ProjectOpened
			return &f.projects[i], nil
		}
	}
	return nil, notFound("project")
}

func (f *fakeClient) CloseProject(_ context.Context, projectID string) (*gns3.Project, error) {
	f.closed = append(f.closed, projectID)
	for i := range f.projects {
		if f.projects[i].ProjectID == projectID {
			f.projects[i].Status = gns3.ProjectClosed
			return &f.projects[i], nil
		}
	}
	return nil, notFound("project")
}

func (f *fakeClient) Nodes(_ context.Context, projectID string) ([]gns3.Node, error) {
	return f.nodes[projectID], nil
}

func (f *fakeClient) Node(_ context.Context, projectID, nodeID string) (*gns3.Node, error) {
	for i := range f.nodes[projectID] {
		if f.nodes[projectID][i].NodeID == nodeID {
			return &f.nodes[projectID][i], nil
		}
	}
	return nil, notFound("node")
}

func (f *fakeClient) NodeByName(_ context.Context, projectID, name string) (*gns3.Node, error) {
	for i := range f.nodes[projectID] {
		if f.nodes[projectID][i].Name == name {
			return &f.nodes[projectID][i], nil
		}
	}
	return nil, notFound("node")
}

func (f *fakeClient) CreateNode(_ context.Context, projectID string, spec gns3.NodeSpec) (*gns3.Node, error) {
	n := gns3.Node{NodeID: "created-" + spec.Name, Name: spec.Name, Status: gns3.NodeStopped, ProjectID: projectID}
	f.nodes[projectID] = append(f.nodes[projectID], n)
	f.created = append(f.created, spec.Name)
	return &n, nil
}

func (f *fakeClient) Transition(_ context.Context, projectID, nodeID string, action gns3.Action) error {
	key := nodeID + "/" + string(action)
	f.transitions = append(f.transitions, key)
	if f.transitionErrs[key] > 0 {
		f.transitionErrs[key]--
		return gnserrors.NewTransitionError(nodeID, string(action), "injected failure", nil)
	}
	return nil
}

func (f *fakeClient) CreateLink(_ context.Context, projectID, nodeA, portA, nodeB, portB string) (*gns3.Link, error) {
	key := fmt.Sprintf("%s:%s-%s:%s", nodeA, portA, nodeB, portB)
	for _, made := range f.linksMade {
		if made == key {
			return nil, gns3.ErrPortInUse
		}
	}
	f.linksMade = append(f.linksMade, key)
	link := gns3.Link{LinkID: key}
	f.links[projectID] = append(f.links[projectID], link)
	return &link, nil
}

func (f *fakeClient) Snapshots(_ context.Context, projectID string) ([]gns3.Snapshot, error) {
	return f.snapshots[projectID], nil
}

func (f *fakeClient) SnapshotByName(_ context.Context, projectID, name string) (*gns3.Snapshot, error) {
	for i := range f.snapshots[projectID] {
		if f.snapshots[projectID][i].Name == name {
			return &f.snapshots[projectID][i], nil
		}
	}
	return nil, nil
}

func (f *fakeClient) CreateSnapshot(_ context.Context, projectID, name string) (*gns3.Snapshot, error) {
	s := gns3.Snapshot{SnapshotID: "created-" + name, Name: name, ProjectID: projectID}
	f.snapshots[projectID] = append(f.snapshots[projectID], s)
	f.created = append(f.created, name)
	return &s, nil
}

func (f *fakeClient) DeleteSnapshot(_ context.Context, projectID, snapshotID string) error {
	f.deleted = append(f.deleted, snapshotID)
	return nil
}

func (f *fakeClient) RestoreSnapshot(_ context.Context, projectID, snapshotID string) error {
	f.transitions = append(f.transitions, "restore/"+snapshotID)
	return nil
}

func (f *fakeClient) ProjectFile(_ context.Context, projectID, filePath string) (string, error) {
	content, ok := f.files[projectID+"|"+filePath]
	if !ok {
		return "", gns3.ErrFileNotFound
	}
	return content, nil
}

func (f *fakeClient) WriteProjectFile(_ context.Context, projectID, filePath, data string) error {
	f.files[projectID+"|"+filePath] = data
	f.writes = append(f.writes, filePath)
	return nil
}

func (f *fakeClient) NodeFile(_ context.Context, projectID, nodeID, filePath string) (string, error) {
	content, ok := f.files[projectID+"|"+nodeID+"|"+filePath]
	if !ok {
		return "", gns3.ErrFileNotFound
	}
	return content, nil
}

func (f *fakeClient) WriteNodeFile(_ context.Context, projectID, nodeID, filePath, data string) error {
	f.files[projectID+"|"+nodeID+"|"+filePath] = data
	f.writes = append(f.writes, filePath)
	return nil
}

var _ Client = (*fakeClient)(nil)
