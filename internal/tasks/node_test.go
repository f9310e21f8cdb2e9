package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gns3ops/gns3ctl/internal/config"
	"github.com/gns3ops/gns3ctl/internal/gns3"
	gnserrors "github.com/gns3ops/gns3ctl/pkg/errors"
)

func nodeTaskConfig(n *config.NodeTask) *config.Task {
	return &config.Task{ID: "manage_node", Type: "node", Node: n}
}

func TestNodeTaskStartsStoppedNode(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.projects = []gns3.Project{{ProjectID: "p1", Name: "demo_lab", Status: gns3.ProjectOpened}}
	client.nodes["p1"] = []gns3.Node{{NodeID: "n1", Name: "router01", Status: gns3.NodeStopped}}

	sleeper := &fakeSleeper{}
	task := &NodeTask{Sleeper: sleeper}
	result, err := task.Run(context.Background(), client, nodeTaskConfig(&config.NodeTask{
		ProjectRef:   config.ProjectRef{ProjectName: "demo_lab"},
		NodeName:     "router01",
		State:        "started",
		PollWaitTime: 5,
	}), testLogger(t))

	require.NoError(t, err)
	require.True(t, result.Changed)
	require.Equal(t, []string{"n1/start"}, client.transitions)
	require.Equal(t, []time.Duration{5 * time.Second}, sleeper.waits)
}

func TestNodeTaskStartedNodeUnchanged(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.projects = []gns3.Project{{ProjectID: "p1", Name: "demo_lab", Status: gns3.ProjectOpened}}
	client.nodes["p1"] = []gns3.Node{{NodeID: "n1", Name: "router01", Status: gns3.NodeStarted}}

	task := &NodeTask{Sleeper: &fakeSleeper{}}
	result, err := task.Run(context.Background(), client, nodeTaskConfig(&config.NodeTask{
		ProjectRef:   config.ProjectRef{ProjectName: "demo_lab"},
		NodeName:     "router01",
		State:        "started",
		PollWaitTime: 5,
	}), testLogger(t))

	require.NoError(t, err)
	require.False(t, result.Changed)
	require.Empty(t, client.transitions)
}

func TestNodeTaskReloadAlwaysChanges(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.projects = []gns3.Project{{ProjectID: "p1", Name: "demo_lab", Status: gns3.ProjectOpened}}
	client.nodes["p1"] = []gns3.Node{{NodeID: "n1", Name: "router01", Status: gns3.NodeStarted}}

	task := &NodeTask{Sleeper: &fakeSleeper{}}
	result, err := task.Run(context.Background(), client, nodeTaskConfig(&config.NodeTask{
		ProjectRef:   config.ProjectRef{ProjectName: "demo_lab"},
		NodeName:     "router01",
		State:        "reload",
		PollWaitTime: 30,
	}), testLogger(t))

	require.NoError(t, err)
	require.True(t, result.Changed)
	require.Equal(t, []string{"n1/reload"}, client.transitions)
}

func TestNodeTaskRetriesFailedTransitionOnce(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.projects = []gns3.Project{{ProjectID: "p1", Name: "demo_lab", Status: gns3.ProjectOpened}}
	client.nodes["p1"] = []gns3.Node{{NodeID: "n1", Name: "router01", Status: gns3.NodeStopped}}
	client.transitionErrs["n1/start"] = 1

	task := &NodeTask{Sleeper: &fakeSleeper{}}
	result, err := task.Run(context.Background(), client, nodeTaskConfig(&config.NodeTask{
		ProjectRef:   config.ProjectRef{ProjectName: "demo_lab"},
		NodeName:     "router01",
		State:        "started",
		Retry:        true,
		PollWaitTime: 5,
	}), testLogger(t))

	require.NoError(t, err)
	require.True(t, result.Changed)
	require.Len(t, client.transitions, 2)
}

func TestNodeTaskClosedProjectRequiresForceOpen(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.projects = []gns3.Project{{ProjectID: "p1", Name: "demo_lab", Status: gns3.ProjectClosed}}
	client.nodes["p1"] = []gns3.Node{{NodeID: "n1", Name: "router01", Status: gns3.NodeStopped}}

	task := &NodeTask{Sleeper: &fakeSleeper{}}

	_, err := task.Run(context.Background(), client, nodeTaskConfig(&config.NodeTask{
		ProjectRef:   config.ProjectRef{ProjectName: "demo_lab"},
		NodeName:     "router01",
		State:        "started",
		PollWaitTime: 5,
	}), testLogger(t))
	var validationErr *gnserrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Empty(t, client.opened)

	result, err := task.Run(context.Background(), client, nodeTaskConfig(&config.NodeTask{
		ProjectRef:       config.ProjectRef{ProjectName: "demo_lab"},
		NodeName:         "router01",
		State:            "started",
		PollWaitTime:     5,
		ForceProjectOpen: true,
	}), testLogger(t))
	require.NoError(t, err)
	require.True(t, result.Changed)
	require.Equal(t, []string{"p1"}, client.opened)
}

func TestNodeTaskUnknownNodeFails(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.projects = []gns3.Project{{ProjectID: "p1", Name: "demo_lab", Status: gns3.ProjectOpened}}

	task := &NodeTask{Sleeper: &fakeSleeper{}}
	_, err := task.Run(context.Background(), client, nodeTaskConfig(&config.NodeTask{
		ProjectRef:   config.ProjectRef{ProjectName: "demo_lab"},
		NodeName:     "ghost",
		State:        "started",
		PollWaitTime: 5,
	}), testLogger(t))

	require.Error(t, err)
	require.True(t, isNotFound(err))
}
