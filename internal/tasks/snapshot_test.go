package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gns3ops/gns3ctl/internal/config"
	"github.com/gns3ops/gns3ctl/internal/gns3"
)

func snapshotTaskConfig(s *config.SnapshotTask) *config.Task {
	return &config.Task{ID: "manage_snapshot", Type: "snapshot", Snapshot: s}
}

func TestSnapshotTaskCreatesWhenMissing(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.projects = []gns3.Project{{ProjectID: "p1", Name: "demo_lab", Status: gns3.ProjectOpened}}

	task := &SnapshotTask{}
	result, err := task.Run(context.Background(), client, snapshotTaskConfig(&config.SnapshotTask{
		ProjectRef:   config.ProjectRef{ProjectName: "demo_lab"},
		SnapshotName: "baseline",
		State:        "present",
	}), testLogger(t))

	require.NoError(t, err)
	require.True(t, result.Changed)
	require.Contains(t, client.created, "baseline")

	// Second run is a no-op.
	result, err = task.Run(context.Background(), client, snapshotTaskConfig(&config.SnapshotTask{
		ProjectRef:   config.ProjectRef{ProjectName: "demo_lab"},
		SnapshotName: "baseline",
		State:        "present",
	}), testLogger(t))
	require.NoError(t, err)
	require.False(t, result.Changed)
}

func TestSnapshotTaskAbsentDeletesExisting(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.projects = []gns3.Project{{ProjectID: "p1", Name: "demo_lab", Status: gns3.ProjectOpened}}
	client.snapshots["p1"] = []gns3.Snapshot{{SnapshotID: "s1", Name: "baseline", ProjectID: "p1"}}

	task := &SnapshotTask{}
	result, err := task.Run(context.Background(), client, snapshotTaskConfig(&config.SnapshotTask{
		ProjectRef:   config.ProjectRef{ProjectName: "demo_lab"},
		SnapshotName: "baseline",
		State:        "absent",
	}), testLogger(t))

	require.NoError(t, err)
	require.True(t, result.Changed)
	require.Equal(t, []string{"s1"}, client.deleted)

	client.snapshots["p1"] = nil
	result, err = task.Run(context.Background(), client, snapshotTaskConfig(&config.SnapshotTask{
		ProjectRef:   config.ProjectRef{ProjectName: "demo_lab"},
		SnapshotName: "baseline",
		State:        "absent",
	}), testLogger(t))
	require.NoError(t, err)
	require.False(t, result.Changed)
}

func TestSnapshotTaskRestoreAlwaysChanges(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.projects = []gns3.Project{{ProjectID: "p1", Name: "demo_lab", Status: gns3.ProjectOpened}}
	client.snapshots["p1"] = []gns3.Snapshot{{SnapshotID: "s1", Name: "baseline", ProjectID: "p1"}}

	task := &SnapshotTask{}
	result, err := task.Run(context.Background(), client, snapshotTaskConfig(&config.SnapshotTask{
		ProjectRef:   config.ProjectRef{ProjectName: "demo_lab"},
		SnapshotName: "baseline",
		State:        "restore",
	}), testLogger(t))

	require.NoError(t, err)
	require.True(t, result.Changed)
	require.Equal(t, []string{"restore/s1"}, client.transitions)
}

func TestSnapshotTaskRestoreMissingFails(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.projects = []gns3.Project{{ProjectID: "p1", Name: "demo_lab", Status: gns3.ProjectOpened}}

	task := &SnapshotTask{}
	_, err := task.Run(context.Background(), client, snapshotTaskConfig(&config.SnapshotTask{
		ProjectRef:   config.ProjectRef{ProjectName: "demo_lab"},
		SnapshotName: "ghost",
		State:        "restore",
	}), testLogger(t))

	require.Error(t, err)
	require.Contains(t, err.Error(), "snapshot not found")
}

func TestSnapshotTaskLookupByID(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.projects = []gns3.Project{{ProjectID: "p1", Name: "demo_lab", Status: gns3.ProjectOpened}}
	client.snapshots["p1"] = []gns3.Snapshot{{SnapshotID: "s1", Name: "baseline", ProjectID: "p1"}}

	task := &SnapshotTask{}
	result, err := task.Run(context.Background(), client, snapshotTaskConfig(&config.SnapshotTask{
		ProjectRef: config.ProjectRef{ProjectName: "demo_lab"},
		SnapshotID: "s1",
		State:      "absent",
	}), testLogger(t))

	require.NoError(t, err)
	require.True(t, result.Changed)
}
