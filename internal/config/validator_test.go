package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	gnserrors "github.com/gns3ops/gns3ctl/pkg/errors"
)

func basePlaybook() *Playbook {
	return &Playbook{
		Version: "1.0",
		Name:    "test",
		Server:  Server{URL: "http://localhost", Port: 3080},
		Tasks: []Task{
			{
				ID:   "open_lab",
				Type: "project",
				Project: &ProjectTask{
					ProjectRef:    ProjectRef{ProjectName: "demo_lab"},
					State:         "opened",
					NodesStrategy: "all",
					PollWaitTime:  5,
				},
			},
		},
	}
}

func requireValidationError(t *testing.T, err error, fragment string) {
	t.Helper()
	var validationErr *gnserrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, strings.ToLower(err.Error()), fragment)
}

func TestValidatePlaybookAcceptsValidDocument(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidatePlaybook(basePlaybook()))
}

func TestValidatePlaybookRejectsDuplicateTaskIDs(t *testing.T) {
	t.Parallel()

	pb := basePlaybook()
	pb.Tasks = append(pb.Tasks, pb.Tasks[0])

	requireValidationError(t, ValidatePlaybook(pb), "duplicate task id")
}

func TestValidatePlaybookRequiresServerURL(t *testing.T) {
	t.Parallel()

	pb := basePlaybook()
	pb.Server.URL = ""

	requireValidationError(t, ValidatePlaybook(pb), "url")
}

func TestValidateTaskRejectsUnknownStrategy(t *testing.T) {
	t.Parallel()

	pb := basePlaybook()
	pb.Tasks[0].Project.NodesStrategy = "round_robin"

	requireValidationError(t, ValidatePlaybook(pb), "nodes_strategy")
}

func TestValidateTaskOneByOneRequiresDelay(t *testing.T) {
	t.Parallel()

	pb := basePlaybook()
	pb.Tasks[0].Project.NodesStrategy = "one_by_one"
	pb.Tasks[0].Project.NodesDelay = 0

	requireValidationError(t, ValidatePlaybook(pb), "nodes_delay")
}

func TestValidateTaskRequiresProjectRef(t *testing.T) {
	t.Parallel()

	pb := basePlaybook()
	pb.Tasks[0].Project.ProjectRef = ProjectRef{}

	requireValidationError(t, ValidatePlaybook(pb), "project_name or project_id")
}

func TestValidateTaskRejectsMalformedLinkSpec(t *testing.T) {
	t.Parallel()

	pb := basePlaybook()
	pb.Tasks[0].Project.State = "present"
	pb.Tasks[0].Project.LinksSpec = [][]string{{"alpine-1", "eth0", "alpine-2"}}

	requireValidationError(t, ValidatePlaybook(pb), "links_spec")
}

func TestValidateTaskRejectsNonUUIDProjectID(t *testing.T) {
	t.Parallel()

	pb := basePlaybook()
	pb.Tasks[0].Project.ProjectRef = ProjectRef{ProjectID: "not-a-uuid"}

	requireValidationError(t, ValidatePlaybook(pb), "uuid")
}

func TestValidateTaskNodeRequiresNodeRef(t *testing.T) {
	t.Parallel()

	pb := basePlaybook()
	pb.Tasks[0] = Task{
		ID:   "start_router",
		Type: "node",
		Node: &NodeTask{
			ProjectRef:   ProjectRef{ProjectName: "demo_lab"},
			State:        "started",
			PollWaitTime: 5,
		},
	}

	requireValidationError(t, ValidatePlaybook(pb), "node_name or node_id")
}

func TestValidateTaskFilePresentRequiresData(t *testing.T) {
	t.Parallel()

	pb := basePlaybook()
	pb.Tasks[0] = Task{
		ID:   "push_config",
		Type: "project_file",
		ProjectFile: &ProjectFileTask{
			ProjectRef: ProjectRef{ProjectName: "demo_lab"},
			Dest:       "README.txt",
			State:      "present",
		},
	}

	requireValidationError(t, ValidatePlaybook(pb), "data is required")
}

func TestValidateTaskFileAbsentNeedsNoData(t *testing.T) {
	t.Parallel()

	pb := basePlaybook()
	pb.Tasks[0] = Task{
		ID:   "wipe_config",
		Type: "project_file",
		ProjectFile: &ProjectFileTask{
			ProjectRef: ProjectRef{ProjectName: "demo_lab"},
			Dest:       "README.txt",
			State:      "absent",
		},
	}

	require.NoError(t, ValidatePlaybook(pb))
}

func TestValidateTaskRejectsBadTaskID(t *testing.T) {
	t.Parallel()

	pb := basePlaybook()
	pb.Tasks[0].ID = "Open-Lab"

	requireValidationError(t, ValidatePlaybook(pb), "task_id")
}
