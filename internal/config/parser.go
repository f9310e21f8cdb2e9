package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	gnserrors "github.com/gns3ops/gns3ctl/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParsePlaybook loads a playbook file from disk, validates it, and returns
// the resulting model.
func ParsePlaybook(path string) (*Playbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gnserrors.NewParseError(path, 0, err)
	}

	var pb Playbook
	if err := yaml.Unmarshal(data, &pb); err != nil {
		return nil, gnserrors.NewParseError(path, extractLine(err), err)
	}

	if err := ValidatePlaybook(&pb); err != nil {
		return nil, err
	}

	return &pb, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}
