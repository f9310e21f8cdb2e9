package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	gnserrors "github.com/gns3ops/gns3ctl/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	taskIDPattern = regexp.MustCompile(`^[a-z0-9_]+$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("task_id", func(fl validator.FieldLevel) bool {
			return taskIDPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidatePlaybook performs schema and cross-field validation on the
// playbook. All violations surface as ValidationError before any network
// call is attempted.
func ValidatePlaybook(pb *Playbook) error {
	if pb == nil {
		return gnserrors.NewValidationError("playbook", "playbook is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(pb); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]struct{}, len(pb.Tasks))
	for i, task := range pb.Tasks {
		if _, exists := seen[task.ID]; exists {
			return gnserrors.NewValidationError(fieldForTask(i, "id"), fmt.Sprintf("duplicate task id %q", task.ID), nil)
		}
		seen[task.ID] = struct{}{}

		if err := ValidateTask(task); err != nil {
			return err
		}
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return gnserrors.NewValidationError(field, msg, err)
	}

	return gnserrors.NewValidationError("playbook", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	var lowered []string
	for _, part := range parts[1:] {
		lowered = append(lowered, toSnake(part))
	}
	if len(lowered) == 0 {
		return toSnake(fe.Field())
	}
	return strings.Join(lowered, ".")
}

func toSnake(field string) string {
	var sb strings.Builder
	runes := []rune(field)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && (runes[i-1] < 'A' || runes[i-1] > 'Z') {
				sb.WriteByte('_')
			}
			sb.WriteRune(r - 'A' + 'a')
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func fieldForTask(index int, field string) string {
	return fmt.Sprintf("tasks[%d].%s", index, field)
}
