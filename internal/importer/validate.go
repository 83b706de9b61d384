package importer

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/gentyx/clienthub/internal/domain"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateClient(&schema.Client)...)
	for i := range schema.Stages {
		errs = append(errs, validateStage(i, &schema.Stages[i])...)
	}
	for i := range schema.Tasks {
		errs = append(errs, validateTask(i, &schema.Tasks[i])...)
	}

	return errs
}

func validateClient(c *ClientImport) []error {
	var errs []error

	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, fmt.Errorf("client.name is required"))
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			errs = append(errs, fmt.Errorf("client.email: invalid address %q", c.Email))
		}
	}
	if err := validateOptionalDate("client.due_date", c.DueDate); err != nil {
		errs = append(errs, err)
	}

	return errs
}

func validateStage(i int, s *StageImport) []error {
	var errs []error
	path := fmt.Sprintf("stages[%d]", i)

	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", path))
	}
	if err := validateStatus(path+".status", s.Status); err != nil {
		errs = append(errs, err)
	}
	for j, st := range s.Subtasks {
		subPath := fmt.Sprintf("%s.subtasks[%d]", path, j)
		if strings.TrimSpace(st.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", subPath))
		}
		if err := validateStatus(subPath+".status", st.Status); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

func validateTask(i int, t *TaskImport) []error {
	var errs []error
	path := fmt.Sprintf("tasks[%d]", i)

	if strings.TrimSpace(t.Title) == "" {
		errs = append(errs, fmt.Errorf("%s.title is required", path))
	}
	if role, ok := domain.ParseRole(t.AssigneeRole); !ok || !domain.ValidAssigneeRoles[role] {
		errs = append(errs, fmt.Errorf("%s.assignee_role: invalid value %q (expected CLIENT, CPA or SERVICE_CENTER)", path, t.AssigneeRole))
	}
	if err := validateStatus(path+".status", t.Status); err != nil {
		errs = append(errs, err)
	}
	if err := validateOptionalDate(path+".due_date", t.DueDate); err != nil {
		errs = append(errs, err)
	}
	switch t.DocumentRequired.(type) {
	case nil, bool, float64, string:
	default:
		errs = append(errs, fmt.Errorf("%s.document_required: expected a boolean, 0/1 or string", path))
	}

	return errs
}

// validateStatus accepts empty (defaults to Not Started) or any recognized
// work status. Approved is reserved for review and cannot be imported.
func validateStatus(path, s string) error {
	if s == "" {
		return nil
	}
	st, ok := domain.LookupStatus(s)
	if !ok || !domain.ValidWorkStatuses[st] {
		return fmt.Errorf("%s: invalid value %q", path, s)
	}
	return nil
}

func validateOptionalDate(path string, s *string) error {
	if s == nil || *s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", *s); err != nil {
		return fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", path, *s)
	}
	return nil
}
