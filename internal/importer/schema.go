package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ImportSchema is the top-level JSON structure for an onboarding plan import:
// one client with its stages, subtasks and tasks.
type ImportSchema struct {
	Client ClientImport  `json:"client"`
	Stages []StageImport `json:"stages"`
	Tasks  []TaskImport  `json:"tasks,omitempty"`
}

// ClientImport defines the client-level fields in the import file.
type ClientImport struct {
	Name            string  `json:"name"`
	Email           string  `json:"email,omitempty"`
	CPAID           string  `json:"cpa_id,omitempty"`
	ServiceCenterID string  `json:"service_center_id,omitempty"`
	DueDate         *string `json:"due_date,omitempty"`
}

// StageImport defines a stage. Order follows position in the array.
type StageImport struct {
	Name     string          `json:"name"`
	Status   string          `json:"status,omitempty"`
	Subtasks []SubtaskImport `json:"subtasks,omitempty"`
}

type SubtaskImport struct {
	Title  string `json:"title"`
	Status string `json:"status,omitempty"`
}

// TaskImport defines a task. DocumentRequired accepts a bool, 0/1 or their
// string forms; absent means required.
type TaskImport struct {
	Title            string  `json:"title"`
	Description      string  `json:"description,omitempty"`
	AssigneeRole     string  `json:"assignee_role"`
	Status           string  `json:"status,omitempty"`
	DueDate          *string `json:"due_date,omitempty"`
	DocumentRequired any     `json:"document_required,omitempty"`
}

// LoadImportSchema reads and parses an onboarding plan JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseImportSchema(f)
}

// ParseImportSchema decodes an onboarding plan, rejecting unknown fields.
func ParseImportSchema(r io.Reader) (*ImportSchema, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var schema ImportSchema
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
