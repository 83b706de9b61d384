package domain

import "time"

// Stage is an ordered onboarding phase of a client.
type Stage struct {
	ID          string
	ClientID    string
	Name        string
	OrderNumber int
	Status      Status
	Subtasks    []*Subtask
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Subtask is a checklist item within a stage.
type Subtask struct {
	ID          string
	StageID     string
	Title       string
	OrderNumber int
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
