package importer

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/progress"
)

// Plan is a converted import ready for persistence.
type Plan struct {
	Client *domain.Client
	Stages []*domain.Stage
	Tasks  []*domain.Task
}

// SubtaskCount totals the subtasks across all stages.
func (p *Plan) SubtaskCount() int {
	n := 0
	for _, s := range p.Stages {
		n += len(s.Subtasks)
	}
	return n
}

// Convert transforms a validated ImportSchema into domain objects ready for persistence.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema, now time.Time) *Plan {
	client := &domain.Client{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(schema.Client.Name),
		Email:           schema.Client.Email,
		CPAID:           schema.Client.CPAID,
		ServiceCenterID: schema.Client.ServiceCenterID,
		Status:          domain.ClientActive,
		DueDate:         parseOptionalDate(schema.Client.DueDate),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	stages := make([]*domain.Stage, 0, len(schema.Stages))
	for i, s := range schema.Stages {
		stage := &domain.Stage{
			ID:          uuid.New().String(),
			ClientID:    client.ID,
			Name:        strings.TrimSpace(s.Name),
			OrderNumber: i + 1,
			Status:      domain.ParseStatus(s.Status),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		for j, st := range s.Subtasks {
			stage.Subtasks = append(stage.Subtasks, &domain.Subtask{
				ID:          uuid.New().String(),
				StageID:     stage.ID,
				Title:       strings.TrimSpace(st.Title),
				OrderNumber: j + 1,
				Status:      domain.ParseStatus(st.Status),
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
		stages = append(stages, stage)
	}

	tasks := make([]*domain.Task, 0, len(schema.Tasks))
	for _, t := range schema.Tasks {
		role, _ := domain.ParseRole(t.AssigneeRole)
		task := &domain.Task{
			ID:               uuid.New().String(),
			ClientID:         client.ID,
			Title:            strings.TrimSpace(t.Title),
			Description:      t.Description,
			AssigneeRole:     role,
			Status:           domain.ParseStatus(t.Status),
			DueDate:          parseOptionalDate(t.DueDate),
			DocumentRequired: progress.NormalizeDocumentRequired(t.DocumentRequired),
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if task.Status == domain.StatusCompleted {
			done := now
			task.CompletedAt = &done
		}
		tasks = append(tasks, task)
	}

	return &Plan{Client: client, Stages: stages, Tasks: tasks}
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}
