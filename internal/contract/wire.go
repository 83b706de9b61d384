// Package contract defines the JSON shapes of the HTTP API and the mappings
// from app and domain types into them.
package contract

import (
	"time"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/domain"
)

const dateLayout = "2006-01-02"

type Client struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email,omitempty"`
	CPAID           string  `json:"cpa_id,omitempty"`
	ServiceCenterID string  `json:"service_center_id,omitempty"`
	Status          string  `json:"status"`
	DueDate         *string `json:"due_date,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

type Subtask struct {
	ID          string `json:"id"`
	StageID     string `json:"stage_id"`
	Title       string `json:"title"`
	OrderNumber int    `json:"order_number"`
	Status      string `json:"status"`
}

type Stage struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id"`
	Name        string    `json:"name"`
	OrderNumber int       `json:"order_number"`
	Status      string    `json:"status"`
	Subtasks    []Subtask `json:"subtasks"`
}

type Task struct {
	ID               string  `json:"id"`
	ClientID         string  `json:"client_id"`
	Title            string  `json:"title"`
	Description      string  `json:"description,omitempty"`
	AssigneeRole     string  `json:"assignee_role"`
	Status           string  `json:"status"`
	DueDate          *string `json:"due_date,omitempty"`
	DocumentRequired bool    `json:"document_required"`
	CompletedAt      *string `json:"completed_at,omitempty"`
}

type Document struct {
	ID          string `json:"id"`
	TaskID      string `json:"task_id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	UploadedBy  string `json:"uploaded_by,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type AuditEntry struct {
	ID         string `json:"id"`
	ActorRole  string `json:"actor_role"`
	ActorID    string `json:"actor_id,omitempty"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Detail     string `json:"detail,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type StageProgress struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	OrderNumber   int    `json:"order_number"`
	Status        string `json:"status"`
	Completed     bool   `json:"completed"`
	SubtasksDone  int    `json:"subtasks_done"`
	SubtasksTotal int    `json:"subtasks_total"`
}

type TaskProgress struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	AssigneeRole     string  `json:"assignee_role"`
	Status           string  `json:"status"`
	DueDate          *string `json:"due_date,omitempty"`
	DocumentRequired bool    `json:"document_required"`
	Overdue          bool    `json:"overdue"`
	DaysOverdue      int     `json:"days_overdue,omitempty"`
}

type ClientProgress struct {
	ClientID        string          `json:"client_id"`
	ClientName      string          `json:"client_name"`
	DueDate         *string         `json:"due_date,omitempty"`
	Overdue         bool            `json:"overdue"`
	Progress        int             `json:"progress"`
	CompletedStages int             `json:"completed_stages"`
	TotalStages     int             `json:"total_stages"`
	OpenTasks       int             `json:"open_tasks"`
	OverdueTasks    int             `json:"overdue_tasks"`
	Stages          []StageProgress `json:"stages"`
	Tasks           []TaskProgress  `json:"tasks"`
	GeneratedAt     string          `json:"generated_at"`
}

type ClientSummary struct {
	ClientID        string  `json:"client_id"`
	ClientName      string  `json:"client_name"`
	Progress        int     `json:"progress"`
	CompletedStages int     `json:"completed_stages"`
	TotalStages     int     `json:"total_stages"`
	OpenTasks       int     `json:"open_tasks"`
	OverdueTasks    int     `json:"overdue_tasks"`
	DueDate         *string `json:"due_date,omitempty"`
	Overdue         bool    `json:"overdue"`
}

type Dashboard struct {
	Clients           []ClientSummary `json:"clients"`
	ClientCount       int             `json:"client_count"`
	CompleteCount     int             `json:"complete_count"`
	WithOverdueCount  int             `json:"with_overdue_count"`
	TotalOverdueTasks int             `json:"total_overdue_tasks"`
	AverageProgress   int             `json:"average_progress"`
	Message           string          `json:"message"`
	GeneratedAt       string          `json:"generated_at"`
}

type TaskStatusResult struct {
	Task     Task      `json:"task"`
	Decision string    `json:"decision"`
	Changed  bool      `json:"changed"`
	Document *Document `json:"document,omitempty"`
}

// Requests

type CreateClientRequest struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	CPAID           string  `json:"cpa_id"`
	ServiceCenterID string  `json:"service_center_id"`
	DueDate         *string `json:"due_date"`
}

type CreateStageRequest struct {
	Name string `json:"name"`
}

type CreateSubtaskRequest struct {
	Title string `json:"title"`
}

type CreateTaskRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	AssigneeRole string  `json:"assignee_role"`
	DueDate      *string `json:"due_date"`
	// DocumentRequired is loosely typed on the wire: booleans, 0/1 and their
	// string forms are accepted; absent means required.
	DocumentRequired any `json:"document_required"`
}

type StatusChangeRequest struct {
	Status string `json:"status"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseDate parses a YYYY-MM-DD date. Empty input yields nil.
func ParseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func FromClient(c *domain.Client) Client {
	return Client{
		ID:              c.ID,
		Name:            c.Name,
		Email:           c.Email,
		CPAID:           c.CPAID,
		ServiceCenterID: c.ServiceCenterID,
		Status:          string(c.Status),
		DueDate:         formatDate(c.DueDate),
		CreatedAt:       formatTimestamp(c.CreatedAt),
	}
}

func FromClients(cs []*domain.Client) []Client {
	out := make([]Client, 0, len(cs))
	for _, c := range cs {
		out = append(out, FromClient(c))
	}
	return out
}

func FromSubtask(st *domain.Subtask) Subtask {
	return Subtask{
		ID:          st.ID,
		StageID:     st.StageID,
		Title:       st.Title,
		OrderNumber: st.OrderNumber,
		Status:      string(st.Status),
	}
}

func FromStage(s *domain.Stage) Stage {
	out := Stage{
		ID:          s.ID,
		ClientID:    s.ClientID,
		Name:        s.Name,
		OrderNumber: s.OrderNumber,
		Status:      string(s.Status),
		Subtasks:    make([]Subtask, 0, len(s.Subtasks)),
	}
	for _, st := range s.Subtasks {
		if st != nil {
			out.Subtasks = append(out.Subtasks, FromSubtask(st))
		}
	}
	return out
}

func FromStages(ss []*domain.Stage) []Stage {
	out := make([]Stage, 0, len(ss))
	for _, s := range ss {
		out = append(out, FromStage(s))
	}
	return out
}

func FromTask(t *domain.Task) Task {
	out := Task{
		ID:               t.ID,
		ClientID:         t.ClientID,
		Title:            t.Title,
		Description:      t.Description,
		AssigneeRole:     string(t.AssigneeRole),
		Status:           string(t.Status),
		DueDate:          formatDate(t.DueDate),
		DocumentRequired: t.DocumentRequired,
	}
	if t.CompletedAt != nil {
		s := formatTimestamp(*t.CompletedAt)
		out.CompletedAt = &s
	}
	return out
}

func FromTasks(ts []*domain.Task) []Task {
	out := make([]Task, 0, len(ts))
	for _, t := range ts {
		out = append(out, FromTask(t))
	}
	return out
}

func FromDocument(d *domain.Document) Document {
	return Document{
		ID:          d.ID,
		TaskID:      d.TaskID,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		UploadedBy:  d.UploadedBy,
		CreatedAt:   formatTimestamp(d.CreatedAt),
	}
}

func FromAuditEntries(es []*domain.AuditEntry) []AuditEntry {
	out := make([]AuditEntry, 0, len(es))
	for _, e := range es {
		out = append(out, AuditEntry{
			ID:         e.ID,
			ActorRole:  string(e.ActorRole),
			ActorID:    e.ActorID,
			Action:     string(e.Action),
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Detail:     e.Detail,
			CreatedAt:  formatTimestamp(e.CreatedAt),
		})
	}
	return out
}

func FromClientProgress(r *app.ClientProgressResponse) ClientProgress {
	out := ClientProgress{
		ClientID:        r.ClientID,
		ClientName:      r.ClientName,
		DueDate:         r.DueDate,
		Overdue:         r.ClientOverdue,
		Progress:        r.ProgressPct,
		CompletedStages: r.CompletedStages,
		TotalStages:     r.TotalStages,
		OpenTasks:       r.OpenTasks,
		OverdueTasks:    r.OverdueTasks,
		Stages:          make([]StageProgress, 0, len(r.Stages)),
		Tasks:           make([]TaskProgress, 0, len(r.Tasks)),
		GeneratedAt:     formatTimestamp(r.GeneratedAt),
	}
	for _, s := range r.Stages {
		out.Stages = append(out.Stages, StageProgress{
			ID:            s.StageID,
			Name:          s.Name,
			OrderNumber:   s.OrderNumber,
			Status:        string(s.Status),
			Completed:     s.Completed,
			SubtasksDone:  s.SubtasksDone,
			SubtasksTotal: s.SubtasksTotal,
		})
	}
	for _, t := range r.Tasks {
		out.Tasks = append(out.Tasks, TaskProgress{
			ID:               t.TaskID,
			Title:            t.Title,
			AssigneeRole:     string(t.AssigneeRole),
			Status:           string(t.Status),
			DueDate:          t.DueDate,
			DocumentRequired: t.DocumentRequired,
			Overdue:          t.Overdue,
			DaysOverdue:      t.DaysOverdue,
		})
	}
	return out
}

func FromDashboard(r *app.DashboardResponse) Dashboard {
	out := Dashboard{
		Clients:           make([]ClientSummary, 0, len(r.Clients)),
		ClientCount:       r.Summary.CountsClients,
		CompleteCount:     r.Summary.CountsComplete,
		WithOverdueCount:  r.Summary.CountsWithOverdue,
		TotalOverdueTasks: r.Summary.TotalOverdueTasks,
		AverageProgress:   r.Summary.AverageProgressPct,
		Message:           r.Summary.PolicyMessage,
		GeneratedAt:       formatTimestamp(r.Summary.GeneratedAt),
	}
	for _, c := range r.Clients {
		out.Clients = append(out.Clients, ClientSummary{
			ClientID:        c.ClientID,
			ClientName:      c.ClientName,
			Progress:        c.ProgressPct,
			CompletedStages: c.CompletedStages,
			TotalStages:     c.TotalStages,
			OpenTasks:       c.OpenTasks,
			OverdueTasks:    c.OverdueTasks,
			DueDate:         c.DueDate,
			Overdue:         c.Overdue,
		})
	}
	return out
}

func FromTaskStatus(r *app.TaskStatusResponse) TaskStatusResult {
	out := TaskStatusResult{
		Task:     FromTask(r.Task),
		Decision: string(r.Decision),
		Changed:  r.Changed,
	}
	if r.Document != nil {
		d := FromDocument(r.Document)
		out.Document = &d
	}
	return out
}
