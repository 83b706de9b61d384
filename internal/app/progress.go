package app

import (
	"time"

	"github.com/gentyx/clienthub/internal/domain"
)

type ClientProgressRequest struct {
	Scope    Scope
	ClientID string
	Now      *time.Time
}

type StageView struct {
	StageID       string
	Name          string
	OrderNumber   int
	Status        domain.Status
	Completed     bool
	SubtasksDone  int
	SubtasksTotal int
}

type TaskView struct {
	TaskID           string
	Title            string
	AssigneeRole     domain.Role
	Status           domain.Status
	DueDate          *string
	DocumentRequired bool
	Overdue          bool
	DaysOverdue      int
}

type ClientProgressResponse struct {
	GeneratedAt     time.Time
	ClientID        string
	ClientName      string
	DueDate         *string
	ClientOverdue   bool
	CompletedStages int
	TotalStages     int
	ProgressPct     int
	Stages          []StageView
	Tasks           []TaskView
	OpenTasks       int
	OverdueTasks    int
}

type DashboardRequest struct {
	Scope           Scope
	Now             *time.Time
	IncludeArchived bool
}

type ClientSummaryView struct {
	ClientID        string
	ClientName      string
	ProgressPct     int
	CompletedStages int
	TotalStages     int
	OpenTasks       int
	OverdueTasks    int
	DueDate         *string
	Overdue         bool
}

type DashboardSummary struct {
	GeneratedAt        time.Time
	CountsClients      int
	CountsComplete     int
	CountsWithOverdue  int
	TotalOverdueTasks  int
	AverageProgressPct int
	PolicyMessage      string
}

type DashboardResponse struct {
	Summary DashboardSummary
	Clients []ClientSummaryView
}
