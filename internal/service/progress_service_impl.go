package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/progress"
	"github.com/gentyx/clienthub/internal/repository"
)

const dueDateLayout = "2006-01-02"

type progressService struct {
	clients  repository.ClientRepo
	stages   repository.StageRepo
	tasks    repository.TaskRepo
	observer UseCaseObserver
}

// NewProgressService builds the read side. Progress is always recomputed
// from live stage, subtask and task rows.
func NewProgressService(clients repository.ClientRepo, stages repository.StageRepo, tasks repository.TaskRepo, observers ...UseCaseObserver) ProgressService {
	return &progressService{clients: clients, stages: stages, tasks: tasks, observer: useCaseObserverOrNoop(observers)}
}

func (s *progressService) ClientProgress(ctx context.Context, req app.ClientProgressRequest) (resp *app.ClientProgressResponse, err error) {
	fields := map[string]any{"client_id": req.ClientID, "role": string(req.Scope.Role)}
	defer observe(ctx, s.observer, "progress.client", time.Now().UTC(), fields, &err)

	now := resolveNow(req.Now)
	c, err := loadVisibleClient(ctx, s.clients, req.Scope, req.ClientID)
	if err != nil {
		return nil, err
	}
	resp, err = s.buildClientProgress(ctx, c, now)
	if err != nil {
		return nil, err
	}
	fields["progress_pct"] = resp.ProgressPct
	fields["overdue_tasks"] = resp.OverdueTasks
	return resp, nil
}

func (s *progressService) buildClientProgress(ctx context.Context, c *domain.Client, now time.Time) (*app.ClientProgressResponse, error) {
	stages, err := s.stages.ListByClient(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("loading stages for %s: %w", c.ID, err)
	}
	tasks, err := s.tasks.ListByClient(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("loading tasks for %s: %w", c.ID, err)
	}

	rollup := progress.ComputeStageProgress(stages)
	resp := &app.ClientProgressResponse{
		GeneratedAt:     now,
		ClientID:        c.ID,
		ClientName:      c.Name,
		DueDate:         formatDue(c.DueDate),
		ClientOverdue:   progress.IsOverdue(c.DueDate, clientRollupStatus(rollup), now),
		CompletedStages: rollup.CompletedStages,
		TotalStages:     rollup.TotalStages,
		ProgressPct:     rollup.ProgressPct,
		Stages:          make([]app.StageView, 0, len(stages)),
		Tasks:           make([]app.TaskView, 0, len(tasks)),
	}

	for _, st := range stages {
		view := app.StageView{
			StageID:       st.ID,
			Name:          st.Name,
			OrderNumber:   st.OrderNumber,
			Status:        st.Status,
			Completed:     rollup.StageCompleted[st.ID],
			SubtasksTotal: len(st.Subtasks),
		}
		for _, sub := range st.Subtasks {
			if sub != nil && sub.Status == domain.StatusCompleted {
				view.SubtasksDone++
			}
		}
		resp.Stages = append(resp.Stages, view)
	}

	for _, t := range tasks {
		overdue := progress.IsOverdue(t.DueDate, t.Status, now)
		resp.Tasks = append(resp.Tasks, app.TaskView{
			TaskID:           t.ID,
			Title:            t.Title,
			AssigneeRole:     t.AssigneeRole,
			Status:           t.Status,
			DueDate:          formatDue(t.DueDate),
			DocumentRequired: t.DocumentRequired,
			Overdue:          overdue,
			DaysOverdue:      progress.DaysOverdue(t.DueDate, t.Status, now),
		})
		if t.Status != domain.StatusCompleted {
			resp.OpenTasks++
		}
		if overdue {
			resp.OverdueTasks++
		}
	}
	return resp, nil
}

// Dashboard summarizes every client visible to the scope, most urgent first:
// overdue task count descending, then progress ascending, then name.
func (s *progressService) Dashboard(ctx context.Context, req app.DashboardRequest) (resp *app.DashboardResponse, err error) {
	fields := map[string]any{"role": string(req.Scope.Role)}
	defer observe(ctx, s.observer, "progress.dashboard", time.Now().UTC(), fields, &err)

	if err := req.Scope.Validate(); err != nil {
		return nil, err
	}
	now := resolveNow(req.Now)
	clients, err := s.clients.List(ctx, clientFilterForScope(req.Scope, req.IncludeArchived))
	if err != nil {
		return nil, err
	}

	resp = &app.DashboardResponse{
		Summary: app.DashboardSummary{GeneratedAt: now},
		Clients: make([]app.ClientSummaryView, 0, len(clients)),
	}
	progressSum := 0
	for _, c := range clients {
		cp, err := s.buildClientProgress(ctx, c, now)
		if err != nil {
			return nil, err
		}
		resp.Clients = append(resp.Clients, app.ClientSummaryView{
			ClientID:        c.ID,
			ClientName:      c.Name,
			ProgressPct:     cp.ProgressPct,
			CompletedStages: cp.CompletedStages,
			TotalStages:     cp.TotalStages,
			OpenTasks:       cp.OpenTasks,
			OverdueTasks:    cp.OverdueTasks,
			DueDate:         cp.DueDate,
			Overdue:         cp.ClientOverdue,
		})
		progressSum += cp.ProgressPct
		if cp.TotalStages > 0 && cp.CompletedStages == cp.TotalStages {
			resp.Summary.CountsComplete++
		}
		if cp.OverdueTasks > 0 {
			resp.Summary.CountsWithOverdue++
		}
		resp.Summary.TotalOverdueTasks += cp.OverdueTasks
	}

	sort.SliceStable(resp.Clients, func(i, j int) bool {
		a, b := resp.Clients[i], resp.Clients[j]
		if a.OverdueTasks != b.OverdueTasks {
			return a.OverdueTasks > b.OverdueTasks
		}
		if a.ProgressPct != b.ProgressPct {
			return a.ProgressPct < b.ProgressPct
		}
		return a.ClientName < b.ClientName
	})

	resp.Summary.CountsClients = len(resp.Clients)
	if len(resp.Clients) > 0 {
		resp.Summary.AverageProgressPct = progress.Percent(progressSum, len(resp.Clients)*100)
	}
	resp.Summary.PolicyMessage = dashboardMessage(resp.Summary)
	fields["clients"] = resp.Summary.CountsClients
	return resp, nil
}

func dashboardMessage(sum app.DashboardSummary) string {
	switch {
	case sum.CountsClients == 0:
		return "No clients in view."
	case sum.CountsWithOverdue == 0:
		return "All clients on track."
	case sum.CountsWithOverdue == 1:
		return fmt.Sprintf("1 client has overdue tasks (%d overdue in total).", sum.TotalOverdueTasks)
	default:
		return fmt.Sprintf("%d clients have overdue tasks (%d overdue in total).", sum.CountsWithOverdue, sum.TotalOverdueTasks)
	}
}

// clientRollupStatus stands in for a client-level status when classifying the
// client's own due date: finished onboarding is never overdue.
func clientRollupStatus(r progress.StageResult) domain.Status {
	if r.TotalStages > 0 && r.CompletedStages == r.TotalStages {
		return domain.StatusCompleted
	}
	return domain.StatusInProgress
}

func resolveNow(now *time.Time) time.Time {
	if now != nil {
		return *now
	}
	return time.Now()
}

func formatDue(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dueDateLayout)
	return &s
}
