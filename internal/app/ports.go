package app

import (
	"context"

	"github.com/gentyx/clienthub/internal/progress"
)

type ClientProgressUseCase interface {
	ClientProgress(ctx context.Context, req ClientProgressRequest) (*ClientProgressResponse, error)
}

type DashboardUseCase interface {
	Dashboard(ctx context.Context, req DashboardRequest) (*DashboardResponse, error)
}

type TaskStatusUseCase interface {
	UpdateStatus(ctx context.Context, req TaskStatusRequest) (*TaskStatusResponse, error)
	CheckGate(ctx context.Context, req TaskGateRequest) (progress.GateDecision, error)
}
