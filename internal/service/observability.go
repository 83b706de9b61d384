package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/repository"
)

// Outcome classifies how a use case ended.
type Outcome string

const (
	OutcomeOK Outcome = "ok"
	// OutcomeRejected covers caller mistakes: scope violations, gated
	// completions, invalid input and unknown IDs.
	OutcomeRejected Outcome = "rejected"
	OutcomeFailed   Outcome = "failed"
)

// ClassifyOutcome maps a use-case error onto an Outcome.
func ClassifyOutcome(err error) Outcome {
	var scopeErr *app.ScopeError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &scopeErr),
		errors.Is(err, ErrDocumentUploadRequired),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, repository.ErrNotFound):
		return OutcomeRejected
	}
	return OutcomeFailed
}

type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Outcome   Outcome
	Err       error
	Fields    map[string]any
}

func (e UseCaseEvent) Success() bool { return e.Outcome == OutcomeOK }

// UseCaseObserver receives one event per service call.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes events to logger: rejected calls at warn,
// failed calls at error, the rest at info.
func NewLogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := []slog.Attr{
		slog.String("use_case", event.Name),
		slog.Int64("duration_ms", event.Duration.Milliseconds()),
		slog.String("outcome", string(event.Outcome)),
	}
	for k, v := range event.Fields {
		attrs = append(attrs, slog.Any(k, v))
	}

	level := slog.LevelInfo
	if event.Err != nil {
		attrs = append(attrs, slog.String("error", event.Err.Error()))
		level = slog.LevelError
		if event.Outcome == OutcomeRejected {
			level = slog.LevelWarn
		}
	}
	o.logger.LogAttrs(ctx, level, "use_case", attrs...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}

// observe is deferred by use cases with a named error return:
//
//	defer observe(ctx, s.observer, "task.update_status", time.Now().UTC(), fields, &err)
func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, fields map[string]any, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Outcome:   ClassifyOutcome(err),
		Err:       err,
		Fields:    fields,
	})
}
