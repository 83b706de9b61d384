package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	usecase "github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/repository"
)

// matchID resolves input against candidate IDs: exact match first, then a
// unique prefix.
func matchID(kind, input string, ids []string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}
	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}
	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

// resolveClientID accepts a full client ID or a unique prefix among the
// clients visible to scope, archived ones included.
func resolveClientID(ctx context.Context, app *App, scope usecase.Scope, input string) (string, error) {
	clients, err := app.Clients.List(ctx, scope, true)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(clients))
	for _, c := range clients {
		ids = append(ids, c.ID)
	}
	return matchID("client", input, ids)
}

// resolveTaskID tries a direct lookup, then prefix-matches across the tasks
// of every visible client.
func resolveTaskID(ctx context.Context, app *App, scope usecase.Scope, input string) (string, error) {
	if t, err := app.Tasks.GetByID(ctx, scope, input); err == nil {
		return t.ID, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	clients, err := app.Clients.List(ctx, scope, true)
	if err != nil {
		return "", err
	}
	var ids []string
	for _, c := range clients {
		tasks, err := app.Tasks.ListByClient(ctx, scope, c.ID)
		if err != nil {
			return "", err
		}
		for _, t := range tasks {
			ids = append(ids, t.ID)
		}
	}
	return matchID("task", input, ids)
}

// resolveStageID and resolveSubtaskID walk the visible clients' stages.
func resolveStageID(ctx context.Context, app *App, scope usecase.Scope, input string) (string, error) {
	stageIDs, _, err := collectStageIDs(ctx, app, scope)
	if err != nil {
		return "", err
	}
	return matchID("stage", input, stageIDs)
}

func resolveSubtaskID(ctx context.Context, app *App, scope usecase.Scope, input string) (string, error) {
	_, subtaskIDs, err := collectStageIDs(ctx, app, scope)
	if err != nil {
		return "", err
	}
	return matchID("subtask", input, subtaskIDs)
}

func collectStageIDs(ctx context.Context, app *App, scope usecase.Scope) (stageIDs, subtaskIDs []string, err error) {
	clients, err := app.Clients.List(ctx, scope, true)
	if err != nil {
		return nil, nil, err
	}
	for _, c := range clients {
		stages, err := app.Stages.ListByClient(ctx, scope, c.ID)
		if err != nil {
			return nil, nil, err
		}
		for _, s := range stages {
			stageIDs = append(stageIDs, s.ID)
			for _, st := range s.Subtasks {
				subtaskIDs = append(subtaskIDs, st.ID)
			}
		}
	}
	return stageIDs, subtaskIDs, nil
}
