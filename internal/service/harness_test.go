package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/blob"
	"github.com/gentyx/clienthub/internal/db"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/repository"
	"github.com/gentyx/clienthub/internal/testutil"
	"github.com/stretchr/testify/require"
)

type harness struct {
	db        *sql.DB
	clients   repository.ClientRepo
	stages    repository.StageRepo
	tasks     repository.TaskRepo
	documents repository.DocumentRepo
	audits    repository.AuditRepo
	uow       db.UnitOfWork
	blobs     *blob.LocalStore
	blobRoot  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	blobRoot := filepath.Join(t.TempDir(), "uploads")
	store, err := blob.NewLocalStore(blobRoot)
	require.NoError(t, err)
	return &harness{
		db:        database,
		clients:   repository.NewSQLiteClientRepo(database),
		stages:    repository.NewSQLiteStageRepo(database),
		tasks:     repository.NewSQLiteTaskRepo(database),
		documents: repository.NewSQLiteDocumentRepo(database),
		audits:    repository.NewSQLiteAuditRepo(database),
		uow:       testutil.NewTestUoW(database),
		blobs:     store,
		blobRoot:  blobRoot,
	}
}

func (h *harness) taskService(notifier Notifier) TaskService {
	return NewTaskService(h.tasks, h.documents, h.clients, h.uow, h.blobs, notifier)
}

func (h *harness) seedClient(t *testing.T, name string, opts ...testutil.ClientOption) *domain.Client {
	t.Helper()
	c := testutil.NewTestClient(name, opts...)
	require.NoError(t, h.clients.Create(context.Background(), c))
	return c
}

func (h *harness) seedTask(t *testing.T, clientID, title string, opts ...testutil.TaskOption) *domain.Task {
	t.Helper()
	task := testutil.NewTestTask(clientID, title, opts...)
	require.NoError(t, h.tasks.Create(context.Background(), task))
	return task
}

func (h *harness) seedStage(t *testing.T, clientID, name string, order int, status domain.Status, subtasks ...domain.Status) *domain.Stage {
	t.Helper()
	ctx := context.Background()
	st := testutil.NewTestStage(clientID, name, order, testutil.WithStageStatus(status))
	require.NoError(t, h.stages.Create(ctx, st))
	for i, s := range subtasks {
		sub := testutil.NewTestSubtask(st.ID, name+" item", s)
		sub.OrderNumber = i + 1
		require.NoError(t, h.stages.CreateSubtask(ctx, sub))
	}
	return st
}

func clientScope(clientID string) app.Scope {
	return app.Scope{Role: domain.RoleClient, ClientID: clientID}
}

func cpaScope(actorID string) app.Scope {
	return app.Scope{Role: domain.RoleCPA, ActorID: actorID}
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, msg Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// failingStore refuses every write.
type failingStore struct{}

func (failingStore) Put(context.Context, string, io.Reader) (int64, error) {
	return 0, errors.New("bucket unavailable")
}

func (failingStore) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("bucket unavailable")
}

func (failingStore) Delete(context.Context, string) error { return nil }
