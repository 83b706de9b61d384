package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gentyx/clienthub/internal/db"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to exercise WAL mode with real concurrent access.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "concurrent_test.db"))
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_ReadDuringWrite checks that task listings stay
// consistent while another goroutine keeps inserting tasks.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	clients := NewSQLiteClientRepo(database)
	tasks := NewSQLiteTaskRepo(database)

	c := testutil.NewTestClient("ReadWrite")
	require.NoError(t, clients.Create(ctx, c))

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			task := testutil.NewTestTask(c.ID, fmt.Sprintf("Task-%d", i))
			if err := tasks.Create(ctx, task); err != nil {
				t.Errorf("writer: create task %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				list, err := tasks.ListByClient(ctx, c.ID)
				if err != nil {
					t.Errorf("reader %d: list tasks: %v", reader, err)
					return
				}
				for _, task := range list {
					if task.ID == "" || task.ClientID != c.ID {
						t.Errorf("reader %d: got half-written task %+v", reader, task)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	list, err := tasks.ListByClient(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, list, 20)
}

// TestConcurrentAccess_StatusUpdatesLastWriterWins races status updates on
// one task. Every UPDATE succeeds and the row ends in one of the written states.
func TestConcurrentAccess_StatusUpdatesLastWriterWins(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	clients := NewSQLiteClientRepo(database)
	tasks := NewSQLiteTaskRepo(database)

	c := testutil.NewTestClient("Racy")
	require.NoError(t, clients.Create(ctx, c))
	task := testutil.NewTestTask(c.ID, "Contested", testutil.WithDocumentRequired(false))
	require.NoError(t, tasks.Create(ctx, task))

	statuses := []domain.Status{domain.StatusInProgress, domain.StatusCompleted, domain.StatusNotStarted}

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			update := *task
			update.Status = statuses[i%len(statuses)]
			update.UpdatedAt = time.Now().UTC()
			if err := tasks.UpdateStatus(ctx, &update); err != nil {
				t.Errorf("update %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	got, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Contains(t, statuses, got.Status)
}

// TestConcurrentAccess_ProgressReadsDuringStageUpdates reads stages with
// their subtasks while subtasks are being completed.
func TestConcurrentAccess_ProgressReadsDuringStageUpdates(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	clients := NewSQLiteClientRepo(database)
	stages := NewSQLiteStageRepo(database)

	c := testutil.NewTestClient("Stages")
	require.NoError(t, clients.Create(ctx, c))

	const stageCount = 5
	var subtaskIDs []string
	for i := 1; i <= stageCount; i++ {
		s := testutil.NewTestStage(c.ID, fmt.Sprintf("Stage-%d", i), i)
		require.NoError(t, stages.Create(ctx, s))
		st := testutil.NewTestSubtask(s.ID, "Step", domain.StatusNotStarted)
		require.NoError(t, stages.CreateSubtask(ctx, st))
		subtaskIDs = append(subtaskIDs, st.ID)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, id := range subtaskIDs {
			if err := stages.UpdateSubtaskStatus(ctx, id, domain.StatusCompleted); err != nil {
				t.Errorf("complete subtask %s: %v", id, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				list, err := stages.ListByClient(ctx, c.ID)
				if err != nil {
					t.Errorf("reader %d: list stages: %v", reader, err)
					return
				}
				if len(list) != stageCount {
					t.Errorf("reader %d: expected %d stages, got %d", reader, stageCount, len(list))
				}
			}
		}(r)
	}
	wg.Wait()

	list, err := stages.ListByClient(ctx, c.ID)
	require.NoError(t, err)
	for _, s := range list {
		require.Len(t, s.Subtasks, 1)
		assert.Equal(t, domain.StatusCompleted, s.Subtasks[0].Status)
	}
}
