package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usecase "github.com/gentyx/clienthub/internal/app"
	"github.com/gentyx/clienthub/internal/domain"
	"github.com/gentyx/clienthub/internal/repository"
	"github.com/gentyx/clienthub/internal/service"
	"github.com/gentyx/clienthub/internal/testutil"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

var cliNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	store := testutil.NewTestBlobStore(t)

	clients := repository.NewSQLiteClientRepo(database)
	stages := repository.NewSQLiteStageRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	documents := repository.NewSQLiteDocumentRepo(database)
	audits := repository.NewSQLiteAuditRepo(database)

	return &App{
		Clients:  service.NewClientService(clients, uow),
		Stages:   service.NewStageService(stages, clients, uow),
		Tasks:    service.NewTaskService(tasks, documents, clients, uow, store, service.NewLogNotifier(nil)),
		Progress: service.NewProgressService(clients, stages, tasks),
		Audit:    service.NewAuditService(audits, clients),
		Import:   service.NewImportService(uow),
		Now:      func() time.Time { return cliNow },
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

func seedClient(t *testing.T, app *App, name string, opts ...testutil.ClientOption) *domain.Client {
	t.Helper()
	c := testutil.NewTestClient(name, opts...)
	require.NoError(t, app.Clients.Create(context.Background(), usecase.AdminScope(), c))
	return c
}

func seedTask(t *testing.T, app *App, clientID, title string, opts ...testutil.TaskOption) *domain.Task {
	t.Helper()
	task := testutil.NewTestTask(clientID, title, opts...)
	require.NoError(t, app.Tasks.Create(context.Background(), usecase.AdminScope(), task))
	return task
}

func writeTempFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

// --- root ---

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	app := testApp(t)

	output, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, output, "clienthub")
}

func TestRootCmd_UnknownRole(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "--role", "auditor", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")
}

// --- client ---

func TestClientAdd_ThenList(t *testing.T) {
	app := testApp(t)

	output, err := executeCmd(t, app, "client", "add", "--name", "Acme Bakery", "--email", "owner@acme.test", "--due", "2026-04-01")
	require.NoError(t, err)
	assert.Contains(t, output, "Created client Acme Bakery")

	output, err = executeCmd(t, app, "client", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "Acme Bakery")
	assert.Contains(t, output, "owner@acme.test")
}

func TestClientAdd_RequiresName(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "client", "add")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestClientAdd_InvalidDueDate(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "client", "add", "--name", "Acme", "--due", "April")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid due date")
}

func TestClientArchive_HidesFromDefaultList(t *testing.T) {
	app := testApp(t)
	c := seedClient(t, app, "Old Co")

	_, err := executeCmd(t, app, "client", "archive", c.ID[:8])
	require.NoError(t, err)

	output, err := executeCmd(t, app, "client", "list")
	require.NoError(t, err)
	assert.NotContains(t, output, "Old Co")

	output, err = executeCmd(t, app, "client", "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, output, "Old Co")
}

func TestClientDelete_RequiresForceWhenScripted(t *testing.T) {
	app := testApp(t)
	c := seedClient(t, app, "Acme")

	_, err := executeCmd(t, app, "client", "delete", c.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, err = executeCmd(t, app, "client", "delete", c.ID, "--force")
	require.NoError(t, err)

	_, err = app.Clients.GetByID(context.Background(), usecase.AdminScope(), c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestClientShow_RendersProgress(t *testing.T) {
	app := testApp(t)
	c := seedClient(t, app, "Acme Bakery")
	ctx := context.Background()
	st, err := app.Stages.AddStage(ctx, usecase.AdminScope(), c.ID, "Kickoff")
	require.NoError(t, err)
	_, err = app.Stages.SetStageStatus(ctx, usecase.AdminScope(), st.ID, domain.StatusCompleted)
	require.NoError(t, err)
	_, err = app.Stages.AddStage(ctx, usecase.AdminScope(), c.ID, "Books")
	require.NoError(t, err)

	output, err := executeCmd(t, app, "client", "show", c.ID)
	require.NoError(t, err)
	assert.Contains(t, output, "Acme Bakery")
	assert.Contains(t, output, "1/2 stages")
	assert.Contains(t, output, "50%")
}

// --- scope ---

func TestScope_ClientSeesOnlyOwnRecord(t *testing.T) {
	app := testApp(t)
	mine := seedClient(t, app, "Mine LLC")
	seedClient(t, app, "Other Inc")

	output, err := executeCmd(t, app, "--role", "CLIENT", "--as-client", mine.ID, "client", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "Mine LLC")
	assert.NotContains(t, output, "Other Inc")
}

func TestScope_CPAWithoutActorIsRejected(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "--role", "cpa", "client", "list")
	require.Error(t, err)
}

// --- stage / subtask ---

func TestStageAndSubtaskCommands(t *testing.T) {
	app := testApp(t)
	c := seedClient(t, app, "Acme")

	output, err := executeCmd(t, app, "stage", "add", c.ID, "--name", "Kickoff")
	require.NoError(t, err)
	assert.Contains(t, output, "Added stage 1. Kickoff")

	stages, err := app.Stages.ListByClient(context.Background(), usecase.AdminScope(), c.ID)
	require.NoError(t, err)
	require.Len(t, stages, 1)
	stageID := stages[0].ID

	output, err = executeCmd(t, app, "subtask", "add", stageID[:8], "--title", "Intro call")
	require.NoError(t, err)
	assert.Contains(t, output, "Added subtask Intro call")

	stages, err = app.Stages.ListByClient(context.Background(), usecase.AdminScope(), c.ID)
	require.NoError(t, err)
	require.Len(t, stages[0].Subtasks, 1)
	subID := stages[0].Subtasks[0].ID

	output, err = executeCmd(t, app, "subtask", "status", subID, "done")
	require.NoError(t, err)
	assert.Contains(t, output, "Intro call")
	assert.Contains(t, output, "Completed")

	output, err = executeCmd(t, app, "stage", "list", c.ID)
	require.NoError(t, err)
	assert.Contains(t, output, "✔ 1. Kickoff")
	assert.Contains(t, output, "└─ Intro call")

	output, err = executeCmd(t, app, "stage", "status", stageID, "in-progress")
	require.NoError(t, err)
	assert.Contains(t, output, "In Progress")
}

func TestStageStatus_UnknownStatus(t *testing.T) {
	app := testApp(t)
	c := seedClient(t, app, "Acme")
	st, err := app.Stages.AddStage(context.Background(), usecase.AdminScope(), c.ID, "Kickoff")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "stage", "status", st.ID, "finished-ish")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown status")
}

// --- task ---

func TestTaskAdd_ThenList(t *testing.T) {
	app := testApp(t)
	c := seedClient(t, app, "Acme")

	output, err := executeCmd(t, app, "task", "add", c.ID, "--title", "Send W-9", "--assignee", "client", "--due", "2026-03-01", "--doc-required", "0")
	require.NoError(t, err)
	assert.Contains(t, output, "Created task Send W-9")
	assert.Contains(t, output, "document required: false")

	output, err = executeCmd(t, app, "task", "list", c.ID)
	require.NoError(t, err)
	assert.Contains(t, output, "Send W-9")
	assert.Contains(t, output, "9d ago")
}

func TestTaskAdd_UnknownAssignee(t *testing.T) {
	app := testApp(t)
	c := seedClient(t, app, "Acme")

	_, err := executeCmd(t, app, "task", "add", c.ID, "--title", "x", "--assignee", "intern")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown assignee role")
}

func TestTaskStatus_GatedWithoutFileFails(t *testing.T) {
	app := testApp(t)
	c := seedClient(t, app, "Acme")
	task := seedTask(t, app, c.ID, "Upload bank statements", testutil.WithDocumentRequired(true))

	_, err := executeCmd(t, app, "task", "status", task.ID, "Completed")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrDocumentUploadRequired)
	assert.Contains(t, err.Error(), "--file")

	got, err := app.Tasks.GetByID(context.Background(), usecase.AdminScope(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNotStarted, got.Status)
}

func TestTaskStatus_GatedWithFile(t *testing.T) {
	app := testApp(t)
	c := seedClient(t, app, "Acme")
	task := seedTask(t, app, c.ID, "Upload bank statements", testutil.WithDocumentRequired(true))
	path := writeTempFile(t, "statements.pdf", "%PDF-1.4 statements")

	output, err := executeCmd(t, app, "task", "status", task.ID[:8], "Completed", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, output, "Upload bank statements")
	assert.Contains(t, output, "statements.pdf")

	output, err = executeCmd(t, app, "task", "docs", task.ID)
	require.NoError(t, err)
	assert.Contains(t, output, "statements.pdf")
}

func TestTaskStatus_CheckOnlyDoesNotMutate(t *testing.T) {
	app := testApp(t)
	c := seedClient(t, app, "Acme")
	task := seedTask(t, app, c.ID, "Upload ID", testutil.WithDocumentRequired(true))

	output, err := executeCmd(t, app, "task", "status", task.ID, "Completed", "--check")
	require.NoError(t, err)
	assert.Contains(t, output, "requires a document upload")

	got, err := app.Tasks.GetByID(context.Background(), usecase.AdminScope(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNotStarted, got.Status)
}

func TestTaskStatus_InteractivePromptsForDocument(t *testing.T) {
	app := testApp(t)
	app.Interactive = true
	path := writeTempFile(t, "id.png", "png bytes")
	var prompted int
	app.PromptFile = func(string) (string, error) {
		prompted++
		return path, nil
	}
	c := seedClient(t, app, "Acme")
	task := seedTask(t, app, c.ID, "Upload ID", testutil.WithDocumentRequired(true))

	_, err := executeCmd(t, app, "task", "status", task.ID, "Completed")
	require.NoError(t, err)
	assert.Equal(t, 1, prompted)

	docs, err := app.Tasks.ListDocuments(context.Background(), usecase.AdminScope(), task.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "id.png", docs[0].FileName)
}

func TestTaskStatus_InteractiveCancel(t *testing.T) {
	app := testApp(t)
	app.Interactive = true
	app.PromptFile = func(string) (string, error) { return "", nil }
	c := seedClient(t, app, "Acme")
	task := seedTask(t, app, c.ID, "Upload ID", testutil.WithDocumentRequired(true))

	output, err := executeCmd(t, app, "task", "status", task.ID, "Completed")
	require.NoError(t, err)
	assert.Contains(t, output, "Cancelled.")
}

func TestTaskStatus_UngatedSkipsPrompt(t *testing.T) {
	app := testApp(t)
	app.Interactive = true
	app.PromptFile = func(string) (string, error) {
		t.Fatal("prompt should not run for an ungated change")
		return "", nil
	}
	c := seedClient(t, app, "Acme")
	task := seedTask(t, app, c.ID, "Review books", testutil.WithDocumentRequired(false))

	output, err := executeCmd(t, app, "task", "status", task.ID, "Completed")
	require.NoError(t, err)
	assert.Contains(t, output, "Completed")
}

// --- status / audit / dashboard ---

func TestStatusCmd_ShowsOverdueClients(t *testing.T) {
	app := testApp(t)
	c := seedClient(t, app, "Late Co")
	seedTask(t, app, c.ID, "Overdue thing", testutil.WithTaskDueDate(testutil.Date(2026, 3, 1)))
	seedClient(t, app, "Fine Co")

	output, err := executeCmd(t, app, "status")
	require.NoError(t, err)
	assert.Contains(t, output, "Late Co")
	assert.Contains(t, output, "Fine Co")
	assert.Contains(t, output, "▲ 1 OVERDUE")
	assert.Contains(t, output, "2 Clients")
}

func TestDashboardCmd_FallsBackToTableWhenScripted(t *testing.T) {
	app := testApp(t)
	seedClient(t, app, "Acme")

	output, err := executeCmd(t, app, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, output, "DASHBOARD")
	assert.Contains(t, output, "Acme")
}

func TestAuditCmd_ListsChanges(t *testing.T) {
	app := testApp(t)
	c := seedClient(t, app, "Acme")
	task := seedTask(t, app, c.ID, "Review books", testutil.WithDocumentRequired(false))

	_, err := executeCmd(t, app, "task", "status", task.ID, "In Progress")
	require.NoError(t, err)

	output, err := executeCmd(t, app, "audit", c.ID)
	require.NoError(t, err)
	assert.Contains(t, output, "client_created")
	assert.Contains(t, output, "task_status_changed")
}

func TestScope_CPASeesAssignedClients(t *testing.T) {
	app := testApp(t)
	seedClient(t, app, "Assigned Co", testutil.WithCPA("cpa-1"))
	seedClient(t, app, "Someone Else", testutil.WithCPA("cpa-2"))

	output, err := executeCmd(t, app, "--role", "cpa", "--actor", "cpa-1", "client", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "Assigned Co")
	assert.NotContains(t, output, "Someone Else")
}

func TestClientImport(t *testing.T) {
	app := testApp(t)
	path := writeTempFile(t, "plan.json", `{
  "client": {"name": "Imported Co"},
  "stages": [{"name": "Kickoff", "subtasks": [{"title": "Call"}]}],
  "tasks": [{"title": "Upload ID", "assignee_role": "CLIENT"}]
}`)

	output, err := executeCmd(t, app, "client", "import", path)
	require.NoError(t, err)
	assert.Contains(t, output, "Imported client Imported Co")
	assert.Contains(t, output, "1 stages, 1 subtasks, 1 tasks")

	output, err = executeCmd(t, app, "client", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "Imported Co")
}
