package store

import (
	"context"
	"testing"
	"time"

	"tasktrack-api/internal/models"
	"tasktrack-api/internal/testutil"
	"tasktrack-api/internal/workflow"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	displayNames.Clear()
	return New(db)
}

func seedUser(t *testing.T, s *Store, id, username, displayName string, role models.UserRole) models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), models.User{
		ID:          id,
		Username:    username,
		DisplayName: displayName,
		Password:    "x",
		Role:        role,
	})
	require.NoError(t, err)
	return u
}

func TestCreateTask_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "u-1", "sarah", "Sarah Manager", models.RoleManager)
	seedUser(t, s, "u-2", "david", "David Employee", models.RoleEmployee)

	due := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	created, err := s.CreateTask(ctx, CreateTaskInput{
		Title:          "GST Return - Client ABC Ltd",
		Description:    "Monthly GST return for December 2024",
		Priority:       models.PriorityHigh,
		DueDate:        &due,
		Team:           "Tax Compliance",
		AssigneeIDs:    []string{"u-2"},
		EstimatedHours: 8,
		CreatedBy:      "u-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, models.StatusNotStarted, created.Status)
	require.Equal(t, 0, created.Progress)

	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	got := tasks[0]
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, "GST Return - Client ABC Ltd", got.Title)
	require.Equal(t, "Monthly GST return for December 2024", got.Description)
	require.Equal(t, models.PriorityHigh, got.Priority)
	require.Equal(t, "Tax Compliance", got.Team)
	require.Equal(t, 8.0, got.EstimatedHours)
	require.Equal(t, []models.Assignee{{ID: "u-2", Name: "David Employee"}}, got.Assignees)
	require.Equal(t, models.Assignee{ID: "u-1", Name: "Sarah Manager"}, got.Creator)

	// Creation is recorded in the workflow history
	history, err := s.ListHistory(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "Task created", history[0].Action)
	require.Equal(t, "u-1", history[0].ActorID)
}

func TestCreateTask_EmptyTitle(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateTask(context.Background(), CreateTaskInput{Title: "   ", CreatedBy: "u-1"})
	require.ErrorIs(t, err, ErrValidation)

	tasks, err := s.ListTasks(context.Background())
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestCreateTask_InvalidProgress(t *testing.T) {
	s := newTestStore(t)
	bad := 150

	_, err := s.CreateTask(context.Background(), CreateTaskInput{
		Title:     "Audit Documents - GHI Ltd",
		Progress:  &bad,
		CreatedBy: "u-1",
	})
	require.ErrorIs(t, err, workflow.ErrInvalidProgress)
}

func TestUpdateTaskStatus_TransitionAndHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "u-1", "sarah", "Sarah Manager", models.RoleManager)

	created, err := s.CreateTask(ctx, CreateTaskInput{Title: "TDS Return Q3 - DEF Corp", CreatedBy: "u-1"})
	require.NoError(t, err)

	updated, err := s.UpdateTaskStatus(ctx, created.ID, models.StatusInProgress, nil, "u-1")
	require.NoError(t, err)
	require.Equal(t, models.StatusInProgress, updated.Status)
	require.Equal(t, 50, updated.Progress) // derived

	explicit := 77
	updated, err = s.UpdateTaskStatus(ctx, created.ID, models.StatusInProgress, &explicit, "u-1")
	require.NoError(t, err)
	require.Equal(t, 77, updated.Progress)

	// Explicit progress survives later transitions
	updated, err = s.UpdateTaskStatus(ctx, created.ID, models.StatusReview, nil, "u-1")
	require.NoError(t, err)
	require.Equal(t, 77, updated.Progress)

	history, err := s.ListHistory(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 4) // created + three transitions
	require.Equal(t, "Status changed to review", history[3].Action)
}

func TestUpdateTaskStatus_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.UpdateTaskStatus(context.Background(), "missing", models.StatusReview, nil, "u-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTaskStatus_InvalidStatusLeavesTaskUnchanged(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateTask(ctx, CreateTaskInput{Title: "ROC Annual Filing - JKL Pvt Ltd", CreatedBy: "u-1"})
	require.NoError(t, err)

	_, err = s.UpdateTaskStatus(ctx, created.ID, models.TaskStatus("archived"), nil, "u-1")
	require.ErrorIs(t, err, workflow.ErrInvalidStatus)

	got, err := s.GetTask(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusNotStarted, got.Status)

	history, err := s.ListHistory(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 1) // only the creation entry
}

func TestToggleSubtask_RequiresCompleter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, CreateTaskInput{Title: "Income Tax Filing - Individual XYZ", CreatedBy: "u-1"})
	require.NoError(t, err)

	subtask, err := s.AddSubtask(ctx, task.ID, "Collect sales invoices")
	require.NoError(t, err)

	_, err = s.ToggleSubtask(ctx, subtask.ID, true, "")
	require.ErrorIs(t, err, ErrValidation)

	done, err := s.ToggleSubtask(ctx, subtask.ID, true, "u-2")
	require.NoError(t, err)
	require.True(t, done.Done)
	require.Equal(t, "u-2", done.CompletedBy)
	require.NotNil(t, done.CompletedAt)

	// Unchecking clears the completer reference
	undone, err := s.ToggleSubtask(ctx, subtask.ID, false, "")
	require.NoError(t, err)
	require.False(t, undone.Done)
	require.Empty(t, undone.CompletedBy)
	require.Nil(t, undone.CompletedAt)
}

func TestAddSubtask_UnknownTask(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddSubtask(context.Background(), "missing", "Verify input tax credit")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestComments_OrderedAscending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "u-2", "david", "David Employee", models.RoleEmployee)

	task, err := s.CreateTask(ctx, CreateTaskInput{Title: "Audit Documents - GHI Ltd", CreatedBy: "u-2"})
	require.NoError(t, err)

	first, err := s.AddComment(ctx, task.ID, "u-2", "Started collecting invoices.")
	require.NoError(t, err)
	second, err := s.AddComment(ctx, task.ID, "u-2", "Found 23 invoices so far.")
	require.NoError(t, err)

	comments, err := s.ListComments(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, []string{first.ID, second.ID}, []string{comments[0].ID, comments[1].ID})
	require.Equal(t, "David Employee", comments[0].Author.Name)
}

func TestAttachments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, CreateTaskInput{Title: "GST Return - Client MNO Ltd", CreatedBy: "u-1"})
	require.NoError(t, err)

	added, err := s.AddAttachment(ctx, models.Attachment{
		TaskID:     task.ID,
		FileName:   "Invoice_List.xlsx",
		FileSize:   245 * 1024,
		FileType:   "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		FilePath:   "u-1/" + task.ID + "/invoice_list.xlsx",
		UploadedBy: "u-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, added.ID)
	require.False(t, added.UploadedAt.IsZero())

	list, err := s.ListAttachments(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Invoice_List.xlsx", list[0].FileName)

	// An attachment without a file name is rejected
	_, err = s.AddAttachment(ctx, models.Attachment{TaskID: task.ID})
	require.ErrorIs(t, err, ErrValidation)
}

func TestStatusCountsByAssignee(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "u-2", "david", "David Employee", models.RoleEmployee)

	mk := func(title string, status models.TaskStatus) {
		task, err := s.CreateTask(ctx, CreateTaskInput{
			Title:       title,
			Status:      status,
			AssigneeIDs: []string{"u-2"},
			CreatedBy:   "u-1",
		})
		require.NoError(t, err)
		require.Equal(t, status, task.Status)
	}
	mk("GST Return - Client ABC Ltd", models.StatusInProgress)
	mk("TDS Return Q3 - DEF Corp", models.StatusInProgress)
	mk("Data Validation - New Client", models.StatusCompleted)

	counts, err := s.StatusCountsByAssignee(ctx, "u-2")
	require.NoError(t, err)
	require.Equal(t, int64(2), counts[models.StatusInProgress])
	require.Equal(t, int64(1), counts[models.StatusCompleted])
}

func TestDeleteTask(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, CreateTaskInput{Title: "Data Validation - New Client", CreatedBy: "u-1"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteTask(ctx, task.ID))
	_, err = s.GetTask(ctx, task.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, s.DeleteTask(ctx, task.ID), ErrNotFound)
}

func TestUpdateTask_FieldEdits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "u-3", "emma", "Emma Worker", models.RoleEmployee)

	task, err := s.CreateTask(ctx, CreateTaskInput{Title: "Income Tax Filing - Individual XYZ", CreatedBy: "u-1"})
	require.NoError(t, err)

	title := "Income Tax Filing - Individual XYZ (AY 2024-25)"
	hours := 12.5
	updated, err := s.UpdateTask(ctx, task.ID, UpdateTaskInput{
		Title:          &title,
		EstimatedHours: &hours,
		AssigneeIDs:    []string{"u-3"},
	})
	require.NoError(t, err)
	require.Equal(t, title, updated.Title)
	require.Equal(t, 12.5, updated.EstimatedHours)
	require.Equal(t, []models.Assignee{{ID: "u-3", Name: "Emma Worker"}}, updated.Assignees)
}
