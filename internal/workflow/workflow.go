package workflow

import (
	"errors"
	"fmt"
	"time"

	"tasktrack-api/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrInvalidStatus signals a target status outside the closed set.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrInvalidProgress signals an explicit progress value outside 0-100.
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
)

// InitialStatus is the status every task starts in.
const InitialStatus = models.StatusNotStarted

// DerivedProgress maps a status to its default progress percentage. It is
// only a fallback for tasks that never had an explicit value stored.
func DerivedProgress(status models.TaskStatus) int {
	switch status {
	case models.StatusCompleted, models.StatusDelivered:
		return 100
	case models.StatusInProgress:
		return 50
	case models.StatusAssigned:
		return 25
	default:
		return 0
	}
}

// ValidateProgress checks an explicit progress value against the 0-100 range.
func ValidateProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return ErrInvalidProgress
	}
	return nil
}

// Transition moves a task to the target status and returns the history entry
// to append. Any status in the closed set is accepted from any other status;
// the source system enforces no adjacency rules and neither do we.
//
// All validation happens before the task is touched: on error the task is
// returned unchanged and no history entry is produced. A transition to the
// task's current status is a valid no-op that still records history.
func Transition(task *models.Task, target models.TaskStatus, actorID string, explicitProgress *int) (models.HistoryEntry, error) {
	if !target.IsValid() {
		return models.HistoryEntry{}, fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}
	if explicitProgress != nil {
		if err := ValidateProgress(*explicitProgress); err != nil {
			return models.HistoryEntry{}, err
		}
	}

	task.Status = target
	applyProgress(task, explicitProgress)

	entry := models.HistoryEntry{
		ID:        uuid.NewString(),
		TaskID:    task.ID,
		Action:    fmt.Sprintf("Status changed to %s", target),
		ActorID:   actorID,
		CreatedAt: time.Now(),
	}
	return entry, nil
}

// InitTask applies creation defaults to a new task: initial status unless one
// was supplied, and derived or explicit progress. The returned history entry
// records the creation.
func InitTask(task *models.Task, actorID string, explicitProgress *int) (models.HistoryEntry, error) {
	if task.Status == "" {
		task.Status = InitialStatus
	}
	if !task.Status.IsValid() {
		return models.HistoryEntry{}, fmt.Errorf("%w: %q", ErrInvalidStatus, task.Status)
	}
	if explicitProgress != nil {
		if err := ValidateProgress(*explicitProgress); err != nil {
			return models.HistoryEntry{}, err
		}
	}

	applyProgress(task, explicitProgress)

	entry := models.HistoryEntry{
		ID:        uuid.NewString(),
		TaskID:    task.ID,
		Action:    "Task created",
		ActorID:   actorID,
		CreatedAt: time.Now(),
	}
	return entry, nil
}

// applyProgress resolves the two sources of progress truth. An explicit value
// wins and sticks; derivation only fills in while no explicit value exists.
func applyProgress(task *models.Task, explicit *int) {
	if explicit != nil {
		task.Progress = *explicit
		task.ProgressExplicit = true
		return
	}
	if !task.ProgressExplicit {
		task.Progress = DerivedProgress(task.Status)
	}
}

// SubtaskRatio returns the completed and total subtask counts. The ratio is
// for display only; completing every subtask never transitions the parent.
func SubtaskRatio(subtasks []models.Subtask) (done, total int) {
	for _, st := range subtasks {
		if st.Done {
			done++
		}
	}
	return done, len(subtasks)
}
