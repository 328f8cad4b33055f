package query

import (
	"sort"
	"strings"

	"tasktrack-api/internal/models"
)

// SortKey enumerates the fields tasks can be ordered by.
type SortKey string

const (
	SortByDueDate   SortKey = "due_date"
	SortByCreatedAt SortKey = "created_at"
	SortByPriority  SortKey = "priority"
	SortByTitle     SortKey = "title"
)

// SortDirection is the order of a sort.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Options is the caller-owned query configuration: free-text search,
// optional equality filters and the sort to apply. Nil/empty fields are
// inactive; active filters compose with AND.
type Options struct {
	Search   string
	Status   *models.TaskStatus
	Priority *models.TaskPriority
	Team     string
	Assignee string

	SortKey SortKey
	SortDir SortDirection
}

// Run filters and sorts a snapshot of tasks. The input slice is never
// mutated; the result is a fresh, stably ordered slice.
func Run(tasks []models.Task, opts Options) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if matches(t, opts) {
			out = append(out, t)
		}
	}

	if opts.SortKey != "" {
		sortTasks(out, opts.SortKey, opts.SortDir)
	}
	return out
}

func matches(t models.Task, opts Options) bool {
	if s := strings.ToLower(strings.TrimSpace(opts.Search)); s != "" {
		title := strings.ToLower(t.Title)
		desc := strings.ToLower(t.Description)
		if !strings.Contains(title, s) && !strings.Contains(desc, s) {
			return false
		}
	}
	if opts.Status != nil && t.Status != *opts.Status {
		return false
	}
	if opts.Priority != nil && t.Priority != *opts.Priority {
		return false
	}
	if opts.Team != "" && t.Team != opts.Team {
		return false
	}
	if opts.Assignee != "" && !assignedTo(t, opts.Assignee) {
		return false
	}
	return true
}

func assignedTo(t models.Task, userID string) bool {
	for _, a := range t.Assignees {
		if a.ID == userID {
			return true
		}
	}
	return false
}

// priorityRank orders priorities low to high for ascending sorts.
var priorityRank = map[models.TaskPriority]int{
	models.PriorityLow:    0,
	models.PriorityMedium: 1,
	models.PriorityHigh:   2,
	models.PriorityUrgent: 3,
}

// sortTasks orders tasks in place. The sort is stable: equal keys keep their
// original relative order.
func sortTasks(tasks []models.Task, key SortKey, dir SortDirection) {
	less := lessFunc(key)
	if dir == Descending {
		inner := less
		less = func(a, b models.Task) bool { return inner(b, a) }
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return less(tasks[i], tasks[j])
	})
}

func lessFunc(key SortKey) func(a, b models.Task) bool {
	switch key {
	case SortByCreatedAt:
		return func(a, b models.Task) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortByPriority:
		return func(a, b models.Task) bool { return priorityRank[a.Priority] < priorityRank[b.Priority] }
	case SortByTitle:
		return func(a, b models.Task) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	default: // SortByDueDate
		return func(a, b models.Task) bool {
			// Tasks without a due date sort after dated ones.
			if a.DueDate == nil {
				return false
			}
			if b.DueDate == nil {
				return true
			}
			return a.DueDate.Before(*b.DueDate)
		}
	}
}

// StatusGroups names sets of statuses for aggregate counting. Groupings are
// caller configuration, not business law.
type StatusGroups map[string][]models.TaskStatus

// DefaultGroups reproduces the dashboard summary cards.
func DefaultGroups() StatusGroups {
	return StatusGroups{
		"total":     models.AllStatuses(),
		"active":    {models.StatusInProgress, models.StatusAssigned, models.StatusReview},
		"pending":   {models.StatusPending},
		"completed": {models.StatusCompleted, models.StatusDelivered},
	}
}

// Counts tallies how many tasks fall into each status group.
func Counts(tasks []models.Task, groups StatusGroups) map[string]int {
	counts := make(map[string]int, len(groups))
	for name := range groups {
		counts[name] = 0
	}
	for _, t := range tasks {
		for name, statuses := range groups {
			for _, s := range statuses {
				if t.Status == s {
					counts[name]++
					break
				}
			}
		}
	}
	return counts
}
