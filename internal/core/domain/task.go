package domain

import (
	"strings"
	"time"
)

// TaskStatus identifies a Kanban column.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

// Valid reports whether s is a known status value.
func (s TaskStatus) Valid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

// TaskPriority is the urgency level of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

// Valid reports whether p is a known priority value.
func (p TaskPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

const (
	MaxTaskTitleLen       = 200
	MaxTaskDescriptionLen = 2000

	DefaultTagColor = "#3b82f6"
)

// Tag is a named, colored label attached to a task.
type Tag struct {
	Name  string `json:"name" bson:"name"`
	Color string `json:"color" bson:"color"`
}

// Comment is an entry in a task's append-only comment thread.
// CreatedAt is server-assigned and monotonic per insertion order.
type Comment struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Author    UserRef   `json:"author" bson:"author"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Task is a unit of work on a project's board. Position is a dense zero-based
// ordinal valid only among tasks sharing the same project and status.
type Task struct {
	ID          string       `json:"id" bson:"_id,omitempty"`
	Title       string       `json:"title" bson:"title"`
	Description string       `json:"description" bson:"description"`
	Status      TaskStatus   `json:"status" bson:"status"`
	Priority    TaskPriority `json:"priority" bson:"priority"`
	Tags        []Tag        `json:"tags" bson:"tags"`
	ProjectID   string       `json:"project_id" bson:"project_id"`
	Assignees   []UserRef    `json:"assignees" bson:"assignees"`
	Position    int          `json:"position" bson:"position"`
	Comments    []Comment    `json:"comments" bson:"comments"`
	DueDate     *time.Time   `json:"due_date,omitempty" bson:"due_date,omitempty"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" bson:"updated_at"`
}

// DisplayID derives the short human-facing identifier from the entity id,
// e.g. "TASK-9C2D4F". Not stored independently.
func (t *Task) DisplayID() string {
	id := t.ID
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return "TASK-" + strings.ToUpper(id)
}

// ValidateDueDate rejects due dates before today. The comparison is against
// the wall-clock date, not the full timestamp, so "today" is always accepted.
func ValidateDueDate(due *time.Time, now time.Time) error {
	if due == nil {
		return nil
	}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if due.Before(startOfDay) {
		return NewValidationError("due date cannot be in the past")
	}
	return nil
}

// NormalizeTags fills in the default color for tags created without one.
func NormalizeTags(tags []Tag) []Tag {
	out := make([]Tag, len(tags))
	for i, tag := range tags {
		out[i] = tag
		if out[i].Color == "" {
			out[i].Color = DefaultTagColor
		}
	}
	return out
}
