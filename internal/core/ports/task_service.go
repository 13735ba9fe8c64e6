package ports

import (
	"context"
	"time"

	"github.com/teamflow/teamflow-api/internal/core/domain"
)

// CreateTaskInput carries the fields for a new task. Status defaults to TODO
// and Priority to MEDIUM when empty; Position is always computed by the
// service (append to the target bucket).
type CreateTaskInput struct {
	ProjectID   string
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	AssigneeIDs []string
	DueDate     *time.Time
	Tags        []domain.Tag
}

// UpdateTaskInput is a partial update over the mutable allow-list. Status and
// position are deliberately absent; moves go through TaskService.Move.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *domain.TaskPriority
	AssigneeIDs *[]string
	Tags        *[]domain.Tag
	// DueDate is applied only when SetDueDate is true; a nil DueDate with
	// SetDueDate clears the field.
	SetDueDate bool
	DueDate    *time.Time
}

// TaskService orchestrates all task and comment mutations.
type TaskService interface {
	ListByProject(ctx context.Context, projectID, actorID string) ([]*domain.Task, error)
	// ListMine returns the actor's open tasks across projects.
	ListMine(ctx context.Context, actorID string) ([]*domain.Task, error)
	Create(ctx context.Context, actorID string, in CreateTaskInput) (*domain.Task, error)
	Get(ctx context.Context, taskID, actorID string) (*domain.Task, error)
	Update(ctx context.Context, taskID, actorID string, in UpdateTaskInput) (*domain.Task, error)
	// Move is the sole path for status/position changes.
	Move(ctx context.Context, taskID, actorID string, status domain.TaskStatus, position int) (*domain.Task, error)
	Delete(ctx context.Context, taskID, actorID string) error
	Comments(ctx context.Context, taskID, actorID string) ([]domain.Comment, error)
	AddComment(ctx context.Context, taskID, actorID, text string) (*domain.Task, error)
}
