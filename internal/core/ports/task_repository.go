package ports

import (
	"context"

	"github.com/teamflow/teamflow-api/internal/core/domain"
)

// TaskRepository defines persistence operations for tasks, including the bulk
// position shifts the reindexer plans. ShiftPositions must be applied as a
// single multi-document update so readers never observe a partially shifted
// bucket.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// ListByProject returns the project's tasks ordered by (status, position).
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	// ListAssigned returns the user's open (non-DONE) tasks across all
	// projects, soonest due date first.
	ListAssigned(ctx context.Context, userID string) ([]*domain.Task, error)
	// Update persists the mutable task fields (never status or position).
	Update(ctx context.Context, t *domain.Task) error
	// UpdatePlacement writes the moved task's final status and position.
	UpdatePlacement(ctx context.Context, taskID string, status domain.TaskStatus, position int) error
	// ShiftPositions applies one planned bucket shift within a project.
	ShiftPositions(ctx context.Context, projectID string, shift domain.BucketShift) error
	// MaxPosition returns the highest position in the bucket, or -1 when the
	// bucket is empty.
	MaxPosition(ctx context.Context, projectID string, status domain.TaskStatus) (int, error)
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) error
	// AppendComment atomically pushes a comment onto the task document.
	AppendComment(ctx context.Context, taskID string, c domain.Comment) error
	// PullAssignee removes the user from every assignee list in the project.
	PullAssignee(ctx context.Context, projectID, userID string) error
}
