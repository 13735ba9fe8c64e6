package ports

import (
	"context"

	"github.com/teamflow/teamflow-api/internal/core/domain"
)

// CreateProjectInput carries the fields for a new project.
type CreateProjectInput struct {
	Name        string
	Description string
}

// UpdateProjectInput is a partial update; nil fields are left untouched.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// ProjectDetail is a project together with its board, ordered by
// (status, position).
type ProjectDetail struct {
	Project *domain.Project
	Tasks   []*domain.Task
}

// ProjectService orchestrates all project mutations: guard checks first, then
// the entity store, then exactly one broadcast on success.
type ProjectService interface {
	Create(ctx context.Context, actorID string, in CreateProjectInput) (*domain.Project, error)
	ListForUser(ctx context.Context, actorID string) ([]*domain.Project, error)
	Get(ctx context.Context, projectID, actorID string) (*ProjectDetail, error)
	Update(ctx context.Context, projectID, actorID string, in UpdateProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, projectID, actorID string) error
	// Invite adds the user with the given email as a MEMBER. ADMIN only.
	Invite(ctx context.Context, projectID, actorID, email string) (*domain.Project, error)
	// Leave removes the actor's membership and unassigns them from the
	// project's tasks. Rejected for the owner.
	Leave(ctx context.Context, projectID, actorID string) error
}
