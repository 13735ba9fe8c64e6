package ports

import (
	"context"

	"github.com/teamflow/teamflow-api/internal/core/domain"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	// ListByMember returns every project whose member set contains userID,
	// newest first.
	ListByMember(ctx context.Context, userID string) ([]*domain.Project, error)
	// Update persists name, description and the member set.
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}
