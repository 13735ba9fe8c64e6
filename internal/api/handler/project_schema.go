package handler

import (
	"github.com/teamflow/teamflow-api/internal/core/domain"
	"github.com/teamflow/teamflow-api/internal/core/ports"
)

type createProjectRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"        validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type inviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// projectDetailResponse is the board view: the project plus its tasks ordered
// by (status, position).
type projectDetailResponse struct {
	Project *domain.Project `json:"project"`
	Tasks   []*domain.Task  `json:"tasks"`
}

func toProjectDetailResponse(d *ports.ProjectDetail) projectDetailResponse {
	tasks := d.Tasks
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return projectDetailResponse{Project: d.Project, Tasks: tasks}
}
