package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/teamflow/teamflow-api/internal/api/metrics"
	"github.com/teamflow/teamflow-api/internal/core/domain"
	"github.com/teamflow/teamflow-api/internal/core/ports"
)

// ProjectService orchestrates project mutations: guard checks run before any
// write, and exactly one event is broadcast after each successful mutation.
type ProjectService struct {
	projects    ports.ProjectRepository
	tasks       ports.TaskRepository
	users       ports.UserRepository
	broadcaster ports.Broadcaster
	logger      zerolog.Logger
}

func NewProjectService(
	projects ports.ProjectRepository,
	tasks ports.TaskRepository,
	users ports.UserRepository,
	broadcaster ports.Broadcaster,
	logger zerolog.Logger,
) *ProjectService {
	return &ProjectService{
		projects:    projects,
		tasks:       tasks,
		users:       users,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

func (s *ProjectService) Create(ctx context.Context, actorID string, in ports.CreateProjectInput) (*domain.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("project name is required")
	}
	if len(name) > domain.MaxProjectNameLen {
		return nil, domain.NewValidationError("project name cannot exceed %d characters", domain.MaxProjectNameLen)
	}
	if len(in.Description) > domain.MaxProjectDescriptionLen {
		return nil, domain.NewValidationError("description cannot exceed %d characters", domain.MaxProjectDescriptionLen)
	}

	owner, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	project := &domain.Project{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Owner:       owner.Ref(),
		Members:     []domain.Member{{User: owner.Ref(), Role: domain.RoleAdmin}},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	project.EnsureOwnerMember()

	created, err := s.projects.Create(ctx, project)
	if err != nil {
		return nil, err
	}

	metrics.MutationsTotal.WithLabelValues("project", "create").Inc()
	s.logger.Info().Str("project_id", created.ID).Str("owner_id", actorID).Msg("project created")
	return created, nil
}

func (s *ProjectService) ListForUser(ctx context.Context, actorID string) ([]*domain.Project, error) {
	return s.projects.ListByMember(ctx, actorID)
}

func (s *ProjectService) Get(ctx context.Context, projectID, actorID string) (*ports.ProjectDetail, error) {
	project, err := s.memberProject(ctx, projectID, actorID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &ports.ProjectDetail{Project: project, Tasks: tasks}, nil
}

func (s *ProjectService) Update(ctx context.Context, projectID, actorID string, in ports.UpdateProjectInput) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsOwner(actorID) && !project.IsAdmin(actorID) {
		return nil, domain.ErrForbidden
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("project name is required")
		}
		if len(name) > domain.MaxProjectNameLen {
			return nil, domain.NewValidationError("project name cannot exceed %d characters", domain.MaxProjectNameLen)
		}
		project.Name = name
	}
	if in.Description != nil {
		if len(*in.Description) > domain.MaxProjectDescriptionLen {
			return nil, domain.NewValidationError("description cannot exceed %d characters", domain.MaxProjectDescriptionLen)
		}
		project.Description = strings.TrimSpace(*in.Description)
	}

	project.EnsureOwnerMember()
	project.UpdatedAt = time.Now().UTC()
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	metrics.MutationsTotal.WithLabelValues("project", "update").Inc()
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, projectID, actorID string) error {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !project.IsOwner(actorID) {
		return domain.ErrForbidden
	}

	// Cascade: tasks first, so a crash never leaves orphans behind a deleted project.
	if err := s.tasks.DeleteByProject(ctx, projectID); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, projectID); err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("project", "delete").Inc()
	s.broadcaster.Broadcast(domain.Event{
		Type:      domain.EventProjectDeleted,
		ProjectID: projectID,
		Payload:   domain.ProjectDeletedPayload{ProjectID: projectID},
	})
	s.logger.Info().Str("project_id", projectID).Msg("project deleted")
	return nil
}

func (s *ProjectService) Invite(ctx context.Context, projectID, actorID, email string) (*domain.Project, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.NewValidationError("email is required")
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsAdmin(actorID) {
		return nil, domain.ErrForbidden
	}

	invitee, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if project.IsMember(invitee.ID) {
		return nil, domain.ErrAlreadyMember
	}

	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	member := domain.Member{User: invitee.Ref(), Role: domain.RoleMember}
	project.Members = append(project.Members, member)
	project.EnsureOwnerMember()
	project.UpdatedAt = time.Now().UTC()
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	metrics.MutationsTotal.WithLabelValues("project", "invite").Inc()
	s.broadcaster.Broadcast(domain.Event{
		Type:      domain.EventMemberInvited,
		ProjectID: projectID,
		Payload: domain.MemberInvitedPayload{
			ProjectID: projectID,
			Member:    member,
			Actor:     actor.Ref(),
		},
	})
	s.logger.Info().Str("project_id", projectID).Str("invitee_id", invitee.ID).Msg("member invited")
	return project, nil
}

func (s *ProjectService) Leave(ctx context.Context, projectID, actorID string) error {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.IsOwner(actorID) {
		return domain.ErrOwnerCannotLeave
	}
	if !project.IsMember(actorID) {
		return domain.ErrNotAMember
	}

	project.RemoveMember(actorID)
	project.EnsureOwnerMember()
	project.UpdatedAt = time.Now().UTC()

	// Cascade: the departing user disappears from every assignee list.
	if err := s.tasks.PullAssignee(ctx, projectID, actorID); err != nil {
		return err
	}
	if err := s.projects.Update(ctx, project); err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("project", "leave").Inc()
	s.broadcaster.Broadcast(domain.Event{
		Type:      domain.EventMemberLeft,
		ProjectID: projectID,
		Payload:   domain.MemberLeftPayload{ProjectID: projectID, UserID: actorID},
	})
	s.logger.Info().Str("project_id", projectID).Str("user_id", actorID).Msg("member left")
	return nil
}

// memberProject loads the project and enforces the membership guard.
func (s *ProjectService) memberProject(ctx context.Context, projectID, actorID string) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsMember(actorID) {
		return nil, domain.ErrForbidden
	}
	return project, nil
}
