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

// TaskService orchestrates task and comment mutations. Membership is checked
// before every operation; position changes go through the reindexer plan under
// a per-project lock so bucket shifts never interleave.
type TaskService struct {
	tasks       ports.TaskRepository
	projects    ports.ProjectRepository
	users       ports.UserRepository
	broadcaster ports.Broadcaster
	locks       *projectLocks
	logger      zerolog.Logger
	now         func() time.Time
}

func NewTaskService(
	tasks ports.TaskRepository,
	projects ports.ProjectRepository,
	users ports.UserRepository,
	broadcaster ports.Broadcaster,
	logger zerolog.Logger,
) *TaskService {
	return &TaskService{
		tasks:       tasks,
		projects:    projects,
		users:       users,
		broadcaster: broadcaster,
		locks:       newProjectLocks(),
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *TaskService) ListByProject(ctx context.Context, projectID, actorID string) ([]*domain.Task, error) {
	if _, err := s.memberProject(ctx, projectID, actorID); err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *TaskService) ListMine(ctx context.Context, actorID string) ([]*domain.Task, error) {
	return s.tasks.ListAssigned(ctx, actorID)
}

func (s *TaskService) Create(ctx context.Context, actorID string, in ports.CreateTaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("task title is required")
	}
	if len(title) > domain.MaxTaskTitleLen {
		return nil, domain.NewValidationError("title cannot exceed %d characters", domain.MaxTaskTitleLen)
	}
	if len(in.Description) > domain.MaxTaskDescriptionLen {
		return nil, domain.NewValidationError("description cannot exceed %d characters", domain.MaxTaskDescriptionLen)
	}

	status := in.Status
	if status == "" {
		status = domain.StatusTodo
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("invalid status %q", string(status))
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, domain.NewValidationError("invalid priority %q", string(priority))
	}
	if err := domain.ValidateDueDate(in.DueDate, s.now()); err != nil {
		return nil, err
	}

	if _, err := s.memberProject(ctx, in.ProjectID, actorID); err != nil {
		return nil, err
	}

	assignees, err := s.resolveAssignees(ctx, in.AssigneeIDs)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(in.ProjectID)
	defer unlock()

	// Append to the end of the bucket the task actually lands in.
	maxPos, err := s.tasks.MaxPosition(ctx, in.ProjectID, status)
	if err != nil {
		return nil, err
	}

	now := s.now()
	task := &domain.Task{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      status,
		Priority:    priority,
		Tags:        domain.NormalizeTags(in.Tags),
		ProjectID:   in.ProjectID,
		Assignees:   assignees,
		Position:    domain.AppendPosition(maxPos),
		Comments:    []domain.Comment{},
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	metrics.MutationsTotal.WithLabelValues("task", "create").Inc()
	s.broadcastTask(ctx, domain.EventTaskCreated, created, actorID)
	s.logger.Info().Str("task_id", created.ID).Str("project_id", created.ProjectID).Msg("task created")
	return created, nil
}

func (s *TaskService) Get(ctx context.Context, taskID, actorID string) (*domain.Task, error) {
	task, _, err := s.memberTask(ctx, taskID, actorID)
	return task, err
}

func (s *TaskService) Update(ctx context.Context, taskID, actorID string, in ports.UpdateTaskInput) (*domain.Task, error) {
	task, _, err := s.memberTask(ctx, taskID, actorID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.NewValidationError("task title is required")
		}
		if len(title) > domain.MaxTaskTitleLen {
			return nil, domain.NewValidationError("title cannot exceed %d characters", domain.MaxTaskTitleLen)
		}
		task.Title = title
	}
	if in.Description != nil {
		if len(*in.Description) > domain.MaxTaskDescriptionLen {
			return nil, domain.NewValidationError("description cannot exceed %d characters", domain.MaxTaskDescriptionLen)
		}
		task.Description = strings.TrimSpace(*in.Description)
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, domain.NewValidationError("invalid priority %q", string(*in.Priority))
		}
		task.Priority = *in.Priority
	}
	if in.AssigneeIDs != nil {
		assignees, err := s.resolveAssignees(ctx, *in.AssigneeIDs)
		if err != nil {
			return nil, err
		}
		task.Assignees = assignees
	}
	if in.Tags != nil {
		task.Tags = domain.NormalizeTags(*in.Tags)
	}
	if in.SetDueDate {
		if err := domain.ValidateDueDate(in.DueDate, s.now()); err != nil {
			return nil, err
		}
		task.DueDate = in.DueDate
	}

	task.UpdatedAt = s.now()
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	metrics.MutationsTotal.WithLabelValues("task", "update").Inc()
	s.broadcastTask(ctx, domain.EventTaskUpdated, task, actorID)
	return task, nil
}

func (s *TaskService) Move(ctx context.Context, taskID, actorID string, status domain.TaskStatus, position int) (*domain.Task, error) {
	task, _, err := s.memberTask(ctx, taskID, actorID)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("invalid status %q", string(status))
	}
	if position < 0 {
		return nil, domain.NewValidationError("position must be non-negative")
	}

	oldStatus, oldPosition := task.Status, task.Position

	unlock := s.locks.Lock(task.ProjectID)
	// Bound the target by the destination bucket's length so an oversized
	// position lands at the end of the column instead of leaving a gap.
	maxPos, err := s.tasks.MaxPosition(ctx, task.ProjectID, status)
	if err != nil {
		unlock()
		return nil, err
	}
	position = domain.ClampMovePosition(task.Status, status, maxPos, position)

	plan, err := domain.PlanMove(task.Status, task.Position, status, position)
	if err != nil {
		unlock()
		return nil, err
	}

	if !plan.NoOp {
		for _, shift := range plan.Shifts {
			if err := s.tasks.ShiftPositions(ctx, task.ProjectID, shift); err != nil {
				unlock()
				return nil, err
			}
		}
		if err := s.tasks.UpdatePlacement(ctx, taskID, plan.Status, plan.Position); err != nil {
			unlock()
			return nil, err
		}

		task.Status = plan.Status
		task.Position = plan.Position
		task.UpdatedAt = s.now()
	}
	unlock()

	metrics.MutationsTotal.WithLabelValues("task", "move").Inc()
	s.broadcaster.Broadcast(domain.Event{
		Type:      domain.EventTaskMoved,
		ProjectID: task.ProjectID,
		Payload: domain.TaskMovedPayload{
			TaskID:      task.ID,
			Task:        task,
			OldStatus:   oldStatus,
			NewStatus:   task.Status,
			OldPosition: oldPosition,
			NewPosition: task.Position,
			Actor:       s.lenientActorRef(ctx, actorID),
		},
	})
	s.logger.Info().
		Str("task_id", task.ID).
		Str("from", string(oldStatus)).
		Str("to", string(task.Status)).
		Int("position", task.Position).
		Msg("task moved")
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, taskID, actorID string) error {
	task, _, err := s.memberTask(ctx, taskID, actorID)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(task.ProjectID)
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		unlock()
		return err
	}
	// Close the gap the removal left in the bucket.
	if err := s.tasks.ShiftPositions(ctx, task.ProjectID, domain.PlanRemoval(task.Status, task.Position)); err != nil {
		unlock()
		return err
	}
	unlock()

	metrics.MutationsTotal.WithLabelValues("task", "delete").Inc()
	s.broadcaster.Broadcast(domain.Event{
		Type:      domain.EventTaskDeleted,
		ProjectID: task.ProjectID,
		Payload:   domain.TaskDeletedPayload{TaskID: taskID, Actor: s.lenientActorRef(ctx, actorID)},
	})
	s.logger.Info().Str("task_id", taskID).Msg("task deleted")
	return nil
}

func (s *TaskService) Comments(ctx context.Context, taskID, actorID string) ([]domain.Comment, error) {
	task, _, err := s.memberTask(ctx, taskID, actorID)
	if err != nil {
		return nil, err
	}
	return task.Comments, nil
}

func (s *TaskService) AddComment(ctx context.Context, taskID, actorID, text string) (*domain.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewValidationError("comment text is required")
	}

	task, _, err := s.memberTask(ctx, taskID, actorID)
	if err != nil {
		return nil, err
	}

	author, err := s.actorRef(ctx, actorID)
	if err != nil {
		return nil, err
	}

	comment := domain.Comment{
		Author:    author,
		Text:      text,
		CreatedAt: s.now(),
	}
	if err := s.tasks.AppendComment(ctx, taskID, comment); err != nil {
		return nil, err
	}

	// Re-read so the broadcast and response carry the stored comment id.
	task, err = s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	metrics.MutationsTotal.WithLabelValues("task", "comment").Inc()
	s.broadcaster.Broadcast(domain.Event{
		Type:      domain.EventTaskUpdated,
		ProjectID: task.ProjectID,
		Payload:   domain.TaskEventPayload{Task: task, Actor: author},
	})
	return task, nil
}

// memberTask loads the task and its project and enforces the membership guard.
func (s *TaskService) memberTask(ctx context.Context, taskID, actorID string) (*domain.Task, *domain.Project, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	project, err := s.memberProject(ctx, task.ProjectID, actorID)
	if err != nil {
		return nil, nil, err
	}
	return task, project, nil
}

func (s *TaskService) memberProject(ctx context.Context, projectID, actorID string) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsMember(actorID) {
		return nil, domain.ErrForbidden
	}
	return project, nil
}

func (s *TaskService) resolveAssignees(ctx context.Context, ids []string) ([]domain.UserRef, error) {
	refs := make([]domain.UserRef, 0, len(ids))
	for _, id := range ids {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		refs = append(refs, user.Ref())
	}
	return refs, nil
}

func (s *TaskService) actorRef(ctx context.Context, actorID string) (domain.UserRef, error) {
	user, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return domain.UserRef{}, err
	}
	return user.Ref(), nil
}

// lenientActorRef resolves the actor for an event payload after the mutation
// has already committed; on lookup failure the payload degrades to a bare id
// rather than failing the whole operation.
func (s *TaskService) lenientActorRef(ctx context.Context, actorID string) domain.UserRef {
	actor, err := s.actorRef(ctx, actorID)
	if err != nil {
		s.logger.Warn().Err(err).Str("actor_id", actorID).Msg("failed to resolve actor for broadcast")
		return domain.UserRef{ID: actorID}
	}
	return actor
}

func (s *TaskService) broadcastTask(ctx context.Context, eventType domain.EventType, task *domain.Task, actorID string) {
	actor := s.lenientActorRef(ctx, actorID)
	s.broadcaster.Broadcast(domain.Event{
		Type:      eventType,
		ProjectID: task.ProjectID,
		Payload:   domain.TaskEventPayload{Task: task, Actor: actor},
	})
}
