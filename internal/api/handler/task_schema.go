package handler

import (
	"encoding/json"
	"time"

	"github.com/teamflow/teamflow-api/internal/core/domain"
	"github.com/teamflow/teamflow-api/internal/core/ports"
)

// optionalTime distinguishes "field absent" from "field set to null" in PATCH
// bodies: UnmarshalJSON only runs when the key is present, so Set records
// presence and Value carries null-vs-timestamp.
type optionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *optionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

type tagRequest struct {
	Name  string `json:"name"  validate:"required"`
	Color string `json:"color" validate:"omitempty"`
}

type createTaskRequest struct {
	ProjectID   string       `json:"project_id"  validate:"required"`
	Title       string       `json:"title"       validate:"required,max=200"`
	Description string       `json:"description" validate:"omitempty,max=2000"`
	Status      string       `json:"status"      validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority    string       `json:"priority"    validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Assignees   []string     `json:"assignees"   validate:"omitempty,dive,required"`
	DueDate     *time.Time   `json:"due_date"`
	Tags        []tagRequest `json:"tags"        validate:"omitempty,dive"`
}

func (r *createTaskRequest) toInput() ports.CreateTaskInput {
	return ports.CreateTaskInput{
		ProjectID:   r.ProjectID,
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.TaskStatus(r.Status),
		Priority:    domain.TaskPriority(r.Priority),
		AssigneeIDs: r.Assignees,
		DueDate:     r.DueDate,
		Tags:        toDomainTags(r.Tags),
	}
}

type updateTaskRequest struct {
	Title       *string       `json:"title"       validate:"omitempty,max=200"`
	Description *string       `json:"description" validate:"omitempty,max=2000"`
	Priority    *string       `json:"priority"    validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Assignees   *[]string     `json:"assignees"   validate:"omitempty,dive,required"`
	Tags        *[]tagRequest `json:"tags"        validate:"omitempty,dive"`
	DueDate     optionalTime  `json:"due_date"`
}

func (r *updateTaskRequest) toInput() ports.UpdateTaskInput {
	in := ports.UpdateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		SetDueDate:  r.DueDate.Set,
		DueDate:     r.DueDate.Value,
	}
	if r.Priority != nil {
		p := domain.TaskPriority(*r.Priority)
		in.Priority = &p
	}
	if r.Assignees != nil {
		ids := *r.Assignees
		in.AssigneeIDs = &ids
	}
	if r.Tags != nil {
		tags := toDomainTags(*r.Tags)
		in.Tags = &tags
	}
	return in
}

type moveTaskRequest struct {
	Status   string `json:"status"   validate:"required,oneof=TODO IN_PROGRESS DONE"`
	Position *int   `json:"position" validate:"required,gte=0"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

func toDomainTags(tags []tagRequest) []domain.Tag {
	if tags == nil {
		return nil
	}
	out := make([]domain.Tag, len(tags))
	for i, t := range tags {
		out[i] = domain.Tag{Name: t.Name, Color: t.Color}
	}
	return out
}

// taskResponse decorates a task with its derived display id.
type taskResponse struct {
	*domain.Task
	DisplayID string `json:"display_id"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{Task: t, DisplayID: t.DisplayID()}
}

func toTaskListResponse(tasks []*domain.Task) []taskResponse {
	out := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = toTaskResponse(t)
	}
	return out
}
