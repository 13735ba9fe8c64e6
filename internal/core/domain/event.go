package domain

// EventType enumerates the project-scoped realtime events. Exactly one event
// is emitted per successful mutation; failures emit nothing.
type EventType string

const (
	EventTaskCreated    EventType = "task_created"
	EventTaskUpdated    EventType = "task_updated"
	EventTaskMoved      EventType = "task_moved"
	EventTaskDeleted    EventType = "task_deleted"
	EventMemberInvited  EventType = "member_invited"
	EventMemberLeft     EventType = "member_left"
	EventProjectDeleted EventType = "project_deleted"
)

// Event is a single change notification delivered to a project's room.
type Event struct {
	Type      EventType `json:"type"`
	ProjectID string    `json:"project_id"`
	Payload   any       `json:"payload"`
}

// TaskEventPayload accompanies task_created and task_updated.
type TaskEventPayload struct {
	Task  *Task   `json:"task"`
	Actor UserRef `json:"actor"`
}

// TaskMovedPayload carries both placements so subscribers can patch their
// board without refetching.
type TaskMovedPayload struct {
	TaskID      string     `json:"task_id"`
	Task        *Task      `json:"task"`
	OldStatus   TaskStatus `json:"old_status"`
	NewStatus   TaskStatus `json:"new_status"`
	OldPosition int        `json:"old_position"`
	NewPosition int        `json:"new_position"`
	Actor       UserRef    `json:"actor"`
}

// TaskDeletedPayload accompanies task_deleted.
type TaskDeletedPayload struct {
	TaskID string  `json:"task_id"`
	Actor  UserRef `json:"actor"`
}

// MemberInvitedPayload accompanies member_invited.
type MemberInvitedPayload struct {
	ProjectID string  `json:"project_id"`
	Member    Member  `json:"member"`
	Actor     UserRef `json:"actor"`
}

// MemberLeftPayload accompanies member_left.
type MemberLeftPayload struct {
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
}

// ProjectDeletedPayload accompanies project_deleted.
type ProjectDeletedPayload struct {
	ProjectID string `json:"project_id"`
}
