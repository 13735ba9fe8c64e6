package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/teamflow/teamflow-api/internal/core/domain"
)

func TestOptionalTimeDistinguishesAbsentAndNull(t *testing.T) {
	var absent updateTaskRequest
	if err := json.Unmarshal([]byte(`{"title":"x"}`), &absent); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if absent.DueDate.Set {
		t.Error("absent due_date must not count as set")
	}

	var null updateTaskRequest
	if err := json.Unmarshal([]byte(`{"due_date":null}`), &null); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !null.DueDate.Set || null.DueDate.Value != nil {
		t.Errorf("null due_date = %+v, want set with nil value", null.DueDate)
	}

	var set updateTaskRequest
	if err := json.Unmarshal([]byte(`{"due_date":"2026-09-01T00:00:00Z"}`), &set); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if !set.DueDate.Set || set.DueDate.Value == nil || !set.DueDate.Value.Equal(want) {
		t.Errorf("due_date = %+v, want %v", set.DueDate, want)
	}
}

func TestUpdateTaskRequestToInput(t *testing.T) {
	payload := `{"priority":"HIGH","assignees":["user-1"],"tags":[{"name":"api"}],"due_date":null}`
	var req updateTaskRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	in := req.toInput()
	if in.Title != nil || in.Description != nil {
		t.Error("untouched fields must stay nil")
	}
	if in.Priority == nil || *in.Priority != domain.PriorityHigh {
		t.Errorf("priority = %v, want HIGH", in.Priority)
	}
	if in.AssigneeIDs == nil || (*in.AssigneeIDs)[0] != "user-1" {
		t.Errorf("assignees = %v, want [user-1]", in.AssigneeIDs)
	}
	if in.Tags == nil || (*in.Tags)[0].Name != "api" {
		t.Errorf("tags = %v, want [api]", in.Tags)
	}
	if !in.SetDueDate || in.DueDate != nil {
		t.Errorf("due date = (set=%v, %v), want explicit clear", in.SetDueDate, in.DueDate)
	}
}

func TestCreateTaskRequestToInput(t *testing.T) {
	payload := `{"project_id":"project-1","title":"Ship it","status":"IN_PROGRESS","tags":[{"name":"infra","color":"#000"}]}`
	var req createTaskRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	in := req.toInput()
	if in.ProjectID != "project-1" || in.Title != "Ship it" {
		t.Errorf("input = %+v, want project and title carried over", in)
	}
	if in.Status != domain.StatusInProgress {
		t.Errorf("status = %q, want IN_PROGRESS", in.Status)
	}
	if len(in.Tags) != 1 || in.Tags[0].Color != "#000" {
		t.Errorf("tags = %+v, want explicit color preserved", in.Tags)
	}
}
