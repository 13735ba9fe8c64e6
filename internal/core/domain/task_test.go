package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDisplayID(t *testing.T) {
	task := &Task{ID: "64f1c0ffee9c2d4f"}
	if got := task.DisplayID(); got != "TASK-9C2D4F" {
		t.Errorf("DisplayID = %q, want TASK-9C2D4F", got)
	}

	short := &Task{ID: "ab"}
	if got := short.DisplayID(); got != "TASK-AB" {
		t.Errorf("short id DisplayID = %q, want TASK-AB", got)
	}
}

func TestValidateDueDate(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC)

	if err := ValidateDueDate(nil, now); err != nil {
		t.Errorf("nil due date: %v, want accepted", err)
	}

	// Earlier today is still "today" by the date-only comparison.
	earlier := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	if err := ValidateDueDate(&earlier, now); err != nil {
		t.Errorf("today: %v, want accepted", err)
	}

	yesterday := now.AddDate(0, 0, -1)
	if err := ValidateDueDate(&yesterday, now); !errors.Is(err, ErrValidation) {
		t.Errorf("yesterday: error = %v, want validation error", err)
	}

	tomorrow := now.AddDate(0, 0, 1)
	if err := ValidateDueDate(&tomorrow, now); err != nil {
		t.Errorf("tomorrow: %v, want accepted", err)
	}
}

func TestNormalizeTags(t *testing.T) {
	tags := NormalizeTags([]Tag{
		{Name: "backend"},
		{Name: "urgent", Color: "#ff0000"},
	})

	if tags[0].Color != DefaultTagColor {
		t.Errorf("missing color = %q, want default %q", tags[0].Color, DefaultTagColor)
	}
	if tags[1].Color != "#ff0000" {
		t.Errorf("explicit color = %q, want preserved", tags[1].Color)
	}
}

func TestStatusAndPriorityValid(t *testing.T) {
	for _, s := range []TaskStatus{StatusTodo, StatusInProgress, StatusDone} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if TaskStatus("ARCHIVED").Valid() {
		t.Error("unknown status should be invalid")
	}
	if TaskPriority("CRITICAL").Valid() {
		t.Error("unknown priority should be invalid")
	}
}

func TestDefaultAvatarURL(t *testing.T) {
	url := DefaultAvatarURL("ada lovelace")
	if !strings.Contains(url, "ui-avatars.com") || !strings.Contains(url, "ada+lovelace") {
		t.Errorf("avatar url = %q, want escaped generated URL", url)
	}
}
