package models

import (
	"fmt"
	"time"

	"github.com/taskdeck/taskdeck/internal/shared"
)

// TaskStatus enumerates the lifecycle states of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// Valid reports whether the status is one of the known values.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Priority enumerates task priorities.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether the priority is one of the known values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Weight returns the sort weight of a priority (high > medium > low).
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

const (
	TitleMaxLen       = 100
	DescriptionMaxLen = 500
)

// Task represents a task as returned by the task service.
//
// IsCompleted and Status are independently settable by the API; display
// layers treat IsCompleted=true as the overriding state regardless of
// Status.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	IsCompleted bool       `json:"is_completed"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`
}

// User represents the identity provider's user profile. The client only
// ever holds a cached copy.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name,omitempty"`
	EmailVerified bool   `json:"emailVerified,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

// TaskCreateRequest is the payload for creating a task.
type TaskCreateRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      TaskStatus `json:"status,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
}

// Validate checks the payload against the task service's schema limits.
func (r TaskCreateRequest) Validate() error {
	if len(r.Title) == 0 {
		return fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	}
	if len(r.Title) > TitleMaxLen {
		return fmt.Errorf("%w: title exceeds %d characters", shared.ErrInvalidInput, TitleMaxLen)
	}
	if r.Description != nil && len(*r.Description) > DescriptionMaxLen {
		return fmt.Errorf("%w: description exceeds %d characters", shared.ErrInvalidInput, DescriptionMaxLen)
	}
	if r.Status != "" && !r.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidInput, r.Status)
	}
	if r.Priority != "" && !r.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", shared.ErrInvalidInput, r.Priority)
	}
	return nil
}

// TaskUpdateRequest is the partial-update payload; nil fields are omitted.
type TaskUpdateRequest struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
	Priority    *Priority   `json:"priority,omitempty"`
	IsCompleted *bool       `json:"is_completed,omitempty"`
}

// Validate checks the set fields against the task service's schema limits.
func (r TaskUpdateRequest) Validate() error {
	if r.Title != nil {
		if len(*r.Title) == 0 {
			return fmt.Errorf("%w: title cannot be empty", shared.ErrInvalidInput)
		}
		if len(*r.Title) > TitleMaxLen {
			return fmt.Errorf("%w: title exceeds %d characters", shared.ErrInvalidInput, TitleMaxLen)
		}
	}
	if r.Description != nil && len(*r.Description) > DescriptionMaxLen {
		return fmt.Errorf("%w: description exceeds %d characters", shared.ErrInvalidInput, DescriptionMaxLen)
	}
	if r.Status != nil && !r.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidInput, *r.Status)
	}
	if r.Priority != nil && !r.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", shared.ErrInvalidInput, *r.Priority)
	}
	return nil
}

// timestampLayouts covers the task service's naive UTC datetimes and
// RFC3339 variants from the identity provider.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses a wire timestamp string. Returns the zero time
// when the string is empty or unparseable.
func ParseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
