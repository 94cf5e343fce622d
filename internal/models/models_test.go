package models

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/internal/shared"
)

func TestTaskStatus(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		for _, s := range []TaskStatus{StatusPending, StatusInProgress, StatusCompleted} {
			if !s.Valid() {
				t.Errorf("expected %q to be valid", s)
			}
		}
		if TaskStatus("done").Valid() {
			t.Error("expected unknown status to be invalid")
		}
	})
}

func TestPriority(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
			if !p.Valid() {
				t.Errorf("expected %q to be valid", p)
			}
		}
		if Priority("urgent").Valid() {
			t.Error("expected unknown priority to be invalid")
		}
	})

	t.Run("Weight Orders High Over Low", func(t *testing.T) {
		if PriorityHigh.Weight() <= PriorityMedium.Weight() {
			t.Error("expected high > medium")
		}
		if PriorityMedium.Weight() <= PriorityLow.Weight() {
			t.Error("expected medium > low")
		}
		if Priority("").Weight() != 0 {
			t.Error("expected zero weight for unknown priority")
		}
	})
}

func TestTaskCreateRequest(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		t.Run("Accepts Title At The Limit", func(t *testing.T) {
			req := TaskCreateRequest{Title: strings.Repeat("a", TitleMaxLen)}
			if err := req.Validate(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		t.Run("Rejects Empty Title", func(t *testing.T) {
			req := TaskCreateRequest{}
			if err := req.Validate(); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})

		t.Run("Rejects Title Over The Limit", func(t *testing.T) {
			req := TaskCreateRequest{Title: strings.Repeat("a", TitleMaxLen+1)}
			if err := req.Validate(); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})

		t.Run("Rejects Description Over The Limit", func(t *testing.T) {
			desc := strings.Repeat("d", DescriptionMaxLen+1)
			req := TaskCreateRequest{Title: "ok", Description: &desc}
			if err := req.Validate(); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})

		t.Run("Accepts Description At The Limit", func(t *testing.T) {
			desc := strings.Repeat("d", DescriptionMaxLen)
			req := TaskCreateRequest{Title: "ok", Description: &desc}
			if err := req.Validate(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		t.Run("Rejects Unknown Status and Priority", func(t *testing.T) {
			req := TaskCreateRequest{Title: "ok", Status: "done"}
			if err := req.Validate(); err == nil {
				t.Error("expected error for unknown status")
			}

			req = TaskCreateRequest{Title: "ok", Priority: "urgent"}
			if err := req.Validate(); err == nil {
				t.Error("expected error for unknown priority")
			}
		})

		t.Run("Empty Status and Priority Are Allowed", func(t *testing.T) {
			req := TaskCreateRequest{Title: "ok"}
			if err := req.Validate(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	})
}

func TestTaskUpdateRequest(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		t.Run("Nil Fields Are Allowed", func(t *testing.T) {
			if err := (TaskUpdateRequest{}).Validate(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		t.Run("Rejects Empty Title When Set", func(t *testing.T) {
			empty := ""
			req := TaskUpdateRequest{Title: &empty}
			if err := req.Validate(); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})

		t.Run("Rejects Unknown Status When Set", func(t *testing.T) {
			status := TaskStatus("done")
			req := TaskUpdateRequest{Status: &status}
			if err := req.Validate(); err == nil {
				t.Error("expected error for unknown status")
			}
		})
	})
}

func TestParseTimestamp(t *testing.T) {
	t.Run("Naive Service Datetime", func(t *testing.T) {
		got := ParseTimestamp("2024-03-15T09:30:00.123456")
		want := time.Date(2024, 3, 15, 9, 30, 0, 123456000, time.UTC)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("Naive Without Fraction", func(t *testing.T) {
		got := ParseTimestamp("2024-03-15T09:30:00")
		want := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("RFC3339", func(t *testing.T) {
		got := ParseTimestamp("2024-03-15T09:30:00Z")
		if got.IsZero() {
			t.Error("expected RFC3339 to parse")
		}
	})

	t.Run("Garbage Yields Zero Time", func(t *testing.T) {
		if !ParseTimestamp("yesterday").IsZero() {
			t.Error("expected zero time for unparseable input")
		}
		if !ParseTimestamp("").IsZero() {
			t.Error("expected zero time for empty input")
		}
	})
}
