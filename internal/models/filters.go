package models

import "sort"

// StatusFilter widens [TaskStatus] with the "all" wildcard.
type StatusFilter string

const FilterAll StatusFilter = "all"

// SortKey selects the field tasks are ordered by.
type SortKey string

const (
	SortByCreatedAt SortKey = "created_at"
	SortByPriority  SortKey = "priority"
)

// SortOrder selects ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TaskFilters is a view-only projection over an in-memory task
// collection. It never round-trips to the server.
type TaskFilters struct {
	Status    StatusFilter
	SortBy    SortKey
	SortOrder SortOrder
}

// DefaultFilters returns the dashboard's initial projection: all tasks,
// newest first.
func DefaultFilters() TaskFilters {
	return TaskFilters{Status: FilterAll, SortBy: SortByCreatedAt, SortOrder: SortDesc}
}

// Apply filters and sorts a copy of the given collection. The input
// slice is never mutated and ties keep their relative order.
//
// The completed filter matches on the completion flag; pending and
// in_progress match status on tasks not yet completed, so a task with
// is_completed=true never shows under a non-completed status.
func (f TaskFilters) Apply(tasks []Task) []Task {
	result := make([]Task, 0, len(tasks))

	for _, task := range tasks {
		switch f.Status {
		case FilterAll, "":
			result = append(result, task)
		case StatusFilter(StatusCompleted):
			if task.IsCompleted {
				result = append(result, task)
			}
		default:
			if !task.IsCompleted && task.Status == TaskStatus(f.Status) {
				result = append(result, task)
			}
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if f.SortBy == SortByPriority {
			wi, wj := result[i].Priority.Weight(), result[j].Priority.Weight()
			if wi != wj {
				if f.SortOrder == SortAsc {
					return wi < wj
				}
				return wi > wj
			}
			return false
		}

		ti := ParseTimestamp(result[i].CreatedAt)
		tj := ParseTimestamp(result[j].CreatedAt)
		if ti.Equal(tj) {
			return false
		}
		if f.SortOrder == SortAsc {
			return ti.Before(tj)
		}
		return tj.Before(ti)
	})

	return result
}
