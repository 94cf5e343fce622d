package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/taskdeck/taskdeck/internal/models"
)

// taskItem wraps [models.Task] to implement list.Item.
type taskItem struct {
	task models.Task
}

func (i taskItem) FilterValue() string { return i.task.Title }

func (i taskItem) Title() string {
	if i.task.IsCompleted {
		return styles.done.Render(i.task.Title)
	}
	return i.task.Title
}

func (i taskItem) Description() string {
	// Completion overrides status for display
	status := string(i.task.Status)
	if i.task.IsCompleted {
		status = string(models.StatusCompleted)
	}

	desc := fmt.Sprintf("%s • %s", status, i.task.Priority)
	if i.task.Description != nil && *i.task.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, *i.task.Description)
	}
	return desc
}

// taskItems projects a task collection through the active filters into
// list items.
func taskItems(tasks []models.Task, filters models.TaskFilters) []list.Item {
	visible := filters.Apply(tasks)
	items := make([]list.Item, len(visible))
	for i, task := range visible {
		items[i] = taskItem{task: task}
	}
	return items
}
