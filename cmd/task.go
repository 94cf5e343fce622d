package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/taskdeck/taskdeck/internal/formatter"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// TaskList fetches the task collection and renders it.
func (r *Runner) TaskList(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.currentUserID()
	if err != nil {
		return err
	}

	filters, err := parseFilters(cmd)
	if err != nil {
		return err
	}

	if err := r.tasks.List(ctx, userID); err != nil {
		return fmt.Errorf("failed to fetch tasks: %w", err)
	}

	visible := filters.Apply(r.tasks.Tasks())
	r.logger.Info("fetched tasks", "total", len(r.tasks.Tasks()), "visible", len(visible))

	if cmd.Bool("json") {
		return r.writeJSON(visible, cmd.Bool("pretty"))
	}

	var rendered []byte
	switch format := cmd.String("format"); format {
	case "csv":
		rendered, err = formatter.ExportToCSV(visible)
	case "markdown", "md":
		rendered, err = formatter.ExportToMarkdown("Tasks", visible)
	case "text", "":
		var text string
		text, err = formatter.FormatText(visible)
		rendered = []byte(text)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return fmt.Errorf("failed to render tasks: %w", err)
	}

	if output := cmd.String("output"); output != "" {
		if err := formatter.WriteToFile(output, rendered); err != nil {
			return err
		}
		return r.writePlain("✓ Wrote %d tasks to %s\n", len(visible), output)
	}

	return r.writePlain("%s", string(rendered))
}

// TaskGet fetches and prints a single task.
func (r *Runner) TaskGet(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.currentUserID()
	if err != nil {
		return err
	}

	taskID := cmd.StringArg("id")
	if taskID == "" {
		return fmt.Errorf("%w: task id", shared.ErrMissingArgument)
	}

	task, err := r.tasks.Get(ctx, userID, taskID)
	if err != nil {
		return fmt.Errorf("failed to fetch task: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(task, cmd.Bool("pretty"))
	}

	text, err := formatter.FormatText([]models.Task{*task})
	if err != nil {
		return err
	}
	return r.writePlain("%s", text)
}

// TaskCreate creates a task and prints the server's copy.
func (r *Runner) TaskCreate(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.currentUserID()
	if err != nil {
		return err
	}

	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	req := models.TaskCreateRequest{
		Title:    title,
		Status:   models.TaskStatus(cmd.String("status")),
		Priority: models.Priority(cmd.String("priority")),
	}
	if desc := cmd.String("description"); desc != "" {
		req.Description = &desc
	}

	task, err := r.tasks.Create(ctx, userID, req)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	r.logger.Info("task created", "id", task.ID)
	return r.writePlain("✓ Created task %s: %s\n", task.ID, task.Title)
}

// TaskUpdate applies the provided flags as a partial update.
func (r *Runner) TaskUpdate(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.currentUserID()
	if err != nil {
		return err
	}

	taskID := cmd.StringArg("id")
	if taskID == "" {
		return fmt.Errorf("%w: task id", shared.ErrMissingArgument)
	}

	var req models.TaskUpdateRequest
	if cmd.IsSet("title") {
		title := cmd.String("title")
		req.Title = &title
	}
	if cmd.IsSet("description") {
		desc := cmd.String("description")
		req.Description = &desc
	}
	if cmd.IsSet("status") {
		status := models.TaskStatus(cmd.String("status"))
		req.Status = &status
	}
	if cmd.IsSet("priority") {
		priority := models.Priority(cmd.String("priority"))
		req.Priority = &priority
	}

	if req.Title == nil && req.Description == nil && req.Status == nil && req.Priority == nil {
		return fmt.Errorf("%w: at least one of --title, --description, --status, --priority", shared.ErrMissingArgument)
	}

	task, err := r.tasks.Update(ctx, userID, taskID, req)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return r.writePlain("✓ Updated task %s\n", task.ID)
}

// TaskDelete removes a task.
func (r *Runner) TaskDelete(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.currentUserID()
	if err != nil {
		return err
	}

	taskID := cmd.StringArg("id")
	if taskID == "" {
		return fmt.Errorf("%w: task id", shared.ErrMissingArgument)
	}

	if err := r.tasks.Delete(ctx, userID, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return r.writePlain("✓ Deleted task %s\n", taskID)
}

// TaskDone toggles a task's completion state.
func (r *Runner) TaskDone(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.currentUserID()
	if err != nil {
		return err
	}

	taskID := cmd.StringArg("id")
	if taskID == "" {
		return fmt.Errorf("%w: task id", shared.ErrMissingArgument)
	}

	task, err := r.tasks.ToggleComplete(ctx, userID, taskID)
	if err != nil {
		return fmt.Errorf("failed to toggle task: %w", err)
	}

	if task.IsCompleted {
		return r.writePlain("✓ Marked %s complete\n", task.ID)
	}
	return r.writePlain("✓ Marked %s incomplete\n", task.ID)
}

// parseFilters builds a [models.TaskFilters] from list command flags.
func parseFilters(cmd *cli.Command) (models.TaskFilters, error) {
	filters := models.DefaultFilters()

	switch status := strings.ToLower(cmd.String("status")); status {
	case "", string(models.FilterAll):
		filters.Status = models.FilterAll
	case string(models.StatusPending), string(models.StatusInProgress), string(models.StatusCompleted):
		filters.Status = models.StatusFilter(status)
	default:
		return filters, fmt.Errorf("%w: unknown status %q", shared.ErrInvalidFlag, status)
	}

	switch sortBy := strings.ToLower(cmd.String("sort")); sortBy {
	case "", string(models.SortByCreatedAt):
		filters.SortBy = models.SortByCreatedAt
	case string(models.SortByPriority):
		filters.SortBy = models.SortByPriority
	default:
		return filters, fmt.Errorf("%w: unknown sort key %q", shared.ErrInvalidFlag, sortBy)
	}

	switch order := strings.ToLower(cmd.String("order")); order {
	case "", string(models.SortDesc):
		filters.SortOrder = models.SortDesc
	case string(models.SortAsc):
		filters.SortOrder = models.SortAsc
	default:
		return filters, fmt.Errorf("%w: unknown sort order %q", shared.ErrInvalidFlag, order)
	}

	return filters, nil
}
