// package formatter exports task collections to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/taskdeck/taskdeck/internal/models"
)

// ExportToCSV converts a task collection to CSV with columns: ID, Title, Status, Priority, Completed, Created, Updated
func ExportToCSV(tasks []models.Task) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Status", "Priority", "Completed", "Created", "Updated"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, task := range tasks {
		record := []string{
			task.ID,
			task.Title,
			string(task.Status),
			string(task.Priority),
			strconv.FormatBool(task.IsCompleted),
			task.CreatedAt,
			task.UpdatedAt,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a task collection to a Markdown checklist
// grouped under a title. A completed task renders as a checked item
// regardless of its status field.
func ExportToMarkdown(title string, tasks []models.Task) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("%d tasks\n\n", len(tasks)))

	for _, task := range tasks {
		check := " "
		if task.IsCompleted {
			check = "x"
		}
		buf.WriteString(fmt.Sprintf("- [%s] **%s** (%s, %s)\n", check, task.Title, task.Status, task.Priority))
		if task.Description != nil && *task.Description != "" {
			buf.WriteString(fmt.Sprintf("  %s\n", strings.ReplaceAll(*task.Description, "\n", "\n  ")))
		}
	}

	return buf.Bytes(), nil
}

// FormatText renders a task collection as an aligned plain-text table.
func FormatText(tasks []models.Task) (string, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	if _, err := fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRIORITY\tDONE"); err != nil {
		return "", fmt.Errorf("failed to write table header: %w", err)
	}

	for _, task := range tasks {
		status := task.Status
		if task.IsCompleted {
			// Completion overrides status for display
			status = models.StatusCompleted
		}
		done := ""
		if task.IsCompleted {
			done = "✓"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", shortID(task.ID), task.Title, status, task.Priority, done); err != nil {
			return "", fmt.Errorf("failed to write table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush table: %w", err)
	}

	return buf.String(), nil
}

// WriteToFile writes exported data to the specified path.
func WriteToFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// shortID truncates a UUID for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
