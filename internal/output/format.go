// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"tudu/internal/service"
)

// FormatTask formats one task line.
// Format: "{N:>4}  [{x| }] {TITLE}{suffix}\n" where the suffix lists due
// date, priority (when not the default), and category.
func FormatTask(w io.Writer, num int, task service.Task) {
	box := " "
	if task.Completed {
		box = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s%s\n", num, box, normalizeTitle(task.Title), suffix(task))
}

// FormatCategories prints the derived category list, one per line.
func FormatCategories(w io.Writer, categories []string) {
	for _, c := range categories {
		fmt.Fprintln(w, c)
	}
}

func suffix(task service.Task) string {
	var parts []string
	if task.DueDate != nil {
		parts = append(parts, "due "+task.DueDate.Format("2006-01-02"))
	}
	if task.Priority != "" && task.Priority != service.DefaultPriority {
		parts = append(parts, string(task.Priority))
	}
	if task.Category != "" {
		parts = append(parts, "#"+task.Category)
	}
	if len(parts) == 0 {
		return ""
	}
	return "  (" + strings.Join(parts, ", ") + ")"
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
