// Package view derives the displayed task list from the loaded one.
// Everything here is a pure function of its inputs: no network calls, no
// shared state. The task manager recomputes the view on every change to
// the loaded list or the filter/sort/search controls.
package view

import (
	"sort"
	"strings"

	"tudu/internal/service"
)

// CategoryAll keeps every category.
const CategoryAll = "all"

// Status filters the completed flag.
type Status string

const (
	StatusAll       Status = "all"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Sort selects the ordering of the derived view.
type Sort string

const (
	// SortDueDate orders by due date ascending; tasks without a due date
	// come last. Ties keep their loaded order.
	SortDueDate Sort = "due_date"

	// SortPriority orders high, medium, low, then unrecognized values.
	SortPriority Sort = "priority"
)

// Options are the filter/sort/search controls.
// Zero-value string fields mean "no filter".
type Options struct {
	Category string // exact match, or "all"/"" for no filter
	Status   Status
	Query    string // case-insensitive substring of title or description
	Sort     Sort
}

// Apply derives the view: every active filter is applied as a logical AND,
// then the result is sorted. The input slice is not modified.
func Apply(tasks []service.Task, opts Options) []service.Task {
	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if Matches(t, opts) {
			out = append(out, t)
		}
	}
	sortTasks(out, opts.Sort)
	return out
}

// Matches reports whether a single task passes every active filter.
// A task must satisfy the category filter, the status filter, and the
// text query simultaneously.
func Matches(t service.Task, opts Options) bool {
	if opts.Category != "" && opts.Category != CategoryAll && t.Category != opts.Category {
		return false
	}
	switch opts.Status {
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	case StatusPending:
		if t.Completed {
			return false
		}
	}
	if q := strings.ToLower(opts.Query); q != "" {
		title := strings.ToLower(t.Title)
		desc := strings.ToLower(t.Description)
		if !strings.Contains(title, q) && !strings.Contains(desc, q) {
			return false
		}
	}
	return true
}

func sortTasks(tasks []service.Task, by Sort) {
	switch by {
	case SortPriority:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority.Rank() < tasks[j].Priority.Rank()
		})
	case SortDueDate:
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := tasks[i].DueDate, tasks[j].DueDate
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
	}
}

// Categories returns the distinct non-empty category labels present in
// tasks, sorted for stable presentation. The set is derived from the
// loaded list, never stored.
func Categories(tasks []service.Task) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range tasks {
		if t.Category == "" || seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		out = append(out, t.Category)
	}
	sort.Strings(out)
	return out
}
