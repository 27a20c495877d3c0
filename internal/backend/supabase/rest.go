package supabase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/supabase-community/postgrest-go"

	"tudu/internal/service"
)

// todoRecord is the wire shape of a row in the todos table.
// The record store assigns id and inserted_at.
type todoRecord struct {
	ID          json.Number `json:"id"`
	UserID      string      `json:"user_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	DueDate     *string     `json:"due_date"`
	Priority    string      `json:"priority"`
	Completed   bool        `json:"completed"`
	InsertedAt  string      `json:"inserted_at"`
}

// ListTodos returns all tasks owned by ownerID, newest first.
func (c *Client) ListTodos(ctx context.Context, ownerID string) ([]service.Task, error) {
	token, _, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	var records []todoRecord
	_, err = c.rest(token).From(Collection).
		Select("*", "", false).
		Eq("user_id", ownerID).
		Order("inserted_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&records)
	if err != nil {
		return nil, err
	}

	tasks := make([]service.Task, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, r.toTask())
	}
	return tasks, nil
}

// InsertTodo creates a new task owned by ownerID. The store assigns the
// identifier and insertion timestamp.
func (c *Client) InsertTodo(ctx context.Context, ownerID string, draft service.Draft) error {
	token, _, err := c.accessToken(ctx)
	if err != nil {
		return err
	}
	_, _, err = c.rest(token).From(Collection).
		Insert(draftRecord(ownerID, draft), false, "", "minimal", "").
		Execute()
	return err
}

// UpdateTodo replaces the writable fields of one task, scoped by both the
// record identifier and the owner identifier.
func (c *Client) UpdateTodo(ctx context.Context, id, ownerID string, draft service.Draft) error {
	token, _, err := c.accessToken(ctx)
	if err != nil {
		return err
	}
	_, _, err = c.rest(token).From(Collection).
		Update(draftRecord(ownerID, draft), "minimal", "").
		Eq("id", id).
		Eq("user_id", ownerID).
		Execute()
	return err
}

// ToggleTodo writes the negation of current to the task's completed flag.
// The operation is a flip, not an absolute mark: applying it twice with
// the intermediate value restores the original state.
func (c *Client) ToggleTodo(ctx context.Context, id, ownerID string, current bool) error {
	token, _, err := c.accessToken(ctx)
	if err != nil {
		return err
	}
	patch := map[string]any{"completed": !current}
	_, _, err = c.rest(token).From(Collection).
		Update(patch, "minimal", "").
		Eq("id", id).
		Eq("user_id", ownerID).
		Execute()
	return err
}

// DeleteTodo permanently deletes one task, scoped by id and owner.
func (c *Client) DeleteTodo(ctx context.Context, id, ownerID string) error {
	token, _, err := c.accessToken(ctx)
	if err != nil {
		return err
	}
	_, _, err = c.rest(token).From(Collection).
		Delete("minimal", "").
		Eq("id", id).
		Eq("user_id", ownerID).
		Execute()
	return err
}

// draftRecord builds the writable wire fields from a draft.
func draftRecord(ownerID string, draft service.Draft) map[string]any {
	priority := draft.Priority
	if priority == "" {
		priority = service.DefaultPriority
	}
	var due *string
	if draft.DueDate != nil {
		s := draft.DueDate.Format("2006-01-02")
		due = &s
	}
	return map[string]any{
		"user_id":     ownerID,
		"title":       draft.Title,
		"description": draft.Description,
		"category":    draft.Category,
		"due_date":    due,
		"priority":    string(priority),
	}
}

func (r todoRecord) toTask() service.Task {
	t := service.Task{
		ID:          r.ID.String(),
		OwnerID:     r.UserID,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Priority:    service.Priority(r.Priority),
		Completed:   r.Completed,
	}
	if r.DueDate != nil {
		t.DueDate = parseDate(*r.DueDate)
	}
	if ts, err := time.Parse(time.RFC3339, r.InsertedAt); err == nil {
		t.InsertedAt = ts
	}
	return t
}

// parseDate normalizes a stored due date to a date-only value. The store
// may hold either a bare date or a full timestamp; only the calendar date
// is meaningful.
func parseDate(s string) *time.Time {
	if len(s) > 10 {
		s = s[:10]
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &d
}

var _ service.Service = (*Client)(nil)
