// Package service defines the backend-agnostic interface for todo operations.
package service

import (
	"time"

	"golang.org/x/oauth2"
)

// Priority is a task priority level.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DefaultPriority is assigned when no priority is given.
const DefaultPriority = PriorityMedium

// Rank returns the sort rank of a priority: high before medium before low.
// Unrecognized values rank after all three.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Known reports whether p is one of the three recognized levels.
func (p Priority) Known() bool {
	return p.Rank() < 3
}

// Task represents a single todo record as stored by the backend.
type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Category    string
	DueDate     *time.Time // date-only; nil means no due date
	Priority    Priority
	Completed   bool
	InsertedAt  time.Time
}

// Draft holds the writable fields of a task. The backend assigns ID and
// InsertedAt on insert; OwnerID comes from the session.
type Draft struct {
	Title       string
	Description string
	Category    string
	DueDate     *time.Time
	Priority    Priority
}

// Session is proof of authentication plus the owner's identity.
// The token pair belongs to the identity provider; this code only carries
// it between calls.
type Session struct {
	Token  oauth2.Token
	UserID string
	Email  string
}
