// Package service defines the backend-agnostic interface for todo operations.
package service

import "context"

// Unsubscribe removes a previously registered session listener.
type Unsubscribe func()

// Service defines the interface for backend operations.
// All provider API calls go through this interface; the TUI and the CLI
// commands never import the provider client directly.
type Service interface {
	// Session returns the current session, or nil if not signed in.
	// An expired session is refreshed through the provider before being
	// returned; a session that cannot be refreshed counts as absent.
	Session(ctx context.Context) (*Session, error)

	// OnSessionChange registers fn to be called whenever the session
	// changes (sign-in, token refresh, sign-out). fn receives nil when
	// the session ends. The returned Unsubscribe must be called when the
	// listener is no longer needed.
	OnSessionChange(fn func(*Session)) Unsubscribe

	// SignInWithPassword authenticates with email and password.
	// On success the session listeners fire with the new session.
	SignInWithPassword(ctx context.Context, email, password string) error

	// SignUp registers a new account. The account is not active until
	// confirmed via email; no session is established.
	SignUp(ctx context.Context, email, password string) error

	// SignInWithMagicLink requests a one-time sign-in link for email.
	// No session is established by this call.
	SignInWithMagicLink(ctx context.Context, email string) error

	// SignOut ends the current session. Listeners fire with nil.
	SignOut(ctx context.Context) error

	// ListTodos returns all tasks owned by ownerID, newest first
	// (insertion timestamp descending).
	ListTodos(ctx context.Context, ownerID string) ([]Task, error)

	// InsertTodo creates a new task owned by ownerID.
	InsertTodo(ctx context.Context, ownerID string, draft Draft) error

	// UpdateTodo replaces the writable fields of the task identified by
	// id and ownerID. Both must match for the write to apply.
	UpdateTodo(ctx context.Context, id, ownerID string, draft Draft) error

	// ToggleTodo inverts the completed flag of the task identified by id
	// and ownerID. current is the flag's value as last seen by the
	// caller; the task is written with its negation. Calling twice with
	// the intermediate value restores the original state.
	ToggleTodo(ctx context.Context, id, ownerID string, current bool) error

	// DeleteTodo permanently deletes the task identified by id and
	// ownerID. There is no soft delete.
	DeleteTodo(ctx context.Context, id, ownerID string) error
}
