// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"tudu/internal/service"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of service.Service for
// testing. Call counters allow tests to assert that an operation did (or
// did not) reach the backend, and that mutations are followed by a fresh
// fetch rather than a local patch.
type FakeService struct {
	mu        sync.Mutex
	session   *service.Session
	tasks     []service.Task
	nextSubID int
	listeners map[int]func(*service.Session)

	// Call counters.
	ListCalls      int
	InsertCalls    int
	UpdateCalls    int
	ToggleCalls    int
	DeleteCalls    int
	SignInCalls    int
	SignUpCalls    int
	MagicLinkCalls int

	// Error injection.
	SessionErr   error
	SignInErr    error
	SignUpErr    error
	MagicLinkErr error
	ListErr      error
	InsertErr    error
	UpdateErr    error
	ToggleErr    error
	DeleteErr    error
}

// NewFakeService creates an empty FakeService with no session.
func NewFakeService() *FakeService {
	return &FakeService{listeners: make(map[int]func(*service.Session))}
}

// SetSession installs a session and notifies listeners, as a provider
// sign-in would.
func (f *FakeService) SetSession(sess *service.Session) {
	f.mu.Lock()
	f.session = sess
	fns := listenerList(f.listeners)
	f.mu.Unlock()
	for _, fn := range fns {
		fn(sess)
	}
}

// SignedIn is a convenience for a fake with an established session.
func SignedIn(ownerID, email string) *FakeService {
	f := NewFakeService()
	f.session = &service.Session{UserID: ownerID, Email: email}
	return f
}

// AddTask seeds a task. Tasks are listed newest first, like the backend,
// so later additions come first.
func (f *FakeService) AddTask(t service.Task) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.InsertedAt.IsZero() {
		t.InsertedAt = time.Now()
	}
	if t.Priority == "" {
		t.Priority = service.DefaultPriority
	}
	f.tasks = append(f.tasks, t)
	return t
}

// Tasks returns a snapshot of the stored tasks in list order.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ordered()
}

// Session implements service.Service.
func (f *FakeService) Session(ctx context.Context) (*service.Session, error) {
	if f.SessionErr != nil {
		return nil, f.SessionErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return nil, nil
	}
	out := *f.session
	return &out, nil
}

// OnSessionChange implements service.Service.
func (f *FakeService) OnSessionChange(fn func(*service.Session)) service.Unsubscribe {
	f.mu.Lock()
	id := f.nextSubID
	f.nextSubID++
	f.listeners[id] = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

// SignInWithPassword implements service.Service.
func (f *FakeService) SignInWithPassword(ctx context.Context, email, password string) error {
	f.mu.Lock()
	f.SignInCalls++
	f.mu.Unlock()
	if f.SignInErr != nil {
		return f.SignInErr
	}
	f.SetSession(&service.Session{UserID: uuid.NewString(), Email: email})
	return nil
}

// SignUp implements service.Service. No session is established.
func (f *FakeService) SignUp(ctx context.Context, email, password string) error {
	f.mu.Lock()
	f.SignUpCalls++
	f.mu.Unlock()
	return f.SignUpErr
}

// SignInWithMagicLink implements service.Service. No session is established.
func (f *FakeService) SignInWithMagicLink(ctx context.Context, email string) error {
	f.mu.Lock()
	f.MagicLinkCalls++
	f.mu.Unlock()
	return f.MagicLinkErr
}

// SignOut implements service.Service.
func (f *FakeService) SignOut(ctx context.Context) error {
	f.SetSession(nil)
	return nil
}

// ListTodos implements service.Service.
func (f *FakeService) ListTodos(ctx context.Context, ownerID string) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	var out []service.Task
	for _, t := range f.ordered() {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

// InsertTodo implements service.Service.
func (f *FakeService) InsertTodo(ctx context.Context, ownerID string, draft service.Draft) error {
	f.mu.Lock()
	f.InsertCalls++
	f.mu.Unlock()
	if f.InsertErr != nil {
		return f.InsertErr
	}
	f.AddTask(service.Task{
		OwnerID:     ownerID,
		Title:       draft.Title,
		Description: draft.Description,
		Category:    draft.Category,
		DueDate:     draft.DueDate,
		Priority:    draft.Priority,
	})
	return nil
}

// UpdateTodo implements service.Service.
func (f *FakeService) UpdateTodo(ctx context.Context, id, ownerID string, draft service.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	for i, t := range f.tasks {
		if t.ID == id && t.OwnerID == ownerID {
			f.tasks[i].Title = draft.Title
			f.tasks[i].Description = draft.Description
			f.tasks[i].Category = draft.Category
			f.tasks[i].DueDate = draft.DueDate
			f.tasks[i].Priority = draft.Priority
			return nil
		}
	}
	return ErrNotFound
}

// ToggleTodo implements service.Service. Writes the negation of current,
// preserving the flip semantics of the real backend call.
func (f *FakeService) ToggleTodo(ctx context.Context, id, ownerID string, current bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ToggleCalls++
	if f.ToggleErr != nil {
		return f.ToggleErr
	}
	for i, t := range f.tasks {
		if t.ID == id && t.OwnerID == ownerID {
			f.tasks[i].Completed = !current
			return nil
		}
	}
	return ErrNotFound
}

// DeleteTodo implements service.Service.
func (f *FakeService) DeleteTodo(ctx context.Context, id, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i, t := range f.tasks {
		if t.ID == id && t.OwnerID == ownerID {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// ordered returns tasks newest first. Caller holds f.mu.
func (f *FakeService) ordered() []service.Task {
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func listenerList(m map[int]func(*service.Session)) []func(*service.Session) {
	out := make([]func(*service.Session), 0, len(m))
	for _, fn := range m {
		out = append(out, fn)
	}
	return out
}

var _ service.Service = (*FakeService)(nil)
