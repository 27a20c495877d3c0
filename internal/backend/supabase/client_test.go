package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"tudu/internal/config"
	"tudu/internal/service"
)

// draft builds a minimal valid draft.
func draft(title string) service.Draft {
	return service.Draft{Title: title}
}

// testUserID is what the identity API reports for the signed-in user.
const testUserID = "11111111-2222-3333-4444-555555555555"

// newTestClient wires a client against a test server with a temp config dir.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *config.Config) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Dir:     t.TempDir(),
		Backend: config.Backend{URL: srv.URL, AnonKey: "anon-key"},
	}
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, cfg
}

func grantResponse(w http.ResponseWriter, userID, email string) {
	json.NewEncoder(w).Encode(map[string]any{
		"access_token":  "access-1",
		"token_type":    "bearer",
		"expires_in":    3600,
		"refresh_token": "refresh-1",
		"user":          map[string]string{"id": userID, "email": email},
	})
}

func TestSignInWithPassword_EstablishesAndPersistsSession(t *testing.T) {
	var gotBody map[string]string
	c, cfg := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL)
		}
		if r.Header.Get("apikey") != "anon-key" {
			t.Errorf("missing apikey header")
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		grantResponse(w, testUserID, "a@b.com")
	}))

	if err := c.SignInWithPassword(context.Background(), "a@b.com", "password123"); err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}
	if gotBody["email"] != "a@b.com" || gotBody["password"] != "password123" {
		t.Errorf("unexpected grant body: %v", gotBody)
	}

	sess, err := c.Session(context.Background())
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if sess == nil || sess.UserID != testUserID || sess.Email != "a@b.com" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if !cfg.HasSession() {
		t.Error("session file not persisted")
	}

	// A fresh client over the same config dir finds the session on disk.
	c2, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	sess2, err := c2.Session(context.Background())
	if err != nil {
		t.Fatalf("Session (reload): %v", err)
	}
	if sess2 == nil || sess2.UserID != testUserID {
		t.Fatalf("session not reloaded: %+v", sess2)
	}
}

func TestSignInWithPassword_ProviderErrorSurfacedVerbatim(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`)
	}))

	err := c.SignInWithPassword(context.Background(), "a@b.com", "wrongpassword")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Invalid login credentials") {
		t.Errorf("provider message not surfaced: %v", err)
	}
}

func TestSession_NoSessionIsNilNotError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	sess, err := c.Session(context.Background())
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if sess != nil {
		t.Errorf("expected nil session, got %+v", sess)
	}
}

func TestSession_RefreshesExpiredToken(t *testing.T) {
	refreshed := false
	c, cfg := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("grant_type") != "refresh_token" {
			t.Errorf("expected refresh grant, got %s", r.URL.RawQuery)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["refresh_token"] != "refresh-old" {
			t.Errorf("unexpected refresh token: %v", body)
		}
		refreshed = true
		grantResponse(w, testUserID, "a@b.com")
	}))

	writeSession(t, cfg, "access-old", "refresh-old", time.Now().Add(-time.Hour))

	sess, err := c.Session(context.Background())
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if !refreshed {
		t.Error("expected a refresh grant request")
	}
	if sess == nil || sess.Token.AccessToken != "access-1" {
		t.Fatalf("expected refreshed session, got %+v", sess)
	}
}

func TestSession_RejectedRefreshEndsSession(t *testing.T) {
	c, cfg := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error_description":"Invalid Refresh Token"}`)
	}))
	writeSession(t, cfg, "access-old", "refresh-old", time.Now().Add(-time.Hour))

	var gotNil, fired bool
	unsub := c.OnSessionChange(func(s *service.Session) {
		fired = true
		gotNil = s == nil
	})
	defer unsub()

	sess, err := c.Session(context.Background())
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if sess != nil {
		t.Errorf("expected nil session after rejected refresh, got %+v", sess)
	}
	if cfg.HasSession() {
		t.Error("session file should be removed")
	}
	if !fired || !gotNil {
		t.Error("listener should observe the session ending")
	}
}

func TestSignOut_ClearsLocalSessionAndNotifies(t *testing.T) {
	c, cfg := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/logout" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	writeSession(t, cfg, "access-1", "refresh-1", time.Now().Add(time.Hour))

	var sawEnd bool
	unsub := c.OnSessionChange(func(s *service.Session) { sawEnd = s == nil })
	defer unsub()

	if err := c.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if cfg.HasSession() {
		t.Error("session file should be removed")
	}
	if !sawEnd {
		t.Error("listener should observe sign-out")
	}
}

func TestOnSessionChange_UnsubscribeStopsDelivery(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		grantResponse(w, testUserID, "a@b.com")
	}))

	calls := 0
	unsub := c.OnSessionChange(func(*service.Session) { calls++ })
	unsub()
	unsub() // calling twice is harmless

	if err := c.SignInWithPassword(context.Background(), "a@b.com", "password123"); err != nil {
		t.Fatal(err)
	}
	if calls != 0 {
		t.Errorf("unsubscribed listener was called %d times", calls)
	}
}

func TestListTodos_ScopesAndOrders(t *testing.T) {
	c, cfg := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/todos" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("user_id") != "eq.user-1" {
			t.Errorf("missing owner scope: %s", r.URL.RawQuery)
		}
		if !strings.HasPrefix(q.Get("order"), "inserted_at.desc") {
			t.Errorf("missing order: %s", r.URL.RawQuery)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer access-1" {
			t.Errorf("unexpected auth header: %s", got)
		}
		io.WriteString(w, `[
			{"id": 2, "user_id": "user-1", "title": "newer", "completed": false,
			 "priority": "high", "due_date": "2025-07-01T00:00:00+00:00",
			 "inserted_at": "2025-06-02T10:00:00Z"},
			{"id": 1, "user_id": "user-1", "title": "older", "completed": true,
			 "priority": "medium", "due_date": null,
			 "inserted_at": "2025-06-01T10:00:00Z"}
		]`)
	}))
	writeSession(t, cfg, "access-1", "refresh-1", time.Now().Add(time.Hour))

	tasks, err := c.ListTodos(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != "2" || tasks[0].Title != "newer" {
		t.Errorf("unexpected first task: %+v", tasks[0])
	}
	if tasks[0].DueDate == nil || tasks[0].DueDate.Format("2006-01-02") != "2025-07-01" {
		t.Errorf("due date not normalized to date-only: %v", tasks[0].DueDate)
	}
	if tasks[1].DueDate != nil {
		t.Errorf("expected nil due date, got %v", tasks[1].DueDate)
	}
}

func TestListTodos_NotLoggedIn(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without a session")
	}))

	_, err := c.ListTodos(context.Background(), "user-1")
	if err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Errorf("expected not-logged-in error, got %v", err)
	}
}

func TestMutations_ScopeByIDAndOwner(t *testing.T) {
	type call struct {
		method string
		query  string
		body   string
	}
	var calls []call
	c, cfg := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, call{r.Method, r.URL.RawQuery, string(body)})
		w.WriteHeader(http.StatusNoContent)
	}))
	writeSession(t, cfg, "access-1", "refresh-1", time.Now().Add(time.Hour))
	ctx := context.Background()

	if err := c.ToggleTodo(ctx, "7", "user-1", true); err != nil {
		t.Fatalf("ToggleTodo: %v", err)
	}
	if err := c.DeleteTodo(ctx, "7", "user-1"); err != nil {
		t.Fatalf("DeleteTodo: %v", err)
	}

	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	for _, cl := range calls {
		if !strings.Contains(cl.query, "id=eq.7") || !strings.Contains(cl.query, "user_id=eq.user-1") {
			t.Errorf("%s not scoped by id and owner: %s", cl.method, cl.query)
		}
	}
	if calls[0].method != http.MethodPatch || !strings.Contains(calls[0].body, `"completed":false`) {
		t.Errorf("toggle should patch the inverted flag: %+v", calls[0])
	}
	if calls[1].method != http.MethodDelete {
		t.Errorf("expected DELETE, got %s", calls[1].method)
	}
}

func TestInsertTodo_DefaultsPriorityAndNullDate(t *testing.T) {
	var gotBody map[string]any
	c, cfg := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if !strings.Contains(r.Header.Get("Prefer"), "return=minimal") {
			t.Errorf("missing Prefer header, got %q", r.Header.Get("Prefer"))
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	writeSession(t, cfg, "access-1", "refresh-1", time.Now().Add(time.Hour))

	err := c.InsertTodo(context.Background(), "user-1", draft("Buy milk"))
	if err != nil {
		t.Fatalf("InsertTodo: %v", err)
	}
	if gotBody["user_id"] != "user-1" || gotBody["title"] != "Buy milk" {
		t.Errorf("unexpected insert body: %v", gotBody)
	}
	if gotBody["priority"] != "medium" {
		t.Errorf("expected default priority medium, got %v", gotBody["priority"])
	}
	if v, ok := gotBody["due_date"]; !ok || v != nil {
		t.Errorf("expected explicit null due_date, got %v", gotBody["due_date"])
	}
}

func TestNew_RequiresBackendConfig(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	if _, err := New(cfg); err == nil {
		t.Error("expected error for unconfigured backend")
	}
}

// writeSession seeds session.json directly.
func writeSession(t *testing.T, cfg *config.Config, access, refresh string, expiry time.Time) {
	t.Helper()
	stored := map[string]any{
		"token": map[string]any{
			"access_token":  access,
			"token_type":    "bearer",
			"refresh_token": refresh,
			"expiry":        expiry.Format(time.RFC3339),
		},
		"user_id": "user-1",
		"email":   "a@b.com",
	}
	data, err := json.Marshal(stored)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.SessionPath(), data, 0600); err != nil {
		t.Fatal(err)
	}
}
