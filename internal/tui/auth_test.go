package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"tudu/internal/testutil"
)

var errInvalidCreds = errors.New("Invalid login credentials")

func newTestAuth(fake *testutil.FakeService) authModel {
	return newAuthModel(context.Background(), fake)
}

func pressKey(t *testing.T, m authModel, key tea.KeyType) (authModel, tea.Cmd) {
	t.Helper()
	return m.Update(tea.KeyMsg{Type: key})
}

// submitAuth presses enter and, if a command was produced, runs it and
// feeds the result back in.
func submitAuth(t *testing.T, m authModel) authModel {
	t.Helper()
	m, cmd := pressKey(t, m, tea.KeyEnter)
	if cmd == nil {
		return m
	}
	m, _ = m.Update(cmd())
	return m
}

func TestAuthInvalidEmailBlocksSubmission(t *testing.T) {
	fake := testutil.NewFakeService()
	m := newTestAuth(fake)
	m.email.SetValue("not-an-email")
	m.password.SetValue("longenough")

	m, cmd := pressKey(t, m, tea.KeyEnter)
	if cmd != nil {
		t.Fatal("expected no command for an invalid email")
	}
	if m.emailErr == "" {
		t.Error("expected an email validation message")
	}
	if fake.SignInCalls != 0 {
		t.Errorf("SignInCalls = %d, want 0", fake.SignInCalls)
	}
}

func TestAuthShortPasswordBlocksSubmission(t *testing.T) {
	fake := testutil.NewFakeService()
	m := newTestAuth(fake)
	m.email.SetValue("user@example.com")
	m.password.SetValue("short")

	m, cmd := pressKey(t, m, tea.KeyEnter)
	if cmd != nil {
		t.Fatal("expected no command for a short password")
	}
	if m.passwordErr == "" {
		t.Error("expected a password validation message")
	}
	if fake.SignInCalls != 0 {
		t.Errorf("SignInCalls = %d, want 0", fake.SignInCalls)
	}
}

func TestAuthLoginCallsProvider(t *testing.T) {
	fake := testutil.NewFakeService()
	m := newTestAuth(fake)
	m.email.SetValue("user@example.com")
	m.password.SetValue("longenough")

	m = submitAuth(t, m)
	if fake.SignInCalls != 1 {
		t.Errorf("SignInCalls = %d, want 1", fake.SignInCalls)
	}
	if m.busy {
		t.Error("model still busy after result")
	}
	if m.generalErr != "" {
		t.Errorf("unexpected error message %q", m.generalErr)
	}
}

func TestAuthLoginErrorShownVerbatim(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.SignInErr = errInvalidCreds
	m := newTestAuth(fake)
	m.email.SetValue("user@example.com")
	m.password.SetValue("longenough")

	m = submitAuth(t, m)
	if m.generalErr != errInvalidCreds.Error() {
		t.Errorf("generalErr = %q, want %q", m.generalErr, errInvalidCreds)
	}
	if m.busy {
		t.Error("model still busy after error")
	}
}

func TestAuthSignupSuccessClearsFields(t *testing.T) {
	fake := testutil.NewFakeService()
	m := newTestAuth(fake)
	m, _ = pressKey(t, m, tea.KeyCtrlT) // login -> signup
	if m.mode != modeSignup {
		t.Fatalf("mode = %v, want signup", m.mode)
	}
	m.email.SetValue("new@example.com")
	m.password.SetValue("longenough")

	m = submitAuth(t, m)
	if fake.SignUpCalls != 1 {
		t.Errorf("SignUpCalls = %d, want 1", fake.SignUpCalls)
	}
	if m.email.Value() != "" || m.password.Value() != "" {
		t.Error("expected inputs cleared after signup")
	}
	if !strings.Contains(strings.ToLower(m.info), "check your email") {
		t.Errorf("info = %q, want confirmation hint", m.info)
	}
	if sess, _ := fake.Session(context.Background()); sess != nil {
		t.Error("signup must not establish a session")
	}
}

func TestAuthMagicLinkIgnoresPassword(t *testing.T) {
	fake := testutil.NewFakeService()
	m := newTestAuth(fake)
	m, _ = pressKey(t, m, tea.KeyCtrlT)
	m, _ = pressKey(t, m, tea.KeyCtrlT) // signup -> magic link
	if m.mode != modeMagic {
		t.Fatalf("mode = %v, want magic link", m.mode)
	}
	m.email.SetValue("user@example.com")

	m = submitAuth(t, m)
	if fake.MagicLinkCalls != 1 {
		t.Errorf("MagicLinkCalls = %d, want 1", fake.MagicLinkCalls)
	}
	if m.info == "" {
		t.Error("expected an informational message after sending the link")
	}
}

func TestAuthModeSwitchClearsMessagesKeepsEmail(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.SignInErr = errInvalidCreds
	m := newTestAuth(fake)
	m.email.SetValue("user@example.com")
	m.password.SetValue("longenough")
	m = submitAuth(t, m)
	if m.generalErr == "" {
		t.Fatal("expected an error message to clear")
	}

	m, _ = pressKey(t, m, tea.KeyCtrlT)
	if m.generalErr != "" || m.info != "" || m.emailErr != "" || m.passwordErr != "" {
		t.Error("expected all messages cleared on mode switch")
	}
	if m.email.Value() != "user@example.com" {
		t.Errorf("email = %q, want preserved", m.email.Value())
	}
}

func TestAuthBusyBlocksResubmit(t *testing.T) {
	fake := testutil.NewFakeService()
	m := newTestAuth(fake)
	m.email.SetValue("user@example.com")
	m.password.SetValue("longenough")

	m, cmd := pressKey(t, m, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	m, again := pressKey(t, m, tea.KeyEnter)
	if again != nil {
		t.Error("expected enter to be ignored while busy")
	}
	m, _ = m.Update(cmd())
	if fake.SignInCalls != 1 {
		t.Errorf("SignInCalls = %d, want 1", fake.SignInCalls)
	}
}
