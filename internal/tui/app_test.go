package tui

import (
	"context"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"tudu/internal/service"
	"tudu/internal/testutil"
)

// loadedApp builds the gate, resolves the startup probe, and runs the
// initial task fetch.
func loadedApp(t *testing.T, fake *testutil.FakeService) *appModel {
	t.Helper()
	sess, err := fake.Session(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	m := newAppModel(context.Background(), fake, log.New(io.Discard))
	_, cmd := m.Update(sessionProbeMsg{sess: sess})
	if cmd == nil {
		t.Fatal("expected a fetch command after the probe")
	}
	m.Update(cmd())
	return m
}

func appKey(m *appModel, s string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return cmd
}

func TestGateProbeResolvesToTasks(t *testing.T) {
	fake := seededFake()
	m := loadedApp(t, fake)
	if m.state != gateTasks {
		t.Fatalf("state = %v, want tasks", m.state)
	}
	if fake.ListCalls != 1 {
		t.Errorf("ListCalls = %d, want 1", fake.ListCalls)
	}
}

func TestGateNilProbeResolvesToAuth(t *testing.T) {
	fake := testutil.NewFakeService()
	m := newAppModel(context.Background(), fake, log.New(io.Discard))
	m.Update(sessionProbeMsg{sess: nil})
	if m.state != gateAuth {
		t.Fatalf("state = %v, want auth", m.state)
	}
}

// A provider token refresh reports a session change for the same owner.
// The task surface must keep its state instead of being rebuilt.
func TestGateSameOwnerRefreshKeepsTaskState(t *testing.T) {
	fake := seededFake()
	m := loadedApp(t, fake)

	appKey(m, "s") // status filter: pending
	appKey(m, "a") // open the editor
	if m.tasks.form == nil {
		t.Fatal("expected the editor to open")
	}
	m.tasks.form.inputs[fieldTitle].SetValue("half-typed title")

	refreshed := &service.Session{UserID: m.tasks.sess.UserID, Email: m.tasks.sess.Email}
	m.Update(sessionChangedMsg{sess: refreshed})

	if m.state != gateTasks {
		t.Fatalf("state = %v, want tasks", m.state)
	}
	if m.tasks.form == nil {
		t.Fatal("editor was discarded by a same-owner session refresh")
	}
	if got := m.tasks.form.inputs[fieldTitle].Value(); got != "half-typed title" {
		t.Errorf("typed input lost: %q", got)
	}
	if m.tasks.opts.Status != "pending" {
		t.Errorf("status filter reset to %q", m.tasks.opts.Status)
	}
	if fake.ListCalls != 1 {
		t.Errorf("ListCalls = %d, want 1 (no rebuild fetch)", fake.ListCalls)
	}
	if m.tasks.sess != refreshed {
		t.Error("expected the refreshed session adopted in place")
	}
}

func TestGateOwnerChangeRebuildsTasks(t *testing.T) {
	fake := seededFake()
	m := loadedApp(t, fake)
	appKey(m, "a")

	m.Update(sessionChangedMsg{sess: &service.Session{UserID: "other-owner"}})
	if m.tasks.form != nil {
		t.Error("expected a fresh task surface for a different owner")
	}
	if m.tasks.sess.UserID != "other-owner" {
		t.Errorf("sess.UserID = %q", m.tasks.sess.UserID)
	}
	if m.tasks.loading != true {
		t.Error("expected the rebuilt surface to start loading")
	}
}

func TestGateSessionEndReturnsToAuth(t *testing.T) {
	fake := seededFake()
	m := loadedApp(t, fake)

	m.Update(sessionChangedMsg{sess: nil})
	if m.state != gateAuth {
		t.Fatalf("state = %v, want auth", m.state)
	}
}
