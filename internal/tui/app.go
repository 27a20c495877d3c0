// Package tui implements the interactive terminal surface. A session
// gate decides between the auth flow and the task manager, switching
// whenever the backend reports a session change.
package tui

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"tudu/internal/config"
	"tudu/internal/service"
)

type gateState int

const (
	gateLoading gateState = iota
	gateAuth
	gateTasks
)

type sessionProbeMsg struct {
	sess *service.Session
	err  error
}

type sessionChangedMsg struct {
	sess *service.Session
}

type appModel struct {
	ctx    context.Context
	svc    service.Service
	logger *log.Logger

	state    gateState
	sessions chan *service.Session

	auth  authModel
	tasks tasksModel

	width  int
	height int
}

func newAppModel(ctx context.Context, svc service.Service, logger *log.Logger) *appModel {
	return &appModel{
		ctx:      ctx,
		svc:      svc,
		logger:   logger,
		state:    gateLoading,
		sessions: make(chan *service.Session, 8),
	}
}

// Run starts the interactive UI and blocks until the user quits.
func Run(ctx context.Context, cfg *config.Config, svc service.Service) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	m := newAppModel(ctx, svc, logger)
	unsub := svc.OnSessionChange(func(s *service.Session) {
		m.sessions <- s
	})
	defer unsub()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *appModel) Init() tea.Cmd {
	return tea.Batch(m.probeSession(), m.waitForSession())
}

// probeSession resolves the persisted session once at startup. The UI
// stays on the loading screen until this settles.
func (m *appModel) probeSession() tea.Cmd {
	return func() tea.Msg {
		sess, err := m.svc.Session(m.ctx)
		return sessionProbeMsg{sess: sess, err: err}
	}
}

// waitForSession relays one session change from the listener channel.
// Each handled message re-arms the wait.
func (m *appModel) waitForSession() tea.Cmd {
	return func() tea.Msg {
		sess, ok := <-m.sessions
		if !ok {
			return nil
		}
		return sessionChangedMsg{sess: sess}
	}
}

func (m *appModel) setSession(sess *service.Session) tea.Cmd {
	if sess == nil {
		m.state = gateAuth
		m.auth = newAuthModel(m.ctx, m.svc)
		return m.auth.Init()
	}
	// A token refresh for the same owner must not reset the task surface:
	// filters, search, a pending confirmation, or an open editor survive.
	if m.state == gateTasks && m.tasks.sess != nil && m.tasks.sess.UserID == sess.UserID {
		m.tasks.sess = sess
		return nil
	}
	m.state = gateTasks
	m.tasks = newTasksModel(m.ctx, m.svc, sess, m.logger)
	return m.tasks.Init()
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.state == gateTasks {
			m.tasks.setSize(msg.Width, msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

	case sessionProbeMsg:
		if msg.err != nil {
			m.logger.Warn("session lookup failed", "err", msg.err)
		}
		return m, m.setSession(msg.sess)

	case sessionChangedMsg:
		return m, tea.Batch(m.setSession(msg.sess), m.waitForSession())
	}

	switch m.state {
	case gateAuth:
		var cmd tea.Cmd
		m.auth, cmd = m.auth.Update(msg)
		return m, cmd
	case gateTasks:
		var cmd tea.Cmd
		m.tasks, cmd = m.tasks.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *appModel) View() string {
	switch m.state {
	case gateAuth:
		return m.auth.View()
	case gateTasks:
		return m.tasks.View()
	}
	return styleMuted.Render("loading...")
}
