package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tudu/internal/service"
	"tudu/internal/validate"
)

type authMode int

const (
	modeLogin authMode = iota
	modeSignup
	modeMagic
)

func (m authMode) title() string {
	switch m {
	case modeSignup:
		return "Sign Up"
	case modeMagic:
		return "Magic Link"
	}
	return "Log In"
}

type authResultMsg struct {
	mode authMode
	err  error
}

type authModel struct {
	ctx context.Context
	svc service.Service

	mode     authMode
	email    textinput.Model
	password textinput.Model
	focus    int
	busy     bool

	emailErr    string
	passwordErr string
	generalErr  string
	info        string
}

func newAuthModel(ctx context.Context, svc service.Service) authModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword

	return authModel{
		ctx:      ctx,
		svc:      svc,
		email:    email,
		password: password,
	}
}

func (m authModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m authModel) fieldCount() int {
	if m.mode == modeMagic {
		return 1
	}
	return 2
}

func (m *authModel) setFocus(i int) {
	m.focus = i
	if i == 0 {
		m.email.Focus()
		m.password.Blur()
	} else {
		m.email.Blur()
		m.password.Focus()
	}
}

// cycleMode advances login -> signup -> magic link -> login. Messages
// are cleared but the typed email survives the switch.
func (m *authModel) cycleMode() {
	m.mode = (m.mode + 1) % 3
	m.emailErr = ""
	m.passwordErr = ""
	m.generalErr = ""
	m.info = ""
	if m.mode == modeMagic {
		m.setFocus(0)
	}
}

func (m *authModel) submit() tea.Cmd {
	m.emailErr = ""
	m.passwordErr = ""
	m.generalErr = ""
	m.info = ""

	email := strings.TrimSpace(m.email.Value())
	if !validate.Email(email) {
		m.emailErr = "Please enter a valid email."
		return nil
	}
	password := m.password.Value()
	if m.mode != modeMagic && !validate.Password(password) {
		m.passwordErr = fmt.Sprintf("Password must be at least %d characters.", validate.MinPasswordLen)
		return nil
	}

	m.busy = true
	mode := m.mode
	ctx, svc := m.ctx, m.svc
	return func() (msg tea.Msg) {
		var err error
		defer func() {
			if r := recover(); r != nil {
				msg = authResultMsg{mode: mode, err: fmt.Errorf("an unexpected error occurred, please try again")}
			}
		}()
		switch mode {
		case modeSignup:
			err = svc.SignUp(ctx, email, password)
		case modeMagic:
			err = svc.SignInWithMagicLink(ctx, email)
		default:
			err = svc.SignInWithPassword(ctx, email, password)
		}
		return authResultMsg{mode: mode, err: err}
	}
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		m.busy = false
		if msg.err != nil {
			m.generalErr = msg.err.Error()
			return m, nil
		}
		switch msg.mode {
		case modeSignup:
			m.info = "Signup successful! Check your email to confirm your account."
			m.email.SetValue("")
			m.password.SetValue("")
		case modeMagic:
			m.info = "Magic link sent! Check your email to log in."
			m.email.SetValue("")
		}
		// A successful login surfaces through the session listener.
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.busy {
				return m, nil
			}
			return m, m.submit()
		case "tab", "down":
			m.setFocus((m.focus + 1) % m.fieldCount())
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + m.fieldCount() - 1) % m.fieldCount())
			return m, nil
		case "ctrl+t":
			if !m.busy {
				m.cycleMode()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m authModel) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("tudu / "+m.mode.title()) + "\n\n")

	b.WriteString(m.email.View() + "\n")
	if m.emailErr != "" {
		b.WriteString(styleError.Render(m.emailErr) + "\n")
	}
	if m.mode != modeMagic {
		b.WriteString(m.password.View() + "\n")
		if m.passwordErr != "" {
			b.WriteString(styleError.Render(m.passwordErr) + "\n")
		}
	}

	if m.generalErr != "" {
		b.WriteString("\n" + styleError.Render(m.generalErr) + "\n")
	}
	if m.info != "" {
		b.WriteString("\n" + styleInfo.Render(m.info) + "\n")
	}

	submit := "enter: " + strings.ToLower(m.mode.title())
	if m.busy {
		submit = "please wait..."
	}
	b.WriteString("\n" + styleMuted.Render(submit+"  ctrl+t: switch mode  ctrl+c: quit"))
	return styleBox.Render(b.String())
}
