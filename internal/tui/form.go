package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tudu/internal/service"
)

type formSavedMsg struct {
	err error
}

// formClosedMsg is sent when the editor is dismissed without saving.
type formClosedMsg struct{}

// fieldPriority sits between due date and submit; left/right cycle the
// level instead of editing text.
const (
	fieldTitle = iota
	fieldDesc
	fieldCategory
	fieldDue
	fieldPriority
	fieldCount
)

var priorityLevels = []service.Priority{
	service.PriorityHigh,
	service.PriorityMedium,
	service.PriorityLow,
}

type formModel struct {
	ctx     context.Context
	svc     service.Service
	ownerID string
	editing *service.Task // nil means creating

	inputs   [4]textinput.Model
	priority service.Priority
	focus    int
	busy     bool

	alert  string // validation message, blocks submission
	errMsg string // provider error, form stays open
}

func newFormModel(ctx context.Context, svc service.Service, ownerID string, editing *service.Task) formModel {
	m := formModel{
		ctx:      ctx,
		svc:      svc,
		ownerID:  ownerID,
		editing:  editing,
		priority: service.DefaultPriority,
	}

	placeholders := [4]string{"title", "description", "category", "due (YYYY-MM-DD)"}
	for i := range m.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 200
		m.inputs[i] = in
	}
	m.inputs[fieldTitle].Focus()

	if editing != nil {
		m.inputs[fieldTitle].SetValue(editing.Title)
		m.inputs[fieldDesc].SetValue(editing.Description)
		m.inputs[fieldCategory].SetValue(editing.Category)
		if editing.DueDate != nil {
			m.inputs[fieldDue].SetValue(editing.DueDate.Format("2006-01-02"))
		}
		if editing.Priority.Known() {
			m.priority = editing.Priority
		}
	}
	return m
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *formModel) setFocus(i int) {
	m.focus = (i + fieldCount) % fieldCount
	for j := range m.inputs {
		if j == m.focus {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m *formModel) cyclePriority(delta int) {
	for i, p := range priorityLevels {
		if p == m.priority {
			m.priority = priorityLevels[(i+delta+len(priorityLevels))%len(priorityLevels)]
			return
		}
	}
	m.priority = service.DefaultPriority
}

func (m *formModel) draft() (service.Draft, bool) {
	title := strings.TrimSpace(m.inputs[fieldTitle].Value())
	if title == "" {
		m.alert = "Title is required."
		return service.Draft{}, false
	}

	var due *time.Time
	if v := strings.TrimSpace(m.inputs[fieldDue].Value()); v != "" {
		if len(v) > 10 {
			v = v[:10]
		}
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			m.alert = "Due date must look like YYYY-MM-DD."
			return service.Draft{}, false
		}
		due = &d
	}

	return service.Draft{
		Title:       title,
		Description: strings.TrimSpace(m.inputs[fieldDesc].Value()),
		Category:    strings.TrimSpace(m.inputs[fieldCategory].Value()),
		DueDate:     due,
		Priority:    m.priority,
	}, true
}

func (m *formModel) submit() tea.Cmd {
	m.alert = ""
	m.errMsg = ""
	draft, ok := m.draft()
	if !ok {
		return nil
	}

	m.busy = true
	ctx, svc, owner := m.ctx, m.svc, m.ownerID
	editing := m.editing
	return func() tea.Msg {
		var err error
		if editing != nil {
			err = svc.UpdateTodo(ctx, editing.ID, owner, draft)
		} else {
			err = svc.InsertTodo(ctx, owner, draft)
		}
		return formSavedMsg{err: err}
	}
}

func (m *formModel) Update(msg tea.Msg) (*formModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		// A validation alert blocks everything until dismissed.
		if m.alert != "" {
			m.alert = ""
			return m, nil
		}
		switch key.String() {
		case "esc":
			if !m.busy {
				return m, func() tea.Msg { return formClosedMsg{} }
			}
			return m, nil
		case "enter":
			if m.busy {
				return m, nil
			}
			return m, m.submit()
		case "tab", "down":
			m.setFocus(m.focus + 1)
			return m, nil
		case "shift+tab", "up":
			m.setFocus(m.focus - 1)
			return m, nil
		case "left", "right":
			if m.focus == fieldPriority {
				delta := 1
				if key.String() == "left" {
					delta = -1
				}
				m.cyclePriority(delta)
				return m, nil
			}
		}
	}

	if m.focus < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *formModel) View() string {
	var b strings.Builder
	title := "New Todo"
	if m.editing != nil {
		title = "Edit Todo"
	}
	b.WriteString(styleTitle.Render(title) + "\n\n")

	for i := range m.inputs {
		b.WriteString(m.inputs[i].View() + "\n")
	}

	prio := "priority: " + string(m.priority)
	if m.focus == fieldPriority {
		prio = styleSelected.Render("> " + prio + "  (left/right)")
	} else {
		prio = "  " + prio
	}
	b.WriteString(prio + "\n")

	if m.alert != "" {
		b.WriteString("\n" + styleError.Render(m.alert+" (press any key)") + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n" + styleError.Render(m.errMsg) + "\n")
	}

	hint := "enter: save  esc: cancel"
	if m.busy {
		hint = "saving..."
	}
	b.WriteString("\n" + styleMuted.Render(hint))
	return styleBox.Render(b.String())
}
