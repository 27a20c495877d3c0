package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"tudu/internal/service"
	"tudu/internal/view"
)

type fetchedMsg struct {
	tasks []service.Task
	err   error
}

type mutatedMsg struct {
	err error
}

type confirmState struct {
	task service.Task
}

type tasksModel struct {
	ctx    context.Context
	svc    service.Service
	sess   *service.Session
	logger *log.Logger

	loaded     []service.Task
	shown      []service.Task
	categories []string
	cursor     int

	opts      view.Options
	search    textinput.Model
	searching bool

	loading bool
	busy    bool
	errMsg  string

	confirm *confirmState
	form    *formModel

	width  int
	height int
}

func newTasksModel(ctx context.Context, svc service.Service, sess *service.Session, logger *log.Logger) tasksModel {
	search := textinput.New()
	search.Placeholder = "search"
	search.CharLimit = 120

	return tasksModel{
		ctx:     ctx,
		svc:     svc,
		sess:    sess,
		logger:  logger,
		loading: true,
		search:  search,
		opts: view.Options{
			Category: view.CategoryAll,
			Status:   view.StatusAll,
			Sort:     view.SortDueDate,
		},
	}
}

func (m tasksModel) Init() tea.Cmd {
	return m.fetch()
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m tasksModel) fetch() tea.Cmd {
	ctx, svc, owner := m.ctx, m.svc, m.sess.UserID
	return func() tea.Msg {
		tasks, err := svc.ListTodos(ctx, owner)
		return fetchedMsg{tasks: tasks, err: err}
	}
}

// refresh recomputes the derived view and category set from the loaded
// list and the current controls, clamping the cursor to the new bounds.
func (m *tasksModel) refresh() {
	m.opts.Query = m.search.Value()
	m.shown = view.Apply(m.loaded, m.opts)
	m.categories = view.Categories(m.loaded)
	if m.cursor >= len(m.shown) {
		m.cursor = len(m.shown) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tasksModel) cycleCategory() {
	if m.opts.Category == view.CategoryAll {
		if len(m.categories) > 0 {
			m.opts.Category = m.categories[0]
		}
		return
	}
	for i, c := range m.categories {
		if c == m.opts.Category {
			if i+1 < len(m.categories) {
				m.opts.Category = m.categories[i+1]
			} else {
				m.opts.Category = view.CategoryAll
			}
			return
		}
	}
	m.opts.Category = view.CategoryAll
}

func (m *tasksModel) cycleStatus() {
	switch m.opts.Status {
	case view.StatusAll:
		m.opts.Status = view.StatusPending
	case view.StatusPending:
		m.opts.Status = view.StatusCompleted
	default:
		m.opts.Status = view.StatusAll
	}
}

func (m *tasksModel) toggleSort() {
	if m.opts.Sort == view.SortDueDate {
		m.opts.Sort = view.SortPriority
	} else {
		m.opts.Sort = view.SortDueDate
	}
}

func (m *tasksModel) selected() (service.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.shown) {
		return service.Task{}, false
	}
	return m.shown[m.cursor], true
}

func (m tasksModel) toggleCmd(t service.Task) tea.Cmd {
	ctx, svc, owner := m.ctx, m.svc, m.sess.UserID
	return func() tea.Msg {
		return mutatedMsg{err: svc.ToggleTodo(ctx, t.ID, owner, t.Completed)}
	}
}

func (m tasksModel) deleteCmd(t service.Task) tea.Cmd {
	ctx, svc, owner := m.ctx, m.svc, m.sess.UserID
	return func() tea.Msg {
		return mutatedMsg{err: svc.DeleteTodo(ctx, t.ID, owner)}
	}
}

func (m tasksModel) signOutCmd() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		// The session listener flips the gate back to the auth flow.
		if err := svc.SignOut(ctx); err != nil {
			return mutatedMsg{err: err}
		}
		return nil
	}
}

func (m tasksModel) Update(msg tea.Msg) (tasksModel, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchedMsg:
		m.loading = false
		if msg.err != nil {
			// Keep showing the last good list.
			m.logger.Warn("could not load todos", "err", msg.err)
			return m, nil
		}
		m.loaded = msg.tasks
		m.refresh()
		return m, nil

	case mutatedMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		// Any pending confirmation refers to the pre-mutation list.
		m.confirm = nil
		return m, m.fetch()

	case formSavedMsg:
		if m.form == nil {
			return m, nil
		}
		if msg.err != nil {
			m.form.busy = false
			m.form.errMsg = msg.err.Error()
			return m, nil
		}
		m.form = nil
		return m, m.fetch()

	case formClosedMsg:
		m.form = nil
		return m, nil

	case tea.KeyMsg:
		if m.form != nil {
			f, cmd := m.form.Update(msg)
			m.form = f
			return m, cmd
		}
		if m.confirm != nil {
			return m.updateConfirm(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}

	if m.form != nil {
		f, cmd := m.form.Update(msg)
		m.form = f
		return m, cmd
	}
	return m, nil
}

func (m tasksModel) updateConfirm(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		if m.busy {
			return m, nil
		}
		task := m.confirm.task
		m.confirm = nil
		m.busy = true
		return m, m.deleteCmd(task)
	case "n", "esc":
		m.confirm = nil
	}
	return m, nil
}

func (m tasksModel) updateSearch(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	return m, cmd
}

func (m tasksModel) updateList(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		if m.cursor+1 < len(m.shown) {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "c":
		m.cycleCategory()
		m.refresh()
	case "s":
		m.cycleStatus()
		m.refresh()
	case "o":
		m.toggleSort()
		m.refresh()
	case "r":
		return m, m.fetch()
	case "a":
		f := newFormModel(m.ctx, m.svc, m.sess.UserID, nil)
		m.form = &f
		return m, f.Init()
	case "e", "enter":
		if task, ok := m.selected(); ok {
			f := newFormModel(m.ctx, m.svc, m.sess.UserID, &task)
			m.form = &f
			return m, f.Init()
		}
	case " ", "t":
		if m.busy {
			return m, nil
		}
		if task, ok := m.selected(); ok {
			m.busy = true
			return m, m.toggleCmd(task)
		}
	case "d":
		if task, ok := m.selected(); ok {
			m.confirm = &confirmState{task: task}
		}
	case "x":
		return m, m.signOutCmd()
	}
	return m, nil
}

func (m tasksModel) View() string {
	if m.form != nil {
		return m.form.View()
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render("tudu") + "  " + styleMuted.Render(m.sess.Email) + "\n")

	b.WriteString(styleFilter.Render(fmt.Sprintf("category:%s  status:%s  sort:%s",
		m.opts.Category, m.opts.Status, m.opts.Sort)))
	if m.searching || m.search.Value() != "" {
		b.WriteString("  " + m.search.View())
	}
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(styleMuted.Render("loading...") + "\n")
	case len(m.shown) == 0:
		b.WriteString(styleMuted.Render("no todos found") + "\n")
	default:
		for i, t := range m.shown {
			line := renderTask(t)
			if t.Completed {
				line = styleDone.Render(line)
			}
			if i == m.cursor {
				line = styleSelected.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
	}

	if m.errMsg != "" {
		b.WriteString("\n" + styleError.Render(m.errMsg) + "\n")
	}

	if m.confirm != nil {
		prompt := fmt.Sprintf("delete %q? [y/N]", m.confirm.task.Title)
		b.WriteString("\n" + styleBox.Render(styleError.Render(prompt)) + "\n")
	} else {
		b.WriteString("\n" + styleMuted.Render(
			"a: add  e: edit  space: toggle  d: delete  /: search  c/s/o: filters  r: refresh  x: sign out  q: quit"))
	}
	return b.String()
}

func renderTask(t service.Task) string {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}
	var extra []string
	if t.DueDate != nil {
		extra = append(extra, "due "+t.DueDate.Format("2006-01-02"))
	}
	if t.Priority.Known() && t.Priority != service.DefaultPriority {
		extra = append(extra, string(t.Priority))
	}
	if t.Category != "" {
		extra = append(extra, "#"+t.Category)
	}
	line := mark + " " + t.Title
	if len(extra) > 0 {
		line += "  " + styleMuted.Render("("+strings.Join(extra, ", ")+")")
	}
	return line
}
