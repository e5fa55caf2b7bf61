package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tomlord1122/todo-tracker/internal/client"
	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

const (
	maxTitleLength = 200
	noticeDuration = 3 * time.Second

	msgLoadFailed   = "Failed to load todos"
	msgAdded        = "Todo added successfully!"
	msgAddFailed    = "Failed to add todo"
	msgDeleted      = "Todo deleted successfully!"
	msgDeleteFailed = "Failed to delete todo"
	msgGone         = "Todo no longer exists"

	errTitleRequired = "Title is required"
	errTitleTooLong  = "Title must be at most 200 characters"
)

// TodoService is what the UI needs from the client cache.
type TodoService interface {
	Load(ctx context.Context) ([]domain.Todo, error)
	Create(ctx context.Context, title string) (domain.Todo, error)
	Delete(ctx context.Context, id int64) error
	Refresh(ctx context.Context, id int64) (domain.Todo, error)
	Subscribe(fn func([]domain.Todo)) (unsubscribe func())
}

type (
	todosChangedMsg []domain.Todo
	loadedMsg       struct{ err error }
	createdMsg      struct {
		todo domain.Todo
		err  error
	}
	deletedMsg struct {
		todo domain.Todo
		err  error
	}
	checkedMsg struct {
		id   int64
		todo domain.Todo
		err  error
	}
	clearNoticeMsg struct{ seq int }
)

type focusArea int

const (
	focusForm focusArea = iota
	focusList
)

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeError
)

// todoItem adapts domain.Todo to bubbles/list.Item.
type todoItem struct{ todo domain.Todo }

func (i todoItem) FilterValue() string { return i.todo.Title }

type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(todoItem)
	if !ok {
		return
	}
	box := mutedStyle.Render(boxUnchecked)
	if it.todo.IsCompleted {
		box = successStyle.Render(boxChecked)
	}
	meta := mutedStyle.Render(fmt.Sprintf("#%d · %s", it.todo.ID, it.todo.CreatedAt.Local().Format("Jan 2 15:04")))
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s  %s", prefix, box, it.todo.Title, meta)
}

type keyMap struct {
	Submit, Delete, Reload, SwitchFocus, Quit, ForceQuit key.Binding
}

var keys = keyMap{
	Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
	Delete:      key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
	Reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	SwitchFocus: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "form/list")),
	Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c")),
}

// Model is the todo screen: an add form, the list, a delete confirmation
// dialog and a transient notification line.
type Model struct {
	ctx context.Context
	svc TodoService
	log *slog.Logger
	sub *subscription

	input     textinput.Model
	touched   bool
	formErr   string
	creating  bool
	focus     focusArea
	list      list.Model
	todos     []domain.Todo
	loading   bool
	spinner   spinner.Model
	deletion  deleteFlow
	notice    string
	kind      noticeKind
	noticeSeq int

	width, height int
}

// New builds the model and subscribes it to svc. Call Close once the
// program has exited.
func New(ctx context.Context, svc TodoService, log *slog.Logger) Model {
	if log == nil {
		log = slog.Default()
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = maxTitleLength
	ti.Focus()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = "Todos"
	l.Styles.Title = titleStyle
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("todo", "todos")
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		ctx:     ctx,
		svc:     svc,
		log:     log,
		sub:     subscribe(svc),
		input:   ti,
		focus:   focusForm,
		list:    l,
		loading: true,
		spinner: sp,
		width:   80,
		height:  24,
	}
}

// Close severs the cache subscription. Requests already sent keep running;
// their results are simply never delivered.
func (m Model) Close() {
	m.sub.close()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.sub.wait(), m.spinner.Tick, textinput.Blink)
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := m.svc.Load(m.ctx)
		return loadedMsg{err: err}
	}
}

func (m Model) createCmd(title string) tea.Cmd {
	return func() tea.Msg {
		todo, err := m.svc.Create(m.ctx, title)
		return createdMsg{todo: todo, err: err}
	}
}

func (m Model) deleteCmd(todo domain.Todo) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{todo: todo, err: m.svc.Delete(m.ctx, todo.ID)}
	}
}

// checkCmd re-reads the delete target while the dialog is open.
func (m Model) checkCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		todo, err := m.svc.Refresh(m.ctx, id)
		return checkedMsg{id: id, todo: todo, err: err}
	}
}

func (m *Model) notify(kind noticeKind, text string) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	m.kind = kind
	seq := m.noticeSeq
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })
}

// validateTitle mirrors the form rules: required after trimming, at most 200 characters.
func validateTitle(raw string) (string, string) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", errTitleRequired
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", errTitleTooLong
	}
	return title, ""
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case todosChangedMsg:
		cmd := m.setTodos(msg)
		return m, tea.Batch(cmd, m.sub.wait())

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.log.Error("Error loading todos", "err", msg.err)
			return m, m.notify(noticeError, msgLoadFailed)
		}
		return m, nil

	case createdMsg:
		m.creating = false
		if msg.err != nil {
			m.log.Error("Error creating todo", "err", msg.err)
			return m, m.notify(noticeError, msgAddFailed)
		}
		m.input.Reset()
		m.touched = false
		m.formErr = ""
		return m, m.notify(noticeInfo, msgAdded)

	case deletedMsg:
		m.deletion.resolve(msg.todo.ID)
		if msg.err != nil {
			m.log.Error("Error deleting todo", "id", msg.todo.ID, "err", msg.err)
			return m, m.notify(noticeError, msgDeleteFailed)
		}
		return m, m.notify(noticeInfo, msgDeleted)

	case checkedMsg:
		open := m.deletion.state == deleteAwaitingConfirmation && m.deletion.target.ID == msg.id
		switch {
		case errors.Is(msg.err, client.ErrNotFound):
			if open {
				m.deletion.cancel()
				return m, m.notify(noticeError, msgGone)
			}
		case msg.err != nil:
			m.log.Warn("Error checking todo", "id", msg.id, "err", msg.err)
		case open:
			m.deletion.target = msg.todo
		}
		return m, nil

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.deletion.state == deleteAwaitingConfirmation {
			return m.updateDialog(msg)
		}
		if key.Matches(msg, keys.SwitchFocus) {
			m.toggleFocus()
			return m, nil
		}
		if m.focus == focusForm {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		return m.confirmDelete()
	case "n", "esc":
		m.deletion.cancel()
		return m, nil
	case "left", "right", "h", "l", "tab", "shift+tab":
		m.deletion.confirmFocused = !m.deletion.confirmFocused
		return m, nil
	case "enter":
		if m.deletion.confirmFocused {
			return m.confirmDelete()
		}
		m.deletion.cancel()
		return m, nil
	}
	return m, nil
}

func (m Model) confirmDelete() (tea.Model, tea.Cmd) {
	target, ok := m.deletion.confirm()
	if !ok {
		return m, nil
	}
	return m, m.deleteCmd(target)
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Submit):
		return m.submit()
	case msg.String() == "esc":
		m.toggleFocus()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.touched = true
	if m.formErr != "" {
		_, m.formErr = validateTitle(m.input.Value())
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.touched = true
	title, problem := validateTitle(m.input.Value())
	m.formErr = problem
	if problem != "" || m.creating {
		return m, nil
	}
	m.creating = true
	return m, m.createCmd(title)
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit), msg.String() == "esc":
		return m, tea.Quit
	case key.Matches(msg, keys.Delete):
		if it, ok := m.list.SelectedItem().(todoItem); ok && m.deletion.request(it.todo) {
			return m, m.checkCmd(it.todo.ID)
		}
		return m, nil
	case key.Matches(msg, keys.Reload):
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.loadCmd(), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) toggleFocus() {
	if m.focus == focusForm {
		m.focus = focusList
		m.input.Blur()
		return
	}
	m.focus = focusForm
	m.input.Focus()
}

// setTodos replaces the list while keeping the selection on the same id.
func (m *Model) setTodos(todos []domain.Todo) tea.Cmd {
	var selectedID int64
	if it, ok := m.list.SelectedItem().(todoItem); ok {
		selectedID = it.todo.ID
	}

	m.todos = todos
	items := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		items = append(items, todoItem{todo: t})
	}
	cmd := m.list.SetItems(items)

	for i, t := range todos {
		if t.ID == selectedID {
			m.list.Select(i)
			break
		}
	}
	return cmd
}

func (m *Model) resize() {
	// Header, form panel and notice line take roughly ten rows.
	h := m.height - 10
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
	m.input.Width = m.width - 8
}

func (m Model) View() string {
	header := titleStyle.Render("Todo List") + "  " +
		accentStyle.Render(fmt.Sprintf("%d todos", len(m.todos)))

	if m.deletion.state == deleteAwaitingConfirmation {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.deletion.view())
	}

	formTitle := "Add a todo"
	if m.creating {
		formTitle += " " + mutedStyle.Render("(saving…)")
	}
	form := formTitle + "\n" + m.input.View()
	if m.touched && m.formErr != "" {
		form += "\n" + errorStyle.Render(m.formErr)
	}
	formPanel, listPanel := focusedPanelStyle, panelStyle
	if m.focus == focusList {
		formPanel, listPanel = panelStyle, focusedPanelStyle
	}

	var body string
	switch {
	case m.loading:
		body = m.spinner.View() + " Loading todos…"
	case len(m.todos) == 0:
		body = mutedStyle.Render("No todos yet. Add one above!")
	default:
		body = m.list.View()
	}
	if m.deletion.state == deleteInFlight {
		body += "\n" + mutedStyle.Render(fmt.Sprintf("Deleting %q…", m.deletion.target.Title))
	}

	notice := ""
	if m.notice != "" {
		style := successStyle
		if m.kind == noticeError {
			style = errorStyle
		}
		notice = style.Render(m.notice)
	}

	help := helpStyle.Render("enter add • tab switch • d delete • r reload • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		formPanel.Render(form),
		listPanel.Render(body),
		notice,
		help,
	)
}
