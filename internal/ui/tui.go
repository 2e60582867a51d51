// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/todolist-go/internal/todo"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	theme  Theme
	logger *log.Logger
}

// WithTheme sets the initial theme.
func WithTheme(theme Theme) TUIOption {
	return func(c *tuiConfig) {
		c.theme = theme
	}
}

// WithLogger sets the logger used for TUI actions. The terminal belongs to
// the program while it runs, so the logger should not write to stdout or
// stderr.
func WithLogger(logger *log.Logger) TUIOption {
	return func(c *tuiConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// RunTUI starts the TUI over store and blocks until the user quits or ctx
// is canceled.
func RunTUI(ctx context.Context, store *todo.Store, opts ...TUIOption) error {
	c := &tuiConfig{
		theme:  DarkTheme(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(store, c)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirm
	modeSearch
	modeWarning
	modeHelp
)

type viewFilter int

const (
	filterAll viewFilter = iota
	filterCompleted
	filterPending
)

// next cycles all -> completed -> pending -> all.
func (f viewFilter) next() viewFilter {
	return (f + 1) % 3
}

type confirmAction int

const (
	confirmRemove confirmAction = iota
	confirmClear
)

// Form field positions.
const (
	fieldText = iota
	fieldPriority
	fieldDue
	fieldCount
)

type tuiModel struct {
	store  *todo.Store
	theme  Theme
	logger *log.Logger
	now    func() time.Time

	rows   []todo.Task
	cursor int
	filter viewFilter
	search string

	mode   mode
	status string
	width  int

	// Form state. editID is zero when the form adds a task.
	inputs [fieldCount]textinput.Model
	focus  int
	editID int

	searchInput textinput.Model

	confirm   confirmAction
	confirmID int
	prompt    string

	// Warning state. The modal returns to returnMode when dismissed.
	warning    string
	returnMode mode
}

func newTUIModel(store *todo.Store, c *tuiConfig) *tuiModel {
	m := &tuiModel{
		store:  store,
		theme:  c.theme,
		logger: c.logger,
		now:    time.Now,
	}

	placeholders := [fieldCount]string{"Task", "High, Medium or Low", "DD-MM-YYYY"}
	limits := [fieldCount]int{256, 6, 10}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Width = 40
		m.inputs[i] = ti
	}

	m.searchInput = textinput.New()
	m.searchInput.Placeholder = "keyword"
	m.searchInput.CharLimit = 128
	m.searchInput.Width = 40

	m.refresh()
	m.status = m.totalStatus()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeWarning:
			m.mode = m.returnMode
			m.warning = ""
			return m, nil
		case modeHelp:
			m.mode = modeList
			return m, nil
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeSearch:
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		width := max(msg.Width-20, 20)
		for i := range m.inputs {
			m.inputs[i].Width = width
		}
		m.searchInput.Width = width
	}
	return m, nil
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(len(m.rows)-1, 0)
	case "a":
		return m, m.openForm(todo.Task{})
	case "e", "enter":
		task, ok := m.selected()
		if !ok {
			m.warn("Select a task to edit.")
			return m, nil
		}
		return m, m.openForm(task)
	case "c":
		m.setCompleted(true)
	case "u":
		m.setCompleted(false)
	case "d":
		task, ok := m.selected()
		if !ok {
			m.warn("Select a task to remove.")
			return m, nil
		}
		m.askConfirm(confirmRemove, task.ID, "Are you sure you want to remove this task?")
	case "X":
		m.askConfirm(confirmClear, 0, "Are you sure you want to clear all tasks?")
	case "f":
		m.filter = m.filter.next()
		m.search = ""
		m.refresh()
		m.status = m.filterStatus()
	case "/":
		m.mode = modeSearch
		m.searchInput.SetValue(m.search)
		return m, m.searchInput.Focus()
	case "esc":
		m.filter = filterAll
		m.search = ""
		m.refresh()
		m.status = m.totalStatus()
	case "t":
		m.theme = m.theme.Toggled()
		m.status = "Theme: " + m.theme.Name()
	case "?":
		m.mode = modeHelp
	}
	return m, nil
}

// setCompleted marks the selected task completed or pending.
func (m *tuiModel) setCompleted(completed bool) {
	task, ok := m.selected()
	if !ok {
		m.warn(todo.UserMessage(todo.ErrTaskNotFound))
		return
	}
	if err := m.store.SetCompletedID(task.ID, completed); err != nil {
		m.fail(err)
		return
	}
	m.logger.Debug("task completion changed", "id", task.ID, "completed", completed)
	m.refresh()
	m.status = m.totalStatus()
}

func (m *tuiModel) askConfirm(action confirmAction, id int, prompt string) {
	m.mode = modeConfirm
	m.confirm = action
	m.confirmID = id
	m.prompt = prompt
}

func (m *tuiModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeList
		switch m.confirm {
		case confirmRemove:
			if err := m.store.RemoveID(m.confirmID); err != nil {
				m.fail(err)
				return m, nil
			}
			m.logger.Debug("task removed", "id", m.confirmID)
			m.refresh()
			m.status = "Task removed successfully."
		case confirmClear:
			if err := m.store.Clear(); err != nil {
				m.fail(err)
				return m, nil
			}
			m.logger.Debug("tasks cleared")
			m.refresh()
			m.status = "All tasks cleared."
		}
	case "n", "N", "esc", "q":
		m.mode = modeList
		m.status = "Cancelled."
	}
	return m, nil
}

// openForm shows the add/edit form. A zero task opens an empty add form.
func (m *tuiModel) openForm(task todo.Task) tea.Cmd {
	m.mode = modeForm
	m.editID = task.ID
	m.inputs[fieldText].SetValue(task.Text)
	m.inputs[fieldPriority].SetValue(string(task.Priority))
	m.inputs[fieldDue].SetValue(task.DueDate)
	return m.focusField(fieldText)
}

func (m *tuiModel) focusField(i int) tea.Cmd {
	m.focus = (i + fieldCount) % fieldCount
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	return m.inputs[m.focus].Focus()
}

func (m *tuiModel) closeForm() {
	m.mode = modeList
	m.editID = 0
	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].SetValue("")
	}
}

func (m *tuiModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeForm()
		m.status = "Cancelled."
		return m, nil
	case "tab", "down":
		return m, m.focusField(m.focus + 1)
	case "shift+tab", "up":
		return m, m.focusField(m.focus - 1)
	case "enter":
		m.submitForm()
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *tuiModel) submitForm() {
	in, err := todo.ValidateInput(
		m.inputs[fieldText].Value(),
		m.inputs[fieldPriority].Value(),
		m.inputs[fieldDue].Value(),
		m.now(),
	)
	if err != nil {
		m.warn(todo.UserMessage(err))
		return
	}

	if m.editID == 0 {
		task, err := m.store.Add(in.Text, in.Priority, in.DueDate)
		if err != nil {
			m.fail(err)
			return
		}
		m.logger.Debug("task added", "id", task.ID)
		m.closeForm()
		m.refresh()
		m.selectID(task.ID)
		m.status = "Task added successfully."
		return
	}

	id := m.editID
	if err := m.store.EditID(id, in.Text, in.Priority, in.DueDate); err != nil {
		m.closeForm()
		m.refresh()
		m.fail(err)
		return
	}
	m.logger.Debug("task edited", "id", id)
	m.closeForm()
	m.refresh()
	m.selectID(id)
	m.status = "Task edited successfully."
}

func (m *tuiModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.searchInput.Blur()
		return m, nil
	case "enter":
		m.mode = modeList
		m.searchInput.Blur()
		keyword := strings.TrimSpace(m.searchInput.Value())
		if keyword == "" {
			return m, nil
		}
		m.search = keyword
		m.filter = filterAll
		m.refresh()
		m.status = "Showing search results for: " + keyword
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// refresh re-queries the visible rows from the store.
func (m *tuiModel) refresh() {
	switch {
	case m.search != "":
		m.rows = m.store.Search(m.search)
	case m.filter == filterCompleted:
		m.rows = m.store.Filter(true)
	case m.filter == filterPending:
		m.rows = m.store.Filter(false)
	default:
		m.rows = m.store.Tasks()
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) selected() (todo.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return todo.Task{}, false
	}
	return m.rows[m.cursor], true
}

func (m *tuiModel) selectID(id int) {
	for i, t := range m.rows {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m *tuiModel) warn(msg string) {
	if m.mode != modeWarning {
		m.returnMode = m.mode
	}
	m.mode = modeWarning
	m.warning = msg
}

func (m *tuiModel) fail(err error) {
	m.logger.Error("task update failed", "err", err)
	if m.mode == modeForm {
		m.closeForm()
	}
	m.mode = modeList
	m.warn(todo.UserMessage(err))
}

func (m *tuiModel) totalStatus() string {
	return fmt.Sprintf("Total tasks: %d", m.store.Len())
}

func (m *tuiModel) filterStatus() string {
	switch m.filter {
	case filterCompleted:
		return "Showing completed tasks."
	case filterPending:
		return "Showing pending tasks."
	}
	return m.totalStatus()
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.theme)

	if m.mode == modeHelp {
		writeHelp(&b, m.theme)
		return b.String()
	}

	writeFilter(&b, m.theme, m.filter, m.search)
	writeRows(&b, m.theme, m.rows, m.cursor)

	switch m.mode {
	case modeForm:
		b.WriteString(m.formView())
	case modeSearch:
		b.WriteString(m.theme.dialog.Render("Search tasks\n\n" + m.searchInput.View() + "\n\n" +
			m.theme.muted.Render("enter search • esc cancel")))
		b.WriteString("\n")
	case modeConfirm:
		b.WriteString(m.theme.dialog.Render("Confirm\n\n" + m.prompt + " (y/n)"))
		b.WriteString("\n")
	case modeWarning:
		b.WriteString(m.theme.warning.Render("Warning\n\n" + m.warning + "\n\n" +
			m.theme.muted.Render("Press any key to continue.")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.status.Render(m.status))
	b.WriteString("\n")
	writeFooter(&b, m.theme)
	return b.String()
}

func (m *tuiModel) formView() string {
	title := "Add Task"
	if m.editID != 0 {
		title = "Edit Task"
	}
	labels := [fieldCount]string{"Task", "Priority", "Due date"}

	var b strings.Builder
	b.WriteString(title + "\n\n")
	for i, label := range labels {
		marker := "  "
		if i == m.focus {
			marker = m.theme.cursor.Render("> ")
		}
		fmt.Fprintf(&b, "%s%-9s %s\n", marker, label+":", m.inputs[i].View())
	}
	b.WriteString("\n" + m.theme.muted.Render("tab next field • enter save • esc cancel"))
	return m.theme.dialog.Render(b.String()) + "\n"
}

func writeTitle(b *strings.Builder, theme Theme) {
	b.WriteString(theme.title.Render("Advanced To-Do List"))
	b.WriteString("\n\n")
}

func writeFilter(b *strings.Builder, theme Theme, filter viewFilter, search string) {
	var label string
	switch {
	case search != "":
		label = fmt.Sprintf("Search: %q (esc to clear)", search)
	case filter == filterCompleted:
		label = "Filter: completed (f to cycle, esc to clear)"
	case filter == filterPending:
		label = "Filter: pending (f to cycle, esc to clear)"
	default:
		return
	}
	b.WriteString(theme.muted.Render(label))
	b.WriteString("\n\n")
}

func writeRows(b *strings.Builder, theme Theme, rows []todo.Task, cursor int) {
	if len(rows) == 0 {
		b.WriteString(theme.muted.Render("  No tasks. Press a to add one."))
		b.WriteString("\n")
		return
	}
	for i, task := range rows {
		marker := "  "
		if i == cursor {
			marker = theme.cursor.Render("> ")
		}
		b.WriteString(marker)
		b.WriteString(formatRow(theme, task))
		b.WriteString("\n")
	}
}

func formatRow(theme Theme, task todo.Task) string {
	if task.Completed {
		return theme.completed.Render(task.String())
	}
	return theme.pending.Render(task.String())
}

func writeHelp(b *strings.Builder, theme Theme) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  a            Add task\n")
	b.WriteString("  e, enter     Edit selected task\n")
	b.WriteString("  c            Mark selected task completed\n")
	b.WriteString("  u            Mark selected task pending\n")
	b.WriteString("  d            Remove selected task\n")
	b.WriteString("  X            Clear all tasks\n")
	b.WriteString("  f            Cycle filter: all, completed, pending\n")
	b.WriteString("  /            Search tasks\n")
	b.WriteString("  esc          Clear filter and search\n")
	b.WriteString("  t            Toggle dark/light theme\n")
	b.WriteString("  up/k, down/j Move selection\n")
	b.WriteString("  ?            Toggle this help screen\n")
	b.WriteString("  q, ctrl+c    Quit\n\n")
	b.WriteString(theme.muted.Render("Press any key to return."))
	b.WriteString("\n")
}

func writeFooter(b *strings.Builder, theme Theme) {
	b.WriteString(theme.muted.Render("a add • e edit • c complete • d remove • f filter • / search • t theme • ? help • q quit"))
	b.WriteString("\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
