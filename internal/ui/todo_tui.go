package ui

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/josephgoksu/todowing/internal/logger"
	"github.com/josephgoksu/todowing/internal/todo"
	"github.com/josephgoksu/todowing/models"
)

const (
	// DeleteEffect is how long a row shows as struck out before it is removed.
	DeleteEffect = 300 * time.Millisecond
	// StatusTTL is how long a transient status line stays up.
	StatusTTL = 2 * time.Second
)

type focus int

const (
	focusInput focus = iota
	focusList
)

// deleteDoneMsg fires when a row's delete effect has finished.
type deleteDoneMsg struct{ id int64 }

// clearStatusMsg clears the status line unless a newer one replaced it.
type clearStatusMsg struct{ seq int }

// TodoModel is the interactive task list.
type TodoModel struct {
	store     *todo.Store
	input     textinput.Model
	focus     focus
	rows      []models.Task
	remaining int
	cursor    int
	deleting  map[int64]bool
	status    string
	statusErr bool
	statusSeq int
}

// NewTodoModel builds the model with the input focused, like a fresh page.
func NewTodoModel(store *todo.Store) TodoModel {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 512
	ti.Width = 50
	ti.Focus()

	m := TodoModel{
		store:    store,
		input:    ti,
		focus:    focusInput,
		deleting: make(map[int64]bool),
	}
	m.refresh()
	return m
}

// RunTodo starts the TUI and blocks until the user quits.
func RunTodo(store *todo.Store) error {
	_, err := tea.NewProgram(NewTodoModel(store), tea.WithAltScreen()).Run()
	return err
}

func (m TodoModel) Init() tea.Cmd {
	return textinput.Blink
}

// refresh re-reads the view from the store after every action.
func (m *TodoModel) refresh() {
	m.rows = slices.Collect(m.store.VisibleTasks())
	m.remaining = m.store.RemainingCount()
	m.cursor = clampCursor(m.cursor, len(m.rows))
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func (m *TodoModel) setStatus(msg string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = msg
	m.statusErr = isErr
	seq := m.statusSeq
	return tea.Tick(StatusTTL, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

// report turns a store error into a status line. A failed save is shown as a
// warning since the change itself went through.
func (m *TodoModel) report(okMsg string, err error) tea.Cmd {
	var perr *todo.PersistenceError
	switch {
	case err == nil:
		return m.setStatus(okMsg, false)
	case errors.As(err, &perr):
		return m.setStatus(okMsg+" (not saved: "+perr.Err.Error()+")", true)
	default:
		return m.setStatus(err.Error(), true)
	}
}

func (m TodoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-10, 10)
		return m, nil

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case deleteDoneMsg:
		delete(m.deleting, msg.id)
		err := m.store.DeleteTask(msg.id)
		var cmd tea.Cmd
		if !errors.Is(err, todo.ErrNotFound) {
			cmd = m.report("Deleted task", err)
		}
		m.refresh()
		return m, cmd

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyTab:
			return m.setFilter(nextFilter(m.store.Filter())), nil
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m TodoModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		text := m.input.Value()
		logger.SetLastInput(text)
		task, err := m.store.AddTask(text)
		if errors.Is(err, todo.ErrEmptyText) {
			return m, m.setStatus(err.Error(), true)
		}
		m.input.Reset()
		m.refresh()
		if i := slices.IndexFunc(m.rows, func(t models.Task) bool { return t.ID == task.ID }); i >= 0 {
			m.cursor = i
		}
		return m, m.report(fmt.Sprintf("Added %q", task.Text), err)

	case tea.KeyEsc, tea.KeyDown:
		m.focus = focusList
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m TodoModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor == 0 {
			return m.focusInput()
		}
		m.cursor = clampCursor(m.cursor-1, len(m.rows))
	case "down", "j":
		m.cursor = clampCursor(m.cursor+1, len(m.rows))
	case "a", "i", "esc":
		return m.focusInput()
	case " ", "space", "x":
		if len(m.rows) == 0 {
			return m, nil
		}
		_, err := m.store.ToggleTask(m.rows[m.cursor].ID)
		m.refresh()
		if errors.Is(err, todo.ErrNotFound) {
			return m, nil
		}
		return m, m.report("Toggled task", err)
	case "d", "delete":
		if len(m.rows) == 0 {
			return m, nil
		}
		id := m.rows[m.cursor].ID
		if m.deleting[id] {
			return m, nil
		}
		m.deleting[id] = true
		return m, tea.Tick(DeleteEffect, func(time.Time) tea.Msg { return deleteDoneMsg{id: id} })
	case "c":
		n, err := m.store.ClearCompleted()
		m.refresh()
		return m, m.report(fmt.Sprintf("Cleared %d completed", n), err)
	case "1":
		return m.setFilter(models.FilterAll), nil
	case "2":
		return m.setFilter(models.FilterActive), nil
	case "3":
		return m.setFilter(models.FilterCompleted), nil
	}
	return m, nil
}

func (m TodoModel) focusInput() (tea.Model, tea.Cmd) {
	m.focus = focusInput
	cmd := m.input.Focus()
	return m, cmd
}

func (m TodoModel) setFilter(f models.Filter) TodoModel {
	if err := m.store.SetFilter(f); err != nil {
		return m
	}
	m.cursor = 0
	m.refresh()
	return m
}

func nextFilter(f models.Filter) models.Filter {
	all := models.AllFilters()
	i := slices.Index(all, f)
	return all[(i+1)%len(all)]
}

func (m TodoModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("todos") + "\n")
	box := StyleInputBox
	if m.focus == focusInput {
		box = StyleInputBoxFocused
	}
	b.WriteString(box.Render(m.input.View()) + "\n")

	if len(m.rows) == 0 {
		b.WriteString("  " + StyleSubtle.Render(todo.EmptyMessage(m.store.Filter())) + "\n")
	}
	for i, task := range m.rows {
		b.WriteString(m.renderRow(i, task) + "\n")
	}

	b.WriteString("\n" + m.renderFooter() + "\n")
	if m.status != "" {
		style := StyleSuccess
		if m.statusErr {
			style = StyleError
		}
		b.WriteString(style.Render(m.status) + "\n")
	}
	b.WriteString(StyleSubtle.Render(m.helpLine()))
	return b.String()
}

func (m TodoModel) renderRow(i int, task models.Task) string {
	pointer := "  "
	if m.focus == focusList && i == m.cursor {
		pointer = StyleCursor.Render("> ")
	}

	text := StyleText.Render(task.Text)
	switch {
	case m.deleting[task.ID]:
		text = StyleDeleting.Render(task.Text)
	case task.Completed:
		text = StyleDone.Render(task.Text)
	}
	return pointer + Checkbox(task.Completed) + " " + text
}

func (m TodoModel) renderFooter() string {
	current := m.store.Filter()
	parts := []string{todo.RemainingLabel(m.remaining)}
	for i, f := range models.AllFilters() {
		label := fmt.Sprintf("%d:%s", i+1, f)
		if f == current {
			parts = append(parts, StyleFilterOn.Render(label))
		} else {
			parts = append(parts, StyleFilterOff.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m TodoModel) helpLine() string {
	if m.focus == focusInput {
		return "enter add • esc list • tab filter • ctrl+c quit"
	}
	return "space toggle • d delete • c clear completed • 1/2/3 filter • a add • q quit"
}
