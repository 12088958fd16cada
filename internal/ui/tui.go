// Package ui provides an optional terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasktrack/internal/render"
	"github.com/nibzard/tasktrack/internal/task"
)

var titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)

// RunTUI starts a read-only task viewer over the store in storageDir.
// The backing file is re-read every second, so changes made by other
// tasktrack invocations show up while the viewer is open.
func RunTUI(ctx context.Context, storageDir string) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(storageDir)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tuiModel struct {
	storageDir   string
	tasks        []task.Task
	loadErr      error
	filter       task.Status
	tickInterval time.Duration
}

type tickMsg time.Time

func newTUIModel(storageDir string) *tuiModel {
	return &tuiModel{
		storageDir:   storageDir,
		tickInterval: time.Second,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "t":
			m.filter = task.StatusTodo
			return m, nil
		case "p":
			m.filter = task.StatusInProgress
			return m, nil
		case "d":
			m.filter = task.StatusDone
			return m, nil
		case "a":
			m.filter = ""
			return m, nil
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}
	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tasktrack") + "\n\n")

	if m.loadErr != nil {
		b.WriteString("Error loading tasks:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	writeCounts(&b, m.tasks)

	if m.filter != "" {
		b.WriteString(fmt.Sprintf("Filter: %s (a to clear)\n\n", m.filter))
	}

	shown := m.tasks
	if m.filter != "" {
		var filtered []task.Task
		for _, t := range shown {
			if t.Status == m.filter {
				filtered = append(filtered, t)
			}
		}
		shown = filtered
	}

	b.WriteString(render.Render(shown))
	b.WriteString("\n\n")
	writeFooter(&b, m.tickInterval)
	return b.String()
}

func (m *tuiModel) refresh() {
	store, err := task.Open(m.storageDir)
	if err != nil {
		m.loadErr = err
		m.tasks = nil
		return
	}
	m.loadErr = store.LoadErr()
	m.tasks = store.List("")
}

func writeCounts(b *strings.Builder, tasks []task.Task) {
	counts := map[task.Status]int{}
	for _, t := range tasks {
		counts[t.Status]++
	}
	b.WriteString(fmt.Sprintf("  Todo: %d  In progress: %d  Done: %d\n\n",
		counts[task.StatusTodo],
		counts[task.StatusInProgress],
		counts[task.StatusDone],
	))
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(fmt.Sprintf("t/p/d filter by status | a show all | r refresh | q quit | Refreshing every %s\n", interval))
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}
