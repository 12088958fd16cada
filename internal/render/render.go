// Package render formats task lists for terminal display.
package render

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nibzard/tasktrack/internal/task"
)

// EmptyMessage is printed instead of an empty table.
const EmptyMessage = "No tasks found."

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Table renders tasks as a bordered table with columns Id,
// Description, Status, Created At, Updated At.
func Table(tasks []task.Task) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("ID", "DESCRIPTION", "STATUS", "CREATED AT", "UPDATED AT")

	for _, tk := range tasks {
		t.Row(
			strconv.Itoa(tk.ID),
			tk.Description,
			string(tk.Status),
			tk.CreatedAt.String(),
			tk.UpdatedAt.String(),
		)
	}

	return t.Render()
}

// Render returns the table for tasks, or EmptyMessage when there are
// none.
func Render(tasks []task.Task) string {
	if len(tasks) == 0 {
		return EmptyMessage
	}
	return Table(tasks)
}
