// Package export writes the task list in portable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/nibzard/tasktrack/internal/task"
)

// Formats lists the supported export formats.
func Formats() []string {
	return []string{"json", "csv", "pdf"}
}

// Write renders tasks to w in the given format (json, csv, or pdf).
func Write(w io.Writer, tasks []task.Task, format string) error {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return err
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"id", "description", "status", "createdAt", "updatedAt"}); err != nil {
			return err
		}
		for _, t := range tasks {
			record := []string{
				strconv.Itoa(t.ID),
				t.Description,
				string(t.Status),
				t.CreatedAt.String(),
				t.UpdatedAt.String(),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case "pdf":
		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(40, 10, "Task Report")
		pdf.Ln(12)
		pdf.SetFont("Arial", "", 10)
		if len(tasks) == 0 {
			pdf.MultiCell(0, 6, "No tasks found.", "0", "L", false)
		}
		for _, t := range tasks {
			line := fmt.Sprintf("#%d [%s] %s (created %s, updated %s)",
				t.ID, t.Status, t.Description, t.CreatedAt, t.UpdatedAt)
			pdf.MultiCell(0, 6, line, "0", "L", false)
		}
		return pdf.Output(w)
	default:
		return fmt.Errorf("unknown format %q, must be one of: %s", format, strings.Join(Formats(), ", "))
	}
}
