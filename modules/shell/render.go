package shell

import (
	"fmt"

	"github.com/deymon-d/task-manager-with-tests/modules/task"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	createdLayout     = "02.01.2006 15:04"
	createdDateLayout = "02.01.2006"
)

func (s *Shell) newTable(title string) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(s.out)
	tw.SetTitle(title)
	tw.SetStyle(table.StyleLight)
	tw.Style().Options.SeparateRows = true
	return tw
}

func (s *Shell) renderAllTasks(tasks []task.TaskResponse) {
	tw := s.newTable("All tasks")
	tw.AppendHeader(table.Row{"ID", "Title", "Description", "Status", "Created", "Due"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "ID", Colors: text.Colors{text.FgCyan}},
		{Name: "Title", Colors: text.Colors{text.FgMagenta}, WidthMax: 30},
		{Name: "Description", Colors: text.Colors{text.FgGreen}, WidthMax: 40},
		{Name: "Created", Colors: text.Colors{text.FgBlue}},
		{Name: "Due", Colors: text.Colors{text.FgRed}},
	})

	for _, t := range tasks {
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Format(createdDateLayout)
		}
		tw.AppendRow(table.Row{
			t.ID,
			t.Title,
			orDash(t.Description),
			status(t.Completed),
			t.CreatedAt.Format(createdLayout),
			due,
		})
	}
	tw.Render()
}

func (s *Shell) renderPendingTasks(tasks []task.TaskResponse) {
	tw := s.newTable("Pending tasks")
	tw.AppendHeader(table.Row{"ID", "Title", "Description", "Created"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "ID", Colors: text.Colors{text.FgCyan}},
		{Name: "Title", Colors: text.Colors{text.FgMagenta}, WidthMax: 30},
		{Name: "Description", Colors: text.Colors{text.FgGreen}, WidthMax: 40},
	})

	for _, t := range tasks {
		tw.AppendRow(table.Row{t.ID, t.Title, orDash(t.Description), t.CreatedAt.Format(createdDateLayout)})
	}
	tw.Render()
}

func (s *Shell) renderStats(stats *task.StatsResponse) {
	tw := s.newTable("Statistics")
	tw.AppendHeader(table.Row{"Metric", "Value"})
	tw.AppendRow(table.Row{"Total tasks", stats.Total})
	tw.AppendRow(table.Row{"Completed", stats.Completed})
	tw.AppendRow(table.Row{"Pending", stats.Pending})
	if stats.Total > 0 {
		tw.AppendRow(table.Row{"Completion rate", fmt.Sprintf("%.1f%%", stats.CompletionRate)})
	}
	tw.Render()
}

func status(completed bool) string {
	if completed {
		return text.FgGreen.Sprint("Done")
	}
	return text.FgYellow.Sprint("In progress")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
