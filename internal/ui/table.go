package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nkoval/todosh/internal/todo"
)

// Column styles for the task table.
var (
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	taskStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	priStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dateStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	projectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	contextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	tableHeaders = []string{"ID", "Task", "Pri", "Status", "Created", "Done", "Projects", "Contexts"}
)

// row pairs a task with its 1-based store position. The position is what
// complete and remove take, so it stays in the ID column even when the
// listing is sorted or filtered.
type row struct {
	index int
	task  todo.Task
}

func indexTasks(tasks []todo.Task) []row {
	rows := make([]row, len(tasks))
	for i, t := range tasks {
		rows[i] = row{index: i + 1, task: t}
	}
	return rows
}

// parseListArgs understands the optional list arguments
// --sort=priority|status|task and --filter=pending|completed.
func parseListArgs(arg string) (sortBy, filterBy string, err error) {
	for _, f := range strings.Fields(arg) {
		switch {
		case strings.HasPrefix(f, "--sort="):
			sortBy = strings.TrimPrefix(f, "--sort=")
			if sortBy != "priority" && sortBy != "status" && sortBy != "task" {
				return "", "", fmt.Errorf("unknown sort column %q (priority|status|task)", sortBy)
			}
		case strings.HasPrefix(f, "--filter="):
			filterBy = strings.TrimPrefix(f, "--filter=")
			if filterBy != "pending" && filterBy != "completed" {
				return "", "", fmt.Errorf("unknown filter %q (pending|completed)", filterBy)
			}
		default:
			return "", "", fmt.Errorf("unknown list argument %q", f)
		}
	}
	return sortBy, filterBy, nil
}

// filterRows keeps pending or completed tasks; an empty filter keeps all.
func filterRows(rows []row, filterBy string) []row {
	if filterBy == "" {
		return rows
	}
	wantCompleted := filterBy == "completed"
	var out []row
	for _, r := range rows {
		if r.task.Completed == wantCompleted {
			out = append(out, r)
		}
	}
	return out
}

// sortRows reorders the listing. Tasks without a priority sort as "Z",
// after every prioritized task; file order is kept for ties.
func sortRows(rows []row, sortBy string) {
	switch sortBy {
	case "priority":
		sort.SliceStable(rows, func(i, j int) bool {
			return priorityKey(rows[i].task) < priorityKey(rows[j].task)
		})
	case "status":
		// Pending first.
		sort.SliceStable(rows, func(i, j int) bool {
			return !rows[i].task.Completed && rows[j].task.Completed
		})
	case "task":
		sort.SliceStable(rows, func(i, j int) bool {
			return strings.ToLower(rows[i].task.Description) < strings.ToLower(rows[j].task.Description)
		})
	}
}

func priorityKey(t todo.Task) string {
	if t.Priority == "" {
		return "Z"
	}
	return t.Priority
}

// renderTable draws the task listing as a bordered, colored table.
func renderTable(rows []row) string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		t := r.task
		status := successStyle.Render("✔ completed")
		if !t.Completed {
			status = errorStyle.Render("✖ pending")
		}
		data[i] = []string{
			idStyle.Render(strconv.Itoa(r.index)),
			taskStyle.Render(t.Description),
			priStyle.Render(dash(t.Priority)),
			status,
			dateStyle.Render(dash(t.CreatedDate)),
			dateStyle.Render(dash(t.CompletedDate)),
			projectStyle.Render(dash(joinTags("+", t.Projects))),
			contextStyle.Render(dash(joinTags("@", t.Contexts))),
		}
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(tableHeaders...).
		Rows(data...)
	return tbl.String()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinTags(marker string, tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = marker + tag
	}
	return strings.Join(out, ", ")
}
