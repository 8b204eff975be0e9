package cli

import (
	"context"
	"fmt"
	"sort"

	"timestrap/internal/domain"
)

// ListCommand lists stored work logs
type ListCommand struct {
	app  *App
	Date string
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app}
}

// Execute lists every work log, or those of the employee named by args[0]
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	businessAPI, err := c.app.BusinessAPI(ctx)
	if err != nil {
		return err
	}

	var logs []domain.WorkLog
	if len(args) > 0 {
		logs, err = businessAPI.ListEmployeeWorkLogs(ctx, args[0], c.Date)
	} else {
		logs, err = businessAPI.ListWorkLogs(ctx)
		logs = filterByDate(logs, c.Date)
	}
	if err != nil {
		return err
	}

	return c.printWorkLogs(logs)
}

// printWorkLogs prints one line per work log in the format:
// #id date employee (duration) [shift] project / title, percent
func (c *ListCommand) printWorkLogs(logs []domain.WorkLog) error {
	if len(logs) == 0 {
		fmt.Fprintln(c.app.out, "No work logs found")
		return nil
	}

	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].Date != logs[j].Date {
			return logs[i].Date < logs[j].Date
		}
		return logs[i].ID < logs[j].ID
	})

	for _, w := range logs {
		status := fmt.Sprintf("%d%%", w.CompletionPercent)
		if w.IsComplete {
			status += ", complete"
		}
		fmt.Fprintf(c.app.out, "#%d %s %s (%s) [%s] %s / %s, %s\n",
			w.ID, w.Date, w.EmployeeCode, formatDuration(int64(w.TotalMinutes)*60), w.Shift,
			w.ProjectName, w.Title, status)
	}
	return nil
}

func filterByDate(logs []domain.WorkLog, date string) []domain.WorkLog {
	if date == "" {
		return logs
	}
	out := logs[:0]
	for _, w := range logs {
		if w.Date == date {
			out = append(out, w)
		}
	}
	return out
}
