package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"timestrap/internal/domain"
	"timestrap/internal/errors"
)

// SummaryCommand shows the accumulated day of one employee against a shift
type SummaryCommand struct {
	app   *App
	Shift string
}

// NewSummaryCommand creates a new summary command handler
func NewSummaryCommand(app *App) *SummaryCommand {
	return &SummaryCommand{app: app, Shift: string(domain.DefaultShift)}
}

// Execute prints the summary for employee args[0] on date args[1] (today when omitted)
func (c *SummaryCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errors.NewValidationError("usage: timestrap summary EMPLOYEE_ID [DATE]", nil)
	}
	date := domain.FormatDate(timeNow())
	if len(args) == 2 {
		date = args[1]
	}

	businessAPI, err := c.app.BusinessAPI(ctx)
	if err != nil {
		return err
	}
	summary, err := businessAPI.DaySummary(ctx, args[0], date, c.Shift)
	if err != nil {
		return err
	}

	c.printSummary(summary)
	return nil
}

func (c *SummaryCommand) printSummary(s *domain.DaySummary) {
	out := c.app.out
	title := fmt.Sprintf("%s (%s) on %s", s.Employee.EmployeeName, s.Employee.EmployeeID, s.Date)
	fmt.Fprintf(out, "\nSummary for: %s\n", title)
	fmt.Fprintln(out, strings.Repeat("=", len(title)+13))

	fmt.Fprintf(out, "%-20s %-20s %-10s %s\n", "Start Time", "End Time", "Duration", "Task")
	fmt.Fprintln(out, strings.Repeat("-", 75))

	type row struct {
		entry domain.TimeEntry
		task  string
	}
	var rows []row
	for _, w := range s.WorkLogs {
		for _, e := range w.TimeEntries {
			rows = append(rows, row{entry: e, task: w.ProjectName + " / " + w.Title})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].entry.StartTime.Before(rows[j].entry.StartTime)
	})
	for _, r := range rows {
		fmt.Fprintf(out, "%-20s %-20s %-10s %s\n",
			r.entry.StartTime.Format("2006-01-02 15:04:05"),
			r.entry.EndTime.Format("2006-01-02 15:04:05"),
			formatDuration(r.entry.Seconds()),
			r.task)
	}
	fmt.Fprintln(out, strings.Repeat("-", 75))

	fmt.Fprintf(out, "Work Logs: %d, Entries: %d\n", len(s.WorkLogs), len(rows))
	fmt.Fprintf(out, "Total Time: %s of %s (%s shift)\n",
		domain.FormatClock(s.TotalSeconds), domain.FormatClock(s.Shift.TargetSeconds()), s.Shift)
	if s.Submittable {
		fmt.Fprintln(out, "Shift target reached: ready to submit")
	} else {
		fmt.Fprintf(out, "Remaining: %s\n", domain.FormatClock(s.Shift.TargetSeconds()-s.TotalSeconds))
	}

	c.printAnalytics(s.Analytics)
}

func (c *SummaryCommand) printAnalytics(a domain.DayAnalytics) {
	if len(a.Tasks) == 0 {
		return
	}
	out := c.app.out
	fmt.Fprintln(out, "\nAnalytics")
	fmt.Fprintln(out, strings.Repeat("-", 75))
	for _, t := range a.Tasks {
		fmt.Fprintf(out, "%-10s %4d%%  %s / %s\n", domain.FormatClock(t.Seconds), t.CompletionPercent, t.Project, t.Title)
	}
	if len(a.Tools) > 0 {
		tools := make([]string, len(a.Tools))
		for i, u := range a.Tools {
			tools[i] = fmt.Sprintf("%s (%d)", u.Tool, u.Tasks)
		}
		fmt.Fprintf(out, "Tools: %s\n", strings.Join(tools, ", "))
	}
	fmt.Fprintf(out, "Completion: %.0f%% average, %d of %d complete\n", a.AverageCompletion, a.CompletedTasks, len(a.Tasks))
}
