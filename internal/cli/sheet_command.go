package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"timestrap/internal/domain"
	"timestrap/internal/errors"
	"timestrap/internal/tracker"
)

// SheetCommand works on a YAML sheet file: total, submit or record
type SheetCommand struct {
	app *App

	// Server is the base URL of a running server; empty means the configured one
	Server string
	// Local saves through the configured database instead of a server
	Local bool
	// Wait bounds how long submit keeps retrying failed saves
	Wait time.Duration
	// Interval is the refresh period of record
	Interval time.Duration
}

// NewSheetCommand creates a new sheet command handler
func NewSheetCommand(app *App) *SheetCommand {
	return &SheetCommand{app: app, Interval: time.Second}
}

// Execute dispatches on args[0] with the sheet file in args[1]
func (c *SheetCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.NewValidationError("usage: timestrap sheet total|submit|record FILE", nil)
	}
	switch args[0] {
	case "total":
		return c.total(args[1])
	case "submit":
		return c.submit(ctx, args[1])
	case "record":
		return c.record(ctx, args[1])
	default:
		return errors.NewInvalidInputError("action", args[0], "must be one of total, submit, record")
	}
}

func (c *SheetCommand) options() tracker.Options {
	return tracker.Options{
		Clock:     c.app.clock(),
		Retry:     tracker.RetryPolicyFromConfig(c.app.config.Outbox),
		Validator: c.app.validator(),
		Logger:    c.app.logger.With().Str("component", "tracker").Logger(),
	}
}

func (c *SheetCommand) total(path string) error {
	file, err := tracker.LoadSheetFile(path)
	if err != nil {
		return err
	}
	sheet, err := file.NewSheet(tracker.Session{}, c.options())
	if err != nil {
		return err
	}
	c.printTotals(sheet)
	return nil
}

func (c *SheetCommand) printTotals(sheet *tracker.Sheet) {
	out := c.app.out
	session := sheet.Session()
	fmt.Fprintf(out, "%s (%s) on %s, %s shift\n", session.EmployeeName, session.EmployeeID, sheet.Date(), sheet.Shift())
	for _, task := range sheet.Tasks() {
		status := fmt.Sprintf("%d%%", task.CompletionPercent)
		if task.IsComplete {
			status += ", complete"
		}
		fmt.Fprintf(out, "  %-10s %s / %s (%s)\n", domain.FormatClock(task.Seconds()), task.Project, task.Title, status)
	}
	total := sheet.Total()
	fmt.Fprintf(out, "Total: %s of %s\n", domain.FormatClock(total), domain.FormatClock(sheet.Shift().TargetSeconds()))
	if sheet.Submittable() {
		fmt.Fprintln(out, "Submittable: yes")
	} else {
		fmt.Fprintf(out, "Submittable: no (%s remaining)\n", domain.FormatClock(sheet.Shift().TargetSeconds()-total))
	}
}

// backend returns the persister and gateway for submit along with the session to use
func (c *SheetCommand) backend(ctx context.Context, file *tracker.SheetFile) (tracker.Persister, tracker.Gateway, tracker.Session, error) {
	server := c.Server
	if server == "" {
		server = c.app.config.Client.ServerURL
	}
	if server != "" && !c.Local {
		remote := tracker.NewHTTPBackend(server, c.app.config.Client.RequestTimeout)
		session, err := remote.Login(ctx, file.Employee.ID, file.Employee.Name)
		if err != nil {
			return nil, nil, tracker.Session{}, err
		}
		return remote, remote, session, nil
	}

	businessAPI, err := c.app.BusinessAPI(ctx)
	if err != nil {
		return nil, nil, tracker.Session{}, err
	}
	if _, err := businessAPI.Login(ctx, file.Employee.ID, file.Employee.Name); err != nil {
		return nil, nil, tracker.Session{}, err
	}
	local := tracker.NewLocalBackend(businessAPI)
	return local, local, file.Session(), nil
}

func (c *SheetCommand) submit(ctx context.Context, path string) error {
	file, err := tracker.LoadSheetFile(path)
	if err != nil {
		return err
	}
	if err := file.Session().Validate(); err != nil {
		return err
	}
	persister, gateway, session, err := c.backend(ctx, file)
	if err != nil {
		return err
	}

	opts := c.options()
	opts.Persister = persister
	opts.Gateway = gateway
	sheet, err := file.NewSheet(session, opts)
	if err != nil {
		return err
	}

	if _, err := sheet.Flush(ctx); err != nil {
		return err
	}
	if c.Wait > 0 && sheet.Outbox().Pending() > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, c.Wait)
		err := tracker.NewDispatcher(sheet, c.app.config.Outbox.PollInterval, c.app.logger).Drain(waitCtx)
		cancel()
		if err != nil && !stderrors.Is(err, context.DeadlineExceeded) {
			return err
		}
	}

	file.Capture(sheet)
	if err := file.Save(path); err != nil {
		return err
	}
	if err := c.reportIntents(sheet); err != nil {
		return err
	}
	if err := sheet.Submit(ctx); err != nil {
		return err
	}
	fmt.Fprintf(c.app.out, "Submitted timesheet for %s on %s (%s)\n",
		session.EmployeeID, sheet.Date(), domain.FormatClock(sheet.Total()))
	return nil
}

// reportIntents prints the save outcome and fails when any task could not be saved
func (c *SheetCommand) reportIntents(sheet *tracker.Sheet) error {
	var delivered int
	var problems []string
	for _, intent := range sheet.Outbox().Intents() {
		switch intent.Status {
		case tracker.IntentDelivered:
			delivered++
		case tracker.IntentRejected:
			problems = append(problems, fmt.Sprintf("task %s rejected: %s", intent.TaskID, intent.LastError))
		default:
			problems = append(problems, fmt.Sprintf("task %s pending after %d attempt(s): %s", intent.TaskID, intent.Attempts, intent.LastError))
		}
	}
	fmt.Fprintf(c.app.out, "Saved %d task(s)\n", delivered)
	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintf(c.app.out, "  %s\n", p)
		}
		return errors.NewDeliveryError("backend", fmt.Errorf("%d task(s) not saved: %s", len(problems), strings.Join(problems, "; ")))
	}
	return nil
}

func (c *SheetCommand) record(ctx context.Context, path string) error {
	file, err := tracker.LoadSheetFile(path)
	if err != nil {
		return err
	}
	sheet, err := file.NewSheet(tracker.Session{}, c.options())
	if err != nil {
		return err
	}

	sheet.StartRecording()
	fmt.Fprintf(c.app.out, "Recording for %s on %s. Press Ctrl+C to stop.\n", file.Employee.ID, sheet.Date())
	err = sheet.Watch(ctx, c.Interval, func(tick tracker.Tick) {
		fmt.Fprintf(c.app.out, "  %s elapsed, day total %s of %s\n",
			domain.FormatClock(tick.Elapsed), domain.FormatClock(tick.Total), domain.FormatClock(sheet.Shift().TargetSeconds()))
	})
	if err != nil && !stderrors.Is(err, context.Canceled) && !stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}

	task, ok := sheet.StopRecording()
	if !ok {
		return nil
	}
	file.Tasks = append(file.Tasks, task)
	if err := file.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(c.app.out, "Recorded %s into %s\n", domain.FormatClock(task.Seconds()), path)
	return nil
}
