package cli

import (
	"context"
	"fmt"
	"os"

	"timestrap/internal/errors"
	"timestrap/internal/export"
	"timestrap/internal/tracker"
)

// ExportCommand writes the stored data as an xlsx workbook, mails it, or renders a
// sheet file as a PDF timesheet
type ExportCommand struct {
	app *App
	Out string
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{app: app}
}

// Execute dispatches on args[0]: excel [TABLE], email ADDRESS or pdf SHEET_FILE
func (c *ExportCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewValidationError("usage: timestrap export excel|email|pdf ...", nil)
	}
	switch args[0] {
	case "excel":
		return c.excel(ctx, args[1:])
	case "email":
		return c.email(ctx, args[1:])
	case "pdf":
		return c.pdf(args[1:])
	default:
		return errors.NewInvalidInputError("format", args[0], "must be one of excel, email, pdf")
	}
}

func (c *ExportCommand) excel(ctx context.Context, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	table, err := export.ParseTable(name)
	if err != nil {
		return err
	}

	businessAPI, err := c.app.BusinessAPI(ctx)
	if err != nil {
		return err
	}
	data, err := businessAPI.ExportWorkbook(ctx, table)
	if err != nil {
		return err
	}

	out := c.Out
	if out == "" {
		out = table.Filename()
	}
	if err := writeFile(out, data); err != nil {
		return err
	}
	fmt.Fprintf(c.app.out, "Exported %s to %s\n", table, out)
	return nil
}

func (c *ExportCommand) email(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewValidationError("usage: timestrap export email ADDRESS", nil)
	}
	businessAPI, err := c.app.BusinessAPI(ctx)
	if err != nil {
		return err
	}
	if err := businessAPI.EmailWorkbook(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(c.app.out, "Emailed export to %s\n", args[0])
	return nil
}

func (c *ExportCommand) pdf(args []string) error {
	if len(args) != 1 {
		return errors.NewValidationError("usage: timestrap export pdf SHEET_FILE", nil)
	}
	file, err := tracker.LoadSheetFile(args[0])
	if err != nil {
		return err
	}
	sheet, err := file.NewSheet(tracker.Session{}, tracker.Options{
		Clock:     c.app.clock(),
		Validator: c.app.validator(),
		Logger:    c.app.logger,
	})
	if err != nil {
		return err
	}

	bundle := sheet.Bundle()
	data, err := export.TimesheetPDF(bundle)
	if err != nil {
		return err
	}
	out := c.Out
	if out == "" {
		out = fmt.Sprintf("timesheet_%s_%s.pdf", bundle.Employee.EmployeeID, bundle.Date)
	}
	if err := writeFile(out, data); err != nil {
		return err
	}
	fmt.Fprintf(c.app.out, "Rendered timesheet to %s\n", out)
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewInvalidInputError("out", path, fmt.Sprintf("cannot write file: %v", err))
	}
	return nil
}
