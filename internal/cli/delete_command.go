package cli

import (
	"context"
	"fmt"
	"strconv"

	"timestrap/internal/errors"
)

// DeleteCommand deletes a work log and all of its time entries
type DeleteCommand struct {
	app *App
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app}
}

// Execute deletes the work log whose id is args[0]
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewValidationError("usage: timestrap delete WORKLOG_ID", nil)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return errors.NewInvalidInputError("id", args[0], "must be a positive number")
	}

	businessAPI, err := c.app.BusinessAPI(ctx)
	if err != nil {
		return err
	}
	w, err := businessAPI.GetWorkLog(ctx, id)
	if err != nil {
		return err
	}
	if err := businessAPI.DeleteWorkLog(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(c.app.out, "Deleted work log #%d: %s / %s (%d entries)\n", w.ID, w.ProjectName, w.Title, len(w.TimeEntries))
	return nil
}
