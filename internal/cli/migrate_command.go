package cli

import (
	"context"
	"fmt"

	"timestrap/internal/errors"
)

// MigrateCommand applies, reverts and reports schema migrations
type MigrateCommand struct {
	app *App
}

// NewMigrateCommand creates a new migrate command handler
func NewMigrateCommand(app *App) *MigrateCommand {
	return &MigrateCommand{app: app}
}

// Execute runs "up", "down" or "status"; no argument means "up"
func (c *MigrateCommand) Execute(ctx context.Context, args []string) error {
	action := "up"
	if len(args) > 0 {
		action = args[0]
	}

	store, err := c.app.Store(ctx)
	if err != nil {
		return err
	}
	runner := store.Migrator()

	switch action {
	case "up":
		applied, err := runner.Up(ctx)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Fprintln(c.app.out, "Database is up to date.")
			return nil
		}
		for _, version := range applied {
			fmt.Fprintf(c.app.out, "Applied migration %06d\n", version)
		}
	case "down":
		version, err := runner.Down(ctx)
		if err != nil {
			return err
		}
		if version == 0 {
			fmt.Fprintln(c.app.out, "No migrations to revert.")
			return nil
		}
		fmt.Fprintf(c.app.out, "Reverted migration %06d\n", version)
	case "status":
		statuses, err := runner.Status(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.app.out, "%-8s %-40s %s\n", "Version", "Name", "Applied")
		for _, s := range statuses {
			applied := "no"
			if s.Applied {
				applied = "yes"
			}
			fmt.Fprintf(c.app.out, "%06d   %-40s %s\n", s.Version, s.Name, applied)
		}
	default:
		return errors.NewInvalidInputError("action", action, "must be one of up, down, status")
	}
	return nil
}
