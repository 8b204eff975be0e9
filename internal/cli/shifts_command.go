package cli

import (
	"context"
	"fmt"

	"timestrap/internal/domain"
)

// ShiftsCommand prints the shift table
type ShiftsCommand struct {
	app *App
}

// NewShiftsCommand creates a new shifts command handler
func NewShiftsCommand(app *App) *ShiftsCommand {
	return &ShiftsCommand{app: app}
}

// Execute prints every shift with its target
func (c *ShiftsCommand) Execute(ctx context.Context, args []string) error {
	fmt.Fprintf(c.app.out, "%-6s %-10s %s\n", "Shift", "Target", "Seconds")
	for _, shift := range domain.Shifts() {
		marker := ""
		if shift == domain.DefaultShift {
			marker = " (default)"
		}
		fmt.Fprintf(c.app.out, "%-6s %-10s %d%s\n", shift, formatDuration(shift.TargetSeconds()), shift.TargetSeconds(), marker)
	}
	return nil
}
