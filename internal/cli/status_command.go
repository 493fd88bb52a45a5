package cli

import (
	"context"
	"fmt"
	"io"

	"timeclock/internal/api"
	"timeclock/internal/errors"
)

// StatusCommand shows where an employee is in today's punch sequence
type StatusCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          io.Writer
}

// NewStatusCommand creates a new status command handler
func NewStatusCommand(app *App) *StatusCommand {
	return &StatusCommand{
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		out:          app.out,
	}
}

// Execute runs the status command
func (c *StatusCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "status", "usage: tc status <employee-id>")
	}

	status, err := c.businessAPI.Status(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("get status", err)
	}

	fmt.Fprintf(c.out, "%s %s\n", status.EmployeeID, status.Name)
	fmt.Fprintf(c.out, "State: %s\n", status.State)
	if status.LastPunch != nil {
		fmt.Fprintf(c.out, "Last: %s %s\n", status.LastPunch.PunchType, status.LastPunch.Timestamp.Format("15:04:05"))
	} else {
		fmt.Fprintln(c.out, "Last: no punches today")
	}
	printNextActions(c.out, status.NextActions)
	return nil
}
