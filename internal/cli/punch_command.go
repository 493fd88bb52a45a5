package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"timeclock/internal/api"
	"timeclock/internal/errors"
	"timeclock/internal/services"
)

// PunchCommand records one punch for an employee
type PunchCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          io.Writer

	Position string
	Name     string
}

// NewPunchCommand creates a new punch command handler
func NewPunchCommand(app *App) *PunchCommand {
	return &PunchCommand{
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		out:          app.out,
	}
}

// Execute runs the punch command. args are the employee id and the punch label.
func (c *PunchCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.NewInvalidInputError("command", "punch", "usage: tc punch <employee-id> <出勤|退勤|休憩開始|休憩終了>")
	}

	result, err := c.businessAPI.Punch(ctx, services.PunchRequest{
		EmployeeID:   args[0],
		EmployeeName: c.Name,
		PunchType:    args[1],
		Position:     c.Position,
	})
	if err != nil {
		return c.errorHandler.Handle("record punch", err)
	}

	p := result.Punch
	fmt.Fprintf(c.out, "%s %s %s %s", p.EmployeeID, p.EmployeeName, p.PunchType, p.Timestamp.Format("2006-01-02 15:04:05"))
	if p.Position != "" {
		fmt.Fprintf(c.out, " @%s", p.Position)
	}
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "State: %s\n", result.State)
	printNextActions(c.out, result.NextActions)
	return nil
}

func printNextActions(out io.Writer, actions []string) {
	if len(actions) == 0 {
		fmt.Fprintln(out, "Next: none")
		return
	}
	fmt.Fprintf(out, "Next: %s\n", strings.Join(actions, ", "))
}
