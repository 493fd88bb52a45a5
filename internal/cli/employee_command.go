package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"timeclock/internal/api"
	"timeclock/internal/domain"
	"timeclock/internal/errors"
)

// EmployeeAddCommand registers an employee
type EmployeeAddCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          io.Writer

	Wage int64
}

// NewEmployeeAddCommand creates a new employee add command handler
func NewEmployeeAddCommand(app *App) *EmployeeAddCommand {
	return &EmployeeAddCommand{
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		out:          app.out,
	}
}

// Execute runs the employee add command
func (c *EmployeeAddCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.NewInvalidInputError("command", "employee add", "usage: tc employee add <id> <name> [--wage N]")
	}

	emp, err := c.businessAPI.AddEmployee(ctx, domain.Employee{ID: args[0], Name: args[1], HourlyWage: c.Wage})
	if err != nil {
		return c.errorHandler.Handle("add employee", err)
	}

	if emp.HasWage() {
		fmt.Fprintf(c.out, "Saved employee %s (%s) at %d/h\n", emp.ID, emp.Name, emp.HourlyWage)
	} else {
		fmt.Fprintf(c.out, "Saved employee %s (%s)\n", emp.ID, emp.Name)
	}
	return nil
}

// EmployeeListCommand prints the employee register
type EmployeeListCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          io.Writer
}

// NewEmployeeListCommand creates a new employee list command handler
func NewEmployeeListCommand(app *App) *EmployeeListCommand {
	return &EmployeeListCommand{
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		out:          app.out,
	}
}

// Execute runs the employee list command
func (c *EmployeeListCommand) Execute(ctx context.Context, args []string) error {
	emps, err := c.businessAPI.ListEmployees(ctx)
	if err != nil {
		return c.errorHandler.Handle("list employees", err)
	}
	if len(emps) == 0 {
		fmt.Fprintln(c.out, "No employees registered")
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tWAGE")
	for _, emp := range emps {
		wage := "-"
		if emp.HasWage() {
			wage = fmt.Sprintf("%d", emp.HourlyWage)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", emp.ID, emp.Name, wage)
	}
	return w.Flush()
}

// EmployeeRemoveCommand deletes an employee record
type EmployeeRemoveCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          io.Writer
}

// NewEmployeeRemoveCommand creates a new employee remove command handler
func NewEmployeeRemoveCommand(app *App) *EmployeeRemoveCommand {
	return &EmployeeRemoveCommand{
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		out:          app.out,
	}
}

// Execute runs the employee remove command
func (c *EmployeeRemoveCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "employee remove", "usage: tc employee remove <id>")
	}

	if err := c.businessAPI.RemoveEmployee(ctx, args[0]); err != nil {
		return c.errorHandler.Handle("remove employee", err)
	}
	fmt.Fprintf(c.out, "Removed employee %s\n", domain.CoerceID(args[0]))
	return nil
}
