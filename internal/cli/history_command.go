package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"timeclock/internal/api"
	"timeclock/internal/errors"
	"timeclock/internal/services"
)

// HistoryCommand lists an employee's punches with the time spent in each state
type HistoryCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	app          *App

	Days int
	From string
	To   string
	JSON bool
}

// NewHistoryCommand creates a new history command handler
func NewHistoryCommand(app *App) *HistoryCommand {
	return &HistoryCommand{
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		app:          app,
	}
}

// Execute runs the history command
func (c *HistoryCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "history", "usage: tc history <employee-id> [--days N] [--from DATE] [--to DATE]")
	}

	q := services.HistoryQuery{Days: c.Days}
	if c.From != "" {
		from, err := c.businessAPI.ParseDay(ctx, c.From)
		if err != nil {
			return c.errorHandler.Handle("parse --from", err)
		}
		q.From = &from
	}
	if c.To != "" {
		to, err := c.businessAPI.ParseDay(ctx, c.To)
		if err != nil {
			return c.errorHandler.Handle("parse --to", err)
		}
		q.To = &to
	}

	report, err := c.businessAPI.History(ctx, args[0], q)
	if err != nil {
		return c.errorHandler.Handle("get history", err)
	}
	if c.JSON {
		return c.app.printJSON(report)
	}
	return c.print(c.app.out, report)
}

func (c *HistoryCommand) print(out io.Writer, report *services.HistoryReport) error {
	fmt.Fprintf(out, "History for %s (%s - %s)\n", report.EmployeeID,
		report.Range.From.Format("2006-01-02"), report.Range.To.Format("2006-01-02"))

	if len(report.Entries) == 0 {
		fmt.Fprintln(out, "No punches found")
	} else {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tTIME\tTYPE\tPOSITION\tDURATION")
		for _, e := range report.Entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				e.Timestamp.Format("2006-01-02"), e.Timestamp.Format("15:04:05"), e.PunchType, e.Position, e.Duration)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Today: %s", report.TodayWork)
	if report.Today.ClockedOut {
		fmt.Fprintf(out, " (pay %d)", report.Today.Pay)
	}
	fmt.Fprintln(out)
	if report.SkippedCount > 0 {
		fmt.Fprintf(out, "Skipped %d malformed punches\n", report.SkippedCount)
	}
	return nil
}
