package cli

import (
	"context"
	"fmt"
	"io"

	"timeclock/internal/api"
	"timeclock/internal/domain"
	"timeclock/internal/errors"
)

// SummaryCommand prints worked time and pay for today, this month and this year
type SummaryCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	app          *App

	Period string
	Live   bool
	JSON   bool
}

// NewSummaryCommand creates a new summary command handler
func NewSummaryCommand(app *App) *SummaryCommand {
	return &SummaryCommand{
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		app:          app,
	}
}

// Execute runs the summary command. With --period only that total is printed.
func (c *SummaryCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "summary", "usage: tc summary <employee-id> [--period today|month|year] [--live]")
	}
	id := args[0]

	if c.Period != "" {
		total, err := c.businessAPI.PeriodTotals(ctx, id, c.Period, c.Live)
		if err != nil {
			return c.errorHandler.Handle("get totals", err)
		}
		if c.JSON {
			return c.app.printJSON(total)
		}
		printPeriod(c.app.out, *total)
		return nil
	}

	summary, err := c.businessAPI.Summary(ctx, id, c.Live)
	if err != nil {
		return c.errorHandler.Handle("get summary", err)
	}
	if c.JSON {
		return c.app.printJSON(summary)
	}

	out := c.app.out
	fmt.Fprintf(out, "%s %s (%s, %d/h)\n", summary.EmployeeID, summary.Name, summary.Mode, summary.HourlyWage)
	printPeriod(out, summary.Today)
	printPeriod(out, summary.Month)
	printPeriod(out, summary.Year)
	inc := summary.Income
	fmt.Fprintf(out, "Income: %d / %d (%d%%), remaining %d\n", inc.Earned, inc.Limit, inc.Percent, inc.Remaining)
	return nil
}

func printPeriod(out io.Writer, total domain.PeriodTotal) {
	fmt.Fprintf(out, "%-6s %8s  break %-8s pay %d\n",
		total.Period, domain.FormatMinutes(total.Minutes), domain.FormatMinutes(total.BreakMinutes), total.Pay)
}
