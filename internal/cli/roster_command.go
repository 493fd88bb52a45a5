package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"timeclock/internal/api"
	"timeclock/internal/services"
)

// RosterCommand prints the day's work and break segments for every employee
type RosterCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	app          *App

	Date string
	Live bool
	JSON bool
}

// NewRosterCommand creates a new roster command handler
func NewRosterCommand(app *App) *RosterCommand {
	return &RosterCommand{
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		app:          app,
	}
}

// Execute runs the roster command
func (c *RosterCommand) Execute(ctx context.Context, args []string) error {
	roster, err := c.businessAPI.Roster(ctx, c.Date, c.Live)
	if err != nil {
		return c.errorHandler.Handle("build roster", err)
	}
	if c.JSON {
		return c.app.printJSON(roster)
	}

	out := c.app.out
	fmt.Fprintf(out, "Roster %s (%s, %s-%s)\n", roster.Date, roster.Mode, roster.Open, roster.Close)
	if len(roster.Schedules) == 0 {
		fmt.Fprintln(out, "No punches for this day")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tWORK\tBREAKS")
	for _, s := range roster.Schedules {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.EmployeeID, s.Name, formatSegments(s.Work, true), formatSegments(s.Breaks, false))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if roster.SkippedCount > 0 {
		fmt.Fprintf(out, "Skipped %d malformed punches\n", roster.SkippedCount)
	}
	return nil
}

// formatSegments renders segments as "09:00-12:00@レジ". Open segments end with "*".
func formatSegments(segments []services.SegmentView, withPosition bool) string {
	if len(segments) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		part := s.Start.Format("15:04") + "-" + s.End.Format("15:04")
		if s.Open {
			part += "*"
		}
		if withPosition && s.Position != "" {
			part += "@" + s.Position
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

// AdminCommand prints the store-wide summary for a day
type AdminCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	app          *App

	Date string
	JSON bool
}

// NewAdminCommand creates a new admin command handler
func NewAdminCommand(app *App) *AdminCommand {
	return &AdminCommand{
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		app:          app,
	}
}

// Execute runs the admin command
func (c *AdminCommand) Execute(ctx context.Context, args []string) error {
	summary, err := c.businessAPI.AdminSummary(ctx, c.Date)
	if err != nil {
		return c.errorHandler.Handle("build admin summary", err)
	}
	if c.JSON {
		return c.app.printJSON(summary)
	}
	return printAdminSummary(c.app.out, summary)
}

func printAdminSummary(out io.Writer, s *services.AdminSummary) error {
	fmt.Fprintf(out, "Date: %s\n", s.Date)
	fmt.Fprintf(out, "On shift: %d\n", s.HeadcountNow)
	fmt.Fprintf(out, "Total work: %s\n", s.TotalWork)
	fmt.Fprintf(out, "Labor cost: %d\n", s.LaborCost)

	if len(s.PosCount) > 0 {
		positions := make([]string, 0, len(s.PosCount))
		for pos := range s.PosCount {
			positions = append(positions, pos)
		}
		sort.Strings(positions)
		parts := make([]string, 0, len(positions))
		for _, pos := range positions {
			parts = append(parts, fmt.Sprintf("%s=%d", pos, s.PosCount[pos]))
		}
		fmt.Fprintf(out, "Positions: %s\n", strings.Join(parts, " "))
	}

	if len(s.ActiveList) == 0 {
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPOSITION\tIN\tELAPSED\tBREAK")
	for _, a := range s.ActiveList {
		onBreak := ""
		if a.OnBreak {
			onBreak = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", a.EmployeeID, a.Name, a.Position, a.ClockInAt, a.Elapsed, onBreak)
	}
	return w.Flush()
}
