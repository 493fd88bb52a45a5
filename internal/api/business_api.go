package api

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"timeclock/internal/domain"
	"timeclock/internal/errors"
	"timeclock/internal/logging"
	"timeclock/internal/services"
)

// ImportBatch is a set of employees and punch rows read from one source.
type ImportBatch struct {
	Source    string
	Employees []domain.Employee
	Punches   []domain.RawRecord
}

// BusinessAPI defines the time clock operations used by the CLI and HTTP layers
type BusinessAPI interface {
	// ========== Employees ==========

	// AddEmployee registers a new employee; the id must be unused
	AddEmployee(ctx context.Context, emp domain.Employee) (*domain.Employee, error)

	// GetEmployee returns a single employee by id
	GetEmployee(ctx context.Context, id string) (*domain.Employee, error)

	// ListEmployees returns every registered employee ordered by id
	ListEmployees(ctx context.Context) ([]domain.Employee, error)

	// RemoveEmployee deletes an employee record; their punches are kept
	RemoveEmployee(ctx context.Context, id string) error

	// ========== Punch Workflows ==========

	// Punch records a clock-in, clock-out or break punch at the current time
	Punch(ctx context.Context, req services.PunchRequest) (*services.PunchResult, error)

	// Status returns the employee's last punch today and the allowed next punches
	Status(ctx context.Context, employeeID string) (*services.EmployeeStatus, error)

	// ========== Reporting ==========

	// History returns annotated punches newest first with today's total
	History(ctx context.Context, employeeID string, q services.HistoryQuery) (*services.HistoryReport, error)

	// Summary returns today, month and year totals plus income progress
	Summary(ctx context.Context, employeeID string, live bool) (*services.EmployeeSummary, error)

	// PeriodTotals totals "today", "month" or "year"
	PeriodTotals(ctx context.Context, employeeID string, period string, live bool) (*domain.PeriodTotal, error)

	// ========== Roster ==========

	// Roster returns the day's schedules; an empty date means today
	Roster(ctx context.Context, date string, live bool) (*services.Roster, error)

	// AdminSummary returns headcount, labor cost and the active list for a day
	AdminSummary(ctx context.Context, date string) (*services.AdminSummary, error)

	// ========== Import ==========

	// Import upserts employees and appends punches from a spreadsheet
	Import(ctx context.Context, batch ImportBatch) (*services.ImportResult, error)

	// ParseDay reads a YYYY-MM-DD day in the clock's zone; empty means today
	ParseDay(ctx context.Context, s string) (time.Time, error)
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	services *services.ServiceContainer
	logger   *slog.Logger
}

// NewBusinessAPI creates a new BusinessAPI instance
func NewBusinessAPI(container *services.ServiceContainer, logger *slog.Logger) BusinessAPI {
	if logger == nil {
		logger = logging.Discard()
	}
	return &businessAPIImpl{services: container, logger: logger}
}

func aggregationMode(live bool) domain.AggregationMode {
	if live {
		return domain.Live
	}
	return domain.Confirmed
}

func sessionMode(live bool) domain.OpenSessionMode {
	if live {
		return domain.LiveUntilNow
	}
	return domain.ConfirmedOnly
}

// ========== Employees ==========

func (b *businessAPIImpl) AddEmployee(ctx context.Context, emp domain.Employee) (*domain.Employee, error) {
	return b.services.EmployeeService.CreateEmployee(ctx, emp)
}

func (b *businessAPIImpl) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	return b.services.EmployeeService.FetchEmployee(ctx, id)
}

func (b *businessAPIImpl) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return b.services.EmployeeService.FetchEmployees(ctx)
}

func (b *businessAPIImpl) RemoveEmployee(ctx context.Context, id string) error {
	if err := b.services.EmployeeService.DeleteEmployee(ctx, id); err != nil {
		return err
	}
	// cached rosters carry the removed name
	b.services.RosterService.Purge()
	return nil
}

// ========== Punch Workflows ==========

func (b *businessAPIImpl) Punch(ctx context.Context, req services.PunchRequest) (*services.PunchResult, error) {
	return b.services.PunchService.Punch(ctx, req)
}

func (b *businessAPIImpl) Status(ctx context.Context, employeeID string) (*services.EmployeeStatus, error) {
	return b.services.StatusService.Status(ctx, employeeID)
}

// ========== Reporting ==========

func (b *businessAPIImpl) History(ctx context.Context, employeeID string, q services.HistoryQuery) (*services.HistoryReport, error) {
	return b.services.ReportingService.History(ctx, employeeID, q)
}

func (b *businessAPIImpl) Summary(ctx context.Context, employeeID string, live bool) (*services.EmployeeSummary, error) {
	return b.services.ReportingService.Summary(ctx, employeeID, aggregationMode(live))
}

func (b *businessAPIImpl) PeriodTotals(ctx context.Context, employeeID string, period string, live bool) (*domain.PeriodTotal, error) {
	p, ok := domain.ParsePeriod(strings.ToLower(strings.TrimSpace(period)))
	if !ok {
		return nil, errors.NewInvalidInputError("period", period, "must be today, month or year")
	}
	return b.services.ReportingService.PeriodTotals(ctx, employeeID, p, aggregationMode(live))
}

// ========== Roster ==========

func (b *businessAPIImpl) Roster(ctx context.Context, date string, live bool) (*services.Roster, error) {
	day, err := b.ParseDay(ctx, date)
	if err != nil {
		return nil, err
	}
	return b.services.RosterService.Roster(ctx, day, sessionMode(live))
}

func (b *businessAPIImpl) AdminSummary(ctx context.Context, date string) (*services.AdminSummary, error) {
	day, err := b.ParseDay(ctx, date)
	if err != nil {
		return nil, err
	}
	return b.services.RosterService.AdminSummary(ctx, day)
}

// ========== Import ==========

// Import stores the batch and drops every cached roster. Employees without
// an id and punch rows without an employee id are counted as skipped.
func (b *businessAPIImpl) Import(ctx context.Context, batch ImportBatch) (*services.ImportResult, error) {
	result := &services.ImportResult{}

	for _, emp := range batch.Employees {
		if domain.CoerceID(emp.ID) == "" {
			result.Skipped++
			continue
		}
		if _, err := b.services.EmployeeService.UpsertEmployee(ctx, emp); err != nil {
			return nil, errors.NewImportError(batch.Source, err)
		}
		result.Employees++
	}

	n, err := b.services.HistoryService.AppendPunches(ctx, batch.Punches)
	if err != nil {
		return nil, errors.NewImportError(batch.Source, err)
	}
	result.Punches = n
	result.Skipped += len(batch.Punches) - n

	b.services.RosterService.Purge()

	logging.Component(ctx, b.logger, "import", "store").Info("import finished",
		"source", batch.Source,
		"employees", result.Employees,
		"punches", result.Punches,
		"skipped", result.Skipped)
	return result, nil
}

func (b *businessAPIImpl) ParseDay(ctx context.Context, s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return b.services.TimeService.Today(), nil
	}
	return b.services.TimeService.ParseDay(s)
}
