package services

import (
	"context"
	"time"

	"timeclock/internal/domain"
	"timeclock/internal/errors"
)

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	timeService     TimeService
	employeeService EmployeeService
	historyService  HistoryService
	settings        Settings
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(timeService TimeService, employeeService EmployeeService, historyService HistoryService, settings Settings) ReportingService {
	return &reportingServiceImpl{
		timeService:     timeService,
		employeeService: employeeService,
		historyService:  historyService,
		settings:        settings.withDefaults(),
	}
}

// employeeWithWage looks up the employee and the wage to pay them. An
// employee without a wage on file falls back to the configured default.
func (r *reportingServiceImpl) employeeWithWage(ctx context.Context, employeeID string) (domain.Employee, int64, error) {
	id := domain.CoerceID(employeeID)
	if id == "" {
		return domain.Employee{}, 0, errors.NewValidationError("employee id is required", nil)
	}
	emp, _, err := r.employeeService.LookupEmployee(ctx, id)
	if err != nil {
		return domain.Employee{}, 0, err
	}
	wage := r.settings.DefaultHourlyWage
	if emp.HasWage() {
		wage = emp.HourlyWage
	}
	return emp, wage, nil
}

// periodEvents fetches the events of the period containing now
func (r *reportingServiceImpl) periodEvents(ctx context.Context, id string, period domain.Period) ([]domain.PunchEvent, error) {
	from, to := period.Range(r.timeService.Now())
	events, _, err := r.historyService.FetchEvents(ctx, id, DateRange{From: from, To: to.AddDate(0, 0, -1)})
	return events, err
}

// DaySummary totals one day. In confirmed mode a day without a clock-out
// has zero minutes.
func (r *reportingServiceImpl) DaySummary(ctx context.Context, employeeID string, day time.Time, mode domain.AggregationMode) (*domain.DayTotal, error) {
	emp, wage, err := r.employeeWithWage(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	day = r.timeService.StartOfDay(day)
	events, _, err := r.historyService.FetchEvents(ctx, emp.ID, DateRange{From: day, To: day})
	if err != nil {
		return nil, err
	}

	key := domain.DayKey(day)
	for _, total := range domain.AggregateDays(events, wage, mode, r.timeService.BuildOptions(domain.ConfirmedOnly)) {
		if total.Date == key {
			return &total, nil
		}
	}
	return &domain.DayTotal{Date: key}, nil
}

// PeriodTotals totals the period containing now
func (r *reportingServiceImpl) PeriodTotals(ctx context.Context, employeeID string, period domain.Period, mode domain.AggregationMode) (*domain.PeriodTotal, error) {
	emp, wage, err := r.employeeWithWage(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	events, err := r.periodEvents(ctx, emp.ID, period)
	if err != nil {
		return nil, err
	}

	total := domain.Totals(events, wage, period, mode, r.timeService.BuildOptions(domain.ConfirmedOnly))
	return &total, nil
}

// Summary returns today, month and year totals from a single read of the
// year's punches, with year-to-date income against the annual limit.
func (r *reportingServiceImpl) Summary(ctx context.Context, employeeID string, mode domain.AggregationMode) (*EmployeeSummary, error) {
	emp, wage, err := r.employeeWithWage(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	events, err := r.periodEvents(ctx, emp.ID, domain.PeriodYear)
	if err != nil {
		return nil, err
	}

	opts := r.timeService.BuildOptions(domain.ConfirmedOnly)
	summary := &EmployeeSummary{
		EmployeeID: emp.ID,
		Name:       emp.Name,
		HourlyWage: wage,
		Mode:       mode.String(),
		Today:      domain.Totals(events, wage, domain.PeriodToday, mode, opts),
		Month:      domain.Totals(events, wage, domain.PeriodMonth, mode, opts),
		Year:       domain.Totals(events, wage, domain.PeriodYear, mode, opts),
	}
	summary.Income = domain.NewIncomeProgress(summary.Year.Pay, r.settings.AnnualIncomeLimit)
	return summary, nil
}

// IncomeProgress returns confirmed year-to-date earnings against the limit
func (r *reportingServiceImpl) IncomeProgress(ctx context.Context, employeeID string) (*domain.IncomeProgress, error) {
	year, err := r.PeriodTotals(ctx, employeeID, domain.PeriodYear, domain.Confirmed)
	if err != nil {
		return nil, err
	}
	progress := domain.NewIncomeProgress(year.Pay, r.settings.AnnualIncomeLimit)
	return &progress, nil
}

// History returns the employee's punches newest first. Break-start and
// clock-out rows carry the length of the work segment they closed. Today
// reports closed segments so far; pay is shown once the employee has
// clocked out.
func (r *reportingServiceImpl) History(ctx context.Context, employeeID string, q HistoryQuery) (*HistoryReport, error) {
	emp, wage, err := r.employeeWithWage(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	rng, err := r.timeService.ResolveRange(q)
	if err != nil {
		return nil, err
	}

	events, skipped, err := r.historyService.FetchEvents(ctx, emp.ID, rng)
	if err != nil {
		return nil, err
	}

	opts := r.timeService.BuildOptions(domain.ConfirmedOnly)
	byDay, days := domain.GroupByDay(events)

	report := &HistoryReport{
		EmployeeID:   emp.ID,
		Range:        rng,
		Entries:      make([]HistoryEntry, 0, len(events)),
		SkippedCount: len(skipped),
	}
	for i := len(days) - 1; i >= 0; i-- {
		dayEvents := byDay[days[i]]
		schedule := domain.BuildIntervals(dayEvents, opts)
		for _, row := range domain.AnnotateHistory(dayEvents, schedule) {
			entry := HistoryEntry{PunchView: viewOf(row.Event)}
			if row.HasSpan {
				entry.DurationMinutes = int(row.Duration / time.Minute)
				entry.Duration = r.timeService.FormatDuration(row.Duration)
			}
			report.Entries = append(report.Entries, entry)
		}
	}

	today := r.timeService.Today()
	todayEvents, ok := byDay[domain.DayKey(today)]
	if !ok && (today.Before(rng.From) || today.After(rng.To)) {
		todayEvents, _, err = r.historyService.FetchEvents(ctx, emp.ID, DateRange{From: today, To: today})
		if err != nil {
			return nil, err
		}
	}
	report.Today = todayTotal(todayEvents, wage, today, opts)
	report.TodayWork = domain.FormatMinutes(report.Today.Minutes)
	return report, nil
}

func todayTotal(events []domain.PunchEvent, wage int64, today time.Time, opts domain.BuildOptions) domain.DayTotal {
	schedule := domain.BuildIntervals(events, opts)
	total := domain.DayTotal{
		Date:         domain.DayKey(today),
		Minutes:      domain.SumClosedMinutes(schedule.WorkSegments),
		BreakMinutes: domain.SumBreakMinutes(schedule.BreakSegments),
		ClockedOut:   domain.HasClockOut(events),
	}
	if total.ClockedOut {
		total.Pay = domain.ComputePay(total.Minutes, wage)
	}
	return total
}
