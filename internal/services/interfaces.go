package services

import (
	"context"
	"log/slog"
	"time"

	"timeclock/internal/domain"
	"timeclock/internal/logging"
)

// DateRange is an inclusive range of calendar days
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// HistoryQuery selects a history window either by explicit days or by a
// look-back count ending today. From and To take precedence over Days.
type HistoryQuery struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
	Days int        `json:"days,omitempty"`
}

// PunchRequest asks to record a punch at the current time
type PunchRequest struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	PunchType    string `json:"punch_type"`
	Position     string `json:"position,omitempty"`
}

// PunchView is a stored punch as shown to callers
type PunchView struct {
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	PunchType    string    `json:"punch_type"`
	Position     string    `json:"position"`
	Timestamp    time.Time `json:"timestamp"`
}

// PunchResult is the outcome of an accepted punch
type PunchResult struct {
	Punch       PunchView `json:"punch"`
	State       string    `json:"state"`
	NextActions []string  `json:"next_actions"`
}

// EmployeeStatus is an employee's current state for today
type EmployeeStatus struct {
	EmployeeID  string     `json:"employee_id"`
	Name        string     `json:"name"`
	LastPunch   *PunchView `json:"last_punch,omitempty"`
	State       string     `json:"state"`
	NextActions []string   `json:"next_actions"`
}

// HistoryEntry is one row of an employee's punch history
type HistoryEntry struct {
	PunchView
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Duration        string `json:"duration,omitempty"`
}

// HistoryReport is an employee's history with today's confirmed total
type HistoryReport struct {
	EmployeeID   string          `json:"employee_id"`
	Range        DateRange       `json:"range"`
	Entries      []HistoryEntry  `json:"entries"`
	Today        domain.DayTotal `json:"today"`
	TodayWork    string          `json:"today_work"`
	SkippedCount int             `json:"skipped_count"`
}

// EmployeeSummary holds an employee's period totals and income progress
type EmployeeSummary struct {
	EmployeeID string                `json:"employee_id"`
	Name       string                `json:"name"`
	HourlyWage int64                 `json:"hourly_wage"`
	Mode       string                `json:"mode"`
	Today      domain.PeriodTotal    `json:"today"`
	Month      domain.PeriodTotal    `json:"month"`
	Year       domain.PeriodTotal    `json:"year"`
	Income     domain.IncomeProgress `json:"income"`
}

// SegmentView is a work or break bar on the roster
type SegmentView struct {
	StartMinute int       `json:"start_minute"`
	EndMinute   int       `json:"end_minute"`
	Position    string    `json:"position,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Open        bool      `json:"open,omitempty"`
}

// ScheduleView is one roster row
type ScheduleView struct {
	EmployeeID   string        `json:"employee_id"`
	Name         string        `json:"name"`
	Work         []SegmentView `json:"work"`
	Breaks       []SegmentView `json:"breaks"`
	LastClockOut *time.Time    `json:"last_clock_out,omitempty"`
}

// Roster is the daily schedule for every employee who punched that day
type Roster struct {
	Date         string         `json:"date"`
	Mode         string         `json:"mode"`
	Open         string         `json:"open"`
	Close        string         `json:"close"`
	Schedules    []ScheduleView `json:"schedules"`
	SkippedCount int            `json:"skipped_count"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

// ActiveEmployee is someone clocked in and not yet clocked out
type ActiveEmployee struct {
	EmployeeID     string `json:"employee_id"`
	Name           string `json:"name"`
	Position       string `json:"position"`
	ClockInAt      string `json:"clock_in_at"`
	OnBreak        bool   `json:"on_break"`
	ElapsedMinutes int    `json:"elapsed_minutes"`
	Elapsed        string `json:"elapsed"`
}

// AdminSummary is the manager's one-day overview
type AdminSummary struct {
	Date         string           `json:"date"`
	HeadcountNow int              `json:"headcount_now"`
	TotalMinutes int              `json:"total_minutes"`
	TotalWork    string           `json:"total_work"`
	LaborCost    int64            `json:"labor_cost"`
	PosCount     map[string]int   `json:"pos_count"`
	ActiveList   []ActiveEmployee `json:"active_list"`
}

// ImportResult counts what an import stored
type ImportResult struct {
	Employees int `json:"employees"`
	Punches   int `json:"punches"`
	Skipped   int `json:"skipped"`
}

// TimeService resolves the clock, days and ranges in the configured zone
type TimeService interface {
	Now() time.Time
	Location() *time.Location
	Today() time.Time
	IsToday(t time.Time) bool
	StartOfDay(t time.Time) time.Time
	ParseDay(s string) (time.Time, error)
	ResolveRange(q HistoryQuery) (DateRange, error)
	BuildOptions(mode domain.OpenSessionMode) domain.BuildOptions
	FormatDuration(d time.Duration) string
}

// EmployeeService manages employee records
type EmployeeService interface {
	CreateEmployee(ctx context.Context, emp domain.Employee) (*domain.Employee, error)
	UpsertEmployee(ctx context.Context, emp domain.Employee) (*domain.Employee, error)
	FetchEmployee(ctx context.Context, id string) (*domain.Employee, error)
	FetchEmployees(ctx context.Context) ([]domain.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
	// LookupEmployee returns ok=false instead of a not found error.
	LookupEmployee(ctx context.Context, id string) (domain.Employee, bool, error)
}

// HistoryService reads and appends the punch log
type HistoryService interface {
	FetchHistory(ctx context.Context, employeeID string, r DateRange) ([]domain.RawRecord, error)
	FetchEvents(ctx context.Context, employeeID string, r DateRange) ([]domain.PunchEvent, []domain.SkippedEvent, error)
	AppendPunches(ctx context.Context, raws []domain.RawRecord) (int, error)
}

// PunchService records punches gated by the state machine
type PunchService interface {
	Punch(ctx context.Context, req PunchRequest) (*PunchResult, error)
}

// StatusService reports where an employee is in their day
type StatusService interface {
	Status(ctx context.Context, employeeID string) (*EmployeeStatus, error)
}

// ReportingService computes totals, pay and annotated history
type ReportingService interface {
	DaySummary(ctx context.Context, employeeID string, day time.Time, mode domain.AggregationMode) (*domain.DayTotal, error)
	PeriodTotals(ctx context.Context, employeeID string, period domain.Period, mode domain.AggregationMode) (*domain.PeriodTotal, error)
	Summary(ctx context.Context, employeeID string, mode domain.AggregationMode) (*EmployeeSummary, error)
	IncomeProgress(ctx context.Context, employeeID string) (*domain.IncomeProgress, error)
	History(ctx context.Context, employeeID string, q HistoryQuery) (*HistoryReport, error)
}

// RosterService builds and caches daily rosters
type RosterService interface {
	Roster(ctx context.Context, day time.Time, mode domain.OpenSessionMode) (*Roster, error)
	AdminSummary(ctx context.Context, day time.Time) (*AdminSummary, error)
	// Invalidate drops the cached roster for a YYYY-MM-DD day.
	Invalidate(day string)
	Purge()
}

// Settings tunes the services. Zero fields fall back to defaults.
type Settings struct {
	Location          *time.Location
	Window            domain.BusinessWindow
	DefaultPosition   string
	HistoryDays       int
	DefaultHourlyWage int64
	AnnualIncomeLimit int64
	RosterTTL         time.Duration
	RosterSize        int
	Logger            *slog.Logger
	Now               func() time.Time
}

func (s Settings) withDefaults() Settings {
	if s.Location == nil {
		s.Location = time.Local
	}
	if s.Window == (domain.BusinessWindow{}) {
		s.Window = domain.DefaultBusinessWindow()
	}
	if s.DefaultPosition == "" {
		s.DefaultPosition = domain.DefaultPosition
	}
	if s.HistoryDays <= 0 {
		s.HistoryDays = 30
	}
	if s.AnnualIncomeLimit <= 0 {
		s.AnnualIncomeLimit = domain.DefaultAnnualIncomeLimit
	}
	if s.RosterTTL <= 0 {
		s.RosterTTL = 5 * time.Minute
	}
	if s.RosterSize <= 0 {
		s.RosterSize = 64
	}
	if s.Logger == nil {
		s.Logger = logging.Discard()
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	return s
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TimeService      TimeService
	EmployeeService  EmployeeService
	HistoryService   HistoryService
	PunchService     PunchService
	StatusService    StatusService
	ReportingService ReportingService
	RosterService    RosterService
}
