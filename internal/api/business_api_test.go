package api

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"timeclock/internal/domain"
	"timeclock/internal/errors"
	"timeclock/internal/repository/sqlite"
	"timeclock/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jst = time.FixedZone("JST", 9*60*60)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func setupTestBusinessAPI(t *testing.T) (BusinessAPI, *fakeClock, *bytes.Buffer) {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	clock := &fakeClock{now: time.Date(2024, 3, 5, 15, 30, 0, 0, jst)}
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	container := services.NewServiceContainer(repo, services.Settings{
		Location: jst,
		Logger:   logger,
		Now:      clock.Now,
	})
	return NewBusinessAPI(container, logger), clock, &logs
}

func TestBusinessAPI_PunchWorkflow(t *testing.T) {
	b, clock, _ := setupTestBusinessAPI(t)
	ctx := context.Background()

	_, err := b.AddEmployee(ctx, domain.Employee{ID: "E001", Name: "山田", HourlyWage: 1200})
	require.NoError(t, err)

	clock.now = time.Date(2024, 3, 5, 9, 0, 0, 0, jst)
	_, err = b.Punch(ctx, services.PunchRequest{EmployeeID: "E001", PunchType: "出勤", Position: "drink"})
	require.NoError(t, err)

	clock.now = time.Date(2024, 3, 5, 14, 0, 0, 0, jst)
	status, err := b.Status(ctx, "E001")
	require.NoError(t, err)
	assert.Equal(t, "working", status.State)
	assert.Equal(t, []string{"退勤", "休憩開始"}, status.NextActions)

	live, err := b.PeriodTotals(ctx, "E001", "today", true)
	require.NoError(t, err)
	assert.Equal(t, 300, live.Minutes)
	confirmed, err := b.PeriodTotals(ctx, "E001", "today", false)
	require.NoError(t, err)
	assert.Zero(t, confirmed.Minutes)

	_, err = b.Punch(ctx, services.PunchRequest{EmployeeID: "E001", PunchType: "退勤", Position: "ドリンカー"})
	require.NoError(t, err)

	summary, err := b.Summary(ctx, "E001", false)
	require.NoError(t, err)
	assert.Equal(t, int64(6000), summary.Today.Pay)

	roster, err := b.Roster(ctx, "", false)
	require.NoError(t, err)
	require.Len(t, roster.Schedules, 1)
	assert.Equal(t, "ドリンカー", roster.Schedules[0].Work[0].Position)

	admin, err := b.AdminSummary(ctx, "2024/3/5")
	require.NoError(t, err)
	assert.Zero(t, admin.HeadcountNow)
	assert.Equal(t, "05:00", admin.TotalWork)
}

func TestBusinessAPI_PeriodTotals_InvalidPeriod(t *testing.T) {
	b, _, _ := setupTestBusinessAPI(t)

	_, err := b.PeriodTotals(context.Background(), "E001", "week", false)

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
	assert.Contains(t, err.Error(), "period")
}

func TestBusinessAPI_ParseDay(t *testing.T) {
	b, _, _ := setupTestBusinessAPI(t)
	ctx := context.Background()

	today, err := b.ParseDay(ctx, "  ")
	require.NoError(t, err)
	assert.True(t, today.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, jst)))

	parsed, err := b.ParseDay(ctx, "2024.2.9")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-09", domain.DayKey(parsed))

	_, err = b.ParseDay(ctx, "yesterday")
	assert.Error(t, err)
}

func TestBusinessAPI_Import(t *testing.T) {
	b, _, logs := setupTestBusinessAPI(t)
	ctx := context.Background()

	before, err := b.Roster(ctx, "2024-03-05", false)
	require.NoError(t, err)
	assert.Empty(t, before.Schedules)

	result, err := b.Import(ctx, ImportBatch{
		Source: "march.xlsx",
		Employees: []domain.Employee{
			{ID: "E001", Name: "山田", HourlyWage: 1200},
			{ID: "", Name: "no id"},
		},
		Punches: []domain.RawRecord{
			{EmployeeID: "E001", EmployeeName: "山田", Date: "2024/3/5", Time: "9:00", PunchType: "出勤"},
			{EmployeeID: "E001", EmployeeName: "山田", Date: "2024/3/5", Time: "12:00", PunchType: "退勤", Position: "レジ"},
			{EmployeeID: " ", Date: "2024/3/5", Time: "12:00", PunchType: "退勤"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, &services.ImportResult{Employees: 1, Punches: 2, Skipped: 2}, result)
	assert.Contains(t, logs.String(), "import finished")
	assert.Contains(t, logs.String(), "source=march.xlsx")

	after, err := b.Roster(ctx, "2024-03-05", false)
	require.NoError(t, err)
	assert.Len(t, after.Schedules, 1, "import drops cached rosters")

	emp, err := b.GetEmployee(ctx, "E001")
	require.NoError(t, err)
	assert.Equal(t, int64(1200), emp.HourlyWage)
}

func TestBusinessAPI_Import_InvalidEmployee(t *testing.T) {
	b, _, _ := setupTestBusinessAPI(t)

	_, err := b.Import(context.Background(), ImportBatch{
		Source:    "staff.xlsx",
		Employees: []domain.Employee{{ID: "E001", Name: ""}},
	})

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeImport))
	assert.Contains(t, err.Error(), "staff.xlsx")
}

func TestBusinessAPI_Employees(t *testing.T) {
	b, _, _ := setupTestBusinessAPI(t)
	ctx := context.Background()

	_, err := b.AddEmployee(ctx, domain.Employee{ID: "E002", Name: "佐藤"})
	require.NoError(t, err)
	_, err = b.AddEmployee(ctx, domain.Employee{ID: "E001", Name: "山田"})
	require.NoError(t, err)

	employees, err := b.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "E001", employees[0].ID)

	_, err = b.GetEmployee(ctx, "E404")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	require.NoError(t, b.RemoveEmployee(ctx, "E002"))
	employees, err = b.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, 1)
	assert.True(t, errors.IsErrorType(b.RemoveEmployee(ctx, "E002"), errors.ErrorTypeNotFound))
}
