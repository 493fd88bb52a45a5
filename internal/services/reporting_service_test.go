package services

import (
	"context"
	"testing"
	"time"

	"timeclock/internal/domain"
	"timeclock/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedReportingData gives E001 (1200/h) punches across today, the month and
// the year, plus one day from the previous year.
func seedReportingData(t *testing.T, env *testEnv) {
	t.Helper()
	env.seedEmployee(t, "E001", "山田", 1200)
	env.seedStandardDay(t)
	env.seedPunches(t,
		rawPunch("E001", "2024-03-04", "10:00", domain.PunchClockIn, ""),
		rawPunch("E001", "2024-03-04", "14:30", domain.PunchClockOut, "レジ"),
		rawPunch("E001", "2024-03-03", "10:00", domain.PunchClockIn, ""),
		rawPunch("E001", "2024-02-10", "9:00", domain.PunchClockIn, ""),
		rawPunch("E001", "2024-02-10", "17:00", domain.PunchClockOut, "レジ"),
		rawPunch("E001", "2023-12-28", "9:00", domain.PunchClockIn, ""),
		rawPunch("E001", "2023-12-28", "17:00", domain.PunchClockOut, "レジ"),
	)
}

func TestReportingService_PeriodTotals(t *testing.T) {
	env := setupTestEnv(t)
	seedReportingData(t, env)

	tests := []struct {
		name            string
		period          domain.Period
		expectedMinutes int
		expectedPay     int64
		expectedDays    int
	}{
		{"should total today", domain.PeriodToday, 315, 6300, 1},
		{"should total the month without the open day", domain.PeriodMonth, 585, 11700, 2},
		{"should total the year", domain.PeriodYear, 1065, 21300, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := env.services.ReportingService.PeriodTotals(context.Background(), "E001", tt.period, domain.Confirmed)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedMinutes, total.Minutes)
			assert.Equal(t, tt.expectedPay, total.Pay)
			assert.Len(t, total.Days, tt.expectedDays)
		})
	}
}

func TestReportingService_Summary(t *testing.T) {
	env := setupTestEnv(t)
	seedReportingData(t, env)

	summary, err := env.services.ReportingService.Summary(context.Background(), "E001", domain.Confirmed)

	require.NoError(t, err)
	assert.Equal(t, "山田", summary.Name)
	assert.Equal(t, int64(1200), summary.HourlyWage)
	assert.Equal(t, 315, summary.Today.Minutes)
	assert.Equal(t, 45, summary.Today.BreakMinutes)
	assert.Equal(t, 585, summary.Month.Minutes)
	assert.Equal(t, int64(21300), summary.Year.Pay)
	assert.Equal(t, int64(21300), summary.Income.Earned)
	assert.Equal(t, int64(1478700), summary.Income.Remaining)
	assert.Equal(t, 1, summary.Income.Percent)
}

func TestReportingService_Summary_Live(t *testing.T) {
	env := setupTestEnv(t)
	seedReportingData(t, env)
	env.seedPunches(t, rawPunch("E001", "2024-03-05", "15:10", domain.PunchClockIn, ""))

	live, err := env.services.ReportingService.Summary(context.Background(), "E001", domain.Live)
	require.NoError(t, err)
	confirmed, err := env.services.ReportingService.Summary(context.Background(), "E001", domain.Confirmed)
	require.NoError(t, err)

	assert.Equal(t, 335, live.Today.Minutes, "the open session runs until now")
	assert.True(t, live.Today.Open)
	assert.Equal(t, 315, confirmed.Today.Minutes)
	assert.Equal(t, 605, live.Month.Minutes, "past open days stay excluded")
}

func TestReportingService_DaySummary(t *testing.T) {
	env := setupTestEnv(t)
	seedReportingData(t, env)
	ctx := context.Background()

	open, err := env.services.ReportingService.DaySummary(ctx, "E001", day(2024, 3, 3), domain.Confirmed)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-03", open.Date)
	assert.Zero(t, open.Minutes)

	closed, err := env.services.ReportingService.DaySummary(ctx, "E001", day(2024, 3, 4), domain.Confirmed)
	require.NoError(t, err)
	assert.Equal(t, 270, closed.Minutes)
	assert.Equal(t, int64(5400), closed.Pay)
	assert.True(t, closed.ClockedOut)
}

func TestReportingService_DefaultWage(t *testing.T) {
	env := setupTestEnv(t)
	env.seedStandardDay(t)
	settings := env.settings
	settings.DefaultHourlyWage = 1000
	container := NewServiceContainer(env.repo, settings)

	total, err := container.ReportingService.PeriodTotals(context.Background(), "E001", domain.PeriodToday, domain.Confirmed)

	require.NoError(t, err)
	assert.Equal(t, int64(5250), total.Pay, "unregistered employees are paid the default wage")
}

func TestReportingService_IncomeProgress(t *testing.T) {
	env := setupTestEnv(t)
	seedReportingData(t, env)

	progress, err := env.services.ReportingService.IncomeProgress(context.Background(), "E001")

	require.NoError(t, err)
	assert.Equal(t, int64(21300), progress.Earned)
	assert.Equal(t, domain.DefaultAnnualIncomeLimit, progress.Limit)
}

func TestReportingService_History(t *testing.T) {
	env := setupTestEnv(t)
	seedReportingData(t, env)

	report, err := env.services.ReportingService.History(context.Background(), "E001", HistoryQuery{})

	require.NoError(t, err)
	assert.True(t, report.Range.From.Equal(day(2024, 2, 5)))
	require.Len(t, report.Entries, 9)

	first := report.Entries[0]
	assert.Equal(t, "退勤", first.PunchType)
	assert.True(t, first.Timestamp.Equal(time.Date(2024, 3, 5, 15, 0, 0, 0, jst)))
	assert.Equal(t, "2h 15m", first.Duration)

	assert.Equal(t, "休憩開始", report.Entries[2].PunchType)
	assert.Equal(t, "3h 0m", report.Entries[2].Duration)
	assert.Empty(t, report.Entries[3].Duration, "clock-in rows carry no duration")

	assert.Equal(t, "5h 15m", report.TodayWork)
	assert.Equal(t, int64(6300), report.Today.Pay)
}

func TestReportingService_History_Range(t *testing.T) {
	env := setupTestEnv(t)
	seedReportingData(t, env)
	ctx := context.Background()

	oneDay, err := env.services.ReportingService.History(ctx, "E001", HistoryQuery{Days: 1})
	require.NoError(t, err)
	assert.Len(t, oneDay.Entries, 4)

	from, to := day(2024, 2, 1), day(2024, 2, 29)
	february, err := env.services.ReportingService.History(ctx, "E001", HistoryQuery{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, february.Entries, 2)
	assert.Equal(t, 315, february.Today.Minutes, "today is reported even outside the range")
}

func TestReportingService_History_TodayNotClockedOut(t *testing.T) {
	env := setupTestEnv(t)
	env.seedEmployee(t, "E001", "山田", 1200)
	env.seedPunches(t,
		rawPunch("E001", "2024-03-05", "9:00", domain.PunchClockIn, ""),
		rawPunch("E001", "2024-03-05", "12:00", domain.PunchBreakStart, ""),
	)

	report, err := env.services.ReportingService.History(context.Background(), "E001", HistoryQuery{})

	require.NoError(t, err)
	assert.Equal(t, 180, report.Today.Minutes)
	assert.False(t, report.Today.ClockedOut)
	assert.Zero(t, report.Today.Pay, "pay is shown after clock-out")
}

func TestReportingService_RequiresEmployeeID(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.services.ReportingService.Summary(context.Background(), " ", domain.Confirmed)

	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}
