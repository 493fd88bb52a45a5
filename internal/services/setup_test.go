package services

import (
	"context"
	"testing"
	"time"

	"timeclock/internal/domain"
	"timeclock/internal/repository/sqlite"

	"github.com/stretchr/testify/require"
)

var jst = time.FixedZone("JST", 9*60*60)

// Tuesday afternoon; month and year periods differ from today.
var fixedNow = time.Date(2024, 3, 5, 15, 30, 0, 0, jst)

type testEnv struct {
	repo     sqlite.Repository
	settings Settings
	services *ServiceContainer
	now      time.Time
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	env := &testEnv{repo: repo, now: fixedNow}
	env.settings = Settings{
		Location: jst,
		Now:      func() time.Time { return env.now },
	}
	env.services = NewServiceContainer(repo, env.settings)
	return env
}

func (e *testEnv) seedEmployee(t *testing.T, id, name string, wage int64) {
	t.Helper()
	_, err := e.services.EmployeeService.CreateEmployee(context.Background(),
		domain.Employee{ID: id, Name: name, HourlyWage: wage})
	require.NoError(t, err)
}

func (e *testEnv) seedPunches(t *testing.T, raws ...domain.RawRecord) {
	t.Helper()
	_, err := e.services.HistoryService.AppendPunches(context.Background(), raws)
	require.NoError(t, err)
}

func rawPunch(id, date, clock string, pt domain.PunchType, position string) domain.RawRecord {
	return domain.RawRecord{
		EmployeeID:   id,
		EmployeeName: "name-" + id,
		Date:         date,
		Time:         clock,
		PunchType:    string(pt),
		Position:     position,
	}
}

// seedStandardDay gives E001 a full shift with one break on the fixed day:
// 09:00-12:00 and 12:45-15:00, 315 minutes of work.
func (e *testEnv) seedStandardDay(t *testing.T) {
	t.Helper()
	e.seedPunches(t,
		rawPunch("E001", "2024-03-05", "9:00", domain.PunchClockIn, "reji"),
		rawPunch("E001", "2024-03-05", "12:00", domain.PunchBreakStart, ""),
		rawPunch("E001", "2024-03-05", "12:45", domain.PunchBreakEnd, ""),
		rawPunch("E001", "2024-03-05", "15:00", domain.PunchClockOut, "レジ"),
	)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, jst)
}
