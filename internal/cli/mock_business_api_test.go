package cli

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"timeclock/internal/api"
	"timeclock/internal/config"
	"timeclock/internal/domain"
	"timeclock/internal/errors"
	"timeclock/internal/services"
)

// mockBusinessAPI implements the BusinessAPI interface for testing. Reports
// are canned; employees and punches are recorded.
type mockBusinessAPI struct {
	employees map[string]domain.Employee
	punches   []services.PunchRequest
	imports   []api.ImportBatch
	now       time.Time

	history *services.HistoryReport
	summary *services.EmployeeSummary
	roster  *services.Roster
	admin   *services.AdminSummary
	err     error

	lastHistoryQuery services.HistoryQuery
	lastLive         bool
	lastDate         string
}

var jst = time.FixedZone("JST", 9*60*60)

func newMockBusinessAPI() *mockBusinessAPI {
	return &mockBusinessAPI{
		employees: make(map[string]domain.Employee),
		now:       time.Date(2024, 3, 5, 14, 0, 0, 0, jst),
	}
}

func (m *mockBusinessAPI) AddEmployee(ctx context.Context, emp domain.Employee) (*domain.Employee, error) {
	if strings.TrimSpace(emp.Name) == "" {
		return nil, errors.NewValidationError("employee name is required", nil)
	}
	m.employees[emp.ID] = emp
	return &emp, nil
}

func (m *mockBusinessAPI) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	emp, ok := m.employees[id]
	if !ok {
		return nil, errors.NewNotFoundError("employee", id)
	}
	return &emp, nil
}

func (m *mockBusinessAPI) RemoveEmployee(ctx context.Context, id string) error {
	if _, ok := m.employees[id]; !ok {
		return errors.NewNotFoundError("employee", id)
	}
	delete(m.employees, id)
	return nil
}

func (m *mockBusinessAPI) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	if m.err != nil {
		return nil, m.err
	}
	emps := make([]domain.Employee, 0, len(m.employees))
	for _, emp := range m.employees {
		emps = append(emps, emp)
	}
	sort.Slice(emps, func(i, j int) bool { return emps[i].ID < emps[j].ID })
	return emps, nil
}

// Punch allows only 出勤 as the first punch and anything afterwards.
func (m *mockBusinessAPI) Punch(ctx context.Context, req services.PunchRequest) (*services.PunchResult, error) {
	if len(m.punches) == 0 && req.PunchType != string(domain.PunchClockIn) {
		return nil, errors.NewPunchNotAllowedError(req.PunchType, "", []string{string(domain.PunchClockIn)})
	}
	m.punches = append(m.punches, req)
	name := req.EmployeeName
	if emp, ok := m.employees[req.EmployeeID]; ok {
		name = emp.Name
	}
	return &services.PunchResult{
		Punch: services.PunchView{
			EmployeeID:   req.EmployeeID,
			EmployeeName: name,
			PunchType:    req.PunchType,
			Position:     req.Position,
			Timestamp:    m.now,
		},
		State:       domain.StateWorking.String(),
		NextActions: []string{string(domain.PunchClockOut), string(domain.PunchBreakStart)},
	}, nil
}

func (m *mockBusinessAPI) Status(ctx context.Context, id string) (*services.EmployeeStatus, error) {
	if id == "" {
		return nil, errors.NewValidationError("employee id is required", nil)
	}
	if len(m.punches) == 0 {
		return &services.EmployeeStatus{
			EmployeeID:  id,
			Name:        "name-" + id,
			State:       domain.StateIdle.String(),
			NextActions: []string{string(domain.PunchClockIn)},
		}, nil
	}
	last := m.punches[len(m.punches)-1]
	return &services.EmployeeStatus{
		EmployeeID:  id,
		Name:        m.employees[id].Name,
		LastPunch:   &services.PunchView{PunchType: last.PunchType, Timestamp: m.now},
		State:       domain.StateWorking.String(),
		NextActions: []string{string(domain.PunchClockOut), string(domain.PunchBreakStart)},
	}, nil
}

func (m *mockBusinessAPI) History(ctx context.Context, id string, q services.HistoryQuery) (*services.HistoryReport, error) {
	m.lastHistoryQuery = q
	if m.err != nil {
		return nil, m.err
	}
	return m.history, nil
}

func (m *mockBusinessAPI) Summary(ctx context.Context, id string, live bool) (*services.EmployeeSummary, error) {
	m.lastLive = live
	if m.err != nil {
		return nil, m.err
	}
	return m.summary, nil
}

func (m *mockBusinessAPI) PeriodTotals(ctx context.Context, id string, period string, live bool) (*domain.PeriodTotal, error) {
	m.lastLive = live
	p, ok := domain.ParsePeriod(period)
	if !ok {
		return nil, errors.NewInvalidInputError("period", period, "must be today, month or year")
	}
	switch p {
	case domain.PeriodMonth:
		return &m.summary.Month, nil
	case domain.PeriodYear:
		return &m.summary.Year, nil
	default:
		return &m.summary.Today, nil
	}
}

func (m *mockBusinessAPI) Roster(ctx context.Context, date string, live bool) (*services.Roster, error) {
	m.lastDate, m.lastLive = date, live
	if m.err != nil {
		return nil, m.err
	}
	return m.roster, nil
}

func (m *mockBusinessAPI) AdminSummary(ctx context.Context, date string) (*services.AdminSummary, error) {
	m.lastDate = date
	if m.err != nil {
		return nil, m.err
	}
	return m.admin, nil
}

func (m *mockBusinessAPI) Import(ctx context.Context, batch api.ImportBatch) (*services.ImportResult, error) {
	if m.err != nil {
		return nil, errors.NewImportError(batch.Source, m.err)
	}
	m.imports = append(m.imports, batch)
	return &services.ImportResult{
		Employees: len(batch.Employees),
		Punches:   len(batch.Punches),
	}, nil
}

func (m *mockBusinessAPI) ParseDay(ctx context.Context, s string) (time.Time, error) {
	if s == "" {
		y, mo, d := m.now.Date()
		return time.Date(y, mo, d, 0, 0, 0, 0, jst), nil
	}
	t, err := time.ParseInLocation("2006-1-2", domain.NormalizeDate(s), jst)
	if err != nil {
		return time.Time{}, errors.NewInvalidInputError("date", s, "expected YYYY-MM-DD")
	}
	return t, nil
}

// setupTestAppWithMockBusinessAPI creates an app that writes to a buffer
func setupTestAppWithMockBusinessAPI(t *testing.T) (*App, *mockBusinessAPI, *bytes.Buffer) {
	t.Helper()
	mock := newMockBusinessAPI()
	app := NewAppWithConfig(mock, config.NewConfig())
	out := &bytes.Buffer{}
	app.SetOutput(out)
	return app, mock, out
}
