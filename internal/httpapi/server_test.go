package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"timeclock/internal/api"
	"timeclock/internal/domain"
	"timeclock/internal/repository/sqlite"
	"timeclock/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jst = time.FixedZone("JST", 9*60*60)

type testServer struct {
	router   *gin.Engine
	api      api.BusinessAPI
	levelVar *slog.LevelVar
	now      time.Time
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	ts := &testServer{levelVar: new(slog.LevelVar), now: time.Date(2024, 3, 5, 15, 30, 0, 0, jst)}
	container := services.NewServiceContainer(repo, services.Settings{
		Location: jst,
		Now:      func() time.Time { return ts.now },
	})
	ts.api = api.NewBusinessAPI(container, nil)
	ts.router = NewRouter(ts.api, Options{LevelVar: ts.levelVar})

	_, err = ts.api.AddEmployee(context.Background(), domain.Employee{ID: "E001", Name: "山田", HourlyWage: 1200})
	require.NoError(t, err)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) punchAt(t *testing.T, hour, minute int, punchType, position string) {
	t.Helper()
	ts.now = time.Date(2024, 3, 5, hour, minute, 0, 0, jst)
	w := ts.do(t, http.MethodPost, "/punch", services.PunchRequest{EmployeeID: "E001", PunchType: punchType, Position: position})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"healthy"}`, w.Body.String())
}

func TestEmployees(t *testing.T) {
	ts := setupTestServer(t)

	list := ts.do(t, http.MethodGet, "/employees", nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.JSONEq(t, `[{"id":"E001","name":"山田","hourly_wage":1200}]`, list.Body.String())

	one := ts.do(t, http.MethodGet, "/employees/E001", nil)
	assert.Equal(t, http.StatusOK, one.Code)

	missing := ts.do(t, http.MethodGet, "/employees/E404", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	body := decode[errorBody](t, missing)
	assert.Equal(t, "NOT_FOUND", body.Code)

	removed := ts.do(t, http.MethodDelete, "/employees/E001", nil)
	assert.Equal(t, http.StatusNoContent, removed.Code)
	again := ts.do(t, http.MethodDelete, "/employees/E001", nil)
	assert.Equal(t, http.StatusNotFound, again.Code)

	list = ts.do(t, http.MethodGet, "/employees", nil)
	assert.JSONEq(t, `[]`, list.Body.String())
}

func TestPunchAndStatus(t *testing.T) {
	ts := setupTestServer(t)

	ts.punchAt(t, 9, 0, "出勤", "reji")

	status := decode[services.EmployeeStatus](t, ts.do(t, http.MethodGet, "/employees/E001/status", nil))
	assert.Equal(t, "working", status.State)
	assert.Equal(t, []string{"退勤", "休憩開始"}, status.NextActions)
	require.NotNil(t, status.LastPunch)
	assert.Equal(t, "レジ", status.LastPunch.Position)
}

func TestPunch_ConflictDetails(t *testing.T) {
	ts := setupTestServer(t)
	ts.punchAt(t, 9, 0, "出勤", "")

	w := ts.do(t, http.MethodPost, "/punch", services.PunchRequest{EmployeeID: "E001", PunchType: "休憩終了"})
	require.Equal(t, http.StatusConflict, w.Code)

	body := decode[errorBody](t, w)
	assert.Equal(t, "出勤", body.Details["last"])
	assert.Equal(t, []interface{}{"退勤", "休憩開始"}, body.Details["allowed"])
	assert.NotContains(t, body.Details, "punch")
}

func TestPunch_Errors(t *testing.T) {
	ts := setupTestServer(t)
	ts.punchAt(t, 9, 0, "出勤", "")

	tests := []struct {
		name     string
		body     interface{}
		status   int
		code     string
		contains string
	}{
		{
			name:     "double clock-in is a conflict",
			body:     services.PunchRequest{EmployeeID: "E001", PunchType: "出勤"},
			status:   http.StatusConflict,
			code:     "PUNCH_NOT_ALLOWED",
			contains: `"allowed":["退勤","休憩開始"]`,
		},
		{
			name:   "clock-out without position is rejected",
			body:   services.PunchRequest{EmployeeID: "E001", PunchType: "退勤"},
			status: http.StatusBadRequest,
		},
		{
			name:   "malformed body is rejected",
			body:   "not an object",
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/punch", tt.body)

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, decode[errorBody](t, w).Code)
			}
			if tt.contains != "" {
				assert.Contains(t, w.Body.String(), tt.contains)
			}
		})
	}
}

func TestHistoryAndSummary(t *testing.T) {
	ts := setupTestServer(t)
	ts.punchAt(t, 9, 0, "出勤", "")
	ts.punchAt(t, 12, 0, "休憩開始", "")
	ts.punchAt(t, 12, 45, "休憩終了", "")
	ts.punchAt(t, 15, 0, "退勤", "レジ")

	history := decode[services.HistoryReport](t, ts.do(t, http.MethodGet, "/employees/E001/history?days=7", nil))
	require.Len(t, history.Entries, 4)
	assert.Equal(t, "2h 15m", history.Entries[0].Duration)
	assert.Equal(t, "5h 15m", history.TodayWork)

	ranged := ts.do(t, http.MethodGet, "/employees/E001/history?from=2024-03-01&to=2024-03-04", nil)
	require.Equal(t, http.StatusOK, ranged.Code)
	assert.Empty(t, decode[services.HistoryReport](t, ranged).Entries)

	summary := decode[services.EmployeeSummary](t, ts.do(t, http.MethodGet, "/employees/E001/summary", nil))
	assert.Equal(t, int64(6300), summary.Today.Pay)
	assert.Equal(t, "confirmed", summary.Mode)

	month := decode[domain.PeriodTotal](t, ts.do(t, http.MethodGet, "/employees/E001/summary?period=month&live=true", nil))
	assert.Equal(t, "month", month.Period)
	assert.Equal(t, 315, month.Minutes)

	bad := ts.do(t, http.MethodGet, "/employees/E001/history?days=lots", nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)

	badLive := ts.do(t, http.MethodGet, "/employees/E001/summary?live=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, badLive.Code)
}

func TestRosterAndAdmin(t *testing.T) {
	ts := setupTestServer(t)
	ts.punchAt(t, 11, 0, "出勤", "fry")
	ts.now = time.Date(2024, 3, 5, 15, 30, 0, 0, jst)

	confirmed := decode[services.Roster](t, ts.do(t, http.MethodGet, "/roster?date=2024-03-05", nil))
	require.Len(t, confirmed.Schedules, 1)
	assert.Empty(t, confirmed.Schedules[0].Work)

	live := decode[services.Roster](t, ts.do(t, http.MethodGet, "/roster?live=true", nil))
	require.Len(t, live.Schedules[0].Work, 1)
	assert.True(t, live.Schedules[0].Work[0].Open)

	admin := decode[services.AdminSummary](t, ts.do(t, http.MethodGet, "/admin/summary", nil))
	assert.Equal(t, 1, admin.HeadcountNow)
	assert.Equal(t, map[string]int{"フライヤー": 1}, admin.PosCount)
	assert.Equal(t, "04:30", admin.TotalWork)

	bad := ts.do(t, http.MethodGet, "/roster?date=soon", nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestLogLevel(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodGet, "/logLevel/debug", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, slog.LevelDebug, ts.levelVar.Level())

	current := ts.do(t, http.MethodGet, "/logLevel", nil)
	assert.True(t, strings.Contains(current.Body.String(), "DEBUG"))

	bad := ts.do(t, http.MethodGet, "/logLevel/loud", nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestCORSPreflight(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodOptions, "/punch", nil)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}

func TestRequestIDReachesServiceLogs(t *testing.T) {
	ts := setupTestServer(t)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	router := NewRouter(ts.api, Options{Logger: logger})
	ts.now = time.Date(2024, 3, 5, 9, 0, 0, 0, jst)

	body := strings.NewReader(`{"employee_id":"E001","punch_type":"出勤","position":"レジ"}`)
	req := httptest.NewRequest(http.MethodPost, "/punch", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get(requestIDHeader))
	assert.Contains(t, logs.String(), "punch recorded")
	assert.Contains(t, logs.String(), "component=punch")
	assert.Contains(t, logs.String(), "request_id=req-42")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Len(t, w.Header().Get(requestIDHeader), 36, "a uuid is generated when the client sends none")
}
