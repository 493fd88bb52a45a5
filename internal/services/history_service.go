package services

import (
	"context"

	"timeclock/internal/domain"
	"timeclock/internal/logging"
	"timeclock/internal/repository/sqlite"
)

// historyServiceImpl implements the HistoryService interface
type historyServiceImpl struct {
	repo        sqlite.Repository
	timeService TimeService
	mapper      *domain.PunchMapper
	settings    Settings
}

// NewHistoryService creates a new HistoryService instance
func NewHistoryService(repo sqlite.Repository, timeService TimeService, settings Settings) HistoryService {
	settings = settings.withDefaults()
	return &historyServiceImpl{
		repo:        repo,
		timeService: timeService,
		mapper:      domain.NewPunchMapper(timeService.Location()),
		settings:    settings,
	}
}

func (h *historyServiceImpl) query(employeeID string, r DateRange) sqlite.PunchQuery {
	var q sqlite.PunchQuery
	if id := domain.CoerceID(employeeID); id != "" {
		q.EmployeeID = &id
	}
	if !r.From.IsZero() {
		from := domain.DayKey(r.From)
		q.FromDay = &from
	}
	if !r.To.IsZero() {
		to := domain.DayKey(r.To)
		q.ToDay = &to
	}
	return q
}

// FetchHistory returns the raw punch rows of an employee within r in the
// order they were recorded. An empty employee id selects everyone.
func (h *historyServiceImpl) FetchHistory(ctx context.Context, employeeID string, r DateRange) ([]domain.RawRecord, error) {
	punches, err := h.repo.ListPunches(ctx, h.query(employeeID, r))
	if err != nil {
		return nil, err
	}
	return h.mapper.FromDatabaseSlice(punches), nil
}

// FetchEvents normalizes FetchHistory. Rows with malformed timestamps are
// logged and returned separately.
func (h *historyServiceImpl) FetchEvents(ctx context.Context, employeeID string, r DateRange) ([]domain.PunchEvent, []domain.SkippedEvent, error) {
	raws, err := h.FetchHistory(ctx, employeeID, r)
	if err != nil {
		return nil, nil, err
	}

	events, skipped := domain.NormalizeAll(raws, h.timeService.Location())
	if len(skipped) > 0 {
		logger := logging.Component(ctx, h.settings.Logger, "history", "fetch_events", "range", formatDayRange(r))
		for _, s := range skipped {
			logger.Warn("skipping punch with malformed timestamp",
				"employee_id", s.Record.EmployeeID,
				"date", s.Record.Date,
				"time", s.Record.Time,
				"error", s.Err)
		}
	}
	return events, skipped, nil
}

// AppendPunches stores raw rows in one transaction and returns how many
// were written.
func (h *historyServiceImpl) AppendPunches(ctx context.Context, raws []domain.RawRecord) (int, error) {
	punches := make([]*sqlite.Punch, 0, len(raws))
	for _, raw := range raws {
		p := h.mapper.ToDatabase(raw)
		if p.EmployeeID == "" {
			continue
		}
		punches = append(punches, &p)
	}
	if err := h.repo.CreatePunches(ctx, punches); err != nil {
		return 0, err
	}
	return len(punches), nil
}
