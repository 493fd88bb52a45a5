package services

import (
	"context"
	"strings"

	"timeclock/internal/domain"
	"timeclock/internal/errors"
	"timeclock/internal/logging"
	"timeclock/internal/validation"
)

const (
	punchDateLayout = "2006-01-02"
	punchTimeLayout = "15:04:05"
)

// rosterInvalidator is the part of RosterService a punch needs
type rosterInvalidator interface {
	Invalidate(day string)
}

// punchServiceImpl implements the PunchService interface
type punchServiceImpl struct {
	timeService     TimeService
	employeeService EmployeeService
	historyService  HistoryService
	roster          rosterInvalidator
	validator       *validation.PunchValidator
	settings        Settings
}

// NewPunchService creates a new PunchService instance. roster may be nil.
func NewPunchService(timeService TimeService, employeeService EmployeeService, historyService HistoryService, roster rosterInvalidator, settings Settings) PunchService {
	return &punchServiceImpl{
		timeService:     timeService,
		employeeService: employeeService,
		historyService:  historyService,
		roster:          roster,
		validator:       validation.NewPunchValidator(),
		settings:        settings.withDefaults(),
	}
}

// Punch records req at the current time. The punch must be one of the
// actions allowed after the employee's last punch today.
func (p *punchServiceImpl) Punch(ctx context.Context, req PunchRequest) (*PunchResult, error) {
	id := domain.CoerceID(req.EmployeeID)
	// typed input is lenient; stored rows carry the canonical label
	punchType, _ := domain.ParsePunchType(strings.TrimSpace(req.PunchType))
	position := domain.CanonicalPosition(strings.TrimSpace(req.Position))

	name := strings.TrimSpace(req.EmployeeName)
	if name == "" && id != "" {
		emp, found, err := p.employeeService.LookupEmployee(ctx, id)
		if err != nil {
			return nil, err
		}
		if found {
			name = emp.Name
		}
	}

	if err := p.validator.ValidatePunch(id, name, punchType, position); err != nil {
		if ve, ok := err.(*validation.ValidationError); ok {
			return nil, ve.AsAppError()
		}
		return nil, errors.NewValidationError("invalid punch", err)
	}

	now := p.timeService.Now()
	today := p.timeService.StartOfDay(now)
	events, _, err := p.historyService.FetchEvents(ctx, id, DateRange{From: today, To: today})
	if err != nil {
		return nil, err
	}

	last := domain.LastPunchType(events)
	if !domain.IsAllowed(last, punchType) {
		return nil, errors.NewPunchNotAllowedError(string(punchType), string(last), punchLabels(domain.NextActions(last)))
	}

	raw := domain.RawRecord{
		EmployeeID:   id,
		EmployeeName: name,
		Date:         now.Format(punchDateLayout),
		Time:         now.Format(punchTimeLayout),
		PunchType:    string(punchType),
		Position:     position,
	}
	if _, err := p.historyService.AppendPunches(ctx, []domain.RawRecord{raw}); err != nil {
		return nil, err
	}

	day := domain.DayKey(now)
	if p.roster != nil {
		p.roster.Invalidate(day)
	}

	logger := logging.Component(ctx, p.settings.Logger, "punch", "record")
	logger.Info("punch recorded",
		"employee_id", id,
		"punch_type", punchType.Tag(),
		"position", position,
		"day", day)

	ev, err := domain.Normalize(raw, p.timeService.Location())
	if err != nil {
		return nil, err
	}
	return &PunchResult{
		Punch:       viewOf(ev),
		State:       domain.StateFor(punchType).String(),
		NextActions: punchLabels(domain.NextActions(punchType)),
	}, nil
}

func punchLabels(types []domain.PunchType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func viewOf(ev domain.PunchEvent) PunchView {
	return PunchView{
		EmployeeID:   ev.EmployeeID,
		EmployeeName: ev.EmployeeName,
		Date:         ev.Date,
		Time:         ev.Time,
		PunchType:    string(ev.Type),
		Position:     ev.Position,
		Timestamp:    ev.Timestamp,
	}
}
