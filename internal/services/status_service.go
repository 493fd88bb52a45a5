package services

import (
	"context"

	"timeclock/internal/domain"
	"timeclock/internal/errors"
)

// statusServiceImpl implements the StatusService interface
type statusServiceImpl struct {
	timeService     TimeService
	employeeService EmployeeService
	historyService  HistoryService
}

// NewStatusService creates a new StatusService instance
func NewStatusService(timeService TimeService, employeeService EmployeeService, historyService HistoryService) StatusService {
	return &statusServiceImpl{
		timeService:     timeService,
		employeeService: employeeService,
		historyService:  historyService,
	}
}

// Status returns the employee's last punch today and what may follow it.
// An employee with no record on file is still reported from the punch log.
func (s *statusServiceImpl) Status(ctx context.Context, employeeID string) (*EmployeeStatus, error) {
	id := domain.CoerceID(employeeID)
	if id == "" {
		return nil, errors.NewValidationError("employee id is required", nil)
	}

	emp, _, err := s.employeeService.LookupEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	today := s.timeService.Today()
	events, _, err := s.historyService.FetchEvents(ctx, id, DateRange{From: today, To: today})
	if err != nil {
		return nil, err
	}

	status := &EmployeeStatus{EmployeeID: id, Name: emp.Name}
	last, found := domain.LastEvent(events)
	lastType := domain.PunchNone
	if found {
		view := viewOf(last)
		status.LastPunch = &view
		lastType = last.Type
		if status.Name == "" {
			status.Name = last.EmployeeName
		}
	}
	status.State = domain.StateFor(lastType).String()
	status.NextActions = punchLabels(domain.NextActions(lastType))
	return status, nil
}
