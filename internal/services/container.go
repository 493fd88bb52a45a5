package services

import (
	"timeclock/internal/repository/sqlite"
)

// NewServiceContainer wires every service over one repository
func NewServiceContainer(repo sqlite.Repository, settings Settings) *ServiceContainer {
	settings = settings.withDefaults()

	timeService := NewTimeService(settings)
	employeeService := NewEmployeeService(repo)
	historyService := NewHistoryService(repo, timeService, settings)
	rosterService := NewRosterService(timeService, employeeService, historyService, settings)

	return &ServiceContainer{
		TimeService:      timeService,
		EmployeeService:  employeeService,
		HistoryService:   historyService,
		PunchService:     NewPunchService(timeService, employeeService, historyService, rosterService, settings),
		StatusService:    NewStatusService(timeService, employeeService, historyService),
		ReportingService: NewReportingService(timeService, employeeService, historyService, settings),
		RosterService:    rosterService,
	}
}
