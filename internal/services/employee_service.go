package services

import (
	"context"
	"strings"

	"timeclock/internal/domain"
	"timeclock/internal/errors"
	"timeclock/internal/repository/sqlite"
	"timeclock/internal/validation"
)

// employeeServiceImpl implements the EmployeeService interface
type employeeServiceImpl struct {
	repo      sqlite.Repository
	mapper    *domain.EmployeeMapper
	validator *validation.EmployeeValidator
}

// NewEmployeeService creates a new EmployeeService instance
func NewEmployeeService(repo sqlite.Repository) EmployeeService {
	return &employeeServiceImpl{
		repo:      repo,
		mapper:    domain.NewEmployeeMapper(),
		validator: validation.NewEmployeeValidator(),
	}
}

func (e *employeeServiceImpl) clean(emp domain.Employee) (domain.Employee, error) {
	emp.ID = domain.CoerceID(emp.ID)
	emp.Name = strings.TrimSpace(emp.Name)
	if err := e.validator.ValidateEmployee(emp); err != nil {
		if ve, ok := err.(*validation.ValidationError); ok {
			return emp, ve.AsAppError()
		}
		return emp, errors.NewValidationError("invalid employee", err)
	}
	return emp, nil
}

// CreateEmployee stores a new employee
func (e *employeeServiceImpl) CreateEmployee(ctx context.Context, emp domain.Employee) (*domain.Employee, error) {
	emp, err := e.clean(emp)
	if err != nil {
		return nil, err
	}

	dbEmp := e.mapper.ToDatabase(emp)
	if err := e.repo.CreateEmployee(ctx, &dbEmp); err != nil {
		return nil, err
	}

	created := e.mapper.FromDatabase(dbEmp)
	return &created, nil
}

// UpsertEmployee creates the employee or replaces name and wage
func (e *employeeServiceImpl) UpsertEmployee(ctx context.Context, emp domain.Employee) (*domain.Employee, error) {
	emp, err := e.clean(emp)
	if err != nil {
		return nil, err
	}

	dbEmp := e.mapper.ToDatabase(emp)
	if err := e.repo.UpsertEmployee(ctx, &dbEmp); err != nil {
		return nil, err
	}

	saved := e.mapper.FromDatabase(dbEmp)
	return &saved, nil
}

// FetchEmployee retrieves an employee by id
func (e *employeeServiceImpl) FetchEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	id = domain.CoerceID(id)
	if id == "" {
		return nil, errors.NewValidationError("employee id is required", nil)
	}

	dbEmp, err := e.repo.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	emp := e.mapper.FromDatabase(*dbEmp)
	return &emp, nil
}

// FetchEmployees lists all employees ordered by id
func (e *employeeServiceImpl) FetchEmployees(ctx context.Context) ([]domain.Employee, error) {
	dbEmps, err := e.repo.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	return e.mapper.FromDatabaseSlice(dbEmps), nil
}

// DeleteEmployee removes an employee record. Their punches are kept.
func (e *employeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	id = domain.CoerceID(id)
	if id == "" {
		return errors.NewValidationError("employee id is required", nil)
	}
	return e.repo.DeleteEmployee(ctx, id)
}

// LookupEmployee is FetchEmployee with a missing employee reported as ok=false
func (e *employeeServiceImpl) LookupEmployee(ctx context.Context, id string) (domain.Employee, bool, error) {
	emp, err := e.FetchEmployee(ctx, id)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return domain.Employee{ID: domain.CoerceID(id)}, false, nil
		}
		return domain.Employee{}, false, err
	}
	return *emp, true, nil
}
