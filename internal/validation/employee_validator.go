package validation

import (
	"timeclock/internal/domain"
)

// EmployeeValidator validates employee records
type EmployeeValidator struct {
	validator *Validator
	punches   *PunchValidator
}

// NewEmployeeValidator creates a new employee validator
func NewEmployeeValidator() *EmployeeValidator {
	return &EmployeeValidator{
		validator: NewValidator(),
		punches:   NewPunchValidator(),
	}
}

// ValidateEmployee validates an employee for creation or import
func (ev *EmployeeValidator) ValidateEmployee(emp domain.Employee) error {
	validationError := NewValidationError()

	validationError.merge(ev.punches.ValidateEmployeeID(emp.ID))

	name := ev.validator.TrimAndValidateString(emp.Name)
	switch {
	case !ev.validator.IsNonEmptyString(name):
		validationError.AddRequiredError("name")
	case !ev.validator.IsValidStringLength(name, 1, MaxEmployeeNameLength):
		validationError.AddInvalidLengthError("name", name, 1, MaxEmployeeNameLength)
	case ev.validator.HasControlCharacters(name):
		validationError.AddInvalidCharacterError("name", name)
	}

	if emp.HourlyWage < 0 {
		validationError.AddInvalidValueError("hourly_wage", emp.HourlyWage, "must not be negative")
	}

	return validationError.orNil()
}
