package validation

import (
	"time"

	"timeclock/internal/domain"
)

// PunchValidator validates punch requests and history queries
type PunchValidator struct {
	validator *Validator
}

// NewPunchValidator creates a new punch validator
func NewPunchValidator() *PunchValidator {
	return &PunchValidator{
		validator: NewValidator(),
	}
}

// ValidateEmployeeID validates an employee id
func (pv *PunchValidator) ValidateEmployeeID(id string) error {
	validationError := NewValidationError()
	pv.checkEmployeeID(validationError, id)
	return validationError.orNil()
}

func (pv *PunchValidator) checkEmployeeID(ve *ValidationError, id string) {
	id = pv.validator.TrimAndValidateString(id)
	switch {
	case !pv.validator.IsNonEmptyString(id):
		ve.AddRequiredError("employee_id")
	case !pv.validator.IsValidStringLength(id, 1, MaxEmployeeIDLength):
		ve.AddInvalidLengthError("employee_id", id, 1, MaxEmployeeIDLength)
	case !pv.validator.IsValidEmployeeID(id):
		ve.AddInvalidCharacterError("employee_id", id)
	}
}

// ValidatePunch validates a punch about to be recorded. A clock-out must
// name the position worked.
func (pv *PunchValidator) ValidatePunch(employeeID, employeeName string, punchType domain.PunchType, position string) error {
	validationError := NewValidationError()

	pv.checkEmployeeID(validationError, employeeID)

	if !pv.validator.IsNonEmptyString(employeeName) {
		validationError.AddRequiredError("employee_name")
	}

	if !punchType.IsKnown() {
		validationError.AddInvalidValueError("punch_type", string(punchType),
			"must be one of 出勤, 休憩開始, 休憩終了, 退勤")
	}

	if punchType == domain.PunchClockOut && !pv.validator.IsNonEmptyString(position) {
		validationError.AddRequiredError("position")
	}
	if !pv.validator.IsValidStringLength(position, 0, MaxPositionLength) {
		validationError.AddInvalidLengthError("position", position, 0, MaxPositionLength)
	}

	return validationError.orNil()
}

// ValidateHistoryRange validates an inclusive day range
func (pv *PunchValidator) ValidateHistoryRange(from, to time.Time) error {
	if pv.validator.IsValidDateRange(from, to) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddInvalidRangeError("from", from.Format("2006-01-02"), "must not be after to")
	return validationError
}

// ValidateDays validates a history look-back window
func (pv *PunchValidator) ValidateDays(days int) error {
	if pv.validator.IsValidDays(days) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddInvalidRangeError("days", days, "must be between 1 and 366")
	return validationError
}
