package sqlite

import "time"

// Employee is a row of the employees table. HourlyWage is NULL when no
// wage is on file.
type Employee struct {
	ID         string
	Name       string
	HourlyWage *int64
	CreatedAt  time.Time
}

// Punch is a row of the punches table. Date, Time and PunchType hold the
// text exactly as it was recorded; Day is the normalized YYYY-MM-DD used
// for range queries. Seq preserves insertion order.
type Punch struct {
	Seq          int64
	ID           string
	EmployeeID   string
	EmployeeName string
	Date         string
	Time         string
	PunchType    string
	Position     string
	Day          string
	CreatedAt    time.Time
}

// PunchQuery filters punches. Nil fields are not applied; FromDay and ToDay
// are inclusive.
type PunchQuery struct {
	EmployeeID *string
	FromDay    *string
	ToDay      *string
}
