package domain

import (
	"time"

	"timeclock/internal/repository/sqlite"
)

// EmployeeMapper handles conversion between domain and database Employee models.
type EmployeeMapper struct{}

// NewEmployeeMapper creates a new EmployeeMapper instance.
func NewEmployeeMapper() *EmployeeMapper {
	return &EmployeeMapper{}
}

// ToDatabase converts a domain Employee to a database Employee.
func (m *EmployeeMapper) ToDatabase(e Employee) sqlite.Employee {
	dbEmp := sqlite.Employee{ID: e.ID, Name: e.Name}
	if e.HasWage() {
		wage := e.HourlyWage
		dbEmp.HourlyWage = &wage
	}
	return dbEmp
}

// FromDatabase converts a database Employee to a domain Employee.
func (m *EmployeeMapper) FromDatabase(dbEmp sqlite.Employee) Employee {
	e := Employee{ID: dbEmp.ID, Name: dbEmp.Name}
	if dbEmp.HourlyWage != nil {
		e.HourlyWage = *dbEmp.HourlyWage
	}
	return e
}

// FromDatabaseSlice converts a slice of database Employees to domain Employees.
func (m *EmployeeMapper) FromDatabaseSlice(dbEmps []*sqlite.Employee) []Employee {
	out := make([]Employee, len(dbEmps))
	for i, e := range dbEmps {
		out[i] = m.FromDatabase(*e)
	}
	return out
}

// PunchMapper converts between raw punch rows and stored punches.
type PunchMapper struct {
	loc *time.Location
}

// NewPunchMapper creates a PunchMapper that resolves days in loc.
func NewPunchMapper(loc *time.Location) *PunchMapper {
	if loc == nil {
		loc = time.Local
	}
	return &PunchMapper{loc: loc}
}

// ToDatabase converts a raw record to a database punch. The raw date and
// time strings are stored as given; Day holds the normalized calendar day
// used for range queries.
func (m *PunchMapper) ToDatabase(raw RawRecord) sqlite.Punch {
	return sqlite.Punch{
		EmployeeID:   CoerceID(raw.EmployeeID),
		EmployeeName: raw.EmployeeName,
		Date:         raw.Date,
		Time:         raw.Time,
		PunchType:    raw.PunchType,
		Position:     raw.Position,
		Day:          m.DayOf(raw),
	}
}

// DayOf returns the YYYY-MM-DD day of a raw record, or the normalized date
// string when the timestamp cannot be parsed.
func (m *PunchMapper) DayOf(raw RawRecord) string {
	ev, err := Normalize(raw, m.loc)
	if err != nil {
		return ev.Date
	}
	return DayKey(ev.Timestamp)
}

// FromDatabase converts a database punch back into a raw record.
func (m *PunchMapper) FromDatabase(p sqlite.Punch) RawRecord {
	return RawRecord{
		EmployeeID:   p.EmployeeID,
		EmployeeName: p.EmployeeName,
		Date:         p.Date,
		Time:         p.Time,
		PunchType:    p.PunchType,
		Position:     p.Position,
	}
}

// FromDatabaseSlice converts stored punches into raw records, keeping order.
func (m *PunchMapper) FromDatabaseSlice(punches []*sqlite.Punch) []RawRecord {
	out := make([]RawRecord, len(punches))
	for i, p := range punches {
		out[i] = m.FromDatabase(*p)
	}
	return out
}
