package sqlite

import (
	"database/sql"
	"time"
)

// Scanner is satisfied by both *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows is the iteration subset of *sql.Rows.
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanEmployee scans id, name, hourly_wage, created_at.
func ScanEmployee(scanner Scanner) (*Employee, error) {
	e := &Employee{}
	var wage sql.NullInt64
	var createdAt string

	if err := scanner.Scan(&e.ID, &e.Name, &wage, &createdAt); err != nil {
		return nil, err
	}
	if wage.Valid {
		w := wage.Int64
		e.HourlyWage = &w
	}
	e.CreatedAt = parseStoredTime(createdAt)
	return e, nil
}

// ScanEmployees scans every remaining row as an employee.
func ScanEmployees(rows Rows) ([]*Employee, error) {
	return scanAll(rows, ScanEmployee)
}

// ScanPunch scans seq, id, employee_id, employee_name, date, time,
// punch_type, position, day, created_at.
func ScanPunch(scanner Scanner) (*Punch, error) {
	p := &Punch{}
	var createdAt string

	err := scanner.Scan(
		&p.Seq,
		&p.ID,
		&p.EmployeeID,
		&p.EmployeeName,
		&p.Date,
		&p.Time,
		&p.PunchType,
		&p.Position,
		&p.Day,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = parseStoredTime(createdAt)
	return p, nil
}

// ScanPunches scans every remaining row as a punch.
func ScanPunches(rows Rows) ([]*Punch, error) {
	return scanAll(rows, ScanPunch)
}

func scanAll[T any](rows Rows, scan func(Scanner) (*T, error)) ([]*T, error) {
	out := []*T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseStoredTime(s string) time.Time {
	t, err := ParseTimeFromDB(s)
	if err != nil {
		return time.Time{}
	}
	return t
}
