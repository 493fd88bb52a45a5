package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"timeclock/internal/errors"
	"timeclock/internal/repository/sqlite/migrations"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Repository defines the interface for database operations
type Repository interface {
	// Employees
	CreateEmployee(ctx context.Context, emp *Employee) error
	UpsertEmployee(ctx context.Context, emp *Employee) error
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	ListEmployees(ctx context.Context) ([]*Employee, error)
	DeleteEmployee(ctx context.Context, id string) error

	// Punches
	CreatePunch(ctx context.Context, punch *Punch) error
	CreatePunches(ctx context.Context, punches []*Punch) error
	ListPunches(ctx context.Context, q PunchQuery) ([]*Punch, error)

	// Utility
	Close() error
}

// Options tunes per-call deadlines. Zero values mean no extra deadline.
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db   *sql.DB
	opts Options
	now  func() time.Time
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	return NewWithOptions(dbPath, Options{})
}

// NewWithOptions opens dbPath, runs migrations and applies opts.
func NewWithOptions(dbPath string, opts Options) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	if dbPath == ":memory:" {
		// each connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db, opts: opts, now: time.Now}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) readCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.QueryTimeout > 0 {
		return context.WithTimeout(ctx, r.opts.QueryTimeout)
	}
	return ctx, func() {}
}

func (r *SQLiteRepository) writeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.WriteTimeout > 0 {
		return context.WithTimeout(ctx, r.opts.WriteTimeout)
	}
	return ctx, func() {}
}

// ========== Employees ==========

// CreateEmployee inserts a new employee. A duplicate id is a validation error.
func (r *SQLiteRepository) CreateEmployee(ctx context.Context, emp *Employee) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	emp.CreatedAt = r.now().UTC().Truncate(time.Second)
	query := `INSERT INTO employees (id, name, hourly_wage, created_at) VALUES (?, ?, ?, ?)`
	_, err := execInsert(ctx, r.db, "employee", emp.ID, query,
		emp.ID, emp.Name, NullableInt64(emp.HourlyWage), FormatTimeForDB(emp.CreatedAt))
	return err
}

// UpsertEmployee inserts the employee or updates name and wage of an existing one.
func (r *SQLiteRepository) UpsertEmployee(ctx context.Context, emp *Employee) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	if emp.CreatedAt.IsZero() {
		emp.CreatedAt = r.now().UTC().Truncate(time.Second)
	}
	query := `
	INSERT INTO employees (id, name, hourly_wage, created_at) VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET name = excluded.name, hourly_wage = excluded.hourly_wage`
	if _, err := r.db.ExecContext(ctx, query,
		emp.ID, emp.Name, NullableInt64(emp.HourlyWage), FormatTimeForDB(emp.CreatedAt)); err != nil {
		return HandleDatabaseError("upsert employee", err)
	}
	return nil
}

// GetEmployee retrieves an employee by id
func (r *SQLiteRepository) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `SELECT id, name, hourly_wage, created_at FROM employees WHERE id = ?`
	return QuerySingle(ctx, r.db, query, ScanEmployee, "employee", id, id)
}

// ListEmployees retrieves all employees ordered by id
func (r *SQLiteRepository) ListEmployees(ctx context.Context) ([]*Employee, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `SELECT id, name, hourly_wage, created_at FROM employees ORDER BY id ASC`
	return QueryMultiple(ctx, r.db, query, ScanEmployees, "employees")
}

// DeleteEmployee deletes an employee. Their punches are kept.
func (r *SQLiteRepository) DeleteEmployee(ctx context.Context, id string) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	return ExecuteWithRowsAffected(ctx, r.db, `DELETE FROM employees WHERE id = ?`, "employee", id, id)
}

// ========== Punches ==========

const insertPunch = `
	INSERT INTO punches (id, employee_id, employee_name, date, time, punch_type, position, day, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (r *SQLiteRepository) insertPunch(ctx context.Context, db execer, p *Punch) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.now().UTC().Truncate(time.Second)
	}
	result, err := execInsert(ctx, db, "punch", p.ID, insertPunch,
		p.ID, p.EmployeeID, p.EmployeeName, p.Date, p.Time, p.PunchType, p.Position, p.Day,
		FormatTimeForDB(p.CreatedAt))
	if err != nil {
		return err
	}
	seq, err := result.LastInsertId()
	if err != nil {
		return HandleDatabaseError("get last insert ID", err)
	}
	p.Seq = seq
	return nil
}

// CreatePunch appends a punch to the log, assigning an id when empty.
func (r *SQLiteRepository) CreatePunch(ctx context.Context, punch *Punch) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	return r.insertPunch(ctx, r.db, punch)
}

// CreatePunches appends punches in one transaction; either all are stored or none.
func (r *SQLiteRepository) CreatePunches(ctx context.Context, punches []*Punch) error {
	if len(punches) == 0 {
		return nil
	}
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	return InTx(ctx, r.db, "create punches", func(tx *sql.Tx) error {
		for _, p := range punches {
			if err := r.insertPunch(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListPunches returns punches matching q in insertion order.
func (r *SQLiteRepository) ListPunches(ctx context.Context, q PunchQuery) ([]*Punch, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	var conditions []string
	var args []interface{}
	if q.EmployeeID != nil {
		conditions = append(conditions, "employee_id = ?")
		args = append(args, *q.EmployeeID)
	}
	if q.FromDay != nil {
		conditions = append(conditions, "day >= ?")
		args = append(args, *q.FromDay)
	}
	if q.ToDay != nil {
		conditions = append(conditions, "day <= ?")
		args = append(args, *q.ToDay)
	}

	query := `
	SELECT seq, id, employee_id, employee_name, date, time, punch_type, position, day, created_at
	FROM punches`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY seq ASC"

	return QueryMultiple(ctx, r.db, query, ScanPunches, "punches", args...)
}
