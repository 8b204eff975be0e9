package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"timestrap/internal/errors"
	"timestrap/internal/repository/sqlstore/migrations"
)

// SearchOptions narrows a work log listing. Nil fields are ignored.
type SearchOptions struct {
	EmployeeID *int64
	Date       *string
	FromDate   *string
	ToDate     *string
}

// Repository defines the interface for database operations
type Repository interface {
	// Employees
	CreateEmployee(ctx context.Context, employee *Employee) error
	UpsertEmployee(ctx context.Context, employee *Employee) error
	GetEmployeeByCode(ctx context.Context, code string) (*Employee, error)
	ListEmployees(ctx context.Context) ([]*Employee, error)

	// Projects
	GetOrCreateProject(ctx context.Context, name string) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)

	// Work logs
	CreateWorkLog(ctx context.Context, log *WorkLog) error
	GetWorkLog(ctx context.Context, id int64) (*WorkLog, error)
	ListWorkLogs(ctx context.Context) ([]*WorkLog, error)
	SearchWorkLogs(ctx context.Context, opts SearchOptions) ([]*WorkLog, error)
	UpdateWorkLog(ctx context.Context, log *WorkLog) error
	UpdateWorkLogTotal(ctx context.Context, id int64, totalMinutes int) error
	DeleteWorkLog(ctx context.Context, id int64) error

	// Time entries
	CreateTimeEntry(ctx context.Context, entry *TimeEntry) error
	GetTimeEntry(ctx context.Context, id int64) (*TimeEntry, error)
	ListTimeEntries(ctx context.Context) ([]*TimeEntry, error)
	ListTimeEntriesForWorkLogs(ctx context.Context, worklogIDs []int64) ([]*TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, entry *TimeEntry) error
	DeleteTimeEntry(ctx context.Context, id int64) error
	DeleteTimeEntriesForWorkLog(ctx context.Context, worklogID int64) error
	CountTimeEntries(ctx context.Context, worklogID int64) (int, error)

	// WithTx runs fn against a transaction-scoped repository. The transaction commits only
	// when fn returns nil.
	WithTx(ctx context.Context, fn func(Repository) error) error

	// Utility
	Dialect() Dialect
	Close() error
}

// Store implements Repository on database/sql for every supported dialect.
type Store struct {
	db      *sql.DB
	q       DBTX
	dialect Dialect
}

// Open connects to the database, checks the connection and runs pending migrations.
func Open(ctx context.Context, dialect Dialect, dsn string) (*Store, error) {
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	if dialect == DialectSQLite {
		// One writer at a time; concurrent sqlite writers otherwise fail with SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("connect", err)
	}

	if err := migrations.RunMigrations(ctx, db, string(dialect), dialect.Rebind); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &Store{db: db, q: db, dialect: dialect}, nil
}

// Migrator returns a migration runner bound to this store's database.
func (s *Store) Migrator() *migrations.Runner {
	return migrations.NewRunner(s.db, string(s.dialect), s.dialect.Rebind)
}

// Dialect returns the SQL dialect of the store.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx runs fn inside a single transaction.
func (s *Store) WithTx(ctx context.Context, fn func(Repository) error) error {
	if _, inTx := s.q.(*sql.Tx); inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin transaction", err)
	}

	if err := fn(&Store{db: s.db, q: tx, dialect: s.dialect}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit transaction", err)
	}
	return nil
}

func (s *Store) bind(query string) string {
	return s.dialect.Rebind(query)
}

// CreateEmployee creates a new employee
func (s *Store) CreateEmployee(ctx context.Context, e *Employee) error {
	query := s.bind(`INSERT INTO employees (empcode, name) VALUES (?, ?) RETURNING id`)
	id, err := InsertReturningID(ctx, s.q, query, e.Code, e.Name)
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// UpsertEmployee creates the employee or renames the existing one with the same code
func (s *Store) UpsertEmployee(ctx context.Context, e *Employee) error {
	existing, err := s.GetEmployeeByCode(ctx, e.Code)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return s.CreateEmployee(ctx, e)
		}
		return err
	}
	e.ID = existing.ID
	if existing.Name == e.Name {
		return nil
	}
	query := s.bind(`UPDATE employees SET name = ? WHERE id = ?`)
	return ExecuteWithRowsAffected(ctx, s.q, query, "employee", e.Code, e.Name, e.ID)
}

// GetEmployeeByCode retrieves an employee by employee code
func (s *Store) GetEmployeeByCode(ctx context.Context, code string) (*Employee, error) {
	query := s.bind(`SELECT id, empcode, name FROM employees WHERE empcode = ?`)
	return QuerySingle(ctx, s.q, query, ScanEmployee, "employee", code, code)
}

// ListEmployees retrieves all employees
func (s *Store) ListEmployees(ctx context.Context) ([]*Employee, error) {
	query := `SELECT id, empcode, name FROM employees ORDER BY empcode ASC`
	return QueryMultiple(ctx, s.q, query, ScanEmployees, "employees")
}

// GetOrCreateProject returns the project with the given name, creating it when missing
func (s *Store) GetOrCreateProject(ctx context.Context, name string) (*Project, error) {
	query := s.bind(`SELECT id, name, description FROM projects WHERE name = ?`)
	p, err := QuerySingle(ctx, s.q, query, ScanProject, "project", name, name)
	if err == nil {
		return p, nil
	}
	if !errors.IsErrorType(err, errors.ErrorTypeNotFound) {
		return nil, err
	}

	insert := s.bind(`INSERT INTO projects (name) VALUES (?) RETURNING id`)
	id, err := InsertReturningID(ctx, s.q, insert, name)
	if err != nil {
		return nil, err
	}
	return &Project{ID: id, Name: name}, nil
}

// ListProjects retrieves all projects
func (s *Store) ListProjects(ctx context.Context) ([]*Project, error) {
	query := `SELECT id, name, description FROM projects ORDER BY name ASC`
	return QueryMultiple(ctx, s.q, query, ScanProjects, "projects")
}

const workLogColumns = `
	work_logs.id, work_logs.employee_id, employees.empcode, employees.name,
	work_logs.project_id, work_logs.project_name, work_logs.task_name, work_logs.description,
	work_logs.tools_used, work_logs.shift_type, work_logs.total_minutes,
	work_logs.completion_percent, work_logs.is_complete, work_logs.date, work_logs.created_at`

const workLogFrom = `
	FROM work_logs
	JOIN employees ON employees.id = work_logs.employee_id`

// CreateWorkLog creates a new work log
func (s *Store) CreateWorkLog(ctx context.Context, w *WorkLog) error {
	query := s.bind(`
	INSERT INTO work_logs (
		employee_id, project_id, project_name, task_name, description, tools_used,
		shift_type, total_minutes, completion_percent, is_complete, date, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id`)

	id, err := InsertReturningID(ctx, s.q, query,
		w.EmployeeID, NullableID(w.ProjectID), w.ProjectName, w.TaskName, w.Description, w.ToolsUsed,
		w.ShiftType, w.TotalMinutes, w.CompletionPercent, BoolForDB(w.IsComplete), w.Date,
		FormatTimeForDB(w.CreatedAt))
	if err != nil {
		return err
	}
	w.ID = id
	return nil
}

// GetWorkLog retrieves a work log by ID
func (s *Store) GetWorkLog(ctx context.Context, id int64) (*WorkLog, error) {
	query := s.bind(`SELECT` + workLogColumns + workLogFrom + ` WHERE work_logs.id = ?`)
	return QuerySingle(ctx, s.q, query, ScanWorkLog, "work log", fmt.Sprintf("%d", id), id)
}

// ListWorkLogs retrieves all work logs, newest day first
func (s *Store) ListWorkLogs(ctx context.Context) ([]*WorkLog, error) {
	return s.SearchWorkLogs(ctx, SearchOptions{})
}

// SearchWorkLogs searches for work logs based on the provided options
func (s *Store) SearchWorkLogs(ctx context.Context, opts SearchOptions) ([]*WorkLog, error) {
	var conditions []string
	var args []interface{}

	if opts.EmployeeID != nil {
		conditions = append(conditions, "work_logs.employee_id = ?")
		args = append(args, *opts.EmployeeID)
	}
	if opts.Date != nil {
		conditions = append(conditions, "work_logs.date = ?")
		args = append(args, *opts.Date)
	}
	if opts.FromDate != nil {
		conditions = append(conditions, "work_logs.date >= ?")
		args = append(args, *opts.FromDate)
	}
	if opts.ToDate != nil {
		conditions = append(conditions, "work_logs.date <= ?")
		args = append(args, *opts.ToDate)
	}

	query := `SELECT` + workLogColumns + workLogFrom
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY work_logs.date DESC, work_logs.id ASC"

	return QueryMultiple(ctx, s.q, s.bind(query), ScanWorkLogs, "work logs", args...)
}

// UpdateWorkLog updates the editable fields of an existing work log
func (s *Store) UpdateWorkLog(ctx context.Context, w *WorkLog) error {
	query := s.bind(`
	UPDATE work_logs
	SET project_id = ?, project_name = ?, task_name = ?, description = ?, tools_used = ?,
		shift_type = ?, total_minutes = ?, completion_percent = ?, is_complete = ?, date = ?
	WHERE id = ?`)

	return ExecuteWithRowsAffected(ctx, s.q, query, "work log", fmt.Sprintf("%d", w.ID),
		NullableID(w.ProjectID), w.ProjectName, w.TaskName, w.Description, w.ToolsUsed,
		w.ShiftType, w.TotalMinutes, w.CompletionPercent, BoolForDB(w.IsComplete), w.Date, w.ID)
}

// UpdateWorkLogTotal stores a recomputed total for a work log
func (s *Store) UpdateWorkLogTotal(ctx context.Context, id int64, totalMinutes int) error {
	query := s.bind(`UPDATE work_logs SET total_minutes = ? WHERE id = ?`)
	return ExecuteWithRowsAffected(ctx, s.q, query, "work log", fmt.Sprintf("%d", id), totalMinutes, id)
}

// DeleteWorkLog deletes a work log by ID. Its time entries must be removed first.
func (s *Store) DeleteWorkLog(ctx context.Context, id int64) error {
	query := s.bind(`DELETE FROM work_logs WHERE id = ?`)
	return ExecuteWithRowsAffected(ctx, s.q, query, "work log", fmt.Sprintf("%d", id), id)
}

const timeEntryColumns = `id, worklog_id, start_time, end_time`

// CreateTimeEntry creates a new time entry
func (s *Store) CreateTimeEntry(ctx context.Context, entry *TimeEntry) error {
	query := s.bind(`
	INSERT INTO time_entries (worklog_id, start_time, end_time)
	VALUES (?, ?, ?)
	RETURNING id`)

	id, err := InsertReturningID(ctx, s.q, query, entry.WorklogID,
		FormatTimeForDB(entry.StartTime), FormatTimeForDB(entry.EndTime))
	if err != nil {
		return err
	}

	entry.ID = id
	return nil
}

// GetTimeEntry retrieves a time entry by ID
func (s *Store) GetTimeEntry(ctx context.Context, id int64) (*TimeEntry, error) {
	query := s.bind(`SELECT ` + timeEntryColumns + ` FROM time_entries WHERE id = ?`)
	return QuerySingle(ctx, s.q, query, ScanTimeEntry, "time entry", fmt.Sprintf("%d", id), id)
}

// ListTimeEntries retrieves all time entries
func (s *Store) ListTimeEntries(ctx context.Context) ([]*TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries ORDER BY worklog_id ASC, start_time ASC`
	return QueryMultiple(ctx, s.q, query, ScanTimeEntries, "time entries")
}

// ListTimeEntriesForWorkLogs retrieves the time entries of the given work logs
func (s *Store) ListTimeEntriesForWorkLogs(ctx context.Context, worklogIDs []int64) ([]*TimeEntry, error) {
	if len(worklogIDs) == 0 {
		return []*TimeEntry{}, nil
	}
	placeholders := make([]string, len(worklogIDs))
	args := make([]interface{}, len(worklogIDs))
	for i, id := range worklogIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE worklog_id IN (` +
		strings.Join(placeholders, ", ") + `) ORDER BY worklog_id ASC, start_time ASC, id ASC`
	return QueryMultiple(ctx, s.q, s.bind(query), ScanTimeEntries, "time entries", args...)
}

// UpdateTimeEntry updates an existing time entry
func (s *Store) UpdateTimeEntry(ctx context.Context, entry *TimeEntry) error {
	query := s.bind(`
	UPDATE time_entries
	SET start_time = ?, end_time = ?
	WHERE id = ?`)

	return ExecuteWithRowsAffected(ctx, s.q, query, "time entry", fmt.Sprintf("%d", entry.ID),
		FormatTimeForDB(entry.StartTime), FormatTimeForDB(entry.EndTime), entry.ID)
}

// DeleteTimeEntry deletes a time entry by ID
func (s *Store) DeleteTimeEntry(ctx context.Context, id int64) error {
	query := s.bind(`DELETE FROM time_entries WHERE id = ?`)
	return ExecuteWithRowsAffected(ctx, s.q, query, "time entry", fmt.Sprintf("%d", id), id)
}

// DeleteTimeEntriesForWorkLog deletes every time entry of a work log
func (s *Store) DeleteTimeEntriesForWorkLog(ctx context.Context, worklogID int64) error {
	query := s.bind(`DELETE FROM time_entries WHERE worklog_id = ?`)
	if _, err := s.q.ExecContext(ctx, query, worklogID); err != nil {
		return HandleDatabaseError("delete time entries", err)
	}
	return nil
}

// CountTimeEntries counts the time entries of a work log
func (s *Store) CountTimeEntries(ctx context.Context, worklogID int64) (int, error) {
	query := s.bind(`SELECT COUNT(*) FROM time_entries WHERE worklog_id = ?`)
	var n int
	if err := s.q.QueryRowContext(ctx, query, worklogID).Scan(&n); err != nil {
		return 0, HandleDatabaseError("count time entries", err)
	}
	return n, nil
}
