package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/hrdesk/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type HRStore interface {
	Close() error
	ApplyMigrations() error

	ListEmployees(ctx context.Context) ([]models.Employee, error)
	GetEmployee(ctx context.Context, id int64) (*models.Employee, error)
	EmpIDExists(ctx context.Context, empID string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateEmployee(ctx context.Context, employee *models.Employee) error
	DeleteEmployee(ctx context.Context, id int64) (bool, error)

	CreateAttendance(ctx context.Context, attendance *models.Attendance) error
	ListAttendanceByEmployee(ctx context.Context, empDBID int64) ([]models.AttendanceRecord, error)
	ListAttendanceByDate(ctx context.Context, date string) ([]models.Attendance, error)
	ListAttendanceBetween(ctx context.Context, from, to string) ([]models.Attendance, error)
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
	// Classify maps driver constraint errors onto ErrUniqueViolation and
	// ErrForeignKeyViolation. Other errors are returned unchanged.
	Classify func(error) error
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies the embedded SQL migrations in name order, translating dialect if needed
func (s *BaseStore) ApplyMigrations(translateSQL func(string) string) error {
	files, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, "migrations/"+file.Name())
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		logger.Debug.Printf("Applying migration: %s", file.Name())
		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) classify(err error) error {
	if s.Classify == nil {
		return err
	}
	return s.Classify(err)
}

func (s *BaseStore) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	employees := []models.Employee{}
	err := s.DB.SelectContext(ctx, &employees, `
		SELECT id, emp_id, name, email, department
		FROM employees
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

func (s *BaseStore) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	var employee models.Employee
	query := s.Converter(`
		SELECT id, emp_id, name, email, department
		FROM employees
		WHERE id = ?
	`)

	err := s.DB.GetContext(ctx, &employee, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee %d: %w", id, err)
	}
	return &employee, nil
}

func (s *BaseStore) EmpIDExists(ctx context.Context, empID string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE emp_id = ?)`, empID)
}

func (s *BaseStore) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE email = ?)`, email)
}

func (s *BaseStore) exists(ctx context.Context, query string, arg any) (bool, error) {
	var found bool
	if err := s.DB.GetContext(ctx, &found, s.Converter(query), arg); err != nil {
		return false, fmt.Errorf("failed to check employee existence: %w", err)
	}
	return found, nil
}

func (s *BaseStore) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	query := s.Converter(`
		INSERT INTO employees (emp_id, name, email, department)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)

	err := s.DB.QueryRowxContext(ctx, query,
		employee.EmpID,
		employee.Name,
		employee.Email,
		employee.Department,
	).Scan(&employee.ID)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", s.classify(err))
	}
	return nil
}

// DeleteEmployee removes the employee and its attendance in one transaction.
// It reports false when no employee has the given id.
func (s *BaseStore) DeleteEmployee(ctx context.Context, id int64) (bool, error) {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.Converter(`DELETE FROM attendance WHERE emp_db_id = ?`), id); err != nil {
		return false, fmt.Errorf("failed to delete attendance of employee %d: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, s.Converter(`DELETE FROM employees WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete employee %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count deleted employees: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit employee delete: %w", err)
	}
	return true, nil
}

func (s *BaseStore) CreateAttendance(ctx context.Context, attendance *models.Attendance) error {
	query := s.Converter(`
		INSERT INTO attendance (date, status, emp_db_id)
		VALUES (?, ?, ?)
		RETURNING id
	`)

	err := s.DB.QueryRowxContext(ctx, query,
		attendance.Date,
		attendance.Status,
		attendance.EmpDBID,
	).Scan(&attendance.ID)
	if err != nil {
		return fmt.Errorf("failed to create attendance: %w", s.classify(err))
	}
	return nil
}

func (s *BaseStore) ListAttendanceByEmployee(ctx context.Context, empDBID int64) ([]models.AttendanceRecord, error) {
	records := []models.AttendanceRecord{}
	query := s.Converter(`
		SELECT date, status
		FROM attendance
		WHERE emp_db_id = ?
		ORDER BY date DESC, id DESC
	`)

	if err := s.DB.SelectContext(ctx, &records, query, empDBID); err != nil {
		return nil, fmt.Errorf("failed to list attendance of employee %d: %w", empDBID, err)
	}
	return records, nil
}

// ListAttendanceByDate returns the marks of one date ordered by id.
func (s *BaseStore) ListAttendanceByDate(ctx context.Context, date string) ([]models.Attendance, error) {
	records := []models.Attendance{}
	query := s.Converter(`
		SELECT id, date, status, emp_db_id
		FROM attendance
		WHERE date = ?
		ORDER BY id ASC
	`)

	if err := s.DB.SelectContext(ctx, &records, query, date); err != nil {
		return nil, fmt.Errorf("failed to list attendance for %s: %w", date, err)
	}
	return records, nil
}

func (s *BaseStore) ListAttendanceBetween(ctx context.Context, from, to string) ([]models.Attendance, error) {
	records := []models.Attendance{}
	query := s.Converter(`
		SELECT id, date, status, emp_db_id
		FROM attendance
		WHERE date >= ?
		AND date <= ?
		ORDER BY emp_db_id, date, id ASC
	`)

	if err := s.DB.SelectContext(ctx, &records, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list attendance between %s and %s: %w", from, to, err)
	}
	return records, nil
}
