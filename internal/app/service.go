package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/hrdesk/internal/apperrors"
	"github.com/shrimpsizemoose/hrdesk/internal/metrics"
	"github.com/shrimpsizemoose/hrdesk/internal/models"
	"github.com/shrimpsizemoose/hrdesk/internal/report"
	"github.com/shrimpsizemoose/hrdesk/internal/store"
)

const (
	msgInvalidBody       = "Invalid request body"
	msgInvalidEmail      = "Invalid email format"
	msgDuplicateEmpID    = "Duplicate Employee ID"
	msgDuplicateEmail    = "Duplicate email"
	msgDuplicateEmployee = "Employee with this ID or email already exists"
	msgEmployeeNotFound  = "Employee not found"
	msgAttendanceFields  = "Date, Status, and Employee ID are required"
	msgAttendanceFailed  = "Failed to save attendance"
	msgInvalidRange      = "from and to must be dates (YYYY-MM-DD) with from <= to"
)

type Service struct {
	Config     *Config
	Store      store.HRStore
	Cache      *SnapshotCache
	Summarizer *report.Summarizer
	// Now is the clock used for "today"; local time.
	Now func() time.Time
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := NewStore(config.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	cache, err := NewSnapshotCache(config)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to init cache: %w", err)
	}

	return NewServiceWith(config, store, cache), nil
}

func NewServiceWith(config *Config, store store.HRStore, cache *SnapshotCache) *Service {
	if cache == nil {
		cache = &SnapshotCache{}
	}
	return &Service{
		Config:     config,
		Store:      store,
		Cache:      cache,
		Summarizer: report.NewSummarizer(store),
		Now:        time.Now,
	}
}

// Today is the current local date in ISO form.
func (s *Service) Today() string {
	return s.Now().Format(time.DateOnly)
}

// InvalidBody is returned by callers that could not decode a request.
func InvalidBody() error {
	return apperrors.Validation(msgInvalidBody)
}

func (s *Service) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.Store.ListEmployees(ctx)
	if err != nil {
		return nil, apperrors.Persistence("Failed to fetch employees", err)
	}
	return employees, nil
}

func (s *Service) CreateEmployee(ctx context.Context, req *models.EmployeeRequest) (*models.Employee, error) {
	employee := req.Employee()
	if err := validationError(employee.Validate()); err != nil {
		return nil, err
	}

	taken, err := s.Store.EmpIDExists(ctx, employee.EmpID)
	if err != nil {
		return nil, apperrors.Persistence("Failed to save employee", err)
	}
	if taken {
		return nil, apperrors.Duplicate(msgDuplicateEmpID, nil)
	}

	taken, err = s.Store.EmailExists(ctx, employee.Email)
	if err != nil {
		return nil, apperrors.Persistence("Failed to save employee", err)
	}
	if taken {
		return nil, apperrors.Duplicate(msgDuplicateEmail, nil)
	}

	if err := s.Store.CreateEmployee(ctx, employee); err != nil {
		// the pre-checks race with concurrent creates, the constraint decides
		if errors.Is(err, store.ErrUniqueViolation) {
			return nil, apperrors.Duplicate(msgDuplicateEmployee, err)
		}
		return nil, apperrors.Persistence("Failed to save employee", err)
	}

	return employee, nil
}

// validationError turns validator output for an employee into the single
// message the API reports. Email problems take precedence.
func validationError(err error) error {
	if err == nil {
		return nil
	}

	fields := models.FailedFields(err)
	for _, fe := range fields {
		if fe.Field == "email" {
			return apperrors.Validation(msgInvalidEmail)
		}
	}
	if len(fields) == 0 {
		return apperrors.Validation(msgInvalidBody)
	}

	fe := fields[0]
	if fe.Tag == "max" {
		return apperrors.Validation(fmt.Sprintf("%s is too long", fe.Field))
	}
	return apperrors.Validation(fmt.Sprintf("%s is required", fe.Field))
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	employee, err := s.Store.GetEmployee(ctx, id)
	if err != nil {
		return nil, apperrors.Persistence("Failed to fetch employee", err)
	}
	if employee == nil {
		return nil, apperrors.NotFound(msgEmployeeNotFound)
	}
	return employee, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	deleted, err := s.Store.DeleteEmployee(ctx, id)
	if err != nil {
		return apperrors.Persistence("Failed to delete employee", err)
	}
	if !deleted {
		return apperrors.NotFound(msgEmployeeNotFound)
	}

	if err := s.Cache.InvalidateAll(ctx); err != nil {
		logger.Error.Printf("Failed to invalidate snapshot cache after deleting employee %d: %v", id, err)
	}
	return nil
}

func (s *Service) MarkAttendance(ctx context.Context, req *models.AttendanceRequest) (*models.Attendance, error) {
	attendance := req.Attendance()
	if err := attendance.Validate(); err != nil {
		return nil, apperrors.Validation(msgAttendanceFields)
	}

	if err := s.Store.CreateAttendance(ctx, attendance); err != nil {
		return nil, apperrors.Persistence(msgAttendanceFailed, err)
	}

	if err := s.Cache.Invalidate(ctx, attendance.Date); err != nil {
		logger.Error.Printf("Failed to invalidate snapshot cache for %s: %v", attendance.Date, err)
	}
	return attendance, nil
}

func (s *Service) History(ctx context.Context, empDBID int64) ([]models.AttendanceRecord, error) {
	records, err := s.Store.ListAttendanceByEmployee(ctx, empDBID)
	if err != nil {
		return nil, apperrors.Persistence("Failed to fetch attendance", err)
	}
	return records, nil
}

func (s *Service) DailySnapshot(ctx context.Context, date string) (map[int64]string, error) {
	cached, ok, err := s.Cache.Get(ctx, date)
	if err != nil {
		logger.Error.Printf("Snapshot cache read failed for %s: %v", date, err)
	}
	if ok {
		metrics.SnapshotCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	if s.Cache.Enabled() {
		metrics.SnapshotCacheTotal.WithLabelValues("miss").Inc()
		logger.Debug.Printf("Snapshot cache miss for %s", date)
	}

	// the version must be read before the store so later invalidations win
	version, versionErr := s.Cache.Version(ctx, date)
	if versionErr != nil {
		logger.Error.Printf("Snapshot cache version read failed for %s: %v", date, versionErr)
	}

	records, err := s.Store.ListAttendanceByDate(ctx, date)
	if err != nil {
		return nil, apperrors.Persistence("Failed to fetch attendance", err)
	}
	snapshot := report.DailySnapshot(records)

	if versionErr == nil {
		if err := s.Cache.Set(ctx, date, version, snapshot); err != nil {
			logger.Error.Printf("Snapshot cache write failed for %s: %v", date, err)
		}
	}
	return snapshot, nil
}

func (s *Service) TodaySnapshot(ctx context.Context) (map[int64]string, error) {
	return s.DailySnapshot(ctx, s.Today())
}

func (s *Service) Summary(ctx context.Context, from, to string) ([]report.EmployeeSummary, error) {
	bounds := models.SummaryRange{From: from, To: to}
	if err := bounds.Validate(); err != nil {
		return nil, apperrors.Validation(msgInvalidRange)
	}

	summaries, err := s.Summarizer.Summarize(ctx, from, to)
	if err != nil {
		return nil, apperrors.Persistence("Failed to summarize attendance", err)
	}
	return summaries, nil
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("cache: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
