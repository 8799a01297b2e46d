package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
	"github.com/DiegoNoguez/Asistencia-RFID/internal/repository"
	appErrors "github.com/DiegoNoguez/Asistencia-RFID/pkg/errors"
)

type attendanceRepository interface {
	Exists(ctx context.Context, matricula, claveM string, date time.Time) (bool, error)
	Insert(ctx context.Context, record *models.AttendanceRecord) error
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error)
}

type teacherAttendanceRepository interface {
	Exists(ctx context.Context, claveP int, claveM string, date time.Time) (bool, error)
	Insert(ctx context.Context, record *models.TeacherAttendanceRecord) error
	Summaries(ctx context.Context) ([]models.TeacherAttendanceSummary, error)
}

type summaryInvalidator interface {
	Invalidate(ctx context.Context, matricula, claveM string, groupNum int)
}

// AttendanceService records scans and lists attendance history. Writes are
// guarded twice: a pre-check for the friendly 409, and the unique constraint
// for concurrent scans of the same card.
type AttendanceService struct {
	attendance        attendanceRepository
	teacherAttendance teacherAttendanceRepository
	summaries         summaryInvalidator
	validator         *validator.Validate
	logger            *zap.Logger
	now               func() time.Time
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(attendance attendanceRepository, teacherAttendance teacherAttendanceRepository, summaries summaryInvalidator, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceService{
		attendance:        attendance,
		teacherAttendance: teacherAttendance,
		summaries:         summaries,
		validator:         validate,
		logger:            logger,
		now:               time.Now,
	}
}

// today truncates the clock to the calendar date used as the duplicate key.
// The date stays in the clock's own location so it always agrees with the
// recorded wall time, even across the UTC midnight boundary.
func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// Record stores one student scan for today.
func (s *AttendanceService) Record(ctx context.Context, req models.RecordAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	now := s.now()
	date := today(now)

	exists, err := s.attendance.Exists(ctx, req.Matricula, req.ClaveM, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check attendance")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateAttendance, "")
	}

	present := true
	if req.Present != nil {
		present = *req.Present
	}
	record := &models.AttendanceRecord{
		Matricula:  req.Matricula,
		ClaveM:     req.ClaveM,
		GroupNum:   req.GroupNum,
		Date:       date,
		RecordedAt: now.Format("15:04:05"),
		Present:    present,
		Notes:      req.Notes,
	}
	if err := s.attendance.Insert(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateAttendance, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
	}

	if s.summaries != nil {
		s.summaries.Invalidate(ctx, req.Matricula, req.ClaveM, req.GroupNum)
	}
	s.logger.Info("attendance recorded",
		zap.String("matricula", req.Matricula),
		zap.String("claveM", req.ClaveM),
		zap.Bool("present", present))
	return record, nil
}

// RecordTeacher stores one staff scan for today.
func (s *AttendanceService) RecordTeacher(ctx context.Context, req models.RecordTeacherAttendanceRequest) (*models.TeacherAttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	now := s.now()
	date := today(now)

	exists, err := s.teacherAttendance.Exists(ctx, req.ClaveP, req.ClaveM, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check attendance")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateAttendance, "")
	}

	present := true
	if req.Present != nil {
		present = *req.Present
	}
	record := &models.TeacherAttendanceRecord{
		ClaveP:     req.ClaveP,
		ClaveM:     req.ClaveM,
		Date:       date,
		Present:    present,
		RecordedAt: now.Format("15:04:05"),
	}
	if err := s.teacherAttendance.Insert(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateAttendance, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
	}

	s.logger.Info("teacher attendance recorded",
		zap.Int("claveP", req.ClaveP),
		zap.String("claveM", req.ClaveM))
	return record, nil
}

// IsDuplicate probes whether a record already exists for today.
func (s *AttendanceService) IsDuplicate(ctx context.Context, matricula, claveM string) (bool, error) {
	if matricula == "" || claveM == "" {
		return false, appErrors.Clone(appErrors.ErrValidation, "matricula and claveM are required")
	}
	exists, err := s.attendance.Exists(ctx, matricula, claveM, today(s.now()))
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check attendance")
	}
	return exists, nil
}

// List returns attendance history matching the filter. The Unique flag keeps
// the newest row per (matricula, claveM, date).
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error) {
	rows, err := s.attendance.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	if !filter.Unique {
		return rows, nil
	}

	seen := make(map[string]bool, len(rows))
	unique := rows[:0]
	for _, row := range rows {
		key := fmt.Sprintf("%s|%s|%s", row.Matricula, row.ClaveM, row.Date.Format("2006-01-02"))
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, row)
	}
	return unique, nil
}

// TeacherSummaries lists per-(teacher, subject) aggregates. A teacher with no
// recorded sessions reports 100 percent.
func (s *AttendanceService) TeacherSummaries(ctx context.Context) ([]models.TeacherAttendanceSummary, error) {
	rows, err := s.teacherAttendance.Summaries(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher attendance")
	}
	for i := range rows {
		rows[i].Percent = teacherPercent(rows[i].TimesPresent, rows[i].TotalClasses)
	}
	return rows, nil
}

func teacherPercent(present, total int) float64 {
	if total == 0 {
		return 100.0
	}
	return round2(float64(present) / float64(total) * 100)
}
