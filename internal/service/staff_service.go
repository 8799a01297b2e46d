package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
	appErrors "github.com/DiegoNoguez/Asistencia-RFID/pkg/errors"
)

type staffReader interface {
	FindByClaveP(ctx context.Context, claveP int) (*models.Staff, error)
}

type staffSubjectReader interface {
	ListForTeacher(ctx context.Context, claveP int) ([]models.Subject, error)
}

// StaffService answers teacher-facing roster questions.
type StaffService struct {
	staff    staffReader
	subjects staffSubjectReader
	logger   *zap.Logger
}

// NewStaffService constructs a StaffService.
func NewStaffService(staff staffReader, subjects staffSubjectReader, logger *zap.Logger) *StaffService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{staff: staff, subjects: subjects, logger: logger}
}

// Get fetches one staff member by clave_p.
func (s *StaffService) Get(ctx context.Context, claveP int) (*models.Staff, error) {
	staff, err := s.staff.FindByClaveP(ctx, claveP)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch staff")
	}
	return staff, nil
}

// Subjects lists the subjects a teacher is assigned to. Non-teachers resolve
// to not found, matching the card lookup contract.
func (s *StaffService) Subjects(ctx context.Context, claveP int) ([]models.Subject, error) {
	staff, err := s.Get(ctx, claveP)
	if err != nil {
		return nil, err
	}
	if staff.RoleID != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}

	subjects, err := s.subjects.ListForTeacher(ctx, claveP)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}
