package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
	appErrors "github.com/DiegoNoguez/Asistencia-RFID/pkg/errors"
)

type lookupStudentRepository interface {
	FindByCard(ctx context.Context, code string) (*models.Student, error)
}

type lookupStaffRepository interface {
	FindByCard(ctx context.Context, code string) (*models.Staff, error)
}

// LookupService resolves RFID card reads (or typed identifiers) to people.
type LookupService struct {
	students lookupStudentRepository
	staff    lookupStaffRepository
	logger   *zap.Logger
}

// NewLookupService constructs a LookupService.
func NewLookupService(students lookupStudentRepository, staff lookupStaffRepository, logger *zap.Logger) *LookupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupService{students: students, staff: staff, logger: logger}
}

// FindStudentByCard resolves a scan against card codes first, then matriculas.
func (s *LookupService) FindStudentByCard(ctx context.Context, code string) (*models.Student, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "claveT is required")
	}

	student, err := s.students.FindByCard(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrCardNotRecognized, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up student")
	}
	return student, nil
}

// FindStaffByCard resolves a scan against staff card codes, falling back to a
// numeric clave_p.
func (s *LookupService) FindStaffByCard(ctx context.Context, code string) (*models.Staff, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "claveT is required")
	}

	staff, err := s.staff.FindByCard(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrCardNotRecognized, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up staff")
	}
	return staff, nil
}
