package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
	appErrors "github.com/DiegoNoguez/Asistencia-RFID/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByMatricula(ctx context.Context, matricula string) (*models.Student, error)
	Exists(ctx context.Context, matricula string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	DeleteCascade(ctx context.Context, matricula string) error
}

// StudentService manages the roster.
type StudentService struct {
	students     studentRepository
	validator    *validator.Validate
	logger       *zap.Logger
	defaultGroup int
}

// NewStudentService constructs a StudentService. defaultGroup is assigned to
// created students that carry no group.
func NewStudentService(students studentRepository, validate *validator.Validate, logger *zap.Logger, defaultGroup int) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{students: students, validator: validate, logger: logger, defaultGroup: defaultGroup}
}

// List returns roster entries with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, models.Pagination, error) {
	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	return students, models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one student by matricula.
func (s *StudentService) Get(ctx context.Context, matricula string) (*models.Student, error) {
	student, err := s.students.FindByMatricula(ctx, matricula)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}
	return student, nil
}

// Create registers a new student. The password defaults to the matricula when
// the payload omits one.
func (s *StudentService) Create(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	exists, err := s.students.Exists(ctx, req.Matricula)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check matricula")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "matricula already registered")
	}

	group := req.GroupNum
	if group == 0 {
		group = s.defaultGroup
	}
	password := req.Password
	if password == "" {
		password = req.Matricula
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	student := &models.Student{
		Matricula:    req.Matricula,
		CardCode:     req.CardCode,
		FirstName:    req.FirstName,
		LastName1:    req.LastName1,
		LastName2:    req.LastName2,
		GroupNum:     group,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	s.logger.Info("student created",
		zap.String("matricula", student.Matricula),
		zap.Int("group", student.GroupNum))
	return student, nil
}

// Delete removes a student together with its attendance, schedule and
// enrollment rows.
func (s *StudentService) Delete(ctx context.Context, matricula string) error {
	if _, err := s.students.FindByMatricula(ctx, matricula); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	if err := s.students.DeleteCascade(ctx, matricula); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}

	s.logger.Info("student deleted", zap.String("matricula", matricula))
	return nil
}
