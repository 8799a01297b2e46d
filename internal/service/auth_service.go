package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
	"github.com/DiegoNoguez/Asistencia-RFID/pkg/config"
	appErrors "github.com/DiegoNoguez/Asistencia-RFID/pkg/errors"
)

type authStudentRepository interface {
	FindByMatricula(ctx context.Context, matricula string) (*models.Student, error)
}

type authStaffRepository interface {
	FindByClavePAndRole(ctx context.Context, claveP, roleID int) (*models.Staff, error)
}

// AuthService authenticates web clients. Students sign in with their
// matricula, staff with their clave_p plus the role they claim.
type AuthService struct {
	students  authStudentRepository
	staff     authStaffRepository
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.JWTConfig
}

// NewAuthService constructs an AuthService.
func NewAuthService(students authStudentRepository, staff authStaffRepository, validate *validator.Validate, logger *zap.Logger, cfg config.JWTConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{students: students, staff: staff, validator: validate, logger: logger, cfg: cfg}
}

// Login checks credentials for the claimed role and issues an access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	switch req.Rol {
	case models.RoleStudent:
		return s.loginStudent(ctx, req)
	case models.RoleTeacher, models.RoleAdmin:
		return s.loginStaff(ctx, req)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown rol")
	}
}

func (s *AuthService) loginStudent(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	student, err := s.students.FindByMatricula(ctx, req.Usuario)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	token, err := s.issueToken(student.Matricula, models.RoleStudent)
	if err != nil {
		return nil, err
	}

	resp := &models.LoginResponse{
		Message:     "login successful",
		Matricula:   student.Matricula,
		FirstName:   student.FirstName,
		LastName1:   student.LastName1,
		Rol:         models.RoleStudent,
		AccessToken: token,
	}
	if student.LastName2 != nil {
		resp.LastName2 = *student.LastName2
	}
	return resp, nil
}

func (s *AuthService) loginStaff(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	claveP, err := strconv.Atoi(req.Usuario)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "usuario must be a numeric claveP")
	}

	staff, err := s.staff.FindByClavePAndRole(ctx, claveP, req.Rol)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	token, err := s.issueToken(strconv.Itoa(staff.ClaveP), staff.RoleID)
	if err != nil {
		return nil, err
	}

	resp := &models.LoginResponse{
		Message:     "login successful",
		ClaveP:      strconv.Itoa(staff.ClaveP),
		FirstName:   staff.FirstName,
		LastName1:   staff.LastName1,
		Rol:         staff.RoleID,
		AccessToken: token,
	}
	if staff.LastName2 != nil {
		resp.LastName2 = *staff.LastName2
	}
	return resp, nil
}

func (s *AuthService) issueToken(userID string, role int) (string, error) {
	now := time.Now()
	claims := models.JWTClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}
	return signed, nil
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}
