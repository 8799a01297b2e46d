package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
	"github.com/DiegoNoguez/Asistencia-RFID/pkg/config"
	appErrors "github.com/DiegoNoguez/Asistencia-RFID/pkg/errors"
)

type mockAuthStudents struct {
	students map[string]*models.Student
}

func (m *mockAuthStudents) FindByMatricula(ctx context.Context, matricula string) (*models.Student, error) {
	if s, ok := m.students[matricula]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type mockAuthStaff struct {
	staff map[int]*models.Staff
}

func (m *mockAuthStaff) FindByClavePAndRole(ctx context.Context, claveP, roleID int) (*models.Staff, error) {
	if s, ok := m.staff[claveP]; ok && s.RoleID == roleID {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test_secret", Expiration: time.Hour}
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginStudent(t *testing.T) {
	students := &mockAuthStudents{students: map[string]*models.Student{
		"20230001": {
			Matricula:    "20230001",
			FirstName:    "Diego",
			LastName1:    "Noguez",
			PasswordHash: hashPassword(t, "secreto"),
		},
	}}
	svc := NewAuthService(students, &mockAuthStaff{}, nil, zapTestLogger(), testJWTConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Usuario: "20230001", Password: "secreto", Rol: models.RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, "20230001", resp.Matricula)
	assert.Equal(t, models.RoleStudent, resp.Rol)
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "20230001", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestLoginStudentWrongPassword(t *testing.T) {
	students := &mockAuthStudents{students: map[string]*models.Student{
		"20230001": {Matricula: "20230001", PasswordHash: hashPassword(t, "secreto")},
	}}
	svc := NewAuthService(students, &mockAuthStaff{}, nil, zapTestLogger(), testJWTConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Usuario: "20230001", Password: "wrong", Rol: models.RoleStudent})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginStudentUnknownUser(t *testing.T) {
	svc := NewAuthService(&mockAuthStudents{}, &mockAuthStaff{}, nil, zapTestLogger(), testJWTConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Usuario: "nope", Password: "x", Rol: models.RoleStudent})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestLoginTeacher(t *testing.T) {
	staff := &mockAuthStaff{staff: map[int]*models.Staff{
		4001: {ClaveP: 4001, FirstName: "Ana", LastName1: "Reyes", RoleID: models.RoleTeacher, PasswordHash: hashPassword(t, "clave")},
	}}
	svc := NewAuthService(&mockAuthStudents{}, staff, nil, zapTestLogger(), testJWTConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Usuario: "4001", Password: "clave", Rol: models.RoleTeacher})
	require.NoError(t, err)
	assert.Equal(t, "4001", resp.ClaveP)
	assert.Equal(t, models.RoleTeacher, resp.Rol)
}

func TestLoginTeacherWrongRole(t *testing.T) {
	// The teacher exists but claims the admin role.
	staff := &mockAuthStaff{staff: map[int]*models.Staff{
		4001: {ClaveP: 4001, RoleID: models.RoleTeacher, PasswordHash: hashPassword(t, "clave")},
	}}
	svc := NewAuthService(&mockAuthStudents{}, staff, nil, zapTestLogger(), testJWTConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Usuario: "4001", Password: "clave", Rol: models.RoleAdmin})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestLoginStaffNonNumericUsuario(t *testing.T) {
	svc := NewAuthService(&mockAuthStudents{}, &mockAuthStaff{}, nil, zapTestLogger(), testJWTConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Usuario: "abc", Password: "x", Rol: models.RoleTeacher})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLoginUnknownRol(t *testing.T) {
	svc := NewAuthService(&mockAuthStudents{}, &mockAuthStaff{}, nil, zapTestLogger(), testJWTConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Usuario: "20230001", Password: "x", Rol: 9})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(&mockAuthStudents{}, &mockAuthStaff{}, nil, zapTestLogger(), testJWTConfig())

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
