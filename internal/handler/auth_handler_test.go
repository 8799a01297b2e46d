package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
	"github.com/DiegoNoguez/Asistencia-RFID/internal/service"
	"github.com/DiegoNoguez/Asistencia-RFID/pkg/config"
)

type authStudentsStub struct {
	student *models.Student
}

func (s *authStudentsStub) FindByMatricula(ctx context.Context, matricula string) (*models.Student, error) {
	if s.student != nil && s.student.Matricula == matricula {
		return s.student, nil
	}
	return nil, sql.ErrNoRows
}

type authStaffStub struct{}

func (s *authStaffStub) FindByClavePAndRole(ctx context.Context, claveP, roleID int) (*models.Staff, error) {
	return nil, sql.ErrNoRows
}

func newAuthHandler(t *testing.T, password string) *AuthHandler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	students := &authStudentsStub{student: &models.Student{
		Matricula:    "20230001",
		FirstName:    "Diego",
		LastName1:    "Noguez",
		PasswordHash: string(hash),
	}}
	svc := service.NewAuthService(students, &authStaffStub{}, nil, zap.NewNop(),
		config.JWTConfig{Secret: "test_secret", Expiration: time.Hour})
	return NewAuthHandler(svc)
}

func TestAuthHandlerLogin(t *testing.T) {
	handler := newAuthHandler(t, "secreto")

	body, _ := json.Marshal(models.LoginRequest{Usuario: "20230001", Password: "secreto", Rol: models.RoleStudent})
	w, c := performRequest(t, http.MethodPost, "/login", body)
	handler.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "20230001", envelope.Data.Matricula)
	assert.NotEmpty(t, envelope.Data.AccessToken)
}

func TestAuthHandlerLoginWrongPassword(t *testing.T) {
	handler := newAuthHandler(t, "secreto")

	body, _ := json.Marshal(models.LoginRequest{Usuario: "20230001", Password: "nope", Rol: models.RoleStudent})
	w, c := performRequest(t, http.MethodPost, "/login", body)
	handler.Login(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerLoginBadPayload(t *testing.T) {
	handler := newAuthHandler(t, "secreto")

	w, c := performRequest(t, http.MethodPost, "/login", []byte("not json"))
	handler.Login(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
