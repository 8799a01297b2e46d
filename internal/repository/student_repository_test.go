package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func studentRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"matricula", "card_code", "first_name", "last_name_1", "last_name_2",
		"group_num", "email", "password_hash", "created_at", "updated_at",
	}).AddRow("20230001", "A1B2C3", "Diego", "Noguez", nil, 3401, nil, "hash", now, now)
}

func TestStudentRepositoryListByGroup(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE 1=1 AND group_num = $1 ORDER BY matricula ASC LIMIT 50 OFFSET 0")).
		WithArgs(3401).
		WillReturnRows(studentRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students WHERE 1=1 AND group_num = $1")).
		WithArgs(3401).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{GroupNum: 3401})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "20230001", students[0].Matricula)
	assert.Equal(t, 3401, students[0].GroupNum)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByCard(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE card_code = $1 OR matricula = $1 ORDER BY matricula LIMIT 1")).
		WithArgs("A1B2C3").
		WillReturnRows(studentRows())

	student, err := repo.FindByCard(context.Background(), "A1B2C3")
	require.NoError(t, err)
	assert.Equal(t, "20230001", student.Matricula)
	assert.Equal(t, "Diego Noguez", student.FullName())
}

func TestStudentRepositoryExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM students WHERE matricula = $1)")).
		WithArgs("20230001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "20230001")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).
		WithArgs("20230008", "FFEE01", "Laura", "Campos", nil, 3401, nil, "hash",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	student := &models.Student{
		Matricula:    "20230008",
		CardCode:     "FFEE01",
		FirstName:    "Laura",
		LastName1:    "Campos",
		GroupNum:     3401,
		PasswordHash: "hash",
	}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.False(t, student.UpdatedAt.IsZero())
}

func TestStudentRepositoryDeleteCascade(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	for _, table := range []string{"attendance", "schedule_entries", "enrollments", "students"} {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM " + table + " WHERE matricula = $1")).
			WithArgs("20230001").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteCascade(context.Background(), "20230001"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
