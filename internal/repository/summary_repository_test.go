package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryRepositoryStudentSubjectCounts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSummaryRepository(db)

	rows := sqlmock.NewRows([]string{"clave_m", "subject_name", "times_present", "total_classes"}).
		AddRow("MAT101", "Matemáticas", 2, 3).
		AddRow("FIS201", "Física", 0, 0)

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(DISTINCT a.date) AS total_classes")).
		WithArgs("20230001").
		WillReturnRows(rows)

	summaries, err := repo.StudentSubjectCounts(context.Background(), "20230001")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 2, summaries[0].TimesPresent)
	assert.Equal(t, 3, summaries[0].TotalClasses)
	assert.Equal(t, 0, summaries[1].TotalClasses)
}

func TestSummaryRepositoryRollCallCounts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSummaryRepository(db)

	rows := sqlmock.NewRows([]string{"matricula", "clave_m", "times_present", "total_classes"}).
		AddRow("20230001", "MAT101", 3, 4).
		AddRow("20230002", "MAT101", 4, 4)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE matricula IN ($1, $2) AND clave_m IN ($3)")).
		WithArgs("20230001", "20230002", "MAT101").
		WillReturnRows(rows)

	counts, err := repo.RollCallCounts(context.Background(),
		[]string{"20230001", "20230002"}, []string{"MAT101"})
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, 3, counts["20230001"]["MAT101"].TimesPresent)
	assert.Equal(t, 4, counts["20230002"]["MAT101"].TotalClasses)
}

func TestSummaryRepositoryRollCallCountsEmpty(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSummaryRepository(db)

	counts, err := repo.RollCallCounts(context.Background(), nil, []string{"MAT101"})
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestSummaryRepositoryReportRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSummaryRepository(db)

	date := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"matricula", "student_name", "present", "date"}).
		AddRow("20230001", "Diego Noguez", true, date)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.clave_m = $1 AND a.group_num = $2")).
		WithArgs("MAT101", 3401).
		WillReturnRows(rows)

	report, err := repo.ReportRows(context.Background(), "MAT101", 3401)
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.True(t, report[0].Present)
	assert.Equal(t, "Diego Noguez", report[0].StudentName)
}
