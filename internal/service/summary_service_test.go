package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
	"github.com/DiegoNoguez/Asistencia-RFID/pkg/config"
	appErrors "github.com/DiegoNoguez/Asistencia-RFID/pkg/errors"
)

type mockSummaryRepo struct {
	studentCounts []models.SubjectSummary
	groupCounts   []models.StudentCounts
	rollCall      map[string]map[string]models.AttendanceCounts
}

func (m *mockSummaryRepo) StudentSubjectCounts(ctx context.Context, matricula string) ([]models.SubjectSummary, error) {
	return m.studentCounts, nil
}

func (m *mockSummaryRepo) SubjectGroupCounts(ctx context.Context, claveM string, groupNum int) ([]models.StudentCounts, error) {
	return m.groupCounts, nil
}

func (m *mockSummaryRepo) RollCallCounts(ctx context.Context, matriculas, claves []string) (map[string]map[string]models.AttendanceCounts, error) {
	return m.rollCall, nil
}

type mockStudentReader struct {
	students map[string]*models.Student
}

func (m *mockStudentReader) FindByMatricula(ctx context.Context, matricula string) (*models.Student, error) {
	if s, ok := m.students[matricula]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type mockSubjectReader struct {
	subjects      map[string]*models.Subject
	groupSubjects []models.RollCallSubject
	groupStudents []models.Student
}

func (m *mockSubjectReader) FindByClaveM(ctx context.Context, claveM string) (*models.Subject, error) {
	if s, ok := m.subjects[claveM]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubjectReader) ListForGroup(ctx context.Context, groupNum int) ([]models.RollCallSubject, error) {
	return m.groupSubjects, nil
}

func (m *mockSubjectReader) StudentsForSubjects(ctx context.Context, claves []string) ([]models.Student, error) {
	return m.groupStudents, nil
}

func newSummaryService(repo *mockSummaryRepo, students *mockStudentReader, subjects *mockSubjectReader) *SummaryService {
	return NewSummaryService(repo, students, subjects, nil, config.SummariesConfig{}, zapTestLogger())
}

func TestStudentSummaryPercentages(t *testing.T) {
	repo := &mockSummaryRepo{studentCounts: []models.SubjectSummary{
		{ClaveM: "MAT101", SubjectName: "Matemáticas", AttendanceCounts: models.AttendanceCounts{TimesPresent: 2, TotalClasses: 3}},
		{ClaveM: "FIS201", SubjectName: "Física", AttendanceCounts: models.AttendanceCounts{TimesPresent: 0, TotalClasses: 0}},
	}}
	students := &mockStudentReader{students: map[string]*models.Student{
		"20230001": {Matricula: "20230001", FirstName: "Diego", LastName1: "Noguez", GroupNum: 3401},
	}}
	svc := newSummaryService(repo, students, &mockSubjectReader{})

	summary, err := svc.StudentSummary(context.Background(), "20230001")
	require.NoError(t, err)
	assert.Equal(t, "Diego Noguez", summary.FullName)
	require.Len(t, summary.Subjects, 2)
	assert.InDelta(t, 66.67, summary.Subjects[0].Percent, 0.001)
	// An empty denominator reads as zero, not a division error.
	assert.Equal(t, 0.0, summary.Subjects[1].Percent)
}

func TestStudentSummaryUnknownStudent(t *testing.T) {
	svc := newSummaryService(&mockSummaryRepo{}, &mockStudentReader{}, &mockSubjectReader{})

	_, err := svc.StudentSummary(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentSummaryNoSubjects(t *testing.T) {
	students := &mockStudentReader{students: map[string]*models.Student{
		"20230001": {Matricula: "20230001", FirstName: "Diego", LastName1: "Noguez"},
	}}
	svc := newSummaryService(&mockSummaryRepo{}, students, &mockSubjectReader{})

	_, err := svc.StudentSummary(context.Background(), "20230001")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubjectGroupSummary(t *testing.T) {
	repo := &mockSummaryRepo{groupCounts: []models.StudentCounts{
		{Matricula: "20230001", StudentName: "Diego Noguez", AttendanceCounts: models.AttendanceCounts{TimesPresent: 3, TotalClasses: 4}},
	}}
	subjects := &mockSubjectReader{subjects: map[string]*models.Subject{
		"MAT101": {ClaveM: "MAT101", Name: "Matemáticas"},
	}}
	svc := newSummaryService(repo, &mockStudentReader{}, subjects)

	summary, err := svc.SubjectGroupSummary(context.Background(), "MAT101", 3401)
	require.NoError(t, err)
	assert.Equal(t, "Matemáticas", summary.SubjectName)
	require.Len(t, summary.Students, 1)
	assert.InDelta(t, 75.0, summary.Students[0].Percent, 0.001)
}

func TestSubjectGroupSummaryUnknownSubject(t *testing.T) {
	svc := newSummaryService(&mockSummaryRepo{}, &mockStudentReader{}, &mockSubjectReader{})

	_, err := svc.SubjectGroupSummary(context.Background(), "NOPE", 3401)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGroupRollCallZeroFillsMissingCells(t *testing.T) {
	repo := &mockSummaryRepo{rollCall: map[string]map[string]models.AttendanceCounts{
		"20230001": {"MAT101": {TimesPresent: 2, TotalClasses: 2}},
	}}
	subjects := &mockSubjectReader{
		groupSubjects: []models.RollCallSubject{
			{ClaveM: "MAT101", SubjectName: "Matemáticas", TeacherName: "Ana Reyes"},
			{ClaveM: "FIS201", SubjectName: "Física", TeacherName: "Luis Soto"},
		},
		groupStudents: []models.Student{
			{Matricula: "20230001", FirstName: "Diego", LastName1: "Noguez"},
			{Matricula: "20230002", FirstName: "María", LastName1: "Luna"},
		},
	}
	svc := newSummaryService(repo, &mockStudentReader{}, subjects)

	rollCall, err := svc.GroupRollCall(context.Background(), 3401)
	require.NoError(t, err)
	assert.Equal(t, 3401, rollCall.GroupNum)
	require.Len(t, rollCall.Students, 2)
	require.Len(t, rollCall.Subjects, 2)

	first := rollCall.Students[0].BySubject
	assert.Equal(t, 100.0, first["MAT101"].Percent)
	// No record for Física yet, the cell still exists.
	assert.Equal(t, 0, first["FIS201"].TotalClasses)
	assert.Equal(t, 0.0, first["FIS201"].Percent)

	second := rollCall.Students[1].BySubject
	assert.Equal(t, 0, second["MAT101"].TimesPresent)
}

func TestGroupRollCallEmptyGroup(t *testing.T) {
	svc := newSummaryService(&mockSummaryRepo{}, &mockStudentReader{}, &mockSubjectReader{})

	_, err := svc.GroupRollCall(context.Background(), 9999)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
