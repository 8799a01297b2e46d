package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
)

type mockScheduleRepo struct {
	studentDay []models.ScheduleEntryDetail
	teacherDay []models.ScheduleEntryDetail
	teacherAll []models.ScheduleEntryDetail
	weekly     []models.WeeklyClassStatus
	askedDay   string
}

func (m *mockScheduleRepo) ListForStudentDay(ctx context.Context, matricula string, groupNum int, day string) ([]models.ScheduleEntryDetail, error) {
	m.askedDay = day
	return m.studentDay, nil
}

func (m *mockScheduleRepo) ListForTeacherDay(ctx context.Context, claveP int, day string) ([]models.ScheduleEntryDetail, error) {
	m.askedDay = day
	return m.teacherDay, nil
}

func (m *mockScheduleRepo) ListForTeacher(ctx context.Context, claveP int) ([]models.ScheduleEntryDetail, error) {
	return m.teacherAll, nil
}

func (m *mockScheduleRepo) WeeklyForStudent(ctx context.Context, matricula string, groupNum int) ([]models.WeeklyClassStatus, error) {
	return m.weekly, nil
}

type mockAttendanceReader struct {
	records []models.AttendanceRecord
}

func (m *mockAttendanceReader) LatestForStudentSubjects(ctx context.Context, matricula string, claves []string) ([]models.AttendanceRecord, error) {
	return m.records, nil
}

func slotEntry(claveM, name, day, slot string) models.ScheduleEntryDetail {
	return models.ScheduleEntryDetail{
		ScheduleEntry: models.ScheduleEntry{ClaveM: claveM, GroupNum: 3401, Day: day, TimeSlot: slot},
		SubjectName:   name,
	}
}

// Monday 2026-08-24.
func mondayAt(hour, minute int) time.Time {
	return time.Date(2026, 8, 24, hour, minute, 0, 0, time.UTC)
}

func TestCurrentClassPicksLatestStartedSlot(t *testing.T) {
	repo := &mockScheduleRepo{studentDay: []models.ScheduleEntryDetail{
		slotEntry("MAT101", "Matemáticas", "Lunes", "08:00-10:00"),
		slotEntry("FIS201", "Física", "Lunes", "10:00-12:00"),
		slotEntry("QUI301", "Química", "Lunes", "12:00-14:00"),
	}}
	svc := NewScheduleService(repo, &mockAttendanceReader{}, 2*time.Hour, zapTestLogger())

	student := &models.Student{Matricula: "20230001", GroupNum: 3401}
	current, err := svc.CurrentClassForStudent(context.Background(), student, mondayAt(10, 30))
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "FIS201", current.ClaveM)
	assert.Equal(t, "Lunes", repo.askedDay)
	assert.Equal(t, mondayAt(10, 0), current.StartsAt)
	assert.Equal(t, mondayAt(12, 0), current.EndsAt)
}

func TestCurrentClassBeforeFirstSlot(t *testing.T) {
	repo := &mockScheduleRepo{studentDay: []models.ScheduleEntryDetail{
		slotEntry("MAT101", "Matemáticas", "Lunes", "08:00-10:00"),
	}}
	svc := NewScheduleService(repo, &mockAttendanceReader{}, 2*time.Hour, zapTestLogger())

	student := &models.Student{Matricula: "20230001", GroupNum: 3401}
	current, err := svc.CurrentClassForStudent(context.Background(), student, mondayAt(7, 0))
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestCurrentClassOnSaturday(t *testing.T) {
	// Mon-Fri schedules yield no rows for Sábado.
	repo := &mockScheduleRepo{}
	svc := NewScheduleService(repo, &mockAttendanceReader{}, 2*time.Hour, zapTestLogger())

	saturday := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	student := &models.Student{Matricula: "20230001", GroupNum: 3401}
	current, err := svc.CurrentClassForStudent(context.Background(), student, saturday)
	require.NoError(t, err)
	assert.Nil(t, current)
	assert.Equal(t, "Sábado", repo.askedDay)
}

func TestCurrentClassMalformedSlotStartsAtMidnight(t *testing.T) {
	repo := &mockScheduleRepo{studentDay: []models.ScheduleEntryDetail{
		slotEntry("TAL401", "Taller", "Lunes", "por definir"),
	}}
	svc := NewScheduleService(repo, &mockAttendanceReader{}, 2*time.Hour, zapTestLogger())

	student := &models.Student{Matricula: "20230001", GroupNum: 3401}
	current, err := svc.CurrentClassForStudent(context.Background(), student, mondayAt(7, 0))
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "TAL401", current.ClaveM)
	assert.Equal(t, mondayAt(0, 0), current.StartsAt)
}

func TestCurrentClassForTeacher(t *testing.T) {
	repo := &mockScheduleRepo{teacherDay: []models.ScheduleEntryDetail{
		slotEntry("MAT101", "Matemáticas", "Martes", "07:00-09:00"),
	}}
	svc := NewScheduleService(repo, &mockAttendanceReader{}, 2*time.Hour, zapTestLogger())

	tuesday := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	current, err := svc.CurrentClassForTeacher(context.Background(), 4001, tuesday)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "MAT101", current.ClaveM)
}

func TestWeeklyScheduleDecoratesLatestAttendance(t *testing.T) {
	repo := &mockScheduleRepo{weekly: []models.WeeklyClassStatus{
		{ClaveM: "MAT101", SubjectName: "Matemáticas", Day: "Lunes", TimeSlot: "08:00-10:00", GroupNum: 3401},
		{ClaveM: "MAT101", SubjectName: "Matemáticas", Day: "Miércoles", TimeSlot: "08:00-10:00", GroupNum: 3401},
	}}
	attendance := &mockAttendanceReader{records: []models.AttendanceRecord{
		// Monday 2026-08-24, newest first.
		{ClaveM: "MAT101", Date: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), Present: true},
		{ClaveM: "MAT101", Date: time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), Present: false},
	}}
	svc := NewScheduleService(repo, attendance, 2*time.Hour, zapTestLogger())

	student := &models.Student{Matricula: "20230001", GroupNum: 3401}
	rows, err := svc.WeeklySchedule(context.Background(), student)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.NotNil(t, rows[0].LastPresent)
	assert.True(t, *rows[0].LastPresent)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), *rows[0].LastDate)
	// No Wednesday record exists.
	assert.Nil(t, rows[1].LastPresent)
}
