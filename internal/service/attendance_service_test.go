package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
	"github.com/DiegoNoguez/Asistencia-RFID/internal/repository"
	appErrors "github.com/DiegoNoguez/Asistencia-RFID/pkg/errors"
)

type mockAttendanceRepo struct {
	exists    bool
	insertErr error
	inserted  *models.AttendanceRecord
	rows      []models.AttendanceDetail
}

func (m *mockAttendanceRepo) Exists(ctx context.Context, matricula, claveM string, date time.Time) (bool, error) {
	return m.exists, nil
}

func (m *mockAttendanceRepo) Insert(ctx context.Context, record *models.AttendanceRecord) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = record
	return nil
}

func (m *mockAttendanceRepo) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error) {
	return m.rows, nil
}

type mockTeacherAttendanceRepo struct {
	exists    bool
	inserted  *models.TeacherAttendanceRecord
	summaries []models.TeacherAttendanceSummary
}

func (m *mockTeacherAttendanceRepo) Exists(ctx context.Context, claveP int, claveM string, date time.Time) (bool, error) {
	return m.exists, nil
}

func (m *mockTeacherAttendanceRepo) Insert(ctx context.Context, record *models.TeacherAttendanceRecord) error {
	m.inserted = record
	return nil
}

func (m *mockTeacherAttendanceRepo) Summaries(ctx context.Context) ([]models.TeacherAttendanceSummary, error) {
	return m.summaries, nil
}

type mockInvalidator struct {
	calls int
}

func (m *mockInvalidator) Invalidate(ctx context.Context, matricula, claveM string, groupNum int) {
	m.calls++
}

func validRecordRequest() models.RecordAttendanceRequest {
	return models.RecordAttendanceRequest{Matricula: "20230001", ClaveM: "MAT101", GroupNum: 3401}
}

func TestRecordAttendance(t *testing.T) {
	repo := &mockAttendanceRepo{}
	invalidator := &mockInvalidator{}
	svc := NewAttendanceService(repo, &mockTeacherAttendanceRepo{}, invalidator, nil, zapTestLogger())
	svc.now = func() time.Time { return time.Date(2026, 8, 24, 10, 15, 30, 0, time.UTC) }

	record, err := svc.Record(context.Background(), validRecordRequest())
	require.NoError(t, err)
	require.NotNil(t, repo.inserted)
	assert.True(t, record.Present)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), record.Date)
	assert.Equal(t, "10:15:30", record.RecordedAt)
	assert.Equal(t, 1, invalidator.calls)
}

func TestRecordAttendanceDateFollowsLocalClock(t *testing.T) {
	// A late-evening scan west of UTC must be keyed to the local calendar
	// date, not the already-rolled-over UTC one.
	repo := &mockAttendanceRepo{}
	svc := NewAttendanceService(repo, &mockTeacherAttendanceRepo{}, nil, nil, zapTestLogger())
	zone := time.FixedZone("UTC-6", -6*60*60)
	svc.now = func() time.Time { return time.Date(2026, 8, 24, 23, 30, 0, 0, zone) }

	record, err := svc.Record(context.Background(), validRecordRequest())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, zone), record.Date)
	assert.Equal(t, "23:30:00", record.RecordedAt)
}

func TestRecordAttendanceDuplicatePreCheck(t *testing.T) {
	repo := &mockAttendanceRepo{exists: true}
	invalidator := &mockInvalidator{}
	svc := NewAttendanceService(repo, &mockTeacherAttendanceRepo{}, invalidator, nil, zapTestLogger())

	_, err := svc.Record(context.Background(), validRecordRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateAttendance.Code, appErr.Code)
	assert.Nil(t, repo.inserted)
	assert.Equal(t, 0, invalidator.calls)
}

func TestRecordAttendanceDuplicateFromConstraint(t *testing.T) {
	// A concurrent scan can pass the pre-check; the unique constraint must
	// still surface as a conflict.
	repo := &mockAttendanceRepo{insertErr: repository.ErrDuplicate}
	svc := NewAttendanceService(repo, &mockTeacherAttendanceRepo{}, nil, nil, zapTestLogger())

	_, err := svc.Record(context.Background(), validRecordRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateAttendance.Code, appErr.Code)
}

func TestRecordAttendanceInvalidPayload(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceRepo{}, &mockTeacherAttendanceRepo{}, nil, nil, zapTestLogger())

	_, err := svc.Record(context.Background(), models.RecordAttendanceRequest{Matricula: "20230001"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestRecordTeacherAttendance(t *testing.T) {
	teacherRepo := &mockTeacherAttendanceRepo{}
	svc := NewAttendanceService(&mockAttendanceRepo{}, teacherRepo, nil, nil, zapTestLogger())
	svc.now = func() time.Time { return time.Date(2026, 8, 24, 7, 5, 0, 0, time.UTC) }

	record, err := svc.RecordTeacher(context.Background(), models.RecordTeacherAttendanceRequest{ClaveP: 4001, ClaveM: "MAT101"})
	require.NoError(t, err)
	require.NotNil(t, teacherRepo.inserted)
	assert.True(t, record.Present)
	assert.Equal(t, 4001, record.ClaveP)
}

func TestRecordTeacherAttendanceDuplicate(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceRepo{}, &mockTeacherAttendanceRepo{exists: true}, nil, nil, zapTestLogger())

	_, err := svc.RecordTeacher(context.Background(), models.RecordTeacherAttendanceRequest{ClaveP: 4001, ClaveM: "MAT101"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateAttendance.Code, appErrors.FromError(err).Code)
}

func TestIsDuplicate(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceRepo{exists: true}, &mockTeacherAttendanceRepo{}, nil, nil, zapTestLogger())

	dup, err := svc.IsDuplicate(context.Background(), "20230001", "MAT101")
	require.NoError(t, err)
	assert.True(t, dup)

	_, err = svc.IsDuplicate(context.Background(), "", "MAT101")
	require.Error(t, err)
}

func TestListAttendanceUnique(t *testing.T) {
	date := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	repo := &mockAttendanceRepo{rows: []models.AttendanceDetail{
		{AttendanceRecord: models.AttendanceRecord{ID: "a", Matricula: "20230001", ClaveM: "MAT101", Date: date}},
		{AttendanceRecord: models.AttendanceRecord{ID: "b", Matricula: "20230001", ClaveM: "MAT101", Date: date}},
		{AttendanceRecord: models.AttendanceRecord{ID: "c", Matricula: "20230002", ClaveM: "MAT101", Date: date}},
	}}
	svc := NewAttendanceService(repo, &mockTeacherAttendanceRepo{}, nil, nil, zapTestLogger())

	rows, err := svc.List(context.Background(), models.AttendanceFilter{Unique: true})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].ID)
	assert.Equal(t, "c", rows[1].ID)
}

func TestTeacherSummariesPercent(t *testing.T) {
	repo := &mockTeacherAttendanceRepo{summaries: []models.TeacherAttendanceSummary{
		{ClaveP: 4001, ClaveM: "MAT101", TimesPresent: 2, TotalClasses: 3},
		{ClaveP: 4002, ClaveM: "FIS201", TimesPresent: 0, TotalClasses: 0},
	}}
	svc := NewAttendanceService(&mockAttendanceRepo{}, repo, nil, nil, zapTestLogger())

	rows, err := svc.TeacherSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.InDelta(t, 66.67, rows[0].Percent, 0.001)
	// No recorded sessions reads as fully present.
	assert.Equal(t, 100.0, rows[1].Percent)
}
