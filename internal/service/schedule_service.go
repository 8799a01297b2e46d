package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
	appErrors "github.com/DiegoNoguez/Asistencia-RFID/pkg/errors"
)

type scheduleRepository interface {
	ListForStudentDay(ctx context.Context, matricula string, groupNum int, day string) ([]models.ScheduleEntryDetail, error)
	ListForTeacherDay(ctx context.Context, claveP int, day string) ([]models.ScheduleEntryDetail, error)
	ListForTeacher(ctx context.Context, claveP int) ([]models.ScheduleEntryDetail, error)
	WeeklyForStudent(ctx context.Context, matricula string, groupNum int) ([]models.WeeklyClassStatus, error)
}

type scheduleAttendanceReader interface {
	LatestForStudentSubjects(ctx context.Context, matricula string, claves []string) ([]models.AttendanceRecord, error)
}

// spanishWeekdays maps Go weekdays onto the labels the schedule store uses.
var spanishWeekdays = map[time.Weekday]string{
	time.Monday:    "Lunes",
	time.Tuesday:   "Martes",
	time.Wednesday: "Miércoles",
	time.Thursday:  "Jueves",
	time.Friday:    "Viernes",
	time.Saturday:  "Sábado",
	time.Sunday:    "Domingo",
}

// ScheduleService decides which class, if any, is in session for a scan.
type ScheduleService struct {
	schedules     scheduleRepository
	attendance    scheduleAttendanceReader
	classDuration time.Duration
	logger        *zap.Logger
}

// NewScheduleService constructs a ScheduleService. classDuration is the
// display length of a period; zero falls back to two hours.
func NewScheduleService(schedules scheduleRepository, attendance scheduleAttendanceReader, classDuration time.Duration, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if classDuration <= 0 {
		classDuration = 2 * time.Hour
	}
	return &ScheduleService{
		schedules:     schedules,
		attendance:    attendance,
		classDuration: classDuration,
		logger:        logger,
	}
}

// slotStart parses the start of a "HH:MM-HH:MM" slot anchored to at's date.
// A malformed slot degrades to midnight so legacy free-text rows still match.
func slotStart(slot string, at time.Time) time.Time {
	midnight := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	left := slot
	if idx := strings.Index(slot, "-"); idx >= 0 {
		left = slot[:idx]
	}
	parsed, err := time.Parse("15:04", strings.TrimSpace(left))
	if err != nil {
		return midnight
	}
	return midnight.Add(time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute)
}

// pickCurrent selects the entry whose start is latest among those already
// started. Nil means no class is in session.
func (s *ScheduleService) pickCurrent(entries []models.ScheduleEntryDetail, at time.Time) *models.CurrentClass {
	var best *models.ScheduleEntryDetail
	var bestStart time.Time
	for i := range entries {
		start := slotStart(entries[i].TimeSlot, at)
		if start.After(at) {
			continue
		}
		if best == nil || start.After(bestStart) {
			best = &entries[i]
			bestStart = start
		}
	}
	if best == nil {
		return nil
	}
	return &models.CurrentClass{
		ClaveM:      best.ClaveM,
		SubjectName: best.SubjectName,
		Day:         best.Day,
		TimeSlot:    best.TimeSlot,
		GroupNum:    best.GroupNum,
		StartsAt:    bestStart,
		EndsAt:      bestStart.Add(s.classDuration),
	}
}

// CurrentClassForStudent returns the class in session for the student at the
// given instant, or (nil, nil) when none is.
func (s *ScheduleService) CurrentClassForStudent(ctx context.Context, student *models.Student, at time.Time) (*models.CurrentClass, error) {
	day := spanishWeekdays[at.Weekday()]
	entries, err := s.schedules.ListForStudentDay(ctx, student.Matricula, student.GroupNum, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read schedule")
	}
	return s.pickCurrent(entries, at), nil
}

// CurrentClassForTeacher is the staff variant, keyed on subject assignments.
func (s *ScheduleService) CurrentClassForTeacher(ctx context.Context, claveP int, at time.Time) (*models.CurrentClass, error) {
	day := spanishWeekdays[at.Weekday()]
	entries, err := s.schedules.ListForTeacherDay(ctx, claveP, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read schedule")
	}
	return s.pickCurrent(entries, at), nil
}

// TeacherSchedule lists all weekly entries for a teacher's subjects.
func (s *ScheduleService) TeacherSchedule(ctx context.Context, claveP int) ([]models.ScheduleEntryDetail, error) {
	entries, err := s.schedules.ListForTeacher(ctx, claveP)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read schedule")
	}
	return entries, nil
}

// WeeklySchedule returns the student's week decorated with the most recent
// attendance state per (subject, weekday).
func (s *ScheduleService) WeeklySchedule(ctx context.Context, student *models.Student) ([]models.WeeklyClassStatus, error) {
	rows, err := s.schedules.WeeklyForStudent(ctx, student.Matricula, student.GroupNum)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read schedule")
	}
	if len(rows) == 0 {
		return rows, nil
	}

	seen := make(map[string]bool)
	var claves []string
	for _, row := range rows {
		if !seen[row.ClaveM] {
			seen[row.ClaveM] = true
			claves = append(claves, row.ClaveM)
		}
	}

	records, err := s.attendance.LatestForStudentSubjects(ctx, student.Matricula, claves)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read attendance")
	}

	for i := range rows {
		for _, record := range records {
			if record.ClaveM != rows[i].ClaveM {
				continue
			}
			if spanishWeekdays[record.Date.Weekday()] != rows[i].Day {
				continue
			}
			present := record.Present
			date := record.Date
			rows[i].LastPresent = &present
			rows[i].LastDate = &date
			break
		}
	}
	return rows, nil
}
