package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
	"github.com/DiegoNoguez/Asistencia-RFID/pkg/config"
	appErrors "github.com/DiegoNoguez/Asistencia-RFID/pkg/errors"
)

type summaryRepository interface {
	StudentSubjectCounts(ctx context.Context, matricula string) ([]models.SubjectSummary, error)
	SubjectGroupCounts(ctx context.Context, claveM string, groupNum int) ([]models.StudentCounts, error)
	RollCallCounts(ctx context.Context, matriculas, claves []string) (map[string]map[string]models.AttendanceCounts, error)
}

type summaryStudentReader interface {
	FindByMatricula(ctx context.Context, matricula string) (*models.Student, error)
}

type summarySubjectReader interface {
	FindByClaveM(ctx context.Context, claveM string) (*models.Subject, error)
	ListForGroup(ctx context.Context, groupNum int) ([]models.RollCallSubject, error)
	StudentsForSubjects(ctx context.Context, claves []string) ([]models.Student, error)
}

type summaryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// SummaryService builds attendance aggregates. Totals count distinct recorded
// dates: a session nobody scanned into does not exist for the percentage.
type SummaryService struct {
	summaries summaryRepository
	students  summaryStudentReader
	subjects  summarySubjectReader
	cache     summaryCache
	cfg       config.SummariesConfig
	logger    *zap.Logger
}

// NewSummaryService constructs a SummaryService. cache may be nil, which
// disables caching regardless of configuration.
func NewSummaryService(summaries summaryRepository, students summaryStudentReader, subjects summarySubjectReader, cache summaryCache, cfg config.SummariesConfig, logger *zap.Logger) *SummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryService{
		summaries: summaries,
		students:  students,
		subjects:  subjects,
		cache:     cache,
		cfg:       cfg,
		logger:    logger,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// percent is the student-side rule: an empty denominator reads as 0.
func percent(present, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(present) / float64(total) * 100)
}

func (s *SummaryService) cacheEnabled() bool {
	return s.cache != nil && s.cfg.CacheEnabled
}

func (s *SummaryService) fromCache(ctx context.Context, key string, dest interface{}) bool {
	if !s.cacheEnabled() {
		return false
	}
	err := s.cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("summary cache read failed", zap.String("key", key), zap.Error(err))
	}
	return false
}

func (s *SummaryService) toCache(ctx context.Context, key string, value interface{}) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("summary cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// StudentSummary reports per-subject attendance for one student.
func (s *SummaryService) StudentSummary(ctx context.Context, matricula string) (*models.StudentSummary, error) {
	key := "summary:student:" + matricula
	var cached models.StudentSummary
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	student, err := s.students.FindByMatricula(ctx, matricula)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	subjects, err := s.summaries.StudentSubjectCounts(ctx, matricula)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build summary")
	}
	if len(subjects) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student has no enrolled subjects")
	}
	for i := range subjects {
		subjects[i].Percent = percent(subjects[i].TimesPresent, subjects[i].TotalClasses)
	}

	summary := &models.StudentSummary{
		Matricula: student.Matricula,
		FullName:  student.FullName(),
		GroupNum:  student.GroupNum,
		Subjects:  subjects,
	}
	s.toCache(ctx, key, summary)
	return summary, nil
}

// SubjectGroupSummary reports per-student attendance for one subject in one
// group.
func (s *SummaryService) SubjectGroupSummary(ctx context.Context, claveM string, groupNum int) (*models.SubjectGroupSummary, error) {
	key := fmt.Sprintf("summary:subject:%s:%d", claveM, groupNum)
	var cached models.SubjectGroupSummary
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	subject, err := s.subjects.FindByClaveM(ctx, claveM)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch subject")
	}

	students, err := s.summaries.SubjectGroupCounts(ctx, claveM, groupNum)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build summary")
	}
	if len(students) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no students found for subject and group")
	}
	for i := range students {
		students[i].Percent = percent(students[i].TimesPresent, students[i].TotalClasses)
	}

	summary := &models.SubjectGroupSummary{
		ClaveM:      subject.ClaveM,
		SubjectName: subject.Name,
		GroupNum:    groupNum,
		Students:    students,
	}
	s.toCache(ctx, key, summary)
	return summary, nil
}

// GroupRollCall builds the subjects × students matrix for a group ("pase de
// lista"). Cells without records are zero-filled, not omitted.
func (s *SummaryService) GroupRollCall(ctx context.Context, groupNum int) (*models.RollCall, error) {
	key := fmt.Sprintf("summary:rollcall:%d", groupNum)
	var cached models.RollCall
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	subjects, err := s.subjects.ListForGroup(ctx, groupNum)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list group subjects")
	}
	if len(subjects) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "group has no subjects")
	}

	claves := make([]string, 0, len(subjects))
	subjectIndex := make(map[string]models.RollCallSubject, len(subjects))
	for _, subject := range subjects {
		claves = append(claves, subject.ClaveM)
		subjectIndex[subject.ClaveM] = subject
	}

	students, err := s.subjects.StudentsForSubjects(ctx, claves)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list group students")
	}

	matriculas := make([]string, 0, len(students))
	for _, student := range students {
		matriculas = append(matriculas, student.Matricula)
	}

	counts, err := s.summaries.RollCallCounts(ctx, matriculas, claves)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build roll call")
	}

	rollCall := &models.RollCall{
		GroupNum: groupNum,
		Subjects: subjectIndex,
		Students: make([]models.RollCallStudent, 0, len(students)),
	}
	for _, student := range students {
		email := ""
		if student.Email != nil {
			email = *student.Email
		}
		bySubject := make(map[string]models.AttendanceCounts, len(claves))
		for _, claveM := range claves {
			cell := counts[student.Matricula][claveM]
			cell.Percent = percent(cell.TimesPresent, cell.TotalClasses)
			bySubject[claveM] = cell
		}
		rollCall.Students = append(rollCall.Students, models.RollCallStudent{
			Matricula: student.Matricula,
			FullName:  student.FullName(),
			Email:     email,
			BySubject: bySubject,
		})
	}
	s.toCache(ctx, key, rollCall)
	return rollCall, nil
}

// Invalidate drops cached summaries touched by a new attendance record.
func (s *SummaryService) Invalidate(ctx context.Context, matricula, claveM string, groupNum int) {
	if !s.cacheEnabled() {
		return
	}
	patterns := []string{
		"summary:student:" + matricula,
		fmt.Sprintf("summary:subject:%s:*", claveM),
		fmt.Sprintf("summary:rollcall:%d", groupNum),
	}
	for _, pattern := range patterns {
		if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
			s.logger.Warn("summary cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}
