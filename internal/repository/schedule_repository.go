package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
)

// ScheduleRepository provides persistence for weekly schedule entries.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListForStudentDay returns the day's entries for subjects the student is
// enrolled in, scoped to the student's group.
func (r *ScheduleRepository) ListForStudentDay(ctx context.Context, matricula string, groupNum int, day string) ([]models.ScheduleEntryDetail, error) {
	const query = `SELECT h.id, h.matricula, h.clave_m, h.group_num, h.day, h.time_slot, s.name AS subject_name
        FROM schedule_entries h
        JOIN enrollments e ON e.matricula = $1 AND e.clave_m = h.clave_m
        JOIN subjects s ON s.clave_m = h.clave_m
        WHERE h.day = $2 AND h.group_num = $3
        ORDER BY h.time_slot`
	var entries []models.ScheduleEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, matricula, day, groupNum); err != nil {
		return nil, fmt.Errorf("list student day schedule: %w", err)
	}
	return entries, nil
}

// ListForTeacherDay returns the day's entries for subjects the teacher is
// assigned to.
func (r *ScheduleRepository) ListForTeacherDay(ctx context.Context, claveP int, day string) ([]models.ScheduleEntryDetail, error) {
	const query = `SELECT DISTINCT h.id, h.matricula, h.clave_m, h.group_num, h.day, h.time_slot, s.name AS subject_name
        FROM schedule_entries h
        JOIN staff_subjects ss ON ss.clave_p = $1 AND ss.clave_m = h.clave_m
        JOIN subjects s ON s.clave_m = h.clave_m
        WHERE h.day = $2
        ORDER BY h.time_slot`
	var entries []models.ScheduleEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, claveP, day); err != nil {
		return nil, fmt.Errorf("list teacher day schedule: %w", err)
	}
	return entries, nil
}

// ListForTeacher returns all schedule entries for the teacher's subjects.
func (r *ScheduleRepository) ListForTeacher(ctx context.Context, claveP int) ([]models.ScheduleEntryDetail, error) {
	const query = `SELECT DISTINCT h.id, h.matricula, h.clave_m, h.group_num, h.day, h.time_slot, s.name AS subject_name
        FROM schedule_entries h
        JOIN staff_subjects ss ON ss.clave_p = $1 AND ss.clave_m = h.clave_m
        JOIN subjects s ON s.clave_m = h.clave_m
        ORDER BY h.day, h.time_slot`
	var entries []models.ScheduleEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, claveP); err != nil {
		return nil, fmt.Errorf("list teacher schedule: %w", err)
	}
	return entries, nil
}

// WeeklyForStudent returns the student's schedule grouped by subject and
// weekday, keeping the earliest slot per cell.
func (r *ScheduleRepository) WeeklyForStudent(ctx context.Context, matricula string, groupNum int) ([]models.WeeklyClassStatus, error) {
	const query = `SELECT h.clave_m, s.name AS subject_name, h.day, MIN(h.time_slot) AS time_slot, h.group_num
        FROM schedule_entries h
        JOIN enrollments e ON e.matricula = $1 AND e.clave_m = h.clave_m
        JOIN subjects s ON s.clave_m = h.clave_m
        WHERE h.group_num = $2
        GROUP BY h.clave_m, s.name, h.day, h.group_num
        ORDER BY h.day, MIN(h.time_slot)`
	var rows []models.WeeklyClassStatus
	if err := r.db.SelectContext(ctx, &rows, query, matricula, groupNum); err != nil {
		return nil, fmt.Errorf("weekly student schedule: %w", err)
	}
	return rows, nil
}
