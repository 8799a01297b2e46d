package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
)

// TeacherAttendanceRepository handles persistence for staff attendance rows.
type TeacherAttendanceRepository struct {
	db *sqlx.DB
}

// NewTeacherAttendanceRepository constructs the repository.
func NewTeacherAttendanceRepository(db *sqlx.DB) *TeacherAttendanceRepository {
	return &TeacherAttendanceRepository{db: db}
}

// Exists reports whether a record already exists for the key.
func (r *TeacherAttendanceRepository) Exists(ctx context.Context, claveP int, claveM string, date time.Time) (bool, error) {
	var exists bool
	const query = "SELECT EXISTS(SELECT 1 FROM teacher_attendance WHERE clave_p = $1 AND clave_m = $2 AND date = $3)"
	if err := r.db.GetContext(ctx, &exists, query, claveP, claveM, date); err != nil {
		return false, fmt.Errorf("check teacher attendance: %w", err)
	}
	return exists, nil
}

// Insert stores a new teacher attendance record, mapping the unique
// constraint on (clave_p, clave_m, date) to ErrDuplicate.
func (r *TeacherAttendanceRepository) Insert(ctx context.Context, record *models.TeacherAttendanceRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO teacher_attendance (id, clave_p, clave_m, date, present, recorded_at, created_at)
        VALUES (:id, :clave_p, :clave_m, :date, :present, :recorded_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("insert teacher attendance: %w", err)
	}
	return nil
}

// Summaries aggregates presence per (teacher, subject) across all teachers
// with role teacher. Percent is left at zero for the service to derive.
func (r *TeacherAttendanceRepository) Summaries(ctx context.Context) ([]models.TeacherAttendanceSummary, error) {
	const query = `SELECT u.clave_p,
        TRIM(u.first_name || ' ' || u.last_name_1 || ' ' || COALESCE(u.last_name_2, '')) AS teacher_name,
        m.clave_m, m.name AS subject_name,
        COUNT(ta.id) FILTER (WHERE ta.present) AS times_present,
        COUNT(ta.id) AS total_classes,
        0 AS percent
        FROM staff u
        JOIN staff_subjects ss ON ss.clave_p = u.clave_p
        JOIN subjects m ON m.clave_m = ss.clave_m
        LEFT JOIN teacher_attendance ta ON ta.clave_p = u.clave_p AND ta.clave_m = m.clave_m
        WHERE u.role_id = $1
        GROUP BY u.clave_p, u.first_name, u.last_name_1, u.last_name_2, m.clave_m, m.name
        ORDER BY u.first_name, u.last_name_1`
	var rows []models.TeacherAttendanceSummary
	if err := r.db.SelectContext(ctx, &rows, query, models.RoleTeacher); err != nil {
		return nil, fmt.Errorf("teacher attendance summaries: %w", err)
	}
	return rows, nil
}
