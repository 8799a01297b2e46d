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

// ErrDuplicate signals a write that violated an at-most-once-per-day key.
var ErrDuplicate = errors.New("attendance already recorded for this day")

const pqUniqueViolation = "23505"

// AttendanceRepository handles persistence for student attendance rows.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Exists reports whether a record already exists for the key.
func (r *AttendanceRepository) Exists(ctx context.Context, matricula, claveM string, date time.Time) (bool, error) {
	var exists bool
	const query = "SELECT EXISTS(SELECT 1 FROM attendance WHERE matricula = $1 AND clave_m = $2 AND date = $3)"
	if err := r.db.GetContext(ctx, &exists, query, matricula, claveM, date); err != nil {
		return false, fmt.Errorf("check attendance: %w", err)
	}
	return exists, nil
}

// Insert stores a new attendance record. The unique constraint on
// (matricula, clave_m, date) is the authority for duplicates; a violation is
// surfaced as ErrDuplicate so concurrent writers cannot slip past the
// pre-check.
func (r *AttendanceRepository) Insert(ctx context.Context, record *models.AttendanceRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO attendance (id, matricula, clave_m, group_num, date, recorded_at, present, notes, created_at)
        VALUES (:id, :matricula, :clave_m, :group_num, :date, :recorded_at, :present, :notes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

// List returns attendance rows joined with display names, newest first.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error) {
	base := `FROM attendance a
        JOIN students st ON st.matricula = a.matricula
        JOIN subjects s ON s.clave_m = a.clave_m
        LEFT JOIN staff_subjects ss ON ss.clave_m = a.clave_m
        LEFT JOIN staff u ON u.clave_p = ss.clave_p
        WHERE 1=1`
	var args []interface{}

	if filter.Matricula != "" {
		base += fmt.Sprintf(" AND a.matricula = $%d", len(args)+1)
		args = append(args, filter.Matricula)
	}
	if filter.ClaveM != "" {
		base += fmt.Sprintf(" AND a.clave_m = $%d", len(args)+1)
		args = append(args, filter.ClaveM)
	}
	if filter.GroupNum != nil {
		base += fmt.Sprintf(" AND a.group_num = $%d", len(args)+1)
		args = append(args, *filter.GroupNum)
	}
	if filter.DateFrom != nil {
		base += fmt.Sprintf(" AND a.date >= $%d", len(args)+1)
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		base += fmt.Sprintf(" AND a.date <= $%d", len(args)+1)
		args = append(args, *filter.DateTo)
	}
	if filter.Present != nil {
		base += fmt.Sprintf(" AND a.present = $%d", len(args)+1)
		args = append(args, *filter.Present)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT a.id, a.matricula, a.clave_m, a.group_num, a.date, a.recorded_at, a.present, a.notes, a.created_at,
        TRIM(st.first_name || ' ' || st.last_name_1 || ' ' || COALESCE(st.last_name_2, '')) AS student_name,
        s.name AS subject_name,
        TRIM(u.first_name || ' ' || u.last_name_1) AS teacher_name
        %s ORDER BY a.date DESC, a.recorded_at DESC LIMIT %d OFFSET %d`, base, size, offset)

	var rows []models.AttendanceDetail
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return rows, nil
}

// LatestForStudentSubjects returns the student's records for the given
// subjects, newest first, for decorating the weekly schedule view.
func (r *AttendanceRepository) LatestForStudentSubjects(ctx context.Context, matricula string, claves []string) ([]models.AttendanceRecord, error) {
	if len(claves) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id, matricula, clave_m, group_num, date, recorded_at, present, notes, created_at
        FROM attendance WHERE matricula = ? AND clave_m IN (?) ORDER BY date DESC`, matricula, claves)
	if err != nil {
		return nil, fmt.Errorf("build latest attendance query: %w", err)
	}
	query = r.db.Rebind(query)
	var rows []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("latest attendance: %w", err)
	}
	return rows, nil
}
