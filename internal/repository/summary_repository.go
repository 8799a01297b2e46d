package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
)

// SummaryRepository runs the aggregation queries behind attendance summaries
// and spreadsheet exports. Denominators count distinct recorded dates, not an
// independent class calendar.
type SummaryRepository struct {
	db *sqlx.DB
}

// NewSummaryRepository constructs the repository.
func NewSummaryRepository(db *sqlx.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// StudentSubjectCounts returns per-subject counts for one student's enrolled
// subjects.
func (r *SummaryRepository) StudentSubjectCounts(ctx context.Context, matricula string) ([]models.SubjectSummary, error) {
	const query = `SELECT e.clave_m, s.name AS subject_name,
        COUNT(a.id) FILTER (WHERE a.present) AS times_present,
        COUNT(DISTINCT a.date) AS total_classes
        FROM enrollments e
        JOIN subjects s ON s.clave_m = e.clave_m
        LEFT JOIN attendance a ON a.matricula = e.matricula AND a.clave_m = e.clave_m
        WHERE e.matricula = $1
        GROUP BY e.clave_m, s.name
        ORDER BY e.clave_m`
	var rows []models.SubjectSummary
	if err := r.db.SelectContext(ctx, &rows, query, matricula); err != nil {
		return nil, fmt.Errorf("student subject counts: %w", err)
	}
	return rows, nil
}

// SubjectGroupCounts returns per-student counts for one subject and group.
func (r *SummaryRepository) SubjectGroupCounts(ctx context.Context, claveM string, groupNum int) ([]models.StudentCounts, error) {
	const query = `SELECT st.matricula,
        TRIM(st.first_name || ' ' || st.last_name_1 || ' ' || COALESCE(st.last_name_2, '')) AS student_name,
        COUNT(a.id) FILTER (WHERE a.present) AS times_present,
        COUNT(DISTINCT a.date) AS total_classes
        FROM students st
        JOIN enrollments e ON e.matricula = st.matricula AND e.clave_m = $1
        LEFT JOIN attendance a ON a.matricula = st.matricula AND a.clave_m = $1
        WHERE st.group_num = $2
        GROUP BY st.matricula, st.first_name, st.last_name_1, st.last_name_2
        ORDER BY st.last_name_1, st.first_name`
	var rows []models.StudentCounts
	if err := r.db.SelectContext(ctx, &rows, query, claveM, groupNum); err != nil {
		return nil, fmt.Errorf("subject group counts: %w", err)
	}
	return rows, nil
}

// rollCallCell is the raw per-(student, subject) aggregate for roll-call.
type rollCallCell struct {
	Matricula    string `db:"matricula"`
	ClaveM       string `db:"clave_m"`
	TimesPresent int    `db:"times_present"`
	TotalClasses int    `db:"total_classes"`
}

// RollCallCounts returns counts for every (student, subject) pair with at
// least one record, scoped to the provided students and subjects.
func (r *SummaryRepository) RollCallCounts(ctx context.Context, matriculas, claves []string) (map[string]map[string]models.AttendanceCounts, error) {
	result := make(map[string]map[string]models.AttendanceCounts)
	if len(matriculas) == 0 || len(claves) == 0 {
		return result, nil
	}
	query, args, err := sqlx.In(`SELECT matricula, clave_m,
        COUNT(id) FILTER (WHERE present) AS times_present,
        COUNT(DISTINCT date) AS total_classes
        FROM attendance
        WHERE matricula IN (?) AND clave_m IN (?)
        GROUP BY matricula, clave_m`, matriculas, claves)
	if err != nil {
		return nil, fmt.Errorf("build roll-call query: %w", err)
	}
	query = r.db.Rebind(query)
	var cells []rollCallCell
	if err := r.db.SelectContext(ctx, &cells, query, args...); err != nil {
		return nil, fmt.Errorf("roll-call counts: %w", err)
	}
	for _, cell := range cells {
		bySubject, ok := result[cell.Matricula]
		if !ok {
			bySubject = make(map[string]models.AttendanceCounts)
			result[cell.Matricula] = bySubject
		}
		bySubject[cell.ClaveM] = models.AttendanceCounts{
			TimesPresent: cell.TimesPresent,
			TotalClasses: cell.TotalClasses,
		}
	}
	return result, nil
}

// ReportRows returns the flat export rows for a subject and group, newest
// first then by surname.
func (r *SummaryRepository) ReportRows(ctx context.Context, claveM string, groupNum int) ([]models.ReportRow, error) {
	const query = `SELECT a.matricula,
        TRIM(st.first_name || ' ' || st.last_name_1 || ' ' || COALESCE(st.last_name_2, '')) AS student_name,
        a.present, a.date
        FROM attendance a
        JOIN students st ON st.matricula = a.matricula
        WHERE a.clave_m = $1 AND a.group_num = $2
        ORDER BY a.date DESC, st.last_name_1, st.first_name`
	var rows []models.ReportRow
	if err := r.db.SelectContext(ctx, &rows, query, claveM, groupNum); err != nil {
		return nil, fmt.Errorf("report rows: %w", err)
	}
	return rows, nil
}

// TeacherReportRows returns the flat export rows for a subject taught by the
// given teacher.
func (r *SummaryRepository) TeacherReportRows(ctx context.Context, claveP int, claveM string) ([]models.ReportRow, error) {
	const query = `SELECT a.matricula,
        TRIM(st.first_name || ' ' || st.last_name_1 || ' ' || COALESCE(st.last_name_2, '')) AS student_name,
        a.present, a.date
        FROM attendance a
        JOIN students st ON st.matricula = a.matricula
        JOIN staff_subjects ss ON ss.clave_m = a.clave_m
        WHERE a.clave_m = $1 AND ss.clave_p = $2
        ORDER BY a.date DESC, st.last_name_1, st.first_name`
	var rows []models.ReportRow
	if err := r.db.SelectContext(ctx, &rows, query, claveM, claveP); err != nil {
		return nil, fmt.Errorf("teacher report rows: %w", err)
	}
	return rows, nil
}
