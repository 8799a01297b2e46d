package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
)

// SubjectRepository manages persistence for subjects and their links.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// FindByClaveM fetches a subject by its key.
func (r *SubjectRepository) FindByClaveM(ctx context.Context, claveM string) (*models.Subject, error) {
	const query = "SELECT clave_m, name, starts_at, ends_at FROM subjects WHERE clave_m = $1"
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, claveM); err != nil {
		return nil, err
	}
	return &subject, nil
}

// ListForStudent returns the subjects a student is enrolled in.
func (r *SubjectRepository) ListForStudent(ctx context.Context, matricula string) ([]models.Subject, error) {
	const query = `SELECT s.clave_m, s.name, s.starts_at, s.ends_at
        FROM subjects s
        JOIN enrollments e ON e.clave_m = s.clave_m
        WHERE e.matricula = $1
        ORDER BY s.clave_m`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, matricula); err != nil {
		return nil, fmt.Errorf("list student subjects: %w", err)
	}
	return subjects, nil
}

// ListForTeacher returns the subjects assigned to a teacher.
func (r *SubjectRepository) ListForTeacher(ctx context.Context, claveP int) ([]models.Subject, error) {
	const query = `SELECT s.clave_m, s.name, s.starts_at, s.ends_at
        FROM subjects s
        JOIN staff_subjects ss ON ss.clave_m = s.clave_m
        WHERE ss.clave_p = $1
        ORDER BY s.clave_m`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, claveP); err != nil {
		return nil, fmt.Errorf("list teacher subjects: %w", err)
	}
	return subjects, nil
}

// ListForGroup returns the group's subjects with their teacher's display name.
func (r *SubjectRepository) ListForGroup(ctx context.Context, groupNum int) ([]models.RollCallSubject, error) {
	const query = `SELECT gs.clave_m, s.name AS subject_name,
        COALESCE(TRIM(u.first_name || ' ' || u.last_name_1 || ' ' || COALESCE(u.last_name_2, '')), '') AS teacher_name
        FROM group_subjects gs
        JOIN subjects s ON s.clave_m = gs.clave_m
        LEFT JOIN staff_subjects ss ON ss.clave_m = gs.clave_m
        LEFT JOIN staff u ON u.clave_p = ss.clave_p
        WHERE gs.group_num = $1
        ORDER BY gs.clave_m`
	var subjects []models.RollCallSubject
	if err := r.db.SelectContext(ctx, &subjects, query, groupNum); err != nil {
		return nil, fmt.Errorf("list group subjects: %w", err)
	}
	return subjects, nil
}

// StudentsForSubjects returns the distinct students enrolled in any of the
// provided subjects.
func (r *SubjectRepository) StudentsForSubjects(ctx context.Context, claves []string) ([]models.Student, error) {
	if len(claves) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf(`SELECT DISTINCT %s FROM students st
        JOIN enrollments e ON e.matricula = st.matricula
        WHERE e.clave_m IN (?)`, prefixedStudentColumns("st")), claves)
	if err != nil {
		return nil, fmt.Errorf("build students query: %w", err)
	}
	query = r.db.Rebind(query)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list subject students: %w", err)
	}
	return students, nil
}

func prefixedStudentColumns(alias string) string {
	return fmt.Sprintf("%[1]s.matricula, %[1]s.card_code, %[1]s.first_name, %[1]s.last_name_1, %[1]s.last_name_2, %[1]s.group_num, %[1]s.email, %[1]s.password_hash, %[1]s.created_at, %[1]s.updated_at", alias)
}
