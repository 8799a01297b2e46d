package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = "matricula, card_code, first_name, last_name_1, last_name_2, group_num, email, password_hash, created_at, updated_at"

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := "FROM students WHERE 1=1"
	var args []interface{}

	if filter.GroupNum != 0 {
		base += fmt.Sprintf(" AND group_num = $%d", len(args)+1)
		args = append(args, filter.GroupNum)
	}
	if filter.Search != "" {
		base += fmt.Sprintf(" AND (LOWER(first_name || ' ' || last_name_1) LIKE $%d OR matricula LIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"matricula":  "matricula",
		"last_name":  "last_name_1",
		"created_at": "created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "matricula"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", studentColumns, base, column, order, size, offset)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByMatricula fetches a student by primary identifier.
func (r *StudentRepository) FindByMatricula(ctx context.Context, matricula string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE matricula = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, matricula); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByCard resolves an RFID card code, falling back to the matricula itself.
// Card codes are not constrained unique; the first match by matricula wins.
func (r *StudentRepository) FindByCard(ctx context.Context, code string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE card_code = $1 OR matricula = $1 ORDER BY matricula LIMIT 1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, code); err != nil {
		return nil, err
	}
	return &student, nil
}

// Exists reports whether a matricula is already registered.
func (r *StudentRepository) Exists(ctx context.Context, matricula string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM students WHERE matricula = $1)"
	if err := r.db.GetContext(ctx, &exists, query, matricula); err != nil {
		return false, fmt.Errorf("check matricula: %w", err)
	}
	return exists, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (matricula, card_code, first_name, last_name_1, last_name_2, group_num, email, password_hash, created_at, updated_at)
        VALUES (:matricula, :card_code, :first_name, :last_name_1, :last_name_2, :group_num, :email, :password_hash, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// DeleteCascade removes a student together with its attendance, schedule and
// enrollment rows in one transaction.
func (r *StudentRepository) DeleteCascade(ctx context.Context, matricula string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete student: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	statements := []string{
		"DELETE FROM attendance WHERE matricula = $1",
		"DELETE FROM schedule_entries WHERE matricula = $1",
		"DELETE FROM enrollments WHERE matricula = $1",
		"DELETE FROM students WHERE matricula = $1",
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, matricula); err != nil {
			return fmt.Errorf("delete student rows: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete student: %w", err)
	}
	return nil
}
