package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
)

// StaffRepository manages persistence for teacher and admin accounts.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs a StaffRepository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

const staffColumns = "clave_p, card_code, first_name, last_name_1, last_name_2, role_id, password_hash, created_at, updated_at"

// FindByClaveP fetches a staff member by primary identifier.
func (r *StaffRepository) FindByClaveP(ctx context.Context, claveP int) (*models.Staff, error) {
	query := fmt.Sprintf("SELECT %s FROM staff WHERE clave_p = $1", staffColumns)
	var staff models.Staff
	if err := r.db.GetContext(ctx, &staff, query, claveP); err != nil {
		return nil, err
	}
	return &staff, nil
}

// FindByClavePAndRole fetches a staff member matching both id and role.
func (r *StaffRepository) FindByClavePAndRole(ctx context.Context, claveP, roleID int) (*models.Staff, error) {
	query := fmt.Sprintf("SELECT %s FROM staff WHERE clave_p = $1 AND role_id = $2", staffColumns)
	var staff models.Staff
	if err := r.db.GetContext(ctx, &staff, query, claveP, roleID); err != nil {
		return nil, err
	}
	return &staff, nil
}

// FindByCard resolves an RFID card code, falling back to the clave_p when the
// scanned value is numeric. First match by clave_p wins on duplicate cards.
func (r *StaffRepository) FindByCard(ctx context.Context, code string) (*models.Staff, error) {
	claveP := -1
	if parsed, err := strconv.Atoi(code); err == nil {
		claveP = parsed
	}
	query := fmt.Sprintf("SELECT %s FROM staff WHERE card_code = $1 OR clave_p = $2 ORDER BY clave_p LIMIT 1", staffColumns)
	var staff models.Staff
	if err := r.db.GetContext(ctx, &staff, query, code, claveP); err != nil {
		return nil, err
	}
	return &staff, nil
}
