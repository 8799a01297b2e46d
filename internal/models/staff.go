package models

import (
	"strings"
	"time"
)

// Role identifiers shared with the login payload.
const (
	RoleStudent = 1
	RoleTeacher = 2
	RoleAdmin   = 3
)

// Staff represents a teacher or administrator (the legacy "usuario" table).
type Staff struct {
	ClaveP       int       `db:"clave_p" json:"claveP"`
	CardCode     string    `db:"card_code" json:"claveT"`
	FirstName    string    `db:"first_name" json:"nombre"`
	LastName1    string    `db:"last_name_1" json:"ape1"`
	LastName2    *string   `db:"last_name_2" json:"ape2,omitempty"`
	RoleID       int       `db:"role_id" json:"idRol"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FullName joins the name parts, skipping a missing second surname.
func (s Staff) FullName() string {
	parts := []string{s.FirstName, s.LastName1}
	if s.LastName2 != nil && *s.LastName2 != "" {
		parts = append(parts, *s.LastName2)
	}
	return strings.Join(parts, " ")
}
