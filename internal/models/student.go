package models

import (
	"strings"
	"time"
)

// Student represents a learner identified by matricula and an RFID card.
type Student struct {
	Matricula    string    `db:"matricula" json:"matricula"`
	CardCode     string    `db:"card_code" json:"claveT"`
	FirstName    string    `db:"first_name" json:"nombre"`
	LastName1    string    `db:"last_name_1" json:"ape1"`
	LastName2    *string   `db:"last_name_2" json:"ape2,omitempty"`
	GroupNum     int       `db:"group_num" json:"numGrupo"`
	Email        *string   `db:"email" json:"correo,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FullName joins the name parts, skipping a missing second surname.
func (s Student) FullName() string {
	parts := []string{s.FirstName, s.LastName1}
	if s.LastName2 != nil && *s.LastName2 != "" {
		parts = append(parts, *s.LastName2)
	}
	return strings.Join(parts, " ")
}

// StudentFilter captures filtering criteria for listing students.
type StudentFilter struct {
	GroupNum  int
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
