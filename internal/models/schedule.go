package models

import "time"

// ScheduleEntry is one weekly class slot. Day holds the Spanish weekday label
// used by the store ("Lunes".."Domingo") and TimeSlot a free-text range,
// "HH:MM-HH:MM" by convention.
type ScheduleEntry struct {
	ID        int64  `db:"id" json:"id"`
	Matricula string `db:"matricula" json:"matricula"`
	ClaveM    string `db:"clave_m" json:"claveM"`
	GroupNum  int    `db:"group_num" json:"numGrup"`
	Day       string `db:"day" json:"dia"`
	TimeSlot  string `db:"time_slot" json:"hora"`
}

// ScheduleEntryDetail joins the slot with its subject name.
type ScheduleEntryDetail struct {
	ScheduleEntry
	SubjectName string `db:"subject_name" json:"nomMateria"`
}

// CurrentClass describes the period in session at lookup time. End is derived
// for display from the parsed start plus a fixed duration, not from the stored
// range.
type CurrentClass struct {
	ClaveM      string    `json:"claveM"`
	SubjectName string    `json:"materia_actual"`
	Day         string    `json:"dia"`
	TimeSlot    string    `json:"horario_actual"`
	GroupNum    int       `json:"grupo"`
	StartsAt    time.Time `json:"hora_inicio"`
	EndsAt      time.Time `json:"hora_fin"`
}

// WeeklyClassStatus is a schedule row decorated with the most recent
// attendance state for that subject on that weekday.
type WeeklyClassStatus struct {
	ClaveM      string     `db:"clave_m" json:"clave_materia"`
	SubjectName string     `db:"subject_name" json:"materia"`
	Day         string     `db:"day" json:"dia"`
	TimeSlot    string     `db:"time_slot" json:"hora"`
	GroupNum    int        `db:"group_num" json:"numGrup"`
	LastPresent *bool      `json:"asistencia"`
	LastDate    *time.Time `json:"ultima_actualizacion,omitempty"`
}
