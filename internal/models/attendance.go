package models

import "time"

// AttendanceRecord is one student attendance row. At most one record exists
// per (matricula, clave_m, date); the store enforces this with a unique
// constraint.
type AttendanceRecord struct {
	ID         string    `db:"id" json:"idAsistencia"`
	Matricula  string    `db:"matricula" json:"matricula"`
	ClaveM     string    `db:"clave_m" json:"claveM"`
	GroupNum   int       `db:"group_num" json:"numGrup"`
	Date       time.Time `db:"date" json:"fecha"`
	RecordedAt string    `db:"recorded_at" json:"horaRegistro"`
	Present    bool      `db:"present" json:"presente"`
	Notes      *string   `db:"notes" json:"observaciones,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// AttendanceDetail joins an attendance row with display names.
type AttendanceDetail struct {
	AttendanceRecord
	StudentName string  `db:"student_name" json:"nombre_completo"`
	SubjectName string  `db:"subject_name" json:"nombre_materia"`
	TeacherName *string `db:"teacher_name" json:"profesor,omitempty"`
}

// AttendanceFilter scopes attendance listing queries. Unique de-duplicates
// rows sharing (matricula, clave_m, date), keeping the first seen.
type AttendanceFilter struct {
	Matricula string
	ClaveM    string
	GroupNum  *int
	DateFrom  *time.Time
	DateTo    *time.Time
	Present   *bool
	Unique    bool
	Page      int
	PageSize  int
}

// TeacherAttendanceRecord mirrors AttendanceRecord for staff, keyed by
// (clave_p, clave_m, date).
type TeacherAttendanceRecord struct {
	ID         string    `db:"id" json:"id_asistencia"`
	ClaveP     int       `db:"clave_p" json:"claveP"`
	ClaveM     string    `db:"clave_m" json:"claveM"`
	Date       time.Time `db:"date" json:"fecha"`
	Present    bool      `db:"present" json:"asistio"`
	RecordedAt string    `db:"recorded_at" json:"hora_registro"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// AttendanceCounts aggregates presence for one (person, subject) pair.
// TotalClasses counts distinct dates with any record, so a session nobody
// scanned into is invisible to the denominator.
type AttendanceCounts struct {
	TimesPresent int     `db:"times_present" json:"asistencias"`
	TotalClasses int     `db:"total_classes" json:"total_clases"`
	Percent      float64 `json:"porcentaje"`
}

// SubjectSummary is a per-subject aggregate for one student.
type SubjectSummary struct {
	ClaveM      string `db:"clave_m" json:"claveM"`
	SubjectName string `db:"subject_name" json:"materia"`
	AttendanceCounts
}

// StudentSummary is the full per-student report.
type StudentSummary struct {
	Matricula string           `json:"matricula"`
	FullName  string           `json:"nombre_completo"`
	GroupNum  int              `json:"grupo"`
	Subjects  []SubjectSummary `json:"resumen"`
}

// StudentCounts is a per-student aggregate for one subject/group.
type StudentCounts struct {
	Matricula   string `db:"matricula" json:"matricula"`
	StudentName string `db:"student_name" json:"nombre_completo"`
	AttendanceCounts
}

// SubjectGroupSummary is the per-subject report across a group's students.
type SubjectGroupSummary struct {
	ClaveM      string          `json:"claveM"`
	SubjectName string          `json:"nombre"`
	GroupNum    int             `json:"grupo"`
	Students    []StudentCounts `json:"resumen"`
}

// RollCallSubject describes one of a group's subjects in the roll-call view.
type RollCallSubject struct {
	ClaveM      string `db:"clave_m" json:"claveM"`
	SubjectName string `db:"subject_name" json:"nombre"`
	TeacherName string `db:"teacher_name" json:"profesor"`
}

// RollCallStudent carries a student's per-subject counts.
type RollCallStudent struct {
	Matricula string                      `json:"matricula"`
	FullName  string                      `json:"nombre_completo"`
	Email     string                      `json:"correo"`
	BySubject map[string]AttendanceCounts `json:"asistencias"`
}

// RollCall is the bulk per-group summary ("pase de lista").
type RollCall struct {
	GroupNum int                        `json:"grupo"`
	Subjects map[string]RollCallSubject `json:"materias"`
	Students []RollCallStudent          `json:"alumnos"`
}

// TeacherAttendanceSummary aggregates presence per (teacher, subject). Percent
// defaults to 100 when the teacher has no recorded sessions yet.
type TeacherAttendanceSummary struct {
	ClaveP       int     `db:"clave_p" json:"claveP"`
	TeacherName  string  `db:"teacher_name" json:"nombre"`
	ClaveM       string  `db:"clave_m" json:"claveM"`
	SubjectName  string  `db:"subject_name" json:"materia"`
	TimesPresent int     `db:"times_present" json:"asistencias"`
	TotalClasses int     `db:"total_classes" json:"total_clases"`
	Percent      float64 `db:"percent" json:"porcentaje"`
}

// ReportRow is one line of the flat spreadsheet export.
type ReportRow struct {
	Matricula   string    `db:"matricula"`
	StudentName string    `db:"student_name"`
	Present     bool      `db:"present"`
	Date        time.Time `db:"date"`
}
