package models

// CreateStudentRequest is the roster creation payload. GroupNum is optional;
// the service assigns the configured default group when it is zero. When
// Password is empty the matricula doubles as the initial password.
type CreateStudentRequest struct {
	Matricula string  `json:"matricula" validate:"required"`
	CardCode  string  `json:"claveT" validate:"required"`
	FirstName string  `json:"nombre" validate:"required"`
	LastName1 string  `json:"ape1" validate:"required"`
	LastName2 *string `json:"ape2"`
	GroupNum  int     `json:"numGrupo"`
	Email     *string `json:"correo" validate:"omitempty,email"`
	Password  string  `json:"password"`
}

// RecordAttendanceRequest registers one student scan. A nil Present defaults
// to true: scanning in is presence.
type RecordAttendanceRequest struct {
	Matricula string  `json:"matricula" validate:"required"`
	ClaveM    string  `json:"claveM" validate:"required"`
	GroupNum  int     `json:"numGrup" validate:"required"`
	Present   *bool   `json:"presente"`
	Notes     *string `json:"observaciones"`
}

// RecordTeacherAttendanceRequest registers one staff scan.
type RecordTeacherAttendanceRequest struct {
	ClaveP  int    `json:"claveP" validate:"required"`
	ClaveM  string `json:"claveM" validate:"required"`
	Present *bool  `json:"asistio"`
}
