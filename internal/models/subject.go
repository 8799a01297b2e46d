package models

// Subject represents a course (the legacy "materia" table).
type Subject struct {
	ClaveM   string `db:"clave_m" json:"claveM"`
	Name     string `db:"name" json:"nomMateria"`
	StartsAt string `db:"starts_at" json:"hrInicio"`
	EndsAt   string `db:"ends_at" json:"hrFinal"`
}

// SubjectWithTeacher extends a subject with its assigned teacher's name.
type SubjectWithTeacher struct {
	Subject
	TeacherName *string `db:"teacher_name" json:"profesor,omitempty"`
}

// Group is a student cohort.
type Group struct {
	GroupNum int    `db:"group_num" json:"numGrup"`
	Program  string `db:"program" json:"carrera"`
}

// Enrollment links a student to a subject.
type Enrollment struct {
	ClaveM    string `db:"clave_m" json:"claveM"`
	Matricula string `db:"matricula" json:"matricula"`
}

// GroupSubject links a group to a subject.
type GroupSubject struct {
	ClaveM   string `db:"clave_m" json:"claveM"`
	GroupNum int    `db:"group_num" json:"numGrup"`
}

// StaffSubject links a teacher to a subject they teach.
type StaffSubject struct {
	ClaveP int    `db:"clave_p" json:"claveP"`
	ClaveM string `db:"clave_m" json:"claveM"`
}
