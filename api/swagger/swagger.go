package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Asistencia RFID API",
        "description": "School attendance backend fed by RFID kiosk terminals",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Login for students and staff"},
        {"name": "Students", "description": "Roster management"},
        {"name": "Attendance", "description": "Attendance history and summaries"},
        {"name": "Staff", "description": "Teacher subjects and schedules"},
        {"name": "Terminal", "description": "RFID kiosk flow"},
        {"name": "Reports", "description": "Spreadsheet exports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Sign in with matricula or claveP",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Profile and access token", "schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"description": "Incorrect password"},
                    "404": {"description": "User not found"}
                }
            }
        },
        "/api/alumnos": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "numGrupo", "in": "query", "type": "integer"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Students with pagination", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register a student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Matricula already registered"}
                }
            }
        },
        "/api/alumnos/{matricula}": {
            "get": {
                "tags": ["Students"],
                "summary": "Fetch one student",
                "parameters": [
                    {"name": "matricula", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Student"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Remove a student and its attendance history",
                "parameters": [
                    {"name": "matricula", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/asistencias": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List attendance records",
                "parameters": [
                    {"name": "matricula", "in": "query", "type": "string"},
                    {"name": "claveM", "in": "query", "type": "string"},
                    {"name": "numGrup", "in": "query", "type": "integer"},
                    {"name": "fecha_inicio", "in": "query", "type": "string"},
                    {"name": "fecha_fin", "in": "query", "type": "string"},
                    {"name": "presente", "in": "query", "type": "boolean"},
                    {"name": "unique", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "Attendance rows", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "post": {
                "tags": ["Attendance"],
                "summary": "Record attendance manually",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordAttendanceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Recorded"},
                    "409": {"description": "Already recorded today"}
                }
            }
        },
        "/api/asistencias/verificar-duplicado/": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Probe whether attendance already exists today",
                "parameters": [
                    {"name": "matricula", "in": "query", "required": true, "type": "string"},
                    {"name": "claveM", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Duplicate flag"}
                }
            }
        },
        "/api/asistencias/resumen-alumno/{matricula}": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Per-subject attendance summary for a student",
                "parameters": [
                    {"name": "matricula", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Summary"},
                    "404": {"description": "Student or subjects not found"}
                }
            }
        },
        "/api/asistencias/resumen-materia/{claveM}/{numGrup}": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Per-student attendance summary for a subject and group",
                "parameters": [
                    {"name": "claveM", "in": "path", "required": true, "type": "string"},
                    {"name": "numGrup", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Summary"},
                    "404": {"description": "Subject or students not found"}
                }
            }
        },
        "/api/asistencias/pase-lista-grupo/{numGrup}": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Roll-call matrix for a group",
                "parameters": [
                    {"name": "numGrup", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Roll call"},
                    "404": {"description": "Group has no subjects"}
                }
            }
        },
        "/api/asistencias/horario-alumno/{matricula}": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Weekly schedule decorated with latest attendance",
                "parameters": [
                    {"name": "matricula", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Weekly schedule"}
                }
            }
        },
        "/asistencia-profesores/": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Attendance aggregates per teacher and subject",
                "responses": {
                    "200": {"description": "Aggregates"}
                }
            }
        },
        "/api/profesor/{claveP}/materias": {
            "get": {
                "tags": ["Staff"],
                "summary": "Subjects assigned to a teacher",
                "parameters": [
                    {"name": "claveP", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Subjects"},
                    "404": {"description": "Teacher not found"}
                }
            }
        },
        "/profesores/{claveP}/horario": {
            "get": {
                "tags": ["Staff"],
                "summary": "Weekly schedule for a teacher",
                "parameters": [
                    {"name": "claveP", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Schedule entries"}
                }
            }
        },
        "/terminal/buscar-alumno": {
            "get": {
                "tags": ["Terminal"],
                "summary": "Resolve a student scan and the class in session",
                "parameters": [
                    {"name": "claveT", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Student with in_session flag"},
                    "404": {"description": "Card not recognized"}
                }
            }
        },
        "/terminal/buscar-profesor": {
            "get": {
                "tags": ["Terminal"],
                "summary": "Resolve a staff scan and the class in session",
                "parameters": [
                    {"name": "claveT", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Staff with in_session flag"},
                    "404": {"description": "Card not recognized"}
                }
            }
        },
        "/terminal/registrar-asistencia": {
            "post": {
                "tags": ["Terminal"],
                "summary": "Record a student scan",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordAttendanceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Recorded"},
                    "409": {"description": "Already recorded today"}
                }
            }
        },
        "/terminal/registrar-asistencia-profesor": {
            "post": {
                "tags": ["Terminal"],
                "summary": "Record a staff scan",
                "responses": {
                    "201": {"description": "Recorded"},
                    "409": {"description": "Already recorded today"}
                }
            }
        },
        "/reportes/excel_asistencias": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export attendance for a subject and group",
                "parameters": [
                    {"name": "claveM", "in": "query", "required": true, "type": "string"},
                    {"name": "numGrup", "in": "query", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Spreadsheet file"},
                    "404": {"description": "No attendance records"}
                }
            }
        },
        "/reportes/excel_asistencias_profesor": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export attendance for a subject taught by one teacher",
                "parameters": [
                    {"name": "claveP", "in": "query", "required": true, "type": "integer"},
                    {"name": "claveM", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Spreadsheet file"},
                    "404": {"description": "No attendance records"}
                }
            }
        },
        "/reportes/descargas/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Re-download an archived report via its signed token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Spreadsheet file"},
                    "401": {"description": "Invalid or expired token"},
                    "404": {"description": "Archive pruned"}
                }
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalCount": {"type": "integer"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["usuario", "password", "rol"],
            "properties": {
                "usuario": {"type": "string"},
                "password": {"type": "string"},
                "rol": {"type": "integer"}
            }
        },
        "CreateStudentRequest": {
            "type": "object",
            "required": ["matricula", "claveT", "nombre", "ape1"],
            "properties": {
                "matricula": {"type": "string"},
                "claveT": {"type": "string"},
                "nombre": {"type": "string"},
                "ape1": {"type": "string"},
                "ape2": {"type": "string"},
                "numGrupo": {"type": "integer"},
                "correo": {"type": "string"}
            }
        },
        "RecordAttendanceRequest": {
            "type": "object",
            "required": ["matricula", "claveM", "numGrup"],
            "properties": {
                "matricula": {"type": "string"},
                "claveM": {"type": "string"},
                "numGrup": {"type": "integer"},
                "presente": {"type": "boolean"},
                "observaciones": {"type": "string"}
            }
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
