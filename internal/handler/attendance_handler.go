package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
	"github.com/DiegoNoguez/Asistencia-RFID/internal/service"
	appErrors "github.com/DiegoNoguez/Asistencia-RFID/pkg/errors"
	"github.com/DiegoNoguez/Asistencia-RFID/pkg/response"
)

// AttendanceHandler exposes attendance history and summary endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
	summaries  *service.SummaryService
	students   *service.StudentService
	schedules  *service.ScheduleService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService, summaries *service.SummaryService, students *service.StudentService, schedules *service.ScheduleService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, summaries: summaries, students: students, schedules: schedules}
}

// Create godoc
// @Summary Record attendance manually
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body models.RecordAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /asistencias [post]
func (h *AttendanceHandler) Create(c *gin.Context) {
	var req models.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.attendance.Record(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param matricula query string false "Filter by student"
// @Param claveM query string false "Filter by subject"
// @Param numGrup query int false "Filter by group"
// @Param fecha_inicio query string false "From date (YYYY-MM-DD)"
// @Param fecha_fin query string false "To date (YYYY-MM-DD)"
// @Param presente query bool false "Filter by presence"
// @Param unique query bool false "Keep one row per student, subject and date"
// @Success 200 {object} response.Envelope
// @Router /asistencias [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	var filter models.AttendanceFilter
	filter.Matricula = c.Query("matricula")
	filter.ClaveM = c.Query("claveM")
	if group, err := strconv.Atoi(c.Query("numGrup")); err == nil {
		filter.GroupNum = &group
	}
	if from, err := time.Parse("2006-01-02", c.Query("fecha_inicio")); err == nil {
		filter.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("fecha_fin")); err == nil {
		filter.DateTo = &to
	}
	if present, err := strconv.ParseBool(c.Query("presente")); err == nil {
		filter.Present = &present
	}
	filter.Unique, _ = strconv.ParseBool(c.Query("unique"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "100")); err == nil {
		filter.PageSize = size
	}

	rows, err := h.attendance.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// CheckDuplicate godoc
// @Summary Probe whether attendance already exists today
// @Tags Attendance
// @Produce json
// @Param matricula query string true "Matricula"
// @Param claveM query string true "Subject key"
// @Success 200 {object} response.Envelope
// @Router /asistencias/verificar-duplicado/ [get]
func (h *AttendanceHandler) CheckDuplicate(c *gin.Context) {
	dup, err := h.attendance.IsDuplicate(c.Request.Context(), c.Query("matricula"), c.Query("claveM"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"duplicado": dup}, nil)
}

// StudentSummary godoc
// @Summary Per-subject attendance summary for a student
// @Tags Attendance
// @Produce json
// @Param matricula path string true "Matricula"
// @Success 200 {object} response.Envelope
// @Router /asistencias/resumen-alumno/{matricula} [get]
func (h *AttendanceHandler) StudentSummary(c *gin.Context) {
	summary, err := h.summaries.StudentSummary(c.Request.Context(), c.Param("matricula"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// SubjectSummary godoc
// @Summary Per-student attendance summary for a subject and group
// @Tags Attendance
// @Produce json
// @Param claveM path string true "Subject key"
// @Param numGrup path int true "Group number"
// @Success 200 {object} response.Envelope
// @Router /asistencias/resumen-materia/{claveM}/{numGrup} [get]
func (h *AttendanceHandler) SubjectSummary(c *gin.Context) {
	groupNum, err := strconv.Atoi(c.Param("numGrup"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "numGrup must be numeric"))
		return
	}
	summary, err := h.summaries.SubjectGroupSummary(c.Request.Context(), c.Param("claveM"), groupNum)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// GroupRollCall godoc
// @Summary Roll-call matrix for a group
// @Tags Attendance
// @Produce json
// @Param numGrup path int true "Group number"
// @Success 200 {object} response.Envelope
// @Router /asistencias/pase-lista-grupo/{numGrup} [get]
func (h *AttendanceHandler) GroupRollCall(c *gin.Context) {
	groupNum, err := strconv.Atoi(c.Param("numGrup"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "numGrup must be numeric"))
		return
	}
	rollCall, err := h.summaries.GroupRollCall(c.Request.Context(), groupNum)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rollCall, nil)
}

// WeeklySchedule godoc
// @Summary Weekly schedule decorated with latest attendance
// @Tags Attendance
// @Produce json
// @Param matricula path string true "Matricula"
// @Success 200 {object} response.Envelope
// @Router /asistencias/horario-alumno/{matricula} [get]
func (h *AttendanceHandler) WeeklySchedule(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("matricula"))
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.schedules.WeeklySchedule(c.Request.Context(), student)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// TeacherSummaries godoc
// @Summary Attendance aggregates per teacher and subject
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /asistencia-profesores/ [get]
func (h *AttendanceHandler) TeacherSummaries(c *gin.Context) {
	rows, err := h.attendance.TeacherSummaries(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}
