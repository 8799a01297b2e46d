package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
	"github.com/DiegoNoguez/Asistencia-RFID/internal/service"
	appErrors "github.com/DiegoNoguez/Asistencia-RFID/pkg/errors"
	"github.com/DiegoNoguez/Asistencia-RFID/pkg/response"
)

// TerminalHandler serves the RFID kiosk. Lookups that find no class in
// session answer 200 with in_session=false; only unknown cards and write
// failures are errors.
type TerminalHandler struct {
	lookup     *service.LookupService
	schedules  *service.ScheduleService
	attendance *service.AttendanceService
	metrics    *service.MetricsService
}

// NewTerminalHandler constructs TerminalHandler.
func NewTerminalHandler(lookup *service.LookupService, schedules *service.ScheduleService, attendance *service.AttendanceService, metrics *service.MetricsService) *TerminalHandler {
	return &TerminalHandler{lookup: lookup, schedules: schedules, attendance: attendance, metrics: metrics}
}

type studentScanResponse struct {
	Student      *models.Student      `json:"alumno"`
	InSession    bool                 `json:"in_session"`
	CurrentClass *models.CurrentClass `json:"clase_actual,omitempty"`
}

type staffScanResponse struct {
	Staff        *models.Staff        `json:"profesor"`
	InSession    bool                 `json:"in_session"`
	CurrentClass *models.CurrentClass `json:"clase_actual,omitempty"`
}

// FindStudent godoc
// @Summary Resolve a student scan and the class in session
// @Tags Terminal
// @Produce json
// @Param claveT query string true "Card code or matricula"
// @Success 200 {object} response.Envelope
// @Router /terminal/buscar-alumno [get]
func (h *TerminalHandler) FindStudent(c *gin.Context) {
	student, err := h.lookup.FindStudentByCard(c.Request.Context(), c.Query("claveT"))
	if err != nil {
		h.metrics.ObserveScan("student", "error")
		response.Error(c, err)
		return
	}

	current, err := h.schedules.CurrentClassForStudent(c.Request.Context(), student, time.Now())
	if err != nil {
		h.metrics.ObserveScan("student", "error")
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, studentScanResponse{
		Student:      student,
		InSession:    current != nil,
		CurrentClass: current,
	}, nil)
}

// FindTeacher godoc
// @Summary Resolve a staff scan and the class in session
// @Tags Terminal
// @Produce json
// @Param claveT query string true "Card code or claveP"
// @Success 200 {object} response.Envelope
// @Router /terminal/buscar-profesor [get]
func (h *TerminalHandler) FindTeacher(c *gin.Context) {
	staff, err := h.lookup.FindStaffByCard(c.Request.Context(), c.Query("claveT"))
	if err != nil {
		h.metrics.ObserveScan("teacher", "error")
		response.Error(c, err)
		return
	}

	current, err := h.schedules.CurrentClassForTeacher(c.Request.Context(), staff.ClaveP, time.Now())
	if err != nil {
		h.metrics.ObserveScan("teacher", "error")
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, staffScanResponse{
		Staff:        staff,
		InSession:    current != nil,
		CurrentClass: current,
	}, nil)
}

// RecordAttendance godoc
// @Summary Record a student scan
// @Tags Terminal
// @Accept json
// @Produce json
// @Param payload body models.RecordAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /terminal/registrar-asistencia [post]
func (h *TerminalHandler) RecordAttendance(c *gin.Context) {
	var req models.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.attendance.Record(c.Request.Context(), req)
	if err != nil {
		h.metrics.ObserveScan("student", scanResult(err))
		response.Error(c, err)
		return
	}
	h.metrics.ObserveScan("student", "recorded")
	response.Created(c, record)
}

// RecordTeacherAttendance godoc
// @Summary Record a staff scan
// @Tags Terminal
// @Accept json
// @Produce json
// @Param payload body models.RecordTeacherAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /terminal/registrar-asistencia-profesor [post]
func (h *TerminalHandler) RecordTeacherAttendance(c *gin.Context) {
	var req models.RecordTeacherAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.attendance.RecordTeacher(c.Request.Context(), req)
	if err != nil {
		h.metrics.ObserveScan("teacher", scanResult(err))
		response.Error(c, err)
		return
	}
	h.metrics.ObserveScan("teacher", "recorded")
	response.Created(c, record)
}

func scanResult(err error) string {
	if appErrors.FromError(err).Code == appErrors.ErrDuplicateAttendance.Code {
		return "duplicate"
	}
	return "error"
}
