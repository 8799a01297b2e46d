package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/service"
	appErrors "github.com/DiegoNoguez/Asistencia-RFID/pkg/errors"
	"github.com/DiegoNoguez/Asistencia-RFID/pkg/response"
)

// StaffHandler exposes teacher-facing roster endpoints.
type StaffHandler struct {
	staff     *service.StaffService
	schedules *service.ScheduleService
}

// NewStaffHandler constructs StaffHandler.
func NewStaffHandler(staff *service.StaffService, schedules *service.ScheduleService) *StaffHandler {
	return &StaffHandler{staff: staff, schedules: schedules}
}

func parseClaveP(c *gin.Context) (int, bool) {
	claveP, err := strconv.Atoi(c.Param("claveP"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "claveP must be numeric"))
		return 0, false
	}
	return claveP, true
}

// Subjects godoc
// @Summary Subjects assigned to a teacher
// @Tags Staff
// @Produce json
// @Param claveP path int true "Teacher key"
// @Success 200 {object} response.Envelope
// @Router /profesor/{claveP}/materias [get]
func (h *StaffHandler) Subjects(c *gin.Context) {
	claveP, ok := parseClaveP(c)
	if !ok {
		return
	}
	subjects, err := h.staff.Subjects(c.Request.Context(), claveP)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// Schedule godoc
// @Summary Weekly schedule for a teacher
// @Tags Staff
// @Produce json
// @Param claveP path int true "Teacher key"
// @Success 200 {object} response.Envelope
// @Router /profesores/{claveP}/horario [get]
func (h *StaffHandler) Schedule(c *gin.Context) {
	claveP, ok := parseClaveP(c)
	if !ok {
		return
	}
	if _, err := h.staff.Get(c.Request.Context(), claveP); err != nil {
		response.Error(c, err)
		return
	}
	entries, err := h.schedules.TeacherSchedule(c.Request.Context(), claveP)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
