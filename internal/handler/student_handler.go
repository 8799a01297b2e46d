package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
	"github.com/DiegoNoguez/Asistencia-RFID/internal/service"
	appErrors "github.com/DiegoNoguez/Asistencia-RFID/pkg/errors"
	"github.com/DiegoNoguez/Asistencia-RFID/pkg/response"
)

// StudentHandler exposes roster endpoints.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param numGrupo query int false "Filter by group"
// @Param search query string false "Name or matricula search"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /alumnos [get]
func (h *StudentHandler) List(c *gin.Context) {
	var filter models.StudentFilter
	if group, err := strconv.Atoi(c.Query("numGrupo")); err == nil {
		filter.GroupNum = group
	}
	filter.Search = c.Query("search")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	students, pagination, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, &pagination)
}

// Get godoc
// @Summary Fetch one student
// @Tags Students
// @Produce json
// @Param matricula path string true "Matricula"
// @Success 200 {object} response.Envelope
// @Router /alumnos/{matricula} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("matricula"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Create godoc
// @Summary Register a student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body models.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /alumnos [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req models.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Delete godoc
// @Summary Remove a student and its attendance history
// @Tags Students
// @Produce json
// @Param matricula path string true "Matricula"
// @Success 204
// @Router /alumnos/{matricula} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.students.Delete(c.Request.Context(), c.Param("matricula")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
