package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/service"
	appErrors "github.com/DiegoNoguez/Asistencia-RFID/pkg/errors"
	"github.com/DiegoNoguez/Asistencia-RFID/pkg/response"
)

// XReportToken is the header carrying the signed re-download token.
const XReportToken = "X-Report-Token"

// ReportHandler streams rendered attendance spreadsheets.
type ReportHandler struct {
	reports *service.ReportService
	metrics *service.MetricsService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService, metrics *service.MetricsService) *ReportHandler {
	return &ReportHandler{reports: reports, metrics: metrics}
}

// StudentReport godoc
// @Summary Export attendance for a subject and group
// @Tags Reports
// @Produce text/csv
// @Param claveM query string true "Subject key"
// @Param numGrup query int true "Group number"
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /reportes/excel_asistencias [get]
func (h *ReportHandler) StudentReport(c *gin.Context) {
	claveM := c.Query("claveM")
	if claveM == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "claveM is required"))
		return
	}
	groupNum, err := strconv.Atoi(c.Query("numGrup"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "numGrup must be numeric"))
		return
	}

	report, err := h.reports.StudentAttendanceReport(c.Request.Context(), claveM, groupNum, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.streamReport(c, report)
}

// TeacherReport godoc
// @Summary Export attendance for a subject taught by one teacher
// @Tags Reports
// @Produce text/csv
// @Param claveP query int true "Teacher key"
// @Param claveM query string true "Subject key"
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /reportes/excel_asistencias_profesor [get]
func (h *ReportHandler) TeacherReport(c *gin.Context) {
	claveP, err := strconv.Atoi(c.Query("claveP"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "claveP must be numeric"))
		return
	}
	claveM := c.Query("claveM")
	if claveM == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "claveM is required"))
		return
	}

	report, err := h.reports.TeacherAttendanceReport(c.Request.Context(), claveP, claveM, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.streamReport(c, report)
}

// Download godoc
// @Summary Re-download an archived report via its signed token
// @Tags Reports
// @Produce text/csv
// @Param token path string true "Signed report token"
// @Success 200 {file} binary
// @Router /reportes/descargas/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	file, filename, err := h.reports.Download(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.File(file.Name())
}

func (h *ReportHandler) streamReport(c *gin.Context, report *service.RenderedReport) {
	format := service.FormatCSV
	if report.ContentType == "application/pdf" {
		format = service.FormatPDF
	}
	h.metrics.ObserveReportRender(format)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	if report.Token != "" {
		c.Header(XReportToken, report.Token)
	}
	c.Data(http.StatusOK, report.ContentType, report.Bytes)
}
