package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/DiegoNoguez/Asistencia-RFID/internal/models"
	"github.com/DiegoNoguez/Asistencia-RFID/pkg/config"
	appErrors "github.com/DiegoNoguez/Asistencia-RFID/pkg/errors"
	"github.com/DiegoNoguez/Asistencia-RFID/pkg/export"
	"github.com/DiegoNoguez/Asistencia-RFID/pkg/jobs"
	"github.com/DiegoNoguez/Asistencia-RFID/pkg/storage"
)

// Export formats accepted by the report endpoints.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

var reportHeaders = []string{"Matrícula", "Nombre", "Apellido Paterno", "Apellido Materno", "Asistencia", "Fecha"}

type reportRowSource interface {
	ReportRows(ctx context.Context, claveM string, groupNum int) ([]models.ReportRow, error)
	TeacherReportRows(ctx context.Context, claveP int, claveM string) ([]models.ReportRow, error)
}

// RenderedReport is an export ready to stream to the client. Token allows one
// re-download of the archived copy while it is valid.
type RenderedReport struct {
	Filename     string
	ContentType  string
	Bytes        []byte
	Token        string
	TokenExpires time.Time
}

type archivePayload struct {
	Filename string
	Data     []byte
}

// ReportService renders attendance spreadsheets and archives copies in the
// background.
type ReportService struct {
	rows    reportRowSource
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	storage *storage.LocalStorage
	signer  *storage.SignedURLSigner
	queue   *jobs.Queue
	cfg     config.ReportsConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewReportService constructs a ReportService and its archive queue. Call
// Start before serving and Stop on shutdown.
func NewReportService(rows reportRowSource, store *storage.LocalStorage, signer *storage.SignedURLSigner, cfg config.ReportsConfig, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReportService{
		rows:    rows,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		storage: store,
		signer:  signer,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
	s.queue = jobs.NewQueue("report-archive", s.archive, jobs.QueueConfig{
		Workers:    cfg.ArchiveWorkers,
		MaxRetries: cfg.ArchiveRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the archive workers.
func (s *ReportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the archive queue.
func (s *ReportService) Stop() {
	s.queue.Stop()
}

// StudentAttendanceReport renders the flat export for a subject and group.
func (s *ReportService) StudentAttendanceReport(ctx context.Context, claveM string, groupNum int, format string) (*RenderedReport, error) {
	rows, err := s.rows.ReportRows(ctx, claveM, groupNum)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read report rows")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no attendance records found")
	}

	stem := fmt.Sprintf("asistencia_%s_grupo%d_%s", claveM, groupNum, s.now().Format("20060102_150405"))
	title := fmt.Sprintf("Asistencias %s, grupo %d", claveM, groupNum)
	return s.render(rows, stem, title, format)
}

// TeacherAttendanceReport renders the flat export for a subject taught by one
// teacher.
func (s *ReportService) TeacherAttendanceReport(ctx context.Context, claveP int, claveM, format string) (*RenderedReport, error) {
	rows, err := s.rows.TeacherReportRows(ctx, claveP, claveM)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read report rows")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no attendance records found")
	}

	stem := fmt.Sprintf("asistencia_%s_prof%d_%s", claveM, claveP, s.now().Format("20060102_150405"))
	title := fmt.Sprintf("Asistencias %s, profesor %d", claveM, claveP)
	return s.render(rows, stem, title, format)
}

func (s *ReportService) render(rows []models.ReportRow, stem, title, format string) (*RenderedReport, error) {
	dataset := buildReportDataset(rows)

	var (
		data        []byte
		err         error
		filename    string
		contentType string
	)
	switch format {
	case FormatPDF:
		filename = stem + ".pdf"
		contentType = "application/pdf"
		data, err = s.pdf.Render(dataset, title)
	case FormatCSV, "":
		filename = stem + ".csv"
		contentType = "text/csv"
		data, err = s.csv.Render(dataset)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	report := &RenderedReport{Filename: filename, ContentType: contentType, Bytes: data}

	token, expires, err := s.signer.Generate(filename)
	if err != nil {
		s.logger.Warn("failed to sign report token", zap.String("filename", filename), zap.Error(err))
	} else {
		report.Token = token
		report.TokenExpires = expires
	}

	if err := s.queue.Enqueue(jobs.Job{Type: "archive", Payload: archivePayload{Filename: filename, Data: data}}); err != nil {
		s.logger.Warn("failed to enqueue report archive", zap.String("filename", filename), zap.Error(err))
	}
	return report, nil
}

// Download reopens an archived report via its signed token.
func (s *ReportService) Download(token string) (*os.File, string, error) {
	relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired report token")
	}

	file, err := s.storage.Open(relPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "archived report no longer available")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open archived report")
	}
	return file, relPath, nil
}

// RunCleanup prunes archived reports older than the signed URL TTL until the
// context is cancelled.
func (s *ReportService) RunCleanup(ctx context.Context) {
	interval := s.cfg.CleanupInterval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.storage.CleanupOlderThan(s.cfg.SignedURLTTL)
			if err != nil {
				s.logger.Warn("report cleanup failed", zap.Error(err))
				continue
			}
			if len(removed) > 0 {
				s.logger.Info("pruned archived reports", zap.Int("count", len(removed)))
			}
		}
	}
}

func (s *ReportService) archive(_ context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(archivePayload)
	if !ok {
		return fmt.Errorf("unexpected archive payload %T", job.Payload)
	}
	if _, err := s.storage.Save(payload.Filename, payload.Data); err != nil {
		return fmt.Errorf("archive report %s: %w", payload.Filename, err)
	}
	return nil
}

// buildReportDataset flattens rows into the export table. The stored full name
// splits positionally: first token nombre, second ape1, remainder ape2.
func buildReportDataset(rows []models.ReportRow) export.Dataset {
	dataset := export.Dataset{Headers: reportHeaders, Rows: make([][]string, 0, len(rows))}
	for _, row := range rows {
		nombre, ape1, ape2 := splitFullName(row.StudentName)
		estado := "Ausente"
		if row.Present {
			estado = "Presente"
		}
		dataset.Rows = append(dataset.Rows, []string{
			row.Matricula, nombre, ape1, ape2, estado, row.Date.Format("2006-01-02"),
		})
	}
	return dataset
}

func splitFullName(name string) (nombre, ape1, ape2 string) {
	parts := strings.Fields(name)
	if len(parts) > 0 {
		nombre = parts[0]
	}
	if len(parts) > 1 {
		ape1 = parts[1]
	}
	if len(parts) > 2 {
		ape2 = strings.Join(parts[2:], " ")
	}
	return nombre, ape1, ape2
}
