package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/appeal-routing-api/internal/models"
	appErrors "github.com/noah-isme/appeal-routing-api/pkg/errors"
	"github.com/noah-isme/appeal-routing-api/pkg/export"
)

type applicationLister interface {
	List(ctx context.Context, role models.Role, filter models.ApplicationFilter) ([]models.Application, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	PDFTitle string
}

// ExportFile is a rendered listing ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
	Rows        int
}

// ExportService renders the caller's visible listing as CSV or PDF.
type ExportService struct {
	apps   applicationLister
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
	cfg    ExportConfig
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(apps applicationLister, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PDFTitle == "" {
		cfg.PDFTitle = "Appeal Applications"
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		apps:   apps,
		csv:    csv,
		pdf:    pdf,
		logger: logger,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

var exportHeaders = []string{"ID", "Student ID", "Student Name", "Type", "Submitted", "Current Stage", "Status", "Rejection Reason"}

// Export renders the applications visible to role after filter is applied.
func (s *ExportService) Export(ctx context.Context, role models.Role, filter models.ApplicationFilter, rawFormat string) (*ExportFile, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}

	apps, err := s.apps.List(ctx, role, filter)
	if err != nil {
		return nil, err
	}
	dataset := applicationDataset(apps)

	var payload []byte
	switch format {
	case export.FormatPDF:
		payload, err = s.pdf.Render(dataset, s.cfg.PDFTitle)
	default:
		payload, err = s.csv.Render(dataset)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.logger.Info("applications exported",
		zap.String("role", string(role)),
		zap.String("format", string(format)),
		zap.Int("rows", len(apps)),
	)
	return &ExportFile{
		Filename:    s.filename(role, format),
		ContentType: format.ContentType(),
		Payload:     payload,
		Rows:        len(apps),
	}, nil
}

func applicationDataset(apps []models.Application) export.Dataset {
	rows := make([][]string, 0, len(apps))
	for _, app := range apps {
		reason := ""
		if app.RejectionReason != nil {
			reason = *app.RejectionReason
		}
		rows = append(rows, []string{
			app.ID,
			app.StudentID,
			app.StudentName,
			string(app.Type),
			app.SubmittedDate.Format("2006-01-02"),
			string(app.CurrentStage),
			string(app.Status),
			reason,
		})
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}
}

func (s *ExportService) filename(role models.Role, format export.Format) string {
	scope := sanitizeFilename(string(role))
	return fmt.Sprintf("applications_%s_%s.%s", scope, s.now().Format("20060102_150405"), format)
}

func sanitizeFilename(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "all"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", `"`, "")
	result := replacer.Replace(strings.ToLower(raw))
	if len(result) > 64 {
		return result[:64]
	}
	return result
}
