package service

import (
	"github.com/noah-isme/announcement-portal-api/internal/models"
	appErrors "github.com/noah-isme/announcement-portal-api/pkg/errors"
	"github.com/noah-isme/announcement-portal-api/pkg/export"
)

// TemplateFileName is the suggested download name for the bulk sheet.
const TemplateFileName = "announcement-bulk-template.csv"

// TemplateService renders the downloadable bulk-import sheet. The wizard core
// never interprets uploaded bytes beyond the CSV contract this template fixes.
type TemplateService struct {
	csv *export.CSVExporter
}

// NewTemplateService constructs the service.
func NewTemplateService() *TemplateService {
	return &TemplateService{csv: export.NewCSVExporter()}
}

// Render produces the template with the required header row and one example
// row showing the expected date format.
func (s *TemplateService) Render() ([]byte, error) {
	data := export.Table{
		Columns: models.TemplateColumns(),
		Rows: [][]string{
			{
				"Maintenance window",
				"General",
				"Operations",
				"Systems unavailable between 02:00 and 04:00.",
				"01/12/2026",
				"15/12/2026",
			},
		},
	}
	payload, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render template")
	}
	return payload, nil
}
