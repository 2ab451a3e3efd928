package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/noah-isme/announcement-portal-api/internal/models"
	appErrors "github.com/noah-isme/announcement-portal-api/pkg/errors"
)

// BulkImportPipeline validates uploaded spreadsheets against the reference
// data and reconciles clean rows into submission payloads. Upload time does
// structural validation and parsing only; row-level semantic validation runs
// at submit time.
type BulkImportPipeline struct {
	maxRows int
}

// NewBulkImportPipeline builds the pipeline. maxRows caps a single upload;
// zero or negative means 500.
func NewBulkImportPipeline(maxRows int) *BulkImportPipeline {
	if maxRows <= 0 {
		maxRows = 500
	}
	return &BulkImportPipeline{maxRows: maxRows}
}

// ParseFlexibleDate accepts dd/mm/yyyy or ISO yyyy-mm-dd calendar dates.
func ParseFlexibleDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return DateOnly(t), true
		}
	}
	return time.Time{}, false
}

// ParseSheet runs structural validation and row parsing. The header row must
// match the template columns exactly, in order; any mismatch aborts before a
// single data row is parsed. Data rows become trimmed BulkRows; a date cell
// that does not parse is retained as empty rather than failing the upload.
func (p *BulkImportPipeline) ParseSheet(r io.Reader) ([]models.BulkRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidTemplate.Code, appErrors.ErrInvalidTemplate.Status, "uploaded sheet has no header row")
	}
	expected := models.TemplateColumns()
	if !headerMatches(header, expected) {
		msg := fmt.Sprintf("template columns must be [%s], found [%s]",
			strings.Join(expected, ", "), strings.Join(trimAll(header), ", "))
		return nil, appErrors.Clone(appErrors.ErrInvalidTemplate, msg)
	}

	rows := []models.BulkRow{}
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidTemplate.Code, appErrors.ErrInvalidTemplate.Status, "uploaded sheet is malformed")
		}
		if emptyRecord(record) {
			continue
		}
		line++
		if line > p.maxRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("sheet exceeds the maximum of %d rows", p.maxRows))
		}
		rows = append(rows, models.BulkRow{
			Line:             line,
			Title:            field(record, 0),
			AnnouncementType: field(record, 1),
			Category:         field(record, 2),
			Description:      field(record, 3),
			StartDate:        normalizeDateCell(field(record, 4)),
			EndDate:          normalizeDateCell(field(record, 5)),
		})
	}
	return rows, nil
}

// ValidateRows accumulates per-row errors independently against the reference
// sets. Rows are mutated in place (Errors replaced wholesale); the flattened
// error list is returned grouped by row then column order. Any non-empty
// result blocks the entire batch.
func (p *BulkImportPipeline) ValidateRows(rows []models.BulkRow, refs *models.ReferenceData, now time.Time) []models.RowError {
	today := DateOnly(now)
	all := []models.RowError{}
	for i := range rows {
		row := &rows[i]
		row.Errors = nil

		if row.Title == "" {
			row.AddError(models.ColumnTitle, "title is required")
		}

		if row.AnnouncementType == "" {
			row.AddError(models.ColumnType, "announcement type is required")
		} else {
			for _, token := range models.SplitTokens(row.AnnouncementType) {
				if _, ok := refs.Types.Canonical(token); !ok {
					row.AddError(models.ColumnType, fmt.Sprintf("unknown announcement type %q", token))
				}
			}
		}

		if row.Category == "" {
			row.AddError(models.ColumnCategory, "category is required")
		} else {
			for _, token := range models.SplitTokens(row.Category) {
				if _, ok := refs.Categories.KeyFor(token); !ok {
					row.AddError(models.ColumnCategory, fmt.Sprintf("unknown category %q", token))
				}
			}
		}

		if row.Description == "" {
			row.AddError(models.ColumnDescription, "description is required")
		}

		start, startOK := ParseFlexibleDate(row.StartDate)
		if !startOK {
			row.AddError(models.ColumnStartDate, "start date is required in dd/mm/yyyy form")
		} else if start.Before(today) {
			row.AddError(models.ColumnStartDate, "start date must not be in the past")
		}

		end, endOK := ParseFlexibleDate(row.EndDate)
		switch {
		case !endOK:
			row.AddError(models.ColumnEndDate, "end date is required in dd/mm/yyyy form")
		case end.Before(today):
			row.AddError(models.ColumnEndDate, "end date must not be in the past")
		case startOK && end.Before(start):
			row.AddError(models.ColumnEndDate, "end date must not be before the start date")
		}

		all = append(all, row.Errors...)
	}
	return all
}

// Reconcile maps validated rows onto submission records. Type tokens are
// normalized to the reference set's canonical display casing, category tokens
// to their keys. A row starting today publishes immediately; a future row is
// scheduled, the same branch split the single-flow resolver applies.
func (p *BulkImportPipeline) Reconcile(rows []models.BulkRow, refs *models.ReferenceData, now time.Time) ([]*models.Announcement, error) {
	today := DateOnly(now)
	records := make([]*models.Announcement, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		if !row.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("row %d still carries validation errors", row.Line))
		}

		typeNames := make([]string, 0, 1)
		for _, token := range models.SplitTokens(row.AnnouncementType) {
			entry, ok := refs.Types.Canonical(token)
			if !ok {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("row %d references unknown announcement type %q", row.Line, token))
			}
			typeNames = append(typeNames, entry.DisplayName)
		}
		categoryKeys := make([]string, 0, 1)
		for _, token := range models.SplitTokens(row.Category) {
			key, ok := refs.Categories.KeyFor(token)
			if !ok {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("row %d references unknown category %q", row.Line, token))
			}
			categoryKeys = append(categoryKeys, key)
		}

		start, _ := ParseFlexibleDate(row.StartDate)
		end, _ := ParseFlexibleDate(row.EndDate)

		record := &models.Announcement{
			Title:            row.Title,
			Description:      row.Description,
			AnnouncementType: strings.Join(typeNames, ", "),
			EndAnnouncement:  end.AddDate(0, 0, 1),
			CategoryKeys:     categoryKeys,
		}
		if start.Equal(today) {
			record.AnnouncementStatus = models.AnnouncementStatusPublished
			record.StartAnnouncement = now.UTC()
		} else {
			record.AnnouncementStatus = models.AnnouncementStatusScheduled
			record.StartAnnouncement = start
		}
		records = append(records, record)
	}
	return records, nil
}

func headerMatches(header, expected []string) bool {
	if len(header) != len(expected) {
		return false
	}
	for i := range expected {
		if strings.TrimSpace(header[i]) != expected[i] {
			return false
		}
	}
	return true
}

func normalizeDateCell(raw string) string {
	if raw == "" {
		return ""
	}
	if _, ok := ParseFlexibleDate(raw); !ok {
		return ""
	}
	return raw
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func emptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
