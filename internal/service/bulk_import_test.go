package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/announcement-portal-api/internal/models"
	appErrors "github.com/noah-isme/announcement-portal-api/pkg/errors"
)

var bulkNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func bulkRefs() *models.ReferenceData {
	return &models.ReferenceData{
		Types: models.NewReferenceSet([]models.ReferenceEntry{
			{Key: "general", DisplayName: "General"},
			{Key: "planned-scheduled", DisplayName: "Planned Scheduled"},
		}),
		Categories: models.NewReferenceSet([]models.ReferenceEntry{
			{Key: "students", DisplayName: "Students"},
			{Key: "staff", DisplayName: "Staff"},
		}),
	}
}

const bulkHeader = "Title, Announcement Type, Category, Description, Start Date, End Date\n"

func TestParseFlexibleDate(t *testing.T) {
	parsed, ok := ParseFlexibleDate("15/04/2026")
	require.True(t, ok)
	assert.Equal(t, date(2026, 4, 15), parsed)

	parsed, ok = ParseFlexibleDate("2026-04-15")
	require.True(t, ok)
	assert.Equal(t, date(2026, 4, 15), parsed)

	_, ok = ParseFlexibleDate("15-04-2026")
	assert.False(t, ok)
	_, ok = ParseFlexibleDate("")
	assert.False(t, ok)
}

func TestParseSheetRejectsWrongHeader(t *testing.T) {
	p := NewBulkImportPipeline(0)
	sheet := "Title, Type, Category, Description, Start Date, End Date\n" +
		"Sports day, General, Students, All classes, 15/04/2026, 20/04/2026\n"

	rows, err := p.ParseSheet(strings.NewReader(sheet))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTemplate.Code, appErrors.FromError(err).Code)
	assert.Contains(t, err.Error(), "Announcement Type")
	// Structural failure means no data row was parsed at all.
	assert.Nil(t, rows)
}

func TestParseSheetRejectsMissingColumn(t *testing.T) {
	p := NewBulkImportPipeline(0)
	sheet := "Title, Announcement Type, Category, Description, Start Date\n"

	_, err := p.ParseSheet(strings.NewReader(sheet))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTemplate.Code, appErrors.FromError(err).Code)
}

func TestParseSheetParsesRows(t *testing.T) {
	p := NewBulkImportPipeline(0)
	sheet := bulkHeader +
		"Sports day, General, Students, All classes join, 15/04/2026, 20/04/2026\n" +
		",,,,,\n" +
		"Exam week, general, Staff, Quiet please, 2026-05-01, 2026-05-08\n"

	rows, err := p.ParseSheet(strings.NewReader(sheet))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].Line)
	assert.Equal(t, "Sports day", rows[0].Title)
	assert.Equal(t, "General", rows[0].AnnouncementType)
	assert.Equal(t, "15/04/2026", rows[0].StartDate)

	// Blank lines are skipped, not numbered.
	assert.Equal(t, 2, rows[1].Line)
	assert.Equal(t, "Exam week", rows[1].Title)
}

func TestParseSheetKeepsUnparseableDatesEmpty(t *testing.T) {
	p := NewBulkImportPipeline(0)
	sheet := bulkHeader + "Sports day, General, Students, All classes, soon, 20/04/2026\n"

	rows, err := p.ParseSheet(strings.NewReader(sheet))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].StartDate)
	assert.Equal(t, "20/04/2026", rows[0].EndDate)
}

func TestParseSheetEnforcesRowCap(t *testing.T) {
	p := NewBulkImportPipeline(2)
	sheet := bulkHeader +
		"A, General, Students, d, 15/04/2026, 20/04/2026\n" +
		"B, General, Students, d, 15/04/2026, 20/04/2026\n" +
		"C, General, Students, d, 15/04/2026, 20/04/2026\n"

	_, err := p.ParseSheet(strings.NewReader(sheet))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestValidateRowsOneBadRowAmongValid(t *testing.T) {
	p := NewBulkImportPipeline(0)
	sheet := bulkHeader +
		"A, General, Students, d, 15/04/2026, 20/04/2026\n" +
		"B, General, Students, d, 15/04/2026, 20/04/2026\n" +
		"C, General, Students, d, 15/04/2026, 20/04/2026\n" +
		", General, Students, d, 15/04/2026, 20/04/2026\n"

	rows, err := p.ParseSheet(strings.NewReader(sheet))
	require.NoError(t, err)

	errs := p.ValidateRows(rows, bulkRefs(), bulkNow)
	require.Len(t, errs, 1)
	assert.Equal(t, 4, errs[0].Row)
	assert.Equal(t, models.ColumnTitle, errs[0].Column)
}

func TestValidateRowsMatchesTypesCaseInsensitively(t *testing.T) {
	p := NewBulkImportPipeline(0)
	rows := []models.BulkRow{{
		Line:             1,
		Title:            "A",
		AnnouncementType: "gEnErAl",
		Category:         "Students",
		Description:      "d",
		StartDate:        "15/04/2026",
		EndDate:          "20/04/2026",
	}}

	errs := p.ValidateRows(rows, bulkRefs(), bulkNow)
	assert.Empty(t, errs)
}

func TestValidateRowsMatchesCategoriesExactly(t *testing.T) {
	p := NewBulkImportPipeline(0)
	rows := []models.BulkRow{{
		Line:             1,
		Title:            "A",
		AnnouncementType: "General",
		Category:         "students",
		Description:      "d",
		StartDate:        "15/04/2026",
		EndDate:          "20/04/2026",
	}}

	errs := p.ValidateRows(rows, bulkRefs(), bulkNow)
	require.Len(t, errs, 1)
	assert.Equal(t, models.ColumnCategory, errs[0].Column)
}

func TestValidateRowsAccumulatesPerRow(t *testing.T) {
	p := NewBulkImportPipeline(0)
	rows := []models.BulkRow{{Line: 1}}

	errs := p.ValidateRows(rows, bulkRefs(), bulkNow)
	columns := make([]string, 0, len(errs))
	for _, e := range errs {
		assert.Equal(t, 1, e.Row)
		columns = append(columns, e.Column)
	}
	assert.Equal(t, []string{
		models.ColumnTitle,
		models.ColumnType,
		models.ColumnCategory,
		models.ColumnDescription,
		models.ColumnStartDate,
		models.ColumnEndDate,
	}, columns)
}

func TestValidateRowsRejectsPastAndInvertedDates(t *testing.T) {
	p := NewBulkImportPipeline(0)
	rows := []models.BulkRow{
		{Line: 1, Title: "A", AnnouncementType: "General", Category: "Students", Description: "d", StartDate: "01/03/2026", EndDate: "20/04/2026"},
		{Line: 2, Title: "B", AnnouncementType: "General", Category: "Students", Description: "d", StartDate: "20/04/2026", EndDate: "15/04/2026"},
	}

	errs := p.ValidateRows(rows, bulkRefs(), bulkNow)
	require.Len(t, errs, 2)
	assert.Equal(t, models.ColumnStartDate, errs[0].Column)
	assert.Equal(t, 2, errs[1].Row)
	assert.Equal(t, models.ColumnEndDate, errs[1].Column)
}

func TestReconcileSplitsPublishedAndScheduled(t *testing.T) {
	p := NewBulkImportPipeline(0)
	rows := []models.BulkRow{
		{Line: 1, Title: "Today", AnnouncementType: "general", Category: "Students", Description: "d", StartDate: "10/03/2026", EndDate: "20/03/2026"},
		{Line: 2, Title: "Later", AnnouncementType: "General", Category: "Staff", Description: "d", StartDate: "15/04/2026", EndDate: "20/04/2026"},
	}
	require.Empty(t, p.ValidateRows(rows, bulkRefs(), bulkNow))

	records, err := p.Reconcile(rows, bulkRefs(), bulkNow)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, models.AnnouncementStatusPublished, records[0].AnnouncementStatus)
	assert.Equal(t, bulkNow, records[0].StartAnnouncement)
	assert.Equal(t, date(2026, 3, 21), records[0].EndAnnouncement)
	// Type tokens come out in the reference set's canonical casing.
	assert.Equal(t, "General", records[0].AnnouncementType)
	assert.Equal(t, []string{"students"}, records[0].CategoryKeys)

	assert.Equal(t, models.AnnouncementStatusScheduled, records[1].AnnouncementStatus)
	assert.Equal(t, date(2026, 4, 15), records[1].StartAnnouncement)
}

func TestReconcileRefusesInvalidRows(t *testing.T) {
	p := NewBulkImportPipeline(0)
	rows := []models.BulkRow{{Line: 1, Errors: []models.RowError{{Row: 1, Column: models.ColumnTitle, Message: "title is required"}}}}

	_, err := p.Reconcile(rows, bulkRefs(), bulkNow)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
