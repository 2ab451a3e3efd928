package models

// BulkRow is one parsed spreadsheet record. All fields hold trimmed raw
// strings exactly as uploaded; semantic validation happens at submit time.
type BulkRow struct {
	Line             int        `json:"line"`
	Title            string     `json:"title"`
	AnnouncementType string     `json:"announcement_type"`
	Category         string     `json:"category"`
	Description      string     `json:"description"`
	StartDate        string     `json:"start_date"`
	EndDate          string     `json:"end_date"`
	Errors           []RowError `json:"errors,omitempty"`
}

// Valid reports whether the row accumulated no errors.
func (r *BulkRow) Valid() bool {
	return len(r.Errors) == 0
}

// AddError appends a row-scoped validation error.
func (r *BulkRow) AddError(column, message string) {
	r.Errors = append(r.Errors, RowError{Row: r.Line, Column: column, Message: message})
}

// RowError is one validation failure attached to a bulk row.
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

// Template column names, in the exact order the uploaded sheet must carry.
const (
	ColumnTitle       = "Title"
	ColumnType        = "Announcement Type"
	ColumnCategory    = "Category"
	ColumnDescription = "Description"
	ColumnStartDate   = "Start Date"
	ColumnEndDate     = "End Date"
)

// TemplateColumns returns the required header row.
func TemplateColumns() []string {
	return []string{ColumnTitle, ColumnType, ColumnCategory, ColumnDescription, ColumnStartDate, ColumnEndDate}
}
