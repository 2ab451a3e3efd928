package dto

import (
	"time"

	"github.com/noah-isme/announcement-portal-api/internal/models"
)

// StartSessionRequest opens a new wizard session.
type StartSessionRequest struct {
	Mode     string `json:"mode" validate:"required,oneof=CREATE EDIT"`
	RecordID string `json:"record_id" validate:"required_if=Mode EDIT"`
	Variant  string `json:"variant" validate:"omitempty,oneof=wizard sidebar banner"`
}

// SelectFlowRequest picks the authoring path.
type SelectFlowRequest struct {
	Flow string `json:"flow" validate:"required,oneof=SINGLE BULK"`
}

// FieldInputRequest mutates one draft field. Value carries scalar fields,
// Values the multi-select ones.
type FieldInputRequest struct {
	Kind   string   `json:"kind" validate:"required"`
	Value  string   `json:"value"`
	Values []string `json:"values"`
}

// SessionView is the externally visible projection of a wizard session.
type SessionView struct {
	ID          string                    `json:"id"`
	Flow        models.WizardFlow         `json:"flow"`
	Mode        models.WizardMode         `json:"mode"`
	Step        models.WizardStep         `json:"step"`
	Draft       *models.AnnouncementDraft `json:"draft,omitempty"`
	BulkRows    int                       `json:"bulk_rows"`
	Dirty       bool                      `json:"dirty"`
	StepValid   bool                      `json:"step_valid"`
	Affordances models.Affordances        `json:"affordances"`
	Warning     string                    `json:"warning,omitempty"`
}

// SubmitResult reports the outcome of a submission attempt. RowErrors is
// populated only for a bulk batch blocked by row validation.
type SubmitResult struct {
	Accepted  bool              `json:"accepted"`
	RecordIDs []string          `json:"record_ids,omitempty"`
	RowErrors []models.RowError `json:"row_errors,omitempty"`
}

// ErrorReportRequest asks for a rendered export of the last bulk row errors.
type ErrorReportRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf"`
}

// ErrorReportView describes a report job and, once done, its download token.
type ErrorReportView struct {
	JobID         string     `json:"job_id"`
	Status        string     `json:"status"`
	Format        string     `json:"format"`
	DownloadToken string     `json:"download_token,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Error         string     `json:"error,omitempty"`
}
