package models

import (
	"sort"
	"time"
)

// WizardFlow selects between the two authoring paths.
type WizardFlow string

const (
	FlowUnset  WizardFlow = ""
	FlowSingle WizardFlow = "SINGLE"
	FlowBulk   WizardFlow = "BULK"
)

// WizardMode distinguishes creating a new record from editing a stored one.
type WizardMode string

const (
	ModeCreate WizardMode = "CREATE"
	ModeEdit   WizardMode = "EDIT"
)

// WizardStep is one state of the flow machine.
type WizardStep string

const (
	StepSelectFlow       WizardStep = "SELECT_FLOW"
	StepSingleEditFields WizardStep = "SINGLE_EDIT_FIELDS"
	StepSingleReview     WizardStep = "SINGLE_REVIEW"
	StepBulkDownload     WizardStep = "BULK_DOWNLOAD_TEMPLATE"
	StepBulkUpload       WizardStep = "BULK_UPLOAD"
	StepBulkReview       WizardStep = "BULK_REVIEW"
	StepSubmitted        WizardStep = "SUBMITTED"
	StepCancelled        WizardStep = "CANCELLED"
)

// Terminal reports whether the step ends the session.
func (s WizardStep) Terminal() bool {
	return s == StepSubmitted || s == StepCancelled
}

// PublishChoice is the user's scheduling decision.
type PublishChoice string

const (
	PublishUnset PublishChoice = ""
	PublishNow   PublishChoice = "NOW"
	PublishLater PublishChoice = "LATER"
)

// FieldKind tags draft fields for input dispatch.
type FieldKind string

const (
	FieldTitle         FieldKind = "title"
	FieldTypes         FieldKind = "announcementTypes"
	FieldCategories    FieldKind = "categories"
	FieldDescription   FieldKind = "description"
	FieldPublishChoice FieldKind = "publishChoice"
	FieldStartDate     FieldKind = "startDate"
	FieldEndDate       FieldKind = "endDate"
)

// FieldSeverity marks per-field validation outcome.
type FieldSeverity string

const (
	SeverityNone  FieldSeverity = "None"
	SeverityError FieldSeverity = "Error"
)

// FieldState carries a field's validation outcome and message.
type FieldState struct {
	Severity FieldSeverity `json:"severity"`
	Message  string        `json:"message,omitempty"`
}

// AnnouncementDraft is the mutable working record of a single-flow session.
// Date fields are calendar dates normalized to UTC midnight; the zero value
// means unset.
type AnnouncementDraft struct {
	Title           string                   `json:"title"`
	TypeKeys        []string                 `json:"announcement_type_keys"`
	CategoryKeys    []string                 `json:"category_keys"`
	DescriptionHTML string                   `json:"description_html"`
	PublishChoice   PublishChoice            `json:"publish_choice"`
	StartDate       time.Time                `json:"start_date"`
	EndDate         time.Time                `json:"end_date"`
	MinEndDate      time.Time                `json:"min_end_date"`
	Fields          map[FieldKind]FieldState `json:"fields"`
}

// NewAnnouncementDraft returns an empty draft with normalized (non-nil) sets.
func NewAnnouncementDraft() *AnnouncementDraft {
	return &AnnouncementDraft{
		TypeKeys:     []string{},
		CategoryKeys: []string{},
		Fields:       make(map[FieldKind]FieldState),
	}
}

// Clone deep-copies the draft. Used to snapshot the baseline and to restore
// on reset without sharing slices.
func (d *AnnouncementDraft) Clone() *AnnouncementDraft {
	if d == nil {
		return nil
	}
	clone := *d
	clone.TypeKeys = append([]string{}, d.TypeKeys...)
	clone.CategoryKeys = append([]string{}, d.CategoryKeys...)
	clone.Fields = make(map[FieldKind]FieldState, len(d.Fields))
	for k, v := range d.Fields {
		clone.Fields[k] = v
	}
	return &clone
}

// SetFieldState records a field's validation outcome.
func (d *AnnouncementDraft) SetFieldState(kind FieldKind, severity FieldSeverity, message string) {
	if d.Fields == nil {
		d.Fields = make(map[FieldKind]FieldState)
	}
	d.Fields[kind] = FieldState{Severity: severity, Message: message}
}

// SortedSetEqual compares two multi-select values order-insensitively.
func SortedSetEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// Affordances are the derived button-enablement flags published to the UI.
type Affordances struct {
	CanCancel  bool `json:"can_cancel"`
	CanReset   bool `json:"can_reset"`
	CanAdvance bool `json:"can_advance"`
	CanSubmit  bool `json:"can_submit"`
}

// WizardSession is one authoring state-machine instance. Exactly one of
// Draft/BulkRows is authoritative depending on Flow; selecting a flow resets
// the other side.
type WizardSession struct {
	ID           string             `json:"id"`
	Flow         WizardFlow         `json:"flow"`
	Mode         WizardMode         `json:"mode"`
	Variant      string             `json:"variant,omitempty"`
	Step         WizardStep         `json:"step"`
	Draft        *AnnouncementDraft `json:"draft,omitempty"`
	Baseline     *AnnouncementDraft `json:"-"`
	BulkRows     []BulkRow          `json:"bulk_rows,omitempty"`
	EditRecordID string             `json:"edit_record_id,omitempty"`
	Dirty        bool               `json:"dirty"`
	StepValid    bool               `json:"step_valid"`
	Affordances  Affordances        `json:"affordances"`
	Reference    *ReferenceData     `json:"-"`

	SubmitPending  bool       `json:"-"`
	LastLengthWarn time.Time  `json:"-"`
	LastRowErrors  []RowError `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	TouchedAt      time.Time  `json:"-"`
}
