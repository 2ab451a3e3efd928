package service

import (
	"html"
	"strings"
	"time"

	"github.com/noah-isme/announcement-portal-api/internal/models"
	"github.com/noah-isme/announcement-portal-api/pkg/config"
)

// Description variants and their default character ceilings. The general
// wizard rich-text field allows 250 characters; the single-field sidebar and
// banner variants allow 500 and 100.
const (
	VariantWizard  = "wizard"
	VariantSidebar = "sidebar"
	VariantBanner  = "banner"
)

// FieldValidator holds the per-variant description ceilings and the warning
// cooldown. All validation methods are pure and never return an error; they
// only set per-field state and report a boolean.
type FieldValidator struct {
	limits   map[string]int
	cooldown time.Duration
}

// NewFieldValidator builds a validator from wizard configuration, applying
// defaults for unset values.
func NewFieldValidator(cfg config.WizardConfig) *FieldValidator {
	limits := map[string]int{
		VariantWizard:  cfg.DescriptionLimit,
		VariantSidebar: cfg.SidebarLimit,
		VariantBanner:  cfg.BannerLimit,
	}
	if limits[VariantWizard] <= 0 {
		limits[VariantWizard] = 250
	}
	if limits[VariantSidebar] <= 0 {
		limits[VariantSidebar] = 500
	}
	if limits[VariantBanner] <= 0 {
		limits[VariantBanner] = 100
	}
	cooldown := cfg.LengthWarnCooldown
	if cooldown <= 0 {
		cooldown = 3 * time.Second
	}
	return &FieldValidator{limits: limits, cooldown: cooldown}
}

// LimitFor returns the description ceiling for a variant, defaulting to the
// wizard limit for unknown variants.
func (v *FieldValidator) LimitFor(variant string) int {
	if limit, ok := v.limits[variant]; ok {
		return limit
	}
	return v.limits[VariantWizard]
}

// StripTags projects HTML onto plain text: tags removed, entities unescaped,
// whitespace trimmed.
func StripTags(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	inTag := false
	for _, r := range raw {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(html.UnescapeString(b.String()))
}

// ValidateField applies the rule for a single field.
func (v *FieldValidator) ValidateField(draft *models.AnnouncementDraft, kind models.FieldKind) models.FieldState {
	switch kind {
	case models.FieldTitle:
		if strings.TrimSpace(draft.Title) == "" {
			return models.FieldState{Severity: models.SeverityError, Message: "title is required"}
		}
	case models.FieldTypes:
		if len(draft.TypeKeys) == 0 {
			return models.FieldState{Severity: models.SeverityError, Message: "select at least one announcement type"}
		}
	case models.FieldCategories:
		// Optional by business rule; normalized to an empty set, never nil.
	case models.FieldDescription:
		if StripTags(draft.DescriptionHTML) == "" {
			return models.FieldState{Severity: models.SeverityError, Message: "description is required"}
		}
	}
	return models.FieldState{Severity: models.SeverityNone}
}

// ValidateDraft recomputes every field's state and returns the step-level
// validity, the logical AND of the active field validities.
func (v *FieldValidator) ValidateDraft(draft *models.AnnouncementDraft) bool {
	if draft.TypeKeys == nil {
		draft.TypeKeys = []string{}
	}
	if draft.CategoryKeys == nil {
		draft.CategoryKeys = []string{}
	}
	valid := true
	for _, kind := range []models.FieldKind{models.FieldTitle, models.FieldTypes, models.FieldCategories, models.FieldDescription} {
		state := v.ValidateField(draft, kind)
		draft.Fields[kind] = state
		if state.Severity == models.SeverityError {
			valid = false
		}
	}
	return valid
}

// ApplyDescription writes the description onto the draft unless its plain-text
// projection exceeds the variant's ceiling. Over-limit input is dropped (the
// prior valid value is kept) and a warning is raised at most once per cooldown
// window to avoid repeat spam during a paste-and-retype burst.
func (v *FieldValidator) ApplyDescription(session *models.WizardSession, raw, variant string, now time.Time) (clipped, warned bool) {
	limit := v.LimitFor(variant)
	plain := StripTags(raw)
	if len([]rune(plain)) > limit {
		if session.LastLengthWarn.IsZero() || now.Sub(session.LastLengthWarn) >= v.cooldown {
			session.LastLengthWarn = now
			return true, true
		}
		return true, false
	}
	session.Draft.DescriptionHTML = raw
	return false, false
}
