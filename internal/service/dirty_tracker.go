package service

import (
	"strings"

	"github.com/noah-isme/announcement-portal-api/internal/models"
)

// IsDirty reports whether the draft has drifted from its baseline. In CREATE
// mode the baseline is the empty draft; in EDIT mode it is the snapshot taken
// when the stored record was loaded. Multi-select fields compare by sorted
// values, never by reference. The result drives the reset affordance only.
func IsDirty(draft, baseline *models.AnnouncementDraft, mode models.WizardMode) bool {
	if draft == nil {
		return false
	}
	if mode == models.ModeCreate || baseline == nil {
		baseline = models.NewAnnouncementDraft()
	}
	if strings.TrimSpace(draft.Title) != strings.TrimSpace(baseline.Title) {
		return true
	}
	if !models.SortedSetEqual(draft.TypeKeys, baseline.TypeKeys) {
		return true
	}
	if !models.SortedSetEqual(draft.CategoryKeys, baseline.CategoryKeys) {
		return true
	}
	if draft.DescriptionHTML != baseline.DescriptionHTML {
		return true
	}
	if draft.PublishChoice != baseline.PublishChoice {
		return true
	}
	if !draft.StartDate.Equal(baseline.StartDate) {
		return true
	}
	if !draft.EndDate.Equal(baseline.EndDate) {
		return true
	}
	return false
}
