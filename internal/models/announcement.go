package models

import "time"

// AnnouncementStatus captures the lifecycle derived from the publish schedule.
type AnnouncementStatus string

const (
	AnnouncementStatusPublished AnnouncementStatus = "PUBLISHED"
	AnnouncementStatusScheduled AnnouncementStatus = "TO_BE_PUBLISHED"
)

// Announcement represents a persisted announcement row. AnnouncementType holds
// the comma-joined canonical type display names; category membership lives in
// the announcement_categories join table and is loaded into CategoryKeys.
type Announcement struct {
	ID                 string             `db:"id" json:"id"`
	Title              string             `db:"title" json:"title"`
	Description        string             `db:"description" json:"description"`
	AnnouncementType   string             `db:"announcement_type" json:"announcement_type"`
	AnnouncementStatus AnnouncementStatus `db:"announcement_status" json:"announcement_status"`
	StartAnnouncement  time.Time          `db:"start_announcement" json:"start_announcement"`
	EndAnnouncement    time.Time          `db:"end_announcement" json:"end_announcement"`
	PublishedBy        string             `db:"published_by" json:"published_by"`
	PublishedAt        time.Time          `db:"published_at" json:"published_at"`
	ModifiedBy         *string            `db:"modified_by" json:"modified_by,omitempty"`
	ModifiedAt         *time.Time         `db:"modified_at" json:"modified_at,omitempty"`
	CategoryKeys       []string           `db:"-" json:"category_keys"`
	CreatedAt          time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at" json:"updated_at"`
}

// HasType reports whether the comma-joined type column contains the given
// display name.
func (a *Announcement) HasType(displayName string) bool {
	for _, token := range splitTrimmed(a.AnnouncementType) {
		if token == displayName {
			return true
		}
	}
	return false
}

// AnnouncementFilter narrows announcement listings.
type AnnouncementFilter struct {
	Status   *AnnouncementStatus
	ActiveOn *time.Time
	Search   string
	Page     int
	PageSize int
}

// AnnouncementExistsFilter supports existence checks without loading rows.
// TypeName matches against the comma-joined type column; ActiveAfter keeps
// only records whose window has not yet closed; ExcludeID removes the record
// a session is itself editing.
type AnnouncementExistsFilter struct {
	TypeName    string
	ActiveAfter time.Time
	ExcludeID   string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
