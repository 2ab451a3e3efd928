package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/announcement-portal-api/internal/models"
)

const announcementColumns = `id, title, description, announcement_type, announcement_status,
start_announcement, end_announcement, published_by, published_at, modified_by, modified_at, created_at, updated_at`

// AnnouncementRepository provides persistence for announcements and their
// category memberships.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository creates the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// List returns announcements matching the filter with a total count.
func (r *AnnouncementRepository) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("announcement_status = $%d", len(args)))
	}
	if filter.ActiveOn != nil {
		args = append(args, *filter.ActiveOn)
		where = append(where, fmt.Sprintf("start_announcement <= $%d", len(args)))
		args = append(args, *filter.ActiveOn)
		where = append(where, fmt.Sprintf("end_announcement > $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM announcements WHERE %s
ORDER BY start_announcement DESC
LIMIT %d OFFSET %d`, announcementColumns, whereClause, size, offset)
	var announcements []models.Announcement
	if err := r.db.SelectContext(ctx, &announcements, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list announcements: %w", err)
	}
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM announcements WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count announcements: %w", err)
	}
	return announcements, total, nil
}

// GetByID returns an announcement with its category keys loaded.
func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	query := fmt.Sprintf("SELECT %s FROM announcements WHERE id = $1", announcementColumns)
	var announcement models.Announcement
	if err := r.db.GetContext(ctx, &announcement, query, id); err != nil {
		return nil, err
	}
	keys, err := r.categoryKeys(ctx, id)
	if err != nil {
		return nil, err
	}
	announcement.CategoryKeys = keys
	return &announcement, nil
}

// Create inserts a single announcement with its category rows in one
// transaction.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create announcement: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck
	if err := insertAnnouncement(ctx, tx, announcement); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateBatch inserts all announcements atomically; any failure rolls the
// whole batch back.
func (r *AnnouncementRepository) CreateBatch(ctx context.Context, announcements []*models.Announcement) error {
	if len(announcements) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch create: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck
	for _, announcement := range announcements {
		if err := insertAnnouncement(ctx, tx, announcement); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Update rewrites an announcement and replaces its category rows.
func (r *AnnouncementRepository) Update(ctx context.Context, announcement *models.Announcement) error {
	announcement.UpdatedAt = time.Now().UTC()
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update announcement: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck
	query := `UPDATE announcements SET title = :title, description = :description, announcement_type = :announcement_type,
announcement_status = :announcement_status, start_announcement = :start_announcement, end_announcement = :end_announcement,
modified_by = :modified_by, modified_at = :modified_at, updated_at = :updated_at
WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, announcement); err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM announcement_categories WHERE announcement_id = $1", announcement.ID); err != nil {
		return fmt.Errorf("clear announcement categories: %w", err)
	}
	if err := insertCategories(ctx, tx, announcement.ID, announcement.CategoryKeys); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes an announcement; category rows cascade.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return nil
}

// Exists reports whether any announcement matches the filter. Used for the
// duplicate planned-scheduled check without loading rows.
func (r *AnnouncementRepository) Exists(ctx context.Context, filter models.AnnouncementExistsFilter) (bool, error) {
	where := []string{}
	args := []interface{}{}
	if filter.TypeName != "" {
		args = append(args, filter.TypeName)
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM unnest(string_to_array(announcement_type, ',')) AS t WHERE btrim(t) = $%d)", len(args)))
	}
	if !filter.ActiveAfter.IsZero() {
		args = append(args, filter.ActiveAfter)
		where = append(where, fmt.Sprintf("end_announcement > $%d", len(args)))
	}
	if filter.ExcludeID != "" {
		args = append(args, filter.ExcludeID)
		where = append(where, fmt.Sprintf("id <> $%d", len(args)))
	}
	if len(where) == 0 {
		where = append(where, "1=1")
	}
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM announcements WHERE %s)", strings.Join(where, " AND "))
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		return false, fmt.Errorf("announcement exists: %w", err)
	}
	return exists, nil
}

func (r *AnnouncementRepository) categoryKeys(ctx context.Context, id string) ([]string, error) {
	var keys []string
	query := "SELECT category_key FROM announcement_categories WHERE announcement_id = $1 ORDER BY category_key"
	if err := r.db.SelectContext(ctx, &keys, query, id); err != nil {
		return nil, fmt.Errorf("load announcement categories: %w", err)
	}
	return keys, nil
}

func insertAnnouncement(ctx context.Context, tx *sqlx.Tx, announcement *models.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = now
	}
	announcement.UpdatedAt = now
	query := `INSERT INTO announcements (id, title, description, announcement_type, announcement_status,
start_announcement, end_announcement, published_by, published_at, modified_by, modified_at, created_at, updated_at)
VALUES (:id, :title, :description, :announcement_type, :announcement_status,
:start_announcement, :end_announcement, :published_by, :published_at, :modified_by, :modified_at, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, announcement); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return insertCategories(ctx, tx, announcement.ID, announcement.CategoryKeys)
}

func insertCategories(ctx context.Context, tx *sqlx.Tx, announcementID string, keys []string) error {
	for _, key := range keys {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO announcement_categories (announcement_id, category_key) VALUES ($1, $2)",
			announcementID, key); err != nil {
			return fmt.Errorf("create announcement category: %w", err)
		}
	}
	return nil
}
