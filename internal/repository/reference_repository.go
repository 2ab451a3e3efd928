package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/announcement-portal-api/internal/models"
)

// ReferenceRepository loads the selectable announcement types and categories.
type ReferenceRepository struct {
	db *sqlx.DB
}

// NewReferenceRepository creates the repository.
func NewReferenceRepository(db *sqlx.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// ListTypes returns all announcement type entries ordered by display name.
func (r *ReferenceRepository) ListTypes(ctx context.Context) ([]models.ReferenceEntry, error) {
	var entries []models.ReferenceEntry
	query := "SELECT key, display_name FROM announcement_types ORDER BY display_name"
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list announcement types: %w", err)
	}
	return entries, nil
}

// ListCategories returns all category entries ordered by display name.
func (r *ReferenceRepository) ListCategories(ctx context.Context) ([]models.ReferenceEntry, error) {
	var entries []models.ReferenceEntry
	query := "SELECT key, display_name FROM categories ORDER BY display_name"
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return entries, nil
}
