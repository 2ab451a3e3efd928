package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/announcement-portal-api/internal/models"
	appErrors "github.com/noah-isme/announcement-portal-api/pkg/errors"
)

const (
	cacheKeyTypes      = "refdata:announcement_types"
	cacheKeyCategories = "refdata:categories"
)

type referenceStore interface {
	ListTypes(ctx context.Context) ([]models.ReferenceEntry, error)
	ListCategories(ctx context.Context) ([]models.ReferenceEntry, error)
}

type referenceCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// RefDataService loads the reference lookup sets. Each wizard session loads
// them once at start and holds a read-only snapshot for its lifetime; the
// Redis layer only spares the database between sessions.
type RefDataService struct {
	repo   referenceStore
	cache  referenceCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewRefDataService constructs the service.
func NewRefDataService(repo referenceStore, cache referenceCache, ttl time.Duration, logger *zap.Logger) *RefDataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RefDataService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// Load returns both lookup sets as an immutable session snapshot.
func (s *RefDataService) Load(ctx context.Context) (*models.ReferenceData, error) {
	types, _, err := s.Types(ctx)
	if err != nil {
		return nil, err
	}
	categories, _, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return &models.ReferenceData{
		Types:      models.NewReferenceSet(types),
		Categories: models.NewReferenceSet(categories),
	}, nil
}

// Types returns the announcement type entries and whether they came from
// cache.
func (s *RefDataService) Types(ctx context.Context) ([]models.ReferenceEntry, bool, error) {
	return s.load(ctx, cacheKeyTypes, s.repo.ListTypes)
}

// Categories returns the category entries and whether they came from cache.
func (s *RefDataService) Categories(ctx context.Context) ([]models.ReferenceEntry, bool, error) {
	return s.load(ctx, cacheKeyCategories, s.repo.ListCategories)
}

func (s *RefDataService) load(ctx context.Context, key string, fetch func(context.Context) ([]models.ReferenceEntry, error)) ([]models.ReferenceEntry, bool, error) {
	if s.cache != nil {
		var cached []models.ReferenceEntry
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return cached, true, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("reference cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	entries, err := fetch(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reference data")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, entries, s.ttl); err != nil {
			s.logger.Warn("reference cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return entries, false, nil
}
