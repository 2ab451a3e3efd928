package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/announcement-portal-api/internal/models"
	appErrors "github.com/noah-isme/announcement-portal-api/pkg/errors"
)

type referenceStoreStub struct {
	types      []models.ReferenceEntry
	categories []models.ReferenceEntry
	err        error
	typeCalls  int
}

func (s *referenceStoreStub) ListTypes(ctx context.Context) ([]models.ReferenceEntry, error) {
	s.typeCalls++
	return s.types, s.err
}

func (s *referenceStoreStub) ListCategories(ctx context.Context) ([]models.ReferenceEntry, error) {
	return s.categories, s.err
}

type referenceCacheStub struct {
	values map[string][]models.ReferenceEntry
	getErr error
	sets   int
}

func (c *referenceCacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	if c.getErr != nil {
		return c.getErr
	}
	cached, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*dest.(*[]models.ReferenceEntry) = cached
	return nil
}

func (c *referenceCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.values == nil {
		c.values = make(map[string][]models.ReferenceEntry)
	}
	c.values[key] = value.([]models.ReferenceEntry)
	c.sets++
	return nil
}

func TestRefDataServiceTypesFillsCache(t *testing.T) {
	store := &referenceStoreStub{types: []models.ReferenceEntry{{Key: "general", DisplayName: "General"}}}
	cache := &referenceCacheStub{}
	svc := NewRefDataService(store, cache, time.Minute, nil)

	entries, cached, err := svc.Types(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, cache.sets)

	entries, cached, err = svc.Types(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, store.typeCalls)
}

func TestRefDataServiceSurvivesCacheFailure(t *testing.T) {
	store := &referenceStoreStub{types: []models.ReferenceEntry{{Key: "general", DisplayName: "General"}}}
	cache := &referenceCacheStub{getErr: assert.AnError}
	svc := NewRefDataService(store, cache, time.Minute, nil)

	entries, cached, err := svc.Types(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Len(t, entries, 1)
}

func TestRefDataServiceWorksWithoutCache(t *testing.T) {
	store := &referenceStoreStub{
		types:      []models.ReferenceEntry{{Key: "general", DisplayName: "General"}},
		categories: []models.ReferenceEntry{{Key: "students", DisplayName: "Students"}},
	}
	svc := NewRefDataService(store, nil, 0, nil)

	data, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, data.Types.Len())
	assert.True(t, data.Categories.HasKey("students"))

	entry, ok := data.Types.Canonical("GENERAL")
	require.True(t, ok)
	assert.Equal(t, "General", entry.DisplayName)
}

func TestRefDataServiceWrapsStoreError(t *testing.T) {
	store := &referenceStoreStub{err: assert.AnError}
	svc := NewRefDataService(store, nil, 0, nil)

	_, _, err := svc.Types(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
