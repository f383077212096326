package repositories

import (
	"context"
	"errors"

	"perkakas/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrCacheMiss is returned by a DocumentCache that holds no entry for an id.
var ErrCacheMiss = errors.New("cache miss")

// DocumentCache stores product documents by id.
type DocumentCache interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.Document, error)
	Set(ctx context.Context, doc models.Document) error
}

// CachedProductRepository puts a read-through cache in front of FindByID.
// Products are never updated in place, so entries only expire by TTL.
type CachedProductRepository struct {
	ProductRepository
	cache  DocumentCache
	logger *zap.Logger
}

// NewCachedProductRepository wraps next with cache.
func NewCachedProductRepository(next ProductRepository, cache DocumentCache, logger *zap.Logger) *CachedProductRepository {
	return &CachedProductRepository{
		ProductRepository: next,
		cache:             cache,
		logger:            logger,
	}
}

// FindByID serves from the cache when possible. Cache failures are logged and
// fall through to the store.
func (r *CachedProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	doc, err := r.cache.Get(ctx, id)
	switch {
	case err == nil:
		return doc, nil
	case !errors.Is(err, ErrCacheMiss):
		r.logger.Warn("product cache read failed", zap.String("id", id.Hex()), zap.Error(err))
	}

	doc, err = r.ProductRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, *doc); err != nil {
		r.logger.Warn("product cache write failed", zap.String("id", id.Hex()), zap.Error(err))
	}
	return doc, nil
}
