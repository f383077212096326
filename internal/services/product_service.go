package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"perkakas/internal/filters"
	"perkakas/internal/metrics"
	"perkakas/internal/models"
	"perkakas/internal/repositories"

	"go.uber.org/zap"
)

// EventPublisher announces catalog changes to other services.
type EventPublisher interface {
	PublishProductCreated(product models.Product) error
	PublishCatalogSeeded(inserted int) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo         repositories.ProductRepository
	publisher    EventPublisher
	logger       *zap.Logger
	storeTimeout time.Duration
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are sent. A zero storeTimeout leaves store calls bound
// only by the caller's context.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, logger *zap.Logger, storeTimeout time.Duration) *ProductService {
	return &ProductService{
		repo:         repo,
		publisher:    publisher,
		logger:       logger,
		storeTimeout: storeTimeout,
	}
}

func (s *ProductService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

func (s *ProductService) observeStoreError(op string, err error) {
	if errors.Is(err, models.ErrStoreUnavailable) {
		metrics.StoreErrorsTotal.WithLabelValues(op).Inc()
	}
}

// SearchProducts returns the products matching req. A req.Limit outside
// [filters.MinLimit, filters.MaxLimit] fails with models.ErrInvalidLimit.
func (s *ProductService) SearchProducts(ctx context.Context, req filters.Request) ([]models.Product, error) {
	q := filters.Build(req)

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	docs, err := s.repo.FindMany(ctx, q.Filter, q.Limit)
	if err != nil {
		s.observeStoreError("find_many", err)
		return nil, fmt.Errorf("search products: %w", err)
	}
	products, err := ToProducts(docs)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	metrics.SearchResults.Observe(float64(len(products)))
	return products, nil
}

// CreateProduct stores a new product and returns its id in textual form.
func (s *ProductService) CreateProduct(ctx context.Context, input models.ProductInput) (string, error) {
	input = input.Normalize()

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	id, err := s.repo.Insert(ctx, input)
	if err != nil {
		s.observeStoreError("insert", err)
		return "", fmt.Errorf("create product: %w", err)
	}
	metrics.ProductsCreatedTotal.Inc()

	doc := input.ToDocument()
	doc.ID = &id
	if product, err := ToProduct(doc); err == nil {
		s.publishCreated(product)
	}
	return models.EncodeID(id), nil
}

// GetProductByID retrieves a single product by its textual id.
func (s *ProductService) GetProductByID(ctx context.Context, rawID string) (models.Product, error) {
	id, err := models.DecodeID(rawID)
	if err != nil {
		return models.Product{}, err
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.observeStoreError("find_one", err)
		return models.Product{}, err
	}
	return ToProduct(*doc)
}

// Seed inserts every catalog entry whose title is not stored yet, in order,
// and returns how many were inserted. It is not atomic: on a store failure
// the entries inserted so far stay and their count is returned with the error.
// Concurrent seeds can both see a title as absent and insert it twice.
func (s *ProductService) Seed(ctx context.Context, catalog []models.ProductInput) (int, error) {
	inserted := 0
	for _, candidate := range catalog {
		ok, err := s.seedOne(ctx, candidate)
		if err != nil {
			s.observeStoreError("seed", err)
			return inserted, fmt.Errorf("seed %q: %w", candidate.Title, err)
		}
		if ok {
			inserted++
		}
	}

	metrics.SeedInsertedTotal.Add(float64(inserted))
	s.logger.Info("catalog seeded", zap.Int("inserted", inserted), zap.Int("candidates", len(catalog)))
	if inserted > 0 && s.publisher != nil {
		if err := s.publisher.PublishCatalogSeeded(inserted); err != nil {
			s.logger.Warn("failed to publish catalog seeded event", zap.Error(err))
		}
	}
	return inserted, nil
}

func (s *ProductService) seedOne(ctx context.Context, candidate models.ProductInput) (bool, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	_, err := s.repo.FindByTitle(ctx, candidate.Title)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, models.ErrNotFound):
		return false, err
	}

	if _, err := s.repo.Insert(ctx, candidate.Normalize()); err != nil {
		return false, err
	}
	return true, nil
}

func (s *ProductService) publishCreated(product models.Product) {
	if s.publisher == nil {
		s.logger.Debug("event publisher not configured, skipping product created event")
		return
	}
	if err := s.publisher.PublishProductCreated(product); err != nil {
		s.logger.Warn("failed to publish product created event", zap.String("id", product.ID), zap.Error(err))
	}
}
