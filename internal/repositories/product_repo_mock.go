package repositories

import (
	"context"
	"fmt"
	"sync"

	"perkakas/internal/filters"
	"perkakas/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// Results come back in insertion order.
type MockProductRepository struct {
	products map[primitive.ObjectID]models.Document
	order    []primitive.ObjectID
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[primitive.ObjectID]models.Document),
	}
}

// Insert adds a new product under a fresh id.
func (r *MockProductRepository) Insert(_ context.Context, input models.ProductInput) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := primitive.NewObjectID()
	doc := input.ToDocument()
	doc.ID = &id
	r.products[id] = doc
	r.order = append(r.order, id)
	return id, nil
}

// Put stores doc as is, keyed by its id. It lets tests plant records the
// regular insert path would never produce.
func (r *MockProductRepository) Put(doc models.Document) primitive.ObjectID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := primitive.NewObjectID()
	if doc.ID != nil {
		id = *doc.ID
	}
	if _, exists := r.products[id]; !exists {
		r.order = append(r.order, id)
	}
	r.products[id] = doc
	return id
}

// FindByID returns a product by its id.
func (r *MockProductRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with id %s: %w", id.Hex(), models.ErrNotFound)
	}
	return &doc, nil
}

// FindByTitle returns the first inserted product whose title is exactly title.
func (r *MockProductRepository) FindByTitle(_ context.Context, title string) (*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		doc := r.products[id]
		if doc.Title != nil && *doc.Title == title {
			return &doc, nil
		}
	}
	return nil, fmt.Errorf("product with title %q: %w", title, models.ErrNotFound)
}

// FindMany returns at most limit products matching f.
func (r *MockProductRepository) FindMany(_ context.Context, f filters.Filter, limit int) ([]models.Document, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	if err := filters.Validate(f); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Document, 0, min(limit, len(r.order)))
	for _, id := range r.order {
		if len(productList) >= limit {
			break
		}
		doc := r.products[id]
		if filters.Matches(f, doc) {
			productList = append(productList, doc)
		}
	}
	return productList, nil
}

// Len returns the number of stored products.
func (r *MockProductRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Ping always succeeds.
func (r *MockProductRepository) Ping(context.Context) error { return nil }

// DatabaseName identifies the in-memory store.
func (r *MockProductRepository) DatabaseName() string { return "memory" }

// CollectionNames reports the single product collection.
func (r *MockProductRepository) CollectionNames(context.Context) ([]string, error) {
	return []string{ProductCollection}, nil
}
