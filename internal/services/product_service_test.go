package services_test

import (
	"context"
	"fmt"
	"testing"

	"perkakas/internal/filters"
	"perkakas/internal/models"
	"perkakas/internal/repositories"
	"perkakas/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Insert(ctx context.Context, input models.ProductInput) (primitive.ObjectID, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockProductRepository) FindByTitle(ctx context.Context, title string) (*models.Document, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockProductRepository) FindMany(ctx context.Context, f filters.Filter, limit int) ([]models.Document, error) {
	args := m.Called(ctx, f, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Document), args.Error(1)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishProductCreated(product models.Product) error {
	return m.Called(product).Error(0)
}

func (m *MockPublisher) PublishCatalogSeeded(inserted int) error {
	return m.Called(inserted).Error(0)
}

func strPtr(s string) *string { return &s }

func newService(repo repositories.ProductRepository, pub services.EventPublisher) *services.ProductService {
	return services.NewProductService(repo, pub, zap.NewNop(), 0)
}

func TestProductService_SearchProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo, nil)

	id := primitive.NewObjectID()
	price := 129.99
	docs := []models.Document{
		{ID: &id, Title: strPtr("Cordless Drill"), Price: &price, Category: strPtr("power-tools")},
	}
	expectedFilter := filters.And{
		filters.Or{
			filters.TextContains{Field: filters.FieldTitle, Text: "drill"},
			filters.TextContains{Field: filters.FieldDescription, Text: "drill"},
			filters.TextContains{Field: filters.FieldBrand, Text: "drill"},
		},
		filters.Equals{Field: filters.FieldCategory, Value: "power-tools"},
	}
	mockRepo.On("FindMany", mock.Anything, expectedFilter, 10).Return(docs, nil).Once()

	products, err := service.SearchProducts(context.Background(), filters.Request{Query: "drill", Category: "power-tools", Limit: 10})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, id.Hex(), products[0].ID)
	assert.Equal(t, 129.99, products[0].Price)
	assert.True(t, products[0].InStock)
	assert.Nil(t, products[0].Brand)
	mockRepo.AssertExpectations(t)
}

func TestProductService_SearchProducts_Errors(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo, nil)

	// Store failure
	mockRepo.On("FindMany", mock.Anything, filters.MatchAll{}, 50).
		Return(nil, fmt.Errorf("find products: %w", models.ErrStoreUnavailable)).Once()
	_, err := service.SearchProducts(context.Background(), filters.Request{Limit: 50})
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)

	// Record without an id
	mockRepo.On("FindMany", mock.Anything, filters.MatchAll{}, 5).
		Return([]models.Document{{Title: strPtr("orphan")}}, nil).Once()
	_, err = service.SearchProducts(context.Background(), filters.Request{Limit: 5})
	assert.ErrorIs(t, err, models.ErrCorruptRecord)
	mockRepo.AssertExpectations(t)
}

func TestProductService_SearchProducts_LimitOutOfRange(t *testing.T) {
	service := newService(repositories.NewMockProductRepository(), nil)

	for _, limit := range []int{0, 101} {
		_, err := service.SearchProducts(context.Background(), filters.Request{Limit: limit})
		assert.ErrorIs(t, err, models.ErrInvalidLimit, "limit %d", limit)
	}
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPub := new(MockPublisher)
	service := newService(mockRepo, mockPub)

	price := 19.49
	input := models.ProductInput{Title: "Claw Hammer", Price: &price}
	id := primitive.NewObjectID()

	stocked := mock.MatchedBy(func(in models.ProductInput) bool {
		return in.Title == "Claw Hammer" && in.InStock != nil && *in.InStock
	})
	mockRepo.On("Insert", mock.Anything, stocked).Return(id, nil).Once()
	mockPub.On("PublishProductCreated", mock.MatchedBy(func(p models.Product) bool {
		return p.ID == id.Hex() && p.InStock && p.Price == 19.49
	})).Return(nil).Once()

	got, err := service.CreateProduct(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, id.Hex(), got)

	// Creation failure (e.g., database error)
	mockRepo.On("Insert", mock.Anything, stocked).
		Return(primitive.NilObjectID, fmt.Errorf("database error: %w", models.ErrStoreUnavailable)).Once()
	_, err = service.CreateProduct(context.Background(), input)
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "database error")

	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestProductService_CreateProduct_PublisherFailureIsNotFatal(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPub := new(MockPublisher)
	service := newService(mockRepo, mockPub)

	price := 1.0
	id := primitive.NewObjectID()
	mockRepo.On("Insert", mock.Anything, mock.Anything).Return(id, nil).Once()
	mockPub.On("PublishProductCreated", mock.Anything).Return(fmt.Errorf("broker down")).Once()

	got, err := service.CreateProduct(context.Background(), models.ProductInput{Title: "Nail", Price: &price})
	require.NoError(t, err)
	assert.Equal(t, id.Hex(), got)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo, nil)

	id := primitive.NewObjectID()
	mockRepo.On("FindByID", mock.Anything, id).Return(&models.Document{ID: &id, Title: strPtr("Safety Glasses")}, nil).Once()

	product, err := service.GetProductByID(context.Background(), id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id.Hex(), product.ID)
	assert.Equal(t, 0.0, product.Price)
	assert.True(t, product.InStock)

	// Product not found
	missing := primitive.NewObjectID()
	mockRepo.On("FindByID", mock.Anything, missing).Return(nil, fmt.Errorf("product: %w", models.ErrNotFound)).Once()
	_, err = service.GetProductByID(context.Background(), missing.Hex())
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Malformed id never reaches the repository
	_, err = service.GetProductByID(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, models.ErrInvalidIdentifier)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Seed_Idempotent(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	mockPub := new(MockPublisher)
	mockPub.On("PublishCatalogSeeded", 8).Return(nil).Once()
	service := newService(repo, mockPub)

	inserted, err := service.Seed(context.Background(), services.DefaultCatalog())
	require.NoError(t, err)
	assert.Equal(t, 8, inserted)
	assert.Equal(t, 8, repo.Len())

	inserted, err = service.Seed(context.Background(), services.DefaultCatalog())
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
	assert.Equal(t, 8, repo.Len())
	mockPub.AssertExpectations(t)
}

func TestProductService_Seed_SkipsExistingTitles(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := newService(repo, nil)

	catalog := services.DefaultCatalog()
	_, err := repo.Insert(context.Background(), catalog[2])
	require.NoError(t, err)

	inserted, err := service.Seed(context.Background(), catalog)
	require.NoError(t, err)
	assert.Equal(t, 7, inserted)
	assert.Equal(t, 8, repo.Len())
}

func TestProductService_Seed_StopsOnStoreFailure(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo, nil)

	catalog := services.DefaultCatalog()[:3]
	mockRepo.On("FindByTitle", mock.Anything, catalog[0].Title).Return(nil, fmt.Errorf("x: %w", models.ErrNotFound)).Once()
	mockRepo.On("Insert", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil).Once()
	mockRepo.On("FindByTitle", mock.Anything, catalog[1].Title).Return(nil, fmt.Errorf("x: %w", models.ErrStoreUnavailable)).Once()

	inserted, err := service.Seed(context.Background(), catalog)
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
	assert.Equal(t, 1, inserted)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "FindByTitle", mock.Anything, catalog[2].Title)
}
