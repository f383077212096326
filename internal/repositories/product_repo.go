package repositories

import (
	"context"
	"fmt"

	"perkakas/internal/filters"
	"perkakas/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductCollection is the collection (or table) holding product records.
const ProductCollection = "product"

// ProductRepository defines the interface for product data access.
// Lookups that match nothing return models.ErrNotFound; store failures wrap
// models.ErrStoreUnavailable.
type ProductRepository interface {
	Insert(ctx context.Context, input models.ProductInput) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error)
	FindByTitle(ctx context.Context, title string) (*models.Document, error)
	FindMany(ctx context.Context, f filters.Filter, limit int) ([]models.Document, error)
}

// StoreInspector reports on the health of the backing store.
type StoreInspector interface {
	Ping(ctx context.Context) error
	DatabaseName() string
	CollectionNames(ctx context.Context) ([]string, error)
}

// checkLimit rejects limits outside the search bound. Mongo would read a
// zero limit as "no limit", so the bound is enforced before any store call.
func checkLimit(limit int) error {
	if limit < filters.MinLimit || limit > filters.MaxLimit {
		return fmt.Errorf("%w: %d outside [%d, %d]", models.ErrInvalidLimit, limit, filters.MinLimit, filters.MaxLimit)
	}
	return nil
}
