package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"perkakas/internal/filters"
	"perkakas/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// productRow is the relational shape of a product. Ids are ObjectID hex
// strings so they are interchangeable with the document backend.
type productRow struct {
	ID          string  `gorm:"primaryKey;type:varchar(24)"`
	Title       *string `gorm:"index"`
	Description *string
	Price       *float64
	Category    *string `gorm:"index"`
	InStock     *bool
	ImageURL    *string
	Brand       *string
	CreatedAt   time.Time
}

func (productRow) TableName() string { return ProductCollection }

func (row productRow) toDocument() (models.Document, error) {
	id, err := primitive.ObjectIDFromHex(row.ID)
	if err != nil {
		return models.Document{}, fmt.Errorf("product row %q: %w: %w", row.ID, models.ErrCorruptRecord, err)
	}
	return models.Document{
		ID:          &id,
		Title:       row.Title,
		Description: row.Description,
		Price:       row.Price,
		Category:    row.Category,
		InStock:     row.InStock,
		ImageURL:    row.ImageURL,
		Brand:       row.Brand,
	}, nil
}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// AutoMigrate creates the product table and its title/category indexes.
func (r *GORMProductRepository) AutoMigrate() error {
	if err := r.db.AutoMigrate(&productRow{}); err != nil {
		return fmt.Errorf("migrate product table: %w: %w", models.ErrStoreUnavailable, err)
	}
	return nil
}

// Insert stores a new product with a freshly minted id.
func (r *GORMProductRepository) Insert(ctx context.Context, input models.ProductInput) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	doc := input.ToDocument()
	row := productRow{
		ID:          id.Hex(),
		Title:       doc.Title,
		Description: doc.Description,
		Price:       doc.Price,
		Category:    doc.Category,
		InStock:     doc.InStock,
		ImageURL:    doc.ImageURL,
		Brand:       doc.Brand,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create product: %w: %w", models.ErrStoreUnavailable, err)
	}
	return id, nil
}

// FindByID retrieves a single product by its id.
func (r *GORMProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	return r.first(ctx, "id "+id.Hex(), "id = ?", id.Hex())
}

// FindByTitle retrieves a product whose title is exactly title.
func (r *GORMProductRepository) FindByTitle(ctx context.Context, title string) (*models.Document, error) {
	return r.first(ctx, fmt.Sprintf("title %q", title), "title = ?", title)
}

func (r *GORMProductRepository) first(ctx context.Context, what string, query string, args ...any) (*models.Document, error) {
	var row productRow
	err := r.db.WithContext(ctx).Where(query, args...).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product with %s: %w", what, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product with %s: %w: %w", what, models.ErrStoreUnavailable, err)
	}
	doc, err := row.toDocument()
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindMany returns at most limit products matching f, ordered by id. Ids are
// time-prefixed, so this approximates insertion order.
func (r *GORMProductRepository) FindMany(ctx context.Context, f filters.Filter, limit int) ([]models.Document, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	where, args, err := SQLFilter(f)
	if err != nil {
		return nil, err
	}

	var rows []productRow
	err = r.db.WithContext(ctx).
		Where(where, args...).
		Order("id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w: %w", models.ErrStoreUnavailable, err)
	}

	docs := make([]models.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := row.toDocument()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Ping checks the underlying connection pool.
func (r *GORMProductRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("ping database: %w: %w", models.ErrStoreUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w: %w", models.ErrStoreUnavailable, err)
	}
	return nil
}

// DatabaseName returns the current database name as reported by the migrator.
func (r *GORMProductRepository) DatabaseName() string {
	return r.db.Migrator().CurrentDatabase()
}

// CollectionNames lists the tables in the current database.
func (r *GORMProductRepository) CollectionNames(ctx context.Context) ([]string, error) {
	tables, err := r.db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return nil, fmt.Errorf("list tables: %w: %w", models.ErrStoreUnavailable, err)
	}
	return tables, nil
}

// SQLFilter lowers a filter expression into a WHERE clause with positional
// arguments. Text conditions compare lower-cased values with LIKE, escaping
// the wildcard characters of the user's text.
func SQLFilter(f filters.Filter) (string, []any, error) {
	if err := filters.Validate(f); err != nil {
		return "", nil, err
	}
	where, args := lowerSQL(f)
	return where, args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func lowerSQL(f filters.Filter) (string, []any) {
	switch f := f.(type) {
	case filters.TextContains:
		pattern := "%" + likeEscaper.Replace(strings.ToLower(f.Text)) + "%"
		return fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, f.Field), []any{pattern}
	case filters.Equals:
		return fmt.Sprintf("%s = ?", f.Field), []any{f.Value}
	case filters.And:
		return joinSQL(f, " AND ", "1 = 1")
	case filters.Or:
		return joinSQL(f, " OR ", "1 = 0")
	}
	return "1 = 1", nil
}

func joinSQL(fs []filters.Filter, sep, empty string) (string, []any) {
	if len(fs) == 0 {
		return empty, nil
	}
	parts := make([]string, 0, len(fs))
	var args []any
	for _, f := range fs {
		where, a := lowerSQL(f)
		parts = append(parts, "("+where+")")
		args = append(args, a...)
	}
	return strings.Join(parts, sep), args
}
