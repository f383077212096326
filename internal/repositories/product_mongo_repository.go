package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"perkakas/internal/filters"
	"perkakas/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoProductRepository is a MongoDB implementation of ProductRepository.
type MongoProductRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

// NewMongoProductRepository creates a repository over the product collection of db.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{
		db:   db,
		coll: db.Collection(ProductCollection),
	}
}

// EnsureIndexes creates non-unique indexes on title and category.
func (r *MongoProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create product indexes: %w: %w", models.ErrStoreUnavailable, err)
	}
	return nil
}

// Insert stores a new product and returns the id assigned to it.
func (r *MongoProductRepository) Insert(ctx context.Context, input models.ProductInput) (primitive.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, input.ToDocument())
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert product: %w: %w", models.ErrStoreUnavailable, err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("insert product: %w: unexpected id type %T", models.ErrCorruptRecord, res.InsertedID)
	}
	return id, nil
}

// FindByID retrieves a single product by its id.
func (r *MongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}}, "id "+id.Hex())
}

// FindByTitle retrieves a product whose title is exactly title.
func (r *MongoProductRepository) FindByTitle(ctx context.Context, title string) (*models.Document, error) {
	return r.findOne(ctx, bson.D{{Key: "title", Value: title}}, fmt.Sprintf("title %q", title))
}

func (r *MongoProductRepository) findOne(ctx context.Context, filter bson.D, what string) (*models.Document, error) {
	var doc models.Document
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("product with %s: %w", what, models.ErrNotFound)
	}
	if err != nil {
		return nil, classifyMongoError(fmt.Sprintf("find product with %s", what), err)
	}
	return &doc, nil
}

// FindMany returns at most limit products matching f, in store order.
func (r *MongoProductRepository) FindMany(ctx context.Context, f filters.Filter, limit int) ([]models.Document, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	filter, err := MongoFilter(f)
	if err != nil {
		return nil, err
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("find products: %w: %w", models.ErrStoreUnavailable, err)
	}
	defer cur.Close(ctx)

	docs := make([]models.Document, 0, limit)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, classifyMongoError("read products", err)
	}
	// the server honours the limit, the slice guard covers misbehaving proxies
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// Ping checks that the primary is reachable.
func (r *MongoProductRepository) Ping(ctx context.Context) error {
	if err := r.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w: %w", models.ErrStoreUnavailable, err)
	}
	return nil
}

// DatabaseName returns the name of the backing database.
func (r *MongoProductRepository) DatabaseName() string {
	return r.db.Name()
}

// CollectionNames lists the collections in the backing database.
func (r *MongoProductRepository) CollectionNames(ctx context.Context) ([]string, error) {
	names, err := r.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w: %w", models.ErrStoreUnavailable, err)
	}
	return names, nil
}

// classifyMongoError separates decode failures, which mean the stored record
// has an unexpected shape, from everything else.
func classifyMongoError(op string, err error) error {
	var decodeErr *bsoncodec.DecodeError
	var valueErr bsoncodec.ValueDecoderError
	if errors.As(err, &decodeErr) || errors.As(err, &valueErr) {
		return fmt.Errorf("%s: %w: %w", op, models.ErrCorruptRecord, err)
	}
	return fmt.Errorf("%s: %w: %w", op, models.ErrStoreUnavailable, err)
}

// MongoFilter lowers a filter expression into a BSON query document.
// Text is matched literally: regex metacharacters in user input are quoted.
func MongoFilter(f filters.Filter) (bson.D, error) {
	if err := filters.Validate(f); err != nil {
		return nil, err
	}
	return lowerMongo(f), nil
}

func lowerMongo(f filters.Filter) bson.D {
	switch f := f.(type) {
	case filters.TextContains:
		return bson.D{{Key: string(f.Field), Value: primitive.Regex{
			Pattern: regexp.QuoteMeta(f.Text),
			Options: "i",
		}}}
	case filters.Equals:
		return bson.D{{Key: string(f.Field), Value: f.Value}}
	case filters.And:
		if len(f) == 0 {
			return bson.D{}
		}
		return bson.D{{Key: "$and", Value: lowerMongoAll(f)}}
	case filters.Or:
		if len(f) == 0 {
			// $or rejects an empty array
			return bson.D{{Key: "_id", Value: bson.D{{Key: "$exists", Value: false}}}}
		}
		return bson.D{{Key: "$or", Value: lowerMongoAll(f)}}
	}
	return bson.D{}
}

func lowerMongoAll(fs []filters.Filter) bson.A {
	out := make(bson.A, 0, len(fs))
	for _, f := range fs {
		out = append(out, lowerMongo(f))
	}
	return out
}
