package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"perkakas/internal/models"
	"perkakas/internal/repositories"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const keyPrefix = "perkakas:product:"

// Config holds Redis connection details.
type Config struct {
	URL          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DialTimeout  time.Duration
}

// NewClient parses the URL, applies the timeouts and checks the server answers.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// ProductCache is a repositories.DocumentCache backed by Redis. Documents are
// stored as JSON under a per-id key.
type ProductCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewProductCache creates a cache whose entries live for ttl.
func NewProductCache(client redis.Cmdable, ttl time.Duration) *ProductCache {
	return &ProductCache{client: client, ttl: ttl}
}

// Get returns the cached document or repositories.ErrCacheMiss.
func (c *ProductCache) Get(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	raw, err := c.client.Get(ctx, keyPrefix+id.Hex()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repositories.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id.Hex(), err)
	}

	var doc models.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode cached product %s: %w", id.Hex(), err)
	}
	return &doc, nil
}

// Set caches doc. Documents without an id are ignored.
func (c *ProductCache) Set(ctx context.Context, doc models.Document) error {
	if doc.ID == nil {
		return nil
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode product %s: %w", doc.ID.Hex(), err)
	}
	if err := c.client.Set(ctx, keyPrefix+doc.ID.Hex(), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set product %s: %w", doc.ID.Hex(), err)
	}
	return nil
}
