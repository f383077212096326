package redis

import (
	"context"
	"testing"
	"time"

	"perkakas/internal/models"
	"perkakas/internal/repositories"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeRedis keeps values in a map. Only Get and Set are implemented; any
// other command panics through the nil embedded Cmdable.
type fakeRedis struct {
	redis.Cmdable
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), Config{URL: "http://not-redis"})
	assert.ErrorContains(t, err, "parse redis url")
}

func TestProductCache_SetThenGet(t *testing.T) {
	fake := newFakeRedis()
	c := NewProductCache(fake, 5*time.Minute)
	ctx := context.Background()

	id := primitive.NewObjectID()
	title := "Cordless Drill"
	price := 89.99
	inStock := false
	doc := models.Document{ID: &id, Title: &title, Price: &price, InStock: &inStock}

	require.NoError(t, c.Set(ctx, doc))
	assert.Equal(t, 5*time.Minute, fake.ttls[keyPrefix+id.Hex()])

	got, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, doc, *got)
	assert.Nil(t, got.Brand)
	assert.Nil(t, got.Description)
	assert.Nil(t, got.Category)
}

func TestProductCache_Miss(t *testing.T) {
	c := NewProductCache(newFakeRedis(), time.Minute)

	_, err := c.Get(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, repositories.ErrCacheMiss)
}

func TestProductCache_CorruptPayload(t *testing.T) {
	fake := newFakeRedis()
	id := primitive.NewObjectID()
	fake.values[keyPrefix+id.Hex()] = "{not json"
	c := NewProductCache(fake, time.Minute)

	_, err := c.Get(context.Background(), id)
	require.Error(t, err)
	assert.NotErrorIs(t, err, repositories.ErrCacheMiss)
	assert.ErrorContains(t, err, "decode cached product")
}

func TestProductCache_SetWithoutIDIsNoop(t *testing.T) {
	fake := newFakeRedis()
	title := "orphan"
	c := NewProductCache(fake, time.Minute)
	assert.NoError(t, c.Set(context.Background(), models.Document{Title: &title}))
	assert.Empty(t, fake.values)
}
