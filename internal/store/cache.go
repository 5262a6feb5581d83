package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/NivBraz/contentfilter-service/pkg/wordbank"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Cache holds the word set view between store reads.
type Cache interface {
	// Get reports false when nothing is cached.
	Get(ctx context.Context) ([]string, bool, error)
	Set(ctx context.Context, words []string) error
	Invalidate(ctx context.Context) error
}

// MemoryCache keeps the word set in process.
type MemoryCache struct {
	mu   sync.RWMutex
	bank *wordbank.WordBank
}

var _ Cache = &MemoryCache{}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Get(_ context.Context) ([]string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.bank == nil {
		return nil, false, nil
	}
	return c.bank.Words(), true, nil
}

func (c *MemoryCache) Set(_ context.Context, words []string) error {
	bank := wordbank.New(words...)
	c.mu.Lock()
	c.bank = bank
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	c.bank = nil
	c.mu.Unlock()
	return nil
}

// RedisCache shares the word set between instances as a JSON array under one key.
type RedisCache struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

var _ Cache = &RedisCache{}

// NewRedisCache connects to the redis server at url (redis://host:port/db) and pings it.
func NewRedisCache(ctx context.Context, url, key string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis is not reachable: %w", err)
	}
	return &RedisCache{client: client, key: key, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context) ([]string, bool, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var words []string
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, false, fmt.Errorf("corrupt cached word set: %w", err)
	}
	if words == nil {
		words = []string{}
	}
	return words, true, nil
}

func (c *RedisCache) Set(ctx context.Context, words []string) error {
	if words == nil {
		words = []string{}
	}
	data, err := json.Marshal(words)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, data, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
