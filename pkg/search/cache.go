package search

import (
	"context"
	"strconv"
	"strings"
	"time"

	"calorie-tracker/domain"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultCacheSize = 1024
	DefaultCacheTTL  = 5 * time.Minute
)

type Cache interface {
	Get(key string) ([]domain.FoodRecord, bool)
	Add(key string, records []domain.FoodRecord)
}

type lruCache struct {
	lru *expirable.LRU[string, []domain.FoodRecord]
}

// NewLRUCache holds at most size result lists, each for ttl.
func NewLRUCache(size int, ttl time.Duration) Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &lruCache{lru: expirable.NewLRU[string, []domain.FoodRecord](size, nil, ttl)}
}

func (c *lruCache) Get(key string) ([]domain.FoodRecord, bool) {
	return c.lru.Get(key)
}

func (c *lruCache) Add(key string, records []domain.FoodRecord) {
	c.lru.Add(key, records)
}

type cachedSource struct {
	Source
	cache Cache
}

// Cached memoizes successful results of src. Failures are never cached.
func Cached(src Source, cache Cache) Source {
	if cache == nil {
		return src
	}
	return &cachedSource{Source: src, cache: cache}
}

func cacheKey(p domain.Provenance, userID, query string, limit int) string {
	return p.String() + "|" + userID + "|" + strings.ToLower(query) + "|" + strconv.Itoa(limit)
}

// userIndependent marks sources that return the same results for every
// caller. Their cache entries are shared between users.
type userIndependent interface {
	userIndependent()
}

func (s *cachedSource) Search(ctx context.Context, userID, query string, limit int) ([]domain.FoodRecord, error) {
	owner := userID
	if _, shared := s.Source.(userIndependent); shared {
		owner = ""
	}
	key := cacheKey(s.Provenance(), owner, query, limit)
	if hit, ok := s.cache.Get(key); ok {
		return append([]domain.FoodRecord(nil), hit...), nil
	}

	records, err := s.Source.Search(ctx, userID, query, limit)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, append([]domain.FoodRecord(nil), records...))
	return records, nil
}
