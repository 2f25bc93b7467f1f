package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/Mahaswami/exam-prep-sub000/internal/selection"
	"github.com/Mahaswami/exam-prep-sub000/internal/util"
	"github.com/go-redis/redis/v8"
)

// PoolCache keeps the active MCQ pool of a chapter in redis so repeated
// diagnostics do not rescan the question bank.
type PoolCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPoolCache(rdb *redis.Client, ttl time.Duration) *PoolCache {
	return &PoolCache{rdb: rdb, ttl: ttl}
}

type cachedQuestion struct {
	ID         uint                 `json:"id"`
	ConceptID  uint                 `json:"conceptId"`
	Difficulty selection.Difficulty `json:"difficulty"`
	Type       string               `json:"type"`
}

func poolKey(chapterID uint) string {
	return util.PoolCachePrefix + strconv.FormatUint(uint64(chapterID), 10)
}

// Get reports a miss when caching is off or the key is absent.
func (c *PoolCache) Get(ctx context.Context, chapterID uint) ([]selection.Question, bool, error) {
	if c == nil || c.rdb == nil || c.ttl <= 0 {
		return nil, false, nil
	}
	raw, err := c.rdb.Get(ctx, poolKey(chapterID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var cached []cachedQuestion
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false, err
	}
	pool := make([]selection.Question, len(cached))
	for i, q := range cached {
		pool[i] = selection.Question{ID: q.ID, ConceptID: q.ConceptID, Difficulty: q.Difficulty, Type: q.Type}
	}
	return pool, true, nil
}

func (c *PoolCache) Set(ctx context.Context, chapterID uint, pool []selection.Question) error {
	if c == nil || c.rdb == nil || c.ttl <= 0 {
		return nil
	}
	cached := make([]cachedQuestion, len(pool))
	for i, q := range pool {
		cached[i] = cachedQuestion{ID: q.ID, ConceptID: q.ConceptID, Difficulty: q.Difficulty, Type: q.Type}
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, poolKey(chapterID), raw, c.ttl).Err()
}

func (c *PoolCache) Invalidate(ctx context.Context, chapterID uint) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, poolKey(chapterID)).Err()
}
