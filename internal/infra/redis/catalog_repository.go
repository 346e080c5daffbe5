package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"capitals-quiz/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// CatalogKey holds the JSON-encoded capital catalog.
const CatalogKey = "quiz:catalog"

// CatalogLoader fetches the capital catalog from a backing store (e.g., Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) ([]domain.CapitalFact, error)
}

// CatalogRepository caches the catalog in Redis and falls back to a loader on
// cache miss. A Redis failure degrades to the loader rather than failing.
type CatalogRepository struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	log    zerolog.Logger
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader CatalogLoader, ttl time.Duration, log zerolog.Logger) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		log:    log,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context) ([]domain.CapitalFact, error) {
	if facts, ok := r.cached(ctx); ok {
		return facts, nil
	}

	result, err, _ := r.sf.Do(CatalogKey, func() (interface{}, error) {
		// Re-check cache in case another instance filled it.
		if facts, ok := r.cached(ctx); ok {
			return facts, nil
		}

		facts, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}
		if len(facts) == 0 {
			return nil, domain.ErrCatalogNotFound
		}

		raw, err := json.Marshal(facts)
		if err != nil {
			return nil, fmt.Errorf("marshal catalog: %w", err)
		}
		if err := r.client.Set(ctx, CatalogKey, raw, r.ttlWithJitter()).Err(); err != nil {
			r.log.Warn().Err(err).Msg("cache catalog in redis")
		}
		return facts, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.CapitalFact), nil
}

// Invalidate drops the cached catalog so the next read reloads it.
func (r *CatalogRepository) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, CatalogKey).Err()
}

func (r *CatalogRepository) cached(ctx context.Context) ([]domain.CapitalFact, bool) {
	raw, err := r.client.Get(ctx, CatalogKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn().Err(err).Msg("read catalog from redis")
		}
		return nil, false
	}
	var facts []domain.CapitalFact
	if err := json.Unmarshal(raw, &facts); err != nil || len(facts) == 0 {
		r.log.Warn().Err(err).Msg("discarding unreadable cached catalog")
		return nil, false
	}
	return facts, true
}

// ttlWithJitter returns 0 (no expiry) for a non-positive ttl.
func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
