package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"capitals-quiz/internal/domain"

	"golang.org/x/sync/singleflight"
)

const catalogKey = "catalog"

// CatalogLoader fetches the capital catalog from a backing store (e.g., Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) ([]domain.CapitalFact, error)
}

// CatalogRepository caches the catalog with TTL to avoid repeated DB hits.
type CatalogRepository struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu        sync.RWMutex
	rnd       *rand.Rand
	facts     []domain.CapitalFact
	expiresAt time.Time
}

func NewCatalogRepository(loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GetCatalog returns the cached catalog, reloading it once expired. Concurrent
// misses share a single load. A zero TTL caches forever.
func (r *CatalogRepository) GetCatalog(ctx context.Context) ([]domain.CapitalFact, error) {
	if facts, ok := r.cached(r.clock()); ok {
		return facts, nil
	}

	result, err, _ := r.sf.Do(catalogKey, func() (interface{}, error) {
		now := r.clock()
		if facts, ok := r.cached(now); ok {
			return facts, nil
		}

		facts, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}
		if len(facts) == 0 {
			return nil, domain.ErrCatalogNotFound
		}

		r.mu.Lock()
		r.facts = facts
		r.expiresAt = time.Time{}
		if r.ttl > 0 {
			r.expiresAt = now.Add(r.ttlWithJitterLocked())
		}
		r.mu.Unlock()
		return facts, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.CapitalFact), nil
}

func (r *CatalogRepository) cached(now time.Time) ([]domain.CapitalFact, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.facts == nil {
		return nil, false
	}
	if !r.expiresAt.IsZero() && !r.expiresAt.After(now) {
		return nil, false
	}
	return r.facts, true
}

func (r *CatalogRepository) ttlWithJitterLocked() time.Duration {
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticCatalogLoader is a loader backed by a fixed slice (the built-in catalog, tests).
type StaticCatalogLoader struct {
	facts []domain.CapitalFact
}

func NewStaticCatalogLoader(facts []domain.CapitalFact) *StaticCatalogLoader {
	return &StaticCatalogLoader{facts: facts}
}

func (l *StaticCatalogLoader) LoadCatalog(_ context.Context) ([]domain.CapitalFact, error) {
	if len(l.facts) == 0 {
		return nil, domain.ErrCatalogNotFound
	}
	return append([]domain.CapitalFact(nil), l.facts...), nil
}
