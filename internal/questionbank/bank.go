// Package questionbank holds the capital catalog and the sampling primitives the
// quiz engine draws from.
package questionbank

import (
	"math/rand"
	"sync"
	"time"

	"capitals-quiz/internal/domain"

	"github.com/google/uuid"
)

// SampleAll requests the whole pool from Sample.
const SampleAll = -1

// OptionCount is the number of choices shown per question.
const OptionCount = 4

// Bank is an immutable set of facts plus a guarded random source.
type Bank struct {
	facts    []domain.CapitalFact
	capitals []string

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option configures a Bank.
type Option func(*Bank)

// WithRand injects the random source, e.g. a seeded one for deterministic tests.
func WithRand(rnd *rand.Rand) Option {
	return func(b *Bank) {
		if rnd != nil {
			b.rnd = rnd
		}
	}
}

// New builds a Bank. At least four distinct capitals are required so that
// GenerateOptions can always produce three distractors.
func New(facts []domain.CapitalFact, opts ...Option) (*Bank, error) {
	b := &Bank{
		facts: make([]domain.CapitalFact, len(facts)),
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	copy(b.facts, facts)
	for _, opt := range opts {
		opt(b)
	}

	seen := make(map[string]struct{}, len(facts))
	for _, f := range b.facts {
		if _, ok := seen[f.Capital]; ok {
			continue
		}
		seen[f.Capital] = struct{}{}
		b.capitals = append(b.capitals, f.Capital)
	}
	if len(b.capitals) < OptionCount {
		return nil, domain.ErrCatalogTooSmall
	}
	return b, nil
}

// Len returns the number of facts in the bank.
func (b *Bank) Len() int {
	return len(b.facts)
}

// Sample draws count facts of the given tier without replacement, in random
// order. TierAll draws from every tier. A count of SampleAll, or one at least
// the pool size, returns the entire pool shuffled.
func (b *Bank) Sample(tier domain.Tier, count int) []domain.CapitalFact {
	pool := make([]domain.CapitalFact, 0, len(b.facts))
	for _, f := range b.facts {
		if tier == domain.TierAll || f.Tier == tier {
			pool = append(pool, f)
		}
	}
	b.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if count == SampleAll || count >= len(pool) {
		return pool
	}
	if count < 0 {
		count = 0
	}
	return pool[:count]
}

// SampleUnique filters out facts whose id is in exclude, shuffles the rest and
// takes up to count. A short result means the pool is exhausted.
func (b *Bank) SampleUnique(pool []domain.CapitalFact, count int, exclude map[string]struct{}) []domain.CapitalFact {
	if count <= 0 {
		return nil
	}
	remaining := make([]domain.CapitalFact, 0, len(pool))
	for _, f := range pool {
		if _, used := exclude[f.ID()]; used {
			continue
		}
		remaining = append(remaining, f)
	}
	b.shuffle(len(remaining), func(i, j int) { remaining[i], remaining[j] = remaining[j], remaining[i] })
	if count < len(remaining) {
		remaining = remaining[:count]
	}
	return remaining
}

// GenerateOptions returns the correct capital plus three distinct distractors
// drawn from every other capital in the bank, in random order.
func (b *Bank) GenerateOptions(correct string) []string {
	others := make([]string, 0, len(b.capitals))
	for _, c := range b.capitals {
		if c != correct {
			others = append(others, c)
		}
	}
	b.shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })

	options := make([]string, 0, OptionCount)
	options = append(options, correct)
	options = append(options, others[:OptionCount-1]...)
	b.shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return options
}

// NewQuestion prepares a fact for display.
func (b *Bank) NewQuestion(f domain.CapitalFact) domain.Question {
	return domain.Question{
		ID:      uuid.NewString(),
		Key:     f.ID(),
		Country: f.Country,
		Capital: f.Capital,
		Tier:    f.Tier,
		Options: b.GenerateOptions(f.Capital),
	}
}

// Shuffle permutes facts in place using the bank's random source.
func (b *Bank) Shuffle(facts []domain.CapitalFact) {
	b.shuffle(len(facts), func(i, j int) { facts[i], facts[j] = facts[j], facts[i] })
}

func (b *Bank) shuffle(n int, swap func(i, j int)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rnd.Shuffle(n, swap)
}
