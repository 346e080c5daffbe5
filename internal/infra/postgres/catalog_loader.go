package postgres

import (
	"context"
	"fmt"

	"capitals-quiz/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// CatalogLoader loads the capital catalog from the capital_facts table.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context) ([]domain.CapitalFact, error) {
	rows, err := l.pool.Query(ctx, `SELECT country, capital, tier FROM capital_facts ORDER BY tier, country`)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	defer rows.Close()

	var facts []domain.CapitalFact
	for rows.Next() {
		var (
			f    domain.CapitalFact
			tier string
		)
		if err := rows.Scan(&f.Country, &f.Capital, &tier); err != nil {
			return nil, fmt.Errorf("scan capital fact: %w", err)
		}
		f.Tier = domain.Tier(tier)
		facts = append(facts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if len(facts) == 0 {
		return nil, domain.ErrCatalogNotFound
	}
	return facts, nil
}
