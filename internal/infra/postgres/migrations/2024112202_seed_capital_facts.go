package migrations

import (
	"context"

	"capitals-quiz/internal/questionbank"

	"github.com/uptrace/bun"
)

type capitalFact struct {
	bun.BaseModel `bun:"table:capital_facts"`

	ID      int64  `bun:"id,pk,autoincrement"`
	Country string `bun:"country,notnull"`
	Capital string `bun:"capital,notnull"`
	Tier    string `bun:"tier,notnull"`
}

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.NewCreateTable().
				Model((*capitalFact)(nil)).
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewCreateIndex().
				Model((*capitalFact)(nil)).
				Index("capital_facts_country_capital_key").
				Unique().
				IfNotExists().
				Column("country", "capital").
				Exec(ctx); err != nil {
				return err
			}

			facts := questionbank.Capitals()
			rows := make([]capitalFact, 0, len(facts))
			for _, f := range facts {
				rows = append(rows, capitalFact{Country: f.Country, Capital: f.Capital, Tier: string(f.Tier)})
			}
			_, err := db.NewInsert().
				Model(&rows).
				On("CONFLICT (country, capital) DO NOTHING").
				Exec(ctx)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.NewDropTable().Model((*capitalFact)(nil)).IfExists().Exec(ctx)
			return err
		},
	)
}
