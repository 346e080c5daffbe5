package cli

import (
	"fmt"

	"capitals-quiz/internal/app"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewReconcileCmd recomputes every user's best-overall leaderboard row.
func NewReconcileCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute the best-overall flag for every user in Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}

			pool, err := pgxpool.Connect(cmd.Context(), cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			service := app.NewLeaderboardService(newPostgresStore(pool), app.WithLeaderboardLogger(log))
			n, err := service.Reconcile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reconciled %d users\n", n)
			return nil
		},
	}
}
