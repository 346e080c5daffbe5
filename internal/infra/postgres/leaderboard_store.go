package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"capitals-quiz/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const entryColumns = `id, username, score, tier, recorded_at, is_best_overall, pin_hash`

// LeaderboardStore persists leaderboard rows and PIN hashes in Postgres. It
// implements app.LeaderboardStore and app.PinStore.
type LeaderboardStore struct {
	pool *pgxpool.Pool
}

func NewLeaderboardStore(pool *pgxpool.Pool) *LeaderboardStore {
	return &LeaderboardStore{pool: pool}
}

func (s *LeaderboardStore) FindBestOverall(ctx context.Context, username string) (*domain.LeaderboardEntry, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM leaderboard_entries
		WHERE username = $1 AND is_best_overall
		ORDER BY score DESC, recorded_at DESC
		LIMIT 1`, username)
	return scanOptional(row)
}

func (s *LeaderboardStore) FindBestForUserTier(ctx context.Context, username string, tier domain.Tier) (*domain.LeaderboardEntry, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM leaderboard_entries
		WHERE username = $1 AND tier = $2`, username, string(tier))
	return scanOptional(row)
}

// UpsertTierRow keeps the greater of the stored and submitted score in a
// single statement, so concurrent writers cannot lower a tier row. New rows
// inherit the user's PIN hash.
func (s *LeaderboardStore) UpsertTierRow(ctx context.Context, username string, tier domain.Tier, score int, at time.Time) (domain.LeaderboardEntry, error) {
	row := s.pool.QueryRow(ctx, `INSERT INTO leaderboard_entries (username, tier, score, recorded_at, pin_hash)
		VALUES ($1, $2, $3, $4, (SELECT pin_hash FROM user_pins WHERE username = $1))
		ON CONFLICT (username, tier) DO UPDATE SET
			score = GREATEST(leaderboard_entries.score, EXCLUDED.score),
			recorded_at = CASE WHEN EXCLUDED.score > leaderboard_entries.score
				THEN EXCLUDED.recorded_at ELSE leaderboard_entries.recorded_at END
		RETURNING `+entryColumns, username, string(tier), score, at.UTC())
	entry, err := scanEntry(row)
	if err != nil {
		return domain.LeaderboardEntry{}, fmt.Errorf("upsert tier row: %w", err)
	}
	return entry, nil
}

// SetGlobalBest moves the flag in one statement so the user never has two
// flagged rows.
func (s *LeaderboardStore) SetGlobalBest(ctx context.Context, username string, id int64) error {
	tag, err := s.pool.Exec(ctx, `UPDATE leaderboard_entries
		SET is_best_overall = (id = $2)
		WHERE username = $1
		  AND EXISTS (SELECT 1 FROM leaderboard_entries WHERE id = $2 AND username = $1)`, username, id)
	if err != nil {
		return fmt.Errorf("set global best: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("row %d not found for %q", id, username)
	}
	return nil
}

func (s *LeaderboardStore) ListBest(ctx context.Context, tier domain.Tier, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+entryColumns+` FROM leaderboard_entries
		WHERE is_best_overall AND ($1 = 'all' OR tier = $1)
		ORDER BY score DESC, recorded_at DESC
		LIMIT $2`, string(tier), limit)
	if err != nil {
		return nil, fmt.Errorf("list best: %w", err)
	}
	return collect(rows)
}

func (s *LeaderboardStore) ListUserRows(ctx context.Context, username string) ([]domain.LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+entryColumns+` FROM leaderboard_entries
		WHERE username = $1
		ORDER BY score DESC, recorded_at DESC`, username)
	if err != nil {
		return nil, fmt.Errorf("list user rows: %w", err)
	}
	return collect(rows)
}

func (s *LeaderboardStore) ListUsernames(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT username FROM leaderboard_entries ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list usernames: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, err
		}
		out = append(out, username)
	}
	return out, rows.Err()
}

// UsernameExists treats a username as taken once it has a row or a PIN.
func (s *LeaderboardStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT
		EXISTS (SELECT 1 FROM leaderboard_entries WHERE username = $1)
		OR EXISTS (SELECT 1 FROM user_pins WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("username exists: %w", err)
	}
	return exists, nil
}

func (s *LeaderboardStore) GetPinHash(ctx context.Context, username string) (string, error) {
	var hash string
	err := s.pool.QueryRow(ctx, `SELECT pin_hash FROM user_pins WHERE username = $1`, username).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get pin hash: %w", err)
	}
	return hash, nil
}

// SetPinHash stores the hash and mirrors it onto every row of the user.
func (s *LeaderboardStore) SetPinHash(ctx context.Context, username, hash string) error {
	return s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO user_pins (username, pin_hash, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (username) DO UPDATE SET pin_hash = EXCLUDED.pin_hash, updated_at = now()`, username, hash); err != nil {
			return fmt.Errorf("upsert pin: %w", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE leaderboard_entries SET pin_hash = $2 WHERE username = $1`, username, hash); err != nil {
			return fmt.Errorf("mirror pin onto rows: %w", err)
		}
		return nil
	})
}

func scanEntry(row pgx.Row) (domain.LeaderboardEntry, error) {
	var (
		e    domain.LeaderboardEntry
		tier string
	)
	if err := row.Scan(&e.ID, &e.Username, &e.Score, &tier, &e.Timestamp, &e.IsBestOverall, &e.PinHash); err != nil {
		return domain.LeaderboardEntry{}, err
	}
	e.Tier = domain.Tier(tier)
	return e, nil
}

func scanOptional(row pgx.Row) (*domain.LeaderboardEntry, error) {
	e, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collect(rows pgx.Rows) ([]domain.LeaderboardEntry, error) {
	defer rows.Close()
	var out []domain.LeaderboardEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
