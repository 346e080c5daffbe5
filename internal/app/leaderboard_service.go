package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"capitals-quiz/internal/domain"
	"capitals-quiz/internal/metrics"

	"github.com/rs/zerolog"
)

// LeaderboardLimit caps how many rows GetLeaderboard returns.
const LeaderboardLimit = 100

// LeaderboardStore persists leaderboard rows, at most one per (username, tier).
type LeaderboardStore interface {
	FindBestOverall(ctx context.Context, username string) (*domain.LeaderboardEntry, error)
	FindBestForUserTier(ctx context.Context, username string, tier domain.Tier) (*domain.LeaderboardEntry, error)
	// UpsertTierRow writes max(existing, score) for (username, tier) and returns the stored row.
	UpsertTierRow(ctx context.Context, username string, tier domain.Tier, score int, at time.Time) (domain.LeaderboardEntry, error)
	// SetGlobalBest flags id as the user's best-overall row and clears every other row of that user.
	SetGlobalBest(ctx context.Context, username string, id int64) error
	ListBest(ctx context.Context, tier domain.Tier, limit int) ([]domain.LeaderboardEntry, error)
	ListUserRows(ctx context.Context, username string) ([]domain.LeaderboardEntry, error)
	ListUsernames(ctx context.Context) ([]string, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// LeaderboardService reconciles per-tier best scores and the best-overall flag.
type LeaderboardService struct {
	store LeaderboardStore
	now   func() time.Time
	log   zerolog.Logger
}

// LeaderboardOption configures a LeaderboardService.
type LeaderboardOption func(*LeaderboardService)

// WithLeaderboardClock overrides the timestamp source for written rows.
func WithLeaderboardClock(now func() time.Time) LeaderboardOption {
	return func(s *LeaderboardService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLeaderboardLogger attaches a logger.
func WithLeaderboardLogger(log zerolog.Logger) LeaderboardOption {
	return func(s *LeaderboardService) {
		s.log = log
	}
}

func NewLeaderboardService(store LeaderboardStore, opts ...LeaderboardOption) *LeaderboardService {
	s := &LeaderboardService{
		store: store,
		now:   time.Now,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordScore keeps the (username, tier) row at the maximum score seen and
// moves the best-overall flag when the submission beats the current best.
func (s *LeaderboardService) RecordScore(ctx context.Context, username string, score int, tier domain.Tier) (domain.RecordOutcome, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return domain.RecordOutcome{}, domain.ErrEmptyUsername
	case score < 0:
		return domain.RecordOutcome{}, domain.ErrNegativeScore
	case !tier.Valid():
		return domain.RecordOutcome{}, domain.ErrInvalidTier
	}

	best, err := s.store.FindBestOverall(ctx, username)
	if err != nil {
		return s.fail("find_best_overall", fmt.Errorf("find best overall: %w", err))
	}
	tierRow, err := s.store.FindBestForUserTier(ctx, username, tier)
	if err != nil {
		return s.fail("find_best_tier", fmt.Errorf("find tier row: %w", err))
	}

	var out domain.RecordOutcome
	if tierRow == nil || score > tierRow.Score {
		row, err := s.store.UpsertTierRow(ctx, username, tier, score, s.now())
		if err != nil {
			return s.fail("upsert_tier_row", fmt.Errorf("upsert tier row: %w", err))
		}
		out.Entry = row
		// Another writer may have stored a higher score in between.
		out.TierImproved = row.Score == score
	} else {
		out.Entry = *tierRow
	}

	bestID := int64(0)
	if best != nil {
		bestID = best.ID
	}
	switch {
	case best == nil:
		winner, err := s.recomputeBest(ctx, username)
		if err != nil {
			return s.fail("set_global_best", err)
		}
		bestID = winner
	case out.TierImproved && out.Entry.Score >= best.Score && out.Entry.ID != best.ID:
		if err := s.store.SetGlobalBest(ctx, username, out.Entry.ID); err != nil {
			return s.fail("set_global_best", fmt.Errorf("set global best: %w", err))
		}
		bestID = out.Entry.ID
	}

	out.Entry.IsBestOverall = out.Entry.ID == bestID
	out.NewOverallBest = out.TierImproved && out.Entry.IsBestOverall
	out.NewBest = out.TierImproved || out.NewOverallBest

	outcome := "unchanged"
	if out.TierImproved {
		outcome = "improved"
	}
	metrics.LeaderboardWrite(outcome)
	s.log.Debug().
		Str("username", username).
		Str("tier", string(tier)).
		Int("score", score).
		Bool("tier_improved", out.TierImproved).
		Bool("new_overall_best", out.NewOverallBest).
		Msg("score recorded")
	return out, nil
}

// GetLeaderboard returns best-overall rows, optionally limited to one tier,
// highest score first.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, tier domain.Tier) ([]domain.LeaderboardEntry, error) {
	if tier != domain.TierAll && !tier.Valid() {
		return nil, domain.ErrInvalidTier
	}
	rows, err := s.store.ListBest(ctx, tier, LeaderboardLimit)
	if err != nil {
		metrics.LeaderboardError("list_best")
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	sortByScore(rows)
	if len(rows) > LeaderboardLimit {
		rows = rows[:LeaderboardLimit]
	}
	return rows, nil
}

// GetUserScores returns the user's best-overall row, every tier row and a
// tier-to-row grouping.
func (s *LeaderboardService) GetUserScores(ctx context.Context, username string) (domain.UserScores, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.UserScores{}, domain.ErrEmptyUsername
	}
	rows, err := s.store.ListUserRows(ctx, username)
	if err != nil {
		metrics.LeaderboardError("list_user_rows")
		return domain.UserScores{}, fmt.Errorf("list user rows: %w", err)
	}
	sortByScore(rows)

	scores := domain.UserScores{
		Username: username,
		Scores:   rows,
		ByTier:   make(map[domain.Tier]domain.LeaderboardEntry, len(domain.Tiers)),
	}
	for i := range rows {
		row := rows[i]
		if row.IsBestOverall && scores.BestScore == nil {
			scores.BestScore = &row
		}
		if cur, ok := scores.ByTier[row.Tier]; !ok || row.Score > cur.Score {
			scores.ByTier[row.Tier] = row
		}
	}
	return scores, nil
}

// UsernameAvailable reports whether no leaderboard row uses username yet.
func (s *LeaderboardService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, domain.ErrEmptyUsername
	}
	exists, err := s.store.UsernameExists(ctx, username)
	if err != nil {
		metrics.LeaderboardError("username_exists")
		return false, fmt.Errorf("check username: %w", err)
	}
	return !exists, nil
}

// Reconcile recomputes the best-overall flag for every user and returns how
// many users were processed.
func (s *LeaderboardService) Reconcile(ctx context.Context) (int, error) {
	usernames, err := s.store.ListUsernames(ctx)
	if err != nil {
		metrics.LeaderboardError("list_usernames")
		return 0, fmt.Errorf("list usernames: %w", err)
	}
	for i, username := range usernames {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if _, err := s.recomputeBest(ctx, username); err != nil {
			metrics.LeaderboardError("reconcile")
			return i, err
		}
	}
	s.log.Info().Int("users", len(usernames)).Msg("best scores reconciled")
	return len(usernames), nil
}

// recomputeBest flags the user's highest row, latest write winning ties, and
// returns its id. Zero means the user has no rows.
func (s *LeaderboardService) recomputeBest(ctx context.Context, username string) (int64, error) {
	rows, err := s.store.ListUserRows(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("list user rows: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	winner := rows[0]
	for _, row := range rows[1:] {
		if outranks(row, winner) {
			winner = row
		}
	}
	if err := s.store.SetGlobalBest(ctx, username, winner.ID); err != nil {
		return 0, fmt.Errorf("set global best: %w", err)
	}
	return winner.ID, nil
}

func (s *LeaderboardService) fail(op string, err error) (domain.RecordOutcome, error) {
	metrics.LeaderboardError(op)
	metrics.LeaderboardWrite("error")
	s.log.Error().Err(err).Str("op", op).Msg("leaderboard write failed")
	return domain.RecordOutcome{}, err
}

// outranks orders rows by score, then by write time, then by id.
func outranks(a, b domain.LeaderboardEntry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.ID > b.ID
}

func sortByScore(rows []domain.LeaderboardEntry) {
	sort.SliceStable(rows, func(i, j int) bool {
		return outranks(rows[i], rows[j])
	})
}
