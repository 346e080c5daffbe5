package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"capitals-quiz/internal/domain"
)

type rowKey struct {
	username string
	tier     domain.Tier
}

// LeaderboardStore keeps leaderboard rows and PIN hashes in memory. It
// implements app.LeaderboardStore and app.PinStore.
type LeaderboardStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*domain.LeaderboardEntry
	byKey  map[rowKey]int64
	pins   map[string]string
}

func NewLeaderboardStore() *LeaderboardStore {
	return &LeaderboardStore{
		rows:  make(map[int64]*domain.LeaderboardEntry),
		byKey: make(map[rowKey]int64),
		pins:  make(map[string]string),
	}
}

func (s *LeaderboardStore) FindBestOverall(_ context.Context, username string) (*domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.rows {
		if row.Username == username && row.IsBestOverall {
			return copyRow(row), nil
		}
	}
	return nil, nil
}

func (s *LeaderboardStore) FindBestForUserTier(_ context.Context, username string, tier domain.Tier) (*domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byKey[rowKey{username, tier}]
	if !ok {
		return nil, nil
	}
	return copyRow(s.rows[id]), nil
}

// UpsertTierRow is atomic under the store lock: the stored score only grows.
func (s *LeaderboardStore) UpsertTierRow(_ context.Context, username string, tier domain.Tier, score int, at time.Time) (domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := rowKey{username, tier}
	if id, ok := s.byKey[key]; ok {
		row := s.rows[id]
		if score > row.Score {
			row.Score = score
			row.Timestamp = at
		}
		return *copyRow(row), nil
	}

	s.nextID++
	row := &domain.LeaderboardEntry{
		ID:        s.nextID,
		Username:  username,
		Score:     score,
		Tier:      tier,
		Timestamp: at,
	}
	if hash, ok := s.pins[username]; ok {
		row.PinHash = &hash
	}
	s.rows[row.ID] = row
	s.byKey[key] = row.ID
	return *copyRow(row), nil
}

func (s *LeaderboardStore) SetGlobalBest(_ context.Context, username string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.rows[id]
	if !ok || target.Username != username {
		return fmt.Errorf("row %d not found for %q", id, username)
	}
	for _, row := range s.rows {
		if row.Username == username {
			row.IsBestOverall = row.ID == id
		}
	}
	return nil
}

func (s *LeaderboardStore) ListBest(_ context.Context, tier domain.Tier, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	out := make([]domain.LeaderboardEntry, 0)
	for _, row := range s.rows {
		if !row.IsBestOverall {
			continue
		}
		if tier != domain.TierAll && row.Tier != tier {
			continue
		}
		out = append(out, *copyRow(row))
	}
	s.mu.RUnlock()

	sortRows(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *LeaderboardStore) ListUserRows(_ context.Context, username string) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	out := make([]domain.LeaderboardEntry, 0, len(domain.Tiers))
	for _, row := range s.rows {
		if row.Username == username {
			out = append(out, *copyRow(row))
		}
	}
	s.mu.RUnlock()

	sortRows(out)
	return out, nil
}

func (s *LeaderboardStore) ListUsernames(_ context.Context) ([]string, error) {
	s.mu.RLock()
	seen := make(map[string]struct{})
	for _, row := range s.rows {
		seen[row.Username] = struct{}{}
	}
	s.mu.RUnlock()

	out := make([]string, 0, len(seen))
	for username := range seen {
		out = append(out, username)
	}
	sort.Strings(out)
	return out, nil
}

// UsernameExists treats a username as taken once it has a row or a PIN.
func (s *LeaderboardStore) UsernameExists(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.pins[username]; ok {
		return true, nil
	}
	for _, tier := range domain.Tiers {
		if _, ok := s.byKey[rowKey{username, tier}]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (s *LeaderboardStore) GetPinHash(_ context.Context, username string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pins[username], nil
}

// SetPinHash stores the hash and mirrors it onto every row of the user.
func (s *LeaderboardStore) SetPinHash(_ context.Context, username, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pins[username] = hash
	for _, row := range s.rows {
		if row.Username == username {
			h := hash
			row.PinHash = &h
		}
	}
	return nil
}

func copyRow(row *domain.LeaderboardEntry) *domain.LeaderboardEntry {
	cp := *row
	if row.PinHash != nil {
		h := *row.PinHash
		cp.PinHash = &h
	}
	return &cp
}

func sortRows(rows []domain.LeaderboardEntry) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].ID > rows[j].ID
	})
}
