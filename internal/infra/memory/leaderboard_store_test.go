package memory

import (
	"context"
	"testing"
	"time"

	"capitals-quiz/internal/domain"
)

func TestUpsertTierRowKeepsMax(t *testing.T) {
	ctx := context.Background()
	store := NewLeaderboardStore()
	at := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)

	first, err := store.UpsertTierRow(ctx, "alice", domain.TierEasy, 50, at)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	second, err := store.UpsertTierRow(ctx, "alice", domain.TierEasy, 30, at.Add(time.Minute))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if second.ID != first.ID || second.Score != 50 || !second.Timestamp.Equal(at) {
		t.Fatalf("expected unchanged row, got %+v", second)
	}

	row, err := store.FindBestForUserTier(ctx, "alice", domain.TierEasy)
	if err != nil || row == nil {
		t.Fatalf("find tier row: %v %v", row, err)
	}
	if row.Score != 50 {
		t.Fatalf("expected stored score 50, got %d", row.Score)
	}
}

func TestSetGlobalBestFlagsExactlyOneRow(t *testing.T) {
	ctx := context.Background()
	store := NewLeaderboardStore()
	at := time.Now()

	easy, _ := store.UpsertTierRow(ctx, "alice", domain.TierEasy, 40, at)
	hard, _ := store.UpsertTierRow(ctx, "alice", domain.TierHard, 90, at)
	other, _ := store.UpsertTierRow(ctx, "bob", domain.TierEasy, 10, at)

	if err := store.SetGlobalBest(ctx, "alice", easy.ID); err != nil {
		t.Fatalf("set best: %v", err)
	}
	if err := store.SetGlobalBest(ctx, "alice", hard.ID); err != nil {
		t.Fatalf("set best: %v", err)
	}
	if err := store.SetGlobalBest(ctx, "alice", other.ID); err == nil {
		t.Fatalf("expected error flagging another user's row")
	}

	best, _ := store.FindBestOverall(ctx, "alice")
	if best == nil || best.ID != hard.ID {
		t.Fatalf("expected hard row as best, got %+v", best)
	}
	rows, _ := store.ListUserRows(ctx, "alice")
	flagged := 0
	for _, row := range rows {
		if row.IsBestOverall {
			flagged++
		}
	}
	if flagged != 1 {
		t.Fatalf("expected exactly one flagged row, got %d", flagged)
	}
}

func TestListBestFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	store := NewLeaderboardStore()
	at := time.Now()

	for i, user := range []string{"alice", "bob", "carol"} {
		row, _ := store.UpsertTierRow(ctx, user, domain.TierMedium, 10*(i+1), at)
		_ = store.SetGlobalBest(ctx, user, row.ID)
	}
	hard, _ := store.UpsertTierRow(ctx, "dave", domain.TierHard, 5, at)
	_ = store.SetGlobalBest(ctx, "dave", hard.ID)

	all, _ := store.ListBest(ctx, domain.TierAll, 100)
	if len(all) != 4 || all[0].Username != "carol" || all[3].Username != "dave" {
		t.Fatalf("unexpected ordering: %+v", all)
	}
	medium, _ := store.ListBest(ctx, domain.TierMedium, 2)
	if len(medium) != 2 || medium[0].Score != 30 || medium[1].Score != 20 {
		t.Fatalf("unexpected medium page: %+v", medium)
	}
}

func TestPinHashMirrorsOntoRows(t *testing.T) {
	ctx := context.Background()
	store := NewLeaderboardStore()

	_, _ = store.UpsertTierRow(ctx, "alice", domain.TierEasy, 10, time.Now())
	if err := store.SetPinHash(ctx, "alice", "hash-1"); err != nil {
		t.Fatalf("set pin: %v", err)
	}
	row, _ := store.UpsertTierRow(ctx, "alice", domain.TierMedium, 20, time.Now())
	if row.PinHash == nil || *row.PinHash != "hash-1" {
		t.Fatalf("expected new row to carry pin hash, got %v", row.PinHash)
	}
	easy, _ := store.FindBestForUserTier(ctx, "alice", domain.TierEasy)
	if easy.PinHash == nil || *easy.PinHash != "hash-1" {
		t.Fatalf("expected existing row to carry pin hash")
	}

	exists, _ := store.UsernameExists(ctx, "alice")
	if !exists {
		t.Fatalf("expected alice to exist")
	}
	_ = store.SetPinHash(ctx, "zoe", "hash-2")
	if exists, _ := store.UsernameExists(ctx, "zoe"); !exists {
		t.Fatalf("expected pin-only username to be taken")
	}
	if exists, _ := store.UsernameExists(ctx, "nobody"); exists {
		t.Fatalf("expected unknown username to be free")
	}
}
