package app_test

import (
	"context"
	"errors"
	"testing"

	"capitals-quiz/internal/app"
	"capitals-quiz/internal/domain"
	"capitals-quiz/internal/infra/memory"

	"golang.org/x/crypto/bcrypt"
)

func TestPinGuardLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewLeaderboardStore()
	guard := app.NewPinGuard(store, app.WithBcryptCost(bcrypt.MinCost))

	has, err := guard.HasPin(ctx, "alice")
	if err != nil || has {
		t.Fatalf("expected no pin, got %v %v", has, err)
	}
	if ok, _ := guard.VerifyPin(ctx, "alice", "1234"); ok {
		t.Fatalf("expected verify to fail without a pin")
	}

	if err := guard.SetPin(ctx, "alice", "1234"); err != nil {
		t.Fatalf("set pin: %v", err)
	}
	if has, _ := guard.HasPin(ctx, "alice"); !has {
		t.Fatalf("expected pin after set")
	}
	if ok, err := guard.VerifyPin(ctx, "alice", "1234"); err != nil || !ok {
		t.Fatalf("expected pin to verify, got %v %v", ok, err)
	}
	if ok, _ := guard.VerifyPin(ctx, "alice", "4321"); ok {
		t.Fatalf("expected wrong pin to fail")
	}

	if err := guard.SetPin(ctx, "alice", "5555"); !errors.Is(err, domain.ErrPinAlreadySet) {
		t.Fatalf("expected already set, got %v", err)
	}
	if err := guard.ChangePin(ctx, "alice", "0000", "5555"); !errors.Is(err, domain.ErrPinMismatch) {
		t.Fatalf("expected mismatch on change with wrong pin, got %v", err)
	}
	if err := guard.ChangePin(ctx, "alice", "1234", "5555"); err != nil {
		t.Fatalf("change pin: %v", err)
	}
	if ok, _ := guard.VerifyPin(ctx, "alice", "5555"); !ok {
		t.Fatalf("expected new pin to verify")
	}
}

func TestPinIsBoundToUsername(t *testing.T) {
	ctx := context.Background()
	store := memory.NewLeaderboardStore()
	guard := app.NewPinGuard(store, app.WithBcryptCost(bcrypt.MinCost))

	_ = guard.SetPin(ctx, "alice", "1234")
	_ = guard.SetPin(ctx, "bob", "1234")

	aliceHash, _ := store.GetPinHash(ctx, "alice")
	bobHash, _ := store.GetPinHash(ctx, "bob")
	if aliceHash == bobHash {
		t.Fatalf("expected distinct hashes for equal pins")
	}
	if aliceHash == "1234" {
		t.Fatalf("expected the pin to be hashed")
	}
}

func TestValidatePin(t *testing.T) {
	tests := []struct {
		pin   string
		valid bool
	}{
		{"1234", true},
		{"0000", true},
		{"123", false},
		{"12345", false},
		{"12a4", false},
		{"", false},
		{"١٢٣٤", false},
	}
	for _, tt := range tests {
		err := app.ValidatePin(tt.pin)
		if (err == nil) != tt.valid {
			t.Fatalf("ValidatePin(%q) = %v, want valid=%v", tt.pin, err, tt.valid)
		}
	}
}
