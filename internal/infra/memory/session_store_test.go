package memory

import (
	"testing"

	"capitals-quiz/internal/app"
	"capitals-quiz/internal/questionbank"
)

func newTestSession(t *testing.T, id string) *app.Session {
	t.Helper()
	bank, err := questionbank.New(questionbank.Capitals())
	if err != nil {
		t.Fatalf("new bank: %v", err)
	}
	return app.NewSession(id, app.NewEngine(bank), nil, app.WithTick(0))
}

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	store.Save(newTestSession(t, "session-1"))
	store.Save(newTestSession(t, "session-2"))
	if _, ok := store.Get("session-1"); !ok {
		t.Fatalf("expected session present")
	}
	if got := len(store.List()); got != 2 {
		t.Fatalf("expected 2 sessions listed, got %d", got)
	}

	store.Delete("session-1")
	if _, ok := store.Get("session-1"); ok {
		t.Fatalf("expected session removed")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 session left, got %d", store.Len())
	}
}
