package http

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"capitals-quiz/internal/app"
	"capitals-quiz/internal/domain"
	"capitals-quiz/internal/infra/memory"
	"capitals-quiz/internal/questionbank"
	"capitals-quiz/internal/worker"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	server      *httptest.Server
	quiz        *app.QuizService
	leaderboard *app.LeaderboardService
	pins        *app.PinGuard
}

// newTestEnv wires the full stack on memory stores, with the result writer
// running and the countdown disabled.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zerolog.Nop()
	store := memory.NewLeaderboardStore()
	leaderboard := app.NewLeaderboardService(store)
	pins := app.NewPinGuard(store, app.WithBcryptCost(bcrypt.MinCost))
	queue := worker.NewResultQueue(16)
	catalog := memory.NewCatalogRepository(memory.NewStaticCatalogLoader(questionbank.Capitals()), time.Minute)
	quiz := app.NewQuizService(memory.NewSessionStore(), catalog,
		app.WithPinChecker(pins),
		app.WithResultPublisher(queue),
		app.WithCountdownTick(0),
		app.WithRandSource(func() *rand.Rand { return rand.New(rand.NewSource(3)) }),
	)
	writer := worker.NewWriter(queue, leaderboard, quiz, worker.WithBackoff(time.Millisecond))
	go func() { _ = writer.Run(context.Background()) }()

	mux := http.NewServeMux()
	NewAPI(quiz, leaderboard, pins, log).Register(mux)
	mux.HandleFunc("GET /ws", NewWSHandler(quiz, log).ServeWS)
	server := httptest.NewServer(Instrument(mux, log))

	t.Cleanup(func() {
		server.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = writer.Shutdown(ctx)
	})
	return &testEnv{server: server, quiz: quiz, leaderboard: leaderboard, pins: pins}
}

var capitalByCountry = func() map[string]string {
	m := make(map[string]string)
	for _, f := range questionbank.Capitals() {
		m[f.Country] = f.Capital
	}
	return m
}()

func correctChoice(q *domain.Question) string {
	return capitalByCountry[q.Country]
}

func wrongChoice(q *domain.Question) string {
	for _, opt := range q.Options {
		if opt != capitalByCountry[q.Country] {
			return opt
		}
	}
	return ""
}

// assertAnswerHidden fails when the serialized view reveals the current
// question's capital outside the prompt and the option list.
func assertAnswerHidden(t *testing.T, raw []byte) {
	t.Helper()
	var view struct {
		CurrentQuestion map[string]json.RawMessage `json:"currentQuestion"`
	}
	if err := json.Unmarshal(raw, &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.CurrentQuestion == nil {
		t.Fatalf("view has no current question: %s", raw)
	}
	var country string
	if err := json.Unmarshal(view.CurrentQuestion["country"], &country); err != nil {
		t.Fatalf("decode country: %v", err)
	}
	capital := strings.ToLower(capitalByCountry[country])
	// Some city-states share the country's name, so the prompt is skipped too.
	delete(view.CurrentQuestion, "options")
	delete(view.CurrentQuestion, "country")
	for field, value := range view.CurrentQuestion {
		if strings.Contains(strings.ToLower(string(value)), capital) {
			t.Fatalf("field %q reveals the answer %q: %s", field, capital, value)
		}
	}
}
