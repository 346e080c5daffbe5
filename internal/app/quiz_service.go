package app

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"capitals-quiz/internal/domain"
	"capitals-quiz/internal/metrics"
	"capitals-quiz/internal/questionbank"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionRepository abstracts where live quiz sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Save(session *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
	List() []*Session
}

// CatalogRepository loads the capital catalog (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context) ([]domain.CapitalFact, error)
}

// ResultPublisher hands finished sessions to the leaderboard writer. Publish
// must not block; false means the result was not accepted.
type ResultPublisher interface {
	Publish(result domain.SessionResult) bool
}

// PinChecker is the part of PinGuard the quiz start path needs.
type PinChecker interface {
	HasPin(ctx context.Context, username string) (bool, error)
	VerifyPin(ctx context.Context, username, pin string) (bool, error)
}

// QuizService contains the quiz play use cases.
type QuizService struct {
	sessions SessionRepository
	catalog  CatalogRepository
	pins     PinChecker
	results  ResultPublisher

	log     zerolog.Logger
	tick    time.Duration
	now     func() time.Time
	newRand func() *rand.Rand
	newID   func() string
}

// QuizOption configures a QuizService.
type QuizOption func(*QuizService)

// WithPinChecker requires PIN-protected usernames to verify before starting.
func WithPinChecker(pins PinChecker) QuizOption {
	return func(s *QuizService) {
		s.pins = pins
	}
}

// WithResultPublisher routes finished sessions to the leaderboard writer.
func WithResultPublisher(p ResultPublisher) QuizOption {
	return func(s *QuizService) {
		s.results = p
	}
}

// WithQuizLogger attaches a logger.
func WithQuizLogger(log zerolog.Logger) QuizOption {
	return func(s *QuizService) {
		s.log = log
	}
}

// WithCountdownTick sets the per-question countdown granularity. Zero disables it.
func WithCountdownTick(d time.Duration) QuizOption {
	return func(s *QuizService) {
		s.tick = d
	}
}

// WithRandSource is test-only; it makes question order deterministic.
func WithRandSource(newRand func() *rand.Rand) QuizOption {
	return func(s *QuizService) {
		if newRand != nil {
			s.newRand = newRand
		}
	}
}

// WithClock overrides the clock used for session and result timestamps.
func WithClock(now func() time.Time) QuizOption {
	return func(s *QuizService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewQuizService(sessions SessionRepository, catalog CatalogRepository, opts ...QuizOption) *QuizService {
	s := &QuizService{
		sessions: sessions,
		catalog:  catalog,
		log:      zerolog.Nop(),
		tick:     time.Second,
		now:      time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates a session for the request and serves its first question.
func (s *QuizService) Start(ctx context.Context, req domain.StartRequest) (domain.SessionView, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return domain.SessionView{}, domain.ErrEmptyUsername
	}

	pinVerified, err := s.checkPin(ctx, req)
	if err != nil {
		return domain.SessionView{}, err
	}

	facts, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return domain.SessionView{}, fmt.Errorf("load catalog: %w", err)
	}
	bank, err := questionbank.New(facts, questionbank.WithRand(s.newRand()))
	if err != nil {
		return domain.SessionView{}, err
	}

	engine := NewEngine(bank, WithEngineClock(s.now))
	session := NewSession(s.newID(), engine, s.handleFinish, WithTick(s.tick), WithSessionClock(s.now))
	s.sessions.Save(session)

	view, err := session.start(req, pinVerified)
	if err != nil {
		session.close()
		s.sessions.Delete(session.ID())
		return domain.SessionView{}, err
	}
	metrics.SessionStarted()
	s.log.Info().
		Str("session_id", session.ID()).
		Str("username", req.Username).
		Bool("pin_verified", pinVerified).
		Bool("save", req.SaveToLeaderboard).
		Msg("quiz started")
	return view, nil
}

// Answer submits choice for the session's current question. A nil choice is a timeout.
func (s *QuizService) Answer(_ context.Context, sessionID string, choice *string, timeRemaining int) (domain.AnsweredQuestion, domain.SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.AnsweredQuestion{}, domain.SessionView{}, domain.ErrSessionNotFound
	}
	answered, view, err := session.answer(choice, timeRemaining)
	if err != nil {
		return domain.AnsweredQuestion{}, domain.SessionView{}, err
	}
	metrics.Answer(string(answered.Tier), answered.IsCorrect)
	return answered, view, nil
}

// View returns the current state of a session.
func (s *QuizService) View(_ context.Context, sessionID string) (domain.SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionView{}, domain.ErrSessionNotFound
	}
	return session.view(), nil
}

// Subscribe returns a channel that receives session views on every change.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan domain.SessionView, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Abandon stops the session's countdown and drops it.
func (s *QuizService) Abandon(_ context.Context, sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.release(session)
	return nil
}

// ReportSaved records the leaderboard outcome of a finished session so the UI
// can show it.
func (s *QuizService) ReportSaved(_ context.Context, sessionID string, outcome domain.SaveOutcome) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.reportSaved(outcome)
	return nil
}

// Sweep drops sessions created before now-maxAge and returns how many it removed.
func (s *QuizService) Sweep(maxAge time.Duration) int {
	cutoff := s.now().Add(-maxAge)
	removed := 0
	for _, session := range s.sessions.List() {
		if session.CreatedAt().Before(cutoff) {
			s.release(session)
			removed++
		}
	}
	if removed > 0 {
		s.log.Debug().Int("removed", removed).Msg("expired sessions swept")
	}
	return removed
}

func (s *QuizService) release(session *Session) {
	session.close()
	s.sessions.Delete(session.ID())
	metrics.SessionReleased()
}

func (s *QuizService) checkPin(ctx context.Context, req domain.StartRequest) (bool, error) {
	if s.pins == nil {
		return false, nil
	}
	has, err := s.pins.HasPin(ctx, req.Username)
	if err != nil {
		return false, err
	}
	if !has {
		return false, nil
	}
	if req.Pin == "" {
		return false, domain.ErrPinRequired
	}
	ok, err := s.pins.VerifyPin(ctx, req.Username, req.Pin)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, domain.ErrPinMismatch
	}
	return true, nil
}

// handleFinish runs under the session lock; publishing must not block.
func (s *QuizService) handleFinish(session *Session, result domain.SessionResult) {
	metrics.SessionFinished(string(result.Reason))
	metrics.FinalScore(string(result.Tier), result.Score)

	log := s.log.With().
		Str("session_id", result.SessionID).
		Str("username", result.Username).
		Logger()
	log.Info().
		Int("score", result.Score).
		Str("tier", string(result.Tier)).
		Str("reason", string(result.Reason)).
		Int("questions_answered", result.QuestionsAnswered).
		Msg("quiz finished")

	if !session.saveToLeaderboard {
		return
	}
	if s.results == nil || !s.results.Publish(result) {
		session.setSaveStatusLocked(domain.SaveFailed)
		log.Warn().Msg("result not queued for leaderboard")
	}
}
