package app

import (
	"context"
	"sync"
	"time"

	"capitals-quiz/internal/domain"
)

// Session is the explicit client-session record for one quiz attempt. It owns
// the Engine, the per-question countdown and the view subscribers, and
// serializes user answers against timer ticks.
type Session struct {
	id        string
	createdAt time.Time
	tick      time.Duration

	mu                sync.Mutex
	engine            *Engine
	username          string
	pinVerified       bool
	saveToLeaderboard bool
	saveStatus        domain.SaveStatus
	newBest           bool
	onFinish          func(*Session, domain.SessionResult)

	stopCountdown context.CancelFunc
	generation    int
	subscribers   map[chan domain.SessionView]struct{}
	closed        bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithTick sets the countdown granularity. Zero disables the countdown.
func WithTick(d time.Duration) SessionOption {
	return func(s *Session) {
		s.tick = d
	}
}

// WithSessionClock is test-only for deterministic timestamps.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.createdAt = now()
		}
	}
}

// NewSession wraps a fresh engine. onFinish runs under the session lock and
// must not block or call back into the session.
func NewSession(id string, engine *Engine, onFinish func(*Session, domain.SessionResult), opts ...SessionOption) *Session {
	s := &Session{
		id:          id,
		createdAt:   time.Now(),
		tick:        time.Second,
		engine:      engine,
		onFinish:    onFinish,
		subscribers: make(map[chan domain.SessionView]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	engine.onFinish = s.handleFinishLocked
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Username returns the player name once started.
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// PinVerified reports whether the username's PIN was checked for this session.
func (s *Session) PinVerified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pinVerified
}

func (s *Session) start(req domain.StartRequest, pinVerified bool) (domain.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saveToLeaderboard = req.SaveToLeaderboard
	s.pinVerified = pinVerified
	if err := s.engine.Start(req.Username); err != nil {
		return domain.SessionView{}, err
	}
	s.username = s.engine.username
	s.armCountdownLocked()
	return s.broadcastLocked(), nil
}

func (s *Session) answer(choice *string, timeRemaining int) (domain.AnsweredQuestion, domain.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	answered, err := s.engine.Answer(choice, timeRemaining)
	if err != nil {
		return domain.AnsweredQuestion{}, domain.SessionView{}, err
	}
	s.armCountdownLocked()
	return answered, s.broadcastLocked(), nil
}

func (s *Session) view() domain.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) reportSaved(outcome domain.SaveOutcome) domain.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveStatus = outcome.Status
	s.newBest = outcome.NewBest
	return s.broadcastLocked()
}

func (s *Session) setSaveStatusLocked(status domain.SaveStatus) {
	s.saveStatus = status
}

func (s *Session) handleFinishLocked(result domain.SessionResult) {
	result.SessionID = s.id
	if s.stopCountdown != nil {
		s.stopCountdown()
		s.stopCountdown = nil
	}
	if !s.saveToLeaderboard {
		s.saveStatus = domain.SaveSkipped
	} else {
		s.saveStatus = domain.SavePending
	}
	if s.onFinish != nil {
		s.onFinish(s, result)
	}
}

// close stops the countdown and releases subscribers.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCountdown != nil {
		s.stopCountdown()
		s.stopCountdown = nil
	}
	s.generation++
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
	s.closed = true
}

func (s *Session) subscribe() (<-chan domain.SessionView, func()) {
	ch := make(chan domain.SessionView, 8)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	ch <- s.viewLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() domain.SessionView {
	view := s.viewLocked()
	for ch := range s.subscribers {
		select {
		case ch <- view:
		default:
			// Slow subscriber: drop its oldest frame so the newest state wins.
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}
	return view
}

func (s *Session) viewLocked() domain.SessionView {
	view := s.engine.View()
	view.SessionID = s.id
	view.SaveStatus = s.saveStatus
	view.NewBest = s.newBest
	return view
}
