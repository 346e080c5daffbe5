package app

import (
	"context"
	"time"

	"capitals-quiz/internal/domain"
)

// armCountdownLocked cancels any running countdown and, if a question is
// being served, starts a new one for it.
func (s *Session) armCountdownLocked() {
	if s.stopCountdown != nil {
		s.stopCountdown()
		s.stopCountdown = nil
	}
	s.generation++
	if s.tick <= 0 || s.closed || s.engine.Status() != domain.StatusInProgress {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stopCountdown = cancel
	go s.countdown(ctx, s.generation, s.tick)
}

func (s *Session) countdown(ctx context.Context, generation int, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if done := s.onTick(generation); done {
				return
			}
		}
	}
}

// onTick advances the countdown by one second. At zero it submits the timeout
// sentinel on the player's behalf. It returns true once this countdown is over.
func (s *Session) onTick(generation int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A tick from a countdown that was replaced while this one waited on the lock.
	if generation != s.generation || s.engine.Status() != domain.StatusInProgress {
		return true
	}
	if !s.engine.Tick() {
		s.broadcastLocked()
		return false
	}
	if _, err := s.engine.Answer(nil, 0); err != nil {
		return true
	}
	s.armCountdownLocked()
	s.broadcastLocked()
	return true
}
