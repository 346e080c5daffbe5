package redis

import (
	"context"
	"sync"
	"time"

	"capitals-quiz/internal/app"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Sessions stay in a local map; the engine and its countdown are in-process.
//   - Redis holds a liveness key per session with a TTL so other instances and
//     operators can see which sessions are live.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		log:      log,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Save(session *app.Session) {
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	// best-effort liveness marker
	if err := s.client.Set(context.Background(), s.key(session.ID()), session.CreatedAt().Unix(), s.ttl).Err(); err != nil {
		s.log.Warn().Err(err).Str("session_id", session.ID()).Msg("set session liveness key")
	}
}

// Get returns a local session and refreshes its liveness key.
func (s *SessionStore) Get(id string) (*app.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok && s.ttl > 0 {
		_ = s.client.Expire(context.Background(), s.key(id), s.ttl).Err()
	}
	return session, ok
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	if err := s.client.Del(context.Background(), s.key(id)).Err(); err != nil {
		s.log.Warn().Err(err).Str("session_id", id).Msg("delete session liveness key")
	}
}

func (s *SessionStore) List() []*app.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*app.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	return out
}

// Live counts liveness keys across all instances sharing the Redis.
func (s *SessionStore) Live(ctx context.Context) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, sessionKeyPrefix+"*", 100).Result()
		if err != nil {
			return 0, err
		}
		total += len(keys)
		if next == 0 {
			return total, nil
		}
		cursor = next
	}
}

const sessionKeyPrefix = "quiz:session:"

func (s *SessionStore) key(id string) string {
	return sessionKeyPrefix + id
}
