package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"hotel_booking/internal/domain"
)

type session struct {
	userID  int64
	expires time.Time
}

// Sessions is a process-local session store used when Redis is not configured.
type Sessions struct {
	mu  sync.Mutex
	m   map[string]session
	now func() time.Time
}

func NewSessions() *Sessions {
	return &Sessions{m: map[string]session{}, now: time.Now}
}

func (s *Sessions) Create(_ context.Context, userID int64, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[token] = session{userID: userID, expires: s.now().Add(ttl)}
	return token, nil
}

func (s *Sessions) Lookup(_ context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss, ok := s.m[token]
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	if !s.now().Before(ss.expires) {
		delete(s.m, token)
		return 0, domain.ErrUnauthorized
	}
	return ss.userID, nil
}

func (s *Sessions) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, token)
	return nil
}
