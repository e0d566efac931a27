package service

import (
	"context"
	"errors"
	"sync"

	"socialimpact/internal/cache"
	"socialimpact/internal/model"
)

var ErrSessionNotFound = cache.ErrSessionNotFound

// SessionService serialises read-modify-write cycles on a session within this process
type SessionService struct {
	cache cache.SessionCache

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewSessionService(c cache.SessionCache) *SessionService {
	return &SessionService{
		cache: c,
		locks: make(map[string]*sessionLock),
	}
}

// Get returns the stored session
func (s *SessionService) Get(ctx context.Context, id string) (*model.Session, error) {
	return s.cache.Get(ctx, id)
}

// Update loads the session, applies fn and saves the result. With create set,
// a missing session starts empty instead of failing. fn returning an error
// aborts the save.
func (s *SessionService) Update(ctx context.Context, id string, create bool, fn func(*model.Session) error) (*model.Session, error) {
	unlock := s.lock(id)
	defer unlock()

	session, err := s.cache.Get(ctx, id)
	if errors.Is(err, cache.ErrSessionNotFound) && create {
		session, err = model.NewSession(id), nil
	}
	if err != nil {
		return nil, err
	}

	if err := fn(session); err != nil {
		return session, err
	}
	if err := s.cache.Set(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Delete drops the session
func (s *SessionService) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, id)
}

func (s *SessionService) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}
