package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"socialimpact/internal/model"
)

// sweepEvery is the number of writes between expiry sweeps
const sweepEvery = 256

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

type memorySessionCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
	writes  int
}

// NewMemorySessionCache keeps sessions in process memory with the same
// expiry semantics as the Redis cache. Sessions are copied on the way in
// and out so callers never share state.
func NewMemorySessionCache(ttl time.Duration) SessionCache {
	return &memorySessionCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *memorySessionCache) Set(ctx context.Context, session *model.Session) error {
	session.UpdatedAt = c.now()
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[session.ID] = memoryEntry{data: data, expiresAt: c.now().Add(c.ttl)}
	c.writes++
	if c.writes >= sweepEvery {
		c.writes = 0
		c.evictExpired()
	}
	return nil
}

func (c *memorySessionCache) Get(ctx context.Context, id string) (*model.Session, error) {
	c.mu.Lock()
	entry, ok := c.entries[id]
	if ok && c.ttl > 0 && !c.now().Before(entry.expiresAt) {
		delete(c.entries, id)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	var session model.Session
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *memorySessionCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
	return nil
}

// evictExpired must be called with mu held
func (c *memorySessionCache) evictExpired() {
	if c.ttl <= 0 {
		return
	}
	now := c.now()
	for id, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, id)
		}
	}
}
