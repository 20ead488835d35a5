package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned for unknown, expired or deleted sessions.
var ErrSessionNotFound = errors.New("session not found")

// Registry keeps sessions alive between requests.
type Registry interface {
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// MemoryRegistry is a Registry local to one process.
type MemoryRegistry struct {
	mu       sync.Mutex
	sessions map[string]memEntry
	now      func() time.Time
}

type memEntry struct {
	s   Session
	exp time.Time
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{sessions: map[string]memEntry{}, now: time.Now}
}

func (m *MemoryRegistry) Save(_ context.Context, s *Session, ttl time.Duration) error {
	if s.ID == "" {
		return errors.New("session has no id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = memEntry{s: *s, exp: m.now().Add(ttl)}
	return nil
}

func (m *MemoryRegistry) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if m.now().After(e.exp) {
		delete(m.sessions, id)
		return nil, ErrSessionNotFound
	}
	s := e.s
	return &s, nil
}

func (m *MemoryRegistry) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// RedisRegistry stores sessions as JSON under Prefix+id with a TTL, so
// several server processes can share them.
type RedisRegistry struct {
	rdb    *redis.Client
	Prefix string
}

func NewRedisRegistry(rdb *redis.Client) *RedisRegistry {
	return &RedisRegistry{rdb: rdb, Prefix: "mentor:session:"}
}

func (r *RedisRegistry) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	if s.ID == "" {
		return errors.New("session has no id")
	}
	bs, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.Prefix+s.ID, bs, ttl).Err()
}

func (r *RedisRegistry) Get(ctx context.Context, id string) (*Session, error) {
	bs, err := r.rdb.Get(ctx, r.Prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(bs, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisRegistry) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, r.Prefix+id).Err()
}
