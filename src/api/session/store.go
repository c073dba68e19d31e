package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pulseform/survey-api/src/api/data"
)

const ttl = 30 * time.Minute

// Store holds in-flight sessions. Sessions are ephemeral: expiry or a restart
// simply restarts the respondent from the first question.
type Store interface {
	Put(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	session *Session
	expires time.Time
}

func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]memoryEntry)}
}

func (m *memoryStore) Put(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purge()
	m.sessions[s.ID] = memoryEntry{session: s, expires: time.Now().Add(ttl)}
	return nil
}

func (m *memoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok || time.Now().After(e.expires) {
		delete(m.sessions, id)
		return nil, ErrNotFound
	}
	return e.session, nil
}

func (m *memoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memoryStore) purge() {
	now := time.Now()
	for id, e := range m.sessions {
		if now.After(e.expires) {
			delete(m.sessions, id)
		}
	}
}

type redisStore struct {
	rdb *redis.Client
}

// NewRedisStore keeps sessions in Redis with a TTL, so the questionnaire flow
// survives an API restart and multiple instances can share sessions.
func NewRedisStore(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

func (r *redisStore) Put(ctx context.Context, s *Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return data.SetSession(ctx, r.rdb, s.ID, payload)
}

func (r *redisStore) Get(ctx context.Context, id string) (*Session, error) {
	payload, err := data.GetSession(ctx, r.rdb, id)
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *redisStore) Delete(ctx context.Context, id string) error {
	return data.DelSession(ctx, r.rdb, id)
}
