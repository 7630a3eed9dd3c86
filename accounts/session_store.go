package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrSessionNotFound = errors.New("reset session not found")

// ResetSession is what survives between visiting a reset link and submitting
// the new password.
type ResetSession struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

// ResetSessionStore keeps reset sessions keyed by an opaque id that travels in
// a cookie.
type ResetSessionStore interface {
	Create(ctx context.Context, session ResetSession, ttl time.Duration) (string, error)
	Get(ctx context.Context, id string) (*ResetSession, error)
	Delete(ctx context.Context, id string) error
}

type RedisKeyParser struct {
	prefix    string
	delimiter string
}

func (r RedisKeyParser) ValidateId(id string) bool {
	return id != "" && !strings.Contains(id, r.delimiter)
}

func (r RedisKeyParser) EncodeSessionKey(id string) (string, error) {
	if !r.ValidateId(id) {
		return "", fmt.Errorf("invalid session id: %s", id)
	}
	return fmt.Sprintf("%s%s%s", r.prefix, r.delimiter, id), nil
}

func (r RedisKeyParser) DecodeSessionKey(key string) (string, error) {
	splits := strings.Split(key, r.delimiter)
	if len(splits) != 2 || splits[0] != r.prefix {
		return "", fmt.Errorf("invalid key: %s", key)
	}
	return splits[1], nil
}

type RedisResetSessionStore struct {
	inner     *redis.Client
	keyParser RedisKeyParser
}

func NewRedisResetSessionStore(client *redis.Client) *RedisResetSessionStore {
	return &RedisResetSessionStore{
		inner:     client,
		keyParser: RedisKeyParser{prefix: "reset_session", delimiter: "__"},
	}
}

func (r *RedisResetSessionStore) Create(ctx context.Context, session ResetSession, ttl time.Duration) (string, error) {
	id := uuid.New().String()
	key, err := r.keyParser.EncodeSessionKey(id)
	if err != nil {
		return "", err
	}
	encoded, err := json.Marshal(session)
	if err != nil {
		return "", errors.Wrap(err, "fail to encode reset session")
	}
	if err := r.inner.Set(ctx, key, encoded, ttl).Err(); err != nil {
		return "", errors.Wrap(err, "fail to store reset session")
	}
	return id, nil
}

func (r *RedisResetSessionStore) Get(ctx context.Context, id string) (*ResetSession, error) {
	key, err := r.keyParser.EncodeSessionKey(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	raw, err := r.inner.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "fail to load reset session")
	}
	var session ResetSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, errors.Wrap(err, "fail to decode reset session")
	}
	return &session, nil
}

func (r *RedisResetSessionStore) Delete(ctx context.Context, id string) error {
	key, err := r.keyParser.EncodeSessionKey(id)
	if err != nil {
		return nil
	}
	return r.inner.Del(ctx, key).Err()
}

type memorySession struct {
	session   ResetSession
	expiresAt time.Time
}

// MemoryResetSessionStore is a process local store for development and tests.
type MemoryResetSessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

func NewMemoryResetSessionStore() *MemoryResetSessionStore {
	return &MemoryResetSessionStore{sessions: map[string]memorySession{}, now: time.Now}
}

func (m *MemoryResetSessionStore) Create(ctx context.Context, session ResetSession, ttl time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New().String()
	m.sessions[id] = memorySession{session: session, expiresAt: m.now().Add(ttl)}
	return id, nil
}

func (m *MemoryResetSessionStore) Get(ctx context.Context, id string) (*ResetSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if m.now().After(s.expiresAt) {
		delete(m.sessions, id)
		return nil, ErrSessionNotFound
	}
	session := s.session
	return &session, nil
}

func (m *MemoryResetSessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
