package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"rx-line/internal/domain"
)

// SessionStore guarda el estado del flujo por userId. No ofrece transacciones:
// el read-modify-write se serializa con UserLocker.
type SessionStore interface {
	Get(ctx context.Context, userID string) (domain.Session, error)
	Put(ctx context.Context, userID string, session domain.Session) error
	Delete(ctx context.Context, userID string) error
}

var ErrEmptyUserID = errors.New("empty user id")

type redisKVClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisSessionStore persiste la sesión como JSON bajo rx:session:<userId>.
type RedisSessionStore struct {
	client redisKVClient
	prefix string
	ttl    time.Duration
}

// NewRedisSessionStore crea el store; ttl 0 significa sin expiración.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		prefix: "rx:session:",
		ttl:    ttl,
	}
}

func (s *RedisSessionStore) Get(ctx context.Context, userID string) (domain.Session, error) {
	key, err := s.key(userID)
	if err != nil {
		return domain.Session{}, err
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.NoSession(), nil
	}
	if err != nil {
		return domain.Session{}, err
	}
	return domain.DecodeSession(data)
}

func (s *RedisSessionStore) Put(ctx context.Context, userID string, session domain.Session) error {
	key, err := s.key(userID)
	if err != nil {
		return err
	}
	data, err := domain.EncodeSession(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, userID string) error {
	key, err := s.key(userID)
	if err != nil {
		return err
	}
	return s.client.Del(ctx, key).Err()
}

func (s *RedisSessionStore) key(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", ErrEmptyUserID
	}
	return s.prefix + userID, nil
}

// MemorySessionStore se usa en tests y cuando no hay Redis configurado.
type MemorySessionStore struct {
	mu    sync.Mutex
	items map[string][]byte
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{items: make(map[string][]byte)}
}

func (s *MemorySessionStore) Get(_ context.Context, userID string) (domain.Session, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Session{}, ErrEmptyUserID
	}
	s.mu.Lock()
	data, ok := s.items[userID]
	s.mu.Unlock()
	if !ok {
		return domain.NoSession(), nil
	}
	return domain.DecodeSession(data)
}

func (s *MemorySessionStore) Put(_ context.Context, userID string, session domain.Session) error {
	if strings.TrimSpace(userID) == "" {
		return ErrEmptyUserID
	}
	data, err := domain.EncodeSession(session)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[userID] = data
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrEmptyUserID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, userID)
	return nil
}

// Len devuelve la cantidad de sesiones activas.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
