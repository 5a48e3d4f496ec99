package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// UserLocker da exclusión mutua por userId alrededor del read-modify-write de la sesión.
type UserLocker interface {
	Lock(ctx context.Context, userID string) (unlock func(), err error)
}

var ErrLockTimeout = errors.New("user lock timeout")

const redisUnlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

type redisLockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisUserLocker struct {
	client redisLockClient
	prefix string
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

// NewRedisUserLocker usa SET NX PX con un token propio y libera con un script Lua.
func NewRedisUserLocker(client *redis.Client) UserLocker {
	if client == nil {
		return nil
	}
	return &redisUserLocker{
		client: client,
		prefix: "rx:lock:",
		ttl:    10 * time.Second,
		wait:   5 * time.Second,
		retry:  50 * time.Millisecond,
	}
}

func (l *redisUserLocker) Lock(ctx context.Context, userID string) (func(), error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	key := l.prefix + userID
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}

		timer := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ErrLockTimeout
		case <-timer.C:
		}
	}
}

func (l *redisUserLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	// Si el lock expiró y otro lo tomó, el script no lo borra.
	_ = l.client.Eval(ctx, redisUnlockScript, []string{key}, token).Err()
}

// lockSlot es el semáforo de un usuario; refs cuenta quién lo tiene o lo espera.
type lockSlot struct {
	ch   chan struct{}
	refs int
}

type memoryUserLocker struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
}

func NewMemoryUserLocker() UserLocker {
	return &memoryUserLocker{slots: make(map[string]*lockSlot)}
}

func (l *memoryUserLocker) Lock(ctx context.Context, userID string) (func(), error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrEmptyUserID
	}
	l.mu.Lock()
	slot, ok := l.slots[userID]
	if !ok {
		slot = &lockSlot{ch: make(chan struct{}, 1)}
		l.slots[userID] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(userID, slot)
		return nil, ErrLockTimeout
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.ch
			l.release(userID, slot)
		})
	}, nil
}

// release suelta una referencia y borra el slot cuando nadie lo usa.
func (l *memoryUserLocker) release(userID string, slot *lockSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 && l.slots[userID] == slot {
		delete(l.slots, userID)
	}
}

func (l *memoryUserLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
