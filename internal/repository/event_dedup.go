package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventDeduper recuerda webhookEventId ya procesados.
type EventDeduper interface {
	FirstSeen(ctx context.Context, eventID string) (bool, error)
}

type redisSetNXClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

type redisEventDeduper struct {
	client redisSetNXClient
	prefix string
	ttl    time.Duration
}

func NewRedisEventDeduper(client *redis.Client, ttl time.Duration) EventDeduper {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisEventDeduper{
		client: client,
		prefix: "rx:event:",
		ttl:    ttl,
	}
}

func (d *redisEventDeduper) FirstSeen(ctx context.Context, eventID string) (bool, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return true, nil
	}
	return d.client.SetNX(ctx, d.prefix+eventID, 1, d.ttl).Result()
}

type memoryEventDeduper struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]time.Time
	now   func() time.Time
}

func NewMemoryEventDeduper(ttl time.Duration) EventDeduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &memoryEventDeduper{ttl: ttl, items: make(map[string]time.Time), now: time.Now}
}

func (d *memoryEventDeduper) FirstSeen(_ context.Context, eventID string) (bool, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return true, nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	d.prune(now)
	if _, ok := d.items[eventID]; ok {
		return false, nil
	}
	d.items[eventID] = now.Add(d.ttl)
	return true, nil
}

// prune borra los ids vencidos. Se llama con mu tomado.
func (d *memoryEventDeduper) prune(now time.Time) {
	for id, exp := range d.items {
		if !now.Before(exp) {
			delete(d.items, id)
		}
	}
}

// Len devuelve cuántos ids siguen vigentes en memoria.
func (d *memoryEventDeduper) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}
