package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// AnalysisLimiter limita cuántas imágenes analiza un usuario por ventana.
type AnalysisLimiter interface {
	Allow(ctx context.Context, userID string) bool
}

const redisAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisAnalysisLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

func NewRedisAnalysisLimiter(client *redis.Client, window time.Duration, max int) AnalysisLimiter {
	if client == nil {
		return nil
	}
	window, max = normalizeLimit(window, max)
	return &redisAnalysisLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "rx:rl:",
	}
}

// Allow falla abierto si Redis no responde.
func (l *redisAnalysisLimiter) Allow(ctx context.Context, userID string) bool {
	if l == nil || l.client == nil {
		return true
	}
	key := strings.TrimSpace(userID)
	if key == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, redisAllowScript, []string{l.prefix + key}, seconds).Int()
	if err != nil {
		return true
	}
	return count <= l.max
}

type memoryWindow struct {
	count   int
	resetAt time.Time
}

type memoryAnalysisLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	windows map[string]memoryWindow
	now     func() time.Time
}

func NewMemoryAnalysisLimiter(window time.Duration, max int) AnalysisLimiter {
	window, max = normalizeLimit(window, max)
	return &memoryAnalysisLimiter{
		window:  window,
		max:     max,
		windows: make(map[string]memoryWindow),
		now:     time.Now,
	}
}

func (l *memoryAnalysisLimiter) Allow(_ context.Context, userID string) bool {
	key := strings.TrimSpace(userID)
	if key == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	w := l.windows[key]
	if now.After(w.resetAt) {
		w = memoryWindow{resetAt: now.Add(l.window)}
	}
	w.count++
	l.windows[key] = w
	return w.count <= l.max
}

func normalizeLimit(window time.Duration, max int) (time.Duration, int) {
	if window <= 0 {
		window = 10 * time.Minute
	}
	if max <= 0 {
		max = 5
	}
	return window, max
}
