package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"rx-line/internal/domain"
)

type mockRedisKVClient struct {
	values map[string]string

	lastSetKey string
	lastSetTTL time.Duration
	lastDel    []string

	getErr error
	setErr error
}

func newMockRedisKVClient() *mockRedisKVClient {
	return &mockRedisKVClient{values: make(map[string]string)}
}

func (m *mockRedisKVClient) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if m.getErr != nil {
		cmd.SetErr(m.getErr)
		return cmd
	}
	v, ok := m.values[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (m *mockRedisKVClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.lastSetKey = key
	m.lastSetTTL = expiration
	cmd := redis.NewStatusCmd(ctx)
	if m.setErr != nil {
		cmd.SetErr(m.setErr)
		return cmd
	}
	switch v := value.(type) {
	case []byte:
		m.values[key] = string(v)
	case string:
		m.values[key] = v
	}
	cmd.SetVal("OK")
	return cmd
}

func (m *mockRedisKVClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.lastDel = keys
	cmd := redis.NewIntCmd(ctx)
	for _, k := range keys {
		delete(m.values, k)
	}
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func TestRedisSessionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	mock := newMockRedisKVClient()
	store := &RedisSessionStore{client: mock, prefix: "rx:session:", ttl: 0}

	s, err := store.Get(ctx, "U1")
	if err != nil || s.Stage() != domain.StageNoSession {
		t.Fatalf("expected no session, got %+v, %v", s, err)
	}

	first, _ := domain.NewAwaitingFirstSelection("https://i.gyazo.com/a.png")
	if err := store.Put(ctx, "U1", first); err != nil {
		t.Fatalf("put: %v", err)
	}
	if mock.lastSetKey != "rx:session:U1" {
		t.Fatalf("unexpected key %q", mock.lastSetKey)
	}
	if mock.lastSetTTL != 0 {
		t.Fatalf("expected no ttl, got %v", mock.lastSetTTL)
	}
	if mock.values["rx:session:U1"] != `{"imageURL":"https://i.gyazo.com/a.png"}` {
		t.Fatalf("unexpected blob %q", mock.values["rx:session:U1"])
	}

	got, err := store.Get(ctx, "U1")
	if err != nil || got != first {
		t.Fatalf("expected %+v, got %+v, %v", first, got, err)
	}

	if err := store.Delete(ctx, "U1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(mock.lastDel) != 1 || mock.lastDel[0] != "rx:session:U1" {
		t.Fatalf("unexpected del keys %+v", mock.lastDel)
	}
	s, _ = store.Get(ctx, "U1")
	if s.Stage() != domain.StageNoSession {
		t.Fatalf("expected session deleted, got %+v", s)
	}
}

func TestRedisSessionStore_Errors(t *testing.T) {
	ctx := context.Background()
	mock := newMockRedisKVClient()
	store := &RedisSessionStore{client: mock, prefix: "rx:session:", ttl: time.Hour}

	if _, err := store.Get(ctx, "  "); !errors.Is(err, ErrEmptyUserID) {
		t.Fatalf("expected ErrEmptyUserID, got %v", err)
	}
	if err := store.Put(ctx, "U1", domain.NoSession()); err == nil {
		t.Fatalf("expected error storing empty session")
	}

	mock.values["rx:session:U1"] = `{"guidanceTime":"10:00 ~ 10:30"}`
	if _, err := store.Get(ctx, "U1"); !errors.Is(err, domain.ErrSessionCorrupt) {
		t.Fatalf("expected ErrSessionCorrupt, got %v", err)
	}

	mock.getErr = errors.New("redis down")
	if _, err := store.Get(ctx, "U1"); err == nil {
		t.Fatalf("expected get error")
	}
	mock.setErr = errors.New("redis down")
	first, _ := domain.NewAwaitingFirstSelection("https://i.gyazo.com/a.png")
	if err := store.Put(ctx, "U1", first); err == nil {
		t.Fatalf("expected put error")
	}
	if mock.lastSetTTL != time.Hour {
		t.Fatalf("expected ttl to be forwarded, got %v", mock.lastSetTTL)
	}
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	first, _ := domain.NewAwaitingFirstSelection("https://i.gyazo.com/a.png")
	final, _ := first.WithGuidance("10:00 ~ 10:30")
	if err := store.Put(ctx, "U1", final); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(ctx, "U1")
	if err != nil || got != final {
		t.Fatalf("expected %+v, got %+v, %v", final, got, err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", store.Len())
	}
	if err := store.Delete(ctx, "U1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected no sessions, got %d", store.Len())
	}
	if err := store.Put(ctx, "", final); !errors.Is(err, ErrEmptyUserID) {
		t.Fatalf("expected ErrEmptyUserID, got %v", err)
	}
}
