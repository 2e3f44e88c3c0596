package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// StateTTL bounds how long a login attempt may take.
const StateTTL = 10 * time.Minute

// StateStore keeps OAuth state values between the login redirect and the callback.
type StateStore interface {
	Save(ctx context.Context, state, provider string) error
	// Consume removes state and reports whether it was issued for provider.
	Consume(ctx context.Context, state, provider string) (bool, error)
}

// NewState returns a fresh unguessable state value.
func NewState() string {
	return uuid.NewString()
}

// RedisStateStore shares OAuth state across instances.
type RedisStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStateStore parses url and pings the server.
func NewRedisStateStore(ctx context.Context, url string) (*RedisStateStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &RedisStateStore{client: client, ttl: StateTTL}, nil
}

func stateKey(state string) string { return "oauth_state:" + state }

func (s *RedisStateStore) Save(ctx context.Context, state, provider string) error {
	return s.client.Set(ctx, stateKey(state), provider, s.ttl).Err()
}

func (s *RedisStateStore) Consume(ctx context.Context, state, provider string) (bool, error) {
	stored, err := s.client.GetDel(ctx, stateKey(state)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == provider, nil
}

// Close releases the redis connection pool.
func (s *RedisStateStore) Close() error {
	return s.client.Close()
}

// MemoryStateStore is a single-process StateStore.
type MemoryStateStore struct {
	mu      sync.Mutex
	entries map[string]memoryState
	ttl     time.Duration
	now     func() time.Time
}

type memoryState struct {
	provider string
	expires  time.Time
}

// NewMemoryStateStore constructs an empty MemoryStateStore.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{entries: make(map[string]memoryState), ttl: StateTTL, now: time.Now}
}

func (s *MemoryStateStore) Save(_ context.Context, state, provider string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, entry := range s.entries {
		if now.After(entry.expires) {
			delete(s.entries, key)
		}
	}
	s.entries[state] = memoryState{provider: provider, expires: now.Add(s.ttl)}
	return nil
}

func (s *MemoryStateStore) Consume(_ context.Context, state, provider string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[state]
	if !ok {
		return false, nil
	}
	delete(s.entries, state)
	if s.now().After(entry.expires) {
		return false, nil
	}
	return entry.provider == provider, nil
}

var (
	_ StateStore = (*RedisStateStore)(nil)
	_ StateStore = (*MemoryStateStore)(nil)
)
