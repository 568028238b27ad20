// Package session persists conversation memory between turns.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"glowbook/models"
)

const sessionPrefix = "chat:session:"

// Store loads and saves per-session conversation memory. Get never fails on
// a missing session; it returns a fresh memory so the first message of a
// conversation needs no separate bootstrap call.
type Store interface {
	Get(ctx context.Context, sessionID, language string) (*models.ConversationMemory, error)
	Save(ctx context.Context, mem *models.ConversationMemory) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisStore keeps sessions as JSON blobs with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, sessionID, language string) (*models.ConversationMemory, error) {
	data, err := s.client.Get(ctx, sessionPrefix+sessionID).Result()
	if err == redis.Nil {
		return models.NewConversationMemory(sessionID, language), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	var mem models.ConversationMemory
	if err := json.Unmarshal([]byte(data), &mem); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	// Stored state strings are re-validated so a schema drift cannot strand
	// a session in an unknown stage.
	mem.State = models.StateFromString(string(mem.State))
	if mem.Intent == nil {
		mem.Intent = models.NewIntentRecord()
	}
	return &mem, nil
}

func (s *RedisStore) Save(ctx context.Context, mem *models.ConversationMemory) error {
	mem.UpdatedAt = time.Now()
	b, err := json.Marshal(mem)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", mem.SessionID, err)
	}
	if err := s.client.Set(ctx, sessionPrefix+mem.SessionID, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", mem.SessionID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionPrefix+sessionID).Err()
}
