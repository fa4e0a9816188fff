package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	openrouter "github.com/revrost/go-openrouter"
)

// SessionStore persists chat histories per conversation key with a TTL, so
// conversation state lives outside the process and expires on its own.
// Histories are capped at maxMessages; the leading system prompt survives
// trimming.
type SessionStore struct {
	redis       *RedisClient
	ttl         time.Duration
	maxMessages int
}

// NewSessionStore creates a SessionStore.
func NewSessionStore(redis *RedisClient, ttl time.Duration, maxMessages int) *SessionStore {
	if maxMessages <= 0 {
		maxMessages = 40
	}
	return &SessionStore{redis: redis, ttl: ttl, maxMessages: maxMessages}
}

func sessionKey(distributorID, salespersonID int) string {
	return fmt.Sprintf("chat:session:%d:%d", distributorID, salespersonID)
}

// Get loads the stored history for a session; a missing key yields nil.
func (s *SessionStore) Get(ctx context.Context, distributorID, salespersonID int) ([]openrouter.ChatCompletionMessage, error) {
	raw, err := s.redis.Get(ctx, sessionKey(distributorID, salespersonID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var messages []openrouter.ChatCompletionMessage
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		// A corrupt session is dropped rather than wedging the conversation.
		_ = s.redis.Delete(ctx, sessionKey(distributorID, salespersonID))
		return nil, nil
	}
	return messages, nil
}

// Save trims and stores the history, refreshing the TTL.
func (s *SessionStore) Save(ctx context.Context, distributorID, salespersonID int, messages []openrouter.ChatCompletionMessage) error {
	trimmed := TrimHistory(messages, s.maxMessages)
	raw, err := json.Marshal(trimmed)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, sessionKey(distributorID, salespersonID), string(raw), s.ttl)
}

// Clear drops a session.
func (s *SessionStore) Clear(ctx context.Context, distributorID, salespersonID int) error {
	return s.redis.Delete(ctx, sessionKey(distributorID, salespersonID))
}

// TrimHistory caps a history at max messages, keeping the newest ones. When
// the first message is the system prompt it is always retained.
func TrimHistory(messages []openrouter.ChatCompletionMessage, max int) []openrouter.ChatCompletionMessage {
	if max <= 0 || len(messages) <= max {
		return messages
	}
	if messages[0].Role == openrouter.ChatMessageRoleSystem {
		keep := max - 1
		if keep <= 0 {
			return messages[:1]
		}
		start := len(messages) - keep
		trimmed := make([]openrouter.ChatCompletionMessage, 0, max)
		trimmed = append(trimmed, messages[0])
		trimmed = append(trimmed, messages[start:]...)
		return trimmed
	}
	return messages[len(messages)-max:]
}
