package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errx "github.com/orderchat-poc/server/internal/core/error"
	"github.com/orderchat-poc/server/internal/engine/model"
	logx "github.com/orderchat-poc/server/pkg/logger"
)

// RedisDraftRepository keeps one JSON draft value per conversation, refreshed
// with a TTL on every write so abandoned carts expire on their own.
type RedisDraftRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisDraftRepository(rdb redis.Cmdable, ttl time.Duration) *RedisDraftRepository {
	return &RedisDraftRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisDraftRepository) draftKey(conversationID string) string {
	return fmt.Sprintf("draft:%s", conversationID)
}

func (r *RedisDraftRepository) Get(ctx context.Context, conversationID string) (*model.Draft, error) {
	raw, err := r.rdb.Get(ctx, r.draftKey(conversationID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logx.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to load draft from redis")
		return nil, errx.WrapRedis(err)
	}

	var d model.Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		logx.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to unmarshal draft")
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &d, nil
}

func (r *RedisDraftRepository) Put(ctx context.Context, conversationID string, draft *model.Draft) error {
	b, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := r.rdb.Set(ctx, r.draftKey(conversationID), b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to store draft in redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisDraftRepository) Delete(ctx context.Context, conversationID string) error {
	if err := r.rdb.Del(ctx, r.draftKey(conversationID)).Err(); err != nil {
		logx.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to delete draft from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.DraftRepository = (*RedisDraftRepository)(nil)

// RedisConversationRepository keeps a bounded transcript list per
// conversation, trimmed to the most recent maxMessages entries with the TTL
// extended on touch.
type RedisConversationRepository struct {
	rdb         redis.Cmdable
	ttl         time.Duration
	maxMessages int
}

func NewRedisConversationRepository(rdb redis.Cmdable, ttl time.Duration, maxMessages int) *RedisConversationRepository {
	if maxMessages <= 0 {
		maxMessages = 10
	}
	return &RedisConversationRepository{rdb: rdb, ttl: ttl, maxMessages: maxMessages}
}

func (r *RedisConversationRepository) conversationKey(conversationID string) string {
	return fmt.Sprintf("conversation:%s:messages", conversationID)
}

func (r *RedisConversationRepository) AddMessage(ctx context.Context, conversationID string, msg model.TranscriptMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		logx.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to marshal transcript message")
		return fmt.Errorf("marshal transcript message: %w", err)
	}
	key := r.conversationKey(conversationID)

	if err := r.rdb.RPush(ctx, key, b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push transcript message to redis")
		return errx.WrapRedis(err)
	}
	// keep only the most recent entries
	if err := r.rdb.LTrim(ctx, key, int64(-r.maxMessages), -1).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to trim transcript")
		return errx.WrapRedis(err)
	}
	// extend TTL on touch
	if r.ttl > 0 {
		if ok, err := r.rdb.Expire(ctx, key, r.ttl).Result(); err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to set expire")
			return errx.WrapRedis(err)
		} else if !ok {
			logx.Warn().Str("key", key).Dur("ttl", r.ttl).Msg("failed to set TTL on conversation key")
		}
	}
	return nil
}

func (r *RedisConversationRepository) LoadHistory(ctx context.Context, conversationID string) ([]model.TranscriptMessage, error) {
	key := r.conversationKey(conversationID)

	rows, err := r.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []model.TranscriptMessage{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load transcript from redis")
		return nil, errx.WrapRedis(err)
	}

	msgs := make([]model.TranscriptMessage, 0, len(rows))
	for i, s := range rows {
		var m model.TranscriptMessage
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			logx.Error().Err(err).Str("conversation_id", conversationID).Int("index", i).Msg("failed to unmarshal transcript message")
			return nil, fmt.Errorf("unmarshal transcript message at index %d: %w", i, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func (r *RedisConversationRepository) ClearHistory(ctx context.Context, conversationID string) error {
	key := r.conversationKey(conversationID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete transcript from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.ConversationRepository = (*RedisConversationRepository)(nil)
