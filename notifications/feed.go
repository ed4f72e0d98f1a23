package notifications

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// maxPerUser caps how many notifications are retained per user.
const maxPerUser = 50

// Notification is one user-visible message about cart or stock changes.
type Notification struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Feed stores per-user notifications in a capped Redis list. Delivery is
// best effort: Redis failures are logged and the notification dropped,
// never surfaced to the cart flow that produced it.
type Feed struct {
	client *redis.Client
	ttl    time.Duration
}

func NewFeed(client *redis.Client, ttl time.Duration) *Feed {
	return &Feed{client: client, ttl: ttl}
}

func (f *Feed) key(userID string) string {
	return "notify:user:" + userID
}

// Notify pushes a notification onto the user's feed.
func (f *Feed) Notify(ctx context.Context, userID, level, message string) {
	n := Notification{
		ID:        uuid.New().String(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(n)
	if err != nil {
		zap.L().Error("Failed to marshal notification", zap.Error(err))
		return
	}

	key := f.key(userID)
	pipe := f.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, maxPerUser-1)
	pipe.Expire(ctx, key, f.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		zap.L().Warn("Failed to store notification",
			zap.String("user_id", userID), zap.Error(err))
	}
}

// Recent returns the newest notifications, most recent first.
func (f *Feed) Recent(ctx context.Context, userID string, limit int) ([]Notification, error) {
	if limit <= 0 || limit > maxPerUser {
		limit = maxPerUser
	}

	raw, err := f.client.LRange(ctx, f.key(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	out := make([]Notification, 0, len(raw))
	for _, entry := range raw {
		var n Notification
		if err := json.Unmarshal([]byte(entry), &n); err != nil {
			zap.L().Warn("Skipping malformed notification entry", zap.Error(err))
			continue
		}
		out = append(out, n)
	}
	return out, nil
}
