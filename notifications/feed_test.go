package notifications

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newTestRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: "localhost:0",
		Dialer: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return nil, errors.New("redis disabled in tests")
		},
	})
}

func TestNotifyIsBestEffort(t *testing.T) {
	feed := NewFeed(newTestRedisClient(), time.Hour)

	// Delivery failure must never panic or propagate into the cart flow.
	assert.NotPanics(t, func() {
		feed.Notify(context.Background(), "user-1", "warning", "stock changed")
	})
}

func TestRecentSurfacesRedisError(t *testing.T) {
	feed := NewFeed(newTestRedisClient(), time.Hour)

	_, err := feed.Recent(context.Background(), "user-1", 10)
	assert.Error(t, err)
}
