package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"storefront-service/models"
)

// Producer publishes cart activity events. A nil Producer is valid and
// publishes nothing, so callers can run without a broker.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer returns nil when no brokers are configured.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 {
		return nil
	}
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: writer, topic: topic}
}

// Publish sends a cart event keyed by user, so per-user ordering holds.
func (p *Producer) Publish(event models.CartEvent) {
	if p == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("Failed to marshal cart event", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		zap.L().Warn("Failed to publish cart event",
			zap.String("event", event.Event), zap.Error(err))
	}
}

func (p *Producer) Close() {
	if p != nil {
		_ = p.writer.Close()
	}
}
