package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mkmeuns06/ministore/internal/domain"
)

const orderPlacedEventType = "order.placed"

type orderPlacedPayload struct {
	OrderID     int64              `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	ClientID    int64              `json:"client_id"`
	Total       string             `json:"total"`
	Items       []domain.OrderItem `json:"items"`
	PlacedAt    time.Time          `json:"placed_at"`
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) OrderPlaced(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	payload, err := json.Marshal(orderPlacedPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		ClientID:    order.ClientID,
		Total:       order.Total.StringFixed(2),
		Items:       items,
		PlacedAt:    order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal order placed payload: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.OrderNumber), // order_number for per-order ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(orderPlacedEventType)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
