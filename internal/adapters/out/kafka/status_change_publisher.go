// Package kafka publishes committed status changes for the notification
// pipeline. Which statuses reach customers is decided by the caller; this
// adapter only serializes and writes.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"servicedesk/internal/core/domain/model/history"

	"github.com/segmentio/kafka-go"
)

// StatusChangedEvent is the message body. Messages are keyed by order id so
// the changes of one order stay in one partition, in order.
type StatusChangedEvent struct {
	OrderID    string `json:"order_id"`
	FromStatus string `json:"from_status,omitempty"`
	ToStatus   string `json:"to_status"`
	Reason     string `json:"reason"`
	ActorID    string `json:"actor_id"`
	OccurredAt string `json:"occurred_at"`
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// StatusChangePublisher implements ports.StatusChangePublisher.
type StatusChangePublisher struct {
	writer messageWriter
}

// NewStatusChangePublisher creates a publisher writing to topic on brokers.
func NewStatusChangePublisher(brokers []string, topic string) *StatusChangePublisher {
	return newStatusChangePublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	})
}

func newStatusChangePublisher(writer messageWriter) *StatusChangePublisher {
	return &StatusChangePublisher{writer: writer}
}

func (p *StatusChangePublisher) Publish(ctx context.Context, entry *history.StatusTransition) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	event := StatusChangedEvent{
		OrderID:    entry.OrderID().String(),
		ToStatus:   entry.To().String(),
		Reason:     entry.Reason(),
		ActorID:    entry.ActorID().String(),
		OccurredAt: entry.OccurredAt().UTC().Format(time.RFC3339Nano),
	}
	if !entry.IsInitial() {
		event.FromStatus = entry.From().String()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal status change: %w", err)
	}

	if err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: body,
		Time:  entry.OccurredAt(),
	}); err != nil {
		return fmt.Errorf("publish status change of order %s: %w", event.OrderID, err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *StatusChangePublisher) Close() error {
	return p.writer.Close()
}
