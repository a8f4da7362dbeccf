// Package kafka publishes parcel lifecycle events to a Kafka topic for
// downstream consumers outside this service.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"parcelflow/internal/notifications"

	"github.com/IBM/sarama"
)

// parcelEventMessage is the wire shape of one published event. Optional ids
// are strings to keep the payload language-neutral.
type parcelEventMessage struct {
	Kind           string    `json:"kind"`
	ParcelID       string    `json:"parcelId"`
	TrackingNumber string    `json:"trackingNumber"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
	DriverID       string    `json:"driverId,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// EventPublisher implements notifications.EventPublisher on a Kafka sync
// producer. Messages are keyed by parcel id so all events of one parcel land
// on one partition in order.
type EventPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewEventPublisher creates a publisher over an existing sync producer.
func NewEventPublisher(producer sarama.SyncProducer, topic string) *EventPublisher {
	return &EventPublisher{
		producer: producer,
		topic:    topic,
	}
}

// NewSyncProducer connects a sync producer suitable for the event publisher:
// acknowledgment from all in-sync replicas and bounded retries.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect kafka producer: %w", err)
	}

	return producer, nil
}

// Publish sends one event to the topic. The context is checked before the
// blocking send; sarama itself does not take a context.
func (p *EventPublisher) Publish(ctx context.Context, event notifications.ParcelEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message := parcelEventMessage{
		Kind:           event.Kind,
		ParcelID:       event.ParcelID.String(),
		TrackingNumber: event.TrackingNumber,
		Status:         event.Status,
		PreviousStatus: event.PreviousStatus,
		Notes:          event.Notes,
		OccurredAt:     event.OccurredAt,
	}
	if event.DriverID != nil {
		message.DriverID = event.DriverID.String()
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode parcel event: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.ParcelID.String()),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("failed to publish parcel event: %w", err)
	}

	return nil
}

// Close releases the underlying producer.
func (p *EventPublisher) Close() error {
	return p.producer.Close()
}
