package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"parcelflow/internal/adapters/out/kafka"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/notifications"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"
)

func newEvent() notifications.ParcelEvent {
	driverID := kernel.NewUUID()
	return notifications.ParcelEvent{
		Kind:           notifications.EventAssigned,
		ParcelID:       kernel.NewUUID(),
		TrackingNumber: "PF-23456789AB",
		Status:         "assigned",
		PreviousStatus: "pending",
		DriverID:       &driverID,
		OccurredAt:     time.Now().UTC(),
	}
}

func TestEventPublisher_Publish(t *testing.T) {
	t.Run("should publish event keyed by parcel id", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
		event := newEvent()

		producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
			key, err := msg.Key.Encode()
			require.NoError(t, err)
			require.Equal(t, event.ParcelID.String(), string(key))

			value, err := msg.Value.Encode()
			require.NoError(t, err)

			var decoded map[string]any
			require.NoError(t, json.Unmarshal(value, &decoded))
			require.Equal(t, notifications.EventAssigned, decoded["kind"])
			require.Equal(t, "PF-23456789AB", decoded["trackingNumber"])
			require.Equal(t, "assigned", decoded["status"])
			require.Equal(t, "pending", decoded["previousStatus"])
			require.Equal(t, event.DriverID.String(), decoded["driverId"])
			return nil
		})

		publisher := kafka.NewEventPublisher(producer, "parcel-events")
		err := publisher.Publish(context.Background(), event)

		require.NoError(t, err)
		require.NoError(t, producer.Close())
	})

	t.Run("should surface broker failure", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
		producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

		publisher := kafka.NewEventPublisher(producer, "parcel-events")
		err := publisher.Publish(context.Background(), newEvent())

		require.Error(t, err)
		require.ErrorIs(t, err, sarama.ErrOutOfBrokers)
		require.NoError(t, producer.Close())
	})

	t.Run("should not send on cancelled context", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		publisher := kafka.NewEventPublisher(producer, "parcel-events")
		err := publisher.Publish(ctx, newEvent())

		require.Error(t, err)
		require.ErrorIs(t, err, context.Canceled)
		require.NoError(t, producer.Close())
	})
}
