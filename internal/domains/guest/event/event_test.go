package event_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"niseko/config"
	"niseko/infras/kafka"
	kafkaMocks "niseko/infras/kafka/mocks"
	otelMocks "niseko/infras/otel/mocks"
	"niseko/internal/domains/guest/event"
	"niseko/internal/domains/guest/model/dto"
)

func TestPublisher_CheckedIn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := kafkaMocks.NewMockClient(ctrl)
	publisher := event.New(client, &config.Config{}, otelMocks.NewOtel())

	evt := dto.CheckedInEvent{GuestID: "g-1", ConfirmationCode: "NIS-ABC123"}

	client.EXPECT().
		SendMessages(gomock.Any(), event.TopicCheckedIn, kafka.Message{Key: "g-1", Value: evt}).
		Return(nil)

	assert.NoError(t, publisher.CheckedIn(context.Background(), evt))
}

func TestPublisher_CheckedInConfiguredTopic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := &config.Config{}
	cfg.Kafka.Topics.GuestCheckedIn = "hotel.checkins"

	client := kafkaMocks.NewMockClient(ctrl)
	publisher := event.New(client, cfg, otelMocks.NewOtel())

	client.EXPECT().
		SendMessages(gomock.Any(), "hotel.checkins", gomock.Any()).
		Return(errors.New("broker down"))

	err := publisher.CheckedIn(context.Background(), dto.CheckedInEvent{GuestID: "g-1"})
	assert.ErrorContains(t, err, "broker down")
	assert.Equal(t, "hotel.checkins", event.CheckedInTopic(cfg))
}

func TestPublisher_CheckedOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := kafkaMocks.NewMockClient(ctrl)
	publisher := event.New(client, &config.Config{}, otelMocks.NewOtel())

	evt := dto.CheckedOutEvent{GuestID: "g-1", RoomNumber: "301"}

	client.EXPECT().
		SendMessages(gomock.Any(), event.TopicCheckedOut, kafka.Message{Key: "g-1", Value: evt}).
		Return(nil)

	assert.NoError(t, publisher.CheckedOut(context.Background(), evt))
}
