package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=../mocks/event_mock.go -package=mocks

import (
	"context"
	"fmt"

	"niseko/config"
	"niseko/infras/kafka"
	"niseko/infras/otel"
	"niseko/internal/domains/guest/model/dto"
	"niseko/shared/constant"
)

const (
	TopicCheckedIn  = "guest.checked_in"
	TopicCheckedOut = "guest.checked_out"
)

type Publisher interface {
	CheckedIn(ctx context.Context, event dto.CheckedInEvent) error
	CheckedOut(ctx context.Context, event dto.CheckedOutEvent) error
}

type publisherImpl struct {
	client kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

func New(client kafka.Client, cfg *config.Config, otel otel.Otel) Publisher {
	return &publisherImpl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

func (p *publisherImpl) CheckedIn(ctx context.Context, event dto.CheckedInEvent) error {
	return p.publish(ctx, orDefault(p.cfg.Kafka.Topics.GuestCheckedIn, TopicCheckedIn), event.GuestID, event)
}

func (p *publisherImpl) CheckedOut(ctx context.Context, event dto.CheckedOutEvent) error {
	return p.publish(ctx, orDefault(p.cfg.Kafka.Topics.GuestCheckedOut, TopicCheckedOut), event.GuestID, event)
}

// publish keys every message by guest id so one guest's events stay ordered on a partition.
func (p *publisherImpl) publish(ctx context.Context, topic, guestID string, value any) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		"event.topic": topic,
		"guest.id":    guestID,
	})

	if err = p.client.SendMessages(ctx, topic, kafka.Message{Key: guestID, Value: value}); err != nil {
		return fmt.Errorf("failed to publish %s for %s: %w", topic, guestID, err)
	}

	return nil
}

// CheckedInTopic is the topic check-in events are written to under cfg.
func CheckedInTopic(cfg *config.Config) string {
	return orDefault(cfg.Kafka.Topics.GuestCheckedIn, TopicCheckedIn)
}

func orDefault(value, fallback string) string {
	if value == constant.Empty {
		return fallback
	}

	return value
}
